package report

import (
	"context"
	"time"
)

type Repository interface {
	SumPendingLoans(ctx context.Context) (float64, error)

	// SumDisbursedSince totals approved loan amounts with approved_on on or after since.
	SumDisbursedSince(ctx context.Context, since time.Time) (float64, error)

	SumRepaidSince(ctx context.Context, since time.Time) (float64, error)

	DisbursedByMonth(ctx context.Context) ([]MonthTotal, error)

	RepaidByMonth(ctx context.Context) ([]MonthTotal, error)
}
