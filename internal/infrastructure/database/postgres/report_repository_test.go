package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/domain/report"
	"loan-backoffice/internal/pkg/apperrors"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReportRepo(t *testing.T) (context.Context, *ReportRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool := newMockPool(t)
	return context.Background(), NewReportRepository(mockPool, newTestLogger()), mockPool
}

func TestReportRepositorySums(t *testing.T) {
	ctx, repo, mockPool := setupReportRepo(t)
	// 23:00 on the 15th in UTC-5 is still the 15th locally.
	since := time.Date(2025, 6, 15, 23, 0, 0, 0, time.FixedZone("COT", -5*60*60))

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM loan_applications WHERE status = $1")).
		WithArgs(loan.StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(2500.0))
	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND approved_on >= $2::date")).
		WithArgs(loan.StatusApproved, "2025-06-15").
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(1000.0))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM loan_repayments WHERE date >= $1::date")).
		WithArgs("2025-06-15").
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(0.0))

	pending, err := repo.SumPendingLoans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, pending)

	disbursed, err := repo.SumDisbursedSince(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, disbursed)

	repaid, err := repo.SumRepaidSince(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, 0.0, repaid)

	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestReportRepositoryMonthly(t *testing.T) {
	ctx, repo, mockPool := setupReportRepo(t)

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT to_char(approved_on, 'YYYY-MM') AS month")).
		WithArgs(loan.StatusApproved).
		WillReturnRows(pgxmock.NewRows([]string{"month", "total"}).
			AddRow("2025-04", 1000.0).
			AddRow("2025-05", 750.0))
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT to_char(date, 'YYYY-MM') AS month")).
		WillReturnRows(pgxmock.NewRows([]string{"month", "total"}))

	disbursed, err := repo.DisbursedByMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, []report.MonthTotal{{Month: "2025-04", Total: 1000}, {Month: "2025-05", Total: 750}}, disbursed)

	repaid, err := repo.RepaidByMonth(ctx)
	require.NoError(t, err)
	assert.NotNil(t, repaid)
	assert.Empty(t, repaid)

	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestReportRepositoryError(t *testing.T) {
	ctx, repo, mockPool := setupReportRepo(t)
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM loan_applications WHERE status = $1")).
		WithArgs(loan.StatusPending).
		WillReturnError(assert.AnError)

	_, err := repo.SumPendingLoans(ctx)

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
