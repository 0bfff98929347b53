package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/domain/report"
	"loan-backoffice/internal/pkg/apperrors"
)

type ReportRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ report.Repository = (*ReportRepository)(nil)

func NewReportRepository(db DBPool, logger *slog.Logger) *ReportRepository {
	return &ReportRepository{db: db, logger: logger.With("component", "ReportRepository")}
}

func (r *ReportRepository) SumPendingLoans(ctx context.Context) (total float64, err error) {
	defer func(start time.Time) { observe("SumPendingLoans", start, err) }(time.Now())

	query := `SELECT COALESCE(SUM(amount), 0)::float8 FROM loan_applications WHERE status = $1`
	return r.sum(ctx, query, loan.StatusPending)
}

// Dates are bound as YYYY-MM-DD so the window boundary is the calendar day of since
// in its own location, not whatever the session timezone makes of an instant.
func (r *ReportRepository) SumDisbursedSince(ctx context.Context, since time.Time) (total float64, err error) {
	defer func(start time.Time) { observe("SumDisbursedSince", start, err) }(time.Now())

	query := `SELECT COALESCE(SUM(amount), 0)::float8 FROM loan_applications WHERE status = $1 AND approved_on >= $2::date`
	return r.sum(ctx, query, loan.StatusApproved, since.Format(time.DateOnly))
}

func (r *ReportRepository) SumRepaidSince(ctx context.Context, since time.Time) (total float64, err error) {
	defer func(start time.Time) { observe("SumRepaidSince", start, err) }(time.Now())

	query := `SELECT COALESCE(SUM(amount), 0)::float8 FROM loan_repayments WHERE date >= $1::date`
	return r.sum(ctx, query, since.Format(time.DateOnly))
}

func (r *ReportRepository) DisbursedByMonth(ctx context.Context) (totals []report.MonthTotal, err error) {
	defer func(start time.Time) { observe("DisbursedByMonth", start, err) }(time.Now())

	query := `
        SELECT to_char(approved_on, 'YYYY-MM') AS month, SUM(amount)::float8 AS total
        FROM loan_applications
        WHERE status = $1 AND approved_on IS NOT NULL
        GROUP BY month
        ORDER BY month`
	return r.monthly(ctx, query, loan.StatusApproved)
}

func (r *ReportRepository) RepaidByMonth(ctx context.Context) (totals []report.MonthTotal, err error) {
	defer func(start time.Time) { observe("RepaidByMonth", start, err) }(time.Now())

	query := `
        SELECT to_char(date, 'YYYY-MM') AS month, SUM(amount)::float8 AS total
        FROM loan_repayments
        GROUP BY month
        ORDER BY month`
	return r.monthly(ctx, query)
}

func (r *ReportRepository) sum(ctx context.Context, query string, args ...any) (float64, error) {
	var total float64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return total, nil
}

func (r *ReportRepository) monthly(ctx context.Context, query string, args ...any) ([]report.MonthTotal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	totals := []report.MonthTotal{}
	for rows.Next() {
		var mt report.MonthTotal
		if err := rows.Scan(&mt.Month, &mt.Total); err != nil {
			return nil, fmt.Errorf("%w: scanning month total: %w", apperrors.ErrDatabase, err)
		}
		totals = append(totals, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return totals, nil
}
