package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-backoffice/internal/domain/repayment"
	"loan-backoffice/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const repaymentColumns = `id, loan_id, amount, method, date, reference, created_at, updated_at`

type RepaymentRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ repayment.Repository = (*RepaymentRepository)(nil)

func NewRepaymentRepository(db DBPool, logger *slog.Logger) *RepaymentRepository {
	return &RepaymentRepository{db: db, logger: logger.With("component", "RepaymentRepository")}
}

func scanRepayment(row pgx.Row) (*repayment.Repayment, error) {
	var rp repayment.Repayment
	err := row.Scan(&rp.ID, &rp.LoanID, &rp.Amount, &rp.Method, &rp.Date, &rp.Reference, &rp.CreatedAt, &rp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

func (r *RepaymentRepository) Create(ctx context.Context, rp *repayment.Repayment) (created *repayment.Repayment, err error) {
	defer func(start time.Time) { observe("CreateRepayment", start, err) }(time.Now())

	query := `
        INSERT INTO loan_repayments (loan_id, amount, method, date, reference, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING ` + repaymentColumns

	created, err = scanRepayment(r.db.QueryRow(ctx, query, rp.LoanID, rp.Amount, rp.Method, rp.Date, rp.Reference))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert repayment", "loan_id", rp.LoanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return created, nil
}

func (r *RepaymentRepository) FindByID(ctx context.Context, repaymentID int64) (found *repayment.Repayment, err error) {
	defer func(start time.Time) { observe("FindRepaymentByID", start, err) }(time.Now())

	query := `SELECT ` + repaymentColumns + ` FROM loan_repayments WHERE id = $1`

	found, err = scanRepayment(r.db.QueryRow(ctx, query, repaymentID))
	if err != nil {
		return nil, fmt.Errorf("repayment %d: %w", repaymentID, translateDBError(err, r.logger))
	}
	return found, nil
}

func (r *RepaymentRepository) FindAll(ctx context.Context) (list []*repayment.Repayment, err error) {
	defer func(start time.Time) { observe("FindAllRepayments", start, err) }(time.Now())

	query := `SELECT ` + repaymentColumns + ` FROM loan_repayments ORDER BY date DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	list = []*repayment.Repayment{}
	for rows.Next() {
		rp, scanErr := scanRepayment(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: scanning repayment row: %w", apperrors.ErrDatabase, scanErr)
		}
		list = append(list, rp)
	}
	if err = rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return list, nil
}

func (r *RepaymentRepository) Update(ctx context.Context, rp *repayment.Repayment) (updated *repayment.Repayment, err error) {
	defer func(start time.Time) { observe("UpdateRepayment", start, err) }(time.Now())

	query := `
        UPDATE loan_repayments
        SET amount = $2, method = $3, date = $4, reference = $5, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + repaymentColumns

	updated, err = scanRepayment(r.db.QueryRow(ctx, query, rp.ID, rp.Amount, rp.Method, rp.Date, rp.Reference))
	if err != nil {
		return nil, fmt.Errorf("repayment %d: %w", rp.ID, translateDBError(err, r.logger))
	}
	return updated, nil
}

func (r *RepaymentRepository) Delete(ctx context.Context, repaymentID int64) (err error) {
	defer func(start time.Time) { observe("DeleteRepayment", start, err) }(time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM loan_repayments WHERE id = $1`, repaymentID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: repayment %d", apperrors.ErrNotFound, repaymentID)
	}
	return nil
}
