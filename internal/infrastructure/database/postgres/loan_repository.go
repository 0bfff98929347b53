package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const loanSelect = `
        SELECT la.id, la.customer_id, la.amount, la.duration, la.interest_rate,
               COALESCE(la.total_to_pay, 0), la.total_paid, la.status, la.approved_on,
               la.rejection_reason, la.reason, la.created_at, la.updated_at,
               c.id, c.name, c.email, c.phone
        FROM loan_applications la
        JOIN customers c ON c.id = la.customer_id`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func scanLoan(row pgx.Row) (*loan.LoanApplication, error) {
	var app loan.LoanApplication
	var borrower loan.CustomerSummary
	err := row.Scan(
		&app.ID, &app.CustomerID, &app.Amount, &app.Duration, &app.InterestRate,
		&app.TotalToPay, &app.TotalPaid, &app.Status, &app.ApprovedOn,
		&app.RejectionReason, &app.Reason, &app.CreatedAt, &app.UpdatedAt,
		&borrower.ID, &borrower.Name, &borrower.Email, &borrower.Phone,
	)
	if err != nil {
		return nil, err
	}
	app.Customer = &borrower
	app.Guarantors = []loan.CustomerSummary{}
	return &app, nil
}

func (r *LoanRepository) Create(ctx context.Context, app *loan.LoanApplication, guarantorIDs []int64) (created *loan.LoanApplication, err error) {
	defer func(start time.Time) { observe("CreateLoanApplication", start, err) }(time.Now())

	var loanID int64
	err = withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		insertSQL := `
            INSERT INTO loan_applications (customer_id, amount, duration, interest_rate, total_to_pay, total_paid, status, reason, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
            RETURNING id`

		if err := tx.QueryRow(ctx, insertSQL,
			app.CustomerID, app.Amount, app.Duration, app.InterestRate,
			app.TotalToPay, app.TotalPaid, app.Status, app.Reason,
		).Scan(&loanID); err != nil {
			r.logger.ErrorContext(ctx, "Failed to insert loan application", "error", err)
			return translateDBError(err, r.logger)
		}

		if len(guarantorIDs) > 0 {
			return r.insertGuarantors(ctx, tx, loanID, guarantorIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Loan application created in DB", "loan_id", loanID, "guarantors", len(guarantorIDs))
	return r.FindByID(ctx, loanID)
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (app *loan.LoanApplication, err error) {
	defer func(start time.Time) { observe("FindLoanApplicationByID", start, err) }(time.Now())

	app, err = scanLoan(r.db.QueryRow(ctx, loanSelect+` WHERE la.id = $1`, loanID))
	if err != nil {
		return nil, fmt.Errorf("loan application %d: %w", loanID, translateDBError(err, r.logger))
	}

	guarantors, err := r.loadGuarantors(ctx, []int64{loanID})
	if err != nil {
		return nil, err
	}
	if g, ok := guarantors[loanID]; ok {
		app.Guarantors = g
	}
	return app, nil
}

func (r *LoanRepository) FindAll(ctx context.Context) (apps []*loan.LoanApplication, err error) {
	defer func(start time.Time) { observe("FindAllLoanApplications", start, err) }(time.Now())

	rows, err := r.db.Query(ctx, loanSelect+` ORDER BY la.created_at DESC, la.id DESC`)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	apps = []*loan.LoanApplication{}
	ids := []int64{}
	for rows.Next() {
		app, scanErr := scanLoan(rows)
		if scanErr != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan application row", "error", scanErr)
			return nil, fmt.Errorf("%w: scanning loan application row: %w", apperrors.ErrDatabase, scanErr)
		}
		apps = append(apps, app)
		ids = append(ids, app.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}

	if len(ids) == 0 {
		return apps, nil
	}
	guarantors, err := r.loadGuarantors(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		if g, ok := guarantors[app.ID]; ok {
			app.Guarantors = g
		}
	}
	return apps, nil
}

func (r *LoanRepository) loadGuarantors(ctx context.Context, loanIDs []int64) (map[int64][]loan.CustomerSummary, error) {
	query := `
        SELECT gl.loan_application_id, c.id, c.name, c.email, c.phone
        FROM guarantor_loan gl
        JOIN customers c ON c.id = gl.customer_id
        WHERE gl.loan_application_id = ANY($1)
        ORDER BY gl.loan_application_id, c.id`

	rows, err := r.db.Query(ctx, query, loanIDs)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	out := make(map[int64][]loan.CustomerSummary)
	for rows.Next() {
		var loanID int64
		var g loan.CustomerSummary
		if err := rows.Scan(&loanID, &g.ID, &g.Name, &g.Email, &g.Phone); err != nil {
			return nil, fmt.Errorf("%w: scanning guarantor row: %w", apperrors.ErrDatabase, err)
		}
		out[loanID] = append(out[loanID], g)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return out, nil
}

func (r *LoanRepository) Update(ctx context.Context, app *loan.LoanApplication, guarantorIDs []int64) (err error) {
	defer func(start time.Time) { observe("UpdateLoanApplication", start, err) }(time.Now())

	return withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		updateSQL := `
            UPDATE loan_applications
            SET customer_id = $2, amount = $3, duration = $4, interest_rate = $5, status = $6, reason = $7, updated_at = NOW()
            WHERE id = $1`

		tag, err := tx.Exec(ctx, updateSQL,
			app.ID, app.CustomerID, app.Amount, app.Duration, app.InterestRate, app.Status, app.Reason,
		)
		if err != nil {
			return translateDBError(err, r.logger)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: loan application %d", apperrors.ErrNotFound, app.ID)
		}

		if guarantorIDs == nil {
			return nil
		}
		return r.replaceGuarantors(ctx, tx, app.ID, guarantorIDs)
	})
}

func (r *LoanRepository) Approve(ctx context.Context, loanID int64, approvedOn time.Time) (err error) {
	defer func(start time.Time) { observe("ApproveLoanApplication", start, err) }(time.Now())

	query := `UPDATE loan_applications SET status = $2, approved_on = $3, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, loanID, query, loanID, loan.StatusApproved, approvedOn)
}

func (r *LoanRepository) Reject(ctx context.Context, loanID int64, reason string) (err error) {
	defer func(start time.Time) { observe("RejectLoanApplication", start, err) }(time.Now())

	query := `UPDATE loan_applications SET status = $2, rejection_reason = $3, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, loanID, query, loanID, loan.StatusRejected, reason)
}

// Delete cascades to loan_repayments and guarantor_loan.
func (r *LoanRepository) Delete(ctx context.Context, loanID int64) (err error) {
	defer func(start time.Time) { observe("DeleteLoanApplication", start, err) }(time.Now())

	return r.execOne(ctx, loanID, `DELETE FROM loan_applications WHERE id = $1`, loanID)
}

func (r *LoanRepository) Exists(ctx context.Context, loanID int64) (exists bool, err error) {
	defer func(start time.Time) { observe("LoanApplicationExists", start, err) }(time.Now())

	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loan_applications WHERE id = $1)`, loanID).Scan(&exists)
	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return exists, nil
}

func (r *LoanRepository) SetGuarantors(ctx context.Context, loanID int64, customerIDs []int64) (err error) {
	defer func(start time.Time) { observe("SetGuarantors", start, err) }(time.Now())

	return withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM loan_applications WHERE id = $1 FOR UPDATE`, loanID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: loan application %d", apperrors.ErrNotFound, loanID)
			}
			return translateDBError(err, r.logger)
		}
		return r.replaceGuarantors(ctx, tx, loanID, customerIDs)
	})
}

func (r *LoanRepository) replaceGuarantors(ctx context.Context, tx pgx.Tx, loanID int64, customerIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM guarantor_loan WHERE loan_application_id = $1`, loanID); err != nil {
		return translateDBError(err, r.logger)
	}
	if len(customerIDs) == 0 {
		r.logger.InfoContext(ctx, "Cleared guarantor set", "loan_id", loanID)
		return nil
	}
	return r.insertGuarantors(ctx, tx, loanID, customerIDs)
}

func (r *LoanRepository) insertGuarantors(ctx context.Context, tx pgx.Tx, loanID int64, customerIDs []int64) error {
	insertSQL := `
        INSERT INTO guarantor_loan (loan_application_id, customer_id)
        SELECT $1, unnest($2::bigint[])
        ON CONFLICT DO NOTHING`

	if _, err := tx.Exec(ctx, insertSQL, loanID, customerIDs); err != nil {
		r.logger.WarnContext(ctx, "Failed to link guarantors", "loan_id", loanID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Linked guarantors", "loan_id", loanID, "count", len(customerIDs))
	return nil
}

func (r *LoanRepository) GetBalance(ctx context.Context, loanID int64) (balance *loan.Balance, err error) {
	defer func(start time.Time) { observe("GetLoanBalance", start, err) }(time.Now())

	query := `
        SELECT la.id, COALESCE(la.total_to_pay, 0), la.total_paid,
               COALESCE((SELECT SUM(rp.amount) FROM loan_repayments rp WHERE rp.loan_id = la.id), 0)::float8
        FROM loan_applications la
        WHERE la.id = $1`

	var id int64
	var totalToPay, totalPaid, repaid float64
	if err = r.db.QueryRow(ctx, query, loanID).Scan(&id, &totalToPay, &totalPaid, &repaid); err != nil {
		return nil, fmt.Errorf("loan application %d: %w", loanID, translateDBError(err, r.logger))
	}
	return loan.NewBalance(id, totalToPay, totalPaid, repaid), nil
}

func (r *LoanRepository) FindDriftedTotals(ctx context.Context) (drifts []loan.TotalDrift, err error) {
	defer func(start time.Time) { observe("FindDriftedTotals", start, err) }(time.Now())

	query := `
        SELECT la.id, la.total_paid, COALESCE(SUM(rp.amount), 0)::float8 AS repaid
        FROM loan_applications la
        LEFT JOIN loan_repayments rp ON rp.loan_id = la.id
        GROUP BY la.id, la.total_paid
        HAVING la.total_paid <> COALESCE(SUM(rp.amount), 0)
        ORDER BY la.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	drifts = []loan.TotalDrift{}
	for rows.Next() {
		var d loan.TotalDrift
		if err = rows.Scan(&d.LoanID, &d.TotalPaid, &d.Repaid); err != nil {
			return nil, fmt.Errorf("%w: scanning drift row: %w", apperrors.ErrDatabase, err)
		}
		drifts = append(drifts, d)
	}
	if err = rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return drifts, nil
}

func (r *LoanRepository) SetTotalPaid(ctx context.Context, loanID int64, totalPaid loan.Money) (err error) {
	defer func(start time.Time) { observe("SetTotalPaid", start, err) }(time.Now())

	query := `UPDATE loan_applications SET total_paid = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, loanID, query, loanID, totalPaid)
}

func (r *LoanRepository) execOne(ctx context.Context, loanID int64, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan application %d", apperrors.ErrNotFound, loanID)
	}
	return nil
}
