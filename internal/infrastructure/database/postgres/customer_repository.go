package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-backoffice/internal/domain/customer"
	"loan-backoffice/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, email, phone, id_number, created_at, updated_at`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.IDNumber, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) (created *customer.Customer, err error) {
	defer func(start time.Time) { observe("CreateCustomer", start, err) }(time.Now())
	if cust == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO customers (name, email, phone, id_number, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING ` + customerColumns

	created, err = scanCustomer(r.db.QueryRow(ctx, query, cust.Name, cust.Email, cust.Phone, cust.IDNumber))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Customer inserted", slog.Int64("customerID", created.ID))
	return created, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (found *customer.Customer, err error) {
	defer func(start time.Time) { observe("FindCustomerByID", start, err) }(time.Now())

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	found, err = scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", customerID, translateDBError(err, r.logger))
	}
	return found, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) (customers []*customer.Customer, err error) {
	defer func(start time.Time) { observe("FindAllCustomers", start, err) }(time.Now())

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	customers = []*customer.Customer{}
	for rows.Next() {
		c, scanErr := scanCustomer(rows)
		if scanErr != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", scanErr))
			return nil, fmt.Errorf("%w: scanning customer row: %w", apperrors.ErrDatabase, scanErr)
		}
		customers = append(customers, c)
	}
	if err = rows.Err(); err != nil {
		return nil, translateDBError(err, r.logger)
	}
	return customers, nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) (updated *customer.Customer, err error) {
	defer func(start time.Time) { observe("UpdateCustomer", start, err) }(time.Now())

	query := `
        UPDATE customers
        SET name = $2, email = $3, phone = $4, id_number = $5, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + customerColumns

	updated, err = scanCustomer(r.db.QueryRow(ctx, query, cust.ID, cust.Name, cust.Email, cust.Phone, cust.IDNumber))
	if err != nil {
		return nil, fmt.Errorf("customer %d: %w", cust.ID, translateDBError(err, r.logger))
	}
	return updated, nil
}

// Delete relies on ON DELETE CASCADE to drop the customer's loans, their repayments
// and every guarantor_loan row naming the customer.
func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) (err error) {
	defer func(start time.Time) { observe("DeleteCustomer", start, err) }(time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		return translateDBError(err, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
	}
	return nil
}

func (r *CustomerRepository) Exists(ctx context.Context, customerID int64) (exists bool, err error) {
	defer func(start time.Time) { observe("CustomerExists", start, err) }(time.Now())

	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists)
	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return exists, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (count int64, err error) {
	defer func(start time.Time) { observe("CountCustomers", start, err) }(time.Now())

	if err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, translateDBError(err, r.logger)
	}
	return count, nil
}
