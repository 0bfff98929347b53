package customer

import "context"

type Repository interface {
	Create(ctx context.Context, customer *Customer) (*Customer, error)

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// FindAll returns customers newest first.
	FindAll(ctx context.Context) ([]*Customer, error)

	Update(ctx context.Context, customer *Customer) (*Customer, error)

	// Delete removes the customer together with their loans, repayments and guarantor links.
	Delete(ctx context.Context, customerID int64) error

	Exists(ctx context.Context, customerID int64) (bool, error)

	Count(ctx context.Context) (int64, error)
}
