package repayment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Repayment) (*Repayment, error)

	FindByID(ctx context.Context, repaymentID int64) (*Repayment, error)

	// FindAll returns repayments most recent date first.
	FindAll(ctx context.Context) ([]*Repayment, error)

	Update(ctx context.Context, r *Repayment) (*Repayment, error)

	Delete(ctx context.Context, repaymentID int64) error
}
