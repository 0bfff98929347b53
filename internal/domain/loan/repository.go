package loan

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts the application and its guarantor set in one transaction.
	Create(ctx context.Context, app *LoanApplication, guarantorIDs []int64) (*LoanApplication, error)

	FindByID(ctx context.Context, loanID int64) (*LoanApplication, error)

	FindAll(ctx context.Context) ([]*LoanApplication, error)

	// Update rewrites the editable columns. A nil guarantorIDs leaves the set untouched.
	Update(ctx context.Context, app *LoanApplication, guarantorIDs []int64) error

	Approve(ctx context.Context, loanID int64, approvedOn time.Time) error

	Reject(ctx context.Context, loanID int64, reason string) error

	Delete(ctx context.Context, loanID int64) error

	Exists(ctx context.Context, loanID int64) (bool, error)

	SetGuarantors(ctx context.Context, loanID int64, customerIDs []int64) error

	GetBalance(ctx context.Context, loanID int64) (*Balance, error)

	FindDriftedTotals(ctx context.Context) ([]TotalDrift, error)

	SetTotalPaid(ctx context.Context, loanID int64, totalPaid Money) error
}
