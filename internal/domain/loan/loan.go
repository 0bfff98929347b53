package loan

import (
	"loan-backoffice/internal/pkg/apperrors"
	"loan-backoffice/internal/pkg/money"
	"time"

	"github.com/shopspring/decimal"
)

type Money = float64

const DefaultInterestRate Money = 10

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CustomerSummary is the eager-loaded view of a borrower or guarantor.
type CustomerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type LoanApplication struct {
	ID              int64
	CustomerID      int64
	Amount          Money
	Duration        float64
	InterestRate    Money
	TotalToPay      Money
	TotalPaid       Money
	Status          Status
	ApprovedOn      *time.Time
	RejectionReason *string
	Reason          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer   *CustomerSummary
	Guarantors []CustomerSummary
}

// Balance compares the stored total_paid with what the repayment journal actually holds.
type Balance struct {
	LoanID      int64
	TotalToPay  Money
	TotalPaid   Money
	Repaid      Money
	Outstanding Money
}

// TotalDrift is a loan whose stored total_paid no longer matches its repayments.
type TotalDrift struct {
	LoanID    int64
	TotalPaid Money
	Repaid    Money
}

// TotalToPay returns principal plus simple interest, rounded to cents.
func TotalToPay(amount, interestRate Money) Money {
	principal := decimal.NewFromFloat(amount)
	interest := principal.Mul(decimal.NewFromFloat(interestRate)).Div(decimal.NewFromInt(100))
	return principal.Add(interest).Round(2).InexactFloat64()
}

func NewBalance(loanID int64, totalToPay, totalPaid, repaid Money) *Balance {
	outstanding := decimal.NewFromFloat(totalToPay).Sub(decimal.NewFromFloat(repaid)).Round(2)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	return &Balance{
		LoanID:      loanID,
		TotalToPay:  totalToPay,
		TotalPaid:   totalPaid,
		Repaid:      repaid,
		Outstanding: outstanding.InexactFloat64(),
	}
}

func NewLoanApplication(customerID int64, amount Money, duration float64, interestRate *Money, reason *string) (*LoanApplication, error) {
	rate := DefaultInterestRate
	if interestRate != nil {
		rate = *interestRate
	}

	app := &LoanApplication{
		CustomerID:   customerID,
		Amount:       amount,
		Duration:     duration,
		InterestRate: rate,
		TotalPaid:    0,
		Status:       StatusPending,
		Reason:       reason,
	}
	if err := app.validate(); err != nil {
		return nil, err
	}

	app.TotalToPay = TotalToPay(amount, rate)
	if !money.Fits(app.TotalToPay, money.MaxNumeric15) {
		return nil, apperrors.FieldErrors{
			"amount": "with interest must not exceed " + money.MaxNumeric15.StringFixed(2),
		}
	}
	return app, nil
}

func (l *LoanApplication) validate() error {
	fields := apperrors.FieldErrors{}
	if l.CustomerID <= 0 {
		fields["customer_id"] = "is required"
	}
	if msg := money.Positive(l.Amount, money.MaxNumeric15); msg != "" {
		fields["amount"] = msg
	}
	if msg := money.Positive(l.Duration, money.MaxNumeric15); msg != "" {
		fields["duration"] = msg
	}
	if msg := money.NonNegative(l.InterestRate, money.MaxNumeric5); msg != "" {
		fields["interest_rate"] = msg
	}
	if !l.Status.Valid() {
		fields["status"] = "must be one of pending, approved, rejected"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}
