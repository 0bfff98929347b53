package dto

import (
	"loan-backoffice/internal/domain/loan"
	"time"
)

type CreateLoanRequest struct {
	CustomerID   int64    `json:"customer_id" validate:"required"`
	Amount       float64  `json:"amount" validate:"gt=0,lte=9999999999999.99"`
	Duration     float64  `json:"duration" validate:"gt=0,lte=9999999999999.99"`
	InterestRate *float64 `json:"interest_rate" validate:"omitempty,gte=0,lte=999.99"`
	Reason       *string  `json:"reason"`
	Guarantors   []int64  `json:"guarantors" validate:"omitempty,dive,gt=0"`
}

func (r CreateLoanRequest) ToInput() loan.CreateInput {
	return loan.CreateInput{
		CustomerID:   r.CustomerID,
		Amount:       r.Amount,
		Duration:     r.Duration,
		InterestRate: r.InterestRate,
		Reason:       r.Reason,
		Guarantors:   r.Guarantors,
	}
}

type UpdateLoanRequest struct {
	CustomerID   int64    `json:"customer_id" validate:"required"`
	Amount       float64  `json:"amount" validate:"gt=0,lte=9999999999999.99"`
	Status       string   `json:"status" validate:"required,oneof=pending approved rejected"`
	Reason       string   `json:"reason" validate:"required"`
	Duration     *float64 `json:"duration" validate:"omitempty,gt=0,lte=9999999999999.99"`
	InterestRate *float64 `json:"interest_rate" validate:"omitempty,gte=0,lte=999.99"`
	Guarantors   []int64  `json:"guarantors" validate:"omitempty,dive,gt=0"`
}

func (r UpdateLoanRequest) ToInput() loan.UpdateInput {
	return loan.UpdateInput{
		CustomerID:   r.CustomerID,
		Amount:       r.Amount,
		Status:       loan.Status(r.Status),
		Reason:       r.Reason,
		Duration:     r.Duration,
		InterestRate: r.InterestRate,
		Guarantors:   r.Guarantors,
	}
}

type RejectLoanRequest struct {
	Reason *string `json:"reason"`
}

type SetGuarantorsRequest struct {
	Guarantors []int64 `json:"guarantors" validate:"omitempty,dive,gt=0"`
}

type LoanResponse struct {
	ID              int64                  `json:"id"`
	CustomerID      int64                  `json:"customer_id"`
	Amount          string                 `json:"amount"`
	Duration        float64                `json:"duration"`
	InterestRate    string                 `json:"interest_rate"`
	TotalToPay      string                 `json:"total_to_pay"`
	TotalPaid       string                 `json:"total_paid"`
	Status          string                 `json:"status"`
	ApprovedOn      *string                `json:"approvedOn"`
	RejectionReason *string                `json:"rejection_reason"`
	Reason          *string                `json:"reason"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Customer        *loan.CustomerSummary  `json:"customer,omitempty"`
	Guarantors      []loan.CustomerSummary `json:"guarantors"`
}

func NewLoanResponse(app *loan.LoanApplication) LoanResponse {
	var approvedOn *string
	if app.ApprovedOn != nil {
		s := app.ApprovedOn.Format(time.DateOnly)
		approvedOn = &s
	}

	guarantors := app.Guarantors
	if guarantors == nil {
		guarantors = []loan.CustomerSummary{}
	}

	return LoanResponse{
		ID:              app.ID,
		CustomerID:      app.CustomerID,
		Amount:          Money(app.Amount),
		Duration:        app.Duration,
		InterestRate:    Money(app.InterestRate),
		TotalToPay:      Money(app.TotalToPay),
		TotalPaid:       Money(app.TotalPaid),
		Status:          string(app.Status),
		ApprovedOn:      approvedOn,
		RejectionReason: app.RejectionReason,
		Reason:          app.Reason,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
		Customer:        app.Customer,
		Guarantors:      guarantors,
	}
}

func NewLoanListResponse(apps []*loan.LoanApplication) []LoanResponse {
	resp := make([]LoanResponse, len(apps))
	for i, app := range apps {
		resp[i] = NewLoanResponse(app)
	}
	return resp
}

type BalanceResponse struct {
	LoanID      int64  `json:"loan_id"`
	TotalToPay  string `json:"total_to_pay"`
	TotalPaid   string `json:"total_paid"`
	Repaid      string `json:"repaid"`
	Outstanding string `json:"outstanding"`
}

func NewBalanceResponse(b *loan.Balance) BalanceResponse {
	return BalanceResponse{
		LoanID:      b.LoanID,
		TotalToPay:  Money(b.TotalToPay),
		TotalPaid:   Money(b.TotalPaid),
		Repaid:      Money(b.Repaid),
		Outstanding: Money(b.Outstanding),
	}
}
