package dto

import (
	"loan-backoffice/internal/domain/repayment"
	"time"
)

type CreateRepaymentRequest struct {
	LoanID    int64   `json:"loan_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0,lte=99999999.99"`
	Method    string  `json:"method" validate:"required,max=100"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Reference *string `json:"reference" validate:"omitempty,max=255"`
}

func (r CreateRepaymentRequest) Details() repayment.Details {
	return repayment.Details{
		Amount:    r.Amount,
		Method:    r.Method,
		Date:      r.Date,
		Reference: r.Reference,
	}
}

type UpdateRepaymentRequest struct {
	Amount    float64 `json:"amount" validate:"gt=0,lte=99999999.99"`
	Method    string  `json:"method" validate:"required,max=100"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Reference *string `json:"reference" validate:"omitempty,max=255"`
}

func (r UpdateRepaymentRequest) Details() repayment.Details {
	return repayment.Details{
		Amount:    r.Amount,
		Method:    r.Method,
		Date:      r.Date,
		Reference: r.Reference,
	}
}

type RepaymentResponse struct {
	ID        int64     `json:"id"`
	LoanID    int64     `json:"loan_id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Date      string    `json:"date"`
	Reference *string   `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRepaymentResponse(r *repayment.Repayment) RepaymentResponse {
	return RepaymentResponse{
		ID:        r.ID,
		LoanID:    r.LoanID,
		Amount:    Money(r.Amount),
		Method:    r.Method,
		Date:      r.Date.Format(repayment.DateLayout),
		Reference: r.Reference,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func NewRepaymentListResponse(rs []*repayment.Repayment) []RepaymentResponse {
	resp := make([]RepaymentResponse, len(rs))
	for i, r := range rs {
		resp[i] = NewRepaymentResponse(r)
	}
	return resp
}
