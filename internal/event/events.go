package event

import (
	"context"
	"time"
)

const (
	RoutingKeyLoanCreated       = "loan.created"
	RoutingKeyLoanApproved      = "loan.approved"
	RoutingKeyLoanRejected      = "loan.rejected"
	RoutingKeyLoanDeleted       = "loan.deleted"
	RoutingKeyRepaymentRecorded = "repayment.recorded"
)

type EventPublisher interface {
	PublishLoanCreated(ctx context.Context, event LoanEvent) error
	PublishLoanApproved(ctx context.Context, event LoanEvent) error
	PublishLoanRejected(ctx context.Context, event LoanEvent) error
	PublishLoanDeleted(ctx context.Context, event LoanEvent) error
	PublishRepaymentRecorded(ctx context.Context, event RepaymentRecordedEvent) error
}

type LoanEventPayload struct {
	LoanID          int64   `json:"loanId"`
	CustomerID      int64   `json:"customerId"`
	Amount          float64 `json:"amount"`
	TotalToPay      float64 `json:"totalToPay"`
	Status          string  `json:"status"`
	ApprovedOn      string  `json:"approvedOn,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

type LoanEvent struct {
	Timestamp time.Time        `json:"timestamp"`
	Payload   LoanEventPayload `json:"payload"`
}

type RepaymentEventPayload struct {
	RepaymentID int64   `json:"repaymentId"`
	LoanID      int64   `json:"loanId"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Date        string  `json:"date"`
	Reference   *string `json:"reference,omitempty"`
}

type RepaymentRecordedEvent struct {
	Timestamp time.Time             `json:"timestamp"`
	Payload   RepaymentEventPayload `json:"payload"`
}
