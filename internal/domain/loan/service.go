package loan

import (
	"context"
	"errors"
	"fmt"
	"loan-backoffice/internal/event"
	"loan-backoffice/internal/infrastructure/monitoring"
	"loan-backoffice/internal/pkg/apperrors"
	"loan-backoffice/internal/pkg/clock"
	"log/slog"
	"strings"
)

// CustomerChecker is satisfied by customer.Service.
type CustomerChecker interface {
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
}

type CreateInput struct {
	CustomerID   int64
	Amount       Money
	Duration     float64
	InterestRate *Money
	Reason       *string
	Guarantors   []int64
}

type UpdateInput struct {
	CustomerID   int64
	Amount       Money
	Status       Status
	Reason       string
	Duration     *float64
	InterestRate *Money
	// Guarantors replaces the whole set when non-nil.
	Guarantors []int64
}

type LoanService interface {
	CreateLoanApplication(ctx context.Context, in CreateInput) (*LoanApplication, error)

	UpdateLoanApplication(ctx context.Context, loanID int64, in UpdateInput) (*LoanApplication, error)

	ApproveLoanApplication(ctx context.Context, loanID int64) (*LoanApplication, error)

	RejectLoanApplication(ctx context.Context, loanID int64, reason string) (*LoanApplication, error)

	DeleteLoanApplication(ctx context.Context, loanID int64) error

	GetLoanApplication(ctx context.Context, loanID int64) (*LoanApplication, error)

	ListLoanApplications(ctx context.Context) ([]*LoanApplication, error)

	SetGuarantors(ctx context.Context, loanID int64, customerIDs []int64) (*LoanApplication, error)

	GetBalance(ctx context.Context, loanID int64) (*Balance, error)

	LoanExists(ctx context.Context, loanID int64) (bool, error)

	ListDriftedTotals(ctx context.Context) ([]TotalDrift, error)

	CorrectTotalPaid(ctx context.Context, loanID int64, totalPaid Money) error
}

type loanServiceImpl struct {
	repo      Repository
	customers CustomerChecker
	publisher event.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewLoanService(r Repository, customers CustomerChecker, publisher event.EventPublisher, clk clock.Clock, logger *slog.Logger) LoanService {
	return &loanServiceImpl{
		repo:      r,
		customers: customers,
		publisher: publisher,
		clock:     clk,
		logger:    logger.With("component", "loanService"),
	}
}

func (s *loanServiceImpl) CreateLoanApplication(ctx context.Context, in CreateInput) (*LoanApplication, error) {
	s.logger.Info("Creating loan application", "customerID", in.CustomerID)

	if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	guarantors, err := NormalizeGuarantorIDs(in.Guarantors)
	if err != nil {
		return nil, err
	}

	app, err := NewLoanApplication(in.CustomerID, in.Amount, in.Duration, in.InterestRate, trimmed(in.Reason))
	if err != nil {
		s.logger.Warn("Loan application input rejected", "error", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, app, guarantors)
	if err != nil {
		s.logger.Error("Failed to save loan application", "error", err)
		return nil, fmt.Errorf("failed to save loan application: %w", err)
	}

	monitoring.RecordLoanEvent("created")
	s.publish(ctx, event.RoutingKeyLoanCreated, created, s.publisher.PublishLoanCreated)
	s.logger.Info("Loan application created", "loanID", created.ID, "customerID", created.CustomerID, "totalToPay", created.TotalToPay)

	return created, nil
}

func (s *loanServiceImpl) UpdateLoanApplication(ctx context.Context, loanID int64, in UpdateInput) (*LoanApplication, error) {
	s.logger.Info("Updating loan application", "loanID", loanID)

	app, err := s.GetLoanApplication(ctx, loanID)
	if err != nil {
		return nil, err
	}

	fields := apperrors.FieldErrors{}
	if strings.TrimSpace(in.Reason) == "" {
		fields["reason"] = "is required"
	}
	if in.Status == "" {
		fields["status"] = "is required"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	if err := s.requireCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	guarantors, err := NormalizeGuarantorIDs(in.Guarantors)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(in.Reason)
	app.CustomerID = in.CustomerID
	app.Amount = in.Amount
	app.Status = in.Status
	app.Reason = &reason
	if in.Duration != nil {
		app.Duration = *in.Duration
	}
	if in.InterestRate != nil {
		app.InterestRate = *in.InterestRate
	}
	if err := app.validate(); err != nil {
		s.logger.Warn("Loan application update rejected", "loanID", loanID, "error", err)
		return nil, err
	}

	if err := s.repo.Update(ctx, app, guarantors); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrConstraint) {
			return nil, err
		}
		s.logger.Error("Failed to update loan application", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("failed to update loan application %d: %w", loanID, err)
	}

	s.logger.Info("Loan application updated", "loanID", loanID)
	return s.GetLoanApplication(ctx, loanID)
}

func (s *loanServiceImpl) ApproveLoanApplication(ctx context.Context, loanID int64) (*LoanApplication, error) {
	today := clock.Today(s.clock.Now())
	s.logger.Info("Approving loan application", "loanID", loanID, "approvedOn", today.Format("2006-01-02"))

	if err := s.repo.Approve(ctx, loanID, today); err != nil {
		return nil, s.notFoundOr(loanID, "approve", err)
	}

	app, err := s.GetLoanApplication(ctx, loanID)
	if err != nil {
		return nil, err
	}

	monitoring.RecordLoanEvent("approved")
	s.publish(ctx, event.RoutingKeyLoanApproved, app, s.publisher.PublishLoanApproved)
	return app, nil
}

func (s *loanServiceImpl) RejectLoanApplication(ctx context.Context, loanID int64, reason string) (*LoanApplication, error) {
	s.logger.Info("Rejecting loan application", "loanID", loanID)

	if err := s.repo.Reject(ctx, loanID, reason); err != nil {
		return nil, s.notFoundOr(loanID, "reject", err)
	}

	app, err := s.GetLoanApplication(ctx, loanID)
	if err != nil {
		return nil, err
	}

	monitoring.RecordLoanEvent("rejected")
	s.publish(ctx, event.RoutingKeyLoanRejected, app, s.publisher.PublishLoanRejected)
	return app, nil
}

func (s *loanServiceImpl) DeleteLoanApplication(ctx context.Context, loanID int64) error {
	s.logger.Info("Deleting loan application", "loanID", loanID)

	app, err := s.GetLoanApplication(ctx, loanID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, loanID); err != nil {
		return s.notFoundOr(loanID, "delete", err)
	}

	monitoring.RecordLoanEvent("deleted")
	s.publish(ctx, event.RoutingKeyLoanDeleted, app, s.publisher.PublishLoanDeleted)
	return nil
}

func (s *loanServiceImpl) GetLoanApplication(ctx context.Context, loanID int64) (*LoanApplication, error) {
	app, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		return nil, s.notFoundOr(loanID, "get", err)
	}
	return app, nil
}

func (s *loanServiceImpl) ListLoanApplications(ctx context.Context) ([]*LoanApplication, error) {
	apps, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list loan applications", "error", err)
		return nil, fmt.Errorf("failed to list loan applications: %w", err)
	}
	return apps, nil
}

func (s *loanServiceImpl) SetGuarantors(ctx context.Context, loanID int64, customerIDs []int64) (*LoanApplication, error) {
	if customerIDs == nil {
		customerIDs = []int64{}
	}
	ids, err := NormalizeGuarantorIDs(customerIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Replacing guarantor set", "loanID", loanID, "count", len(ids))
	if err := s.repo.SetGuarantors(ctx, loanID, ids); err != nil {
		if errors.Is(err, apperrors.ErrConstraint) {
			return nil, err
		}
		return nil, s.notFoundOr(loanID, "set guarantors for", err)
	}

	return s.GetLoanApplication(ctx, loanID)
}

func (s *loanServiceImpl) GetBalance(ctx context.Context, loanID int64) (*Balance, error) {
	balance, err := s.repo.GetBalance(ctx, loanID)
	if err != nil {
		return nil, s.notFoundOr(loanID, "get balance of", err)
	}
	return balance, nil
}

func (s *loanServiceImpl) LoanExists(ctx context.Context, loanID int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, loanID)
	if err != nil {
		return false, fmt.Errorf("failed to check loan %d: %w", loanID, err)
	}
	return exists, nil
}

func (s *loanServiceImpl) ListDriftedTotals(ctx context.Context) ([]TotalDrift, error) {
	drifts, err := s.repo.FindDriftedTotals(ctx)
	if err != nil {
		s.logger.Error("Failed to find drifted totals", "error", err)
		return nil, fmt.Errorf("failed to find drifted totals: %w", err)
	}
	return drifts, nil
}

func (s *loanServiceImpl) CorrectTotalPaid(ctx context.Context, loanID int64, totalPaid Money) error {
	if err := s.repo.SetTotalPaid(ctx, loanID, totalPaid); err != nil {
		return s.notFoundOr(loanID, "correct total_paid of", err)
	}
	s.logger.Info("Corrected total_paid", "loanID", loanID, "totalPaid", totalPaid)
	return nil
}

func (s *loanServiceImpl) requireCustomer(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return apperrors.FieldErrors{"customer_id": "is required"}
	}
	exists, err := s.customers.CustomerExists(ctx, customerID)
	if err != nil {
		s.logger.Error("Failed to verify customer", "customerID", customerID, "error", err)
		return fmt.Errorf("failed to verify customer %d: %w", customerID, err)
	}
	if !exists {
		s.logger.Warn("Customer not found", "customerID", customerID)
		return apperrors.FieldErrors{"customer_id": "references an unknown customer"}
	}
	return nil
}

func (s *loanServiceImpl) notFoundOr(loanID int64, action string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("Loan application not found", "loanID", loanID)
		return fmt.Errorf("%w: loan application %d", apperrors.ErrNotFound, loanID)
	}
	s.logger.Error("Failed to "+action+" loan application", "loanID", loanID, "error", err)
	return fmt.Errorf("failed to %s loan application %d: %w", action, loanID, err)
}

func (s *loanServiceImpl) publish(ctx context.Context, routingKey string, app *LoanApplication, send func(context.Context, event.LoanEvent) error) {
	evt := event.LoanEvent{
		Timestamp: s.clock.Now(),
		Payload:   newLoanEventPayload(app),
	}
	if err := send(ctx, evt); err != nil {
		s.logger.Error("Failed to publish loan event", "routingKey", routingKey, "loanID", app.ID, "error", err)
	}
}

func newLoanEventPayload(app *LoanApplication) event.LoanEventPayload {
	payload := event.LoanEventPayload{
		LoanID:          app.ID,
		CustomerID:      app.CustomerID,
		Amount:          app.Amount,
		TotalToPay:      app.TotalToPay,
		Status:          string(app.Status),
		RejectionReason: app.RejectionReason,
	}
	if app.ApprovedOn != nil {
		payload.ApprovedOn = app.ApprovedOn.Format("2006-01-02")
	}
	return payload
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
