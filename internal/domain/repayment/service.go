package repayment

import (
	"context"
	"errors"
	"fmt"
	"loan-backoffice/internal/event"
	"loan-backoffice/internal/infrastructure/monitoring"
	"loan-backoffice/internal/pkg/apperrors"
	"loan-backoffice/internal/pkg/clock"
	"log/slog"
)

// LoanChecker is satisfied by loan.LoanService.
type LoanChecker interface {
	LoanExists(ctx context.Context, loanID int64) (bool, error)
}

// Service records payments against loans. It never touches a loan's total_paid;
// the reconciliation job brings that column in line with the journal.
type Service interface {
	RecordRepayment(ctx context.Context, loanID int64, d Details) (*Repayment, error)
	GetRepayment(ctx context.Context, repaymentID int64) (*Repayment, error)
	ListRepayments(ctx context.Context) ([]*Repayment, error)
	UpdateRepayment(ctx context.Context, repaymentID int64, d Details) (*Repayment, error)
	DeleteRepayment(ctx context.Context, repaymentID int64) error
}

type repaymentService struct {
	repo      Repository
	loans     LoanChecker
	publisher event.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewService(repo Repository, loans LoanChecker, publisher event.EventPublisher, clk clock.Clock, logger *slog.Logger) Service {
	return &repaymentService{
		repo:      repo,
		loans:     loans,
		publisher: publisher,
		clock:     clk,
		logger:    logger.With("component", "repaymentService"),
	}
}

func (s *repaymentService) RecordRepayment(ctx context.Context, loanID int64, d Details) (*Repayment, error) {
	logger := s.logger.With("loanID", loanID)
	logger.InfoContext(ctx, "Recording repayment", "amount", d.Amount, "method", d.Method)

	fields := apperrors.FieldErrors{}
	if loanID <= 0 {
		fields["loan_id"] = "is required"
	} else {
		exists, err := s.loans.LoanExists(ctx, loanID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to verify loan", "error", err)
			return nil, fmt.Errorf("failed to verify loan %d: %w", loanID, err)
		}
		if !exists {
			fields["loan_id"] = "references an unknown loan application"
		}
	}

	r, err := NewRepayment(loanID, d)
	if err != nil {
		var detailErrs apperrors.FieldErrors
		if errors.As(err, &detailErrs) {
			for k, v := range detailErrs {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		logger.WarnContext(ctx, "Repayment input rejected", "error", fields)
		return nil, fields
	}

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		if errors.Is(err, apperrors.ErrConstraint) {
			return nil, err
		}
		logger.ErrorContext(ctx, "Failed to save repayment", "error", err)
		return nil, fmt.Errorf("failed to save repayment: %w", err)
	}

	monitoring.RecordRepayment()
	s.publishRecorded(ctx, created)
	logger.InfoContext(ctx, "Repayment recorded", "repaymentID", created.ID)
	return created, nil
}

func (s *repaymentService) GetRepayment(ctx context.Context, repaymentID int64) (*Repayment, error) {
	r, err := s.repo.FindByID(ctx, repaymentID)
	if err != nil {
		return nil, s.notFoundOr(ctx, repaymentID, "get", err)
	}
	return r, nil
}

func (s *repaymentService) ListRepayments(ctx context.Context) ([]*Repayment, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list repayments", "error", err)
		return nil, fmt.Errorf("failed to list repayments: %w", err)
	}
	return list, nil
}

func (s *repaymentService) UpdateRepayment(ctx context.Context, repaymentID int64, d Details) (*Repayment, error) {
	r, err := s.GetRepayment(ctx, repaymentID)
	if err != nil {
		return nil, err
	}

	if err := r.apply(d); err != nil {
		s.logger.WarnContext(ctx, "Repayment update rejected", "repaymentID", repaymentID, "error", err)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, r)
	if err != nil {
		return nil, s.notFoundOr(ctx, repaymentID, "update", err)
	}

	s.logger.InfoContext(ctx, "Repayment updated", "repaymentID", repaymentID)
	return updated, nil
}

func (s *repaymentService) DeleteRepayment(ctx context.Context, repaymentID int64) error {
	if err := s.repo.Delete(ctx, repaymentID); err != nil {
		return s.notFoundOr(ctx, repaymentID, "delete", err)
	}
	s.logger.InfoContext(ctx, "Repayment deleted", "repaymentID", repaymentID)
	return nil
}

func (s *repaymentService) notFoundOr(ctx context.Context, repaymentID int64, action string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "Repayment not found", "repaymentID", repaymentID)
		return fmt.Errorf("%w: repayment %d", apperrors.ErrNotFound, repaymentID)
	}
	s.logger.ErrorContext(ctx, "Repayment repository error", "action", action, "repaymentID", repaymentID, "error", err)
	return fmt.Errorf("failed to %s repayment %d: %w", action, repaymentID, err)
}

func (s *repaymentService) publishRecorded(ctx context.Context, r *Repayment) {
	evt := event.RepaymentRecordedEvent{
		Timestamp: s.clock.Now(),
		Payload: event.RepaymentEventPayload{
			RepaymentID: r.ID,
			LoanID:      r.LoanID,
			Amount:      r.Amount,
			Method:      r.Method,
			Date:        r.Date.Format(DateLayout),
			Reference:   r.Reference,
		},
	}
	if err := s.publisher.PublishRepaymentRecorded(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish repayment event", "repaymentID", r.ID, "error", err)
	}
}
