package customer

import (
	"context"
	"errors"
	"fmt"
	"loan-backoffice/internal/pkg/apperrors"
	"log/slog"
	"os"
)

const customerNotFound = "Customer not found by repository"

type CreateInput struct {
	Name     string
	Email    *string
	Phone    string
	IDNumber string
}

type Service interface {
	CreateCustomer(ctx context.Context, in CreateInput) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
	CountCustomers(ctx context.Context) (int64, error)
}

var _ Service = (*customerService)(nil)

type customerService struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("No logger provided to customer.NewService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, in CreateInput) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	cust, err := NewCustomer(in.Name, in.Email, in.Phone, in.IDNumber)
	if err != nil {
		s.logger.WarnContext(ctx, "Customer input rejected", slog.Any("error", err))
		return nil, err
	}

	created, err := s.repo.Create(ctx, cust)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Customer email already registered")
			return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrAlreadyExists, cust.Email)
		}
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully created new customer", slog.Int64("customerID", created.ID))
	return created, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, customerNotFound)
			return nil, err
		}
		logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to update customer")

	cust, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if !cust.Apply(patch) {
		logger.InfoContext(ctx, "No customer fields changed, skipping save")
		return cust, nil
	}
	if err := cust.Validate(); err != nil {
		logger.WarnContext(ctx, "Customer update rejected", slog.Any("error", err))
		return nil, err
	}

	updated, err := s.repo.Update(ctx, cust)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.WarnContext(ctx, "Customer disappeared before update completed")
			return nil, err
		case errors.Is(err, apperrors.ErrAlreadyExists):
			return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrAlreadyExists, cust.Email)
		}
		logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully updated customer")
	return updated, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	logger := s.logger.With(slog.Int64("customerID", customerID))

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, customerNotFound)
			return err
		}
		logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Deleted customer with their loans and guarantor links")
	return nil
}

func (s *customerService) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("failed to check customer %d: %w", customerID, err)
	}
	return exists, nil
}

func (s *customerService) CountCustomers(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to count customers", slog.Any("error", err))
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
