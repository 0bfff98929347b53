package report

import (
	"context"
	"fmt"
	"loan-backoffice/internal/pkg/clock"
	"log/slog"
	"time"
)

// CustomerCounter is satisfied by customer.Service.
type CustomerCounter interface {
	CountCustomers(ctx context.Context) (int64, error)
}

// Service answers dashboard queries. Nothing is cached; every call reads current storage.
type Service interface {
	CustomerCount(ctx context.Context) (int64, error)
	PendingLoanTotal(ctx context.Context) (float64, error)
	DisbursementSummary(ctx context.Context) (*WindowSummary, error)
	RepaymentSummary(ctx context.Context) (*WindowSummary, error)
	LoanTrend(ctx context.Context) (*Trend, error)
}

type reportService struct {
	repo      Repository
	customers CustomerCounter
	clock     clock.Clock
	logger    *slog.Logger
}

func NewService(repo Repository, customers CustomerCounter, clk clock.Clock, logger *slog.Logger) Service {
	return &reportService{
		repo:      repo,
		customers: customers,
		clock:     clk,
		logger:    logger.With("component", "reportService"),
	}
}

func (s *reportService) CustomerCount(ctx context.Context) (int64, error) {
	return s.customers.CountCustomers(ctx)
}

func (s *reportService) PendingLoanTotal(ctx context.Context) (float64, error) {
	total, err := s.repo.SumPendingLoans(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sum pending loans", "error", err)
		return 0, fmt.Errorf("failed to sum pending loans: %w", err)
	}
	return total, nil
}

func (s *reportService) DisbursementSummary(ctx context.Context) (*WindowSummary, error) {
	return s.windowed(ctx, "disbursement", s.repo.SumDisbursedSince)
}

func (s *reportService) RepaymentSummary(ctx context.Context) (*WindowSummary, error) {
	return s.windowed(ctx, "repayment", s.repo.SumRepaidSince)
}

func (s *reportService) windowed(ctx context.Context, name string, sum func(context.Context, time.Time) (float64, error)) (*WindowSummary, error) {
	now := s.clock.Now()
	weekStart, monthStart := clock.StartOfWeek(now), clock.StartOfMonth(now)

	week, err := sum(ctx, weekStart)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to compute weekly summary", "summary", name, "error", err)
		return nil, fmt.Errorf("failed to compute weekly %s summary: %w", name, err)
	}
	month, err := sum(ctx, monthStart)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to compute monthly summary", "summary", name, "error", err)
		return nil, fmt.Errorf("failed to compute monthly %s summary: %w", name, err)
	}

	s.logger.DebugContext(ctx, "Computed window summary",
		"summary", name,
		"weekStart", weekStart.Format(time.DateOnly),
		"monthStart", monthStart.Format(time.DateOnly),
	)
	return &WindowSummary{Week: week, Month: month}, nil
}

func (s *reportService) LoanTrend(ctx context.Context) (*Trend, error) {
	disbursed, err := s.repo.DisbursedByMonth(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load disbursement trend", "error", err)
		return nil, fmt.Errorf("failed to load disbursement trend: %w", err)
	}
	repaid, err := s.repo.RepaidByMonth(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load repayment trend", "error", err)
		return nil, fmt.Errorf("failed to load repayment trend: %w", err)
	}

	return &Trend{
		Disbursed: disbursed,
		Repaid:    repaid,
		Combined:  MergeTrend(disbursed, repaid),
	}, nil
}
