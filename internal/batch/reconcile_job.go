package batch

import (
	"context"
	"errors"
	"fmt"
	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/infrastructure/monitoring"
	"loan-backoffice/internal/pkg/apperrors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const defaultReconcileWorkers = 4

// TotalsReconciler is satisfied by loan.LoanService.
type TotalsReconciler interface {
	ListDriftedTotals(ctx context.Context) ([]loan.TotalDrift, error)
	CorrectTotalPaid(ctx context.Context, loanID int64, totalPaid loan.Money) error
}

// ReconcileTotalsJob rewrites loan_applications.total_paid wherever it disagrees
// with the sum of recorded repayments.
type ReconcileTotalsJob struct {
	loans   TotalsReconciler
	workers int
	logger  *slog.Logger
}

func NewReconcileTotalsJob(loans TotalsReconciler, logger *slog.Logger) *ReconcileTotalsJob {
	if loans == nil || logger == nil {
		panic("ReconcileTotalsJob dependencies cannot be nil")
	}
	return &ReconcileTotalsJob{
		loans:   loans,
		workers: defaultReconcileWorkers,
		logger:  logger.With("job", "ReconcileTotals"),
	}
}

func (j *ReconcileTotalsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting total_paid reconciliation job.")

	drifts, err := j.loans.ListDriftedTotals(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to find drifted loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to find drifted loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Found loans with drifted total_paid.", slog.Int("count", len(drifts)))

	if len(drifts) == 0 {
		j.logger.InfoContext(ctx, "Reconciliation job finished, nothing to correct.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var corrected, vanished, errorCount atomic.Int32
	sem := make(chan struct{}, j.workers)

	for _, drift := range drifts {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(d loan.TotalDrift) {
			defer wg.Done()
			defer func() { <-sem }()

			logCtx := j.logger.With(slog.Int64("loanID", d.LoanID))
			if err := j.loans.CorrectTotalPaid(ctx, d.LoanID, d.Repaid); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Loan deleted before its total could be corrected")
					vanished.Add(1)
					return
				}
				logCtx.ErrorContext(ctx, "Failed to correct total_paid", slog.Any("error", err))
				errorCount.Add(1)
				return
			}

			logCtx.DebugContext(ctx, "Corrected total_paid",
				slog.Float64("stored", d.TotalPaid),
				slog.Float64("repaid", d.Repaid),
			)
			corrected.Add(1)
		}(drift)
	}

	wg.Wait()
	monitoring.RecordReconciledLoans(int(corrected.Load()))

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("loans_drifted", len(drifts)),
		slog.Int("loans_corrected", int(corrected.Load())),
		slog.Int("loans_vanished", int(vanished.Load())),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)

	if n := errorCount.Load(); n > 0 {
		summaryLog.WarnContext(ctx, "Reconciliation job finished with errors.")
		return fmt.Errorf("job completed with %d errors", n)
	}
	if err := ctx.Err(); err != nil {
		summaryLog.WarnContext(ctx, "Reconciliation job interrupted.")
		return fmt.Errorf("job interrupted: %w", err)
	}
	summaryLog.InfoContext(ctx, "Reconciliation job finished successfully.")
	return nil
}
