package repayment_test

import (
	"context"
	"errors"
	"io"
	"loan-backoffice/internal/domain/repayment"
	"loan-backoffice/internal/event"
	"loan-backoffice/internal/pkg/apperrors"
	"loan-backoffice/internal/pkg/clock"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var recordedAt = time.Date(2025, 6, 18, 9, 30, 0, 0, time.UTC)

func setup() (*repayment.MockRepository, *repayment.MockLoanChecker, *repayment.MockPublisher, repayment.Service) {
	repo := new(repayment.MockRepository)
	loans := new(repayment.MockLoanChecker)
	pub := new(repayment.MockPublisher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, loans, pub, repayment.NewService(repo, loans, pub, clock.Fixed{At: recordedAt}, logger)
}

func TestRecordRepayment(t *testing.T) {
	ctx := context.Background()
	details := repayment.Details{Amount: 1100, Method: "Bank", Date: "2025-06-18"}

	t.Run("Success", func(t *testing.T) {
		repo, loans, pub, service := setup()
		loans.On("LoanExists", ctx, int64(4)).Return(true, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(r *repayment.Repayment) bool {
			return r.LoanID == 4 && r.Amount == 1100 && r.Method == "Bank"
		})).Return(func(_ context.Context, r *repayment.Repayment) *repayment.Repayment {
			saved := *r
			saved.ID = 31
			return &saved
		}, nil).Once()
		pub.On("PublishRepaymentRecorded", ctx, mock.MatchedBy(func(evt event.RepaymentRecordedEvent) bool {
			return evt.Payload.RepaymentID == 31 && evt.Payload.Date == "2025-06-18" && evt.Timestamp.Equal(recordedAt)
		})).Return(nil).Once()

		created, err := service.RecordRepayment(ctx, 4, details)

		require.NoError(t, err)
		assert.Equal(t, int64(31), created.ID)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("Error - Unknown Loan And Bad Fields Reported Together", func(t *testing.T) {
		repo, loans, _, service := setup()
		loans.On("LoanExists", ctx, int64(404)).Return(false, nil).Once()

		_, err := service.RecordRepayment(ctx, 404, repayment.Details{Amount: -5, Method: "Bank", Date: "2025-06-18"})

		var fields apperrors.FieldErrors
		require.ErrorAs(t, err, &fields)
		assert.Contains(t, fields, "loan_id")
		assert.Contains(t, fields, "amount")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error - Loan Lookup Fails", func(t *testing.T) {
		_, loans, _, service := setup()
		loans.On("LoanExists", ctx, int64(4)).Return(false, apperrors.ErrDatabase).Once()

		_, err := service.RecordRepayment(ctx, 4, details)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})

	t.Run("Publish Failure Is Only Logged", func(t *testing.T) {
		repo, loans, pub, service := setup()
		loans.On("LoanExists", ctx, int64(4)).Return(true, nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(&repayment.Repayment{ID: 1, LoanID: 4}, nil).Once()
		pub.On("PublishRepaymentRecorded", ctx, mock.Anything).Return(errors.New("channel closed")).Once()

		_, err := service.RecordRepayment(ctx, 4, details)

		assert.NoError(t, err)
	})
}

func TestUpdateRepayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, _, _, service := setup()
		repo.On("FindByID", ctx, int64(31)).Return(&repayment.Repayment{ID: 31, LoanID: 4, Amount: 10, Method: "Cash"}, nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(r *repayment.Repayment) bool {
			return r.ID == 31 && r.LoanID == 4 && r.Amount == 20 && r.Method == "Bank"
		})).Return(func(_ context.Context, r *repayment.Repayment) *repayment.Repayment { return r }, nil).Once()

		updated, err := service.UpdateRepayment(ctx, 31, repayment.Details{Amount: 20, Method: "Bank", Date: "2025-06-19"})

		require.NoError(t, err)
		assert.Equal(t, float64(20), updated.Amount)
	})

	t.Run("Error - Validation", func(t *testing.T) {
		repo, _, _, service := setup()
		repo.On("FindByID", ctx, int64(31)).Return(&repayment.Repayment{ID: 31}, nil).Once()

		_, err := service.UpdateRepayment(ctx, 31, repayment.Details{Amount: 20})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		repo, _, _, service := setup()
		repo.On("FindByID", ctx, int64(31)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.UpdateRepayment(ctx, 31, repayment.Details{Amount: 20, Method: "Bank", Date: "2025-06-19"})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDeleteAndList(t *testing.T) {
	ctx := context.Background()
	repo, _, _, service := setup()
	repo.On("Delete", ctx, int64(31)).Return(nil).Once()
	repo.On("Delete", ctx, int64(32)).Return(apperrors.ErrNotFound).Once()
	repo.On("FindAll", ctx).Return([]*repayment.Repayment{{ID: 1}}, nil).Once()

	assert.NoError(t, service.DeleteRepayment(ctx, 31))
	assert.ErrorIs(t, service.DeleteRepayment(ctx, 32), apperrors.ErrNotFound)

	list, err := service.ListRepayments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
