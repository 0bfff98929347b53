package loan

import (
	"context"
	"loan-backoffice/internal/event"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Create(ctx context.Context, app *LoanApplication, guarantorIDs []int64) (*LoanApplication, error) {
	ret := _m.Called(ctx, app, guarantorIDs)

	var r0 *LoanApplication
	if rf, ok := ret.Get(0).(func(context.Context, *LoanApplication, []int64) *LoanApplication); ok {
		r0 = rf(ctx, app, guarantorIDs)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*LoanApplication)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByID(ctx context.Context, loanID int64) (*LoanApplication, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *LoanApplication
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*LoanApplication)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindAll(ctx context.Context) ([]*LoanApplication, error) {
	ret := _m.Called(ctx)

	var r0 []*LoanApplication
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*LoanApplication)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) Update(ctx context.Context, app *LoanApplication, guarantorIDs []int64) error {
	return _m.Called(ctx, app, guarantorIDs).Error(0)
}

func (_m *MockRepository) Approve(ctx context.Context, loanID int64, approvedOn time.Time) error {
	return _m.Called(ctx, loanID, approvedOn).Error(0)
}

func (_m *MockRepository) Reject(ctx context.Context, loanID int64, reason string) error {
	return _m.Called(ctx, loanID, reason).Error(0)
}

func (_m *MockRepository) Delete(ctx context.Context, loanID int64) error {
	return _m.Called(ctx, loanID).Error(0)
}

func (_m *MockRepository) Exists(ctx context.Context, loanID int64) (bool, error) {
	ret := _m.Called(ctx, loanID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockRepository) SetGuarantors(ctx context.Context, loanID int64, customerIDs []int64) error {
	return _m.Called(ctx, loanID, customerIDs).Error(0)
}

func (_m *MockRepository) GetBalance(ctx context.Context, loanID int64) (*Balance, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Balance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Balance)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindDriftedTotals(ctx context.Context) ([]TotalDrift, error) {
	ret := _m.Called(ctx)

	var r0 []TotalDrift
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]TotalDrift)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) SetTotalPaid(ctx context.Context, loanID int64, totalPaid Money) error {
	return _m.Called(ctx, loanID, totalPaid).Error(0)
}

type MockCustomerChecker struct {
	mock.Mock
}

func (_m *MockCustomerChecker) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Bool(0), ret.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) PublishLoanCreated(ctx context.Context, evt event.LoanEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishLoanApproved(ctx context.Context, evt event.LoanEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishLoanRejected(ctx context.Context, evt event.LoanEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishLoanDeleted(ctx context.Context, evt event.LoanEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishRepaymentRecorded(ctx context.Context, evt event.RepaymentRecordedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

var (
	_ Repository           = (*MockRepository)(nil)
	_ CustomerChecker      = (*MockCustomerChecker)(nil)
	_ event.EventPublisher = (*MockPublisher)(nil)
)
