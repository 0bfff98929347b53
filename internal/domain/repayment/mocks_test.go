package repayment

import (
	"context"
	"loan-backoffice/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Create(ctx context.Context, r *Repayment) (*Repayment, error) {
	ret := _m.Called(ctx, r)

	var r0 *Repayment
	if rf, ok := ret.Get(0).(func(context.Context, *Repayment) *Repayment); ok {
		r0 = rf(ctx, r)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Repayment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByID(ctx context.Context, repaymentID int64) (*Repayment, error) {
	ret := _m.Called(ctx, repaymentID)

	var r0 *Repayment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Repayment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindAll(ctx context.Context) ([]*Repayment, error) {
	ret := _m.Called(ctx)

	var r0 []*Repayment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Repayment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) Update(ctx context.Context, r *Repayment) (*Repayment, error) {
	ret := _m.Called(ctx, r)

	var r0 *Repayment
	if rf, ok := ret.Get(0).(func(context.Context, *Repayment) *Repayment); ok {
		r0 = rf(ctx, r)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Repayment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) Delete(ctx context.Context, repaymentID int64) error {
	return _m.Called(ctx, repaymentID).Error(0)
}

type MockLoanChecker struct {
	mock.Mock
}

func (_m *MockLoanChecker) LoanExists(ctx context.Context, loanID int64) (bool, error) {
	ret := _m.Called(ctx, loanID)
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
	_ LoanChecker          = (*MockLoanChecker)(nil)
	_ event.EventPublisher = (*MockPublisher)(nil)
)
