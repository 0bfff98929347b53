package handler

import (
	"context"
	"io"
	"loan-backoffice/internal/domain/customer"
	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/domain/repayment"
	"loan-backoffice/internal/domain/report"
	"log/slog"

	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) CreateCustomer(ctx context.Context, in customer.CreateInput) (*customer.Customer, error) {
	ret := _m.Called(ctx, in)
	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)
	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)
	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID int64, patch customer.Patch) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID, patch)
	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	return _m.Called(ctx, customerID).Error(0)
}

func (_m *MockCustomerService) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockCustomerService) CountCustomers(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

type MockLoanService struct {
	mock.Mock
}

func (_m *MockLoanService) loanResult(ret mock.Arguments) (*loan.LoanApplication, error) {
	var r0 *loan.LoanApplication
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.LoanApplication)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) CreateLoanApplication(ctx context.Context, in loan.CreateInput) (*loan.LoanApplication, error) {
	return _m.loanResult(_m.Called(ctx, in))
}

func (_m *MockLoanService) UpdateLoanApplication(ctx context.Context, loanID int64, in loan.UpdateInput) (*loan.LoanApplication, error) {
	return _m.loanResult(_m.Called(ctx, loanID, in))
}

func (_m *MockLoanService) ApproveLoanApplication(ctx context.Context, loanID int64) (*loan.LoanApplication, error) {
	return _m.loanResult(_m.Called(ctx, loanID))
}

func (_m *MockLoanService) RejectLoanApplication(ctx context.Context, loanID int64, reason string) (*loan.LoanApplication, error) {
	return _m.loanResult(_m.Called(ctx, loanID, reason))
}

func (_m *MockLoanService) DeleteLoanApplication(ctx context.Context, loanID int64) error {
	return _m.Called(ctx, loanID).Error(0)
}

func (_m *MockLoanService) GetLoanApplication(ctx context.Context, loanID int64) (*loan.LoanApplication, error) {
	return _m.loanResult(_m.Called(ctx, loanID))
}

func (_m *MockLoanService) ListLoanApplications(ctx context.Context) ([]*loan.LoanApplication, error) {
	ret := _m.Called(ctx)
	var r0 []*loan.LoanApplication
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.LoanApplication)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) SetGuarantors(ctx context.Context, loanID int64, customerIDs []int64) (*loan.LoanApplication, error) {
	return _m.loanResult(_m.Called(ctx, loanID, customerIDs))
}

func (_m *MockLoanService) GetBalance(ctx context.Context, loanID int64) (*loan.Balance, error) {
	ret := _m.Called(ctx, loanID)
	var r0 *loan.Balance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Balance)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) LoanExists(ctx context.Context, loanID int64) (bool, error) {
	ret := _m.Called(ctx, loanID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockLoanService) ListDriftedTotals(ctx context.Context) ([]loan.TotalDrift, error) {
	ret := _m.Called(ctx)
	var r0 []loan.TotalDrift
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.TotalDrift)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) CorrectTotalPaid(ctx context.Context, loanID int64, totalPaid loan.Money) error {
	return _m.Called(ctx, loanID, totalPaid).Error(0)
}

type MockRepaymentService struct {
	mock.Mock
}

func (_m *MockRepaymentService) repaymentResult(ret mock.Arguments) (*repayment.Repayment, error) {
	var r0 *repayment.Repayment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*repayment.Repayment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepaymentService) RecordRepayment(ctx context.Context, loanID int64, d repayment.Details) (*repayment.Repayment, error) {
	return _m.repaymentResult(_m.Called(ctx, loanID, d))
}

func (_m *MockRepaymentService) GetRepayment(ctx context.Context, repaymentID int64) (*repayment.Repayment, error) {
	return _m.repaymentResult(_m.Called(ctx, repaymentID))
}

func (_m *MockRepaymentService) ListRepayments(ctx context.Context) ([]*repayment.Repayment, error) {
	ret := _m.Called(ctx)
	var r0 []*repayment.Repayment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*repayment.Repayment)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepaymentService) UpdateRepayment(ctx context.Context, repaymentID int64, d repayment.Details) (*repayment.Repayment, error) {
	return _m.repaymentResult(_m.Called(ctx, repaymentID, d))
}

func (_m *MockRepaymentService) DeleteRepayment(ctx context.Context, repaymentID int64) error {
	return _m.Called(ctx, repaymentID).Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (_m *MockReportService) CustomerCount(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockReportService) PendingLoanTotal(ctx context.Context) (float64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(float64), ret.Error(1)
}

func (_m *MockReportService) DisbursementSummary(ctx context.Context) (*report.WindowSummary, error) {
	ret := _m.Called(ctx)
	var r0 *report.WindowSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*report.WindowSummary)
	}
	return r0, ret.Error(1)
}

func (_m *MockReportService) RepaymentSummary(ctx context.Context) (*report.WindowSummary, error) {
	ret := _m.Called(ctx)
	var r0 *report.WindowSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*report.WindowSummary)
	}
	return r0, ret.Error(1)
}

func (_m *MockReportService) LoanTrend(ctx context.Context) (*report.Trend, error) {
	ret := _m.Called(ctx)
	var r0 *report.Trend
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*report.Trend)
	}
	return r0, ret.Error(1)
}
