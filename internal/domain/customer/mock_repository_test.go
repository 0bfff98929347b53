package customer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Create(ctx context.Context, customer *Customer) (*Customer, error) {
	ret := _m.Called(ctx, customer)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) *Customer); ok {
		r0 = rf(ctx, customer)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) FindAll(ctx context.Context) ([]*Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) Update(ctx context.Context, customer *Customer) (*Customer, error) {
	ret := _m.Called(ctx, customer)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) *Customer); ok {
		r0 = rf(ctx, customer)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockRepository) Delete(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

func (_m *MockRepository) Exists(ctx context.Context, customerID int64) (bool, error) {
	ret := _m.Called(ctx, customerID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockRepository) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ Repository = (*MockRepository)(nil)
