package dto

import (
	"loan-backoffice/internal/domain/customer"
	"time"
)

type CreateCustomerRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    string  `json:"phone" validate:"required,max=50"`
	IDNumber string  `json:"id_number" validate:"required,max=100"`
}

func (r CreateCustomerRequest) ToInput() customer.CreateInput {
	return customer.CreateInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		IDNumber: r.IDNumber,
	}
}

// UpdateCustomerRequest replaces only the fields that are present.
type UpdateCustomerRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	IDNumber *string `json:"id_number" validate:"omitempty,max=100"`
}

func (r UpdateCustomerRequest) ToPatch() customer.Patch {
	return customer.Patch{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		IDNumber: r.IDNumber,
	}
}

type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IDNumber  string    `json:"id_number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		ID:        cust.ID,
		Name:      cust.Name,
		Email:     cust.Email,
		Phone:     cust.Phone,
		IDNumber:  cust.IDNumber,
		CreatedAt: cust.CreatedAt,
		UpdatedAt: cust.UpdatedAt,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = NewCustomerResponse(cust)
	}
	return resp
}

type CountResponse struct {
	Count int64 `json:"count"`
}
