package dto

import "github.com/shopspring/decimal"

type ErrorDetail struct {
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenRequest struct {
	Username string `json:"username" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Money renders a monetary value with exactly two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func optionalMoney(v *float64) *string {
	if v == nil {
		return nil
	}
	s := Money(*v)
	return &s
}
