package repayment

import (
	"loan-backoffice/internal/pkg/apperrors"
	"loan-backoffice/internal/pkg/money"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateLayout = "2006-01-02"

	MaxMethodLength    = 100
	MaxReferenceLength = 255
)

type Repayment struct {
	ID        int64
	LoanID    int64
	Amount    float64
	Method    string
	Date      time.Time
	Reference *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Details are the caller-editable fields of a repayment.
type Details struct {
	Amount    float64
	Method    string
	Date      string
	Reference *string
}

// apply validates d and copies it onto r. The date must be YYYY-MM-DD.
func (r *Repayment) apply(d Details) error {
	fields := apperrors.FieldErrors{}

	if msg := money.Positive(d.Amount, money.MaxNumeric10); msg != "" {
		fields["amount"] = msg
	}

	method := strings.TrimSpace(d.Method)
	switch {
	case method == "":
		fields["method"] = "is required"
	case utf8.RuneCountInString(method) > MaxMethodLength:
		fields["method"] = "must be at most 100 characters"
	}

	var date time.Time
	if strings.TrimSpace(d.Date) == "" {
		fields["date"] = "is required"
	} else {
		parsed, err := time.Parse(DateLayout, strings.TrimSpace(d.Date))
		if err != nil {
			fields["date"] = "must be a date in YYYY-MM-DD format"
		}
		date = parsed
	}

	var reference *string
	if d.Reference != nil {
		ref := strings.TrimSpace(*d.Reference)
		if utf8.RuneCountInString(ref) > MaxReferenceLength {
			fields["reference"] = "must be at most 255 characters"
		}
		if ref != "" {
			reference = &ref
		}
	}

	if len(fields) > 0 {
		return fields
	}

	r.Amount = d.Amount
	r.Method = method
	r.Date = date
	r.Reference = reference
	return nil
}

func NewRepayment(loanID int64, d Details) (*Repayment, error) {
	r := &Repayment{LoanID: loanID}
	if err := r.apply(d); err != nil {
		return nil, err
	}
	return r, nil
}
