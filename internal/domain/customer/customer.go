package customer

import (
	"loan-backoffice/internal/pkg/apperrors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const placeholderEmailDomain = "@mail.com"

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IDNumber  string    `json:"id_number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch carries the fields of an update request. Nil fields are left as they are.
type Patch struct {
	Name     *string
	Email    *string
	Phone    *string
	IDNumber *string
}

// PlaceholderEmail returns a unique stand-in address for customers registered without one.
func PlaceholderEmail() string {
	return "null_" + strings.ReplaceAll(uuid.NewString(), "-", "") + placeholderEmailDomain
}

func IsPlaceholderEmail(email string) bool {
	return strings.HasPrefix(email, "null_") && strings.HasSuffix(email, placeholderEmailDomain)
}

func NewCustomer(name string, email *string, phone, idNumber string) (*Customer, error) {
	c := &Customer{
		Name:     strings.TrimSpace(name),
		Phone:    strings.TrimSpace(phone),
		IDNumber: strings.TrimSpace(idNumber),
	}
	if email != nil && strings.TrimSpace(*email) != "" {
		c.Email = strings.TrimSpace(*email)
	} else {
		c.Email = PlaceholderEmail()
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Customer) Validate() error {
	fields := apperrors.FieldErrors{}
	if c.Name == "" {
		fields["name"] = "is required"
	}
	if c.Phone == "" {
		fields["phone"] = "is required"
	}
	if c.IDNumber == "" {
		fields["id_number"] = "is required"
	}
	if c.Email == "" {
		fields["email"] = "is required"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

// Apply replaces every field present in p and reports whether anything changed.
func (c *Customer) Apply(p Patch) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v == nil {
			return
		}
		trimmed := strings.TrimSpace(*v)
		if *dst != trimmed {
			*dst = trimmed
			changed = true
		}
	}

	set(&c.Name, p.Name)
	set(&c.Phone, p.Phone)
	set(&c.IDNumber, p.IDNumber)
	if p.Email != nil {
		if strings.TrimSpace(*p.Email) == "" {
			if !IsPlaceholderEmail(c.Email) {
				c.Email = PlaceholderEmail()
				changed = true
			}
		} else {
			set(&c.Email, p.Email)
		}
	}
	return changed
}
