package patient

import (
	"database/sql/driver"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Address   string    `db:"address" json:"address"`
	BirthDate Date      `db:"birth_date" json:"birthDate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to the
// ISO-8601 date form (YYYY-MM-DD) and stores as a SQL DATE.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		d.Time = t
		return nil
	default:
		return fmt.Errorf("scan date: unsupported source type %T", src)
	}
}

// CreateRequest is the inbound payload for registering a patient.
type CreateRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	BirthDate string `json:"birthDate"`
}

// UpdateRequest carries the four mutable patient fields.
type UpdateRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	BirthDate string `json:"birthDate"`
}

// ValidationError aggregates per-field validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validateFields(name, email, address, birthDate string) *ValidationError {
	fields := make(map[string]string)
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email must be a valid address"
	}
	if strings.TrimSpace(address) == "" {
		fields["address"] = "address is required"
	}
	if strings.TrimSpace(birthDate) == "" {
		fields["birthDate"] = "birthDate is required"
	} else if _, err := ParseDate(birthDate); err != nil {
		fields["birthDate"] = "birthDate must be an ISO-8601 date (YYYY-MM-DD)"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r CreateRequest) Validate() *ValidationError {
	return validateFields(r.Name, r.Email, r.Address, r.BirthDate)
}

func (r UpdateRequest) Validate() *ValidationError {
	return validateFields(r.Name, r.Email, r.Address, r.BirthDate)
}
