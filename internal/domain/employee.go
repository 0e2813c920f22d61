package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is the counterparty of an assignment.
type Employee struct {
	ID           string
	Name         string
	Email        string
	EmployeeCode string
	Department   string
	Phone        string
	Location     string
	CreatedAt    time.Time
}

// NewEmployee validates a candidate employee and stamps its identity.
func NewEmployee(candidate Employee, now time.Time) (*Employee, error) {
	e := candidate
	e.Name = strings.TrimSpace(e.Name)
	e.Email = NormalizeEmail(e.Email)
	e.EmployeeCode = strings.TrimSpace(e.EmployeeCode)

	var errs []FieldError
	if e.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if e.Email == "" || !strings.Contains(e.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid address"})
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	e.ID = uuid.NewString()
	e.CreatedAt = now
	return &e, nil
}

// Category is a named asset grouping.
type Category struct {
	ID          string
	Name        string
	Description string
}

// DefaultCategories is the seed list installed on a fresh inventory.
var DefaultCategories = []string{
	"LAPTOPS",
	"PRINTERS",
	"DESKTOPS",
	"SERVERS",
	"NETWORK",
	"MOBILE",
	"TABLETS",
	"MONITORS",
	"ACCESSORIES",
}
