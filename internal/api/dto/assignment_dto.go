package dto

import (
	"time"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// AssignRequest payload for POST /assignments.
type AssignRequest struct {
	AssetID      string  `json:"asset_id"`
	EmployeeID   string  `json:"employee_id"`
	AssignedDate *string `json:"assigned_date"`
	Notes        string  `json:"notes"`
}

// ReturnRequest payload for POST /assignments/:id/return.
type ReturnRequest struct {
	ReturnDate *string `json:"return_date"`
}

// AssignmentResponse is the JSON view of an assignment.
type AssignmentResponse struct {
	ID           string    `json:"id"`
	AssetID      string    `json:"asset_id"`
	EmployeeID   string    `json:"employee_id"`
	AssignedBy   string    `json:"assigned_by,omitempty"`
	AssignedDate string    `json:"assigned_date"`
	ReturnDate   *string   `json:"return_date"`
	Notes        string    `json:"notes"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAssignmentResponse maps an assignment.
func NewAssignmentResponse(a domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           a.ID,
		AssetID:      a.AssetID,
		EmployeeID:   a.EmployeeID,
		AssignedBy:   a.AssignedBy,
		AssignedDate: a.AssignedDate.Format(time.DateOnly),
		ReturnDate:   FormatDate(a.ReturnDate),
		Notes:        a.Notes,
		Active:       a.IsActive(),
		CreatedAt:    a.CreatedAt,
	}
}

// NewAssignmentResponses maps a slice of assignments.
func NewAssignmentResponses(items []domain.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewAssignmentResponse(a))
	}
	return out
}
