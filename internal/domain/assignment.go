package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Assignment is a dated link between an asset and an employee, open until returned.
type Assignment struct {
	ID           string
	AssetID      string
	EmployeeID   string
	AssignedBy   string
	AssignedDate time.Time
	ReturnDate   *time.Time
	Notes        string
	CreatedAt    time.Time
}

// IsActive reports whether the assignment has not been returned yet.
func (a Assignment) IsActive() bool {
	return a.ReturnDate == nil
}

// AssignRequest is the input of Assign.
type AssignRequest struct {
	EmployeeID string
	ActorID    string
	Date       time.Time
	Notes      string
}

// Assign hands an available asset to an employee. existing is every known
// assignment of the asset. The input asset is left unchanged.
func Assign(asset Asset, req AssignRequest, existing []Assignment, now time.Time) (*Assignment, *Asset, error) {
	var errs []FieldError
	if strings.TrimSpace(req.EmployeeID) == "" {
		errs = append(errs, FieldError{Field: "employee_id", Message: "required"})
	}
	if req.Date.IsZero() {
		errs = append(errs, FieldError{Field: "assigned_date", Message: "required"})
	}
	if len(errs) > 0 {
		return nil, nil, &ValidationError{Errors: errs}
	}

	if asset.Status != AssetStatusAvailable {
		return nil, nil, NewConflictError(ReasonAssetUnavailable, fmt.Sprintf("asset is %s", asset.Status))
	}
	active, err := FindActiveAssignment(existing, asset.ID)
	if err != nil {
		return nil, nil, err
	}
	if active != nil {
		return nil, nil, NewConflictError(ReasonActiveAssignment, fmt.Sprintf("asset is held by employee %s", active.EmployeeID))
	}

	assignment := &Assignment{
		ID:           uuid.NewString(),
		AssetID:      asset.ID,
		EmployeeID:   strings.TrimSpace(req.EmployeeID),
		AssignedBy:   req.ActorID,
		AssignedDate: req.Date,
		Notes:        req.Notes,
		CreatedAt:    now,
	}
	updated := asset
	updated.Status = AssetStatusAssigned
	updated.UpdatedAt = now
	return assignment, &updated, nil
}

// ReturnAsset closes an assignment. The asset becomes AVAILABLE unless it is
// in MAINTENANCE or RETIRED, in which case its status is kept.
func ReturnAsset(assignment Assignment, asset Asset, returnDate time.Time, now time.Time) (*Assignment, *Asset, error) {
	if returnDate.IsZero() {
		return nil, nil, NewValidationError("return_date", "required")
	}
	if !assignment.IsActive() {
		return nil, nil, NewValidationError("return_date", "assignment was already returned")
	}
	if returnDate.Before(assignment.AssignedDate) {
		return nil, nil, NewValidationError("return_date", "must not be before the assigned date")
	}
	if assignment.AssetID != asset.ID {
		return nil, nil, NewValidationError("asset_id", "does not match the assignment")
	}

	closed := assignment
	rd := returnDate
	closed.ReturnDate = &rd

	updated := ReleaseAsset(asset, now)
	return &closed, &updated, nil
}

// ReleaseAsset returns asset as it should look once its holder gave it back.
// MAINTENANCE and RETIRED are kept; anything else becomes AVAILABLE.
func ReleaseAsset(asset Asset, now time.Time) Asset {
	switch asset.Status {
	case AssetStatusMaintenance, AssetStatusRetired:
	default:
		asset.Status = AssetStatusAvailable
	}
	asset.UpdatedAt = now
	return asset
}

// FindActiveAssignment returns the active assignment for assetID, or nil.
// More than one active assignment is reported, never resolved.
func FindActiveAssignment(assignments []Assignment, assetID string) (*Assignment, error) {
	var found *Assignment
	for i := range assignments {
		a := assignments[i]
		if a.AssetID != assetID || !a.IsActive() {
			continue
		}
		if found != nil {
			return nil, &DataIntegrityError{
				Entity: "asset",
				ID:     assetID,
				Detail: fmt.Sprintf("multiple active assignments (%s, %s)", found.ID, a.ID),
			}
		}
		found = &a
	}
	return found, nil
}
