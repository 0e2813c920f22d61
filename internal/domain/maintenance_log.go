package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaintenanceLog is a ticket raised against an asset.
type MaintenanceLog struct {
	ID          string
	DeviceID    string
	UserID      string
	Type        MaintenanceType
	Description string
	Status      MaintenanceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MaintenanceLogHistory is an immutable audit entry for a ticket status change.
type MaintenanceLogHistory struct {
	ID        string
	LogID     string
	ChangedBy string
	OldStatus MaintenanceStatus
	NewStatus MaintenanceStatus
	Comment   string
	CreatedAt time.Time
}

// NewMaintenanceLogHistory records a transition from old to updated.
func NewMaintenanceLogHistory(old, updated MaintenanceLog, changedBy, comment string) MaintenanceLogHistory {
	return MaintenanceLogHistory{
		ID:        uuid.NewString(),
		LogID:     updated.ID,
		ChangedBy: changedBy,
		OldStatus: old.Status,
		NewStatus: updated.Status,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: updated.UpdatedAt,
	}
}

// CreateTicket validates a new ticket. MISC tickets need a description.
func CreateTicket(deviceID, userID string, typ MaintenanceType, description string, now time.Time) (*MaintenanceLog, error) {
	var errs []FieldError
	if strings.TrimSpace(deviceID) == "" {
		errs = append(errs, FieldError{Field: "device_id", Message: "required"})
	}
	if strings.TrimSpace(userID) == "" {
		errs = append(errs, FieldError{Field: "user_id", Message: "required"})
	}
	if !typ.IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be one of maintenance, malfunction, misc"})
	}
	description = strings.TrimSpace(description)
	if typ == MaintenanceTypeMisc && description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required for misc tickets"})
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &MaintenanceLog{
		ID:          uuid.NewString(),
		DeviceID:    deviceID,
		UserID:      userID,
		Type:        typ,
		Description: description,
		Status:      MaintenanceStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NextStatus returns the only status AdvanceStatus accepts from s.
func NextStatus(s MaintenanceStatus) (MaintenanceStatus, bool) {
	return NextMaintenanceStatus(s)
}

// AdvanceStatus moves a ticket exactly one step forward. Only managers may do so.
func AdvanceStatus(ticket MaintenanceLog, next MaintenanceStatus, actorIsManager bool, now time.Time) (*MaintenanceLog, error) {
	if err := checkTicketChange(ticket, next, actorIsManager, "advance maintenance status"); err != nil {
		return nil, err
	}
	successor, ok := NextStatus(ticket.Status)
	if !ok || successor != next {
		return nil, ticketTransitionError(ticket.Status, next)
	}
	return withStatus(ticket, next, now), nil
}

// OverrideStatus lets a manager jump a ticket forward past intermediate states.
// Backward moves and moves out of CLOSED are still rejected.
func OverrideStatus(ticket MaintenanceLog, next MaintenanceStatus, actorIsManager bool, now time.Time) (*MaintenanceLog, error) {
	if err := checkTicketChange(ticket, next, actorIsManager, "override maintenance status"); err != nil {
		return nil, err
	}
	if next.rank() <= ticket.Status.rank() {
		return nil, ticketTransitionError(ticket.Status, next)
	}
	return withStatus(ticket, next, now), nil
}

func checkTicketChange(ticket MaintenanceLog, next MaintenanceStatus, actorIsManager bool, action string) error {
	if !actorIsManager {
		return &PermissionError{Action: action}
	}
	if !next.IsValid() {
		return NewValidationError("status", "unknown status "+string(next))
	}
	if ticket.Status.IsTerminal() {
		return ticketTransitionError(ticket.Status, next)
	}
	return nil
}

func ticketTransitionError(from, to MaintenanceStatus) *TransitionError {
	return &TransitionError{Entity: "maintenance log", From: from.String(), To: to.String()}
}

func withStatus(ticket MaintenanceLog, status MaintenanceStatus, now time.Time) *MaintenanceLog {
	updated := ticket
	updated.Status = status
	updated.UpdatedAt = now
	return &updated
}
