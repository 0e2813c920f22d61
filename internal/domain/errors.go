package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers. Every typed error below unwraps to one of them.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrPermission    = errors.New("permission denied")
	ErrTransition    = errors.New("invalid transition")
	ErrDataIntegrity = errors.New("data integrity violation")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when input fails a static constraint.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// ConflictReason classifies a ConflictError for callers.
type ConflictReason string

const (
	ReasonAssetUnavailable     ConflictReason = "asset-unavailable"
	ReasonActiveAssignment     ConflictReason = "active-assignment"
	ReasonOpenTickets          ConflictReason = "open-tickets"
	ReasonDuplicateBarcode     ConflictReason = "duplicate-barcode"
	ReasonStaleAsset           ConflictReason = "stale-asset"
	ReasonStaleAssignment      ConflictReason = "stale-assignment"
	ReasonStaleTicket          ConflictReason = "stale-ticket"
	ReasonStaleUser            ConflictReason = "stale-user"
	ReasonPartialWrite         ConflictReason = "partial-write"
	ReasonConfirmationRequired ConflictReason = "confirmation-required"
	ReasonDuplicateEmail       ConflictReason = "duplicate-email"
)

// ConflictError is returned when a request conflicts with current entity state.
// Committed lists the sub-writes that already succeeded when a multi-write
// operation failed halfway.
type ConflictError struct {
	Reason    ConflictReason
	Message   string
	Committed []string
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("conflict: %s", e.Reason)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Committed) > 0 {
		msg += fmt.Sprintf(" (committed: %s)", strings.Join(e.Committed, ","))
	}
	return msg
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError builds a ConflictError.
func NewConflictError(reason ConflictReason, message string) *ConflictError {
	return &ConflictError{Reason: reason, Message: message}
}

// PermissionError is returned when the actor lacks the role an operation needs.
type PermissionError struct {
	Action string
	Role   UserRole
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: role %q may not %s", e.Role, e.Action)
}

func (e *PermissionError) Unwrap() error { return ErrPermission }

// TransitionError is returned when a state change is not legal for the entity's state machine.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition from %s to %s", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrTransition }

// DataIntegrityError reports a violated invariant found in an input snapshot.
// It is never resolved automatically.
type DataIntegrityError struct {
	Entity string
	ID     string
	Detail string
}

func (e *DataIntegrityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("data integrity: %s: %s", e.Entity, e.Detail)
	}
	return fmt.Sprintf("data integrity: %s %s: %s", e.Entity, e.ID, e.Detail)
}

func (e *DataIntegrityError) Unwrap() error { return ErrDataIntegrity }
