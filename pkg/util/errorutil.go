package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts any error into a DomainError, classifying the typed
// errors of the inventory core.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		permissionErr *domain.PermissionError
		transitionErr *domain.TransitionError
		integrityErr  *domain.DataIntegrityError
	)
	switch {
	case errors.As(err, &validationErr):
		fields := make(map[string]any, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			fields[fe.Field] = fe.Message
		}
		return &DomainError{Code: "VALIDATION_FAILED", Message: "validation failed", HTTPStatus: http.StatusBadRequest,
			Details: map[string]any{"fields": fields}, Err: err}
	case errors.As(err, &conflictErr):
		details := map[string]any{"reason": string(conflictErr.Reason)}
		if len(conflictErr.Committed) > 0 {
			details["committed"] = conflictErr.Committed
		}
		return &DomainError{Code: "CONFLICT", Message: conflictMessage(conflictErr), HTTPStatus: http.StatusConflict,
			Details: details, Err: err}
	case errors.As(err, &permissionErr):
		return &DomainError{Code: "FORBIDDEN", Message: permissionErr.Error(), HTTPStatus: http.StatusForbidden, Err: err}
	case errors.As(err, &transitionErr):
		return &DomainError{Code: "INVALID_TRANSITION", Message: transitionErr.Error(), HTTPStatus: http.StatusUnprocessableEntity,
			Details: map[string]any{"from": transitionErr.From, "to": transitionErr.To}, Err: err}
	case errors.As(err, &integrityErr):
		return &DomainError{Code: "DATA_INTEGRITY", Message: integrityErr.Error(), HTTPStatus: http.StatusInternalServerError,
			Details: map[string]any{"entity": integrityErr.Entity, "id": integrityErr.ID}, Err: err}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		de := NewNotFound("resource", nil).(*DomainError)
		de.Err = err
		return de
	case errors.Is(err, domain.ErrUnauthorized):
		return &DomainError{Code: "UNAUTHORIZED", Message: "unauthorized", HTTPStatus: http.StatusUnauthorized, Err: err}
	case errors.Is(err, domain.ErrPermission):
		return &DomainError{Code: "FORBIDDEN", Message: "forbidden", HTTPStatus: http.StatusForbidden, Err: err}
	case errors.Is(err, domain.ErrValidation):
		return &DomainError{Code: "VALIDATION_FAILED", Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
	case errors.Is(err, domain.ErrConflict):
		return &DomainError{Code: "CONFLICT", Message: err.Error(), HTTPStatus: http.StatusConflict, Err: err}
	}
	return NewInternalError(err).(*DomainError)
}

func conflictMessage(err *domain.ConflictError) string {
	if err.Message != "" {
		return err.Message
	}
	return string(err.Reason)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
