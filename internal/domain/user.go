package domain

import (
	"strings"
	"time"
)

// User is an authenticated identity carrying a role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the caller of a service operation.
type Actor struct {
	ID   string
	Role UserRole
}

// IsManager reports whether the actor holds the privileged role.
func (a Actor) IsManager() bool { return a.Role == UserRoleManager }

// CanAssign reports whether the actor may hand out and take back assets.
func (a Actor) CanAssign() bool {
	return a.Role == UserRoleManager || a.Role == UserRoleTechnician
}

// RequireManager returns a PermissionError unless actor is a manager.
func RequireManager(actor Actor, action string) error {
	if !actor.IsManager() {
		return &PermissionError{Action: action, Role: actor.Role}
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ChangeUserRole returns target with role applied. A manager cannot change
// their own role, so the system always keeps the manager who made the call.
func ChangeUserRole(actor Actor, target User, role UserRole, now time.Time) (*User, error) {
	if err := RequireManager(actor, "change user roles"); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, NewValidationError("role", "must be one of MANAGER, TECHNICIAN, EMPLOYEE")
	}
	if target.ID == actor.ID && role != target.Role {
		return nil, NewValidationError("role", "managers cannot change their own role")
	}
	updated := target
	updated.Role = role
	updated.UpdatedAt = now
	return &updated, nil
}
