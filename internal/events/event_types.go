package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAssetCreated                EventType = "asset_created"
	EventAssetUpdated                EventType = "asset_updated"
	EventAssetRetired                EventType = "asset_retired"
	EventAssetDeleted                EventType = "asset_deleted"
	EventAssetAssigned               EventType = "asset_assigned"
	EventAssetReturned               EventType = "asset_returned"
	EventMaintenanceLogCreated       EventType = "maintenance_log_created"
	EventMaintenanceLogStatusChanged EventType = "maintenance_log_status_changed"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{
	EventAssetCreated,
	EventAssetUpdated,
	EventAssetRetired,
	EventAssetDeleted,
	EventAssetAssigned,
	EventAssetReturned,
	EventMaintenanceLogCreated,
	EventMaintenanceLogStatusChanged,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	AssetID   string    `json:"asset_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New builds an event stamped with a fresh id.
func New(typ EventType, assetID string, actor domain.Actor, payload any, now time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		AssetID:   assetID,
		Actor:     Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: now.UTC(),
		Payload:   payload,
	}
}

// AssetChangedPayload accompanies create/update/retire/delete events.
type AssetChangedPayload struct {
	Name      string             `json:"name"`
	Barcode   string             `json:"barcode"`
	OldStatus domain.AssetStatus `json:"old_status,omitempty"`
	NewStatus domain.AssetStatus `json:"new_status"`
	Version   int                `json:"version"`
}

// AssetAssignedPayload payload.
type AssetAssignedPayload struct {
	AssignmentID string    `json:"assignment_id"`
	EmployeeID   string    `json:"employee_id"`
	AssignedDate time.Time `json:"assigned_date"`
}

// AssetReturnedPayload payload.
type AssetReturnedPayload struct {
	AssignmentID string             `json:"assignment_id"`
	EmployeeID   string             `json:"employee_id"`
	ReturnDate   time.Time          `json:"return_date"`
	AssetStatus  domain.AssetStatus `json:"asset_status"`
}

// MaintenanceLogCreatedPayload payload.
type MaintenanceLogCreatedPayload struct {
	LogID  string                 `json:"log_id"`
	Type   domain.MaintenanceType `json:"type"`
	UserID string                 `json:"user_id"`
}

// MaintenanceLogStatusChangedPayload payload.
type MaintenanceLogStatusChangedPayload struct {
	LogID     string                   `json:"log_id"`
	OldStatus domain.MaintenanceStatus `json:"old_status"`
	NewStatus domain.MaintenanceStatus `json:"new_status"`
	Override  bool                     `json:"override,omitempty"`
	Comment   string                   `json:"comment,omitempty"`
}
