package dto

import (
	"time"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// MaintenanceLogRequest payload for POST /maintenance-logs.
type MaintenanceLogRequest struct {
	DeviceID    string `json:"device_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// StatusChangeRequest payload for POST /maintenance-logs/:id/status.
type StatusChangeRequest struct {
	Status   string `json:"status"`
	Override bool   `json:"override"`
	Comment  string `json:"comment"`
}

// MaintenanceLogResponse is the JSON view of a ticket.
type MaintenanceLogResponse struct {
	ID          string                   `json:"id"`
	DeviceID    string                   `json:"device_id"`
	UserID      string                   `json:"user_id"`
	Type        domain.MaintenanceType   `json:"type"`
	Description string                   `json:"description"`
	Status      domain.MaintenanceStatus `json:"status"`
	NextStatus  *string                  `json:"next_status"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// NewMaintenanceLogResponse maps a ticket, including the status it may advance to.
func NewMaintenanceLogResponse(m domain.MaintenanceLog) MaintenanceLogResponse {
	resp := MaintenanceLogResponse{
		ID:          m.ID,
		DeviceID:    m.DeviceID,
		UserID:      m.UserID,
		Type:        m.Type,
		Description: m.Description,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if next, ok := domain.NextStatus(m.Status); ok {
		s := next.String()
		resp.NextStatus = &s
	}
	return resp
}

// NewMaintenanceLogResponses maps a slice of tickets.
func NewMaintenanceLogResponses(items []domain.MaintenanceLog) []MaintenanceLogResponse {
	out := make([]MaintenanceLogResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMaintenanceLogResponse(m))
	}
	return out
}

// HistoryResponse is one status change of a ticket.
type HistoryResponse struct {
	ID        string                   `json:"id"`
	ChangedBy string                   `json:"changed_by,omitempty"`
	OldStatus domain.MaintenanceStatus `json:"old_status"`
	NewStatus domain.MaintenanceStatus `json:"new_status"`
	Comment   string                   `json:"comment,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// NewHistoryResponses maps history rows.
func NewHistoryResponses(items []domain.MaintenanceLogHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(items))
	for _, h := range items {
		out = append(out, HistoryResponse{
			ID:        h.ID,
			ChangedBy: h.ChangedBy,
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			Comment:   h.Comment,
			CreatedAt: h.CreatedAt,
		})
	}
	return out
}
