package mapper

import (
	"github.com/spec-kit/asset-inventory/internal/domain"
)

// AssetToRecord returns the persistence shape of an asset.
func AssetToRecord(a domain.Asset) Record {
	return Record{
		"id":                a.ID,
		"name":              a.Name,
		"description":       a.Description,
		"category":          a.Category,
		"manufacturer":      a.Manufacturer,
		"model":             a.Model,
		"manufactured":      optionalTime(a.Manufactured),
		"asset_expenditure": a.Expenditure,
		"warranty_expiry":   optionalTime(a.WarrantyExpiry),
		"notes":             a.Notes,
		"barcode":           a.Barcode,
		"status":            a.Status.String(),
		"version":           a.Version,
		"created_at":        a.CreatedAt,
		"updated_at":        a.UpdatedAt,
	}
}

// AssetFromRecord builds an asset from its persistence shape.
func AssetFromRecord(rec Record) (domain.Asset, error) {
	r := newReader("asset", rec)
	a := domain.Asset{
		ID:             r.str("id", true),
		Name:           r.str("name", true),
		Description:    r.str("description", false),
		Category:       r.str("category", true),
		Manufacturer:   r.str("manufacturer", false),
		Model:          r.str("model", false),
		Manufactured:   r.timestamp("manufactured", false),
		Expenditure:    r.float("asset_expenditure", false),
		WarrantyExpiry: r.timestamp("warranty_expiry", false),
		Notes:          r.str("notes", false),
		Barcode:        r.str("barcode", true),
		Status:         domain.AssetStatus(r.str("status", true)),
		Version:        r.integer("version", true),
		CreatedAt:      r.requiredTime("created_at"),
		UpdatedAt:      r.requiredTime("updated_at"),
	}
	if r.err == nil && !a.Status.IsValid() {
		r.fail("unknown status %q", a.Status)
	}
	if r.err == nil && a.Expenditure < 0 {
		r.fail("negative asset_expenditure %v", a.Expenditure)
	}
	if r.err != nil {
		return domain.Asset{}, r.err
	}
	return a, nil
}

// AssignmentToRecord returns the persistence shape of an assignment.
func AssignmentToRecord(a domain.Assignment) Record {
	return Record{
		"id":            a.ID,
		"asset_id":      a.AssetID,
		"employee_id":   a.EmployeeID,
		"assigned_by":   a.AssignedBy,
		"assigned_date": a.AssignedDate,
		"return_date":   optionalTime(a.ReturnDate),
		"notes":         a.Notes,
		"created_at":    a.CreatedAt,
	}
}

// AssignmentFromRecord builds an assignment from its persistence shape.
func AssignmentFromRecord(rec Record) (domain.Assignment, error) {
	r := newReader("assignment", rec)
	a := domain.Assignment{
		ID:           r.str("id", true),
		AssetID:      r.str("asset_id", true),
		EmployeeID:   r.str("employee_id", true),
		AssignedBy:   r.str("assigned_by", false),
		AssignedDate: r.requiredTime("assigned_date"),
		ReturnDate:   r.timestamp("return_date", false),
		Notes:        r.str("notes", false),
		CreatedAt:    r.requiredTime("created_at"),
	}
	if r.err != nil {
		return domain.Assignment{}, r.err
	}
	return a, nil
}

// MaintenanceLogToRecord returns the persistence shape of a ticket.
func MaintenanceLogToRecord(l domain.MaintenanceLog) Record {
	return Record{
		"id":          l.ID,
		"device_id":   l.DeviceID,
		"user_id":     l.UserID,
		"type":        l.Type.String(),
		"description": l.Description,
		"status":      l.Status.String(),
		"created_at":  l.CreatedAt,
		"updated_at":  l.UpdatedAt,
	}
}

// MaintenanceLogFromRecord builds a ticket from its persistence shape.
func MaintenanceLogFromRecord(rec Record) (domain.MaintenanceLog, error) {
	r := newReader("maintenance log", rec)
	l := domain.MaintenanceLog{
		ID:          r.str("id", true),
		DeviceID:    r.str("device_id", true),
		UserID:      r.str("user_id", true),
		Type:        domain.MaintenanceType(r.str("type", true)),
		Description: r.str("description", false),
		Status:      domain.MaintenanceStatus(r.str("status", true)),
		CreatedAt:   r.requiredTime("created_at"),
		UpdatedAt:   r.requiredTime("updated_at"),
	}
	if r.err == nil && !l.Type.IsValid() {
		r.fail("unknown type %q", l.Type)
	}
	if r.err == nil && !l.Status.IsValid() {
		r.fail("unknown status %q", l.Status)
	}
	if r.err != nil {
		return domain.MaintenanceLog{}, r.err
	}
	return l, nil
}
