package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// AssetCreateRequest payload for POST /assets.
type AssetCreateRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Manufacturer   string   `json:"manufacturer"`
	Model          string   `json:"model"`
	Manufactured   *string  `json:"manufactured"`
	Expenditure    *float64 `json:"asset_expenditure"`
	WarrantyExpiry *string  `json:"warranty_expiry"`
	Notes          string   `json:"notes"`
	Barcode        string   `json:"barcode"`
	Status         string   `json:"status"`
}

// ToDomain converts the request into a candidate asset.
func (r AssetCreateRequest) ToDomain() (domain.Asset, error) {
	manufactured, err := ParseDate("manufactured", r.Manufactured)
	if err != nil {
		return domain.Asset{}, err
	}
	warranty, err := ParseDate("warranty_expiry", r.WarrantyExpiry)
	if err != nil {
		return domain.Asset{}, err
	}
	a := domain.Asset{
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Manufacturer:   r.Manufacturer,
		Model:          r.Model,
		Manufactured:   manufactured,
		WarrantyExpiry: warranty,
		Notes:          r.Notes,
		Barcode:        r.Barcode,
		Status:         domain.AssetStatus(r.Status),
	}
	if r.Expenditure != nil {
		a.Expenditure = *r.Expenditure
	}
	return a, nil
}

// AssetUpdateRequest payload for PATCH /assets/:id. Absent fields are left unchanged.
type AssetUpdateRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	Manufacturer   *string  `json:"manufacturer"`
	Model          *string  `json:"model"`
	Manufactured   *string  `json:"manufactured"`
	Expenditure    *float64 `json:"asset_expenditure"`
	WarrantyExpiry *string  `json:"warranty_expiry"`
	Notes          *string  `json:"notes"`
	Barcode        *string  `json:"barcode"`
	Status         *string  `json:"status"`
	Version        int      `json:"version"`
}

// ToPatch converts the request into a patch.
func (r AssetUpdateRequest) ToPatch() (domain.AssetPatch, error) {
	manufactured, err := ParseDate("manufactured", r.Manufactured)
	if err != nil {
		return domain.AssetPatch{}, err
	}
	warranty, err := ParseDate("warranty_expiry", r.WarrantyExpiry)
	if err != nil {
		return domain.AssetPatch{}, err
	}
	patch := domain.AssetPatch{
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Manufacturer:   r.Manufacturer,
		Model:          r.Model,
		Manufactured:   manufactured,
		Expenditure:    r.Expenditure,
		WarrantyExpiry: warranty,
		Notes:          r.Notes,
		Barcode:        r.Barcode,
	}
	if r.Status != nil {
		st := domain.AssetStatus(*r.Status)
		patch.Status = &st
	}
	return patch, nil
}

// AssetResponse is the JSON view of an asset.
type AssetResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Category       string             `json:"category"`
	Manufacturer   string             `json:"manufacturer"`
	Model          string             `json:"model"`
	Manufactured   *string            `json:"manufactured"`
	Expenditure    float64            `json:"asset_expenditure"`
	WarrantyExpiry *string            `json:"warranty_expiry"`
	Notes          string             `json:"notes"`
	Barcode        string             `json:"barcode"`
	Status         domain.AssetStatus `json:"status"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewAssetResponse maps an asset.
func NewAssetResponse(a domain.Asset) AssetResponse {
	return AssetResponse{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Category:       a.Category,
		Manufacturer:   a.Manufacturer,
		Model:          a.Model,
		Manufactured:   FormatDate(a.Manufactured),
		Expenditure:    a.Expenditure,
		WarrantyExpiry: FormatDate(a.WarrantyExpiry),
		Notes:          a.Notes,
		Barcode:        a.Barcode,
		Status:         a.Status,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// NewAssetResponses maps a slice of assets.
func NewAssetResponses(assets []domain.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, NewAssetResponse(a))
	}
	return out
}

// CategoryResponse is the JSON view of a category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewCategoryResponses maps categories.
func NewCategoryResponses(items []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return out
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. nil and "" yield nil.
func ParseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, *raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, fmt.Sprintf("%q is not a date (YYYY-MM-DD)", *raw))
}

// FormatDate renders an optional date as YYYY-MM-DD.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
