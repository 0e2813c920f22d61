package domain

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Asset is a physical or licensed item tracked by the inventory.
type Asset struct {
	ID             string
	Name           string
	Description    string
	Category       string
	Manufacturer   string
	Model          string
	Manufactured   *time.Time
	Expenditure    float64
	WarrantyExpiry *time.Time
	Notes          string
	Barcode        string
	Status         AssetStatus
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AssetPatch carries the fields of an edit. Nil fields are left untouched.
// Reconcile allows status moves that are normally owned by assignment and
// return, and is only set when repairing an asset from storage.
type AssetPatch struct {
	Name           *string
	Description    *string
	Category       *string
	Manufacturer   *string
	Model          *string
	Manufactured   *time.Time
	Expenditure    *float64
	WarrantyExpiry *time.Time
	Notes          *string
	Barcode        *string
	Status         *AssetStatus
	Reconcile      bool
}

// BarcodeChecker answers whether a barcode is already used by an asset other than excludeID.
type BarcodeChecker interface {
	BarcodeExists(ctx context.Context, barcode, excludeID string) (bool, error)
}

// BarcodeCheckerFunc adapts a plain function to BarcodeChecker.
type BarcodeCheckerFunc func(ctx context.Context, barcode, excludeID string) (bool, error)

func (f BarcodeCheckerFunc) BarcodeExists(ctx context.Context, barcode, excludeID string) (bool, error) {
	return f(ctx, barcode, excludeID)
}

const (
	barcodeMin = 10_000_000_000
	barcodeMax = 99_999_999_999

	barcodeAttempts = 5
)

// GenerateBarcode returns a random 11-digit numeric identifier.
func GenerateBarcode() string {
	return fmt.Sprintf("%d", barcodeMin+rand.Int64N(barcodeMax-barcodeMin+1))
}

// ValidateAssetForCreate checks a candidate asset and returns the entity to persist.
// It assigns the id, default status, barcode and initial version.
func ValidateAssetForCreate(ctx context.Context, candidate Asset, checker BarcodeChecker, now time.Time) (*Asset, error) {
	asset := candidate
	asset.Name = strings.TrimSpace(asset.Name)
	asset.Category = strings.TrimSpace(asset.Category)
	asset.Barcode = strings.TrimSpace(asset.Barcode)

	var errs []FieldError
	if asset.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if asset.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "required"})
	}
	if asset.Expenditure < 0 {
		errs = append(errs, FieldError{Field: "expenditure", Message: "must not be negative"})
	}
	if asset.Status != "" && asset.Status != AssetStatusAvailable {
		errs = append(errs, FieldError{Field: "status", Message: "new assets start as AVAILABLE"})
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if asset.Barcode == "" {
		barcode, err := uniqueBarcode(ctx, checker)
		if err != nil {
			return nil, err
		}
		asset.Barcode = barcode
	} else if err := ensureBarcodeFree(ctx, checker, asset.Barcode, ""); err != nil {
		return nil, err
	}

	asset.ID = uuid.NewString()
	asset.Status = AssetStatusAvailable
	asset.Version = 1
	asset.CreatedAt = now
	asset.UpdatedAt = now
	return &asset, nil
}

// ValidateAssetForUpdate applies patch to existing and returns the entity to persist.
// Id, creation time and version are carried over from existing.
func ValidateAssetForUpdate(ctx context.Context, existing Asset, patch AssetPatch, checker BarcodeChecker, now time.Time) (*Asset, error) {
	asset := existing

	var errs []FieldError
	if patch.Name != nil {
		asset.Name = strings.TrimSpace(*patch.Name)
		if asset.Name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "must not be empty"})
		}
	}
	if patch.Category != nil {
		asset.Category = strings.TrimSpace(*patch.Category)
		if asset.Category == "" {
			errs = append(errs, FieldError{Field: "category", Message: "must not be empty"})
		}
	}
	if patch.Expenditure != nil {
		if *patch.Expenditure < 0 {
			errs = append(errs, FieldError{Field: "expenditure", Message: "must not be negative"})
		}
		asset.Expenditure = *patch.Expenditure
	}
	if patch.Barcode != nil {
		asset.Barcode = strings.TrimSpace(*patch.Barcode)
		if asset.Barcode == "" {
			errs = append(errs, FieldError{Field: "barcode", Message: "must not be empty"})
		}
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", *patch.Status)})
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	if patch.Status != nil && *patch.Status != existing.Status {
		next := *patch.Status
		if !patch.Reconcile && (next == AssetStatusAssigned || existing.Status == AssetStatusAssigned) {
			return nil, &TransitionError{Entity: "asset", From: existing.Status.String(), To: next.String()}
		}
		asset.Status = next
	}

	if patch.Description != nil {
		asset.Description = *patch.Description
	}
	if patch.Manufacturer != nil {
		asset.Manufacturer = *patch.Manufacturer
	}
	if patch.Model != nil {
		asset.Model = *patch.Model
	}
	if patch.Manufactured != nil {
		asset.Manufactured = patch.Manufactured
	}
	if patch.WarrantyExpiry != nil {
		asset.WarrantyExpiry = patch.WarrantyExpiry
	}
	if patch.Notes != nil {
		asset.Notes = *patch.Notes
	}

	if asset.Barcode != existing.Barcode {
		if err := ensureBarcodeFree(ctx, checker, asset.Barcode, existing.ID); err != nil {
			return nil, err
		}
	}

	asset.ID = existing.ID
	asset.CreatedAt = existing.CreatedAt
	asset.Version = existing.Version
	asset.UpdatedAt = now
	return &asset, nil
}

// RequestRetire returns existing moved to RETIRED. active is the asset's
// current active assignment, if any.
func RequestRetire(existing Asset, active *Assignment, now time.Time) (*Asset, error) {
	if existing.Status == AssetStatusRetired {
		return nil, &TransitionError{Entity: "asset", From: existing.Status.String(), To: AssetStatusRetired.String()}
	}
	if active != nil || existing.Status == AssetStatusAssigned {
		return nil, NewConflictError(ReasonActiveAssignment, "return the asset before retiring it")
	}
	asset := existing
	asset.Status = AssetStatusRetired
	asset.UpdatedAt = now
	return &asset, nil
}

func uniqueBarcode(ctx context.Context, checker BarcodeChecker) (string, error) {
	for range barcodeAttempts {
		barcode := GenerateBarcode()
		taken, err := checker.BarcodeExists(ctx, barcode, "")
		if err != nil {
			return "", fmt.Errorf("check barcode: %w", err)
		}
		if !taken {
			return barcode, nil
		}
	}
	return "", NewConflictError(ReasonDuplicateBarcode, "could not generate a free barcode")
}

func ensureBarcodeFree(ctx context.Context, checker BarcodeChecker, barcode, excludeID string) error {
	taken, err := checker.BarcodeExists(ctx, barcode, excludeID)
	if err != nil {
		return fmt.Errorf("check barcode: %w", err)
	}
	if taken {
		return NewConflictError(ReasonDuplicateBarcode, fmt.Sprintf("barcode %s is already in use", barcode))
	}
	return nil
}
