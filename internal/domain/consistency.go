package domain

import "fmt"

// CheckDeletable reports whether an asset may be hard-deleted given every
// assignment and ticket referencing it.
func CheckDeletable(asset Asset, assignments []Assignment, tickets []MaintenanceLog) error {
	active, err := FindActiveAssignment(assignments, asset.ID)
	if err != nil {
		return err
	}
	if active != nil || asset.Status == AssetStatusAssigned {
		return NewConflictError(ReasonActiveAssignment, "return the asset before deleting it")
	}

	open := 0
	for _, t := range tickets {
		if t.DeviceID == asset.ID && !t.Status.IsTerminal() {
			open++
		}
	}
	if open > 0 {
		return NewConflictError(ReasonOpenTickets, fmt.Sprintf("%d maintenance tickets are still open", open))
	}
	return nil
}

// CheckAssetConsistency verifies that an asset is ASSIGNED exactly when it has
// one active assignment.
func CheckAssetConsistency(asset Asset, assignments []Assignment) error {
	if !asset.Status.IsValid() {
		return &DataIntegrityError{Entity: "asset", ID: asset.ID, Detail: fmt.Sprintf("unknown status %q", asset.Status)}
	}
	active, err := FindActiveAssignment(assignments, asset.ID)
	if err != nil {
		return err
	}
	switch {
	case asset.Status == AssetStatusAssigned && active == nil:
		return &DataIntegrityError{Entity: "asset", ID: asset.ID, Detail: "ASSIGNED without an active assignment"}
	case asset.Status != AssetStatusAssigned && active != nil:
		return &DataIntegrityError{
			Entity: "asset",
			ID:     asset.ID,
			Detail: fmt.Sprintf("%s but assignment %s is active", asset.Status, active.ID),
		}
	}
	return nil
}
