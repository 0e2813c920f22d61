package domain

// AssetStatus enumerates lifecycle states for assets.
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "AVAILABLE"
	AssetStatusAssigned    AssetStatus = "ASSIGNED"
	AssetStatusMaintenance AssetStatus = "MAINTENANCE"
	AssetStatusRetired     AssetStatus = "RETIRED"
)

// AssetStatuses lists every asset status in display order.
var AssetStatuses = []AssetStatus{
	AssetStatusAvailable,
	AssetStatusAssigned,
	AssetStatusMaintenance,
	AssetStatusRetired,
}

func (s AssetStatus) String() string { return string(s) }

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusAvailable, AssetStatusAssigned, AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}

// MaintenanceType classifies a maintenance ticket.
type MaintenanceType string

const (
	MaintenanceTypeMaintenance MaintenanceType = "maintenance"
	MaintenanceTypeMalfunction MaintenanceType = "malfunction"
	MaintenanceTypeMisc        MaintenanceType = "misc"
)

func (t MaintenanceType) String() string { return string(t) }

func (t MaintenanceType) IsValid() bool {
	switch t {
	case MaintenanceTypeMaintenance, MaintenanceTypeMalfunction, MaintenanceTypeMisc:
		return true
	}
	return false
}

// MaintenanceStatus enumerates lifecycle states for maintenance tickets.
type MaintenanceStatus string

const (
	MaintenanceStatusOpen       MaintenanceStatus = "open"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusResolved   MaintenanceStatus = "resolved"
	MaintenanceStatusClosed     MaintenanceStatus = "closed"
)

// maintenanceSequence is the only forward path a ticket may take.
var maintenanceSequence = []MaintenanceStatus{
	MaintenanceStatusOpen,
	MaintenanceStatusInProgress,
	MaintenanceStatusResolved,
	MaintenanceStatusClosed,
}

func (s MaintenanceStatus) String() string { return string(s) }

func (s MaintenanceStatus) IsValid() bool {
	return s.rank() >= 0
}

// IsTerminal reports whether no further transition is allowed.
func (s MaintenanceStatus) IsTerminal() bool {
	return s == MaintenanceStatusClosed
}

func (s MaintenanceStatus) rank() int {
	for i, candidate := range maintenanceSequence {
		if candidate == s {
			return i
		}
	}
	return -1
}

// NextMaintenanceStatus returns the immediate successor of s.
func NextMaintenanceStatus(s MaintenanceStatus) (MaintenanceStatus, bool) {
	r := s.rank()
	if r < 0 || r+1 >= len(maintenanceSequence) {
		return "", false
	}
	return maintenanceSequence[r+1], true
}

// UserRole enumerates the roles an authenticated user may carry.
type UserRole string

const (
	UserRoleManager    UserRole = "MANAGER"
	UserRoleTechnician UserRole = "TECHNICIAN"
	UserRoleEmployee   UserRole = "EMPLOYEE"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleManager, UserRoleTechnician, UserRoleEmployee:
		return true
	}
	return false
}
