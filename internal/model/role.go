package model

import "fmt"

// Role is the single authoritative classification of a user. Every user
// holds exactly one role at a time; there is no hierarchy between roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleBarber    Role = "barber"
	RoleClient    Role = "client"
	RoleSaasOwner Role = "saas_owner"
)

// ParseRole converts a stored string into a Role, rejecting anything
// outside the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleBarber, RoleClient, RoleSaasOwner:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBarber, RoleClient, RoleSaasOwner:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Named capabilities derived from a role. PermissionAll is the wildcard
// held only by saas_owner.
const (
	PermissionAll = "*"

	PermManageUsers         = "manage_users"
	PermManageClients       = "manage_clients"
	PermManageServices      = "manage_services"
	PermManageWorkingHours  = "manage_working_hours"
	PermManageAppointments  = "manage_appointments"
	PermViewAllAppointments = "view_all_appointments"
	PermViewOwnAppointments = "view_own_appointments"
	PermBookAppointments    = "book_appointments"
	PermManageOwnSchedule   = "manage_own_schedule"
	PermPOSOperations       = "pos_operations"
	PermAccessFinancialData = "access_financial_data"
	PermViewReports         = "view_reports"
	PermManageSettings      = "manage_settings"
)

// rolePermissions is the static role -> permission table. It is frozen at
// startup (see authz.ValidatePolicy) and never mutated afterwards.
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermManageUsers,
		PermManageClients,
		PermManageServices,
		PermManageWorkingHours,
		PermManageAppointments,
		PermViewAllAppointments,
		PermPOSOperations,
		PermAccessFinancialData,
		PermViewReports,
		PermManageSettings,
	},
	RoleBarber: {
		PermViewOwnAppointments,
		PermManageOwnSchedule,
		PermManageClients,
		PermPOSOperations,
	},
	RoleClient: {
		PermViewOwnAppointments,
		PermBookAppointments,
	},
	RoleSaasOwner: {
		PermissionAll,
	},
}

// Permissions returns the permission names granted to the role. The
// returned slice is a copy; callers may not mutate the policy table.
func (r Role) Permissions() []string {
	perms, ok := rolePermissions[r]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// AllRoles returns every role in the closed set.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleBarber, RoleClient, RoleSaasOwner}
}
