package authz

import (
	"fmt"
	"strings"

	"github.com/styllobarber/styllobarber-api/internal/model"
)

// Checker answers authorization questions for an explicit session. Every
// method fails closed: an empty session, an unknown role or an undefined
// permission all deny. There is no role hierarchy; admin does not imply
// barber, and only the saas_owner wildcard crosses role boundaries.
type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

// HasRole reports whether the session holds exactly the given role.
func (c *Checker) HasRole(session model.Session, role model.Role) bool {
	if !session.Role.Valid() || !role.Valid() {
		return false
	}
	return session.Role == role
}

// HasAnyRole reports whether the session holds one of the given roles.
func (c *Checker) HasAnyRole(session model.Session, roles ...model.Role) bool {
	for _, role := range roles {
		if c.HasRole(session, role) {
			return true
		}
	}
	return false
}

// HasPermission reports whether the session's role grants the permission.
// The wildcard grants everything, including permissions defined after the
// role table was written.
func (c *Checker) HasPermission(session model.Session, permission string) bool {
	if !session.Role.Valid() || permission == "" {
		return false
	}
	for _, granted := range session.Role.Permissions() {
		if granted == model.PermissionAll || granted == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one permission is granted.
// An empty list denies.
func (c *Checker) HasAnyPermission(session model.Session, permissions ...string) bool {
	for _, permission := range permissions {
		if c.HasPermission(session, permission) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every permission is granted. An empty
// list is vacuously allowed for a valid role.
func (c *Checker) HasAllPermissions(session model.Session, permissions ...string) bool {
	if !session.Role.Valid() {
		return false
	}
	for _, permission := range permissions {
		if !c.HasPermission(session, permission) {
			return false
		}
	}
	return true
}

// routePermissions maps protected route prefixes to the permission they
// require. Longest prefix wins. Routes absent from the table are open to
// any authenticated session.
//
// This table backs CanAccessRoute, which clients call to decide what to
// render before navigating. The server enforces the same gates through
// RequireRole/RequirePermission on the mounted routes; a change here must
// be mirrored in internal/router, and vice versa.
var routePermissions = []struct {
	prefix     string
	permission string
}{
	{"/admin/users", model.PermManageUsers},
	{"/admin/services", model.PermManageServices},
	{"/admin/working-hours", model.PermManageWorkingHours},
	{"/admin/appointments", model.PermManageAppointments},
	{"/admin/settings", model.PermManageSettings},
	{"/admin/reports", model.PermViewReports},
	{"/admin/finance", model.PermAccessFinancialData},
	{"/admin", model.PermManageSettings},
	{"/pos", model.PermPOSOperations},
	{"/schedule", model.PermManageOwnSchedule},
	{"/appointments/book", model.PermBookAppointments},
}

// CanAccessRoute reports whether the session may open the given route path.
func (c *Checker) CanAccessRoute(session model.Session, path string) bool {
	if !session.Role.Valid() {
		return false
	}

	match := ""
	required := ""
	for _, route := range routePermissions {
		if strings.HasPrefix(path, route.prefix) && len(route.prefix) > len(match) {
			match = route.prefix
			required = route.permission
		}
	}
	if match == "" {
		return true
	}
	return c.HasPermission(session, required)
}

// ValidatePolicy sanity-checks the static role table at startup: every role
// in the closed set must have at least one grant, and the wildcard may only
// appear on saas_owner. Run once from main; a failure is a programming
// error, not a runtime condition.
func ValidatePolicy() error {
	for _, role := range model.AllRoles() {
		perms := role.Permissions()
		if len(perms) == 0 {
			return fmt.Errorf("role %s has no permissions", role)
		}
		for _, p := range perms {
			if p == model.PermissionAll && role != model.RoleSaasOwner {
				return fmt.Errorf("role %s must not hold the wildcard permission", role)
			}
		}
	}
	return nil
}
