package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/styllobarber/styllobarber-api/internal/model"
)

func sessionWith(role model.Role) model.Session {
	return model.Session{Role: role}
}

func TestHasRole(t *testing.T) {
	checker := NewChecker()

	assert.True(t, checker.HasRole(sessionWith(model.RoleAdmin), model.RoleAdmin))
	assert.False(t, checker.HasRole(sessionWith(model.RoleBarber), model.RoleAdmin))

	// No hierarchy: admin is not a barber and saas_owner is not an admin.
	assert.False(t, checker.HasRole(sessionWith(model.RoleAdmin), model.RoleBarber))
	assert.False(t, checker.HasRole(sessionWith(model.RoleSaasOwner), model.RoleAdmin))

	// Unknown roles deny on either side.
	assert.False(t, checker.HasRole(sessionWith("superuser"), model.RoleAdmin))
	assert.False(t, checker.HasRole(sessionWith(model.RoleAdmin), "superuser"))
	assert.False(t, checker.HasRole(model.Session{}, model.RoleAdmin))
}

func TestHasPermission(t *testing.T) {
	checker := NewChecker()

	tests := []struct {
		name       string
		role       model.Role
		permission string
		want       bool
	}{
		{"admin manages users", model.RoleAdmin, model.PermManageUsers, true},
		{"admin cannot book for themselves", model.RoleAdmin, model.PermBookAppointments, false},
		{"barber manages own schedule", model.RoleBarber, model.PermManageOwnSchedule, true},
		{"barber cannot manage users", model.RoleBarber, model.PermManageUsers, false},
		{"client books appointments", model.RoleClient, model.PermBookAppointments, true},
		{"client cannot access financials", model.RoleClient, model.PermAccessFinancialData, false},
		{"wildcard grants defined permissions", model.RoleSaasOwner, model.PermManageUsers, true},
		{"wildcard grants permissions never listed", model.RoleSaasOwner, "some_future_permission", true},
		{"unknown role denies", "superuser", model.PermManageUsers, false},
		{"empty permission denies", model.RoleAdmin, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.HasPermission(sessionWith(tt.role), tt.permission))
		})
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	checker := NewChecker()
	barber := sessionWith(model.RoleBarber)

	assert.True(t, checker.HasAnyPermission(barber, model.PermManageUsers, model.PermPOSOperations))
	assert.False(t, checker.HasAnyPermission(barber, model.PermManageUsers, model.PermViewReports))
	assert.False(t, checker.HasAnyPermission(barber))

	assert.True(t, checker.HasAllPermissions(barber, model.PermPOSOperations, model.PermManageOwnSchedule))
	assert.False(t, checker.HasAllPermissions(barber, model.PermPOSOperations, model.PermManageUsers))
	assert.True(t, checker.HasAllPermissions(barber))
	assert.False(t, checker.HasAllPermissions(model.Session{}))

	owner := sessionWith(model.RoleSaasOwner)
	assert.True(t, checker.HasAllPermissions(owner, model.PermManageUsers, model.PermViewReports, "anything"))
}

func TestCanAccessRoute(t *testing.T) {
	checker := NewChecker()

	tests := []struct {
		name string
		role model.Role
		path string
		want bool
	}{
		{"admin opens user management", model.RoleAdmin, "/admin/users", true},
		{"barber blocked from user management", model.RoleBarber, "/admin/users/123", false},
		{"barber opens POS", model.RoleBarber, "/pos", true},
		{"client blocked from POS", model.RoleClient, "/pos/checkout", false},
		{"client books", model.RoleClient, "/appointments/book", true},
		{"unlisted route open to any session", model.RoleClient, "/profile", true},
		{"longest prefix wins over the admin catch-all", model.RoleAdmin, "/admin/reports/monthly", true},
		{"owner opens everything", model.RoleSaasOwner, "/admin/finance", true},
		{"invalid role denied everywhere", "superuser", "/profile", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.CanAccessRoute(sessionWith(tt.role), tt.path))
		})
	}
}

func TestValidatePolicy(t *testing.T) {
	assert.NoError(t, ValidatePolicy())
}
