package store

import (
	"time"

	"github.com/mushya-portal/mushya-portal/internal/catalog"
)

// RoleSuperAdminID is the protected built-in role. It can never be deleted.
const RoleSuperAdminID = "role_superadmin"

// Built-in role ids shipped with the system.
const (
	RoleAdminID   = "role_admin"
	RoleFinanceID = "role_finance"
	RoleViewerID  = "role_viewer"
)

var seedTime = time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)

// builtinRoles returns the default roles shipped with the system. They are
// always present in listings regardless of store contents, unless shadowed
// by a stored copy or tombstoned by a delete.
func builtinRoles() []Role {
	return []Role{
		{
			ID:          RoleSuperAdminID,
			Name:        "Super Admin",
			Description: "Full access to every module",
			Permissions: catalog.Keys(),
			CreatedAt:   seedTime,
			Builtin:     true,
		},
		{
			ID:          RoleAdminID,
			Name:        "Administrator",
			Description: "Manage users, roles and departments",
			Permissions: []string{
				catalog.PermDashboardView,
				catalog.PermUsersView, catalog.PermUsersCreate, catalog.PermUsersEdit, catalog.PermUsersDelete,
				catalog.PermRolesView, catalog.PermRolesCreate, catalog.PermRolesEdit, catalog.PermRolesDelete,
				catalog.PermDepartmentsView, catalog.PermDepartmentsManage,
				catalog.PermReportsView,
				catalog.PermSettingsView, catalog.PermSettingsEdit,
			},
			CreatedAt: seedTime,
			Builtin:   true,
		},
		{
			ID:          RoleFinanceID,
			Name:        "Finance Officer",
			Description: "Revenue, pools, budgets and disbursements",
			Permissions: []string{
				catalog.PermDashboardView,
				catalog.PermRevenueView, catalog.PermRevenueCreate, catalog.PermRevenueAllocate,
				catalog.PermPoolsView, catalog.PermPoolsManage,
				catalog.PermBudgetsView, catalog.PermBudgetsCreate, catalog.PermBudgetsApprove,
				catalog.PermDisbursementsView, catalog.PermDisbursementsCreate,
				catalog.PermReportsView, catalog.PermReportsExport,
			},
			CreatedAt: seedTime,
			Builtin:   true,
		},
		{
			ID:          RoleViewerID,
			Name:        "Viewer",
			Description: "Read-only dashboard and reports",
			Permissions: []string{
				catalog.PermDashboardView,
				catalog.PermReportsView,
			},
			CreatedAt: seedTime,
			Builtin:   true,
		},
	}
}

// builtinUsers returns the seed accounts shipped with the system. Seed
// accounts authenticate with the configured seed password.
func builtinUsers() []User {
	return []User{
		{
			ID:         "user_admin",
			Email:      "admin@x.com",
			Name:       "System Administrator",
			RoleIDs:    []string{RoleSuperAdminID},
			Department: "Administration",
			Status:     StatusActive,
			CreatedAt:  seedTime,
			Builtin:    true,
		},
		{
			ID:         "user_finance",
			Email:      "finance@x.com",
			Name:       "Grace Mutoni",
			RoleIDs:    []string{RoleFinanceID},
			Department: "Finance",
			Status:     StatusActive,
			CreatedAt:  seedTime,
			Builtin:    true,
		},
		{
			ID:         "user_viewer",
			Email:      "viewer@x.com",
			Name:       "Eric Habimana",
			RoleIDs:    []string{RoleViewerID},
			Department: "Operations",
			Status:     StatusActive,
			CreatedAt:  seedTime,
			Builtin:    true,
		},
	}
}
