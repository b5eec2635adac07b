// Package catalog defines the immutable permission catalog of the portal.
//
// Permission keys are opaque strings in module.action format (e.g.
// "budgets.view"). The catalog is fixed at compile time; keys are never
// created at runtime. Roles reference catalog keys and the auth service
// aggregates them into a principal's permission closure.
package catalog

// Permission describes a single capability the system recognizes.
type Permission struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Module      string `json:"module"`
}

// Permission key constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermDashboardView allows viewing the main dashboard.
	PermDashboardView = "dashboard.view"

	// PermUsersView allows viewing user accounts.
	PermUsersView = "users.view"
	// PermUsersCreate allows creating user accounts.
	PermUsersCreate = "users.create"
	// PermUsersEdit allows editing user accounts.
	PermUsersEdit = "users.edit"
	// PermUsersDelete allows deleting user accounts.
	PermUsersDelete = "users.delete"

	// PermRolesView allows viewing roles and their permissions.
	PermRolesView = "roles.view"
	// PermRolesCreate allows creating roles.
	PermRolesCreate = "roles.create"
	// PermRolesEdit allows editing roles and replacing their permission sets.
	PermRolesEdit = "roles.edit"
	// PermRolesDelete allows deleting non-protected roles.
	PermRolesDelete = "roles.delete"

	// PermDepartmentsView allows viewing departments.
	PermDepartmentsView = "departments.view"
	// PermDepartmentsManage allows creating, editing and deleting departments.
	PermDepartmentsManage = "departments.manage"

	// PermRevenueView allows viewing revenue entries.
	PermRevenueView = "revenue.view"
	// PermRevenueCreate allows recording revenue entries.
	PermRevenueCreate = "revenue.create"
	// PermRevenueAllocate allows allocating revenue to pools.
	PermRevenueAllocate = "revenue.allocate"

	// PermPoolsView allows viewing pools.
	PermPoolsView = "pools.view"
	// PermPoolsManage allows managing pool percentages and balances.
	PermPoolsManage = "pools.manage"

	// PermBudgetsView allows viewing budgets.
	PermBudgetsView = "budgets.view"
	// PermBudgetsCreate allows drafting budgets.
	PermBudgetsCreate = "budgets.create"
	// PermBudgetsApprove allows moving budgets through the approval chain.
	PermBudgetsApprove = "budgets.approve"

	// PermDisbursementsView allows viewing disbursement requests.
	PermDisbursementsView = "disbursements.view"
	// PermDisbursementsCreate allows raising disbursement requests.
	PermDisbursementsCreate = "disbursements.create"
	// PermDisbursementsApprove allows approving disbursement requests.
	PermDisbursementsApprove = "disbursements.approve"

	// PermProjectsView allows viewing projects.
	PermProjectsView = "projects.view"
	// PermProjectsCreate allows creating projects.
	PermProjectsCreate = "projects.create"
	// PermProjectsEdit allows editing projects and their phases.
	PermProjectsEdit = "projects.edit"

	// PermContractsView allows viewing contracts.
	PermContractsView = "contracts.view"
	// PermContractsCreate allows creating contracts.
	PermContractsCreate = "contracts.create"
	// PermContractsEdit allows editing contracts and milestones.
	PermContractsEdit = "contracts.edit"

	// PermVaultView allows listing password vault entries.
	PermVaultView = "vault.view"
	// PermVaultCreate allows adding vault entries.
	PermVaultCreate = "vault.create"
	// PermVaultReveal allows revealing a stored credential after a code challenge.
	PermVaultReveal = "vault.reveal"

	// PermReportsView allows viewing reporting dashboards.
	PermReportsView = "reports.view"
	// PermReportsExport allows exporting reports.
	PermReportsExport = "reports.export"

	// PermSettingsView allows viewing application settings.
	PermSettingsView = "settings.view"
	// PermSettingsEdit allows changing application settings.
	PermSettingsEdit = "settings.edit"
)

// permissions is the catalog source. Order matters: List returns it as-is and
// ByModule preserves first-seen module order.
var permissions = []Permission{
	{Key: PermDashboardView, Description: "View the main dashboard", Module: "dashboard"},

	{Key: PermUsersView, Description: "View user accounts", Module: "users"},
	{Key: PermUsersCreate, Description: "Create user accounts", Module: "users"},
	{Key: PermUsersEdit, Description: "Edit user accounts", Module: "users"},
	{Key: PermUsersDelete, Description: "Delete user accounts", Module: "users"},

	{Key: PermRolesView, Description: "View roles", Module: "roles"},
	{Key: PermRolesCreate, Description: "Create roles", Module: "roles"},
	{Key: PermRolesEdit, Description: "Edit roles", Module: "roles"},
	{Key: PermRolesDelete, Description: "Delete roles", Module: "roles"},

	{Key: PermDepartmentsView, Description: "View departments", Module: "departments"},
	{Key: PermDepartmentsManage, Description: "Manage departments", Module: "departments"},

	{Key: PermRevenueView, Description: "View revenue entries", Module: "revenue"},
	{Key: PermRevenueCreate, Description: "Record revenue entries", Module: "revenue"},
	{Key: PermRevenueAllocate, Description: "Allocate revenue to pools", Module: "revenue"},

	{Key: PermPoolsView, Description: "View pools", Module: "pools"},
	{Key: PermPoolsManage, Description: "Manage pools", Module: "pools"},

	{Key: PermBudgetsView, Description: "View budgets", Module: "budgets"},
	{Key: PermBudgetsCreate, Description: "Draft budgets", Module: "budgets"},
	{Key: PermBudgetsApprove, Description: "Approve budgets", Module: "budgets"},

	{Key: PermDisbursementsView, Description: "View disbursement requests", Module: "disbursements"},
	{Key: PermDisbursementsCreate, Description: "Raise disbursement requests", Module: "disbursements"},
	{Key: PermDisbursementsApprove, Description: "Approve disbursement requests", Module: "disbursements"},

	{Key: PermProjectsView, Description: "View projects", Module: "projects"},
	{Key: PermProjectsCreate, Description: "Create projects", Module: "projects"},
	{Key: PermProjectsEdit, Description: "Edit projects", Module: "projects"},

	{Key: PermContractsView, Description: "View contracts", Module: "contracts"},
	{Key: PermContractsCreate, Description: "Create contracts", Module: "contracts"},
	{Key: PermContractsEdit, Description: "Edit contracts", Module: "contracts"},

	{Key: PermVaultView, Description: "List vault entries", Module: "vault"},
	{Key: PermVaultCreate, Description: "Add vault entries", Module: "vault"},
	{Key: PermVaultReveal, Description: "Reveal stored credentials", Module: "vault"},

	{Key: PermReportsView, Description: "View reports", Module: "reports"},
	{Key: PermReportsExport, Description: "Export reports", Module: "reports"},

	{Key: PermSettingsView, Description: "View settings", Module: "settings"},
	{Key: PermSettingsEdit, Description: "Edit settings", Module: "settings"},
}

// List returns the full permission catalog. The returned slice is a fresh
// copy on every call so callers can not mutate the catalog.
func List() []Permission {
	out := make([]Permission, len(permissions))
	copy(out, permissions)

	return out
}

// Keys returns all permission keys in catalog order.
func Keys() []string {
	out := make([]string, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, p.Key)
	}

	return out
}

// Has reports whether key is a known catalog permission.
func Has(key string) bool {
	for _, p := range permissions {
		if p.Key == key {
			return true
		}
	}

	return false
}

// ByModule groups the catalog by module, preserving the order in which each
// module first appears. Modules returns the matching module order.
func ByModule() (map[string][]Permission, []string) {
	grouped := make(map[string][]Permission)

	var order []string

	for _, p := range permissions {
		if _, ok := grouped[p.Module]; !ok {
			order = append(order, p.Module)
		}

		grouped[p.Module] = append(grouped[p.Module], p)
	}

	return grouped, order
}
