// Package navigation provides the permission-filtered navigation tree
// plus utilities for per-page navigation state and breadcrumbs.
package navigation

// Item is a single navigation entry. Items without a path act as group
// headers for their children.
type Item struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Path       string `json:"path,omitempty"`
	Permission string `json:"permission"`
	Children   []Item `json:"children,omitempty"`
}

// DefaultTree returns the portal's navigation tree in display order.
func DefaultTree() []Item {
	return []Item{
		{ID: "dashboard", Label: "Dashboard", Path: "/dashboard", Permission: "dashboard.view"},
		{
			ID:         "users-roles",
			Label:      "Users & Roles",
			Permission: "users.view",
			Children: []Item{
				{ID: "users", Label: "Users", Path: "/users", Permission: "users.view"},
				{ID: "roles", Label: "Roles", Path: "/roles", Permission: "roles.view"},
			},
		},
		{ID: "revenue", Label: "Revenue", Path: "/revenue", Permission: "revenue.view"},
		{ID: "pools", Label: "Pool Management", Path: "/pools", Permission: "pools.view"},
		{ID: "budgets", Label: "Budgets", Path: "/budgets", Permission: "budgets.view"},
		{ID: "disbursements", Label: "Disbursements", Path: "/disbursements", Permission: "disbursements.view"},
		{ID: "projects", Label: "Projects", Path: "/projects", Permission: "projects.view"},
		{ID: "contracts", Label: "Contracts", Path: "/contracts", Permission: "contracts.view"},
		{ID: "vault", Label: "Password Vault", Path: "/vault", Permission: "vault.view"},
		{ID: "reports", Label: "Reports", Path: "/reports", Permission: "reports.view"},
		{ID: "settings", Label: "Settings", Path: "/settings", Permission: "settings.view"},
	}
}

// Resolve filters a tree down to the items a principal may see, keeping
// the original order. An item is visible when its own permission passes,
// or when any of its children's permissions pass; visible groups list
// only their visible children.
func Resolve(tree []Item, can func(string) bool) []Item {
	out := make([]Item, 0, len(tree))

	for _, item := range tree {
		children := make([]Item, 0, len(item.Children))

		for _, child := range item.Children {
			if can(child.Permission) {
				children = append(children, child)
			}
		}

		if !can(item.Permission) && len(children) == 0 {
			continue
		}

		item.Children = children
		if len(children) == 0 {
			item.Children = nil
		}

		out = append(out, item)
	}

	return out
}
