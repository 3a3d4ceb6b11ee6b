// Package rbac gates admin-console actions by the role carried in the session.
//
// This is a client-side convenience only — the backend enforces authorization
// on every endpoint regardless. Pre-checking here gives the user an immediate
// "permission denied" instead of a round-trip failure.
package rbac

import "fmt"

// Roles as issued by the backend.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Permissions used by the admin console.
const (
	ManageProducts   = "products.manage"
	ManageCategories = "categories.manage"
	ManageOrders     = "orders.manage"
	ManageUsers      = "users.manage"
	ExportCatalog    = "catalog.export"
)

var grants = map[string]map[string]bool{
	RoleAdmin: {
		ManageProducts:   true,
		ManageCategories: true,
		ManageOrders:     true,
		ExportCatalog:    true,
	},
	RoleSuperadmin: {
		ManageProducts:   true,
		ManageCategories: true,
		ManageOrders:     true,
		ManageUsers:      true,
		ExportCatalog:    true,
	},
}

// Allows reports whether role holds the given permission.
func Allows(role, permission string) bool {
	return grants[role][permission]
}

// Require returns an error when role lacks the given permission.
func Require(role, permission string) error {
	if Allows(role, permission) {
		return nil
	}
	if role == "" {
		return fmt.Errorf("rbac: %s requires signing in", permission)
	}
	return fmt.Errorf("rbac: role %q lacks permission %s", role, permission)
}
