// Package rbac implements the static role based permission model for the
// storefront. Roles map to fixed permission sets; the admin role implicitly
// satisfies every permission. Staff accounts may carry a stored permissions
// list, but it is never consulted here (see DESIGN.md open questions).
package rbac

// Roles recognised by the storefront.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Permissions represent atomic capabilities checked by handlers.
const (
	PermViewProducts      = "view_products"
	PermPlaceOrders       = "place_orders"
	PermViewOwnOrders     = "view_own_orders"
	PermViewOrders        = "view_orders"
	PermUpdateOrderStatus = "update_order_status"
	PermManageInventory   = "manage_inventory"
)

var rolePermissions = map[string][]string{
	RoleCustomer: {PermViewProducts, PermPlaceOrders, PermViewOwnOrders},
	RoleStaff:    {PermViewProducts, PermViewOrders, PermUpdateOrderStatus, PermManageInventory},
}

// HasPermission reports whether a role grants a permission. Admin always
// does; other roles are checked against the static table.
func HasPermission(role, permission string) bool {
	if role == "" || permission == "" {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// ValidRole reports whether the role is one of the recognised roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}
