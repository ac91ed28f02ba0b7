// Package access holds the role model and the capability table consulted by
// both the API gate and the storefront client before exposing gated actions.
package access

import "strings"

// Role is a user's account type.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleWholesaler Role = "wholesaler"
	RoleRetailer   Role = "retailer"
)

// ParseRole normalises s into a Role. An empty string yields RoleRetailer.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleRetailer, true
	case RoleAdmin, RoleWholesaler, RoleRetailer:
		return r, true
	default:
		return "", false
	}
}

// Capability names a gated action.
type Capability string

const (
	ManageProducts   Capability = "products:manage"
	ManageInventory  Capability = "inventory:manage"
	ViewUsers        Capability = "users:view"
	ManageUsers      Capability = "users:manage"
	PlaceOrders      Capability = "orders:place"
	ViewAllOrders    Capability = "orders:view-all"
	ManageOrders     Capability = "orders:manage"
	WholesalePricing Capability = "pricing:wholesale"
	AdminPanel       Capability = "admin:panel"
)

var capabilities = map[Capability][]Role{
	ManageProducts:   {RoleAdmin},
	ManageInventory:  {RoleAdmin},
	ViewUsers:        {RoleAdmin},
	ManageUsers:      {RoleAdmin},
	PlaceOrders:      {RoleAdmin, RoleWholesaler, RoleRetailer},
	ViewAllOrders:    {RoleAdmin},
	ManageOrders:     {RoleAdmin},
	WholesalePricing: {RoleWholesaler},
	AdminPanel:       {RoleAdmin},
}

// Allowed reports whether role may perform c. Unknown capabilities are denied.
func Allowed(role Role, c Capability) bool {
	for _, r := range capabilities[c] {
		if r == role {
			return true
		}
	}
	return false
}
