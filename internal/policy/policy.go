package policy

import (
	"slices"

	"github.com/nikolayk812/foodcart/internal/domain"
)

type Capability string

const (
	UseCart       Capability = "cart:use"
	Checkout      Capability = "checkout"
	ReadOwnOrders Capability = "orders:read:own"
	ReadAllOrders Capability = "orders:read:all"
	ManageCatalog Capability = "catalog:manage"
)

var grants = map[domain.Role][]Capability{
	domain.RoleAdmin:    {UseCart, Checkout, ReadOwnOrders, ReadAllOrders, ManageCatalog},
	domain.RoleSeller:   {UseCart, Checkout, ReadOwnOrders, ReadAllOrders},
	domain.RoleCustomer: {UseCart, Checkout, ReadOwnOrders},
}

// Can reports whether role holds capability. Unknown roles hold nothing.
func Can(role domain.Role, capability Capability) bool {
	return slices.Contains(grants[role], capability)
}

// LandingPath is where a role is sent after login.
func LandingPath(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin/panel"
	}
	return "/dashboard"
}
