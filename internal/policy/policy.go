// Package policy decides whether a caller may perform an action. Every
// service operation that needs a role or ownership check goes through
// Authorize instead of inspecting roles itself.
package policy

import (
	"produce-market/internal/domain"
)

type Action string

const (
	PlaceOrder        Action = "order.place"
	ListOwnOrders     Action = "order.list_own"
	ListAllOrders     Action = "order.list_all"
	UpdateOrderStatus Action = "order.update_status"
	CancelOrder       Action = "order.cancel"

	CreateProduct Action = "product.create"
	UpdateProduct Action = "product.update"
	DeleteProduct Action = "product.delete"

	ListMessages  Action = "contact.list"
	UpdateMessage Action = "contact.update"

	ListUsers Action = "user.list"
)

// Resource describes the record an action targets. Loaded records are built
// with Owned so their OwnerID is always compared, even when empty; None
// checks the role only.
type Resource struct {
	Owned   bool
	OwnerID string
}

// None is the resource of collection-level actions and of checks made before
// the record is loaded.
var None = Resource{}

// OwnedBy is a loaded record belonging to ownerID.
func OwnedBy(ownerID string) Resource { return Resource{Owned: true, OwnerID: ownerID} }

type rule struct {
	role   domain.Role
	owned  bool
	denied string
}

var rules = map[Action]rule{
	PlaceOrder:        {role: domain.RoleBuyer, denied: "Only buyers can place orders"},
	ListOwnOrders:     {role: domain.RoleBuyer, denied: "Only buyers can access their orders"},
	ListAllOrders:     {role: domain.RoleAdmin, denied: "Only admin can view all orders"},
	UpdateOrderStatus: {role: domain.RoleAdmin, denied: "Only admin can update order status"},
	CancelOrder:       {role: domain.RoleBuyer, owned: true, denied: "Only buyers can cancel their orders"},
	CreateProduct:     {role: domain.RoleAdmin, denied: "Only admin can add products"},
	UpdateProduct:     {role: domain.RoleAdmin, denied: "Only admin can edit this product"},
	DeleteProduct:     {role: domain.RoleAdmin, denied: "Only admin can delete products"},
	ListMessages:      {role: domain.RoleAdmin, denied: "Only admin can read contact messages"},
	UpdateMessage:     {role: domain.RoleAdmin, denied: "Only admin can update contact messages"},
	ListUsers:         {role: domain.RoleAdmin, denied: "Only admin can list users"},
}

// Authorize returns nil when caller may perform action on res. A nil caller
// yields an unauthorized error; a role or ownership mismatch yields a
// forbidden one. Unknown actions are always denied.
func Authorize(caller *domain.User, action Action, res Resource) error {
	if caller == nil {
		return domain.Unauthorized("unauthorized")
	}
	r, ok := rules[action]
	if !ok {
		return domain.Forbidden("forbidden")
	}
	if caller.Role != r.role {
		return domain.Forbidden(r.denied)
	}
	if r.owned && res.Owned && (res.OwnerID == "" || res.OwnerID != caller.ID) {
		return domain.Forbidden("You can only cancel your own orders")
	}
	return nil
}
