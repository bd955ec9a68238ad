package auth

import (
	"errors"
	"slices"
)

var ErrAccessDenied = errors.New("access denied")

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleBanker   Role = "Banker"
	RoleAdmin    Role = "Admin"
)

// Actor is the authenticated caller, as injected by the auth layer.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsStaff() bool { return a.Role == RoleBanker || a.Role == RoleAdmin }

// Require fails with ErrAccessDenied unless the actor holds one of roles.
func (a Actor) Require(roles ...Role) error {
	if slices.Contains(roles, a.Role) {
		return nil
	}
	return ErrAccessDenied
}

// RequireStaff is the Banker/Admin gate used by every review and ledger mutation.
func (a Actor) RequireStaff() error { return a.Require(RoleAdmin, RoleBanker) }

// CanRead reports whether the actor may see a resource owned by ownerID.
// Staff see everything; customers only their own.
func (a Actor) CanRead(ownerID string) bool {
	return a.IsStaff() || (a.ID != "" && a.ID == ownerID)
}

// RequireKnown accepts any of the three roles; an unknown or empty role is denied.
func (a Actor) RequireKnown() error { return a.Require(RoleCustomer, RoleBanker, RoleAdmin) }
