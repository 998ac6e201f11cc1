package domain

import "fmt"

// Role of the caller performing an operation
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a raw claim value into a known role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrUnauthorized, s)
}

// Actor is the authenticated caller
type Actor struct {
	UserID int64
	Role   Role
}

// IsStaff returns true for salon staff and admins
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

// CanActFor returns true if the actor may act on behalf of the given customer
func (a Actor) CanActFor(customerID int64) bool {
	return a.IsStaff() || a.UserID == customerID
}
