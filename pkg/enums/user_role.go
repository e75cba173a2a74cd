package enums

import "fmt"

// UserRole identifies the acting principal's role as resolved by the auth layer.
type UserRole string

const (
	// UserRoleAdmin bypasses all per-type status restrictions.
	UserRoleAdmin UserRole = "ADMIN"
	// UserRoleManager runs the configurator and prepares client paperwork.
	UserRoleManager UserRole = "MANAGER"
	// UserRoleComplectator manages client documents up to the payment boundary.
	UserRoleComplectator UserRole = "COMPLECTATOR"
	// UserRoleExecutor drives fulfillment: orders and supplier orders.
	UserRoleExecutor UserRole = "EXECUTOR"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleManager,
	UserRoleComplectator,
	UserRoleExecutor,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
