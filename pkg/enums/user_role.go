package enums

import "fmt"

// UserRole represents the account-level role attached to a user.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleBusiness UserRole = "business"
	UserRoleCustomer UserRole = "customer"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleBusiness,
	UserRoleCustomer,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole. Empty input falls back to
// the business role, matching the registration default.
func ParseUserRole(value string) (UserRole, error) {
	if value == "" {
		return UserRoleBusiness, nil
	}
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
