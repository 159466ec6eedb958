package enums

import "fmt"

// AdminRole is the role carried by back-office access tokens.
type AdminRole string

const (
	AdminRoleAdmin AdminRole = "admin"
)

var validAdminRoles = []AdminRole{
	AdminRoleAdmin,
}

// String implements fmt.Stringer.
func (v AdminRole) String() string {
	return string(v)
}

// IsValid reports whether the value is a known AdminRole.
func (v AdminRole) IsValid() bool {
	for _, candidate := range validAdminRoles {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseAdminRole converts raw input into a AdminRole.
func ParseAdminRole(value string) (AdminRole, error) {
	for _, candidate := range validAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
