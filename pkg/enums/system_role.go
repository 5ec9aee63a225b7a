package enums

import "fmt"

// SystemRole represents a platform-level permissions role.
type SystemRole string

const (
	SystemRoleBuyer SystemRole = "buyer"
	SystemRoleAdmin SystemRole = "admin"
)

var validSystemRoles = []SystemRole{
	SystemRoleBuyer,
	SystemRoleAdmin,
}

// String implements fmt.Stringer.
func (r SystemRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known SystemRole.
func (r SystemRole) IsValid() bool {
	for _, candidate := range validSystemRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseSystemRole converts raw input into a SystemRole.
func ParseSystemRole(value string) (SystemRole, error) {
	for _, candidate := range validSystemRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid system role %q", value)
}
