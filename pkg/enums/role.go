package enums

import "fmt"

// Role is the account-level role tag stored in users.user_type.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	// RoleUnset marks accounts created before a role was assigned.
	RoleUnset Role = ""
)

var validRoles = []Role{
	RoleStudent,
	RoleInstructor,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known, assigned Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role. Empty input maps to RoleUnset.
func ParseRole(value string) (Role, error) {
	if value == "" {
		return RoleUnset, nil
	}
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// PlanStatus mirrors users.plan_status. New accounts start inactive.
type PlanStatus string

const (
	PlanStatusInactive PlanStatus = "inactive"
	PlanStatusActive   PlanStatus = "active"
)

func (p PlanStatus) String() string { return string(p) }
