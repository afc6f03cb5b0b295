package portal

// Role is the closed set of account roles. Accounts get exactly one
// role at signup and it is never mutated afterwards.
type Role string

const (
	// RoleUser sees and manages only records they submitted.
	RoleUser Role = "user"
	// RoleAdmin sees every record and manages notifications.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role grants portal-wide visibility.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsAtLeast checks if this role meets the minimum required level
func (r Role) IsAtLeast(minRole Role) bool {
	roleHierarchy := map[Role]int{
		RoleUser:  0,
		RoleAdmin: 1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// AllRoles returns all predefined roles in hierarchical order
func AllRoles() []Role {
	return []Role{
		RoleUser,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
