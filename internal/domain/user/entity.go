package user

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Organization administrator
	RoleHR       Role = "HR"       // Fallback approver, manages schedules and fences
	RoleManager  Role = "MANAGER"  // Approves requests of direct reports
	RoleEmployee Role = "EMPLOYEE" // Regular employee
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type User struct {
	ID         string
	OrgID      string
	FullName   string
	EmployeeNo *string
	Status     Status
	Roles      []Role
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRoles converts raw claim values, dropping unknown ones.
func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		switch Role(r) {
		case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
			roles = append(roles, Role(r))
		}
	}
	return roles
}
