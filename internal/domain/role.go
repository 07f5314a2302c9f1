package domain

// Role enumerates the access levels a user can hold. The zero value is
// RoleUnknown, which resolves to least privilege everywhere a role is
// consulted: an unassigned or unreadable role never grants admin access.
type Role int

const (
	RoleUnknown Role = iota
	RoleVolunteer
	RoleAdmin
)

// ParseRole maps a stored role string onto the closed enumeration. Anything
// other than the two known values comes back as RoleUnknown.
func ParseRole(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	case "volunteer":
		return RoleVolunteer
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleVolunteer:
		return "volunteer"
	default:
		return "unknown"
	}
}

// IsAdmin reports whether the role grants admin access. Only an explicit
// admin value qualifies.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
