package domain

// Role is the effective trust tier resolved for an identity at request time.
// It is derived per request and never cached across requests.
type Role string

const (
	// RoleAdmin is the highest trust tier with full privileged access.
	RoleAdmin Role = "admin"
	// RoleVaad grants privileged access across all courses.
	RoleVaad Role = "vaad"
	// RoleStudent is the default tier with no editing privileges.
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the assignable tiers.
// Student is derived, never persisted, so it is not assignable.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleVaad
}

// AdminLike reports whether the role carries portal-wide editing privileges.
func (r Role) AdminLike() bool {
	return r == RoleAdmin || r == RoleVaad
}
