package domain

// Role is the application-level authorization role. Exactly one role is
// assigned per session, derived from directory attributes at login.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RolePDL       Role = "PDL"
	RoleTeamLead  Role = "TEAM_LEAD"
	RoleCOELeader Role = "COE_LEADER"
	RoleEmployee  Role = "EMPLOYEE"
)

// Roles lists every valid role. Order is not significant.
var Roles = []Role{RoleAdmin, RolePDL, RoleTeamLead, RoleCOELeader, RoleEmployee}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePDL, RoleTeamLead, RoleCOELeader, RoleEmployee:
		return true
	}
	return false
}

// Manages reports whether the role carries team-level visibility, i.e. the
// holder may see reportee data in addition to their own.
func (r Role) Manages() bool {
	switch r {
	case RoleAdmin, RolePDL, RoleTeamLead, RoleCOELeader:
		return true
	}
	return false
}

// ProgramScoped reports whether the role sees program-level (creator-scoped)
// aggregates on the dashboard.
func (r Role) ProgramScoped() bool {
	return r == RoleAdmin || r == RolePDL
}

// ParseRole normalizes a stored role string back into a Role. Unknown values
// collapse to EMPLOYEE so a corrupted session can never gain privileges.
func ParseRole(s string) Role {
	r := Role(s)
	if !r.Valid() {
		return RoleEmployee
	}
	return r
}
