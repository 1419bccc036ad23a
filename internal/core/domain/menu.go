package domain

// MenuItem is a single navigable entry inside a menu section.
type MenuItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
	Roles []Role `json:"-"`
}

// MenuSection is a top-level navigation group. A section is visible to a role
// when the role appears in Roles; its Items are filtered the same way.
type MenuSection struct {
	Key   string     `json:"key"`
	Title string     `json:"title"`
	Icon  string     `json:"icon"`
	Path  string     `json:"path"`
	Roles []Role     `json:"-"`
	Items []MenuItem `json:"items,omitempty"`
}

// VisibleTo reports whether the section is shown to the given role.
func (s MenuSection) VisibleTo(role Role) bool {
	return roleIn(role, s.Roles)
}

// VisibleTo reports whether the item is shown to the given role.
func (i MenuItem) VisibleTo(role Role) bool {
	return roleIn(role, i.Roles)
}

func roleIn(role Role, set []Role) bool {
	// An empty role set means visible to everyone.
	if len(set) == 0 {
		return true
	}
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
