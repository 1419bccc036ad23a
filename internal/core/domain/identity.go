package domain

// Identity carries the directory attributes fetched for a user at login.
// It is read once from the directory and is immutable for the lifetime of
// the session that wraps it.
type Identity struct {
	Username    string   `json:"username"`     // sAMAccountName or userPrincipalName
	DisplayName string   `json:"display_name"` // cn
	Email       string   `json:"email,omitempty"`
	Title       string   `json:"title,omitempty"`
	Department  string   `json:"department,omitempty"`
	DN          string   `json:"dn,omitempty"` // distinguishedName
	ManagerDN   string   `json:"manager_dn,omitempty"`
	Groups      []string `json:"groups,omitempty"` // memberOf values
}

// Reportee is a direct report resolved from the directory hierarchy.
type Reportee struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title,omitempty"`
	Email       string `json:"email,omitempty"`
	DN          string `json:"dn,omitempty"`
}
