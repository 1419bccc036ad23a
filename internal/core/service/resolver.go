package service

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/feas-hq/allocation-system/internal/api/metrics"
	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// Resolution signals, in precedence order. Recorded on the role_resolutions
// metric so a drift toward "default" is visible without log digging.
const (
	signalAdminGroup   = "admin_group"
	signalGroupKeyword = "group_keyword"
	signalTitleKeyword = "title_keyword"
	signalDefault      = "default"
)

// groupRule maps a keyword found in a memberOf value to a role. Rules are
// evaluated per group, in table order; the first hit wins.
type groupRule struct {
	keywords []string // all must be present in the group value
	role     domain.Role
}

var groupRules = []groupRule{
	{keywords: []string{"admin"}, role: domain.RoleAdmin},
	{keywords: []string{"pdl"}, role: domain.RolePDL},
	{keywords: []string{"program"}, role: domain.RolePDL},
	{keywords: []string{"tpl"}, role: domain.RolePDL},
	{keywords: []string{"project"}, role: domain.RolePDL},
	{keywords: []string{"coe"}, role: domain.RoleCOELeader},
	{keywords: []string{"team", "lead"}, role: domain.RoleTeamLead},
}

// titleRule maps a keyword in the title attribute to a role.
type titleRule struct {
	keyword string
	role    domain.Role
}

var titleRules = []titleRule{
	{keyword: "pdl", role: domain.RolePDL},
	{keyword: "project delivery", role: domain.RolePDL},
	{keyword: "coe", role: domain.RoleCOELeader},
	{keyword: "team lead", role: domain.RoleTeamLead},
	{keyword: "manager", role: domain.RoleTeamLead},
	{keyword: "lead", role: domain.RoleTeamLead},
}

// RoleResolver turns directory attributes into exactly one application role.
// Resolution is total and deterministic: the same identity always yields the
// same role, and every identity yields a valid role. Precedence is
// explicit admin group > group keyword > title keyword > EMPLOYEE.
//
// The superadmin bypass is handled upstream by AuthService; it never reaches
// the resolver. Resolution happens once at login, so directory changes made
// mid-session take effect only at the next login. That staleness is intended.
type RoleResolver struct {
	adminGroups map[string]struct{} // lowercased configured group DNs
	logger      zerolog.Logger
}

// NewRoleResolver builds a resolver. adminGroups are the configured group
// DNs whose members are always ADMIN, matched case-insensitively.
func NewRoleResolver(adminGroups []string, logger zerolog.Logger) *RoleResolver {
	set := make(map[string]struct{}, len(adminGroups))
	for _, g := range adminGroups {
		if g = strings.TrimSpace(strings.ToLower(g)); g != "" {
			set[g] = struct{}{}
		}
	}
	return &RoleResolver{adminGroups: set, logger: logger}
}

// Resolve maps the identity to a role. Unmapped attribute combinations fall
// back to EMPLOYEE (least privilege); the fallback is logged, not an error.
func (r *RoleResolver) Resolve(identity domain.Identity) domain.Role {
	if role, ok := r.resolveByGroups(identity.Groups); ok {
		return role
	}
	if role, ok := resolveByTitle(identity.Title, identity.Department); ok {
		metrics.RoleResolutionsTotal.WithLabelValues(string(role), signalTitleKeyword).Inc()
		return role
	}

	r.logger.Info().
		Str("username", identity.Username).
		Str("title", identity.Title).
		Msg("no role mapping matched, defaulting to EMPLOYEE")
	metrics.RoleResolutionsTotal.WithLabelValues(string(domain.RoleEmployee), signalDefault).Inc()
	return domain.RoleEmployee
}

func (r *RoleResolver) resolveByGroups(groups []string) (domain.Role, bool) {
	// Configured admin groups outrank every keyword rule.
	for _, g := range groups {
		if _, ok := r.adminGroups[strings.ToLower(strings.TrimSpace(g))]; ok {
			metrics.RoleResolutionsTotal.WithLabelValues(string(domain.RoleAdmin), signalAdminGroup).Inc()
			return domain.RoleAdmin, true
		}
	}

	for _, g := range groups {
		lower := strings.ToLower(g)
		for _, rule := range groupRules {
			if containsAll(lower, rule.keywords) {
				metrics.RoleResolutionsTotal.WithLabelValues(string(rule.role), signalGroupKeyword).Inc()
				return rule.role, true
			}
		}
	}
	return "", false
}

func resolveByTitle(title, department string) (domain.Role, bool) {
	lower := strings.ToLower(title)
	if lower == "" {
		return "", false
	}
	if strings.Contains(strings.ToLower(department), "engineering") && strings.Contains(lower, "lead") {
		return domain.RoleTeamLead, true
	}
	for _, rule := range titleRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.role, true
		}
	}
	return "", false
}

func containsAll(s string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
