package service

import "github.com/feas-hq/allocation-system/internal/core/domain"

// menuTree is the fixed navigation layout. Order is configuration, not
// alphabetical, and does not vary by role; roles only decide inclusion.
var menuTree = []domain.MenuSection{
	{
		Key: "dashboard", Title: "Dashboard", Icon: "gauge-high", Path: "/dashboard",
		Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL, domain.RoleTeamLead, domain.RoleCOELeader, domain.RoleEmployee},
	},
	{
		Key: "projects", Title: "Projects", Icon: "project-diagram", Path: "/projects",
		Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL, domain.RoleCOELeader, domain.RoleTeamLead},
		Items: []domain.MenuItem{
			{Key: "projects_list", Title: "Projects List", Icon: "list-alt", Path: "/projects/list",
				Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL}},
			{Key: "edit_project", Title: "Edit Project", Icon: "edit", Path: "/projects/edit",
				Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL}},
		},
	},
	{
		Key: "resources", Title: "Resource Management", Icon: "users-cog", Path: "/resources",
		Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL, domain.RoleCOELeader, domain.RoleTeamLead},
		Items: []domain.MenuItem{
			{Key: "directory", Title: "Employee Directory", Icon: "address-book", Path: "/resources/directory",
				Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL, domain.RoleCOELeader, domain.RoleTeamLead}},
			{Key: "ldap_sync", Title: "Import / Sync LDAP", Icon: "sync-alt", Path: "/resources/ldap-sync",
				Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL}},
		},
	},
	{
		Key: "allocations", Title: "Allocations", Icon: "calendar-alt", Path: "/allocations",
		Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL, domain.RoleCOELeader, domain.RoleTeamLead, domain.RoleEmployee},
		Items: []domain.MenuItem{
			{Key: "monthly", Title: "Monthly Allocation", Icon: "calendar", Path: "/allocations/monthly",
				Roles: []domain.Role{domain.RolePDL, domain.RoleAdmin}},
			{Key: "team", Title: "Team Allocation", Icon: "users", Path: "/allocations/team",
				Roles: []domain.Role{domain.RoleCOELeader, domain.RoleTeamLead, domain.RoleAdmin, domain.RolePDL}},
			{Key: "mine", Title: "My Allocations", Icon: "user-clock", Path: "/allocations/mine",
				Roles: []domain.Role{domain.RoleCOELeader, domain.RoleTeamLead, domain.RoleAdmin, domain.RolePDL, domain.RoleEmployee}},
		},
	},
	{
		Key: "coes", Title: "COE & Domains", Icon: "sitemap", Path: "/coes",
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleCOELeader, domain.RoleTeamLead},
		Items: []domain.MenuItem{
			{Key: "coe_list", Title: "COE List", Icon: "th-list", Path: "/coes/list",
				Roles: []domain.Role{domain.RoleAdmin, domain.RoleCOELeader}},
			{Key: "coe_edit", Title: "Add / Edit COE", Icon: "plus-square", Path: "/coes/edit",
				Roles: []domain.Role{domain.RoleAdmin}},
		},
	},
	{
		Key: "reports", Title: "Reports & Analytics", Icon: "chart-line", Path: "/reports",
		Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL, domain.RoleCOELeader, domain.RoleTeamLead},
		Items: []domain.MenuItem{
			{Key: "utilization", Title: "Utilization", Icon: "chart-pie", Path: "/reports/utilization",
				Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL, domain.RoleCOELeader, domain.RoleTeamLead}},
			{Key: "custom", Title: "Custom Report", Icon: "file-alt", Path: "/reports/custom",
				Roles: []domain.Role{domain.RoleAdmin}},
		},
	},
	{
		Key: "settings", Title: "Settings", Icon: "cog", Path: "/settings",
		Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL},
		Items: []domain.MenuItem{
			{Key: "monthly_hours", Title: "Monthly Hours Limit", Icon: "clock", Path: "/settings/monthly-hours",
				Roles: []domain.Role{domain.RolePDL, domain.RoleAdmin}},
			{Key: "holidays", Title: "Annual Holidays", Icon: "umbrella-beach", Path: "/settings/holidays",
				Roles: []domain.Role{domain.RolePDL, domain.RoleAdmin}},
			{Key: "ldap", Title: "LDAP Configuration", Icon: "server", Path: "/settings/ldap",
				Roles: []domain.Role{domain.RoleAdmin, domain.RolePDL}},
		},
	},
	{
		Key: "admin", Title: "Admin", Icon: "user-shield", Path: "/admin",
		Roles: []domain.Role{domain.RoleAdmin},
	},
}

// MenuBuilder derives the navigation sections visible to a role. It is a
// pure function of the role: no directory or database access, safe to call
// on every page render.
type MenuBuilder struct{}

func NewMenuBuilder() *MenuBuilder {
	return &MenuBuilder{}
}

// Build returns the sections visible to role, in configured order, with
// each section's items filtered by the same rule. A visible section with no
// visible items is still included; it renders as a plain link.
func (b *MenuBuilder) Build(role domain.Role) []domain.MenuSection {
	out := make([]domain.MenuSection, 0, len(menuTree))
	for _, sec := range menuTree {
		if !sec.VisibleTo(role) {
			continue
		}
		copied := sec
		copied.Items = nil
		for _, item := range sec.Items {
			if item.VisibleTo(role) {
				copied.Items = append(copied.Items, item)
			}
		}
		out = append(out, copied)
	}
	return out
}
