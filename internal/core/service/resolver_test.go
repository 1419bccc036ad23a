package service

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

func TestRoleResolver_ConfiguredAdminGroupWins(t *testing.T) {
	r := NewRoleResolver([]string{"CN=FEAS-Admins,OU=Groups,DC=corp"}, zerolog.Nop())

	identity := domain.Identity{
		Username: "alice",
		Title:    "PDL - Transport",
		Groups: []string{
			"CN=PDL-Transport,OU=Groups,DC=corp",
			"cn=feas-admins,ou=groups,dc=corp",
		},
	}
	if got := r.Resolve(identity); got != domain.RoleAdmin {
		t.Fatalf("expected ADMIN from configured group, got %s", got)
	}
}

func TestRoleResolver_GroupKeywords(t *testing.T) {
	r := NewRoleResolver(nil, zerolog.Nop())

	cases := []struct {
		name   string
		groups []string
		want   domain.Role
	}{
		{"admin keyword", []string{"CN=App-Admin-Users,DC=corp"}, domain.RoleAdmin},
		{"pdl keyword", []string{"CN=PDL-Delivery,DC=corp"}, domain.RolePDL},
		{"program keyword", []string{"CN=Program-Office,DC=corp"}, domain.RolePDL},
		{"tpl keyword", []string{"CN=TPL-Members,DC=corp"}, domain.RolePDL},
		{"project keyword", []string{"CN=Project-Leads,DC=corp"}, domain.RolePDL},
		{"coe keyword", []string{"CN=CoE-Platform,DC=corp"}, domain.RoleCOELeader},
		{"team lead needs both words", []string{"CN=Team-Leads,DC=corp"}, domain.RoleTeamLead},
		{"team alone is not a lead", []string{"CN=Team-Members,DC=corp"}, domain.RoleEmployee},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(domain.Identity{Username: "u", Groups: tc.groups})
			if got != tc.want {
				t.Fatalf("groups %v: expected %s, got %s", tc.groups, tc.want, got)
			}
		})
	}
}

func TestRoleResolver_GroupOutranksTitle(t *testing.T) {
	r := NewRoleResolver(nil, zerolog.Nop())

	identity := domain.Identity{
		Username: "bob",
		Title:    "Engineering Manager",
		Groups:   []string{"CN=CoE-Quality,DC=corp"},
	}
	if got := r.Resolve(identity); got != domain.RoleCOELeader {
		t.Fatalf("expected group keyword to outrank title, got %s", got)
	}
}

func TestRoleResolver_TitleFallback(t *testing.T) {
	r := NewRoleResolver(nil, zerolog.Nop())

	cases := []struct {
		title string
		dept  string
		want  domain.Role
	}{
		{"Senior PDL", "", domain.RolePDL},
		{"Head of Project Delivery", "", domain.RolePDL},
		{"CoE Leader", "", domain.RoleCOELeader},
		{"Team Lead", "", domain.RoleTeamLead},
		{"Engineering Manager", "", domain.RoleTeamLead},
		{"Tech Lead", "Engineering Services", domain.RoleTeamLead},
		{"Software Engineer", "", domain.RoleEmployee},
		{"", "", domain.RoleEmployee},
	}

	for _, tc := range cases {
		got := r.Resolve(domain.Identity{Username: "u", Title: tc.title, Department: tc.dept})
		if got != tc.want {
			t.Fatalf("title %q dept %q: expected %s, got %s", tc.title, tc.dept, tc.want, got)
		}
	}
}

func TestRoleResolver_Deterministic(t *testing.T) {
	r := NewRoleResolver([]string{"CN=Admins,DC=corp"}, zerolog.Nop())

	identity := domain.Identity{
		Username: "carol",
		Title:    "Delivery Manager",
		Groups:   []string{"CN=PDL-Office,DC=corp", "CN=Staff,DC=corp"},
	}

	first := r.Resolve(identity)
	for i := 0; i < 10; i++ {
		if got := r.Resolve(identity); got != first {
			t.Fatalf("resolution not deterministic: %s then %s", first, got)
		}
	}
	if !first.Valid() {
		t.Fatalf("resolved role %q is not valid", first)
	}
}
