package service

import (
	"testing"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

func sectionKeys(sections []domain.MenuSection) []string {
	keys := make([]string, 0, len(sections))
	for _, s := range sections {
		keys = append(keys, s.Key)
	}
	return keys
}

func findSection(t *testing.T, sections []domain.MenuSection, key string) domain.MenuSection {
	t.Helper()
	for _, s := range sections {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("section %q not found in %v", key, sectionKeys(sections))
	return domain.MenuSection{}
}

func TestMenuBuilder_AdminSeesEverything(t *testing.T) {
	b := NewMenuBuilder()
	sections := b.Build(domain.RoleAdmin)

	want := []string{"dashboard", "projects", "resources", "allocations", "coes", "reports", "settings", "admin"}
	got := sectionKeys(sections)
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section order mismatch at %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestMenuBuilder_EmployeeSubsetOfAdmin(t *testing.T) {
	b := NewMenuBuilder()
	admin := b.Build(domain.RoleAdmin)
	employee := b.Build(domain.RoleEmployee)

	adminKeys := make(map[string]struct{})
	for _, s := range admin {
		adminKeys[s.Key] = struct{}{}
		for _, item := range s.Items {
			adminKeys[s.Key+"/"+item.Key] = struct{}{}
		}
	}

	for _, s := range employee {
		if _, ok := adminKeys[s.Key]; !ok {
			t.Fatalf("employee sees section %q that admin does not", s.Key)
		}
		for _, item := range s.Items {
			if _, ok := adminKeys[s.Key+"/"+item.Key]; !ok {
				t.Fatalf("employee sees item %q that admin does not", item.Key)
			}
		}
	}
}

func TestMenuBuilder_EmployeeScope(t *testing.T) {
	b := NewMenuBuilder()
	sections := b.Build(domain.RoleEmployee)

	got := sectionKeys(sections)
	want := []string{"dashboard", "allocations"}
	if len(got) != len(want) {
		t.Fatalf("expected sections %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected sections %v, got %v", want, got)
		}
	}

	allocs := findSection(t, sections, "allocations")
	if len(allocs.Items) != 1 || allocs.Items[0].Key != "mine" {
		t.Fatalf("employee should only see own allocations, got %+v", allocs.Items)
	}
}

func TestMenuBuilder_TeamLeadScope(t *testing.T) {
	b := NewMenuBuilder()
	sections := b.Build(domain.RoleTeamLead)

	resources := findSection(t, sections, "resources")
	for _, item := range resources.Items {
		if item.Key == "ldap_sync" {
			t.Fatalf("team lead must not see the sync action")
		}
	}

	for _, s := range sections {
		if s.Key == "settings" || s.Key == "admin" {
			t.Fatalf("team lead must not see %q", s.Key)
		}
	}
}

func TestMenuBuilder_SectionWithoutVisibleItemsKept(t *testing.T) {
	b := NewMenuBuilder()
	sections := b.Build(domain.RoleTeamLead)

	// Team leads see the projects section as a plain link even though both
	// of its items are PDL/ADMIN only.
	projects := findSection(t, sections, "projects")
	if len(projects.Items) != 0 {
		t.Fatalf("expected no visible project items for team lead, got %+v", projects.Items)
	}
}

func TestMenuBuilder_DeterministicOrder(t *testing.T) {
	b := NewMenuBuilder()

	first := sectionKeys(b.Build(domain.RolePDL))
	for i := 0; i < 5; i++ {
		again := sectionKeys(b.Build(domain.RolePDL))
		if len(again) != len(first) {
			t.Fatalf("menu changed between builds: %v vs %v", first, again)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("menu order changed between builds: %v vs %v", first, again)
			}
		}
	}
}
