package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/ports"
)

type stubAllocationRepo struct {
	statsUser      string
	allocsUser     string
	totalsUsers    []string
	seriesCreators []string
	breakCreators  []string
	breakFilter    ports.BreakdownFilter
}

func (r *stubAllocationRepo) UserStats(_ context.Context, username, _ string) (domain.UserStats, error) {
	r.statsUser = username
	return domain.UserStats{MonthHours: 100, UtilizationPercent: 54.4, RemainingHours: 83.75}, nil
}

func (r *stubAllocationRepo) UserAllocations(_ context.Context, username string) ([]domain.ProjectAllocation, error) {
	r.allocsUser = username
	return []domain.ProjectAllocation{{ProjectID: 1, ProjectName: "Atlas", TotalHours: 100}}, nil
}

func (r *stubAllocationRepo) TeamTotals(_ context.Context, usernames []string, _ int) (domain.TeamTotals, error) {
	r.totalsUsers = usernames
	return domain.TeamTotals{TeamHours: 320, BillingRatio: 43.5}, nil
}

func (r *stubAllocationRepo) HoursSeries(_ context.Context, creators []string, _ int) (domain.HoursSeries, error) {
	r.seriesCreators = creators
	return domain.HoursSeries{}, nil
}

func (r *stubAllocationRepo) ProgramBreakdown(_ context.Context, creators []string, filter ports.BreakdownFilter) ([]domain.ProgramBreakdown, error) {
	r.breakCreators = creators
	r.breakFilter = filter
	return []domain.ProgramBreakdown{{Program: "Transport", Consumed: 120}}, nil
}

type stubDirectoryRepo struct {
	reportees []domain.Reportee
	err       error
}

func (r *stubDirectoryRepo) Upsert(_ context.Context, _ domain.Identity) error { return nil }

func (r *stubDirectoryRepo) FindByUsername(_ context.Context, _ string) (*domain.Identity, error) {
	return nil, nil
}

func (r *stubDirectoryRepo) ReporteesOf(_ context.Context, _ string) ([]domain.Reportee, error) {
	return r.reportees, r.err
}

func (r *stubDirectoryRepo) Search(_ context.Context, _ string, _ int) ([]domain.Identity, error) {
	return nil, nil
}

func (r *stubDirectoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.reportees)), nil
}

type reporteeDirectory struct {
	stubDirectory
	reportees []domain.Reportee
	err       error
}

func (d *reporteeDirectory) Reportees(_ context.Context, _ string) ([]domain.Reportee, error) {
	return d.reportees, d.err
}

func employeeSession() *domain.Session {
	return &domain.Session{
		ID:        "s1",
		Identity:  domain.Identity{Username: "dana", DisplayName: "Dana Smith", DN: "CN=Dana,DC=corp"},
		Role:      domain.RoleEmployee,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestDashboardService_Summary_Employee(t *testing.T) {
	repo := &stubAllocationRepo{}
	svc := NewDashboardService(repo, &stubDirectoryRepo{}, &stubDirectory{}, zerolog.Nop())

	sum, err := svc.Summary(context.Background(), employeeSession(), 2025, "2025-04")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if repo.statsUser != "dana" || repo.allocsUser != "dana" {
		t.Fatalf("queries not scoped to the session user: %q / %q", repo.statsUser, repo.allocsUser)
	}
	if sum.Team != nil || sum.Reportees != nil || sum.Program != nil {
		t.Fatalf("employee summary must not carry team or program sections")
	}
	if sum.Stats.MonthHours != 100 || len(sum.Allocations) != 1 {
		t.Fatalf("unexpected summary payload: %+v", sum)
	}
}

func TestDashboardService_Summary_TeamLead(t *testing.T) {
	repo := &stubAllocationRepo{}
	snapshot := &stubDirectoryRepo{reportees: []domain.Reportee{
		{Username: "amy"}, {Username: "ben"},
	}}
	svc := NewDashboardService(repo, snapshot, &stubDirectory{}, zerolog.Nop())

	sess := employeeSession()
	sess.Role = domain.RoleTeamLead

	sum, err := svc.Summary(context.Background(), sess, 2025, "2025-04")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if sum.Team == nil {
		t.Fatalf("expected team totals for a team lead")
	}
	if len(repo.totalsUsers) != 2 || repo.totalsUsers[0] != "amy" || repo.totalsUsers[1] != "ben" {
		t.Fatalf("team totals not scoped to reportees: %v", repo.totalsUsers)
	}
	if sum.Program != nil {
		t.Fatalf("team lead summary must not carry a program section")
	}
}

func TestDashboardService_Summary_PDL(t *testing.T) {
	repo := &stubAllocationRepo{}
	svc := NewDashboardService(repo, &stubDirectoryRepo{}, &stubDirectory{}, zerolog.Nop())

	sess := employeeSession()
	sess.Role = domain.RolePDL

	sum, err := svc.Summary(context.Background(), sess, 2025, "2025-04")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if sum.Program == nil {
		t.Fatalf("expected program breakdown for a PDL")
	}
	if len(repo.breakCreators) == 0 {
		t.Fatalf("program breakdown queried without creator scoping")
	}
}

func TestDashboardService_Summary_DefaultsPeriod(t *testing.T) {
	repo := &stubAllocationRepo{}
	svc := NewDashboardService(repo, &stubDirectoryRepo{}, &stubDirectory{}, zerolog.Nop())

	sum, err := svc.Summary(context.Background(), employeeSession(), 0, "")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	now := time.Now()
	if sum.Year != now.Year() {
		t.Fatalf("expected current year default, got %d", sum.Year)
	}
	if sum.Month != now.Format("2006-01") {
		t.Fatalf("expected current month default, got %s", sum.Month)
	}
}

func TestDashboardService_Reportees_NoDN(t *testing.T) {
	svc := NewDashboardService(&stubAllocationRepo{}, &stubDirectoryRepo{}, &stubDirectory{}, zerolog.Nop())

	sess := employeeSession()
	sess.Identity.DN = ""
	sess.Role = domain.RoleAdmin

	got, err := svc.Reportees(context.Background(), sess)
	if err != nil {
		t.Fatalf("Reportees returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no reportees for a principal without a DN, got %v", got)
	}
}

func TestDashboardService_Reportees_LiveFallback(t *testing.T) {
	dir := &reporteeDirectory{reportees: []domain.Reportee{{Username: "zoe"}}}
	svc := NewDashboardService(&stubAllocationRepo{}, &stubDirectoryRepo{}, dir, zerolog.Nop())

	sess := employeeSession()
	sess.Role = domain.RoleTeamLead

	got, err := svc.Reportees(context.Background(), sess)
	if err != nil {
		t.Fatalf("Reportees returned error: %v", err)
	}
	if len(got) != 1 || got[0].Username != "zoe" {
		t.Fatalf("expected live fallback result, got %v", got)
	}
}

func TestDashboardService_Reportees_EmptySnapshotAndDeadDirectory(t *testing.T) {
	dir := &reporteeDirectory{err: domain.ErrDirectoryUnavailable}
	svc := NewDashboardService(&stubAllocationRepo{}, &stubDirectoryRepo{}, dir, zerolog.Nop())

	sess := employeeSession()
	sess.Role = domain.RoleTeamLead

	got, err := svc.Reportees(context.Background(), sess)
	if err != nil {
		t.Fatalf("expected degraded empty result, got error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil reportees, got %v", got)
	}
}

func TestDashboardService_Reportees_BothSourcesFail(t *testing.T) {
	snapshot := &stubDirectoryRepo{err: errors.New("mongo down")}
	dir := &reporteeDirectory{err: domain.ErrDirectoryUnavailable}
	svc := NewDashboardService(&stubAllocationRepo{}, snapshot, dir, zerolog.Nop())

	sess := employeeSession()
	sess.Role = domain.RoleTeamLead

	if _, err := svc.Reportees(context.Background(), sess); !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Fatalf("expected directory error when both sources fail, got %v", err)
	}
}

func TestCreatorCandidates(t *testing.T) {
	got := creatorCandidates(domain.Identity{
		Username:    "jdoe",
		DisplayName: "Doe John",
		Email:       "john.doe@corp.example",
	})

	want := map[string]bool{
		"Doe John": false,
		"John Doe": false,
		"jdoe":     false,
	}
	for _, c := range got {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for form, seen := range want {
		if !seen {
			t.Fatalf("expected candidate %q in %v", form, got)
		}
	}

	// No duplicates.
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate candidate %q in %v", c, got)
		}
		seen[c] = true
	}
}
