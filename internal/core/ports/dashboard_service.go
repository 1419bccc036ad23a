package ports

import (
	"context"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// DashboardSummary is the role-scoped aggregate rendered on the home view.
// Team and Program sections are nil for roles that may not see them.
type DashboardSummary struct {
	Year        int                        `json:"year"`
	Month       string                     `json:"month"`
	Stats       domain.UserStats           `json:"stats"`
	Allocations []domain.ProjectAllocation `json:"allocations"`
	Team        *domain.TeamTotals         `json:"team,omitempty"`
	Reportees   []domain.Reportee          `json:"reportees,omitempty"`
	Program     []domain.ProgramBreakdown  `json:"program,omitempty"`
}

// DashboardService assembles role-scoped dashboard data. The visible record
// set is narrowed by the session's role before any repository query runs.
type DashboardService interface {
	Summary(ctx context.Context, sess *domain.Session, year int, monthISO string) (*DashboardSummary, error)
	HoursSeries(ctx context.Context, sess *domain.Session, year int) (domain.HoursSeries, error)
	ProgramBreakdown(ctx context.Context, sess *domain.Session, filter BreakdownFilter) ([]domain.ProgramBreakdown, error)
	Reportees(ctx context.Context, sess *domain.Session) ([]domain.Reportee, error)
}

// MenuService derives the navigation visible to a role.
type MenuService interface {
	Build(role domain.Role) []domain.MenuSection
}

// SyncResult reports the outcome of one directory sync run.
type SyncResult struct {
	Entries  int   `json:"entries"`
	Failed   int   `json:"failed"`
	Snapshot int64 `json:"snapshot_total"`
}

// DirectorySyncService refreshes the directory snapshot from the live
// directory. Restricted to ADMIN and PDL callers at the transport layer.
type DirectorySyncService interface {
	Sync(ctx context.Context) (*SyncResult, error)
}
