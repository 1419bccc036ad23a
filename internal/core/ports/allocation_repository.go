package ports

import (
	"context"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// BreakdownFilter carries the query parameters for the program breakdown
// view. Year is required; Month (1-12) and Department are optional narrows.
type BreakdownFilter struct {
	Year       int
	Month      int // 0 = year-to-date
	Department string
}

// AllocationRepository is the narrow query collaborator over the relational
// allocation schema. Callers pass in the set of usernames or creator names
// they are allowed to see; the repository never widens that scope.
type AllocationRepository interface {
	// UserStats returns one user's utilization for a month ("2025-04").
	UserStats(ctx context.Context, username string, monthISO string) (domain.UserStats, error)

	// UserAllocations returns the user's top project allocations by hours.
	UserAllocations(ctx context.Context, username string) ([]domain.ProjectAllocation, error)

	// TeamTotals aggregates hours across the given usernames for a year.
	TeamTotals(ctx context.Context, usernames []string, year int) (domain.TeamTotals, error)

	// HoursSeries returns the monthly consumed/estimated series for records
	// created by any of the given creator names.
	HoursSeries(ctx context.Context, creators []string, year int) (domain.HoursSeries, error)

	// ProgramBreakdown returns per-program aggregates for the creators.
	ProgramBreakdown(ctx context.Context, creators []string, filter BreakdownFilter) ([]domain.ProgramBreakdown, error)
}
