package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// monthlyCapacityHours is the maximum billable hours per person per month.
const monthlyCapacityHours = 183.75

var monthColumns = [12]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// AllocationRepository implements ports.AllocationRepository over the
// relational allocation schema.
type AllocationRepository struct {
	pool *pgxpool.Pool
}

// NewAllocationRepository creates an AllocationRepository backed by the pool.
func NewAllocationRepository(pool *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{pool: pool}
}

// UserStats sums one user's allocated hours for a month and derives the
// utilization against the monthly capacity.
func (r *AllocationRepository) UserStats(ctx context.Context, username string, monthISO string) (domain.UserStats, error) {
	const query = `
		SELECT COALESCE(SUM(total_hours), 0)
		FROM monthly_allocation_entries
		WHERE user_ldap = $1
		  AND to_char(month_start, 'YYYY-MM') = $2`

	var total float64
	if err := r.pool.QueryRow(ctx, query, username, monthISO).Scan(&total); err != nil {
		return domain.UserStats{}, fmt.Errorf("user stats: %w", err)
	}

	return domain.UserStats{
		MonthHours:         total,
		UtilizationPercent: round1(total / monthlyCapacityHours * 100),
		RemainingHours:     round2(math.Max(monthlyCapacityHours-total, 0)),
	}, nil
}

// UserAllocations returns the user's top ten projects by allocated hours.
func (r *AllocationRepository) UserAllocations(ctx context.Context, username string) ([]domain.ProjectAllocation, error) {
	const query = `
		SELECT m.project_id, COALESCE(p.name, ''), SUM(m.total_hours) AS total_hours
		FROM monthly_allocation_entries m
		LEFT JOIN projects p ON p.id = m.project_id
		WHERE m.user_ldap = $1
		GROUP BY m.project_id, p.name
		ORDER BY total_hours DESC
		LIMIT 10`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("user allocations: %w", err)
	}
	defer rows.Close()

	var out []domain.ProjectAllocation
	for rows.Next() {
		var a domain.ProjectAllocation
		if err := rows.Scan(&a.ProjectID, &a.ProjectName, &a.TotalHours); err != nil {
			return nil, fmt.Errorf("user allocations scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user allocations rows: %w", err)
	}
	return out, nil
}

// TeamTotals sums allocated hours across the given usernames for a year.
// The billing ratio is the total against the combined monthly capacity of
// the group.
func (r *AllocationRepository) TeamTotals(ctx context.Context, usernames []string, year int) (domain.TeamTotals, error) {
	if len(usernames) == 0 {
		return domain.TeamTotals{}, nil
	}

	const query = `
		SELECT COALESCE(SUM(total_hours), 0)
		FROM monthly_allocation_entries
		WHERE user_ldap = ANY($1)
		  AND EXTRACT(YEAR FROM month_start) = $2`

	var total float64
	if err := r.pool.QueryRow(ctx, query, usernames, year).Scan(&total); err != nil {
		return domain.TeamTotals{}, fmt.Errorf("team totals: %w", err)
	}

	capacity := float64(len(usernames)) * monthlyCapacityHours
	return domain.TeamTotals{
		TeamHours:    total,
		BillingRatio: round1(total / capacity * 100),
	}, nil
}

// HoursSeries accumulates the per-month consumed columns of every work order
// created by one of the given creators, with the order's total hours spread
// evenly across twelve months as the estimate.
func (r *AllocationRepository) HoursSeries(ctx context.Context, creators []string, year int) (domain.HoursSeries, error) {
	series := domain.HoursSeries{
		Labels:    monthLabels[:],
		Consumed:  make([]float64, 12),
		Estimated: make([]float64, 12),
	}
	if len(creators) == 0 {
		return series, nil
	}

	query := `
		SELECT ` + coalescedMonthColumns() + `,
		       COALESCE(CAST(total_hours AS DECIMAL(18,2)), 0)
		FROM prism_master_wor
		WHERE year = $1 AND creator = ANY($2)`

	rows, err := r.pool.Query(ctx, query, year, creators)
	if err != nil {
		return domain.HoursSeries{}, fmt.Errorf("hours series: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		months := make([]float64, 12)
		var totalHours float64
		dest := make([]any, 0, 13)
		for i := range months {
			dest = append(dest, &months[i])
		}
		dest = append(dest, &totalHours)
		if err := rows.Scan(dest...); err != nil {
			return domain.HoursSeries{}, fmt.Errorf("hours series scan: %w", err)
		}
		for i, v := range months {
			series.Consumed[i] += v
		}
		if totalHours > 0 {
			perMonth := totalHours / 12
			for i := range series.Estimated {
				series.Estimated[i] += perMonth
			}
		}
	}
	if err := rows.Err(); err != nil {
		return domain.HoursSeries{}, fmt.Errorf("hours series rows: %w", err)
	}

	for i := range series.Consumed {
		series.Consumed[i] = round2(series.Consumed[i])
		series.Estimated[i] = round2(series.Estimated[i])
	}
	return series, nil
}

// ProgramBreakdown aggregates per program. With a month filter the single
// month column of the work-order table supplies consumed hours (no allotted
// figure exists at that grain); year-to-date queries read the WBS rollup,
// which carries both allotted and consumed.
func (r *AllocationRepository) ProgramBreakdown(ctx context.Context, creators []string, filter ports.BreakdownFilter) ([]domain.ProgramBreakdown, error) {
	if len(creators) == 0 {
		return nil, nil
	}

	var rows pgx.Rows
	var err error
	if filter.Month >= 1 && filter.Month <= 12 {
		col := monthColumns[filter.Month-1]
		query := fmt.Sprintf(`
			SELECT COALESCE(pm.program, '') AS program,
			       COALESCE(pm.department, '') AS department,
			       0 AS allotted,
			       COALESCE(SUM(COALESCE(pm.%s, 0)), 0) AS consumed
			FROM prism_master_wor pm
			WHERE pm.year = $1 AND pm.creator = ANY($2)`, col)
		args := []any{filter.Year, creators}
		if filter.Department != "" {
			query += " AND pm.department = $3"
			args = append(args, filter.Department)
		}
		query += `
			GROUP BY COALESCE(pm.program, ''), COALESCE(pm.department, '')
			ORDER BY COALESCE(pm.program, '')`
		rows, err = r.pool.Query(ctx, query, args...)
	} else {
		query := `
			SELECT COALESCE(wb.program, wb.department, '') AS program,
			       COALESCE(wb.department, '') AS department,
			       COALESCE(SUM(COALESCE(wb.allotted_hours, 0)), 0) AS allotted,
			       COALESCE(SUM(COALESCE(wb.consumed_hours, 0)), 0) AS consumed
			FROM prism_wbs wb
			WHERE wb.year = $1 AND wb.creator = ANY($2)`
		args := []any{filter.Year, creators}
		if filter.Department != "" {
			query += " AND wb.department = $3"
			args = append(args, filter.Department)
		}
		query += `
			GROUP BY COALESCE(wb.program, wb.department, ''), COALESCE(wb.department, '')
			ORDER BY COALESCE(wb.program, wb.department, '')`
		rows, err = r.pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("program breakdown: %w", err)
	}
	defer rows.Close()

	var out []domain.ProgramBreakdown
	for rows.Next() {
		var b domain.ProgramBreakdown
		if err := rows.Scan(&b.Program, &b.Department, &b.Allotted, &b.Consumed); err != nil {
			return nil, fmt.Errorf("program breakdown scan: %w", err)
		}
		if b.Program == "" {
			b.Program = "Unknown"
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("program breakdown rows: %w", err)
	}
	return out, nil
}

func coalescedMonthColumns() string {
	cols := ""
	for i, c := range monthColumns {
		if i > 0 {
			cols += ", "
		}
		cols += "COALESCE(" + c + ", 0)"
	}
	return cols
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
