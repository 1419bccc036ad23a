package domain

// UserStats summarizes an individual's utilization for a single month.
type UserStats struct {
	MonthHours         float64 `json:"month_hours"`
	UtilizationPercent float64 `json:"utilization_percent"`
	RemainingHours     float64 `json:"remaining_hours"`
}

// ProjectAllocation is a per-project hour total for one user.
type ProjectAllocation struct {
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	TotalHours  float64 `json:"total_hours"`
}

// TeamTotals aggregates allocation across a manager's reportees for a year.
type TeamTotals struct {
	TeamHours       float64 `json:"team_hours"`
	BillingRatio    float64 `json:"billing_ratio"` // percent of team capacity
	OpenAllocations int     `json:"open_allocations"`
}

// HoursSeries is a twelve-month consumed-vs-estimated series for charting.
type HoursSeries struct {
	Labels    []string  `json:"labels"`
	Consumed  []float64 `json:"consumed"`
	Estimated []float64 `json:"estimated"`
}

// ProgramBreakdown is one row of the program/department aggregate view.
type ProgramBreakdown struct {
	Program    string  `json:"program"`
	Department string  `json:"department"`
	Allotted   float64 `json:"allotted"`
	Consumed   float64 `json:"consumed"`
}
