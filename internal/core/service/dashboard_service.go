package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// DashboardService assembles role-scoped dashboard data. Role scoping
// happens here, before any repository call: the repository only ever sees
// the usernames and creator names the session is allowed to query.
type DashboardService struct {
	allocations ports.AllocationRepository
	snapshot    ports.DirectoryRepository
	directory   ports.DirectoryClient
	logger      zerolog.Logger
}

func NewDashboardService(allocations ports.AllocationRepository, snapshot ports.DirectoryRepository, directory ports.DirectoryClient, logger zerolog.Logger) *DashboardService {
	return &DashboardService{allocations: allocations, snapshot: snapshot, directory: directory, logger: logger}
}

// Summary builds the home view aggregate for the session's role. Team and
// program sections are included only for roles entitled to them.
func (s *DashboardService) Summary(ctx context.Context, sess *domain.Session, year int, monthISO string) (*ports.DashboardSummary, error) {
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if monthISO == "" {
		monthISO = now.Format("2006-01")
	}

	username := sess.Identity.Username

	stats, err := s.allocations.UserStats(ctx, username, monthISO)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	allocs, err := s.allocations.UserAllocations(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("user allocations: %w", err)
	}

	summary := &ports.DashboardSummary{
		Year:        year,
		Month:       monthISO,
		Stats:       stats,
		Allocations: allocs,
	}

	if sess.Role.Manages() {
		reportees, err := s.Reportees(ctx, sess)
		if err != nil {
			return nil, err
		}
		if len(reportees) > 0 {
			usernames := make([]string, 0, len(reportees))
			for _, r := range reportees {
				if r.Username != "" {
					usernames = append(usernames, r.Username)
				}
			}
			totals, err := s.allocations.TeamTotals(ctx, usernames, year)
			if err != nil {
				return nil, fmt.Errorf("team totals: %w", err)
			}
			summary.Team = &totals
			summary.Reportees = reportees
		}
	}

	if sess.Role.ProgramScoped() {
		breakdown, err := s.allocations.ProgramBreakdown(ctx, creatorCandidates(sess.Identity), ports.BreakdownFilter{Year: year})
		if err != nil {
			return nil, fmt.Errorf("program breakdown: %w", err)
		}
		summary.Program = breakdown
	}

	return summary, nil
}

// HoursSeries returns the monthly consumed/estimated series for records
// created by the session's user. Route-level RBAC restricts this to PDL and
// ADMIN callers.
func (s *DashboardService) HoursSeries(ctx context.Context, sess *domain.Session, year int) (domain.HoursSeries, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	return s.allocations.HoursSeries(ctx, creatorCandidates(sess.Identity), year)
}

// ProgramBreakdown returns program/department aggregates scoped to the
// session's creator identity.
func (s *DashboardService) ProgramBreakdown(ctx context.Context, sess *domain.Session, filter ports.BreakdownFilter) ([]domain.ProgramBreakdown, error) {
	if filter.Year == 0 {
		filter.Year = time.Now().Year()
	}
	return s.allocations.ProgramBreakdown(ctx, creatorCandidates(sess.Identity), filter)
}

// Reportees resolves the session user's direct reports. The directory
// snapshot is consulted first; a live directory search is the fallback when
// the snapshot has nothing for this manager.
func (s *DashboardService) Reportees(ctx context.Context, sess *domain.Session) ([]domain.Reportee, error) {
	dn := sess.Identity.DN
	if dn == "" {
		// Superadmin and token principals have no directory entry.
		return nil, nil
	}

	reportees, err := s.snapshot.ReporteesOf(ctx, dn)
	if err == nil && len(reportees) > 0 {
		return reportees, nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("manager_dn", dn).Msg("snapshot reportee lookup failed, falling back to directory")
	}

	live, liveErr := s.directory.Reportees(ctx, dn)
	if liveErr != nil {
		if err != nil {
			return nil, fmt.Errorf("reportees: %w", liveErr)
		}
		// Snapshot was empty and the directory is unreachable: treat as no
		// reportees rather than failing the whole dashboard.
		s.logger.Warn().Err(liveErr).Str("manager_dn", dn).Msg("live reportee lookup failed")
		return nil, nil
	}
	return live, nil
}

// creatorCandidates lists the name forms under which the user's records may
// have been created: the display name as stored, the given-name-first
// rearrangement, a capitalized form, the login name and the mail local part.
// Aggregation queries match creator columns against any of them.
func creatorCandidates(identity domain.Identity) []string {
	var out []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		for _, existing := range out {
			if existing == v {
				return
			}
		}
		out = append(out, v)
	}

	cn := strings.TrimSpace(identity.DisplayName)
	if cn != "" {
		add(cn)
		if parts := strings.Fields(cn); len(parts) >= 2 {
			add(strings.Join(append(parts[1:], parts[0]), " "))
		}
		add(capitalizeWords(cn))
	}

	add(identity.Username)
	if at := strings.IndexByte(identity.Email, '@'); at > 0 {
		local := identity.Email[:at]
		if strings.Contains(local, ".") {
			add(capitalizeWords(strings.ReplaceAll(local, ".", " ")))
		} else {
			add(capitalizeWords(local))
		}
	}

	return out
}

func capitalizeWords(s string) string {
	parts := strings.Fields(strings.ToLower(s))
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
