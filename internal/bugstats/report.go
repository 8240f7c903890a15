package bugstats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"robin/internal/config"
	"robin/internal/database"

	"github.com/samber/lo"
)

// Directory lists the teams and members a report is computed for
type Directory interface {
	ListMembers(ctx context.Context) ([]*database.Member, error)
	ListAllTeams(ctx context.Context) ([]*database.Team, error)
	GetTeamByCode(ctx context.Context, code string) (*database.Team, error)
	ListTeamMembers(ctx context.Context, teamID int64, servingOnly bool) ([]*database.Member, error)
}

// ScopeParams selects a parameterized report
type ScopeParams struct {
	Start        time.Time
	End          time.Time
	Contributors []string
	// TeamCode is set when the contributors were resolved from a team
	TeamCode  string
	PerMember bool
}

// Reporter assembles summary rows from aggregations
type Reporter struct {
	agg    *Aggregator
	dir    Directory
	arches *config.ArchitectureTable
	cfg    config.ReportConfig
	now    func() time.Time
}

// NewReporter creates a reporter
func NewReporter(agg *Aggregator, dir Directory, arches *config.ArchitectureTable, cfg config.ReportConfig) *Reporter {
	return &Reporter{
		agg:    agg,
		dir:    dir,
		arches: arches,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Organization reports the current year to date for the whole organization and each team
func (r *Reporter) Organization(ctx context.Context) ([]*Result, error) {
	now := r.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	members, err := r.dir.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	row, err := r.aggregate(ctx, Params{
		Name:         r.cfg.OrgName,
		Start:        start,
		End:          end,
		Contributors: kerberosIDs(members),
	}, "")
	if err != nil {
		return nil, err
	}
	rows := []*Result{row}

	teams, err := r.dir.ListAllTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, team := range teams {
		teamMembers, err := r.dir.ListTeamMembers(ctx, team.ID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of %s: %w", team.Code, err)
		}
		row, err := r.aggregate(ctx, Params{
			Name:         team.Name,
			Start:        start,
			End:          end,
			Contributors: kerberosIDs(teamMembers),
		}, team.Code)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Scope reports a contributor set over a date range. A set of more than one contributor is
// named ALL and, with PerMember, followed by one row per contributor.
func (r *Reporter) Scope(ctx context.Context, p ScopeParams) ([]*Result, error) {
	return r.rows(ctx, p, "")
}

// MultiArch reports a contributor set per configured architecture, then across all of them
func (r *Reporter) MultiArch(ctx context.Context, p ScopeParams) ([]*Result, error) {
	var rows []*Result
	for _, arch := range append(r.arches.Names(), AllArchitectures) {
		archRows, err := r.rows(ctx, p, arch)
		if err != nil {
			return nil, err
		}
		rows = append(rows, archRows...)
	}
	return rows, nil
}

func (r *Reporter) rows(ctx context.Context, p ScopeParams, arch string) ([]*Result, error) {
	contributors := lo.Uniq(p.Contributors)

	row, err := r.aggregate(ctx, Params{
		Name:         rowName(contributors),
		Start:        p.Start,
		End:          p.End,
		Contributors: contributors,
		Architecture: arch,
	}, p.TeamCode)
	if err != nil {
		return nil, err
	}
	rows := []*Result{row}

	if !p.PerMember || len(contributors) < 2 {
		return rows, nil
	}
	for _, c := range contributors {
		row, err := r.aggregate(ctx, Params{
			Name:         c,
			Start:        p.Start,
			End:          p.End,
			Contributors: []string{c},
			Architecture: arch,
		}, p.TeamCode)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Reporter) aggregate(ctx context.Context, p Params, teamCode string) (*Result, error) {
	exclude, err := r.ExcludeAcceptance(ctx, teamCode, p.Contributors)
	if err != nil {
		return nil, err
	}
	p.ExcludeAcceptance = exclude

	start := time.Now()
	result, err := r.agg.Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	slog.Debug("bug aggregation done", "row", p.Name, "architecture", p.Architecture,
		"contributors", len(p.Contributors), "exclude_acceptance", exclude, "duration", time.Since(start))
	return result, nil
}

// ExcludeAcceptance reports whether acceptance bugs are filtered out. They are kept for the
// acceptance-exempt team and for any set containing one of its members.
func (r *Reporter) ExcludeAcceptance(ctx context.Context, teamCode string, contributors []string) (bool, error) {
	if r.cfg.AcceptanceExemptTeam == "" {
		return true, nil
	}
	if teamCode == r.cfg.AcceptanceExemptTeam {
		return false, nil
	}

	team, err := r.dir.GetTeamByCode(ctx, r.cfg.AcceptanceExemptTeam)
	if errors.Is(err, database.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get acceptance exempt team: %w", err)
	}

	exempt, err := r.dir.ListTeamMembers(ctx, team.ID, false)
	if err != nil {
		return false, fmt.Errorf("failed to list acceptance exempt members: %w", err)
	}
	return len(lo.Intersect(kerberosIDs(exempt), contributors)) == 0, nil
}

func rowName(contributors []string) string {
	switch len(contributors) {
	case 0:
		return ""
	case 1:
		return contributors[0]
	}
	return "ALL"
}

func kerberosIDs(members []*database.Member) []string {
	return lo.Map(members, func(m *database.Member, _ int) string { return m.KerberosID })
}
