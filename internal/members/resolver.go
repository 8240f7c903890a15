// Package members resolves the contributor set a report is computed for.
package members

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"robin/internal/database"
	"robin/internal/validation"

	"github.com/samber/lo"
)

// StatsType selects how the contributor set is given
type StatsType int

const (
	Personal StatsType = 1
	Team     StatsType = 2
)

// ErrUnsupportedStatsType is returned for a stats_type other than personal or team
var ErrUnsupportedStatsType = errors.New("unsupported stats_type")

// ParseStatsType accepts both the names and the numeric codes
func ParseStatsType(s string) (StatsType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personal", "1":
		return Personal, nil
	case "team", "2":
		return Team, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedStatsType, s)
}

func (s StatsType) String() string {
	switch s {
	case Personal:
		return "personal"
	case Team:
		return "team"
	}
	return fmt.Sprintf("StatsType(%d)", int(s))
}

// Store is the member lookup the resolver needs
type Store interface {
	GetTeamByCode(ctx context.Context, code string) (*database.Team, error)
	ListTeamMembers(ctx context.Context, teamID int64, servingOnly bool) ([]*database.Member, error)
	GetMemberByKerberosID(ctx context.Context, kerberosID string) (*database.Member, error)
	GetMemberByGitHubAccount(ctx context.Context, account string) (*database.Member, error)
}

// Resolver turns a stats_type selection into contributor ids
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the kerberos ids selected by statsType. Personal ids are not checked for existence.
func (r *Resolver) Resolve(ctx context.Context, statsType StatsType, teamCode, rawCSV string) ([]string, error) {
	switch statsType {
	case Personal:
		return SplitCSV(rawCSV), nil
	case Team:
		members, err := r.TeamMembers(ctx, teamCode, false)
		if err != nil {
			return nil, err
		}
		return lo.Map(members, func(m *database.Member, _ int) string { return m.KerberosID }), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedStatsType, int(statsType))
}

// TeamMembers returns the members of the team with code
func (r *Resolver) TeamMembers(ctx context.Context, code string, servingOnly bool) ([]*database.Member, error) {
	team, err := r.store.GetTeamByCode(ctx, code)
	if err != nil {
		return nil, validation.NotFound(err, "team", code)
	}
	return r.store.ListTeamMembers(ctx, team.ID, servingOnly)
}

// Member returns the member with a kerberos id
func (r *Resolver) Member(ctx context.Context, kerberosID string) (*database.Member, error) {
	m, err := r.store.GetMemberByKerberosID(ctx, kerberosID)
	if err != nil {
		return nil, validation.NotFound(err, "member", kerberosID)
	}
	return m, nil
}

// KerberosIDForGitHub maps a GitHub login to a kerberos id, returning the login itself when
// no member uses it. The "null" alias is returned unchanged.
func (r *Resolver) KerberosIDForGitHub(ctx context.Context, account string) (string, error) {
	if account == database.NullAlias {
		return account, nil
	}
	m, err := r.store.GetMemberByGitHubAccount(ctx, account)
	if errors.Is(err, database.ErrNotFound) {
		return account, nil
	}
	if err != nil {
		return "", err
	}
	return m.KerberosID, nil
}

// SplitCSV splits a comma separated id list, trimming blanks and dropping empty items
func SplitCSV(raw string) []string {
	ids := lo.Map(strings.Split(raw, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(ids)
}
