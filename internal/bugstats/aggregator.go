// Package bugstats computes Bugzilla bug counts for a contributor set together with the
// deep links that reproduce each count in Bugzilla.
package bugstats

import (
	"context"
	"fmt"
	"slices"
	"time"

	"robin/internal/bugzilla"
	"robin/internal/config"
	"robin/internal/database"

	"github.com/samber/lo"
)

// AllArchitectures selects the union of every configured architecture
const AllArchitectures = "ALL"

// SnapshotStore reads the bug snapshots
type SnapshotStore interface {
	FindProductBugs(ctx context.Context, q database.BugQuery) ([]*database.ProductBug, error)
	CountProductBugs(ctx context.Context, q database.BugQuery) (int, error)
}

// Params selects what an aggregation counts. Start and End are dates, both inclusive.
type Params struct {
	Name              string
	Start             time.Time
	End               time.Time
	Contributors      []string
	ExcludeAcceptance bool
	// Architecture is empty for the default snapshot, AllArchitectures or an architecture token
	Architecture string
}

// Aggregator counts snapshot rows and builds the matching deep links
type Aggregator struct {
	store      SnapshotStore
	builder    *bugzilla.Builder
	arches     *config.ArchitectureTable
	listIDs    map[bugzilla.Role]string
	fallbackQA string
}

// NewAggregator creates an aggregator
func NewAggregator(store SnapshotStore, builder *bugzilla.Builder, arches *config.ArchitectureTable, bz config.BugzillaConfig, report config.ReportConfig) *Aggregator {
	return &Aggregator{
		store:   store,
		builder: builder,
		arches:  arches,
		listIDs: map[bugzilla.Role]string{
			bugzilla.RoleReporter:  bz.ReporterListID,
			bugzilla.RoleQAContact: bz.QAContactListID,
		},
		fallbackQA: report.FallbackQAContact,
	}
}

// scope is the resolved query context shared by every measure of one aggregation
type scope struct {
	table        database.SnapshotTable
	contributors []string
	platforms    []string
	hardware     []string
	desiredTerms []string
	from         time.Time
	before       time.Time
}

func (a *Aggregator) scope(p Params) scope {
	sc := scope{
		table:        database.ProductBugs,
		contributors: lo.Uniq(p.Contributors),
		platforms:    bugzilla.DefaultPlatforms,
		from:         p.Start,
		before:       p.End.AddDate(0, 0, 1),
	}

	if p.Architecture == "" {
		return sc
	}

	var arches []config.Architecture
	if p.Architecture == AllArchitectures {
		arches = a.arches.Architectures
	} else {
		arch, _ := a.arches.Lookup(p.Architecture)
		arches = []config.Architecture{arch}
	}

	sc.table = database.MultiArchProductBugs
	sc.platforms = nil
	for _, arch := range arches {
		sc.platforms = append(sc.platforms, arch.Platforms...)
		sc.hardware = append(sc.hardware, arch.Name)
		sc.desiredTerms = append(sc.desiredTerms, arch.WhiteboardTerms...)
	}
	sc.platforms = lo.Uniq(sc.platforms)
	sc.hardware = lo.Uniq(append(sc.hardware, sc.platforms...))
	sc.desiredTerms = lo.Uniq(sc.desiredTerms)
	return sc
}

// Aggregate computes every metric of every bucket for p
func (a *Aggregator) Aggregate(ctx context.Context, p Params) (*Result, error) {
	if p.End.Before(p.Start) {
		return nil, fmt.Errorf("end date %s is before start date %s", p.End.Format(time.DateOnly), p.Start.Format(time.DateOnly))
	}

	sc := a.scope(p)
	result := newResult(p.Name, p.Architecture)

	for _, m := range measures {
		search := a.builder.Search(p.Start, p.End, sc.contributors, map[string][]string{
			"rep_platform": sc.platforms,
			"bug_status":   m.class.statuses,
			"resolution":   m.class.resolutions,
		}, p.ExcludeAcceptance, sc.desiredTerms).For(a.listIDs[m.role], m.role).High(m.high)

		var allLinked []string
		for _, pb := range productBuckets {
			*m.link(result.Links[pb.bucket]) = search.URL(pb.linked...)
			allLinked = append(allLinked, pb.linked...)

			for _, product := range pb.counted {
				n, err := a.count(ctx, sc, m, product, p.ExcludeAcceptance)
				if err != nil {
					return nil, err
				}
				*m.metric(result.Metrics[pb.bucket]) += n
				*m.metric(result.Metrics[BucketAll]) += n
			}
		}
		*m.link(result.Links[BucketAll]) = search.URL(allLinked...)
	}

	for _, b := range Buckets {
		result.Metrics[b].computeRatios()
	}
	return result, nil
}

// count runs one product query. Reporter counts only keep bugs whose QA contact belongs to
// the measured set or is the shared fallback QA identity.
func (a *Aggregator) count(ctx context.Context, sc scope, m measure, product string, excludeAcceptance bool) (int, error) {
	q := database.BugQuery{
		Table: sc.table,
		Filters: []database.BugFilter{
			database.In(database.FieldProduct, product),
			database.In(database.BugField(m.role), sc.contributors...),
			m.class.local,
		},
		CreatedFrom:   sc.from,
		CreatedBefore: sc.before,
	}
	if sc.hardware != nil {
		q.Filters = append(q.Filters, database.In(database.FieldHardware, sc.hardware...))
	}
	if excludeAcceptance {
		q.Filters = append(q.Filters, database.NotIn(database.FieldWhiteboard, bugzilla.MarkerAcceptance))
	}
	if len(sc.desiredTerms) > 0 {
		q.Filters = append(q.Filters, database.NotIn(database.FieldWhiteboard, bugzilla.MarkerNotDesired))
	}
	if m.high {
		q.Filters = append(q.Filters, database.In(database.FieldPriority, "high", "urgent"))
	}

	if m.role == bugzilla.RoleQAContact {
		n, err := a.store.CountProductBugs(ctx, q)
		if err != nil {
			return 0, fmt.Errorf("failed to count %s bugs: %w", product, err)
		}
		return n, nil
	}

	bugs, err := a.store.FindProductBugs(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to find %s bugs: %w", product, err)
	}
	return lo.CountBy(bugs, func(b *database.ProductBug) bool {
		return b.QAContact == a.fallbackQA || slices.Contains(sc.contributors, b.QAContact)
	}), nil
}
