package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"robin/internal/bugzilla"
	"robin/internal/config"
	"robin/internal/database"
	"robin/internal/queue"
	"robin/internal/validation"

	"github.com/samber/lo"
)

// Members lists the members whose bugs are mirrored
type Members interface {
	ListServingMembers(ctx context.Context) ([]*database.Member, error)
}

// BugSource fetches bugs from Bugzilla
type BugSource interface {
	FetchBugs(ctx context.Context, start, end time.Time, contributors, platforms []string) ([]bugzilla.Bug, error)
}

// Snapshots replaces a bug snapshot table
type Snapshots interface {
	ReplaceProductBugs(ctx context.Context, table database.SnapshotTable, bugs []*database.ProductBug) error
}

// JobHandler implements the queue.JobHandler interface
type JobHandler struct {
	members    Members
	bugs       BugSource
	snapshots  Snapshots
	normalizer *bugzilla.Normalizer
	arches     *config.ArchitectureTable
	now        func() time.Time
}

// NewJobHandler creates a new job handler
func NewJobHandler(members Members, bugs BugSource, snapshots Snapshots, arches *config.ArchitectureTable) *JobHandler {
	return &JobHandler{
		members:    members,
		bugs:       bugs,
		snapshots:  snapshots,
		normalizer: bugzilla.NewNormalizer(arches),
		arches:     arches,
		now:        time.Now,
	}
}

// HandleJob processes a job from the queue
func (h *JobHandler) HandleJob(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeRefreshBugs:
		return h.refresh(ctx, false)
	case queue.JobTypeRefreshMultiArch:
		return h.refresh(ctx, true)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// Refresh rebuilds both snapshots in turn
func (h *JobHandler) Refresh(ctx context.Context) error {
	for _, multiArch := range []bool{false, true} {
		if err := h.refresh(ctx, multiArch); err != nil {
			return err
		}
	}
	return nil
}

// window runs from January 1st of last year through today
func (h *JobHandler) window() (time.Time, time.Time) {
	today := h.now().UTC().Truncate(24 * time.Hour)
	return time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC), today
}

func (h *JobHandler) refresh(ctx context.Context, multiArch bool) error {
	table := database.ProductBugs
	platforms := bugzilla.DefaultPlatforms
	if multiArch {
		table = database.MultiArchProductBugs
		platforms = lo.Uniq(lo.FlatMap(h.arches.Architectures, func(a config.Architecture, _ int) []string {
			return a.Platforms
		}))
	}

	members, err := h.members.ListServingMembers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	if multiArch {
		members = lo.Reject(members, func(m *database.Member, _ int) bool { return m.MultiArchType == 1 })
	}
	contributors := lo.Uniq(lo.FilterMap(members, func(m *database.Member, _ int) (string, bool) {
		return m.KerberosID, m.KerberosID != ""
	}))
	if len(contributors) == 0 {
		slog.Warn("no members to refresh bugs for", "table", table)
		return nil
	}

	start, end := h.window()
	slog.Info("refreshing bug snapshot", "table", table, "members", len(contributors), "from", start, "to", end)

	bugs, err := h.bugs.FetchBugs(ctx, start, end, contributors, platforms)
	if err != nil {
		return fmt.Errorf("failed to fetch bugs for %s: %w", table, err)
	}

	rows := h.normalizer.NormalizeAll(bugs, multiArch)
	if err := h.snapshots.ReplaceProductBugs(ctx, table, rows); err != nil {
		return fmt.Errorf("failed to replace %s: %w", table, validation.ParseDatabaseError(err))
	}

	slog.Info("refreshed bug snapshot", "table", table, "bugs", len(rows))
	return nil
}
