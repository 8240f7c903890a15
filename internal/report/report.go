// Package report assembles the pull request, commit and review comment lists.
package report

import (
	"context"
	"fmt"
	"time"

	"robin/internal/database"
	"robin/internal/validation"

	"github.com/samber/lo"
)

// Store reads pulls, commits and comments
type Store interface {
	GetRepository(ctx context.Context, id int64) (*database.Repository, error)
	ListOpenedPulls(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Pull, error)
	ListClosedPulls(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Pull, error)
	ListUpdatedPulls(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Pull, error)
	ListPendingPulls(ctx context.Context, repositoryID int64) ([]*database.PendingPull, error)
	ListCommits(ctx context.Context, repositoryID int64, email string, from, before time.Time) ([]*database.Commit, error)
	ListReviewComments(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Comment, error)
}

// Members resolves contributor identities
type Members interface {
	Member(ctx context.Context, kerberosID string) (*database.Member, error)
	KerberosIDForGitHub(ctx context.Context, account string) (string, error)
}

// PatchKind selects a patch list
type PatchKind string

const (
	Opened  PatchKind = "opened"
	Closed  PatchKind = "closed"
	Updated PatchKind = "updated"
)

// Query is a date range over a set of repositories and contributors. End is inclusive.
type Query struct {
	RepositoryIDs []int64
	Contributors  []string
	Start         time.Time
	End           time.Time
}

func (q Query) before() time.Time {
	return q.End.AddDate(0, 0, 1)
}

// PatchRow is one pull request of a patch list
type PatchRow struct {
	PatchNumber  int        `json:"patch_number"`
	Repo         string     `json:"repo"`
	PatchTitle   string     `json:"patch_title"`
	BugID        *string    `json:"bug_id"`
	Author       string     `json:"author"`
	PullMerged   bool       `json:"pull_merged"`
	Commits      int        `json:"commits"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at"`
	MergedBy     string     `json:"merged_by"`
	PatchURL     string     `json:"patch_url"`
}

// PendingRow is an open pull request waiting for review
type PendingRow struct {
	PatchNumber  int       `json:"patch_number"`
	Repo         string    `json:"repo"`
	PatchTitle   string    `json:"patch_title"`
	BugID        *string   `json:"bug_id"`
	Author       string    `json:"author"`
	Team         string    `json:"team"`
	Reviews      int       `json:"reviews"`
	TotalPending int       `json:"total_pending"`
	LastUpdated  int       `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	PatchURL     string    `json:"patch_url"`
}

// CommitRow is one commit of a contributor
type CommitRow struct {
	SHA         string    `json:"sha"`
	Author      string    `json:"author"`
	Message     string    `json:"message"`
	Date        time.Time `json:"date"`
	PatchNumber *int      `json:"patch_number"`
}

// CommentRow is one review comment left on someone else's pull request
type CommentRow struct {
	CommentID   int64     `json:"comment_id"`
	PatchNumber int       `json:"patch_number"`
	Repo        string    `json:"repo"`
	Author      string    `json:"author"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PatchURL    string    `json:"patch_url"`
}

// CommentSummary groups review comments by the pull request they were left on
type CommentSummary struct {
	PatchCount  int            `json:"patch_count"`
	ReviewCount int            `json:"review_count"`
	Data        [][]CommentRow `json:"data"`
}

// Assembler builds report rows
type Assembler struct {
	store   Store
	members Members
	now     func() time.Time
}

// NewAssembler creates an assembler
func NewAssembler(store Store, members Members) *Assembler {
	return &Assembler{store: store, members: members, now: time.Now}
}

// PatchURL is the GitHub page of a pull request
func PatchURL(owner, repo string, number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, number)
}

// Patches lists the pull requests of kind for every repository and contributor
func (a *Assembler) Patches(ctx context.Context, kind PatchKind, q Query) ([]*PatchRow, error) {
	list, err := a.pullLister(kind)
	if err != nil {
		return nil, err
	}

	rows := []*PatchRow{}
	for _, repoID := range q.RepositoryIDs {
		repo, err := a.repository(ctx, repoID)
		if err != nil {
			return nil, err
		}

		for _, kerberosID := range q.Contributors {
			member, err := a.members.Member(ctx, kerberosID)
			if err != nil {
				return nil, err
			}

			pulls, err := list(ctx, repo.ID, member.GitHubAccount, q.Start, q.before())
			if err != nil {
				return nil, err
			}
			if kind == Updated {
				pulls = lo.Filter(pulls, func(p *database.Pull, _ int) bool { return p.HasReviewableUpdate() })
			}

			for _, p := range pulls {
				mergedBy, err := a.members.KerberosIDForGitHub(ctx, p.MergedBy)
				if err != nil {
					return nil, err
				}
				rows = append(rows, &PatchRow{
					PatchNumber:  p.Number,
					Repo:         repo.Repo,
					PatchTitle:   p.Title,
					BugID:        p.BugID,
					Author:       member.KerberosID,
					PullMerged:   p.Merged,
					Commits:      p.Commits,
					Additions:    p.Additions,
					Deletions:    p.Deletions,
					ChangedFiles: p.ChangedFiles,
					CreatedAt:    p.CreatedAt,
					UpdatedAt:    p.UpdatedAt,
					ClosedAt:     p.ClosedAt,
					MergedBy:     mergedBy,
					PatchURL:     PatchURL(repo.Owner, repo.Repo, p.Number),
				})
			}
		}
	}
	return rows, nil
}

type pullLister func(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Pull, error)

func (a *Assembler) pullLister(kind PatchKind) (pullLister, error) {
	switch kind {
	case Opened:
		return a.store.ListOpenedPulls, nil
	case Closed:
		return a.store.ListClosedPulls, nil
	case Updated:
		return a.store.ListUpdatedPulls, nil
	}
	return nil, fmt.Errorf("unknown patch list %q", kind)
}

// Pending lists the open pull requests of serving members with their age in days
func (a *Assembler) Pending(ctx context.Context, repositoryID int64) ([]*PendingRow, error) {
	repo, err := a.repository(ctx, repositoryID)
	if err != nil {
		return nil, err
	}

	pulls, err := a.store.ListPendingPulls(ctx, repo.ID)
	if err != nil {
		return nil, err
	}

	now := a.now()
	rows := make([]*PendingRow, 0, len(pulls))
	for _, p := range pulls {
		rows = append(rows, &PendingRow{
			PatchNumber:  p.Number,
			Repo:         repo.Repo,
			PatchTitle:   p.Title,
			BugID:        p.BugID,
			Author:       p.KerberosID,
			Team:         p.TeamName,
			Reviews:      p.ReviewComments,
			TotalPending: days(now.Sub(p.CreatedAt)),
			LastUpdated:  days(now.Sub(p.UpdatedAt)),
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
			PatchURL:     PatchURL(repo.Owner, repo.Repo, p.Number),
		})
	}
	return rows, nil
}

// Commits lists the commits of every contributor in a single repository
func (a *Assembler) Commits(ctx context.Context, q Query) ([]*CommitRow, error) {
	if len(q.RepositoryIDs) != 1 {
		return nil, fmt.Errorf("commit list needs exactly one repository, got %d", len(q.RepositoryIDs))
	}
	repo, err := a.repository(ctx, q.RepositoryIDs[0])
	if err != nil {
		return nil, err
	}

	rows := []*CommitRow{}
	for _, kerberosID := range q.Contributors {
		member, err := a.members.Member(ctx, kerberosID)
		if err != nil {
			return nil, err
		}

		commits, err := a.store.ListCommits(ctx, repo.ID, member.Email, q.Start, q.before())
		if err != nil {
			return nil, err
		}
		for _, c := range commits {
			rows = append(rows, &CommitRow{
				SHA:         shortSHA(c.SHA),
				Author:      member.KerberosID,
				Message:     c.Message,
				Date:        c.Date,
				PatchNumber: c.PullNumber,
			})
		}
	}
	return rows, nil
}

// Comments groups the review comments of the contributors by pull request
func (a *Assembler) Comments(ctx context.Context, q Query) (*CommentSummary, error) {
	var rows []CommentRow
	for _, repoID := range q.RepositoryIDs {
		repo, err := a.repository(ctx, repoID)
		if err != nil {
			return nil, err
		}

		for _, kerberosID := range q.Contributors {
			member, err := a.members.Member(ctx, kerberosID)
			if err != nil {
				return nil, err
			}

			comments, err := a.store.ListReviewComments(ctx, repo.ID, member.GitHubAccount, q.Start, q.before())
			if err != nil {
				return nil, err
			}
			for _, c := range comments {
				if c.Author == c.PullAuthor {
					continue
				}
				rows = append(rows, CommentRow{
					CommentID:   c.ID,
					PatchNumber: c.PullNumber,
					Repo:        repo.Repo,
					Author:      member.KerberosID,
					Body:        c.Body,
					CreatedAt:   c.CreatedAt,
					UpdatedAt:   c.UpdatedAt,
					PatchURL:    PatchURL(repo.Owner, repo.Repo, c.PullNumber),
				})
			}
		}
	}
	return GroupComments(rows), nil
}

// GroupComments groups rows by patch URL, keeping the order in which patches first appear
func GroupComments(rows []CommentRow) *CommentSummary {
	byURL := lo.GroupBy(rows, func(r CommentRow) string { return r.PatchURL })
	urls := lo.Uniq(lo.Map(rows, func(r CommentRow, _ int) string { return r.PatchURL }))

	data := make([][]CommentRow, 0, len(urls))
	for _, u := range urls {
		data = append(data, byURL[u])
	}
	return &CommentSummary{
		PatchCount:  len(data),
		ReviewCount: len(rows),
		Data:        data,
	}
}

func (a *Assembler) repository(ctx context.Context, id int64) (*database.Repository, error) {
	repo, err := a.store.GetRepository(ctx, id)
	if err != nil {
		return nil, validation.NotFound(err, "repository", fmt.Sprint(id))
	}
	return repo, nil
}

func days(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
