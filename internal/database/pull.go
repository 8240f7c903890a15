package database

import (
	"context"
	"fmt"
	"time"
)

const pullColumns = `p.id, p.repository_id, p.pull_number, p.title, p.author, p.state, p.merged, p.merged_by,
		p.commits, p.additions, p.deletions, p.changed_files, p.draft, p.bug_id,
		p.created_at, p.updated_at, p.closed_at`

// ListOpenedPulls retrieves the pulls an author created in [from, before), oldest first
func (db *DB) ListOpenedPulls(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*Pull, error) {
	query := `
		SELECT ` + pullColumns + `
		FROM pulls p
		WHERE p.repository_id = $1 AND p.author = $2
		  AND p.created_at >= $3 AND p.created_at < $4
		ORDER BY p.created_at ASC
	`
	return db.queryPulls(ctx, query, repositoryID, author, from, before)
}

// ListClosedPulls retrieves the merged pulls of an author closed in [from, before)
func (db *DB) ListClosedPulls(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*Pull, error) {
	query := `
		SELECT ` + pullColumns + `
		FROM pulls p
		WHERE p.repository_id = $1 AND p.author = $2
		  AND p.state = 'closed' AND p.merged
		  AND p.closed_at >= $3 AND p.closed_at < $4
		ORDER BY p.closed_at ASC
	`
	return db.queryPulls(ctx, query, repositoryID, author, from, before)
}

// ListUpdatedPulls retrieves the pulls of an author updated in [from, before).
// Pulls never touched after creation and merged pulls updated after closing are left out.
func (db *DB) ListUpdatedPulls(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*Pull, error) {
	query := `
		SELECT ` + pullColumns + `
		FROM pulls p
		WHERE p.repository_id = $1 AND p.author = $2
		  AND p.updated_at >= $3 AND p.updated_at < $4
		  AND p.updated_at <> p.created_at
		  AND (NOT p.merged OR p.updated_at <= p.closed_at)
		ORDER BY p.updated_at ASC
	`
	return db.queryPulls(ctx, query, repositoryID, author, from, before)
}

// ListPendingPulls retrieves open, non-draft pulls authored by serving members
func (db *DB) ListPendingPulls(ctx context.Context, repositoryID int64) ([]*PendingPull, error) {
	query := `
		SELECT ` + pullColumns + `, m.kerberos_id, t.team_name,
			(SELECT COUNT(*) FROM comments c WHERE c.pull_id = p.id AND c.comment_type = 1)
		FROM pulls p
		JOIN members m ON m.github_account = p.author AND m.serving
		JOIN teams t ON t.id = m.team_id
		WHERE p.repository_id = $1 AND p.state = 'open' AND NOT p.draft
		ORDER BY p.created_at ASC
	`

	rows, err := db.pool.Query(ctx, query, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending pulls: %w", err)
	}
	defer rows.Close()

	pulls := []*PendingPull{}
	for rows.Next() {
		pp := &PendingPull{}
		dest := append(pullDest(&pp.Pull), &pp.KerberosID, &pp.TeamName, &pp.ReviewComments)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan pending pull: %w", err)
		}
		pulls = append(pulls, pp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return pulls, nil
}

func (db *DB) queryPulls(ctx context.Context, query string, args ...any) ([]*Pull, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pulls: %w", err)
	}
	defer rows.Close()

	pulls := []*Pull{}
	for rows.Next() {
		p := &Pull{}
		if err := rows.Scan(pullDest(p)...); err != nil {
			return nil, fmt.Errorf("failed to scan pull: %w", err)
		}
		pulls = append(pulls, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return pulls, nil
}

func pullDest(p *Pull) []any {
	return []any{
		&p.ID,
		&p.RepositoryID,
		&p.Number,
		&p.Title,
		&p.Author,
		&p.State,
		&p.Merged,
		&p.MergedBy,
		&p.Commits,
		&p.Additions,
		&p.Deletions,
		&p.ChangedFiles,
		&p.Draft,
		&p.BugID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.ClosedAt,
	}
}
