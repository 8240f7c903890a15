package database

import (
	"context"
	"fmt"
	"time"
)

// ListCommits retrieves the commits of an e-mail dated in [from, before) with the owning pull number
func (db *DB) ListCommits(ctx context.Context, repositoryID int64, email string, from, before time.Time) ([]*Commit, error) {
	query := `
		SELECT c.sha, c.email, c.message, c.date, p.pull_number
		FROM commits c
		LEFT JOIN pulls p ON p.id = c.pull_id
		WHERE c.repository_id = $1 AND c.email = $2
		  AND c.date >= $3 AND c.date < $4
		ORDER BY c.date ASC
	`

	rows, err := db.pool.Query(ctx, query, repositoryID, email, from, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get commits: %w", err)
	}
	defer rows.Close()

	commits := []*Commit{}
	for rows.Next() {
		c := &Commit{}
		err := rows.Scan(
			&c.SHA,
			&c.Email,
			&c.Message,
			&c.Date,
			&c.PullNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commit: %w", err)
		}
		commits = append(commits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return commits, nil
}
