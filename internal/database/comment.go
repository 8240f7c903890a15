package database

import (
	"context"
	"fmt"
	"time"
)

// ListReviewComments retrieves the comments an author left in [from, before) on other people's pulls
func (db *DB) ListReviewComments(ctx context.Context, repositoryID int64, author string, from, before time.Time) ([]*Comment, error) {
	query := `
		SELECT c.comment_id, c.author, c.comment_type, c.body, p.pull_number, p.author, c.created_at, c.updated_at
		FROM comments c
		JOIN pulls p ON p.id = c.pull_id
		WHERE p.repository_id = $1 AND c.author = $2
		  AND c.created_at >= $3 AND c.created_at < $4
		  AND p.author <> c.author
		ORDER BY c.created_at ASC
	`

	rows, err := db.pool.Query(ctx, query, repositoryID, author, from, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		c := &Comment{}
		err := rows.Scan(
			&c.ID,
			&c.Author,
			&c.Type,
			&c.Body,
			&c.PullNumber,
			&c.PullAuthor,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return comments, nil
}
