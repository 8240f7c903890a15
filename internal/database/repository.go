package database

import (
	"context"
	"fmt"
)

// GetRepository retrieves a repository by ID
func (db *DB) GetRepository(ctx context.Context, id int64) (*Repository, error) {
	query := `
		SELECT id, owner, repo, created_at
		FROM repositories
		WHERE id = $1
	`

	repo := &Repository{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&repo.ID,
		&repo.Owner,
		&repo.Repo,
		&repo.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "repository")
	}

	return repo, nil
}

// ListRepositories retrieves repositories with pagination
func (db *DB) ListRepositories(ctx context.Context, limit, offset int) ([]*Repository, error) {
	query := `
		SELECT id, owner, repo, created_at
		FROM repositories
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	repos := []*Repository{}
	for rows.Next() {
		repo := &Repository{}
		err := rows.Scan(
			&repo.ID,
			&repo.Owner,
			&repo.Repo,
			&repo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		repos = append(repos, repo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return repos, nil
}

// CountRepositories returns the number of tracked repositories
func (db *DB) CountRepositories(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM repositories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count repositories: %w", err)
	}
	return count, nil
}
