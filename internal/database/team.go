package database

import (
	"context"
	"fmt"
)

// ListTeams retrieves teams with pagination
func (db *DB) ListTeams(ctx context.Context, limit, offset int) ([]*Team, error) {
	query := `
		SELECT id, team_name, team_code, created_at, updated_at
		FROM teams
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	return db.queryTeams(ctx, query, limit, offset)
}

// ListAllTeams retrieves every team
func (db *DB) ListAllTeams(ctx context.Context) ([]*Team, error) {
	query := `
		SELECT id, team_name, team_code, created_at, updated_at
		FROM teams
		ORDER BY id ASC
	`
	return db.queryTeams(ctx, query)
}

// CountTeams returns the number of teams
func (db *DB) CountTeams(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

// GetTeamByCode retrieves a team by its unique code
func (db *DB) GetTeamByCode(ctx context.Context, code string) (*Team, error) {
	query := `
		SELECT id, team_name, team_code, created_at, updated_at
		FROM teams
		WHERE team_code = $1
	`

	team := &Team{}
	err := db.pool.QueryRow(ctx, query, code).Scan(
		&team.ID,
		&team.Name,
		&team.Code,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "team")
	}
	return team, nil
}

func (db *DB) queryTeams(ctx context.Context, query string, args ...any) ([]*Team, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []*Team{}
	for rows.Next() {
		team := &Team{}
		if err := rows.Scan(&team.ID, &team.Name, &team.Code, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return teams, nil
}
