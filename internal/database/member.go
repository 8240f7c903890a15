package database

import (
	"context"
	"fmt"
)

const memberColumns = `id, name, kerberos_id, email, github_account, serving, multi_arch_type, team_id, created_at, updated_at`

// GetMemberByKerberosID retrieves a member by kerberos id
func (db *DB) GetMemberByKerberosID(ctx context.Context, kerberosID string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE kerberos_id = $1`
	member, err := scanMember(db.pool.QueryRow(ctx, query, kerberosID))
	if err != nil {
		return nil, notFound(err, "member")
	}
	return member, nil
}

// GetMemberByGitHubAccount retrieves a member by GitHub login
func (db *DB) GetMemberByGitHubAccount(ctx context.Context, account string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE github_account = $1`
	member, err := scanMember(db.pool.QueryRow(ctx, query, account))
	if err != nil {
		return nil, notFound(err, "member")
	}
	return member, nil
}

// ListTeamMembers retrieves the members of a team, optionally only the serving ones
func (db *DB) ListTeamMembers(ctx context.Context, teamID int64, servingOnly bool) ([]*Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE team_id = $1 AND (serving OR NOT $2)
		ORDER BY id ASC
	`
	return db.queryMembers(ctx, query, teamID, servingOnly)
}

// ListMembers retrieves every member
func (db *DB) ListMembers(ctx context.Context) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY id ASC`
	return db.queryMembers(ctx, query)
}

// ListServingMembers retrieves the members still serving
func (db *DB) ListServingMembers(ctx context.Context) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE serving ORDER BY id ASC`
	return db.queryMembers(ctx, query)
}

func (db *DB) queryMembers(ctx context.Context, query string, args ...any) ([]*Member, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return members, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.KerberosID,
		&m.Email,
		&m.GitHubAccount,
		&m.Serving,
		&m.MultiArchType,
		&m.TeamID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
