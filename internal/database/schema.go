package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id BIGSERIAL PRIMARY KEY,
		team_name VARCHAR(32) NOT NULL UNIQUE,
		team_code VARCHAR(32) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(32) NOT NULL UNIQUE,
		kerberos_id VARCHAR(32) NOT NULL UNIQUE,
		email VARCHAR(254) NOT NULL UNIQUE,
		github_account VARCHAR(39) NOT NULL UNIQUE,
		serving BOOLEAN NOT NULL DEFAULT TRUE,
		multi_arch_type INTEGER NOT NULL DEFAULT 0,
		team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS repositories (
		id BIGSERIAL PRIMARY KEY,
		owner VARCHAR(100) NOT NULL,
		repo VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (owner, repo)
	)`,
	`CREATE TABLE IF NOT EXISTS pulls (
		id BIGSERIAL PRIMARY KEY,
		repository_id BIGINT NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
		pull_number INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		author VARCHAR(39) NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		state VARCHAR(8) NOT NULL,
		merged BOOLEAN NOT NULL DEFAULT FALSE,
		merged_by VARCHAR(39) NOT NULL DEFAULT 'null',
		comments INTEGER NOT NULL DEFAULT 0,
		review_comments INTEGER NOT NULL DEFAULT 0,
		commits INTEGER NOT NULL DEFAULT 0,
		additions INTEGER NOT NULL DEFAULT 0,
		deletions INTEGER NOT NULL DEFAULT 0,
		changed_files INTEGER NOT NULL DEFAULT 0,
		draft BOOLEAN NOT NULL DEFAULT FALSE,
		bug_id VARCHAR(16),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		closed_at TIMESTAMPTZ,
		UNIQUE (repository_id, pull_number)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		comment_id BIGINT NOT NULL UNIQUE,
		pull_id BIGINT NOT NULL REFERENCES pulls(id) ON DELETE CASCADE,
		author VARCHAR(39) NOT NULL,
		comment_type SMALLINT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS commits (
		id BIGSERIAL PRIMARY KEY,
		repository_id BIGINT NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
		pull_id BIGINT REFERENCES pulls(id) ON DELETE SET NULL,
		sha CHAR(40) NOT NULL,
		email VARCHAR(254) NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		date TIMESTAMPTZ NOT NULL,
		UNIQUE (repository_id, sha)
	)`,
	`CREATE TABLE IF NOT EXISTS product_bugs (
		bug_id BIGINT PRIMARY KEY,
		reporter VARCHAR(64) NOT NULL,
		qa_contact VARCHAR(64) NOT NULL,
		bug_product VARCHAR(128) NOT NULL,
		component VARCHAR(64) NOT NULL,
		priority VARCHAR(16) NOT NULL,
		qa_whiteboard VARCHAR(16) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		resolution VARCHAR(16) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS multi_arch_product_bugs (
		bug_id BIGINT PRIMARY KEY,
		reporter VARCHAR(64) NOT NULL,
		qa_contact VARCHAR(64) NOT NULL,
		bug_product VARCHAR(128) NOT NULL,
		component VARCHAR(64) NOT NULL,
		priority VARCHAR(16) NOT NULL,
		qa_whiteboard VARCHAR(16) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		resolution VARCHAR(16) NOT NULL,
		hardware VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pulls_author ON pulls (repository_id, author)`,
	`CREATE INDEX IF NOT EXISTS idx_product_bugs_reporter ON product_bugs (bug_product, reporter)`,
	`CREATE INDEX IF NOT EXISTS idx_product_bugs_qa_contact ON product_bugs (bug_product, qa_contact)`,
}

// Migrate creates the tables used by the service when they do not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
