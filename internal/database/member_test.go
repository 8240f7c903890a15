package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberRowColumns = []string{"id", "name", "kerberos_id", "email", "github_account", "serving", "multi_arch_type", "team_id", "created_at", "updated_at"}

func TestGetTeamByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := NewTestDB(mock)
	now := time.Now()

	mock.ExpectQuery("FROM teams").
		WithArgs("kvm").
		WillReturnRows(pgxmock.NewRows([]string{"id", "team_name", "team_code", "created_at", "updated_at"}).
			AddRow(int64(3), "KVM", "kvm", now, now))

	team, err := db.GetTeamByCode(context.Background(), "kvm")
	require.NoError(t, err)
	assert.Equal(t, int64(3), team.ID)
	assert.Equal(t, "KVM", team.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTeamByCodeNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := NewTestDB(mock)

	mock.ExpectQuery("FROM teams").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err = db.GetTeamByCode(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListTeamMembers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := NewTestDB(mock)
	now := time.Now()

	mock.ExpectQuery("FROM members").
		WithArgs(int64(3), true).
		WillReturnRows(pgxmock.NewRows(memberRowColumns).
			AddRow(int64(1), "Alice", "alice", "alice@redhat.com", "alice-gh", true, 0, int64(3), now, now).
			AddRow(int64(2), "Bob", "bob", "bob@redhat.com", "bob-gh", true, 1, int64(3), now, now))

	members, err := db.ListTeamMembers(context.Background(), 3, true)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "bob", members[1].KerberosID)
	assert.Equal(t, 1, members[1].MultiArchType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMemberByGitHubAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := NewTestDB(mock)
	now := time.Now()

	mock.ExpectQuery("WHERE github_account = \\$1").
		WithArgs("alice-gh").
		WillReturnRows(pgxmock.NewRows(memberRowColumns).
			AddRow(int64(1), "Alice", "alice", "alice@redhat.com", "alice-gh", true, 0, int64(3), now, now))
	mock.ExpectQuery("WHERE github_account = \\$1").
		WithArgs("upstream-dev").
		WillReturnError(pgx.ErrNoRows)

	m, err := db.GetMemberByGitHubAccount(context.Background(), "alice-gh")
	require.NoError(t, err)
	assert.Equal(t, "alice", m.KerberosID)

	_, err = db.GetMemberByGitHubAccount(context.Background(), "upstream-dev")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
