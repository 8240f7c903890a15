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

func TestGetRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := NewTestDB(mock)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, owner, repo, created_at").
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner", "repo", "created_at"}).
			AddRow(int64(10), "virt-qe", "tp-qemu", time.Now()))

	repo, err := db.GetRepository(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), repo.ID)
	assert.Equal(t, "tp-qemu", repo.Repo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRepositoryNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := NewTestDB(mock)

	mock.ExpectQuery("SELECT id, owner, repo, created_at").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err = db.GetRepository(context.Background(), 99)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepositories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	db := NewTestDB(mock)
	now := time.Now()

	mock.ExpectQuery("FROM repositories").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner", "repo", "created_at"}).
			AddRow(int64(1), "autotest", "tp-qemu", now).
			AddRow(int64(2), "avocado-framework", "avocado-vt", now))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	repos, err := db.ListRepositories(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "avocado-vt", repos[1].Repo)

	count, err := db.CountRepositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
