package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"robin/internal/database"
	"robin/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	repos    map[int64]*database.Repository
	pulls    []*database.Pull
	pending  []*database.PendingPull
	commits  map[string][]*database.Commit
	comments []*database.Comment
	calls    []string
}

func (f *fakeStore) GetRepository(_ context.Context, id int64) (*database.Repository, error) {
	if r, ok := f.repos[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("repository %w", database.ErrNotFound)
}

func (f *fakeStore) listPulls(kind string, repositoryID int64, author string, from, before time.Time) []*database.Pull {
	f.calls = append(f.calls, fmt.Sprintf("%s:%d:%s:%s:%s", kind, repositoryID, author, from.Format(time.DateOnly), before.Format(time.DateOnly)))
	var out []*database.Pull
	for _, p := range f.pulls {
		if p.RepositoryID == repositoryID && p.Author == author {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeStore) ListOpenedPulls(_ context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Pull, error) {
	return f.listPulls("opened", repositoryID, author, from, before), nil
}

func (f *fakeStore) ListClosedPulls(_ context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Pull, error) {
	return f.listPulls("closed", repositoryID, author, from, before), nil
}

func (f *fakeStore) ListUpdatedPulls(_ context.Context, repositoryID int64, author string, from, before time.Time) ([]*database.Pull, error) {
	return f.listPulls("updated", repositoryID, author, from, before), nil
}

func (f *fakeStore) ListPendingPulls(context.Context, int64) ([]*database.PendingPull, error) {
	return f.pending, nil
}

func (f *fakeStore) ListCommits(_ context.Context, _ int64, email string, _, _ time.Time) ([]*database.Commit, error) {
	return f.commits[email], nil
}

func (f *fakeStore) ListReviewComments(_ context.Context, _ int64, author string, _, _ time.Time) ([]*database.Comment, error) {
	var out []*database.Comment
	for _, c := range f.comments {
		if c.Author == author {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMembers struct {
	members []*database.Member
}

func (f *fakeMembers) Member(_ context.Context, id string) (*database.Member, error) {
	for _, m := range f.members {
		if m.KerberosID == id {
			return m, nil
		}
	}
	return nil, &validation.NotFoundError{Resource: "member", Key: id, Field: "kerberos_id"}
}

func (f *fakeMembers) KerberosIDForGitHub(_ context.Context, account string) (string, error) {
	if account == database.NullAlias {
		return account, nil
	}
	for _, m := range f.members {
		if m.GitHubAccount == account {
			return m.KerberosID, nil
		}
	}
	return account, nil
}

func newFixtures() (*fakeStore, *fakeMembers) {
	store := &fakeStore{
		repos: map[int64]*database.Repository{
			1: {ID: 1, Owner: "autotest", Repo: "tp-qemu"},
			2: {ID: 2, Owner: "avocado-framework", Repo: "avocado-vt"},
		},
		commits: map[string][]*database.Commit{},
	}
	members := &fakeMembers{members: []*database.Member{
		{KerberosID: "alice", GitHubAccount: "alice-gh", Email: "alice@redhat.com"},
		{KerberosID: "bob", GitHubAccount: "bob-gh", Email: "bob@redhat.com"},
	}}
	return store, members
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPatchURL(t *testing.T) {
	assert.Equal(t, "https://github.com/autotest/tp-qemu/pull/42", PatchURL("autotest", "tp-qemu", 42))
}

func TestPatchesOpened(t *testing.T) {
	store, members := newFixtures()
	store.pulls = []*database.Pull{
		{RepositoryID: 1, Number: 10, Author: "alice-gh", MergedBy: "bob-gh", Merged: true, CreatedAt: day("2024-03-02")},
		{RepositoryID: 2, Number: 11, Author: "alice-gh", MergedBy: database.NullAlias, CreatedAt: day("2024-03-03")},
		{RepositoryID: 1, Number: 12, Author: "bob-gh", MergedBy: "upstream-dev", Merged: true, CreatedAt: day("2024-03-04")},
	}

	a := NewAssembler(store, members)
	rows, err := a.Patches(context.Background(), Opened, Query{
		RepositoryIDs: []int64{1, 2},
		Contributors:  []string{"alice", "bob"},
		Start:         day("2024-03-01"),
		End:           day("2024-03-31"),
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "bob", rows[0].MergedBy)
	assert.Equal(t, "upstream-dev", rows[1].MergedBy)
	assert.Equal(t, "null", rows[2].MergedBy)
	assert.Equal(t, "alice", rows[0].Author)
	assert.Equal(t, "https://github.com/avocado-framework/avocado-vt/pull/11", rows[2].PatchURL)
	assert.Equal(t, "opened:1:alice-gh:2024-03-01:2024-04-01", store.calls[0])
}

func TestPatchesUpdatedSkipsMergeOnlyUpdates(t *testing.T) {
	store, members := newFixtures()
	closed := day("2024-03-05")
	store.pulls = []*database.Pull{
		{RepositoryID: 1, Number: 1, Author: "alice-gh", CreatedAt: day("2024-03-01"), UpdatedAt: day("2024-03-02")},
		{RepositoryID: 1, Number: 2, Author: "alice-gh", Merged: true, CreatedAt: day("2024-03-01"), UpdatedAt: day("2024-03-06"), ClosedAt: &closed},
		{RepositoryID: 1, Number: 3, Author: "alice-gh", Merged: true, CreatedAt: day("2024-03-01"), UpdatedAt: day("2024-03-05"), ClosedAt: &closed},
		{RepositoryID: 1, Number: 4, Author: "alice-gh", CreatedAt: day("2024-03-01"), UpdatedAt: day("2024-03-01")},
	}

	rows, err := NewAssembler(store, members).Patches(context.Background(), Updated, Query{
		RepositoryIDs: []int64{1},
		Contributors:  []string{"alice"},
		Start:         day("2024-03-01"),
		End:           day("2024-03-31"),
	})
	require.NoError(t, err)

	numbers := []int{}
	for _, r := range rows {
		numbers = append(numbers, r.PatchNumber)
	}
	assert.Equal(t, []int{1, 3}, numbers)
}

func TestPatchesUnknownRepositoryAndMember(t *testing.T) {
	store, members := newFixtures()
	a := NewAssembler(store, members)

	_, err := a.Patches(context.Background(), Closed, Query{RepositoryIDs: []int64{9}, Contributors: []string{"alice"}})
	var nf *validation.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "repository", nf.Resource)

	_, err = a.Patches(context.Background(), Closed, Query{RepositoryIDs: []int64{1}, Contributors: []string{"ghost"}})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "member", nf.Resource)

	_, err = a.Patches(context.Background(), PatchKind("merged"), Query{})
	assert.Error(t, err)
}

func TestPending(t *testing.T) {
	store, members := newFixtures()
	store.pending = []*database.PendingPull{{
		Pull:           database.Pull{Number: 7, Title: "Add case", CreatedAt: day("2024-03-01"), UpdatedAt: day("2024-03-08")},
		KerberosID:     "alice",
		TeamName:       "KVM",
		ReviewComments: 4,
	}}

	a := NewAssembler(store, members)
	a.now = func() time.Time { return day("2024-03-11").Add(5 * time.Hour) }

	rows, err := a.Pending(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].TotalPending)
	assert.Equal(t, 3, rows[0].LastUpdated)
	assert.Equal(t, 4, rows[0].Reviews)
	assert.Equal(t, "KVM", rows[0].Team)
}

func TestCommits(t *testing.T) {
	store, members := newFixtures()
	pull := 4021
	store.commits["alice@redhat.com"] = []*database.Commit{
		{SHA: "0123456789abcdef0123456789abcdef01234567", Message: "fix", Date: day("2024-03-02"), PullNumber: &pull},
	}

	a := NewAssembler(store, members)
	rows, err := a.Commits(context.Background(), Query{RepositoryIDs: []int64{1}, Contributors: []string{"alice", "bob"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "01234567", rows[0].SHA)
	assert.Equal(t, "alice", rows[0].Author)
	assert.Equal(t, 4021, *rows[0].PatchNumber)

	_, err = a.Commits(context.Background(), Query{RepositoryIDs: []int64{1, 2}})
	assert.Error(t, err)
}

func TestCommentsGrouping(t *testing.T) {
	store, members := newFixtures()
	store.comments = []*database.Comment{
		{ID: 1, Author: "alice-gh", PullNumber: 10, PullAuthor: "bob-gh"},
		{ID: 2, Author: "alice-gh", PullNumber: 10, PullAuthor: "bob-gh"},
		{ID: 3, Author: "alice-gh", PullNumber: 11, PullAuthor: "carol-gh"},
		{ID: 4, Author: "alice-gh", PullNumber: 12, PullAuthor: "alice-gh"},
	}

	summary, err := NewAssembler(store, members).Comments(context.Background(), Query{
		RepositoryIDs: []int64{1},
		Contributors:  []string{"alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PatchCount)
	assert.Equal(t, 3, summary.ReviewCount)
	require.Len(t, summary.Data, 2)
	assert.Len(t, summary.Data[0], 2)
	assert.Equal(t, "https://github.com/autotest/tp-qemu/pull/11", summary.Data[1][0].PatchURL)
}

func TestGroupCommentsEmpty(t *testing.T) {
	summary := GroupComments(nil)
	assert.Zero(t, summary.PatchCount)
	assert.Zero(t, summary.ReviewCount)
	assert.NotNil(t, summary.Data)
}
