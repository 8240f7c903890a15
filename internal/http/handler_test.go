package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"robin/internal/bugstats"
	"robin/internal/config"
	"robin/internal/database"
	"robin/internal/members"
	"robin/internal/queue"
	"robin/internal/report"
	"robin/internal/results"
	"robin/internal/validation"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	published []queue.JobType
}

func (m *mockPublisher) PublishRefreshJob(ctx context.Context, jobType queue.JobType) error {
	m.published = append(m.published, jobType)
	return nil
}
func (m *mockPublisher) GetQueueLength(ctx context.Context) (int64, error) { return 2, nil }

type fakeReports struct {
	kind    report.PatchKind
	query   report.Query
	pending int64
	patches []*report.PatchRow
}

func (f *fakeReports) Patches(ctx context.Context, kind report.PatchKind, q report.Query) ([]*report.PatchRow, error) {
	f.kind, f.query = kind, q
	return f.patches, nil
}

func (f *fakeReports) Pending(ctx context.Context, repositoryID int64) ([]*report.PendingRow, error) {
	f.pending = repositoryID
	return []*report.PendingRow{}, nil
}

func (f *fakeReports) Commits(ctx context.Context, q report.Query) ([]*report.CommitRow, error) {
	f.query = q
	return []*report.CommitRow{}, nil
}

func (f *fakeReports) Comments(ctx context.Context, q report.Query) (*report.CommentSummary, error) {
	f.query = q
	return report.GroupComments(nil), nil
}

type fakeBugReports struct {
	params bugstats.ScopeParams
	rows   []*bugstats.Result
}

func (f *fakeBugReports) Organization(ctx context.Context) ([]*bugstats.Result, error) {
	return f.rows, nil
}

func (f *fakeBugReports) Scope(ctx context.Context, p bugstats.ScopeParams) ([]*bugstats.Result, error) {
	f.params = p
	return f.rows, nil
}

func (f *fakeBugReports) MultiArch(ctx context.Context, p bugstats.ScopeParams) ([]*bugstats.Result, error) {
	f.params = p
	return f.rows, nil
}

type testEnv struct {
	h       *Handler
	mock    pgxmock.PgxPoolIface
	reports *fakeReports
	bugs    *fakeBugReports
	results *results.MemoryStore
}

func newTestEnv(t *testing.T, publisher queue.IPublisher) *testEnv {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	db := database.NewTestDB(mock)
	env := &testEnv{
		mock:    mock,
		reports: &fakeReports{},
		bugs: &fakeBugReports{rows: []*bugstats.Result{
			{Name: "ALL", Metrics: map[bugstats.Bucket]*bugstats.Metrics{bugstats.BucketAll: {ValidReported: 2}}},
		}},
		results: results.NewMemoryStore(4),
	}
	env.h = NewHandler(config.HTTPConfig{LIMIT: 10, OFFSET: 0}, Services{
		Catalog:   db,
		Resolver:  members.NewResolver(db),
		Reports:   env.reports,
		Bugs:      env.bugs,
		Results:   env.results,
		Publisher: publisher,
	})
	return env
}

func (e *testEnv) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type pageBody struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
	ResultID string            `json:"result_id"`
}

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func fields(body errorBody) []string {
	var out []string
	for _, d := range body.Details {
		out = append(out, d.Field)
	}
	return out
}

func TestPing(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestListRepositoriesPagination(t *testing.T) {
	env := newTestEnv(t, nil)

	env.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM repositories`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	env.mock.ExpectQuery("FROM repositories").
		WithArgs(1, 1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner", "repo", "created_at"}).
			AddRow(int64(2), "autotest", "tp-qemu", time.Now()))

	rec := env.do(http.MethodGet, "/api/v1/repositories?limit=1&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[pageBody](t, rec)
	assert.Equal(t, 3, body.Count)
	require.Len(t, body.Results, 1)
	assert.Contains(t, string(body.Results[0]), `"repo":"tp-qemu"`)
	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "offset=2")
	require.NotNil(t, body.Previous)
	assert.Contains(t, *body.Previous, "offset=0")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestListRepositoriesInvalidLimit(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/repositories?limit=0")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errorBody](t, rec)
	assert.Equal(t, CodeInvalidRequestData, body.Code)
	assert.Equal(t, []string{"limit"}, fields(body))
}

func TestMethodNotSupported(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/api/v1/teams", "/api/v1/bugs/team", "/api/v1/patches/opened"} {
		rec := env.do(http.MethodPost, target)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, target)
		assert.Equal(t, CodeMethodNotSupported, decode[errorBody](t, rec).Code, target)
	}
}

func TestListMembersOfUnknownTeam(t *testing.T) {
	env := newTestEnv(t, nil)

	env.mock.ExpectQuery("FROM teams").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	rec := env.do(http.MethodGet, "/api/v1/members?team_code=nope")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errorBody](t, rec)
	assert.Equal(t, CodeNotFound, body.Code)
	assert.Equal(t, `team "nope" not found`, body.Error)
	assert.Equal(t, []string{"team_code"}, fields(body))
	assert.Equal(t, `team "nope" not found`, body.Details[0].Message)
}

func TestListMembersOfTeam(t *testing.T) {
	env := newTestEnv(t, nil)
	now := time.Now()

	env.mock.ExpectQuery("FROM teams").
		WithArgs("kvm").
		WillReturnRows(pgxmock.NewRows([]string{"id", "team_name", "team_code", "created_at", "updated_at"}).
			AddRow(int64(3), "KVM", "kvm", now, now))
	env.mock.ExpectQuery("FROM members").
		WithArgs(int64(3), true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "kerberos_id", "email", "github_account", "serving", "multi_arch_type", "team_id", "created_at", "updated_at"}).
			AddRow(int64(1), "Alice", "alice", "alice@redhat.com", "alice-gh", true, 0, int64(3), now, now))

	rec := env.do(http.MethodGet, "/api/v1/members?team_code=kvm")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[pageBody](t, rec)
	assert.Equal(t, 1, body.Count)
	assert.JSONEq(t, `{"name":"Alice","kerberos_id":"alice","github_account":"alice-gh"}`, string(body.Results[0]))
}

func TestListPatchesPersonal(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/patches/updated?repository_id=1,2&start_date=2024-01-01&end_date=2024-01-31&stats_type=personal&kerberos_id=alice,%20bob")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, report.Updated, env.reports.kind)
	assert.Equal(t, []int64{1, 2}, env.reports.query.RepositoryIDs)
	assert.Equal(t, []string{"alice", "bob"}, env.reports.query.Contributors)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), env.reports.query.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), env.reports.query.End)

	body := decode[pageBody](t, rec)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Results)
}

func TestListPatchesValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		query  string
		fields []string
	}{
		{"missing everything", "", []string{"repository_id", "start_date", "end_date", "stats_type"}},
		{"unsupported stats type", "repository_id=1&start_date=2024-01-01&end_date=2024-01-02&stats_type=3", []string{"stats_type"}},
		{"team without code", "repository_id=1&start_date=2024-01-01&end_date=2024-01-02&stats_type=team", []string{"team_code"}},
		{"bad date", "repository_id=1&start_date=2024-13-01&end_date=2024-01-02&stats_type=personal&kerberos_id=a", []string{"start_date"}},
		{"reversed range", "repository_id=1&start_date=2024-02-01&end_date=2024-01-02&stats_type=personal&kerberos_id=a", []string{"end_date"}},
		{"bad repository list", "repository_id=1,x&start_date=2024-01-01&end_date=2024-01-02&stats_type=personal&kerberos_id=a", []string{"repository_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/v1/patches/opened?"+tt.query)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode[errorBody](t, rec)
			assert.Equal(t, CodeInvalidRequestData, body.Code)
			for _, f := range tt.fields {
				assert.Contains(t, fields(body), f)
			}
		})
	}
}

func TestListCommitsSingleRepository(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/commits?repository_id=1,2&start_date=2024-01-01&end_date=2024-01-31&stats_type=1&kerberos_id=alice")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/commits?repository_id=7&start_date=2024-01-01&end_date=2024-01-31&stats_type=1&kerberos_id=alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, env.reports.query.RepositoryIDs)
}

func TestListPendingPatches(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/patches/pending?repository_id=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), env.reports.pending)
}

func TestCommentStats(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/comments?repository_id=1&start_date=2024-01-01&end_date=2024-01-31&kerberos_id=alice,bob")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[pageBody](t, rec)
	assert.Equal(t, 1, body.Count)
	assert.Contains(t, string(body.Results[0]), `"patch_count":0`)
	assert.Equal(t, []string{"alice", "bob"}, env.reports.query.Contributors)
}

func TestTeamBugStatusForTeam(t *testing.T) {
	env := newTestEnv(t, nil)
	now := time.Now()

	env.mock.ExpectQuery("FROM teams").
		WithArgs("kvm").
		WillReturnRows(pgxmock.NewRows([]string{"id", "team_name", "team_code", "created_at", "updated_at"}).
			AddRow(int64(3), "KVM", "kvm", now, now))
	env.mock.ExpectQuery("FROM members").
		WithArgs(int64(3), false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "kerberos_id", "email", "github_account", "serving", "multi_arch_type", "team_id", "created_at", "updated_at"}).
			AddRow(int64(1), "Alice", "alice", "alice@redhat.com", "alice-gh", true, 0, int64(3), now, now).
			AddRow(int64(2), "Bob", "bob", "bob@redhat.com", "bob-gh", false, 0, int64(3), now, now))

	rec := env.do(http.MethodGet, "/api/v1/bugs/team?start_date=2024-01-01&end_date=2024-03-31&stats_type=team&team_code=kvm&per_member=true")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []string{"alice", "bob"}, env.bugs.params.Contributors)
	assert.Equal(t, "kvm", env.bugs.params.TeamCode)
	assert.True(t, env.bugs.params.PerMember)

	body := decode[pageBody](t, rec)
	assert.NotEmpty(t, body.ResultID)

	saved, err := env.results.Get(context.Background(), body.ResultID)
	require.NoError(t, err)
	assert.Equal(t, results.KindScope, saved.Kind)
}

func TestMultiArchBugStatusPersonal(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/bugs/multi-arch?start_date=2024-01-01&end_date=2024-03-31&stats_type=personal&kerberos_id=alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"alice"}, env.bugs.params.Contributors)
	assert.Empty(t, env.bugs.params.TeamCode)
	assert.False(t, env.bugs.params.PerMember)
}

func TestExportBugStatus(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/bugs")
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[pageBody](t, rec).ResultID
	require.NotEmpty(t, id)

	for _, target := range []string{"/api/v1/bugs/export?result_id=" + id, "/api/v1/bugs/export"} {
		rec = env.do(http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment; filename="))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
	}
}

func TestExportBugStatusNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/v1/bugs/export")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, CodeNotFound, body.Code)
	assert.Equal(t, []string{"result_id"}, fields(body))

	rec = env.do(http.MethodGet, "/api/v1/bugs/export?result_id=00000000-0000-0000-0000-000000000000")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode[errorBody](t, rec)
	assert.Equal(t, CodeNotFound, body.Code)
	assert.Equal(t, []string{"result_id"}, fields(body))
	assert.Equal(t, `result "00000000-0000-0000-0000-000000000000" not found`, body.Details[0].Message)

	rec = env.do(http.MethodGet, "/api/v1/bugs/export?result_id=latest")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequestData, decode[errorBody](t, rec).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(http.MethodGet, "/ping")
	env.do(http.MethodGet, "/api/v1/bugs")

	rec := env.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `robin_http_requests_total{method="GET",route="/ping",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `robin_bug_summaries_total{kind="organization"} 1`)
}

func TestGetQueueLength(t *testing.T) {
	rec := newTestEnv(t, nil).do(http.MethodGet, "/api/v1/queue/length")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = newTestEnv(t, &mockPublisher{}).do(http.MethodGet, "/api/v1/queue/length")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue_length":2}`, rec.Body.String())
}

func TestPaginate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bugs?limit=2", nil)

	page := Paginate(req, []int{1, 2, 3}, 2, 2)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, []int{3}, page.Results)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/api/v1/bugs?limit=2&offset=0", *page.Previous)

	page = Paginate(req, []int{1}, 2, 5)
	assert.Equal(t, []int{}, page.Results)
}

func TestErrorDatabaseNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, validation.ParseDatabaseError(fmt.Errorf("repository %w", database.ErrNotFound)), http.StatusInternalServerError)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[errorBody](t, rec)
	assert.Equal(t, CodeNotFound, body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, body.Error, body.Details[0].Message)
}
