package http

import (
	"context"
	"net/http"

	"robin/internal/bugstats"
	"robin/internal/config"
	"robin/internal/database"
	"robin/internal/members"
	"robin/internal/queue"
	"robin/internal/report"
	"robin/internal/results"

	"github.com/go-chi/chi/v5"
)

// Catalog lists the tracked repositories, teams and members
type Catalog interface {
	ListRepositories(ctx context.Context, limit, offset int) ([]*database.Repository, error)
	CountRepositories(ctx context.Context) (int, error)
	ListTeams(ctx context.Context, limit, offset int) ([]*database.Team, error)
	CountTeams(ctx context.Context) (int, error)
	ListServingMembers(ctx context.Context) ([]*database.Member, error)
}

// Resolver selects the contributors of a request
type Resolver interface {
	Resolve(ctx context.Context, statsType members.StatsType, teamCode, rawCSV string) ([]string, error)
	TeamMembers(ctx context.Context, code string, servingOnly bool) ([]*database.Member, error)
}

// Reports assembles pull request, commit and comment lists
type Reports interface {
	Patches(ctx context.Context, kind report.PatchKind, q report.Query) ([]*report.PatchRow, error)
	Pending(ctx context.Context, repositoryID int64) ([]*report.PendingRow, error)
	Commits(ctx context.Context, q report.Query) ([]*report.CommitRow, error)
	Comments(ctx context.Context, q report.Query) (*report.CommentSummary, error)
}

// BugReports computes bug status summaries
type BugReports interface {
	Organization(ctx context.Context) ([]*bugstats.Result, error)
	Scope(ctx context.Context, p bugstats.ScopeParams) ([]*bugstats.Result, error)
	MultiArch(ctx context.Context, p bugstats.ScopeParams) ([]*bugstats.Result, error)
}

// Services are the dependencies of the API handlers
type Services struct {
	Catalog  Catalog
	Resolver Resolver
	Reports  Reports
	Bugs     BugReports
	Results  results.Store
	// Publisher is nil when no job queue is configured
	Publisher queue.IPublisher
}

type Handler struct {
	router  chi.Router
	handler http.Handler
	httpCfg config.HTTPConfig
	metrics *Metrics

	catalog   Catalog
	resolver  Resolver
	reports   Reports
	bugs      BugReports
	results   results.Store
	publisher queue.IPublisher
}

func NewHandler(cfg config.HTTPConfig, svc Services) *Handler {
	h := &Handler{
		router:    chi.NewRouter(),
		httpCfg:   cfg,
		metrics:   NewMetrics(),
		catalog:   svc.Catalog,
		resolver:  svc.Resolver,
		reports:   svc.Reports,
		bugs:      svc.Bugs,
		results:   svc.Results,
		publisher: svc.Publisher,
	}
	h.registerRoutes()
	h.handler = CORS(h.router)
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Use(h.Logger)
	h.router.MethodNotAllowed(h.MethodNotAllowed)

	// Health check
	h.router.Get("/ping", h.Ping)
	h.router.Handle("/metrics", h.metrics.Handler())

	// API routes
	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/repositories", h.ListRepositories)
		r.Get("/teams", h.ListTeams)
		r.Get("/members", h.ListMembers)

		r.Route("/patches", func(r chi.Router) {
			r.Get("/opened", h.ListPatches(report.Opened))
			r.Get("/closed", h.ListPatches(report.Closed))
			r.Get("/updated", h.ListPatches(report.Updated))
			r.Get("/pending", h.ListPendingPatches)
		})
		r.Get("/commits", h.ListCommits)
		r.Get("/comments", h.CommentStats)

		r.Route("/bugs", func(r chi.Router) {
			r.Get("/", h.BugStatus)
			r.Get("/team", h.TeamBugStatus)
			r.Get("/multi-arch", h.MultiArchBugStatus)
			r.Get("/export", h.ExportBugStatus)
		})

		r.Get("/queue/length", h.GetQueueLength)
	})
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"message": "pong",
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}
