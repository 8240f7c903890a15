package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"robin/internal/bugstats"
	"robin/internal/export"
	"robin/internal/results"
	"robin/internal/validation"
)

// BugStatus handles GET /api/v1/bugs: the current year for the organization and each team
func (h *Handler) BugStatus(w http.ResponseWriter, r *http.Request) {
	v := validation.New()
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	rows, err := h.bugs.Organization(r.Context())
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}
	h.respondSummary(w, r, results.KindOrganization, rows, limit, offset)
}

// TeamBugStatus handles GET /api/v1/bugs/team
func (h *Handler) TeamBugStatus(w http.ResponseWriter, r *http.Request) {
	h.scopedBugStatus(w, r, results.KindScope, h.bugs.Scope)
}

// MultiArchBugStatus handles GET /api/v1/bugs/multi-arch
func (h *Handler) MultiArchBugStatus(w http.ResponseWriter, r *http.Request) {
	h.scopedBugStatus(w, r, results.KindMultiArch, h.bugs.MultiArch)
}

type bugReport func(ctx context.Context, p bugstats.ScopeParams) ([]*bugstats.Result, error)

func (h *Handler) scopedBugStatus(w http.ResponseWriter, r *http.Request, kind results.Kind, run bugReport) {
	var p bugstats.ScopeParams
	v := validation.New()
	p.Start, p.End = dateRange(r, v)
	scope := parseScope(r, v)
	v.Bool("per_member", r.URL.Query().Get("per_member"), &p.PerMember)
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	contributors, teamCode, err := h.resolve(r, scope)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}
	p.Contributors = contributors
	p.TeamCode = teamCode

	rows, err := run(r.Context(), p)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}
	h.respondSummary(w, r, kind, rows, limit, offset)
}

// respondSummary saves the rows for a later export and writes one page of them
func (h *Handler) respondSummary(w http.ResponseWriter, r *http.Request, kind results.Kind, rows []*bugstats.Result, limit, offset int) {
	h.metrics.observeSummary(string(kind))

	page := Paginate(r, rows, limit, offset)
	id, err := h.results.Save(r.Context(), &results.Summary{Kind: kind, Rows: rows})
	if err != nil {
		slog.Error("failed to save bug summary", "kind", kind, "error", err)
	} else {
		page.ResultID = id
	}
	JSON(w, http.StatusOK, page)
}

// ExportBugStatus handles GET /api/v1/bugs/export. Without result_id the latest summary
// saved by any request is exported.
func (h *Handler) ExportBugStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("result_id")

	v := validation.New()
	v.Matches("result_id", id, `^[0-9a-fA-F-]{36}$`, "result_id must be a result id returned by a bug status request")
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	var (
		summary *results.Summary
		err     error
	)
	if id == "" {
		summary, err = h.results.Latest(r.Context())
		id = "latest"
	} else {
		summary, err = h.results.Get(r.Context(), id)
	}
	if errors.Is(err, results.ErrNotFound) {
		Error(w, &validation.NotFoundError{Resource: "result", Key: id, Field: "result_id"}, http.StatusBadRequest)
		return
	}
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	data, err := export.Workbook(summary.Rows)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("bug-status-%s.xlsx", summary.CreatedAt.UTC().Format(time.DateOnly))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetQueueLength handles GET /api/v1/queue/length
func (h *Handler) GetQueueLength(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		Error(w, fmt.Errorf("job queue is not configured"), http.StatusServiceUnavailable)
		return
	}

	length, err := h.publisher.GetQueueLength(r.Context())
	if err != nil {
		Error(w, fmt.Errorf("failed to get queue length: %w", err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"queue_length": length,
	})
}
