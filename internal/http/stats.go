package http

import (
	"net/http"

	"robin/internal/members"
	"robin/internal/report"
	"robin/internal/validation"
)

// ListPatches handles GET /api/v1/patches/{opened,closed,updated}
func (h *Handler) ListPatches(kind report.PatchKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, limit, offset, ok := h.reportQuery(w, r, false)
		if !ok {
			return
		}

		rows, err := h.reports.Patches(r.Context(), kind, q)
		if err != nil {
			Error(w, err, http.StatusInternalServerError)
			return
		}

		JSON(w, http.StatusOK, Paginate(r, rows, limit, offset))
	}
}

// ListCommits handles GET /api/v1/commits
func (h *Handler) ListCommits(w http.ResponseWriter, r *http.Request) {
	q, limit, offset, ok := h.reportQuery(w, r, true)
	if !ok {
		return
	}

	rows, err := h.reports.Commits(r.Context(), q)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, Paginate(r, rows, limit, offset))
}

// ListPendingPatches handles GET /api/v1/patches/pending
func (h *Handler) ListPendingPatches(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("repository_id")

	var repositoryID int64
	v := validation.New()
	v.Required("repository_id", raw).ID("repository_id", raw, &repositoryID)
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	rows, err := h.reports.Pending(r.Context(), repositoryID)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, Paginate(r, rows, limit, offset))
}

// CommentStats handles GET /api/v1/comments
func (h *Handler) CommentStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var q report.Query
	v := validation.New()
	v.Required("repository_id", query.Get("repository_id")).
		IDList("repository_id", query.Get("repository_id"), &q.RepositoryIDs).
		Required("kerberos_id", query.Get("kerberos_id")).
		Matches("kerberos_id", query.Get("kerberos_id"), kerberosIDList, "kerberos_id must be a comma separated list of kerberos ids")
	q.Start, q.End = dateRange(r, v)
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}
	q.Contributors = members.SplitCSV(query.Get("kerberos_id"))

	summary, err := h.reports.Comments(r.Context(), q)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, Paginate(r, []*report.CommentSummary{summary}, limit, offset))
}

// reportQuery validates the parameters shared by the patch and commit lists. Patches take a
// repository id list, commits a single id.
func (h *Handler) reportQuery(w http.ResponseWriter, r *http.Request, single bool) (report.Query, int, int, bool) {
	raw := r.URL.Query().Get("repository_id")

	var q report.Query
	v := validation.New()
	v.Required("repository_id", raw)
	if single {
		var id int64
		v.ID("repository_id", raw, &id)
		if id > 0 {
			q.RepositoryIDs = []int64{id}
		}
	} else {
		v.IDList("repository_id", raw, &q.RepositoryIDs)
	}
	q.Start, q.End = dateRange(r, v)
	scope := parseScope(r, v)
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return q, 0, 0, false
	}

	contributors, _, err := h.resolve(r, scope)
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return q, 0, 0, false
	}
	q.Contributors = contributors
	return q, limit, offset, true
}
