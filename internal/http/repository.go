package http

import (
	"net/http"

	"robin/internal/database"
	"robin/internal/validation"

	"github.com/samber/lo"
)

// MemberResponse is a serving member as listed by the members endpoint
type MemberResponse struct {
	Name          string `json:"name"`
	KerberosID    string `json:"kerberos_id"`
	GitHubAccount string `json:"github_account"`
}

// ListRepositories handles GET /api/v1/repositories
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	v := validation.New()
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	count, err := h.catalog.CountRepositories(ctx)
	if err != nil {
		Error(w, validation.ParseDatabaseError(err), http.StatusInternalServerError)
		return
	}

	repos, err := h.catalog.ListRepositories(ctx, limit, offset)
	if err != nil {
		Error(w, validation.ParseDatabaseError(err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, NewPage(r, count, limit, offset, repos))
}

// ListTeams handles GET /api/v1/teams
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	v := validation.New()
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	count, err := h.catalog.CountTeams(ctx)
	if err != nil {
		Error(w, validation.ParseDatabaseError(err), http.StatusInternalServerError)
		return
	}

	teams, err := h.catalog.ListTeams(ctx, limit, offset)
	if err != nil {
		Error(w, validation.ParseDatabaseError(err), http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, NewPage(r, count, limit, offset, teams))
}

// ListMembers handles GET /api/v1/members. Without team_code every serving member is listed.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	teamCode := r.URL.Query().Get("team_code")

	v := validation.New()
	v.MaxLength("team_code", teamCode, 64)
	limit, offset := h.GetLimitOffset(r, v)
	if err := v.Validate(); err != nil {
		Error(w, err, http.StatusBadRequest)
		return
	}

	var (
		list []*database.Member
		err  error
	)
	if teamCode == "" {
		list, err = h.catalog.ListServingMembers(r.Context())
	} else {
		list, err = h.resolver.TeamMembers(r.Context(), teamCode, true)
	}
	if err != nil {
		Error(w, err, http.StatusInternalServerError)
		return
	}

	rows := lo.Map(list, func(m *database.Member, _ int) MemberResponse {
		return MemberResponse{Name: m.Name, KerberosID: m.KerberosID, GitHubAccount: m.GitHubAccount}
	})
	JSON(w, http.StatusOK, Paginate(r, rows, limit, offset))
}
