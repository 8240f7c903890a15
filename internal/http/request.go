package http

import (
	"net/http"
	"strconv"
	"time"

	"robin/internal/members"
	"robin/internal/validation"
)

const maxLimit = 100

// kerberosIDList accepts one or more comma separated kerberos ids
const kerberosIDList = `^\s*[\w.\-]+(\s*,\s*[\w.\-]+)*\s*$`

// GetLimitOffset reads the pagination window, falling back to the configured defaults
func (h *Handler) GetLimitOffset(r *http.Request, v *validation.Validator) (int, int) {
	limit := r.URL.Query().Get("limit")
	offset := r.URL.Query().Get("offset")

	limitInt, err := strconv.Atoi(limit)
	if err != nil {
		limitInt = h.httpCfg.LIMIT
	}

	offsetInt, err := strconv.Atoi(offset)
	if err != nil {
		offsetInt = h.httpCfg.OFFSET
	}

	v.InRange("limit", limitInt, 1, maxLimit).
		GreaterThanOrEqual("offset", offsetInt, 0)

	return limitInt, offsetInt
}

// dateRange reads the required start_date and end_date parameters
func dateRange(r *http.Request, v *validation.Validator) (time.Time, time.Time) {
	q := r.URL.Query()
	var start, end time.Time
	v.Required("start_date", q.Get("start_date")).
		Date("start_date", q.Get("start_date"), &start).
		Required("end_date", q.Get("end_date")).
		Date("end_date", q.Get("end_date"), &end).
		DateOrder("start_date", start, "end_date", end)
	return start, end
}

// scopeRequest is the contributor selection shared by the patch, commit and bug endpoints
type scopeRequest struct {
	statsType members.StatsType
	teamCode  string
	rawIDs    string
}

func parseScope(r *http.Request, v *validation.Validator) scopeRequest {
	q := r.URL.Query()
	s := scopeRequest{
		teamCode: q.Get("team_code"),
		rawIDs:   q.Get("kerberos_id"),
	}

	raw := q.Get("stats_type")
	v.Required("stats_type", raw).
		OneOf("stats_type", raw, []string{"personal", "team", "1", "2"})
	if st, err := members.ParseStatsType(raw); err == nil {
		s.statsType = st
	}

	switch s.statsType {
	case members.Team:
		v.Required("team_code", s.teamCode).MaxLength("team_code", s.teamCode, 64)
	case members.Personal:
		v.Required("kerberos_id", s.rawIDs).
			Matches("kerberos_id", s.rawIDs, kerberosIDList, "kerberos_id must be a comma separated list of kerberos ids")
	}
	return s
}

// resolve returns the selected contributors and, for a team selection, the team code
func (h *Handler) resolve(r *http.Request, s scopeRequest) ([]string, string, error) {
	contributors, err := h.resolver.Resolve(r.Context(), s.statsType, s.teamCode, s.rawIDs)
	if err != nil {
		return nil, "", err
	}
	if s.statsType == members.Team {
		return contributors, s.teamCode, nil
	}
	return contributors, "", nil
}
