package bugzilla

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"robin/internal/config"

	"github.com/samber/lo"
)

const includeFields = "?include_fields=id%2Cproduct%2Ccomponent%2Cqa_contact%2Ccreator%2Cpriority" +
	"%2Ccreation_time%2Ccf_qa_whiteboard%2Cseverity%2Cstatus%2Cresolution%2Cplatform"

// Products are the Bugzilla products mirrored into the snapshots
var Products = []string{ProductRHEL8, ProductRHEL9, ProductAdvancedVirtualization}

// DefaultPlatforms are the platforms counted by the default snapshot
var DefaultPlatforms = []string{"Unspecified", "All", "x86_64", "ppc64", "ppc64le"}

// TrackedStatuses are the statuses fetched by the snapshot refresh
var TrackedStatuses = []string{"NEW", "ASSIGNED", "POST", "MODIFIED", "ON_QA", "VERIFIED", "CLOSED"}

// Bug is a bug as returned by the REST search
type Bug struct {
	ID           int64     `json:"id"`
	Product      string    `json:"product"`
	Component    string    `json:"component"`
	QAContact    string    `json:"qa_contact"`
	Creator      string    `json:"creator"`
	Priority     string    `json:"priority"`
	Severity     string    `json:"severity"`
	Status       string    `json:"status"`
	Resolution   string    `json:"resolution"`
	Platform     string    `json:"platform"`
	Whiteboard   string    `json:"cf_qa_whiteboard"`
	CreationTime time.Time `json:"creation_time"`
}

type searchResponse struct {
	Bugs []Bug `json:"bugs"`
}

// Client fetches bugs from the Bugzilla REST API
type Client struct {
	httpClient *http.Client
	restURL    string
	builder    *Builder
	cfg        config.BugzillaConfig
}

// NewClient creates a REST client sharing the search builder with the deep links
func NewClient(cfg config.BugzillaConfig, builder *Builder) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		restURL:    cfg.RESTURL,
		builder:    builder,
		cfg:        cfg,
	}
}

// FetchBugs returns the bugs reported or QA-contacted by contributors and created between
// start and end, each bug once. platforms restricts rep_platform.
func (c *Client) FetchBugs(ctx context.Context, start, end time.Time, contributors, platforms []string) ([]Bug, error) {
	search := c.builder.Search(start, end, contributors, map[string][]string{
		"bug_status":   TrackedStatuses,
		"product":      Products,
		"rep_platform": platforms,
	}, false, nil)

	reported, err := c.search(ctx, search.For(c.cfg.ReporterListID, RoleReporter))
	if err != nil {
		return nil, err
	}
	contacted, err := c.search(ctx, search.For(c.cfg.QAContactListID, RoleQAContact))
	if err != nil {
		return nil, err
	}

	return lo.UniqBy(append(reported, contacted...), func(b Bug) int64 { return b.ID }), nil
}

func (c *Client) search(ctx context.Context, s Search) ([]Bug, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL+includeFields+s.Query(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bugzilla request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search bugzilla: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bugzilla api returned status %d", resp.StatusCode)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode bugzilla response: %w", err)
	}
	if data.Bugs == nil {
		return nil, fmt.Errorf("bugzilla response has no bugs field")
	}

	return data.Bugs, nil
}
