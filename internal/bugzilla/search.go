package bugzilla

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"robin/internal/config"

	"github.com/samber/lo"
)

// Role is the bug field a contributor set is matched against
type Role string

const (
	RoleReporter  Role = "reporter"
	RoleQAContact Role = "qa_contact"
)

const (
	dateLayout        = "2006-01-02"
	acceptanceMarker  = "acceptance"
	whiteboardField   = "cf_qa_whiteboard"
	creationDateField = "[Bug creation]"
)

var highValues = []string{"high", "urgent"}

// Builder produces Bugzilla buglist searches that reproduce locally computed counts
type Builder struct {
	searchURL  string
	apiKey     string
	keywords   []string
	components []string
}

// NewBuilder creates a builder from the Bugzilla configuration
func NewBuilder(cfg config.BugzillaConfig) *Builder {
	return &Builder{
		searchURL:  cfg.SearchURL,
		apiKey:     cfg.APIKey,
		keywords:   config.GetExcludedKeywords(),
		components: cfg.Components,
	}
}

// Search is a structured buglist query. List id and role are filled in per invocation with For,
// the high/above group is switched with High; neither requires rebuilding the rest.
type Search struct {
	base              string
	apiKey            string
	listID            string
	role              Role
	keywords          []string
	contributors      []string
	excludeAcceptance bool
	desiredTerms      []string
	high              bool
	from              time.Time
	to                time.Time
	fields            map[string][]string
}

// Search creates a query for bugs created between start and end, both inclusive.
// extra adds field filters such as rep_platform, bug_status or resolution to the component list.
func (b *Builder) Search(start, end time.Time, contributors []string, extra map[string][]string, excludeAcceptance bool, desiredTerms []string) Search {
	fields := map[string][]string{"component": slices.Clone(b.components)}
	for k, v := range extra {
		fields[k] = slices.Clone(v)
	}

	return Search{
		base:              b.searchURL,
		apiKey:            b.apiKey,
		keywords:          b.keywords,
		contributors:      slices.Clone(contributors),
		excludeAcceptance: excludeAcceptance,
		desiredTerms:      slices.Clone(desiredTerms),
		from:              start,
		to:                end.AddDate(0, 0, 1),
		fields:            fields,
	}
}

// For returns a copy of s bound to a saved list and a role
func (s Search) For(listID string, role Role) Search {
	s.listID = listID
	s.role = role
	return s
}

// High returns a copy of s with the high/above group included or omitted
func (s Search) High(high bool) Search {
	s.high = high
	return s
}

// Query serializes the search into its query string fragments
func (s Search) Query() string {
	var sb strings.Builder

	sb.WriteString("&classification=" + escape("Red Hat"))
	sb.WriteString("&list_id=" + escape(s.listID))
	sb.WriteString("&query_format=advanced")

	n := 0
	chart := func(field, op string, values ...string) {
		n++
		fmt.Fprintf(&sb, "&f%d=%s&o%d=%s", n, field, n, op)
		if len(values) > 0 {
			fmt.Fprintf(&sb, "&v%d=%s", n, escape(strings.Join(values, ",")))
		}
	}

	chart("keywords", "nowordssubstr", s.keywords...)
	chart(string(s.role), "anywordssubstr", s.contributors...)
	if s.excludeAcceptance {
		chart(whiteboardField, "notsubstring", acceptanceMarker)
	}
	if len(s.desiredTerms) > 0 {
		chart(whiteboardField, "anywordssubstr", s.desiredTerms...)
	}
	if s.high {
		n++
		fmt.Fprintf(&sb, "&f%d=OP&j%d=OR", n, n)
		chart("priority", "anyexact", highValues...)
		chart("bug_severity", "anyexact", highValues...)
		n++
		fmt.Fprintf(&sb, "&f%d=CP", n)
	}

	sb.WriteString("&chfield=" + escape(creationDateField))
	sb.WriteString("&chfieldfrom=" + s.from.Format(dateLayout))
	sb.WriteString("&chfieldto=" + s.to.Format(dateLayout))

	keys := lo.Keys(s.fields)
	slices.Sort(keys)
	for _, key := range keys {
		for _, v := range s.fields[key] {
			sb.WriteString("&" + key + "=" + escape(v))
		}
	}

	if s.apiKey != "" {
		sb.WriteString("&api_key=" + escape(s.apiKey))
	}

	return sb.String()
}

// URL returns the full deep link restricted to the given products
func (s Search) URL(products ...string) string {
	return s.base + s.Query() + ProductFilter(products...)
}

// ProductFilter renders one product fragment per name
func ProductFilter(products ...string) string {
	var sb strings.Builder
	for _, p := range products {
		sb.WriteString("&product=" + escape(p))
	}
	return sb.String()
}

// escape percent-encodes a query value, spaces included
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
