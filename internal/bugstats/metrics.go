package bugstats

import (
	"robin/internal/bugzilla"
	"robin/internal/database"
)

// Bucket is a product line a metric is reported for
type Bucket string

const (
	BucketAll   Bucket = "all"
	BucketRHEL8 Bucket = "rhel8"
	BucketRHEL9 Bucket = "rhel9"
)

// Buckets lists every bucket in report order
var Buckets = []Bucket{BucketAll, BucketRHEL8, BucketRHEL9}

type productBucket struct {
	bucket Bucket
	// linked products appear in the deep link, counted products are queried locally
	linked  []string
	counted []string
}

// Advanced Virtualization bugs are stored as RHEL 8 and only appear in links.
var productBuckets = []productBucket{
	{
		bucket:  BucketRHEL8,
		linked:  []string{bugzilla.ProductRHEL8, bugzilla.ProductAdvancedVirtualization},
		counted: []string{bugzilla.ProductRHEL8},
	},
	{
		bucket:  BucketRHEL9,
		linked:  []string{bugzilla.ProductRHEL9},
		counted: []string{bugzilla.ProductRHEL9},
	},
}

// Metrics are the counts and ratios of one bucket
type Metrics struct {
	ValidReported  int   `json:"valid_reported"`
	ValidQAContact int   `json:"valid_qa_contact"`
	HighReported   int   `json:"high_reported"`
	HighQAContact  int   `json:"high_qa_contact"`
	Fixed          int   `json:"fixed"`
	Invalid        int   `json:"invalid"`
	CatchRatio     Ratio `json:"catch_ratio"`
	HighCatchRatio Ratio `json:"high_catch_ratio"`
	FixedRatio     Ratio `json:"fixed_ratio"`
	InvalidRatio   Ratio `json:"invalid_ratio"`
}

func (m *Metrics) computeRatios() {
	m.CatchRatio = NewRatio(m.ValidReported, m.ValidQAContact)
	m.HighCatchRatio = NewRatio(m.HighReported, m.HighQAContact)
	m.FixedRatio = NewRatio(m.Fixed, m.ValidReported)
	m.InvalidRatio = NewRatio(m.Invalid, m.Invalid+m.ValidReported)
}

// Links are the deep links reproducing each count of a bucket
type Links struct {
	ValidReported  string `json:"valid_reported"`
	ValidQAContact string `json:"valid_qa_contact"`
	HighReported   string `json:"high_reported"`
	HighQAContact  string `json:"high_qa_contact"`
	Fixed          string `json:"fixed"`
	Invalid        string `json:"invalid"`
}

// Result is one summary row for a team or a contributor, optionally within an architecture
type Result struct {
	Name         string              `json:"team"`
	Architecture string              `json:"architecture,omitempty"`
	Metrics      map[Bucket]*Metrics `json:"metrics"`
	Links        map[Bucket]*Links   `json:"links"`
}

func newResult(name, architecture string) *Result {
	r := &Result{
		Name:         name,
		Architecture: architecture,
		Metrics:      make(map[Bucket]*Metrics, len(Buckets)),
		Links:        make(map[Bucket]*Links, len(Buckets)),
	}
	for _, b := range Buckets {
		r.Metrics[b] = &Metrics{}
		r.Links[b] = &Links{}
	}
	return r
}

// metricClass selects bugs by status and resolution in the link and by a single predicate locally
type metricClass struct {
	statuses    []string
	resolutions []string
	local       database.BugFilter
}

var (
	validClass = metricClass{
		statuses:    []string{"NEW", "ASSIGNED", "POST", "MODIFIED", "ON_QA", "VERIFIED", "CLOSED"},
		resolutions: []string{"---", "CURRENTRELEASE", "ERRATA"},
		local:       database.In(database.FieldResolution, bugzilla.ResolutionValid),
	}
	fixedClass = metricClass{
		statuses:    []string{"CLOSED", "MODIFIED", "VERIFIED"},
		resolutions: []string{"---", "CURRENTRELEASE", "ERRATA"},
		local:       database.In(database.FieldStatus, bugzilla.StatusFixed),
	}
	invalidClass = metricClass{
		statuses:    []string{"CLOSED"},
		resolutions: bugzilla.InvalidResolutions(),
		local:       database.In(database.FieldResolution, bugzilla.ResolutionInvalid),
	}
)

// measure is one counted metric: a class seen through a role, with or without the high/above group
type measure struct {
	class  metricClass
	role   bugzilla.Role
	high   bool
	metric func(*Metrics) *int
	link   func(*Links) *string
}

var measures = []measure{
	{
		class:  validClass,
		role:   bugzilla.RoleReporter,
		metric: func(m *Metrics) *int { return &m.ValidReported },
		link:   func(l *Links) *string { return &l.ValidReported },
	},
	{
		class:  validClass,
		role:   bugzilla.RoleQAContact,
		metric: func(m *Metrics) *int { return &m.ValidQAContact },
		link:   func(l *Links) *string { return &l.ValidQAContact },
	},
	{
		class:  validClass,
		role:   bugzilla.RoleReporter,
		high:   true,
		metric: func(m *Metrics) *int { return &m.HighReported },
		link:   func(l *Links) *string { return &l.HighReported },
	},
	{
		class:  validClass,
		role:   bugzilla.RoleQAContact,
		high:   true,
		metric: func(m *Metrics) *int { return &m.HighQAContact },
		link:   func(l *Links) *string { return &l.HighQAContact },
	},
	{
		class:  fixedClass,
		role:   bugzilla.RoleReporter,
		metric: func(m *Metrics) *int { return &m.Fixed },
		link:   func(l *Links) *string { return &l.Fixed },
	},
	{
		class:  invalidClass,
		role:   bugzilla.RoleReporter,
		metric: func(m *Metrics) *int { return &m.Invalid },
		link:   func(l *Links) *string { return &l.Invalid },
	},
}
