// Package results hands a computed bug summary from the request that built it to the export
// that renders it.
package results

import (
	"context"
	"errors"
	"time"

	"robin/internal/bugstats"
)

// ErrNotFound is returned when no summary exists for an id, or none was saved yet
var ErrNotFound = errors.New("result not found")

// Kind names the report a summary came from
type Kind string

const (
	KindOrganization Kind = "organization"
	KindScope        Kind = "team"
	KindMultiArch    Kind = "multi-arch"
)

// Summary is the list of rows produced by one aggregation request
type Summary struct {
	ID        string             `json:"id"`
	Kind      Kind               `json:"kind"`
	CreatedAt time.Time          `json:"created_at"`
	Rows      []*bugstats.Result `json:"rows"`
}

// Store keeps recent summaries. Latest is a single last-writer-wins slot: two concurrent
// requests race for it and an export without an id renders whichever saved last.
type Store interface {
	Save(ctx context.Context, s *Summary) (string, error)
	Get(ctx context.Context, id string) (*Summary, error)
	Latest(ctx context.Context) (*Summary, error)
}
