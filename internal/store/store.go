package store

import (
	"context"
	"errors"
)

// Tab name constants
const (
	KindQuotes = "quotes"
	KindVideos = "videos"
	KindEvents = "events"
	KindUsers  = "users"
)

// Row is one flat record in a tab. Every adapter stores content as string
// fields keyed by column name, the lowest common denominator of the
// spreadsheet-like remote API.
type Row map[string]string

// ID returns the row identifier column
func (r Row) ID() string {
	return r["id"]
}

// Clone returns an independent copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var (
	// ErrAdapter indicates the backing store was unreachable or returned
	// a malformed response
	ErrAdapter = errors.New("store adapter failure")

	// ErrNotFound indicates no row exists with the requested id
	ErrNotFound = errors.New("row not found")
)

// Adapter is the pluggable persistence strategy behind the content
// repository. Implementations must be safe for concurrent use.
type Adapter interface {
	// GetRows returns all rows in a tab in storage order
	GetRows(ctx context.Context, kind string) ([]Row, error)

	// AppendRow appends a row to a tab
	AppendRow(ctx context.Context, kind string, row Row) error

	// UpdateRow merges fields onto the row with the given id.
	// Returns ErrNotFound if no such row exists.
	UpdateRow(ctx context.Context, kind, id string, fields Row) error

	// DeleteRow removes the row with the given id. The bool reports
	// whether a row existed; a missing row is not an error.
	DeleteRow(ctx context.Context, kind, id string) (bool, error)

	// CountRows returns the number of rows in a tab
	CountRows(ctx context.Context, kind string) (int, error)
}
