package domain

import (
	"context"
	"time"
)

// Cell pairs the rendered display string with the raw value it was
// rendered from, so consumers can re-sort without re-parsing.
type Cell struct {
	Display string `json:"display"`
	Value   any    `json:"value"`
}

type Header struct {
	Label string `json:"label"`
}

// Leaderboard is one ranked table on the dashboard. Rows is never nil.
type Leaderboard struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Headers []Header `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// Request scopes a leaderboard render. PerPage of zero or below asks for
// an empty board without touching storage.
type Request struct {
	PerPage int
	After   *time.Time
	Before  *time.Time
}

// Provider appends its boards to the accumulated slice. Providers must
// tolerate partially wired environments and pass boards through unchanged
// rather than fail.
type Provider interface {
	Apply(ctx context.Context, boards []Leaderboard, req Request) []Leaderboard
}
