// Package store persists aggregate results so runs can be listed and
// compared later.
package store

import (
	"context"
	"time"

	"github.com/mwiater/corebench/internal/metrics"
)

// RunSummary is a stored run without its payload.
type RunSummary struct {
	ID         string
	CreatedAt  time.Time
	Workers    int
	Iterations int
	Mode       metrics.Mode
}

// Store is the run history.
type Store interface {
	SaveRun(ctx context.Context, res *metrics.Result) error
	GetRun(ctx context.Context, id string) (*metrics.Result, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}
