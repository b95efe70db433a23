package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vk/varcar/internal/resolve"
)

// ErrNoRuns is returned by Latest when nothing has been recorded.
var ErrNoRuns = errors.New("no recorded runs")

// Run is one recorded validation.
type Run struct {
	ID          string                     `json:"id" yaml:"id"`
	Document    string                     `json:"document" yaml:"document"`
	RecordedAt  time.Time                  `json:"recorded_at" yaml:"recorded_at"`
	AllModes    bool                       `json:"all_modes" yaml:"all_modes"`
	Collections []resolve.CollectionResult `json:"collections" yaml:"collections"`
}

// NewRun stamps results with a fresh id.
func NewRun(document string, allModes bool, results []resolve.CollectionResult, now time.Time) Run {
	return Run{
		ID:          uuid.NewString(),
		Document:    document,
		RecordedAt:  now.UTC(),
		AllModes:    allModes,
		Collections: results,
	}
}

// Totals sums the run's collection counts.
func (r Run) Totals() resolve.Totals {
	return resolve.Sum(r.Collections)
}

// Collection returns the result for name, if the run has one.
func (r Run) Collection(name string) (resolve.CollectionResult, bool) {
	for _, c := range r.Collections {
		if c.CollectionName == name {
			return c, true
		}
	}
	return resolve.CollectionResult{}, false
}

// Store persists runs.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Record stores run. The run id must be unique.
	Record(ctx context.Context, run Run) error

	// Runs returns recorded runs newest first. An empty document matches
	// every document; a limit <= 0 returns all runs.
	Runs(ctx context.Context, document string, limit int) ([]Run, error)

	// Latest returns the newest run for document, or ErrNoRuns.
	Latest(ctx context.Context, document string) (Run, error)

	// Close releases the store's resources.
	Close() error
}
