package history

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/vk/varcar/internal/resolve"
)

// Memory is an in-memory Store.
type Memory struct {
	mu   sync.RWMutex
	runs []Run
	ids  map[string]struct{}
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

// Record stores a copy of run.
func (m *Memory) Record(ctx context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.ids[run.ID]; dup {
		return fmt.Errorf("run %s already recorded", run.ID)
	}
	m.ids[run.ID] = struct{}{}
	m.runs = append(m.runs, cloneRun(run))
	return nil
}

// Runs returns copies of the matching runs, newest first.
func (m *Memory) Runs(ctx context.Context, document string, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Run, 0, len(m.runs))
	// Walk backwards so equal timestamps keep newest-recorded first.
	for i := len(m.runs) - 1; i >= 0; i-- {
		r := m.runs[i]
		if document != "" && r.Document != document {
			continue
		}
		out = append(out, cloneRun(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Latest returns the newest run of document, or ErrNoRuns.
func (m *Memory) Latest(ctx context.Context, document string) (Run, error) {
	runs, err := m.Runs(ctx, document, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

func (m *Memory) Close() error { return nil }

func cloneRun(r Run) Run {
	out := r
	out.Collections = make([]resolve.CollectionResult, len(r.Collections))
	for i, c := range r.Collections {
		c.ModesChecked = slices.Clone(c.ModesChecked)
		c.BrokenExamples = slices.Clone(c.BrokenExamples)
		out.Collections[i] = c
	}
	return out
}
