package app

import (
	"context"

	"github.com/vk/varcar/internal/history"
	"github.com/vk/varcar/internal/report"
)

// HistoryOptions configures App.History.
type HistoryOptions struct {
	Path     string
	Document string
	Limit    int
	Format   report.Format
}

// History lists recorded runs newest first and the regressions of the newest
// run against the previous run of the same document.
func (a *App) History(ctx context.Context, opts HistoryOptions) error {
	ctx = a.withLogger(ctx)

	store, err := history.NewSQLite(ctx, opts.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(ctx, opts.Document, opts.Limit)
	if err != nil {
		return err
	}

	h := report.History{Runs: runs}
	if len(runs) > 0 {
		latest := runs[0]
		prev, err := store.Runs(ctx, latest.Document, 2)
		if err != nil {
			return err
		}
		if len(prev) == 2 {
			h.Regressions = history.Compare(prev[1], latest)
		}
	}
	return report.WriteHistory(a.outW, h, opts.Format)
}
