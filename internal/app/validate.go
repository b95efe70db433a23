package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/history"
	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/report"
	"github.com/vk/varcar/internal/resolve"
	"github.com/vk/varcar/internal/rules"
)

// ValidateOptions configures App.Validate.
type ValidateOptions struct {
	Document string
	// Collections overrides the rules' collection list.
	Collections []string
	// AllModes checks every mode. The rules may also enable it.
	AllModes bool
	Format   report.Format
	// HistoryPath records the run into a history database and compares it
	// with the previous run of the same document.
	HistoryPath string
	// NoFail reports problems without returning ErrValidationFailed.
	NoFail bool
}

// Validate checks every alias chain of the selected collections.
func (a *App) Validate(ctx context.Context, opts ValidateOptions) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Validate started.", "document", opts.Document)

	in, err := a.load(ctx, opts.Document, "")
	if err != nil {
		return err
	}

	v := validateIndex(ctx, in.idx, in.rules, opts.Document, opts.Collections, opts.AllModes)

	if opts.HistoryPath != "" {
		if err := a.record(ctx, opts.HistoryPath, &v); err != nil {
			return err
		}
	}

	if err := report.WriteValidation(a.outW, v, opts.Format); err != nil {
		return err
	}

	logger.Info("Validation finished.",
		"valid", v.Totals.Valid,
		"broken", v.Totals.Broken,
		"white", v.Totals.White,
	)
	if opts.NoFail {
		return nil
	}
	if !v.Passed() {
		return fmt.Errorf("%w: %d broken chains, %d white colors", ErrValidationFailed, v.Totals.Broken, v.Totals.White)
	}
	if len(v.Regressions) > 0 {
		return fmt.Errorf("%w: %d regressions", ErrRegression, len(v.Regressions))
	}
	return nil
}

// validateIndex runs the validator with the collection list and mode
// selection resolved from explicit options first, then the rules.
func validateIndex(ctx context.Context, idx *index.Index, rs *rules.Rules, document string, collections []string, allModes bool) report.Validation {
	if len(collections) == 0 {
		collections = rs.Validation.Collections
	}
	allModes = allModes || rs.Validation.AllModes

	validator := resolve.NewValidator(idx, resolve.Options{AllModes: allModes, MaxDepth: rs.Validation.MaxDepth})
	results := validator.ValidateCollections(ctx, collections)
	return report.NewValidation(document, allModes, results)
}

// record stores v in the history database and attaches regressions against
// the previous run of the same document.
func (a *App) record(ctx context.Context, path string, v *report.Validation) error {
	logger := ctxlog.FromContext(ctx)

	store, err := history.NewSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	prev, err := store.Latest(ctx, v.Document)
	hasPrev := err == nil
	if err != nil && !errors.Is(err, history.ErrNoRuns) {
		return err
	}

	run := history.NewRun(v.Document, v.AllModes, v.Collections, a.now())
	if err := store.Record(ctx, run); err != nil {
		return err
	}
	v.RunID = run.ID

	if hasPrev {
		v.Regressions = history.Compare(prev, run)
		if len(v.Regressions) > 0 {
			logger.Warn("Validation regressed since the previous run.", "previous", prev.ID, "regressions", len(v.Regressions))
		}
	}
	logger.Info("Run recorded.", "id", run.ID, "history", path)
	return nil
}
