package app

import (
	"bytes"
	"context"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/repair"
	"github.com/vk/varcar/internal/report"
	"github.com/vk/varcar/internal/tokens"
)

// RepairOptions configures App.Repair.
type RepairOptions struct {
	Document string
	Palette  string
	// Output defaults to Document.
	Output       string
	Backup       bool
	DryRun       bool
	SkipWhite    bool
	SkipExternal bool
	Format       report.Format
}

// Repair replaces white placeholders and external references with concrete
// colors and writes the repaired document.
func (a *App) Repair(ctx context.Context, opts RepairOptions) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Repair started.", "document", opts.Document, "palette", opts.Palette)

	// Reject a bad format before anything is written.
	if _, err := report.ParseFormat(string(opts.Format)); err != nil {
		return err
	}

	in, err := a.load(ctx, opts.Document, opts.Palette)
	if err != nil {
		return err
	}

	fixed, summary := repair.Repair(ctx, in.doc, in.palette, in.rules, repair.Options{
		SkipWhite:    opts.SkipWhite,
		SkipExternal: opts.SkipExternal,
	})

	after := validateIndex(ctx, index.Build(fixed), in.rules, opts.Document, nil, false)
	rep := report.Repair{
		Document: opts.Document,
		DryRun:   opts.DryRun,
		Summary:  summary,
		After:    &after,
	}

	switch {
	case opts.DryRun:
		logger.Info("Dry run, document not written.")
	case summary.Repaired == 0:
		logger.Info("Nothing to repair, document not written.")
	default:
		out := opts.Output
		if out == "" {
			out = opts.Document
		}
		if opts.Backup {
			backup, err := a.source.Backup(ctx, opts.Document, a.now())
			if err != nil {
				return err
			}
			rep.Backup = backup
		}

		var buf bytes.Buffer
		if err := tokens.Encode(&buf, fixed); err != nil {
			return err
		}
		if err := a.source.Write(ctx, out, buf.Bytes()); err != nil {
			return err
		}
		rep.Output = out
		logger.Info("Repaired document written.", "output", out, "repaired", summary.Repaired)
	}

	return report.WriteRepair(a.outW, rep, opts.Format)
}
