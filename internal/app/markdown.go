package app

import (
	"bytes"
	"context"
	"io"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/inspect"
	"github.com/vk/varcar/internal/repair"
	"github.com/vk/varcar/internal/report"
	"github.com/vk/varcar/internal/resolve"
)

// ReportOptions configures App.Report.
type ReportOptions struct {
	Document string
	Palette  string
	// Output writes the Markdown to a location instead of stdout.
	Output string
	// Render formats the Markdown for the terminal.
	Render bool
	Width  int
}

// Report writes a long-form Markdown report: document overview, validation,
// a repair preview, color families, resolved colors and the palette.
func (a *App) Report(ctx context.Context, opts ReportOptions) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	in, err := a.load(ctx, opts.Document, opts.Palette)
	if err != nil {
		return err
	}

	stats := inspect.Analyze(in.doc)
	v := validateIndex(ctx, in.idx, in.rules, opts.Document, nil, false)
	_, preview := repair.Repair(ctx, in.doc, in.palette, in.rules, repair.Options{})

	collections := make([]string, 0, len(v.Collections))
	for _, c := range v.Collections {
		collections = append(collections, c.CollectionName)
	}
	r := resolve.New(in.idx, resolve.Options{MaxDepth: in.rules.Validation.MaxDepth})

	d := report.Document{
		Source:      opts.Document,
		GeneratedAt: a.now(),
		Stats:       stats,
		Validation:  &v,
		Repair:      &preview,
		Palette:     report.Swatches(in.palette),
		Colors:      report.ResolvedColors(r, collections, in.palette),
	}

	var buf bytes.Buffer
	if err := report.WriteMarkdown(&buf, d); err != nil {
		return err
	}

	if opts.Output != "" {
		if err := a.source.Write(ctx, opts.Output, buf.Bytes()); err != nil {
			return err
		}
		logger.Info("Report written.", "output", opts.Output)
		if !opts.Render {
			return nil
		}
	}

	if opts.Render {
		rendered, err := report.Render(buf.String(), opts.Width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.outW, rendered)
		return err
	}
	_, err = a.outW.Write(buf.Bytes())
	return err
}
