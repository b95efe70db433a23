package app

import (
	"context"

	"github.com/vk/varcar/internal/inspect"
	"github.com/vk/varcar/internal/report"
	"github.com/vk/varcar/internal/resolve"
)

// TraceOptions configures App.Trace.
type TraceOptions struct {
	Document string
	// Variable is a variable id or name.
	Variable   string
	Collection string
	// Mode limits the trace to one mode id or name.
	Mode   string
	Format report.Format
}

// Trace prints every hop of a variable's alias chain per mode.
func (a *App) Trace(ctx context.Context, opts TraceOptions) error {
	ctx = a.withLogger(ctx)

	in, err := a.load(ctx, opts.Document, "")
	if err != nil {
		return err
	}
	entry, err := inspect.Lookup(in.idx, opts.Variable, opts.Collection)
	if err != nil {
		return err
	}

	r := resolve.New(in.idx, resolve.Options{MaxDepth: in.rules.Validation.MaxDepth})
	trace, err := inspect.TraceVariable(r, entry, opts.Mode)
	if err != nil {
		return err
	}
	return report.WriteTrace(a.outW, trace, opts.Format)
}
