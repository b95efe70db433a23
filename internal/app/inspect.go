package app

import (
	"context"

	"github.com/vk/varcar/internal/inspect"
	"github.com/vk/varcar/internal/report"
)

// Inspect prints collection and color-family statistics.
func (a *App) Inspect(ctx context.Context, document string, format report.Format) error {
	ctx = a.withLogger(ctx)

	in, err := a.load(ctx, document, "")
	if err != nil {
		return err
	}
	return report.WriteStats(a.outW, inspect.Analyze(in.doc), format)
}
