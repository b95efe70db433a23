package app

import (
	"context"

	"github.com/vk/varcar/internal/oklch"
	"github.com/vk/varcar/internal/palette"
	"github.com/vk/varcar/internal/report"
)

// Convert prints the sRGB value of each OKLCH string. With a palette, the
// closest palette step is listed too.
func (a *App) Convert(ctx context.Context, values []string, paletteURI string, format report.Format) error {
	ctx = a.withLogger(ctx)

	var pal *palette.Palette
	if paletteURI != "" {
		rc, err := a.source.Open(ctx, paletteURI)
		if err != nil {
			return err
		}
		pal, err = palette.Load(rc)
		rc.Close()
		if err != nil {
			return err
		}
	}

	conversions := make([]report.Conversion, 0, len(values))
	for _, s := range values {
		lch, err := oklch.Parse(s)
		if err != nil {
			return err
		}
		conversions = append(conversions, report.NewConversion(s, lch.Convert(), pal))
	}
	return report.WriteConversions(a.outW, conversions, format)
}
