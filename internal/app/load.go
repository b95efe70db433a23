package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/palette"
	"github.com/vk/varcar/internal/rules"
	"github.com/vk/varcar/internal/tokens"
)

// inputs is everything a command may work on.
type inputs struct {
	doc     *tokens.Document
	idx     *index.Index
	palette *palette.Palette // nil when no palette was requested
	rules   *rules.Rules
}

// load reads the document, the optional palette and the rules concurrently.
func (a *App) load(ctx context.Context, docURI, paletteURI string) (*inputs, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading inputs.", "document", docURI, "palette", paletteURI, "rules", a.config.RulesPaths)

	in := &inputs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rc, err := a.source.Open(gctx, docURI)
		if err != nil {
			return err
		}
		defer rc.Close()
		doc, err := tokens.Load(rc)
		if err != nil {
			return fmt.Errorf("%s: %w", docURI, err)
		}
		in.doc = doc
		return nil
	})

	if paletteURI != "" {
		g.Go(func() error {
			rc, err := a.source.Open(gctx, paletteURI)
			if err != nil {
				return err
			}
			defer rc.Close()
			p, err := palette.Load(rc)
			if err != nil {
				return fmt.Errorf("%s: %w", paletteURI, err)
			}
			in.palette = p
			return nil
		})
	}

	g.Go(func() error {
		rs, err := rules.Load(gctx, a.config.RulesPaths...)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}
		in.rules = rs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.idx = index.Build(in.doc)
	logger.Info("Inputs loaded.",
		"collections", len(in.doc.Collections),
		"variables", in.idx.Len(),
		"palette_steps", paletteLen(in.palette),
	)
	return in, nil
}

func paletteLen(p *palette.Palette) int {
	if p == nil {
		return 0
	}
	return p.Len()
}
