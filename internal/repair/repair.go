package repair

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/palette"
	"github.com/vk/varcar/internal/resolve"
	"github.com/vk/varcar/internal/rules"
	"github.com/vk/varcar/internal/tokens"
	"github.com/vk/varcar/internal/varname"
)

// paletteDecimals is the rounding applied to palette-derived channels.
const paletteDecimals = 4

type repairer struct {
	idx      *index.Index
	resolver *resolve.Resolver
	palette  *palette.Palette
	rules    *rules.Rules
	opts     Options
	siblings map[string][3]float64
}

// Repair returns a repaired deep copy of doc and a summary of what changed.
// pal may be nil, in which case palette lookups are skipped.
func Repair(ctx context.Context, doc *tokens.Document, pal *palette.Palette, rs *rules.Rules, opts Options) (*tokens.Document, Summary) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Repair started.", "collections", len(doc.Collections), "variables", doc.VariableCount())

	idx := index.Build(doc)
	r := &repairer{
		idx:      idx,
		resolver: resolve.New(idx, resolve.Options{MaxDepth: rs.Validation.MaxDepth}),
		palette:  pal,
		rules:    rs,
		opts:     opts,
		siblings: harvestSiblings(doc, rs.Repair.SkipMarker),
	}
	logger.Debug("Harvested sibling colors.", "count", len(r.siblings))

	out := doc.Clone()
	summary := Summary{Changes: []Change{}, Warnings: []string{}}
	warn := func(msg string, args ...any) {
		text := fmt.Sprintf(msg, args...)
		summary.Warnings = append(summary.Warnings, text)
		logger.Warn(text)
	}

	for ci, coll := range doc.Collections {
		if !rs.Repair.AppliesTo(coll.Name) {
			continue
		}
		for vi, v := range coll.Variables {
			if v.ResolvedType != tokens.ResolvedTypeColor {
				continue
			}
			summary.Examined++
			if rs.Repair.Skips(v.Name) {
				summary.Skipped++
				continue
			}

			cause, ok := r.classify(v)
			if !ok {
				continue
			}

			name := varname.Parse(v.Name)
			rgb, src := r.derive(name)
			if src == SourceDefault {
				warn("No palette entry or fallback family for %q, using %s.", v.Name, rs.Repair.FallbackFamily)
			}
			if isWhite(rgb) {
				if cause == CauseWhite {
					// Writing white over a white placeholder changes nothing.
					warn("Replacement for %q (%s) is white, left unchanged.", v.Name, src)
					summary.Skipped++
					continue
				}
				warn("Replacement for %q (%s) is white.", v.Name, src)
			}

			target := out.Collections[ci].Variables[vi]
			modes := modeIDs(coll, v)
			var first tokens.Color
			weightWarned := false
			for i, modeID := range modes {
				existing := v.ValuesByMode[modeID]
				alpha, matched := r.alpha(existing, name.Property)
				if !matched && !weightWarned {
					warn("Unknown weight %q in %q, using %s alpha.", name.Property, v.Name, rs.Repair.DefaultWeight)
					weightWarned = true
				}
				c := tokens.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}
				if i == 0 {
					first = c
				}
				if target.ValuesByMode == nil {
					target.ValuesByMode = make(map[string]tokens.Value, len(modes))
				}
				target.ValuesByMode[modeID] = tokens.NewColor(c)
			}

			summary.Repaired++
			switch cause {
			case CauseWhite:
				summary.WhiteFixed++
			case CauseExternal:
				summary.ExternalFixed++
			}
			summary.Changes = append(summary.Changes, Change{
				Collection:   coll.Name,
				VariableID:   v.ID,
				VariableName: v.Name,
				Cause:        cause,
				Source:       src,
				Color:        first,
				Modes:        len(modes),
			})
			logger.Debug("Variable repaired.", "variable", v.Name, "cause", cause, "source", src, "modes", len(modes))
		}
	}

	logger.Info("Repair complete.",
		"examined", summary.Examined,
		"repaired", summary.Repaired,
		"white", summary.WhiteFixed,
		"external", summary.ExternalFixed,
		"warnings", len(summary.Warnings),
	)
	return out, summary
}

// classify reports the fault to repair on v, if any. A fault is repaired on v
// when v is where it originates or when the originating variable cannot be
// repaired itself.
func (r *repairer) classify(v *tokens.Variable) (Cause, bool) {
	entry, ok := r.idx.Variable(v.ID)
	if !ok || entry.Variable != v {
		// Shadowed by a later duplicate id.
		return "", false
	}

	for _, modeID := range v.ModeIDs() {
		res := r.resolver.Resolve(v.ID, modeID)

		var cause Cause
		switch {
		case res.Reason == resolve.ExternalReference && !r.opts.SkipExternal:
			cause = CauseExternal
		case res.IsWhite() && !r.opts.SkipWhite:
			cause = CauseWhite
		default:
			continue
		}

		origin := res.Hops[len(res.Hops)-1].VariableID
		if origin == v.ID {
			return cause, true
		}
		if oe, ok := r.idx.Variable(origin); ok && !r.repairable(oe) {
			return cause, true
		}
	}
	return "", false
}

func (r *repairer) repairable(e *index.Entry) bool {
	return e.Variable.ResolvedType == tokens.ResolvedTypeColor &&
		r.rules.Repair.AppliesTo(e.CollectionName) &&
		!r.rules.Repair.Skips(e.Variable.Name)
}

// derive picks the replacement RGB for a parsed name.
func (r *repairer) derive(name varname.Name) ([3]float64, Source) {
	if r.palette != nil && name.HasStep() {
		if rgb, ok := r.palette.RGB(name.PaletteFamily(), name.Step); ok {
			rgb = rgb.Round(paletteDecimals)
			return [3]float64{rgb.R, rgb.G, rgb.B}, SourcePalette
		}
	}

	segs := name.Segments()
	if len(segs) >= 2 {
		if rgb, ok := r.siblings[segs[0]+"/"+segs[1]]; ok {
			return rgb, SourceSibling
		}
	}

	if step, ok := stepOf(name); ok && step >= r.rules.Repair.WhiteStepMinimum {
		return r.rules.WhiteRGB(), SourceWhite
	}

	if rgb, ok := r.rules.FamilyRGB(segs[0]); ok {
		return rgb, SourceFallback
	}
	rgb, _ := r.rules.FamilyRGB(r.rules.Repair.FallbackFamily)
	return rgb, SourceDefault
}

func isWhite(rgb [3]float64) bool {
	return tokens.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.IsWhitePlaceholder()
}

// alpha keeps the alpha of a direct color and otherwise maps the weight
// property through the rules table.
func (r *repairer) alpha(existing tokens.Value, property string) (float64, bool) {
	if existing.Kind == tokens.KindColor {
		return existing.Color.A, true
	}
	return r.rules.Repair.Alpha(property)
}

func stepOf(name varname.Name) (int, bool) {
	if step, ok := name.StepNumber(); ok {
		return step, true
	}
	segs := name.Segments()
	if len(segs) < 2 {
		return 0, false
	}
	step, err := strconv.Atoi(segs[1])
	if err != nil {
		return 0, false
	}
	return step, true
}

// harvestSiblings collects the RGB of working variables carrying marker,
// keyed by their first two name segments. The first direct, non-white color
// in mode order wins.
func harvestSiblings(doc *tokens.Document, marker string) map[string][3]float64 {
	out := make(map[string][3]float64)
	if marker == "" {
		return out
	}
	for _, coll := range doc.Collections {
		for _, v := range coll.Variables {
			if !strings.Contains(v.Name, marker) {
				continue
			}
			segs := varname.Parse(v.Name).Segments()
			if len(segs) < 2 {
				continue
			}
			key := segs[0] + "/" + segs[1]
			if _, seen := out[key]; seen {
				continue
			}
			for _, modeID := range modeIDs(coll, v) {
				val, ok := v.ValuesByMode[modeID]
				if !ok || val.Kind != tokens.KindColor || val.Color.IsWhitePlaceholder() {
					continue
				}
				out[key] = [3]float64{val.Color.R, val.Color.G, val.Color.B}
				break
			}
		}
	}
	return out
}

// modeIDs returns the collection's declared modes followed by any extra mode
// ids the variable carries, so every mode ends up with a value.
func modeIDs(coll *tokens.Collection, v *tokens.Variable) []string {
	ids := make([]string, 0, len(coll.Modes)+len(v.ValuesByMode))
	seen := make(map[string]bool, len(coll.Modes))
	for _, m := range coll.Modes {
		ids = append(ids, m.ModeID)
		seen[m.ModeID] = true
	}
	var extra []string
	for id := range v.ValuesByMode {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}
