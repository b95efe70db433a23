package report

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/vk/varcar/internal/inspect"
	"github.com/vk/varcar/internal/oklch"
	"github.com/vk/varcar/internal/palette"
	"github.com/vk/varcar/internal/repair"
	"github.com/vk/varcar/internal/resolve"
)

//go:embed report.md.tmpl
var reportTemplate string

// MaxColorRows bounds the resolved-color table of each collection.
const MaxColorRows = 25

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"cell":    cell,
	"join":    strings.Join,
	"pct":     func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"dist":    func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"date":    func(t time.Time) string { return t.Format("2006-01-02 15:04:05 MST") },
	"targets": aliasTargets,
}).Parse(reportTemplate))

// aliasTargets renders alias targets as "name (count)" pairs.
func aliasTargets(ts []inspect.AliasTarget) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, fmt.Sprintf("%s (%d)", t.Collection, t.Aliases))
	}
	return strings.Join(parts, ", ")
}

// Document is the input of the Markdown report. Nil sections are rendered
// as "not run".
type Document struct {
	Source      string
	GeneratedAt time.Time
	Stats       inspect.Stats
	Validation  *Validation
	Repair      *repair.Summary
	Palette     []Swatch
	Colors      []ColorTable
}

// Swatch is one palette family with every step converted to hex.
type Swatch struct {
	Family string
	Steps  []SwatchStep
}

// SwatchStep is one palette step.
type SwatchStep struct {
	Step  string
	OKLCH string
	Hex   string
}

// ColorTable lists resolved colors of one collection and the closest
// palette step of each.
type ColorTable struct {
	Collection string
	Mode       string
	Rows       []ColorRow
	Truncated  int
}

// ColorRow is one resolved color.
type ColorRow struct {
	Variable string
	Hex      string
	Alpha    float64
	Closest  string
	Distance float64
}

// Swatches converts every palette step for the report.
func Swatches(p *palette.Palette) []Swatch {
	if p == nil {
		return nil
	}
	var out []Swatch
	for _, family := range p.Families() {
		sw := Swatch{Family: family}
		for _, step := range p.Steps(family) {
			rgb, _ := p.RGB(family, step)
			raw, _ := p.OKLCH(family, step)
			sw.Steps = append(sw.Steps, SwatchStep{Step: step, OKLCH: raw, Hex: rgb.Hex()})
		}
		out = append(out, sw)
	}
	return out
}

// ResolvedColors resolves the variables of the named collections under their
// first mode and pairs each non-white color with its closest palette step.
// pal may be nil, in which case the closest column stays empty.
func ResolvedColors(r *resolve.Resolver, collections []string, pal *palette.Palette) []ColorTable {
	idx := r.Index()
	var out []ColorTable
	for _, name := range collections {
		coll, ok := idx.CollectionByName(name)
		if !ok {
			continue
		}
		mode, ok := coll.FirstMode()
		if !ok {
			continue
		}
		table := ColorTable{Collection: name, Mode: mode.Name}
		for _, v := range coll.Variables {
			res := r.Resolve(v.ID, mode.ModeID)
			if !res.OK() || res.IsWhite() {
				continue
			}
			if len(table.Rows) == MaxColorRows {
				table.Truncated++
				continue
			}
			rgb := oklch.RGB{R: res.Color.R, G: res.Color.G, B: res.Color.B}
			row := ColorRow{Variable: v.Name, Hex: rgb.Hex(), Alpha: res.Color.A}
			if pal != nil {
				if m, found := pal.Nearest(rgb); found {
					row.Closest = m.Family + "/" + m.Step
					row.Distance = m.Distance
				}
			}
			table.Rows = append(table.Rows, row)
		}
		out = append(out, table)
	}
	return out
}

// Collections returns every collection name in document order.
func Collections(st inspect.Stats) []string {
	out := make([]string, 0, len(st.PerCollection))
	for _, c := range st.PerCollection {
		out = append(out, c.Name)
	}
	return out
}

// WriteMarkdown renders d as Markdown.
func WriteMarkdown(w io.Writer, d Document) error {
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// cell escapes a value for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
