package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vk/varcar/internal/history"
	"github.com/vk/varcar/internal/inspect"
	"github.com/vk/varcar/internal/oklch"
	"github.com/vk/varcar/internal/repair"
	"github.com/vk/varcar/internal/resolve"
	"github.com/vk/varcar/internal/tokens"
)

// Repair is the outcome of a repair pass.
type Repair struct {
	Document string         `json:"document" yaml:"document"`
	Output   string         `json:"output,omitempty" yaml:"output,omitempty"`
	Backup   string         `json:"backup,omitempty" yaml:"backup,omitempty"`
	DryRun   bool           `json:"dry_run" yaml:"dry_run"`
	Summary  repair.Summary `json:"summary" yaml:"summary"`
	After    *Validation    `json:"validation_after,omitempty" yaml:"validation_after,omitempty"`
}

// WriteRepair writes r in the given format.
func WriteRepair(w io.Writer, r Repair, format Format) error {
	if !format.isText() {
		return encode(w, format, r)
	}

	s := newStyles(w)
	var b strings.Builder
	b.WriteString("\n")
	s.section(&b, "REPAIR SUMMARY")
	sum := r.Summary
	fmt.Fprintf(&b, "Variables examined:  %d\n", sum.Examined)
	fmt.Fprintf(&b, "Variables repaired:  %d\n", sum.Repaired)
	fmt.Fprintf(&b, "  white fixed:       %d\n", sum.WhiteFixed)
	fmt.Fprintf(&b, "  external fixed:    %d\n", sum.ExternalFixed)
	fmt.Fprintf(&b, "Skipped:             %d\n", sum.Skipped)

	bySource := sum.BySource()
	if len(bySource) > 0 {
		b.WriteString("Color sources:\n")
		sources := make([]string, 0, len(bySource))
		for src := range bySource {
			sources = append(sources, string(src))
		}
		sort.Strings(sources)
		for _, src := range sources {
			fmt.Fprintf(&b, "  %-18s %d\n", src+":", bySource[repair.Source(src)])
		}
	}

	if len(sum.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(s.warn.Render(fmt.Sprintf("⚠ %d warnings", len(sum.Warnings))) + "\n")
		for _, warning := range sum.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warning)
		}
	}

	b.WriteString("\n")
	switch {
	case r.DryRun:
		b.WriteString(s.muted.Render("Dry run: no files written.") + "\n")
	case r.Output != "":
		if r.Backup != "" {
			fmt.Fprintf(&b, "Backup:  %s\n", r.Backup)
		}
		fmt.Fprintf(&b, "%s %s\n", s.ok.Render("✓ Written:"), r.Output)
	}

	if r.After != nil {
		t := r.After.Totals
		fmt.Fprintf(&b, "After repair: %d valid, %d broken, %d white, %d proper\n", t.Valid, t.Broken, t.White, t.Proper)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// TraceView is the serialisable form of an inspect.Trace.
type TraceView struct {
	VariableID     string          `json:"variable_id" yaml:"variable_id"`
	VariableName   string          `json:"variable_name" yaml:"variable_name"`
	CollectionName string          `json:"collection" yaml:"collection"`
	Modes          []ModeTraceView `json:"modes" yaml:"modes"`
}

// ModeTraceView is one mode of a TraceView.
type ModeTraceView struct {
	ModeID   string    `json:"mode_id" yaml:"mode_id"`
	ModeName string    `json:"mode" yaml:"mode"`
	Status   string    `json:"status" yaml:"status"`
	Chain    string    `json:"chain" yaml:"chain"`
	Hex      string    `json:"hex,omitempty" yaml:"hex,omitempty"`
	Hops     []HopView `json:"hops" yaml:"hops"`
	Warnings []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HopView is one visited variable.
type HopView struct {
	VariableID     string `json:"variable_id" yaml:"variable_id"`
	VariableName   string `json:"variable_name" yaml:"variable_name"`
	CollectionName string `json:"collection" yaml:"collection"`
	Value          string `json:"value" yaml:"value"`
}

// NewTraceView converts t.
func NewTraceView(t inspect.Trace) TraceView {
	v := TraceView{
		VariableID:     t.VariableID,
		VariableName:   t.VariableName,
		CollectionName: t.CollectionName,
		Modes:          make([]ModeTraceView, 0, len(t.Modes)),
	}
	for _, m := range t.Modes {
		mv := ModeTraceView{
			ModeID:   m.ModeID,
			ModeName: m.ModeName,
			Status:   m.Result.Reason.String(),
			Chain:    m.Result.Chain(),
			Hops:     make([]HopView, 0, len(m.Result.Hops)),
			Warnings: m.Result.Warnings,
		}
		if m.Result.OK() {
			mv.Hex = colorHex(m.Result.Color)
		}
		for _, h := range m.Result.Hops {
			mv.Hops = append(mv.Hops, HopView{
				VariableID:     h.VariableID,
				VariableName:   h.VariableName,
				CollectionName: h.CollectionName,
				Value:          describeValue(h),
			})
		}
		v.Modes = append(v.Modes, mv)
	}
	return v
}

// WriteTrace writes t in the given format.
func WriteTrace(w io.Writer, t inspect.Trace, format Format) error {
	view := NewTraceView(t)
	if !format.isText() {
		return encode(w, format, view)
	}

	s := newStyles(w)
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", s.title.Render(view.VariableName), s.muted.Render(view.VariableID))
	fmt.Fprintf(&b, "Collection: %s\n", view.CollectionName)
	for _, m := range view.Modes {
		b.WriteString("\n")
		status := s.ok.Render(m.Status)
		if m.Status != resolve.Resolved.String() {
			status = s.warn.Render(m.Status)
		}
		fmt.Fprintf(&b, "[%s] %s\n", m.ModeName, status)
		for i, h := range m.Hops {
			fmt.Fprintf(&b, "  %d. %s %s\n", i+1, h.VariableName, s.muted.Render("("+h.CollectionName+")"))
			fmt.Fprintf(&b, "     %s\n", h.Value)
		}
		if m.Hex != "" {
			fmt.Fprintf(&b, "  => %s\n", m.Hex)
		} else {
			fmt.Fprintf(&b, "  => %s\n", m.Chain)
		}
		for _, warning := range m.Warnings {
			fmt.Fprintf(&b, "  %s\n", s.warn.Render("⚠ "+warning))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteStats writes document statistics in the given format.
func WriteStats(w io.Writer, st inspect.Stats, format Format) error {
	if !format.isText() {
		return encode(w, format, st)
	}

	s := newStyles(w)
	var b strings.Builder
	s.section(&b, "DOCUMENT")
	fmt.Fprintf(&b, "Collections:    %d\n", st.Collections)
	fmt.Fprintf(&b, "Variables:      %d\n", st.Variables)
	types := make([]string, 0, len(st.ByType))
	for typ := range st.ByType {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		fmt.Fprintf(&b, "  %-12s  %d\n", typ+":", st.ByType[typ])
	}
	fmt.Fprintf(&b, "Alias values:   %d (%.1f%%)\n", st.Aliases, st.AliasPercent)
	fmt.Fprintf(&b, "Direct colors:  %d\n", st.DirectColors)
	b.WriteString("\n")

	for _, c := range st.PerCollection {
		fmt.Fprintf(&b, "%s\n", s.title.Render(c.Name))
		fmt.Fprintf(&b, "   Modes:       %s\n", strings.Join(c.Modes, ", "))
		fmt.Fprintf(&b, "   Variables:   %d (%d COLOR)\n", c.Variables, c.Colors)
		fmt.Fprintf(&b, "   Aliases:     %d (%.1f%%)\n", c.Aliases, c.AliasPercent)
		fmt.Fprintf(&b, "   Layer:       %d\n", c.Layer)
		if len(c.AliasTargets) > 0 {
			b.WriteString("   Aliases into:\n")
			for _, t := range c.AliasTargets {
				fmt.Fprintf(&b, "     %-20s %d\n", t.Collection, t.Aliases)
			}
		}
		if len(c.Families) > 0 {
			b.WriteString("   Families:\n")
			for _, f := range c.Families {
				line := fmt.Sprintf("     %-20s %d", f.Family, f.Count)
				if len(f.Subcategories) > 0 {
					line += "  " + s.muted.Render(strings.Join(f.Subcategories, ", "))
				}
				b.WriteString(line + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(st.Layers) > 0 {
		s.section(&b, "LAYERS")
		for _, l := range st.Layers {
			fmt.Fprintf(&b, "Layer %d: %s\n", l.Level, strings.Join(l.Collections, ", "))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// History is a list of recorded runs with the regressions of the newest run
// against the one before it.
type History struct {
	Runs        []history.Run        `json:"runs" yaml:"runs"`
	Regressions []history.Regression `json:"regressions,omitempty" yaml:"regressions,omitempty"`
}

// WriteHistory writes h in the given format.
func WriteHistory(w io.Writer, h History, format Format) error {
	if !format.isText() {
		return encode(w, format, h)
	}

	s := newStyles(w)
	var b strings.Builder
	if len(h.Runs) == 0 {
		b.WriteString("No runs recorded.\n")
	}
	for _, r := range h.Runs {
		t := r.Totals()
		fmt.Fprintf(&b, "%s  %s  %s\n",
			r.RecordedAt.Format("2006-01-02 15:04:05"),
			s.muted.Render(r.ID),
			r.Document,
		)
		fmt.Fprintf(&b, "    valid %d  broken %d  white %d  proper %d\n", t.Valid, t.Broken, t.White, t.Proper)
	}
	if len(h.Regressions) > 0 {
		b.WriteString("\n")
		b.WriteString(s.err.Render(fmt.Sprintf("Regressions in latest run: %d", len(h.Regressions))) + "\n")
		for _, r := range h.Regressions {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func colorHex(c tokens.Color) string {
	return oklch.RGB{R: c.R, G: c.G, B: c.B}.Hex()
}

func describeValue(h resolve.Hop) string {
	if !h.HasValue {
		return "(no value for mode)"
	}
	switch h.Value.Kind {
	case tokens.KindColor:
		return fmt.Sprintf("%s %s", h.Value.Color, colorHex(h.Value.Color))
	case tokens.KindAlias:
		return "-> " + h.Value.AliasID
	default:
		return "(unsupported value)"
	}
}
