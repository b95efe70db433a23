package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/varcar/internal/history"
	"github.com/vk/varcar/internal/resolve"
)

// Validation is the outcome of validating one document.
type Validation struct {
	Document    string                     `json:"document" yaml:"document"`
	AllModes    bool                       `json:"all_modes" yaml:"all_modes"`
	Collections []resolve.CollectionResult `json:"collections" yaml:"collections"`
	Totals      resolve.Totals             `json:"summary" yaml:"summary"`
	RunID       string                     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Regressions []history.Regression       `json:"regressions,omitempty" yaml:"regressions,omitempty"`
}

// NewValidation builds a Validation and computes its totals.
func NewValidation(document string, allModes bool, results []resolve.CollectionResult) Validation {
	return Validation{
		Document:    document,
		AllModes:    allModes,
		Collections: results,
		Totals:      resolve.Sum(results),
	}
}

// Passed reports whether no broken chain and no white placeholder remains.
func (v Validation) Passed() bool {
	return v.Totals.Broken == 0 && v.Totals.White == 0
}

// WriteValidation writes v in the given format.
func WriteValidation(w io.Writer, v Validation, format Format) error {
	if !format.isText() {
		return encode(w, format, v)
	}

	s := newStyles(w)
	var b strings.Builder
	b.WriteString("\n")
	s.section(&b, "VALIDATION RESULTS")
	b.WriteString("\n")

	for _, c := range v.Collections {
		if c.Error != "" {
			fmt.Fprintf(&b, "%s %s: %s\n", s.err.Render("❌"), c.CollectionName, c.Error)
			continue
		}

		status := s.ok.Render("✓")
		if c.Broken > 0 {
			status = s.warn.Render("⚠")
		}
		fmt.Fprintf(&b, "%s %s:\n", status, c.CollectionName)
		if v.AllModes && len(c.ModesChecked) > 0 {
			fmt.Fprintf(&b, "   Modes checked:   %s\n", strings.Join(c.ModesChecked, ", "))
		}
		fmt.Fprintf(&b, "   Total variables: %d\n", c.Total)
		fmt.Fprintf(&b, "   Valid chains:    %d\n", c.Valid)
		fmt.Fprintf(&b, "   Broken chains:   %d\n", c.Broken)
		if c.Circular > 0 {
			fmt.Fprintf(&b, "     circular:      %d\n", c.Circular)
		}
		if c.External > 0 {
			fmt.Fprintf(&b, "     external:      %d\n", c.External)
		}
		if c.White > 0 {
			fmt.Fprintf(&b, "   %s\n", s.warn.Render(fmt.Sprintf("⚠ White colors:  %d", c.White)))
		}
		if c.Proper > 0 {
			fmt.Fprintf(&b, "   %s\n", s.ok.Render(fmt.Sprintf("✓ Proper colors: %d", c.Proper)))
		}
		if c.ModeMismatches > 0 {
			fmt.Fprintf(&b, "   %s\n", s.muted.Render(fmt.Sprintf("Mode mismatches: %d", c.ModeMismatches)))
		}
		if len(c.BrokenExamples) > 0 {
			b.WriteString("   Broken examples:\n")
			for _, ex := range c.BrokenExamples {
				name := ex.VariableName
				if ex.Mode != "" {
					name += " (" + ex.Mode + ")"
				}
				fmt.Fprintf(&b, "     - %s\n", name)
				fmt.Fprintf(&b, "       %s\n", s.muted.Render(ex.Chain))
			}
		}
		b.WriteString("\n")
	}

	s.section(&b, "SUMMARY")
	t := v.Totals
	fmt.Fprintf(&b, "Total valid alias chains:  %d\n", t.Valid)
	fmt.Fprintf(&b, "Total broken alias chains: %d\n", t.Broken)
	fmt.Fprintf(&b, "White colors remaining:    %d\n", t.White)
	fmt.Fprintf(&b, "Proper colors:             %d\n", t.Proper)
	b.WriteString("\n")

	if v.Passed() {
		b.WriteString(s.ok.Render("✓ All collections validated successfully!") + "\n")
		b.WriteString(s.ok.Render("✓ No white colors found - fix was successful!") + "\n")
	} else {
		if t.Broken > 0 {
			b.WriteString(s.warn.Render(fmt.Sprintf("⚠ %d broken alias chains found", t.Broken)) + "\n")
		}
		if t.White > 0 {
			b.WriteString(s.warn.Render(fmt.Sprintf("⚠ %d white colors still present", t.White)) + "\n")
		}
	}

	if len(v.Regressions) > 0 {
		b.WriteString("\n")
		b.WriteString(s.err.Render(fmt.Sprintf("Regressions since previous run: %d", len(v.Regressions))) + "\n")
		for _, r := range v.Regressions {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
