package repair

import "github.com/vk/varcar/internal/tokens"

// Cause is the fault that triggered a repair.
type Cause string

const (
	CauseWhite    Cause = "white_placeholder"
	CauseExternal Cause = "external_reference"
)

// Source is where the replacement color came from.
type Source string

const (
	SourcePalette  Source = "palette"
	SourceSibling  Source = "sibling"
	SourceFallback Source = "fallback_table"
	SourceWhite    Source = "white_step"
	SourceDefault  Source = "default_family"
)

// Options toggles fault kinds.
type Options struct {
	SkipWhite    bool
	SkipExternal bool
}

// Change records one repaired variable.
type Change struct {
	Collection   string       `json:"collection" yaml:"collection"`
	VariableID   string       `json:"variable_id" yaml:"variable_id"`
	VariableName string       `json:"variable_name" yaml:"variable_name"`
	Cause        Cause        `json:"cause" yaml:"cause"`
	Source       Source       `json:"source" yaml:"source"`
	Color        tokens.Color `json:"color" yaml:"color"`
	Modes        int          `json:"modes" yaml:"modes"`
}

// Summary describes a repair pass.
type Summary struct {
	Examined      int      `json:"examined" yaml:"examined"`
	Repaired      int      `json:"repaired" yaml:"repaired"`
	WhiteFixed    int      `json:"white_fixed" yaml:"white_fixed"`
	ExternalFixed int      `json:"external_fixed" yaml:"external_fixed"`
	// Skipped counts marker variables and white placeholders left as they were.
	Skipped       int      `json:"skipped" yaml:"skipped"`
	Changes       []Change `json:"changes" yaml:"changes"`
	Warnings      []string `json:"warnings" yaml:"warnings"`
}

// BySource counts changes per replacement source.
func (s Summary) BySource() map[Source]int {
	out := make(map[Source]int)
	for _, c := range s.Changes {
		out[c.Source]++
	}
	return out
}
