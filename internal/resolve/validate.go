package resolve

import (
	"context"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/index"
)

// MaxBrokenExamples bounds CollectionResult.BrokenExamples.
const MaxBrokenExamples = 5

// CriticalCollections are validated when no collection list is configured.
var CriticalCollections = []string{
	"1 Appearance",
	"2 Fill emphasis",
	"3 Background Level",
	"4 Interaction state",
	"9 Theme",
	"10 Brand",
}

// BrokenExample is a sample failing chain.
type BrokenExample struct {
	VariableName string `json:"variable_name" yaml:"variable_name"`
	Mode         string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Chain        string `json:"chain" yaml:"chain"`
}

// CollectionResult holds the validation counts of one collection.
type CollectionResult struct {
	CollectionName string          `json:"collection_name" yaml:"collection_name"`
	ModesChecked   []string        `json:"modes_checked,omitempty" yaml:"modes_checked,omitempty"`
	Total          int             `json:"total_variables" yaml:"total_variables"`
	Valid          int             `json:"valid_chains" yaml:"valid_chains"`
	Broken         int             `json:"broken_chains" yaml:"broken_chains"`
	Circular       int             `json:"circular_refs" yaml:"circular_refs"`
	External       int             `json:"external_refs" yaml:"external_refs"`
	White          int             `json:"white_colors" yaml:"white_colors"`
	Proper         int             `json:"proper_colors" yaml:"proper_colors"`
	ModeMismatches int             `json:"mode_mismatches,omitempty" yaml:"mode_mismatches,omitempty"`
	BrokenExamples []BrokenExample `json:"broken_examples" yaml:"broken_examples"`
	Error          string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasIssues reports whether broken chains or white placeholders remain.
func (c CollectionResult) HasIssues() bool {
	return c.Error == "" && (c.Broken > 0 || c.White > 0)
}

// Totals sums the counts of several collection results.
type Totals struct {
	Valid  int `json:"valid_chains" yaml:"valid_chains"`
	Broken int `json:"broken_chains" yaml:"broken_chains"`
	White  int `json:"white_colors" yaml:"white_colors"`
	Proper int `json:"proper_colors" yaml:"proper_colors"`
}

// Sum returns the totals across results, skipping errored collections.
func Sum(results []CollectionResult) Totals {
	var t Totals
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		t.Valid += r.Valid
		t.Broken += r.Broken
		t.White += r.White
		t.Proper += r.Proper
	}
	return t
}

// Validator classifies every variable of a collection.
type Validator struct {
	resolver *Resolver
	opts     Options
}

// NewValidator creates a validator over idx.
func NewValidator(idx *index.Index, opts Options) *Validator {
	return &Validator{resolver: New(idx, opts), opts: opts}
}

// ValidateCollection resolves every variable of the named collection. A
// missing collection or one without modes yields a result with Error set.
//
// Only the first mode is checked unless Options.AllModes is set. In all-modes
// mode a variable counts as broken when any mode fails, classified by the
// first failing mode, and as white when every mode resolves and any of them
// is the white placeholder.
func (v *Validator) ValidateCollection(ctx context.Context, name string) CollectionResult {
	logger := ctxlog.FromContext(ctx)
	res := CollectionResult{CollectionName: name, BrokenExamples: []BrokenExample{}}

	coll, ok := v.resolver.Index().CollectionByName(name)
	if !ok {
		res.Error = "Collection not found"
		logger.Warn("Collection not found.", "collection", name)
		return res
	}
	if len(coll.Modes) == 0 {
		res.Error = "No modes found"
		logger.Warn("Collection has no modes.", "collection", name)
		return res
	}

	modes := coll.Modes[:1]
	if v.opts.AllModes {
		modes = coll.Modes
	}
	for _, m := range modes {
		res.ModesChecked = append(res.ModesChecked, m.Name)
	}
	logger.Debug("Validating collection.", "collection", name, "variables", len(coll.Variables), "modes", len(modes))

	for _, variable := range coll.Variables {
		res.Total++

		var failed *Result
		white := false
		for _, m := range modes {
			r := v.resolver.Resolve(variable.ID, m.ModeID)
			res.ModeMismatches += len(r.Warnings)
			if !r.OK() {
				failed = &r
				break
			}
			if r.IsWhite() {
				white = true
			}
		}

		if failed == nil {
			res.Valid++
			if white {
				res.White++
			} else {
				res.Proper++
			}
			continue
		}

		res.Broken++
		switch {
		case failed.IsCircular():
			res.Circular++
		case failed.Reason == ExternalReference:
			res.External++
		}
		if len(res.BrokenExamples) < MaxBrokenExamples {
			ex := BrokenExample{VariableName: variable.Name, Chain: failed.Chain()}
			if v.opts.AllModes {
				ex.Mode = coll.ModeName(failed.ModeID)
			}
			res.BrokenExamples = append(res.BrokenExamples, ex)
		}
	}

	logger.Debug("Collection validated.",
		"collection", name,
		"valid", res.Valid,
		"broken", res.Broken,
		"white", res.White,
	)
	return res
}

// ValidateCollections validates each named collection in order. An empty
// list validates CriticalCollections.
func (v *Validator) ValidateCollections(ctx context.Context, names []string) []CollectionResult {
	if len(names) == 0 {
		names = CriticalCollections
	}
	results := make([]CollectionResult, 0, len(names))
	for _, name := range names {
		results = append(results, v.ValidateCollection(ctx, name))
	}
	return results
}
