package rules

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/fsutil"
)

//go:embed defaults.hcl
var defaultsHCL []byte

// defaultsFilename names the embedded file in diagnostics.
const defaultsFilename = "defaults.hcl"

// fileRoot decodes every top-level block a rules file may contain. Anything
// else is reported as a diagnostic.
type fileRoot struct {
	Validation *validationBlock `hcl:"validation,block"`
	Repair     *repairBlock     `hcl:"repair,block"`
	Families   []*familyBlock   `hcl:"family,block"`
}

type validationBlock struct {
	Collections *[]string `hcl:"collections,optional"`
	AllModes    *bool     `hcl:"all_modes,optional"`
	MaxDepth    *int      `hcl:"max_depth,optional"`
}

type repairBlock struct {
	Collections      *[]string      `hcl:"collections,optional"`
	WhiteStepMinimum *int           `hcl:"white_step_minimum,optional"`
	SkipMarker       *string        `hcl:"skip_marker,optional"`
	DefaultWeight    *string        `hcl:"default_weight,optional"`
	FallbackFamily   *string        `hcl:"fallback_family,optional"`
	Weights          hcl.Expression `hcl:"weights,optional"`
}

type familyBlock struct {
	Name string    `hcl:"name,label"`
	RGB  []float64 `hcl:"rgb"`
}

// Default returns the built-in rules.
func Default() (*Rules, error) {
	r := &Rules{Repair: Repair{Weights: map[string]float64{}}}
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(defaultsHCL, defaultsFilename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse built-in rules: %w", diags)
	}
	if err := r.merge(file.Body, defaultsFilename); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("built-in rules: %w", err)
	}
	return r, nil
}

// Load returns the built-in rules merged with every .hcl file found under
// paths. Paths may be files or directories. Missing paths are an error.
func Load(ctx context.Context, paths ...string) (*Rules, error) {
	logger := ctxlog.FromContext(ctx)

	r, err := Default()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logger.Debug("Using built-in rules.")
		return r, nil
	}

	files, err := fsutil.ExpandPaths(paths, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to locate rules files: %w", err)
	}
	logger.Debug("Discovered rules files.", "count", len(files))

	parser := hclparse.NewParser()
	for _, path := range files {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse rules file %s: %w", path, diags)
		}
		if err := r.merge(file.Body, path); err != nil {
			return nil, err
		}
		logger.Debug("Merged rules file.", "path", path)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	logger.Debug("Rules loaded.",
		"validation_collections", len(r.Validation.Collections),
		"weights", len(r.Repair.Weights),
		"families", len(r.Families),
	)
	return r, nil
}

// merge decodes body and overlays every attribute it sets onto r.
func (r *Rules) merge(body hcl.Body, filename string) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode rules file %s: %w", filename, diags)
	}

	if v := root.Validation; v != nil {
		if v.Collections != nil {
			r.Validation.Collections = append([]string(nil), (*v.Collections)...)
		}
		if v.AllModes != nil {
			r.Validation.AllModes = *v.AllModes
		}
		if v.MaxDepth != nil {
			r.Validation.MaxDepth = *v.MaxDepth
		}
	}

	if rp := root.Repair; rp != nil {
		if rp.Collections != nil {
			r.Repair.Collections = append([]string(nil), (*rp.Collections)...)
		}
		if rp.WhiteStepMinimum != nil {
			r.Repair.WhiteStepMinimum = *rp.WhiteStepMinimum
		}
		if rp.SkipMarker != nil {
			r.Repair.SkipMarker = *rp.SkipMarker
		}
		if rp.DefaultWeight != nil {
			r.Repair.DefaultWeight = *rp.DefaultWeight
		}
		if rp.FallbackFamily != nil {
			r.Repair.FallbackFamily = *rp.FallbackFamily
		}
		weights, err := decodeWeights(rp.Weights)
		if err != nil {
			return fmt.Errorf("rules file %s: %w", filename, err)
		}
		for k, v := range weights {
			r.Repair.Weights[k] = v
		}
	}

	for _, fb := range root.Families {
		if len(fb.RGB) != 3 {
			return fmt.Errorf("rules file %s: family %q: rgb must have 3 components, got %d", filename, fb.Name, len(fb.RGB))
		}
		r.setFamily(Family{Name: fb.Name, RGB: [3]float64{fb.RGB[0], fb.RGB[1], fb.RGB[2]}})
	}
	return nil
}

// decodeWeights converts the `weights` object into a Go map. A missing
// attribute yields a nil map.
func decodeWeights(expr hcl.Expression) (map[string]float64, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid weights: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}

	mapVal, err := convert.Convert(val, cty.Map(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("weights must be an object of numbers: %w", err)
	}
	var out map[string]float64
	if err := gocty.FromCtyValue(mapVal, &out); err != nil {
		return nil, fmt.Errorf("weights must be an object of numbers: %w", err)
	}
	return out, nil
}

func (r *Rules) setFamily(f Family) {
	for i := range r.Families {
		if r.Families[i].Name == f.Name {
			r.Families[i] = f
			return
		}
	}
	r.Families = append(r.Families, f)
}

func (r *Rules) validate() error {
	if r.Validation.MaxDepth < 1 {
		return fmt.Errorf("validation.max_depth must be at least 1, got %d", r.Validation.MaxDepth)
	}
	for name, a := range r.Repair.Weights {
		if a < 0 || a > 1 {
			return fmt.Errorf("repair.weights[%q] = %v is outside [0,1]", name, a)
		}
	}
	if _, ok := r.Repair.Weights[r.Repair.DefaultWeight]; !ok {
		return fmt.Errorf("repair.default_weight %q is not a declared weight", r.Repair.DefaultWeight)
	}
	for _, f := range r.Families {
		for _, ch := range f.RGB {
			if ch < 0 || ch > 1 {
				return fmt.Errorf("family %q: rgb component %v is outside [0,1]", f.Name, ch)
			}
		}
	}
	return nil
}
