package rules

import (
	"sort"
	"strings"
)

// Rules is the merged, validated rule set.
type Rules struct {
	Validation Validation
	Repair     Repair
	// Families is the fallback RGB table, in declaration order.
	Families []Family
}

// Validation configures alias validation.
type Validation struct {
	Collections []string
	AllModes    bool
	MaxDepth    int
}

// Repair configures value replacement.
type Repair struct {
	// Collections limits repair to the named collections. Empty means all.
	Collections []string
	// WhiteStepMinimum is the step from which the fallback table uses white.
	WhiteStepMinimum int
	// SkipMarker excludes variables whose name contains it.
	SkipMarker     string
	DefaultWeight  string
	FallbackFamily string
	Weights        map[string]float64
}

// Family is one row of the fallback RGB table.
type Family struct {
	Name string
	RGB  [3]float64
}

// AppliesTo reports whether repair should touch the named collection.
func (r Repair) AppliesTo(collection string) bool {
	if len(r.Collections) == 0 {
		return true
	}
	for _, c := range r.Collections {
		if c == collection {
			return true
		}
	}
	return false
}

// Skips reports whether a variable name carries the skip marker.
func (r Repair) Skips(name string) bool {
	return r.SkipMarker != "" && strings.Contains(name, r.SkipMarker)
}

// Alpha returns the alpha for a weight property. An exact key wins; otherwise
// the longest key contained in the property is used. The second result is
// false when the default weight was applied.
func (r Repair) Alpha(property string) (float64, bool) {
	if a, ok := r.Weights[property]; ok {
		return a, true
	}
	best := ""
	for _, key := range r.weightKeys() {
		if strings.Contains(property, key) && len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return r.Weights[best], true
	}
	return r.Weights[r.DefaultWeight], false
}

func (r Repair) weightKeys() []string {
	keys := make([]string, 0, len(r.Weights))
	for k := range r.Weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FamilyRGB returns the fallback RGB for a family name. An exact name wins;
// otherwise the longest table name the family starts with is used. The
// second result is false when the fallback family was applied.
func (r *Rules) FamilyRGB(name string) ([3]float64, bool) {
	var best *Family
	for i := range r.Families {
		f := &r.Families[i]
		if f.Name == name {
			return f.RGB, true
		}
		if strings.HasPrefix(name, f.Name) && (best == nil || len(f.Name) > len(best.Name)) {
			best = f
		}
	}
	if best != nil {
		return best.RGB, true
	}
	return r.fallbackRGB(), false
}

// WhiteRGB is the value used for steps at or above WhiteStepMinimum.
func (r *Rules) WhiteRGB() [3]float64 {
	return [3]float64{1, 1, 1}
}

func (r *Rules) fallbackRGB() [3]float64 {
	for _, f := range r.Families {
		if f.Name == r.Repair.FallbackFamily {
			return f.RGB
		}
	}
	return r.WhiteRGB()
}
