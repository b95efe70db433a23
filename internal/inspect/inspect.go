// Package inspect summarises the structure of a variables document: per
// collection counts, alias usage between collections, the collection layers,
// color families and per-mode alias traces.
package inspect

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/resolve"
	"github.com/vk/varcar/internal/tokens"
)

// ErrVariableNotFound is returned by Lookup when nothing matches.
var ErrVariableNotFound = errors.New("variable not found")

// ErrAmbiguousName is returned by Lookup when a name matches several
// variables and no collection narrows it down.
var ErrAmbiguousName = errors.New("variable name is ambiguous")

// Stats describes a whole document.
type Stats struct {
	Collections   int               `json:"collections" yaml:"collections"`
	Variables     int               `json:"variables" yaml:"variables"`
	ByType        map[string]int    `json:"variables_by_type" yaml:"variables_by_type"`
	Aliases       int               `json:"alias_values" yaml:"alias_values"`
	DirectColors  int               `json:"direct_color_values" yaml:"direct_color_values"`
	AliasPercent  float64           `json:"alias_percentage" yaml:"alias_percentage"`
	PerCollection []CollectionStats `json:"per_collection" yaml:"per_collection"`
	Layers        []Layer           `json:"layers" yaml:"layers"`
}

// CollectionStats describes one collection.
type CollectionStats struct {
	Name         string        `json:"name" yaml:"name"`
	ID           string        `json:"id" yaml:"id"`
	Modes        []string      `json:"modes" yaml:"modes"`
	Variables    int           `json:"variables" yaml:"variables"`
	Colors       int           `json:"color_variables" yaml:"color_variables"`
	Aliases      int           `json:"alias_values" yaml:"alias_values"`
	DirectColors int           `json:"direct_color_values" yaml:"direct_color_values"`
	AliasPercent float64       `json:"alias_percentage" yaml:"alias_percentage"`
	AliasTargets []AliasTarget `json:"alias_targets" yaml:"alias_targets"`
	Layer        int           `json:"layer" yaml:"layer"`
	Families     []FamilyCount `json:"families" yaml:"families"`
}

// FamilyCount is the number of COLOR variables sharing a first name segment.
type FamilyCount struct {
	Family        string   `json:"family" yaml:"family"`
	Count         int      `json:"count" yaml:"count"`
	Subcategories []string `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
}

// Analyze computes statistics over doc, including which collections alias
// into which and the layer each collection sits at.
func Analyze(doc *tokens.Document) Stats {
	idx := index.Build(doc)
	s := Stats{
		Collections:   len(doc.Collections),
		ByType:        make(map[string]int),
		PerCollection: make([]CollectionStats, 0, len(doc.Collections)),
	}
	for _, c := range doc.Collections {
		cs := analyzeCollection(idx, c)
		s.Variables += cs.Variables
		s.Aliases += cs.Aliases
		s.DirectColors += cs.DirectColors
		for _, v := range c.Variables {
			t := v.ResolvedType
			if t == "" {
				t = "UNKNOWN"
			}
			s.ByType[t]++
		}
		s.PerCollection = append(s.PerCollection, cs)
	}
	s.AliasPercent = percent(s.Aliases, s.Aliases+s.DirectColors)
	s.Layers = assignLayers(s.PerCollection)
	return s
}

func analyzeCollection(idx *index.Index, c *tokens.Collection) CollectionStats {
	cs := CollectionStats{Name: c.Name, ID: c.ID, Variables: len(c.Variables), Modes: make([]string, 0, len(c.Modes))}
	for _, m := range c.Modes {
		cs.Modes = append(cs.Modes, m.Name)
	}
	for _, v := range c.Variables {
		if v.ResolvedType == tokens.ResolvedTypeColor {
			cs.Colors++
		}
		for _, val := range v.ValuesByMode {
			switch val.Kind {
			case tokens.KindAlias:
				cs.Aliases++
			case tokens.KindColor:
				cs.DirectColors++
			}
		}
	}
	cs.AliasPercent = percent(cs.Aliases, cs.Aliases+cs.DirectColors)
	cs.AliasTargets = aliasTargets(idx, c)
	cs.Families = Families(c)
	return cs
}

// maxSubcategories bounds FamilyCount.Subcategories.
const maxSubcategories = 5

// Families groups the COLOR variables of c by their first name segment,
// sorted by family name.
func Families(c *tokens.Collection) []FamilyCount {
	counts := make(map[string]int)
	subs := make(map[string]map[string]bool)
	for _, v := range c.Variables {
		if v.ResolvedType != tokens.ResolvedTypeColor {
			continue
		}
		segs := strings.Split(v.Name, "/")
		family := segs[0]
		counts[family]++
		if len(segs) >= 2 {
			if subs[family] == nil {
				subs[family] = make(map[string]bool)
			}
			subs[family][segs[1]] = true
		}
	}

	out := make([]FamilyCount, 0, len(counts))
	for family, n := range counts {
		fc := FamilyCount{Family: family, Count: n}
		for sub := range subs[family] {
			fc.Subcategories = append(fc.Subcategories, sub)
		}
		sort.Strings(fc.Subcategories)
		if len(fc.Subcategories) > maxSubcategories {
			fc.Subcategories = fc.Subcategories[:maxSubcategories]
		}
		out = append(out, fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Family < out[j].Family })
	return out
}

// Lookup finds a variable by id, then by exact name. collection, when set,
// restricts name matches to that collection.
func Lookup(idx *index.Index, nameOrID, collection string) (*index.Entry, error) {
	if e, ok := idx.Variable(nameOrID); ok {
		return e, nil
	}
	var matches []*index.Entry
	for _, e := range idx.FindByName(nameOrID) {
		if collection == "" || e.CollectionName == collection {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, nameOrID)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d variables, use --collection or an id", ErrAmbiguousName, nameOrID, len(matches))
	}
}

// ModeTrace is the resolution of one variable under one mode.
type ModeTrace struct {
	ModeID   string
	ModeName string
	Result   resolve.Result
}

// Trace is the per-mode resolution of one variable.
type Trace struct {
	VariableID     string
	VariableName   string
	CollectionName string
	Modes          []ModeTrace
}

// TraceVariable resolves entry under every mode of its collection, or only
// under the mode whose id or name equals mode when it is set.
func TraceVariable(r *resolve.Resolver, entry *index.Entry, mode string) (Trace, error) {
	t := Trace{
		VariableID:     entry.Variable.ID,
		VariableName:   entry.Variable.Name,
		CollectionName: entry.CollectionName,
	}
	for _, m := range entry.Modes {
		if mode != "" && m.ModeID != mode && m.Name != mode {
			continue
		}
		t.Modes = append(t.Modes, ModeTrace{
			ModeID:   m.ModeID,
			ModeName: m.Name,
			Result:   r.Resolve(entry.Variable.ID, m.ModeID),
		})
	}
	if mode != "" && len(t.Modes) == 0 {
		return Trace{}, fmt.Errorf("collection %q has no mode %q", entry.CollectionName, mode)
	}
	return t, nil
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
