package inspect

import (
	"sort"

	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/tokens"
	"github.com/vk/varcar/internal/varname"
)

// Alias targets that are not collections of the document.
const (
	ExternalTarget = "(external)"
	MissingTarget  = "(missing)"
)

// AliasTarget counts the alias values of a collection that point into one
// target collection.
type AliasTarget struct {
	Collection string `json:"collection" yaml:"collection"`
	Aliases    int    `json:"aliases" yaml:"aliases"`
}

// Layer groups the collections at one level of the alias hierarchy, in
// document order. Level 0 collections alias into no other collection.
type Layer struct {
	Level       int      `json:"level" yaml:"level"`
	Collections []string `json:"collections" yaml:"collections"`
}

// aliasTargets counts the alias values of c by the collection their target
// lives in, most used first.
func aliasTargets(idx *index.Index, c *tokens.Collection) []AliasTarget {
	counts := make(map[string]int)
	for _, v := range c.Variables {
		for _, val := range v.ValuesByMode {
			if val.Kind != tokens.KindAlias {
				continue
			}
			switch e, ok := idx.Variable(val.AliasID); {
			case varname.IsExternalID(val.AliasID):
				counts[ExternalTarget]++
			case ok:
				counts[e.CollectionName]++
			default:
				counts[MissingTarget]++
			}
		}
	}

	out := make([]AliasTarget, 0, len(counts))
	for name, n := range counts {
		out = append(out, AliasTarget{Collection: name, Aliases: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Aliases != out[j].Aliases {
			return out[i].Aliases > out[j].Aliases
		}
		return out[i].Collection < out[j].Collection
	})
	return out
}

// assignLayers sets the Layer of every collection to one above the deepest
// collection it aliases into and returns the layers in level order. Aliases
// inside a collection, and edges back into a collection still being visited,
// do not raise the level.
func assignLayers(per []CollectionStats) []Layer {
	deps := make(map[string][]string, len(per))
	for _, cs := range per {
		for _, t := range cs.AliasTargets {
			switch t.Collection {
			case cs.Name, ExternalTarget, MissingTarget:
				continue
			}
			deps[cs.Name] = append(deps[cs.Name], t.Collection)
		}
	}

	levels := make(map[string]int, len(per))
	visiting := make(map[string]bool)
	var visit func(name string) int
	visit = func(name string) int {
		if l, ok := levels[name]; ok {
			return l
		}
		visiting[name] = true
		level := 0
		for _, dep := range deps[name] {
			if visiting[dep] {
				continue
			}
			if l := visit(dep) + 1; l > level {
				level = l
			}
		}
		visiting[name] = false
		levels[name] = level
		return level
	}

	byLevel := make(map[int][]string)
	for i := range per {
		per[i].Layer = visit(per[i].Name)
		byLevel[per[i].Layer] = append(byLevel[per[i].Layer], per[i].Name)
	}

	out := make([]Layer, 0, len(byLevel))
	for level, names := range byLevel {
		out = append(out, Layer{Level: level, Collections: names})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
