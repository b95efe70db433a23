// Package index builds lookup tables over a variables document.
//
// # Why Index Exists
//
// Alias values reference their targets by opaque variable id, and a target
// can live in any collection of the document. The index flattens the
// document into id-keyed maps once so that resolution, tracing and repair
// never scan collections.
//
// Every indexed variable is annotated with its owning collection so callers
// can report where a hop landed and which modes that collection declares.
//
// # Duplicates
//
// Ids are expected to be globally unique. The index does not deduplicate:
// when an id appears twice, the later occurrence in document order wins.
//
// The index is read-only after Build and safe for concurrent reads.
package index

import "github.com/vk/varcar/internal/tokens"

// Entry is an indexed variable annotated with its owning collection.
type Entry struct {
	Variable       *tokens.Variable
	CollectionID   string
	CollectionName string
	Modes          []tokens.Mode
}

// HasMode reports whether the owning collection declares modeID.
func (e *Entry) HasMode(modeID string) bool {
	for _, m := range e.Modes {
		if m.ModeID == modeID {
			return true
		}
	}
	return false
}

// Index maps variable and collection ids to document entities.
type Index struct {
	variables   map[string]*Entry
	collections map[string]*tokens.Collection
	byName      map[string]*tokens.Collection
	order       []string
}

// Build indexes every collection and variable of doc.
func Build(doc *tokens.Document) *Index {
	idx := &Index{
		variables:   make(map[string]*Entry, doc.VariableCount()),
		collections: make(map[string]*tokens.Collection, len(doc.Collections)),
		byName:      make(map[string]*tokens.Collection, len(doc.Collections)),
	}

	for _, c := range doc.Collections {
		idx.collections[c.ID] = c
		if _, seen := idx.byName[c.Name]; !seen {
			idx.byName[c.Name] = c
		}
		for _, v := range c.Variables {
			if _, seen := idx.variables[v.ID]; !seen {
				idx.order = append(idx.order, v.ID)
			}
			idx.variables[v.ID] = &Entry{
				Variable:       v,
				CollectionID:   c.ID,
				CollectionName: c.Name,
				Modes:          c.Modes,
			}
		}
	}
	return idx
}

// Variable returns the entry for id.
func (idx *Index) Variable(id string) (*Entry, bool) {
	e, ok := idx.variables[id]
	return e, ok
}

// Collection returns the collection with the given id.
func (idx *Index) Collection(id string) (*tokens.Collection, bool) {
	c, ok := idx.collections[id]
	return c, ok
}

// CollectionByName returns the first collection with the given name.
func (idx *Index) CollectionByName(name string) (*tokens.Collection, bool) {
	c, ok := idx.byName[name]
	return c, ok
}

// FindByName returns every entry whose variable name equals name, in
// document order.
func (idx *Index) FindByName(name string) []*Entry {
	var out []*Entry
	for _, id := range idx.order {
		if e := idx.variables[id]; e.Variable.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of distinct variable ids.
func (idx *Index) Len() int {
	return len(idx.variables)
}
