package resolve

import (
	"fmt"

	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/tokens"
	"github.com/vk/varcar/internal/varname"
)

// Resolver follows alias chains over an index. It holds no per-walk state
// and is safe for concurrent use.
type Resolver struct {
	idx      *index.Index
	maxDepth int
}

// New creates a resolver over idx.
func New(idx *index.Index, opts Options) *Resolver {
	return &Resolver{idx: idx, maxDepth: opts.maxDepth()}
}

// Index returns the index the resolver walks.
func (r *Resolver) Index() *index.Index {
	return r.idx
}

// Resolve follows variableID under modeID until it reaches a direct color or
// a failure.
func (r *Resolver) Resolve(variableID, modeID string) Result {
	res := Result{VariableID: variableID, ModeID: modeID}
	onPath := make(map[string]bool)
	current := variableID

	for {
		// The cycle check runs before dereferencing the target.
		if onPath[current] {
			return res.fail(Circular, "CIRCULAR: "+current)
		}
		if len(res.Hops) >= r.maxDepth {
			return res.fail(DepthExceeded, "CIRCULAR: "+current)
		}

		entry, ok := r.idx.Variable(current)
		if !ok {
			return res.fail(NotFound, "NOT_FOUND: "+current)
		}

		onPath[current] = true
		res.Path = append(res.Path, entry.Variable.Name)
		hop := Hop{
			VariableID:     current,
			VariableName:   entry.Variable.Name,
			CollectionName: entry.CollectionName,
		}

		if len(res.Hops) > 0 && !entry.HasMode(modeID) {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"mode %s is not declared by collection %q of %q", modeID, entry.CollectionName, entry.Variable.Name))
		}

		value, ok := entry.Variable.ValuesByMode[modeID]
		if !ok || value.IsEmpty() {
			res.Hops = append(res.Hops, hop)
			return res.fail(NoValueForMode, "NO_VALUE_FOR_MODE: "+modeID)
		}
		hop.Value = value
		hop.HasValue = true
		res.Hops = append(res.Hops, hop)

		switch value.Kind {
		case tokens.KindColor:
			res.Reason = Resolved
			res.Color = value.Color
			return res
		case tokens.KindAlias:
			if varname.IsExternalID(value.AliasID) {
				return res.fail(ExternalReference, "EXTERNAL_REF: "+value.AliasID)
			}
			current = value.AliasID
		default:
			return res.fail(UnknownValueShape, "UNKNOWN_VALUE_TYPE")
		}
	}
}

// ResolveAllModes resolves variableID under every mode of its collection,
// in declared order.
func (r *Resolver) ResolveAllModes(variableID string) ([]Result, error) {
	entry, ok := r.idx.Variable(variableID)
	if !ok {
		return nil, fmt.Errorf("variable %q not found", variableID)
	}
	results := make([]Result, 0, len(entry.Modes))
	for _, m := range entry.Modes {
		results = append(results, r.Resolve(variableID, m.ModeID))
	}
	return results, nil
}

func (res Result) fail(reason Reason, marker string) Result {
	res.Reason = reason
	res.Path = append(res.Path, marker)
	return res
}
