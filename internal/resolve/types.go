package resolve

import (
	"strings"

	"github.com/vk/varcar/internal/tokens"
)

// DefaultMaxDepth is the hop cap used when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

// Reason classifies the outcome of a resolution.
type Reason int

const (
	Resolved Reason = iota
	NotFound
	NoValueForMode
	ExternalReference
	Circular
	UnknownValueShape
	DepthExceeded
)

func (r Reason) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case NoValueForMode:
		return "no_value_for_mode"
	case ExternalReference:
		return "external_reference"
	case Circular:
		return "circular"
	case UnknownValueShape:
		return "unknown_value_shape"
	case DepthExceeded:
		return "depth_exceeded"
	default:
		return "unknown"
	}
}

// Hop is one variable visited while resolving.
type Hop struct {
	VariableID     string
	VariableName   string
	CollectionName string
	Value          tokens.Value
	// HasValue is false when the variable had no value for the mode.
	HasValue bool
}

// Result is the outcome of resolving one variable under one mode.
type Result struct {
	VariableID string
	ModeID     string
	Reason     Reason
	// Color is set only when Reason is Resolved.
	Color tokens.Color
	// Path holds visited variable names followed by a terminal marker on
	// failure.
	Path     []string
	Hops     []Hop
	Warnings []string
}

// OK reports whether the chain ended at a direct color.
func (r Result) OK() bool {
	return r.Reason == Resolved
}

// IsCircular reports whether the chain looped or exceeded the hop cap.
func (r Result) IsCircular() bool {
	return r.Reason == Circular || r.Reason == DepthExceeded
}

// IsWhite reports whether the chain resolved to the white placeholder.
func (r Result) IsWhite() bool {
	return r.OK() && r.Color.IsWhitePlaceholder()
}

// Chain renders the path joined by " -> ".
func (r Result) Chain() string {
	return strings.Join(r.Path, " -> ")
}

// Options configures validation.
type Options struct {
	// AllModes checks every mode of a collection instead of the first one.
	AllModes bool
	// MaxDepth caps the number of hops. Zero means DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
