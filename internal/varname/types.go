// internal/varname/types.go
package varname

import "strings"

// Kind discriminates how much of a name could be parsed.
type Kind int

const (
	// Unparsed means no family could be determined.
	Unparsed Kind = iota
	// FamilyOnly means a known family prefix was found but no step.
	FamilyOnly
	// Parsed means both family and step were found.
	Parsed
)

func (k Kind) String() string {
	switch k {
	case Parsed:
		return "parsed"
	case FamilyOnly:
		return "family-only"
	default:
		return "unparsed"
	}
}

// Name is the structured representation of a variable name.
type Name struct {
	Kind Kind
	// Family is the first segment as written, e.g. "Grey".
	Family string
	// Step is the palette step digits, e.g. "2500". Empty unless Kind is Parsed.
	Step string
	// Property is the third segment, usually the weight, e.g. "Surface".
	Property string
	Raw      string
}

// PaletteFamily returns the lowercase family key used by palettes.
func (n Name) PaletteFamily() string {
	return strings.ToLower(n.Family)
}

// HasStep returns true if a palette step was extracted.
func (n Name) HasStep() bool {
	return n.Kind == Parsed && n.Step != ""
}

// String returns the original name.
func (n Name) String() string {
	return n.Raw
}
