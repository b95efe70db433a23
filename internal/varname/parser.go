// internal/varname/parser.go
package varname

import (
	"regexp"
	"strconv"
	"strings"
)

// leadingPatterns match `Family/Step/...` and `Family/Step ...`.
var leadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\w+)/(\d+)/`),
	regexp.MustCompile(`^(\w+)/(\d+)\s`),
}

// stepRegex finds a 3 or 4 digit step segment anywhere in the name.
var stepRegex = regexp.MustCompile(`/(\d{3,4})/`)

// KnownFamilies are the palette families recognised by prefix when the
// leading patterns do not match.
var KnownFamilies = []string{"grey", "indigo", "gold", "saffron", "green", "red", "blue"}

// Parse builds a Name from a raw variable name. It never fails; names that
// carry no recognisable family come back with Kind Unparsed.
func Parse(raw string) Name {
	n := Name{Raw: raw, Property: segment(raw, 2)}

	for _, re := range leadingPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			n.Kind = Parsed
			n.Family = m[1]
			n.Step = m[2]
			return n
		}
	}

	lower := strings.ToLower(raw)
	for _, family := range KnownFamilies {
		if !strings.HasPrefix(lower, family+"/") {
			continue
		}
		n.Family = raw[:len(family)]
		if m := stepRegex.FindStringSubmatch(raw); m != nil {
			n.Kind = Parsed
			n.Step = m[1]
			return n
		}
		n.Kind = FamilyOnly
		return n
	}

	return n
}

// StepNumber returns the numeric step, or false when there is none.
func (n Name) StepNumber() (int, bool) {
	if !n.HasStep() {
		return 0, false
	}
	v, err := strconv.Atoi(n.Step)
	if err != nil {
		// Unreachable due to regex `\d+`
		return 0, false
	}
	return v, true
}

// Segments splits the raw name on `/`.
func (n Name) Segments() []string {
	return strings.Split(n.Raw, "/")
}

// IsExternalID reports whether a variable id refers to a foreign library.
func IsExternalID(id string) bool {
	return strings.Contains(id, "/")
}

func segment(raw string, i int) string {
	parts := strings.Split(raw, "/")
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
