// Package palette holds a reference palette of OKLCH color steps.
//
// A palette document maps a lowercase family name to its steps:
//
//	{"indigo": {"base": "oklch(...)", "100": "oklch(97% 0.01 280)", ...}}
//
// The `base` key inside a family is ignored. Steps are converted to sRGB on
// first use and cached.
package palette

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vk/varcar/internal/oklch"
)

// baseKey is the per-family key that is not a step.
const baseKey = "base"

// Palette is a family -> step -> OKLCH table with a conversion cache.
type Palette struct {
	steps map[string]map[string]string

	mu    sync.Mutex
	cache map[string]oklch.RGB
}

// Match is the palette step closest to a color.
type Match struct {
	Family   string
	Step     string
	RGB      oklch.RGB
	Distance float64
}

// Load decodes a palette document from r.
func Load(r io.Reader) (*Palette, error) {
	var raw map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode palette: %w", err)
	}
	return New(raw), nil
}

// New builds a palette from an in-memory table. Family names are lowercased.
func New(table map[string]map[string]string) *Palette {
	p := &Palette{
		steps: make(map[string]map[string]string, len(table)),
		cache: make(map[string]oklch.RGB),
	}
	for family, steps := range table {
		fam := strings.ToLower(family)
		dst := make(map[string]string, len(steps))
		for step, value := range steps {
			if step == baseKey {
				continue
			}
			dst[step] = value
		}
		p.steps[fam] = dst
	}
	return p
}

// RGB returns the sRGB value of family/step. Family lookup is case-insensitive.
func (p *Palette) RGB(family, step string) (oklch.RGB, bool) {
	fam := strings.ToLower(family)
	value, ok := p.steps[fam][step]
	if !ok {
		return oklch.RGB{}, false
	}

	key := fam + "/" + step
	p.mu.Lock()
	defer p.mu.Unlock()
	if rgb, ok := p.cache[key]; ok {
		return rgb, true
	}
	rgb := oklch.ConvertString(value)
	p.cache[key] = rgb
	return rgb, true
}

// OKLCH returns the raw OKLCH string of family/step.
func (p *Palette) OKLCH(family, step string) (string, bool) {
	v, ok := p.steps[strings.ToLower(family)][step]
	return v, ok
}

// Families returns the family names, sorted.
func (p *Palette) Families() []string {
	out := make([]string, 0, len(p.steps))
	for f := range p.steps {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Steps returns the steps of family sorted numerically. Non-numeric steps
// sort after numeric ones, alphabetically.
func (p *Palette) Steps(family string) []string {
	steps := p.steps[strings.ToLower(family)]
	out := make([]string, 0, len(steps))
	for s := range steps {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// Len returns the total number of steps across all families.
func (p *Palette) Len() int {
	n := 0
	for _, steps := range p.steps {
		n += len(steps)
	}
	return n
}

// Nearest returns the step with the smallest CIE Lab distance to c. It
// returns false for an empty palette.
func (p *Palette) Nearest(c oklch.RGB) (Match, bool) {
	target := c.Colorful()
	best := Match{Distance: math.Inf(1)}
	found := false

	for _, family := range p.Families() {
		for _, step := range p.Steps(family) {
			rgb, _ := p.RGB(family, step)
			d := target.DistanceLab(colorful.Color{R: rgb.R, G: rgb.G, B: rgb.B})
			if d < best.Distance {
				best = Match{Family: family, Step: step, RGB: rgb, Distance: d}
				found = true
			}
		}
	}
	return best, found
}
