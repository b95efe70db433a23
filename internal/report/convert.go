package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/varcar/internal/oklch"
	"github.com/vk/varcar/internal/palette"
)

// Conversion is one OKLCH string converted to sRGB.
type Conversion struct {
	Input   string  `json:"input" yaml:"input"`
	R       float64 `json:"r" yaml:"r"`
	G       float64 `json:"g" yaml:"g"`
	B       float64 `json:"b" yaml:"b"`
	Hex     string  `json:"hex" yaml:"hex"`
	Closest string  `json:"closest,omitempty" yaml:"closest,omitempty"`
}

// NewConversion rounds rgb to four decimals and, when pal is set, finds the
// closest palette step.
func NewConversion(input string, rgb oklch.RGB, pal *palette.Palette) Conversion {
	rounded := rgb.Round(4)
	c := Conversion{Input: input, R: rounded.R, G: rounded.G, B: rounded.B, Hex: rgb.Hex()}
	if pal != nil {
		if m, ok := pal.Nearest(rgb); ok {
			c.Closest = m.Family + "/" + m.Step
		}
	}
	return c
}

// WriteConversions writes cs in the given format.
func WriteConversions(w io.Writer, cs []Conversion, format Format) error {
	if !format.isText() {
		return encode(w, format, cs)
	}
	s := newStyles(w)
	var b strings.Builder
	for _, c := range cs {
		line := fmt.Sprintf("%s  r=%.4f g=%.4f b=%.4f  %s", c.Input, c.R, c.G, c.B, s.title.Render(c.Hex))
		if c.Closest != "" {
			line += "  " + s.muted.Render("~"+c.Closest)
		}
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
