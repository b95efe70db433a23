// Package oklch converts OKLCH color strings into gamma-encoded sRGB.
//
// The conversion goes OKLCH -> OKLab -> linear sRGB -> sRGB. Linear channels
// are clamped to [0,1] before gamma encoding, so out-of-gamut inputs land on
// the nearest face of the sRGB cube rather than outside it.
package oklch

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a gamma-encoded sRGB triple with channels in [0,1].
type RGB struct {
	R float64
	G float64
	B float64
}

// Hex returns the #rrggbb form of the color.
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

// Colorful returns the color as a go-colorful value.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Round returns the color with every channel rounded to the given number of
// decimal places.
func (c RGB) Round(places int) RGB {
	return RGB{R: round(c.R, places), G: round(c.G, places), B: round(c.B, places)}
}

// LCH is a parsed OKLCH value. L is in [0,1], H is in degrees.
type LCH struct {
	L float64
	C float64
	H float64
}

var oklchRegex = regexp.MustCompile(`oklch\(([^)]+)\)`)

// Parse reads an `oklch(L% C H)` string. L is a percentage. Extra components
// such as an alpha after `/` are ignored.
func Parse(s string) (LCH, error) {
	m := oklchRegex.FindStringSubmatch(s)
	if m == nil {
		return LCH{}, fmt.Errorf("not an oklch() value: %q", s)
	}
	parts := strings.Fields(m[1])
	if len(parts) < 3 {
		return LCH{}, fmt.Errorf("oklch value %q needs 3 components, got %d", s, len(parts))
	}

	l, err := strconv.ParseFloat(strings.TrimRight(parts[0], "%"), 64)
	if err != nil {
		return LCH{}, fmt.Errorf("invalid lightness in %q: %w", s, err)
	}
	c, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return LCH{}, fmt.Errorf("invalid chroma in %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return LCH{}, fmt.Errorf("invalid hue in %q: %w", s, err)
	}
	return LCH{L: l / 100, C: c, H: h}, nil
}

// Convert maps OKLCH coordinates to sRGB.
func Convert(l, c, h float64) RGB {
	hr := h * math.Pi / 180
	a := c * math.Cos(hr)
	b := c * math.Sin(hr)

	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	ll := l_ * l_ * l_
	mm := m_ * m_ * m_
	ss := s_ * s_ * s_

	return RGB{
		R: gamma(+4.0767416621*ll - 3.3077115913*mm + 0.2309699292*ss),
		G: gamma(-1.2684380046*ll + 2.6097574011*mm - 0.3413193965*ss),
		B: gamma(-0.0041960863*ll - 0.7034186147*mm + 1.7076147010*ss),
	}
}

// Convert maps a parsed value to sRGB.
func (v LCH) Convert() RGB {
	return Convert(v.L, v.C, v.H)
}

// ConvertString parses and converts s. Malformed input yields black.
func ConvertString(s string) RGB {
	v, err := Parse(s)
	if err != nil {
		return RGB{}
	}
	return v.Convert()
}

func gamma(v float64) float64 {
	v = math.Max(0, math.Min(1, v))
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
