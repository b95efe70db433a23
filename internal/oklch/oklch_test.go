package oklch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func TestConvert_RegressionPin(t *testing.T) {
	got := ConvertString("oklch(50% 0.1 180)")

	assert.InDelta(t, 0.0, got.R, delta)
	assert.InDelta(t, 0.45963572030447036, got.G, 1e-6)
	assert.InDelta(t, 0.3974588511912135, got.B, 1e-6)
	assert.Equal(t, "#007565", got.Hex())
	assert.Equal(t, RGB{R: 0, G: 0.4596, B: 0.3975}, got.Round(4))
}

func TestConvert_AchromaticExtremes(t *testing.T) {
	// 1.055*1 - 0.055 is one ulp below 1 in float64.
	const nearlyOne = 0.9999999999999999
	white := Convert(1, 0, 0)
	assert.Equal(t, RGB{R: nearlyOne, G: nearlyOne, B: nearlyOne}, white)
	assert.Equal(t, "#ffffff", white.Hex())
	assert.Equal(t, RGB{R: 1, G: 1, B: 1}, white.Round(4))

	black := Convert(0, 0, 0)
	assert.Equal(t, RGB{}, black)
}

func TestConvert_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, Convert(0.7, 0.15, 30), Convert(0.7, 0.15, 30))
	}
}

func TestConvert_ClampsOutOfGamut(t *testing.T) {
	got := Convert(0.9, 0.4, 140)
	for _, ch := range []float64{got.R, got.G, got.B} {
		assert.GreaterOrEqual(t, ch, 0.0)
		assert.LessOrEqual(t, ch, 1.0)
	}
}

func TestConvert_KnownValues(t *testing.T) {
	testCases := []struct {
		input string
		hex   string
	}{
		{"oklch(70% 0.15 30)", "#ed7665"},
		{"oklch(97% 0.01 250)", "#f0f6fc"},
		{"oklch(30% 0.1 270)", "#1b275f"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.hex, ConvertString(tc.input).Hex())
		})
	}
}

func TestParse(t *testing.T) {
	v, err := Parse("oklch(62.5% 0.2 120.5)")
	require.NoError(t, err)
	assert.InDelta(t, 0.625, v.L, delta)
	assert.InDelta(t, 0.2, v.C, delta)
	assert.InDelta(t, 120.5, v.H, delta)

	v, err = Parse("oklch(50% 0.1 180 / 0.5)")
	require.NoError(t, err)
	assert.InDelta(t, 180.0, v.H, delta)
}

func TestParse_Malformed(t *testing.T) {
	testCases := []string{
		"",
		"rgb(1 2 3)",
		"oklch(50%)",
		"oklch(abc 0.1 180)",
		"oklch(50% x 180)",
		"oklch(50% 0.1 y)",
	}

	for _, input := range testCases {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.Equal(t, RGB{}, ConvertString(input))
		})
	}
}
