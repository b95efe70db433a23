package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"1 Appearance", "2 Fill emphasis", "3 Background Level",
		"4 Interaction state", "9 Theme", "10 Brand",
	}, r.Validation.Collections)
	assert.False(t, r.Validation.AllModes)
	assert.Equal(t, 64, r.Validation.MaxDepth)

	assert.Empty(t, r.Repair.Collections)
	assert.Equal(t, 2100, r.Repair.WhiteStepMinimum)
	assert.Equal(t, "[Semi semantics]", r.Repair.SkipMarker)
	assert.Equal(t, "Medium", r.Repair.DefaultWeight)
	assert.Len(t, r.Repair.Weights, 8)
	assert.InDelta(t, 1.0, r.Repair.Weights["Bold A11Y"], 1e-9)

	require.Len(t, r.Families, 14)
	assert.Equal(t, "Grey", r.Families[0].Name)
	assert.Equal(t, [3]float64{0.040, 0, 0.200}, r.Families[1].RGB)
}

func TestLoad_NoPathsIsDefault(t *testing.T) {
	r, err := Load(context.Background())
	require.NoError(t, err)
	d, err := Default()
	require.NoError(t, err)
	assert.Equal(t, d, r)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeRules(t, dir, "custom.hcl", `
validation {
  collections = ["9 Theme"]
  all_modes   = true
}

repair {
  collections = ["00_Semi semantics"]
  weights     = { Surface = 0.1, "Extra Bold" = 0.95 }
}

family "Indigo" { rgb = [0.5, 0.5, 0.5] }
family "Teal" { rgb = [0, 0.4, 0.4] }
`)

	r, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"9 Theme"}, r.Validation.Collections)
	assert.True(t, r.Validation.AllModes)
	assert.Equal(t, 64, r.Validation.MaxDepth, "unset attributes keep defaults")

	assert.Equal(t, []string{"00_Semi semantics"}, r.Repair.Collections)
	assert.InDelta(t, 0.1, r.Repair.Weights["Surface"], 1e-9)
	assert.InDelta(t, 0.95, r.Repair.Weights["Extra Bold"], 1e-9)
	assert.InDelta(t, 0.77, r.Repair.Weights["Medium"], 1e-9)

	rgb, ok := r.FamilyRGB("Indigo")
	assert.True(t, ok)
	assert.Equal(t, [3]float64{0.5, 0.5, 0.5}, rgb)
	assert.Len(t, r.Families, 15)
	assert.Equal(t, "Teal", r.Families[14].Name)
}

func TestLoad_DirectoryMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "10-base.hcl", `validation { max_depth = 10 }`)
	writeRules(t, dir, "20-override.hcl", `validation { max_depth = 20 }`)

	r, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 20, r.Validation.MaxDepth)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "syntax error",
			content: `validation {`,
			errMsg:  "failed to parse rules file",
		},
		{
			name:    "wrong attribute type",
			content: `validation { max_depth = "deep" }`,
			errMsg:  "failed to decode rules file",
		},
		{
			name:    "weights not numbers",
			content: `repair { weights = { Surface = "low" } }`,
			errMsg:  "weights must be an object of numbers",
		},
		{
			name:    "weight out of range",
			content: `repair { weights = { Surface = 2 } }`,
			errMsg:  "outside [0,1]",
		},
		{
			name:    "unknown default weight",
			content: `repair { default_weight = "Nope" }`,
			errMsg:  "is not a declared weight",
		},
		{
			name:    "short rgb",
			content: `family "X" { rgb = [1, 1] }`,
			errMsg:  "rgb must have 3 components",
		},
		{
			name:    "misspelled block",
			content: `valdation { all_modes = true }`,
			errMsg:  "Unsupported block type",
		},
		{
			name:    "unknown top-level attribute",
			content: `max_depth = 3`,
			errMsg:  "Unsupported argument",
		},
		{
			name:    "zero depth",
			content: `validation { max_depth = 0 }`,
			errMsg:  "max_depth must be at least 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRules(t, t.TempDir(), "bad.hcl", tc.content)
			_, err := Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to locate rules files")
}

func TestRepair_Alpha(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	testCases := []struct {
		property string
		want     float64
		matched  bool
	}{
		{"Surface", 0.08, true},
		{"Bold A11Y", 1.0, true},
		{"[Colour Mode] Bold A11Y", 1.0, true},
		{"[Colour Mode] Bold", 0.92, true},
		{"[Semi semantics] Heavy", 0.93, true},
		{"Unknown", 0.77, false},
		{"", 0.77, false},
	}

	for _, tc := range testCases {
		t.Run(tc.property, func(t *testing.T) {
			got, matched := r.Repair.Alpha(tc.property)
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.Equal(t, tc.matched, matched)
		})
	}
}

func TestRules_FamilyRGB(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	rgb, ok := r.FamilyRGB("Saffron")
	assert.True(t, ok)
	assert.Equal(t, [3]float64{0.110, 0.020, 0}, rgb)

	rgb, ok = r.FamilyRGB("Sky [1200] Alt")
	assert.True(t, ok)
	assert.Equal(t, [3]float64{0, 0.060, 0.100}, rgb)

	rgb, ok = r.FamilyRGB("Magenta")
	assert.False(t, ok)
	assert.Equal(t, [3]float64{1, 1, 1}, rgb, "unknown families fall back to Grey")
}

func TestRepair_Scope(t *testing.T) {
	rp := Repair{Collections: []string{"00_Semi semantics"}, SkipMarker: "[Semi semantics]"}
	assert.True(t, rp.AppliesTo("00_Semi semantics"))
	assert.False(t, rp.AppliesTo("9 Theme"))
	assert.True(t, Repair{}.AppliesTo("anything"))

	assert.True(t, rp.Skips("Indigo/1000/[Semi semantics] Bold"))
	assert.False(t, rp.Skips("Indigo/1000/Bold"))
	assert.False(t, Repair{}.Skips("Indigo/1000/[Semi semantics] Bold"))
}
