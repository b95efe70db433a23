package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/tokens"
)

func validationIndex() *index.Index {
	return newTestIndex(
		variable("V:proper", "Proper", map[string]tokens.Value{light: color(0.2, 0.3, 0.4, 1), dark: alias("V:404")}),
		variable("V:white", "White", map[string]tokens.Value{light: color(1, 1, 1, 0.08), dark: color(0, 0, 0, 1)}),
		variable("V:ext", "Ext", map[string]tokens.Value{light: alias("Lib/V:1"), dark: alias("Lib/V:1")}),
		variable("V:c1", "Cycle1", map[string]tokens.Value{light: alias("V:c2"), dark: alias("V:c2")}),
		variable("V:c2", "Cycle2", map[string]tokens.Value{light: alias("V:c1"), dark: alias("V:c1")}),
		variable("V:nf", "Dangling", map[string]tokens.Value{light: alias("V:404"), dark: alias("V:404")}),
	)
}

func TestValidateCollection_FirstModeOnly(t *testing.T) {
	v := NewValidator(validationIndex(), Options{})

	got := v.ValidateCollection(context.Background(), "Test")

	assert.Empty(t, got.Error)
	assert.Equal(t, []string{"Light"}, got.ModesChecked)
	assert.Equal(t, 6, got.Total)
	assert.Equal(t, 2, got.Valid)
	assert.Equal(t, 4, got.Broken)
	assert.Equal(t, 2, got.Circular)
	assert.Equal(t, 1, got.External)
	assert.Equal(t, 1, got.White)
	assert.Equal(t, 1, got.Proper)
	require.Len(t, got.BrokenExamples, 4)
	assert.Equal(t, BrokenExample{VariableName: "Ext", Chain: "Ext -> EXTERNAL_REF: Lib/V:1"}, got.BrokenExamples[0])
	assert.True(t, got.HasIssues())
}

func TestValidateCollection_AllModes(t *testing.T) {
	v := NewValidator(validationIndex(), Options{AllModes: true})

	got := v.ValidateCollection(context.Background(), "Test")

	assert.Equal(t, []string{"Light", "Dark"}, got.ModesChecked)
	assert.Equal(t, 1, got.Valid, "only the white variable resolves in every mode")
	assert.Equal(t, 5, got.Broken)
	assert.Equal(t, 1, got.White)
	assert.Equal(t, 0, got.Proper)
	require.NotEmpty(t, got.BrokenExamples)
	assert.Equal(t, "Dark", got.BrokenExamples[0].Mode)
	assert.Equal(t, "Proper -> NOT_FOUND: V:404", got.BrokenExamples[0].Chain)
}

func TestValidateCollection_ExampleCap(t *testing.T) {
	var vars []*tokens.Variable
	for i := 0; i < 8; i++ {
		vars = append(vars, variable(string(rune('a'+i)), "Broken", map[string]tokens.Value{light: alias("V:404")}))
	}
	v := NewValidator(newTestIndex(vars...), Options{})

	got := v.ValidateCollection(context.Background(), "Test")
	assert.Equal(t, 8, got.Broken)
	assert.Len(t, got.BrokenExamples, MaxBrokenExamples)
}

func TestValidateCollection_Errors(t *testing.T) {
	doc := &tokens.Document{Collections: []*tokens.Collection{{ID: "C:x", Name: "Empty"}}}
	v := NewValidator(index.Build(doc), Options{})

	missing := v.ValidateCollection(context.Background(), "9 Theme")
	assert.Equal(t, "Collection not found", missing.Error)
	assert.False(t, missing.HasIssues())

	noModes := v.ValidateCollection(context.Background(), "Empty")
	assert.Equal(t, "No modes found", noModes.Error)
}

func TestValidateCollections_DefaultsToCritical(t *testing.T) {
	v := NewValidator(validationIndex(), Options{})

	got := v.ValidateCollections(context.Background(), nil)
	require.Len(t, got, len(CriticalCollections))
	for i, r := range got {
		assert.Equal(t, CriticalCollections[i], r.CollectionName)
		assert.Equal(t, "Collection not found", r.Error)
	}

	got = v.ValidateCollections(context.Background(), []string{"Test"})
	require.Len(t, got, 1)
	assert.Equal(t, Totals{Valid: 2, Broken: 4, White: 1, Proper: 1}, Sum(got))
}
