package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/varcar/internal/index"
	"github.com/vk/varcar/internal/resolve"
	"github.com/vk/varcar/internal/tokens"
)

func testDoc() *tokens.Document {
	c := func(r, g, b float64) tokens.Value { return tokens.NewColor(tokens.Color{R: r, G: g, B: b, A: 1}) }
	return &tokens.Document{Collections: []*tokens.Collection{
		{
			ID:    "C:prim",
			Name:  "00_Semi semantics",
			Modes: []tokens.Mode{{ModeID: "1:0", Name: "Light"}, {ModeID: "1:1", Name: "Dark"}},
			Variables: []*tokens.Variable{
				{ID: "V:g", Name: "Grey/2500/Surface", ResolvedType: "COLOR", ValuesByMode: map[string]tokens.Value{"1:0": c(1, 1, 1), "1:1": c(0, 0, 0)}},
				{ID: "V:i", Name: "Indigo/1000/Bold", ResolvedType: "COLOR", ValuesByMode: map[string]tokens.Value{"1:0": c(0, 0, 1), "1:1": c(0, 0, 0.5)}},
				{ID: "V:i2", Name: "Indigo/700/Low", ResolvedType: "COLOR", ValuesByMode: map[string]tokens.Value{"1:0": tokens.NewAlias("V:i"), "1:1": tokens.NewAlias("V:i")}},
				{ID: "V:s", Name: "Spacing/4", ResolvedType: "FLOAT"},
			},
		},
		{
			ID:    "C:theme",
			Name:  "9 Theme",
			Modes: []tokens.Mode{{ModeID: "1:0", Name: "MyJio"}},
			Variables: []*tokens.Variable{
				{ID: "V:t", Name: "Primary", ResolvedType: "COLOR", ValuesByMode: map[string]tokens.Value{"1:0": tokens.NewAlias("V:i2")}},
				{ID: "V:dup", Name: "Indigo/700/Low", ResolvedType: "COLOR", ValuesByMode: map[string]tokens.Value{"1:0": tokens.NewAlias("Lib/1")}},
			},
		},
	}}
}

func TestAnalyze(t *testing.T) {
	s := Analyze(testDoc())

	assert.Equal(t, 2, s.Collections)
	assert.Equal(t, 6, s.Variables)
	assert.Equal(t, map[string]int{"COLOR": 5, "FLOAT": 1}, s.ByType)
	assert.Equal(t, 4, s.Aliases)
	assert.Equal(t, 4, s.DirectColors)
	assert.InDelta(t, 50.0, s.AliasPercent, 1e-9)

	require.Len(t, s.PerCollection, 2)
	prim := s.PerCollection[0]
	assert.Equal(t, []string{"Light", "Dark"}, prim.Modes)
	assert.Equal(t, 3, prim.Colors)
	assert.InDelta(t, 33.3, prim.AliasPercent, 1e-9)
	assert.Equal(t, []FamilyCount{
		{Family: "Grey", Count: 1, Subcategories: []string{"2500"}},
		{Family: "Indigo", Count: 2, Subcategories: []string{"1000", "700"}},
	}, prim.Families)
}

func TestAnalyze_Hierarchy(t *testing.T) {
	s := Analyze(testDoc())

	require.Len(t, s.PerCollection, 2)
	assert.Equal(t, []AliasTarget{{Collection: "00_Semi semantics", Aliases: 2}}, s.PerCollection[0].AliasTargets)
	assert.Equal(t, []AliasTarget{
		{Collection: ExternalTarget, Aliases: 1},
		{Collection: "00_Semi semantics", Aliases: 1},
	}, s.PerCollection[1].AliasTargets)

	assert.Equal(t, 0, s.PerCollection[0].Layer)
	assert.Equal(t, 1, s.PerCollection[1].Layer)
	assert.Equal(t, []Layer{
		{Level: 0, Collections: []string{"00_Semi semantics"}},
		{Level: 1, Collections: []string{"9 Theme"}},
	}, s.Layers)
}

func TestAnalyze_LayersWithCollectionCycle(t *testing.T) {
	alias := func(id, target string) *tokens.Variable {
		return &tokens.Variable{ID: id, Name: id, ResolvedType: "COLOR",
			ValuesByMode: map[string]tokens.Value{"1:0": tokens.NewAlias(target)}}
	}
	coll := func(name string, vars ...*tokens.Variable) *tokens.Collection {
		return &tokens.Collection{ID: "C:" + name, Name: name, Modes: []tokens.Mode{{ModeID: "1:0", Name: "Default"}}, Variables: vars}
	}
	doc := &tokens.Document{Collections: []*tokens.Collection{
		coll("A", alias("a1", "b1"), alias("a2", "V:404")),
		coll("B", alias("b1", "a1")),
		coll("C", alias("c1", "a2"), alias("c2", "a1")),
	}}

	s := Analyze(doc)

	assert.Equal(t, []AliasTarget{
		{Collection: MissingTarget, Aliases: 1},
		{Collection: "B", Aliases: 1},
	}, s.PerCollection[0].AliasTargets)
	assert.Equal(t, []AliasTarget{{Collection: "A", Aliases: 2}}, s.PerCollection[2].AliasTargets)
	assert.Equal(t, []Layer{
		{Level: 0, Collections: []string{"B"}},
		{Level: 1, Collections: []string{"A"}},
		{Level: 2, Collections: []string{"C"}},
	}, s.Layers)
}

func TestAnalyze_Empty(t *testing.T) {
	s := Analyze(&tokens.Document{})
	assert.Equal(t, 0, s.Variables)
	assert.Equal(t, 0.0, s.AliasPercent)
	assert.Empty(t, s.Layers)
}

func TestLookup(t *testing.T) {
	idx := index.Build(testDoc())

	e, err := Lookup(idx, "V:t", "")
	require.NoError(t, err)
	assert.Equal(t, "Primary", e.Variable.Name)

	e, err = Lookup(idx, "Primary", "")
	require.NoError(t, err)
	assert.Equal(t, "V:t", e.Variable.ID)

	_, err = Lookup(idx, "Indigo/700/Low", "")
	require.ErrorIs(t, err, ErrAmbiguousName)

	e, err = Lookup(idx, "Indigo/700/Low", "9 Theme")
	require.NoError(t, err)
	assert.Equal(t, "V:dup", e.Variable.ID)

	_, err = Lookup(idx, "Nope", "")
	require.ErrorIs(t, err, ErrVariableNotFound)
}

func TestTraceVariable(t *testing.T) {
	idx := index.Build(testDoc())
	r := resolve.New(idx, resolve.Options{})
	e, err := Lookup(idx, "V:i2", "")
	require.NoError(t, err)

	tr, err := TraceVariable(r, e, "")
	require.NoError(t, err)
	assert.Equal(t, "00_Semi semantics", tr.CollectionName)
	require.Len(t, tr.Modes, 2)
	assert.Equal(t, "Light", tr.Modes[0].ModeName)
	assert.Equal(t, "Indigo/700/Low -> Indigo/1000/Bold", tr.Modes[0].Result.Chain())
	assert.Equal(t, 0.5, tr.Modes[1].Result.Color.B)

	tr, err = TraceVariable(r, e, "Dark")
	require.NoError(t, err)
	require.Len(t, tr.Modes, 1)
	assert.Equal(t, "1:1", tr.Modes[0].ModeID)

	_, err = TraceVariable(r, e, "Sepia")
	require.Error(t, err)
}
