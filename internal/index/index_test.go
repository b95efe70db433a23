package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/varcar/internal/tokens"
)

func testDoc() *tokens.Document {
	return &tokens.Document{Collections: []*tokens.Collection{
		{
			ID:    "C:1",
			Name:  "00_Semi semantics",
			Modes: []tokens.Mode{{ModeID: "1:0", Name: "Light"}},
			Variables: []*tokens.Variable{
				{ID: "V:1", Name: "Grey/2500/Surface"},
				{ID: "V:2", Name: "Indigo/1000/Bold"},
			},
		},
		{
			ID:    "C:2",
			Name:  "9 Theme",
			Modes: []tokens.Mode{{ModeID: "2:0", Name: "MyJio"}, {ModeID: "2:1", Name: "JioFinance"}},
			Variables: []*tokens.Variable{
				{ID: "V:3", Name: "Primary/Bold"},
				{ID: "V:1", Name: "Grey/2500/Surface duplicate"},
			},
		},
	}}
}

func TestBuild_Lookups(t *testing.T) {
	idx := Build(testDoc())

	e, ok := idx.Variable("V:2")
	require.True(t, ok)
	assert.Equal(t, "Indigo/1000/Bold", e.Variable.Name)
	assert.Equal(t, "C:1", e.CollectionID)
	assert.Equal(t, "00_Semi semantics", e.CollectionName)
	assert.True(t, e.HasMode("1:0"))
	assert.False(t, e.HasMode("2:0"))

	_, ok = idx.Variable("V:404")
	assert.False(t, ok)

	c, ok := idx.Collection("C:2")
	require.True(t, ok)
	assert.Equal(t, "9 Theme", c.Name)

	c, ok = idx.CollectionByName("00_Semi semantics")
	require.True(t, ok)
	assert.Equal(t, "C:1", c.ID)

	_, ok = idx.CollectionByName("missing")
	assert.False(t, ok)
}

func TestBuild_LaterDuplicateWins(t *testing.T) {
	idx := Build(testDoc())

	e, ok := idx.Variable("V:1")
	require.True(t, ok)
	assert.Equal(t, "Grey/2500/Surface duplicate", e.Variable.Name)
	assert.Equal(t, "9 Theme", e.CollectionName)
	assert.Equal(t, 3, idx.Len())
}

func TestFindByName(t *testing.T) {
	idx := Build(testDoc())

	got := idx.FindByName("Primary/Bold")
	require.Len(t, got, 1)
	assert.Equal(t, "V:3", got[0].Variable.ID)

	assert.Empty(t, idx.FindByName("nope"))
}

func TestBuild_EmptyDocument(t *testing.T) {
	idx := Build(&tokens.Document{})
	assert.Equal(t, 0, idx.Len())
}
