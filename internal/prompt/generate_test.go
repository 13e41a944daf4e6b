package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmprompt/internal/catalog"
	"gmprompt/internal/errors"
	"gmprompt/internal/prompt"
	"gmprompt/internal/selection"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.System{{Name: "Dungeons & Dragons", Description: "A fantasy RPG"}},
		[]catalog.AdventureType{{Title: "Mysterious & Atmospheric", Description: "Suspense and secrets."}},
		[]catalog.Setting{{Title: "Medieval Kingdom", Description: "Knights and castles."}},
		nil,
		nil,
	)
	require.NoError(t, err)
	return cat
}

func TestGenerateScenarioA(t *testing.T) {
	cat := newTestCatalog(t)
	state := selection.New()

	sys, _ := cat.System("Dungeons & Dragons")
	adv, _ := cat.AdventureType("Mysterious & Atmospheric")
	state.SelectSystem(sys)
	state.SelectAdventureType(adv)
	state.SelectSetting("Medieval Kingdom")

	res, err := prompt.Generate(state, cat)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Text, "Create a Dungeons & Dragons adventure"))
	assert.Contains(t, res.Text, "Adventure Types:")
	assert.Contains(t, res.Text, "Settings:")
	assert.Contains(t, res.Text, "- Mysterious & Atmospheric: Suspense and secrets.")
	assert.Contains(t, res.Text, "- Medieval Kingdom: Knights and castles.")
	assert.Empty(t, res.Unresolved)
	assert.Equal(t, "Dungeons & Dragons", res.System)
}

func TestGenerateScenarioB(t *testing.T) {
	cat := newTestCatalog(t)
	state := selection.New()
	state.SelectSystem(catalog.System{Name: "Dungeons & Dragons"})
	state.SelectSetting("Fantasy")

	res, err := prompt.Generate(state, cat)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "- Fantasy: No description available.")
	assert.Equal(t, []string{"Fantasy"}, res.Unresolved)
}

func TestGenerateUnresolvedAdventureType(t *testing.T) {
	cat := newTestCatalog(t)
	state := selection.New()
	state.SelectSystem(catalog.System{Name: "Dungeons & Dragons"})
	state.SelectAdventureType(catalog.AdventureType{Title: "Space Opera", Description: "ignored"})

	res, err := prompt.Generate(state, cat)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "- Space Opera: No description available.")
	assert.Equal(t, []string{"Space Opera"}, res.Unresolved)
}

func TestGenerateRequiresSystem(t *testing.T) {
	state := selection.New()
	state.SelectSetting("Medieval Kingdom")

	_, err := prompt.Generate(state, newTestCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Contains(t, err.Error(), "no system selected")
}

func TestGenerateRequiresCatalog(t *testing.T) {
	state := selection.New()
	state.SelectSystem(catalog.System{Name: "Dungeons & Dragons"})

	_, err := prompt.Generate(state, nil)
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}

func TestGenerateAdventureTypesInSelectionOrder(t *testing.T) {
	cat, err := catalog.Builtin()
	require.NoError(t, err)

	state := selection.New()
	state.SelectSystem(catalog.System{Name: "Pathfinder"})
	for _, title := range []string{"Epic & Heroic", "Grim & Serious", "Lighthearted & Humorous"} {
		adv, ok := cat.AdventureType(title)
		require.True(t, ok, title)
		state.SelectAdventureType(adv)
	}

	res, err := prompt.Generate(state, cat)
	require.NoError(t, err)

	last := -1
	for _, title := range state.AdventureTypes() {
		adv, _ := cat.AdventureType(title)
		i := strings.Index(res.Text, "- "+adv.Title+": "+adv.Description)
		require.NotEqual(t, -1, i, title)
		assert.Greater(t, i, last)
		last = i
	}
}

func TestNewState(t *testing.T) {
	cat := newTestCatalog(t)

	state, err := prompt.NewState(cat, "Dungeons & Dragons",
		[]string{"Mysterious & Atmospheric", "Mysterious & Atmospheric"},
		[]string{"Medieval Kingdom", "Fantasy"})
	require.NoError(t, err)

	name, ok := state.System()
	assert.True(t, ok)
	assert.Equal(t, "Dungeons & Dragons", name)
	assert.Equal(t, []string{"Mysterious & Atmospheric"}, state.AdventureTypes())
	assert.Equal(t, []string{"Medieval Kingdom", "Fantasy"}, state.Settings())

	_, err = prompt.NewState(cat, "Fate", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	state, err = prompt.NewState(cat, "", nil, nil)
	require.NoError(t, err)
	_, err = prompt.Generate(state, cat)
	assert.True(t, errors.IsFailedPrecondition(err))
}
