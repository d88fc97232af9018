package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames() {
		theme, err := ThemeByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, theme.Name)
		assert.NotNil(t, theme.Colors.Selection)
		assert.NotNil(t, theme.Colors.UI)
	}

	theme, err := ThemeByName("")
	require.NoError(t, err)
	assert.Equal(t, "default", theme.Name)

	_, err = ThemeByName("solarized")
	assert.ErrorContains(t, err, "unknown theme")
}

func TestThemeNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"default", "high-contrast", "light"}, ThemeNames())
}

func TestManagerCachesStyles(t *testing.T) {
	m := NewManager()

	selected := m.Row(true, false)
	assert.Equal(t, m.GetTheme().Colors.Selection.Background, selected.GetBackground())
	assert.Len(t, m.cache, 1)

	m.Row(true, false)
	assert.Len(t, m.cache, 1)

	m.Row(false, true)
	m.Header(80)
	m.StatusBar(80)
	assert.Len(t, m.cache, 4)

	m.ClearCache()
	assert.Empty(t, m.cache)
}

func TestManagerSetThemeResetsCache(t *testing.T) {
	m := NewManager()
	m.Row(true, false)

	light := GetLightTheme()
	m.SetTheme(light)
	assert.Empty(t, m.cache)
	assert.Equal(t, "light", m.GetTheme().Name)
	assert.Equal(t, light.Colors.Selection.Background, m.Row(true, false).GetBackground())
}
