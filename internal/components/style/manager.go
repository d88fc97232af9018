package style

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Manager handles styling and theming for the application
type Manager struct {
	theme *Theme
	cache map[string]lipgloss.Style
	mu    sync.RWMutex
}

// Theme defines color schemes and styling
type Theme struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Colors      *ColorScheme `yaml:"colors"`
}

// ColorScheme defines the color palette
type ColorScheme struct {
	// Base colors
	Background lipgloss.Color `yaml:"background"`
	Foreground lipgloss.Color `yaml:"foreground"`
	Muted      lipgloss.Color `yaml:"muted"`
	Stripe     lipgloss.Color `yaml:"stripe"`

	// Selection colors
	Selection *SelectionColors `yaml:"selection"`

	// UI element colors
	UI *UIColors `yaml:"ui"`
}

// SelectionColors for selected items
type SelectionColors struct {
	Background lipgloss.Color `yaml:"background"`
	Foreground lipgloss.Color `yaml:"foreground"`
}

// UIColors for interface elements
type UIColors struct {
	Border         lipgloss.Color `yaml:"border"`
	Header         lipgloss.Color `yaml:"header"`
	Info           lipgloss.Color `yaml:"info"`
	Error          lipgloss.Color `yaml:"error"`
	ScrollbarTrack lipgloss.Color `yaml:"scrollbarTrack"`
	ScrollbarThumb lipgloss.Color `yaml:"scrollbarThumb"`
	StatusBar      lipgloss.Color `yaml:"statusBar"`
}

var themes = map[string]func() *Theme{
	"default":       getDefaultTheme,
	"light":         GetLightTheme,
	"high-contrast": GetHighContrastTheme,
}

// ThemeNames returns the names of the built-in themes
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme
func ThemeByName(name string) (*Theme, error) {
	if name == "" {
		return getDefaultTheme(), nil
	}
	build, ok := themes[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	return build(), nil
}

// NewManager creates a new style manager with the default theme
func NewManager() *Manager {
	return &Manager{
		theme: getDefaultTheme(),
		cache: make(map[string]lipgloss.Style),
	}
}

// SetTheme sets the current theme
func (m *Manager) SetTheme(theme *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.theme = theme
	m.cache = make(map[string]lipgloss.Style)
}

// GetTheme returns the current theme
func (m *Manager) GetTheme() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// cached returns the style stored under key, building it on first use
func (m *Manager) cached(key string, build func(*Theme) lipgloss.Style) lipgloss.Style {
	m.mu.RLock()
	style, ok := m.cache[key]
	theme := m.theme
	m.mu.RUnlock()
	if ok {
		return style
	}

	style = build(theme)

	m.mu.Lock()
	m.cache[key] = style
	m.mu.Unlock()
	return style
}

// Row returns the style of a list row
func (m *Manager) Row(selected, striped bool) lipgloss.Style {
	return m.cached(fmt.Sprintf("row_%t_%t", selected, striped), func(t *Theme) lipgloss.Style {
		if selected {
			return lipgloss.NewStyle().
				Background(t.Colors.Selection.Background).
				Foreground(t.Colors.Selection.Foreground)
		}
		style := lipgloss.NewStyle().Foreground(t.Colors.Foreground)
		if striped {
			style = style.Background(t.Colors.Stripe)
		}
		return style
	})
}

// Header returns the title bar style
func (m *Manager) Header(width int) lipgloss.Style {
	return m.cached(fmt.Sprintf("header_%d", width), func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().
			Width(width).
			Bold(true).
			Foreground(t.Colors.UI.Header).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(t.Colors.UI.Border)
	})
}

// Popup returns the bordered style for overlays
func (m *Manager) Popup(width int) lipgloss.Style {
	return m.cached(fmt.Sprintf("popup_%d", width), func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().
			Width(width).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Colors.UI.Border)
	})
}

// StatusBar returns the status line style
func (m *Manager) StatusBar(width int) lipgloss.Style {
	return m.cached(fmt.Sprintf("status_%d", width), func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().
			Width(width).
			Foreground(t.Colors.Foreground).
			Background(t.Colors.UI.StatusBar)
	})
}

// ScrollbarTrack returns the style of the scrollbar track
func (m *Manager) ScrollbarTrack() lipgloss.Style {
	return m.cached("scrollbar_track", func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Colors.UI.ScrollbarTrack)
	})
}

// ScrollbarThumb returns the style of the scrollbar thumb
func (m *Manager) ScrollbarThumb() lipgloss.Style {
	return m.cached("scrollbar_thumb", func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Colors.UI.ScrollbarThumb)
	})
}

// Muted returns the style for secondary text
func (m *Manager) Muted() lipgloss.Style {
	return m.cached("muted", func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Colors.Muted)
	})
}

// Info returns the style for informational highlights
func (m *Manager) Info() lipgloss.Style {
	return m.cached("info", func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Colors.UI.Info).Bold(true)
	})
}

// Error returns the style for error messages
func (m *Manager) Error() lipgloss.Style {
	return m.cached("error", func(t *Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Colors.UI.Error).Bold(true)
	})
}

// ClearCache clears the style cache
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]lipgloss.Style)
}

// getDefaultTheme returns the default dark theme
func getDefaultTheme() *Theme {
	return &Theme{
		Name:        "default",
		Description: "Default dark theme",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#1e1e1e"),
			Foreground: lipgloss.Color("#d4d4d4"),
			Muted:      lipgloss.Color("#808080"),
			Stripe:     lipgloss.Color("#252526"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#264f78"),
				Foreground: lipgloss.Color("#ffffff"),
			},
			UI: &UIColors{
				Border:         lipgloss.Color("#3c3c3c"),
				Header:         lipgloss.Color("#cccccc"),
				Info:           lipgloss.Color("#569cd6"),
				Error:          lipgloss.Color("#f44747"),
				ScrollbarTrack: lipgloss.Color("#3c3c3c"),
				ScrollbarThumb: lipgloss.Color("#9e9e9e"),
				StatusBar:      lipgloss.Color("#007acc"),
			},
		},
	}
}

// GetLightTheme returns a light theme
func GetLightTheme() *Theme {
	return &Theme{
		Name:        "light",
		Description: "Light theme",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#ffffff"),
			Foreground: lipgloss.Color("#000000"),
			Muted:      lipgloss.Color("#605e5c"),
			Stripe:     lipgloss.Color("#f3f3f3"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#0078d4"),
				Foreground: lipgloss.Color("#ffffff"),
			},
			UI: &UIColors{
				Border:         lipgloss.Color("#d1d1d1"),
				Header:         lipgloss.Color("#323130"),
				Info:           lipgloss.Color("#0078d4"),
				Error:          lipgloss.Color("#d13438"),
				ScrollbarTrack: lipgloss.Color("#e1e1e1"),
				ScrollbarThumb: lipgloss.Color("#8a8886"),
				StatusBar:      lipgloss.Color("#deecf9"),
			},
		},
	}
}

// GetHighContrastTheme returns a high contrast theme for accessibility
func GetHighContrastTheme() *Theme {
	return &Theme{
		Name:        "high-contrast",
		Description: "High contrast theme for accessibility",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#000000"),
			Foreground: lipgloss.Color("#ffffff"),
			Muted:      lipgloss.Color("#c0c0c0"),
			Stripe:     lipgloss.Color("#000000"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#ffffff"),
				Foreground: lipgloss.Color("#000000"),
			},
			UI: &UIColors{
				Border:         lipgloss.Color("#ffffff"),
				Header:         lipgloss.Color("#ffffff"),
				Info:           lipgloss.Color("#00ffff"),
				Error:          lipgloss.Color("#ff0000"),
				ScrollbarTrack: lipgloss.Color("#808080"),
				ScrollbarThumb: lipgloss.Color("#ffff00"),
				StatusBar:      lipgloss.Color("#000080"),
			},
		},
	}
}
