package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/HamStudy/scrollwin/internal/components/dropdown"
	"github.com/HamStudy/scrollwin/internal/components/performance"
	"github.com/HamStudy/scrollwin/internal/components/style"
	"github.com/HamStudy/scrollwin/internal/components/vlist"
	"github.com/HamStudy/scrollwin/internal/config"
	"github.com/HamStudy/scrollwin/internal/ui/views"
)

// header (title + rule), status bar, short help
const chromeHeight = 4

// initialViewportHeight is used until the first WindowSizeMsg arrives
const initialViewportHeight = 20

// KeyMap defines the application key bindings
type KeyMap struct {
	Help          key.Binding
	Quit          key.Binding
	RowHeightUp   key.Binding
	RowHeightDown key.Binding
	OverscanUp    key.Binding
	OverscanDown  key.Binding
	Theme         key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		RowHeightUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "taller rows"),
		),
		RowHeightDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "shorter rows"),
		),
		OverscanUp: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "more overscan"),
		),
		OverscanDown: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "less overscan"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
	}
}

// helpKeys joins the list and application bindings for bubbles/help
type helpKeys struct {
	list vlist.KeyMap
	app  KeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	return append(h.list.ShortHelp(), h.app.Help, h.app.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return append(h.list.FullHelp(),
		[]key.Binding{h.app.RowHeightUp, h.app.RowHeightDown, h.app.OverscanUp, h.app.OverscanDown},
		[]key.Binding{h.app.Theme, h.app.Help, h.app.Quit},
	)
}

// App represents the main application model
type App struct {
	config *config.Config
	styles *style.Manager
	keys   KeyMap
	title  string

	list     *vlist.Model
	helpView *views.HelpView
	help     help.Model
	themes   dropdown.Model

	// UI state
	width     int
	height    int
	ready     bool
	showHelp  bool
	scrolling bool
	err       error
}

// NewApp creates a new application over items
func NewApp(cfg *config.Config, title string, items []vlist.Item) (*App, error) {
	theme, err := style.ThemeByName(cfg.Theme)
	if err != nil {
		return nil, err
	}
	styles := style.NewManager()
	styles.SetTheme(theme)

	height := cfg.List.ViewportHeight
	if height == 0 {
		height = initialViewportHeight
	}
	windowCfg := cfg.WindowConfig(height)

	opts := []vlist.Option{
		vlist.WithStyles(styles),
		vlist.WithScrollbar(cfg.List.Scrollbar),
	}
	if delay := cfg.ScrollEndDelay(); delay > 0 {
		opts = append(opts, vlist.WithScrollEndDelay(delay))
	}

	list, err := vlist.New(items, windowCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	var options []dropdown.Option
	for _, name := range style.ThemeNames() {
		options = append(options, dropdown.Option{Label: name, Value: name})
	}
	themes := dropdown.New(options, styles)
	themes.SetTitle("Theme")
	themes.SetSelectedValue(theme.Name)

	keys := DefaultKeyMap()
	return &App{
		config:   cfg,
		styles:   styles,
		keys:     keys,
		title:    title,
		list:     list,
		helpView: views.NewHelpView(title, helpKeys{list: list.KeyMap(), app: keys}, styles),
		help:     help.New(),
		themes:   themes,
	}, nil
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.list.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case vlist.ScrollEndMsg:
		a.scrolling = false
		log.Printf("scroll settled at offset %d, mounted %v", a.list.Stats().ScrollOffset, a.list.Range())
		_, cmd := a.list.Update(msg)
		return a, cmd

	case dropdown.SelectedMsg:
		a.applyTheme(msg.Option.Value)
		return a, nil

	case dropdown.CancelledMsg:
		return a, nil

	case tea.KeyMsg:
		if a.themes.IsOpen() {
			if msg.String() == "ctrl+c" {
				return a, a.quit()
			}
			var cmd tea.Cmd
			a.themes, cmd = a.themes.Update(msg)
			return a, cmd
		}

		if a.showHelp {
			if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
				a.showHelp = false
				return a, nil
			}
			if key.Matches(msg, a.keys.Quit) {
				return a, a.quit()
			}
			return a, nil
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, a.quit()

		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			return a, nil

		case key.Matches(msg, a.keys.Theme):
			a.themes.Open()
			return a, nil

		case key.Matches(msg, a.keys.RowHeightUp):
			a.setErr(a.list.SetRowHeight(a.list.Config().RowHeight + 1))
			return a, nil

		case key.Matches(msg, a.keys.RowHeightDown):
			a.setErr(a.list.SetRowHeight(a.list.Config().RowHeight - 1))
			return a, nil

		case key.Matches(msg, a.keys.OverscanUp):
			a.setErr(a.list.SetOverscan(a.list.Config().Overscan + 1))
			return a, nil

		case key.Matches(msg, a.keys.OverscanDown):
			a.setErr(a.list.SetOverscan(a.list.Config().Overscan - 1))
			return a, nil
		}

		return a, a.forward(msg)

	case tea.MouseMsg:
		if a.showHelp || a.themes.IsOpen() {
			return a, nil
		}
		return a, a.forward(msg)
	}

	return a, nil
}

// forward passes input to the list and tracks whether it scrolled. Any
// reconfigure error is dismissed so the status bar shows the stats again.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	a.err = nil
	before := a.list.Stats().ScrollOffset
	_, cmd := a.list.Update(msg)
	if a.list.Stats().ScrollOffset != before {
		a.scrolling = true
	}
	return cmd
}

func (a *App) quit() tea.Cmd {
	a.list.Close()
	return tea.Quit
}

// applyTheme switches every style to the named theme
func (a *App) applyTheme(name string) {
	theme, err := style.ThemeByName(name)
	a.setErr(err)
	if err != nil {
		return
	}
	a.styles.SetTheme(theme)
	a.config.Theme = theme.Name
	log.Printf("theme set to %s", theme.Name)
}

// setErr records a rejected reconfiguration for the status bar
func (a *App) setErr(err error) {
	a.err = err
	if err != nil {
		log.Printf("reconfigure rejected: %v", err)
	}
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.helpView.SetSize(width, height)

	available := max(1, height-chromeHeight)
	if err := a.list.SetSize(width, a.config.WindowConfig(available).ViewportHeight); err != nil {
		a.setErr(err)
	}
}

// View renders the application
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}
	if a.showHelp {
		return a.helpView.View()
	}
	if a.themes.IsOpen() {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.themes.View())
	}

	header := a.styles.Header(a.width).Render(
		ansi.Truncate(fmt.Sprintf("%s · %d items", a.title, len(a.list.Items())), a.width, "…"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.list.View(),
		a.statusLine(),
		a.help.View(helpKeys{list: a.list.KeyMap(), app: a.keys}),
	)
}

func (a *App) statusLine() string {
	if a.err != nil {
		return a.styles.Error().Render(ansi.Truncate(a.err.Error(), a.width, "…"))
	}

	stats := a.list.Stats()
	status := fmt.Sprintf(
		" row %d/%d │ visible %v │ mounted %v │ offset %d/%d │ rowHeight %d │ overscan %d │ render %s │ cache %.0f%%",
		a.list.Cursor()+min(1, stats.TotalItems), stats.TotalItems,
		stats.Visible, stats.Rendered,
		stats.ScrollOffset, stats.TotalHeight,
		stats.RowHeight, stats.Overscan,
		renderTime(a.list.RenderMetric()),
		stats.CacheHitRate(),
	)
	if a.scrolling {
		status += fmt.Sprintf(" │ %.0f rows/s", stats.ScrollVelocity)
	}
	return a.styles.StatusBar(a.width).Render(ansi.Truncate(status, a.width, "…"))
}

// renderTime is the recent average frame render time
func renderTime(metric *performance.Metric) string {
	if metric == nil {
		return "-"
	}
	return metric.RecentAverageTime(10).Round(time.Microsecond).String()
}
