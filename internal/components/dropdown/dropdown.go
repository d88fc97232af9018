package dropdown

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/HamStudy/scrollwin/internal/components/performance"
	"github.com/HamStudy/scrollwin/internal/components/style"
)

// Option represents a dropdown option
type Option struct {
	Label string
	Value string
}

// Model represents the dropdown component
type Model struct {
	options []Option

	// State
	selectedIndex int
	isOpen        bool
	width         int
	height        int

	title  string
	styles *style.Manager
	keyMap KeyMap
}

// KeyMap defines the key bindings for the dropdown
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// New creates a new dropdown model
func New(options []Option, styles *style.Manager) Model {
	return Model{
		options: options,
		width:   30,
		height:  10,
		styles:  styles,
		keyMap:  DefaultKeyMap(),
	}
}

// SetTitle sets the dropdown title
func (m *Model) SetTitle(title string) {
	m.title = title
}

// SetSize sets the dropdown dimensions including the border
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Open opens the dropdown
func (m *Model) Open() {
	m.isOpen = true
}

// Close closes the dropdown
func (m *Model) Close() {
	m.isOpen = false
}

// IsOpen returns whether the dropdown is open
func (m *Model) IsOpen() bool {
	return m.isOpen
}

// GetSelectedOption returns the currently selected option
func (m *Model) GetSelectedOption() Option {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.options) {
		return m.options[m.selectedIndex]
	}
	return Option{}
}

// GetSelectedIndex returns the currently selected index
func (m *Model) GetSelectedIndex() int {
	return m.selectedIndex
}

// SetSelectedValue sets the selected option by value
func (m *Model) SetSelectedValue(value string) {
	for i, option := range m.options {
		if option.Value == value {
			m.selectedIndex = i
			return
		}
	}
}

// Init initializes the dropdown
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.isOpen || len(m.options) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Up):
		m.selectedIndex = (m.selectedIndex - 1 + len(m.options)) % len(m.options)

	case key.Matches(keyMsg, m.keyMap.Down):
		m.selectedIndex = (m.selectedIndex + 1) % len(m.options)

	case key.Matches(keyMsg, m.keyMap.Enter):
		m.isOpen = false
		selected := SelectedMsg{Option: m.GetSelectedOption(), Index: m.selectedIndex}
		return m, func() tea.Msg { return selected }

	case key.Matches(keyMsg, m.keyMap.Escape):
		m.isOpen = false
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, nil
}

// visible returns the options that fit, keeping the selection centered
func (m Model) visible() (start, end int) {
	rows := m.height - 2
	if m.title != "" {
		rows--
	}
	rows = max(1, rows)

	w, err := performance.NewWindow(performance.Config{RowHeight: 1, ViewportHeight: rows}, len(m.options))
	if err != nil {
		return 0, len(m.options)
	}
	w.SetScrollOffset(m.selectedIndex - rows/2)
	start = w.ScrollOffset()
	return start, min(len(m.options), start+rows)
}

// View renders the dropdown
func (m Model) View() string {
	if !m.isOpen {
		return ""
	}

	var content strings.Builder
	if m.title != "" {
		content.WriteString(m.styles.Info().Bold(true).Render(m.title))
		content.WriteString("\n")
	}

	inner := max(1, m.width-4)
	start, end := m.visible()
	for i := start; i < end; i++ {
		line := ansi.Truncate(m.options[i].Label, inner, "…")
		content.WriteString(m.styles.Row(i == m.selectedIndex, false).Width(inner).Render(line))
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	var more string
	if start > 0 {
		more += "↑ "
	}
	if end < len(m.options) {
		more += "↓"
	}
	if more != "" {
		content.WriteString("\n")
		content.WriteString(m.styles.Muted().Render(more))
	}

	return m.styles.Popup(m.width - 2).Render(content.String())
}

// SelectedMsg is sent when an option is selected
type SelectedMsg struct {
	Option Option
	Index  int
}

// CancelledMsg is sent when the dropdown is cancelled
type CancelledMsg struct{}
