package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HamStudy/scrollwin/internal/components/style"
)

// HelpView displays every key binding
type HelpView struct {
	width  int
	height int
	title  string
	keys   help.KeyMap
	help   help.Model
	styles *style.Manager
}

// NewHelpView creates a new help view
func NewHelpView(title string, keys help.KeyMap, styles *style.Manager) *HelpView {
	h := help.New()
	h.ShowAll = true
	return &HelpView{
		title:  title,
		keys:   keys,
		help:   h,
		styles: styles,
	}
}

// SetSize sets the area the help is centered in
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
}

// Init initializes the view
func (v *HelpView) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (v *HelpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
	}
	return v, nil
}

// View renders the help screen
func (v *HelpView) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Info().Render(v.title + " - Help"))
	b.WriteString("\n\n")
	b.WriteString(v.help.View(v.keys))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted().Render("Press ? to close help"))

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		b.String(),
	)
}
