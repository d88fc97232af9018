package vlist

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/HamStudy/scrollwin/internal/components/performance"
	"github.com/HamStudy/scrollwin/internal/components/style"
)

const (
	renderMetric   = "render"
	wheelStep      = 3
	ellipsis       = "…"
	scrollbarTrack = "│"
	scrollbarThumb = "┃"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// ScrollEndMsg is sent once scrolling has been idle for the scroll end delay
type ScrollEndMsg struct {
	id int
}

// Model is a windowed list. Only rows in the window's render range are
// rendered on each frame.
type Model struct {
	id       int
	items    []Item
	viewport *performance.ViewportManager
	monitor  *performance.PerformanceMonitor
	styles   *style.Manager
	keys     KeyMap

	cursor    int
	width     int
	scrollbar bool

	scrollEnd chan struct{}
	done      chan struct{}
}

// Option configures a Model
type Option func(*Model)

// WithStyles sets the style manager
func WithStyles(styles *style.Manager) Option {
	return func(m *Model) {
		m.styles = styles
	}
}

// WithKeyMap overrides the default key bindings
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) {
		m.keys = keys
	}
}

// WithScrollbar toggles the scrollbar column
func WithScrollbar(enabled bool) Option {
	return func(m *Model) {
		m.scrollbar = enabled
	}
}

// WithScrollEndDelay sets how long scrolling must be idle before a
// ScrollEndMsg is sent
func WithScrollEndDelay(delay time.Duration) Option {
	return func(m *Model) {
		m.viewport.SetScrollEndDelay(delay)
	}
}

// New creates a list over items. It returns an error wrapping
// performance.ErrInvalidConfiguration for an unusable geometry.
func New(items []Item, cfg performance.Config, opts ...Option) (*Model, error) {
	viewport, err := performance.NewViewportManager(cfg)
	if err != nil {
		return nil, err
	}

	m := &Model{
		id:        nextID(),
		items:     items,
		viewport:  viewport,
		monitor:   performance.NewPerformanceMonitor(),
		styles:    style.NewManager(),
		keys:      DefaultKeyMap(),
		scrollbar: true,
		scrollEnd: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	viewport.SetTotalItems(len(items))
	viewport.SetOnScrollEnd(func() {
		select {
		case m.scrollEnd <- struct{}{}:
		default:
		}
	})
	return m, nil
}

// Init starts listening for scroll end notifications
func (m *Model) Init() tea.Cmd {
	return m.waitForScrollEnd()
}

func (m *Model) waitForScrollEnd() tea.Cmd {
	id, scrollEnd, done := m.id, m.scrollEnd, m.done
	return func() tea.Msg {
		select {
		case <-scrollEnd:
			return ScrollEndMsg{id: id}
		case <-done:
			return nil
		}
	}
}

// Close stops scroll end detection
func (m *Model) Close() {
	m.viewport.Close()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Update handles key, mouse and scroll end messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScrollEndMsg:
		if msg.id == m.id {
			return m, m.waitForScrollEnd()
		}

	case tea.KeyMsg:
		m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollBy(wheelStep)
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	page := m.rowsPerPage()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.MoveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.MoveCursor(-page)
	case key.Matches(msg, m.keys.PageDown):
		m.MoveCursor(page)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.MoveCursor(-max(1, page/2))
	case key.Matches(msg, m.keys.HalfPageDown):
		m.MoveCursor(max(1, page/2))
	case key.Matches(msg, m.keys.Top):
		m.Select(0)
	case key.Matches(msg, m.keys.Bottom):
		m.Select(len(m.items) - 1)
	}
}

// rowsPerPage is the number of whole rows that fit in the viewport
func (m *Model) rowsPerPage() int {
	cfg := m.viewport.Config()
	return max(1, cfg.ViewportHeight/cfg.RowHeight)
}

// MoveCursor moves the selection by delta rows
func (m *Model) MoveCursor(delta int) {
	m.Select(m.cursor + delta)
}

// Select moves the selection to index and scrolls it into view
func (m *Model) Select(index int) {
	if len(m.items) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(index, 0), len(m.items)-1)
	m.viewport.EnsureVisible(m.cursor)
}

// Cursor returns the selected index
func (m *Model) Cursor() int {
	return m.cursor
}

// SelectedItem returns the selected item, or nil for an empty list
func (m *Model) SelectedItem() Item {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor]
}

// Items returns the list contents
func (m *Model) Items() []Item {
	return m.items
}

// SetItems replaces the list contents
func (m *Model) SetItems(items []Item) {
	m.items = items
	m.viewport.ClearCache()
	m.viewport.SetTotalItems(len(items))
	m.Select(m.cursor)
}

// SetSize sets the list dimensions in cells
func (m *Model) SetSize(width, height int) error {
	if err := m.viewport.SetViewportHeight(height); err != nil {
		return err
	}
	m.width = max(width, 0)
	m.viewport.SetWidth(m.contentWidth())
	m.viewport.EnsureVisible(m.cursor)
	return nil
}

// SetRowHeight changes the height of every row
func (m *Model) SetRowHeight(height int) error {
	if err := m.viewport.SetRowHeight(height); err != nil {
		return err
	}
	m.viewport.EnsureVisible(m.cursor)
	return nil
}

// SetOverscan changes how many rows are rendered beyond the viewport edges
func (m *Model) SetOverscan(rows int) error {
	return m.viewport.SetOverscan(rows)
}

// SetStyles swaps the style manager
func (m *Model) SetStyles(styles *style.Manager) {
	m.styles = styles
}

// Config returns the window geometry
func (m *Model) Config() performance.Config {
	return m.viewport.Config()
}

// Range returns the rows mounted at the current scroll offset
func (m *Model) Range() performance.Range {
	return m.viewport.GetRenderRange()
}

// VisibleRange returns the rows intersecting the viewport
func (m *Model) VisibleRange() performance.Range {
	return m.viewport.GetVisibleRange()
}

// Stats returns a snapshot of the window state
func (m *Model) Stats() performance.Stats {
	return m.viewport.GetStats()
}

// RenderMetric returns frame render timings, or nil before the first frame
func (m *Model) RenderMetric() *performance.Metric {
	return m.monitor.GetMetric(renderMetric)
}

// KeyMap returns the list key bindings
func (m *Model) KeyMap() KeyMap {
	return m.keys
}

func (m *Model) contentWidth() int {
	if m.scrollbar && m.width > 1 {
		return m.width - 1
	}
	return m.width
}

// View renders exactly ViewportHeight lines. Each mounted row is placed at
// its offset relative to the scroll position; rows straddling an edge are
// cropped.
func (m *Model) View() string {
	defer m.monitor.StartTimer(renderMetric)()

	cfg := m.viewport.Config()
	height := cfg.ViewportHeight
	width := m.contentWidth()
	blank := strings.Repeat(" ", width)

	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}

	if len(m.items) == 0 {
		lines[0] = m.styles.Muted().Render(fitWidth("No items", width))
	}

	offset := m.viewport.ScrollOffset()
	for _, row := range performance.RenderRows(m.viewport, m.items) {
		// Overscan rows are rendered into the cache even when off screen
		rowLines := m.renderRow(row.Index, row.Item, width, cfg.RowHeight)
		top := row.Offset - offset
		if top >= height || top+cfg.RowHeight <= 0 {
			continue
		}

		rowStyle := m.styles.Row(row.Index == m.cursor, row.Index%2 == 1)
		for j, line := range rowLines {
			y := top + j
			if y < 0 || y >= height {
				continue
			}
			lines[y] = rowStyle.Render(line)
		}
	}

	if m.scrollbar && m.width > 1 {
		bar := m.renderScrollbar(height)
		for i := range lines {
			lines[i] += bar[i]
		}
	}

	return strings.Join(lines, "\n")
}

// renderRow returns rowHeight lines of exactly width cells for item at
// index, using the viewport cache
func (m *Model) renderRow(index int, item Item, width, rowHeight int) []string {
	if cached, ok := m.viewport.GetCachedItem(index); ok {
		return strings.Split(cached, "\n")
	}

	// embedded line breaks become separate terminal lines
	var content []string
	for _, line := range item.Lines(width) {
		content = append(content, strings.Split(strings.ReplaceAll(line, "\r\n", "\n"), "\n")...)
	}
	lines := make([]string, rowHeight)
	for j := range lines {
		text := ""
		if j < len(content) {
			text = content[j]
		}
		lines[j] = fitWidth(text, width)
	}

	m.viewport.CacheRenderedItem(index, strings.Join(lines, "\n"))
	return lines
}

// renderScrollbar returns one cell per viewport line. The thumb spans the
// viewport's share of the total height.
func (m *Model) renderScrollbar(height int) []string {
	total := m.viewport.TotalHeight()
	track := m.styles.ScrollbarTrack().Render(scrollbarTrack)
	thumb := m.styles.ScrollbarThumb().Render(scrollbarThumb)

	bar := make([]string, height)
	if total <= height {
		for i := range bar {
			bar[i] = track
		}
		return bar
	}

	thumbSize := max(1, height*height/total)
	maxOffset := total - height
	thumbTop := m.viewport.ScrollOffset() * (height - thumbSize) / maxOffset

	for i := range bar {
		if i >= thumbTop && i < thumbTop+thumbSize {
			bar[i] = thumb
		} else {
			bar[i] = track
		}
	}
	return bar
}

// fitWidth truncates or pads s to exactly width cells
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", "    ")
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, ellipsis)
	}
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
