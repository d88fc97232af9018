package vlist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamStudy/scrollwin/internal/components/performance"
)

func textItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = TextItem(fmt.Sprintf("item %d", i))
	}
	return items
}

func twoLineItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = MultiLineItem(fmt.Sprintf("r%d-a\nr%d-b", i, i))
	}
	return items
}

func newTestList(t *testing.T, items []Item, cfg performance.Config, width int, opts ...Option) *Model {
	t.Helper()
	m, err := New(items, cfg, opts...)
	require.NoError(t, err)
	require.NoError(t, m.SetSize(width, cfg.ViewportHeight))
	t.Cleanup(m.Close)
	return m
}

func viewLines(m *Model) []string {
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(textItems(3), performance.Config{RowHeight: 0, ViewportHeight: 5})
	assert.ErrorIs(t, err, performance.ErrInvalidConfiguration)

	_, err = New(textItems(3), performance.Config{RowHeight: 1, ViewportHeight: 0})
	assert.ErrorIs(t, err, performance.ErrInvalidConfiguration)
}

func TestViewRendersViewportHeightLines(t *testing.T) {
	m := newTestList(t, textItems(100), performance.Config{RowHeight: 1, ViewportHeight: 5, Overscan: 2}, 20, WithScrollbar(false))

	lines := viewLines(m)
	require.Len(t, lines, 5)
	for i, line := range lines {
		assert.Equal(t, fmt.Sprintf("item %d", i), line)
	}
	assert.Equal(t, performance.Range{Start: 0, End: 7}, m.Range())
}

func TestViewEmptyList(t *testing.T) {
	m := newTestList(t, nil, performance.Config{RowHeight: 1, ViewportHeight: 3}, 20, WithScrollbar(false))

	lines := viewLines(m)
	require.Len(t, lines, 3)
	assert.Equal(t, "No items", lines[0])
	assert.True(t, m.Range().Empty())
	assert.Nil(t, m.SelectedItem())
	assert.Equal(t, 0, m.Stats().TotalHeight)

	m.Update(runeKey('j'))
	assert.Equal(t, 0, m.Cursor())
}

func TestViewCropsRowsToRowHeight(t *testing.T) {
	items := []Item{MultiLineItem("a\nb\nc"), TextItem("single")}
	m := newTestList(t, items, performance.Config{RowHeight: 2, ViewportHeight: 4}, 10, WithScrollbar(false))

	assert.Equal(t, []string{"a", "b", "single", ""}, viewLines(m))
}

func TestViewEmbeddedLineBreaks(t *testing.T) {
	items := []Item{TextItem("a\nb"), TextItem("c\r\nd"), TextItem("e")}
	m := newTestList(t, items, performance.Config{RowHeight: 1, ViewportHeight: 3}, 10, WithScrollbar(false))

	first := viewLines(m)
	assert.Equal(t, []string{"a", "c", "e"}, first)

	cached := viewLines(m)
	assert.Equal(t, first, cached, "cached rows render the same lines")
	assert.Equal(t, uint64(3), m.Stats().CacheHits)
}

func TestViewTruncatesToWidth(t *testing.T) {
	items := []Item{TextItem("a very long line of text")}
	m := newTestList(t, items, performance.Config{RowHeight: 1, ViewportHeight: 1}, 8, WithScrollbar(false))

	lines := viewLines(m)
	assert.Equal(t, "a very …", lines[0])
	assert.Equal(t, 8, ansi.StringWidth(lines[0]))
}

func TestViewPositionsPartialRows(t *testing.T) {
	m := newTestList(t, twoLineItems(50), performance.Config{RowHeight: 2, ViewportHeight: 4}, 10, WithScrollbar(false))

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 3, m.Stats().ScrollOffset)

	assert.Equal(t, []string{"r1-b", "r2-a", "r2-b", "r3-a"}, viewLines(m))
	assert.Equal(t, 0, m.Cursor(), "wheel scrolling leaves the cursor alone")

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Equal(t, 0, m.Stats().ScrollOffset)
}

func TestKeyNavigation(t *testing.T) {
	m := newTestList(t, textItems(100), performance.Config{RowHeight: 1, ViewportHeight: 5}, 20, WithScrollbar(false))

	for i := 0; i < 10; i++ {
		m.Update(runeKey('j'))
	}
	assert.Equal(t, 10, m.Cursor())
	assert.True(t, m.VisibleRange().Contains(10))
	assert.Equal(t, "item 10", viewLines(m)[4])

	m.Update(runeKey('k'))
	assert.Equal(t, 9, m.Cursor())

	m.Update(runeKey('G'))
	assert.Equal(t, 99, m.Cursor())
	assert.Equal(t, 95, m.Stats().ScrollOffset)
	assert.Equal(t, TextItem("item 99"), m.SelectedItem())

	m.Update(runeKey('g'))
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 0, m.Stats().ScrollOffset)

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 5, m.Cursor())

	m.Update(runeKey('d'))
	assert.Equal(t, 7, m.Cursor())

	m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 2, m.Cursor())
}

func TestSetItemsClampsCursor(t *testing.T) {
	m := newTestList(t, textItems(100), performance.Config{RowHeight: 1, ViewportHeight: 5}, 20)
	m.Select(80)

	m.SetItems(textItems(10))
	assert.Equal(t, 9, m.Cursor())
	assert.Equal(t, 10, m.Stats().TotalItems)
	assert.LessOrEqual(t, m.Stats().ScrollOffset, 5)
	assert.True(t, m.VisibleRange().Contains(9))
}

func TestSetRowHeightKeepsCursorVisible(t *testing.T) {
	m := newTestList(t, twoLineItems(100), performance.Config{RowHeight: 1, ViewportHeight: 6}, 20)
	m.Select(30)

	require.NoError(t, m.SetRowHeight(2))
	assert.True(t, m.VisibleRange().Contains(30))
	assert.Equal(t, 200, m.Stats().TotalHeight)

	assert.ErrorIs(t, m.SetRowHeight(0), performance.ErrInvalidConfiguration)
	assert.ErrorIs(t, m.SetOverscan(-1), performance.ErrInvalidConfiguration)
	assert.Equal(t, 2, m.Config().RowHeight)
}

func TestRenderCacheReuse(t *testing.T) {
	m := newTestList(t, textItems(100), performance.Config{RowHeight: 1, ViewportHeight: 5, Overscan: 1}, 20)

	m.View()
	stats := m.Stats()
	assert.Equal(t, 7, stats.CacheSize)
	assert.Equal(t, uint64(0), stats.CacheHits)

	m.View()
	assert.Equal(t, uint64(7), m.Stats().CacheHits)

	require.NotNil(t, m.RenderMetric())
	assert.Equal(t, int64(2), m.RenderMetric().Count)

	require.NoError(t, m.SetSize(30, 5))
	assert.Equal(t, 0, m.Stats().CacheSize)
}

func TestScrollbar(t *testing.T) {
	m := newTestList(t, textItems(100), performance.Config{RowHeight: 1, ViewportHeight: 10}, 12)

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasSuffix(lines[0], scrollbarThumb))
	assert.True(t, strings.HasSuffix(lines[9], scrollbarTrack))
	for _, line := range lines {
		assert.Equal(t, 12, ansi.StringWidth(line))
	}

	m.Update(runeKey('G'))
	lines = strings.Split(ansi.Strip(m.View()), "\n")
	assert.True(t, strings.HasSuffix(lines[9], scrollbarThumb))
	assert.True(t, strings.HasSuffix(lines[0], scrollbarTrack))
}

func TestScrollbarShortList(t *testing.T) {
	m := newTestList(t, textItems(2), performance.Config{RowHeight: 1, ViewportHeight: 4}, 6)

	for _, line := range strings.Split(ansi.Strip(m.View()), "\n") {
		assert.True(t, strings.HasSuffix(line, scrollbarTrack))
	}
}

func TestScrollEndMsg(t *testing.T) {
	m := newTestList(t, textItems(100), performance.Config{RowHeight: 1, ViewportHeight: 5}, 20,
		WithScrollEndDelay(10*time.Millisecond))

	cmd := m.Init()
	require.NotNil(t, cmd)

	m.Update(runeKey('G'))

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()

	select {
	case msg := <-msgs:
		_, ok := msg.(ScrollEndMsg)
		require.True(t, ok, "got %T", msg)
		_, next := m.Update(msg)
		assert.NotNil(t, next)
	case <-time.After(time.Second):
		t.Fatal("Expected a ScrollEndMsg")
	}
}

func TestCloseReleasesListener(t *testing.T) {
	m, err := New(textItems(3), performance.Config{RowHeight: 1, ViewportHeight: 2})
	require.NoError(t, err)

	cmd := m.Init()
	m.Close()
	m.Close()
	assert.Nil(t, cmd())
}

func TestFitWidth(t *testing.T) {
	assert.Equal(t, "", fitWidth("abc", 0))
	assert.Equal(t, "abc  ", fitWidth("abc", 5))
	assert.Equal(t, "ab…", fitWidth("abcdef", 3))
	assert.Equal(t, "    x", fitWidth("\tx", 5))
}
