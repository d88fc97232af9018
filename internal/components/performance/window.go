package performance

import (
	"errors"
	"fmt"
)

// DefaultOverscan is the number of rows rendered beyond each viewport edge
const DefaultOverscan = 3

// ErrInvalidConfiguration is returned when a window is configured with a
// non-positive row or viewport height, or a negative overscan
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Config holds the geometry of a windowed list. All values share one unit
// (pixels, terminal lines, ...).
type Config struct {
	RowHeight      int
	ViewportHeight int
	Overscan       int
}

// Validate checks that the configuration can produce a finite range
func (c Config) Validate() error {
	if c.RowHeight <= 0 {
		return fmt.Errorf("%w: row height must be positive, got %d", ErrInvalidConfiguration, c.RowHeight)
	}
	if c.ViewportHeight <= 0 {
		return fmt.Errorf("%w: viewport height must be positive, got %d", ErrInvalidConfiguration, c.ViewportHeight)
	}
	if c.Overscan < 0 {
		return fmt.Errorf("%w: overscan must not be negative, got %d", ErrInvalidConfiguration, c.Overscan)
	}
	return nil
}

// Range is an inclusive interval of item indices
type Range struct {
	Start int
	End   int
}

// EmptyRange is the range of an empty list
var EmptyRange = Range{Start: 0, End: -1}

// Empty reports whether the range holds no indices
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Len returns the number of indices in the range
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index lies inside the range
func (r Range) Contains(index int) bool {
	return index >= r.Start && index <= r.End
}

func (r Range) String() string {
	if r.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}

// ComputeRange returns the rows that must be mounted to cover the viewport at
// scrollOffset, widened by cfg.Overscan on both sides. cfg must be valid.
func ComputeRange(itemCount, scrollOffset int, cfg Config) Range {
	if itemCount <= 0 {
		return EmptyRange
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	first := scrollOffset / cfg.RowHeight
	if first-cfg.Overscan > itemCount-1 {
		return Range{Start: itemCount - 1, End: itemCount - 1}
	}

	// floor((offset+viewport)/rowHeight) without the overflowing sum
	start := first - cfg.Overscan
	end := first + (scrollOffset%cfg.RowHeight+cfg.ViewportHeight)/cfg.RowHeight + cfg.Overscan

	if end > itemCount-1 {
		end = itemCount - 1
	}
	if start > end {
		start = end
	}
	if start < 0 {
		start = 0
	}
	return Range{Start: start, End: end}
}

// ComputeVisibleRange is ComputeRange without overscan
func ComputeVisibleRange(itemCount, scrollOffset int, cfg Config) Range {
	cfg.Overscan = 0
	return ComputeRange(itemCount, scrollOffset, cfg)
}

// Window owns the scroll state of a windowed list. The mounted range is
// derived on every call and never cached.
type Window struct {
	cfg          Config
	itemCount    int
	scrollOffset int
}

// NewWindow creates a window over itemCount rows scrolled to the top
func NewWindow(cfg Config, itemCount int) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if itemCount < 0 {
		itemCount = 0
	}
	return &Window{cfg: cfg, itemCount: itemCount}, nil
}

// Config returns the current geometry
func (w *Window) Config() Config {
	return w.cfg
}

// ItemCount returns the number of rows in the list
func (w *Window) ItemCount() int {
	return w.itemCount
}

// ScrollOffset returns the current scroll offset
func (w *Window) ScrollOffset() int {
	return w.scrollOffset
}

// TotalHeight is the full scrollable extent of the list
func (w *Window) TotalHeight() int {
	return w.itemCount * w.cfg.RowHeight
}

// MaxScrollOffset is the largest offset that still fills the viewport
func (w *Window) MaxScrollOffset() int {
	limit := w.TotalHeight() - w.cfg.ViewportHeight
	if limit < 0 {
		return 0
	}
	return limit
}

// OffsetOf returns the absolute offset of the row at index
func (w *Window) OffsetOf(index int) int {
	return index * w.cfg.RowHeight
}

// SetScrollOffset moves the window, clamped to [0, MaxScrollOffset]
func (w *Window) SetScrollOffset(offset int) {
	if offset > w.MaxScrollOffset() {
		offset = w.MaxScrollOffset()
	}
	if offset < 0 {
		offset = 0
	}
	w.scrollOffset = offset
}

// ScrollBy moves the window by delta units
func (w *Window) ScrollBy(delta int) {
	w.SetScrollOffset(w.scrollOffset + delta)
}

// ScrollToIndex applies the smallest scroll that brings the row at index
// fully into view. Rows taller than the viewport are aligned to the top.
func (w *Window) ScrollToIndex(index int) {
	if w.itemCount == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= w.itemCount {
		index = w.itemCount - 1
	}

	top := w.OffsetOf(index)
	bottom := top + w.cfg.RowHeight
	switch {
	case top < w.scrollOffset:
		w.SetScrollOffset(top)
	case bottom > w.scrollOffset+w.cfg.ViewportHeight:
		if w.cfg.RowHeight >= w.cfg.ViewportHeight {
			w.SetScrollOffset(top)
		} else {
			w.SetScrollOffset(bottom - w.cfg.ViewportHeight)
		}
	}
}

// SetItemCount changes the number of rows and re-clamps the offset
func (w *Window) SetItemCount(count int) {
	if count < 0 {
		count = 0
	}
	w.itemCount = count
	w.SetScrollOffset(w.scrollOffset)
}

// SetRowHeight changes the uniform row height
func (w *Window) SetRowHeight(height int) error {
	return w.reconfigure(func(c *Config) { c.RowHeight = height })
}

// SetViewportHeight changes the viewport height
func (w *Window) SetViewportHeight(height int) error {
	return w.reconfigure(func(c *Config) { c.ViewportHeight = height })
}

// SetOverscan changes the overscan margin
func (w *Window) SetOverscan(rows int) error {
	return w.reconfigure(func(c *Config) { c.Overscan = rows })
}

func (w *Window) reconfigure(apply func(*Config)) error {
	cfg := w.cfg
	apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	w.cfg = cfg
	w.SetScrollOffset(w.scrollOffset)
	return nil
}

// Range returns the rows to mount, overscan included
func (w *Window) Range() Range {
	return ComputeRange(w.itemCount, w.scrollOffset, w.cfg)
}

// VisibleRange returns the rows intersecting the viewport
func (w *Window) VisibleRange() Range {
	return ComputeVisibleRange(w.itemCount, w.scrollOffset, w.cfg)
}

// Row is a mounted row positioned by its index
type Row[T any] struct {
	Index  int
	Offset int
	Item   T
}

// Rows returns the mounted slice of items with their absolute offsets
func Rows[T any](w *Window, items []T) []Row[T] {
	r := w.Range()
	if r.End >= len(items) {
		r.End = len(items) - 1
	}
	if r.Empty() {
		return nil
	}

	rows := make([]Row[T], 0, r.Len())
	for i := r.Start; i <= r.End; i++ {
		rows = append(rows, Row[T]{Index: i, Offset: w.OffsetOf(i), Item: items[i]})
	}
	return rows
}
