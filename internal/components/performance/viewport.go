package performance

import (
	"sync"
	"time"
)

const (
	defaultCacheSize      = 1000
	defaultScrollEndDelay = 100 * time.Millisecond
)

// ViewportManager drives a Window from scroll input and keeps a cache of
// rendered rows for the mounted range
type ViewportManager struct {
	window *Window
	width  int

	// Last render range reported to onViewportChange
	lastRange Range

	// Performance tracking
	lastScrollTime time.Time
	scrollVelocity float64

	// Caching
	renderCache map[int]string
	cacheSize   int
	cacheHits   uint64
	cacheMisses uint64
	cacheMutex  sync.RWMutex

	// Callbacks
	scrollEnd        *Debouncer
	callbackMutex    sync.Mutex
	onViewportChange func(Range)
	onScrollEnd      func()
}

// Stats is a snapshot of the viewport state
type Stats struct {
	TotalItems     int
	TotalHeight    int
	ScrollOffset   int
	ViewportHeight int
	RowHeight      int
	Overscan       int
	Visible        Range
	Rendered       Range
	CacheSize      int
	CacheHits      uint64
	CacheMisses    uint64
	ScrollVelocity float64
}

// CacheHitRate returns the percentage of cache lookups that hit
func (s Stats) CacheHitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100
}

// NewViewportManager creates a new viewport manager over an empty list
func NewViewportManager(cfg Config) (*ViewportManager, error) {
	window, err := NewWindow(cfg, 0)
	if err != nil {
		return nil, err
	}

	vm := &ViewportManager{
		window:      window,
		lastRange:   EmptyRange,
		renderCache: make(map[int]string),
		cacheSize:   defaultCacheSize,
	}
	vm.scrollEnd = NewDebouncer(defaultScrollEndDelay, vm.fireScrollEnd)
	return vm, nil
}

// Config returns the current window geometry
func (vm *ViewportManager) Config() Config {
	return vm.window.Config()
}

// SetTotalItems updates the total number of items
func (vm *ViewportManager) SetTotalItems(count int) {
	if count != vm.window.ItemCount() {
		vm.ClearCache()
	}
	vm.window.SetItemCount(count)
	vm.updateViewport()
}

// TotalItems returns the number of items in the list
func (vm *ViewportManager) TotalItems() int {
	return vm.window.ItemCount()
}

// SetViewportHeight updates the viewport height
func (vm *ViewportManager) SetViewportHeight(height int) error {
	if err := vm.window.SetViewportHeight(height); err != nil {
		return err
	}
	vm.updateViewport()
	return nil
}

// SetRowHeight updates the row height. Cached rows are dropped since they
// were rendered for the old height.
func (vm *ViewportManager) SetRowHeight(height int) error {
	previous := vm.window.Config().RowHeight
	if err := vm.window.SetRowHeight(height); err != nil {
		return err
	}
	if previous != height {
		vm.ClearCache()
	}
	vm.updateViewport()
	return nil
}

// SetOverscan updates the number of rows rendered outside the viewport
func (vm *ViewportManager) SetOverscan(rows int) error {
	if err := vm.window.SetOverscan(rows); err != nil {
		return err
	}
	vm.updateViewport()
	return nil
}

// SetWidth records the render width; cached rows are dropped on change
func (vm *ViewportManager) SetWidth(width int) {
	if width != vm.width {
		vm.width = width
		vm.ClearCache()
	}
}

// Width returns the render width
func (vm *ViewportManager) Width() int {
	return vm.width
}

// SetScrollEndDelay sets how long scrolling must be idle before the scroll
// end callback fires
func (vm *ViewportManager) SetScrollEndDelay(delay time.Duration) {
	vm.scrollEnd.SetDelay(delay)
}

// ScrollTo scrolls to an absolute offset
func (vm *ViewportManager) ScrollTo(offset int) {
	previous := vm.window.ScrollOffset()
	vm.window.SetScrollOffset(offset)

	if delta := vm.window.ScrollOffset() - previous; delta != 0 {
		vm.trackScrolling(delta)
	}
	vm.updateViewport()
}

// ScrollBy scrolls by a relative amount
func (vm *ViewportManager) ScrollBy(delta int) {
	vm.ScrollTo(vm.window.ScrollOffset() + delta)
}

// ScrollRows scrolls by a number of whole rows
func (vm *ViewportManager) ScrollRows(rows int) {
	vm.ScrollBy(rows * vm.window.Config().RowHeight)
}

// PageDown scrolls forward by one viewport
func (vm *ViewportManager) PageDown() {
	vm.ScrollBy(vm.window.Config().ViewportHeight)
}

// PageUp scrolls back by one viewport
func (vm *ViewportManager) PageUp() {
	vm.ScrollBy(-vm.window.Config().ViewportHeight)
}

// ScrollToTop scrolls to the first row
func (vm *ViewportManager) ScrollToTop() {
	vm.ScrollTo(0)
}

// ScrollToBottom scrolls so the last row sits at the bottom edge
func (vm *ViewportManager) ScrollToBottom() {
	vm.ScrollTo(vm.window.MaxScrollOffset())
}

// EnsureVisible scrolls the minimum amount needed to show the row at index
func (vm *ViewportManager) EnsureVisible(index int) {
	previous := vm.window.ScrollOffset()
	vm.window.ScrollToIndex(index)

	if delta := vm.window.ScrollOffset() - previous; delta != 0 {
		vm.trackScrolling(delta)
	}
	vm.updateViewport()
}

// ScrollOffset returns the current scroll offset
func (vm *ViewportManager) ScrollOffset() int {
	return vm.window.ScrollOffset()
}

// TotalHeight returns the scrollable extent of the list
func (vm *ViewportManager) TotalHeight() int {
	return vm.window.TotalHeight()
}

// OffsetOf returns the absolute offset of a row
func (vm *ViewportManager) OffsetOf(index int) int {
	return vm.window.OffsetOf(index)
}

// GetVisibleRange returns the currently visible item range
func (vm *ViewportManager) GetVisibleRange() Range {
	return vm.window.VisibleRange()
}

// GetRenderRange returns the range that should be rendered (including overscan)
func (vm *ViewportManager) GetRenderRange() Range {
	return vm.window.Range()
}

// RenderRows returns the items in the render range with their absolute
// offsets
func RenderRows[T any](vm *ViewportManager, items []T) []Row[T] {
	return Rows(vm.window, items)
}

// ShouldRenderItem returns whether an item should be rendered
func (vm *ViewportManager) ShouldRenderItem(index int) bool {
	return vm.window.Range().Contains(index)
}

// IsItemVisible returns whether an item is currently visible
func (vm *ViewportManager) IsItemVisible(index int) bool {
	return vm.window.VisibleRange().Contains(index)
}

// updateViewport reports render range changes
func (vm *ViewportManager) updateViewport() {
	current := vm.window.Range()
	if current == vm.lastRange {
		return
	}
	vm.lastRange = current

	vm.callbackMutex.Lock()
	callback := vm.onViewportChange
	vm.callbackMutex.Unlock()

	if callback != nil {
		callback(current)
	}
}

// trackScrolling updates scroll velocity and restarts scroll end detection
func (vm *ViewportManager) trackScrolling(delta int) {
	now := time.Now()
	if !vm.lastScrollTime.IsZero() {
		timeDelta := now.Sub(vm.lastScrollTime).Seconds()
		if timeDelta > 0 {
			rows := float64(delta) / float64(vm.window.Config().RowHeight)
			if rows < 0 {
				rows = -rows
			}
			vm.scrollVelocity = rows / timeDelta
		}
	}
	vm.lastScrollTime = now

	vm.scrollEnd.Trigger()
}

func (vm *ViewportManager) fireScrollEnd() {
	vm.callbackMutex.Lock()
	callback := vm.onScrollEnd
	vm.callbackMutex.Unlock()

	if callback != nil {
		callback()
	}
}

// CacheRenderedItem caches a rendered item
func (vm *ViewportManager) CacheRenderedItem(index int, content string) {
	renderRange := vm.window.Range()

	vm.cacheMutex.Lock()
	defer vm.cacheMutex.Unlock()

	if _, exists := vm.renderCache[index]; !exists && len(vm.renderCache) >= vm.cacheSize {
		vm.evictLocked(renderRange)
	}

	vm.renderCache[index] = content
}

// evictLocked removes one entry, preferring rows outside the render range
func (vm *ViewportManager) evictLocked(renderRange Range) {
	victim := -1
	for i := range vm.renderCache {
		if !renderRange.Contains(i) {
			victim = i
			break
		}
		if victim < 0 {
			victim = i
		}
	}
	if victim >= 0 {
		delete(vm.renderCache, victim)
	}
}

// GetCachedItem retrieves a cached rendered item
func (vm *ViewportManager) GetCachedItem(index int) (string, bool) {
	vm.cacheMutex.Lock()
	defer vm.cacheMutex.Unlock()

	content, exists := vm.renderCache[index]
	if exists {
		vm.cacheHits++
	} else {
		vm.cacheMisses++
	}
	return content, exists
}

// ClearCache clears the render cache
func (vm *ViewportManager) ClearCache() {
	vm.cacheMutex.Lock()
	defer vm.cacheMutex.Unlock()

	vm.renderCache = make(map[int]string)
}

// SetOnViewportChange sets the callback fired when the render range changes
func (vm *ViewportManager) SetOnViewportChange(callback func(Range)) {
	vm.callbackMutex.Lock()
	defer vm.callbackMutex.Unlock()
	vm.onViewportChange = callback
}

// SetOnScrollEnd sets the callback fired once scrolling has settled. It runs
// on a timer goroutine.
func (vm *ViewportManager) SetOnScrollEnd(callback func()) {
	vm.callbackMutex.Lock()
	defer vm.callbackMutex.Unlock()
	vm.onScrollEnd = callback
}

// Close cancels pending scroll end detection
func (vm *ViewportManager) Close() {
	vm.scrollEnd.Cancel()
}

// GetScrollVelocity returns the current scroll velocity in rows per second
func (vm *ViewportManager) GetScrollVelocity() float64 {
	return vm.scrollVelocity
}

// GetStats returns a snapshot of the viewport state
func (vm *ViewportManager) GetStats() Stats {
	cfg := vm.window.Config()

	vm.cacheMutex.RLock()
	defer vm.cacheMutex.RUnlock()

	return Stats{
		TotalItems:     vm.window.ItemCount(),
		TotalHeight:    vm.window.TotalHeight(),
		ScrollOffset:   vm.window.ScrollOffset(),
		ViewportHeight: cfg.ViewportHeight,
		RowHeight:      cfg.RowHeight,
		Overscan:       cfg.Overscan,
		Visible:        vm.window.VisibleRange(),
		Rendered:       vm.window.Range(),
		CacheSize:      len(vm.renderCache),
		CacheHits:      vm.cacheHits,
		CacheMisses:    vm.cacheMisses,
		ScrollVelocity: vm.scrollVelocity,
	}
}
