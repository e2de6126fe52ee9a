// Package window implements a windowed list renderer: only the slice of a
// large, uniformly-spaced item list that is visible (plus a buffer margin) is
// materialized, while the host scrollbar keeps reflecting the full extent.
package window

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/user/windowlist/internal/components/debounce"
)

// Construction defaults.
const (
	DefaultItemHeight = 200
	DefaultBuffer     = 5
	DefaultDebounce   = 16 * time.Millisecond // one frame at 60Hz
)

// RenderItemFunc produces the visual body for one item. It must return a
// fresh value each call and is responsible for visually fitting within
// ItemHeight; the renderer only positions the result.
type RenderItemFunc[T any] func(item T, index int) string

// Options configures a Renderer.
type Options[T any] struct {
	// Viewport locates the scrollable host. Nil leaves the renderer inert:
	// a diagnostic is logged and every operation becomes a no-op.
	Viewport Viewport
	// Surface receives the materialized elements. Nil also leaves the
	// renderer inert.
	Surface Surface
	// ItemHeight is the uniform per-item extent, in the viewport's unit.
	// Zero selects DefaultItemHeight; negative values are rejected.
	ItemHeight float64
	// Buffer is the count of extra items materialized beyond each edge of
	// the strictly visible range. Negative values are rejected.
	Buffer int
	// Debounce is the scroll quiet period. Zero selects DefaultDebounce.
	Debounce time.Duration
	// RenderItem renders one item. Nil selects a placeholder renderer
	// labeled by index.
	RenderItem RenderItemFunc[T]
	// Clock drives the scroll debounce timer. Nil selects the system clock.
	Clock debounce.Clock
	// Log receives diagnostics. Nil selects the logrus standard logger.
	Log logrus.FieldLogger
}

// DefaultOptions returns Options with the documented defaults filled in.
func DefaultOptions[T any]() Options[T] {
	return Options[T]{
		ItemHeight: DefaultItemHeight,
		Buffer:     DefaultBuffer,
		Debounce:   DefaultDebounce,
	}
}

// Renderer owns the item store, the viewport tracker and the range state for
// one windowed list. All mutation runs to completion on the calling
// goroutine; the only asynchronous element is the debounce timer, and at most
// one pending recomputation exists at any time.
type Renderer[T any] struct {
	store      *Store[T]
	tracker    *Tracker
	viewport   Viewport
	surface    Surface
	itemHeight float64
	buffer     int
	renderItem RenderItemFunc[T]
	log        logrus.FieldLogger

	mu        sync.Mutex
	last      Range
	rendered  bool
	inert     bool
	destroyed bool
}

// New creates a windowed renderer. Invalid geometry (negative ItemHeight or
// Buffer) fails fast, since all range math divides by the item height. A
// missing Viewport or Surface is a configuration error, not a fatal one: the
// returned renderer is inert and logs a diagnostic.
func New[T any](opts Options[T]) (*Renderer[T], error) {
	if opts.ItemHeight < 0 {
		return nil, fmt.Errorf("window: item height must be positive, got %v", opts.ItemHeight)
	}
	if opts.Buffer < 0 {
		return nil, fmt.Errorf("window: buffer must be non-negative, got %d", opts.Buffer)
	}

	if opts.ItemHeight == 0 {
		opts.ItemHeight = DefaultItemHeight
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RenderItem == nil {
		opts.RenderItem = placeholderRenderItem[T]
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	r := &Renderer[T]{
		store:      NewStore[T](),
		viewport:   opts.Viewport,
		surface:    opts.Surface,
		itemHeight: opts.ItemHeight,
		buffer:     opts.Buffer,
		renderItem: opts.RenderItem,
		log:        opts.Log,
	}
	r.tracker = NewTracker(opts.Debounce, opts.Clock, func() { r.refresh(false) })

	if opts.Viewport == nil || opts.Surface == nil {
		r.log.Warn("window: no host viewport/surface resolved, renderer is inert")
		r.inert = true
	}
	return r, nil
}

// placeholderRenderItem is the default item renderer: a placeholder labeled
// by index.
func placeholderRenderItem[T any](_ T, index int) string {
	return fmt.Sprintf("item %d", index)
}

// SetItems replaces the full collection, resets filter and sort to identity,
// scrolls the host back to the top and renders synchronously, so callers
// observe an up-to-date surface when the call returns. Empty input is valid
// and yields an empty visible range. The mutation happens under the renderer
// lock: a pending debounced update fires on a timer goroutine and reads the
// same store and viewport.
func (r *Renderer[T]) SetItems(items []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inert || r.destroyed {
		return
	}
	r.store.SetItems(items)
	r.viewport.ScrollToTop()
	r.refreshLocked(true)
}

// FilterItems derives the visible view from the items matching keep. The full
// collection is untouched. Scroll resets to the top and the surface is
// re-rendered synchronously.
func (r *Renderer[T]) FilterItems(keep func(T) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inert || r.destroyed {
		return
	}
	r.store.Filter(keep)
	r.viewport.ScrollToTop()
	r.refreshLocked(true)
}

// SortItems stably sorts the visible view in place and re-renders
// synchronously. The scroll position is preserved.
func (r *Renderer[T]) SortItems(cmp func(a, b T) int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inert || r.destroyed {
		return
	}
	r.store.Sort(cmp)
	r.refreshLocked(true)
}

// NotifyScroll records a raw scroll notification from the host. Updates are
// trailing-edge debounced: a continuous burst produces at most one render per
// debounce interval and the last requested state is never dropped.
func (r *Renderer[T]) NotifyScroll() {
	if r.skip() {
		return
	}
	r.tracker.Scroll()
}

// NotifyResize reacts to a host content-box size change with an immediate,
// non-debounced recomputation.
func (r *Renderer[T]) NotifyResize() {
	if r.skip() {
		return
	}
	r.tracker.Resize()
}

// Refresh recomputes the range from current geometry and renders if it
// changed.
func (r *Renderer[T]) Refresh() {
	if r.skip() {
		return
	}
	r.refresh(false)
}

// LastRange returns the most recently applied range.
func (r *Renderer[T]) LastRange() Range {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// VisibleLen returns the number of items in the visible (filtered) view.
func (r *Renderer[T]) VisibleLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Len()
}

// ItemAt returns the visible item at index i.
func (r *Renderer[T]) ItemAt(i int) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.At(i)
}

// Destroy releases the renderer: the tracker is unsubscribed before any
// pending debounced update is cancelled, so no callback can fire afterwards.
// Destroy is idempotent; every other method becomes a no-op once called.
func (r *Renderer[T]) Destroy() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.destroyed = true
	r.mu.Unlock()

	r.tracker.Close()
}

func (r *Renderer[T]) skip() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inert || r.destroyed
}

// refresh runs the range calculator against current viewport geometry and
// re-materializes the surface. Unless forced, an unchanged range skips the
// render entirely: re-render cost is O(visible items) and occurs once per
// distinct range, not once per scroll event.
func (r *Renderer[T]) refresh(force bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inert || r.destroyed {
		return
	}
	r.refreshLocked(force)
}

// refreshLocked is refresh's body; callers hold r.mu.
func (r *Renderer[T]) refreshLocked(force bool) {
	count := r.store.Len()
	next := Compute(r.viewport.ScrollOffset(), r.viewport.Height(), r.itemHeight, r.buffer, count)
	if !force && r.rendered && next == r.last {
		return
	}
	r.last = next
	r.rendered = true

	elems := make([]Element, 0, next.Len())
	for i := next.Start; i < next.End; i++ {
		item, ok := r.store.At(i)
		if !ok {
			continue
		}
		body, err := r.renderOne(item, i)
		if err != nil {
			// One failing item must not abort the rest of the window.
			r.log.WithError(err).Warn("window: item render failed, skipping")
			continue
		}
		elems = append(elems, Element{
			Index: i,
			Top:   float64(i) * r.itemHeight,
			Body:  body,
		})
	}

	r.surface.SetExtent(float64(count) * r.itemHeight)
	r.surface.Apply(elems)
}

func (r *Renderer[T]) renderOne(item T, index int) (body string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render item %d: %v", index, p)
		}
	}()
	return r.renderItem(item, index), nil
}
