package window

// Viewport is the scrollable host the renderer reads geometry from. The
// renderer never owns the host; scroll offset and height are sampled at
// computation time, in whatever unit the host uses (pixels, rows), as long as
// ItemHeight is expressed in the same unit.
type Viewport interface {
	// ScrollOffset returns the current scroll position from the top.
	ScrollOffset() float64
	// Height returns the visible content height. Zero is valid for a host
	// that has not been laid out yet.
	Height() float64
	// ScrollToTop resets the scroll position to zero.
	ScrollToTop()
}

// Element is one materialized item: the visible body positioned at a fixed
// offset from the top of the full-extent spacer.
type Element struct {
	// Index is the item's position in the visible view.
	Index int
	// Top is the offset of the element from the top of the spacer, always
	// Index * ItemHeight.
	Top float64
	// Body is the rendered representation produced by the RenderItem
	// callback.
	Body string
}

// Surface is the rendering backend. Each render is a full replace of the
// materialized subset; the subset size is bounded by viewport height and
// buffer, not by total list size.
type Surface interface {
	// SetExtent sets the spacer extent to the full-list size so the host
	// scrollbar reflects the unrendered whole.
	SetExtent(total float64)
	// Apply discards all previously materialized elements and installs the
	// given ones.
	Apply(elems []Element)
}
