// Package views contains the terminal rendering backends for the UI.
package views

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/user/windowlist/internal/components/style"
	"github.com/user/windowlist/internal/components/window"
)

const scrollbarWidth = 1

// ListView is the terminal host for the windowed renderer. It implements
// both window.Viewport (it owns the scroll offset, in row units) and
// window.Surface (materialized elements become text rows). Rows outside the
// applied window stay blank; with a sane buffer they are never on screen
// long enough to notice.
//
// The renderer calls the Viewport and Surface methods from its debounce
// timer goroutine while the program goroutine scrolls and draws, so every
// method locks.
type ListView struct {
	styles *style.Manager

	mu     sync.Mutex
	width  int
	height int
	offset float64
	extent float64
	elems  []window.Element
}

// NewListView creates a list view using the given style manager.
func NewListView(styles *style.Manager) *ListView {
	return &ListView{styles: styles}
}

// SetSize updates the view dimensions and keeps the offset within bounds.
func (v *ListView) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
	v.clampOffsetLocked()
}

// Width returns the current view width.
func (v *ListView) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// ScrollOffset implements window.Viewport.
func (v *ListView) ScrollOffset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// Height implements window.Viewport.
func (v *ListView) Height() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(v.height)
}

// ScrollToTop implements window.Viewport.
func (v *ListView) ScrollToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = 0
}

// SetExtent implements window.Surface: the spacer extent, in rows, of the
// full (unrendered) list.
func (v *ListView) SetExtent(total float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.extent = total
	v.clampOffsetLocked()
}

// Apply implements window.Surface: a full replace of the materialized rows.
func (v *ListView) Apply(elems []window.Element) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.elems = elems
}

// ScrollBy moves the offset by delta rows, clamped to the extent. It reports
// whether the offset actually changed.
func (v *ListView) ScrollBy(delta float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollByLocked(delta)
}

// PageDown scrolls forward by one viewport height.
func (v *ListView) PageDown() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollByLocked(float64(v.height))
}

// PageUp scrolls back by one viewport height.
func (v *ListView) PageUp() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollByLocked(-float64(v.height))
}

// GotoTop jumps to the top of the list.
func (v *ListView) GotoTop() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollByLocked(-v.extent)
}

// GotoBottom jumps to the bottom of the list.
func (v *ListView) GotoBottom() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollByLocked(v.extent)
}

// AtTop reports whether the view shows the start of the list.
func (v *ListView) AtTop() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset == 0
}

// ScrollPercent returns the scroll position in [0, 1].
func (v *ListView) ScrollPercent() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollPercentLocked()
}

// TopElement returns the materialized element covering the top of the
// viewport, if any.
func (v *ListView) TopElement() (window.Element, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var best window.Element
	found := false
	for _, el := range v.elems {
		if el.Top > v.offset {
			continue
		}
		if !found || el.Top > best.Top {
			best = el
			found = true
		}
	}
	if !found && len(v.elems) > 0 {
		return v.elems[0], true
	}
	return best, found
}

// View renders the visible rows plus a right-hand scrollbar.
func (v *ListView) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.width <= 0 || v.height <= 0 {
		return ""
	}

	contentWidth := v.width - scrollbarWidth
	rows := make([]string, v.height)

	top := int(v.offset)
	for _, el := range v.elems {
		for j, line := range strings.Split(el.Body, "\n") {
			y := int(el.Top) + j - top
			if y < 0 || y >= v.height {
				continue
			}
			rows[y] = line
		}
	}

	bar := v.scrollbarLocked()
	var b strings.Builder
	for y := 0; y < v.height; y++ {
		line := rows[y]
		if w := lipgloss.Width(line); w > contentWidth {
			line = truncate.StringWithTail(line, uint(contentWidth), "…")
		} else if w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		}
		b.WriteString(line)
		b.WriteString(bar[y])
		if y < v.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (v *ListView) scrollByLocked(delta float64) bool {
	before := v.offset
	v.offset += delta
	v.clampOffsetLocked()
	return v.offset != before
}

// scrollbarLocked returns one styled cell per row: a thumb proportional to
// the visible fraction of the extent, on a plain track.
func (v *ListView) scrollbarLocked() []string {
	track := v.styles.Filler().Render("│")
	thumb := v.styles.Scrollbar().Render("█")

	cells := make([]string, v.height)
	if v.extent <= float64(v.height) {
		for y := range cells {
			cells[y] = thumb
		}
		return cells
	}

	thumbLen := int(float64(v.height) * float64(v.height) / v.extent)
	if thumbLen < 1 {
		thumbLen = 1
	}
	thumbStart := int(v.scrollPercentLocked() * float64(v.height-thumbLen))

	for y := range cells {
		if y >= thumbStart && y < thumbStart+thumbLen {
			cells[y] = thumb
		} else {
			cells[y] = track
		}
	}
	return cells
}

func (v *ListView) scrollPercentLocked() float64 {
	max := v.maxOffsetLocked()
	if max <= 0 {
		return 0
	}
	return v.offset / max
}

func (v *ListView) maxOffsetLocked() float64 {
	max := v.extent - float64(v.height)
	if max < 0 {
		return 0
	}
	return max
}

func (v *ListView) clampOffsetLocked() {
	if v.offset > v.maxOffsetLocked() {
		v.offset = v.maxOffsetLocked()
	}
	if v.offset < 0 {
		v.offset = 0
	}
}
