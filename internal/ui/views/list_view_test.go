package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/windowlist/internal/components/style"
	"github.com/user/windowlist/internal/components/window"
)

func newTestView(width, height int) *ListView {
	v := NewListView(style.NewManager())
	v.SetSize(width, height)
	return v
}

func TestListViewScrollClamping(t *testing.T) {
	v := newTestView(40, 10)
	v.SetExtent(100)

	assert.True(t, v.AtTop())
	assert.True(t, v.ScrollBy(5))
	assert.Equal(t, 5.0, v.ScrollOffset())

	// Past the bottom clamps to extent - height.
	v.ScrollBy(1000)
	assert.Equal(t, 90.0, v.ScrollOffset())
	assert.False(t, v.ScrollBy(1), "already at the bottom")

	v.GotoTop()
	assert.Equal(t, 0.0, v.ScrollOffset())
	assert.False(t, v.ScrollBy(-1), "already at the top")

	v.GotoBottom()
	assert.Equal(t, 90.0, v.ScrollOffset())
}

func TestListViewShortExtentNeverScrolls(t *testing.T) {
	v := newTestView(40, 10)
	v.SetExtent(4)

	assert.False(t, v.ScrollBy(3))
	assert.Equal(t, 0.0, v.ScrollOffset())
	assert.Equal(t, 0.0, v.ScrollPercent())
}

func TestListViewExtentShrinkPullsOffsetBack(t *testing.T) {
	v := newTestView(40, 10)
	v.SetExtent(100)
	v.ScrollBy(90)

	// A narrower filter shrinks the extent; the offset must follow.
	v.SetExtent(20)
	assert.Equal(t, 10.0, v.ScrollOffset())
}

func TestListViewViewPlacesElements(t *testing.T) {
	v := newTestView(20, 4)
	v.SetExtent(8)
	v.Apply([]window.Element{
		{Index: 0, Top: 0, Body: "first"},
		{Index: 1, Top: 2, Body: "second"},
	})

	lines := strings.Split(v.View(), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[2], "second")
	assert.NotContains(t, lines[1], "second")
}

func TestListViewViewRespectsScrollOffset(t *testing.T) {
	v := newTestView(20, 4)
	v.SetExtent(20)
	v.Apply([]window.Element{
		{Index: 2, Top: 4, Body: "row-two"},
		{Index: 3, Top: 6, Body: "row-three"},
	})
	v.ScrollBy(4)

	lines := strings.Split(v.View(), "\n")
	assert.Contains(t, lines[0], "row-two")
	assert.Contains(t, lines[2], "row-three")
}

func TestListViewMultilineBody(t *testing.T) {
	v := newTestView(20, 4)
	v.SetExtent(4)
	v.Apply([]window.Element{
		{Index: 0, Top: 0, Body: "head\ntail"},
	})

	lines := strings.Split(v.View(), "\n")
	assert.Contains(t, lines[0], "head")
	assert.Contains(t, lines[1], "tail")
}

func TestListViewTruncatesWideRows(t *testing.T) {
	v := newTestView(10, 2)
	v.SetExtent(2)
	v.Apply([]window.Element{
		{Index: 0, Top: 0, Body: strings.Repeat("x", 50)},
	})

	for _, line := range strings.Split(v.View(), "\n") {
		assert.LessOrEqual(t, len([]rune(stripANSI(line))), 10)
	}
}

func TestListViewEmpty(t *testing.T) {
	v := newTestView(20, 3)
	v.SetExtent(0)
	v.Apply(nil)

	lines := strings.Split(v.View(), "\n")
	assert.Len(t, lines, 3)

	_, ok := v.TopElement()
	assert.False(t, ok)
}

func TestListViewZeroSize(t *testing.T) {
	v := NewListView(style.NewManager())
	assert.Equal(t, "", v.View())
	assert.Equal(t, 0.0, v.Height())
}

func TestListViewTopElement(t *testing.T) {
	v := newTestView(20, 4)
	v.SetExtent(20)
	v.Apply([]window.Element{
		{Index: 1, Top: 2, Body: "a"},
		{Index: 2, Top: 4, Body: "b"},
		{Index: 3, Top: 6, Body: "c"},
	})
	v.ScrollBy(5)

	el, ok := v.TopElement()
	assert.True(t, ok)
	assert.Equal(t, 2, el.Index, "element covering the viewport top row")
}

func TestListViewScrollPercent(t *testing.T) {
	v := newTestView(20, 10)
	v.SetExtent(110)
	assert.Equal(t, 0.0, v.ScrollPercent())
	v.ScrollBy(50)
	assert.InDelta(t, 0.5, v.ScrollPercent(), 0.001)
	v.GotoBottom()
	assert.Equal(t, 1.0, v.ScrollPercent())
}

func TestListViewConcurrentHostAccess(t *testing.T) {
	// The renderer applies extents and elements from its debounce timer
	// goroutine while the program goroutine scrolls and draws. Run with -race.
	v := newTestView(40, 10)
	v.SetExtent(400)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			v.SetExtent(float64(200 + i))
			v.Apply([]window.Element{
				{Index: i, Top: float64(i), Body: "row"},
			})
			v.ScrollToTop()
		}
	}()

	for i := 0; i < 200; i++ {
		v.ScrollBy(1)
		_ = v.View()
		_, _ = v.TopElement()
		_ = v.ScrollPercent()
	}
	<-done

	// Final extent is 399 rows against a height of 10: the offset can never
	// exceed 389 no matter how the operations interleaved.
	assert.LessOrEqual(t, v.ScrollOffset(), 389.0)
}

// stripANSI removes escape sequences so width assertions see display cells.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
