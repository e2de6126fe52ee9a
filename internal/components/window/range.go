package window

import "math"

// Range is a half-open index interval [Start, End) over the visible items.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Compute maps viewport geometry to the contiguous index range that must be
// materialized, with buffer extra items beyond each edge of the strictly
// visible interval. The result is clamped to [0, count] and always satisfies
// Start <= End.
//
// count == 0 yields the empty range. viewportHeight == 0 (host not laid out
// yet) degenerates to a minimal buffer-only range rather than erroring.
// itemHeight must be positive; the renderer validates that at construction,
// and Compute returns the empty range defensively if it is not.
func Compute(scrollOffset, viewportHeight, itemHeight float64, buffer, count int) Range {
	if count <= 0 || itemHeight <= 0 {
		return Range{}
	}
	if buffer < 0 {
		buffer = 0
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	start := int(math.Floor(scrollOffset/itemHeight)) - buffer
	end := int(math.Ceil((scrollOffset+viewportHeight)/itemHeight)) + buffer

	return Range{
		Start: clampIndex(start, count),
		End:   clampIndex(end, count),
	}
}

func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i > count {
		return count
	}
	return i
}
