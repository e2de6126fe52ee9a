package window

import "sort"

// Store holds the full ordered item collection plus the derived visible view
// that filtering and sorting operate on. Items are opaque; identity is
// positional within the visible view.
type Store[T any] struct {
	all     []T
	visible []T
}

// NewStore creates an empty item store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

// SetItems replaces the full collection and resets the visible view to a copy
// of it, discarding any active filter or sort.
func (s *Store[T]) SetItems(items []T) {
	s.all = append([]T(nil), items...)
	s.visible = append([]T(nil), items...)
}

// Filter rebuilds the visible view from the items for which keep returns
// true. The full collection is untouched, so a later Filter with a wider
// predicate restores items.
func (s *Store[T]) Filter(keep func(T) bool) {
	s.visible = s.visible[:0]
	for _, item := range s.all {
		if keep(item) {
			s.visible = append(s.visible, item)
		}
	}
}

// Sort stably sorts the visible view in place. cmp follows the usual
// three-way contract: negative when a orders before b.
func (s *Store[T]) Sort(cmp func(a, b T) int) {
	sort.SliceStable(s.visible, func(i, j int) bool {
		return cmp(s.visible[i], s.visible[j]) < 0
	})
}

// Len returns the number of visible items.
func (s *Store[T]) Len() int {
	return len(s.visible)
}

// TotalLen returns the size of the full collection regardless of filtering.
func (s *Store[T]) TotalLen() int {
	return len(s.all)
}

// At returns the visible item at index i.
func (s *Store[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(s.visible) {
		var zero T
		return zero, false
	}
	return s.visible[i], true
}

// Visible returns the current visible view. The slice is owned by the store;
// callers must not mutate it.
func (s *Store[T]) Visible() []T {
	return s.visible
}
