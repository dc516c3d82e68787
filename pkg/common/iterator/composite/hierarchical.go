package composite

import (
	"sync"

	"github.com/KevoDB/iterfacade/pkg/common/iterator"
)

// HierarchicalIterator merges ascending sources where newer sources (earlier
// in the sources slice) take precedence over older sources. When multiple
// sources hold values that compare equal, the value from the newest source
// is used and the others are skipped.
type HierarchicalIterator[T any] struct {
	// Iterators in order from newest to oldest
	iterators []iterator.Iterator[T]
	cmp       func(a, b T) int

	value T
	valid bool

	mu sync.RWMutex
}

// NewHierarchicalIterator creates a new hierarchical iterator.
// Sources must be provided in newest-to-oldest order.
func NewHierarchicalIterator[T any](cmp func(a, b T) int, iterators ...iterator.Iterator[T]) *HierarchicalIterator[T] {
	return &HierarchicalIterator[T]{
		iterators: iterators,
		cmp:       cmp,
	}
}

// SeekToFirst positions the iterator at the smallest value
func (h *HierarchicalIterator[T]) SeekToFirst() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, iter := range h.iterators {
		iter.SeekToFirst()
	}
	h.findNextUnique(nil)
}

// Next advances the iterator to the next distinct value
func (h *HierarchicalIterator[T]) Next() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.valid {
		return false
	}
	prev := h.value
	return h.findNextUnique(&prev)
}

// Value returns the current value
func (h *HierarchicalIterator[T]) Value() T {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.valid {
		var zero T
		return zero
	}
	return h.value
}

// Valid returns true if the iterator is positioned at a value
func (h *HierarchicalIterator[T]) Valid() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.valid
}

// NumSources returns the number of source iterators
func (h *HierarchicalIterator[T]) NumSources() int {
	return len(h.iterators)
}

// GetSourceIterators returns the underlying source iterators
func (h *HierarchicalIterator[T]) GetSourceIterators() []iterator.Iterator[T] {
	return h.iterators
}

// findNextUnique finds the smallest value greater than prev, or the smallest
// value overall when prev is nil. Returns true if a value was found.
func (h *HierarchicalIterator[T]) findNextUnique(prev *T) bool {
	best := -1
	h.valid = false

	for i, iter := range h.iterators {
		// Advance past values already yielded
		for prev != nil && iter.Valid() && h.cmp(iter.Value(), *prev) <= 0 {
			if !iter.Next() {
				break
			}
		}
		if !iter.Valid() {
			continue
		}

		// Strictly smaller only, so the newest source wins ties
		if best == -1 || h.cmp(iter.Value(), h.value) < 0 {
			h.value = iter.Value()
			best = i
		}
	}

	h.valid = best != -1
	return h.valid
}
