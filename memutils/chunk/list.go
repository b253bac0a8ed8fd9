package chunk

import (
	"github.com/pkg/errors"
	"github.com/vkngwrapper/chunkheap/memutils"
	"golang.org/x/exp/slices"
)

// List is an address-ordered sequence of chunks with an upper bound on its entry count that is
// fixed when the list is created. Entries are kept sorted by Start. The list stores whatever it
// is given: callers are responsible for never inserting empty or overlapping chunks.
type List struct {
	capacity int
	chunks   []Chunk
}

var _ memutils.Validatable = &List{}

// NewList creates an empty list that can hold up to capacity entries. capacity must be positive.
func NewList(capacity int) *List {
	if capacity < 1 {
		panic(errors.Errorf("chunk list capacity must be positive, but was %d", capacity))
	}

	return &List{capacity: capacity}
}

// Len returns the number of entries currently in the list
func (l *List) Len() int { return len(l.chunks) }

// Cap returns the maximum number of entries the list can hold
func (l *List) Cap() int { return l.capacity }

// Full returns true if Insert would fail with ErrCapacityExceeded
func (l *List) Full() bool { return len(l.chunks) >= l.capacity }

// At returns the entry at the provided index. It panics with ErrIndexOutOfRange if index does
// not refer to an entry.
func (l *List) At(index int) Chunk {
	l.checkIndex(index, "reading")
	return l.chunks[index]
}

// Chunks returns a copy of the list's entries in address order
func (l *List) Chunks() []Chunk {
	return slices.Clone(l.chunks)
}

// SumSize returns the total number of bytes covered by the list's entries
func (l *List) SumSize() int {
	sum := 0
	for _, c := range l.chunks {
		sum += c.Size
	}
	return sum
}

// Reset removes every entry from the list
func (l *List) Reset() {
	l.chunks = l.chunks[:0]
}

// Find returns the index of the entry that begins at start. The boolean return value is false
// if there is no such entry.
func (l *List) Find(start int) (int, bool) {
	index := slices.IndexFunc(l.chunks, func(c Chunk) bool {
		return c.Start == start
	})
	return index, index >= 0
}

// Insert adds a new entry to the list in address order. The entry is appended and then swapped
// toward the front of the list until its predecessor begins at a lower offset. If the list is
// already at capacity, an error wrapping ErrCapacityExceeded is returned and the list is unchanged.
func (l *List) Insert(start, size int) error {
	if l.Full() {
		return errors.Wrapf(ErrCapacityExceeded, "inserting chunk at offset %d with %d of %d entries in use", start, len(l.chunks), l.capacity)
	}

	l.chunks = append(l.chunks, Chunk{Start: start, Size: size})

	for i := len(l.chunks) - 1; i > 0 && l.chunks[i].Start < l.chunks[i-1].Start; i-- {
		l.chunks[i], l.chunks[i-1] = l.chunks[i-1], l.chunks[i]
	}

	return nil
}

// Remove deletes the entry at the provided index, shifting every later entry down by one. It
// panics with ErrIndexOutOfRange if index does not refer to an entry.
func (l *List) Remove(index int) {
	l.checkIndex(index, "removing")
	l.chunks = slices.Delete(l.chunks, index, index+1)
}

// Merge rebuilds this list from src, coalescing entries that are exactly adjacent in address.
// The list is emptied first, then each entry of src is either absorbed into the last entry
// of this list (when that entry ends exactly where it begins) or inserted as a new entry.
//
// src must be a different list than the receiver. The only error returned is one wrapping
// ErrCapacityExceeded, which can only happen if this list is smaller than src.
func (l *List) Merge(src *List) error {
	if l == src {
		return errors.New("a chunk list cannot be merged into itself")
	}

	l.Reset()

	for _, current := range src.chunks {
		last := len(l.chunks) - 1
		if last >= 0 && l.chunks[last].Adjacent(current) {
			l.chunks[last].Size += current.Size
			continue
		}

		err := l.Insert(current.Start, current.Size)
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate checks that the list is strictly sorted, that no entries overlap or are empty, and
// that it holds no more entries than its capacity
func (l *List) Validate() error {
	if len(l.chunks) > l.capacity {
		return errors.Wrapf(memutils.ErrInvalidLayout, "the list holds %d entries but its capacity is %d", len(l.chunks), l.capacity)
	}

	for i, c := range l.chunks {
		if c.Size < 1 {
			return errors.Wrapf(memutils.ErrInvalidLayout, "entry %d at offset %d has a size of %d", i, c.Start, c.Size)
		}

		if i == 0 {
			continue
		}

		prev := l.chunks[i-1]
		if prev.Start >= c.Start {
			return errors.Wrapf(memutils.ErrInvalidLayout, "entry %d at offset %d is not sorted after the entry at offset %d", i, c.Start, prev.Start)
		}
		if prev.End() > c.Start {
			return errors.Wrapf(memutils.ErrInvalidLayout, "entry %d at offset %d overlaps the entry at offset %d, which ends at %d", i, c.Start, prev.Start, prev.End())
		}
	}

	return nil
}

func (l *List) checkIndex(index int, action string) {
	if index < 0 || index >= len(l.chunks) {
		panic(errors.Wrapf(ErrIndexOutOfRange, "%s index %d in a list of %d entries", action, index, len(l.chunks)))
	}
}
