package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/chunkheap/memutils"
	"github.com/vkngwrapper/chunkheap/memutils/chunk"
)

// layout is the unsynchronized core of an Arena: the buffer and the two chunk lists that
// partition it. Every offset in the buffer belongs to exactly one chunk across allocated and
// free between calls.
type layout struct {
	buffer    []byte
	allocated *chunk.List
	free      *chunk.List
	// scratch is the destination for coalescing the free list; the two are swapped afterward
	scratch *chunk.List
}

var _ memutils.Validatable = &layout{}

func (l *layout) init(capacity, maxChunks int) {
	l.buffer = make([]byte, capacity)
	l.allocated = chunk.NewList(maxChunks)
	l.free = chunk.NewList(maxChunks)
	l.scratch = chunk.NewList(maxChunks)
	l.reset()
}

func (l *layout) reset() {
	l.allocated.Reset()
	l.free.Reset()
	l.scratch.Reset()

	if len(l.buffer) > 0 {
		mustInsert(l.free, 0, len(l.buffer))
	}
	memutils.WriteMagicValue(l.buffer, 0, len(l.buffer))
}

func (l *layout) coalesce() error {
	err := l.scratch.Merge(l.free)
	if err != nil {
		return err
	}

	l.free, l.scratch = l.scratch, l.free
	return nil
}

// alloc carves size bytes out of the first free chunk that can hold them. size must be positive.
// The boolean return value is false when no free chunk is large enough.
func (l *layout) alloc(size int) (chunk.Chunk, bool, error) {
	if l.allocated.Full() {
		return chunk.Chunk{}, false, errors.Wrapf(ErrCapacityExceeded, "allocating %d bytes with %d live allocations", size, l.allocated.Len())
	}

	err := l.coalesce()
	if err != nil {
		return chunk.Chunk{}, false, err
	}

	for i := 0; i < l.free.Len(); i++ {
		candidate := l.free.At(i)
		if candidate.Size < size {
			continue
		}

		l.free.Remove(i)
		mustInsert(l.allocated, candidate.Start, size)

		if tail := candidate.Size - size; tail > 0 {
			mustInsert(l.free, candidate.Start+size, tail)
		}

		return chunk.Chunk{Start: candidate.Start, Size: size}, true, nil
	}

	return chunk.Chunk{}, false, nil
}

// release moves the allocation beginning at start back to the free list without coalescing it
func (l *layout) release(start int) (chunk.Chunk, error) {
	index, found := l.allocated.Find(start)
	if !found {
		return chunk.Chunk{}, errors.Wrapf(ErrUnknownAddress, "freeing address %d", start)
	}

	if l.free.Full() {
		return chunk.Chunk{}, errors.Wrapf(ErrCapacityExceeded, "freeing address %d with %d free ranges", start, l.free.Len())
	}

	released := l.allocated.At(index)
	mustInsert(l.free, released.Start, released.Size)
	l.allocated.Remove(index)

	memutils.WriteMagicValue(l.buffer, released.Start, released.Size)

	return released, nil
}

func (l *layout) find(start int) (chunk.Chunk, bool) {
	index, found := l.allocated.Find(start)
	if !found {
		return chunk.Chunk{}, false
	}

	return l.allocated.At(index), true
}

// visitAllRegions calls handleRegion for every allocated and free chunk in address order
func (l *layout) visitAllRegions(handleRegion func(region chunk.Chunk, free bool) error) error {
	allocIndex, freeIndex := 0, 0

	for allocIndex < l.allocated.Len() || freeIndex < l.free.Len() {
		var region chunk.Chunk
		var free bool

		switch {
		case freeIndex >= l.free.Len():
			region = l.allocated.At(allocIndex)
			allocIndex++
		case allocIndex >= l.allocated.Len():
			region, free = l.free.At(freeIndex), true
			freeIndex++
		case l.free.At(freeIndex).Start < l.allocated.At(allocIndex).Start:
			region, free = l.free.At(freeIndex), true
			freeIndex++
		default:
			region = l.allocated.At(allocIndex)
			allocIndex++
		}

		err := handleRegion(region, free)
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate checks both chunk lists and then that, together, they cover the buffer exactly once
func (l *layout) Validate() error {
	err := l.allocated.Validate()
	if err != nil {
		return errors.Wrap(err, "allocated chunk list")
	}

	err = l.free.Validate()
	if err != nil {
		return errors.Wrap(err, "free chunk list")
	}

	nextOffset := 0
	err = l.visitAllRegions(func(region chunk.Chunk, free bool) error {
		if region.Start != nextOffset {
			return errors.Wrapf(memutils.ErrInvalidLayout, "the region at offset %d should begin at offset %d", region.Start, nextOffset)
		}

		nextOffset = region.End()
		return nil
	})
	if err != nil {
		return err
	}

	if nextOffset != len(l.buffer) {
		return errors.Wrapf(memutils.ErrInvalidLayout, "the arena holds %d bytes, but its regions only cover %d", len(l.buffer), nextOffset)
	}

	return nil
}

func (l *layout) checkCorruption() error {
	for _, region := range l.free.Chunks() {
		if !memutils.ValidateMagicValue(l.buffer, region.Start, region.Size) {
			return errors.Newf("the free region at offset %d with size %d was written to after it was freed", region.Start, region.Size)
		}
	}

	return nil
}

func mustInsert(list *chunk.List, start, size int) {
	err := list.Insert(start, size)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "chunk list had no room for a chunk at offset %d after capacity was checked", start))
	}
}
