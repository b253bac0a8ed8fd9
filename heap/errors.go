package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/chunkheap/memutils/chunk"
)

var (
	// ErrUnknownAddress is returned when an address is passed to Free (or another per-allocation
	// method) that is not the start of a live allocation: either it was never returned by Alloc,
	// or it has already been freed
	ErrUnknownAddress error = errors.New("address does not refer to a live allocation")
	// ErrCapacityExceeded is returned when Alloc or Free would need to add an entry to a chunk
	// list that is already full. The arena is left unchanged.
	ErrCapacityExceeded error = chunk.ErrCapacityExceeded
)
