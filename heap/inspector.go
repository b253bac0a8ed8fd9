package heap

//go:generate mockgen -source=inspector.go -destination=mocks/inspector.go

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/chunkheap/memutils"
	"github.com/vkngwrapper/chunkheap/memutils/chunk"
)

// Inspector is the read-only view of an arena used for diagnostics
type Inspector interface {
	// AllocatedChunks returns the live allocations in address order
	AllocatedChunks() []chunk.Chunk
	// FreeChunks returns the free ranges in address order. Adjacent free ranges are not merged
	// until the next allocation, so this may contain runs of touching chunks.
	FreeChunks() []chunk.Chunk
	// AddDetailedStatistics sums the arena's statistics into the provided object
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// PrintDetailedMap writes a json object describing every region of the arena
	PrintDetailedMap(writer *jwriter.Writer)
}

var _ Inspector = &Arena{}
