package heap

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/chunkheap/heap/internal/utils"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific arena behaviors to activate or deactivate
type CreateFlags int32

const (
	// ArenaCreateExternallySynchronized ensures that the arena will not be synchronized internally.
	// The consumer must guarantee it is used from only one goroutine at a time or is synchronized
	// by some other mechanism.
	ArenaCreateExternallySynchronized CreateFlags = 1 << iota
	// ArenaCreatePanicOnMisuse causes Free and the other per-allocation methods to panic, rather than
	// return ErrUnknownAddress, when they receive an address that is not a live allocation
	ArenaCreatePanicOnMisuse
)

var createFlagNames = []struct {
	flag CreateFlags
	name string
}{
	{ArenaCreateExternallySynchronized, "ArenaCreateExternallySynchronized"},
	{ArenaCreatePanicOnMisuse, "ArenaCreatePanicOnMisuse"},
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for _, entry := range createFlagNames {
		if f&entry.flag != 0 {
			names = append(names, entry.name)
			f &^= entry.flag
		}
	}
	if f != 0 {
		names = append(names, "Unknown")
	}

	return strings.Join(names, "|")
}

const (
	// DefaultCapacity is the arena size in bytes used when CreateOptions.Capacity is 0
	DefaultCapacity int = 640000
	// DefaultMaxChunks is the per-list entry bound used when CreateOptions.MaxChunks is 0
	DefaultMaxChunks int = 1024
)

// CreateOptions contains optional settings when creating an arena
type CreateOptions struct {
	// Capacity is the size in bytes of the arena's backing buffer
	Capacity int
	// MaxChunks is the number of entries that each of the allocated and free chunk lists can hold.
	// It bounds both the number of live allocations and the number of free ranges. Free ranges are
	// only merged by Alloc and Coalesce, so a bound smaller than the number of uncoalesced ranges a
	// workload produces between allocations makes Free return ErrCapacityExceeded.
	MaxChunks int
	// Flags indicates specific arena behaviors to activate or deactivate
	Flags CreateFlags

	// Callbacks is an optional set of hooks called as allocations are made and released
	Callbacks *CallbackOptions
}

// New creates a new Arena whose whole buffer starts out as a single free chunk
//
// logger - Receives debug records for each operation. If nil, records are discarded.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Arena, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}

	capacity := options.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	} else if capacity < 0 {
		return nil, errors.Newf("heap.CreateOptions.Capacity must not be negative, but was %d", capacity)
	}

	maxChunks := options.MaxChunks
	if maxChunks == 0 {
		maxChunks = DefaultMaxChunks
	} else if maxChunks < 0 {
		return nil, errors.Newf("heap.CreateOptions.MaxChunks must not be negative, but was %d", maxChunks)
	}

	arena := &Arena{
		mutex:    utils.NewOptionalRWMutex(options.Flags&ArenaCreateExternallySynchronized == 0),
		logger:   logger,
		flags:    options.Flags,
		userData: swiss.NewMap[Address, any](42),
	}
	arena.callbacks = arenaCallbacks{
		Callbacks: options.Callbacks,
		Arena:     arena,
	}
	arena.layout.init(capacity, maxChunks)

	logger.Debug("Arena::New",
		slog.Int("Capacity", capacity),
		slog.Int("MaxChunks", maxChunks),
		slog.String("Flags", options.Flags.String()),
	)

	return arena, nil
}
