package heap

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/chunkheap/heap/internal/utils"
	"github.com/vkngwrapper/chunkheap/memutils"
	"github.com/vkngwrapper/chunkheap/memutils/chunk"
	"golang.org/x/exp/slog"
)

// Address is a byte offset into an arena's buffer, as returned from Arena.Alloc
type Address int

const (
	// NoAddress is returned from Alloc when no allocation was made. Passing it to Free is a no-op.
	NoAddress Address = -1
)

// Arena is a fixed-size byte buffer that hands out ranges of itself with a first-fit policy.
// Live allocations and free ranges are each tracked in an address-ordered chunk list; free
// ranges are coalesced lazily, at the start of each Alloc, rather than when they are freed.
type Arena struct {
	mutex     *utils.OptionalRWMutex
	logger    *slog.Logger
	flags     CreateFlags
	callbacks arenaCallbacks

	layout   layout
	userData *swiss.Map[Address, any]
}

// Capacity returns the size in bytes of the arena's buffer
func (a *Arena) Capacity() int {
	return len(a.layout.buffer)
}

// MaxChunks returns the number of entries each of the arena's chunk lists can hold
func (a *Arena) MaxChunks() int {
	return a.layout.allocated.Cap()
}

// Alloc reserves size bytes and returns the address of the first byte. The boolean return value
// is false when the arena has no free range large enough for the request (or size is not positive),
// in which case the address is NoAddress. That is an ordinary outcome and not an error: the only
// error returned is one wrapping ErrCapacityExceeded, when the arena cannot track another allocation.
func (a *Arena) Alloc(size int) (Address, bool, error) {
	a.logger.Debug("Arena::Alloc", slog.Int("Size", size))

	if size <= 0 {
		return NoAddress, false, nil
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	memutils.DebugValidate(&a.layout)
	defer memutils.DebugValidate(&a.layout)

	region, success, err := a.layout.alloc(size)
	if err != nil || !success {
		return NoAddress, false, err
	}

	address := Address(region.Start)
	a.callbacks.Allocate(address, region.Size)

	return address, true, nil
}

// Free releases the allocation beginning at address. The released range is not merged with its
// neighbors until the next call to Alloc or Coalesce. Freeing NoAddress does nothing.
//
// If address is not a live allocation, an error wrapping ErrUnknownAddress is returned, or the
// arena panics when created with ArenaCreatePanicOnMisuse. If the free list has no room for
// another range, an error wrapping ErrCapacityExceeded is returned and the allocation stays live.
// Free does not coalesce to make room, even when the freed range touches a free neighbor, so a
// full free list stays full until Coalesce or Alloc merges it or an Alloc consumes a whole range.
// With MaxChunks 1 both lists are full once a partial allocation is live, so that allocation can
// never be freed.
func (a *Arena) Free(address Address) error {
	a.logger.Debug("Arena::Free", slog.Int("Address", int(address)))

	if address == NoAddress {
		return nil
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	memutils.DebugValidate(&a.layout)
	defer memutils.DebugValidate(&a.layout)

	region, err := a.layout.release(int(address))
	if err != nil {
		return a.misuse(err)
	}

	a.userData.Delete(address)
	a.callbacks.Free(address, region.Size)

	return nil
}

// Coalesce merges every run of adjacent free ranges into a single range. Alloc does this
// itself before searching for a free range.
func (a *Arena) Coalesce() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	before := a.layout.free.Len()
	err := a.layout.coalesce()
	if err != nil {
		return err
	}

	a.logger.Debug("Arena::Coalesce", slog.Int("Before", before), slog.Int("After", a.layout.free.Len()))
	return nil
}

// Bytes returns the portion of the arena's buffer that belongs to the allocation beginning at
// address. The slice's capacity is clipped to the allocation, and it must not be used after the
// allocation is freed.
func (a *Arena) Bytes(address Address) ([]byte, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	region, err := a.liveRegion(address)
	if err != nil {
		return nil, err
	}

	return a.layout.buffer[region.Start:region.End():region.End()], nil
}

// Size returns the size in bytes of the allocation beginning at address
func (a *Arena) Size(address Address) (int, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	region, err := a.liveRegion(address)
	if err != nil {
		return 0, err
	}

	return region.Size, nil
}

// SetUserData attaches an arbitrary value to the allocation beginning at address. The value is
// dropped when the allocation is freed.
func (a *Arena) SetUserData(address Address, userData any) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	_, err := a.liveRegion(address)
	if err != nil {
		return err
	}

	a.userData.Put(address, userData)
	return nil
}

// UserData retrieves the value attached to the allocation beginning at address with SetUserData,
// or nil if none was attached
func (a *Arena) UserData(address Address) (any, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	_, err := a.liveRegion(address)
	if err != nil {
		return nil, err
	}

	userData, _ := a.userData.Get(address)
	return userData, nil
}

func (a *Arena) liveRegion(address Address) (chunk.Chunk, error) {
	region, found := a.layout.find(int(address))
	if !found {
		return chunk.Chunk{}, a.misuse(errors.Wrapf(ErrUnknownAddress, "looking up address %d", address))
	}

	return region, nil
}

func (a *Arena) misuse(err error) error {
	if a.flags&ArenaCreatePanicOnMisuse != 0 && errors.Is(err, ErrUnknownAddress) {
		panic(err)
	}

	return err
}

// AllocatedChunks returns the live allocations in address order
func (a *Arena) AllocatedChunks() []chunk.Chunk {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.allocated.Chunks()
}

// FreeChunks returns the free ranges in address order. Ranges freed since the last Alloc or
// Coalesce have not been merged with their neighbors yet.
func (a *Arena) FreeChunks() []chunk.Chunk {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.free.Chunks()
}

// AllocationCount returns the number of live allocations
func (a *Arena) AllocationCount() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.allocated.Len()
}

// FreeRegionsCount returns the number of entries in the free list
func (a *Arena) FreeRegionsCount() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.free.Len()
}

// SumFreeSize returns the number of bytes not covered by a live allocation
func (a *Arena) SumFreeSize() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.free.SumSize()
}

// IsEmpty returns true if the arena has no live allocations
func (a *Arena) IsEmpty() bool {
	return a.AllocationCount() == 0
}

// AddStatistics sums this arena's allocation statistics into the provided object
func (a *Arena) AddStatistics(stats *memutils.Statistics) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	stats.ArenaCount++
	stats.ArenaBytes += len(a.layout.buffer)
	stats.AllocationCount += a.layout.allocated.Len()
	stats.AllocationBytes += a.layout.allocated.SumSize()
}

// AddDetailedStatistics sums this arena's allocation statistics, including the size spread of its
// allocations and free ranges, into the provided object
func (a *Arena) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	a.addDetailedStatistics(stats)
}

func (a *Arena) addDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.ArenaCount++
	stats.ArenaBytes += len(a.layout.buffer)

	_ = a.layout.visitAllRegions(func(region chunk.Chunk, free bool) error {
		stats.AddRegion(region.Size, free)
		return nil
	})
}

// VisitAllRegions calls the provided callback once for each allocation and free range in the
// arena, in address order. Iteration stops at the first error, which is returned. The callback
// runs while the arena's lock is held and must not call back into the arena.
func (a *Arena) VisitAllRegions(handleRegion func(address Address, size int, userData any, free bool) error) error {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.visitAllRegions(func(region chunk.Chunk, free bool) error {
		var userData any
		if !free {
			userData, _ = a.userData.Get(Address(region.Start))
		}

		return handleRegion(Address(region.Start), region.Size, userData, free)
	})
}

// PrintDetailedMap writes a json object describing the arena: its statistics, both chunk lists
// as they currently stand, and every region in address order
func (a *Arena) PrintDetailedMap(writer *jwriter.Writer) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	obj := writer.Object()
	defer obj.End()

	obj.Name("TotalBytes").Int(len(a.layout.buffer))
	obj.Name("UnusedBytes").Int(a.layout.free.SumSize())
	obj.Name("Allocations").Int(a.layout.allocated.Len())
	obj.Name("UnusedRanges").Int(a.layout.free.Len())

	var stats memutils.DetailedStatistics
	stats.Clear()
	a.addDetailedStatistics(&stats)

	statsObj := obj.Name("Statistics").Object()
	stats.WriteJSON(&statsObj)
	statsObj.End()

	allocated := obj.Name("Allocated").Array()
	a.layout.allocated.WriteJSON(&allocated)
	allocated.End()

	free := obj.Name("Free").Array()
	a.layout.free.WriteJSON(&free)
	free.End()

	arrayState := obj.Name("Regions").Array()
	defer arrayState.End()

	_ = a.layout.visitAllRegions(func(region chunk.Chunk, free bool) error {
		regionObj := arrayState.Object()
		defer regionObj.End()

		regionObj.Name("Offset").Int(region.Start)
		regionObj.Name("Size").Int(region.Size)

		if free {
			regionObj.Name("Type").String("FREE")
			return nil
		}

		regionObj.Name("Type").String("ALLOCATED")
		userData, _ := a.userData.Get(Address(region.Start))
		if userData != nil {
			regionObj.Name("CustomData").String(fmt.Sprintf("%+v", userData))
		}
		return nil
	})
}

// Validate performs internal consistency checks: both chunk lists must be sorted and free of
// overlaps, and together they must cover the whole buffer exactly once. When the arena is working
// correctly, this method should never return an error.
func (a *Arena) Validate() error {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.Validate()
}

// CheckCorruption verifies that no free range has been written to since it was freed. Free memory
// is only poisoned when built with the debug_mem_utils build tag; otherwise this always returns nil.
func (a *Arena) CheckCorruption() error {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.layout.checkCorruption()
}

// Clear instantly frees every allocation, leaving the whole buffer as a single free range
func (a *Arena) Clear() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.logger.Debug("Arena::Clear", slog.Int("AllocationCount", a.layout.allocated.Len()))

	a.layout.reset()
	a.userData = swiss.NewMap[Address, any](42)
}

// Destroy releases the arena's buffer. If any allocations are still live, each one is logged,
// an error is returned, and the arena is left intact. The arena must not be used after Destroy
// returns nil.
func (a *Arena) Destroy() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.layout.allocated.Len() > 0 {
		for _, region := range a.layout.allocated.Chunks() {
			userData, _ := a.userData.Get(Address(region.Start))
			a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unfreed allocation",
				slog.Int("offset", region.Start),
				slog.Int("size", region.Size),
				slog.Any("userData", userData),
			)
		}

		return errors.Newf("%d allocations were not freed before the destruction of this arena", a.layout.allocated.Len())
	}

	a.layout.buffer = nil
	a.layout.free.Reset()
	a.layout.scratch.Reset()
	return nil
}
