package heap_test

import (
	"math"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/chunkheap/heap"
	"github.com/vkngwrapper/chunkheap/memutils"
	"github.com/vkngwrapper/chunkheap/memutils/chunk"
	"golang.org/x/exp/slog"
)

func newArena(t *testing.T, capacity, maxChunks int, flags heap.CreateFlags) *heap.Arena {
	logger := slog.New(slog.NewTextHandler(os.Stdout))

	arena, err := heap.New(logger, heap.CreateOptions{
		Capacity:  capacity,
		MaxChunks: maxChunks,
		Flags:     flags,
	})
	require.NoError(t, err)
	requirePartition(t, arena)

	return arena
}

func mustAlloc(t *testing.T, arena *heap.Arena, size int) heap.Address {
	address, success, err := arena.Alloc(size)
	require.NoError(t, err)
	require.True(t, success)
	require.NotEqual(t, heap.NoAddress, address)
	requirePartition(t, arena)

	return address
}

func mustFree(t *testing.T, arena *heap.Arena, address heap.Address) {
	require.NoError(t, arena.Free(address))
	requirePartition(t, arena)
}

// requirePartition checks that the allocated and free lists are sorted and together cover
// [0, capacity) exactly once
func requirePartition(t *testing.T, arena *heap.Arena) {
	require.NoError(t, arena.Validate())

	covered := make([]int, arena.Capacity())
	for _, list := range [][]chunk.Chunk{arena.AllocatedChunks(), arena.FreeChunks()} {
		for i, c := range list {
			require.Greater(t, c.Size, 0)
			if i > 0 {
				require.Less(t, list[i-1].Start, c.Start)
			}
			for offset := c.Start; offset < c.End(); offset++ {
				covered[offset]++
			}
		}
	}

	for offset, count := range covered {
		require.Equalf(t, 1, count, "offset %d is covered by %d chunks", offset, count)
	}
}

func TestNewDefaults(t *testing.T) {
	arena, err := heap.New(nil, heap.CreateOptions{})
	require.NoError(t, err)

	require.Equal(t, heap.DefaultCapacity, arena.Capacity())
	require.Equal(t, heap.DefaultMaxChunks, arena.MaxChunks())
	require.Empty(t, arena.AllocatedChunks())
	require.Equal(t, []chunk.Chunk{{Start: 0, Size: heap.DefaultCapacity}}, arena.FreeChunks())
	require.True(t, arena.IsEmpty())
}

func TestNewRejectsNegativeOptions(t *testing.T) {
	_, err := heap.New(nil, heap.CreateOptions{Capacity: -1})
	require.Error(t, err)

	_, err = heap.New(nil, heap.CreateOptions{MaxChunks: -1})
	require.Error(t, err)
}

func TestCreateFlagsString(t *testing.T) {
	require.Equal(t, "None", heap.CreateFlags(0).String())
	require.Equal(t, "ArenaCreatePanicOnMisuse", heap.ArenaCreatePanicOnMisuse.String())
	require.Equal(t, "ArenaCreateExternallySynchronized|ArenaCreatePanicOnMisuse",
		(heap.ArenaCreateExternallySynchronized | heap.ArenaCreatePanicOnMisuse).String())
}

func TestBytes(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	first := mustAlloc(t, arena, 10)
	second := mustAlloc(t, arena, 20)

	data, err := arena.Bytes(second)
	require.NoError(t, err)
	require.Len(t, data, 20)
	require.Equal(t, 20, cap(data))

	for i := range data {
		data[i] = byte(i)
	}

	again, err := arena.Bytes(second)
	require.NoError(t, err)
	require.Equal(t, data, again)

	firstData, err := arena.Bytes(first)
	require.NoError(t, err)
	require.Len(t, firstData, 10)

	size, err := arena.Size(second)
	require.NoError(t, err)
	require.Equal(t, 20, size)

	_, err = arena.Bytes(heap.Address(5))
	require.True(t, errors.Is(err, heap.ErrUnknownAddress))

	_, err = arena.Size(heap.NoAddress)
	require.True(t, errors.Is(err, heap.ErrUnknownAddress))
}

func TestUserData(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	address := mustAlloc(t, arena, 10)

	userData, err := arena.UserData(address)
	require.NoError(t, err)
	require.Nil(t, userData)

	require.NoError(t, arena.SetUserData(address, "texture"))

	userData, err = arena.UserData(address)
	require.NoError(t, err)
	require.Equal(t, "texture", userData)

	mustFree(t, arena, address)

	_, err = arena.UserData(address)
	require.True(t, errors.Is(err, heap.ErrUnknownAddress))
	require.True(t, errors.Is(arena.SetUserData(address, "mesh"), heap.ErrUnknownAddress))

	// The same address handed out again starts without user data
	again := mustAlloc(t, arena, 10)
	require.Equal(t, address, again)

	userData, err = arena.UserData(again)
	require.NoError(t, err)
	require.Nil(t, userData)
}

func TestStatistics(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	first := mustAlloc(t, arena, 10)
	mustAlloc(t, arena, 30)
	mustFree(t, arena, first)

	var stats memutils.Statistics
	arena.AddStatistics(&stats)
	require.Equal(t, memutils.Statistics{
		ArenaCount:      1,
		AllocationCount: 1,
		ArenaBytes:      100,
		AllocationBytes: 30,
	}, stats)
	require.Equal(t, 70, stats.FreeBytes())

	var detailed memutils.DetailedStatistics
	detailed.Clear()
	arena.AddDetailedStatistics(&detailed)
	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			ArenaCount:      1,
			AllocationCount: 1,
			ArenaBytes:      100,
			AllocationBytes: 30,
		},
		FreeRangeCount:    2,
		AllocationSizeMin: 30,
		AllocationSizeMax: 30,
		FreeRangeSizeMin:  10,
		FreeRangeSizeMax:  60,
	}, detailed)

	require.Equal(t, 1, arena.AllocationCount())
	require.Equal(t, 2, arena.FreeRegionsCount())
	require.Equal(t, 70, arena.SumFreeSize())
}

func TestStatisticsEmptyArena(t *testing.T) {
	arena := newArena(t, 1000, 8, 0)

	var detailed memutils.DetailedStatistics
	detailed.Clear()
	arena.AddDetailedStatistics(&detailed)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			ArenaCount: 1,
			ArenaBytes: 1000,
		},
		FreeRangeCount:    1,
		AllocationSizeMin: math.MaxInt,
		AllocationSizeMax: 0,
		FreeRangeSizeMin:  1000,
		FreeRangeSizeMax:  1000,
	}, detailed)
}

func TestPrintDetailedMap(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	first := mustAlloc(t, arena, 10)
	second := mustAlloc(t, arena, 20)
	require.NoError(t, arena.SetUserData(second, "vertices"))
	mustFree(t, arena, first)

	writer := jwriter.NewWriter()
	arena.PrintDetailedMap(&writer)
	require.NoError(t, writer.Error())

	require.JSONEq(t, `{
		"TotalBytes": 100,
		"UnusedBytes": 80,
		"Allocations": 1,
		"UnusedRanges": 2,
		"Statistics": {
			"Arenas": 1,
			"Allocations": 1,
			"ArenaBytes": 100,
			"AllocationBytes": 20,
			"FreeBytes": 80,
			"FreeRanges": 2,
			"AllocationSizeMin": 20,
			"AllocationSizeMax": 20,
			"FreeRangeSizeMin": 10,
			"FreeRangeSizeMax": 70,
			"Fragmentation": 0.125
		},
		"Allocated": [
			{"Start": 10, "Size": 20}
		],
		"Free": [
			{"Start": 0, "Size": 10},
			{"Start": 30, "Size": 70}
		],
		"Regions": [
			{"Offset": 0, "Size": 10, "Type": "FREE"},
			{"Offset": 10, "Size": 20, "Type": "ALLOCATED", "CustomData": "vertices"},
			{"Offset": 30, "Size": 70, "Type": "FREE"}
		]
	}`, string(writer.Bytes()))
}

func TestVisitAllRegions(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	first := mustAlloc(t, arena, 10)
	mustAlloc(t, arena, 20)
	require.NoError(t, arena.SetUserData(first, 7))

	type region struct {
		Address  heap.Address
		Size     int
		UserData any
		Free     bool
	}
	var regions []region
	err := arena.VisitAllRegions(func(address heap.Address, size int, userData any, free bool) error {
		regions = append(regions, region{address, size, userData, free})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []region{
		{Address: 0, Size: 10, UserData: 7},
		{Address: 10, Size: 20},
		{Address: 30, Size: 70, Free: true},
	}, regions)

	stop := errors.New("stop")
	visited := 0
	err = arena.VisitAllRegions(func(address heap.Address, size int, userData any, free bool) error {
		visited++
		return stop
	})
	require.True(t, errors.Is(err, stop))
	require.Equal(t, 1, visited)
}

func TestCallbacks(t *testing.T) {
	var allocated, freed []chunk.Chunk
	var seenUserData []any

	var arena *heap.Arena
	arena, err := heap.New(nil, heap.CreateOptions{
		Capacity:  100,
		MaxChunks: 8,
		Callbacks: &heap.CallbackOptions{
			Allocate: func(a *heap.Arena, address heap.Address, size int, userData any) {
				require.Same(t, arena, a)
				allocated = append(allocated, chunk.Chunk{Start: int(address), Size: size})
				seenUserData = append(seenUserData, userData)
			},
			Free: func(a *heap.Arena, address heap.Address, size int, userData any) {
				freed = append(freed, chunk.Chunk{Start: int(address), Size: size})
			},
			UserData: "callbacks",
		},
	})
	require.NoError(t, err)

	first := mustAlloc(t, arena, 10)
	mustAlloc(t, arena, 5)
	mustFree(t, arena, first)

	// Failed calls do not notify
	_, success, err := arena.Alloc(1000)
	require.NoError(t, err)
	require.False(t, success)
	require.Error(t, arena.Free(first))

	require.Equal(t, []chunk.Chunk{{Start: 0, Size: 10}, {Start: 10, Size: 5}}, allocated)
	require.Equal(t, []chunk.Chunk{{Start: 0, Size: 10}}, freed)
	require.Equal(t, []any{"callbacks", "callbacks"}, seenUserData)
}

func TestClear(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	address := mustAlloc(t, arena, 10)
	require.NoError(t, arena.SetUserData(address, "leaked"))
	mustAlloc(t, arena, 20)

	arena.Clear()
	requirePartition(t, arena)

	require.True(t, arena.IsEmpty())
	require.Equal(t, []chunk.Chunk{{Start: 0, Size: 100}}, arena.FreeChunks())

	again := mustAlloc(t, arena, 10)
	userData, err := arena.UserData(again)
	require.NoError(t, err)
	require.Nil(t, userData)
}

func TestDestroy(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	address := mustAlloc(t, arena, 10)
	require.NoError(t, arena.SetUserData(address, "unreleased"))

	require.Error(t, arena.Destroy())
	requirePartition(t, arena)

	mustFree(t, arena, address)
	require.NoError(t, arena.Destroy())
	require.Equal(t, 0, arena.Capacity())
}

func TestCheckCorruption(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	address := mustAlloc(t, arena, 10)
	data, err := arena.Bytes(address)
	require.NoError(t, err)
	copy(data, "0123456789")

	mustFree(t, arena, address)
	require.NoError(t, arena.CheckCorruption())
}
