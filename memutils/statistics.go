package memutils

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics is a cheap summary of one or more arenas
type Statistics struct {
	ArenaCount      int
	AllocationCount int
	ArenaBytes      int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	*s = Statistics{}
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.ArenaCount += other.ArenaCount
	s.AllocationCount += other.AllocationCount
	s.ArenaBytes += other.ArenaBytes
	s.AllocationBytes += other.AllocationBytes
}

// FreeBytes is the number of bytes not covered by a live allocation
func (s *Statistics) FreeBytes() int {
	return s.ArenaBytes - s.AllocationBytes
}

// WriteJSON writes the summary's fields into the provided json object
func (s *Statistics) WriteJSON(json *jwriter.ObjectState) {
	json.Name("Arenas").Int(s.ArenaCount)
	json.Name("Allocations").Int(s.AllocationCount)
	json.Name("ArenaBytes").Int(s.ArenaBytes)
	json.Name("AllocationBytes").Int(s.AllocationBytes)
	json.Name("FreeBytes").Int(s.FreeBytes())
}

// DetailedStatistics extends Statistics with the size spread of allocations and free ranges,
// gathered one region at a time with AddRegion. Call Clear before summing into a fresh value so
// the minimums start out at math.MaxInt.
//
// Free ranges are counted as they sit in the free list, so ranges freed since the last coalesce
// are counted separately even when they touch.
type DetailedStatistics struct {
	Statistics
	FreeRangeCount    int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeRangeSizeMin  int
	FreeRangeSizeMax  int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRangeCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeRangeSizeMin = math.MaxInt
	s.FreeRangeSizeMax = 0
}

// AddRegion records one chunk of an arena, either a live allocation or a free range. Free
// ranges only feed the range counters; their bytes are already implied by ArenaBytes.
func (s *DetailedStatistics) AddRegion(size int, free bool) {
	if free {
		s.FreeRangeCount++
		s.FreeRangeSizeMin = lesser(s.FreeRangeSizeMin, size)
		s.FreeRangeSizeMax = greater(s.FreeRangeSizeMax, size)
		return
	}

	s.AllocationCount++
	s.AllocationBytes += size
	s.AllocationSizeMin = lesser(s.AllocationSizeMin, size)
	s.AllocationSizeMax = greater(s.AllocationSizeMax, size)
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRangeCount += other.FreeRangeCount
	s.FreeRangeSizeMin = lesser(s.FreeRangeSizeMin, other.FreeRangeSizeMin)
	s.FreeRangeSizeMax = greater(s.FreeRangeSizeMax, other.FreeRangeSizeMax)
	s.AllocationSizeMin = lesser(s.AllocationSizeMin, other.AllocationSizeMin)
	s.AllocationSizeMax = greater(s.AllocationSizeMax, other.AllocationSizeMax)
}

// Fragmentation is the share of free bytes that lie outside the largest free range, from 0 when
// all free space is one range (or there is none) up to nearly 1 when it is scattered. A first-fit
// request larger than FreeRangeSizeMax fails no matter how many bytes are free.
func (s *DetailedStatistics) Fragmentation() float64 {
	freeBytes := s.FreeBytes()
	if freeBytes <= 0 || s.FreeRangeCount == 0 {
		return 0
	}

	return 1 - float64(s.FreeRangeSizeMax)/float64(freeBytes)
}

// WriteJSON writes the summary and the size spread into the provided json object. Minimums
// that were never lowered from their cleared state are written as 0.
func (s *DetailedStatistics) WriteJSON(json *jwriter.ObjectState) {
	s.Statistics.WriteJSON(json)
	json.Name("FreeRanges").Int(s.FreeRangeCount)
	json.Name("AllocationSizeMin").Int(clearedMin(s.AllocationSizeMin))
	json.Name("AllocationSizeMax").Int(s.AllocationSizeMax)
	json.Name("FreeRangeSizeMin").Int(clearedMin(s.FreeRangeSizeMin))
	json.Name("FreeRangeSizeMax").Int(s.FreeRangeSizeMax)
	json.Name("Fragmentation").Float64(s.Fragmentation())
}

func clearedMin(value int) int {
	if value == math.MaxInt {
		return 0
	}
	return value
}

func lesser(a, b int) int {
	if b < a {
		return b
	}
	return a
}

func greater(a, b int) int {
	if b > a {
		return b
	}
	return a
}
