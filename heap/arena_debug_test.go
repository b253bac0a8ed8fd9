//go:build debug_mem_utils

package heap_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCorruptionDetectsWriteAfterFree(t *testing.T) {
	arena := newArena(t, 100, 8, 0)

	first := mustAlloc(t, arena, 10)
	second := mustAlloc(t, arena, 10)

	data, err := arena.Bytes(first)
	require.NoError(t, err)

	mustFree(t, arena, first)
	require.NoError(t, arena.CheckCorruption())

	data[0] = 0
	err = arena.CheckCorruption()
	require.Error(t, err)
	require.Contains(t, err.Error(), "offset 0 with size 10")

	// Writes into a live allocation are not corruption
	live, err := arena.Bytes(second)
	require.NoError(t, err)
	copy(live, "0123456789")

	data[0] = 0x66
	require.NoError(t, arena.CheckCorruption())
}
