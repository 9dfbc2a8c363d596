package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAllocZeroesRegion(t *testing.T) {
	a := New(64)
	r := a.Alloc(16, 8)
	require.NotNil(t, r)
	for _, b := range r {
		require.Equal(t, byte(0), b)
	}
}

func TestAllocGrowsOnOverflow(t *testing.T) {
	a := New(8)
	require.Equal(t, 1, a.Blocks())
	r := a.Alloc(64, 1)
	require.NotNil(t, r)
	require.Equal(t, 2, a.Blocks())
}

func TestAllocArrayMatchesAlloc(t *testing.T) {
	a := New(256)
	r := a.AllocArray(4, 10, 4)
	require.Len(t, r, 40)
}

func TestReallocLastAllocationGrowsInPlace(t *testing.T) {
	a := New(256)
	r := a.Alloc(8, 1)
	copy(r, []byte("abcdefgh"))
	grown := a.Realloc(r, 16, 1)
	require.NotNil(t, grown)
	require.Equal(t, "abcdefgh", string(grown[:8]))
}

func TestReallocNonLastAllocationFails(t *testing.T) {
	a := New(256)
	first := a.Alloc(8, 1)
	a.Alloc(8, 1) // second allocation; first is no longer the tail
	require.Nil(t, a.Realloc(first, 16, 1))
}

func TestResetFreesExtraBlocksOnly(t *testing.T) {
	a := New(8)
	a.Alloc(64, 1)
	require.Equal(t, 2, a.Blocks())
	a.Reset()
	require.Equal(t, 1, a.Blocks(), "Reset must free exactly the blocks allocated beyond the head")
}

// Property P2 (arena alignment): for every Alloc(n, a), the returned
// address is congruent to 0 mod a, and successive allocations never
// overlap.
func TestPropertyAlignmentAndNonOverlap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		arena := New(64)
		type span struct{ start, end int }
		spansByBlock := map[*block][]span{}

		n := rapid.IntRange(1, 20).Draw(t, "n")
		for i := 0; i < n; i++ {
			size := rapid.IntRange(0, 64).Draw(t, "size")
			alignExp := rapid.IntRange(0, 4).Draw(t, "alignExp")
			alignment := 1 << alignExp

			r := arena.Alloc(size, alignment)
			require.NotNil(t, r)

			start := arena.liveOff
			require.Equal(t, 0, start%alignment, "allocation not aligned")

			end := start + size
			blk := arena.current
			for _, s := range spansByBlock[blk] {
				overlaps := start < s.end && s.start < end
				require.False(t, overlaps, "allocations overlap within the same block")
			}
			spansByBlock[blk] = append(spansByBlock[blk], span{start, end})
		}
	})
}
