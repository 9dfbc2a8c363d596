package strpool

import (
	"testing"

	"github.com/nrednav/breadc/internal/arena"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestInternDeduplicates(t *testing.T) {
	p := New(arena.New(256))
	a := p.InternString("hello")
	b := p.InternString("hello")
	require.True(t, a.Equal(b))
	require.Equal(t, 1, p.Len())
}

func TestInternDistinctStringsDontCollide(t *testing.T) {
	p := New(arena.New(256))
	a := p.InternString("hello")
	b := p.InternString("world")
	require.False(t, a.Equal(b))
	require.Equal(t, 2, p.Len())
}

func TestInternSurvivesRehash(t *testing.T) {
	p := New(arena.New(4096))
	handles := make([]Handle, 0, 300)
	for i := 0; i < 300; i++ {
		handles = append(handles, p.InternString(string(rune('a'+i%26))+string(rune(i))))
	}
	for i, h := range handles {
		again := p.InternString(string(rune('a'+i%26)) + string(rune(i)))
		require.True(t, h.Equal(again))
	}
}

// Property P1 (string pool idempotence): for all byte sequences s,
// intern(s) == intern(s), and intern(s).hash is stable.
func TestPropertyInternIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := New(arena.New(1024))
		s := rapid.SliceOf(rapid.Byte()).Draw(t, "s")
		first := p.Intern(s)
		second := p.Intern(s)
		require.True(t, first.Equal(second))
		require.Equal(t, first.Hash(), second.Hash())

		// Re-interning in a freshly seeded pool must yield the same hash,
		// since the hash is a pure function of the bytes.
		p2 := New(arena.New(1024))
		third := p2.Intern(s)
		require.Equal(t, first.Hash(), third.Hash())
	})
}
