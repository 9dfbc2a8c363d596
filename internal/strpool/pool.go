// Package strpool implements the compiler's string-interning table: a
// deduplicating pool that hands out stable, compact handles for every
// identifier and literal the lexer sees.
package strpool

import "github.com/nrednav/breadc/internal/arena"

// Handle is a stable reference to an interned byte sequence. Equality of
// handles (by hash then bytes) is equivalent to equality of the underlying
// string content.
type Handle struct {
	bytes []byte
	hash  uint32
}

// Bytes returns the interned byte slice. Callers must not mutate it.
func (h Handle) Bytes() []byte { return h.bytes }

// String returns the interned text as a Go string (a copy).
func (h Handle) String() string { return string(h.bytes) }

// Len returns the length in bytes of the interned text.
func (h Handle) Len() int { return len(h.bytes) }

// Hash returns the precomputed 32-bit hash.
func (h Handle) Hash() uint32 { return h.hash }

// Equal reports whether two handles denote the same interned text.
func (h Handle) Equal(o Handle) bool {
	if h.hash != o.hash || len(h.bytes) != len(o.bytes) {
		return false
	}
	for i := range h.bytes {
		if h.bytes[i] != o.bytes[i] {
			return false
		}
	}
	return true
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

func fnv1a(b []byte) uint32 {
	h := uint32(fnvOffset32)
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime32
	}
	return h
}

type entry struct {
	handle Handle
	next   *entry // collision chain
}

// Pool is a string-interning table. Storage for interned bytes is owned
// by an Arena passed at construction time; the Pool's lifetime (and the
// lifetime of every Handle it issues) is tied to that arena's lifetime.
type Pool struct {
	arena   *arena.Arena
	buckets []*entry
	count   int
}

// New creates a Pool backed by a. A nil arena is not valid.
func New(a *arena.Arena) *Pool {
	return &Pool{arena: a, buckets: make([]*entry, 64)}
}

// Len reports how many distinct strings have been interned.
func (p *Pool) Len() int { return p.count }

func (p *Pool) bucketFor(hash uint32) int {
	return int(hash) % len(p.buckets)
}

// Intern deduplicates b: if an equal byte sequence was interned before, the
// prior Handle is returned; otherwise b is copied into arena-owned storage,
// its hash computed, and a new Handle is returned.
func (p *Pool) Intern(b []byte) Handle {
	h := fnv1a(b)
	idx := p.bucketFor(h)
	for e := p.buckets[idx]; e != nil; e = e.next {
		if e.handle.hash == h && bytesEqual(e.handle.bytes, b) {
			return e.handle
		}
	}

	if p.count >= len(p.buckets)*2 {
		p.rehash()
		idx = p.bucketFor(h)
	}

	owned := p.arena.Alloc(len(b), 1)
	copy(owned, b)

	handle := Handle{bytes: owned, hash: h}
	p.buckets[idx] = &entry{handle: handle, next: p.buckets[idx]}
	p.count++
	return handle
}

// InternString is a convenience wrapper around Intern for Go strings.
func (p *Pool) InternString(s string) Handle {
	return p.Intern([]byte(s))
}

func (p *Pool) rehash() {
	next := make([]*entry, len(p.buckets)*2)
	for _, e := range p.buckets {
		for e != nil {
			n := e.next
			idx := int(e.handle.hash) % len(next)
			e.next = next[idx]
			next[idx] = e
			e = n
		}
	}
	p.buckets = next
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
