package ast

import "github.com/nrednav/breadc/internal/diag"

const defaultNodeBlock = 256

// Pool is the AST's node arena: nodes are allocated in growable blocks
// and never individually freed, mirroring internal/arena's bump-pointer
// block-chaining discipline but specialized to *Node so callers get back
// ordinary Go pointers (no unsafe casting) while still getting arena-style
// bulk allocation and bulk lifetime management.
type Pool struct {
	blocks [][]Node
	cur    int // next free index into the current block
}

// NewPool creates an empty node arena.
func NewPool() *Pool {
	p := &Pool{}
	p.blocks = append(p.blocks, make([]Node, defaultNodeBlock))
	return p
}

// New allocates a zeroed Node from the pool, tagged with kind, loc, and
// length. The parser calls this instead of Go's `new` for every AST node
// it produces, so the whole tree is backed by the pool's blocks.
func (p *Pool) New(kind Kind, loc diag.Location, length int) *Node {
	block := p.blocks[len(p.blocks)-1]
	if p.cur >= len(block) {
		p.blocks = append(p.blocks, make([]Node, len(block)*2))
		p.cur = 0
		block = p.blocks[len(p.blocks)-1]
	}
	n := &block[p.cur]
	p.cur++
	n.Kind = kind
	n.Loc = loc
	n.Length = length
	return n
}

// Blocks reports how many backing blocks the pool currently owns.
func (p *Pool) Blocks() int { return len(p.blocks) }
