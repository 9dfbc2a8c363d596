// Package symbol implements the hierarchical scope tree and symbol
// table the semantic analyzer declares into and resolves against.
// Scopes and symbols are allocated for the analyzer's lifetime and form
// an acyclic tree rooted at the global scope, with optional cross-links
// for shadowing and function-overload chains.
package symbol

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/types"
)

// Kind classifies what a Symbol names.
type Kind int

const (
	KVar Kind = iota
	KConst
	KFunc
	KParam
	KStruct
	KEnum
	KUnion
	KType
	KBuiltinType
	KModule
	KGeneric
	KEnumVariant
)

// Flags are independent bits tracked per-symbol for diagnostics and
// codegen (e.g. "used" drives unused-variable-style checks, though this
// module doesn't currently emit an unused warning — the bit is tracked
// for a future pass per spec.md's Symbol data model).
type Flags uint8

const (
	FUsed Flags = 1 << iota
	FAssigned
	FGlobal
	FExtern
	FStatic
	FMutable
	FPrivate
	FPublic
)

// Symbol is one declared name: a variable, constant, function, type, etc.
type Symbol struct {
	Name         string
	Kind         Kind
	Flags        Flags
	Type         *types.Type
	DeclaredType *types.Type // explicit annotation, nil if inferred only
	DeclNode     *ast.Node
	InitNode     *ast.Node
	Loc          diag.Location
	Owner        *Scope

	Shadowed *Symbol // symbol of the same name hidden in an enclosing scope
	Overload *Symbol // next overload in the chain (same name, distinct signature)

	EnumValue int64 // meaningful only for KEnumVariant
}

func (s *Symbol) Has(f Flags) bool { return s.Flags&f != 0 }
func (s *Symbol) Set(f Flags)      { s.Flags |= f }

// ScopeKind classifies what kind of construct owns a Scope.
type ScopeKind int

const (
	SGlobal ScopeKind = iota
	SFunction
	SBlock
	SStruct
	SEnum
	SModule
	SSwitch
	SLoop
)

// Scope is one node in the scope tree: parent/child/sibling pointers
// plus a per-scope symbol map.
type Scope struct {
	Kind ScopeKind

	Parent      *Scope
	FirstChild  *Scope
	NextSibling *Scope
	Depth       int

	Owner *ast.Node // the AST node that introduced this scope, if any

	syms  map[string]*Symbol
	order []string // insertion order, for deterministic diagnostic output
}

func newScope(kind ScopeKind, parent *Scope, owner *ast.Node) *Scope {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &Scope{Kind: kind, Parent: parent, Depth: depth, Owner: owner, syms: map[string]*Symbol{}}
}

// NewGlobal creates the root scope of a fresh scope tree.
func NewGlobal() *Scope {
	return newScope(SGlobal, nil, nil)
}

// Push creates a new child scope of kind, owned by owner, and links it
// under s as a child (preserving prior children via the sibling chain).
func (s *Scope) Push(kind ScopeKind, owner *ast.Node) *Scope {
	child := newScope(kind, s, owner)
	if s.FirstChild == nil {
		s.FirstChild = child
	} else {
		last := s.FirstChild
		for last.NextSibling != nil {
			last = last.NextSibling
		}
		last.NextSibling = child
	}
	return child
}

// Pop returns to the parent scope. The popped scope remains reachable
// from its parent's child list for later debugging/reporting, as
// spec.md §4.7 requires.
func (s *Scope) Pop() *Scope {
	if s.Parent == nil {
		return s
	}
	return s.Parent
}

// Define inserts name into s's own symbol map. It fails (returns nil,
// false) if name already exists in s specifically — no shadowing within
// a single scope. If name resolves in an enclosing scope, the new
// symbol's Shadowed field records the hidden symbol for diagnostics.
func (s *Scope) Define(name string, kind Kind, typ *types.Type, declNode *ast.Node) (*Symbol, bool) {
	if _, exists := s.syms[name]; exists {
		return nil, false
	}
	sym := &Symbol{Name: name, Kind: kind, Type: typ, DeclNode: declNode, Owner: s}
	if declNode != nil {
		sym.Loc = declNode.Loc
	}
	if s.Kind == SGlobal {
		sym.Set(FGlobal)
	}
	if shadowed := s.lookupInAncestors(name); shadowed != nil {
		sym.Shadowed = shadowed
	}
	s.syms[name] = sym
	s.order = append(s.order, name)
	return sym, true
}

// DefineOverload adds fn as an additional overload of an existing
// function symbol named name in s, chaining it via Overload. It is the
// caller's responsibility to have already confirmed name exists in s as
// a KFunc symbol with a distinct signature.
func (s *Scope) DefineOverload(name string, fn *Symbol) {
	head := s.syms[name]
	if head == nil {
		s.syms[name] = fn
		s.order = append(s.order, name)
		return
	}
	for head.Overload != nil {
		head = head.Overload
	}
	head.Overload = fn
}

func (s *Scope) lookupInAncestors(name string) *Symbol {
	for p := s.Parent; p != nil; p = p.Parent {
		if sym, ok := p.syms[name]; ok {
			return sym
		}
	}
	return nil
}

// Lookup walks from s to the root; the innermost match wins (lexical
// scoping, spec.md P6).
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.syms[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ExistsInCurrent reports whether name is defined in s specifically
// (not an enclosing scope).
func (s *Scope) ExistsInCurrent(name string) bool {
	_, ok := s.syms[name]
	return ok
}

// Symbols returns every symbol directly defined in s, in insertion order.
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.syms[name])
	}
	return out
}
