// Package ast defines the tagged-variant AST node type produced by the
// parser. Every syntactic construct listed in spec.md §3 has a Kind and
// a corresponding payload; nodes carry their own location and byte
// length for diagnostic rendering.
package ast

import "github.com/nrednav/breadc/internal/diag"

// Kind discriminates the payload carried by a Node.
type Kind int

const (
	KLiteral Kind = iota
	KRef
	KBinOp
	KUnaryOp
	KVar
	KAssign
	KBlock
	KCall
	KReturn
	KBreak
	KContinue
	KArray
	KIf
	KWhile
	KFor
	KParam
	KFunc
	KStruct
	KEnum
	KMatch
	KCase
	KTrait
	KImpl
	KTryCatch
	KImport
	KModule
	KType
	KNameOf
	KTypeOf
	KStub // draft keywords accepted syntactically, rejected semantically
)

// LitKind classifies a Literal node's value.
type LitKind int

const (
	LitNumber LitKind = iota
	LitFloat
	LitHex
	LitBin
	LitString
	LitChar
	LitTrue
	LitFalse
	LitNull
	LitInfinity
)

// Node is the tagged-variant AST node. Exactly one payload field is
// meaningful per Kind; see the Kind's doc comment on the relevant field
// below for which one.
type Node struct {
	Kind   Kind
	Loc    diag.Location
	Length int // byte length of the node's source span

	// Literal
	LitKind LitKind
	Text    string

	// Ref, Var, Assign, Call, Param, Func, Struct, Enum, Trait, Impl,
	// Module, Type: the declared/referenced name.
	Name string

	// BinOp, Assign: operator text ("+", "==", "=", ...).
	Op string

	// UnaryOp
	IsPostfix bool

	// BinOp.Left / UnaryOp.Operand / Assign.Target / Return.Value /
	// Var.Init / NameOf.Target / TypeOf.Target: Left carries these.
	Left *Node
	// BinOp.Right / Assign.Value
	Right *Node

	// Var: declared type text (empty if omitted — at least one of
	// DeclType/Left(init) must be present, reported by the parser).
	DeclType string

	// Var: the modifier keyword's literal text ("var", "const", "final",
	// "static", "extern", "private", "public").
	Modifier string

	// Block, Array, Struct members, Enum members,
	// If elif chain, Match cases, Call arguments, Func params: ordered
	// child sequence.
	Items []*Node

	// If: Cond/Then/Else; elif chain lives in Items (each a KIf node).
	Cond *Node
	Then *Node
	Else *Node

	// While/For: Cond is the loop condition, Body is the loop body. For's
	// init and update clauses are ForInit/ForUpdate below.
	// Trait, Module, Type, Stub: Body is the brace-delimited body.
	Body *Node

	// For: explicit presence flags, since any of init/cond/update may be
	// omitted while the semicolons remain required.
	ForInit   *Node
	ForUpdate *Node

	// Func: Params is Items, ReturnType is DeclType, Body is Body.

	// Match: Target is Cond, Items is the case list (each KCase node).

	// Case: Cond is the case expression (nil for a default/wildcard
	// case), Body is the statement.

	// Impl: Name is the trait name, Target is the optional struct name.
	Target *string

	// TryCatch: Body is try, Else is catch, Right is optional finally.
	// CatchName is the optional bound identifier in catch(name).
	CatchName string

	// Import: ordered path components.
	Path []string

	// Stub: the draft keyword's literal text, captured for diagnostics.
	Keyword string
}

// New constructs a bare Node of the given kind at loc spanning length
// bytes. Callers fill in the payload fields relevant to kind.
func New(kind Kind, loc diag.Location, length int) *Node {
	return &Node{Kind: kind, Loc: loc, Length: length}
}

// Walk traverses n in depth-first pre-order, following every populated
// child pointer/slice. visit returning false stops descent into that
// node's children (but sibling traversal continues).
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Items {
		Walk(c, visit)
	}
	Walk(n.Left, visit)
	Walk(n.Right, visit)
	Walk(n.Cond, visit)
	Walk(n.Then, visit)
	Walk(n.Else, visit)
	Walk(n.Body, visit)
	Walk(n.ForInit, visit)
	Walk(n.ForUpdate, visit)
}
