// Package sema implements the semantic analyzer: a two-phase
// declare-then-check traversal that resolves names against a scope
// tree, infers and validates types, and annotates diagnostics for
// everything the parser accepted syntactically but that isn't
// necessarily meaningful (undeclared names, type mismatches, jumps
// outside their enclosing construct, and so on).
package sema

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/symbol"
	"github.com/nrednav/breadc/internal/types"
)

// Analyzer holds the state threaded through a single Declare+Check
// run: the scope tree being built, the diagnostic sink, and the
// control-flow context (current function, loop nesting) needed by
// Return/Break/Continue checks.
type Analyzer struct {
	global  *symbol.Scope
	current *symbol.Scope
	reports *diag.Table

	currentFunc *symbol.Symbol
	loopDepth   int
}

// New constructs an Analyzer reporting into reports, with a fresh
// global scope.
func New(reports *diag.Table) *Analyzer {
	g := symbol.NewGlobal()
	return &Analyzer{global: g, current: g, reports: reports}
}

// Global returns the root scope, populated after Analyze/Declare runs.
func (a *Analyzer) Global() *symbol.Scope { return a.global }

// Analyze runs both phases over root, a KBlock of top-level items, as
// spec.md §4.8 requires: Declare first (so forward references resolve),
// then Check.
func (a *Analyzer) Analyze(root *ast.Node) {
	a.Declare(root)
	a.Check(root)
}

func (a *Analyzer) push(kind symbol.ScopeKind, owner *ast.Node) {
	a.current = a.current.Push(kind, owner)
}

func (a *Analyzer) pop() {
	a.current = a.current.Pop()
}

func (a *Analyzer) report(code diag.Code, loc diag.Location, length int, snippet string) {
	a.reports.Report(diag.Error, code, loc, length, snippet)
}

// resolveTypeName maps a parsed type-annotation string (a builtin
// datatype keyword, a user-defined name, or either suffixed with any
// number of trailing "[]") to a *types.Type. An unresolved
// user-defined name degrades to types.Unknown rather than failing the
// whole declaration — the reference itself is what should be
// diagnosed, not every construct that mentions it.
func resolveTypeName(scope *symbol.Scope, name string) *types.Type {
	if name == "" {
		return types.Unknown
	}
	depth := 0
	for len(name) >= 2 && name[len(name)-2:] == "[]" {
		name = name[:len(name)-2]
		depth++
	}
	var base *types.Type
	if t, ok := types.ByDatatypeName(name); ok {
		base = t
	} else if sym, ok := scope.Lookup(name); ok && sym.Type != nil {
		base = sym.Type
	} else {
		base = types.Unknown
	}
	for i := 0; i < depth; i++ {
		base = types.NewArray(base, 0)
	}
	return base
}

// Declare pre-registers every top-level function, struct, and enum so
// that later Check-phase resolution sees forward references: a
// function may call another declared later in the same file, per
// spec.md §4.8 phase 1.
func (a *Analyzer) Declare(root *ast.Node) {
	for _, item := range root.Items {
		switch item.Kind {
		case ast.KFunc:
			a.declareFunc(item)
		case ast.KStruct:
			a.declareStruct(item)
		case ast.KEnum:
			a.declareEnum(item)
		case ast.KTrait:
			a.declareTrait(item)
		}
	}
}

func (a *Analyzer) declareFunc(n *ast.Node) {
	ret := resolveTypeName(a.current, n.DeclType)
	params := make([]*types.Type, len(n.Items))
	for i, p := range n.Items {
		params[i] = resolveTypeName(a.current, p.DeclType)
	}
	fnType := types.NewFunction(ret, params)
	if _, ok := a.current.Define(n.Name, symbol.KFunc, fnType, n); !ok {
		a.report(diag.FunctionAlreadyDeclared, n.Loc, max(1, len(n.Name)), n.Name)
	}
}

func (a *Analyzer) declareStruct(n *ast.Node) {
	scope := a.current.Push(symbol.SStruct, n)
	for _, field := range n.Items {
		t := resolveTypeName(scope, field.DeclType)
		if _, ok := scope.Define(field.Name, symbol.KVar, t, field); !ok {
			a.report(diag.VariableAlreadyDeclared, field.Loc, max(1, len(field.Name)), field.Name)
		}
	}
	a.current = scope.Pop()
	ctype := types.NewCompound(types.CStruct, scope, len(n.Items))
	if _, ok := a.current.Define(n.Name, symbol.KStruct, ctype, n); !ok {
		a.report(diag.FunctionAlreadyDeclared, n.Loc, max(1, len(n.Name)), n.Name)
	}
}

// declareEnum registers the enum type and its variants. Variant values
// auto-increment from 0, or from an explicit literal assignment (only
// integer literals are supported as enum initializers); a value that
// collides with an earlier variant's is reported as a duplicate (a
// feature original_source's enum lowering pass checks for but that
// spec.md's distillation doesn't mention by name).
func (a *Analyzer) declareEnum(n *ast.Node) {
	scope := a.current.Push(symbol.SEnum, n)
	seen := map[int64]string{}
	next := int64(0)
	for _, variant := range n.Items {
		val := next
		if variant.Left != nil {
			if lit, ok := evalIntLiteral(variant.Left); ok {
				val = lit
			}
		}
		next = val + 1
		sym, ok := scope.Define(variant.Name, symbol.KEnumVariant, types.Int, variant)
		if !ok {
			a.report(diag.VariableAlreadyDeclared, variant.Loc, max(1, len(variant.Name)), variant.Name)
			continue
		}
		sym.EnumValue = val
		if prior, dup := seen[val]; dup {
			a.report(diag.DuplicateEnumValue, variant.Loc, max(1, len(variant.Name)), variant.Name+" duplicates "+prior)
		} else {
			seen[val] = variant.Name
		}
	}
	a.current = scope.Pop()
	ctype := types.NewCompound(types.CEnum, scope, len(n.Items))
	if _, ok := a.current.Define(n.Name, symbol.KEnum, ctype, n); !ok {
		a.report(diag.FunctionAlreadyDeclared, n.Loc, max(1, len(n.Name)), n.Name)
	}
}

// declareTrait registers a trait name as a type placeholder; its body
// (method signatures) isn't a value-bearing scope the way struct/enum
// are, so it's checked (not pre-declared member-by-member) in the
// Check phase.
func (a *Analyzer) declareTrait(n *ast.Node) {
	if _, ok := a.current.Define(n.Name, symbol.KType, types.Unknown, n); !ok {
		a.report(diag.FunctionAlreadyDeclared, n.Loc, max(1, len(n.Name)), n.Name)
	}
}

// evalIntLiteral extracts a compile-time integer value from the
// limited set of constant expressions enum initializers use in
// practice: a bare integer literal, optionally negated.
func evalIntLiteral(n *ast.Node) (int64, bool) {
	if n.Kind == ast.KUnaryOp && n.Op == "-" {
		if v, ok := evalIntLiteral(n.Left); ok {
			return -v, true
		}
		return 0, false
	}
	if n.Kind != ast.KLiteral || n.LitKind != ast.LitNumber {
		return 0, false
	}
	return parseDecimal(n.Text), true
}

func parseDecimal(s string) int64 {
	var v int64
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int64(c-'0')
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
