package sema

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/symbol"
	"github.com/nrednav/breadc/internal/types"
)

// Check performs the full traversal described by spec.md §4.8 phase 2:
// each node kind recurses into its children, resolves references,
// infers/validates types, and emits diagnostics, continuing past an
// error rather than aborting the walk.
func (a *Analyzer) Check(root *ast.Node) {
	for _, item := range root.Items {
		a.checkStmt(item)
	}
}

func (a *Analyzer) checkStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KVar:
		a.checkVarDecl(n)
	case ast.KFunc:
		a.checkFunc(n)
	case ast.KStruct, ast.KEnum:
		// Fully handled in Declare; nothing left to check.
	case ast.KTrait:
		a.checkTraitOrImpl(n)
	case ast.KImpl:
		a.checkTraitOrImpl(n)
	case ast.KModule:
		a.push(symbol.SModule, n)
		a.Declare(n.Body)
		a.Check(n.Body)
		a.pop()
	case ast.KType:
		if _, ok := a.current.Define(n.Name, symbol.KType, types.Unknown, n); !ok {
			a.report(diag.FunctionAlreadyDeclared, n.Loc, max(1, len(n.Name)), n.Name)
		}
		if n.Body != nil {
			a.push(symbol.SModule, n)
			a.Declare(n.Body)
			a.Check(n.Body)
			a.pop()
		}
	case ast.KImport:
		// Path resolution against a module loader is out of scope for a
		// single-file analyzer; the parser already records Path.
	case ast.KBlock:
		a.push(symbol.SBlock, n)
		for _, stmt := range n.Items {
			a.checkStmt(stmt)
		}
		a.pop()
	case ast.KIf:
		a.checkExpr(n.Cond)
		a.checkStmt(n.Then)
		for _, elif := range n.Items {
			a.checkStmt(elif)
		}
		if n.Else != nil {
			a.checkStmt(n.Else)
		}
	case ast.KWhile:
		a.checkExpr(n.Cond)
		a.loopDepth++
		a.checkStmt(n.Body)
		a.loopDepth--
	case ast.KFor:
		a.push(symbol.SBlock, n)
		if n.ForInit != nil {
			a.checkForInit(n.ForInit)
		}
		if n.Cond != nil {
			a.checkExpr(n.Cond)
		}
		if n.ForUpdate != nil {
			a.checkExpr(n.ForUpdate)
		}
		a.loopDepth++
		a.checkStmt(n.Body)
		a.loopDepth--
		a.pop()
	case ast.KReturn:
		if a.currentFunc == nil {
			a.report(diag.ReturnOutsideFunction, n.Loc, 6, "return")
		}
		if n.Left != nil {
			rt := a.checkExpr(n.Left)
			if a.currentFunc != nil && a.currentFunc.Type != nil {
				want := a.currentFunc.Type.Ret
				if !types.Compatible(want, rt) {
					a.report(diag.InvalidReturnType, n.Loc, 6, "return")
				}
			}
		}
	case ast.KBreak:
		if a.loopDepth == 0 {
			a.report(diag.BreakOutsideLoop, n.Loc, 5, "break")
		}
	case ast.KContinue:
		if a.loopDepth == 0 {
			a.report(diag.ContinueOutsideLoop, n.Loc, 8, "continue")
		}
	case ast.KMatch:
		a.checkExpr(n.Cond)
		for _, c := range n.Items {
			if c.Cond != nil {
				a.checkExpr(c.Cond)
			}
			a.checkStmt(c.Body)
		}
	case ast.KTryCatch:
		a.checkStmt(n.Body)
		if n.Else != nil {
			a.push(symbol.SBlock, n)
			if n.CatchName != "" {
				a.current.Define(n.CatchName, symbol.KVar, types.Unknown, n)
			}
			a.checkStmt(n.Else)
			a.pop()
		}
		if n.Right != nil {
			a.checkStmt(n.Right)
		}
	case ast.KStub:
		a.report(diag.UnimplementedNode, n.Loc, max(1, len(n.Keyword)), n.Keyword)
		if n.Body != nil {
			a.checkStmt(n.Body)
		}
	default:
		a.checkExpr(n)
	}
}

// checkForInit handles the for-loop init clause, which the parser
// stores as either a KVar node (`for (var i = 0; ...)`) or a bare
// expression (`for (i = 0; ...)`).
func (a *Analyzer) checkForInit(n *ast.Node) {
	if n.Kind == ast.KVar {
		a.checkVarDecl(n)
		return
	}
	a.checkExpr(n)
}

func (a *Analyzer) checkVarDecl(n *ast.Node) {
	var initType *types.Type
	if n.Left != nil {
		initType = a.checkExpr(n.Left)
	}
	var declType *types.Type
	switch {
	case n.DeclType != "":
		declType = resolveTypeName(a.current, n.DeclType)
		if n.Left != nil && !types.Compatible(declType, initType) {
			a.report(diag.TypeMismatch, n.Loc, max(1, len(n.Name)), n.Name)
		}
	case initType != nil:
		declType = initType
	default:
		declType = types.Unknown
	}

	kind := symbol.KVar
	if n.Modifier == "const" || n.Modifier == "final" {
		kind = symbol.KConst
	}
	sym, ok := a.current.Define(n.Name, kind, declType, n)
	if !ok {
		a.report(diag.FailedToDeclareVariable, n.Loc, max(1, len(n.Name)), n.Name)
		return
	}
	sym.InitNode = n.Left
	if n.Left != nil {
		sym.Set(symbol.FAssigned)
	}
}

// checkFunc pushes a function scope, registers parameters (duplicate
// name within that scope is an error), checks the body, and pops —
// spec.md §4.8's function-declaration rule verbatim.
func (a *Analyzer) checkFunc(n *ast.Node) {
	sym, ok := a.current.Lookup(n.Name)
	if !ok {
		// Declare always pre-registers top-level functions; a function
		// reached here without a symbol is nested inside a scope Declare
		// doesn't pre-walk (e.g. a function body's block) — register it now.
		a.declareFunc(n)
		sym, _ = a.current.Lookup(n.Name)
	}

	prevFunc := a.currentFunc
	a.currentFunc = sym
	a.push(symbol.SFunction, n)
	for _, p := range n.Items {
		pt := resolveTypeName(a.current, p.DeclType)
		if _, ok := a.current.Define(p.Name, symbol.KParam, pt, p); !ok {
			a.report(diag.VariableAlreadyDeclared, p.Loc, max(1, len(p.Name)), p.Name)
		}
	}
	a.checkStmt(n.Body)
	a.pop()
	a.currentFunc = prevFunc
}

// checkTraitOrImpl treats a trait/impl body as an ordinary scope
// containing method declarations; spec.md doesn't give these a
// dedicated check rule beyond "declarations", so each contained
// function is declared and checked exactly as a top-level one.
func (a *Analyzer) checkTraitOrImpl(n *ast.Node) {
	a.push(symbol.SBlock, n)
	if n.Body != nil {
		for _, item := range n.Body.Items {
			if item.Kind == ast.KFunc {
				a.declareFunc(item)
			}
		}
		for _, item := range n.Body.Items {
			a.checkStmt(item)
		}
	}
	a.pop()
}

func (a *Analyzer) checkExpr(n *ast.Node) *types.Type {
	if n == nil {
		return types.Unknown
	}
	switch n.Kind {
	case ast.KLiteral:
		return inferLiteralType(n)
	case ast.KRef:
		return a.checkRef(n)
	case ast.KBinOp:
		return a.checkBinOp(n)
	case ast.KUnaryOp:
		return a.checkExpr(n.Left)
	case ast.KAssign:
		return a.checkAssign(n)
	case ast.KCall:
		return a.checkCall(n)
	case ast.KArray:
		return a.checkArrayLit(n)
	case ast.KNameOf:
		a.checkExpr(n.Left)
		return types.Str
	case ast.KTypeOf:
		a.checkExpr(n.Left)
		return types.Any
	default:
		return types.Unknown
	}
}

// inferLiteralType implements spec.md §4.8's literal inference table.
func inferLiteralType(n *ast.Node) *types.Type {
	switch n.LitKind {
	case ast.LitNumber, ast.LitBin, ast.LitHex:
		return types.Int
	case ast.LitFloat:
		return types.Float
	case ast.LitString:
		return types.Str
	case ast.LitChar:
		return types.Char
	case ast.LitTrue, ast.LitFalse:
		return types.Bool
	case ast.LitNull:
		return types.Void
	default:
		return types.Unknown
	}
}

func (a *Analyzer) checkRef(n *ast.Node) *types.Type {
	sym, ok := a.current.Lookup(n.Name)
	if !ok {
		a.report(diag.UndeclaredVariable, n.Loc, max(1, len(n.Name)), n.Name)
		return types.Unknown
	}
	sym.Set(symbol.FUsed)
	return sym.Type
}

// isComparisonOp reports whether op always yields bool regardless of
// its operands' own type.
func isComparisonOp(op string) bool {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=", "&&", "||":
		return true
	default:
		return false
	}
}

func (a *Analyzer) checkBinOp(n *ast.Node) *types.Type {
	switch n.Op {
	case ".":
		return a.checkMemberAccess(n)
	case "[]":
		return a.checkIndex(n)
	}

	lt := a.checkExpr(n.Left)
	rt := a.checkExpr(n.Right)
	if !types.Compatible(lt, rt) {
		a.report(diag.TypeMismatch, n.Loc, max(1, len(n.Op)), n.Op)
	}
	if isComparisonOp(n.Op) {
		return types.Bool
	}
	if lt != types.Unknown {
		return lt
	}
	return rt
}

// checkMemberAccess resolves `left.field`: left must infer to a
// compound (struct) type whose member scope defines field.
func (a *Analyzer) checkMemberAccess(n *ast.Node) *types.Type {
	lt := a.checkExpr(n.Left)
	if lt == nil || lt.Kind != types.KCompound {
		return types.Unknown
	}
	scope, _ := lt.Scope.(*symbol.Scope)
	if scope == nil {
		return types.Unknown
	}
	field := n.Right
	sym, ok := scope.Lookup(field.Name)
	if !ok {
		a.report(diag.UndeclaredVariable, field.Loc, max(1, len(field.Name)), field.Name)
		return types.Unknown
	}
	sym.Set(symbol.FUsed)
	return sym.Type
}

func (a *Analyzer) checkIndex(n *ast.Node) *types.Type {
	lt := a.checkExpr(n.Left)
	a.checkExpr(n.Right)
	if lt != nil && lt.Kind == types.KArray {
		return lt.Elem
	}
	return types.Unknown
}

func (a *Analyzer) checkAssign(n *ast.Node) *types.Type {
	rt := a.checkExpr(n.Right)
	if n.Left.Kind == ast.KRef {
		sym, ok := a.current.Lookup(n.Left.Name)
		if !ok {
			a.report(diag.UndeclaredVariable, n.Left.Loc, max(1, len(n.Left.Name)), n.Left.Name)
			return rt
		}
		if !types.Compatible(sym.Type, rt) {
			a.report(diag.TypeMismatch, n.Loc, max(1, len(n.Op)), n.Op)
		}
		sym.Set(symbol.FAssigned)
		return sym.Type
	}
	return a.checkExpr(n.Left)
}

// checkCall resolves the callee by name, requiring a function symbol
// (not a variable shadowing the name), checks argument count and
// per-position type compatibility, and marks the function used.
func (a *Analyzer) checkCall(n *ast.Node) *types.Type {
	argTypes := make([]*types.Type, len(n.Items))
	for i, arg := range n.Items {
		argTypes[i] = a.checkExpr(arg)
	}

	sym, ok := a.current.Lookup(n.Name)
	if !ok {
		a.report(diag.UndeclaredFunction, n.Loc, max(1, len(n.Name)), n.Name)
		return types.Unknown
	}
	if sym.Kind != symbol.KFunc {
		a.report(diag.NotAFunction, n.Loc, max(1, len(n.Name)), n.Name)
		return types.Unknown
	}
	sym.Set(symbol.FUsed)

	fn := sym.Type
	if fn == nil || fn.Kind != types.KFunction {
		return types.Unknown
	}
	if len(argTypes) != len(fn.Params) {
		a.report(diag.InvalidArgumentCount, n.Loc, max(1, len(n.Name)), n.Name)
		return fn.Ret
	}
	for i, pt := range fn.Params {
		if !types.Compatible(pt, argTypes[i]) {
			a.report(diag.InvalidArgumentType, n.Items[i].Loc, max(1, len(n.Name)), n.Name)
		}
	}
	return fn.Ret
}

func (a *Analyzer) checkArrayLit(n *ast.Node) *types.Type {
	var elem *types.Type = types.Unknown
	for i, item := range n.Items {
		t := a.checkExpr(item)
		if i == 0 {
			elem = t
		}
	}
	return types.NewArray(elem, len(n.Items))
}
