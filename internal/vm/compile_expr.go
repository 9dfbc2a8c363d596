package vm

import (
	"strconv"
	"strings"

	"github.com/nrednav/breadc/internal/ast"
)

// compileExpr lowers an expression AST node, leaving exactly one value
// on the operand stack.
func (c *Compiler) compileExpr(n *ast.Node) {
	if n == nil {
		c.e.emitInt(PUSH, 0)
		return
	}
	switch n.Kind {
	case ast.KLiteral:
		c.compileLiteral(n)
	case ast.KRef:
		c.compileLoad(n)
	case ast.KBinOp:
		c.compileBinOp(n)
	case ast.KUnaryOp:
		c.compileUnaryOp(n)
	case ast.KAssign:
		c.compileAssign(n)
	case ast.KCall:
		c.compileCall(n)
	case ast.KArray:
		// No heap/object model in this VM's opcode set (spec.md §4.9
		// has no allocation instruction); an array literal evaluates
		// its elements for side effects and yields its length.
		for _, elem := range n.Items {
			c.compileExpr(elem)
			c.e.emit(POP)
		}
		c.e.emitInt(PUSH, int64(len(n.Items)))
	case ast.KNameOf, ast.KTypeOf:
		// The semantic analyzer types these (str / any) but does not
		// fold them to a constant; the VM evaluates the target for
		// effect and yields 0.
		if n.Left != nil {
			c.compileExpr(n.Left)
			c.e.emit(POP)
		}
		c.e.emitInt(PUSH, 0)
	default:
		c.e.emitInt(PUSH, 0)
	}
}

func (c *Compiler) compileLiteral(n *ast.Node) {
	switch n.LitKind {
	case ast.LitTrue:
		c.e.emitInt(PUSH, 1)
	case ast.LitFalse, ast.LitNull:
		c.e.emitInt(PUSH, 0)
	case ast.LitInfinity:
		c.e.emitInt(PUSH, int64(^uint64(0)>>1))
	case ast.LitNumber:
		v, _ := strconv.ParseInt(n.Text, 10, 64)
		c.e.emitInt(PUSH, v)
	case ast.LitHex:
		v, _ := strconv.ParseInt(strings.TrimPrefix(n.Text, "0x"), 16, 64)
		c.e.emitInt(PUSH, v)
	case ast.LitBin:
		v, _ := strconv.ParseInt(strings.TrimPrefix(n.Text, "0b"), 2, 64)
		c.e.emitInt(PUSH, v)
	case ast.LitFloat:
		// The opcode set is int64-only (spec.md §4.9 defines no float
		// arithmetic instructions); a float literal truncates.
		f, _ := strconv.ParseFloat(n.Text, 64)
		c.e.emitInt(PUSH, int64(f))
	case ast.LitChar:
		if len(n.Text) > 0 {
			c.e.emitInt(PUSH, int64(n.Text[0]))
		} else {
			c.e.emitInt(PUSH, 0)
		}
	case ast.LitString:
		// Strings have no runtime representation on the int64 operand
		// stack; the text's globalID stands in for the value, the same
		// id a global of that name would get.
		c.e.emitInt(PUSH, int64(c.globalID(n.Text)))
	default:
		c.e.emitInt(PUSH, 0)
	}
}

func (c *Compiler) compileLoad(n *ast.Node) {
	if n.Name == "self" {
		c.e.emitInt(PUSH, 0)
		return
	}
	if idx, ok := c.resolveLocal(n.Name); ok {
		c.e.emitInt(LOAD, idx)
		return
	}
	c.e.emitHandle(LOAD_GLOB, c.globalID(n.Name))
}

func (c *Compiler) compileStoreTo(target *ast.Node) {
	if target == nil || target.Kind != ast.KRef {
		// Member/index assignment has no lvalue in this opcode set;
		// drop the value rather than faulting.
		c.e.emit(POP)
		return
	}
	if idx, ok := c.resolveLocal(target.Name); ok {
		c.e.emitInt(STORE, idx)
		return
	}
	c.e.emitHandle(STORE_GLOB, c.globalID(target.Name))
}

func (c *Compiler) compileBinOp(n *ast.Node) {
	switch n.Op {
	case ".", "[]":
		// No struct/array runtime model; evaluate both sides for any
		// side effects and yield the left operand's value.
		c.compileExpr(n.Left)
		c.compileExpr(n.Right)
		c.e.emit(POP)
		return
	}

	if n.Op == "%" {
		c.compileModulo(n)
		return
	}

	c.compileExpr(n.Left)
	c.compileExpr(n.Right)
	switch n.Op {
	case "+":
		c.e.emit(ADD)
	case "-":
		c.e.emit(SUB)
	case "*":
		c.e.emit(MUL)
	case "/":
		c.e.emit(DIV)
	case "<":
		c.e.emit(LT)
	case ">":
		c.e.emit(GT)
	case "<=":
		c.e.emit(GT)
		c.e.emit(NOT)
	case ">=":
		c.e.emit(LT)
		c.e.emit(NOT)
	case "==":
		c.e.emit(EQ)
	case "!=":
		c.e.emit(NEQ)
	case "&&":
		c.e.emit(AND)
	case "||":
		c.e.emit(OR)
	default:
		c.e.emit(POP)
		c.e.emit(POP)
		c.e.emitInt(PUSH, 0)
	}
}

// storeTemp evaluates n once and stashes the result in a fresh slot
// (a local if compiling inside a function, a synthetic global
// otherwise), returning a thunk that loads it back. Used where an
// operand must be read more than once (modulo, pre/post increment)
// without re-evaluating — and so re-running — the source expression.
func (c *Compiler) storeTemp(n *ast.Node) func() {
	c.compileExpr(n)
	if c.inFunc() {
		idx := c.declareLocal("")
		c.e.emitInt(STORE, idx)
		return func() { c.e.emitInt(LOAD, idx) }
	}
	id := c.globalID(c.newTempGlobalName())
	c.e.emitHandle(STORE_GLOB, id)
	return func() { c.e.emitHandle(LOAD_GLOB, id) }
}

// compileModulo implements `%` as the spec's opcode table has no MOD:
// a % b lowers to a - (a/b)*b, with each operand evaluated exactly
// once via storeTemp.
func (c *Compiler) compileModulo(n *ast.Node) {
	loadA := c.storeTemp(n.Left)
	loadB := c.storeTemp(n.Right)
	loadA()
	loadA()
	loadB()
	c.e.emit(DIV)
	loadB()
	c.e.emit(MUL)
	c.e.emit(SUB)
}

func (c *Compiler) compileUnaryOp(n *ast.Node) {
	switch n.Op {
	case "-":
		c.e.emitInt(PUSH, 0)
		c.compileExpr(n.Left)
		c.e.emit(SUB)
	case "+":
		c.compileExpr(n.Left)
	case "!":
		c.compileExpr(n.Left)
		c.e.emit(NOT)
	case "++", "--":
		c.compileIncrDecr(n)
	default:
		c.compileExpr(n.Left)
	}
}

func (c *Compiler) compileIncrDecr(n *ast.Node) {
	delta := int64(1)
	if n.Op == "--" {
		delta = -1
	}
	c.compileExpr(n.Left) // old value
	if n.IsPostfix {
		c.e.emit(DUP)
		c.e.emitInt(PUSH, delta)
		c.e.emit(ADD)
		c.compileStoreTo(n.Left)
	} else {
		c.e.emitInt(PUSH, delta)
		c.e.emit(ADD)
		c.e.emit(DUP)
		c.compileStoreTo(n.Left)
	}
}

func (c *Compiler) compileAssign(n *ast.Node) {
	if n.Op == "=" {
		c.compileExpr(n.Right)
		c.e.emit(DUP)
		c.compileStoreTo(n.Left)
		return
	}
	// Compound assignment: load, apply the arithmetic opcode, store.
	// n.Left is reloaded rather than stashed: for a plain variable
	// reference that is just another load, while a member or index
	// target is evaluated each time it is reloaded. n.Right is stashed
	// through a temp first since it may carry side effects that must
	// run exactly once.
	if n.Op == "%=" {
		loadRight := c.storeTemp(n.Right)
		c.compileExpr(n.Left)
		c.compileExpr(n.Left)
		loadRight()
		c.e.emit(DIV)
		loadRight()
		c.e.emit(MUL)
		c.e.emit(SUB)
		c.e.emit(DUP)
		c.compileStoreTo(n.Left)
		return
	}
	c.compileExpr(n.Left)
	c.compileExpr(n.Right)
	switch n.Op {
	case "+=":
		c.e.emit(ADD)
	case "-=":
		c.e.emit(SUB)
	case "*=":
		c.e.emit(MUL)
	case "/=":
		c.e.emit(DIV)
	}
	c.e.emit(DUP)
	c.compileStoreTo(n.Left)
}

func (c *Compiler) compileCall(n *ast.Node) {
	for _, arg := range n.Items {
		c.compileExpr(arg)
	}
	pos := c.e.emitCall(int64(len(n.Items)))
	// Target and frameSize are always patched in the final pass over
	// pendingCalls (see compileProgram), even for a callee compiled
	// earlier: a self-recursive call's own frameSize isn't final until
	// its body finishes compiling, so there is no "already known" case
	// worth special-casing here.
	c.pendingCalls = append(c.pendingCalls, pendingCall{pos: pos, name: n.Name})
}
