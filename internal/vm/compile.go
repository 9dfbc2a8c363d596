package vm

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/strpool"
)

// Compiler lowers a checked AST into a Program. It targets the fixed
// opcode set of spec.md §4.9: arithmetic, comparisons, locals/globals,
// jumps, and calls. Constructs with no runtime representation in that
// opcode set — struct/enum/trait/impl declarations, match's static
// shape beyond its case chain, try/catch, and import/module/type —
// compile to nothing; they are meaningful to the semantic analyzer, not
// to the VM. nameof/typeof evaluate their operand for effect and yield 0.
type Compiler struct {
	e    emitter
	pool *strpool.Pool

	funcAddrs     map[string]int64
	funcFrameSize map[string]uint32
	pendingCalls  []pendingCall

	scopes []map[string]int64 // local-slot scope stack, innermost last
	next   []int64            // next free slot per active function frame

	loops []loopCtx

	globalIDs    map[string]uint32
	nextGlobalID uint32
	nextTemp     int
}

type pendingCall struct {
	pos  int64
	name string
}

type loopCtx struct {
	continueTarget int64 // -1 if not yet known; patched retroactively otherwise
	breaks         []int64
	continues      []int64
}

// Compile lowers root (the program's top-level block, as produced by
// parser.ParseProgram) into a Program. Every global name is interned
// into pool; the global slots themselves are numbered by globalID.
func Compile(root *ast.Node, pool *strpool.Pool) *Program {
	c := &Compiler{
		pool:          pool,
		funcAddrs:     map[string]int64{},
		funcFrameSize: map[string]uint32{},
		globalIDs:     map[string]uint32{},
	}
	c.compileProgram(root)
	return c.e.program()
}

func (c *Compiler) compileProgram(root *ast.Node) {
	entryJump := c.e.emitInt(JUMP, 0)

	for _, item := range root.Items {
		if item.Kind == ast.KFunc {
			c.compileFunc(item)
		}
	}
	// Patched only now: a callee's frameSize isn't final until its own
	// body has finished compiling, which also covers self-recursive
	// calls made from within that same body.
	for _, pc := range c.pendingCalls {
		c.e.patchCall(pc.pos, c.funcAddrs[pc.name], c.funcFrameSize[pc.name])
	}

	c.e.patchInt(entryJump, c.e.here())
	var main []*ast.Node
	for _, item := range root.Items {
		if item.Kind != ast.KFunc {
			main = append(main, item)
		}
	}
	// Every other statement form nets to zero stack effect (it computes
	// a value and immediately stores or discards it), so a program's
	// result is only ever observable if its last top-level statement is
	// a bare expression: that one case skips the trailing POP a plain
	// expression statement would otherwise get, REPL-style.
	for i, item := range main {
		if i == len(main)-1 && isBareExprStmt(item) {
			c.compileExpr(item)
			continue
		}
		c.compileStmt(item)
	}
}

// isBareExprStmt reports whether n is a plain expression used as a
// statement (an assignment, call, or other expression evaluated for
// its value/side effects) rather than one of the control-flow or
// declaration forms compileStmt special-cases.
func isBareExprStmt(n *ast.Node) bool {
	switch n.Kind {
	case ast.KBlock, ast.KVar, ast.KIf, ast.KWhile, ast.KFor, ast.KMatch,
		ast.KReturn, ast.KBreak, ast.KContinue, ast.KFunc, ast.KStruct,
		ast.KEnum, ast.KTrait, ast.KImpl, ast.KTryCatch, ast.KImport,
		ast.KModule, ast.KType, ast.KStub:
		return false
	default:
		return true
	}
}

func (c *Compiler) pushScope() {
	c.scopes = append(c.scopes, map[string]int64{})
}

func (c *Compiler) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Compiler) inFunc() bool { return len(c.next) > 0 }

func (c *Compiler) declareLocal(name string) int64 {
	idx := c.next[len(c.next)-1]
	c.next[len(c.next)-1]++
	c.scopes[len(c.scopes)-1][name] = idx
	return idx
}

// resolveLocal walks the active function's scope stack, innermost
// first (shadowing).
func (c *Compiler) resolveLocal(name string) (int64, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if idx, ok := c.scopes[i][name]; ok {
			return idx, true
		}
	}
	return 0, false
}

// globalID assigns a stable, collision-free integer identity to a
// global name: the string pool's own hash is good for deduplicating
// interned text, but two distinct names could in principle share a
// 32-bit FNV hash, so global slots get their own monotonic counter.
func (c *Compiler) globalID(name string) uint32 {
	if id, ok := c.globalIDs[name]; ok {
		return id
	}
	c.pool.InternString(name)
	id := c.nextGlobalID
	c.nextGlobalID++
	c.globalIDs[name] = id
	return id
}

func (c *Compiler) newTempGlobalName() string {
	c.nextTemp++
	return "$match" + itoa(int64(c.nextTemp))
}

func (c *Compiler) compileFunc(n *ast.Node) {
	c.funcAddrs[n.Name] = c.e.here()
	c.next = append(c.next, 0)
	c.pushScope()
	for _, param := range n.Items {
		c.declareLocal(param.Name)
	}
	c.compileStmt(n.Body)
	// Every path must return control to the caller; a function whose
	// body falls off the end implicitly returns 0.
	c.e.emitInt(PUSH, 0)
	c.e.emit(RETURN)
	// Total local slots this frame ever declares (params included);
	// captured now so call sites can reserve exactly this much room.
	c.funcFrameSize[n.Name] = uint32(c.next[len(c.next)-1])
	c.popScope()
	c.next = c.next[:len(c.next)-1]
}

func (c *Compiler) compileStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KBlock:
		c.pushScope()
		for _, item := range n.Items {
			c.compileStmt(item)
		}
		c.popScope()
	case ast.KVar:
		c.compileVarDecl(n)
	case ast.KIf:
		c.compileIf(n)
	case ast.KWhile:
		c.compileWhile(n)
	case ast.KFor:
		c.compileFor(n)
	case ast.KMatch:
		c.compileMatch(n)
	case ast.KReturn:
		if n.Left != nil {
			c.compileExpr(n.Left)
		} else {
			c.e.emitInt(PUSH, 0)
		}
		c.e.emit(RETURN)
	case ast.KBreak:
		if len(c.loops) > 0 {
			lp := &c.loops[len(c.loops)-1]
			lp.breaks = append(lp.breaks, c.e.emitInt(JUMP, 0))
		}
	case ast.KContinue:
		if len(c.loops) > 0 {
			lp := &c.loops[len(c.loops)-1]
			lp.continues = append(lp.continues, c.e.emitInt(JUMP, 0))
		}
	case ast.KFunc, ast.KStruct, ast.KEnum, ast.KTrait, ast.KImpl,
		ast.KTryCatch, ast.KImport, ast.KModule, ast.KType, ast.KStub:
		// No runtime representation; see Compiler's doc comment.
	default:
		// Expression statement: evaluate and discard.
		c.compileExpr(n)
		c.e.emit(POP)
	}
}

func (c *Compiler) compileVarDecl(n *ast.Node) {
	if n.Left != nil {
		c.compileExpr(n.Left)
	} else {
		c.e.emitInt(PUSH, 0)
	}
	if c.inFunc() {
		idx := c.declareLocal(n.Name)
		c.e.emitInt(STORE, idx)
	} else {
		c.e.emitHandle(STORE_GLOB, c.globalID(n.Name))
	}
}

func (c *Compiler) compileIf(n *ast.Node) {
	c.compileExpr(n.Cond)
	skipThen := c.e.emitInt(JUMP_IFNOT, 0)
	c.compileStmt(n.Then)
	var endJumps []int64

	if len(n.Items) > 0 || n.Else != nil {
		endJumps = append(endJumps, c.e.emitInt(JUMP, 0))
	}
	c.e.patchInt(skipThen, c.e.here())

	for i, elif := range n.Items {
		c.compileExpr(elif.Cond)
		skip := c.e.emitInt(JUMP_IFNOT, 0)
		c.compileStmt(elif.Then)
		if i < len(n.Items)-1 || n.Else != nil {
			endJumps = append(endJumps, c.e.emitInt(JUMP, 0))
		}
		c.e.patchInt(skip, c.e.here())
	}

	if n.Else != nil {
		c.compileStmt(n.Else)
	}
	for _, pos := range endJumps {
		c.e.patchInt(pos, c.e.here())
	}
}

func (c *Compiler) compileWhile(n *ast.Node) {
	condAddr := c.e.here()
	c.compileExpr(n.Cond)
	exitJump := c.e.emitInt(JUMP_IFNOT, 0)

	c.loops = append(c.loops, loopCtx{continueTarget: condAddr})
	c.compileStmt(n.Body)
	lp := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	for _, pos := range lp.continues {
		c.e.patchInt(pos, condAddr)
	}
	c.e.emitInt(JUMP, condAddr)
	c.e.patchInt(exitJump, c.e.here())
	for _, pos := range lp.breaks {
		c.e.patchInt(pos, c.e.here())
	}
}

func (c *Compiler) compileFor(n *ast.Node) {
	c.pushScope()
	if n.ForInit != nil {
		c.compileStmt(n.ForInit)
	}
	condAddr := c.e.here()
	var exitJump int64 = -1
	if n.Cond != nil {
		c.compileExpr(n.Cond)
		exitJump = c.e.emitInt(JUMP_IFNOT, 0)
	}

	c.loops = append(c.loops, loopCtx{continueTarget: -1})
	c.compileStmt(n.Body)
	lp := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	updateAddr := c.e.here()
	for _, pos := range lp.continues {
		c.e.patchInt(pos, updateAddr)
	}
	if n.ForUpdate != nil {
		c.compileExpr(n.ForUpdate)
		c.e.emit(POP)
	}
	c.e.emitInt(JUMP, condAddr)
	if exitJump >= 0 {
		c.e.patchInt(exitJump, c.e.here())
	}
	for _, pos := range lp.breaks {
		c.e.patchInt(pos, c.e.here())
	}
	c.popScope()
}

// compileMatch lowers to a chain of equality comparisons against the
// target expression, evaluated once into a temporary local slot (or a
// synthetic global if compiled outside a function).
func (c *Compiler) compileMatch(n *ast.Node) {
	c.compileExpr(n.Cond)
	var tempIdx int64
	var tempGlobal uint32
	useLocal := c.inFunc()
	if useLocal {
		tempIdx = c.declareLocal("")
		c.e.emitInt(STORE, tempIdx)
	} else {
		tempGlobal = c.globalID(c.newTempGlobalName())
		c.e.emitHandle(STORE_GLOB, tempGlobal)
	}

	var endJumps []int64
	for _, cs := range n.Items {
		if cs.Cond == nil {
			c.compileStmt(cs.Body)
			continue
		}
		if useLocal {
			c.e.emitInt(LOAD, tempIdx)
		} else {
			c.e.emitHandle(LOAD_GLOB, tempGlobal)
		}
		c.compileExpr(cs.Cond)
		c.e.emit(EQ)
		skip := c.e.emitInt(JUMP_IFNOT, 0)
		c.compileStmt(cs.Body)
		endJumps = append(endJumps, c.e.emitInt(JUMP, 0))
		c.e.patchInt(skip, c.e.here())
	}
	for _, pos := range endJumps {
		c.e.patchInt(pos, c.e.here())
	}
}
