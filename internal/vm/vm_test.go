package vm

import (
	"testing"

	"github.com/nrednav/breadc/internal/arena"
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/lexer"
	"github.com/nrednav/breadc/internal/parser"
	"github.com/nrednav/breadc/internal/strpool"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) *Result {
	t.Helper()
	reports := diag.NewTable("test.brc")
	sp := strpool.New(arena.New(4096))
	lx := lexer.New([]byte(src), sp, reports)
	nodes := ast.NewPool()
	p := parser.New(lx, nodes, sp, reports)
	root := p.ParseProgram()
	require.Equal(t, 0, reports.Len(), "unexpected parse diagnostics")
	prog := Compile(root, sp)
	m := New(prog, Options{})
	return m.Run()
}

// Every statement form except a trailing bare expression nets to zero
// stack effect (compute then store/discard), so these programs end with
// a bare reference/expression to surface the value under test — see
// isBareExprStmt in compile.go.

func TestArithmeticAndPrecedence(t *testing.T) {
	res := run(t, `var r = 1 + 2 * 3; r;`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(7), res.Value)
}

func TestModuloLowering(t *testing.T) {
	res := run(t, `var r = 17 % 5; r;`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(2), res.Value)
}

func TestDivisionByZeroNeverTraps(t *testing.T) {
	res := run(t, `var r = 5 / 0; r;`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(0), res.Value)
}

func TestComparisonOperators(t *testing.T) {
	cases := map[string]int64{
		"1 < 2":  1,
		"2 < 1":  0,
		"1 <= 1": 1,
		"2 <= 1": 0,
		"2 >= 2": 1,
		"1 >= 2": 0,
		"1 == 1": 1,
		"1 != 1": 0,
	}
	for src, want := range cases {
		res := run(t, "var r = "+src+"; r;")
		require.Nil(t, res.Fault, src)
		require.Equal(t, want, res.Value, src)
	}
}

func TestLogicalOperators(t *testing.T) {
	res := run(t, `var r = (1 == 1) && (2 == 2); r;`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(1), res.Value)

	res = run(t, `var r = (1 == 2) || (2 == 2); r;`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(1), res.Value)
}

func TestWhileLoopAccumulates(t *testing.T) {
	res := run(t, `
var i = 0;
var sum = 0;
while (i < 5) {
  sum = sum + i;
  i = i + 1;
}
sum;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(10), res.Value)
}

func TestForLoopWithBreakAndContinue(t *testing.T) {
	res := run(t, `
var sum = 0;
for (var i = 0; i < 10; i = i + 1) {
  if (i == 7) { break; }
  if (i % 2 == 0) { continue; }
  sum = sum + i;
}
sum;
`)
	require.Nil(t, res.Fault)
	// odd i in [0,7): 1+3+5 = 9
	require.Equal(t, int64(9), res.Value)
}

func TestFunctionCallAndReturn(t *testing.T) {
	res := run(t, `
func add(a: int, b: int) -> int {
  return a + b;
}
var r = add(3, 4);
r;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(7), res.Value)
}

func TestRecursiveFunctionCall(t *testing.T) {
	res := run(t, `
func fact(n: int) -> int {
  if (n <= 1) { return 1; }
  return n * fact(n - 1);
}
var r = fact(5);
r;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(120), res.Value)
}

func TestForwardCallResolves(t *testing.T) {
	res := run(t, `
func entry() -> int {
  return helper();
}
func helper() -> int {
  return 42;
}
var r = entry();
r;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(42), res.Value)
}

func TestPrefixAndPostfixIncrement(t *testing.T) {
	res := run(t, `
var x = 5;
var r = x++;
r;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(5), res.Value)

	res = run(t, `
var x = 5;
var r = ++x;
r;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(6), res.Value)
}

func TestCompoundAssignment(t *testing.T) {
	res := run(t, `
var x = 10;
x += 5;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(15), res.Value)
}

func TestMatchStatement(t *testing.T) {
	res := run(t, `
var x = 2;
var r = 0;
match x {
  case 1 -> r = 10;
  case 2 -> r = 20;
  default -> r = 30;
}
r;
`)
	require.Nil(t, res.Fault)
	require.Equal(t, int64(20), res.Value)
}

func TestUnknownOpcodeFaultsGracefully(t *testing.T) {
	prog := &Program{Code: []byte{byte(RETURN) + 100}}
	m := New(prog, Options{})
	res := m.Run()
	require.NotNil(t, res.Fault)
}

func TestStackUnderflowNeverPanics(t *testing.T) {
	e := &emitter{}
	e.emit(ADD)
	e.emit(RETURN)
	m := New(e.program(), Options{})
	res := m.Run()
	require.Nil(t, res.Fault)
	require.Equal(t, int64(0), res.Value)
}

func TestDisassembleRoundTrip(t *testing.T) {
	e := &emitter{}
	e.emitInt(PUSH, 5)
	e.emitInt(PUSH, 3)
	e.emit(ADD)
	e.emit(RETURN)
	lines := Disassemble(e.program())
	require.Equal(t, []string{"PUSH 5", "PUSH 3", "ADD", "RETURN"}, lines)
}
