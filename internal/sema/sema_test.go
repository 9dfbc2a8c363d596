package sema

import (
	"testing"

	"github.com/nrednav/breadc/internal/arena"
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/lexer"
	"github.com/nrednav/breadc/internal/parser"
	"github.com/nrednav/breadc/internal/strpool"
	"github.com/nrednav/breadc/internal/symbol"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) (*Analyzer, *diag.Table) {
	t.Helper()
	parseReports := diag.NewTable("test.brc")
	sp := strpool.New(arena.New(4096))
	lx := lexer.New([]byte(src), sp, parseReports)
	nodes := ast.NewPool()
	p := parser.New(lx, nodes, sp, parseReports)
	root := p.ParseProgram()
	require.Equal(t, 0, parseReports.Len(), "unexpected parse diagnostics")

	semaReports := diag.NewTable("test.brc")
	a := New(semaReports)
	a.Analyze(root)
	return a, semaReports
}

func hasCode(reports *diag.Table, code diag.Code) bool {
	for _, r := range reports.Reports() {
		if r.Code == code {
			return true
		}
	}
	return false
}

func TestForwardFunctionReferenceResolves(t *testing.T) {
	_, reports := analyze(t, `
func entry() -> int { return helper(); }
func helper() -> int { return 1; }
`)
	require.False(t, hasCode(reports, diag.UndeclaredFunction))
	require.Equal(t, 0, reports.Len())
}

func TestUndeclaredVariableReported(t *testing.T) {
	_, reports := analyze(t, `func f() { return y; }`)
	require.True(t, hasCode(reports, diag.UndeclaredVariable))
}

func TestUndeclaredFunctionCallReported(t *testing.T) {
	_, reports := analyze(t, `func f() { return ghost(); }`)
	require.True(t, hasCode(reports, diag.UndeclaredFunction))
}

func TestCallingAVariableReportsNotAFunction(t *testing.T) {
	_, reports := analyze(t, `
var f = 5;
func g() { return f(); }
`)
	require.True(t, hasCode(reports, diag.NotAFunction))
}

func TestTypeMismatchInVarDecl(t *testing.T) {
	_, reports := analyze(t, `var x: int = "hello";`)
	require.True(t, hasCode(reports, diag.TypeMismatch))
}

func TestCompatibleIntUintVarDeclNoMismatch(t *testing.T) {
	_, reports := analyze(t, `var x: uint = 5;`)
	require.False(t, hasCode(reports, diag.TypeMismatch))
}

func TestBreakOutsideLoopReported(t *testing.T) {
	_, reports := analyze(t, `func f() { break; }`)
	require.True(t, hasCode(reports, diag.BreakOutsideLoop))
}

func TestContinueOutsideLoopReported(t *testing.T) {
	_, reports := analyze(t, `func f() { continue; }`)
	require.True(t, hasCode(reports, diag.ContinueOutsideLoop))
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	_, reports := analyze(t, `func f() { while (true) { break; } }`)
	require.False(t, hasCode(reports, diag.BreakOutsideLoop))
}

func TestReturnOutsideFunctionReported(t *testing.T) {
	_, reports := analyze(t, `return 1;`)
	require.True(t, hasCode(reports, diag.ReturnOutsideFunction))
}

func TestDuplicateParamReported(t *testing.T) {
	_, reports := analyze(t, `func f(a: int, a: int) { return; }`)
	require.True(t, hasCode(reports, diag.VariableAlreadyDeclared))
}

func TestCallArgumentCountMismatchReported(t *testing.T) {
	_, reports := analyze(t, `
func add(a: int, b: int) -> int { return a + b; }
var r = add(1);
`)
	require.True(t, hasCode(reports, diag.InvalidArgumentCount))
}

func TestCallArgumentTypeMismatchReported(t *testing.T) {
	_, reports := analyze(t, `
func add(a: int, b: int) -> int { return a + b; }
var r = add(1, "two");
`)
	require.True(t, hasCode(reports, diag.InvalidArgumentType))
}

func TestBinaryOpTypeMismatchReported(t *testing.T) {
	_, reports := analyze(t, `var r = 1 + "x";`)
	require.True(t, hasCode(reports, diag.TypeMismatch))
}

func TestConstModifierYieldsConstSymbolKind(t *testing.T) {
	a, reports := analyze(t, `const pi: float = 3;`)
	require.Equal(t, 0, reports.Len())
	sym, ok := a.Global().Lookup("pi")
	require.True(t, ok)
	require.Equal(t, symbol.KConst, sym.Kind)
}

func TestVarModifierYieldsVarSymbolKind(t *testing.T) {
	a, reports := analyze(t, `var x = 5;`)
	require.Equal(t, 0, reports.Len())
	sym, ok := a.Global().Lookup("x")
	require.True(t, ok)
	require.Equal(t, symbol.KVar, sym.Kind)
}

func TestEnumVariantsAutoIncrementAndExplicitValue(t *testing.T) {
	a, reports := analyze(t, `enum Color { Red, Green, Blue = 5, Purple }`)
	require.Equal(t, 0, reports.Len())
	sym, ok := a.Global().Lookup("Color")
	require.True(t, ok)
	scope, ok := sym.Type.Scope.(*symbol.Scope)
	require.True(t, ok)

	red, _ := scope.Lookup("Red")
	green, _ := scope.Lookup("Green")
	blue, _ := scope.Lookup("Blue")
	purple, _ := scope.Lookup("Purple")
	require.Equal(t, int64(0), red.EnumValue)
	require.Equal(t, int64(1), green.EnumValue)
	require.Equal(t, int64(5), blue.EnumValue)
	require.Equal(t, int64(6), purple.EnumValue)
}

func TestDuplicateEnumValueReported(t *testing.T) {
	_, reports := analyze(t, `enum Flag { A = 1, B = 1 }`)
	require.True(t, hasCode(reports, diag.DuplicateEnumValue))
}

func TestStructFieldAccessResolves(t *testing.T) {
	_, reports := analyze(t, `
struct Point { x: int, y: int }
func f() {
  var p: Point;
  return p.x;
}
`)
	require.False(t, hasCode(reports, diag.UndeclaredVariable))
	require.Equal(t, 0, reports.Len())
}

func TestStructUnknownFieldReported(t *testing.T) {
	_, reports := analyze(t, `
struct Point { x: int, y: int }
func f() {
  var p: Point;
  return p.z;
}
`)
	require.True(t, hasCode(reports, diag.UndeclaredVariable))
}

func TestForLoopOwnScopeForInitVariable(t *testing.T) {
	_, reports := analyze(t, `
func f() {
  for (var i = 0; i < 10; i = i + 1) { }
  return;
}
`)
	require.Equal(t, 0, reports.Len())
}

func TestDraftKeywordReportsUnimplemented(t *testing.T) {
	_, reports := analyze(t, `func f() { async { return; } }`)
	require.True(t, hasCode(reports, diag.UnimplementedNode))
}

func TestRecursiveCallDoesNotReportUndeclared(t *testing.T) {
	_, reports := analyze(t, `
func fact(n: int) -> int {
  if (n <= 1) { return 1; }
  return n * fact(n - 1);
}
`)
	require.Equal(t, 0, reports.Len())
}
