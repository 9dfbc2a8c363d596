package parser

import (
	"testing"

	"github.com/nrednav/breadc/internal/arena"
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/lexer"
	"github.com/nrednav/breadc/internal/strpool"
	"github.com/stretchr/testify/require"
)

func parse(src string) (*ast.Node, *diag.Table) {
	reports := diag.NewTable("test.brc")
	sp := strpool.New(arena.New(4096))
	lx := lexer.New([]byte(src), sp, reports)
	nodes := ast.NewPool()
	p := New(lx, nodes, sp, reports)
	return p.ParseProgram(), reports
}

// Scenario 1 (spec.md §8): a minimal valid program parses with no
// diagnostics and a single top-level function declaration.
func TestMinimalValidProgram(t *testing.T) {
	root, reports := parse(`func main() { return 0; }`)
	require.Equal(t, 0, reports.Len())
	require.Len(t, root.Items, 1)
	require.Equal(t, ast.KFunc, root.Items[0].Kind)
	require.Equal(t, "main", root.Items[0].Name)
}

func TestVariableWithInferredType(t *testing.T) {
	root, reports := parse(`var x = 5;`)
	require.Equal(t, 0, reports.Len())
	require.Len(t, root.Items, 1)
	v := root.Items[0]
	require.Equal(t, ast.KVar, v.Kind)
	require.Equal(t, "x", v.Name)
	require.NotNil(t, v.Left)
	require.Equal(t, "", v.DeclType)
	require.Equal(t, "var", v.Modifier)
}

func TestVariableWithExplicitType(t *testing.T) {
	root, _ := parse(`var x: int = 5;`)
	v := root.Items[0]
	require.Equal(t, "int", v.DeclType)
}

func TestConstModifierCaptured(t *testing.T) {
	root, reports := parse(`const pi: float = 3;`)
	require.Equal(t, 0, reports.Len())
	v := root.Items[0]
	require.Equal(t, "const", v.Modifier)
}

func TestVariableMissingTypeAndInitializerReports(t *testing.T) {
	_, reports := parse(`var x;`)
	require.True(t, reports.HasErrors())
	found := false
	for _, r := range reports.Reports() {
		if r.Code == diag.VariableNoTypeOrInitializer {
			found = true
		}
	}
	require.True(t, found)
}

// Scenario 5 (spec.md §8, property P5): `1 + 2 * 3` must bind as
// `1 + (2 * 3)`.
func TestPrecedenceSanity(t *testing.T) {
	root, reports := parse(`var r = 1 + 2 * 3;`)
	require.Equal(t, 0, reports.Len())
	expr := root.Items[0].Left
	require.Equal(t, ast.KBinOp, expr.Kind)
	require.Equal(t, "+", expr.Op)
	require.Equal(t, ast.LitNumber, expr.Left.LitKind)
	require.Equal(t, ast.KBinOp, expr.Right.Kind)
	require.Equal(t, "*", expr.Right.Op)
}

func TestPrecedenceComparisonBelowArithmetic(t *testing.T) {
	root, _ := parse(`var r = 1 + 2 < 3 * 4;`)
	expr := root.Items[0].Left
	require.Equal(t, "<", expr.Op)
	require.Equal(t, "+", expr.Left.Op)
	require.Equal(t, "*", expr.Right.Op)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	root, reports := parse(`func f() { a = b = 1; }`)
	require.Equal(t, 0, reports.Len())
	stmt := root.Items[0].Body.Items[0]
	require.Equal(t, ast.KAssign, stmt.Kind)
	require.Equal(t, ast.KAssign, stmt.Right.Kind)
}

// Scenario 6 (spec.md §8): `break` outside a loop is a parse-level no-op
// (the parser always accepts it); the check belongs to semantic analysis.
func TestBreakOutsideLoopParsesFine(t *testing.T) {
	root, reports := parse(`func f() { break; }`)
	require.Equal(t, 0, reports.Len())
	require.Equal(t, ast.KBreak, root.Items[0].Body.Items[0].Kind)
}

func TestIfElifElse(t *testing.T) {
	root, reports := parse(`
func f() {
  if (a < b) { return 1; }
  elif (a == b) { return 0; }
  else { return -1; }
}`)
	require.Equal(t, 0, reports.Len())
	ifNode := root.Items[0].Body.Items[0]
	require.Equal(t, ast.KIf, ifNode.Kind)
	require.Len(t, ifNode.Items, 1)
	require.NotNil(t, ifNode.Else)
}

func TestForLoopAllClausesOptional(t *testing.T) {
	root, reports := parse(`func f() { for (;;) { break; } }`)
	require.Equal(t, 0, reports.Len())
	forNode := root.Items[0].Body.Items[0]
	require.Equal(t, ast.KFor, forNode.Kind)
	require.Nil(t, forNode.ForInit)
	require.Nil(t, forNode.Cond)
	require.Nil(t, forNode.ForUpdate)
}

func TestStructAndEnum(t *testing.T) {
	root, reports := parse(`
struct Point { x: int, y: int }
enum Color { Red, Green, Blue = 5 }
`)
	require.Equal(t, 0, reports.Len())
	require.Equal(t, ast.KStruct, root.Items[0].Kind)
	require.Len(t, root.Items[0].Items, 2)
	require.Equal(t, ast.KEnum, root.Items[1].Kind)
	require.Len(t, root.Items[1].Items, 3)
	require.NotNil(t, root.Items[1].Items[2].Left)
}

func TestImplWithAndWithoutTrait(t *testing.T) {
	root, reports := parse(`
impl Shape { func area() -> int { return 0; } }
impl Drawable for Shape { func draw() { return; } }
`)
	require.Equal(t, 0, reports.Len())
	require.Nil(t, root.Items[0].Target)
	require.NotNil(t, root.Items[1].Target)
	require.Equal(t, "Shape", *root.Items[1].Target)
}

func TestDraftKeywordBecomesStub(t *testing.T) {
	root, reports := parse(`func f() { async { return; } }`)
	require.Equal(t, 0, reports.Len())
	fn := root.Items[0]
	inner := fn.Body.Items[0]
	require.Equal(t, ast.KStub, inner.Kind)
	require.Equal(t, "async", inner.Keyword)
}

func TestMemberAndIndexExpressions(t *testing.T) {
	root, reports := parse(`var r = a.b[0];`)
	require.Equal(t, 0, reports.Len())
	expr := root.Items[0].Left
	require.Equal(t, "[]", expr.Op)
	require.Equal(t, ".", expr.Left.Op)
}

func TestCallWithArguments(t *testing.T) {
	root, reports := parse(`var r = add(1, 2 * 3);`)
	require.Equal(t, 0, reports.Len())
	call := root.Items[0].Left
	require.Equal(t, ast.KCall, call.Kind)
	require.Equal(t, "add", call.Name)
	require.Len(t, call.Items, 2)
}

func TestUnmatchedParenRecovers(t *testing.T) {
	_, reports := parse(`func f( { return 1; }`)
	require.True(t, reports.Len() > 0)
}

func TestMatchStatementArrowSyntax(t *testing.T) {
	root, reports := parse(`
match x {
  case 1 -> r = 10;
  default -> r = 30;
}
`)
	require.Equal(t, 0, reports.Len())
	require.Len(t, root.Items, 1)
	m := root.Items[0]
	require.Equal(t, ast.KMatch, m.Kind)
	require.NotNil(t, m.Cond)
	require.Equal(t, "x", m.Cond.Name)
	require.Len(t, m.Items, 2)
	require.NotNil(t, m.Items[0].Cond)
	require.Nil(t, m.Items[1].Cond)
}

func TestTypeDeclarationMirrorsModule(t *testing.T) {
	root, reports := parse(`
type Meters { }
type Seconds;
`)
	require.Equal(t, 0, reports.Len())
	require.Len(t, root.Items, 2)
	withBody := root.Items[0]
	require.Equal(t, ast.KType, withBody.Kind)
	require.Equal(t, "Meters", withBody.Name)
	require.NotNil(t, withBody.Body)
	bare := root.Items[1]
	require.Equal(t, ast.KType, bare.Kind)
	require.Equal(t, "Seconds", bare.Name)
	require.Nil(t, bare.Body)
}
