package breadc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	var out, errOut bytes.Buffer
	return New(Options{Stdout: &out, Stderr: &errOut})
}

// Scenario 1 (spec.md §8): a minimal valid program compiles and runs
// with no diagnostics.
func TestMinimalValidProgramRuns(t *testing.T) {
	s := newTestSession()
	o := s.Eval(`func main() { return 0; }`)
	require.False(t, o.HasErrors())
	require.NotNil(t, o.Result)
	require.Nil(t, o.Result.Fault)
}

func TestVariableWithInferredTypeRuns(t *testing.T) {
	s := newTestSession()
	o := s.Eval(`var x = 5; x;`)
	require.False(t, o.HasErrors())
	require.Equal(t, int64(5), o.Result.Value)
}

// Scenario 3 (spec.md §8): a type mismatch is reported and the VM
// phase is skipped.
func TestTypeMismatchReportedAndVMSkipped(t *testing.T) {
	s := newTestSession()
	o := s.Eval(`var x: int = "hello";`)
	require.True(t, o.HasErrors())
	require.Nil(t, o.Result)
}

// Scenario 4 (spec.md §8): an unclosed string is a lexer-phase
// diagnostic; later phases still run (accumulate, never abort) but the
// VM phase is skipped since the table already holds errors.
func TestUnclosedStringReported(t *testing.T) {
	s := newTestSession()
	o := s.Eval("var x = \"oops;")
	require.True(t, o.HasErrors())
}

// Scenario 5 (spec.md §8, property P5): precedence sanity end-to-end.
func TestPrecedenceSanityEndToEnd(t *testing.T) {
	s := newTestSession()
	o := s.Eval(`var r = 1 + 2 * 3; r;`)
	require.False(t, o.HasErrors())
	require.Equal(t, int64(7), o.Result.Value)
}

// Scenario 6 (spec.md §8): break outside a loop parses fine but is a
// semantic error; the VM phase is skipped.
func TestBreakOutsideLoopReportedEndToEnd(t *testing.T) {
	s := newTestSession()
	o := s.Eval(`func f() { break; }`)
	require.True(t, o.HasErrors())
	require.Nil(t, o.Result)
}

func TestRecursiveFunctionEndToEnd(t *testing.T) {
	s := newTestSession()
	o := s.Eval(`
func fact(n: int) -> int {
  if (n <= 1) { return 1; }
  return n * fact(n - 1);
}
var r = fact(6);
r;
`)
	require.False(t, o.HasErrors())
	require.Equal(t, int64(720), o.Result.Value)
}

func TestEvalPathMissingFileErrors(t *testing.T) {
	s := newTestSession()
	_, err := s.EvalPath("/nonexistent/path/does-not-exist.brc")
	require.Error(t, err)
}
