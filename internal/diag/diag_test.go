package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportNeverDropped(t *testing.T) {
	tbl := NewTable("main.brc")
	tbl.Report(Error, UnclosedString, Location{1, 5}, 1, `var s = "bread`)
	tbl.Report(Warning, InvalidEscapeSequence, Location{2, 3}, 1, `var x = "\q"`)
	require.Equal(t, 2, tbl.Len())
	require.True(t, tbl.HasErrors())
}

func TestRenderSingleCharCaret(t *testing.T) {
	tbl := NewTable("main.brc")
	tbl.Report(Error, UndeclaredVariable, Location{1, 5}, 1, `print(x)`)
	var buf bytes.Buffer
	tbl.Render(&buf)
	out := buf.String()
	require.Contains(t, out, "^")
	require.NotContains(t, out, "~")
	require.Contains(t, out, "undeclared variable")
	require.Contains(t, out, "[ERROR] main.brc at 1:5")
}

func TestRenderMultiCharTildes(t *testing.T) {
	tbl := NewTable("main.brc")
	tbl.Report(Error, TypeMismatch, Location{1, 9}, 7, `var x : int = "hello"`)
	var buf bytes.Buffer
	tbl.Render(&buf)
	require.Contains(t, buf.String(), "~~~~~~~")
}

func TestRenderPreservesInsertionOrder(t *testing.T) {
	tbl := NewTable("")
	tbl.Report(Error, UndeclaredVariable, Location{1, 1}, 1, "a")
	tbl.Report(Error, UndeclaredFunction, Location{2, 1}, 1, "b")
	reports := tbl.Reports()
	require.Equal(t, UndeclaredVariable, reports[0].Code)
	require.Equal(t, UndeclaredFunction, reports[1].Code)
}
