// Package diag implements the compiler's diagnostic table: an append-only
// collection of reports with source-accurate rendering. Reports are never
// dropped once added; every phase accumulates diagnostics and keeps going.
package diag

import (
	"fmt"
	"io"
	"strings"
)

// Location is a 1-based (line, column) position.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Severity classifies a Report.
type Severity int

const (
	Note Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "NOTE"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Code enumerates every diagnosable condition, grouped by the phase that
// raises it. The set and naming mirrors original_source's report_code enum
// 1:1, since this is the language's own error taxonomy (spec.md §7), not
// incidental implementation detail.
type Code int

const (
	// Lexer.
	IllegalCharacter Code = iota
	UnexpectedEOF
	InvalidLiteral
	InvalidNumber
	InvalidIdentifier
	InvalidString
	UnclosedString
	UnmatchedParen
	InvalidEscapeSequence

	// Parser.
	UnexpectedToken
	InvalidExpression
	InvalidUnaryOp
	ExpectedExpression
	ExpectedOperator
	ExpectedIdentifier
	ExpectedType
	ExpectedParen
	ExpectedKeyword
	ExpectedDelimiter
	ExpectedParam

	// Semantic.
	TypeMismatch
	UndeclaredVariable
	UndeclaredFunction
	VariableAlreadyDeclared
	FunctionAlreadyDeclared
	FailedToDeclareVariable
	FailedToDeclareFunction
	InvalidOperation
	InvalidFunctionCall
	InvalidArgumentCount
	InvalidArgumentType
	InvalidReturnType
	NotAFunction
	BreakOutsideLoop
	ContinueOutsideLoop
	UnimplementedNode
	VariableNoTypeOrInitializer
	DuplicateEnumValue
	ReturnOutsideFunction
)

var codeMessages = map[Code]string{
	IllegalCharacter:            "illegal character",
	UnexpectedEOF:               "unexpected end of file",
	InvalidLiteral:              "invalid literal",
	InvalidNumber:               "invalid number",
	InvalidIdentifier:           "invalid identifier",
	InvalidString:               "invalid string",
	UnclosedString:              "unclosed string",
	UnmatchedParen:              "unmatched parenthesis",
	InvalidEscapeSequence:       "invalid escape sequence",
	UnexpectedToken:             "unexpected token",
	InvalidExpression:           "invalid expression",
	InvalidUnaryOp:              "invalid unary operator",
	ExpectedExpression:          "expected expression",
	ExpectedOperator:            "expected operator",
	ExpectedIdentifier:          "expected identifier",
	ExpectedType:                "expected type",
	ExpectedParen:               "expected paren",
	ExpectedKeyword:             "expected keyword",
	ExpectedDelimiter:           "expected delimiter",
	ExpectedParam:               "expected parameter",
	TypeMismatch:                "type mismatch",
	UndeclaredVariable:          "undeclared variable",
	UndeclaredFunction:          "undeclared function",
	VariableAlreadyDeclared:     "variable already declared",
	FunctionAlreadyDeclared:     "function already declared",
	FailedToDeclareVariable:     "failed to declare variable",
	FailedToDeclareFunction:     "failed to declare function",
	InvalidOperation:            "invalid operation",
	InvalidFunctionCall:         "invalid function call",
	InvalidArgumentCount:        "invalid argument count",
	InvalidArgumentType:         "invalid argument type",
	InvalidReturnType:           "invalid return type",
	NotAFunction:                "not a function",
	BreakOutsideLoop:            "break outside loop",
	ContinueOutsideLoop:         "continue outside loop",
	UnimplementedNode:           "unimplemented node",
	VariableNoTypeOrInitializer: "variable has no type or initializer",
	DuplicateEnumValue:          "duplicate enum value",
	ReturnOutsideFunction:       "return outside function",
}

// Message returns the fixed human-readable message for a code.
func (c Code) Message() string {
	if m, ok := codeMessages[c]; ok {
		return m
	}
	return "unknown diagnostic"
}

// Report is a single diagnostic: where, what, and the source context
// needed to render it without re-reading the file.
type Report struct {
	Severity Severity
	Code     Code
	Loc      Location
	Length   int
	Snippet  string // the offending source line, without trailing newline
	File     string
}

// Table is an append-only collection of reports.
type Table struct {
	reports []Report
	file    string
}

// NewTable creates a Table that stamps every report with the given
// filepath (conventionally a ".brc" path, or "" for anonymous input).
func NewTable(file string) *Table {
	return &Table{file: file}
}

// Report appends a diagnostic. It never fails and never drops a prior
// report.
func (t *Table) Report(sev Severity, code Code, loc Location, length int, snippet string) {
	t.reports = append(t.reports, Report{
		Severity: sev,
		Code:     code,
		Loc:      loc,
		Length:   length,
		Snippet:  snippet,
		File:     t.file,
	})
}

// Reports returns all accumulated reports in insertion order.
func (t *Table) Reports() []Report { return t.reports }

// HasErrors reports whether any accumulated report has Error severity.
func (t *Table) HasErrors() bool {
	for _, r := range t.reports {
		if r.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of accumulated reports.
func (t *Table) Len() int { return len(t.reports) }

// Render writes every report to w in insertion order, one block per
// report: the source line, a caret/tildes span under the offending
// columns, the message, and a severity/file/location footer.
func (t *Table) Render(w io.Writer) {
	for _, r := range t.reports {
		renderOne(w, r)
	}
}

func renderOne(w io.Writer, r Report) {
	fmt.Fprintln(w, r.Snippet)

	pad := strings.Repeat(" ", max(0, r.Loc.Column-1))
	marker := "^"
	if r.Length > 1 {
		marker = strings.Repeat("~", r.Length)
	}
	fmt.Fprintln(w, pad+marker)

	fmt.Fprintln(w, r.Code.Message())
	fmt.Fprintf(w, "[%s] %s at %s\n", r.Severity, r.File, r.Loc)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
