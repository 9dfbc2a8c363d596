// Package token defines the lexical category/type tags the lexer
// produces, and the process-wide static recognizer table mapping
// multi-character lexemes (keywords, operators, modifiers, datatypes,
// literal keywords) to their (category, type) pair.
package token

import "github.com/nrednav/breadc/internal/diag"

// Category is the coarse classification of a token.
type Category int

const (
	Service Category = iota
	Literal
	Operator
	Keyword
	Paren
	Delimiter
	Datatype
	Modifier
)

func (c Category) String() string {
	switch c {
	case Service:
		return "SERVICE"
	case Literal:
		return "LITERAL"
	case Operator:
		return "OPERATOR"
	case Keyword:
		return "KEYWORD"
	case Paren:
		return "PAREN"
	case Delimiter:
		return "DELIMITER"
	case Datatype:
		return "DATATYPE"
	case Modifier:
		return "MODIFIER"
	default:
		return "UNKNOWN"
	}
}

// Type is the fine-grained subtype within a Category. Values are only
// meaningful relative to their Category (e.g. Type(PLUS) under Operator
// differs in meaning from the same int value under Keyword).
type Type int

// Service subtypes.
const (
	ILLEGAL Type = iota
	EOF
	COMMENT
)

// Operator subtypes.
const (
	PLUS Type = iota
	MINUS
	ASTERISK
	SLASH
	PERCENT

	ASSIGN
	ADD_ASSIGN
	SUB_ASSIGN
	MUL_ASSIGN
	DIV_ASSIGN
	MOD_ASSIGN

	EQ
	NEQ
	LANGLE
	RANGLE
	LTE
	GTE

	AND
	OR
	NOT

	INCREM
	DECREM

	DOT
	COMMA
	COLON
	SEMICOLON
	QUESTION
	RANGE
	ARROW
)

// Keyword subtypes.
const (
	IF Type = iota
	ELIF
	ELSE
	FOR
	WHILE
	FUNC
	STRUCT
	ENUM
	MATCH
	CASE
	DEFAULT
	RETURN
	BREAK
	CONTINUE

	TRAIT
	IMPL
	SELF
	IMPORT
	MODULE
	TYPE
	TRY
	CATCH
	FINALLY

	NAMEOF
	TYPEOF

	// Draft keywords: accepted syntactically (SPEC_FULL.md §11), no
	// semantics beyond producing an ast.Stub node.
	ASYNC
	AWAIT
	YIELD
	TEST
	ASSERT
	VERIFY
	WHERE
	SOLVE
	SNAPSHOT
	ROLLBACK
	COMMIT
	FORK
	MERGE
	REVERT
	PUSH
	PULL
	CLONE
	SIMULATE
	SCENARIOS
	CHOOSE
)

// Paren subtypes.
const (
	LPAREN Type = iota
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
)

// Delimiter subtypes.
const (
	DQUOTE Type = iota
	SQUOTE
)

// Datatype subtypes.
const (
	DT_INT Type = iota
	DT_UINT
	DT_SHORT
	DT_USHORT
	DT_LONG
	DT_ULONG
	DT_CHAR
	DT_FLOAT
	DT_DECIMAL
	DT_STR
	DT_BOOL
	DT_VOID
	DT_ANY
)

// Literal subtypes.
const (
	LIT_NULL Type = iota
	LIT_IDENT
	LIT_NUMBER
	LIT_CHAR
	LIT_STRING
	LIT_TRUE
	LIT_FALSE
	LIT_FLOAT
	LIT_INFINITY
	LIT_HEX
	LIT_BIN
)

// Modifier subtypes.
const (
	MOD_VAR Type = iota
	MOD_CONST
	MOD_FINAL
	MOD_STATIC
	MOD_EXTERN
	MOD_PRIVATE
	MOD_PUBLIC
)

// Token is one lexeme with its classification, raw literal text, and
// source location.
type Token struct {
	Category Category
	Type     Type
	Literal  []byte
	Loc      diag.Location
}

func (t Token) String() string { return string(t.Literal) }

// entry is a recognizer table row.
type entry struct {
	category Category
	typ      Type
}

// table maps exact lexeme text to its (category, type). Built once at
// package init and never mutated afterward, mirroring the teacher's
// initUniverse() one-time-table-construction pattern.
var table map[string]entry

func reg(lexeme string, cat Category, typ Type) {
	table[lexeme] = entry{cat, typ}
}

func init() {
	table = make(map[string]entry, 128)

	// Keywords.
	reg("if", Keyword, IF)
	reg("elif", Keyword, ELIF)
	reg("else", Keyword, ELSE)
	reg("for", Keyword, FOR)
	reg("while", Keyword, WHILE)
	reg("func", Keyword, FUNC)
	reg("struct", Keyword, STRUCT)
	reg("enum", Keyword, ENUM)
	reg("match", Keyword, MATCH)
	reg("case", Keyword, CASE)
	reg("default", Keyword, DEFAULT)
	reg("return", Keyword, RETURN)
	reg("break", Keyword, BREAK)
	reg("continue", Keyword, CONTINUE)
	reg("trait", Keyword, TRAIT)
	reg("impl", Keyword, IMPL)
	reg("self", Keyword, SELF)
	reg("import", Keyword, IMPORT)
	reg("module", Keyword, MODULE)
	reg("type", Keyword, TYPE)
	reg("try", Keyword, TRY)
	reg("catch", Keyword, CATCH)
	reg("finally", Keyword, FINALLY)
	reg("nameof", Keyword, NAMEOF)
	reg("typeof", Keyword, TYPEOF)

	reg("async", Keyword, ASYNC)
	reg("await", Keyword, AWAIT)
	reg("yield", Keyword, YIELD)
	reg("test", Keyword, TEST)
	reg("assert", Keyword, ASSERT)
	reg("verify", Keyword, VERIFY)
	reg("where", Keyword, WHERE)
	reg("solve", Keyword, SOLVE)
	reg("snapshot", Keyword, SNAPSHOT)
	reg("rollback", Keyword, ROLLBACK)
	reg("commit", Keyword, COMMIT)
	reg("fork", Keyword, FORK)
	reg("merge", Keyword, MERGE)
	reg("revert", Keyword, REVERT)
	reg("push", Keyword, PUSH)
	reg("pull", Keyword, PULL)
	reg("clone", Keyword, CLONE)
	reg("simulate", Keyword, SIMULATE)
	reg("scenarios", Keyword, SCENARIOS)
	reg("choose", Keyword, CHOOSE)

	// Modifiers.
	reg("var", Modifier, MOD_VAR)
	reg("const", Modifier, MOD_CONST)
	reg("final", Modifier, MOD_FINAL)
	reg("static", Modifier, MOD_STATIC)
	reg("extern", Modifier, MOD_EXTERN)
	reg("private", Modifier, MOD_PRIVATE)
	reg("public", Modifier, MOD_PUBLIC)

	// Datatypes.
	reg("int", Datatype, DT_INT)
	reg("uint", Datatype, DT_UINT)
	reg("short", Datatype, DT_SHORT)
	reg("ushort", Datatype, DT_USHORT)
	reg("long", Datatype, DT_LONG)
	reg("ulong", Datatype, DT_ULONG)
	reg("char", Datatype, DT_CHAR)
	reg("float", Datatype, DT_FLOAT)
	reg("decimal", Datatype, DT_DECIMAL)
	reg("str", Datatype, DT_STR)
	reg("bool", Datatype, DT_BOOL)
	reg("void", Datatype, DT_VOID)
	reg("any", Datatype, DT_ANY)

	// Literal keywords.
	reg("true", Literal, LIT_TRUE)
	reg("false", Literal, LIT_FALSE)
	reg("null", Literal, LIT_NULL)
	reg("infinity", Literal, LIT_INFINITY)

	// Two-character operators. Single-character operators are produced
	// directly by the lexer when no two-character match is found, so they
	// do not need table entries (the lexer's singleCharOps table holds the
	// mapping from byte to Type for the single-char case).
	reg("++", Operator, INCREM)
	reg("--", Operator, DECREM)
	reg("==", Operator, EQ)
	reg("!=", Operator, NEQ)
	reg("+=", Operator, ADD_ASSIGN)
	reg("-=", Operator, SUB_ASSIGN)
	reg("*=", Operator, MUL_ASSIGN)
	reg("/=", Operator, DIV_ASSIGN)
	reg("%=", Operator, MOD_ASSIGN)
	reg("&&", Operator, AND)
	reg("||", Operator, OR)
	reg("<=", Operator, LTE)
	reg(">=", Operator, GTE)
	reg("..", Operator, RANGE)
	reg("->", Operator, ARROW)
}

// Find looks up an exact lexeme in the recognizer table. ok is false for
// lexemes not present (identifiers, numbers, punctuation resolved
// elsewhere by the lexer).
func Find(lexeme string) (cat Category, typ Type, ok bool) {
	e, found := table[lexeme]
	if !found {
		return 0, 0, false
	}
	return e.category, e.typ, true
}

// Entries returns every (lexeme, category, type) row in the recognizer
// table, for exhaustive round-trip testing (spec.md P3).
func Entries() map[string][2]int {
	out := make(map[string][2]int, len(table))
	for lexeme, e := range table {
		out[lexeme] = [2]int{int(e.category), int(e.typ)}
	}
	return out
}

// IsTwoCharOperator reports whether s names one of the two-character
// operator lexemes in the recognizer table. The lexer's longest-match
// attempt checks its own twoCharCandidates list rather than calling this.
func IsTwoCharOperator(s string) bool {
	e, ok := table[s]
	return ok && e.category == Operator
}
