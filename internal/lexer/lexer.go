// Package lexer converts a source byte buffer into a stream of tokens,
// one token per call, with full line/column tracking and error recovery:
// the lexer never aborts, it emits the best-guess token and reports a
// diagnostic when it can't make sense of the input.
package lexer

import (
	"strings"

	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/strpool"
	"github.com/nrednav/breadc/internal/token"
)

// Lexer holds all scanning state for one source buffer.
type Lexer struct {
	input       []byte
	pos         int
	ch          byte // current byte, 0 at EOF
	line        int
	column      int
	parenBal    int
	pool        *strpool.Pool
	reports     *diag.Table
	lineStarts  []int // byte offset of the start of each line, for snippets
}

// New creates a Lexer over input. pool interns every identifier/literal
// text the lexer returns; reports receives every diagnostic the lexer
// raises along the way.
func New(input []byte, pool *strpool.Pool, reports *diag.Table) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		column:  1,
		pool:    pool,
		reports: reports,
	}
	l.lineStarts = []int{0}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

func (l *Lexer) loc() diag.Location {
	return diag.Location{Line: l.line, Column: l.column}
}

// snippetForLine returns the full text of the given 1-based source line.
func (l *Lexer) snippetForLine(line int) string {
	if line-1 >= len(l.lineStarts) {
		return ""
	}
	start := l.lineStarts[line-1]
	end := start
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	return string(l.input[start:end])
}

func (l *Lexer) report(sev diag.Severity, code diag.Code, loc diag.Location, length int) {
	l.reports.Report(sev, code, loc, length, l.snippetForLine(loc.Line))
}

// advance moves to the next byte, updating line/column and recording
// line-start offsets as it crosses newlines.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos++
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
		l.lineStarts = append(l.lineStarts, l.pos+1)
	} else {
		l.column++
	}
	l.pos++
	if l.pos < len(l.input) {
		l.ch = l.input[l.pos]
	} else {
		l.ch = 0
	}
}

func (l *Lexer) peek() byte {
	if l.pos+1 < len(l.input) {
		return l.input[l.pos+1]
	}
	return 0
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }
func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch != 0 && isSpace(l.ch) {
			l.advance()
		}
		if l.ch == '#' {
			for l.ch != 0 && l.ch != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

func mk(cat token.Category, typ token.Type, lit []byte, loc diag.Location) token.Token {
	return token.Token{Category: cat, Type: typ, Literal: lit, Loc: loc}
}

var twoCharCandidates = []string{
	"++", "--", "==", "!=", "+=", "-=", "*=", "/=", "%=",
	"&&", "||", "<=", ">=", "..", "->",
}

var singleCharOps = map[byte]token.Type{
	'+': token.PLUS, '-': token.MINUS, '*': token.ASTERISK, '/': token.SLASH,
	'%': token.PERCENT, '=': token.ASSIGN, '!': token.NOT, '<': token.LANGLE,
	'>': token.RANGLE, '&': token.AND, '|': token.OR,
	'.': token.DOT, ',': token.COMMA, ':': token.COLON, ';': token.SEMICOLON,
	'?': token.QUESTION,
}

var openParens = map[byte]token.Type{'(': token.LPAREN, '{': token.LBRACE, '[': token.LBRACKET}
var closeParens = map[byte]token.Type{')': token.RPAREN, '}': token.RBRACE, ']': token.RBRACKET}

// Next scans and returns the next token. Callers should stop once a
// token with Category Service and Type EOF is returned.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	loc := l.loc()

	switch {
	case l.ch == 0:
		return l.lexEOF(loc)
	case isOperatorStart(l.ch):
		return l.lexOperator(loc)
	case l.ch == '(' || l.ch == '{' || l.ch == '[':
		typ := openParens[l.ch]
		lit := []byte{l.ch}
		l.advance()
		l.parenBal++
		return mk(token.Paren, typ, lit, loc)
	case l.ch == ')' || l.ch == '}' || l.ch == ']':
		typ := closeParens[l.ch]
		lit := []byte{l.ch}
		if l.parenBal == 0 {
			l.report(diag.Error, diag.UnmatchedParen, loc, 1)
		} else {
			l.parenBal--
		}
		l.advance()
		return mk(token.Paren, typ, lit, loc)
	case l.ch == '"' || l.ch == '\'':
		return l.lexString(loc)
	case isAlpha(l.ch):
		return l.lexIdentOrKeyword(loc)
	case isDigit(l.ch):
		return l.lexNumber(loc)
	default:
		return l.lexIllegalRun(loc)
	}
}

func isOperatorStart(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '.', ',', ':', ';', '?':
		return true
	}
	return false
}

func (l *Lexer) lexEOF(loc diag.Location) token.Token {
	if l.parenBal != 0 {
		l.report(diag.Error, diag.UnmatchedParen, loc, 1)
	}
	return mk(token.Service, token.EOF, nil, loc)
}

func (l *Lexer) lexOperator(loc diag.Location) token.Token {
	// Longest-match against the two-character operator set.
	if l.pos+1 < len(l.input) {
		two := string([]byte{l.ch, l.peek()})
		for _, cand := range twoCharCandidates {
			if cand == two {
				cat, typ, _ := token.Find(two)
				l.advance()
				l.advance()
				return mk(cat, typ, []byte(two), loc)
			}
		}
	}
	typ, ok := singleCharOps[l.ch]
	lit := []byte{l.ch}
	l.advance()
	if !ok {
		l.report(diag.Error, diag.IllegalCharacter, loc, 1)
		return mk(token.Service, token.ILLEGAL, lit, loc)
	}
	return mk(token.Operator, typ, lit, loc)
}

var escapeMap = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', '"': '"', '\\': '\\', '\'': '\'', '0': 0,
}

func (l *Lexer) lexString(loc diag.Location) token.Token {
	quote := l.ch
	l.advance() // consume opening quote
	var buf strings.Builder

	for {
		if l.ch == 0 {
			l.report(diag.Error, diag.UnclosedString, l.loc(), 1)
			return mk(token.Service, token.ILLEGAL, []byte(buf.String()), loc)
		}
		if l.ch == quote {
			l.advance()
			break
		}
		if l.ch == '\\' {
			escLoc := l.loc()
			l.advance()
			if l.ch == 0 {
				l.report(diag.Error, diag.UnclosedString, l.loc(), 1)
				return mk(token.Service, token.ILLEGAL, []byte(buf.String()), loc)
			}
			if replacement, ok := escapeMap[l.ch]; ok {
				buf.WriteByte(replacement)
			} else {
				l.report(diag.Warning, diag.InvalidEscapeSequence, escLoc, 2)
				buf.WriteByte(l.ch)
			}
			l.advance()
			continue
		}
		buf.WriteByte(l.ch)
		l.advance()
	}

	typ := token.LIT_STRING
	if quote == '\'' {
		typ = token.LIT_CHAR
	}
	handle := l.pool.InternString(buf.String())
	return mk(token.Literal, typ, handle.Bytes(), loc)
}

func (l *Lexer) lexIdentOrKeyword(loc diag.Location) token.Token {
	start := l.pos
	for isAlnum(l.ch) {
		l.advance()
	}
	text := string(l.input[start:l.pos])

	if cat, typ, ok := token.Find(text); ok {
		return mk(cat, typ, []byte(text), loc)
	}
	handle := l.pool.InternString(text)
	return mk(token.Literal, token.LIT_IDENT, handle.Bytes(), loc)
}

func (l *Lexer) lexNumber(loc diag.Location) token.Token {
	start := l.pos

	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		l.advance()
		for isHex(l.ch) {
			l.advance()
		}
		return l.finishNumber(start, loc, token.LIT_HEX)
	}
	if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.advance()
		l.advance()
		for l.ch == '0' || l.ch == '1' {
			l.advance()
		}
		return l.finishNumber(start, loc, token.LIT_BIN)
	}

	isFloat := false
	for isDigit(l.ch) {
		l.advance()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		isFloat = true
		l.advance()
		for isDigit(l.ch) {
			l.advance()
		}
	}
	typ := token.LIT_NUMBER
	if isFloat {
		typ = token.LIT_FLOAT
	}
	return l.finishNumber(start, loc, typ)
}

func (l *Lexer) finishNumber(start int, loc diag.Location, typ token.Type) token.Token {
	if isAlpha(l.ch) {
		// Trailing letter/underscore on a numeric literal: consume the
		// run and report invalid literal.
		for isAlnum(l.ch) {
			l.advance()
		}
		text := l.input[start:l.pos]
		l.report(diag.Error, diag.InvalidLiteral, loc, len(text))
		return mk(token.Service, token.ILLEGAL, text, loc)
	}
	text := l.input[start:l.pos]
	handle := l.pool.Intern(text)
	return mk(token.Literal, typ, handle.Bytes(), loc)
}

func (l *Lexer) lexIllegalRun(loc diag.Location) token.Token {
	start := l.pos
	for l.ch != 0 && !isAlnum(l.ch) && !isSpace(l.ch) &&
		l.ch != '"' && l.ch != '\'' &&
		l.ch != '(' && l.ch != ')' && l.ch != '{' && l.ch != '}' &&
		l.ch != '[' && l.ch != ']' && !isOperatorStart(l.ch) {
		l.advance()
	}
	if l.pos == start {
		// Guarantee progress even on a byte the loop condition rejects
		// outright (shouldn't happen given the dispatch in Next, but
		// never spin).
		l.advance()
	}
	text := l.input[start:l.pos]
	l.report(diag.Error, diag.IllegalCharacter, loc, len(text))
	return mk(token.Service, token.ILLEGAL, text, loc)
}

// ParenBalance exposes the current paren-nesting counter, used by tests
// asserting P4 (paren balance).
func (l *Lexer) ParenBalance() int { return l.parenBal }
