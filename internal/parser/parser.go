// Package parser builds a typed AST from a token stream: recursive
// descent at the statement level, Pratt precedence climbing at the
// expression level, with a single token of lookahead.
package parser

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/lexer"
	"github.com/nrednav/breadc/internal/strpool"
	"github.com/nrednav/breadc/internal/token"
)

// Parser holds all parsing state: the lexer, one token of lookahead, the
// AST arena nodes are allocated from, and the diagnostic sink.
type Parser struct {
	lex     *lexer.Lexer
	cur     token.Token
	next    token.Token
	pool    *ast.Pool
	strings *strpool.Pool
	reports *diag.Table
}

// New constructs a Parser over lex, allocating nodes from pool and
// interning via strings. Priming reads the first two tokens.
func New(lex *lexer.Lexer, pool *ast.Pool, strings *strpool.Pool, reports *diag.Table) *Parser {
	p := &Parser{lex: lex, pool: pool, strings: strings, reports: reports}
	p.cur = lex.Next()
	p.next = lex.Next()
	return p
}

func (p *Parser) advance() {
	p.cur = p.next
	p.next = p.lex.Next()
}

func (p *Parser) atEOF() bool {
	return p.cur.Category == token.Service && p.cur.Type == token.EOF
}

func (p *Parser) curIs(cat token.Category, typ token.Type) bool {
	return p.cur.Category == cat && p.cur.Type == typ
}

func (p *Parser) report(code diag.Code, length int) {
	sev := diag.Error
	loc := p.cur.Loc
	var snippet string
	// The lexer owns line snippets; the parser re-derives the current
	// line's text is not available here without re-reading the source,
	// so it reports the literal token text as the snippet when nothing
	// better is available. Full line snippets for lexer-phase errors are
	// already captured by internal/lexer; parser diagnostics commonly
	// point at a specific token, so the token text suffices to locate it
	// without duplicating the lexer's line-tracking state.
	snippet = string(p.cur.Literal)
	p.reports.Report(sev, code, loc, length, snippet)
}

// expect consumes cur if it matches (cat, typ); otherwise reports code
// and leaves cur in place (callers decide whether to recover).
func (p *Parser) expect(cat token.Category, typ token.Type, code diag.Code) bool {
	if p.curIs(cat, typ) {
		p.advance()
		return true
	}
	p.report(code, max(1, len(p.cur.Literal)))
	return false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ParseProgram parses a sequence of top-level statements until EOF,
// returning a root Block node.
func (p *Parser) ParseProgram() *ast.Node {
	root := p.pool.New(ast.KBlock, p.cur.Loc, 0)
	for !p.atEOF() {
		if p.curIs(token.Operator, token.SEMICOLON) {
			p.advance()
			continue
		}
		before := p.cur
		stmt := p.parseStatement()
		if stmt != nil {
			root.Items = append(root.Items, stmt)
		}
		p.ensureProgress(before)
	}
	return root
}

// ensureProgress guarantees the parser never spins on a token it could
// not consume: if cur is unchanged from before a failed parse attempt,
// force one token of progress.
func (p *Parser) ensureProgress(before token.Token) {
	if p.cur.Loc == before.Loc && p.cur.Type == before.Type && p.cur.Category == before.Category && !p.atEOF() {
		p.advance()
	}
}

var stmtDispatch map[token.Type]func(*Parser) *ast.Node

func init() {
	stmtDispatch = map[token.Type]func(*Parser) *ast.Node{
		token.IF:       (*Parser).parseIf,
		token.WHILE:    (*Parser).parseWhile,
		token.FOR:      (*Parser).parseFor,
		token.FUNC:     (*Parser).parseFunc,
		token.STRUCT:   (*Parser).parseStruct,
		token.ENUM:     (*Parser).parseEnum,
		token.MATCH:    (*Parser).parseMatch,
		token.IMPL:     (*Parser).parseImpl,
		token.TRY:      (*Parser).parseTryCatch,
		token.IMPORT:   (*Parser).parseImport,
		token.RETURN:   (*Parser).parseReturn,
		token.BREAK:    (*Parser).parseBreak,
		token.CONTINUE: (*Parser).parseContinue,
		token.MODULE:   (*Parser).parseModule,
		token.TYPE:     (*Parser).parseType,
		token.NAMEOF:   (*Parser).parseNameOf,
		token.TYPEOF:   (*Parser).parseTypeOf,
		token.TRAIT:    (*Parser).parseTrait,
	}
}

var draftKeywords = map[token.Type]bool{
	token.ASYNC: true, token.AWAIT: true, token.YIELD: true, token.TEST: true,
	token.ASSERT: true, token.VERIFY: true, token.WHERE: true, token.SOLVE: true,
	token.SNAPSHOT: true, token.ROLLBACK: true, token.COMMIT: true, token.FORK: true,
	token.MERGE: true, token.REVERT: true, token.PUSH: true, token.PULL: true,
	token.CLONE: true, token.SIMULATE: true, token.SCENARIOS: true, token.CHOOSE: true,
}

// parseStatement dispatches on the current token: a semicolon alone is
// skipped by the caller, a keyword dispatches through stmtDispatch, a
// left-brace opens a block, a draft keyword becomes an ast.Stub, and
// anything else is an expression statement.
func (p *Parser) parseStatement() *ast.Node {
	if p.cur.Category == token.Modifier {
		return p.parseVarDecl()
	}
	if p.cur.Category == token.Keyword {
		if fn, ok := stmtDispatch[p.cur.Type]; ok {
			return fn(p)
		}
		if draftKeywords[p.cur.Type] {
			return p.parseStub()
		}
	}
	if p.curIs(token.Paren, token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseExprStatement()
}

// parseBlock skips '{', repeatedly parses statements until '}'. On EOF
// before '}' it reports expected-paren.
func (p *Parser) parseBlock() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume '{'
	blk := p.pool.New(ast.KBlock, loc, 0)
	for !p.curIs(token.Paren, token.RBRACE) && !p.atEOF() {
		if p.curIs(token.Operator, token.SEMICOLON) {
			p.advance()
			continue
		}
		before := p.cur
		stmt := p.parseStatement()
		if stmt != nil {
			blk.Items = append(blk.Items, stmt)
		}
		p.ensureProgress(before)
	}
	if !p.expect(token.Paren, token.RBRACE, diag.ExpectedParen) {
		return blk
	}
	return blk
}

// blockOrStmt parses a brace-delimited block if present, otherwise a
// single statement — the `(block|stmt)` alternative used throughout
// control-flow grammar (spec.md §4.5.4).
func (p *Parser) blockOrStmt() *ast.Node {
	if p.curIs(token.Paren, token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseStatement()
}

func (p *Parser) parseStub() *ast.Node {
	loc := p.cur.Loc
	kw := string(p.cur.Literal)
	p.advance()
	n := p.pool.New(ast.KStub, loc, 0)
	n.Keyword = kw
	if p.curIs(token.Paren, token.LBRACE) {
		n.Body = p.parseBlock()
	} else if !p.curIs(token.Operator, token.SEMICOLON) && !p.atEOF() {
		n.Body = p.parseExprStatement()
	}
	return n
}

func (p *Parser) parseExprStatement() *ast.Node {
	expr := p.parseExpression(0)
	if p.curIs(token.Operator, token.SEMICOLON) {
		p.advance()
	}
	return expr
}
