package parser

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/token"
)

// parseIf handles `if (cond) block (elif (cond) block)* (else block)?`.
// The elif chain is stored as KIf nodes in Items; a trailing else (if
// any) is Else.
func (p *Parser) parseIf() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'if'
	n := p.pool.New(ast.KIf, loc, 0)
	n.Cond = p.parseParenExpr()
	n.Then = p.blockOrStmt()

	for p.cur.Category == token.Keyword && p.cur.Type == token.ELIF {
		elifLoc := p.cur.Loc
		p.advance()
		elif := p.pool.New(ast.KIf, elifLoc, 0)
		elif.Cond = p.parseParenExpr()
		elif.Then = p.blockOrStmt()
		n.Items = append(n.Items, elif)
	}
	if p.cur.Category == token.Keyword && p.cur.Type == token.ELSE {
		p.advance()
		n.Else = p.blockOrStmt()
	}
	return n
}

func (p *Parser) parseParenExpr() *ast.Node {
	p.expect(token.Paren, token.LPAREN, diag.ExpectedParen)
	expr := p.parseExpression(0)
	p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)
	return expr
}

func (p *Parser) parseWhile() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'while'
	n := p.pool.New(ast.KWhile, loc, 0)
	n.Cond = p.parseParenExpr()
	n.Body = p.blockOrStmt()
	return n
}

// parseFor handles `for (init?; cond?; update?) block`. Any of the three
// clauses may be empty while the separating semicolons remain required.
func (p *Parser) parseFor() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'for'
	n := p.pool.New(ast.KFor, loc, 0)
	p.expect(token.Paren, token.LPAREN, diag.ExpectedParen)

	if !p.curIs(token.Operator, token.SEMICOLON) {
		if p.cur.Category == token.Modifier {
			n.ForInit = p.parseVarDecl()
		} else {
			n.ForInit = p.parseExpression(0)
			if p.curIs(token.Operator, token.SEMICOLON) {
				p.advance()
			}
		}
	} else {
		p.advance()
	}

	if !p.curIs(token.Operator, token.SEMICOLON) {
		n.Cond = p.parseExpression(0)
	}
	p.expect(token.Operator, token.SEMICOLON, diag.ExpectedDelimiter)

	if !p.curIs(token.Paren, token.RPAREN) {
		n.ForUpdate = p.parseExpression(0)
	}
	p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)

	n.Body = p.blockOrStmt()
	return n
}

// parseMatch handles `match expr { case expr -> stmt ... default -> stmt }`.
func (p *Parser) parseMatch() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'match'
	n := p.pool.New(ast.KMatch, loc, 0)
	n.Cond = p.parseExpression(0)
	p.expect(token.Paren, token.LBRACE, diag.ExpectedParen)
	for !p.curIs(token.Paren, token.RBRACE) && !p.atEOF() {
		if p.cur.Category != token.Keyword || (p.cur.Type != token.CASE && p.cur.Type != token.DEFAULT) {
			p.report(diag.ExpectedKeyword, max(1, len(p.cur.Literal)))
			p.advance()
			continue
		}
		caseLoc := p.cur.Loc
		isDefault := p.cur.Type == token.DEFAULT
		p.advance()
		c := p.pool.New(ast.KCase, caseLoc, 0)
		if !isDefault {
			c.Cond = p.parseExpression(0)
		}
		p.expect(token.Operator, token.ARROW, diag.ExpectedOperator)
		c.Body = p.blockOrStmt()
		n.Items = append(n.Items, c)
	}
	p.expect(token.Paren, token.RBRACE, diag.ExpectedParen)
	return n
}

// parseTryCatch handles `try block catch (name)? block (finally block)?`.
func (p *Parser) parseTryCatch() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'try'
	n := p.pool.New(ast.KTryCatch, loc, 0)
	n.Body = p.parseBlock()
	if p.cur.Category == token.Keyword && p.cur.Type == token.CATCH {
		p.advance()
		if p.curIs(token.Paren, token.LPAREN) {
			p.advance()
			if p.curIs(token.Literal, token.LIT_IDENT) {
				n.CatchName = string(p.cur.Literal)
				p.advance()
			}
			p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)
		}
		n.Else = p.parseBlock()
	}
	if p.cur.Category == token.Keyword && p.cur.Type == token.FINALLY {
		p.advance()
		n.Right = p.parseBlock()
	}
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'return'
	n := p.pool.New(ast.KReturn, loc, 0)
	if !p.curIs(token.Operator, token.SEMICOLON) && !p.curIs(token.Paren, token.RBRACE) && !p.atEOF() {
		n.Left = p.parseExpression(0)
	}
	if p.curIs(token.Operator, token.SEMICOLON) {
		p.advance()
	}
	return n
}

func (p *Parser) parseBreak() *ast.Node {
	loc := p.cur.Loc
	p.advance()
	n := p.pool.New(ast.KBreak, loc, 0)
	if p.curIs(token.Operator, token.SEMICOLON) {
		p.advance()
	}
	return n
}

func (p *Parser) parseContinue() *ast.Node {
	loc := p.cur.Loc
	p.advance()
	n := p.pool.New(ast.KContinue, loc, 0)
	if p.curIs(token.Operator, token.SEMICOLON) {
		p.advance()
	}
	return n
}
