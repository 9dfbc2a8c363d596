package parser

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/token"
)

// precedence implements the Pratt climbing table from spec.md §4.5.1.
// Higher binds tighter. Member access and indexing sit above postfix
// increment since `a.b++` increments the field, not `a`. Type values are
// only meaningful together with their Category (token.Type is a bare
// int reused per category), so this always switches on the pair.
func precedence(cat token.Category, typ token.Type) int {
	if cat == token.Paren && typ == token.LBRACKET {
		return 16
	}
	if cat != token.Operator {
		return 0
	}
	switch typ {
	case token.DOT:
		return 16
	case token.INCREM, token.DECREM:
		return 15
	case token.ASTERISK, token.SLASH, token.PERCENT:
		return 13
	case token.PLUS, token.MINUS:
		return 12
	case token.LANGLE, token.RANGLE, token.LTE, token.GTE:
		return 10
	case token.EQ, token.NEQ:
		return 9
	case token.AND:
		return 5
	case token.OR:
		return 4
	case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN,
		token.DIV_ASSIGN, token.MOD_ASSIGN:
		return 2
	case token.COMMA:
		return 1
	default:
		return 0
	}
}

func isRightAssoc(typ token.Type) bool {
	switch typ {
	case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN,
		token.DIV_ASSIGN, token.MOD_ASSIGN:
		return true
	default:
		return false
	}
}

var assignOps = map[token.Type]bool{
	token.ASSIGN: true, token.ADD_ASSIGN: true, token.SUB_ASSIGN: true,
	token.MUL_ASSIGN: true, token.DIV_ASSIGN: true, token.MOD_ASSIGN: true,
}

var opText = map[token.Type]string{
	token.PLUS: "+", token.MINUS: "-", token.ASTERISK: "*", token.SLASH: "/",
	token.PERCENT: "%", token.ASSIGN: "=", token.ADD_ASSIGN: "+=",
	token.SUB_ASSIGN: "-=", token.MUL_ASSIGN: "*=", token.DIV_ASSIGN: "/=",
	token.MOD_ASSIGN: "%=", token.EQ: "==", token.NEQ: "!=",
	token.LANGLE: "<", token.RANGLE: ">", token.LTE: "<=", token.GTE: ">=",
	token.AND: "&&", token.OR: "||", token.NOT: "!",
	token.INCREM: "++", token.DECREM: "--",
}

// parseExpression climbs the precedence table starting from a parsed
// prefix/primary, folding in binary and assignment operators whose
// precedence is >= minPrec.
func (p *Parser) parseExpression(minPrec int) *ast.Node {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec := precedence(p.cur.Category, p.cur.Type)
		if prec == 0 || prec < minPrec {
			break
		}
		if p.curIs(token.Operator, token.DOT) {
			left = p.parseMember(left)
			continue
		}
		if p.curIs(token.Paren, token.LBRACKET) {
			left = p.parseIndex(left)
			continue
		}
		if p.curIs(token.Operator, token.INCREM) || p.curIs(token.Operator, token.DECREM) {
			op := opText[p.cur.Type]
			loc := p.cur.Loc
			p.advance()
			n := p.pool.New(ast.KUnaryOp, loc, 0)
			n.Op = op
			n.IsPostfix = true
			n.Left = left
			left = n
			continue
		}

		opType := p.cur.Type
		opLoc := p.cur.Loc
		op := opText[opType]
		nextMin := prec + 1
		if isRightAssoc(opType) {
			nextMin = prec
		}
		p.advance()
		right := p.parseExpression(nextMin)
		if assignOps[opType] {
			n := p.pool.New(ast.KAssign, opLoc, 0)
			n.Op = op
			n.Left = left
			n.Right = right
			left = n
		} else {
			n := p.pool.New(ast.KBinOp, opLoc, 0)
			n.Op = op
			n.Left = left
			n.Right = right
			left = n
		}
	}
	return left
}

func (p *Parser) parseMember(left *ast.Node) *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume '.'
	if !p.curIs(token.Literal, token.LIT_IDENT) {
		p.report(diag.ExpectedIdentifier, 1)
		return left
	}
	field := string(p.cur.Literal)
	p.advance()
	n := p.pool.New(ast.KBinOp, loc, 0)
	n.Op = "."
	n.Left = left
	right := p.pool.New(ast.KRef, loc, len(field))
	right.Name = field
	n.Right = right
	return n
}

func (p *Parser) parseIndex(left *ast.Node) *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume '['
	idx := p.parseExpression(0)
	p.expect(token.Paren, token.RBRACKET, diag.ExpectedParen)
	n := p.pool.New(ast.KBinOp, loc, 0)
	n.Op = "[]"
	n.Left = left
	n.Right = idx
	return n
}

// parseUnary handles prefix operators (+ - ! ++ --) then falls through
// to a primary expression.
func (p *Parser) parseUnary() *ast.Node {
	switch {
	case p.curIs(token.Operator, token.MINUS), p.curIs(token.Operator, token.PLUS),
		p.curIs(token.Operator, token.NOT), p.curIs(token.Operator, token.INCREM),
		p.curIs(token.Operator, token.DECREM):
		op := opText[p.cur.Type]
		loc := p.cur.Loc
		p.advance()
		operand := p.parseUnary()
		n := p.pool.New(ast.KUnaryOp, loc, 0)
		n.Op = op
		n.Left = operand
		return n
	default:
		return p.parsePrimary()
	}
}

// parsePrimary handles literals, identifiers/calls, parenthesized
// expressions, array literals, nameof/typeof, and self.
func (p *Parser) parsePrimary() *ast.Node {
	tk := p.cur
	switch {
	case tk.Category == token.Literal:
		return p.parseLiteral()
	case tk.Category == token.Paren && tk.Type == token.LPAREN:
		p.advance()
		inner := p.parseExpression(0)
		p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)
		return inner
	case tk.Category == token.Paren && tk.Type == token.LBRACKET:
		return p.parseArrayLiteral()
	case tk.Category == token.Keyword && tk.Type == token.SELF:
		p.advance()
		n := p.pool.New(ast.KRef, tk.Loc, 4)
		n.Name = "self"
		return n
	case tk.Category == token.Keyword && tk.Type == token.NAMEOF:
		return p.parseNameOf()
	case tk.Category == token.Keyword && tk.Type == token.TYPEOF:
		return p.parseTypeOf()
	default:
		p.report(diag.ExpectedExpression, max(1, len(tk.Literal)))
		p.advance()
		return nil
	}
}

func (p *Parser) parseLiteral() *ast.Node {
	tk := p.cur
	loc := tk.Loc
	text := string(tk.Literal)
	switch tk.Type {
	case token.LIT_IDENT:
		p.advance()
		if p.curIs(token.Paren, token.LPAREN) {
			return p.finishCall(text, loc)
		}
		n := p.pool.New(ast.KRef, loc, len(text))
		n.Name = text
		return n
	case token.LIT_NUMBER:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitNumber
		n.Text = text
		return n
	case token.LIT_FLOAT:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitFloat
		n.Text = text
		return n
	case token.LIT_HEX:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitHex
		n.Text = text
		return n
	case token.LIT_BIN:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitBin
		n.Text = text
		return n
	case token.LIT_STRING:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitString
		n.Text = text
		return n
	case token.LIT_CHAR:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitChar
		n.Text = text
		return n
	case token.LIT_TRUE:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitTrue
		return n
	case token.LIT_FALSE:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitFalse
		return n
	case token.LIT_NULL:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitNull
		return n
	case token.LIT_INFINITY:
		p.advance()
		n := p.pool.New(ast.KLiteral, loc, len(text))
		n.LitKind = ast.LitInfinity
		return n
	default:
		p.report(diag.ExpectedExpression, max(1, len(text)))
		p.advance()
		return nil
	}
}

func (p *Parser) finishCall(name string, loc diag.Location) *ast.Node {
	n := p.pool.New(ast.KCall, loc, len(name))
	n.Name = name
	p.advance() // consume '('
	for !p.curIs(token.Paren, token.RPAREN) && !p.atEOF() {
		arg := p.parseExpression(precedence(token.Operator, token.COMMA) + 1)
		if arg != nil {
			n.Items = append(n.Items, arg)
		}
		if p.curIs(token.Operator, token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)
	return n
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume '['
	n := p.pool.New(ast.KArray, loc, 0)
	for !p.curIs(token.Paren, token.RBRACKET) && !p.atEOF() {
		elem := p.parseExpression(precedence(token.Operator, token.COMMA) + 1)
		if elem != nil {
			n.Items = append(n.Items, elem)
		}
		if p.curIs(token.Operator, token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Paren, token.RBRACKET, diag.ExpectedParen)
	return n
}

func (p *Parser) parseNameOf() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'nameof'
	p.expect(token.Paren, token.LPAREN, diag.ExpectedParen)
	n := p.pool.New(ast.KNameOf, loc, 0)
	n.Left = p.parseExpression(0)
	p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)
	return n
}

func (p *Parser) parseTypeOf() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'typeof'
	p.expect(token.Paren, token.LPAREN, diag.ExpectedParen)
	n := p.pool.New(ast.KTypeOf, loc, 0)
	n.Left = p.parseExpression(0)
	p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)
	return n
}
