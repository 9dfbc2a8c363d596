package parser

import (
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/token"
)

var modifierKeywords = map[token.Type]bool{
	token.MOD_VAR: true, token.MOD_CONST: true, token.MOD_FINAL: true,
	token.MOD_STATIC: true, token.MOD_EXTERN: true, token.MOD_PRIVATE: true,
	token.MOD_PUBLIC: true,
}

// parseTypeAnnotation reads a type name: a built-in datatype keyword or a
// user-defined identifier, optionally suffixed with `[]` for an array
// type. Returns "" if the current token isn't a type at all.
func (p *Parser) parseTypeAnnotation() string {
	var name string
	switch {
	case p.cur.Category == token.Datatype:
		name = string(p.cur.Literal)
		p.advance()
	case p.curIs(token.Literal, token.LIT_IDENT):
		name = string(p.cur.Literal)
		p.advance()
	default:
		p.report(diag.ExpectedType, max(1, len(p.cur.Literal)))
		return ""
	}
	for p.curIs(token.Paren, token.LBRACKET) {
		p.advance()
		p.expect(token.Paren, token.RBRACKET, diag.ExpectedParen)
		name += "[]"
	}
	return name
}

// parseVarDecl handles `var`/`const`/`final`/etc. name (: type)? (= expr)?;
func (p *Parser) parseVarDecl() *ast.Node {
	loc := p.cur.Loc
	modifier := string(p.cur.Literal)
	p.advance() // consume modifier
	if !p.curIs(token.Literal, token.LIT_IDENT) {
		p.report(diag.ExpectedIdentifier, 1)
		return nil
	}
	name := string(p.cur.Literal)
	p.advance()
	n := p.pool.New(ast.KVar, loc, len(name))
	n.Name = name
	n.Modifier = modifier
	if p.curIs(token.Operator, token.COLON) {
		p.advance()
		n.DeclType = p.parseTypeAnnotation()
	}
	if p.curIs(token.Operator, token.ASSIGN) {
		p.advance()
		n.Left = p.parseExpression(precedence(token.Operator, token.COMMA) + 1)
	}
	if p.curIs(token.Operator, token.SEMICOLON) {
		p.advance()
	}
	if n.DeclType == "" && n.Left == nil {
		p.reports.Report(diag.Error, diag.VariableNoTypeOrInitializer, loc, max(1, len(name)), name)
	}
	return n
}

// parseParamList parses a comma-separated `(name: type, ...)` list.
func (p *Parser) parseParamList() []*ast.Node {
	p.expect(token.Paren, token.LPAREN, diag.ExpectedParen)
	var params []*ast.Node
	for !p.curIs(token.Paren, token.RPAREN) && !p.atEOF() {
		if !p.curIs(token.Literal, token.LIT_IDENT) {
			p.report(diag.ExpectedParam, max(1, len(p.cur.Literal)))
			break
		}
		loc := p.cur.Loc
		name := string(p.cur.Literal)
		p.advance()
		param := p.pool.New(ast.KParam, loc, len(name))
		param.Name = name
		if p.curIs(token.Operator, token.COLON) {
			p.advance()
			param.DeclType = p.parseTypeAnnotation()
		} else {
			p.report(diag.ExpectedType, 1)
		}
		params = append(params, param)
		if p.curIs(token.Operator, token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.Paren, token.RPAREN, diag.ExpectedParen)
	return params
}

func (p *Parser) parseFunc() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'func'
	name := ""
	if p.curIs(token.Literal, token.LIT_IDENT) {
		name = string(p.cur.Literal)
		p.advance()
	} else {
		p.report(diag.ExpectedIdentifier, 1)
	}
	n := p.pool.New(ast.KFunc, loc, len(name))
	n.Name = name
	n.Items = p.parseParamList()
	// An omitted return type leaves DeclType empty; the analyzer resolves
	// that to an unknown type, so such a function's returns are unchecked.
	if p.curIs(token.Operator, token.ARROW) {
		p.advance()
		n.DeclType = p.parseTypeAnnotation()
	}
	n.Body = p.parseBlock()
	return n
}

func (p *Parser) parseStruct() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'struct'
	name := ""
	if p.curIs(token.Literal, token.LIT_IDENT) {
		name = string(p.cur.Literal)
		p.advance()
	} else {
		p.report(diag.ExpectedIdentifier, 1)
	}
	n := p.pool.New(ast.KStruct, loc, len(name))
	n.Name = name
	p.expect(token.Paren, token.LBRACE, diag.ExpectedParen)
	for !p.curIs(token.Paren, token.RBRACE) && !p.atEOF() {
		if !p.curIs(token.Literal, token.LIT_IDENT) {
			p.report(diag.ExpectedIdentifier, 1)
			p.advance()
			continue
		}
		fieldLoc := p.cur.Loc
		fieldName := string(p.cur.Literal)
		p.advance()
		field := p.pool.New(ast.KParam, fieldLoc, len(fieldName))
		field.Name = fieldName
		if p.curIs(token.Operator, token.COLON) {
			p.advance()
			field.DeclType = p.parseTypeAnnotation()
		} else {
			p.report(diag.ExpectedType, 1)
		}
		n.Items = append(n.Items, field)
		if p.curIs(token.Operator, token.COMMA) || p.curIs(token.Operator, token.SEMICOLON) {
			p.advance()
		}
	}
	p.expect(token.Paren, token.RBRACE, diag.ExpectedParen)
	return n
}

func (p *Parser) parseEnum() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'enum'
	name := ""
	if p.curIs(token.Literal, token.LIT_IDENT) {
		name = string(p.cur.Literal)
		p.advance()
	} else {
		p.report(diag.ExpectedIdentifier, 1)
	}
	n := p.pool.New(ast.KEnum, loc, len(name))
	n.Name = name
	p.expect(token.Paren, token.LBRACE, diag.ExpectedParen)
	for !p.curIs(token.Paren, token.RBRACE) && !p.atEOF() {
		if !p.curIs(token.Literal, token.LIT_IDENT) {
			p.report(diag.ExpectedIdentifier, 1)
			p.advance()
			continue
		}
		variantLoc := p.cur.Loc
		variantName := string(p.cur.Literal)
		p.advance()
		variant := p.pool.New(ast.KParam, variantLoc, len(variantName))
		variant.Name = variantName
		if p.curIs(token.Operator, token.ASSIGN) {
			p.advance()
			variant.Left = p.parseExpression(precedence(token.Operator, token.COMMA) + 1)
		}
		n.Items = append(n.Items, variant)
		if p.curIs(token.Operator, token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.Paren, token.RBRACE, diag.ExpectedParen)
	return n
}

func (p *Parser) parseTrait() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'trait'
	name := ""
	if p.curIs(token.Literal, token.LIT_IDENT) {
		name = string(p.cur.Literal)
		p.advance()
	} else {
		p.report(diag.ExpectedIdentifier, 1)
	}
	n := p.pool.New(ast.KTrait, loc, len(name))
	n.Name = name
	n.Body = p.parseBlock()
	return n
}

// parseImpl handles both `impl T { ... }` (inherent methods on T) and
// `impl Trait for Type { ... }` (trait implementation); Target
// distinguishes the two (nil for the former, the implementing type's
// name for the latter).
func (p *Parser) parseImpl() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'impl'
	name := ""
	if p.curIs(token.Literal, token.LIT_IDENT) {
		name = string(p.cur.Literal)
		p.advance()
	} else {
		p.report(diag.ExpectedIdentifier, 1)
	}
	n := p.pool.New(ast.KImpl, loc, len(name))
	n.Name = name
	if p.cur.Category == token.Keyword && p.cur.Type == token.FOR {
		p.advance()
		if p.curIs(token.Literal, token.LIT_IDENT) {
			target := string(p.cur.Literal)
			n.Target = &target
			p.advance()
		} else {
			p.report(diag.ExpectedIdentifier, 1)
		}
	}
	n.Body = p.parseBlock()
	return n
}

func (p *Parser) parseImport() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'import'
	n := p.pool.New(ast.KImport, loc, 0)
	for {
		if !p.curIs(token.Literal, token.LIT_IDENT) {
			p.report(diag.ExpectedIdentifier, 1)
			break
		}
		n.Path = append(n.Path, string(p.cur.Literal))
		p.advance()
		if p.curIs(token.Operator, token.DOT) {
			p.advance()
			continue
		}
		break
	}
	if p.curIs(token.Operator, token.SEMICOLON) {
		p.advance()
	}
	return n
}

func (p *Parser) parseModule() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'module'
	name := ""
	if p.curIs(token.Literal, token.LIT_IDENT) {
		name = string(p.cur.Literal)
		p.advance()
	} else {
		p.report(diag.ExpectedIdentifier, 1)
	}
	n := p.pool.New(ast.KModule, loc, len(name))
	n.Name = name
	n.Body = p.parseBlock()
	return n
}

// parseType handles `type Name block?`, the same shape as parseModule:
// a named declaration with an optional brace-delimited body.
func (p *Parser) parseType() *ast.Node {
	loc := p.cur.Loc
	p.advance() // consume 'type'
	name := ""
	if p.curIs(token.Literal, token.LIT_IDENT) {
		name = string(p.cur.Literal)
		p.advance()
	} else {
		p.report(diag.ExpectedIdentifier, 1)
	}
	n := p.pool.New(ast.KType, loc, len(name))
	n.Name = name
	if p.curIs(token.Paren, token.LBRACE) {
		n.Body = p.parseBlock()
	} else if p.curIs(token.Operator, token.SEMICOLON) {
		p.advance()
	}
	return n
}
