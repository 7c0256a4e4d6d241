package parser

import (
	"github.com/pygram-go/pygram/internal/lexer"
	"github.com/pygram-go/pygram/internal/past"
)

func (p *Parser) parseStatement() past.Stmt {
	switch p.curToken.Type {
	case lexer.KW_DEF:
		return p.parseFunctionDef(false)
	case lexer.KW_ASYNC:
		p.next()
		if p.curIs(lexer.KW_DEF) {
			return p.parseFunctionDef(true)
		}
		if p.curIs(lexer.KW_WITH) {
			return p.parseWith(true)
		}
		if p.curIs(lexer.KW_FOR) {
			return p.parseFor()
		}
		p.errorf("expected def/with/for after async, got %s", p.curToken.Type)
		return nil
	case lexer.KW_CLASS:
		return p.parseClassDef()
	case lexer.KW_IF:
		return p.parseIf()
	case lexer.KW_FOR:
		return p.parseFor()
	case lexer.KW_WHILE:
		return p.parseWhile()
	case lexer.KW_TRY:
		return p.parseTry()
	case lexer.KW_WITH:
		return p.parseWith(false)
	case lexer.KW_MATCH:
		return p.parseMatch()
	case lexer.KW_RETURN:
		return p.parseReturn()
	case lexer.KW_RAISE:
		return p.parseRaise()
	case lexer.KW_ASSERT:
		return p.parseAssert()
	case lexer.KW_PASS:
		n := &past.Pass{}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.KW_BREAK:
		n := &past.Break{}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.KW_CONTINUE:
		n := &past.Continue{}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.KW_GLOBAL:
		return p.parseGlobal()
	case lexer.KW_NONLOCAL:
		return p.parseNonlocal()
	case lexer.KW_DEL:
		return p.parseDelete()
	case lexer.KW_IMPORT, lexer.KW_FROM:
		return p.parseImportLike()
	default:
		return p.parseSimpleStatement()
	}
}

// parseImportLike parses import/from-import statements into Import/
// ImportFrom nodes. Imports never contribute tokens to the sequence
// model themselves (the tokenizer's Visit{Import,ImportFrom} are no-ops)
// but the type preprocessor needs their alias tables to qualify call
// tokens, so the parser keeps the full structure rather than skipping it.
func (p *Parser) parseImportLike() past.Stmt {
	if p.curIs(lexer.KW_IMPORT) {
		return p.parsePlainImport()
	}
	return p.parseFromImport()
}

func (p *Parser) parsePlainImport() past.Stmt {
	tok := p.curToken
	p.next() // consume 'import'
	n := &past.Import{}
	n.Token = tok
	for {
		n.Names = append(n.Names, p.parseImportAlias())
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	return n
}

func (p *Parser) parseFromImport() past.Stmt {
	tok := p.curToken
	p.next() // consume 'from'
	level := 0
	for p.curIs(lexer.DOT) {
		level++
		p.next()
	}
	module := ""
	for p.curIs(lexer.IDENT) {
		module += p.curToken.Lexeme
		p.next()
		if p.curIs(lexer.DOT) {
			module += "."
			p.next()
		}
	}
	p.expect(lexer.KW_IMPORT)
	n := &past.ImportFrom{Module: module, Level: level}
	n.Token = tok
	if p.curIs(lexer.ASTERISK) {
		p.next()
		return n
	}
	wrapped := p.curIs(lexer.LPAREN)
	if wrapped {
		p.next()
		p.skipNewlines()
	}
	for {
		n.Names = append(n.Names, p.parseImportAlias())
		p.skipNewlines()
		if p.curIs(lexer.COMMA) {
			p.next()
			p.skipNewlines()
			continue
		}
		break
	}
	if wrapped {
		p.expect(lexer.RPAREN)
	}
	return n
}

func (p *Parser) parseImportAlias() past.ImportAlias {
	name := p.curToken.Lexeme
	p.expect(lexer.IDENT)
	for p.curIs(lexer.DOT) {
		p.next()
		name += "." + p.curToken.Lexeme
		p.expect(lexer.IDENT)
	}
	alias := past.ImportAlias{Name: name}
	if p.curIs(lexer.KW_AS) {
		p.next()
		alias.AsName = p.curToken.Lexeme
		p.expect(lexer.IDENT)
	}
	return alias
}

func (p *Parser) parseFunctionDef(async bool) past.Stmt {
	tok := p.curToken
	p.next() // consume 'def'
	name := p.curToken.Lexeme
	p.expect(lexer.IDENT)
	p.expect(lexer.LPAREN)
	var args []past.Arg
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.ASTERISK) || p.curIs(lexer.POWER) {
			p.next()
		}
		argName := p.curToken.Lexeme
		p.expect(lexer.IDENT)
		var ann *past.Annotation
		if p.curIs(lexer.COLON) {
			p.next()
			ann = &past.Annotation{Expr: p.parseExpression(lowest)}
		}
		if p.curIs(lexer.ASSIGN) {
			p.next()
			p.parseExpression(lowest) // default value, unused by the sequence model
		}
		args = append(args, past.Arg{Name: argName, Annotation: ann})
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	var returns *past.Annotation
	if p.curIs(lexer.ARROW) {
		p.next()
		returns = &past.Annotation{Expr: p.parseExpression(lowest)}
	}
	body := p.parseBlock()
	n := &past.FunctionDef{Name: name, Args: args, Returns: returns, Body: body, Async: async}
	n.Token = tok
	return n
}

func (p *Parser) parseClassDef() past.Stmt {
	tok := p.curToken
	p.next()
	name := p.curToken.Lexeme
	p.expect(lexer.IDENT)
	var bases []past.Expr
	if p.curIs(lexer.LPAREN) {
		p.next()
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			bases = append(bases, p.parseExpression(lowest))
			if p.curIs(lexer.COMMA) {
				p.next()
			}
		}
		p.expect(lexer.RPAREN)
	}
	body := p.parseBlock()
	n := &past.ClassDef{Name: name, Bases: bases, Body: body}
	n.Token = tok
	return n
}

func (p *Parser) parseIf() past.Stmt {
	tok := p.curToken
	p.next()
	test := p.parseExpression(lowest)
	body := p.parseBlock()
	n := &past.If{Test: test, Body: body}
	n.Token = tok

	if p.curIs(lexer.KW_ELIF) {
		n.Orelse = []past.Stmt{p.parseIf()}
	} else if p.curIs(lexer.KW_ELSE) {
		p.next()
		n.Orelse = p.parseBlock()
	}
	return n
}

func (p *Parser) parseFor() past.Stmt {
	tok := p.curToken
	p.next()
	target := p.parseTargetList()
	p.expect(lexer.KW_IN)
	iter := p.parseExpression(lowest)
	body := p.parseBlock()
	n := &past.For{Target: target, Iter: iter, Body: body}
	n.Token = tok
	if p.curIs(lexer.KW_ELSE) {
		p.next()
		n.Orelse = p.parseBlock()
	}
	return n
}

func (p *Parser) parseWhile() past.Stmt {
	tok := p.curToken
	p.next()
	test := p.parseExpression(lowest)
	body := p.parseBlock()
	n := &past.While{Test: test, Body: body}
	n.Token = tok
	if p.curIs(lexer.KW_ELSE) {
		p.next()
		n.Orelse = p.parseBlock()
	}
	return n
}

func (p *Parser) parseTry() past.Stmt {
	tok := p.curToken
	p.next()
	body := p.parseBlock()
	n := &past.Try{Body: body}
	n.Token = tok
	for p.curIs(lexer.KW_EXCEPT) {
		htok := p.curToken
		p.next()
		h := &past.ExceptHandler{}
		h.Token = htok
		if !p.curIs(lexer.COLON) {
			h.Type = p.parseExpression(lowest)
			if p.curIs(lexer.KW_AS) {
				p.next()
				h.Name = p.curToken.Lexeme
				p.expect(lexer.IDENT)
			}
		}
		h.Body = p.parseBlock()
		n.Handlers = append(n.Handlers, h)
	}
	if p.curIs(lexer.KW_ELSE) {
		p.next()
		n.Orelse = p.parseBlock()
	}
	if p.curIs(lexer.KW_FINALLY) {
		p.next()
		n.FinalBody = p.parseBlock()
	}
	return n
}

func (p *Parser) parseWith(async bool) past.Stmt {
	tok := p.curToken
	p.next()
	var items []past.WithItem
	for {
		item := past.WithItem{ContextExpr: p.parseExpression(lowest)}
		if p.curIs(lexer.KW_AS) {
			p.next()
			item.OptionalVar = p.parseExpression(lowest)
		}
		items = append(items, item)
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	body := p.parseBlock()
	n := &past.With{Items: items, Body: body, Async: async}
	n.Token = tok
	return n
}

func (p *Parser) parseMatch() past.Stmt {
	tok := p.curToken
	p.next()
	subject := p.parseExpression(lowest)
	n := &past.Match{Subject: subject}
	n.Token = tok
	p.expect(lexer.COLON)
	p.skipNewlines()
	if p.curIs(lexer.INDENT) {
		p.next()
		p.skipNewlines()
		for p.curIs(lexer.KW_CASE) {
			n.Cases = append(n.Cases, p.parseCase())
			p.skipNewlines()
		}
		if p.curIs(lexer.DEDENT) {
			p.next()
		}
	}
	return n
}

func (p *Parser) parseCase() *past.MatchCase {
	tok := p.curToken
	p.next()
	pattern := p.parseExpression(lowest)
	c := &past.MatchCase{Pattern: pattern}
	c.Token = tok
	if p.curIs(lexer.KW_IF) {
		p.next()
		c.Guard = p.parseExpression(lowest)
	}
	c.Body = p.parseBlock()
	return c
}

func (p *Parser) parseReturn() past.Stmt {
	tok := p.curToken
	p.next()
	n := &past.Return{}
	n.Token = tok
	if !p.curIs(lexer.NEWLINE) && !p.curIs(lexer.EOF) && !p.curIs(lexer.DEDENT) {
		n.Value = p.parseExpressionList()
	}
	return n
}

func (p *Parser) parseRaise() past.Stmt {
	tok := p.curToken
	p.next()
	n := &past.Raise{}
	n.Token = tok
	if !p.curIs(lexer.NEWLINE) && !p.curIs(lexer.EOF) {
		n.Exc = p.parseExpression(lowest)
		if p.curIs(lexer.KW_FROM) {
			p.next()
			n.Cause = p.parseExpression(lowest)
		}
	}
	return n
}

func (p *Parser) parseAssert() past.Stmt {
	tok := p.curToken
	p.next()
	test := p.parseExpression(lowest)
	n := &past.Assert{Test: test}
	n.Token = tok
	if p.curIs(lexer.COMMA) {
		p.next()
		n.Msg = p.parseExpression(lowest)
	}
	return n
}

func (p *Parser) parseGlobal() past.Stmt {
	tok := p.curToken
	p.next()
	n := &past.Global{}
	n.Token = tok
	for {
		n.Names = append(n.Names, p.curToken.Lexeme)
		p.expect(lexer.IDENT)
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	return n
}

func (p *Parser) parseNonlocal() past.Stmt {
	tok := p.curToken
	p.next()
	n := &past.Nonlocal{}
	n.Token = tok
	for {
		n.Names = append(n.Names, p.curToken.Lexeme)
		p.expect(lexer.IDENT)
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	return n
}

func (p *Parser) parseDelete() past.Stmt {
	tok := p.curToken
	p.next()
	n := &past.Delete{}
	n.Token = tok
	for {
		n.Targets = append(n.Targets, p.parseExpression(lowest))
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	return n
}

// parseTargetList parses a for-loop's target, collapsing a bare
// comma-separated list into a Tuple the way a parenthesized one would be.
// Each element is parsed above comparison precedence so the loop's `in`
// keyword ends it instead of being read as a membership test.
func (p *Parser) parseTargetList() past.Expr {
	first := p.parseExpression(comparePrec)
	if !p.curIs(lexer.COMMA) {
		return first
	}
	tup := &past.Tuple{Elts: []past.Expr{first}}
	tup.Token = p.curToken
	for p.curIs(lexer.COMMA) {
		p.next()
		if p.curIs(lexer.KW_IN) {
			break
		}
		tup.Elts = append(tup.Elts, p.parseExpression(comparePrec))
	}
	return tup
}

// parseSimpleStatement handles assignment/expression statements: plain
// expression statements, `=`-chains, augmented assignment and annotated
// assignment, which in the surface grammar are only distinguishable after
// parsing the first expression.
func (p *Parser) parseSimpleStatement() past.Stmt {
	tok := p.curToken
	first := p.parseExpressionList()

	if p.curIs(lexer.COLON) {
		p.next()
		ann := &past.Annotation{Expr: p.parseExpression(lowest)}
		n := &past.AnnAssign{Target: first, Annotation: ann}
		n.Token = tok
		if p.curIs(lexer.ASSIGN) {
			p.next()
			n.Value = p.parseExpressionList()
		}
		return n
	}

	if op, ok := augAssignOp(p.curToken.Type); ok {
		p.next()
		n := &past.AugAssign{Target: first, Op: op, Value: p.parseExpressionList()}
		n.Token = tok
		return n
	}

	if p.curIs(lexer.ASSIGN) {
		targets := []past.Expr{first}
		var value past.Expr
		for p.curIs(lexer.ASSIGN) {
			p.next()
			value = p.parseExpressionList()
			if p.curIs(lexer.ASSIGN) {
				targets = append(targets, value)
			}
		}
		n := &past.Assign{Targets: targets, Value: value}
		n.Token = tok
		return n
	}

	n := &past.ExprStmt{Value: first}
	n.Token = tok
	return n
}

func augAssignOp(tt lexer.TokenType) (string, bool) {
	switch tt {
	case lexer.PLUS_ASSIGN:
		return "+", true
	case lexer.MINUS_ASSIGN:
		return "-", true
	case lexer.STAR_ASSIGN:
		return "*", true
	case lexer.SLASH_ASSIGN:
		return "/", true
	}
	return "", false
}

// parseExpressionList parses a bare comma-separated expression list,
// collapsing multiple elements into a Tuple (used by `return a, b` and the
// right-hand side of assignments).
func (p *Parser) parseExpressionList() past.Expr {
	first := p.parseExpression(lowest)
	if !p.curIs(lexer.COMMA) {
		return first
	}
	tup := &past.Tuple{Elts: []past.Expr{first}}
	tup.Token = p.curToken
	for p.curIs(lexer.COMMA) {
		p.next()
		if p.curIs(lexer.NEWLINE) || p.curIs(lexer.EOF) || p.curIs(lexer.ASSIGN) {
			break
		}
		tup.Elts = append(tup.Elts, p.parseExpression(lowest))
	}
	return tup
}
