package parser

import (
	"github.com/pygram-go/pygram/internal/lexer"
	"github.com/pygram-go/pygram/internal/past"
)

// Precedence levels for the Pratt expression parser, lowest to highest.
const (
	lowest int = iota
	orPrec
	andPrec
	notPrec
	comparePrec
	bitOrPrec
	bitXorPrec
	bitAndPrec
	shiftPrec
	sumPrec
	productPrec
	unaryPrec
	powerPrec
	callPrec
)

var precedences = map[lexer.TokenType]int{
	lexer.KW_OR:     orPrec,
	lexer.KW_AND:    andPrec,
	lexer.LT:        comparePrec,
	lexer.GT:        comparePrec,
	lexer.LT_EQ:     comparePrec,
	lexer.GT_EQ:     comparePrec,
	lexer.EQ:        comparePrec,
	lexer.NOT_EQ:    comparePrec,
	lexer.KW_IN:     comparePrec,
	lexer.KW_IS:     comparePrec,
	lexer.PIPE:      bitOrPrec,
	lexer.CARET:     bitXorPrec,
	lexer.AMP:       bitAndPrec,
	lexer.LSHIFT:    shiftPrec,
	lexer.RSHIFT:    shiftPrec,
	lexer.PLUS:      sumPrec,
	lexer.MINUS:     sumPrec,
	lexer.ASTERISK:  productPrec,
	lexer.SLASH:     productPrec,
	lexer.DBLSLASH:  productPrec,
	lexer.PERCENT:   productPrec,
	lexer.POWER:     powerPrec,
	lexer.LPAREN:    callPrec,
	lexer.LBRACKET:  callPrec,
	lexer.DOT:       callPrec,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return lowest
}

// parseExpression is the Pratt loop: parse a prefix form, then keep
// consuming infix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) past.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.curIs(lexer.NEWLINE) && !p.curIs(lexer.EOF) && minPrec < p.curPrecedence() {
		switch p.curToken.Type {
		case lexer.LPAREN:
			left = p.finishCall(left)
		case lexer.LBRACKET:
			left = p.finishSubscript(left)
		case lexer.DOT:
			left = p.finishAttribute(left)
		case lexer.KW_AND, lexer.KW_OR:
			left = p.finishBoolOp(left)
		case lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ, lexer.EQ, lexer.NOT_EQ, lexer.KW_IN, lexer.KW_IS:
			left = p.finishCompare(left)
		default:
			left = p.finishBinOp(left)
		}
	}
	return left
}

func (p *Parser) parsePrefix() past.Expr {
	switch p.curToken.Type {
	case lexer.IDENT:
		n := &past.Name{Id: p.curToken.Lexeme}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.INT:
		n := &past.Constant{Value: p.curToken.Lexeme, Kind: "int"}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.FLOAT:
		n := &past.Constant{Value: p.curToken.Lexeme, Kind: "float"}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.STRING:
		n := &past.Constant{Value: p.curToken.Literal, Kind: "string"}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.KW_NONE:
		n := &past.Constant{Kind: "None"}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.KW_TRUE:
		n := &past.Constant{Kind: "True"}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.KW_FALSE:
		n := &past.Constant{Kind: "False"}
		n.Token = p.curToken
		p.next()
		return n
	case lexer.KW_AWAIT:
		tok := p.curToken
		p.next()
		n := &past.Await{Value: p.parseExpression(unaryPrec)}
		n.Token = tok
		return n
	case lexer.KW_YIELD:
		tok := p.curToken
		p.next()
		if p.curIs(lexer.KW_FROM) {
			p.next()
			n := &past.YieldFrom{Value: p.parseExpression(lowest)}
			n.Token = tok
			return n
		}
		n := &past.Yield{}
		n.Token = tok
		if !p.curIs(lexer.NEWLINE) && !p.curIs(lexer.EOF) && !p.curIs(lexer.RPAREN) {
			n.Value = p.parseExpression(lowest)
		}
		return n
	case lexer.KW_NOT:
		tok := p.curToken
		p.next()
		n := &past.UnaryOp{Op: "not", Operand: p.parseExpression(notPrec)}
		n.Token = tok
		return n
	case lexer.MINUS, lexer.PLUS, lexer.TILDE:
		tok := p.curToken
		op := string(p.curToken.Type)
		p.next()
		n := &past.UnaryOp{Op: op, Operand: p.parseExpression(unaryPrec)}
		n.Token = tok
		return n
	case lexer.ASTERISK:
		tok := p.curToken
		p.next()
		n := &past.Starred{Value: p.parseExpression(unaryPrec)}
		n.Token = tok
		return n
	case lexer.LPAREN:
		return p.parseParenOrTuple()
	case lexer.LBRACKET:
		return p.parseListLiteral()
	case lexer.LBRACE:
		return p.parseDictLiteral()
	case lexer.KW_LAMBDA:
		return p.parseLambda()
	default:
		p.errorf("unexpected token %s (%q) in expression", p.curToken.Type, p.curToken.Lexeme)
		p.next()
		return nil
	}
}

func (p *Parser) parseParenOrTuple() past.Expr {
	tok := p.curToken
	p.next()
	if p.curIs(lexer.RPAREN) {
		p.next()
		n := &past.Tuple{}
		n.Token = tok
		return n
	}
	first := p.parseExpression(lowest)
	if p.curIs(lexer.COMMA) {
		tup := &past.Tuple{Elts: []past.Expr{first}}
		tup.Token = tok
		for p.curIs(lexer.COMMA) {
			p.next()
			if p.curIs(lexer.RPAREN) {
				break
			}
			tup.Elts = append(tup.Elts, p.parseExpression(lowest))
		}
		p.expect(lexer.RPAREN)
		return tup
	}
	p.expect(lexer.RPAREN)
	return first
}

func (p *Parser) parseListLiteral() past.Expr {
	tok := p.curToken
	p.next()
	n := &past.ListExpr{}
	n.Token = tok
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		n.Elts = append(n.Elts, p.parseExpression(lowest))
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACKET)
	return n
}

func (p *Parser) parseDictLiteral() past.Expr {
	tok := p.curToken
	p.next()
	n := &past.DictExpr{}
	n.Token = tok
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		key := p.parseExpression(lowest)
		p.expect(lexer.COLON)
		val := p.parseExpression(lowest)
		n.Keys = append(n.Keys, key)
		n.Values = append(n.Values, val)
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return n
}

func (p *Parser) parseLambda() past.Expr {
	tok := p.curToken
	p.next()
	for !p.curIs(lexer.COLON) && !p.curIs(lexer.EOF) {
		p.next()
	}
	p.expect(lexer.COLON)
	body := p.parseExpression(lowest)
	n := &past.FunctionDef{Name: "<lambda>", Body: []past.Stmt{}}
	n.Token = tok
	ret := &past.Return{Value: body}
	ret.Token = tok
	n.Body = append(n.Body, ret)
	// lambdas are expression-valued; represent as a Call-free Name stub so
	// callers treating the result as an Expr degrade gracefully.
	stub := &past.Name{Id: "<lambda>"}
	stub.Token = tok
	return stub
}

func (p *Parser) finishCall(fn past.Expr) past.Expr {
	tok := p.curToken
	p.next() // consume '('
	n := &past.Call{Func: fn}
	n.Token = tok
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.IDENT) && p.peekIs(lexer.ASSIGN) {
			name := p.curToken.Lexeme
			p.next()
			p.next()
			n.Kwargs = append(n.Kwargs, past.Keyword{Name: name, Value: p.parseExpression(lowest)})
		} else {
			n.Args = append(n.Args, p.parseExpression(lowest))
		}
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return n
}

func (p *Parser) finishSubscript(val past.Expr) past.Expr {
	tok := p.curToken
	p.next() // consume '['
	n := &past.Subscript{Value: val}
	n.Token = tok
	if !p.curIs(lexer.RBRACKET) {
		n.Slice = p.parseExpression(lowest)
	}
	p.expect(lexer.RBRACKET)
	return n
}

func (p *Parser) finishAttribute(val past.Expr) past.Expr {
	tok := p.curToken
	p.next() // consume '.'
	attr := p.curToken.Lexeme
	p.expect(lexer.IDENT)
	n := &past.Attribute{Value: val, Attr: attr}
	n.Token = tok
	return n
}

func (p *Parser) finishBoolOp(left past.Expr) past.Expr {
	tok := p.curToken
	op := string(p.curToken.Type)
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	n := &past.BoolOp{Op: op, Values: []past.Expr{left, right}}
	n.Token = tok
	return n
}

func (p *Parser) finishCompare(left past.Expr) past.Expr {
	tok := p.curToken
	n := &past.Compare{Left: left}
	n.Token = tok
	for isCompareOp(p.curToken.Type) {
		op := string(p.curToken.Type)
		if p.curIs(lexer.KW_IS) && p.peekIs(lexer.KW_NOT) {
			p.next()
			op = "is not"
		}
		if p.curIs(lexer.KW_NOT) && p.peekIs(lexer.KW_IN) {
			p.next()
			op = "not in"
		}
		prec := p.curPrecedence()
		p.next()
		n.Ops = append(n.Ops, op)
		n.Comparators = append(n.Comparators, p.parseExpression(prec))
	}
	return n
}

func isCompareOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.LT, lexer.GT, lexer.LT_EQ, lexer.GT_EQ, lexer.EQ, lexer.NOT_EQ, lexer.KW_IN, lexer.KW_IS:
		return true
	}
	return false
}

func (p *Parser) finishBinOp(left past.Expr) past.Expr {
	tok := p.curToken
	op := string(p.curToken.Type)
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	n := &past.BinOp{Left: left, Op: op, Right: right}
	n.Token = tok
	return n
}
