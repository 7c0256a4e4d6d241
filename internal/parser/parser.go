// Package parser builds a past.Module from a token stream using a
// recursive-descent/Pratt parser, in the same hand-rolled shape as the
// teacher's own parser: a cursor over two lookahead tokens, one parse
// method per construct, and diagnostics accumulated on the parser instead
// of panicking.
package parser

import (
	"github.com/pygram-go/pygram/internal/diagnostics"
	"github.com/pygram-go/pygram/internal/lexer"
	"github.com/pygram-go/pygram/internal/past"
)

// Parser holds the token cursor and the diagnostics accumulated while
// parsing one source file.
type Parser struct {
	lex *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	modulePath string
	errors     []*diagnostics.DiagnosticError
}

// New creates a Parser over the tokens produced by lex, tagging any
// diagnostics it raises with modulePath.
func New(lex *lexer.Lexer, modulePath string) *Parser {
	p := &Parser{lex: lex, modulePath: modulePath}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.NextToken()
}

func (p *Parser) curIs(tt lexer.TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.peekToken.Type == tt }

func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.curIs(tt) {
		p.next()
		return true
	}
	p.errorf("expected %s, got %s (%q)", tt, p.curToken.Type, p.curToken.Lexeme)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrParse, p.modulePath, p.curToken.Line, format, args...))
}

// Errors returns every diagnostic raised while parsing.
func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errors }

// ParseModule parses the whole token stream into a past.Module.
func (p *Parser) ParseModule() *past.Module {
	mod := &past.Module{Path: p.modulePath}
	p.skipNewlines()
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			mod.Body = append(mod.Body, stmt)
		}
		p.skipNewlines()
	}
	return mod
}

func (p *Parser) skipNewlines() {
	for p.curIs(lexer.NEWLINE) || p.curIs(lexer.SEMI) {
		p.next()
	}
}

// parseBlock parses an INDENT [stmt...] DEDENT block, as used by every
// compound statement's suite.
func (p *Parser) parseBlock() []past.Stmt {
	var body []past.Stmt
	if !p.expect(lexer.COLON) {
		return body
	}
	p.skipNewlines()
	if !p.curIs(lexer.INDENT) {
		// single-line suite: `if x: return y`
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		return body
	}
	p.next() // consume INDENT
	p.skipNewlines()
	for !p.curIs(lexer.DEDENT) && !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		p.skipNewlines()
	}
	if p.curIs(lexer.DEDENT) {
		p.next()
	}
	return body
}
