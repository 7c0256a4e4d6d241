package lexer

import "testing"

func collectTypes(input string) []TokenType {
	l := New(input)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			return types
		}
	}
}

func TestNextTokenRecognizesKeywordsAndIdentifiers(t *testing.T) {
	l := New("def foo")
	first := l.NextToken()
	if first.Type != KW_DEF {
		t.Fatalf("got %v, want KW_DEF", first.Type)
	}
	second := l.NextToken()
	if second.Type != IDENT || second.Literal != "foo" {
		t.Fatalf("got %v %q, want IDENT foo", second.Type, second.Literal)
	}
}

func TestNextTokenRecognizesIntAndFloatLiterals(t *testing.T) {
	l := New("1 2.5 1e3")
	if tok := l.NextToken(); tok.Type != INT || tok.Literal != "1" {
		t.Fatalf("got %v %q, want INT 1", tok.Type, tok.Literal)
	}
	if tok := l.NextToken(); tok.Type != FLOAT || tok.Literal != "2.5" {
		t.Fatalf("got %v %q, want FLOAT 2.5", tok.Type, tok.Literal)
	}
	if tok := l.NextToken(); tok.Type != FLOAT || tok.Literal != "1e3" {
		t.Fatalf("got %v %q, want FLOAT 1e3", tok.Type, tok.Literal)
	}
}

func TestNextTokenRecognizesStringLiteral(t *testing.T) {
	l := New(`"hello"`)
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "hello" {
		t.Fatalf("got %v %q, want STRING hello", tok.Type, tok.Literal)
	}
}

func TestNextTokenRecognizesTripleQuotedString(t *testing.T) {
	l := New(`"""a
b"""`)
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "a\nb" {
		t.Fatalf("got %v %q, want STRING a\\nb", tok.Type, tok.Literal)
	}
}

func TestNextTokenRecognizesTwoCharOperators(t *testing.T) {
	cases := map[string]TokenType{
		"==": EQ, "!=": NOT_EQ, "<=": LT_EQ, ">=": GT_EQ,
		"->": ARROW, ":=": COLON_EQ, "**": POWER, "//": DBLSLASH,
		"+=": PLUS_ASSIGN, "-=": MINUS_ASSIGN, "*=": STAR_ASSIGN, "/=": SLASH_ASSIGN,
		"<<": LSHIFT, ">>": RSHIFT,
	}
	for src, want := range cases {
		l := New(src)
		tok := l.NextToken()
		if tok.Type != want || tok.Lexeme != src {
			t.Fatalf("%q: got %v %q, want %v", src, tok.Type, tok.Lexeme, want)
		}
	}
}

func TestNextTokenEmitsIndentAndDedent(t *testing.T) {
	types := collectTypes("if x:\n    y\nz\n")
	wantContains := []TokenType{KW_IF, IDENT, COLON, NEWLINE, INDENT, IDENT, NEWLINE, DEDENT, IDENT, NEWLINE, EOF}
	if len(types) != len(wantContains) {
		t.Fatalf("got %v, want %v", types, wantContains)
	}
	for i, want := range wantContains {
		if types[i] != want {
			t.Fatalf("token %d: got %v, want %v (full: %v)", i, types[i], want, types)
		}
	}
}

func TestNextTokenIgnoresComments(t *testing.T) {
	types := collectTypes("x = 1 # a comment\n")
	want := []TokenType{IDENT, ASSIGN, INT, NEWLINE, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
}

func TestNextTokenSuppressesNewlinesInsideParens(t *testing.T) {
	types := collectTypes("f(\n1,\n2\n)\n")
	for _, tt := range types[:len(types)-2] {
		if tt == NEWLINE {
			t.Fatalf("unexpected NEWLINE inside parens: %v", types)
		}
	}
}

func TestNextTokenIllegalCharacter(t *testing.T) {
	l := New("$")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", tok.Type)
	}
}
