package lexer

import (
	"testing"

	"github.com/skx/cc64/token"
)

// Trivial test of the parsing of numbers and basic operators.
func TestParseNumbersAndOperators(t *testing.T) {
	input := `3 + 43 * 2`

	tests := []struct {
		expectedKind   token.Kind
		expectedLexeme string
	}{
		{token.NUMBER, "3"},
		{token.PLUS, "+"},
		{token.NUMBER, "43"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "2"},
		{token.End, ""},
	}

	l := New("test.c", input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong, expected=%q, got=%q", i, tt.expectedKind, tok.Kind)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong, expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

// Trivial test of identifiers, keywords, and the int/char pointer
// lookahead.
func TestIdentifiersAndKeywords(t *testing.T) {
	input := `int x; int* p; char *q; while (x) return;`

	tests := []struct {
		expectedKind   token.Kind
		expectedLexeme string
	}{
		{token.INT, "int"},
		{token.VARIABLE, "x"},
		{token.SEMI, ";"},
		{token.INT_POINTER, "int*"},
		{token.VARIABLE, "p"},
		{token.SEMI, ";"},
		{token.CHAR_POINTER, "char*"},
		{token.VARIABLE, "q"},
		{token.SEMI, ";"},
		{token.WHILE, "while"},
		{token.LPAREN, "("},
		{token.VARIABLE, "x"},
		{token.RPAREN, ")"},
		{token.RETURN, "return"},
		{token.SEMI, ";"},
		{token.End, ""},
	}

	l := New("test.c", input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong, expected=%q, got=%q", i, tt.expectedKind, tok.Kind)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong, expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

// Trivial test of multi-char operators.
func TestMultiCharOperators(t *testing.T) {
	input := `== != <= >= << >> && || ++ -- += -= *= /= %=`

	tests := []token.Kind{
		token.EQ, token.NEQ, token.LE, token.GE, token.SHL, token.SHR,
		token.LAND, token.LOR, token.INC, token.DEC,
		token.PLUSEQ, token.MINEQ, token.MULEQ, token.DIVEQ, token.MODEQ,
		token.End,
	}

	l := New("test.c", input)
	for i, want := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Kind != want {
			t.Fatalf("tests[%d] - kind wrong, expected=%q, got=%q", i, want, tok.Kind)
		}
	}
}

// Trivial test of string literals.
func TestStringLiteral(t *testing.T) {
	l := New("test.c", `"hello world"`)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if tok.Kind != token.STRING {
		t.Fatalf("kind wrong, expected=%q, got=%q", token.STRING, tok.Kind)
	}
	if tok.Lexeme != "hello world" {
		t.Fatalf("lexeme wrong, got=%q", tok.Lexeme)
	}
}

// An unterminated string is a lexical error.
func TestUnterminatedString(t *testing.T) {
	l := New("test.c", `"hello`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatalf("expected an error for an unterminated string")
	}
}

// An unrecognized character is a lexical error.
func TestUnexpectedCharacter(t *testing.T) {
	l := New("test.c", `@`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatalf("expected an error for an unrecognized character")
	}
	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected a *Error, got %T", err)
	}
}

// Comments are skipped entirely.
func TestLineComments(t *testing.T) {
	input := "1 // this is a comment\n+ 2"
	want := []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.End}

	l := New("test.c", input)
	for i, k := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s", i, err)
		}
		if tok.Kind != k {
			t.Fatalf("tests[%d] - kind wrong, expected=%q, got=%q", i, k, tok.Kind)
		}
	}
}

// Line/column tracking must survive a newline.
func TestPositionTracking(t *testing.T) {
	l := New("test.c", "1\n2")

	first, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if first.Position.Line != 1 || first.Position.Col != 1 {
		t.Fatalf("first token position wrong: %+v", first.Position)
	}

	second, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if second.Position.Line != 2 || second.Position.Col != 1 {
		t.Fatalf("second token position wrong: %+v", second.Position)
	}
}

// Lex tokenizes the whole input in one call.
func TestLex(t *testing.T) {
	toks, err := New("test.c", "1 + 2;").Lex()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(toks) != 5 { // 1, +, 2, ;, EOF
		t.Fatalf("expected 5 tokens, got %d", len(toks))
	}
	if toks[len(toks)-1].Kind != token.End {
		t.Fatalf("expected final token to be End, got %q", toks[len(toks)-1].Kind)
	}
}
