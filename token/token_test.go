package token

import "testing"

// Trivial test of keyword lookup.
func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		input     string
		wantKind  Kind
		wantFound bool
	}{
		{"if", IF, true},
		{"else", ELSE, true},
		{"while", WHILE, true},
		{"for", FOR, true},
		{"return", RETURN, true},
		{"sizeof", SIZEOF, true},
		{"break", BREAK, true},
		{"continue", CONTINUE, true},
		{"do", DO, true},
		{"foo", "", false},
		{"int", "", false}, // handled separately by the lexer
	}

	for i, tt := range tests {
		kind, found := LookupKeyword(tt.input)
		if found != tt.wantFound {
			t.Fatalf("tests[%d] - found wrong for %q, expected=%v, got=%v", i, tt.input, tt.wantFound, found)
		}
		if found && kind != tt.wantKind {
			t.Fatalf("tests[%d] - kind wrong for %q, expected=%q, got=%q", i, tt.input, tt.wantKind, kind)
		}
	}
}

func TestIsAssignOp(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{ASSIGN, true},
		{PLUSEQ, true},
		{MINEQ, true},
		{MULEQ, true},
		{DIVEQ, true},
		{MODEQ, true},
		{PLUS, false},
		{EQ, false},
	}

	for i, tt := range tests {
		if got := IsAssignOp(tt.kind); got != tt.want {
			t.Fatalf("tests[%d] - IsAssignOp(%q) expected=%v, got=%v", i, tt.kind, tt.want, got)
		}
	}
}
