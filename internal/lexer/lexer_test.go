package lexer

import (
	"testing"

	"github.com/ernestorb/vanillac/internal/token"
)

func scanAll(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func assertTypes(t *testing.T, got []token.Type, want ...token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestKeywordsAndPunctuation(t *testing.T) {
	toks := scanAll(t, "main { integer x; }")
	assertTypes(t, types(toks), token.MAIN, token.LBRACE, token.INTEGER, token.ID, token.SEMI, token.RBRACE, token.EOF)
}

func TestTwoCharOperators(t *testing.T) {
	toks := scanAll(t, "a++ b-- c<=d>=e==f!=g&&h||i")
	got := types(toks)
	want := []token.Type{
		token.ID, token.INCR,
		token.ID, token.DECR,
		token.ID, token.LE, token.ID, token.GE, token.ID, token.EQ, token.ID, token.NE,
		token.ID, token.AND, token.ID, token.OR, token.ID,
		token.EOF,
	}
	assertTypes(t, got, want...)
}

// Ordinary spaced binary arithmetic must not be mis-lexed as a signed
// literal: a sign is fused only when a digit immediately follows it, so an
// additive operator followed by whitespace is its own SUM/MIN token.
func TestBinaryArithmeticIsNotMistakenForSignedLiteral(t *testing.T) {
	toks := scanAll(t, "2 + 3 * 4")
	assertTypes(t, types(toks), token.INT, token.SUM, token.INT, token.TIMES, token.INT, token.EOF)
	if toks[0].Lexeme != "2" || toks[2].Lexeme != "3" {
		t.Fatalf("expected unsigned literals, got %q and %q", toks[0].Lexeme, toks[2].Lexeme)
	}
}

// A sign in a prefix (operand-starting) position fuses into the literal.
func TestSignedLiteralInPrefixPosition(t *testing.T) {
	toks := scanAll(t, "x = -5;")
	assertTypes(t, types(toks), token.ID, token.ASSIGN, token.INT, token.SEMI, token.EOF)
	if toks[2].Lexeme != "-5" {
		t.Errorf("toks[2].Lexeme = %q, want %q", toks[2].Lexeme, "-5")
	}
}

func TestFloatLiteral(t *testing.T) {
	toks := scanAll(t, "3.14")
	assertTypes(t, types(toks), token.FLOAT, token.EOF)
	if toks[0].Lexeme != "3.14" {
		t.Errorf("Lexeme = %q, want %q", toks[0].Lexeme, "3.14")
	}
}

func TestIllegalCharacterRecorded(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("Type = %s, want ILLEGAL", tok.Type)
	}
	if len(l.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(l.Errors))
	}
}

func TestLineColumnTracking(t *testing.T) {
	toks := scanAll(t, "x\ny")
	if toks[0].Start.Line != 1 {
		t.Errorf("first token line = %d, want 1", toks[0].Start.Line)
	}
	if toks[1].Start.Line != 2 {
		t.Errorf("second token line = %d, want 2", toks[1].Start.Line)
	}
}
