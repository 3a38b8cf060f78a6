package lexer

import "testing"

func collect(s string) []Token {
	l := New(s)
	go l.Run()
	var toks []Token
	for t := range l.Out {
		toks = append(toks, t)
	}
	return toks
}

func TestSimple(t *testing.T) {
	toks := collect("echo hi\n")
	want := []TokenType{TokArg, TokArg, TokEndStmt, TokEof}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v, want %v", i, toks[i], k)
		}
	}
}

func TestAssignment(t *testing.T) {
	toks := collect("x=hello\n")
	want := []TokenType{TokArg, TokAssign, TokArg, TokEndStmt, TokEof}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v, want %v", i, toks[i], k)
		}
	}
}

func TestPipeAndLogical(t *testing.T) {
	toks := collect("a | b && c || d\n")
	var kinds []TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []TokenType{TokArg, TokPipe, TokArg, TokLAnd, TokArg, TokLOr, TokArg, TokEndStmt, TokEof}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("token %d: got %v, want %v", i, kinds[i], k)
		}
	}
}

func TestVarIndex(t *testing.T) {
	toks := collect("$x(5-6 1-2)\n")
	want := []TokenType{TokVarRef, TokParenOpen, TokArg, TokArg, TokParenClose, TokEndStmt, TokEof}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v (%q), want %v", i, toks[i].Kind, toks[i].Val, k)
		}
	}
}

func TestSingleQuoteEscape(t *testing.T) {
	toks := collect(`'it''s fine'` + "\n")
	if len(toks) < 2 || toks[0].Kind != TokString {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Val != "it's fine" {
		t.Fatalf("got %q, want %q", toks[0].Val, "it's fine")
	}
}
