package lexer

import (
	"io"
	"testing"

	"github.com/knut0815/stochsim/pkg/token"
)

type testPair struct {
	src    string
	expect token.Token
}

var tests = []testPair{
	{"", token.Token{Tag: token.Error, Err: io.EOF}},
	{" ", token.Token{Tag: token.Error, Err: io.EOF}},
	{"\t", token.Token{Tag: token.Error, Err: io.EOF}},
	{"\n", token.Token{Tag: token.Error, Err: io.EOF}},
	{"\n\t\n\t", token.Token{Tag: token.Error, Err: io.EOF}},
	{"    \n\t\n   ", token.Token{Tag: token.Error, Err: io.EOF}},

	{"//asdfsasdf", token.Token{Tag: token.Error, Err: io.EOF}},
	{"//asdfsasdf\n", token.Token{Tag: token.Error, Err: io.EOF}},
	{"//asdfsasdf+", token.Token{Tag: token.Error, Err: io.EOF}},
	{"/**/", token.Token{Tag: token.Error, Err: io.EOF}},
	{"/*asdf*/", token.Token{Tag: token.Error, Err: io.EOF}},
	{"/*asdf\nasdfasdf\nasdf*/", token.Token{Tag: token.Error, Err: io.EOF}},
	{"/**************ASDF**A******/", token.Token{Tag: token.Error, Err: io.EOF}},
	{"/******\n\t\n\t*****\n\t\n**    *ASDF**A******/\n\t\n", token.Token{Tag: token.Error, Err: io.EOF}},

	{"+", token.Token{Tag: token.Plus, Ln: 1}},
	{"-", token.Token{Tag: token.Minus, Ln: 1}},
	{"->", token.Token{Tag: token.Arrow, Ln: 1}},
	{"*", token.Token{Tag: token.Times, Ln: 1}},
	{"/", token.Token{Tag: token.Divide, Ln: 1}},
	{"(", token.Token{Tag: token.LeftParen, Ln: 1}},
	{")", token.Token{Tag: token.RightParen, Ln: 1}},
	{"[", token.Token{Tag: token.LeftBracket, Ln: 1}},
	{"]", token.Token{Tag: token.RightBracket, Ln: 1}},
	{"=", token.Token{Tag: token.Equals, Ln: 1}},
	{"==", token.Token{Tag: token.EqualEqual, Ln: 1}},
	{"!", token.Token{Tag: token.Not, Ln: 1}},
	{"!=", token.Token{Tag: token.NotEqual, Ln: 1}},
	{"<", token.Token{Tag: token.Less, Ln: 1}},
	{"<=", token.Token{Tag: token.LessEqual, Ln: 1}},
	{">", token.Token{Tag: token.Greater, Ln: 1}},
	{">=", token.Token{Tag: token.GreaterEqual, Ln: 1}},
	{"&&", token.Token{Tag: token.And, Ln: 1}},
	{"||", token.Token{Tag: token.Or, Ln: 1}},
	{",", token.Token{Tag: token.Comma, Ln: 1}},
	{";", token.Token{Tag: token.Semicolon, Ln: 1}},
	{"?", token.Token{Tag: token.Question, Ln: 1}},
	{":", token.Token{Tag: token.Colon, Ln: 1}},

	{"134", token.Token{Tag: token.Number, Val: 134, Ln: 1}},
	{"134 ", token.Token{Tag: token.Number, Val: 134, Ln: 1}},
	{" 00001 ", token.Token{Tag: token.Number, Val: 1, Ln: 1}},
	{"3.14", token.Token{Tag: token.Number, Val: 3.14, Ln: 1}},
	{"2e3", token.Token{Tag: token.Number, Val: 2000, Ln: 1}},
	{"2.5e-2", token.Token{Tag: token.Number, Val: 0.025, Ln: 1}},

	{"k", token.Token{Tag: token.Identifier, Lex: "k", Ln: 1}},
	{"rate_1", token.Token{Tag: token.Identifier, Lex: "rate_1", Ln: 1}},
	{"A2", token.Token{Tag: token.Identifier, Lex: "A2", Ln: 1}},
}

func TestScan(t *testing.T) {
	for _, pair := range tests {
		l := NewFromString(pair.src)
		got := l.Scan()
		if got.Tag != pair.expect.Tag || got.Val != pair.expect.Val ||
			got.Lex != pair.expect.Lex || got.Ln != pair.expect.Ln ||
			got.Err != pair.expect.Err {
			t.Errorf("scanning %q: got %+v, want %+v", pair.src, got, pair.expect)
		}
	}
}

func TestScanDivisionNotMistakenForComment(t *testing.T) {
	l := NewFromString("4 / 2")
	first := l.Scan()
	if first.Tag != token.Number || first.Val != 4 {
		t.Fatalf("first token: got %+v", first)
	}
	second := l.Scan()
	if second.Tag != token.Divide {
		t.Fatalf("expected Divide, got %+v", second)
	}
	third := l.Scan()
	if third.Tag != token.Number || third.Val != 2 {
		t.Fatalf("third token: got %+v", third)
	}
}

func TestScanLineNumbers(t *testing.T) {
	l := NewFromString("k\n=\n1")
	if tok := l.Scan(); tok.Ln != 1 {
		t.Errorf("first token line: got %d, want 1", tok.Ln)
	}
	if tok := l.Scan(); tok.Ln != 2 {
		t.Errorf("second token line: got %d, want 2", tok.Ln)
	}
	if tok := l.Scan(); tok.Ln != 3 {
		t.Errorf("third token line: got %d, want 3", tok.Ln)
	}
}

func TestScanUnexpectedChar(t *testing.T) {
	l := NewFromString("@")
	tok := l.Scan()
	if tok.Tag != token.Error || tok.Err != token.ErrUnexpectedChar {
		t.Errorf("got %+v, want an unexpected-character error token", tok)
	}
}

func TestScanBareDotIsUnexpectedChar(t *testing.T) {
	// A '.' is only valid inside a number literal (e.g. "3.14"); on its own
	// it must surface the same way as any other unrecognised byte so a
	// parser checking Err can detect it.
	l := NewFromString(".")
	tok := l.Scan()
	if tok.Tag != token.Error || tok.Err != token.ErrUnexpectedChar {
		t.Errorf("got %+v, want an unexpected-character error token", tok)
	}
}

func TestScanReactionModel(t *testing.T) {
	l := NewFromString("k = 1 + 2 * 3 - 4 / 2 ;\nA -> B, k ;")
	var tags []token.Tag
	for {
		tok := l.Scan()
		if tok.Tag == token.Error {
			break
		}
		tags = append(tags, tok.Tag)
	}
	want := []token.Tag{
		token.Identifier, token.Equals, token.Number, token.Plus, token.Number,
		token.Times, token.Number, token.Minus, token.Number, token.Divide,
		token.Number, token.Semicolon,
		token.Identifier, token.Arrow, token.Identifier, token.Comma,
		token.Identifier, token.Semicolon,
	}
	if len(tags) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tags), len(want), tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, tags[i], want[i])
		}
	}
}
