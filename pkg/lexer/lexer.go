// Package lexer implements a lexical analyzer for CMDL.
package lexer

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/knut0815/stochsim/pkg/token"
)

// Lexer scans a CMDL source stream into a sequence of Tokens.
type Lexer struct {
	rd   *bufio.Reader
	peek byte
	ln   int
	eof  bool
}

// New returns a new Lexer reading from r.
func New(r io.Reader) *Lexer {
	l := &Lexer{rd: bufio.NewReader(r), ln: 1}
	return l
}

// NewFromString returns a new Lexer reading from the contents of s. Used
// for testing and for embedded CMDL snippets.
func NewFromString(s string) *Lexer {
	return New(strings.NewReader(s))
}

// Scan returns the next token from the input stream. At end of input it
// returns token.EOF; on an unrecognised character it returns an Error
// token wrapping token.ErrUnexpectedChar.
func (l *Lexer) Scan() *token.Token {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.EOF
	}
	ln := l.ln
	switch {
	case l.peek == '.':
		return token.UnexpectedChar(ln) // a bare '.' is not part of CMDL outside a number literal
	case l.peek == ',':
		return l.single(ln, token.Comma)
	case l.peek == ';':
		return l.single(ln, token.Semicolon)
	case l.peek == '=':
		if l.matchNext('=') {
			return &token.Token{Tag: token.EqualEqual, Ln: ln}
		}
		return &token.Token{Tag: token.Equals, Ln: ln}
	case l.peek == '!':
		if l.matchNext('=') {
			return &token.Token{Tag: token.NotEqual, Ln: ln}
		}
		return &token.Token{Tag: token.Not, Ln: ln}
	case l.peek == '<':
		if l.matchNext('=') {
			return &token.Token{Tag: token.LessEqual, Ln: ln}
		}
		return &token.Token{Tag: token.Less, Ln: ln}
	case l.peek == '>':
		if l.matchNext('=') {
			return &token.Token{Tag: token.GreaterEqual, Ln: ln}
		}
		return &token.Token{Tag: token.Greater, Ln: ln}
	case l.peek == '&':
		if l.matchNext('&') {
			return &token.Token{Tag: token.And, Ln: ln}
		}
		return token.UnexpectedChar(ln)
	case l.peek == '|':
		if l.matchNext('|') {
			return &token.Token{Tag: token.Or, Ln: ln}
		}
		return token.UnexpectedChar(ln)
	case l.peek == '-':
		if l.matchNext('>') {
			return &token.Token{Tag: token.Arrow, Ln: ln}
		}
		return &token.Token{Tag: token.Minus, Ln: ln}
	case l.peek == '+':
		return l.single(ln, token.Plus)
	case l.peek == '*':
		return l.single(ln, token.Times)
	case l.peek == '/':
		return l.single(ln, token.Divide)
	case l.peek == '(':
		return l.single(ln, token.LeftParen)
	case l.peek == ')':
		return l.single(ln, token.RightParen)
	case l.peek == '[':
		return l.single(ln, token.LeftBracket)
	case l.peek == ']':
		return l.single(ln, token.RightBracket)
	case l.peek == '?':
		return l.single(ln, token.Question)
	case l.peek == ':':
		return l.single(ln, token.Colon)
	case isAlpha(l.peek):
		return l.scanIdentifier(ln)
	case isDigit(l.peek):
		return l.scanNumber(ln)
	default:
		return token.UnexpectedChar(ln)
	}
}

// single consumes the current peek byte and returns a Token with the given
// tag. It is used for operators with no multi-character continuation.
func (l *Lexer) single(ln int, tag token.Tag) *token.Token {
	return &token.Token{Tag: tag, Ln: ln}
}

func (l *Lexer) scanIdentifier(ln int) *token.Token {
	var buf bytes.Buffer
	for {
		buf.WriteByte(l.peek)
		if err := l.readChar(); err != nil {
			break
		}
		if !(isAlpha(l.peek) || isDigit(l.peek)) {
			l.unreadChar()
			break
		}
	}
	return &token.Token{Tag: token.Identifier, Ln: ln, Lex: buf.String()}
}

func (l *Lexer) scanNumber(ln int) *token.Token {
	var buf bytes.Buffer
	// atEOF records that the input ended inside the literal, so there is no
	// following byte to push back.
	atEOF := false
	for {
		buf.WriteByte(l.peek)
		if err := l.readChar(); err != nil {
			atEOF = true
			break
		}
		if !isDigit(l.peek) {
			break
		}
	}
	if l.peek == '.' {
		buf.WriteByte(l.peek)
		if err := l.readChar(); err == nil {
			for isDigit(l.peek) {
				buf.WriteByte(l.peek)
				if err := l.readChar(); err != nil {
					atEOF = true
					break
				}
			}
		} else {
			atEOF = true
		}
	}
	if l.peek == 'e' || l.peek == 'E' {
		expBuf := bytes.Buffer{}
		expBuf.WriteByte(l.peek)
		if err := l.readChar(); err == nil {
			if l.peek == '+' || l.peek == '-' {
				expBuf.WriteByte(l.peek)
				_ = l.readChar()
			}
			if isDigit(l.peek) {
				for isDigit(l.peek) {
					expBuf.WriteByte(l.peek)
					if err := l.readChar(); err != nil {
						atEOF = true
						break
					}
				}
				buf.Write(expBuf.Bytes())
			} else {
				// Not a valid exponent after all; push back what we
				// consumed for the exponent marker.
				l.unreadChar()
			}
		}
	}
	if !atEOF {
		l.unreadChar()
	}
	v, err := strconv.ParseFloat(buf.String(), 64)
	if err != nil {
		return token.UnexpectedChar(ln)
	}
	return &token.Token{Tag: token.Number, Ln: ln, Val: v}
}

// skipWhitespaceAndComments advances past whitespace, newlines, and both
// comment forms, leaving l.peek on the next significant byte. Returns a
// non-nil error (always io.EOF) if the stream ends first.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		if err := l.readCharSkippingWhitespace(); err != nil {
			return err
		}
		consumed, err := l.scanComment()
		if err != nil {
			return err
		}
		if !consumed {
			return nil
		}
	}
}

// scanComment consumes a "//" line comment or a "/* */" block comment
// starting at l.peek, reporting whether one was consumed. It uses the
// reader's own lookahead rather than mutating l.peek, so that a bare "/"
// not followed by "/" or "*" is left completely untouched and is later
// scanned as a Divide token.
func (l *Lexer) scanComment() (bool, error) {
	if l.peek != '/' {
		return false, nil
	}
	next, err := l.rd.Peek(1)
	if err != nil {
		return false, nil
	}
	switch next[0] {
	case '/':
		l.rd.Discard(1)
		for {
			c, err := l.rd.ReadByte()
			if err != nil {
				return true, err
			}
			if c == '\n' {
				l.ln++
				return true, nil
			}
		}
	case '*':
		l.rd.Discard(1)
		for {
			c, err := l.rd.ReadByte()
			if err != nil {
				return true, err
			}
			if c == '\n' {
				l.ln++
				continue
			}
			if c != '*' {
				continue
			}
			for {
				ahead, err := l.rd.Peek(1)
				if err != nil {
					return true, err
				}
				if ahead[0] == '/' {
					l.rd.Discard(1)
					return true, nil
				}
				if ahead[0] != '*' {
					break
				}
				l.rd.Discard(1)
			}
		}
	default:
		return false, nil
	}
}

func (l *Lexer) readChar() error {
	c, err := l.rd.ReadByte()
	if err != nil {
		return err
	}
	l.peek = c
	return nil
}

func (l *Lexer) readCharSkippingWhitespace() error {
	for {
		c, err := l.rd.ReadByte()
		if err != nil {
			return err
		}
		if c == '\n' {
			l.ln++
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' {
			continue
		}
		l.peek = c
		return nil
	}
}

// readCharAndMatch reads the next byte and compares it to c, consuming it
// if it matches and leaving it unread (via unreadChar's caller) otherwise.
func (l *Lexer) readCharAndMatch(c byte) (bool, error) {
	err := l.readChar()
	if err != nil {
		return false, err
	}
	return l.peek == c, nil
}

// matchNext looks one byte ahead and consumes it if it equals c, returning
// whether it matched. On mismatch the byte is pushed back so the caller's
// single-character token is still correct.
func (l *Lexer) matchNext(c byte) bool {
	ok, err := l.readCharAndMatch(c)
	if err != nil {
		return false
	}
	if !ok {
		l.unreadChar()
	}
	return ok
}

func (l *Lexer) unreadChar() {
	// The only error UnreadByte can return is "no byte to unread", which
	// never happens here since every call follows a successful ReadByte.
	_ = l.rd.UnreadByte()
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
