package lexer

import (
	"github.com/fcasibu/logic-sim/internal/token"
)

// Lexer converts source text into a stream of tokens.
type Lexer struct {
	input   string
	pos     int  // current position in bytes
	readPos int  // next read position
	ch      byte // current char
	column  int
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		column: 0,
	}
	l.readChar()
	return l
}

// NextToken returns the next token from the input. Once the input is
// exhausted every call returns EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	if l.ch == 0 && l.pos >= len(l.input) {
		return l.makeToken(token.EOF, "")
	}

	switch l.ch {
	case '(':
		tok := l.makeToken(token.LParen, "(")
		l.readChar()
		return tok
	case ')':
		tok := l.makeToken(token.RParen, ")")
		l.readChar()
		return tok
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}

		tok := l.makeToken(token.Error, string(l.ch))
		l.readChar()
		return tok
	}
}

func (l *Lexer) makeToken(t token.Type, lit string) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Pos: token.Position{
			Offset: l.pos,
			Column: l.column,
		},
		Length: len(lit),
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' || l.ch == '\v' || l.ch == '\f' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.makeToken(token.Ident, "")
	begin := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	lit := l.input[begin:l.pos]
	start.Type = token.LookupIdent(lit)
	start.Literal = lit
	start.Length = len(lit)
	return start
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.pos = len(l.input)
		l.ch = 0
		if l.readPos == len(l.input) {
			l.column++
			l.readPos++
		}
		return
	}

	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++
	l.column++
}
