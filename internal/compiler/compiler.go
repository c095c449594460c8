package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fcasibu/logic-sim/internal/bytecode"
	"github.com/fcasibu/logic-sim/internal/intern"
	"github.com/fcasibu/logic-sim/internal/lexer"
	"github.com/fcasibu/logic-sim/internal/token"
)

// ErrCompile is matched by every error Compile returns.
var ErrCompile = errors.New("compile failed")

// Diagnostic locates one problem found while compiling.
type Diagnostic struct {
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("col %d: %s", d.Column, d.Message)
}

// Error reports a failed compilation. The partially emitted chunk is
// discarded.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	if len(parts) == 0 {
		return ErrCompile.Error()
	}
	return ErrCompile.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrCompile) hold for *Error.
func (e *Error) Is(target error) bool {
	return target == ErrCompile
}

type precedence int

const (
	precNone precedence = iota
	precImply
	precOr
	precXor
	precAnd
	precNot
)

type prefixKind int

const (
	prefixNone prefixKind = iota
	prefixGrouping
	prefixVariable
	prefixUnary
)

type infixKind int

const (
	infixNone infixKind = iota
	infixBinary
)

type rule struct {
	prefix prefixKind
	infix  infixKind
	prec   precedence
}

var rules = map[token.Type]rule{
	token.LParen: {prefix: prefixGrouping},
	token.Ident:  {prefix: prefixVariable},
	token.Xor:    {infix: infixBinary, prec: precXor},
	token.Xnor:   {infix: infixBinary, prec: precXor},
	token.And:    {infix: infixBinary, prec: precAnd},
	token.Nand:   {infix: infixBinary, prec: precAnd},
	token.Or:     {infix: infixBinary, prec: precOr},
	token.Nor:    {infix: infixBinary, prec: precOr},
	token.Imply:  {infix: infixBinary, prec: precImply},
	token.Not:    {prefix: prefixUnary, prec: precNot},
}

var binaryOps = map[token.Type]byte{
	token.And:   OP_AND,
	token.Nand:  OP_NAND,
	token.Or:    OP_OR,
	token.Nor:   OP_NOR,
	token.Xor:   OP_XOR,
	token.Xnor:  OP_XNOR,
	token.Imply: OP_IMPLY,
}

// Compile turns source into a chunk, resolving identifiers through pool.
// A nil pool gets a fresh one. Any lexical or syntactic problem, or more
// than MaxVars distinct variables, fails the whole compilation.
func Compile(source string, pool *intern.Pool) (*Chunk, error) {
	if pool == nil {
		pool = intern.New()
	}
	chunk := &Chunk{}
	c := &compiler{
		lex:   lexer.New(source),
		chunk: chunk,
		scope: newScope(pool, chunk),
	}

	c.advance()
	c.expression()
	if !c.hadError && c.current.Type != token.EOF {
		c.errorAt(c.current, "unexpected %s after expression", describe(c.current))
	}

	if c.hadError {
		return nil, &Error{Diagnostics: c.diags}
	}
	return c.chunk, nil
}

type compiler struct {
	lex      *lexer.Lexer
	chunk    *Chunk
	scope    *scope
	previous token.Token
	current  token.Token
	hadError bool
	diags    []Diagnostic
	depth    int
}

func (c *compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lex.NextToken()
		if c.current.Type != token.Error {
			return
		}
		c.errorAt(c.current, "unexpected character %q", c.current.Literal)
	}
}

func (c *compiler) consume(t token.Type, msg string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAt(c.current, "%s, got %s", msg, describe(c.current))
}

func (c *compiler) expression() {
	c.parsePrecedence(precImply)
}

func (c *compiler) parsePrecedence(p precedence) {
	c.advance()
	if !c.prefix(rules[c.previous.Type].prefix) {
		c.errorAt(c.previous, "expected expression, got %s", describe(c.previous))
		return
	}

	for p <= rules[c.current.Type].prec {
		c.advance()
		op := c.previous
		if rules[op.Type].infix == infixNone {
			c.errorAt(op, "%s cannot follow an operand", describe(op))
			return
		}
		c.binary(op)
	}
}

func (c *compiler) prefix(kind prefixKind) bool {
	switch kind {
	case prefixGrouping:
		c.grouping()
	case prefixVariable:
		c.variable()
	case prefixUnary:
		c.unary()
	default:
		return false
	}
	return true
}

func (c *compiler) grouping() {
	c.expression()
	c.consume(token.RParen, "expected ')'")
}

func (c *compiler) variable() {
	tok := c.previous
	slot, err := c.scope.resolve(tok.Literal)
	if err != nil {
		c.errorAt(tok, "%s", err.Error())
		return
	}
	c.emitBytes(tok, OP_VAR, slot)
}

func (c *compiler) unary() {
	tok := c.previous
	c.parsePrecedence(rules[tok.Type].prec)
	c.emitByte(tok, OP_NOT)
}

func (c *compiler) binary(op token.Token) {
	c.parsePrecedence(rules[op.Type].prec + 1)
	c.emitByte(op, binaryOps[op.Type])
}

func (c *compiler) emitByte(tok token.Token, b byte) {
	c.recordColumn(tok)
	c.trackDepth(b)
	c.chunk.Write(b)
}

// emitBytes writes an opcode followed by its operands.
func (c *compiler) emitBytes(tok token.Token, b ...byte) {
	c.recordColumn(tok)
	c.trackDepth(b[0])
	c.chunk.Write(b...)
}

func (c *compiler) trackDepth(op byte) {
	info, ok := bytecode.LookupOpInfo(op)
	if !ok {
		return
	}
	c.depth += info.StackEffect()
	if c.depth > c.chunk.MaxDepth {
		c.chunk.MaxDepth = c.depth
	}
}

func (c *compiler) recordColumn(tok token.Token) {
	if tok.Pos.Column == 0 {
		return
	}
	off := len(c.chunk.Code)
	cols := c.chunk.Columns
	if len(cols) == 0 || cols[len(cols)-1].Offset != off {
		c.chunk.Columns = append(c.chunk.Columns, ColumnInfo{Offset: off, Column: tok.Pos.Column})
	}
}

func (c *compiler) errorAt(tok token.Token, format string, args ...any) {
	c.hadError = true
	c.diags = append(c.diags, Diagnostic{
		Column:  tok.Pos.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.Ident:
		return fmt.Sprintf("identifier %s", tok.Literal)
	case token.LParen, token.RParen:
		return fmt.Sprintf("'%s'", tok.Literal)
	default:
		return string(tok.Type)
	}
}
