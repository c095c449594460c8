package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcasibu/logic-sim/internal/intern"
)

func compileSource(t *testing.T, src string) *Chunk {
	t.Helper()
	chunk, err := Compile(src, intern.New())
	require.NoError(t, err, "compile %q", src)
	require.NotNil(t, chunk)
	return chunk
}

func TestCompileEmitsPostfixCode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code []byte
		vars []string
	}{
		{
			name: "single variable",
			src:  "A",
			code: []byte{OP_VAR, 0},
			vars: []string{"A"},
		},
		{
			name: "and",
			src:  "A AND B",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_AND},
			vars: []string{"A", "B"},
		},
		{
			name: "and binds tighter than or",
			src:  "A OR B AND C",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_VAR, 2, OP_AND, OP_OR},
			vars: []string{"A", "B", "C"},
		},
		{
			name: "xor binds tighter than or",
			src:  "A XOR B OR C",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_XOR, OP_VAR, 2, OP_OR},
			vars: []string{"A", "B", "C"},
		},
		{
			name: "not binds tightest",
			src:  "NOT A AND B",
			code: []byte{OP_VAR, 0, OP_NOT, OP_VAR, 1, OP_AND},
			vars: []string{"A", "B"},
		},
		{
			name: "imply is left associative",
			src:  "A IMPLY B IMPLY C",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_IMPLY, OP_VAR, 2, OP_IMPLY},
			vars: []string{"A", "B", "C"},
		},
		{
			name: "nor shares the or tier",
			src:  "A NOR B OR C",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_NOR, OP_VAR, 2, OP_OR},
			vars: []string{"A", "B", "C"},
		},
		{
			name: "nand and xnor",
			src:  "A NAND B XNOR C",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_NAND, OP_VAR, 2, OP_XNOR},
			vars: []string{"A", "B", "C"},
		},
		{
			name: "grouping overrides precedence",
			src:  "(A OR B) AND NOT C",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_OR, OP_VAR, 2, OP_NOT, OP_AND},
			vars: []string{"A", "B", "C"},
		},
		{
			name: "double negation",
			src:  "NOT NOT A",
			code: []byte{OP_VAR, 0, OP_NOT, OP_NOT},
			vars: []string{"A"},
		},
		{
			name: "repeated variable shares a slot",
			src:  "A AND A",
			code: []byte{OP_VAR, 0, OP_VAR, 0, OP_AND},
			vars: []string{"A"},
		},
		{
			name: "slots follow first appearance",
			src:  "Zed OR Alpha AND Zed",
			code: []byte{OP_VAR, 0, OP_VAR, 1, OP_VAR, 0, OP_AND, OP_OR},
			vars: []string{"Zed", "Alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := compileSource(t, tt.src)
			assert.Equal(t, tt.code, chunk.Code)
			assert.Equal(t, tt.vars, chunk.VarNames())
		})
	}
}

func TestCompileRecordsColumns(t *testing.T) {
	chunk := compileSource(t, "A AND B")

	assert.Equal(t, []ColumnInfo{
		{Offset: 0, Column: 1},
		{Offset: 2, Column: 7},
		{Offset: 4, Column: 3},
	}, chunk.Columns)
}

func TestCompileRecordsStackDepth(t *testing.T) {
	tests := []struct {
		src   string
		depth int
	}{
		{"A", 1},
		{"NOT NOT A", 1},
		{"A AND B AND C", 2},
		{"A AND (B AND C)", 3},
		{"(A OR B) AND NOT (C XOR D)", 3},
		{strings.Repeat("A AND (", 300) + "B" + strings.Repeat(")", 300), 301},
	}

	for _, tt := range tests {
		chunk := compileSource(t, tt.src)
		assert.Equal(t, tt.depth, chunk.MaxDepth, "%.40s", tt.src)
	}
}

func TestCompileSharesPool(t *testing.T) {
	pool := intern.New()

	first, err := Compile("B OR A", pool)
	require.NoError(t, err)
	second, err := Compile("A OR C", pool)
	require.NoError(t, err)

	sym, ok := pool.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, sym, first.Vars[1].Symbol)
	assert.Equal(t, sym, second.Vars[0].Symbol)
	assert.Equal(t, uint8(0), second.Vars[0].Slot)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		column int
		msg    string
	}{
		{name: "empty input", src: "", column: 1, msg: "expected expression"},
		{name: "empty group", src: "()", column: 2, msg: "expected expression"},
		{name: "unclosed group", src: "(A AND B", column: 9, msg: "expected ')'"},
		{name: "juxtaposed operands", src: "A B", column: 3, msg: "after expression"},
		{name: "not in infix position", src: "A NOT B", column: 3, msg: "cannot follow an operand"},
		{name: "illegal character", src: "A & B", column: 3, msg: "unexpected character"},
		{name: "leading operator", src: "AND A", column: 1, msg: "expected expression"},
		{name: "dangling operator", src: "A AND", column: 6, msg: "expected expression"},
		{name: "stray close paren", src: "A)", column: 2, msg: "after expression"},
		{name: "lowercase keyword is a variable", src: "A and B", column: 3, msg: "after expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk, err := Compile(tt.src, intern.New())
			require.Error(t, err)
			assert.Nil(t, chunk)
			assert.True(t, errors.Is(err, ErrCompile))

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			require.NotEmpty(t, cerr.Diagnostics)
			assert.Equal(t, tt.column, cerr.Diagnostics[0].Column)
			assert.Contains(t, cerr.Diagnostics[0].Message, tt.msg)
		})
	}
}

func TestCompileErrorIsSticky(t *testing.T) {
	// the bad character is skipped but the whole compilation still fails
	chunk, err := Compile("A # OR B", intern.New())
	assert.Nil(t, chunk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "col 3: unexpected character")
}

func TestCompileVariableLimit(t *testing.T) {
	ten := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

	chunk := compileSource(t, strings.Join(ten, " OR "))
	assert.Len(t, chunk.Vars, MaxVars)

	eleven := append(ten, "K")
	_, err := Compile(strings.Join(eleven, " OR "), intern.New())
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 51, cerr.Diagnostics[0].Column)
}

func TestErrorString(t *testing.T) {
	err := &Error{Diagnostics: []Diagnostic{
		{Column: 3, Message: "expected ')', got end of input"},
		{Column: 5, Message: "unexpected character \"&\""},
	}}
	assert.Equal(t,
		"compile failed: col 3: expected ')', got end of input; col 5: unexpected character \"&\"",
		err.Error())
	assert.Equal(t, "compile failed", (&Error{}).Error())
}
