package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logicsim "github.com/fcasibu/logic-sim"
)

func interpret(t *testing.T, src string) *logicsim.TruthTable {
	t.Helper()
	table, err := logicsim.Interpret(src)
	require.NoError(t, err)
	return table
}

func TestTableListsEveryRow(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Highlight: NoHighlight})

	require.NoError(t, r.Table(interpret(t, "A AND B"), "A AND B"))
	out := buf.String()

	assert.Contains(t, out, "A AND B")
	for _, row := range []string{"0", "1", "2", "3"} {
		assert.Contains(t, out, row)
	}
	assert.NotContains(t, out, "more rows")
	assert.NotContains(t, out, "\x1b[")
}

func TestTableTruncates(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{MaxRows: 2, Highlight: NoHighlight})

	require.NoError(t, r.Table(interpret(t, "A OR B OR C"), ""))
	assert.Contains(t, buf.String(), "... 6 more rows (7 true in total)")
}

func TestTableHighlight(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Highlight: 2})

	require.NoError(t, r.Table(interpret(t, "A XOR B"), ""))
	assert.Contains(t, buf.String(), "> 2")
	assert.Equal(t, 1, strings.Count(buf.String(), "> "))
}

func TestTableColor(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Color: true, Highlight: NoHighlight})

	require.NoError(t, r.Table(interpret(t, "A"), ""))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestTableNil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, New(&buf, Options{}).Table(nil, ""))
}

func TestRow(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Highlight: NoHighlight})
	table := interpret(t, "(A OR B) AND NOT C")

	require.NoError(t, r.Row(table, 3))
	assert.Equal(t, "row 3: A=1 B=1 C=0 -> 1\n", buf.String())

	assert.Error(t, r.Row(table, 8))
	assert.Error(t, r.Row(table, -1))
}

func TestSimplifiedAndAnalysis(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Highlight: NoHighlight})
	table := interpret(t, "A AND B")

	r.Analysis(logicsim.NewInterpreter().Analyze(table))
	out := buf.String()
	assert.Contains(t, out, "simplified: A AND B\n")
	assert.Contains(t, out, "strategy: gate\n")
	assert.Contains(t, out, "cover:\n  A AND B\n")
}

func TestErrorShowsCarets(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Highlight: NoHighlight})

	_, err := logicsim.Interpret("A B")
	require.Error(t, err)
	r.Error(err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "error: parse failed", lines[0])
	assert.Equal(t, "  A B", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "    ^ "), lines[2])
}

func TestErrorUnwrapsParseError(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Highlight: NoHighlight})

	_, err := logicsim.Interpret("(A AND B")
	require.Error(t, err)
	r.Error(fmt.Errorf("evaluate %q: %w", "(A AND B", err))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "error: parse failed", lines[0])
	assert.Equal(t, "  (A AND B", lines[1])
	assert.Equal(t, "          ^ expected ')', got end of input", lines[2])
}

func TestErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{}).Error(errors.New("boom"))
	assert.Equal(t, "error: boom\n", buf.String())
}
