// Package truthtable builds bit-packed truth tables by running compiled
// programs 64 rows at a time.
package truthtable

import (
	"fmt"
	"math/bits"

	"github.com/fcasibu/logic-sim/internal/bytecode"
	"github.com/fcasibu/logic-sim/internal/vm"
)

// MaxRows is the largest table a program can produce.
const MaxRows = 1 << bytecode.MaxVars

// Table is an immutable truth table. Bit k of a row index is the value of
// the variable in slot k; bit i of word w holds the result for row 64w+i.
type Table struct {
	vars  []string
	rows  int
	words []uint64
}

// Build evaluates chunk across every assignment of its variables. A nil
// machine gets a fresh VM.
func Build(chunk *bytecode.Chunk, machine *vm.VM) (*Table, error) {
	if chunk == nil {
		return nil, fmt.Errorf("nil chunk")
	}
	if machine == nil {
		machine = vm.New()
	}
	if err := machine.Load(chunk); err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}

	t := newTable(chunk.VarNames())
	for w := range t.words {
		word, err := machine.Run(uint64(w) * vm.Lanes)
		if err != nil {
			return nil, fmt.Errorf("evaluate rows %d-%d: %w", w*vm.Lanes, w*vm.Lanes+vm.Lanes-1, err)
		}
		t.words[w] = word & t.wordMask(w)
	}
	return t, nil
}

// FromMinterms builds a table over vars that is true exactly at the given
// rows.
func FromMinterms(vars []string, minterms ...int) (*Table, error) {
	if len(vars) > bytecode.MaxVars {
		return nil, fmt.Errorf("%d variables, limit is %d", len(vars), bytecode.MaxVars)
	}
	t := newTable(append([]string(nil), vars...))
	for _, m := range minterms {
		if m < 0 || m >= t.rows {
			return nil, fmt.Errorf("minterm %d out of range [0, %d)", m, t.rows)
		}
		t.words[m/vm.Lanes] |= 1 << uint(m%vm.Lanes)
	}
	return t, nil
}

func newTable(vars []string) *Table {
	rows := 1 << len(vars)
	return &Table{
		vars:  vars,
		rows:  rows,
		words: make([]uint64, (rows+vm.Lanes-1)/vm.Lanes),
	}
}

// wordMask keeps only the lanes of word w that stand for real rows.
func (t *Table) wordMask(w int) uint64 {
	remaining := t.rows - w*vm.Lanes
	if remaining >= vm.Lanes {
		return ^uint64(0)
	}
	return (uint64(1) << uint(remaining)) - 1
}

// Vars returns the variable names in slot order.
func (t *Table) Vars() []string {
	return append([]string(nil), t.vars...)
}

// NumVars reports the number of variables.
func (t *Table) NumVars() int {
	return len(t.vars)
}

// RowCount reports 2^NumVars.
func (t *Table) RowCount() int {
	return t.rows
}

// Words returns a copy of the packed result vector.
func (t *Table) Words() []uint64 {
	return append([]uint64(nil), t.words...)
}

// ValueAt reports the expression's value at row. row must be in
// [0, RowCount).
func (t *Table) ValueAt(row int) bool {
	if row < 0 || row >= t.rows {
		panic(fmt.Sprintf("truthtable: row %d out of range [0, %d)", row, t.rows))
	}
	return t.words[row/vm.Lanes]>>uint(row%vm.Lanes)&1 == 1
}

// VarValue reports the value variable slot takes in row.
func (t *Table) VarValue(row, slot int) bool {
	return (row>>uint(slot))&1 == 1
}

// TrueCount reports the number of rows where the expression holds.
func (t *Table) TrueCount() int {
	n := 0
	for _, w := range t.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Minterms returns the true rows in ascending order.
func (t *Table) Minterms() []int {
	out := make([]int, 0, t.TrueCount())
	for w, word := range t.words {
		for word != 0 {
			i := bits.TrailingZeros64(word)
			out = append(out, w*vm.Lanes+i)
			word &= word - 1
		}
	}
	return out
}

// IsConstant reports whether every row has the same value, and which.
func (t *Table) IsConstant() (value, ok bool) {
	switch t.TrueCount() {
	case 0:
		return false, true
	case t.rows:
		return true, true
	}
	return false, false
}

// Equal reports whether t and other have the same variables in the same
// order and the same results.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.rows != other.rows || len(t.vars) != len(other.vars) {
		return false
	}
	for i := range t.vars {
		if t.vars[i] != other.vars[i] {
			return false
		}
	}
	for i := range t.words {
		if t.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	return fmt.Sprintf("truthtable%v rows=%d true=%d", t.vars, t.rows, t.TrueCount())
}
