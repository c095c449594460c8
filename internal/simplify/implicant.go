package simplify

import (
	"math/bits"
	"strings"
)

// Implicant is a product term over a table's variables. Mask bits are
// don't-cares; Value holds the required value of every other bit and is
// zero wherever Mask is set.
type Implicant struct {
	Value uint16
	Mask  uint16
}

// Covers reports whether the minterm row satisfies the term.
func (imp Implicant) Covers(minterm int) bool {
	return uint16(minterm)&^imp.Mask == imp.Value
}

// merge combines two implicants with the same mask whose values differ in
// exactly one bit.
func merge(a, b Implicant) (Implicant, bool) {
	if a.Mask != b.Mask {
		return Implicant{}, false
	}
	diff := a.Value ^ b.Value
	if bits.OnesCount16(diff) != 1 {
		return Implicant{}, false
	}
	return Implicant{Value: a.Value &^ diff, Mask: a.Mask | diff}, true
}

// Minterms expands the term into every row of an n-variable table it
// covers.
func (imp Implicant) Minterms(n int) []int {
	var out []int
	for row := 0; row < 1<<n; row++ {
		if imp.Covers(row) {
			out = append(out, row)
		}
	}
	return out
}

// Format renders the term as a conjunction of literals over vars, in slot
// order. A term with no fixed bits renders as the empty string.
func (imp Implicant) Format(vars []string) string {
	return conjunction(vars, ^imp.Mask, imp.Value)
}

// conjunction renders the literals selected by fixed, negating those whose
// bit in value is clear.
func conjunction(vars []string, fixed, value uint16) string {
	var sb strings.Builder
	for i, name := range vars {
		if (fixed>>uint(i))&1 == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" AND ")
		}
		if (value>>uint(i))&1 == 0 {
			sb.WriteString("NOT ")
		}
		sb.WriteString(name)
	}
	return sb.String()
}

func allMask(n int) uint16 {
	return uint16(1<<uint(n)) - 1
}
