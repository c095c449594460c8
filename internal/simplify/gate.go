package simplify

import "fmt"

// gateShape renders a recognized two-input function. The signature bit
// i is the function's value for a = i&1, b = i>>1, where a is the lower
// slot of the two inputs.
type gateShape struct {
	op      string
	swapped bool
}

var gateShapes = map[uint8]gateShape{
	0x1: {op: "NOR"},
	0x6: {op: "XOR"},
	0x7: {op: "NAND"},
	0x8: {op: "AND"},
	0x9: {op: "XNOR"},
	0xB: {op: "IMPLY", swapped: true},
	0xD: {op: "IMPLY"},
	0xE: {op: "OR"},
}

// activeVars returns the slots some implicant fixes.
func activeVars(imps []Implicant, n int) []int {
	var fixed uint16
	all := allMask(n)
	for _, imp := range imps {
		fixed |= ^imp.Mask & all
	}
	var out []int
	for i := 0; i < n; i++ {
		if (fixed>>uint(i))&1 == 1 {
			out = append(out, i)
		}
	}
	return out
}

// gateSignature evaluates the union of imps at the four assignments of
// slots a and b. Every other slot must be free in every implicant.
func gateSignature(imps []Implicant, a, b int) uint8 {
	var sig uint8
	for i := 0; i < 4; i++ {
		va := uint16(i & 1)
		vb := uint16(i >> 1)
		for _, imp := range imps {
			if !consistent(imp, a, va) || !consistent(imp, b, vb) {
				continue
			}
			sig |= 1 << uint(i)
			break
		}
	}
	return sig
}

func consistent(imp Implicant, slot int, v uint16) bool {
	if (imp.Mask>>uint(slot))&1 == 1 {
		return true
	}
	return (imp.Value>>uint(slot))&1 == v
}

// recognizeGate renders imps as "A GATE B" when they depend on exactly two
// variables and form one of the recognized shapes.
func recognizeGate(imps []Implicant, vars []string) (string, bool) {
	active := activeVars(imps, len(vars))
	if len(active) != 2 {
		return "", false
	}
	shape, ok := gateShapes[gateSignature(imps, active[0], active[1])]
	if !ok {
		return "", false
	}
	lhs, rhs := vars[active[0]], vars[active[1]]
	if shape.swapped {
		lhs, rhs = rhs, lhs
	}
	return fmt.Sprintf("%s %s %s", lhs, shape.op, rhs), true
}
