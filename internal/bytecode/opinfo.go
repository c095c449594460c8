package bytecode

// OpInfo describes an opcode for validation and disassembly.
type OpInfo struct {
	Name     string
	Opcode   byte
	Pops     int
	Pushes   int
	Operands int
}

// StackEffect is the net change in stack depth after the instruction runs.
func (i OpInfo) StackEffect() int {
	return i.Pushes - i.Pops
}

var opInfo = map[byte]OpInfo{
	OP_VAR:   {Name: "OP_VAR", Opcode: OP_VAR, Pops: 0, Pushes: 1, Operands: 1},
	OP_AND:   {Name: "OP_AND", Opcode: OP_AND, Pops: 2, Pushes: 1},
	OP_OR:    {Name: "OP_OR", Opcode: OP_OR, Pops: 2, Pushes: 1},
	OP_XOR:   {Name: "OP_XOR", Opcode: OP_XOR, Pops: 2, Pushes: 1},
	OP_XNOR:  {Name: "OP_XNOR", Opcode: OP_XNOR, Pops: 2, Pushes: 1},
	OP_NOT:   {Name: "OP_NOT", Opcode: OP_NOT, Pops: 1, Pushes: 1},
	OP_NAND:  {Name: "OP_NAND", Opcode: OP_NAND, Pops: 2, Pushes: 1},
	OP_NOR:   {Name: "OP_NOR", Opcode: OP_NOR, Pops: 2, Pushes: 1},
	OP_IMPLY: {Name: "OP_IMPLY", Opcode: OP_IMPLY, Pops: 2, Pushes: 1},
}

// LookupOpInfo returns opcode metadata if op is part of the instruction set.
func LookupOpInfo(op byte) (OpInfo, bool) {
	info, ok := opInfo[op]
	return info, ok
}
