package bytecode

// OpCode enumerates bytecode operations. OP_VAR carries one operand byte
// (the variable slot); every other opcode is nullary.
const (
	OP_VAR byte = iota
	OP_AND
	OP_OR
	OP_XOR
	OP_XNOR
	OP_NOT
	OP_NAND
	OP_NOR
	OP_IMPLY
)

// MaxVars is the number of distinct variables a program may bind.
const MaxVars = 10
