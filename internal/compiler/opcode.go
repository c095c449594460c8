package compiler

import "github.com/fcasibu/logic-sim/internal/bytecode"

const (
	OP_VAR   = bytecode.OP_VAR
	OP_AND   = bytecode.OP_AND
	OP_OR    = bytecode.OP_OR
	OP_XOR   = bytecode.OP_XOR
	OP_XNOR  = bytecode.OP_XNOR
	OP_NOT   = bytecode.OP_NOT
	OP_NAND  = bytecode.OP_NAND
	OP_NOR   = bytecode.OP_NOR
	OP_IMPLY = bytecode.OP_IMPLY

	MaxVars = bytecode.MaxVars
)
