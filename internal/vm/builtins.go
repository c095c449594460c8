package vm

import (
	"fmt"

	"github.com/fcasibu/logic-sim/internal/bytecode"
)

// BinaryHandler combines two 64-lane words.
type BinaryHandler func(a, b uint64) uint64

type builtinEntry struct {
	name    string
	opcode  byte
	handler BinaryHandler
}

var builtinRegistry = map[byte]builtinEntry{}

func registerBuiltin(name string, opcode byte, handler BinaryHandler) {
	if handler == nil {
		panic("nil builtin handler")
	}
	if _, exists := builtinRegistry[opcode]; exists {
		panic(fmt.Sprintf("builtin opcode 0x%X already registered", opcode))
	}
	builtinRegistry[opcode] = builtinEntry{
		name:    name,
		opcode:  opcode,
		handler: handler,
	}
}

func init() {
	registerBuiltin("AND", bytecode.OP_AND, func(a, b uint64) uint64 { return a & b })
	registerBuiltin("OR", bytecode.OP_OR, func(a, b uint64) uint64 { return a | b })
	registerBuiltin("XOR", bytecode.OP_XOR, func(a, b uint64) uint64 { return a ^ b })
	registerBuiltin("XNOR", bytecode.OP_XNOR, func(a, b uint64) uint64 { return ^(a ^ b) })
	registerBuiltin("NAND", bytecode.OP_NAND, func(a, b uint64) uint64 { return ^(a & b) })
	registerBuiltin("NOR", bytecode.OP_NOR, func(a, b uint64) uint64 { return ^(a | b) })
	registerBuiltin("IMPLY", bytecode.OP_IMPLY, func(a, b uint64) uint64 { return ^a | b })
}

func lookupBuiltin(op byte) (builtinEntry, bool) {
	entry, ok := builtinRegistry[op]
	return entry, ok
}

func (vm *VM) runBuiltin(entry builtinEntry) error {
	if err := vm.checkOperands(entry.name, entry.opcode); err != nil {
		return err
	}
	b := vm.pop()
	a := vm.pop()
	vm.push(entry.handler(a, b))
	return nil
}
