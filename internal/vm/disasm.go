package vm

import (
	"fmt"
	"io"

	"github.com/fcasibu/logic-sim/internal/bytecode"
)

// Disassemble emits assembly-style bytecode output for the loaded chunk.
func (vm *VM) Disassemble(w io.Writer, label string) error {
	if vm == nil {
		return fmt.Errorf("nil VM")
	}
	if w == nil {
		return fmt.Errorf("nil writer")
	}
	if vm.chunk == nil {
		return fmt.Errorf("no program loaded")
	}
	return bytecode.NewDisassembler(w).DisassembleChunk(label, vm.chunk)
}
