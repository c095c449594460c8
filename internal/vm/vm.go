package vm

import (
	"fmt"

	"github.com/fcasibu/logic-sim/internal/bytecode"
)

// VM is a stack machine whose values are 64-lane words: one Run evaluates
// the loaded chunk for 64 consecutive truth-table rows at once.
type VM struct {
	chunk     *bytecode.Chunk
	stack     []uint64
	maxStack  int
	traceHook TraceHook
	base      uint64
	ip        int
	lastOp    int
}

// defaultMaxStack is the floor of the automatic stack limit, so that
// hand-built chunks without a recorded depth still run.
const defaultMaxStack = 256

// New constructs an empty VM instance.
func New() *VM {
	return &VM{
		stack:  make([]uint64, 0, 32),
		lastOp: -1,
	}
}

// SetTraceHook registers a callback for instruction-level tracing.
func (vm *VM) SetTraceHook(h TraceHook) {
	vm.traceHook = h
}

// SetMaxStack caps the operand stack depth. Values below 1 restore the
// automatic limit, which is large enough for any loaded chunk.
func (vm *VM) SetMaxStack(n int) {
	if n < 1 {
		n = 0
	}
	vm.maxStack = n
}

func (vm *VM) stackLimit() int {
	if vm.maxStack > 0 {
		return vm.maxStack
	}
	if vm.chunk != nil && vm.chunk.MaxDepth > defaultMaxStack {
		return vm.chunk.MaxDepth
	}
	return defaultMaxStack
}

// Load installs chunk as the program executed by Run.
func (vm *VM) Load(chunk *bytecode.Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	if len(chunk.Vars) > bytecode.MaxVars {
		return fmt.Errorf("chunk binds %d variables, limit is %d", len(chunk.Vars), bytecode.MaxVars)
	}
	vm.chunk = chunk
	if cap(vm.stack) < chunk.MaxDepth {
		vm.stack = make([]uint64, 0, chunk.MaxDepth)
	}
	vm.ResetState()
	return nil
}

// Chunk returns the loaded program, or nil.
func (vm *VM) Chunk() *bytecode.Chunk {
	return vm.chunk
}

// ResetState clears transient execution state.
func (vm *VM) ResetState() {
	vm.stack = vm.stack[:0]
	vm.ip = 0
	vm.lastOp = -1
	vm.base = 0
}

// Run evaluates the loaded chunk for rows base..base+63. Bit i of the
// result is the expression's value at row base+i.
func (vm *VM) Run(base uint64) (uint64, error) {
	vm.ResetState()
	if vm.chunk == nil {
		return 0, vm.errorf("no program loaded")
	}
	if base%Lanes != 0 {
		return 0, vm.errorf("base row %d is not a multiple of %d", base, Lanes)
	}
	vm.base = base

	code := vm.chunk.Code
	if len(code) == 0 {
		return 0, vm.errorf("empty program")
	}
	for vm.ip < len(code) {
		vm.lastOp = vm.ip
		op := code[vm.ip]
		vm.ip++
		vm.trace(op)
		if entry, ok := lookupBuiltin(op); ok {
			if err := vm.runBuiltin(entry); err != nil {
				return 0, err
			}
			continue
		}
		switch op {
		case bytecode.OP_VAR:
			slot, err := vm.readU8()
			if err != nil {
				return 0, vm.wrapError(err)
			}
			if !validSlot(slot) {
				return 0, vm.errorf("variable slot %d out of range", slot)
			}
			if err := vm.checkPush(); err != nil {
				return 0, err
			}
			vm.push(VarWord(slot, base))
		case bytecode.OP_NOT:
			if err := vm.checkOperands("NOT", op); err != nil {
				return 0, err
			}
			vm.push(^vm.pop())
		default:
			return 0, vm.errorf("unknown opcode 0x%02X", op)
		}
	}

	if len(vm.stack) != 1 {
		vm.lastOp = -1
		return 0, vm.errorf("program left %d values on the stack, want 1", len(vm.stack))
	}
	return vm.pop(), nil
}

func (vm *VM) checkPush() error {
	if limit := vm.stackLimit(); len(vm.stack) >= limit {
		return vm.errorf("stack overflow (max %d)", limit)
	}
	return nil
}

// checkOperands fails when the stack holds fewer values than op pops.
func (vm *VM) checkOperands(name string, op byte) error {
	info, _ := bytecode.LookupOpInfo(op)
	if len(vm.stack) >= info.Pops {
		return nil
	}
	noun := "operands"
	if info.Pops == 1 {
		noun = "operand"
	}
	return vm.errorf("%s expects %d %s, stack has %d", name, info.Pops, noun, len(vm.stack))
}

func (vm *VM) push(w uint64) {
	vm.stack = append(vm.stack, w)
}

func (vm *VM) pop() uint64 {
	n := len(vm.stack) - 1
	w := vm.stack[n]
	vm.stack = vm.stack[:n]
	return w
}

func (vm *VM) readU8() (byte, error) {
	code := vm.chunk.Code
	if vm.ip >= len(code) {
		return 0, fmt.Errorf("unexpected end of bytecode")
	}
	b := code[vm.ip]
	vm.ip++
	return b, nil
}
