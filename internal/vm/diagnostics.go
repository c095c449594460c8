package vm

import (
	"fmt"

	"github.com/fcasibu/logic-sim/internal/bytecode"
)

// TraceInfo describes a single instruction dispatch for debugging/tracing.
type TraceInfo struct {
	Op     byte
	Name   string
	Offset int
	Column int
	Depth  int
	Base   uint64
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// RuntimeError carries the failing instruction for VM failures. Code
// produced by the compiler never triggers one.
type RuntimeError struct {
	Message string
	Op      byte
	Offset  int
	Column  int
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Offset < 0 {
		return e.Message
	}
	if e.Column > 0 {
		return fmt.Sprintf("offset %04d (col %d, %s): %s", e.Offset, e.Column, opName(e.Op), e.Message)
	}
	return fmt.Sprintf("offset %04d (%s): %s", e.Offset, opName(e.Op), e.Message)
}

// Unwrap exposes the original error, if any.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

func (vm *VM) errorf(format string, args ...interface{}) error {
	return vm.newRuntimeError(fmt.Sprintf(format, args...), nil)
}

func (vm *VM) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	return vm.newRuntimeError(err.Error(), err)
}

func (vm *VM) newRuntimeError(msg string, cause error) *RuntimeError {
	rerr := &RuntimeError{
		Message: msg,
		Offset:  vm.lastOp,
		Cause:   cause,
	}
	if vm.chunk != nil && vm.lastOp >= 0 && vm.lastOp < len(vm.chunk.Code) {
		rerr.Op = vm.chunk.Code[vm.lastOp]
		rerr.Column = columnForOffset(vm.chunk, vm.lastOp)
	}
	return rerr
}

func (vm *VM) trace(op byte) {
	if vm.traceHook == nil {
		return
	}
	vm.traceHook(TraceInfo{
		Op:     op,
		Name:   opName(op),
		Offset: vm.lastOp,
		Column: columnForOffset(vm.chunk, vm.lastOp),
		Depth:  len(vm.stack),
		Base:   vm.base,
	})
}

func opName(op byte) string {
	if info, ok := bytecode.LookupOpInfo(op); ok {
		return info.Name
	}
	return fmt.Sprintf("OP_0x%02X", op)
}

func columnForOffset(chunk *bytecode.Chunk, offset int) int {
	if chunk == nil || offset < 0 {
		return 0
	}
	col := 0
	for _, info := range chunk.Columns {
		if offset < info.Offset {
			break
		}
		col = info.Column
	}
	return col
}
