package vm_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcasibu/logic-sim/internal/bytecode"
	"github.com/fcasibu/logic-sim/internal/compiler"
	"github.com/fcasibu/logic-sim/internal/intern"
	"github.com/fcasibu/logic-sim/internal/vm"
)

func loadSource(t *testing.T, src string) *vm.VM {
	t.Helper()
	chunk, err := compiler.Compile(src, intern.New())
	require.NoError(t, err, "compile %q", src)
	machine := vm.New()
	require.NoError(t, machine.Load(chunk))
	return machine
}

func runSource(t *testing.T, src string, base uint64) uint64 {
	t.Helper()
	word, err := loadSource(t, src).Run(base)
	require.NoError(t, err)
	return word
}

func TestVMOperators(t *testing.T) {
	tests := []struct {
		src  string
		want uint64
	}{
		{"A", 0xAAAAAAAAAAAAAAAA},
		{"NOT A", 0x5555555555555555},
		{"A AND B", 0x8888888888888888},
		{"A OR B", 0xEEEEEEEEEEEEEEEE},
		{"A XOR B", 0x6666666666666666},
		{"A XNOR B", 0x9999999999999999},
		{"A NAND B", 0x7777777777777777},
		{"A NOR B", 0x1111111111111111},
		{"A IMPLY B", 0xDDDDDDDDDDDDDDDD},
		// slots follow first appearance, so B is slot 0 here
		{"B IMPLY A", 0xDDDDDDDDDDDDDDDD},
		{"A OR NOT B", 0xBBBBBBBBBBBBBBBB},
		{"A AND NOT A", 0},
		{"A OR NOT A", ^uint64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, runSource(t, tt.src, 0))
		})
	}
}

func TestVMLaneMasks(t *testing.T) {
	want := []uint64{
		0xAAAAAAAAAAAAAAAA,
		0xCCCCCCCCCCCCCCCC,
		0xF0F0F0F0F0F0F0F0,
		0xFF00FF00FF00FF00,
		0xFFFF0000FFFF0000,
		0xFFFFFFFF00000000,
	}
	for slot, w := range want {
		assert.Equal(t, w, vm.VarWord(uint8(slot), 0), "slot %d", slot)
		// low slots do not depend on the batch
		assert.Equal(t, w, vm.VarWord(uint8(slot), 640), "slot %d", slot)
	}

	// every lane agrees with the row number it stands for
	for slot := uint8(0); slot < 6; slot++ {
		w := vm.VarWord(slot, 0)
		for lane := uint(0); lane < vm.Lanes; lane++ {
			assert.Equal(t, (lane>>slot)&1, uint((w>>lane)&1), "slot %d lane %d", slot, lane)
		}
	}
}

func TestVMHighSlotsAreConstantPerBatch(t *testing.T) {
	tests := []struct {
		slot uint8
		base uint64
		want uint64
	}{
		{6, 0, 0},
		{6, 64, ^uint64(0)},
		{6, 128, 0},
		{6, 192, ^uint64(0)},
		{7, 64, 0},
		{7, 128, ^uint64(0)},
		{8, 256, ^uint64(0)},
		{9, 256, 0},
		{9, 512, ^uint64(0)},
		{9, 1023 &^ 63, ^uint64(0)},
	}

	for _, tt := range tests {
		chunk := &bytecode.Chunk{Code: []byte{bytecode.OP_VAR, tt.slot}}
		machine := vm.New()
		require.NoError(t, machine.Load(chunk))
		got, err := machine.Run(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "slot %d base %d", tt.slot, tt.base)
	}
}

func TestVMTenVariables(t *testing.T) {
	machine := loadSource(t, "A AND B AND C AND D AND E AND F AND G AND H AND I AND J")

	for base := uint64(0); base < 1024; base += vm.Lanes {
		got, err := machine.Run(base)
		require.NoError(t, err)
		if base == 1024-vm.Lanes {
			assert.Equal(t, uint64(1)<<63, got)
		} else {
			assert.Zero(t, got, "base %d", base)
		}
	}
}

func TestVMRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		msg  string
	}{
		{"empty program", nil, "empty program"},
		{"unknown opcode", []byte{0x7F}, "unknown opcode"},
		{"binary underflow", []byte{bytecode.OP_VAR, 0, bytecode.OP_AND}, "expects 2 operands"},
		{"not underflow", []byte{bytecode.OP_NOT}, "expects 1 operand"},
		{"truncated operand", []byte{bytecode.OP_VAR}, "unexpected end of bytecode"},
		{"slot out of range", []byte{bytecode.OP_VAR, bytecode.MaxVars}, "out of range"},
		{"unbalanced", []byte{bytecode.OP_VAR, 0, bytecode.OP_VAR, 1}, "left 2 values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := vm.New()
			require.NoError(t, machine.Load(&bytecode.Chunk{Code: tt.code}))
			_, err := machine.Run(0)
			require.Error(t, err)

			var rerr *vm.RuntimeError
			require.True(t, errors.As(err, &rerr))
			assert.Contains(t, rerr.Message, tt.msg)
		})
	}
}

func TestVMRuntimeErrorLocation(t *testing.T) {
	chunk := &bytecode.Chunk{
		Code:    []byte{bytecode.OP_VAR, 0, bytecode.OP_XOR},
		Columns: []bytecode.ColumnInfo{{Offset: 0, Column: 1}, {Offset: 2, Column: 3}},
	}
	machine := vm.New()
	require.NoError(t, machine.Load(chunk))

	_, err := machine.Run(0)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 2, rerr.Offset)
	assert.Equal(t, 3, rerr.Column)
	assert.Equal(t, byte(bytecode.OP_XOR), rerr.Op)
	assert.Equal(t, "offset 0002 (col 3, OP_XOR): XOR expects 2 operands, stack has 1", err.Error())
}

func TestVMRejectsMisalignedBase(t *testing.T) {
	machine := loadSource(t, "A")
	_, err := machine.Run(3)
	assert.Error(t, err)
}

func TestVMWithoutProgram(t *testing.T) {
	machine := vm.New()
	assert.Error(t, machine.Load(nil))
	_, err := machine.Run(0)
	assert.Error(t, err)
	assert.Nil(t, machine.Chunk())
}

func TestVMStackLimit(t *testing.T) {
	machine := loadSource(t, "A AND B")
	machine.SetMaxStack(1)
	_, err := machine.Run(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack overflow")

	machine.SetMaxStack(0)
	_, err = machine.Run(0)
	assert.NoError(t, err)
}

func TestVMStackFollowsProgramDepth(t *testing.T) {
	src := strings.Repeat("A AND (", 300) + "B" + strings.Repeat(")", 300)
	machine := loadSource(t, src)
	require.Equal(t, 301, machine.Chunk().MaxDepth)

	got, err := machine.Run(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x8888888888888888), got)

	// an explicit cap still applies
	machine.SetMaxStack(256)
	_, err = machine.Run(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack overflow (max 256)")
}

func TestVMHandBuiltChunkUsesDefaultLimit(t *testing.T) {
	code := make([]byte, 0, 2*300)
	for i := 0; i < 300; i++ {
		code = append(code, bytecode.OP_VAR, 0)
	}
	machine := vm.New()
	require.NoError(t, machine.Load(&bytecode.Chunk{Code: code}))

	_, err := machine.Run(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack overflow (max 256)")
}

func TestVMTraceHook(t *testing.T) {
	machine := loadSource(t, "NOT A OR B")

	var trace []vm.TraceInfo
	machine.SetTraceHook(func(info vm.TraceInfo) {
		trace = append(trace, info)
	})
	_, err := machine.Run(64)
	require.NoError(t, err)

	names := make([]string, len(trace))
	for i, info := range trace {
		names[i] = info.Name
	}
	assert.Equal(t, []string{"OP_VAR", "OP_NOT", "OP_VAR", "OP_OR"}, names)
	assert.Equal(t, []int{0, 2, 3, 5}, []int{trace[0].Offset, trace[1].Offset, trace[2].Offset, trace[3].Offset})
	assert.Equal(t, 2, trace[3].Depth)
	assert.Equal(t, uint64(64), trace[0].Base)
	assert.Equal(t, 7, trace[3].Column)
}

func TestVMDisassemble(t *testing.T) {
	machine := loadSource(t, "A IMPLY B")

	var buf bytes.Buffer
	require.NoError(t, machine.Disassemble(&buf, "imply"))
	assert.Contains(t, buf.String(), "program imply (vars=2, bytes=5) [0=A 1=B]")
	assert.Contains(t, buf.String(), "OP_IMPLY")

	assert.Error(t, vm.New().Disassemble(&buf, ""))
}
