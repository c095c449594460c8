package bytecode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Disassembler formats bytecode as a readable assembly-style dump.
type Disassembler struct {
	w       io.Writer
	printed bool
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// DisassembleChunk emits a header listing the variable bindings followed by
// one line per instruction.
func (d *Disassembler) DisassembleChunk(label string, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	d.startSection()
	if label == "" {
		label = "<expr>"
	}
	vars := make([]string, 0, len(chunk.Vars))
	for _, b := range chunk.Vars {
		vars = append(vars, fmt.Sprintf("%d=%s", b.Slot, b.Name))
	}
	fmt.Fprintf(d.w, "program %s (vars=%d, bytes=%d) [%s]\n",
		label, len(chunk.Vars), len(chunk.Code), strings.Join(vars, " "))
	return d.disassembleCode(chunk)
}

func (d *Disassembler) startSection() {
	if d.printed {
		fmt.Fprintln(d.w)
	}
	d.printed = true
}

func (d *Disassembler) disassembleCode(chunk *Chunk) error {
	code := chunk.Code
	for ip := 0; ip < len(code); {
		offset := ip
		op := code[ip]
		ip++
		col := columnForOffset(chunk.Columns, offset)
		colStr := "-"
		if col > 0 {
			colStr = strconv.Itoa(col)
		}
		name := opName(op)
		operands, err := decodeOperands(op, chunk, &ip)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.w, "%04d %4s %-10s", offset, colStr, name)
		if operands != "" {
			fmt.Fprintf(d.w, " %s", operands)
		}
		fmt.Fprintln(d.w)
	}
	return nil
}

func decodeOperands(op byte, chunk *Chunk, ip *int) (string, error) {
	info, ok := LookupOpInfo(op)
	if !ok || info.Operands == 0 {
		return "", nil
	}
	operands := make([]string, info.Operands)
	for i := range operands {
		b, err := readU8(chunk.Code, ip)
		if err != nil {
			return "", err
		}
		operands[i] = strconv.Itoa(int(b))
		if op == OP_VAR {
			operands[i] += " ; " + formatSlot(chunk, b)
		}
	}
	return strings.Join(operands, " "), nil
}

func opName(op byte) string {
	if info, ok := LookupOpInfo(op); ok {
		return info.Name
	}
	return fmt.Sprintf("OP_0x%02X", op)
}

func formatSlot(chunk *Chunk, slot byte) string {
	if int(slot) >= len(chunk.Vars) {
		return "<invalid>"
	}
	return chunk.Vars[slot].Name
}

func columnForOffset(cols []ColumnInfo, offset int) int {
	col := 0
	for _, info := range cols {
		if info.Offset > offset {
			break
		}
		col = info.Column
	}
	return col
}

func readU8(code []byte, ip *int) (byte, error) {
	if *ip >= len(code) {
		return 0, fmt.Errorf("unexpected end of bytecode")
	}
	val := code[*ip]
	*ip = *ip + 1
	return val, nil
}
