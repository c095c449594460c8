package bytecode

import (
	"fmt"

	"github.com/fcasibu/logic-sim/internal/intern"
)

// Chunk is a compiled program: the bytecode and the variables it reads.
type Chunk struct {
	Code    []byte
	Vars    []Binding
	Columns []ColumnInfo

	// MaxDepth is the deepest the operand stack gets while running Code.
	MaxDepth int
}

// Binding ties an interned variable name to the slot the bytecode uses.
type Binding struct {
	Name   string
	Symbol intern.Symbol
	Slot   uint8
}

// ColumnInfo maps bytecode offsets to source columns (start-inclusive).
type ColumnInfo struct {
	Offset int
	Column int
}

// Write appends raw bytes to the code stream.
func (c *Chunk) Write(b ...byte) {
	c.Code = append(c.Code, b...)
}

// AddVar returns the slot bound to sym, binding the next free slot if sym
// has not been seen. Bindings are compared by symbol, never by name.
func (c *Chunk) AddVar(sym intern.Symbol, name string) (uint8, error) {
	for _, b := range c.Vars {
		if b.Symbol == sym {
			return b.Slot, nil
		}
	}
	if len(c.Vars) >= MaxVars {
		return 0, fmt.Errorf("too many variables: %s would be number %d, limit is %d", name, len(c.Vars)+1, MaxVars)
	}
	slot := uint8(len(c.Vars))
	c.Vars = append(c.Vars, Binding{Name: name, Symbol: sym, Slot: slot})
	return slot, nil
}

// VarNames returns the bound names in slot order.
func (c *Chunk) VarNames() []string {
	names := make([]string, len(c.Vars))
	for i, b := range c.Vars {
		names[i] = b.Name
	}
	return names
}
