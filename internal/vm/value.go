package vm

import "github.com/fcasibu/logic-sim/internal/bytecode"

// Lanes is the number of truth-table rows evaluated by one Run.
const Lanes = 64

// laneMasks holds, for the low six slots, the pattern a variable takes
// across 64 consecutive rows: bit i of the word is bit slot of row i.
var laneMasks = [6]uint64{
	0xAAAAAAAAAAAAAAAA,
	0xCCCCCCCCCCCCCCCC,
	0xF0F0F0F0F0F0F0F0,
	0xFF00FF00FF00FF00,
	0xFFFF0000FFFF0000,
	0xFFFFFFFF00000000,
}

// VarWord returns the 64-lane word for the variable in slot when the batch
// starts at row base. base must be a multiple of Lanes.
func VarWord(slot uint8, base uint64) uint64 {
	if int(slot) < len(laneMasks) {
		return laneMasks[slot]
	}
	// constant across the batch
	if (base>>slot)&1 != 0 {
		return ^uint64(0)
	}
	return 0
}

func validSlot(slot uint8) bool {
	return int(slot) < bytecode.MaxVars
}
