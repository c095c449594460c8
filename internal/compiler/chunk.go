package compiler

import "github.com/fcasibu/logic-sim/internal/bytecode"

type Chunk = bytecode.Chunk
type Binding = bytecode.Binding
type ColumnInfo = bytecode.ColumnInfo
