package compiler

import (
	"github.com/fcasibu/logic-sim/internal/intern"
)

// scope resolves identifiers to variable slots of the chunk being compiled.
type scope struct {
	pool  *intern.Pool
	chunk *Chunk
}

func newScope(pool *intern.Pool, chunk *Chunk) *scope {
	return &scope{
		pool:  pool,
		chunk: chunk,
	}
}

// resolve interns name and returns its slot, binding a new slot on first
// use.
func (s *scope) resolve(name string) (uint8, error) {
	sym := s.pool.Intern(name)
	return s.chunk.AddVar(sym, s.pool.Name(sym))
}
