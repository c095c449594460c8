// Package intern deduplicates variable names so that later stages can
// compare them by handle instead of by content.
package intern

// Symbol is the canonical handle for an interned name. Two symbols from
// the same pool are equal iff the interned strings are equal.
type Symbol int

// Pool is a growable set of canonical strings. A Pool is owned by a
// single evaluation and is not safe for concurrent use.
type Pool struct {
	index map[string]Symbol
	names []string
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{
		index: make(map[string]Symbol),
		names: make([]string, 0, 10),
	}
}

// Intern returns the symbol for s, storing a copy of s on first sight.
func (p *Pool) Intern(s string) Symbol {
	if sym, ok := p.index[s]; ok {
		return sym
	}
	// detach from the source text the name was sliced from
	name := string([]byte(s))
	sym := Symbol(len(p.names))
	p.names = append(p.names, name)
	p.index[name] = sym
	return sym
}

// Lookup returns the symbol for s without interning it.
func (p *Pool) Lookup(s string) (Symbol, bool) {
	sym, ok := p.index[s]
	return sym, ok
}

// Name returns the canonical string for sym.
func (p *Pool) Name(sym Symbol) string {
	if int(sym) < 0 || int(sym) >= len(p.names) {
		return ""
	}
	return p.names[sym]
}

// Len reports the number of distinct names interned so far.
func (p *Pool) Len() int {
	return len(p.names)
}

// Reset empties the pool. Symbols handed out before the reset must not be
// used afterwards.
func (p *Pool) Reset() {
	clear(p.index)
	p.names = p.names[:0]
}
