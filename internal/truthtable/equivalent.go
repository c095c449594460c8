package truthtable

// Equivalent reports whether a and b compute the same function when
// variables are matched by name. A variable present in only one table is
// a don't-care for the other, so "A OR NOT A" is equivalent to "B OR NOT B".
func Equivalent(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}

	union := append([]string(nil), a.vars...)
	index := make(map[string]int, len(a.vars)+len(b.vars))
	for i, name := range a.vars {
		index[name] = i
	}
	for _, name := range b.vars {
		if _, ok := index[name]; !ok {
			index[name] = len(union)
			union = append(union, name)
		}
	}

	aSlots := slotsIn(a.vars, index)
	bSlots := slotsIn(b.vars, index)
	for assignment := 0; assignment < 1<<len(union); assignment++ {
		if a.ValueAt(project(assignment, aSlots)) != b.ValueAt(project(assignment, bSlots)) {
			return false
		}
	}
	return true
}

// slotsIn maps each table slot to its position in the union.
func slotsIn(vars []string, index map[string]int) []int {
	out := make([]int, len(vars))
	for i, name := range vars {
		out[i] = index[name]
	}
	return out
}

// project turns an assignment over the union into a row of one table.
func project(assignment int, slots []int) int {
	row := 0
	for slot, pos := range slots {
		row |= (assignment >> uint(pos) & 1) << uint(slot)
	}
	return row
}
