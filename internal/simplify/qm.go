package simplify

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// PrimeImplicants runs the Quine-McCluskey merge phase over the given
// minterms. Merged terms are deduplicated per generation; a term never
// merged in its generation is prime.
func PrimeImplicants(minterms []int) []Implicant {
	current := make([]Implicant, 0, len(minterms))
	for _, m := range minterms {
		current = append(current, Implicant{Value: uint16(m)})
	}

	var primes []Implicant
	for len(current) > 0 {
		used := make([]bool, len(current))
		seen := mapset.NewThreadUnsafeSet[Implicant]()
		var next []Implicant

		for i := range current {
			for j := i + 1; j < len(current); j++ {
				merged, ok := merge(current[i], current[j])
				if !ok {
					continue
				}
				used[i], used[j] = true, true
				if seen.Add(merged) {
					next = append(next, merged)
				}
			}
		}

		for i, imp := range current {
			if !used[i] {
				primes = append(primes, imp)
			}
		}
		current = next
	}
	return primes
}

// selectCover picks the essential primes: those that are the only cover
// of some minterm, in minterm order. With no essential prime every prime
// is kept. Minterms the essentials leave uncovered are then covered
// greedily, taking the prime that covers the most of them.
func selectCover(primes []Implicant, minterms []int) []Implicant {
	chosen := make([]bool, len(primes))
	var cover []Implicant

	for _, m := range minterms {
		count, last := 0, 0
		for j, p := range primes {
			if p.Covers(m) {
				count++
				last = j
			}
		}
		if count == 1 && !chosen[last] {
			chosen[last] = true
			cover = append(cover, primes[last])
		}
	}

	if len(cover) == 0 {
		return append([]Implicant(nil), primes...)
	}

	uncovered := mapset.NewSet[int]()
	for _, m := range minterms {
		if !coveredBy(cover, m) {
			uncovered.Add(m)
		}
	}
	for uncovered.Cardinality() > 0 {
		best, bestCount := -1, 0
		for j, p := range primes {
			if chosen[j] {
				continue
			}
			n := 0
			uncovered.Each(func(m int) bool {
				if p.Covers(m) {
					n++
				}
				return false
			})
			if n > bestCount {
				best, bestCount = j, n
			}
		}
		if best < 0 {
			// unreachable: every minterm has at least one prime
			break
		}
		chosen[best] = true
		cover = append(cover, primes[best])
		for _, m := range uncovered.ToSlice() {
			if primes[best].Covers(m) {
				uncovered.Remove(m)
			}
		}
	}
	return cover
}

func coveredBy(cover []Implicant, minterm int) bool {
	for _, imp := range cover {
		if imp.Covers(minterm) {
			return true
		}
	}
	return false
}
