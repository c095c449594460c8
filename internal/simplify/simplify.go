// Package simplify turns a truth table back into a short boolean
// expression: Quine-McCluskey prime implicants, an essential cover, then
// two-variable gate recognition, common-factor extraction and a
// sum-of-products fallback, in that order.
package simplify

import (
	"fmt"
	"strings"

	"github.com/fcasibu/logic-sim/internal/truthtable"
)

// Strategy names the rule that produced a Result's expression.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyConstant
	StrategyGate
	StrategyFactored
	StrategySumOfProducts
)

func (s Strategy) String() string {
	switch s {
	case StrategyConstant:
		return "constant"
	case StrategyGate:
		return "gate"
	case StrategyFactored:
		return "factored"
	case StrategySumOfProducts:
		return "sum-of-products"
	default:
		return "none"
	}
}

// Result is the simplified expression plus the implicants it was built
// from.
type Result struct {
	Expr     string
	Strategy Strategy
	Primes   []Implicant
	Cover    []Implicant
}

// Simplify returns an expression equivalent to table.
func Simplify(table *truthtable.Table) string {
	return Analyze(table).Expr
}

// Analyze simplifies table and reports how. A table without variables has
// no expression.
func Analyze(table *truthtable.Table) Result {
	if table == nil || table.NumVars() == 0 {
		return Result{}
	}
	vars := table.Vars()
	n := len(vars)
	minterms := table.Minterms()

	res := Result{Primes: PrimeImplicants(minterms)}
	res.Cover = selectCover(res.Primes, minterms)

	switch {
	case len(res.Cover) == 0:
		res.Expr = fmt.Sprintf("%s AND NOT %s", vars[0], vars[0])
		res.Strategy = StrategyConstant
		return res
	case len(res.Cover) == 1 && res.Cover[0].Mask == allMask(n):
		res.Expr = fmt.Sprintf("%s OR NOT %s", vars[0], vars[0])
		res.Strategy = StrategyConstant
		return res
	}

	if gate, ok := recognizeGate(res.Cover, vars); ok {
		res.Expr = gate
		res.Strategy = StrategyGate
		return res
	}

	if expr, ok := factorGate(res.Cover, vars); ok {
		res.Expr = expr
		res.Strategy = StrategyFactored
		return res
	}

	res.Expr = sumOfProducts(res.Cover, vars)
	res.Strategy = StrategySumOfProducts
	return res
}

// Cover returns the implicants selected for table, in selection order.
func Cover(table *truthtable.Table) []Implicant {
	return Analyze(table).Cover
}

// factorGate pulls out the literals every implicant fixes to the same value
// and retries gate recognition on what is left.
func factorGate(cover []Implicant, vars []string) (string, bool) {
	all := allMask(len(vars))
	var commonMask, commonValue uint16
	for i, imp := range cover {
		fixed := ^imp.Mask & all
		if i == 0 {
			commonMask = fixed
			commonValue = imp.Value & fixed
			continue
		}
		commonMask &= fixed &^ (commonValue ^ imp.Value)
		commonValue &= commonMask
	}
	if commonMask == 0 {
		return "", false
	}

	reduced := make([]Implicant, len(cover))
	for i, imp := range cover {
		reduced[i] = Implicant{
			Value: imp.Value &^ commonMask,
			Mask:  imp.Mask | commonMask,
		}
	}
	inner, ok := recognizeGate(reduced, vars)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("(%s) AND (%s)", inner, conjunction(vars, commonMask, commonValue)), true
}

func sumOfProducts(cover []Implicant, vars []string) string {
	terms := make([]string, len(cover))
	for i, imp := range cover {
		term := imp.Format(vars)
		if len(cover) > 1 && strings.Contains(term, " AND ") {
			term = "(" + term + ")"
		}
		terms[i] = term
	}
	return strings.Join(terms, " OR ")
}
