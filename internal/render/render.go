// Package render prints truth tables and diagnostics for the terminal.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	logicsim "github.com/fcasibu/logic-sim"
	"github.com/fcasibu/logic-sim/internal/truthtable"
)

// NoHighlight disables row highlighting.
const NoHighlight = -1

// Options controls how a Renderer prints.
type Options struct {
	Color bool
	// MaxRows limits printed rows; 0 prints all of them.
	MaxRows int
	// Highlight marks one row index, or NoHighlight.
	Highlight int
}

// Renderer writes human-readable output to w.
type Renderer struct {
	w    io.Writer
	opts Options

	trueStyle      *color.Color
	falseStyle     *color.Color
	headerStyle    *color.Color
	highlightStyle *color.Color
	errorStyle     *color.Color
	exprStyle      *color.Color
	noteStyle      *color.Color
}

// New constructs a Renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	r := &Renderer{
		w:              w,
		opts:           opts,
		trueStyle:      color.New(color.FgGreen, color.Bold),
		falseStyle:     color.New(color.FgHiBlack),
		headerStyle:    color.New(color.FgCyan, color.Bold),
		highlightStyle: color.New(color.FgYellow, color.Bold),
		errorStyle:     color.New(color.FgRed, color.Bold),
		exprStyle:      color.New(color.FgHiBlue, color.Bold),
		noteStyle:      color.New(color.FgWhite),
	}
	styles := []*color.Color{
		r.trueStyle, r.falseStyle, r.headerStyle, r.highlightStyle,
		r.errorStyle, r.exprStyle, r.noteStyle,
	}
	for _, s := range styles {
		if opts.Color {
			s.EnableColor()
		} else {
			s.DisableColor()
		}
	}
	return r
}

// Table prints every row of t, one column per variable plus a result
// column headed by label.
func (r *Renderer) Table(t *truthtable.Table, label string) error {
	if t == nil {
		return fmt.Errorf("nil truth table")
	}
	if label == "" {
		label = "OUT"
	}

	vars := t.Vars()
	header := make([]string, 0, len(vars)+2)
	header = append(header, "#")
	header = append(header, vars...)
	header = append(header, label)

	table := tablewriter.NewWriter(r.w)
	table.Header(header)

	shown := t.RowCount()
	if r.opts.MaxRows > 0 && r.opts.MaxRows < shown {
		shown = r.opts.MaxRows
	}
	for row := 0; row < shown; row++ {
		if err := table.Append(r.rowCells(t, row)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if hidden := t.RowCount() - shown; hidden > 0 {
		fmt.Fprintln(r.w, r.noteStyle.Sprintf("... %d more rows (%d true in total)", hidden, t.TrueCount()))
	}
	return nil
}

func (r *Renderer) rowCells(t *truthtable.Table, row int) []string {
	cells := make([]string, 0, t.NumVars()+2)
	index := strconv.Itoa(row)
	if row == r.opts.Highlight {
		index = r.highlightStyle.Sprint("> " + index)
	}
	cells = append(cells, index)
	for slot := 0; slot < t.NumVars(); slot++ {
		cells = append(cells, r.bit(t.VarValue(row, slot)))
	}
	return append(cells, r.bit(t.ValueAt(row)))
}

func (r *Renderer) bit(v bool) string {
	if v {
		return r.trueStyle.Sprint("1")
	}
	return r.falseStyle.Sprint("0")
}

// Row prints the assignment of one row and the expression's value there,
// e.g. "row 3: A=1 B=1 C=0 -> 1".
func (r *Renderer) Row(t *truthtable.Table, row int) error {
	if row < 0 || row >= t.RowCount() {
		return fmt.Errorf("row %d out of range [0, %d)", row, t.RowCount())
	}
	vars := t.Vars()
	parts := make([]string, len(vars))
	for slot, name := range vars {
		parts[slot] = fmt.Sprintf("%s=%s", name, r.bit(t.VarValue(row, slot)))
	}
	fmt.Fprintf(r.w, "row %d: %s -> %s\n", row, strings.Join(parts, " "), r.bit(t.ValueAt(row)))
	return nil
}

// Simplified prints the simplified form of an expression.
func (r *Renderer) Simplified(expr string) {
	fmt.Fprintf(r.w, "%s %s\n", r.headerStyle.Sprint("simplified:"), r.exprStyle.Sprint(expr))
}

// Analysis prints the implicants behind a simplification.
func (r *Renderer) Analysis(a logicsim.Analysis) {
	r.Simplified(a.Expr)
	fmt.Fprintf(r.w, "%s %s\n", r.headerStyle.Sprint("strategy:"), a.Strategy)
	r.terms("primes:", a.Primes)
	r.terms("cover:", a.Cover)
}

func (r *Renderer) terms(title string, terms []string) {
	fmt.Fprintln(r.w, r.headerStyle.Sprint(title))
	for _, term := range terms {
		if term == "" {
			term = "(any)"
		}
		fmt.Fprintf(r.w, "  %s\n", term)
	}
}

// Error prints err. Parse errors, wrapped or not, get the source line with
// a caret under each reported column.
func (r *Renderer) Error(err error) {
	var perr *logicsim.ParseError
	if !errors.As(err, &perr) || perr.Source == "" {
		fmt.Fprintf(r.w, "%s %v\n", r.errorStyle.Sprint("error:"), err)
		return
	}
	fmt.Fprintf(r.w, "%s\n", r.errorStyle.Sprint("error: parse failed"))
	fmt.Fprintf(r.w, "  %s\n", perr.Source)
	for _, d := range perr.Diagnostics {
		pad := strings.Repeat(" ", max(d.Column-1, 0))
		fmt.Fprintf(r.w, "  %s%s %s\n", pad, r.errorStyle.Sprint("^"), d.Message)
	}
}
