package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	logicsim "github.com/fcasibu/logic-sim"
	"github.com/fcasibu/logic-sim/internal/render"
)

var (
	evalSimplify bool
	evalExplain  bool
	evalRow      int
	evalMaxRows  int
	evalJSON     bool
	evalTrace    bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Print the truth table of an expression",
	Example: `  logicsim eval "(A OR B) AND NOT C"
  logicsim eval --row 3 A XOR B`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&evalSimplify, "simplify", true, "Print the simplified expression after the table")
	evalCmd.Flags().BoolVar(&evalExplain, "explain", false, "Show the prime implicants and the selected cover")
	evalCmd.Flags().IntVar(&evalRow, "row", render.NoHighlight, "Highlight one row and print its assignment")
	evalCmd.Flags().IntVar(&evalMaxRows, "max-rows", 0, "Rows to print before truncating (0 prints all)")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "Output the table in JSON format")
	evalCmd.Flags().BoolVar(&evalTrace, "trace", false, "Print every executed instruction to stderr")
}

func runEval(cmd *cobra.Command, args []string) error {
	source := strings.Join(args, " ")

	var opts []logicsim.Option
	if evalTrace {
		w := cmd.ErrOrStderr()
		opts = append(opts, logicsim.WithTraceHook(func(info logicsim.TraceInfo) {
			fmt.Fprintf(w, "%04d col %-3d %-10s depth=%d base=%d\n",
				info.Offset, info.Column, info.Op, info.Depth, info.Base)
		}))
	}
	in := newInterpreter(opts...)

	ctx, cancel := commandContext(cmd)
	defer cancel()
	table, err := in.InterpretAsync(ctx, source).Await(ctx)
	if err != nil {
		return report(cmd, err)
	}

	showSimplified := settings.ShowSimplified
	if flag := cmd.Flags().Lookup("simplify"); flag != nil && flag.Changed {
		showSimplified = evalSimplify
	}

	if evalJSON {
		return writeTableJSON(cmd.OutOrStdout(), in, source, table, showSimplified)
	}

	maxRows := settings.MaxRows
	if flag := cmd.Flags().Lookup("max-rows"); flag != nil && flag.Changed {
		maxRows = evalMaxRows
	}
	r := newRenderer(cmd.OutOrStdout(), maxRows, evalRow)
	if err := r.Table(table, source); err != nil {
		return report(cmd, err)
	}
	if evalRow != render.NoHighlight {
		if err := r.Row(table, evalRow); err != nil {
			return report(cmd, err)
		}
	}

	switch {
	case evalExplain:
		r.Analysis(in.Analyze(table))
	case showSimplified:
		r.Simplified(in.Simplify(table))
	}
	return nil
}

type tableJSON struct {
	Source     string   `json:"source"`
	Vars       []string `json:"vars"`
	Outputs    []bool   `json:"outputs"`
	Minterms   []int    `json:"minterms"`
	Simplified string   `json:"simplified,omitempty"`
}

func writeTableJSON(w io.Writer, in *logicsim.Interpreter, source string, table *logicsim.TruthTable, simplified bool) error {
	out := tableJSON{
		Source:   source,
		Vars:     table.Vars(),
		Outputs:  make([]bool, table.RowCount()),
		Minterms: table.Minterms(),
	}
	for row := range out.Outputs {
		out.Outputs[row] = table.ValueAt(row)
	}
	if out.Minterms == nil {
		out.Minterms = []int{}
	}
	if simplified {
		out.Simplified = in.Simplify(table)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
