package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fcasibu/logic-sim/internal/render"
)

var simplifyExplain bool

var simplifyCmd = &cobra.Command{
	Use:   "simplify <expression>",
	Short: "Print a simplified expression with the same truth table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := newInterpreter()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		table, err := in.InterpretAsync(ctx, strings.Join(args, " ")).Await(ctx)
		if err != nil {
			return report(cmd, err)
		}
		if simplifyExplain {
			newRenderer(cmd.OutOrStdout(), 0, render.NoHighlight).Analysis(in.Analyze(table))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), in.Simplify(table))
		return nil
	},
}

func init() {
	simplifyCmd.Flags().BoolVar(&simplifyExplain, "explain", false, "Show the prime implicants and the selected cover")
}
