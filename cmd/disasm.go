package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <expression>",
	Short: "Print the compiled bytecode of an expression",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := newInterpreter().Compile(strings.Join(args, " "))
		if err != nil {
			return report(cmd, err)
		}
		return prog.Disassemble(cmd.OutOrStdout())
	},
}
