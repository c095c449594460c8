package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fcasibu/logic-sim/internal/config"
)

// initCmd: logicsim init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Write(cfgFile, config.Default()); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return err
		}
		path := cfgFile
		if path == "" {
			path = config.DefaultPath
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
		return nil
	},
}
