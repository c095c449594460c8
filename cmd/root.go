package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	logicsim "github.com/fcasibu/logic-sim"
	"github.com/fcasibu/logic-sim/internal/config"
	"github.com/fcasibu/logic-sim/internal/render"
)

const defaultTimeout = 30 * time.Second

var (
	cfgFile string
	timeout time.Duration
	verbose bool
	noColor bool

	settings = config.Default()
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "logicsim [expression]",
	Short: "logicsim - evaluate boolean expressions into truth tables",
	Long: `logicsim compiles a boolean expression over up to 10 variables,
evaluates it for every assignment and prints the truth table.

Operators, loosest first: IMPLY, OR/NOR, XOR/XNOR, AND/NAND, NOT.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		// logicsim EXPR behaves like the eval subcommand
		return runEval(cmd, args)
	},
}

// Execute runs the command line. Errors already shown to the user are
// returned without being printed again.
func Execute() error {
	err := rootCmd.Execute()
	var shown *reportedError
	if err != nil && !errors.As(err, &shown) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Abort evaluation after this long (0 disables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(simplifyCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(replCmd)
}

func setup(cmd *cobra.Command) error {
	loaded := config.Default()
	// init rewrites the file, so a broken one must not block it
	if cmd != initCmd {
		var err error
		if loaded, err = config.Load(cfgFile); err != nil {
			return err
		}
	}
	settings = loaded

	level, err := settings.Level()
	if err != nil {
		return err
	}
	l, err := newLogger(level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	logger = l
	logger.Debug("configuration loaded",
		zap.String("path", cfgFile),
		zap.Bool("color", settings.Color),
		zap.Bool("uppercase", settings.Uppercase),
		zap.Int("max_rows", settings.MaxRows),
	)
	return nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		level = zapcore.DebugLevel
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

func colorEnabled() bool {
	return settings.Color && !noColor && !color.NoColor
}

func newInterpreter(opts ...logicsim.Option) *logicsim.Interpreter {
	base := []logicsim.Option{
		logicsim.WithLogger(logger),
		logicsim.WithUppercase(settings.Uppercase),
	}
	return logicsim.NewInterpreter(append(base, opts...)...)
}

func newRenderer(w io.Writer, maxRows, highlight int) *render.Renderer {
	return render.New(w, render.Options{
		Color:     colorEnabled(),
		MaxRows:   maxRows,
		Highlight: highlight,
	})
}

// commandContext bounds cmd's context by --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// reportedError marks an error the command already rendered.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func report(cmd *cobra.Command, err error) error {
	newRenderer(cmd.ErrOrStderr(), 0, render.NoHighlight).Error(err)
	return &reportedError{err: err}
}
