package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logicsim "github.com/fcasibu/logic-sim"
	"github.com/fcasibu/logic-sim/internal/render"
)

const (
	cmdQuit     = ":quit"
	cmdSimplify = ":simplify"
	cmdPrev     = ":prev"
	cmdHelp     = ":help"
)

var (
	warnStyle    = promptui.Styler(promptui.FGYellow)
	infoStyle    = promptui.Styler(promptui.FGCyan)
	dividerStyle = promptui.Styler(promptui.FGMagenta)
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate expressions interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(newInterpreter(), cmd.OutOrStdout())
		return s.run()
	},
}

// session is one interactive run. It remembers the last expression that
// evaluated successfully.
type session struct {
	in     *logicsim.Interpreter
	out    io.Writer
	r      *render.Renderer
	color  bool
	simple bool

	prev  string
	table *logicsim.TruthTable
}

func newSession(in *logicsim.Interpreter, out io.Writer) *session {
	return &session{
		in:     in,
		out:    out,
		r:      newRenderer(out, settings.MaxRows, render.NoHighlight),
		color:  colorEnabled(),
		simple: settings.ShowSimplified,
	}
}

func (s *session) run() error {
	s.info(fmt.Sprintf("enter an expression; %s, %s, %s, %s", cmdSimplify, cmdPrev, cmdHelp, cmdQuit))
	for {
		prompt := promptui.Prompt{
			Label:     "expr",
			Default:   s.prev,
			AllowEdit: true,
		}
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			logger.Error("Prompt failed", zap.Error(err))
			return err
		}
		if s.handle(input) {
			return nil
		}
	}
}

// handle processes one line and reports whether the session should end.
func (s *session) handle(line string) bool {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return false
	case cmdQuit, ":q":
		return true
	case cmdHelp:
		s.info("operators: NOT AND NAND XOR XNOR OR NOR IMPLY, parentheses, up to 10 variables")
		return false
	case cmdPrev:
		if s.prev == "" {
			s.warn("no previous expression")
			return false
		}
		s.info("prev: " + s.prev)
		return false
	case cmdSimplify:
		if s.table == nil {
			s.warn("nothing to simplify")
			return false
		}
		line = s.in.Simplify(s.table)
	}

	table, err := s.in.Interpret(line)
	if err != nil {
		s.r.Error(err)
		return false
	}
	s.prev, s.table = line, table

	if err := s.r.Table(table, line); err != nil {
		s.r.Error(err)
		return false
	}
	if s.simple {
		s.r.Simplified(s.in.Simplify(table))
	}
	s.divider()
	return false
}

func (s *session) styled(style func(interface{}) string, msg string) string {
	if !s.color {
		return msg
	}
	return style(msg)
}

func (s *session) warn(msg string) {
	fmt.Fprintln(s.out, s.styled(warnStyle, msg))
}

func (s *session) info(msg string) {
	fmt.Fprintln(s.out, s.styled(infoStyle, msg))
}

func (s *session) divider() {
	fmt.Fprintln(s.out, s.styled(dividerStyle, strings.Repeat("-", 30)))
}
