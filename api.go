package logicsim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fcasibu/logic-sim/internal/bytecode"
	"github.com/fcasibu/logic-sim/internal/compiler"
	"github.com/fcasibu/logic-sim/internal/intern"
	"github.com/fcasibu/logic-sim/internal/simplify"
	"github.com/fcasibu/logic-sim/internal/truthtable"
	"github.com/fcasibu/logic-sim/internal/vm"
)

var (
	// ErrParse is matched by every error caused by malformed source: an
	// unrecognized character, a missing operand or ')', trailing input, or
	// more than MaxVars distinct variables.
	ErrParse = errors.New("parse error")

	// ErrBusy is returned when an Interpreter is asked to start an
	// evaluation while another one is in flight.
	ErrBusy = errors.New("interpreter is busy")
)

// MaxVars is the number of distinct variables an expression may use.
const MaxVars = bytecode.MaxVars

// TruthTable is the evaluated result of an expression. It exposes
// RowCount, Vars and ValueAt.
type TruthTable = truthtable.Table

// Diagnostic locates one problem in the source, by 1-based column.
type Diagnostic struct {
	Column  int
	Message string
}

// ParseError reports why source failed to compile.
type ParseError struct {
	Source      string
	Diagnostics []Diagnostic
}

func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrParse.Error()
	}
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = fmt.Sprintf("col %d: %s", d.Column, d.Message)
	}
	return fmt.Sprintf("%s: %s", ErrParse.Error(), strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrParse) hold for *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// RuntimeError is a VM failure surfaced from evaluation.
type RuntimeError struct {
	Message string
	Op      string
	Offset  int
	Column  int
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Offset < 0 {
		return e.Message
	}
	return fmt.Sprintf("offset %04d (%s): %s", e.Offset, e.Op, e.Message)
}

// Unwrap exposes the underlying cause (if any) for errors.Is/As.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// TraceInfo captures execution steps for debug hooks.
type TraceInfo struct {
	Op     string
	Offset int
	Column int
	Depth  int
	Base   uint64
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

func convertParseError(src string, err error) error {
	var cerr *compiler.Error
	if !errors.As(err, &cerr) {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	out := &ParseError{Source: src, Diagnostics: make([]Diagnostic, len(cerr.Diagnostics))}
	for i, d := range cerr.Diagnostics {
		out.Diagnostics[i] = Diagnostic{Column: d.Column, Message: d.Message}
	}
	return out
}

func convertRuntimeError(err error) error {
	if err == nil {
		return nil
	}
	var rte *vm.RuntimeError
	if errors.As(err, &rte) {
		op := ""
		if info, ok := bytecode.LookupOpInfo(rte.Op); ok && rte.Offset >= 0 {
			op = info.Name
		}
		return &RuntimeError{
			Message: rte.Message,
			Op:      op,
			Offset:  rte.Offset,
			Column:  rte.Column,
			Cause:   rte.Cause,
		}
	}
	return err
}

// Program is a compiled expression.
type Program struct {
	source string
	chunk  *bytecode.Chunk
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Vars returns the variable names in slot order (first appearance).
func (p *Program) Vars() []string {
	return p.chunk.VarNames()
}

// Code returns a copy of the bytecode.
func (p *Program) Code() []byte {
	return append([]byte(nil), p.chunk.Code...)
}

// Disassemble writes a listing of the program's instructions to w.
func (p *Program) Disassemble(w io.Writer) error {
	return bytecode.NewDisassembler(w).DisassembleChunk(p.source, p.chunk)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for debug output (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithTraceHook attaches a hook observing every VM instruction.
func WithTraceHook(h TraceHook) Option {
	return func(in *Interpreter) {
		in.trace = h
	}
}

// WithMaxStack caps the VM operand stack. 0 sizes the stack from each
// compiled program, so no valid expression can overflow it.
func WithMaxStack(n int) Option {
	return func(in *Interpreter) {
		in.maxStack = n
	}
}

// WithUppercase upper-cases source text before compiling it, so that
// "a and b" reads as "A AND B".
func WithUppercase(enable bool) Option {
	return func(in *Interpreter) {
		in.uppercase = enable
	}
}

// Interpreter compiles and evaluates expressions. Each evaluation owns a
// fresh interning pool and VM; an Interpreter runs one evaluation at a
// time.
type Interpreter struct {
	logger    *zap.Logger
	trace     TraceHook
	maxStack  int
	uppercase bool

	mu   sync.Mutex
	busy bool
}

// NewInterpreter constructs an Interpreter with the given options.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Interpreter) acquire() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.busy {
		return ErrBusy
	}
	in.busy = true
	return nil
}

func (in *Interpreter) release() {
	in.mu.Lock()
	in.busy = false
	in.mu.Unlock()
}

// Compile turns source into a Program.
func (in *Interpreter) Compile(source string) (*Program, error) {
	if err := in.acquire(); err != nil {
		return nil, err
	}
	defer in.release()
	return in.compile(source)
}

func (in *Interpreter) compile(source string) (*Program, error) {
	if in.uppercase {
		source = strings.ToUpper(source)
	}
	chunk, err := compiler.Compile(source, intern.New())
	if err != nil {
		perr := convertParseError(source, err)
		in.logger.Debug("compile failed", zap.String("source", source), zap.Error(perr))
		return nil, perr
	}
	in.logger.Debug("compiled",
		zap.String("source", source),
		zap.Strings("vars", chunk.VarNames()),
		zap.Int("bytes", len(chunk.Code)),
	)
	return &Program{source: source, chunk: chunk}, nil
}

// Interpret compiles source and evaluates it over every assignment of its
// variables. Malformed source yields an error matching ErrParse and a nil
// table.
func (in *Interpreter) Interpret(source string) (*TruthTable, error) {
	if err := in.acquire(); err != nil {
		return nil, err
	}
	defer in.release()

	prog, err := in.compile(source)
	if err != nil {
		return nil, err
	}
	return in.evaluate(prog)
}

// Evaluate runs an already compiled program.
func (in *Interpreter) Evaluate(prog *Program) (*TruthTable, error) {
	if prog == nil {
		return nil, errors.New("nil program")
	}
	if err := in.acquire(); err != nil {
		return nil, err
	}
	defer in.release()
	return in.evaluate(prog)
}

func (in *Interpreter) evaluate(prog *Program) (*TruthTable, error) {
	machine := vm.New()
	machine.SetMaxStack(in.maxStack)
	if in.trace != nil {
		h := in.trace
		machine.SetTraceHook(func(info vm.TraceInfo) {
			h(TraceInfo{
				Op:     info.Name,
				Offset: info.Offset,
				Column: info.Column,
				Depth:  info.Depth,
				Base:   info.Base,
			})
		})
	}

	table, err := truthtable.Build(prog.chunk, machine)
	if err != nil {
		err = convertRuntimeError(err)
		in.logger.Error("evaluation failed", zap.String("source", prog.source), zap.Error(err))
		return nil, err
	}
	in.logger.Debug("evaluated",
		zap.String("source", prog.source),
		zap.Int("rows", table.RowCount()),
		zap.Int("true_rows", table.TrueCount()),
	)
	return table, nil
}

// Simplify returns an expression equivalent to table.
func (in *Interpreter) Simplify(table *TruthTable) string {
	return in.Analyze(table).Expr
}

// Analysis explains a simplification.
type Analysis struct {
	Expr     string
	Strategy string
	Primes   []string
	Cover    []string
}

// Analyze simplifies table and reports the implicants involved, each
// rendered as a conjunction of literals.
func (in *Interpreter) Analyze(table *TruthTable) Analysis {
	res := simplify.Analyze(table)
	out := Analysis{Expr: res.Expr, Strategy: res.Strategy.String()}
	if table != nil {
		vars := table.Vars()
		out.Primes = formatImplicants(res.Primes, vars)
		out.Cover = formatImplicants(res.Cover, vars)
	}
	in.logger.Debug("simplified",
		zap.String("expr", out.Expr),
		zap.String("strategy", out.Strategy),
		zap.Int("primes", len(out.Primes)),
		zap.Int("cover", len(out.Cover)),
	)
	return out
}

func formatImplicants(imps []simplify.Implicant, vars []string) []string {
	if len(imps) == 0 {
		return nil
	}
	out := make([]string, len(imps))
	for i, imp := range imps {
		out[i] = imp.Format(vars)
	}
	return out
}

// Future represents an in-flight evaluation. It may be awaited any number
// of times, from any goroutine; every call sees the same result.
type Future struct {
	done chan struct{}
	res  Result
}

// Result is the outcome of an asynchronous evaluation.
type Result struct {
	Table *TruthTable
	Err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete stores res and wakes every waiter. It must be called once.
func (f *Future) complete(res Result) {
	f.res = res
	close(f.done)
}

// Await waits for completion or context cancellation. A finished result
// wins over a cancelled ctx.
func (f *Future) Await(ctx context.Context) (*TruthTable, error) {
	select {
	case <-f.done:
		return f.res.Table, f.res.Err
	default:
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.res.Table, f.res.Err
	}
}

// InterpretAsync runs Interpret on its own goroutine. A context that is
// already done short-circuits the evaluation.
func (in *Interpreter) InterpretAsync(ctx context.Context, source string) *Future {
	f := newFuture()
	if err := in.acquire(); err != nil {
		f.complete(Result{Err: err})
		return f
	}

	go func() {
		res := in.interpretCtx(ctx, source)
		in.release()
		f.complete(res)
	}()
	return f
}

func (in *Interpreter) interpretCtx(ctx context.Context, source string) Result {
	select {
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	default:
	}
	prog, err := in.compile(source)
	if err != nil {
		return Result{Err: err}
	}
	table, err := in.evaluate(prog)
	return Result{Table: table, Err: err}
}

// Interpret compiles and evaluates source with a default Interpreter.
func Interpret(source string) (*TruthTable, error) {
	return NewInterpreter().Interpret(source)
}

// Simplify returns an expression equivalent to table.
func Simplify(table *TruthTable) string {
	return simplify.Simplify(table)
}

// Compile compiles source with a default Interpreter.
func Compile(source string) (*Program, error) {
	return NewInterpreter().Compile(source)
}

// Equivalent reports whether two tables compute the same function,
// matching variables by name.
func Equivalent(a, b *TruthTable) bool {
	return truthtable.Equivalent(a, b)
}
