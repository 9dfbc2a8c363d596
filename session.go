// Package breadc is the front-end/VM pipeline for the bread-crumbs
// (.brc) language: lex, parse, analyze, compile to bytecode, run.
// Session is the single entry point a CLI or embedder drives, mirroring
// the teacher's top-level Interpreter (New/Options/Eval/EvalPath/REPL).
package breadc

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nrednav/breadc/internal/arena"
	"github.com/nrednav/breadc/internal/ast"
	"github.com/nrednav/breadc/internal/diag"
	"github.com/nrednav/breadc/internal/lexer"
	"github.com/nrednav/breadc/internal/parser"
	"github.com/nrednav/breadc/internal/sema"
	"github.com/nrednav/breadc/internal/strpool"
	"github.com/nrednav/breadc/internal/vm"
)

// Options configures a Session. Zero values pick sane defaults, as the
// teacher's own Options does for Stdin/Stdout/Stderr.
type Options struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// MaxStackSize/MaxCallDepth bound the VM; zero uses vm's defaults.
	MaxStackSize int
	MaxCallDepth int

	// ArenaSize sizes each per-Eval string pool arena block.
	ArenaSize int
}

// Session holds everything a single compile/run pipeline needs across
// repeated Eval calls: I/O streams and VM resource limits. Unlike the
// teacher's Interpreter, a Session carries no persistent global scope
// between Eval calls — each .brc program is self-contained (spec.md
// has no notion of a cross-Eval REPL environment accumulating
// declarations), so every Eval starts a fresh arena, string pool, and
// scope tree.
type Session struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	vmOpts         vm.Options
	arenaSize      int
}

// New returns a ready-to-use Session.
func New(opts Options) *Session {
	s := &Session{
		stdin:     opts.Stdin,
		stdout:    opts.Stdout,
		stderr:    opts.Stderr,
		arenaSize: opts.ArenaSize,
		vmOpts: vm.Options{
			MaxStackSize: opts.MaxStackSize,
			MaxCallDepth: opts.MaxCallDepth,
		},
	}
	if s.stdin == nil {
		s.stdin = os.Stdin
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.arenaSize <= 0 {
		s.arenaSize = 64 * 1024
	}
	return s
}

// Outcome is the result of running one .brc program through the full
// pipeline: the accumulated diagnostics from every phase (lexer through
// semantic analysis — per spec.md §7's "accumulate, never abort"
// policy, every phase runs and contributes to the same table) plus the
// VM result, if the program was well-formed enough to compile and run.
type Outcome struct {
	Reports *diag.Table
	Result  *vm.Result
}

// HasErrors reports whether any phase raised an Error-severity
// diagnostic.
func (o *Outcome) HasErrors() bool { return o.Reports.HasErrors() }

// Eval runs src (a complete .brc program, conventionally UTF-8) through
// lex → parse → semantic analysis → compile → execute. Every phase
// always runs and contributes diagnostics to the same table; the VM
// only runs if no phase reported an error, since running bytecode
// compiled from an invalid program isn't meaningful.
func (s *Session) Eval(src string) *Outcome {
	return s.evalNamed(src, "")
}

// EvalPath reads file and evaluates its contents via Eval, stamping
// diagnostics with file as the source path.
func (s *Session) EvalPath(file string) (*Outcome, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return s.evalNamed(string(b), file), nil
}

func (s *Session) evalNamed(src, file string) *Outcome {
	reports := diag.NewTable(file)
	sp := strpool.New(arena.New(s.arenaSize))
	lx := lexer.New([]byte(src), sp, reports)
	pool := ast.NewPool()
	p := parser.New(lx, pool, sp, reports)
	root := p.ParseProgram()

	analyzer := sema.New(reports)
	analyzer.Analyze(root)

	outcome := &Outcome{Reports: reports}
	if reports.HasErrors() {
		return outcome
	}

	prog := vm.Compile(root, sp)
	m := vm.New(prog, s.vmOpts)
	outcome.Result = m.Run()
	return outcome
}

// Render writes every accumulated diagnostic to stderr, one block per
// report, per spec.md §7's "after each compilation attempt, the
// diagnostic table is rendered in insertion order".
func (s *Session) Render(o *Outcome) {
	o.Reports.Render(s.stderr)
}

// REPL reads .brc source line by line from stdin, evaluating and
// printing the result of each line as a standalone program, echoing
// diagnostics to stderr — the teacher's own REPL loop, simplified:
// since a Session holds no persistent scope across Eval calls, each
// line is a fresh, independent program rather than an accumulating one.
func (s *Session) REPL() {
	scanner := bufio.NewScanner(s.stdin)
	fmt.Fprint(s.stdout, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			fmt.Fprint(s.stdout, "> ")
			continue
		}
		o := s.Eval(line)
		if o.HasErrors() {
			s.Render(o)
		} else if o.Result != nil {
			if o.Result.Fault != nil {
				fmt.Fprintln(s.stderr, o.Result.Fault)
			} else {
				fmt.Fprintln(s.stdout, o.Result.Value)
			}
		}
		fmt.Fprint(s.stdout, "> ")
	}
}
