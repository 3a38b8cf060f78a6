// Package shell wires internal/table, internal/dispatcher, and
// internal/eval into the CLI surface spec.md §6 describes: flag parsing,
// script/command/interactive dispatch, environment import/export, and
// signal handling. Grounded on the teacher's bare main.go REPL loop for
// the overall shape, and on josephlewis42-honeyssh's core/shell.go for
// the github.com/abiosoft/readline wiring the teacher itself never
// needed (its own main.go rolls a bufio.Reader by hand).
package shell

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/abiosoft/readline"

	"git.sr.ht/~rookery/rc/internal/ast"
	"git.sr.ht/~rookery/rc/internal/builtin"
	"git.sr.ht/~rookery/rc/internal/dispatcher"
	"git.sr.ht/~rookery/rc/internal/diag"
	"git.sr.ht/~rookery/rc/internal/eval"
	"git.sr.ht/~rookery/rc/internal/lexer"
	"git.sr.ht/~rookery/rc/internal/parser"
	"git.sr.ht/~rookery/rc/internal/probe"
	"git.sr.ht/~rookery/rc/internal/status"
	"git.sr.ht/~rookery/rc/internal/syscallx"
	"git.sr.ht/~rookery/rc/internal/table"
)

// Shell bundles every piece internal/dispatcher and internal/eval need
// plus the CLI-facing state (flags, readline, exit code) that neither of
// those packages should know about.
type Shell struct {
	opts Options

	tables *table.Tables
	diag   *diag.Diag
	status *status.Vector
	prober *probe.Prober
	disp   *dispatcher.Dispatcher
	ev     *eval.Evaluator
	ctx    *dispatcher.Context

	exitCode int
	exited   bool
}

// New builds a Shell from parsed Options, seeding the environment from
// os.Environ() (spec.md §6's "Inherited environment" paragraph) unless
// -p was given.
func New(o Options) *Shell {
	tables := table.New()
	d := diag.New()
	prober := probe.New(tables, d)
	signals := syscallx.NewTable()

	st := status.New()
	st.Signals = signals
	st.Out = d
	st.DashE = o.ErrExit

	s := &Shell{opts: o, tables: tables, diag: d, status: st, prober: prober}
	s.disp = dispatcher.New(builtin.Registry())
	s.ev = eval.New(s.disp)

	s.ctx = dispatcher.NewContext(tables, st, prober, d, signals)
	s.ctx.Interactive = s.isInteractive()
	s.ctx.Funcs = s.ev
	s.ctx.Trace = o.Trace
	s.ctx.TraceOut = os.Stderr
	s.ctx.NoOverwrite = o.NoOverwrite
	s.ctx.Exit = func(code int) { s.exitCode = code; s.exited = true }
	st.Interactive = s.ctx.Interactive

	tables.InitEnv(os.Environ(), o.NoFuncImport, parseSource)
	s.bindArgs()
	return s
}

func (s *Shell) isInteractive() bool {
	if s.opts.Interactive {
		return true
	}
	if s.opts.HasCommand || s.opts.Stdin || len(s.opts.Args) > 0 {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// bindArgs sets $0 and the positional-parameter convention "*" documents
// in internal/eval: $0 is the shell/script name, $1.. (via $*(n) sugar)
// are the remaining arguments.
func (s *Shell) bindArgs() {
	name := "rc"
	rest := s.opts.Args
	if len(s.opts.Args) > 0 && !s.opts.Stdin && !s.opts.HasCommand {
		name = s.opts.Args[0]
		rest = s.opts.Args[1:]
	}
	s.tables.Vars.Set("0", []string{name}, false)
	s.tables.Vars.Set("*", rest, false)
}

// parseSource lexes and parses one chunk of shell source text, shared by
// InitEnv's fn_ reparsing and every script/command/REPL-line evaluation
// path below.
func parseSource(src string) (ast.Program, error) {
	l := lexer.New(src)
	go l.Run()
	return parser.Parse(l.Out)
}

// Run dispatches to the -c string, a named script, stdin-as-script, or
// the interactive readline loop, per spec.md §6, and returns the process
// exit code.
func (s *Shell) Run() int {
	if s.opts.Login {
		s.runLoginProfile()
		if s.exited {
			return s.exitCode
		}
	}
	switch {
	case s.opts.HasCommand:
		s.runSource(s.opts.Command, "-c")
	case len(s.opts.Args) > 0 && !s.opts.Stdin:
		s.runFile(s.opts.Args[0])
	case s.ctx.Interactive:
		s.runInteractive()
	default:
		s.runStream(os.Stdin, "stdin")
	}
	if s.exited {
		return s.exitCode
	}
	return s.status.GetStatus()
}

// runLoginProfile sources ~/lib/profile before the shell's real work,
// implementing spec.md §6's -l ("login"). Grounded on rc(1)'s own login
// behavior (sourcing $home/lib/profile) and on this package's own
// historyPath: a missing profile is silent, matching "opening failure is
// non-fatal" for the persisted-state file above.
func (s *Shell) runLoginProfile() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	f, err := os.Open(home + "/lib/profile")
	if err != nil {
		return
	}
	defer f.Close()
	s.runStream(f, "profile")
}

func (s *Shell) runFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		s.diag.Errf("%s", err)
		s.exitCode, s.exited = 1, true
		return
	}
	defer f.Close()
	s.runStream(f, path)
}

func (s *Shell) runStream(r io.Reader, name string) {
	src, err := io.ReadAll(r)
	if err != nil {
		s.diag.Errf("%s: %s", name, err)
		s.exitCode, s.exited = 1, true
		return
	}
	s.runSource(string(src), name)
}

// runSource parses and (unless -n) executes one chunk of source,
// recovering the status.ExitRequest panic -e's DashE mode raises so a
// nonzero status terminates the shell instead of unwinding through
// arbitrary Go stack frames.
func (s *Shell) runSource(src, name string) {
	if s.opts.Verbose {
		fmt.Fprint(os.Stderr, src)
	}
	prog, err := parseSource(src)
	if err != nil {
		s.diag.Errf("%s", err)
		s.exitCode, s.exited = 2, true
		return
	}
	if s.opts.Debug {
		dumpProgram(prog)
	}
	if s.opts.NoExecute {
		return
	}
	s.execProgram(prog)
}

func (s *Shell) execProgram(prog ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			if req, ok := r.(status.ExitRequest); ok {
				s.exitCode, s.exited = req.Code, true
				return
			}
			panic(r)
		}
	}()
	s.ev.RunProgram(s.ctx, prog)
}

// runInteractive drives a github.com/abiosoft/readline instance the way
// josephlewis42-honeyssh's core/shell.go does, persisting history to
// ~/.rc_history (spec.md §6's "Persisted state" paragraph); a failure to
// open the history file is non-fatal, matching "opening failure is
// non-fatal and silent beyond a diagnostic on first use".
func (s *Shell) runInteractive() {
	cfg := &readline.Config{
		Prompt:      s.prompt(),
		HistoryFile: historyPath(),
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
	if err := cfg.Init(); err != nil {
		s.diag.Errf("%s", err)
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		s.diag.Errf("%s", err)
		s.exitCode = 1
		return
	}
	defer rl.Close()

	stop := s.installSignals()
	defer stop()

	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		switch {
		case err == io.EOF:
			return
		case err == readline.ErrInterrupt:
			continue
		case err != nil:
			s.diag.Errf("%s", err)
			return
		case line == "":
			continue
		}
		s.runSource(line, "<stdin>")
		if s.exited {
			return
		}
	}
}

// prompt implements $prompt: rc's own convention is a two-word list, the
// first shown at a fresh command, the second for a continuation line;
// this shell only ever shows the first, since the parser consumes a full
// unit per Readline() call.
func (s *Shell) prompt() string {
	if l, ok := s.tables.Vars.Lookup("prompt"); ok {
		if words := l.Strings(); len(words) > 0 {
			return words[0]
		}
	}
	return "% "
}

// historyPath resolves ~/.rc_history, returning "" (readline disables
// persistence) if $HOME can't be found.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.rc_history"
}

// installSignals routes SIGINT to the Context's Canceler, implementing
// spec.md §9's "non-local signal return" design note: a delivered signal
// cancels whatever slow call is in flight instead of terminating the
// process outright. Grounded on michaelmacinnis-oh's broker.go
// signal.Notify wiring.
func (s *Shell) installSignals() func() {
	incoming := make(chan os.Signal, 4)
	signal.Notify(incoming, syscall.SIGINT)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-incoming:
				s.ctx.Canceler.Cancel()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(incoming)
		close(done)
	}
}
