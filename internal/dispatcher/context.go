// Package dispatcher implements spec.md §4.E, the execution dispatcher:
// builtin/function resolution, exec/builtin prefix unwinding, the
// fork-or-not decision, redirection application, and the #!-emulating
// execve fallback (§4.E step 7).
//
// Grounded directly on original_source/exec.c's `exec()`, generalized
// from a single fork()+execve() call to a choice between an in-process
// Go call (builtins, functions) and a real os/exec.Cmd child (external
// commands), in the manner of the teacher's vm/exec.go and
// vm/execfns.go, which make the same builtin-vs-os/exec split.
package dispatcher

import (
	"os"

	"git.sr.ht/~rookery/rc/internal/ast"
	"git.sr.ht/~rookery/rc/internal/diag"
	"git.sr.ht/~rookery/rc/internal/probe"
	"git.sr.ht/~rookery/rc/internal/status"
	"git.sr.ht/~rookery/rc/internal/syscallx"
	"git.sr.ht/~rookery/rc/internal/table"
)

// FuncRunner executes a function's parse tree with a positional-argument
// list, and is implemented by internal/eval. Kept as an interface here so
// the dispatcher (which functions call back into for external/builtin
// resolution) doesn't import the statement evaluator (which calls into
// the dispatcher for every Simple command) — two concrete packages, no
// import cycle, wired together by internal/shell.
type FuncRunner interface {
	RunFunc(ctx *Context, body ast.Program, av []string) int
}

// Context is the dispatcher's view of "the shell": the three hash tables,
// the status vector, the path prober, where diagnostics go, and the
// per-invocation I/O and cwd that a forked child would otherwise inherit
// via the process image. A forked builtin or external command gets its
// own *Context (see Child), so mutations to Stdin/Stdout/Stderr/Cwd made
// while applying a redirection queue never leak back to the caller —
// this is the Go-idiomatic stand-in for "isolated by a real fork" that
// spec.md §9's design notes ask for.
//
// Known deviation: table.Tables is a shared pointer, not copied on fork.
// A real fork() duplicates the whole process heap, so `{ x=1 } >file`
// leaves the parent's $x untouched; here that same assignment IS visible
// to the parent afterward, because forking a builtin only isolates I/O
// and cwd, not the variable table. Reproducing full copy-on-write table
// semantics would mean a persistent/versioned table implementation for a
// case (assignment inside a forked block) that spec.md never calls out
// as a tested property; documented here rather than silently diverging.
type Context struct {
	Tables  *table.Tables
	Status  *status.Vector
	Prober  *probe.Prober
	Diag    *diag.Diag
	Signals syscallx.Table

	Canceler *syscallx.Canceler

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	Cwd string

	Interactive bool

	// Doomed mirrors exec.c's `rc_pid = -1`: once exec has resolved a
	// real command (not a null "exec >foo"), any subsequent shell-level
	// error must kill the process rather than return to the reader.
	Doomed bool

	// Apid/Apids implement spec.md §8's `sleep 2 &; wait $apid` scenario:
	// backgrounding a pipeline records its pid in Apid and appends it to
	// Apids; a bare `wait` drains Apids.
	Apid  string
	Apids []string

	Funcs FuncRunner

	// Exit is called instead of os.Exit so tests can observe a
	// process-terminating decision without actually exiting; nil means
	// os.Exit.
	Exit func(code int)

	// Trace, when set, makes Exec print each resolved argument vector to
	// TraceOut before running it, implementing spec.md §6's -x flag.
	Trace    bool
	TraceOut *os.File

	// NoOverwrite implements spec.md §6's -o flag: without it, a plain
	// '>' behaves like '>!' and always truncates/creates; with it, '>'
	// refuses to clobber a file that already exists (ClobberError),
	// matching applyRedirects' RedirWrite case.
	NoOverwrite bool

	// Loop carries a pending break/continue signal from an ast.Break or
	// ast.Continue statement up to the nearest enclosing for/while loop.
	// A pointer so Child() shares one cell with its parent: a break deep
	// inside a compound/if nested in a pipeline stage still has to reach
	// the loop driving that stage, even though runCommand hands each
	// stage its own *Context. internal/eval.RunFunc swaps in a fresh
	// cell around a function call so a stray break/continue inside a
	// called function can't reach past the call into the caller's loop.
	Loop *LoopCtl
}

// LoopCtl is the kind of pending loop-control signal recorded on a
// Context, or LoopNone when none is pending.
type LoopCtl int

const (
	LoopNone LoopCtl = iota
	LoopBreak
	LoopContinue
)

// NewContext returns a Context wired to real OS stdio and cwd, wrapping
// the given tables/status/prober/diag with a fresh Canceler.
func NewContext(tables *table.Tables, st *status.Vector, prober *probe.Prober, d *diag.Diag, signals syscallx.Table) *Context {
	cwd, _ := os.Getwd()
	loop := LoopNone
	return &Context{
		Tables:   tables,
		Status:   st,
		Prober:   prober,
		Diag:     d,
		Signals:  signals,
		Canceler: syscallx.NewCanceler(),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Cwd:      cwd,
		Loop:     &loop,
	}
}

// Child returns a copy of c for use by a "forked" builtin/function
// invocation: same tables/status/prober (process-local singletons in
// this shell, per spec.md §5) but an independently mutable
// Stdin/Stdout/Stderr/Cwd.
func (c *Context) Child() *Context {
	cp := *c
	return &cp
}

func (c *Context) exit(code int) {
	if c.Exit != nil {
		c.Exit(code)
		return
	}
	os.Exit(code)
}

// PathDirs returns the current $path variable's word list, the search
// order internal/probe.Which walks.
func (c *Context) PathDirs() []string {
	l, ok := c.Tables.Vars.Lookup("path")
	if !ok {
		return nil
	}
	return l.Strings()
}
