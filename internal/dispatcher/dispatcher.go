package dispatcher

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"

	"git.sr.ht/~rookery/rc/internal/status"
	"git.sr.ht/~rookery/rc/internal/syscallx"
)

// Builtin is a command whose body runs inside the shell process, as
// spec.md's glossary defines it. It receives the fully expanded argument
// vector (av[0] is the builtin's own name) and returns an exit code.
type Builtin func(ctx *Context, av []string) int

// Dispatcher resolves and runs one already-parsed command, implementing
// spec.md §4.E's seven steps.
type Dispatcher struct {
	Builtins map[string]Builtin
}

// New returns a Dispatcher backed by the given builtin table (typically
// internal/builtin.Registry()).
func New(builtins map[string]Builtin) *Dispatcher {
	return &Dispatcher{Builtins: builtins}
}

type resolution int

const (
	resNone resolution = iota
	resFunc
	resBuiltin
)

func isAbsolute(name string) bool { return strings.HasPrefix(name, "/") }

func (d *Dispatcher) resolve(ctx *Context, av []string, ignoreFuncs, ignoreBuiltins bool) (resolution, Builtin) {
	if len(av) == 0 || isAbsolute(av[0]) {
		return resNone, nil
	}
	if !ignoreFuncs {
		if _, ok := ctx.Tables.Funcs.Lookup(av[0]); ok {
			return resFunc, nil
		}
	}
	if !ignoreBuiltins {
		if b, ok := d.Builtins[av[0]]; ok {
			return resBuiltin, b
		}
	}
	return resNone, nil
}

// Exec runs av (spec.md's `S` materialized into a C-array, here just a
// []string) with the given already-word-expanded redirection queue.
// parent tells Exec whether the caller wants to keep running afterward
// (false when e.g. `exec` has forced a tail call). It returns the
// resulting $status integer.
func (d *Dispatcher) Exec(ctx *Context, av []string, redirs []Redirect, parent bool) int {
	av = append([]string(nil), av...)
	sawExec := false
	ignoreFuncs := false
	ignoreBuiltins := false

	var kind resolution
	var builtin Builtin
	for {
		curIgnoreFuncs := ignoreFuncs
		curIgnoreBuiltins := ignoreBuiltins
		ignoreFuncs = false
		ignoreBuiltins = false

		// spec.md §8 testable property 5: "builtin" does not stack. A
		// second "builtin" token immediately after the first's bypass
		// took effect is an error, not a second consumption — without
		// this check the loop below would just consume it again, since
		// "builtin" is itself registered as a dispatcher.Builtin.
		if len(av) > 0 && av[0] == "builtin" && curIgnoreBuiltins {
			ctx.Diag.Errf("builtin: does not stack")
			ctx.Status.Set(false)
			return ctx.Status.GetStatus()
		}

		kind, builtin = d.resolve(ctx, av, curIgnoreFuncs, curIgnoreBuiltins)

		if kind == resBuiltin && len(av) > 0 && av[0] == "exec" {
			av = av[1:]
			sawExec = true
			parent = false
			continue
		}
		if kind == resBuiltin && len(av) > 0 && av[0] == "builtin" {
			av = av[1:]
			// "builtin" bypasses both the function table and the builtin
			// table for exactly the next resolution step, so "builtin
			// echo echo" lands on the external echo (spec.md §8 property
			// 5) instead of the registered echo builtin.
			ignoreFuncs = true
			ignoreBuiltins = true
			continue
		}
		break
	}

	// Step 2: null exec.
	if len(av) == 0 && sawExec {
		if err := applyRedirects(ctx, redirs); err != nil {
			ctx.Diag.Errf("%s", err)
			ctx.Status.Set(false)
		}
		return ctx.Status.GetStatus()
	}
	if sawExec && len(av) > 0 {
		ctx.Doomed = true
	}

	// Step 3: external resolution.
	var path string
	if kind == resNone {
		name := ""
		if len(av) > 0 {
			name = av[0]
		}
		path = ctx.Prober.Which(name, true, ctx.PathDirs)
		if path == "" && name != "" {
			ctx.Status.Set(false)
			redirs = nil
			if parent {
				return ctx.Status.GetStatus()
			}
			ctx.exit(1)
			return 1
		}
	}

	external := kind == resNone && path != ""

	if ctx.Trace && ctx.TraceOut != nil && len(av) > 0 {
		printTrace(ctx.TraceOut, av)
	}

	// Step 4: fork decision.
	fork := parent && (external || len(redirs) > 0)

	if !fork {
		return d.runInPlace(ctx, kind, builtin, av, redirs, path)
	}
	return d.runForked(ctx, kind, builtin, av, redirs, path, parent)
}

// runInPlace covers spec.md's "otherwise run in-place" branch: no OS
// fork, no isolated Context, redirections (if any — only possible here
// when parent is false, e.g. a background pipeline member already
// running in its own goroutine) are applied directly to ctx.
func (d *Dispatcher) runInPlace(ctx *Context, kind resolution, builtin Builtin, av []string, redirs []Redirect, path string) int {
	if err := applyRedirects(ctx, redirs); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}
	return d.invoke(ctx, kind, builtin, av, path)
}

// runForked covers spec.md's fork branch (steps 5-6): a real os/exec
// child for an external command, or an isolated *Context for a builtin
// or function that needs its own redirections/cwd.
func (d *Dispatcher) runForked(ctx *Context, kind resolution, builtin Builtin, av []string, redirs []Redirect, path string, parent bool) int {
	if !external(kind, path) {
		child := ctx.Child()
		if err := applyRedirects(child, redirs); err != nil {
			ctx.Diag.Errf("%s", err)
			ctx.Status.Set(false)
			return ctx.Status.GetStatus()
		}
		code := d.invoke(child, kind, builtin, av, path)
		ctx.Status.SetStatus(-1, status.FromExit(code))
		if !parent {
			ctx.exit(code)
		}
		return code
	}

	child := ctx.Child()
	if err := applyRedirects(child, redirs); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}

	env := ctx.Tables.MakeEnv(syscallx.IsSignalName)
	cmd := &exec.Cmd{
		Path: path,
		Args: av,
		Dir:  child.Cwd,
		Env:  env,
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = child.Stdin, child.Stdout, child.Stderr

	if err := startCmd(cmd, path, av); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		if !parent {
			ctx.exit(1)
		}
		return ctx.Status.GetStatus()
	}

	err := syscallx.RunSlow(ctx.Canceler, cmd.Wait)
	if _, interrupted := err.(syscallx.Interrupted); interrupted {
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}

	st := syscallx.DecodeWaitStatus(cmd.ProcessState, err)
	// -1: this is an ordinary foreground completion, not the wait
	// builtin's setwaitstatus path (original_source/exec.c:120 does the
	// same). A real pid here would make status.Vector's "done" line
	// print for every foreground command in interactive mode, not just
	// ones waited on explicitly.
	ctx.Status.SetStatus(-1, st)
	if st != 0 {
		ctx.Prober.VerifyCmd(path)
	}
	code := ctx.Status.GetStatus()
	if !parent {
		ctx.exit(code)
	}
	return code
}

func external(kind resolution, path string) bool { return kind == resNone && path != "" }

// printTrace writes one "+ argv..." line the way sh -x traces a command,
// grounded on spec.md §6's "-x (trace executions)".
func printTrace(w *os.File, av []string) {
	w.WriteString("+")
	for _, a := range av {
		w.WriteString(" ")
		w.WriteString(a)
	}
	w.WriteString("\n")
}

// apidCounter mints synthetic apids for backgrounded builtins/functions,
// which have no real OS pid the way a forked external command does.
// Negative so it can never collide with a real pid string.
var apidCounter int64

// ExecBackground starts av as spec.md §8's `sleep 2 &` scenario needs:
// it returns as soon as the command is launched (not when it finishes),
// with a string identifier suitable for storing in $apid. An external
// command's identifier is its real pid, matching rc's own apid, which
// is exactly the forked child's pid; a backgrounded builtin or function
// has no such pid, so it gets a synthetic negative counter instead, and
// runs on its own goroutine in an isolated child Context.
func (d *Dispatcher) ExecBackground(ctx *Context, av []string, redirs []Redirect) string {
	av = append([]string(nil), av...)
	kind, builtin := d.resolve(ctx, av, false, false)
	child := ctx.Child()
	if err := applyRedirects(child, redirs); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ""
	}

	if kind != resNone {
		id := atomic.AddInt64(&apidCounter, -1)
		go func() {
			code := d.invoke(child, kind, builtin, av, "")
			ctx.Status.SetStatus(-1, status.FromExit(code))
		}()
		return strconv.FormatInt(id, 10)
	}

	name := ""
	if len(av) > 0 {
		name = av[0]
	}
	path := ctx.Prober.Which(name, true, ctx.PathDirs)
	if path == "" {
		ctx.Status.Set(false)
		return ""
	}

	env := child.Tables.MakeEnv(syscallx.IsSignalName)
	cmd := &exec.Cmd{Path: path, Args: av, Dir: child.Cwd, Env: env}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = child.Stdin, child.Stdout, child.Stderr

	if err := startCmd(cmd, path, av); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ""
	}
	pid := cmd.Process.Pid
	go func() {
		err := syscallx.RunSlow(child.Canceler, cmd.Wait)
		if _, interrupted := err.(syscallx.Interrupted); interrupted {
			return
		}
		st := syscallx.DecodeWaitStatus(cmd.ProcessState, err)
		ctx.Status.SetStatus(pid, st)
		if st != 0 {
			ctx.Prober.VerifyCmd(path)
		}
	}()
	return strconv.Itoa(pid)
}

// invoke runs a resolved builtin or function in-place against ctx (which
// may be the caller's own Context or an isolated child), returning the
// resulting exit code and recording it as $status.
func (d *Dispatcher) invoke(ctx *Context, kind resolution, builtin Builtin, av []string, path string) int {
	switch {
	case kind == resFunc:
		fe, _ := ctx.Tables.Funcs.Lookup(av[0])
		code := 0
		if ctx.Funcs != nil && fe != nil {
			code = ctx.Funcs.RunFunc(ctx, fe.Def, av)
		}
		ctx.Status.SetStatus(-1, status.FromExit(code))
		return code
	case kind == resBuiltin:
		code := builtin(ctx, av)
		ctx.Status.SetStatus(-1, status.FromExit(code))
		return code
	case len(av) == 0:
		ctx.Status.Set(true)
		return 0
	default:
		return d.execExternal(ctx, av, path)
	}
}

// execExternal is the not-forked path for an external command: still a
// real os/exec child (Go has no in-process execve), but one the caller
// waits on synchronously without the isolated-Context machinery
// runForked needs, matching "run in-place" for the common case of a
// simple external command as the tail of a pipeline stage.
func (d *Dispatcher) execExternal(ctx *Context, av []string, path string) int {
	env := ctx.Tables.MakeEnv(syscallx.IsSignalName)
	cmd := &exec.Cmd{Path: path, Args: av, Dir: ctx.Cwd, Env: env}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = ctx.Stdin, ctx.Stdout, ctx.Stderr

	if err := startCmd(cmd, path, av); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}
	err := syscallx.RunSlow(ctx.Canceler, cmd.Wait)
	if _, interrupted := err.(syscallx.Interrupted); interrupted {
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}
	st := syscallx.DecodeWaitStatus(cmd.ProcessState, err)
	// See runForked's identical comment: a foreground execExternal
	// completion is not a wait-builtin report.
	ctx.Status.SetStatus(-1, st)
	if st != 0 {
		ctx.Prober.VerifyCmd(path)
	}
	return ctx.Status.GetStatus()
}
