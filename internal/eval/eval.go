// Package eval walks a parsed ast.Program and drives internal/dispatcher
// for each Simple command it finds, implementing spec.md's statement and
// pipeline layer above the execution dispatcher itself: command-list
// short-circuiting (&&/||), pipeline fan-out over os.Pipe, compound-block
// lexical variable scoping, and if/while/for control flow.
//
// Grounded directly on the teacher's vm/exec.go (execCmdLists,
// execCmdList, execPipeline, execCommand, execIf, execWhile,
// execCompound), generalized from the teacher's io.Reader/io.Writer
// command fields to *os.File (the dispatcher needs real file descriptors
// to hand external commands), and from the teacher's flat
// builtin.VarTable to the lexically-stacked internal/table.Vars.
package eval

import (
	"os"
	"strconv"
	"sync/atomic"

	"git.sr.ht/~rookery/rc/internal/ast"
	"git.sr.ht/~rookery/rc/internal/dispatcher"
	"git.sr.ht/~rookery/rc/internal/status"
)

// Evaluator ties a Dispatcher to the statement/pipeline walker, and
// implements dispatcher.FuncRunner so the dispatcher can call back into
// it for the "function resolution" branch of spec.md §4.E without
// importing this package (see dispatcher.FuncRunner's doc comment).
type Evaluator struct {
	Dispatcher *dispatcher.Dispatcher
}

// New returns an Evaluator driving d.
func New(d *dispatcher.Dispatcher) *Evaluator {
	return &Evaluator{Dispatcher: d}
}

// RunProgram runs prog as the top-level script (or -c command): every
// assignment is permanent, matching invariant 3's "x=A; x=B" ⇒ x==B
// (no scope to pop at the end).
func (e *Evaluator) RunProgram(ctx *dispatcher.Context, prog ast.Program) int {
	code := e.runStmts(ctx, prog, false)
	return e.clearStrayLoopSignal(ctx, code)
}

// RunFunc implements dispatcher.FuncRunner: bind av[1:] as the callee's
// positional parameters (spec.md §8's `$0 $2 $#*` convention — `$1`..
// are sugar for `$*(1)`.. that evalVarRef's positionalIndex rewrite
// resolves against the binding made here), run the body as a fresh
// lexical scope, and restore the caller's `*` binding on return.
func (e *Evaluator) RunFunc(ctx *dispatcher.Context, body ast.Program, av []string) int {
	ctx.Tables.Vars.Set("*", av[1:], true)
	defer ctx.Tables.Vars.Delete("*", true)

	// A function call is its own loop-control scope: break/continue
	// inside body binds to a loop within body, never to one enclosing
	// the call site.
	saved := ctx.Loop
	fresh := dispatcher.LoopNone
	ctx.Loop = &fresh
	defer func() { ctx.Loop = saved }()

	code := e.runStmts(ctx, body, true)
	return e.clearStrayLoopSignal(ctx, code)
}

// clearStrayLoopSignal reports a break/continue that never reached an
// enclosing loop as an error, matching rc's own "not in a for or while
// loop" diagnostic for the same case, and resets ctx.Loop so it can't
// leak into whatever runs next.
func (e *Evaluator) clearStrayLoopSignal(ctx *dispatcher.Context, code int) int {
	name := ""
	switch *ctx.Loop {
	case dispatcher.LoopBreak:
		name = "break"
	case dispatcher.LoopContinue:
		name = "continue"
	default:
		return code
	}
	*ctx.Loop = dispatcher.LoopNone
	ctx.Diag.Errf("%s: not in a for or while loop", name)
	ctx.Status.Set(false)
	return ctx.Status.GetStatus()
}

// runStmts executes stmts in order. When scoped is true (a `{}` block or
// a function body), assignments push a new table.Vars frame the first
// time each name is set within this call and all such frames are popped
// before returning, implementing invariant 3: "x=A { x=B { } }" leaves
// x==A afterward. The arms of if/while/for run unscoped, so an
// assignment made inside them stays visible after the statement.
func (e *Evaluator) runStmts(ctx *dispatcher.Context, stmts []ast.Stmt, scoped bool) int {
	locallyAssigned := map[string]bool{}
	code := 0
	if scoped {
		defer func() {
			for name := range locallyAssigned {
				ctx.Tables.Vars.Delete(name, true)
			}
		}()
	}
	for _, s := range stmts {
		switch st := s.(type) {
		case ast.Assign:
			words := e.evalValues(ctx, st.Values)
			stack := scoped && !locallyAssigned[st.Name]
			ctx.Tables.Vars.Set(st.Name, words, stack)
			if scoped {
				locallyAssigned[st.Name] = true
			}
			ctx.Status.Set(true)
			code = 0
		case ast.FuncDef:
			ctx.Tables.Funcs.Set(st.Name, ast.Program(st.Body))
			ctx.Status.Set(true)
			code = 0
		case ast.CommandList:
			code = e.runCommandList(ctx, st)
		case ast.Break:
			*ctx.Loop = dispatcher.LoopBreak
			ctx.Status.Set(true)
			code = 0
		case ast.Continue:
			*ctx.Loop = dispatcher.LoopContinue
			ctx.Status.Set(true)
			code = 0
		}
		if *ctx.Loop != dispatcher.LoopNone {
			return code
		}
	}
	return code
}

// runCommandList implements execCmdList: left-associative &&/|| with
// short-circuiting on the left side's exit code.
func (e *Evaluator) runCommandList(ctx *dispatcher.Context, cl ast.CommandList) int {
	if cl.Lhs == nil {
		return e.runPipeline(ctx, cl.Rhs)
	}
	code := e.runCommandList(ctx, *cl.Lhs)
	if (cl.Op == ast.LAnd && code == 0) || (cl.Op == ast.LOr && code != 0) {
		return e.runPipeline(ctx, cl.Rhs)
	}
	return code
}

// backgroundApidCounter mints synthetic apids for a backgrounded
// multi-member pipeline (`a | b &`), which has no single OS pid the way
// a single backgrounded external command does — see
// dispatcher.ExecBackground's doc comment for the single-command case.
var backgroundApidCounter int64

// runPipeline implements execPipeline: wire consecutive members together
// with os.Pipe and run every member concurrently. Each member gets its
// own private status.Vector during the run (spec.md §5 calls the status
// vector "process-local and single-threaded by construction" — true for
// one command at a time, but a multi-member pipeline here runs its
// members on separate goroutines, so each needs its own vector to avoid
// a torn write); the members' raw statuses are collected afterward and
// published to ctx.Status in one non-concurrent SetPipeStatus call,
// preserving the "written in member order" guarantee at the point that
// matters — when the caller observes it.
func (e *Evaluator) runPipeline(ctx *dispatcher.Context, pl ast.Pipeline) int {
	n := len(pl.Cmds)
	if n == 0 {
		return 0
	}
	if n == 1 && !pl.Background {
		return e.runCommand(ctx, pl.Cmds[0], ctx.Stdin, ctx.Stdout, ctx.Status)
	}
	if n == 1 && pl.Background {
		if s, ok := pl.Cmds[0].(*ast.Simple); ok {
			redirs, err := e.evalRedirects(ctx, s.Redirs())
			if err == nil {
				av := e.evalValues(ctx, s.Args)
				if len(av) > 0 {
					apid := e.Dispatcher.ExecBackground(ctx, av, redirs)
					if apid != "" {
						ctx.Apid = apid
						ctx.Apids = append(ctx.Apids, apid)
					}
					return 0
				}
			}
		}
		// A backgrounded compound/if/while/for falls through to the
		// general multi-goroutine path below with n==1: it still runs
		// off the caller's critical path, just without a real pid.
	}

	stdins := make([]*os.File, n)
	stdouts := make([]*os.File, n)
	stdins[0] = ctx.Stdin
	stdouts[n-1] = ctx.Stdout

	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			ctx.Diag.Errf("%s", err)
			ctx.Status.Set(false)
			return ctx.Status.GetStatus()
		}
		stdouts[i] = w
		stdins[i+1] = r
	}

	memberStatus := make([]*status.Vector, n)
	for i := range memberStatus {
		memberStatus[i] = privateStatus(ctx.Status)
	}

	run := func() []status.Status {
		done := make(chan struct{}, n)
		for i := range pl.Cmds {
			i := i
			go func() {
				e.runCommand(ctx, pl.Cmds[i], stdins[i], stdouts[i], memberStatus[i])
				if stdins[i] != ctx.Stdin {
					stdins[i].Close()
				}
				if stdouts[i] != ctx.Stdout {
					stdouts[i].Close()
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < n; i++ {
			<-done
		}
		raw := make([]status.Status, n)
		for i, sv := range memberStatus {
			raw[i] = status.FromExit(sv.GetStatus())
		}
		return raw
	}

	if pl.Background {
		id := atomic.AddInt64(&backgroundApidCounter, -1)
		apid := strconv.FormatInt(id, 10)
		ctx.Apid = apid
		ctx.Apids = append(ctx.Apids, apid)
		go func() { run() }()
		return 0
	}

	raw := run()
	ctx.Status.SetPipeStatus(raw)
	return ctx.Status.GetStatus()
}

// privateStatus returns a fresh Vector sharing base's reporting
// configuration (signal table, output sink, -e/interactive flags) but
// none of its statuses, so a pipeline member can call the ordinary
// dispatcher status-setting path without racing its siblings.
func privateStatus(base *status.Vector) *status.Vector {
	sv := status.New()
	sv.Signals = base.Signals
	sv.Out = base.Out
	sv.Interactive = base.Interactive
	sv.DashE = base.DashE
	return sv
}

// runCommand dispatches one pipeline member to its concrete evaluator,
// applying stdin/stdout the pipeline assigned it (execCommand's "cmd.In
// defaults to ctx.in" rule, generalized to *os.File) and st as the
// Context's status vector for the duration of this member.
func (e *Evaluator) runCommand(ctx *dispatcher.Context, cmd ast.Command, stdin, stdout *os.File, st *status.Vector) int {
	child := ctx.Child()
	child.Stdin = stdin
	child.Stdout = stdout
	child.Status = st

	redirs, err := e.evalRedirects(child, cmd.Redirs())
	if err != nil {
		child.Diag.Errf("%s", err)
		child.Status.Set(false)
		return child.Status.GetStatus()
	}

	switch c := cmd.(type) {
	case *ast.Simple:
		return e.runSimple(child, c, redirs)
	case *ast.Compound:
		return e.runCompound(child, c, redirs)
	case *ast.If:
		return e.runIf(child, c, redirs)
	case *ast.While:
		return e.runWhile(child, c, redirs)
	case *ast.For:
		return e.runFor(child, c, redirs)
	default:
		return 0
	}
}

// runSimple evaluates every argument to a word list and hands the result
// to the dispatcher, matching execSimple's "flatten every Value, empty
// argv is a silent no-op" contract.
func (e *Evaluator) runSimple(ctx *dispatcher.Context, cmd *ast.Simple, redirs []dispatcher.Redirect) int {
	av := e.evalValues(ctx, cmd.Args)
	if len(av) == 0 {
		if len(redirs) > 0 {
			return e.Dispatcher.Exec(ctx, nil, redirs, true)
		}
		ctx.Status.Set(true)
		return 0
	}
	return e.Dispatcher.Exec(ctx, av, redirs, true)
}

// runCompound implements execCompound: a `{ ... }` block is its own
// lexical scope, run against the same ctx (so redirections/cwd applied
// to the block are visible to everything inside it).
func (e *Evaluator) runCompound(ctx *dispatcher.Context, cmd *ast.Compound, redirs []dispatcher.Redirect) int {
	if err := applyOwn(ctx, redirs); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}
	return e.runStmts(ctx, cmd.Body, true)
}

func (e *Evaluator) runIf(ctx *dispatcher.Context, cmd *ast.If, redirs []dispatcher.Redirect) int {
	if err := applyOwn(ctx, redirs); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}
	ctx.Status.Cond = true
	cond := e.runCommandList(ctx, cmd.Cond)
	ctx.Status.Cond = false
	if cond == 0 {
		return e.runStmts(ctx, cmd.Body, false)
	}
	if cmd.Else != nil {
		return e.runStmts(ctx, cmd.Else, false)
	}
	ctx.Status.Set(true)
	return 0
}

func (e *Evaluator) runWhile(ctx *dispatcher.Context, cmd *ast.While, redirs []dispatcher.Redirect) int {
	if err := applyOwn(ctx, redirs); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}
	for {
		ctx.Status.Cond = true
		cond := e.runCommandList(ctx, cmd.Cond)
		ctx.Status.Cond = false
		if cond != 0 {
			ctx.Status.Set(true)
			return 0
		}
		code := e.runStmts(ctx, cmd.Body, false)
		switch *ctx.Loop {
		case dispatcher.LoopBreak:
			*ctx.Loop = dispatcher.LoopNone
			ctx.Status.Set(true)
			return 0
		case dispatcher.LoopContinue:
			*ctx.Loop = dispatcher.LoopNone
			continue
		}
		if code != 0 {
			return code
		}
	}
}

// runFor implements `for (name in list) { body }`: list is evaluated
// once, up front, and name is bound as a stacked local for each
// iteration so the loop variable doesn't leak past the loop. Other
// assignments in the body are not stacked and persist after the loop.
func (e *Evaluator) runFor(ctx *dispatcher.Context, cmd *ast.For, redirs []dispatcher.Redirect) int {
	if err := applyOwn(ctx, redirs); err != nil {
		ctx.Diag.Errf("%s", err)
		ctx.Status.Set(false)
		return ctx.Status.GetStatus()
	}
	words := e.evalValues(ctx, cmd.List)
	for _, w := range words {
		ctx.Tables.Vars.Set(cmd.Name, []string{w}, true)
		code := e.runStmts(ctx, cmd.Body, false)
		ctx.Tables.Vars.Delete(cmd.Name, true)
		switch *ctx.Loop {
		case dispatcher.LoopBreak:
			*ctx.Loop = dispatcher.LoopNone
			ctx.Status.Set(true)
			return 0
		case dispatcher.LoopContinue:
			*ctx.Loop = dispatcher.LoopNone
			continue
		}
		if code != 0 {
			return code
		}
	}
	ctx.Status.Set(true)
	return 0
}

// evalRedirects reduces an ast.Command's redirection queue to the
// already-word-expanded form internal/dispatcher.Redirect wants,
// evaluating each destination Value in ctx (the only place Value
// expansion happens before the dispatcher ever runs). "_" as a
// destination is rc's /dev/null shorthand, grounded on the teacher's
// execCommand redirection switch: for '<' it's a plain devnull read,
// for '>' it also forces clobber semantics since /dev/null always
// "exists".
func (e *Evaluator) evalRedirects(ctx *dispatcher.Context, redirs []ast.Redirect) ([]dispatcher.Redirect, error) {
	out := make([]dispatcher.Redirect, 0, len(redirs))
	for _, r := range redirs {
		words := e.evalValue(ctx, r.File)
		name := ""
		if len(words) > 0 {
			name = words[0]
		}
		rtype := r.Type
		if name == "_" {
			name = os.DevNull
			if rtype == ast.RedirWrite {
				rtype = ast.RedirClob
			}
		}
		out = append(out, dispatcher.Redirect{Type: rtype, Name: name})
	}
	return out, nil
}

// applyOwn lets Compound/If/While/For apply their own redirection queue
// directly to ctx before running their body, since runCommand already
// gave each pipeline member its own child Context.
func applyOwn(ctx *dispatcher.Context, redirs []dispatcher.Redirect) error {
	return dispatcher.ApplyRedirects(ctx, redirs)
}

// evalValues flattens a slice of Values into one word list, in order.
func (e *Evaluator) evalValues(ctx *dispatcher.Context, vs []ast.Value) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, e.evalValue(ctx, v)...)
	}
	return out
}
