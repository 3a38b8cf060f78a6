package builtin

import (
	"os"
	"os/user"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
	"git.sr.ht/~rookery/rc/pkg/stack"
)

// dirStack backs `cd -`, matching the teacher's package-level directory
// stack. Process-wide is correct here the same way the three hash tables
// are process-wide (spec.md §5): this shell has one cwd, not one per
// Context, so a forked builtin's os.Chdir would need real per-process
// isolation to differ, which internal/dispatcher's Context.Child()
// doesn't attempt (see its doc comment on the shared-table deviation).
var dirStack = stack.New[string](64)

func cd(ctx *dispatcher.Context, av []string) int {
	var dst string
	switch len(av) {
	case 1:
		u, err := user.Current()
		if err != nil {
			errorf(ctx, av, "%s", err)
			return 1
		}
		dst = u.HomeDir
	case 2:
		dst = av[1]
		if dst == "-" {
			return cdPop(ctx, av)
		}
	default:
		ctx.Diag.Errf("Usage: cd [directory]")
		return 1
	}
	return chdir(ctx, av, dst, true)
}

func cdPop(ctx *dispatcher.Context, av []string) int {
	dst := dirStack.Pop()
	if dst == nil {
		errorf(ctx, av, "the directory stack is empty")
		return 1
	}
	return chdir(ctx, av, *dst, false)
}

// chdir applies dst to both the OS cwd and ctx.Cwd, so a subsequent
// external command forked from this Context inherits it via Dir rather
// than through the process's real working directory alone. push controls
// whether the prior cwd is recorded for a later `cd -`.
func chdir(ctx *dispatcher.Context, av []string, dst string, push bool) int {
	prev := ctx.Cwd
	if err := os.Chdir(dst); err != nil {
		errorf(ctx, av, "%s", err)
		return 1
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = dst
	}
	ctx.Cwd = cwd
	if push {
		dirStack.Push(prev)
	}
	return 0
}
