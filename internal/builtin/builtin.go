// Package builtin implements the commands that run inside the shell
// process rather than as a forked child, per spec.md §4.E's builtin
// resolution step.
//
// Grounded directly on the teacher's builtin package: same one-map
// registry and errorf helper, generalized from a func(*exec.Cmd) uint8
// shape (the teacher runs every builtin, including "external-looking"
// ones, through an *exec.Cmd it never actually execs) to
// dispatcher.Builtin, which operates on the real *dispatcher.Context.
package builtin

import (
	"fmt"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// Registry returns the builtin table wired into a fresh Dispatcher via
// dispatcher.New.
func Registry() map[string]dispatcher.Builtin {
	return map[string]dispatcher.Builtin{
		"cd":      cd,
		"echo":    echo,
		"true":    true_,
		"false":   false_,
		"read":    read,
		"set":     setBuiltin,
		"unset":   unset,
		"shift":   shift,
		"wait":    wait,
		"exit":    exitBuiltin,
		"umask":   umask,
		"exec":    noopExec,
		"builtin": noopExec,
		"~":       match,
	}
}

// errorf writes a "name: message\n" diagnostic naming av[0], matching
// the teacher's errorf but going through ctx.Diag (not ctx.Stderr) so the
// "rc: " prefix and Quote rules in spec.md §7 stay centralized.
func errorf(ctx *dispatcher.Context, av []string, format string, args ...any) {
	name := "?"
	if len(av) > 0 {
		name = av[0]
	}
	msg := fmt.Sprintf(format, args...)
	ctx.Diag.Errf("%s: %s", name, msg)
}

// noopExec backs the "exec"/"builtin" entries in the map only so that
// Dispatcher.resolve sees them as resBuiltin during prefix-unwinding;
// Dispatcher.Exec special-cases both names before ever calling the
// function itself (see internal/dispatcher/dispatcher.go), so Exec never
// runs this body. Dispatcher.ExecBackground does not special-case them,
// so a backgrounded "exec" or "builtin" runs it and succeeds doing nothing.
func noopExec(ctx *dispatcher.Context, av []string) int { return 0 }
