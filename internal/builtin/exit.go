package builtin

import (
	"os"
	"strconv"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// exitBuiltin implements spec.md §6's exit-code rule directly: a numeric
// argument becomes the exit code, a non-numeric argument that also isn't
// a known signal name exits 1, and no argument at all exits with the
// current $status coerced to an int.
//
// No teacher source — the teacher shell has no exit builtin at all
// (it relies on EOF/os.Exit from its REPL loop) — written against
// spec.md's own "Exit codes" paragraph instead.
func exitBuiltin(ctx *dispatcher.Context, av []string) int {
	code := ctx.Status.GetStatus()
	if len(av) > 1 {
		name := av[1]
		switch {
		case isNumeric(name):
			n, _ := strconv.Atoi(name)
			code = n
		case ctx.Signals.ByName(name) >= 0:
			code = 128 + ctx.Signals.ByName(name)
		default:
			code = 1
		}
	}
	if ctx.Exit != nil {
		ctx.Exit(code)
	} else {
		os.Exit(code)
	}
	return code
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
