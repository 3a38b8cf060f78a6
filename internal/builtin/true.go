package builtin

import "git.sr.ht/~rookery/rc/internal/dispatcher"

// true_ is grounded on the teacher's builtin/true.go: succeeds always,
// warning (not failing) if it was handed arguments to ignore.
func true_(ctx *dispatcher.Context, av []string) int {
	if n := len(av) - 1; n > 0 {
		errorf(ctx, av, "%d arguments are being ignored", n)
	}
	return 0
}

// false_ has no teacher source (the retrieved builtin package references
// it from Commands but never defines it) — written the obvious way a
// sibling of true_ would be.
func false_(ctx *dispatcher.Context, av []string) int {
	return 1
}
