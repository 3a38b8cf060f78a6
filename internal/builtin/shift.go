package builtin

import (
	"strconv"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// shift has no teacher source (the teacher shell has no functions or
// positional parameters), but spec.md §8's `echo $0 $2 $#*` example fixes
// the convention: positional arguments live in the "*" variable, the way
// Plan 9 rc's $1/$2 are sugar for $*(1)/$*(2) expanded by the parser
// before the dispatcher ever sees them. shift n drops the first n words
// (default 1) from that list in place.
func shift(ctx *dispatcher.Context, av []string) int {
	n := 1
	if len(av) == 2 {
		v, err := strconv.Atoi(av[1])
		if err != nil || v < 0 {
			errorf(ctx, av, "usage: shift [n]")
			return 1
		}
		n = v
	} else if len(av) > 2 {
		ctx.Diag.Errf("Usage: shift [n]")
		return 1
	}

	l, ok := ctx.Tables.Vars.Lookup("*")
	if !ok {
		errorf(ctx, av, "$* is empty")
		return 1
	}
	words := l.Strings()
	if n > len(words) {
		errorf(ctx, av, "cannot shift %d words, only %d remain", n, len(words))
		return 1
	}
	ctx.Tables.Vars.Set("*", words[n:], false)
	return 0
}
