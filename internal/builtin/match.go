package builtin

import (
	"path"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// match implements the "~" pattern-match builtin used by if/while
// conditions (spec.md §8's `if (~ $x b d)`): av[1] is the subject and
// av[2:] the candidate patterns, and it succeeds if the subject matches
// any one of them. Patterns use path.Match's *, ?, [...] wildcard syntax
// rather than a hand-rolled matcher; a pattern with no wildcard
// characters degenerates to a literal string comparison, which is all
// the exact scenario above needs. Grounded on the "oh" shell's own
// match primitive (task.go's scope0.DefineMethod("match", ...)), which
// makes the identical choice of path.Match over a bespoke glob engine.
func match(ctx *dispatcher.Context, av []string) int {
	if len(av) < 2 {
		errorf(ctx, av, "usage: ~ subject pattern ...")
		return 1
	}
	subject := av[1]
	for _, pat := range av[2:] {
		ok, err := path.Match(pat, subject)
		if err != nil {
			errorf(ctx, av, "%s", err)
			continue
		}
		if ok {
			return 0
		}
	}
	return 1
}
