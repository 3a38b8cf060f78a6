package builtin

import (
	"git.sr.ht/~rookery/rc/internal/dispatcher"
	"git.sr.ht/~rookery/rc/internal/lexer"
)

// setBuiltin is grounded on the teacher's builtin/set.go, generalized
// from a flat map[string][]string to the real lexically-stacked
// table.Vars: `set name value...` always assigns into the current scope
// (stack=false), matching a plain top-level assignment rather than a
// local `name=value { ... }` block, which internal/eval handles on its
// own via Vars.Place(name, true).
func setBuiltin(ctx *dispatcher.Context, av []string) int {
	if len(av) == 1 {
		ctx.Diag.Errf("Usage: set variable [value ...]")
		return 1
	}
	name := av[1]
	for _, r := range name {
		if !lexer.IsRefChar(r) {
			errorf(ctx, av, "rune '%c' is not allowed in variable names", r)
			return 1
		}
	}
	ctx.Tables.Vars.Set(name, av[2:], false)
	if name == "prompt" || name == "version" {
		ctx.Tables.MarkExportable(name)
	}
	if name == "noexport" {
		ctx.Tables.SetNoexport(av[2:])
	}
	return 0
}

// unset is the teacher's set-with-two-args deletion arm split into its
// own builtin, since table.Vars.Delete's stack semantics need a name
// distinct from an assignment.
func unset(ctx *dispatcher.Context, av []string) int {
	if len(av) != 2 {
		ctx.Diag.Errf("Usage: unset variable")
		return 1
	}
	name := av[1]
	if _, ok := ctx.Tables.Vars.Lookup(name); !ok {
		errorf(ctx, av, "variable '%s' was already unset", name)
		return 1
	}
	ctx.Tables.Vars.Delete(name, false)
	return 0
}
