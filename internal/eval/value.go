package eval

import (
	"errors"
	"os/user"
	"strconv"
	"strings"

	"git.sr.ht/~rookery/rc/internal/ast"
	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// evalValue expands one ast.Value into the words it stands for. Grounded
// on the teacher's vm/ast.go ToStrings family: an Argument tilde-expands
// and a Concat cross-products its two sides, but glob/pattern matching
// stays out of this shell's dispatcher-facing scope (spec.md §1), so an
// Argument otherwise passes through literally.
func (e *Evaluator) evalValue(ctx *dispatcher.Context, v ast.Value) []string {
	switch val := v.(type) {
	case ast.Argument:
		s, err := tildeExpand(string(val))
		if err != nil {
			ctx.Diag.Errf("%s", err)
			return nil
		}
		return []string{s}

	case ast.String:
		// A quoted word never tilde-expands; the lexer already emitted
		// any $name inside it as separate TokVarFlat/TokConcat tokens,
		// so there is nothing left to interpolate here.
		return []string{string(val)}

	case ast.Concat:
		lhs := e.evalValue(ctx, val.Lhs)
		rhs := e.evalValue(ctx, val.Rhs)
		out := make([]string, 0, len(lhs)*len(rhs))
		for _, l := range lhs {
			for _, r := range rhs {
				out = append(out, l+r)
			}
		}
		return out

	case ast.ListLit:
		return e.evalValues(ctx, val)

	case ast.VarRef:
		return e.evalVarRef(ctx, val)

	default:
		return nil
	}
}

// tildeExpand handles a leading ~/path (home of the invoking user) or
// ~name/path (home of the named user), grounded directly on the
// teacher's vm/ast.go tildeExpand. A bare "~" with nothing following it
// passes through literally rather than expanding to $HOME: spec.md §8's
// own scenario dispatches "~" as the pattern-match builtin's name, and a
// standalone word is never a useful $HOME reference on its own the way
// "~/foo" or "~user/foo" are. Anything else passes through unchanged.
func tildeExpand(s string) (string, error) {
	if len(s) < 2 || s[0] != '~' {
		return s, nil
	}
	i := strings.IndexByte(s, '/')
	if i == -1 {
		i = len(s)
	}

	if i == 1 {
		u, err := user.Current()
		if err != nil {
			return "", err
		}
		return u.HomeDir + s[i:], nil
	}

	name := s[1:i]
	u, err := user.Lookup(name)
	switch {
	case errors.Is(err, user.UnknownUserError(name)):
		return s, nil
	case err != nil:
		return "", err
	default:
		return u.HomeDir + s[i:], nil
	}
}

// evalVarRef resolves a $name, $name(indices), $#name or $^name
// (flatten) reference. Grounded on the teacher's vm/ast.go VarRef.ToStrings,
// generalized from the teacher's raw 0-based getIndex to the 1-based,
// range-capable subscripting spec.md's example ($x(5-6 1-2) into a
// six-word list) requires; an invalid or out-of-range subscript is
// dropped rather than aborting the whole expansion, matching that same
// example still printing the rest of its words.
//
// A numeric name other than "0" is spec.md §8's positional-parameter
// convention: $1, $2, .. are sugar for $*(1), $*(2), .. against the
// current $*, not variables in their own right, so it's rewritten to
// that subscript before the ordinary lookup below runs. $0 is excluded:
// internal/shell's bindArgs binds it as its own scalar variable.
func (e *Evaluator) evalVarRef(ctx *dispatcher.Context, vr ast.VarRef) []string {
	if n, ok := positionalIndex(vr.Name); ok && vr.Indices == nil {
		vr.Name = "*"
		vr.Indices = []ast.Value{ast.Argument(strconv.Itoa(n))}
	}

	var xs []string
	if l, ok := ctx.Tables.Vars.Lookup(vr.Name); ok {
		xs = l.Strings()
	}

	if vr.Indices != nil {
		ys := make([]string, 0, len(xs))
		for _, iv := range vr.Indices {
			for _, tok := range e.evalValue(ctx, iv) {
				for _, idx := range subscript(tok, len(xs)) {
					ys = append(ys, xs[idx])
				}
			}
		}
		xs = ys
	}

	switch vr.Kind {
	case ast.VarFlatten:
		return []string{strings.Join(xs, " ")}
	case ast.VarLength:
		return []string{strconv.Itoa(len(xs))}
	default:
		return xs
	}
}

// positionalIndex reports whether name is a bare positive decimal
// integer other than "0" — the shape of $1, $2, etc.
func positionalIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// subscript resolves one index token against a list of length n into
// zero or more 0-based slice indices, in the order they should appear.
// A bare token is one index; a token of the form "A-B" is an inclusive
// range. Indices are 1-based, and negative indices count from the end
// (-1 is the last element), matching rc's own $x(n) convention. Anything
// unparsable or out of [1,n] yields no indices at all instead of an
// error, so a single bad subscript in a list doesn't blank the rest.
func subscript(tok string, n int) []int {
	if i := strings.IndexByte(tok, '-'); i > 0 {
		a, errA := strconv.Atoi(tok[:i])
		b, errB := strconv.Atoi(tok[i+1:])
		if errA == nil && errB == nil {
			return indexRange(a, b, n)
		}
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return nil
	}
	idx, ok := resolveIndex(v, n)
	if !ok {
		return nil
	}
	return []int{idx}
}

func resolveIndex(v, n int) (int, bool) {
	if v < 0 {
		v = n + 1 + v
	}
	if v < 1 || v > n {
		return 0, false
	}
	return v - 1, true
}

func indexRange(a, b, n int) []int {
	lo, ok1 := resolveIndex(a, n)
	hi, ok2 := resolveIndex(b, n)
	if !ok1 || !ok2 {
		return nil
	}
	size := hi - lo
	if size < 0 {
		size = -size
	}
	out := make([]int, 0, size+1)
	if lo <= hi {
		for i := lo; i <= hi; i++ {
			out = append(out, i)
		}
	} else {
		for i := lo; i >= hi; i-- {
			out = append(out, i)
		}
	}
	return out
}
