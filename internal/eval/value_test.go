package eval

import (
	"reflect"
	"testing"

	"git.sr.ht/~rookery/rc/internal/ast"
)

// TestSubscriptExampleFromSpec exercises the worked example this shell's
// subscripting is built from: over a six-word list, "5-6 1-2" and a wildly
// out-of-range index yields "e f a b", with the bad index silently
// dropped rather than aborting the whole word list.
func TestSubscriptExampleFromSpec(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f"}
	n := len(words)

	var got []string
	for _, tok := range []string{"5-6", "1-2", "9999999999999999"} {
		for _, idx := range subscript(tok, n) {
			got = append(got, words[idx])
		}
	}
	want := []string{"e", "f", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSubscriptNegativeIndexCountsFromEnd(t *testing.T) {
	idxs := subscript("-1", 6)
	if len(idxs) != 1 || idxs[0] != 5 {
		t.Fatalf("subscript(-1, 6) = %v, want [5]", idxs)
	}
}

func TestSubscriptDescendingRange(t *testing.T) {
	idxs := subscript("3-1", 6)
	if !reflect.DeepEqual(idxs, []int{2, 1, 0}) {
		t.Fatalf("subscript(3-1, 6) = %v, want [2 1 0]", idxs)
	}
}

func TestSubscriptZeroAndOutOfRangeAreDropped(t *testing.T) {
	if idxs := subscript("0", 6); idxs != nil {
		t.Fatalf("subscript(0, 6) = %v, want nil", idxs)
	}
	if idxs := subscript("7", 6); idxs != nil {
		t.Fatalf("subscript(7, 6) = %v, want nil", idxs)
	}
}

func TestEvalVarRefFlattenAndLength(t *testing.T) {
	ev, ctx, _ := newTestSetup(t)
	ctx.Tables.Vars.Set("x", []string{"a", "b", "c"}, false)

	flat := ev.evalVarRef(ctx, ast.VarRef{Name: "x", Kind: ast.VarFlatten})
	if len(flat) != 1 || flat[0] != "a b c" {
		t.Fatalf("$^x = %v, want [\"a b c\"]", flat)
	}

	length := ev.evalVarRef(ctx, ast.VarRef{Name: "x", Kind: ast.VarLength})
	if len(length) != 1 || length[0] != "3" {
		t.Fatalf("$#x = %v, want [3]", length)
	}
}

func TestEvalVarRefIndexed(t *testing.T) {
	ev, ctx, _ := newTestSetup(t)
	ctx.Tables.Vars.Set("x", []string{"a", "b", "c", "d", "e", "f"}, false)

	got := ev.evalVarRef(ctx, ast.VarRef{
		Name: "x",
		Kind: ast.VarExpand,
		Indices: []ast.Value{
			ast.Argument("5-6"),
			ast.Argument("1-2"),
		},
	})
	want := []string{"e", "f", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("$x(5-6 1-2) = %v, want %v", got, want)
	}
}

// TestEvalVarRefNumericNameIsPositionalParam exercises spec.md §8's
// `rc -c 'echo $0 $2 $#*' a b c d e f` scenario at the evalVarRef layer:
// a numeric name other than "0" resolves against $*, not a variable
// actually named "2".
func TestEvalVarRefNumericNameIsPositionalParam(t *testing.T) {
	ev, ctx, _ := newTestSetup(t)
	ctx.Tables.Vars.Set("*", []string{"a", "b", "c", "d", "e", "f"}, false)

	got := ev.evalVarRef(ctx, ast.VarRef{Name: "2"})
	if !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("$2 = %v, want [b]", got)
	}

	length := ev.evalVarRef(ctx, ast.VarRef{Name: "*", Kind: ast.VarLength})
	if len(length) != 1 || length[0] != "6" {
		t.Fatalf("$#* = %v, want [6]", length)
	}
}

// TestEvalVarRefZeroNameIsNotPositional checks that $0 still resolves
// against the "0" variable bindArgs sets, not $*(0) (subscript 0 is
// always dropped as out of range anyway, but this pins the exclusion).
func TestEvalVarRefZeroNameIsNotPositional(t *testing.T) {
	ev, ctx, _ := newTestSetup(t)
	ctx.Tables.Vars.Set("0", []string{"rc"}, false)
	ctx.Tables.Vars.Set("*", []string{"a", "b"}, false)

	got := ev.evalVarRef(ctx, ast.VarRef{Name: "0"})
	if !reflect.DeepEqual(got, []string{"rc"}) {
		t.Fatalf("$0 = %v, want [rc]", got)
	}
}

func TestTildeExpandBareUsesHome(t *testing.T) {
	got, err := tildeExpand("~/foo")
	if err != nil {
		t.Fatal(err)
	}
	if got == "~/foo" {
		t.Fatalf("tildeExpand did not expand ~/foo")
	}
}

func TestTildeExpandBareTildePassesThrough(t *testing.T) {
	got, err := tildeExpand("~")
	if err != nil {
		t.Fatal(err)
	}
	if got != "~" {
		t.Fatalf("tildeExpand(%q) = %q, want unchanged (reserved for the ~ builtin)", "~", got)
	}
}

func TestTildeExpandUnknownUserPassesThrough(t *testing.T) {
	got, err := tildeExpand("~this-user-should-not-exist-anywhere/x")
	if err != nil {
		t.Fatal(err)
	}
	if got != "~this-user-should-not-exist-anywhere/x" {
		t.Fatalf("tildeExpand(unknown user) = %q, want unchanged", got)
	}
}

func TestEvalValueConcatCrossProducts(t *testing.T) {
	ev, ctx, _ := newTestSetup(t)
	v := ast.Concat{
		Lhs: ast.ListLit{ast.Argument("a"), ast.Argument("b")},
		Rhs: ast.ListLit{ast.Argument("1"), ast.Argument("2")},
	}
	got := ev.evalValue(ctx, v)
	want := []string{"a1", "a2", "b1", "b2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("a^b cross product = %v, want %v", got, want)
	}
}
