package dispatcher_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~rookery/rc/internal/builtin"
	"git.sr.ht/~rookery/rc/internal/diag"
	"git.sr.ht/~rookery/rc/internal/dispatcher"
	"git.sr.ht/~rookery/rc/internal/probe"
	"git.sr.ht/~rookery/rc/internal/status"
	"git.sr.ht/~rookery/rc/internal/syscallx"
	"git.sr.ht/~rookery/rc/internal/table"
)

// newRealContext wires the actual internal/builtin.Registry() into a
// Dispatcher, unlike dispatcher_test.go's newTestContext, whose stub
// builtin maps never happen to include "echo" and so never exercise the
// case where a real dispatcher.Builtin shares a name with an external
// command on $path.
func newRealContext(t *testing.T, pathDirs ...string) (*dispatcher.Dispatcher, *dispatcher.Context, *bytes.Buffer) {
	t.Helper()
	tb := table.New()
	tb.Vars.Set("path", pathDirs, false)
	var out bytes.Buffer
	d := &diag.Diag{Out: &out}
	prober := probe.New(tb, d)
	st := status.New()
	st.Signals = syscallx.NewTable()
	st.Out = d
	ctx := dispatcher.NewContext(tb, st, prober, d, syscallx.NewTable())
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	ctx.Stdout = f
	ctx.Stderr = f
	return dispatcher.New(builtin.Registry()), ctx, &out
}

func mustScript(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
}

// TestBuiltinEchoEchoRunsExternalEcho is the literal scenario from
// spec.md §8 testable property 5, run against the real builtin table
// (which does register "echo"): "builtin echo echo" must land on the
// external echo from $path, not the registered echo builtin.
func TestBuiltinEchoEchoRunsExternalEcho(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran-external")
	mustScript(t, dir, "echo", "#!/bin/sh\ntouch "+marker+"\nexit 0\n")

	d, ctx, _ := newRealContext(t, dir)
	code := d.Exec(ctx, []string{"builtin", "echo", "echo", "hi"}, nil, true)
	if code != 0 {
		t.Fatalf("Exec(builtin echo echo hi) = %d, want 0", code)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("external echo script did not run: %v", err)
	}
}

// TestBuiltinDoesNotStack is spec.md §8 testable property 5's other half:
// "builtin builtin echo" is an error, not a second consumption of the
// builtin prefix.
func TestBuiltinDoesNotStack(t *testing.T) {
	d, ctx, errs := newRealContext(t, t.TempDir())
	code := d.Exec(ctx, []string{"builtin", "builtin", "echo", "hi"}, nil, true)
	if code == 0 {
		t.Fatalf("Exec(builtin builtin echo hi) = 0, want an error status")
	}
	if errs.Len() == 0 {
		t.Fatalf("expected a diagnostic about builtin not stacking")
	}
}
