package probe

import (
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~rookery/rc/internal/table"
)

func mustExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\necho hi\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestWhichFindsInPath(t *testing.T) {
	dir := t.TempDir()
	mustExecutable(t, dir, "greet")

	tb := table.New()
	p := New(tb, nil)
	got := p.Which("greet", false, func() []string { return []string{dir} })
	want := filepath.Join(dir, "greet")
	if got != want {
		t.Errorf("Which = %q, want %q", got, want)
	}
	if _, ok := tb.Cmds.Lookup("greet"); !ok {
		t.Error("Which did not populate the command cache")
	}
}

func TestWhichAbsolute(t *testing.T) {
	dir := t.TempDir()
	full := mustExecutable(t, dir, "tool")

	tb := table.New()
	p := New(tb, nil)
	got := p.Which(full, false, func() []string { return nil })
	if got != full {
		t.Errorf("Which(%q) = %q, want %q", full, got, full)
	}
}

func TestWhichEmptyName(t *testing.T) {
	tb := table.New()
	p := New(tb, nil)
	if got := p.Which("", false, func() []string { return nil }); got != "" {
		t.Errorf("Which(\"\") = %q, want empty", got)
	}
}

func TestWhichNotFound(t *testing.T) {
	tb := table.New()
	p := New(tb, nil)
	got := p.Which("definitely-not-a-real-command", false, func() []string { return []string{t.TempDir()} })
	if got != "" {
		t.Errorf("Which = %q, want empty", got)
	}
}

func TestVerifyCmdEvictsStaleEntry(t *testing.T) {
	dir := t.TempDir()
	full := mustExecutable(t, dir, "tool")

	tb := table.New()
	p := New(tb, nil)
	tb.Cmds.Set("tool", dir)

	if err := os.Remove(full); err != nil {
		t.Fatal(err)
	}
	p.VerifyCmd(full)

	if _, ok := tb.Cmds.Lookup("tool"); ok {
		t.Error("VerifyCmd did not evict a command whose file disappeared")
	}
}

func TestJoinHandlesEmptyAndTrailingSlash(t *testing.T) {
	cases := []struct{ dir, name, want string }{
		{"", "ls", "ls"},
		{"/bin", "ls", "/bin/ls"},
		{"/bin/", "ls", "/bin/ls"},
		{"/", "ls", "/ls"},
	}
	for _, c := range cases {
		if got := join(c.dir, c.name); got != c.want {
			t.Errorf("join(%q, %q) = %q, want %q", c.dir, c.name, got, c.want)
		}
	}
}
