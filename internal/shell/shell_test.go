package shell

import (
	"testing"
)

func TestParseArgsCommand(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-c", "echo hi", "a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if !o.HasCommand || o.Command != "echo hi" {
		t.Fatalf("HasCommand=%v Command=%q", o.HasCommand, o.Command)
	}
	if len(o.Args) != 2 || o.Args[0] != "a" || o.Args[1] != "b" {
		t.Fatalf("Args = %v, want [a b]", o.Args)
	}
}

func TestParseArgsCombinedFlags(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-i", "-e", "-x", "script.rc"})
	if err != nil {
		t.Fatal(err)
	}
	if !o.Interactive || !o.ErrExit || !o.Trace {
		t.Fatalf("flags not all set: %+v", o)
	}
	if len(o.Args) != 1 || o.Args[0] != "script.rc" {
		t.Fatalf("Args = %v, want [script.rc]", o.Args)
	}
}

func TestParseArgsUnknownFlag(t *testing.T) {
	_, err := ParseArgs([]string{"rc", "-Z"})
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if _, ok := err.(*UsageError); !ok {
		t.Fatalf("error type = %T, want *UsageError", err)
	}
}

func TestParseArgsMissingCommandArgument(t *testing.T) {
	_, err := ParseArgs([]string{"rc", "-c"})
	if err == nil {
		t.Fatal("expected an error for -c with no argument")
	}
}

// TestBindArgsScriptNameBecomesDollarZero checks that running a named
// script sets $0 to the script name and $* to the remaining arguments.
func TestBindArgsScriptNameBecomesDollarZero(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "myscript.rc", "a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(o)
	l, ok := s.tables.Vars.Lookup("0")
	if !ok || l.Strings()[0] != "myscript.rc" {
		t.Fatalf("$0 = %v, want [myscript.rc]", l)
	}
	star, ok := s.tables.Vars.Lookup("*")
	if !ok {
		t.Fatal("$* not bound")
	}
	if got := star.Strings(); len(got) != 3 || got[0] != "a" {
		t.Fatalf("$* = %v, want [a b c]", got)
	}
}

// TestBindArgsDashCKeepsShellNameAsDollarZero implements Open Question
// decision 1 in DESIGN.md/SPEC_FULL.md: under `rc -c COMMAND a b`, $0 is
// always the shell's own invocation name, never reassigned from the
// trailing arguments.
func TestBindArgsDashCKeepsShellNameAsDollarZero(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-c", "echo $0 $2 $#*", "a", "b", "c", "d", "e", "f"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(o)
	l, ok := s.tables.Vars.Lookup("0")
	if !ok || l.Strings()[0] != "rc" {
		t.Fatalf("$0 = %v, want [rc]", l)
	}
	star, ok := s.tables.Vars.Lookup("*")
	if !ok || len(star.Strings()) != 6 {
		t.Fatalf("$* = %v, want 6 words", star)
	}
}

// TestRunCommandExecutesAndReturnsStatus runs a -c command end to end
// through the real dispatcher/eval/builtin stack.
func TestRunCommandExecutesAndReturnsStatus(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-c", "true"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(o)
	if code := s.Run(); code != 0 {
		t.Fatalf("rc -c true exited %d, want 0", code)
	}
}

func TestRunCommandFalseReturnsNonzero(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-c", "false"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(o)
	if code := s.Run(); code == 0 {
		t.Fatalf("rc -c false exited 0, want nonzero")
	}
}

// TestRunCommandAssignmentPersistsAcrossStatements checks that a -c
// script's top-level assignment survives to a later statement in the
// same command string.
func TestRunCommandAssignmentPersistsAcrossStatements(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-c", "x=hello; echo $x"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(o)
	if code := s.Run(); code != 0 {
		t.Fatalf("rc -c exited %d", code)
	}
}

func TestNoExecuteSkipsExecution(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-n", "-c", "false"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(o)
	if code := s.Run(); code != 0 {
		t.Fatalf("rc -n -c false exited %d, want 0 (never ran)", code)
	}
}

func TestErrExitTerminatesOnFailure(t *testing.T) {
	o, err := ParseArgs([]string{"rc", "-e", "-c", "false; echo should-not-run; true"})
	if err != nil {
		t.Fatal(err)
	}
	s := New(o)
	code := s.Run()
	if code == 0 {
		t.Fatalf("rc -e -c 'false; ...' exited 0, want nonzero")
	}
}
