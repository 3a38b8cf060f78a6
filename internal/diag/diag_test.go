package diag

import (
	"bytes"
	"testing"
)

func TestErrfPrefixesAndNewlines(t *testing.T) {
	var buf bytes.Buffer
	d := &Diag{Out: &buf}
	d.Errf("cannot find `%s'", "foo")
	if got, want := buf.String(), "rc: cannot find `foo'\n"; got != want {
		t.Fatalf("Errf() = %q, want %q", got, want)
	}
}

func TestQuoteReplacesNonPrintable(t *testing.T) {
	if got, want := Quote("foo\x01bar"), "foo?bar"; got != want {
		t.Fatalf("Quote() = %q, want %q", got, want)
	}
	if got, want := Quote("clean"), "clean"; got != want {
		t.Fatalf("Quote() = %q, want %q", got, want)
	}
}

func TestCannotFind(t *testing.T) {
	var buf bytes.Buffer
	d := &Diag{Out: &buf}
	d.CannotFind("frob")
	if got, want := buf.String(), "rc: cannot find `frob'\n"; got != want {
		t.Fatalf("CannotFind() = %q, want %q", got, want)
	}
}
