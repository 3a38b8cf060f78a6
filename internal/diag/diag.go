// Package diag is the shell's single diagnostic writer: every user-visible
// error in spec.md §7's taxonomy is printed through it, always prefixed
// "rc: " (spec.md: "Every diagnostic is prefixed `rc: `"), with
// non-printable bytes in interpolated names replaced by '?'.
//
// Grounded on the teacher's log/log.go (log.Err + CrashOnError), widened
// to also implement the two narrower reporter interfaces internal/probe
// and internal/status ask their callers to supply, so the dispatcher can
// wire one object into all three instead of three ad hoc closures.
package diag

import (
	"fmt"
	"io"
	"os"
	"unicode"
)

// Diag is the shell's diagnostic sink.
type Diag struct {
	Out io.Writer

	// CrashOnError mirrors log.go's package-level switch: when set, any
	// diagnostic is fatal. rc itself never sets this outside of the
	// "Fatal" taxonomy entry in spec.md §7 (out of memory, inconsistent
	// internal state); ordinary resolution/usage errors just print.
	CrashOnError bool
}

// New returns a Diag writing to stderr.
func New() *Diag { return &Diag{Out: os.Stderr} }

// Errf prints a "rc: "-prefixed diagnostic, trailing newline included,
// terminating the process if CrashOnError is set. This is the general
// entry point every builtin and the dispatcher itself call.
func (d *Diag) Errf(format string, args ...any) {
	fmt.Fprintf(d.Out, "rc: "+format+"\n", args...)
	if d.CrashOnError {
		os.Exit(1)
	}
}

// Quote renders name for inclusion in a diagnostic, replacing any
// non-printable byte with '?' per spec.md §7: "Non-printable characters
// in user-supplied names are rendered as `?` before printing."
func Quote(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if unicode.IsPrint(r) {
			out = append(out, r)
		} else {
			out = append(out, '?')
		}
	}
	return string(out)
}

// CannotFind implements probe.Reporter: which.c's `"cannot find \`name'"`.
func (d *Diag) CannotFind(name string) {
	d.Errf("cannot find `%s'", Quote(name))
}

// AccessError implements probe.Reporter for a failed rc_access, folding
// the underlying error into a resolution-error diagnostic.
func (d *Diag) AccessError(path string, err error) {
	d.Errf("%s: %s", Quote(path), err)
}

// Print implements status.Printer: the "done (N)" / signal-message line
// statprint writes to fd 2, unprefixed (it is not an error diagnostic,
// just a status report, matching status.c's bare fprint(2, ...)).
func (d *Diag) Print(pid int, msg string) {
	fmt.Fprintln(d.Out, msg)
}

// NotFound reports a resolution error for a command that isn't a
// builtin, function, or anything on $path.
func (d *Diag) NotFound(name string) {
	d.Errf("%s: not found", Quote(name))
}
