// Package syscallx supplies the two POSIX-flavored seams the rest of the
// shell needs but the standard library exposes awkwardly: a signal
// name<->number<->message table (spec.md §4.D's status.SignalTable) and
// signal-safe wrappers around the shell's three blocking syscalls
// (spec.md §4.A).
package syscallx

import "syscall"

// Table implements status.SignalTable and probe's supplementary-group
// lookups' sibling concern: resolving a signal by name or number the way
// original_source/hash.c's `signals[]` array does, but built from Go's
// syscall constants instead of a generated C table.
type Table struct{}

// NewTable returns the signal table for the current platform.
func NewTable() Table { return Table{} }

func bySig(sig int) (syscall.Signal, bool) {
	for _, s := range names {
		if int(s) == sig {
			return s, true
		}
	}
	return 0, false
}

// Name returns the lowercase signal name for sig (e.g. "sigint"), or ""
// if sig is not one this table knows about.
func (Table) Name(sig int) string {
	s, ok := bySig(sig)
	if !ok {
		return ""
	}
	for n, v := range names {
		if v == s {
			return n
		}
	}
	return ""
}

// Msg returns the human-readable message for sig, matching status.c's
// `signals[t].msg` used by statprint.
func (Table) Msg(sig int) string {
	s, ok := bySig(sig)
	if !ok {
		return ""
	}
	return messages[s]
}

// Count returns one past the highest known signal number, mirroring
// status.c's NUMOFSIGNALS bound used to guard signals[t] lookups.
func (Table) Count() int {
	max := 0
	for _, s := range names {
		if int(s) > max {
			max = int(s)
		}
	}
	return max + 1
}

// ByName resolves a signal name (case as stored, lowercase) to its
// number, or -1 if unknown. Used by status.FromStrings's reverse lookup.
func (Table) ByName(name string) int {
	if s, ok := names[name]; ok {
		return int(s)
	}
	return -1
}

// IsSignalName reports whether name (with a "sig" prefix, as function
// names are compared in hash.c's fn_exportable) names a known signal,
// used to suppress exporting signal-trap functions per spec.md §4.B.
func IsSignalName(name string) bool {
	_, ok := names[name]
	return ok
}
