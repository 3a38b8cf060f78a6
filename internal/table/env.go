package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"git.sr.ht/~rookery/rc/internal/ast"
	"git.sr.ht/~rookery/rc/internal/value"
)

// Tables bundles the three hash tables and the state make_env needs to
// rebuild a process environment: the noexport list, the prompt/version
// exportability flags, bozo strings inherited at startup, and the dirty
// bit that lets make_env cache its result (hash.c's `environ_dirty`).
type Tables struct {
	Vars  *Vars
	Funcs *Funcs
	Cmds  *CmdCache

	dirty bool

	noexport map[string]bool
	// promptExportable/versionExportable mirror hash.c's two-slot
	// maybeexport[] flag array: prompt and version are excluded from the
	// environment unless the user has explicitly assigned them.
	promptExportable  bool
	versionExportable bool

	bozo   []string // "NAME=value" strings inherited verbatim, not parsed
	cached []string // last make_env() result
}

// IsSignalName reports whether name looks like a signal (used to suppress
// exporting signal-trap functions); internal/syscallx supplies the real
// table, this is just the seam make_env calls through.
type IsSignalName func(name string) bool

func New() *Tables {
	t := &Tables{noexport: map[string]bool{}}
	t.Vars = newVars(&t.dirty)
	t.Funcs = newFuncs(&t.dirty)
	t.Cmds = newCmdCache()
	t.dirty = true
	return t
}

// SetNoexport replaces the set of variable names excluded from export,
// mirroring an assignment to $noexport.
func (t *Tables) SetNoexport(names []string) {
	t.noexport = make(map[string]bool, len(names))
	for _, n := range names {
		t.noexport[n] = true
	}
	t.dirty = true
}

// MarkExportable flips prompt/version's maybeexport flag on explicit
// assignment, per hash.c's set_exportable.
func (t *Tables) MarkExportable(name string) {
	switch name {
	case "prompt":
		t.promptExportable = true
	case "version":
		t.versionExportable = true
	}
	t.dirty = true
}

// MakeEnv rebuilds (or returns the cached) sorted "NAME=value" array.
func (t *Tables) MakeEnv(isSignal IsSignalName) []string {
	if !t.dirty && t.cached != nil {
		return t.cached
	}
	var out []string
	for _, name := range t.Vars.Names() {
		if t.noexport[name] {
			continue
		}
		if name == "prompt" && !t.promptExportable {
			continue
		}
		if name == "version" && !t.versionExportable {
			continue
		}
		e, ok := t.Vars.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, escapeName(name)+"="+strings.Join(wordsOf(e), " "))
	}
	for _, name := range t.Funcs.Names() {
		if isSignal != nil && (isSignal(name) || name == "sigexit") {
			continue
		}
		fe, ok := t.Funcs.Lookup(name)
		if !ok || fe.ExtDef == nil {
			continue
		}
		out = append(out, "fn_"+escapeName(name)+"="+*fe.ExtDef)
	}
	out = append(out, t.bozo...)
	sort.Strings(out)
	t.cached = out
	t.dirty = false
	return out
}

func wordsOf(l *value.List) []string {
	if l == nil {
		return nil
	}
	return l.Strings()
}

// InitEnv seeds the tables from an inherited environment (os.Environ()):
// fn_-prefixed entries become functions (reparsed by parseFn, supplied by
// the caller so internal/table doesn't need to depend on internal/parser),
// everything else becomes a variable, and anything that fails both becomes
// a bozo string passed through verbatim on the next export.
//
// noFn suppresses function installation, matching the -p ("no fn_ import")
// flag in spec.md §6.
func (t *Tables) InitEnv(envp []string, noFn bool, parseFn func(src string) (ast.Program, error)) {
	for _, kv := range envp {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			t.bozo = append(t.bozo, kv)
			continue
		}
		name, val := kv[:eq], kv[eq+1:]
		if strings.HasPrefix(name, "fn_") && !noFn {
			fname := unescapeName(strings.TrimPrefix(name, "fn_"))
			if body, err := parseFn(val); err == nil {
				t.Funcs.Set(fname, body)
				t.Funcs.Place(fname).ExtDef = &val
				continue
			}
			t.bozo = append(t.bozo, kv)
			continue
		}
		t.Vars.Set(unescapeName(name), splitWords(val), false)
	}
	t.dirty = true
}

// escapeName hex-escapes every byte of name that isn't safe to carry
// unescaped in a POSIX environment identifier, per spec.md §6's
// "Inherited environment" paragraph. A byte is safe if it's a letter, or
// a digit not in the first position (POSIX identifiers can't start with a
// digit); everything else — including a literal '_', so the escape
// marker itself can never appear unescaped in an escaped name — becomes
// "__XX", XX its two-digit uppercase hex value.
func escapeName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isSafeNameByte(c, i) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "__%02X", c)
	}
	return b.String()
}

func isSafeNameByte(c byte, pos int) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return pos != 0
	default:
		return false
	}
}

// unescapeName reverses escapeName: each "__XX" run becomes the byte XX
// decodes to; anything else passes through unchanged, so a name imported
// from an environment that never applied this convention still round-trips.
func unescapeName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); {
		if name[i] == '_' && i+4 <= len(name) && name[i+1] == '_' {
			if v, err := strconv.ParseUint(name[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 4
				continue
			}
		}
		b.WriteByte(name[i])
		i++
	}
	return b.String()
}

// splitWords mirrors rc's treatment of an inherited scalar environment
// entry as a single-word list unless it contains rc's own word separator
// (NUL-joined multi-value export isn't used here; POSIX environ values
// are plain strings, so the whole value is one word). A numeric-looking
// value is still just one word — this is not shell word-splitting.
func splitWords(val string) []string {
	if val == "" {
		return []string{""}
	}
	return []string{val}
}
