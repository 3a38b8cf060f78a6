// Package probe implements the executability check and $path search that
// turn a bare command name into a full, executable pathname.
//
// Grounded directly on original_source/which.c: same rc_access mask rule
// (root → any-execute, owner → owner-execute, primary or supplementary
// group member → group-execute, else other-execute), same absolute-path
// short-circuit, same path-cache-then-$path-scan order in Which, and the
// same verify_cmd invalidation contract. golang.org/x/sys/unix supplies
// Getgroups the way michaelmacinnis-oh's process package reaches for
// unix.* process primitives instead of hand-rolling them over cgo or
// syscall.
package probe

import (
	"os"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"git.sr.ht/~rookery/rc/internal/table"
)

// executeMask bits, matching which.c's X_USR/X_GRP/X_OTH/X_ALL.
const (
	xUsr = 0o100
	xGrp = 0o010
	xOth = 0o001
	xAll = xUsr | xGrp | xOth
)

// Reporter receives the verbose diagnostic rc_access/which print when
// asked to be noisy (spec.md's "report when verbose"); internal/diag
// implements it.
type Reporter interface {
	CannotFind(name string)
	AccessError(path string, err error)
}

// Prober resolves command names to full paths, backed by a Tables' path
// cache. The effective uid/gid/supplementary groups are probed once, on
// first use, exactly as which.c's static `initialized` flag gates its own
// one-time setup.
type Prober struct {
	tables *table.Tables
	report Reporter

	once   sync.Once
	uid    int
	gid    int
	groups []int

	lastPath string // $path words seen by the previous Which, NUL-joined
}

func New(tables *table.Tables, report Reporter) *Prober {
	return &Prober{tables: tables, report: report}
}

func (p *Prober) init() {
	p.once.Do(func() {
		p.uid = unix.Geteuid()
		p.gid = unix.Getegid()
		if gs, err := unix.Getgroups(); err == nil {
			p.groups = gs
		}
	})
}

func (p *Prober) inGidSet(g int) bool {
	for _, x := range p.groups {
		if x == g {
			return true
		}
	}
	return false
}

// Access reports whether path names a regular, executable-for-us file.
// When verbose it reports through Reporter on any failure, matching
// rc_access's "verbose flag only set for absolute pathname" convention.
func (p *Prober) Access(path string, verbose bool) bool {
	p.init()
	st, err := os.Stat(path)
	if err != nil {
		if verbose && p.report != nil {
			p.report.AccessError(path, err)
		}
		return false
	}
	sys, ok := st.Sys().(*syscall.Stat_t)
	mode := st.Mode()
	var mask int
	switch {
	case p.uid == 0:
		mask = xAll
	case ok && int(sys.Uid) == p.uid:
		mask = xUsr
	case ok && (int(sys.Gid) == p.gid || p.inGidSet(int(sys.Gid))):
		mask = xGrp
	default:
		mask = xOth
	}
	if st.Mode().IsRegular() && mode.Perm()&os.FileMode(mask) != 0 {
		return true
	}
	if verbose && p.report != nil {
		p.report.AccessError(path, os.ErrPermission)
	}
	return false
}

// join mirrors which.c's join: concatenate dir and name with exactly one
// '/', treating an empty dir as "use name as-is" and leaving a dir that
// already ends in '/' alone (so "//" is preserved, which is meaningful to
// POSIX).
func join(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

func isAbsolute(name string) bool { return strings.HasPrefix(name, "/") }

// Which resolves name to a full pathname, or "" if it can't find one. An
// empty name returns "" immediately (which.c's NULL-name case, covering
// bare redirections like "> foo" parsed as a zero-word command). The path
// cache is emptied first whenever the $path word list differs from the one
// the previous call saw.
func (p *Prober) Which(name string, verbose bool, pathVar func() []string) string {
	if name == "" {
		return ""
	}
	if isAbsolute(name) {
		if p.Access(name, verbose) {
			return name
		}
		return ""
	}
	if key := strings.Join(pathVar(), "\x00"); key != p.lastPath {
		p.tables.Cmds.Reset()
		p.lastPath = key
	}
	if cached, ok := p.tables.Cmds.Lookup(name); ok {
		return join(cached, name)
	}
	for _, dir := range pathVar() {
		full := join(dir, name)
		if p.Access(full, false) {
			p.tables.Cmds.Set(name, dir)
			return full
		}
	}
	if verbose && p.report != nil {
		p.report.CannotFind(name)
	}
	return ""
}

// VerifyCmd drops fullpath's command from the cache if it's no longer
// executable — called after an exec attempt fails with a not-found-ish
// error, matching which.c's verify_cmd.
func (p *Prober) VerifyCmd(fullpath string) {
	if p.Access(fullpath, false) {
		return
	}
	i := strings.LastIndexByte(fullpath, '/')
	if i < 0 || i+1 >= len(fullpath) {
		return
	}
	p.tables.Cmds.Delete(fullpath[i+1:])
}
