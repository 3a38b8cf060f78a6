package syscallx

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"git.sr.ht/~rookery/rc/internal/status"
)

// DecodeWaitStatus converts an *os.ProcessState's terminal state into
// spec.md §3's raw encoding (high byte exit code, low 7 bits signal, bit
// 0x80 core-dumped). os/exec always stores a syscall.WaitStatus behind
// ProcessState.Sys(); golang.org/x/sys/unix.WaitStatus has the same
// underlying representation with the decode methods (Signaled,
// ExitStatus, Signal, CoreDump) this shell needs, so the raw value is
// reinterpreted as that type rather than duplicating its bit-masking by
// hand — the same move rjkroege-edwood's process handling makes when it
// reaches for golang.org/x/sys/unix instead of the narrower syscall
// package for POSIX process details.
func DecodeWaitStatus(ps *os.ProcessState, waitErr error) status.Status {
	sw, ok := ps.Sys().(syscall.WaitStatus)
	if !ok {
		if waitErr != nil {
			return status.FromExit(1)
		}
		return status.FromExit(0)
	}
	ws := unix.WaitStatus(sw)
	switch {
	case ws.Signaled():
		return status.FromWait(int(ws.Signal()), ws.CoreDump())
	case ws.Exited():
		return status.FromExit(ws.ExitStatus())
	default:
		return status.FromExit(1)
	}
}
