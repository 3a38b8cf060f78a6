package builtin

import (
	"golang.org/x/sys/unix"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
	"git.sr.ht/~rookery/rc/internal/status"
	"git.sr.ht/~rookery/rc/internal/syscallx"
)

// wait implements spec.md §4.D's set_wait_status as the `wait` builtin,
// grounded on original_source/status.c's setwaitstatus and rc_wait4:
// each argument names a PID to block for via the slow-call wrapper, with
// no arguments draining ctx.Apids (the backgrounded-pipeline list §8's
// "sleep 2 &; wait $apid" scenario needs).
func wait(ctx *dispatcher.Context, av []string) int {
	pids := av[1:]
	if len(pids) == 0 {
		pids = append([]string(nil), ctx.Apids...)
		ctx.Apids = nil
	}
	ctx.Status.SetWaitStatus(pids, av[0], makeWait4(ctx))
	return ctx.Status.GetStatus()
}

// makeWait4 adapts unix.Wait4 to status.Wait4, routing the actual block
// through syscallx.Wait so a delivered signal reports Interrupted instead
// of hanging, matching rc_wait's own slow-call wrapping.
func makeWait4(ctx *dispatcher.Context) status.Wait4 {
	return func(pid int, nohang bool) (status.Status, error) {
		var flag int
		if nohang {
			flag = unix.WNOHANG
		}
		var ws unix.WaitStatus
		waiter := func(p int) (int, int, error) {
			rpid, err := unix.Wait4(p, &ws, flag, nil)
			return rpid, int(ws), err
		}
		_, _, err := syscallx.Wait(ctx.Canceler, waiter, pid)
		if err != nil {
			if _, ok := err.(syscallx.Interrupted); ok {
				return 0, status.Interrupted{}
			}
			return 0, err
		}
		if ws.Signaled() {
			return status.FromWait(int(ws.Signal()), ws.CoreDump()), nil
		}
		return status.FromExit(ws.ExitStatus()), nil
	}
}
