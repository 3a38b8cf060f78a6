//go:build darwin

package syscallx

import "syscall"

func init() {
	names["sigio"] = syscall.SIGIO
	names["sigprof"] = syscall.SIGPROF
	names["sigsys"] = syscall.SIGSYS
	names["sigvtalrm"] = syscall.SIGVTALRM
	names["sigwinch"] = syscall.SIGWINCH

	messages[syscall.SIGIO] = "I/O possible"
	messages[syscall.SIGPROF] = "profiling alarm clock"
	messages[syscall.SIGSYS] = "bad system call"
	messages[syscall.SIGVTALRM] = "virtual timer expired"
	messages[syscall.SIGWINCH] = "window changed"
}
