//go:build linux

package syscallx

import "syscall"

func init() {
	names["sigpoll"] = syscall.SIGPOLL
	names["sigprof"] = syscall.SIGPROF
	names["sigsys"] = syscall.SIGSYS
	names["sigvtalrm"] = syscall.SIGVTALRM
	names["sigwinch"] = syscall.SIGWINCH
	names["sigio"] = syscall.SIGIO
	names["sigpwr"] = syscall.SIGPWR
	names["sigstkflt"] = syscall.SIGSTKFLT

	messages[syscall.SIGPOLL] = "pollable event"
	messages[syscall.SIGPROF] = "profiling alarm clock"
	messages[syscall.SIGSYS] = "bad system call"
	messages[syscall.SIGVTALRM] = "virtual timer expired"
	messages[syscall.SIGWINCH] = "window changed"
	messages[syscall.SIGIO] = "I/O possible"
	messages[syscall.SIGPWR] = "power fail/restart"
	messages[syscall.SIGSTKFLT] = "stack fault"
}
