package builtin

import (
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// umask has no teacher source; it's a standard rc builtin exercising the
// same golang.org/x/sys/unix dependency internal/probe already reaches
// for, rather than inventing a syscall.Umask wrapper of our own. With no
// argument it reports the current mask (a bare unix.Umask read-modify
// round trip, since the kernel has no read-only umask query); with one
// octal argument it sets it.
func umask(ctx *dispatcher.Context, av []string) int {
	if len(av) == 1 {
		old := unix.Umask(0)
		unix.Umask(old)
		fmt.Fprintf(ctx.Stdout, "%04o\n", old)
		return 0
	}
	if len(av) != 2 {
		ctx.Diag.Errf("Usage: umask [mask]")
		return 1
	}
	v, err := strconv.ParseInt(av[1], 8, 32)
	if err != nil {
		errorf(ctx, av, "%s", err)
		return 1
	}
	unix.Umask(int(v))
	return 0
}
