package builtin

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// echo is grounded on the teacher's builtin/echo.go: join the arguments
// with a single space, ignoring a downstream EPIPE the way a shell
// writing into a closed pipe silently gives up. A leading "-n" suppresses
// the trailing newline, per spec.md §8's `echo -n $x` scenario.
func echo(ctx *dispatcher.Context, av []string) int {
	args := av[1:]
	newline := true
	if len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}
	out := strings.Join(args, " ")
	if newline {
		out += "\n"
	}
	_, err := fmt.Fprint(ctx.Stdout, out)
	if err != nil && !errors.Is(err, syscall.EPIPE) {
		errorf(ctx, av, "%s", err)
		return 1
	}
	return 0
}
