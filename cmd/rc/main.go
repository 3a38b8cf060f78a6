// Command rc is the shell binary: parse spec.md §6's CLI flags and hand
// off to internal/shell. Grounded on the teacher's cmd/andy/main.go
// (argv-length switch, warn/die helpers), generalized from a fixed
// "no args or one filename" dispatch to the full getopt-style surface
// internal/shell.ParseArgs implements.
package main

import (
	"fmt"
	"os"

	"git.sr.ht/~rookery/rc/internal/shell"
)

func main() {
	opts, err := shell.ParseArgs(os.Args)
	if err != nil {
		die(err)
	}
	s := shell.New(opts)
	os.Exit(s.Run())
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "rc: %s\n", err)
	os.Exit(2)
}
