//go:build develop
// +build develop

package shell

import (
	"fmt"
	"os"

	"git.sr.ht/~rookery/rc/internal/ast"
)

// dumpProgram implements spec.md §6's "-d (debug: dump parse trees if
// built with develop)": only linked in by a `develop`-tagged build,
// grounded on rjkroege-edwood's acme_debug.go build-tag split.
func dumpProgram(prog ast.Program) {
	fmt.Fprintf(os.Stderr, "%#v\n", prog)
}
