//go:build !develop
// +build !develop

package shell

import "git.sr.ht/~rookery/rc/internal/ast"

// dumpProgram is a no-op in ordinary builds; -d only does anything when
// the binary is built with -tags develop, per spec.md §6.
func dumpProgram(ast.Program) {}
