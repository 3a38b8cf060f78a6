package dispatcher

import (
	"errors"
	"os"

	"git.sr.ht/~rookery/rc/internal/ast"
)

// Redirect is one entry of the redirection queue spec.md's glossary
// describes, already reduced to a plain filename by internal/eval's word
// expansion — the dispatcher itself never evaluates a Value, since glob
// and variable expansion are explicitly out-of-scope collaborators
// (spec.md §1).
type Redirect struct {
	Type ast.RedirType
	Name string
}

const appendFlags = os.O_APPEND | os.O_CREATE | os.O_WRONLY

// ApplyRedirects is applyRedirects exported for internal/eval, which
// needs to apply a Compound/If/While/For's own redirection queue to its
// already-isolated child Context before running the block's body.
func ApplyRedirects(ctx *Context, redirs []Redirect) error {
	return applyRedirects(ctx, redirs)
}

// applyRedirects applies redirs in order to ctx, mutating its
// Stdin/Stdout/Stderr. Grounded on the teacher's vm/exec.go
// execCommand's redirection switch, generalized to a resolved-filename
// Redirect instead of an ast.Value plus context slot.
func applyRedirects(ctx *Context, redirs []Redirect) error {
	for _, r := range redirs {
		switch r.Type {
		case ast.RedirAppend:
			fp, err := os.OpenFile(r.Name, appendFlags, 0666)
			if err != nil {
				return err
			}
			ctx.Stdout = fp
		case ast.RedirClob:
			fp, err := os.Create(r.Name)
			if err != nil {
				return err
			}
			ctx.Stdout = fp
		case ast.RedirRead:
			fp, err := os.Open(r.Name)
			if err != nil {
				return err
			}
			ctx.Stdin = fp
		case ast.RedirWrite:
			if !ctx.NoOverwrite {
				fp, err := os.Create(r.Name)
				if err != nil {
					return err
				}
				ctx.Stdout = fp
				continue
			}
			_, err := os.Stat(r.Name)
			switch {
			case errors.Is(err, os.ErrNotExist):
				fp, err := os.Create(r.Name)
				if err != nil {
					return err
				}
				ctx.Stdout = fp
			case err != nil:
				return err
			default:
				return &ClobberError{Name: r.Name}
			}
		}
	}
	return nil
}

// ClobberError reports an attempt to '>' onto a file that already
// exists while NoOverwrite (-o) is set; without -o a plain '>'
// truncates an existing file, and '>!' always does.
type ClobberError struct{ Name string }

func (e *ClobberError) Error() string { return e.Name + ": file already exists" }
