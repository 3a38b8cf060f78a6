package builtin

import (
	"bytes"
	"errors"
	"io"
	"math"
	"slices"
	"strconv"

	"git.sr.ht/~mango/opts"

	"git.sr.ht/~rookery/rc/internal/dispatcher"
)

// read is grounded on the teacher's builtin/read.go, generalized to
// assign through table.Vars instead of recursing into set's flat-map
// implementation: same -d/-D/-n flags via git.sr.ht/~mango/opts, same
// byte-at-a-time scan with a strict delimiter set (ds), same
// "drop the last delimiter-terminated word's trailing newline" fixup.
func read(ctx *dispatcher.Context, av []string) int {
	flags, optind, err := opts.GetLong(av, []opts.LongOpt{
		{Short: 'd', Long: "delimiters", Arg: opts.Required},
		{Short: 'D', Long: "no-empty", Arg: opts.None},
		{Short: 'n', Long: "count", Arg: opts.Required},
	})
	if err != nil {
		errorf(ctx, av, "%s", err)
		return readUsage(ctx)
	}

	var ds []byte
	var noEmpty bool
	cnt := math.MaxInt
	for _, f := range flags {
		switch f.Key {
		case 'd':
			ds = []byte(f.Value)
		case 'D':
			noEmpty = true
		case 'n':
			n, err := strconv.Atoi(f.Value)
			if err != nil {
				errorf(ctx, av, "%s", err)
				return readUsage(ctx)
			}
			cnt = n
		}
	}
	if len(ds) == 0 {
		ds = []byte{'\n'}
	}

	rest := av[optind:]
	if len(rest) != 1 {
		return readUsage(ctx)
	}
	name := rest[0]

	parts, err := readWords(ctx, ds, cnt)
	if err != nil {
		errorf(ctx, av, "%s", err)
		return 1
	}
	if noEmpty {
		parts = slices.DeleteFunc(parts, func(s string) bool { return s == "" })
	}
	if len(parts) > 0 {
		p := parts[len(parts)-1]
		if n := len(p); n > 0 && p[n-1] == '\n' {
			parts[len(parts)-1] = p[:n-1]
		}
	}
	if len(parts) == 0 {
		ctx.Tables.Vars.Set(name, nil, false)
		return 1
	}
	ctx.Tables.Vars.Set(name, parts, false)
	return 0
}

func readWords(ctx *dispatcher.Context, ds []byte, cnt int) ([]string, error) {
	var sb bytes.Buffer
	buf := make([]byte, 1)
	var parts []string
	for cnt > 0 {
		_, err := ctx.Stdin.Read(buf)
		switch {
		case errors.Is(err, io.EOF):
			if sb.Len() > 0 {
				parts = append(parts, sb.String())
			}
			return parts, nil
		case err != nil:
			return nil, err
		}
		if bytes.IndexByte(ds, buf[0]) != -1 {
			cnt--
			parts = append(parts, sb.String())
			sb.Reset()
		} else {
			sb.WriteByte(buf[0])
		}
	}
	return parts, nil
}

func readUsage(ctx *dispatcher.Context) int {
	ctx.Diag.Errf("Usage: read [-D] [-n num] [-d string] variable")
	return 1
}
