package shell

import (
	"fmt"

	"git.sr.ht/~mango/opts"
)

// Options is the parsed form of spec.md §6's CLI surface: a single
// binary, every flag independently combinable, `-c COMMAND` short for
// "run this string and exit". Grounded on the teacher's own flag-parsing
// idiom (git.sr.ht/~mango/opts.GetLong, one LongOpt per switch) even
// though the teacher itself never parses its own argv this way — only
// its builtins do.
type Options struct {
	Command      string // -c: run this string instead of reading a script
	HasCommand   bool
	Interactive  bool // -i
	Login        bool // -l
	Stdin        bool // -s: read from stdin, not implicitly interactive
	NoExecute    bool // -n: parse only
	NoFuncImport bool // -p: don't import fn_ entries from the environment
	ErrExit      bool // -e: exit on nonzero status
	Verbose      bool // -v: echo input as read
	Trace        bool // -x: trace executions
	Debug        bool // -d: dump parse trees (development builds only)
	NoOverwrite  bool // -o: '>' never clobbers, even a stale-looking cache entry
	Args         []string
}

// UsageError reports an unrecognized flag or a missing -c argument. Its
// message is the error text opts.GetLong returned, unchanged; it is not
// rewritten into a fixed wording.
type UsageError struct{ Msg string }

func (e *UsageError) Error() string { return e.Msg }

// ParseArgs parses argv (os.Args, program name included) per spec.md §6.
// Anything left after the recognized flags becomes Args: a script
// filename followed by its own positional parameters, or (with -s or no
// script named) just positional parameters for a script read from
// stdin.
func ParseArgs(argv []string) (Options, error) {
	flags, optind, err := opts.GetLong(argv, []opts.LongOpt{
		{Short: 'c', Long: "command", Arg: opts.Required},
		{Short: 'i', Long: "interactive", Arg: opts.None},
		{Short: 'l', Long: "login", Arg: opts.None},
		{Short: 's', Long: "stdin", Arg: opts.None},
		{Short: 'n', Long: "no-execute", Arg: opts.None},
		{Short: 'p', Long: "no-fn-import", Arg: opts.None},
		{Short: 'e', Long: "errexit", Arg: opts.None},
		{Short: 'v', Long: "verbose", Arg: opts.None},
		{Short: 'x', Long: "trace", Arg: opts.None},
		{Short: 'd', Long: "debug", Arg: opts.None},
		{Short: 'o', Long: "no-overwrite", Arg: opts.None},
	})
	if err != nil {
		return Options{}, translateOptsError(err)
	}

	var o Options
	for _, f := range flags {
		switch f.Key {
		case 'c':
			o.Command = f.Value
			o.HasCommand = true
		case 'i':
			o.Interactive = true
		case 'l':
			o.Login = true
		case 's':
			o.Stdin = true
		case 'n':
			o.NoExecute = true
		case 'p':
			o.NoFuncImport = true
		case 'e':
			o.ErrExit = true
		case 'v':
			o.Verbose = true
		case 'x':
			o.Trace = true
		case 'd':
			o.Debug = true
		case 'o':
			o.NoOverwrite = true
		}
	}
	o.Args = argv[optind:]
	return o, nil
}

// translateOptsError wraps whatever error opts.GetLong returns in a
// UsageError, keeping its message text as is; it does not map any error
// to a fixed message form.
func translateOptsError(err error) error {
	return &UsageError{Msg: fmt.Sprintf("%s", err)}
}
