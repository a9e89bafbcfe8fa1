package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/funvibe/nixeval/internal/config"
	"github.com/funvibe/nixeval/internal/evaluator"
)

const usage = `usage: nixeval [-f] [-o nix|json|tagged] [-I name=path]... [-s] [-v] [-r] [EXPR|FILE]

  -f          treat the argument as a file to evaluate
  -o FORMAT   output format: nix (default), json or tagged
  -I NAME=DIR add a <NAME> search path entry (may be repeated)
  -s          force the result completely before printing
  -v          log imports and derivation writes
  -r          start the interactive prompt
  -h          show this help
`

type options struct {
	file        bool
	format      string
	searchPaths []config.SearchPathEntry
	strict      bool
	verbose     bool
	repl        bool
	arg         string
	hasArg      bool
}

func parseArgs(args []string) (*options, error) {
	opts, optind, err := getopt.Getopts(args, "fo:I:svrh")
	if err != nil {
		return nil, err
	}
	o := &options{format: "nix"}
	for _, opt := range opts {
		switch opt.Option {
		case 'f':
			o.file = true
		case 'o':
			switch opt.Value {
			case "nix", "json", "tagged":
				o.format = opt.Value
			default:
				return nil, fmt.Errorf("unknown output format %q", opt.Value)
			}
		case 'I':
			name, path, ok := strings.Cut(opt.Value, "=")
			if !ok || name == "" || path == "" {
				return nil, fmt.Errorf("-I expects name=path, got %q", opt.Value)
			}
			o.searchPaths = append(o.searchPaths, config.SearchPathEntry{Name: name, Path: path})
		case 's':
			o.strict = true
		case 'v':
			o.verbose = true
		case 'r':
			o.repl = true
		case 'h':
			return nil, errHelp
		}
	}
	rest := args[optind:]
	switch len(rest) {
	case 0:
	case 1:
		o.arg, o.hasArg = rest[0], true
	default:
		return nil, fmt.Errorf("unexpected argument %q", rest[1])
	}
	if o.file && !o.hasArg {
		return nil, errors.New("-f needs a file argument")
	}
	return o, nil
}

var errHelp = errors.New("help requested")

// app bundles the streams a run writes to.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	errc   *color.Color
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	errc := color.New(color.FgRed, color.Bold)
	if !isTerminal(stderr) {
		errc.DisableColor()
	}
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, errc: errc}
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) fail(err error) {
	a.errc.Fprint(a.stderr, "error:")
	fmt.Fprintf(a.stderr, " %s\n", err)
}

// newLogger writes human-readable logs to w at the configured level.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w), TimeFormat: "15:04:05"}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// newEvaluator applies search paths in priority order: -I, then NIX_PATH,
// then the config file.
func (a *app) newEvaluator(o *options) (*evaluator.Evaluator, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Discover(wd)
	if err != nil {
		return nil, err
	}
	log := newLogger(a.stderr, cfg, o.verbose)

	entries := append([]config.SearchPathEntry{}, o.searchPaths...)
	entries = append(entries, config.ParseNixPath(os.Getenv(config.NixPathEnv))...)
	resolved, errs := config.ResolveSearchPaths(entries, config.NixFlakeResolver{})
	for _, err := range errs {
		log.Warn().Err(err).Msg("skipping search path entry")
	}

	evalOpts := []evaluator.Option{evaluator.WithLogger(log), evaluator.WithConfig(cfg)}
	for _, sp := range resolved {
		evalOpts = append(evalOpts, evaluator.WithSearchPath(sp.Name, sp.Path))
	}
	return evaluator.New(evalOpts...), nil
}

// render formats v for output.
func render(e *evaluator.Evaluator, v evaluator.Object, format string, strict bool) (string, error) {
	switch format {
	case "json":
		return e.ToJSON(v)
	case "tagged":
		full, err := e.DeepForce(v)
		if err != nil {
			return "", err
		}
		data, err := evaluator.MarshalTagged(full)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if strict {
		full, err := e.DeepForce(v)
		if err != nil {
			return "", err
		}
		v = full
	}
	return evaluator.Display(v), nil
}

func (a *app) run(args []string) int {
	o, err := parseArgs(args)
	if errors.Is(err, errHelp) {
		fmt.Fprint(a.stdout, usage)
		return 0
	}
	if err != nil {
		a.fail(err)
		fmt.Fprint(a.stderr, usage)
		return 2
	}

	e, err := a.newEvaluator(o)
	if err != nil {
		a.fail(err)
		return 1
	}

	if o.repl || (!o.hasArg && isTerminal(a.stdin)) {
		return a.repl(e, o)
	}

	var v evaluator.Object
	switch {
	case o.file:
		v, err = e.EvaluateFile(o.arg)
	case o.hasArg:
		v, err = e.Evaluate(o.arg)
	default:
		var src []byte
		src, err = io.ReadAll(a.stdin)
		if err != nil {
			a.fail(fmt.Errorf("reading input: %w", err))
			return 1
		}
		v, err = e.Evaluate(string(src))
	}
	if err != nil {
		a.fail(err)
		return 1
	}

	out, err := render(e, v, o.format, o.strict)
	if err != nil {
		a.fail(err)
		return 1
	}
	fmt.Fprintln(a.stdout, out)
	return 0
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()
	os.Exit(newApp(os.Stdin, os.Stdout, os.Stderr).run(os.Args))
}
