package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lmorg/readline"

	"github.com/funvibe/nixeval/internal/evaluator"
)

const replPrompt = "nix-repl> "

const replHelp = `  <expr>        evaluate and print an expression
  <name> = <expr>  bind a name for later lines
  :p <expr>     evaluate and print the value completely
  :q            quit
  :?            show this help
`

var bindingLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_'-]*)\s*=([^=].*)$`)

// repl reads lines until Ctrl+C, Ctrl+D or :q. Evaluation errors are printed
// and the prompt continues.
func (a *app) repl(e *evaluator.Evaluator, o *options) int {
	rl := readline.NewInstance()
	rl.SetPrompt(replPrompt)
	rl.TabCompleter = completer(e)

	for {
		line, err := rl.Readline()
		if err != nil {
			return 0
		}
		if quit := a.replLine(e, o, strings.TrimSpace(line)); quit {
			return 0
		}
	}
}

// replLine handles one line of input and reports whether to quit.
func (a *app) replLine(e *evaluator.Evaluator, o *options, line string) bool {
	strict := o.strict
	switch {
	case line == "":
		return false
	case line == ":q":
		return true
	case line == ":?":
		fmt.Fprint(a.stdout, replHelp)
		return false
	case strings.HasPrefix(line, ":p "):
		line, strict = strings.TrimSpace(line[3:]), true
	case strings.HasPrefix(line, ":"):
		a.fail(fmt.Errorf("unknown command %q", line))
		return false
	}

	if m := bindingLine.FindStringSubmatch(line); m != nil {
		v, err := e.Evaluate(m[2])
		if err != nil {
			a.fail(err)
			return false
		}
		e.ScopeMut().Set(m[1], v)
		return false
	}

	v, err := e.Evaluate(line)
	if err != nil {
		a.fail(err)
		return false
	}
	out, err := render(e, v, o.format, strict)
	if err != nil {
		a.fail(err)
		return false
	}
	fmt.Fprintln(a.stdout, out)
	return false
}

// completer offers bound names and builtins for the word before the cursor.
func completer(e *evaluator.Evaluator) func([]rune, int, readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
	return func(line []rune, pos int, _ readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
		start := pos
		for start > 0 && isWordRune(line[start-1]) {
			start--
		}
		prefix := string(line[start:pos])

		var suggestions []string
		seen := map[string]bool{}
		candidates := append(e.Scope().Names(), e.BuiltinNames()...)
		for _, name := range candidates {
			if strings.HasPrefix(name, prefix) && !seen[name] {
				seen[name] = true
				suggestions = append(suggestions, name[len(prefix):])
			}
		}
		return prefix, suggestions, nil, readline.TabDisplayGrid
	}
}

func isWordRune(r rune) bool {
	return r == '_' || r == '\'' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
