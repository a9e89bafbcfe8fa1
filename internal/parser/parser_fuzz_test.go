package parser_test

import (
	"testing"

	"github.com/funvibe/nixeval/internal/parser"
	"github.com/funvibe/nixeval/internal/prettyprinter"
)

// FuzzParse checks that parsing never panics and that a printed tree parses
// again to the same text.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"1 + 2 * 3",
		"let a = 1; in a",
		"rec { a = 1; b.c = a; }",
		"{ inherit a; inherit (s) b c; }",
		`"a${b}c"`,
		"x: y: x + y",
		"a.b.c or d",
		"if a then b else c",
		"[ 1 (f x) ]",
		"''\n  one\n''",
		"<nixpkgs>",
		"{ a, b }: a",
		"(((",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		ctx, err := parser.Parse(input, "")
		if err != nil || ctx.AstRoot == nil {
			return
		}
		printed := prettyprinter.Print(ctx.AstRoot)
		again, err := parser.Parse(printed, "")
		if err != nil {
			t.Fatalf("printed form %q of %q does not parse: %v", printed, input, err)
		}
		if got := prettyprinter.Print(again.AstRoot); got != printed {
			t.Fatalf("print is not stable: %q then %q", printed, got)
		}
	})
}
