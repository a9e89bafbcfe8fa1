package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/parser"
	"github.com/funvibe/nixeval/internal/prettyprinter"
)

func parse(t *testing.T, input string) ast.Expression {
	t.Helper()
	ctx, err := parser.Parse(input, "")
	if err != nil {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("parsing failed with errors:\n%s", strings.Join(msgs, "\n"))
	}
	return ctx.AstRoot
}

// TestParser checks the tree shape by printing it back as source.
func TestParser(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"precedence", "1 + 2 * 3", "1 + 2 * 3"},
		{"grouping", "(1 + 2) * 3", "(1 + 2) * 3"},
		{"left_assoc", "a - b - c", "a - b - c"},
		{"update_right_assoc", "a // b // c", "a // b // c"},
		{"concat", "[ 1 ] ++ [ 2 ]", "[ 1 ] ++ [ 2 ]"},
		{"application", "f x y", "f x y"},
		{"application_binds_tighter", "f x + g y", "f x + g y"},
		{"select_binds_tighter", "f a.b", "f a.b"},
		{"select_or", "a.b.c or d", "a.b.c or d"},
		{"has_attr", "a ? b.c", "a ? b.c"},
		{"not_and", "!a && b", "!a && b"},
		{"negate", "-x", "-x"},
		{"implication", "a -> b -> c", "a -> b -> c"},
		{"lambda", "x: y: x + y", "x: y: x + y"},
		{"let", "let a = 1; b = a; in a + b", "let a = 1; b = a; in a + b"},
		{"legacy_let", "let { body = 1; }", "let { body = 1; }"},
		{"rec_set", "rec { a = 1; b.c = a; }", "rec { a = 1; b.c = a; }"},
		{"empty_set", "{ }", "{ }"},
		{"inherit", "{ inherit a; inherit (s) b c; }", "{ inherit a ; inherit (s) b c ; }"},
		{"dynamic_key", `{ ${k} = 1; "q k" = 2; }`, `{ ${k} = 1; "q k" = 2; }`},
		{"list", "[ 1 (f x) a.b ]", "[ 1 (f x) a.b ]"},
		{"interpolation", `"a${b}c"`, `"a${b}c"`},
		{"escapes", `"tab\there"`, `"tab\there"`},
		{"indented", "''\n  one\n    two\n''", `"one\n  two\n"`},
		{"indented_escape", "''a''${b}''", `"a\${b}"`},
		{"search_path", "<nixpkgs>", "<nixpkgs>"},
		{"relative_path", "./a/b.nix", "./a/b.nix"},
		{"home_path", "~/x", "~/x"},
		{"uri", "https://example.org", `"https://example.org"`},
		{"if", "if a then b else c", "if a then b else c"},
		{"with", "with a; b", "with a; b"},
		{"assert", "assert a; b", "assert a; b"},
		{"float", "1.50", "1.50"},
		{"comments", "1 # one\n+ /* two */ 2", "1 + 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := prettyprinter.Print(parse(t, tc.input))
			if got != tc.expected {
				t.Errorf("Print(Parse(%q)) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "  # only a comment\n"} {
		ctx, err := parser.Parse(input, "")
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", input, err)
		}
		if ctx.AstRoot != nil {
			t.Errorf("Parse(%q) root = %v, want nil", input, ctx.AstRoot)
		}
	}
}

func TestPathKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.PathKind
		value string
	}{
		{"./a", ast.PathRelative, "./a"},
		{"/a/b", ast.PathAbsolute, "/a/b"},
		{"~/a", ast.PathHome, "~/a"},
		{"<a/b>", ast.PathSearch, "a/b"},
	}
	for _, tt := range tests {
		p, ok := parse(t, tt.input).(*ast.PathLiteral)
		if !ok {
			t.Fatalf("Parse(%q) is not a path", tt.input)
		}
		if p.Kind != tt.kind || p.Value != tt.value {
			t.Errorf("Parse(%q) = kind %v value %q, want kind %v value %q", tt.input, p.Kind, p.Value, tt.kind, tt.value)
		}
	}
}

func TestRecursiveFlag(t *testing.T) {
	set, ok := parse(t, "rec { }").(*ast.AttrSetLiteral)
	if !ok || !set.Recursive {
		t.Errorf("rec { } not parsed as a recursive set")
	}
}
