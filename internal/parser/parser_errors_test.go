package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/nixeval/internal/diagnostics"
	"github.com/funvibe/nixeval/internal/parser"
)

// parseWithErrors runs the lexer+parser and returns all diagnostic errors.
func parseWithErrors(input string) []*diagnostics.DiagnosticError {
	ctx, _ := parser.Parse(input, "test.nix")
	return ctx.Errors
}

// expectError asserts an error with the given code was reported.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

// expectNoErrors asserts parsing succeeds without errors.
func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
}

// ---------------------------------------------------------------------------
// P001: unexpected token
// ---------------------------------------------------------------------------

func TestP001_ChainedEquality(t *testing.T) {
	expectError(t, "a == b == c", diagnostics.ErrP001)
}

func TestP001_ChainedComparison(t *testing.T) {
	expectError(t, "1 < 2 < 3", diagnostics.ErrP001)
}

func TestP001_BadAttrName(t *testing.T) {
	expectError(t, "{ 1 = 2; }", diagnostics.ErrP001)
}

// ---------------------------------------------------------------------------
// P002: expected token missing
// ---------------------------------------------------------------------------

func TestP002_UnclosedParen(t *testing.T) {
	expectError(t, "(1", diagnostics.ErrP002)
}

func TestP002_MissingElse(t *testing.T) {
	expectError(t, "if a then b", diagnostics.ErrP002)
}

func TestP002_MissingSemicolon(t *testing.T) {
	expectError(t, "{ a = 1 }", diagnostics.ErrP002)
}

func TestP002_LetWithoutIn(t *testing.T) {
	expectError(t, "let a = 1;", diagnostics.ErrP002)
}

// ---------------------------------------------------------------------------
// P003: no expression can start here
// ---------------------------------------------------------------------------

func TestP003_StrayParen(t *testing.T) {
	expectError(t, ")", diagnostics.ErrP003)
}

func TestP003_EmptyInterpolation(t *testing.T) {
	expectError(t, `"${}"`, diagnostics.ErrP003)
}

func TestP003_DanglingOperator(t *testing.T) {
	expectError(t, "1 +", diagnostics.ErrP003)
}

// ---------------------------------------------------------------------------
// P004: unsupported constructs
// ---------------------------------------------------------------------------

func TestP004_PatternLambda(t *testing.T) {
	expectError(t, "{ a, b }: a", diagnostics.ErrP004)
}

func TestP004_EmptyPatternLambda(t *testing.T) {
	expectError(t, "{ }: 1", diagnostics.ErrP004)
}

func TestP004_AtPattern(t *testing.T) {
	expectError(t, "args@{ a }: a", diagnostics.ErrP004)
}

func TestP004_DynamicLetBinding(t *testing.T) {
	expectError(t, "let ${x} = 1; in x", diagnostics.ErrP004)
}

func TestP004_DynamicInherit(t *testing.T) {
	expectError(t, "{ inherit ${x}; }", diagnostics.ErrP004)
}

// ---------------------------------------------------------------------------
// P005: trailing input
// ---------------------------------------------------------------------------

func TestP005_TrailingParen(t *testing.T) {
	expectError(t, "1 2 )", diagnostics.ErrP005)
}

func TestP005_TrailingInInterpolation(t *testing.T) {
	expectError(t, `"${a b ;}"`, diagnostics.ErrP005)
}

// ---------------------------------------------------------------------------
// P006: nesting too deep
// ---------------------------------------------------------------------------

func TestP006_DeepNesting(t *testing.T) {
	n := parser.MaxRecursionDepth + 100
	input := strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	expectError(t, input, diagnostics.ErrP006)
}

func TestNestingWithinLimit(t *testing.T) {
	n := 100
	expectNoErrors(t, strings.Repeat("(", n)+"1"+strings.Repeat(")", n))
}

// ---------------------------------------------------------------------------
// L001/L002: lexer errors
// ---------------------------------------------------------------------------

func TestL001_IllegalCharacter(t *testing.T) {
	expectError(t, "`", diagnostics.ErrL001)
}

func TestL002_UnterminatedString(t *testing.T) {
	expectError(t, `"open`, diagnostics.ErrL002)
}

func TestL002_UnterminatedComment(t *testing.T) {
	expectError(t, "1 /* never closed", diagnostics.ErrL002)
}

func TestL002_UnterminatedIndentedString(t *testing.T) {
	expectError(t, "''open", diagnostics.ErrL002)
}

// ---------------------------------------------------------------------------
// Positions and messages
// ---------------------------------------------------------------------------

func TestErrorPosition(t *testing.T) {
	e := expectError(t, "let\n  a = 1;\n  b = );\nin a", diagnostics.ErrP003)
	if e.Token.Line != 3 {
		t.Errorf("error line = %d, want 3", e.Token.Line)
	}
	if e.File != "test.nix" {
		t.Errorf("error file = %q, want %q", e.File, "test.nix")
	}
	if !strings.HasPrefix(e.Error(), "test.nix:3:") {
		t.Errorf("Error() = %q, want prefix %q", e.Error(), "test.nix:3:")
	}
}

func TestValidPrograms(t *testing.T) {
	inputs := []string{
		"x: x",
		"let f = x: y: x; in f 1 2",
		"{ a.b.c = 1; a.d = 2; }",
		"builtins.map (x: x * 2) [ 1 2 3 ]",
		"with builtins; length [ ]",
		`{ "${"a"}" = 1; }.a`,
		"a.b or (c.d or e)",
		"''\n  ${x}\n''",
		"<nixpkgs/lib>",
		"~/config.nix",
		"http://example.org/a?b=c",
		"-1 - -2",
		"!(a -> b)",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			expectNoErrors(t, input)
		})
	}
}
