package evaluator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// types
		{"builtins.typeOf 1.5", `"float"`},
		{"builtins.typeOf { }", `"set"`},
		{"builtins.typeOf (x: x)", `"lambda"`},
		{"builtins.typeOf builtins.add", `"lambda"`},
		{"builtins.isFunction (x: x)", "true"},
		{"builtins.isFunction (builtins.add 1)", "true"},
		{"builtins.isAttrs { }", "true"},
		{"builtins.isNull null", "true"},
		{"builtins.isString 1", "false"},
		{"builtins.isPath /tmp", "true"},
		{`builtins.toString [ 1 "a" null ]`, `"1 a "`},
		{"builtins.toString 2.5", `"2.5"`},
		{"builtins.toString { outPath = \"/x\"; }", `"/x"`},
		{"toString { __toString = self: \"custom\"; }", `"custom"`},

		// lists
		{"builtins.length [ 1 2 3 ]", "3"},
		{"builtins.head [ 1 2 ]", "1"},
		{"builtins.tail [ 1 2 ]", "[ 2 ]"},
		{"builtins.elemAt [ 1 2 3 ] 1", "2"},
		{"builtins.elem 2 [ 1 2 ]", "true"},
		{"builtins.elem 5 [ 1 2 ]", "false"},
		{"builtins.concatLists [ [ 1 ] [ 2 3 ] ]", "[ 1 2 3 ]"},
		{"builtins.concatMap (x: [ x x ]) [ 1 2 ]", "[ 1 1 2 2 ]"},
		{"builtins.foldl' (a: b: a + b) 0 [ 1 2 3 ]", "6"},
		{"builtins.genList (x: x * x) 4", "[ 0 1 4 9 ]"},
		{"builtins.all (x: x > 0) [ 1 2 ]", "true"},
		{"builtins.any (x: x > 1) [ 1 2 ]", "true"},
		{"builtins.any (x: x > 5) [ ]", "false"},
		{"builtins.filter (x: x > 1) [ 1 2 3 ]", "[ 2 3 ]"},
		{"builtins.partition (x: x > 1) [ 1 2 3 ]", "{ right = [ 2 3 ]; wrong = [ 1 ]; }"},
		{`builtins.groupBy (x: if x > 1 then "big" else "small") [ 1 2 3 ]`, "{ big = [ 2 3 ]; small = [ 1 ]; }"},
		{"builtins.sort (a: b: a < b) [ 3 1 2 ]", "[ 1 2 3 ]"},

		// attribute sets
		{"builtins.attrNames { b = 1; a = 2; }", `[ "a" "b" ]`},
		{"builtins.attrValues { b = 1; a = 2; }", "[ 2 1 ]"},
		{`builtins.catAttrs "a" [ { a = 1; } { b = 2; } { a = 3; } ]`, "[ 1 3 ]"},
		{`builtins.hasAttr "a" { a = 1; }`, "true"},
		{`builtins.getAttr "a" { a = 1; }`, "1"},
		{`builtins.removeAttrs { a = 1; b = 2; } [ "a" ]`, "{ b = 2; }"},
		{"builtins.intersectAttrs { a = 1; } { a = 2; b = 3; }", "{ a = 2; }"},
		{`builtins.listToAttrs [ { name = "a"; value = 1; } { name = "a"; value = 2; } ]`, "{ a = 1; }"},
		{"builtins.mapAttrs (n: v: v + 1) { a = 1; }", "{ a = 2; }"},

		// strings
		{`builtins.concatStringsSep ", " [ "a" "b" ]`, `"a, b"`},
		{`builtins.stringLength "abc"`, "3"},
		{`builtins.substring 1 2 "abcd"`, `"bc"`},
		{`builtins.substring 1 (-1) "abcd"`, `"bcd"`},
		{`builtins.substring 9 2 "abcd"`, `""`},
		{`builtins.replaceStrings [ "a" ] [ "b" ] "aXa"`, `"bXb"`},
		{`builtins.split "(a)b" "xabyab"`, `[ "x" [ "a" ] "y" [ "a" ] "" ]`},
		{`builtins.match "a(.)c" "abc"`, `[ "b" ]`},
		{`builtins.match "a" "ab"`, "null"},
		{`builtins.splitVersion "1.2.3pre4"`, `[ "1" "2" "3" "pre" "4" ]`},
		{`builtins.compareVersions "1.2" "1.10"`, "-1"},
		{`builtins.compareVersions "1.0" "1.0"`, "0"},
		{`builtins.parseDrvName "nix-2.18.1"`, `{ name = "nix"; version = "2.18.1"; }`},

		// math
		{"builtins.sub 5 3", "2"},
		{"builtins.mul 3 4", "12"},
		{"builtins.div 7 2", "3"},
		{"builtins.div 7.0 2", "3.5"},
		{"builtins.lessThan 1 2", "true"},
		{"builtins.ceil 1.2", "2"},
		{"builtins.floor (-1.5)", "-2"},
		{"builtins.bitAnd 12 10", "8"},
		{"builtins.bitOr 12 10", "14"},
		{"builtins.bitXor 12 10", "6"},

		// control
		{"builtins.seq 1 2", "2"},
		{"builtins.deepSeq [ 1 ] 2", "2"},
		{`builtins.trace "hi" 1`, "1"},

		// hashing
		{`builtins.hashString "sha256" ""`, `"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"`},
		{`builtins.hashString "md5" "abc"`, `"900150983cd24fb0d6963f7d28e17f72"`},
		{`builtins.hashString "sha1" "abc"`, `"a9993e364706816aba3e25717850c26c9cd0d89d"`},
		{`builtins.hasContext "x"`, "false"},

		// paths
		{`builtins.baseNameOf "/a/b.nix"`, `"b.nix"`},
		{"builtins.baseNameOf /a/b.nix", `"b.nix"`},
		{`builtins.dirOf "/a/b"`, `"/a"`},
		{"builtins.dirOf /a/b", "/a"},
		{`builtins.toPath "/a/../b"`, "/b"},
		{`builtins.storePath "/nix/store/abc-foo"`, "/nix/store/abc-foo"},

		// constants
		{"builtins.nixVersion", `"2.18.1"`},
		{"builtins.currentSystem", `"x86_64-linux"`},
		{"builtins.storeDir", `"/nix/store"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := evalDisplay(t, New(), tt.input)
			if got != tt.expected {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []string{
		"builtins.head [ ]",
		"builtins.elemAt [ 1 ] 5",
		"builtins.length 1",
		`builtins.substring (-1) 1 "abc"`,
		`builtins.replaceStrings [ "a" ] [ ] "abc"`,
		`builtins.hashString "crc32" "abc"`,
		`builtins.storePath "/tmp/x"`,
		`builtins.toPath "relative"`,
		"builtins.sort (a: b: 1) [ 2 1 ]",
		`builtins.match "(" "x"`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := New().Evaluate(input)
			if !errors.Is(err, ErrUnsupportedExpression) {
				t.Errorf("Evaluate(%q) error = %v, want unsupported expression", input, err)
			}
		})
	}
}

func TestTraceLogs(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithLogger(zerolog.New(&buf)))
	if got := evalDisplay(t, e, `builtins.trace { a = 1; } "done"`); got != `"done"` {
		t.Fatalf("trace result = %s", got)
	}
	if !strings.Contains(buf.String(), "trace: { a = 1; }") {
		t.Errorf("trace output %q missing message", buf.String())
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("trace output %q not logged at warn", buf.String())
	}
}

func TestBuiltinIdentity(t *testing.T) {
	e := New()
	bare, ok := e.Builtin("map")
	if !ok {
		t.Fatal("map not registered")
	}
	v, err := e.Evaluate("builtins.map")
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := v.(*BuiltinRef)
	if !ok {
		t.Fatalf("builtins.map = %T, want *BuiltinRef", v)
	}
	if ref.Builtin != bare {
		t.Error("builtins.map and map resolve to different builtins")
	}
}

func TestPartialApplicationDisplay(t *testing.T) {
	v, err := New().Evaluate("builtins.add 1")
	if err != nil {
		t.Fatal(err)
	}
	pa, ok := v.(*PartialApplication)
	if !ok {
		t.Fatalf("builtins.add 1 = %T, want *PartialApplication", v)
	}
	if len(pa.Args) != 1 {
		t.Errorf("partial application holds %d args, want 1", len(pa.Args))
	}
	if got := pa.Inspect(); got != "<partial add 1/2 args>" {
		t.Errorf("Inspect() = %q", got)
	}
}
