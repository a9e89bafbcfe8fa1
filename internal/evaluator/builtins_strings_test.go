package evaluator

import "testing"

func TestReplaceStrings(t *testing.T) {
	tests := []struct {
		input    string
		from, to []string
		expected string
	}{
		{"hello world", []string{"o"}, []string{"0"}, "hell0 w0rld"},
		{"abc", []string{""}, []string{"-"}, "-a-b-c-"},
		{"aaa", []string{"aa"}, []string{"b"}, "ba"},
		{"abc", []string{"b", "ab"}, []string{"X", "Y"}, "Yc"},
		{"abc", []string{"ab", "b"}, []string{"X", "Y"}, "Xc"},
		{"", []string{"a"}, []string{"b"}, ""},
	}
	for _, tt := range tests {
		got := replaceStrings(tt.input, tt.from, tt.to)
		if got != tt.expected {
			t.Errorf("replaceStrings(%q, %q, %q) = %q, want %q", tt.input, tt.from, tt.to, got, tt.expected)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"1.0", "2.3", -1},
		{"2.1", "2.3", -1},
		{"2.3", "2.3", 0},
		{"2.5", "2.3", 1},
		{"3.1", "2.3", 1},
		{"2.3.1", "2.3", 1},
		{"2.3.1", "2.3a", 1},
		{"2.3pre1", "2.3", -1},
		{"2.3pre3", "2.3pre12", -1},
		{"2.3a", "2.3c", -1},
		{"2.3pre1", "2.3c", -1},
		{"2.3pre1", "2.3q", -1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.expected {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestParseDrvName(t *testing.T) {
	tests := []struct {
		input, name, version string
	}{
		{"nix-2.18.1", "nix", "2.18.1"},
		{"gtk+-3.24", "gtk+", "3.24"},
		{"hello-world-1.0", "hello-world", "1.0"},
		{"plain", "plain", ""},
		{"trailing-", "trailing-", ""},
	}
	for _, tt := range tests {
		name, version := parseDrvName(tt.input)
		if name != tt.name || version != tt.version {
			t.Errorf("parseDrvName(%q) = (%q, %q), want (%q, %q)", tt.input, name, version, tt.name, tt.version)
		}
	}
}

func TestNextVersionComponent(t *testing.T) {
	var parts []string
	for rest := "1.2-beta3"; ; {
		var c string
		c, rest = nextVersionComponent(rest)
		if c == "" {
			break
		}
		parts = append(parts, c)
	}
	want := []string{"1", "2", "beta", "3"}
	if len(parts) != len(want) {
		t.Fatalf("components = %q, want %q", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("component %d = %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestRegexCacheIsPerEvaluator(t *testing.T) {
	e := New()
	for i := 0; i < 3; i++ {
		if got := evalDisplay(t, e, `builtins.match "a(b)" "ab"`); got != `[ "b" ]` {
			t.Fatalf("match = %s, want [ \"b\" ]", got)
		}
	}
	if n := e.regexCache.Len(); n != 1 {
		t.Errorf("cached patterns = %d, want 1", n)
	}
	if n := New().regexCache.Len(); n != 0 {
		t.Errorf("fresh evaluator cached patterns = %d, want 0", n)
	}

	e.regexCache = nil
	if got := evalDisplay(t, e, `builtins.split "," "a,b"`); got != `[ "a" [ ] "b" ]` {
		t.Errorf("split without cache = %s", got)
	}
}
