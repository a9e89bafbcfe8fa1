package modules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/funvibe/nixeval/internal/ast"
	"github.com/funvibe/nixeval/internal/diagnostics"
)

func tempTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// rootLiteral evaluates a module by returning the text of its root node.
func rootLiteral(m *Module) (interface{}, error) {
	return m.Root.TokenLiteral(), nil
}

func TestResolve(t *testing.T) {
	dir := tempTree(t, map[string]string{
		"a.nix":             "1",
		"pkg/default.nix":   "2",
		"nodefault/foo.nix": "3",
	})
	l := NewLoader(zerolog.Nop())

	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(dir, "a.nix"), filepath.Join(dir, "a.nix")},
		{filepath.Join(dir, "pkg"), filepath.Join(dir, "pkg", "default.nix")},
		{filepath.Join(dir, "pkg", "..", "a.nix"), filepath.Join(dir, "a.nix")},
	}
	for _, tt := range tests {
		got, err := l.Resolve(tt.path)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	for _, bad := range []string{filepath.Join(dir, "missing.nix"), filepath.Join(dir, "nodefault")} {
		if _, err := l.Resolve(bad); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Resolve(%q) error = %v, want not-exist", bad, err)
		}
	}
}

func TestResolveRelativeToCurrentFile(t *testing.T) {
	dir := tempTree(t, map[string]string{"sub/b.nix": "1"})
	l := NewLoader(zerolog.Nop())
	l.PushFile(filepath.Join(dir, "sub", "a.nix"))
	defer l.PopFile()

	got, err := l.Resolve("b.nix")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "sub", "b.nix"); got != want {
		t.Errorf("Resolve(%q) = %q, want %q", "b.nix", got, want)
	}
}

func TestFileStack(t *testing.T) {
	l := NewLoader(zerolog.Nop())
	if l.CurrentFile() != "" || l.CurrentDir() != "" {
		t.Fatalf("empty loader has file %q dir %q", l.CurrentFile(), l.CurrentDir())
	}
	l.PushFile("/a/x.nix")
	l.PushFile("/b/y.nix")
	if got := l.CurrentDir(); got != "/b" {
		t.Errorf("CurrentDir() = %q, want %q", got, "/b")
	}
	if got := l.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
	l.PopFile()
	if got := l.CurrentFile(); got != "/a/x.nix" {
		t.Errorf("CurrentFile() = %q, want %q", got, "/a/x.nix")
	}
	l.PopFile()
	l.PopFile()
	if l.Depth() != 0 {
		t.Errorf("Depth() = %d after popping everything", l.Depth())
	}
}

func TestLoadCaches(t *testing.T) {
	dir := tempTree(t, map[string]string{"a.nix": "42"})
	l := NewLoader(zerolog.Nop())
	path := filepath.Join(dir, "a.nix")

	calls := 0
	eval := func(m *Module) (interface{}, error) {
		calls++
		if got := l.CurrentFile(); got != m.Path {
			t.Errorf("CurrentFile() during eval = %q, want %q", got, m.Path)
		}
		if _, ok := m.Root.(*ast.IntegerLiteral); !ok {
			t.Errorf("root is %T, want *ast.IntegerLiteral", m.Root)
		}
		return calls, nil
	}

	for i := 0; i < 3; i++ {
		v, err := l.Load(path, eval)
		if err != nil {
			t.Fatal(err)
		}
		if v != 1 {
			t.Errorf("Load #%d = %v, want 1", i, v)
		}
	}
	if calls != 1 {
		t.Errorf("eval called %d times, want 1", calls)
	}
	m, ok := l.Cached(path)
	if !ok || !m.Loaded() || m.Dir != dir {
		t.Errorf("Cached(%q) = %+v, %v", path, m, ok)
	}
	if l.Depth() != 0 {
		t.Errorf("file stack not restored: depth %d", l.Depth())
	}
}

func TestLoadCycle(t *testing.T) {
	dir := tempTree(t, map[string]string{"a.nix": "1"})
	l := NewLoader(zerolog.Nop())
	path := filepath.Join(dir, "a.nix")

	var inner error
	_, err := l.Load(path, func(m *Module) (interface{}, error) {
		_, inner = l.Load(path, rootLiteral)
		return nil, inner
	})
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Load error = %v, want *CycleError", err)
	}
	if cycle.Path != path {
		t.Errorf("CycleError.Path = %q, want %q", cycle.Path, path)
	}

	// A failed load is not cached; the file loads cleanly afterwards.
	v, err := l.Load(path, rootLiteral)
	if err != nil || v != "1" {
		t.Errorf("Load after cycle = %v, %v; want 1", v, err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := tempTree(t, map[string]string{
		"empty.nix":  "# nothing here\n",
		"broken.nix": "{ a = ; }",
	})
	l := NewLoader(zerolog.Nop())

	if _, err := l.Load(filepath.Join(dir, "empty.nix"), rootLiteral); !errors.Is(err, ErrNoExpression) {
		t.Errorf("empty file error = %v, want ErrNoExpression", err)
	}

	_, err := l.Load(filepath.Join(dir, "broken.nix"), rootLiteral)
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("broken file error = %v, want *DiagnosticError", err)
	}
	if diag.File != filepath.Join(dir, "broken.nix") {
		t.Errorf("diagnostic file = %q", diag.File)
	}
}
