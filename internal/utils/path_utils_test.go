package utils

import "testing"

func TestJoinPath(t *testing.T) {
	tests := []struct {
		base, suffix, want string
	}{
		{"/a", "/", "/a"},
		{"/a", "", "/a"},
		{"/a", "/b", "/a/b"},
		{"/a/", "/b", "/a/b"},
		{"/a", "/b/../c", "/a/c"},
		{"/a", "b", "/ab"},
		{"/a", ".nix", "/a.nix"},
	}
	for _, tt := range tests {
		if got := JoinPath(tt.base, tt.suffix); got != tt.want {
			t.Errorf("JoinPath(%q, %q) = %q, want %q", tt.base, tt.suffix, got, tt.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		dir, p, want string
	}{
		{"/src", "./a.nix", "/src/a.nix"},
		{"/src", "../a.nix", "/a.nix"},
		{"/src", "/abs", "/abs"},
		{"", "./a.nix", "./a.nix"},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.dir, tt.p); got != tt.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.dir, tt.p, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	if got := ExpandHome("/home/u", "~/x/y"); got != "/home/u/x/y" {
		t.Errorf("ExpandHome = %q, want %q", got, "/home/u/x/y")
	}
}

func TestBaseAndDirName(t *testing.T) {
	tests := []struct {
		p, base, dir string
	}{
		{"/a/b/c", "c", "/a/b"},
		{"/a/b/", "b", "/a/b"},
		{"/a", "a", "/"},
		{"a", "a", "."},
		{"a/b", "b", "a"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.p); got != tt.base {
			t.Errorf("BaseName(%q) = %q, want %q", tt.p, got, tt.base)
		}
		if got := DirName(tt.p); got != tt.dir {
			t.Errorf("DirName(%q) = %q, want %q", tt.p, got, tt.dir)
		}
	}
}
