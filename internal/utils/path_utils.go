package utils

import (
	"path/filepath"
	"strings"
)

// ResolvePath resolves a relative path against baseDir. With no base
// directory the path is returned unchanged.
func ResolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

// ExpandHome resolves a ~/ path against home.
func ExpandHome(home, p string) string {
	rest := strings.TrimPrefix(p, "~")
	return filepath.Join(home, rest)
}

// JoinPath appends suffix to a path value: "/" leaves base unchanged, a
// leading slash adds a component, anything else is appended as text.
func JoinPath(base, suffix string) string {
	switch {
	case suffix == "" || suffix == "/":
		return base
	case strings.HasPrefix(suffix, "/"):
		return filepath.Clean(strings.TrimSuffix(base, "/") + suffix)
	}
	return base + suffix
}

// BaseName returns the last component of p, ignoring a trailing slash.
func BaseName(p string) string {
	p = strings.TrimSuffix(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// DirName returns everything before the last slash: "/" for top-level
// absolute paths, "." when there is no slash.
func DirName(p string) string {
	i := strings.LastIndexByte(p, '/')
	switch {
	case i < 0:
		return "."
	case i == 0:
		return "/"
	}
	return p[:i]
}
