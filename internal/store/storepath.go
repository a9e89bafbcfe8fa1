package store

import (
	"fmt"
	"strings"
)

// SplitStorePath validates a store path and returns its hash and name parts.
// The name may continue into a subpath (/nix/store/<hash>-<name>/bin/sh).
func SplitStorePath(path string) (hash, name string, err error) {
	rest, ok := strings.CutPrefix(path, Dir+"/")
	if !ok {
		return "", "", fmt.Errorf("path '%s' is not in the Nix store", path)
	}
	hash, name, ok = strings.Cut(rest, "-")
	if !ok {
		return "", "", fmt.Errorf("store path '%s' has no name component", path)
	}
	if hash == "" || strings.ContainsRune(hash, '/') {
		return "", "", fmt.Errorf("store path '%s' has an invalid hash", path)
	}
	if name == "" || strings.HasPrefix(name, "/") {
		return "", "", fmt.Errorf("store path '%s' has an empty name", path)
	}
	return hash, name, nil
}

// ValidateStorePath reports whether path has the /nix/store/<hash>-<name> shape.
func ValidateStorePath(path string) error {
	_, _, err := SplitStorePath(path)
	return err
}

// IsStorePath is ValidateStorePath as a predicate.
func IsStorePath(path string) bool {
	return ValidateStorePath(path) == nil
}
