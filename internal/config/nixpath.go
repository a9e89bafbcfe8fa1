package config

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/goccy/go-json"
)

// SearchPathEntry is one name=path element of NIX_PATH.
type SearchPathEntry struct {
	Name string
	Path string
}

// ParseNixPath splits a colon-separated NIX_PATH value into name=path
// entries. Bare paths without a name are skipped; a "flake:" value keeps its
// colon.
func ParseNixPath(value string) []SearchPathEntry {
	var entries []SearchPathEntry
	var parts []string
	for _, raw := range strings.Split(value, ":") {
		// "nixpkgs=flake:nixpkgs" splits into "nixpkgs=flake" + "nixpkgs".
		if n := len(parts); n > 0 && strings.HasSuffix(parts[n-1], "=flake") {
			parts[n-1] += ":" + raw
			continue
		}
		parts = append(parts, raw)
	}
	for _, part := range parts {
		name, path, ok := strings.Cut(part, "=")
		if !ok || name == "" || path == "" {
			continue
		}
		entries = append(entries, SearchPathEntry{Name: name, Path: path})
	}
	return entries
}

// FlakeResolver turns a flake reference into a local source path.
type FlakeResolver interface {
	Resolve(ref string) (string, error)
}

// NixFlakeResolver asks the nix command for flake metadata.
type NixFlakeResolver struct {
	Command string
}

func (r NixFlakeResolver) Resolve(ref string) (string, error) {
	command := r.Command
	if command == "" {
		command = "nix"
	}
	out, err := exec.Command(command, "flake", "metadata", "--json", ref).Output()
	if err != nil {
		return "", fmt.Errorf("cannot resolve flake %s: %w", ref, err)
	}
	var meta struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(out, &meta); err != nil {
		return "", fmt.Errorf("cannot parse metadata for flake %s: %w", ref, err)
	}
	if meta.Path == "" {
		return "", fmt.Errorf("flake %s has no local path", ref)
	}
	return meta.Path, nil
}

// ResolveSearchPaths resolves flake: entries with resolver and drops those
// that fail. Plain entries pass through.
func ResolveSearchPaths(entries []SearchPathEntry, resolver FlakeResolver) ([]SearchPathEntry, []error) {
	var resolved []SearchPathEntry
	var errs []error
	for _, e := range entries {
		ref, isFlake := strings.CutPrefix(e.Path, "flake:")
		if !isFlake {
			resolved = append(resolved, e)
			continue
		}
		if resolver == nil {
			errs = append(errs, fmt.Errorf("no flake resolver for %s", e.Name))
			continue
		}
		path, err := resolver.Resolve(ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolved = append(resolved, SearchPathEntry{Name: e.Name, Path: path})
	}
	return resolved, errs
}
