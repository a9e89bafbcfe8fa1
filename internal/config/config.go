package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the contents of nixeval.yaml.
type Config struct {
	// SearchPaths maps <name> lookups to directories.
	SearchPaths map[string]string `yaml:"search_paths,omitempty"`

	Store StoreConfig `yaml:"store,omitempty"`

	// System is reported as builtins.currentSystem.
	System string `yaml:"system,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`

	MaxDepth int `yaml:"max_depth,omitempty"`
}

type StoreConfig struct {
	// Root is prepended to /nix/store when derivations are written.
	Root string `yaml:"root,omitempty"`

	// Write enables writing .drv files.
	Write *bool `yaml:"write,omitempty"`
}

// WriteEnabled reports whether derivations should be written to disk.
func (s StoreConfig) WriteEnabled() bool {
	return s.Write == nil || *s.Write
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig walks up from dir looking for a config file. It returns "" when
// none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Discover loads the config named by NIXEVAL_CONFIG, or the nearest config
// above dir, or the defaults.
func Discover(dir string) (*Config, error) {
	if path := os.Getenv(ConfigEnv); path != "" {
		return LoadConfig(path)
	}
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return LoadConfig(path)
}

func (c *Config) validate(path string) error {
	configDir := filepath.Dir(path)
	for name, dir := range c.SearchPaths {
		if name == "" || strings.ContainsAny(name, "/<>") {
			return fmt.Errorf("%s: search_paths: invalid name %q", path, name)
		}
		if dir == "" {
			return fmt.Errorf("%s: search_paths.%s: path is required", path, name)
		}
		if !filepath.IsAbs(dir) && !strings.HasPrefix(dir, "flake:") {
			c.SearchPaths[name] = filepath.Join(configDir, dir)
		}
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%s: log_level: unknown level %q", path, c.LogLevel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must not be negative", path)
	}
	if c.Store.Root != "" && !filepath.IsAbs(c.Store.Root) {
		c.Store.Root = filepath.Join(configDir, c.Store.Root)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.SearchPaths == nil {
		c.SearchPaths = map[string]string{}
	}
	if c.System == "" {
		c.System = DefaultSystem
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = MaxCallDepth
	}
	if c.Store.Root == "" {
		c.Store.Root = "/"
	}
}
