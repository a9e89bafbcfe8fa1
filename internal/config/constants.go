package config

// SourceFileExt is the extension of expression files.
const SourceFileExt = ".nix"

// DefaultImportFile is appended when a directory is imported.
const DefaultImportFile = "default.nix"

// Config file names searched for by FindConfig, in order.
var ConfigFileNames = []string{"nixeval.yaml", "nixeval.yml"}

const (
	// NixPathEnv names the search-path environment variable.
	NixPathEnv = "NIX_PATH"
	// ConfigEnv overrides config file discovery.
	ConfigEnv = "NIXEVAL_CONFIG"
)

const (
	// NixVersion is reported by builtins.nixVersion.
	NixVersion = "2.18.1"
	// DefaultSystem is used when a derivation names no system.
	DefaultSystem = "x86_64-linux"
	// MaxCallDepth bounds nested function calls.
	MaxCallDepth = 10000
	// RegexCacheSize is the number of compiled patterns kept per evaluator.
	RegexCacheSize = 256
)

// Built-in names the evaluator treats specially.
const (
	BuiltinsName   = "builtins"
	ToStringAttr   = "__toString"
	OutPathAttr    = "outPath"
	DerivationType = "derivation"
	DefaultOutput  = "out"
)
