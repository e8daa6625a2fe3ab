// Package config discovers and decodes plexus.toml package manifests.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"plexus/internal/diag"
)

// FileName is the manifest file looked up from the working directory upwards.
const FileName = "plexus.toml"

// Defaults used when the manifest is missing or leaves a key unset.
const (
	DefaultCacheSize   = 512
	DefaultMinSeverity = "warning"
)

// Manifest is a decoded plexus.toml together with its location.
type Manifest struct {
	// Path is empty when no manifest was found and defaults are in effect.
	Path string
	// Root is the package directory: the manifest directory joined with
	// [package].root.
	Root   string
	Config Config
}

type Config struct {
	Package  PackageConfig  `toml:"package"`
	Analyzer AnalyzerConfig `toml:"analyzer"`
	Lint     LintConfig     `toml:"lint"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
	// ComponentDir is where dependency packages live.
	ComponentDir string `toml:"component_dir"`
}

type AnalyzerConfig struct {
	IncludeExternal bool     `toml:"include_external"`
	Exclude         []string `toml:"exclude"`
	CacheSize       int      `toml:"cache_size"`
	Jobs            int      `toml:"jobs"`
}

type LintConfig struct {
	Ignore           []string `toml:"ignore"`
	MinSeverity      string   `toml:"min_severity"`
	WarningsAsErrors bool     `toml:"warnings_as_errors"`
	DiskCache        bool     `toml:"disk_cache"`
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Package:  PackageConfig{Root: "."},
		Analyzer: AnalyzerConfig{CacheSize: DefaultCacheSize},
		Lint:     LintConfig{MinSeverity: DefaultMinSeverity},
	}
}

// Find walks up from startDir looking for plexus.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the manifest governing startDir. Without one it returns
// defaults rooted at startDir.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve start directory: %w", err)
		}
		return &Manifest{Root: root, Config: Default()}, nil
	}
	return Load(path)
}

// Load decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	root := strings.TrimSpace(cfg.Package.Root)
	if root == "" {
		root = "."
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Join(filepath.Dir(path), filepath.FromSlash(root)),
		Config: cfg,
	}, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if c.Analyzer.CacheSize < 0 {
		return fmt.Errorf("[analyzer].cache_size must not be negative")
	}
	if c.Analyzer.Jobs < 0 {
		return fmt.Errorf("[analyzer].jobs must not be negative")
	}
	if _, err := c.Lint.Severity(); err != nil {
		return fmt.Errorf("[lint].min_severity: %w", err)
	}
	for _, code := range c.Lint.Ignore {
		if !diag.Code(code).Known() {
			return fmt.Errorf("[lint].ignore: unknown warning code %q", code)
		}
	}
	return nil
}

// Severity parses MinSeverity, defaulting to warning.
func (l LintConfig) Severity() (diag.Severity, error) {
	if strings.TrimSpace(l.MinSeverity) == "" {
		return diag.ParseSeverity(DefaultMinSeverity)
	}
	return diag.ParseSeverity(l.MinSeverity)
}

// Ignored reports whether warnings with code are silenced.
func (l LintConfig) Ignored(code diag.Code) bool {
	for _, c := range l.Ignore {
		if diag.Code(c) == code {
			return true
		}
	}
	return false
}

// Salt renders the settings that change lint output, for cache keys.
func (l LintConfig) Salt() string {
	return fmt.Sprintf("ignore=%s;min=%s;werror=%t",
		strings.Join(l.Ignore, ","), strings.ToLower(l.MinSeverity), l.WarningsAsErrors)
}
