// Package config handles repository discovery and configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the repository configuration stored in .pubkit/config.yml.
// All paths are relative to the repository root unless absolute.
type Config struct {
	// Author is the target individual; entries whose author field does not
	// match are dropped by clean.
	Author string `yaml:"author"`

	// Bib is the canonical bibliography file, the single source of truth
	// consumed by the site generator.
	Bib string `yaml:"bib"`

	// Raw is the default raw export read by clean.
	Raw string `yaml:"raw"`

	// CVTex is the legacy LaTeX CV read by merge-pdf and audit.
	CVTex string `yaml:"cv_tex"`

	// PDFRoot is the folder scanned by attach. Empty disables attach.
	PDFRoot string `yaml:"pdf_root,omitempty"`

	// TitleThreshold is the similarity cutoff for fuzzy title matching,
	// in (0, 1].
	TitleThreshold float64 `yaml:"title_threshold"`
}

const (
	PubkitDir  = ".pubkit"
	ConfigFile = "config.yml"
	CacheDir   = "cache"
	DBFile     = "index.db"

	DefaultTitleThreshold = 0.6
)

// Default returns the configuration written by init.
func Default() *Config {
	return &Config{
		Author:         "Bulbulia, Joseph A.",
		Bib:            "cv/publications.bib",
		Raw:            "cv/publications_orcid_backup.bib",
		CVTex:          "cv/bulbulia-j-a-cv.tex",
		TitleThreshold: DefaultTitleThreshold,
	}
}

// PubkitPath returns the path to the .pubkit directory from a root path.
func PubkitPath(root string) string {
	return filepath.Join(root, PubkitDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, PubkitDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, PubkitDir, CacheDir)
}

// DBPath returns the path to the query database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, PubkitDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a pubkit repository.
func IsRepository(root string) bool {
	info, err := os.Stat(PubkitPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a pubkit repository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a pubkit repository (no %s directory found)", PubkitDir)
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root. Fields
// left empty in the file fall back to defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Author == "" {
		return fmt.Errorf("author must be set")
	}
	if c.TitleThreshold <= 0 || c.TitleThreshold > 1 {
		return fmt.Errorf("title_threshold must be in (0, 1], got %g", c.TitleThreshold)
	}
	return nil
}

// Resolve turns a config path into an absolute path, anchoring relative
// paths at the repository root.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
