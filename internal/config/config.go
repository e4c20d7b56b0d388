package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no config file exists at the searched
// locations.
var ErrNotFound = errors.New("config not found")

// FileConfig is the on-disk YAML configuration shape for privaudit. Nil
// fields mean "not set" so precedence can fall through to the next source.
type FileConfig struct {
	ForbiddenDirs       []string `yaml:"forbidden_dirs,omitempty"`
	ForbiddenExtensions []string `yaml:"forbidden_extensions,omitempty"`
	ForbiddenGlobs      []string `yaml:"forbidden_globs,omitempty"`
	TextExtensions      []string `yaml:"text_extensions,omitempty"`
	Allowlist           *string  `yaml:"allowlist,omitempty"`
	NoColor             *bool    `yaml:"no_color,omitempty"`
	GitTimeout          *string  `yaml:"git_timeout,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LocalNames lists the repo-local config file names in search order.
var LocalNames = []string{".privaudit.yml", ".privaudit.yaml", "privaudit.yml", "privaudit.yaml"}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, ErrNotFound
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, ErrNotFound
	}
	p := filepath.Join(base, "privaudit", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, ErrNotFound
}

// Load returns the local and global configs for root. A missing file is not
// an error; a file that exists but fails to parse is.
func Load(root string) (local, global FileConfig, err error) {
	local, err = LoadLocal(root)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return local, global, err
	}
	global, err = LoadGlobal()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return local, global, err
	}
	return local, global, nil
}
