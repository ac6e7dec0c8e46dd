package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads the configuration file and applies environment overrides.
type Loader struct {
	baseDir string
}

// NewLoader creates a loader. The base directory is resolved in this order:
//  1. TVMDBG_CONFIG environment variable.
//  2. ~/.tvmdbg.
//  3. A directory under os.TempDir() when there is no home directory, so that
//     Load still returns defaults with env overrides.
func NewLoader() *Loader {
	if dir := os.Getenv("TVMDBG_CONFIG"); dir != "" {
		return &Loader{baseDir: dir}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return &Loader{baseDir: filepath.Join(home, DefaultDir)}
	}
	return &Loader{baseDir: filepath.Join(os.TempDir(), "tvmdbg-fallback")}
}

// NewLoaderAt creates a loader rooted at dir.
func NewLoaderAt(dir string) *Loader {
	return &Loader{baseDir: dir}
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return filepath.Join(l.baseDir, ConfigFile)
}

// HistoryPath returns the shell history file path.
func (l *Loader) HistoryPath() string {
	return filepath.Join(l.baseDir, "history")
}

// Load returns defaults overlaid with the config file, if any, and the
// environment.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	//nolint:gosec // G304: path is from the trusted config directory.
	data, err := os.ReadFile(l.Path())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", l.Path(), err)
		}
	}

	if err := MergeFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the configuration file.
func (l *Loader) Save(cfg *Config) error {
	//nolint:gosec // G301: directory needs standard permissions for traversal.
	if err := os.MkdirAll(l.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(l.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
