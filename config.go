package nrs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no config file exists in dir or any parent.
var ErrConfigNotFound = errors.New("no .nrs.yaml found")

// Position encodings a client may negotiate.
const (
	EncodingUTF16 = "utf-16"
	EncodingUTF32 = "utf-32"
)

// Config represents the .nrs.yaml configuration file.
type Config struct {
	// Log level for the language server (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// Column unit on the wire: utf-16 (LSP default) or utf-32 (code points).
	PositionEncoding string `yaml:"position_encoding,omitempty"`

	// Crash on unclassified syntax instead of logging and degrading.
	StrictCoverage bool `yaml:"strict_coverage,omitempty"`

	// Serve inlay hints. Defaults to true.
	InlayHints *bool `yaml:"inlay_hints,omitempty"`

	// Maximum number of documents analyzed at once.
	AnalysisWorkers int `yaml:"analysis_workers,omitempty"`
}

// DefaultConfig returns the settings used when no config file is found.
func DefaultConfig() *Config {
	hints := true

	return &Config{
		LogLevel:         "info",
		PositionEncoding: EncodingUTF16,
		InlayHints:       &hints,
		AnalysisWorkers:  4,
	}
}

// HintsEnabled reports whether inlay hints should be served.
func (c *Config) HintsEnabled() bool {
	return c.InlayHints == nil || *c.InlayHints
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".nrs.yaml", ".nrs.yml", "nrs.yaml", "nrs.yml"}

// LoadConfig finds and loads the nearest .nrs.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path. Unset keys keep their
// defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks enumerated and ranged settings.
func (c *Config) Validate() error {
	switch c.PositionEncoding {
	case EncodingUTF16, EncodingUTF32:
	default:
		return fmt.Errorf("position_encoding: unsupported value %q", c.PositionEncoding)
	}

	if c.AnalysisWorkers < 1 {
		return fmt.Errorf("analysis_workers: must be at least 1, got %d", c.AnalysisWorkers)
	}

	return nil
}
