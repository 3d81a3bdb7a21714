package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/geldautomat/ledger/internal/importer"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = "ledger.yaml"

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Import ImportConfig `yaml:"import"`
	Log    LogConfig    `yaml:"log"`
	Audit  AuditConfig  `yaml:"audit"`
}

// ImportConfig describes the bank export format.
type ImportConfig struct {
	Delimiter string `yaml:"delimiter"` // single character, e.g. ";"
	Charset   string `yaml:"charset"`   // utf-8, windows-1252, iso-8859-1
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AuditConfig controls the operation audit trail written by `ledger run`.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads a ledger.yaml file from disk. Keys missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no ledger.yaml exists.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Delimiter: ";",
			Charset:   "utf-8",
		},
		Log: LogConfig{
			Level: "info",
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    "logs/audit-log.csv",
		},
	}
}

// Validate checks values that YAML decoding cannot.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Import.Delimiter) != 1 {
		return fmt.Errorf("import.delimiter must be a single character, got %q", c.Import.Delimiter)
	}
	if !importer.SupportedCharset(c.Import.Charset) {
		return fmt.Errorf("import.charset: unsupported charset %q", c.Import.Charset)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Audit.Enabled && c.Audit.Path == "" {
		return errors.New("audit.path is required when audit is enabled")
	}
	return nil
}

// ImporterOptions converts the import section for importer.New.
func (c *Config) ImporterOptions() importer.Options {
	delim, _ := utf8.DecodeRuneInString(c.Import.Delimiter)
	return importer.Options{Delimiter: delim, Charset: c.Import.Charset}
}
