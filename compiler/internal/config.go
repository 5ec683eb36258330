package internal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how the checker reports. It is read from an optional YAML file; command line
// flags override it.
type Config struct {
	// Verbose logs the progress of each pass.
	Verbose bool `yaml:"verbose"`
	// MaxErrors caps the number of diagnostics printed per file, 0 means no limit.
	MaxErrors int `yaml:"max_errors"`
	// ShowCodes prefixes each printed diagnostic with its code, like S0202.
	ShowCodes bool `yaml:"show_codes"`

	logger *log.Logger
}

func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads the config file at path. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return decodeConfig(f, path)
}

func decodeConfig(r io.Reader, path string) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.MaxErrors < 0 {
		return nil, fmt.Errorf("config: %s: max_errors must not be negative, got %d", path, cfg.MaxErrors)
	}
	return cfg, nil
}

// SetLogger routes progress logs to logger, overriding Verbose.
func (cfg *Config) SetLogger(logger *log.Logger) {
	cfg.logger = logger
}

// Logger returns the logger progress is written to: stderr when verbose, discarded otherwise.
func (cfg *Config) Logger() *log.Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	if cfg.Verbose {
		cfg.logger = log.New(os.Stderr, "decafc: ", 0)
	} else {
		cfg.logger = log.New(io.Discard, "", 0)
	}
	return cfg.logger
}

// Format renders d, found in file, for printing. The code is prepended when ShowCodes is set.
func (cfg *Config) Format(file string, d *Diagnostic) string {
	text := d.Error()
	if file != "" {
		text = file + ":" + text
	}
	if cfg.ShowCodes {
		return fmt.Sprintf("[%s] %s", d.Kind.Code(), text)
	}
	return text
}

// Truncate drops the diagnostics beyond MaxErrors.
func (cfg *Config) Truncate(diagnostics []*Diagnostic) []*Diagnostic {
	if cfg.MaxErrors > 0 && len(diagnostics) > cfg.MaxErrors {
		return diagnostics[:cfg.MaxErrors]
	}
	return diagnostics
}
