// CLAUDE:SUMMARY Defines bundlescope config structs and parses YAML configuration files with defaults.
// Package config handles bundlescope configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level bundlescope configuration.
type Config struct {
	Browser       BrowserConfig       `yaml:"browser"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote attaches to an existing browser over its devtools websocket
	// instead of launching one.
	Remote      string        `yaml:"remote"`
	Headless    bool          `yaml:"headless"`
	Stealth     bool          `yaml:"stealth"`
	UserAgent   string        `yaml:"user_agent"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

// HTTPConfig controls the read-only JSON API.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// ObservabilityConfig controls the local metrics store. An empty DBPath
// disables metrics entirely.
type ObservabilityConfig struct {
	DBPath        string        `yaml:"db_path"`
	BufferSize    int           `yaml:"buffer_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// AnalysisConfig tunes the analysis heuristics.
type AnalysisConfig struct {
	// VendorPatterns override the same-origin vendor-bundle path patterns.
	VendorPatterns []string `yaml:"vendor_patterns"`
	// AlternativesPath points to a YAML table of heavy dependencies and
	// their lighter alternatives. Empty uses the built-in table.
	AlternativesPath string `yaml:"alternatives_path"`
}

// Load reads a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Browser: BrowserConfig{Headless: true}}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Browser.LoadTimeout <= 0 {
		c.Browser.LoadTimeout = 60 * time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8087"
	}
	if c.Observability.BufferSize <= 0 {
		c.Observability.BufferSize = 256
	}
	if c.Observability.FlushInterval <= 0 {
		c.Observability.FlushInterval = 5 * time.Second
	}
}
