// Package config holds the mutview server configuration, read from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TuftsBCB/mutview/cbio"
	"github.com/TuftsBCB/mutview/fetch"
)

// Config is the complete server configuration.
type Config struct {
	Listen     string           `yaml:"listen"`
	LogLevel   string           `yaml:"log_level"` // debug, info, warn, error
	Structure  StructureConfig  `yaml:"structure"`
	CBioPortal CBioPortalConfig `yaml:"cbioportal"`
	Theme      Theme            `yaml:"theme"`
	Session    SessionConfig    `yaml:"session"`
}

// StructureConfig configures the structure sources. URLs are templates in
// which "{id}" is replaced by the requested identifier.
type StructureConfig struct {
	AlphaFoldURL string   `yaml:"alphafold_url"`
	PDBURL       string   `yaml:"pdb_url"`
	Timeout      Duration `yaml:"timeout"`
	MaxBytes     int64    `yaml:"max_bytes"`
}

// CBioPortalConfig configures the mutation database client.
type CBioPortalConfig struct {
	BaseURL           string   `yaml:"base_url"`
	Timeout           Duration `yaml:"timeout"`
	ValidateResponses bool     `yaml:"validate_responses"`
	TopN              int      `yaml:"top_n"`
}

// Theme holds the colors shared by pages, charts and the viewer.
type Theme struct {
	Background string `yaml:"background"`
	Accent     string `yaml:"accent"`
	Text       string `yaml:"text"`
}

// SessionConfig controls in-memory page state.
type SessionConfig struct {
	IdleTTL Duration `yaml:"idle_ttl"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:   ":8080",
		LogLevel: "info",
		Structure: StructureConfig{
			AlphaFoldURL: fetch.DefaultAlphaFoldURL,
			PDBURL:       fetch.DefaultPDBURL,
			Timeout:      Duration(30 * time.Second),
			MaxBytes:     fetch.DefaultMaxBytes,
		},
		CBioPortal: CBioPortalConfig{
			BaseURL: cbio.DefaultBaseURL,
			Timeout: Duration(60 * time.Second),
			TopN:    cbio.DefaultTopN,
		},
		Theme: Theme{
			Background: "#2a2a36",
			Accent:     "#7877e6",
			Text:       "#ffffff",
		},
		Session: SessionConfig{
			IdleTTL: Duration(time.Hour),
		},
	}
}

// Load reads a YAML configuration file. Fields missing from the file keep
// their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if len(path) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Fetcher builds a structure fetcher from the configuration.
func (c *Config) Fetcher() *fetch.Fetcher {
	f := fetch.New(nil, c.Structure.Timeout.Std())
	f.Primary.URL = c.Structure.AlphaFoldURL
	f.Fallback.URL = c.Structure.PDBURL
	f.MaxBytes = c.Structure.MaxBytes
	return f
}

// CBio returns the cBioPortal client configuration.
func (c *Config) CBio() cbio.Config {
	return cbio.Config{
		BaseURL:           c.CBioPortal.BaseURL,
		Timeout:           c.CBioPortal.Timeout.Std(),
		ValidateResponses: c.CBioPortal.ValidateResponses,
	}
}
