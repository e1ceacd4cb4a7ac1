package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that a configuration is usable.
func Validate(cfg *Config) error {
	if len(cfg.Listen) == 0 {
		return errors.New("listen address is required")
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}

	for name, tmpl := range map[string]string{
		"structure.alphafold_url": cfg.Structure.AlphaFoldURL,
		"structure.pdb_url":       cfg.Structure.PDBURL,
	} {
		if !strings.Contains(tmpl, "{id}") {
			return fmt.Errorf("%s must contain {id}, got '%s'", name, tmpl)
		}
	}
	if cfg.Structure.Timeout <= 0 {
		return errors.New("structure.timeout must be positive")
	}
	if cfg.Structure.MaxBytes <= 0 {
		return errors.New("structure.max_bytes must be positive")
	}

	if len(cfg.CBioPortal.BaseURL) == 0 {
		return errors.New("cbioportal.base_url is required")
	}
	if cfg.CBioPortal.Timeout <= 0 {
		return errors.New("cbioportal.timeout must be positive")
	}
	if cfg.CBioPortal.TopN < 1 {
		return fmt.Errorf("cbioportal.top_n must be at least 1, got %d",
			cfg.CBioPortal.TopN)
	}

	for name, color := range map[string]string{
		"theme.background": cfg.Theme.Background,
		"theme.accent":     cfg.Theme.Accent,
		"theme.text":       cfg.Theme.Text,
	} {
		if !hexColor.MatchString(color) {
			return fmt.Errorf("%s must be a color like #rrggbb, got '%s'",
				name, color)
		}
	}

	if cfg.Session.IdleTTL <= 0 {
		return errors.New("session.idle_ttl must be positive")
	}
	return nil
}

// Level returns the slog level named by log_level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level '%s'", c.LogLevel)
}
