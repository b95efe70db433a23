package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/varcar/internal/source"
)

// Config holds the settings shared by every command.
type Config struct {
	LogFormat string
	LogLevel  string

	// RulesPaths are HCL files or directories merged over the built-in rules.
	RulesPaths []string

	S3 source.S3Config
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	for _, p := range cfg.RulesPaths {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("rules path cannot be empty")
		}
	}
	return &cfg, nil
}
