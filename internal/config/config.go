// Package config holds runtime configuration for the recipe OCR server.
//
// Values are resolved in order of increasing precedence:
//
//  1. DefaultConfig()
//  2. an optional JSON file (Load)
//  3. RECIPE_MCP_* environment variables (ApplyEnv)
//  4. command-line flags (applied by cmd/recipe-mcp)
//
// Validate is called after every layer so that out-of-range values are clamped
// back to safe defaults instead of failing at startup.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Environment variable names understood by ApplyEnv.
const (
	EnvLogLevel          = "RECIPE_MCP_LOG_LEVEL"
	EnvLanguage          = "RECIPE_MCP_LANGUAGE"
	EnvTessdataPrefix    = "RECIPE_MCP_TESSDATA_PREFIX"
	EnvContainerWidth    = "RECIPE_MCP_CONTAINER_WIDTH"
	EnvThreshold         = "RECIPE_MCP_THRESHOLD"
	EnvInstructionPeriod = "RECIPE_MCP_INSTRUCTION_PERIOD"
	EnvConcurrency       = "RECIPE_MCP_CONCURRENCY"
)

// Config holds runtime configuration for the wizard, OCR engine and logging.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`

	// Language is the Tesseract language code (e.g. "eng").
	Language string `json:"language"`

	// TessdataPrefix points Tesseract at a tessdata directory. Empty uses the
	// system default.
	TessdataPrefix string `json:"tessdata_prefix"`

	// ContainerWidth is the initial display width in screen pixels. Images wider
	// than this are downscaled for display; 0 disables downscaling.
	ContainerWidth int `json:"container_width"`

	// Threshold is the initial binarization threshold (0-255).
	Threshold int `json:"threshold"`

	// InstructionPeriod appends a trailing period to recognized instruction
	// lines that lack one.
	InstructionPeriod bool `json:"instruction_period"`

	// Concurrency bounds the number of regions recognized at once. 0 means
	// every region is submitted at the same time.
	Concurrency int `json:"concurrency"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:          "info",
		Language:          "eng",
		TessdataPrefix:    "",
		ContainerWidth:    896,
		Threshold:         128,
		InstructionPeriod: false,
		Concurrency:       0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = "eng"
	}
	if c.ContainerWidth < 0 {
		c.ContainerWidth = 0
	}
	if c.Threshold < 0 {
		c.Threshold = 0
	}
	if c.Threshold > 255 {
		c.Threshold = 255
	}
	if c.Concurrency < 0 {
		c.Concurrency = 0
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// ApplyEnv overrides fields from RECIPE_MCP_* environment variables. Variables
// that are set but cannot be parsed are reported and leave the field unchanged.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var errs []string
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLanguage); ok {
		c.Language = v
	}
	if v, ok := lookup(EnvTessdataPrefix); ok {
		c.TessdataPrefix = v
	}
	if v, ok := lookup(EnvContainerWidth); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.ContainerWidth = n
		} else {
			errs = append(errs, fmt.Sprintf("%s=%q", EnvContainerWidth, v))
		}
	}
	if v, ok := lookup(EnvThreshold); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Threshold = n
		} else {
			errs = append(errs, fmt.Sprintf("%s=%q", EnvThreshold, v))
		}
	}
	if v, ok := lookup(EnvInstructionPeriod); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.InstructionPeriod = b
		} else {
			errs = append(errs, fmt.Sprintf("%s=%q", EnvInstructionPeriod, v))
		}
	}
	if v, ok := lookup(EnvConcurrency); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Concurrency = n
		} else {
			errs = append(errs, fmt.Sprintf("%s=%q", EnvConcurrency, v))
		}
	}

	_ = c.Validate()
	if len(errs) > 0 {
		return fmt.Errorf("invalid environment values: %s", strings.Join(errs, ", "))
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
