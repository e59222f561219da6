// Package config loads gizbox.toml, the project configuration shared by the
// CLI and the dev inspector.
//
// Values prefixed with "env:" are read from the environment by
// ResolveSecrets, so a checked-in config can point at machine-specific
// settings without embedding them.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gizbox-lang/gizbox/internal/token"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "gizbox.toml"

// EnvVar selects the [environments.<name>] override applied by Load.
const EnvVar = "GIZBOX_ENV"

// Config represents the complete project configuration.
type Config struct {
	Scanner ScannerConfig `toml:"scanner"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Watch   WatchConfig   `toml:"watch"`

	// Environments holds environment-specific overrides
	Environments map[string]EnvironmentOverride `toml:"environments"`
}

// ScannerConfig controls identifier classification.
type ScannerConfig struct {
	// TypeNames are the simple names scanned as TYPE_NAME
	TypeNames []string `toml:"type_names"`

	// Primitives adds the primitive type keywords to the type-name set.
	// Defaults to true.
	Primitives *bool `toml:"primitives"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	// Level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// Format: "text" or "json"
	Format string `toml:"format"`
}

// ServerConfig holds dev inspector settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// WatchConfig controls which files the watcher rescans.
type WatchConfig struct {
	Paths      []string `toml:"paths"`
	Extensions []string `toml:"extensions"`
	DebounceMS int      `toml:"debounce_ms"`
}

// EnvironmentOverride holds environment-specific configuration overrides.
type EnvironmentOverride struct {
	Scanner ScannerConfig `toml:"scanner"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Watch   WatchConfig   `toml:"watch"`
}

// Load loads configuration from gizbox.toml in the given directory.
// A missing file yields the defaults. If GIZBOX_ENV is set, the matching
// environment override is applied; otherwise "development" is used.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, FileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	config.applyDefaults()

	env := os.Getenv(EnvVar)
	if env == "" {
		env = "development"
	}

	if override, ok := config.Environments[env]; ok {
		config.applyOverride(&override)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the configuration used when no gizbox.toml exists.
func Default() *Config {
	primitives := true
	return &Config{
		Scanner: ScannerConfig{
			Primitives: &primitives,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":7420",
		},
		Watch: WatchConfig{
			Paths:      []string{"."},
			Extensions: []string{".gix"},
			DebounceMS: 100,
		},
	}
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Scanner.Primitives == nil {
		c.Scanner.Primitives = defaults.Scanner.Primitives
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if len(c.Watch.Paths) == 0 {
		c.Watch.Paths = defaults.Watch.Paths
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = defaults.Watch.Extensions
	}
	if c.Watch.DebounceMS == 0 {
		c.Watch.DebounceMS = defaults.Watch.DebounceMS
	}
}

// applyOverride applies environment-specific overrides.
func (c *Config) applyOverride(override *EnvironmentOverride) {
	if len(override.Scanner.TypeNames) > 0 {
		c.Scanner.TypeNames = override.Scanner.TypeNames
	}
	if override.Scanner.Primitives != nil {
		c.Scanner.Primitives = override.Scanner.Primitives
	}

	if override.Log.Level != "" {
		c.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		c.Log.Format = override.Log.Format
	}

	if override.Server.Addr != "" {
		c.Server.Addr = override.Server.Addr
	}

	if len(override.Watch.Paths) > 0 {
		c.Watch.Paths = override.Watch.Paths
	}
	if len(override.Watch.Extensions) > 0 {
		c.Watch.Extensions = override.Watch.Extensions
	}
	if override.Watch.DebounceMS != 0 {
		c.Watch.DebounceMS = override.Watch.DebounceMS
	}
}

// Validate checks values that have a fixed set of spellings.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("invalid debounce_ms %d", c.Watch.DebounceMS)
	}
	return nil
}

// ResolveSecrets resolves all "env:" prefixed values to their actual values.
// Call this after Load() to get the final configuration.
func (c *Config) ResolveSecrets() {
	c.Server.Addr = resolveEnvValue(c.Server.Addr)
	c.Log.Level = resolveEnvValue(c.Log.Level)
	for i, p := range c.Watch.Paths {
		c.Watch.Paths[i] = resolveEnvValue(p)
	}
}

// resolveEnvValue resolves "env:VAR_NAME" to the actual environment variable value.
func resolveEnvValue(value string) string {
	if len(value) > 4 && value[:4] == "env:" {
		return os.Getenv(value[4:])
	}
	return value
}

// TypeNames returns the configured type names, plus the primitive type
// keywords when enabled, sorted and without duplicates.
func (c *Config) TypeNames() []string {
	set := make(map[string]struct{})
	for _, name := range c.Scanner.TypeNames {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	if c.Scanner.Primitives != nil && *c.Scanner.Primitives {
		for _, name := range token.Primitives() {
			set[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSourceExt reports whether path has one of the watched extensions.
func (c *Config) HasSourceExt(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Watch.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger builds a logger writing to w at the configured level. Format
// "json" selects the JSON handler; anything else selects text.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
