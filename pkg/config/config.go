// Package config loads liegraph settings from a TOML file and LIEGRAPH_*
// environment variables.
//
// Precedence, lowest first: built-in defaults, the config file, the
// environment, then command-line flags (applied by the CLI).
//
//	# ~/.config/liegraph/config.toml
//	[render]
//	color_mode = "aligned"
//	rankdir    = "LR"
//	formats    = ["dot", "svg"]
//
//	[cache]
//	ttl = "24h"
//
//	[serve]
//	addr = ":8080"
//
//	[watch]
//	debounce = "200ms"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
)

const appName = "liegraph"

// Config is the complete liegraph configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
	Watch  WatchConfig  `toml:"watch"`
	Log    LogConfig    `toml:"log"`
}

// RenderConfig holds defaults for the render, watch and serve commands.
type RenderConfig struct {
	ColorMode string   `toml:"color_mode" validate:"oneof=aligned recorded"`
	RankDir   string   `toml:"rankdir" validate:"oneof=TB BT LR RL"`
	Formats   []string `toml:"formats" validate:"min=1,dive,oneof=dot json svg png"`
}

// CacheConfig controls the rendered-artifact cache.
type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`
	TTL      time.Duration `toml:"ttl" validate:"gte=0"`
}

// ServeConfig controls the HTTP render service.
type ServeConfig struct {
	Addr         string        `toml:"addr" validate:"required,hostname_port|startswith=:"`
	MaxBodyBytes int64         `toml:"max_body_bytes" validate:"gt=0"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
}

// WatchConfig controls the snapshot watcher.
type WatchConfig struct {
	Debounce time.Duration `toml:"debounce" validate:"gte=0"`
}

// LogConfig sets the default log level. --verbose overrides it.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			ColorMode: "aligned",
			RankDir:   "TB",
			Formats:   []string{"dot"},
		},
		Cache: CacheConfig{
			Dir: DefaultCacheDir(),
			TTL: 7 * 24 * time.Hour,
		},
		Serve: ServeConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/liegraph/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/liegraph, falling back to
// ~/.cache.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path means [DefaultPath], which may be
// absent; an explicit path must exist. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, explicit bool) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return lgerrors.Wrap(lgerrors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return nil
		}
		return lgerrors.Wrap(lgerrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return lgerrors.New(lgerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return lgerrors.Wrap(lgerrors.ErrCodeInvalidConfig, err, "validate config")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: fails %q (got %v)", fieldPath(fe), fe.Tag(), fe.Value())
	}
	return lgerrors.New(lgerrors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

// fieldPath turns "Config.Render.ColorMode" into "render.color_mode".
func fieldPath(fe validator.FieldError) string {
	ns := strings.TrimPrefix(fe.StructNamespace(), "Config.")
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
