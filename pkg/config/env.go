package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
)

// Environment variables read by [Config.ApplyEnvOverrides].
const (
	EnvColorMode     = "LIEGRAPH_COLOR_MODE"
	EnvRankDir       = "LIEGRAPH_RANKDIR"
	EnvFormats       = "LIEGRAPH_FORMATS"
	EnvNoCache       = "LIEGRAPH_NO_CACHE"
	EnvCacheDir      = "LIEGRAPH_CACHE_DIR"
	EnvCacheTTL      = "LIEGRAPH_CACHE_TTL"
	EnvAddr          = "LIEGRAPH_ADDR"
	EnvWatchDebounce = "LIEGRAPH_WATCH_DEBOUNCE"
	EnvLogLevel      = "LIEGRAPH_LOG_LEVEL"
)

// ApplyEnvOverrides applies LIEGRAPH_* variables on top of c. Empty
// variables are ignored.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvColorMode); v != "" {
		c.Render.ColorMode = strings.ToLower(v)
	}
	if v := os.Getenv(EnvRankDir); v != "" {
		c.Render.RankDir = strings.ToUpper(v)
	}
	if v := os.Getenv(EnvFormats); v != "" {
		c.Render.Formats = SplitList(v)
	}

	if v := os.Getenv(EnvNoCache); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return lgerrors.Wrap(lgerrors.ErrCodeInvalidConfig, err, "%s", EnvNoCache)
		}
		c.Cache.Disabled = b
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if err := envDuration(EnvCacheTTL, &c.Cache.TTL); err != nil {
		return err
	}

	if v := os.Getenv(EnvAddr); v != "" {
		c.Serve.Addr = v
	}
	if err := envDuration(EnvWatchDebounce, &c.Watch.Debounce); err != nil {
		return err
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return lgerrors.Wrap(lgerrors.ErrCodeInvalidConfig, err, "%s", name)
	}
	*dst = d
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.ToLower(item))
		}
	}
	return out
}
