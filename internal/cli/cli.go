// Package cli implements the liegraph command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/liegraph/pkg/buildinfo"
	"github.com/matzehuels/liegraph/pkg/cache"
	"github.com/matzehuels/liegraph/pkg/config"
	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by ExitCode.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitViolation   = 2
	ExitInterrupted = 130
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded for the running command.
func (c *CLI) Config() *config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "liegraph",
		Short: "liegraph renders RIFT LIE adjacency snapshots as graphs",
		Long: `liegraph reconciles the per-node LIE adjacency tables of a RIFT fabric
snapshot into one edge per link and renders the result as Graphviz DOT,
JSON, SVG or PNG.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/liegraph/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment, then applies the
// configured log level. --verbose is applied afterwards by the caller.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return lgerrors.Wrap(lgerrors.ErrCodeInvalidConfig, err, "log.level")
	}
	c.cfg = cfg
	c.SetLogLevel(level)
	c.Logger.Debug("loaded config", "path", c.configPath, "cache_dir", cfg.Cache.Dir)
	return nil
}

// ExitCode maps a command error onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case lgerrors.IsViolation(err):
		return ExitViolation
	}
	return ExitError
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(noCache), c.Logger)
}

// newCache opens the artifact cache. An unusable cache directory degrades
// to no caching rather than failing the command.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", c.cfg.Cache.Dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags are the flags shared by render and watch. Empty values fall
// back to the loaded configuration.
type renderFlags struct {
	output    string
	formats   string
	colorMode string
	rankDir   string
	noCache   bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output base path, or - for stdout (single format)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): dot, json, svg, png (comma-separated)")
	cmd.Flags().StringVar(&f.colorMode, "color-mode", "", "edge colors: aligned or recorded")
	cmd.Flags().StringVar(&f.rankDir, "rankdir", "", "graph direction: TB, BT, LR or RL")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the rendered-artifact cache")
}

// pipelineOptions merges flags over configuration and validates the result.
func (c *CLI) pipelineOptions(f *renderFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats:   c.cfg.Render.Formats,
		ColorMode: c.cfg.Render.ColorMode,
		RankDir:   c.cfg.Render.RankDir,
		CacheTTL:  c.cfg.Cache.TTL,
		Logger:    c.Logger,
	}
	if f.formats != "" {
		opts.Formats = config.SplitList(f.formats)
	}
	if f.colorMode != "" {
		opts.ColorMode = f.colorMode
	}
	if f.rankDir != "" {
		opts.RankDir = f.rankDir
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	if f.output == "-" && len(opts.Formats) != 1 {
		return opts, lgerrors.New(lgerrors.ErrCodeInvalidFormat,
			"stdout output takes exactly one format, got %s", pipeline.FormatList(opts.Formats))
	}
	return opts, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
