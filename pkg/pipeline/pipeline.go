// Package pipeline wires snapshot loading, reconciliation and rendering into
// a single runner shared by the CLI, the watcher and the HTTP service.
//
// # Stages
//
//  1. Reconcile: process every node and pair up link observations
//     ([adjacency.Build]). Any invariant violation aborts the run.
//  2. Render: emit DOT text, then derive each requested format from it.
//     SVG and PNG are produced by Graphviz and cached by content hash.
//
// All formats are rendered in memory before Execute returns, so callers
// never write partial output for a failed run.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	snap, err := snapshot.ReadFile("fabric.json")
//	result, err := runner.Execute(ctx, snap, pipeline.Options{
//	    Formats: []string{pipeline.FormatDOT, pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/liegraph/pkg/adjacency"
	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/render/dot"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// DefaultArtifactTTL is how long rendered SVG/PNG stay cached when
// Options.CacheTTL is zero.
const DefaultArtifactTTL = 7 * 24 * time.Hour

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatJSON: "application/json",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
}

// ValidateFormat checks that a format is supported. Matching is
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return lgerrors.New(lgerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, json, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// Formats to render. Defaults to DOT only.
	Formats []string `json:"formats,omitempty"`
	// ColorMode is "aligned" (default) or "recorded".
	ColorMode string `json:"color_mode,omitempty"`
	// RankDir is the Graphviz rank direction, TB by default.
	RankDir string `json:"rankdir,omitempty"`
	// CacheTTL is the lifetime of cached SVG/PNG artifacts.
	CacheTTL time.Duration `json:"-"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	renderOpts dot.Options
	validated  bool
}

// ValidateAndSetDefaults checks every option and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDOT}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)

	mode, err := dot.ParseColorMode(o.ColorMode)
	if err != nil {
		return err
	}
	dir, err := dot.ParseRankDir(o.RankDir)
	if err != nil {
		return err
	}
	o.ColorMode, o.RankDir = string(mode), string(dir)
	o.renderOpts = dot.Options{ColorMode: mode, RankDir: dir}

	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultArtifactTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Topology is the reconciled graph.
	Topology *adjacency.Topology

	// DOT is the rendered graph description every other format derives from.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains execution statistics.
type Stats struct {
	adjacency.Stats
	ReconcileTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo records which Graphviz formats were served from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// RenderHit reports whether every Graphviz format came from the cache.
// It is false when no Graphviz format was requested.
func (c CacheInfo) RenderHit() bool {
	return len(c.Hits) > 0 && len(c.Misses) == 0
}

// FormatList joins formats for log output.
func FormatList(formats []string) string {
	return strings.Join(formats, ",")
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
