package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/pipeline"
	"github.com/matzehuels/liegraph/pkg/snapshot"
	"github.com/matzehuels/liegraph/pkg/watch"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var flags renderFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <snapshot>",
		Short: "Re-render a snapshot whenever it changes",
		Long: `Watch renders the snapshot once, then again after every settled change to
the file. Inconsistent or unreadable snapshots are logged and skipped; the
previous output stays in place until the next good render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.output == "-" {
				return lgerrors.New(lgerrors.ErrCodeInvalidFormat, "watch cannot write to stdout")
			}
			if cmd.Flags().Changed("debounce") {
				c.cfg.Watch.Debounce = debounce
			}
			opts, err := c.pipelineOptions(&flags)
			if err != nil {
				return err
			}
			paths, err := outputPaths(flags.output, args[0], opts.Formats)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], &flags, opts, paths)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-rendering (default from config, 200ms)")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, flags *renderFlags, opts pipeline.Options, paths map[string]string) error {
	w, err := watch.New(input, c.cfg.Watch.Debounce, c.Logger)
	if err != nil {
		return err
	}

	runner := c.newRunner(flags.noCache)
	defer runner.Close()

	renderOnce := func(ctx context.Context) {
		c.renderWatched(ctx, runner, input, opts, paths)
	}

	renderOnce(ctx)
	c.Logger.Info("watching", "path", w.Path(), "debounce", c.cfg.Watch.Debounce)

	err = w.Run(ctx, renderOnce)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// renderWatched renders one revision of the snapshot. Failures are logged
// and never stop the watcher.
func (c *CLI) renderWatched(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, paths map[string]string) {
	snap, err := snapshot.ReadFile(input)
	if err != nil {
		c.Logger.Error("cannot read snapshot", "path", input, "error", lgerrors.UserMessage(err))
		return
	}

	result, err := runner.Execute(ctx, snap, opts)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return
	case lgerrors.IsViolation(err):
		c.Logger.Warn("snapshot is inconsistent, keeping previous output",
			"code", lgerrors.GetCode(err),
			"error", lgerrors.UserMessage(err))
		return
	default:
		c.Logger.Error("render failed", "error", err)
		return
	}

	written, err := writeArtifacts(result, opts.Formats, paths)
	if err != nil {
		c.Logger.Error("write failed", "error", err)
		return
	}
	c.Logger.Info("rendered",
		"files", len(written),
		"nodes", result.Stats.Nodes,
		"edges", result.Stats.Edges)
}
