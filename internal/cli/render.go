package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/pipeline"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <snapshot>",
		Short: "Render a snapshot to DOT, JSON, SVG or PNG",
		Long: `Render reconciles a JSON or YAML snapshot and writes one file per format,
named <base>.<format>. The base defaults to the snapshot path without its
extension. Nothing is written unless every format renders.`,
		Example: `  liegraph render fabric.json
  liegraph render fabric.yaml -f dot,svg --rankdir LR -o out/fabric
  liegraph render fabric.json -f dot -o - | dot -Tpdf > fabric.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(&flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], &flags, opts)
		},
	}
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, stdout io.Writer, input string, flags *renderFlags, opts pipeline.Options) error {
	prog := newProgress(c.Logger)

	toStdout := flags.output == "-"
	if toStdout && opts.Formats[0] == pipeline.FormatPNG {
		if f, ok := stdout.(*os.File); ok && isTerminal(f) {
			return lgerrors.New(lgerrors.ErrCodeInvalidFormat, "refusing to write PNG to a terminal")
		}
	}

	var paths map[string]string
	if !toStdout {
		var err error
		if paths, err = outputPaths(flags.output, input, opts.Formats); err != nil {
			return err
		}
	}

	snap, err := snapshot.ReadFile(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(flags.noCache)
	defer runner.Close()

	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		return err
	}

	if toStdout {
		_, err := stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	written, err := writeArtifacts(result, opts.Formats, paths)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", input))

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Nodes, result.Stats.Edges, result.CacheInfo.RenderHit())
	for _, p := range written {
		printFile(p)
	}
	return nil
}

// outputPaths maps each format to <base>.<format>. It refuses to overwrite
// the input snapshot.
func outputPaths(output, input string, formats []string) (map[string]string, error) {
	base := basePath(output, input)
	inAbs, _ := filepath.Abs(input)

	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		p := base + "." + f
		if abs, _ := filepath.Abs(p); abs == inAbs {
			return nil, lgerrors.New(lgerrors.ErrCodeInvalidFormat,
				"%s output would overwrite the snapshot %s; pass -o", f, input)
		}
		paths[f] = p
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .dot, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts stages every rendered format in a temp file next to its
// target and renames them into place only after all of them were written.
// A failed write leaves no output behind.
func writeArtifacts(result *pipeline.Result, formats []string, paths map[string]string) ([]string, error) {
	temps := make([]string, 0, len(formats))
	removeAll := func(names []string) {
		for _, name := range names {
			_ = os.Remove(name)
		}
	}

	for _, f := range formats {
		tmp, err := stageArtifact(paths[f], result.Artifacts[f])
		if err != nil {
			removeAll(temps)
			return nil, err
		}
		temps = append(temps, tmp)
	}

	written := make([]string, 0, len(formats))
	for i, f := range formats {
		if err := os.Rename(temps[i], paths[f]); err != nil {
			removeAll(temps[i:])
			return written, lgerrors.Wrap(lgerrors.ErrCodeInternal, err, "write %s", paths[f])
		}
		written = append(written, paths[f])
	}
	return written, nil
}

func stageArtifact(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", lgerrors.Wrap(lgerrors.ErrCodeInternal, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", lgerrors.Wrap(lgerrors.ErrCodeInternal, err, "write %s", path)
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", lgerrors.Wrap(lgerrors.ErrCodeInternal, err, "write %s", path)
	}
	return tmp.Name(), nil
}
