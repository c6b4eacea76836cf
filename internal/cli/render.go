package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single format), base path (multiple), or "-" for stdout
	formats  string // comma-separated output formats
	detailed bool   // geometry in node labels (dot, svg)
	plain    bool   // no terminal styling (text)
	noCache  bool   // disable the artifact cache
	refresh  bool   // ignore cached artifacts
}

// formatExt maps output formats to file extensions.
var formatExt = map[string]string{
	pipeline.FormatJSON: "json",
	pipeline.FormatText: "txt",
	pipeline.FormatDOT:  "dot",
	pipeline.FormatSVG:  "svg",
}

// renderCommand creates the render command for writing tree artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{formats: pipeline.FormatText, output: "-"}

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render the row tree as text, DOT, SVG or JSON",
		Long: `Render the row tree of a scene.

Formats:
  text  indented outline with row offsets and indices
  json  nested row tree
  dot   Graphviz source of the hierarchy
  svg   hierarchy diagram rendered with Graphviz

Artifacts are cached by the content of the tree, so a changed collapse
state or scene renders afresh while repeated runs are served from cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(opts.formats)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file or base path; '-' prints to stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output format(s): text, json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show offsets and track IDs (dot, svg)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable colors (text)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runRender runs the pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, input string, formats []string, ro renderOpts) error {
	sheet, _, store, err := c.loadState(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Formats = formats
	opts.Detailed = ro.detailed
	opts.Plain = ro.plain
	opts.Refresh = ro.refresh

	var spinner *Spinner
	if slices.Contains(formats, pipeline.FormatSVG) && ro.output != "-" {
		spinner = newSpinner(ctx, os.Stderr, "Rendering SVG...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, sheet, store.Snapshot(), opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if ro.output == "-" {
		for _, f := range formats {
			if _, err := out.Write(result.Artifacts[f]); err != nil {
				return err
			}
		}
		return nil
	}

	paths := outputPaths(ro.output, input, formats)
	for _, f := range formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Rendered %s", strings.Join(formats, ", "))
	for _, f := range formats {
		printFile(paths[f])
	}
	printStats(result.Stats.RowCount, result.Stats.Height, result.CacheInfo.RenderHit)
	return nil
}

// outputPaths assigns a file to each format. A single format writes to
// output as given; multiple formats share output (or the input path) as
// base with per-format extensions.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + formatExt[f]
	}
	return paths
}

// basePath strips a known format extension from output, or derives the
// base from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, e := range formatExt {
		if ext == e {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}
