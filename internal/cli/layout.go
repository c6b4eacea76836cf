package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	seqio "github.com/matzehuels/seqtree/pkg/io"
	"github.com/matzehuels/seqtree/pkg/tree"
)

// layoutCommand creates the layout command for computing the row tree.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flat   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Compute the row tree of a scene",
		Long: `Compute the row tree of a scene file (JSON or TOML).

The tree is printed as nested JSON, honoring the scene's collapse state.
With --flat, rows are printed as a JSON array in emission order.

The tree is always rebuilt; use 'render' for cached artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, flat)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&flat, "flat", false, "print rows as a flat array")

	return cmd
}

// runLayout builds the tree and writes its JSON form.
func (c *CLI) runLayout(ctx context.Context, input, output string, flat bool) error {
	sheet, _, store, err := c.loadState(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	root, err := runner.Layout(ctx, sheet, store.Snapshot(), c.pipelineOptions())
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d rows", tree.Count(root)))

	toFile := output != "" && output != "-"
	switch {
	case !flat && toFile:
		err = seqio.ExportTree(root, output)
	case !flat:
		err = seqio.WriteTree(out, root)
	default:
		err = writeFlat(root, output, toFile)
	}
	if err != nil || !toFile {
		return err
	}
	printSuccess("Wrote row tree")
	printFile(output)
	printStats(tree.Count(root), root.SubtreeHeight, false)
	return nil
}

// writeFlat writes the rows of root as a JSON array to output or stdout.
func writeFlat(root *tree.SheetRow, output string, toFile bool) error {
	data, err := json.MarshalIndent(seqio.Flat(root), "", "  ")
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	data = append(data, '\n')
	if !toFile {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
