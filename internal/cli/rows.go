package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtree/pkg/render/outline"
	"github.com/matzehuels/seqtree/pkg/tree"
)

// rowsCommand creates the rows command, a table of the visible rows.
func (c *CLI) rowsCommand() *cobra.Command {
	var top, bottom float64

	cmd := &cobra.Command{
		Use:   "rows [scene]",
		Short: "List rows as a table",
		Long: `List the rows of a scene's tree in display order.

--top and --bottom restrict the listing to rows whose header intersects
the vertical range, like a scrolled viewport of the editor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bottom <= top {
				return fmt.Errorf("--bottom (%g) must be greater than --top (%g)", bottom, top)
			}
			return c.runRows(cmd.Context(), args[0], top, bottom)
		},
	}

	cmd.Flags().Float64Var(&top, "top", 0, "viewport top")
	cmd.Flags().Float64Var(&bottom, "bottom", math.Inf(1), "viewport bottom")

	return cmd
}

func (c *CLI) runRows(ctx context.Context, input string, top, bottom float64) error {
	sheet, _, store, err := c.loadState(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	root, err := runner.Layout(ctx, sheet, store.Snapshot(), c.pipelineOptions())
	if err != nil {
		return err
	}

	visible := tree.Window(tree.Flatten(root), top, bottom)
	if len(visible) == 0 {
		printInfo("No rows between %g and %g", top, bottom)
		return nil
	}

	fmt.Fprintln(out, rowsTable(visible))
	printDetail("%d of %d rows", len(visible), tree.Count(root)-1)
	return nil
}

// rowsTable renders rows with one line per row.
func rowsTable(rows []tree.Row) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		h := r.RowHeader()
		track := ""
		if p, ok := r.(*tree.PrimitivePropRow); ok {
			track = string(p.TrackID)
		}
		data[i] = []string{
			strconv.Itoa(h.Index),
			outline.Marker(r) + " " + h.Kind.String(),
			strconv.Itoa(h.Depth),
			strconv.FormatFloat(h.Top, 'f', -1, 64),
			strconv.FormatFloat(h.SubtreeHeight, 'f', -1, 64),
			tree.Label(r),
			track,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Kind", "Depth", "Top", "Height", "Label", "Track").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 6:
				return styleCellDim
			}
			return styleCell
		}).
		Render()
}
