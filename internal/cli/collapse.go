package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtree/pkg/collapse"
	"github.com/matzehuels/seqtree/pkg/scene"
)

// collapseOpts holds the command-line flags for the collapse command.
type collapseOpts struct {
	expand bool // clear the flag instead of collapsing
	toggle bool // flip the current flag
	reset  bool // expand every row
}

// collapseCommand creates the collapse command for editing collapse state.
func (c *CLI) collapseCommand() *cobra.Command {
	var opts collapseOpts

	cmd := &cobra.Command{
		Use:   "collapse [scene] [object] [prop.path]",
		Short: "Collapse or expand an object or compound prop row",
		Long: `Collapse or expand a row and save the scene's collapse state.

Without a prop path the object row itself is targeted; otherwise the
dotted path must name a compound prop, e.g. "transform.position".

  seqtree collapse scene.json box
  seqtree collapse scene.json box transform --expand
  seqtree collapse scene.json --reset`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.reset {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.RangeArgs(2, 3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.expand && opts.toggle {
				return fmt.Errorf("--expand and --toggle are mutually exclusive")
			}
			var path scene.Path
			if len(args) == 3 {
				path = splitPath(args[2])
			}
			var object string
			if len(args) > 1 {
				object = args[1]
			}
			return c.runCollapse(args[0], object, path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.expand, "expand", false, "expand the row instead")
	cmd.Flags().BoolVar(&opts.toggle, "toggle", false, "flip the row's current state")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "expand all rows")

	return cmd
}

func (c *CLI) runCollapse(input, object string, path scene.Path, opts collapseOpts) error {
	sheet, fs, store, err := c.loadState(input)
	if err != nil {
		return err
	}

	if opts.reset {
		n := store.Len()
		store.Replace(collapse.SnapshotOf(nil))
		if err := fs.Save(store); err != nil {
			return err
		}
		printSuccess("Expanded all rows (%d flags cleared)", n)
		printFile(fs.Path())
		return nil
	}

	key, err := collapse.KeyFor(sheet, object, path)
	if err != nil {
		return err
	}

	collapsed := true
	switch {
	case opts.toggle:
		collapsed = store.Toggle(key)
	case opts.expand:
		store.Clear(key)
		collapsed = false
	default:
		store.Set(key, true)
	}
	if err := fs.Save(store); err != nil {
		return err
	}

	target := object
	if len(path) > 0 {
		target += "." + path.String()
	}
	state := "Expanded"
	if collapsed {
		state = "Collapsed"
	}
	printSuccess("%s %s", state, StyleValue.Render(target))
	printFile(fs.Path())
	printNextStep("View the tree", fmt.Sprintf("%s render %s", appName, input))
	return nil
}

// splitPath parses a dotted prop path.
func splitPath(s string) scene.Path {
	s = strings.Trim(s, ".")
	if s == "" {
		return nil
	}
	return scene.Path(strings.Split(s, "."))
}
