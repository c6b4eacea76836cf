package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtree/pkg/collapse"
	"github.com/matzehuels/seqtree/pkg/pipeline"
	"github.com/matzehuels/seqtree/pkg/render/outline"
	"github.com/matzehuels/seqtree/pkg/scene"
	"github.com/matzehuels/seqtree/pkg/tree"
)

// browseCommand creates the interactive outline browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [scene]",
		Short: "Browse the row tree interactively",
		Long: `Browse the row tree in the terminal.

Keys: ↑/↓ (k/j) move, space or enter collapses/expands the selected row,
e expands everything, q quits. Changes are saved to the collapse state
file on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(args[0])
		},
	}
}

func (c *CLI) runBrowse(input string) error {
	sheet, fs, store, err := c.loadState(input)
	if err != nil {
		return err
	}

	m, err := newBrowseModel(sheet, store, c.pipelineOptions())
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	bm := final.(browseModel)
	if bm.err != nil {
		return bm.err
	}
	if !bm.dirty {
		return nil
	}
	if err := fs.Save(store); err != nil {
		return err
	}
	printSuccess("Saved collapse state")
	printFile(fs.Path())
	return nil
}

// =============================================================================
// browseModel - Interactive outline
// =============================================================================

// browseModel is the bubbletea model of the browse command. Every toggle
// writes the store and rebuilds the tree.
type browseModel struct {
	sheet *scene.Sheet
	store *collapse.Store
	opts  pipeline.Options

	root   *tree.SheetRow
	lines  []outline.Line
	cursor int
	offset int
	height int
	dirty  bool
	err    error
}

func newBrowseModel(sheet *scene.Sheet, store *collapse.Store, opts pipeline.Options) (browseModel, error) {
	m := browseModel{sheet: sheet, store: store, opts: opts, height: 20}
	if err := m.rebuild(); err != nil {
		return m, err
	}
	return m, nil
}

func (m *browseModel) rebuild() error {
	root, err := pipeline.Layout(m.sheet, m.store.Snapshot(), m.opts)
	if err != nil {
		return err
	}
	m.root = root
	m.lines = outline.Lines(root)
	if m.cursor >= len(m.lines) {
		m.cursor = len(m.lines) - 1
	}
	m.scroll()
	return nil
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// selected returns the row under the cursor.
func (m browseModel) selected() tree.Row {
	return m.lines[m.cursor].Row
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case "down", "j":
			if m.cursor < len(m.lines)-1 {
				m.cursor++
				m.scroll()
			}
		case " ", "enter":
			key, ok := tree.CollapseKey(m.selected())
			if !ok {
				return m, nil
			}
			m.store.Toggle(key)
			return m.changed()
		case "e":
			if m.store.Len() == 0 {
				return m, nil
			}
			m.store.Replace(collapse.SnapshotOf(nil))
			return m.changed()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-5, 5)
		m.scroll()
	}
	return m, nil
}

func (m browseModel) changed() (tea.Model, tea.Cmd) {
	m.dirty = true
	if err := m.rebuild(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(tree.Label(m.root)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ␣ collapse/expand  e expand all  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.lines))
	for i := m.offset; i < end; i++ {
		line := m.lines[i].Text
		if i == m.cursor {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	status := fmt.Sprintf("[%d/%d]", m.cursor+1, len(m.lines))
	if m.dirty {
		status += " modified"
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(status))
	return b.String()
}
