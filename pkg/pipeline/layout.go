package pipeline

import (
	"github.com/matzehuels/seqtree/pkg/scene"
	"github.com/matzehuels/seqtree/pkg/tree"
)

// Layout builds the row tree of sheet. state may be nil (all expanded).
func Layout(sheet *scene.Sheet, state tree.CollapseState, opts Options) (*tree.SheetRow, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	return tree.Build(sheet, state, opts.TreeOptions()...)
}
