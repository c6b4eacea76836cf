// Package render turns a sequence editor row tree into something a person
// can look at.
//
// # Overview
//
// The tree built by [tree.Build] is pure geometry: indices, depths and
// vertical offsets. The subpackages present it in two ways:
//
//   - [outline]: an indented text outline, styled for terminals
//   - [nodelink]: a Graphviz digraph of the rows, rendered to SVG
//
// Both renderers only read the tree. Collapsed rows are drawn, their hidden
// descendants are not (they are not in the tree).
//
//	root, _ := tree.Build(sheet, state)
//	fmt.Print(outline.Render(root))
//	svg, err := nodelink.RenderSVG(nodelink.ToDOT(root, nodelink.Options{}))
//
// [tree.Build]: github.com/matzehuels/seqtree/pkg/tree.Build
// [outline]: github.com/matzehuels/seqtree/pkg/render/outline
// [nodelink]: github.com/matzehuels/seqtree/pkg/render/nodelink
package render
