// Package nodelink renders a row tree as a node-link diagram.
//
// # Overview
//
// Every row becomes a box and every parent/child relation an arrow, laid out
// top to bottom by Graphviz. It is mostly useful for eyeballing deep prop
// hierarchies, where the indented outline gets wide.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// Collapsed rows are drawn dashed on a grey fill. Their hidden descendants
// are not part of the tree and so are not drawn at all.
//
// # Options
//
//   - Detailed: node labels include index, top and height, and the track id
//     of leaf rows
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
