package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seqtree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes geometry and track ids in node labels.
	// When false, only the row label is shown.
	Detailed bool
}

// ToDOT converts a row tree to Graphviz DOT format. Node ids are "r" plus
// the row index, which is unique within one tree.
func ToDOT(root *tree.SheetRow, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	rows := tree.Flatten(root)
	for _, r := range rows {
		label := fmtLabel(r, opts.Detailed)
		attrs := fmtAttrs(r, label)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(r), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range rows {
		for _, c := range tree.ChildRows(r) {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(r), nodeID(c))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(r tree.Row) string {
	return "r" + strconv.Itoa(r.RowHeader().Index)
}

func fmtLabel(r tree.Row, detailed bool) string {
	label := tree.Label(r)
	if !detailed {
		return label
	}

	h := r.RowHeader()
	parts := []string{
		fmt.Sprintf("#%d %s", h.Index, h.Kind),
		fmt.Sprintf("top: %g  h: %g", h.Top, h.SubtreeHeight),
	}
	if p, ok := r.(*tree.PrimitivePropRow); ok {
		parts = append(parts, "track: "+string(p.TrackID))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(r tree.Row, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch r := r.(type) {
	case *tree.SheetRow:
		attrs = append(attrs, "shape=folder", "style=filled", "fillcolor=lightblue")
	case *tree.ObjectRow:
		attrs = append(attrs, collapsedAttrs(r.Collapsed)...)
	case *tree.CompoundPropRow:
		attrs = append(attrs, collapsedAttrs(r.Collapsed)...)
	case *tree.PrimitivePropRow:
		attrs = append(attrs, "shape=ellipse", "style=filled")
	}
	return attrs
}

func collapsedAttrs(collapsed bool) []string {
	if !collapsed {
		return nil
	}
	return []string{"style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black"}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing scales from
// the origin with its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
