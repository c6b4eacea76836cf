// Package outline renders a row tree as an indented text outline.
//
// Each row is one line: a marker, the row label, and its geometry.
//
//	▾ intro  top=20 h=84 #0
//	  ▾ box  top=20 h=84 #1
//	    ▸ position  top=48 h=28 #2
//	    • opacity  top=76 h=28 #3
//
// ▾ marks an expanded row, ▸ a collapsed one and • a track leaf. Styling
// uses lipgloss and can be turned off with [WithPlain].
package outline

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seqtree/pkg/tree"
)

const (
	markerExpanded  = "▾"
	markerCollapsed = "▸"
	markerLeaf      = "•"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleMarker   = lipgloss.NewStyle().Foreground(colorGray)
	styleSheet    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleObject   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleCompound = lipgloss.NewStyle().Foreground(colorWhite)
	styleLeaf     = lipgloss.NewStyle().Foreground(colorGray)
	styleMeta     = lipgloss.NewStyle().Foreground(colorDim)
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	plain  bool
	indent string
}

// WithPlain disables all styling.
func WithPlain() Option { return func(r *renderer) { r.plain = true } }

// WithIndent sets the number of spaces per depth level (default 2).
func WithIndent(n int) Option {
	return func(r *renderer) {
		if n >= 0 {
			r.indent = strings.Repeat(" ", n)
		}
	}
}

// Line is one rendered row.
type Line struct {
	Row  tree.Row
	Text string
}

// Lines renders every row of root in emission order.
func Lines(root *tree.SheetRow, opts ...Option) []Line {
	r := renderer{indent: "  "}
	for _, opt := range opts {
		opt(&r)
	}

	rows := tree.Flatten(root)
	out := make([]Line, len(rows))
	for i, row := range rows {
		out[i] = Line{Row: row, Text: r.line(row)}
	}
	return out
}

// Render returns the whole outline, one row per line.
func Render(root *tree.SheetRow, opts ...Option) string {
	var b strings.Builder
	for _, l := range Lines(root, opts...) {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Write writes the outline of root to w.
func Write(w io.Writer, root *tree.SheetRow, opts ...Option) error {
	_, err := io.WriteString(w, Render(root, opts...))
	return err
}

func (r renderer) line(row tree.Row) string {
	h := row.RowHeader()

	var b strings.Builder
	b.WriteString(strings.Repeat(r.indent, h.Depth+1))
	b.WriteString(r.style(styleMarker, Marker(row)))
	b.WriteByte(' ')
	b.WriteString(r.style(labelStyle(h.Kind), tree.Label(row)))
	b.WriteString("  ")
	b.WriteString(r.style(styleMeta, meta(h)))
	return b.String()
}

func (r renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

// Marker returns the outline marker of row.
func Marker(row tree.Row) string {
	switch row := row.(type) {
	case *tree.ObjectRow:
		if row.Collapsed {
			return markerCollapsed
		}
	case *tree.CompoundPropRow:
		if row.Collapsed {
			return markerCollapsed
		}
	case *tree.PrimitivePropRow:
		return markerLeaf
	}
	return markerExpanded
}

func labelStyle(k tree.Kind) lipgloss.Style {
	switch k {
	case tree.KindSheet:
		return styleSheet
	case tree.KindObject:
		return styleObject
	case tree.KindCompoundProp:
		return styleCompound
	}
	return styleLeaf
}

func meta(h tree.Header) string {
	return "top=" + num(h.Top) + " h=" + num(h.SubtreeHeight) + " #" + strconv.Itoa(h.Index)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
