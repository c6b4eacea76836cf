package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/seqtree/pkg/tree"
)

// RowDoc is the JSON form of one row.
type RowDoc struct {
	Kind          string   `json:"kind"`
	Index         int      `json:"index"`
	Depth         int      `json:"depth"`
	Top           float64  `json:"top"`
	Height        float64  `json:"height"`
	SubtreeHeight float64  `json:"subtree_height"`
	Label         string   `json:"label,omitempty"`
	Object        string   `json:"object,omitempty"`
	Path          []string `json:"path,omitempty"`
	TrackID       string   `json:"track_id,omitempty"`
	Type          string   `json:"type,omitempty"`
	Collapsed     bool     `json:"collapsed,omitempty"`
	Key           string   `json:"key,omitempty"` // Collapse-state key of collapsible rows
	Children      []RowDoc `json:"children,omitempty"`
}

// NewRowDoc converts r without its children.
func NewRowDoc(r tree.Row) RowDoc {
	h := r.RowHeader()
	doc := RowDoc{
		Kind:          h.Kind.String(),
		Index:         h.Index,
		Depth:         h.Depth,
		Top:           h.Top,
		Height:        h.OwnHeight,
		SubtreeHeight: h.SubtreeHeight,
		Label:         tree.Label(r),
	}
	if key, ok := tree.CollapseKey(r); ok {
		doc.Key = string(key)
	}

	switch r := r.(type) {
	case *tree.ObjectRow:
		doc.Object = r.Object.Key()
		doc.Collapsed = r.Collapsed
	case *tree.CompoundPropRow:
		doc.Object = r.Object.Key()
		doc.Path = r.Path
		doc.Collapsed = r.Collapsed
	case *tree.PrimitivePropRow:
		doc.Object = r.Object.Key()
		doc.Path = r.Path
		doc.TrackID = string(r.TrackID)
		if r.Type != nil {
			doc.Type = r.Type.Kind.String()
		}
	}
	return doc
}

// Nested converts r and all its descendants.
func Nested(r tree.Row) RowDoc {
	doc := NewRowDoc(r)
	for _, c := range tree.ChildRows(r) {
		doc.Children = append(doc.Children, Nested(c))
	}
	return doc
}

// Flat converts every row in emission order, without nesting.
func Flat(root tree.Row) []RowDoc {
	rows := tree.Flatten(root)
	out := make([]RowDoc, len(rows))
	for i, r := range rows {
		out[i] = NewRowDoc(r)
	}
	return out
}

// MarshalTree returns the indented nested JSON of root.
func MarshalTree(root *tree.SheetRow) ([]byte, error) {
	return json.MarshalIndent(Nested(root), "", "  ")
}

// WriteTree writes the nested JSON of root to w.
func WriteTree(w io.Writer, root *tree.SheetRow) error {
	data, err := MarshalTree(root)
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ExportTree writes the nested JSON of root to path.
func ExportTree(root *tree.SheetRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTree(f, root); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
