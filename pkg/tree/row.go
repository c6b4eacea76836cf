package tree

import (
	"fmt"

	"github.com/matzehuels/seqtree/pkg/proptypes"
	"github.com/matzehuels/seqtree/pkg/scene"
)

// Kind tags the concrete type of a row.
type Kind int

const (
	KindSheet Kind = iota
	KindObject
	KindCompoundProp
	KindPrimitiveProp
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSheet:
		return "sheet"
	case KindObject:
		return "object"
	case KindCompoundProp:
		return "compoundProp"
	case KindPrimitiveProp:
		return "primitiveProp"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Header is the geometry shared by every row kind.
type Header struct {
	Kind          Kind
	Depth         int     // -1 for the sheet, 0 for objects, and so on
	Index         int     // Emission order, unique within one tree
	Top           float64 // Offset from the top of the panel content
	OwnHeight     float64 // Height of the row's own header
	SubtreeHeight float64 // OwnHeight plus visible descendants
}

// RowHeader returns the header. It is promoted to every row type.
func (h Header) RowHeader() Header { return h }

// Bottom returns the offset just below the row and its visible descendants.
func (h Header) Bottom() float64 { return h.Top + h.SubtreeHeight }

// Row is one of *SheetRow, *ObjectRow, *CompoundPropRow or
// *PrimitivePropRow. The set is closed; use a type switch to dispatch.
type Row interface {
	RowHeader() Header
	isRow()
}

// PropRow is one of *CompoundPropRow or *PrimitivePropRow.
type PropRow interface {
	Row
	isPropRow()
}

// SheetRow is the root of the tree. It has no visible header of its own.
type SheetRow struct {
	Header
	Sheet    *scene.Sheet
	Children []*ObjectRow
}

// ObjectRow is an object with at least one tracked prop.
type ObjectRow struct {
	Header
	Object    *scene.Object
	Collapsed bool
	Children  []PropRow // Empty when Collapsed
}

// CompoundPropRow is a prop with nested props, at least one of which is
// tracked.
type CompoundPropRow struct {
	Header
	Object    *scene.Object
	Path      scene.Path
	Collapsed bool
	Tracks    *scene.TrackMapping // The slice of the object mapping under Path
	Children  []PropRow           // Empty when Collapsed
}

// PrimitivePropRow is a tracked leaf prop.
type PrimitivePropRow struct {
	Header
	Object  *scene.Object
	Path    scene.Path
	TrackID scene.TrackID
	Type    *proptypes.PropType
}

func (*SheetRow) isRow()         {}
func (*ObjectRow) isRow()        {}
func (*CompoundPropRow) isRow()  {}
func (*PrimitivePropRow) isRow() {}

func (*CompoundPropRow) isPropRow()  {}
func (*PrimitivePropRow) isPropRow() {}

// ItemKey returns the collapse-state key of the row.
func (r *ObjectRow) ItemKey() scene.ItemKey { return scene.ObjectItemKey(r.Object.Address()) }

// ItemKey returns the collapse-state key of the row.
func (r *CompoundPropRow) ItemKey() scene.ItemKey {
	return scene.PropItemKey(r.Object.Address(), r.Path)
}

// CollapseKey returns the collapse-state key of a collapsible row. Sheet
// and primitive rows are not collapsible.
func CollapseKey(r Row) (scene.ItemKey, bool) {
	switch r := r.(type) {
	case *ObjectRow:
		return r.ItemKey(), true
	case *CompoundPropRow:
		return r.ItemKey(), true
	}
	return "", false
}

// Label returns the display name of a row: the sheet id, the object key,
// or the last key of the prop path.
func Label(r Row) string {
	switch r := r.(type) {
	case *SheetRow:
		if r.Sheet == nil {
			return ""
		}
		return r.Sheet.Address().SheetID
	case *ObjectRow:
		return r.Object.Key()
	case *CompoundPropRow:
		return propLabel(r.Object, r.Path)
	case *PrimitivePropRow:
		if r.Type != nil && r.Type.Label != "" {
			return r.Type.Label
		}
		return r.Path.Last()
	}
	return ""
}

func propLabel(o *scene.Object, path scene.Path) string {
	if t, ok := o.Config().At(path); ok && t.Label != "" {
		return t.Label
	}
	return path.Last()
}
