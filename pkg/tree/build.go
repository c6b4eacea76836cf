package tree

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/proptypes"
	"github.com/matzehuels/seqtree/pkg/scene"
)

const (
	// DefaultUnitHeight is the height of every object and prop row header.
	DefaultUnitHeight = 28.0

	// DefaultBaseOffset is the space reserved above the first row for the
	// panel's title bar.
	DefaultBaseOffset = 20.0
)

// CollapseState answers whether the row with the given key is collapsed.
// ok is false when the store has no entry for key, which means expanded.
type CollapseState interface {
	IsCollapsed(key scene.ItemKey) (collapsed, ok bool)
}

// Expanded is a CollapseState with no entries.
type Expanded struct{}

// IsCollapsed always reports no entry.
func (Expanded) IsCollapsed(scene.ItemKey) (bool, bool) { return false, false }

// Option configures [Build].
type Option func(*builder)

// WithUnitHeight sets the height of every non-root row.
func WithUnitHeight(h float64) Option { return func(b *builder) { b.unit = h } }

// WithBaseOffset sets the Top of the sheet row and of the first object.
func WithBaseOffset(y float64) Option { return func(b *builder) { b.cursor = y } }

// WithLogger sets the logger used for diagnostics such as skipped enum
// props. The default logger discards everything.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// builder holds the accumulator of one Build call. It is never shared.
type builder struct {
	state  CollapseState
	logger *log.Logger
	unit   float64
	cursor float64
	next   int

	// leaves counts, per mapping node, the tracked leaves that produce rows.
	leaves map[scene.ItemKey]int
}

// Build computes the row tree of sheet under the given collapse state.
// A nil state means every row is expanded.
//
// Build fails only on precondition violations: a non-positive unit height,
// or a tracked-property mapping that names a prop the schema does not
// declare (or disagrees with it about which props are compound). Such
// errors carry the code SCHEMA_DESYNC and no partial tree is returned.
func Build(sheet *scene.Sheet, state CollapseState, opts ...Option) (*SheetRow, error) {
	if sheet == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "sheet is nil")
	}
	if state == nil {
		state = Expanded{}
	}
	b := &builder{
		state:  state,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		unit:   DefaultUnitHeight,
		cursor: DefaultBaseOffset,
		leaves: make(map[scene.ItemKey]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	if !(b.unit > 0) || math.IsInf(b.unit, 0) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unit height must be positive and finite, got %v", b.unit)
	}
	if math.IsNaN(b.cursor) || math.IsInf(b.cursor, 0) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "base offset must be finite, got %v", b.cursor)
	}

	objects := sheet.Objects()
	for _, o := range objects {
		if _, err := b.survey(o, o.TrackedProps(), o.Config(), nil); err != nil {
			return nil, err
		}
	}

	root := &SheetRow{
		Header: Header{Kind: KindSheet, Depth: -1, Index: b.next, Top: b.cursor},
		Sheet:  sheet,
	}
	b.next++

	for _, o := range objects {
		if row := b.addObject(o, root.Depth+1); row != nil {
			root.Children = append(root.Children, row)
		}
	}
	b.finish(&root.Header)

	b.logger.Debug("built sequence editor tree",
		"sheet", sheet.Address().SheetID,
		"rows", b.next,
		"height", root.SubtreeHeight)
	return root, nil
}

// survey checks m against conf and records how many row-producing leaves
// each nested mapping holds. It runs before any row is emitted, so pruning
// and desync detection do not depend on collapse state.
func (b *builder) survey(o *scene.Object, m *scene.TrackMapping, conf *proptypes.PropType, path scene.Path) (int, error) {
	n := 0
	for _, e := range m.Entries() {
		p := path.Append(e.Key)
		child, ok := conf.Lookup(e.Key)
		if !ok || child == nil {
			return 0, errs.New(errs.ErrCodeSchemaDesync,
				"object %q: tracked prop %q is not declared in its schema", o.Key(), p)
		}
		switch {
		case child.IsCompound():
			if e.IsLeaf() {
				return 0, errs.New(errs.ErrCodeSchemaDesync,
					"object %q: compound prop %q is mapped to a single track", o.Key(), p)
			}
			k, err := b.survey(o, e.Sub, child, p)
			if err != nil {
				return 0, err
			}
			n += k
		case child.Kind == proptypes.KindEnum:
			b.logger.Warn("prop type enum is not yet supported in the sequence editor",
				"object", o.Key(), "path", p.String())
		default:
			if !e.IsLeaf() {
				return 0, errs.New(errs.ErrCodeSchemaDesync,
					"object %q: %s prop %q is mapped to nested tracks", o.Key(), child.Kind, p)
			}
			n++
		}
	}
	b.leaves[scene.PropItemKey(o.Address(), path)] = n
	return n, nil
}

// emit claims the next index and advances the cursor past the row header.
func (b *builder) emit(kind Kind, depth int) Header {
	h := Header{
		Kind:      kind,
		Depth:     depth,
		Index:     b.next,
		Top:       b.cursor,
		OwnHeight: b.unit,
	}
	b.next++
	b.cursor += b.unit
	return h
}

// finish closes a row once all its visible descendants have been emitted.
func (b *builder) finish(h *Header) {
	h.SubtreeHeight = b.cursor - h.Top
}

func (b *builder) collapsed(key scene.ItemKey) bool {
	c, ok := b.state.IsCollapsed(key)
	return ok && c
}

func (b *builder) addObject(o *scene.Object, depth int) *ObjectRow {
	if b.leaves[scene.PropItemKey(o.Address(), nil)] == 0 {
		return nil
	}
	row := &ObjectRow{
		Object:    o,
		Collapsed: b.collapsed(scene.ObjectItemKey(o.Address())),
	}
	row.Header = b.emit(KindObject, depth)
	if !row.Collapsed {
		row.Children = b.addProps(o, o.TrackedProps(), o.Config(), nil, depth+1)
	}
	b.finish(&row.Header)
	return row
}

func (b *builder) addProps(o *scene.Object, m *scene.TrackMapping, conf *proptypes.PropType, path scene.Path, depth int) []PropRow {
	var rows []PropRow
	for _, e := range m.Entries() {
		// survey already resolved every key.
		child, _ := conf.Lookup(e.Key)
		p := path.Append(e.Key)
		switch {
		case child.IsCompound():
			if row := b.addCompound(o, e.Sub, child, p, depth); row != nil {
				rows = append(rows, row)
			}
		case child.Kind == proptypes.KindEnum:
			// Unsupported; reported during survey.
		default:
			rows = append(rows, b.addPrimitive(o, e.TrackID, child, p, depth))
		}
	}
	return rows
}

func (b *builder) addCompound(o *scene.Object, m *scene.TrackMapping, conf *proptypes.PropType, path scene.Path, depth int) *CompoundPropRow {
	if b.leaves[scene.PropItemKey(o.Address(), path)] == 0 {
		return nil
	}
	row := &CompoundPropRow{
		Object:    o,
		Path:      path,
		Collapsed: b.collapsed(scene.PropItemKey(o.Address(), path)),
		Tracks:    m,
	}
	row.Header = b.emit(KindCompoundProp, depth)
	if !row.Collapsed {
		row.Children = b.addProps(o, m, conf, path, depth+1)
	}
	b.finish(&row.Header)
	return row
}

func (b *builder) addPrimitive(o *scene.Object, id scene.TrackID, conf *proptypes.PropType, path scene.Path, depth int) *PrimitivePropRow {
	row := &PrimitivePropRow{
		Object:  o,
		Path:    path,
		TrackID: id,
		Type:    conf,
	}
	row.Header = b.emit(KindPrimitiveProp, depth)
	b.finish(&row.Header)
	return row
}
