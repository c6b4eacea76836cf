// Package tree computes the positioned row tree of the sequence editor.
//
// [Build] walks a [scene.Sheet] depth-first and emits one row per visible
// line of the editor: the sheet itself (a zero-height anchor), every object
// that has at least one tracked prop, every compound prop on the way to a
// tracked leaf, and every tracked leaf. Each row carries its vertical
// position (Top), the height of its own header (OwnHeight), the height of
// itself plus its visible descendants (SubtreeHeight), its depth, and an
// ordinal Index assigned in emission order.
//
// # Geometry
//
// A single cursor starts at the base offset (space reserved for the panel
// title bar) and advances by the unit height for every emitted row. A row's
// SubtreeHeight is the cursor value after its last descendant minus its own
// Top, so for every row:
//
//	SubtreeHeight = OwnHeight + sum(child.SubtreeHeight)
//
// # Collapse state
//
// Object and compound-prop rows may be collapsed. A collapsed row is still
// emitted and indexed, but its descendants are not: its Children are empty
// and its SubtreeHeight equals its OwnHeight. Collapse state is read through
// the [CollapseState] interface; absent entries mean expanded.
//
// # Purity
//
// Build reads its inputs and returns a fresh tree; it never mutates the
// sheet or the collapse state and keeps no state between calls. Callers
// that observe scene or collapse changes rebuild the whole tree from a
// consistent snapshot.
package tree
