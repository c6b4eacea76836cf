// Package scene models the scene-graph store the sequence editor reads from.
//
// A [Sheet] owns an ordered list of animatable [Object] values. Each object
// carries its declared property schema (a [proptypes.PropType] tree) and a
// [TrackMapping]: the schema-shaped subset of its properties that have at
// least one sequence track. The mapping is ordered by schema declaration
// order, which is the order rows appear in the editor.
//
// Collapse state is stored elsewhere, keyed by the [ItemKey] values this
// package derives from object addresses and property paths.
//
// Sheets and objects are not safe for concurrent mutation; once built they
// are only read.
package scene
