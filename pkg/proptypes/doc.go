// Package proptypes declares the property schema of animatable objects.
//
// A schema is a tree of [PropType] values. The root of every object schema
// is a compound type; compound types hold an ordered list of named child
// props, and every other kind is a leaf. Declaration order is significant:
// it is the order in which the sequence editor lists properties.
//
//	config := proptypes.Compound(
//	    proptypes.Field("position", proptypes.Compound(
//	        proptypes.Field("x", proptypes.Number()),
//	        proptypes.Field("y", proptypes.Number()),
//	    )),
//	    proptypes.Field("opacity", proptypes.Number()),
//	)
//
// Enum types are part of the schema vocabulary but are not yet supported by
// the sequence editor; the row tree builder skips them with a warning.
package proptypes
