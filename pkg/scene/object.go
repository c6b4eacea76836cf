package scene

import (
	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/proptypes"
)

// Object is an animatable object: an address, a property schema, and the
// schema-shaped mapping of its tracked props.
type Object struct {
	addr   ObjectAddress
	config *proptypes.PropType
	tracks *TrackMapping
}

// NewObject validates the key and schema and derives the tracked-property
// mapping from tracks.
func NewObject(addr ObjectAddress, config *proptypes.PropType, tracks []Track) (*Object, error) {
	if err := errs.ValidateObjectKey(addr.ObjectKey); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidSchema, err, "object %q", addr.ObjectKey)
	}
	return &Object{
		addr:   addr,
		config: config,
		tracks: DeriveTrackMapping(config, tracks),
	}, nil
}

// NewObjectWithMapping wraps an object whose mapping was computed by an
// upstream store. Nothing is validated; the row tree builder reports
// mappings that disagree with the schema.
func NewObjectWithMapping(addr ObjectAddress, config *proptypes.PropType, mapping *TrackMapping) *Object {
	if mapping == nil {
		mapping = NewTrackMapping()
	}
	return &Object{addr: addr, config: config, tracks: mapping}
}

// Address returns the object's address.
func (o *Object) Address() ObjectAddress { return o.addr }

// Key returns the object key.
func (o *Object) Key() string { return o.addr.ObjectKey }

// Config returns the root (compound) property schema.
func (o *Object) Config() *proptypes.PropType { return o.config }

// TrackedProps returns the tracked-property mapping. Callers must not
// modify it.
func (o *Object) TrackedProps() *TrackMapping { return o.tracks }

// HasTracks reports whether any prop of the object is tracked.
func (o *Object) HasTracks() bool { return !o.tracks.IsEmpty() }
