package scene

import (
	"github.com/google/uuid"

	"github.com/matzehuels/seqtree/pkg/proptypes"
)

// TrackID identifies a sequence track.
type TrackID string

// trackNamespace scopes generated track IDs.
var trackNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("seqtree:tracks"))

// NewTrackID derives a stable track ID for the prop at path. Scene files
// that omit track IDs get the same IDs on every load.
func NewTrackID(addr ObjectAddress, path Path) TrackID {
	return TrackID(uuid.NewSHA1(trackNamespace, []byte(PropItemKey(addr, path))).String())
}

// Track binds a sequence track to the prop at Path.
type Track struct {
	Path Path
	ID   TrackID
}

// TrackEntry is one key of a [TrackMapping]. Leaf entries carry a TrackID;
// entries for compound props carry a nested mapping in Sub.
type TrackEntry struct {
	Key     string
	TrackID TrackID
	Sub     *TrackMapping
}

// IsLeaf reports whether the entry is a track rather than a nested mapping.
func (e TrackEntry) IsLeaf() bool { return e.Sub == nil }

// TrackMapping is an ordered, schema-shaped map from prop keys to tracks.
// Keys are present only where a track or a tracked descendant exists.
//
// The zero value and the nil pointer are both empty mappings.
type TrackMapping struct {
	entries []TrackEntry
}

// NewTrackMapping returns an empty mapping.
func NewTrackMapping() *TrackMapping { return &TrackMapping{} }

// Len returns the number of direct keys.
func (m *TrackMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// IsEmpty reports whether the mapping has no keys.
func (m *TrackMapping) IsEmpty() bool { return m.Len() == 0 }

// Entries returns the direct entries in order.
func (m *TrackMapping) Entries() []TrackEntry {
	if m == nil {
		return nil
	}
	out := make([]TrackEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Get returns the entry for key.
func (m *TrackMapping) Get(key string) (TrackEntry, bool) {
	if m == nil {
		return TrackEntry{}, false
	}
	for _, e := range m.entries {
		if e.Key == key {
			return e, true
		}
	}
	return TrackEntry{}, false
}

// Sub resolves a nested mapping by path. The empty path returns m.
func (m *TrackMapping) Sub(path Path) (*TrackMapping, bool) {
	cur := m
	for _, key := range path {
		e, ok := cur.Get(key)
		if !ok || e.IsLeaf() {
			return nil, false
		}
		cur = e.Sub
	}
	return cur, true
}

// SetTrack adds or replaces a leaf entry and returns m for chaining.
func (m *TrackMapping) SetTrack(key string, id TrackID) *TrackMapping {
	m.set(TrackEntry{Key: key, TrackID: id})
	return m
}

// SetSub adds or replaces a nested entry and returns m for chaining.
func (m *TrackMapping) SetSub(key string, sub *TrackMapping) *TrackMapping {
	if sub == nil {
		sub = NewTrackMapping()
	}
	m.set(TrackEntry{Key: key, Sub: sub})
	return m
}

func (m *TrackMapping) set(e TrackEntry) {
	for i := range m.entries {
		if m.entries[i].Key == e.Key {
			m.entries[i] = e
			return
		}
	}
	m.entries = append(m.entries, e)
}

// Tracks returns every leaf track in depth-first order.
func (m *TrackMapping) Tracks() []Track {
	var out []Track
	var walk func(*TrackMapping, Path)
	walk = func(cur *TrackMapping, prefix Path) {
		for _, e := range cur.Entries() {
			p := prefix.Append(e.Key)
			if e.IsLeaf() {
				out = append(out, Track{Path: p, ID: e.TrackID})
				continue
			}
			walk(e.Sub, p)
		}
	}
	walk(m, nil)
	return out
}

// DeriveTrackMapping builds the tracked-property mapping of an object from
// its schema and its tracks. The walk follows the schema, so the result is
// in declaration order regardless of the order of tracks. Tracks whose path
// does not name a leaf of the schema are dropped, and compound props
// without tracked descendants are pruned.
func DeriveTrackMapping(config *proptypes.PropType, tracks []Track) *TrackMapping {
	byPath := make(map[ItemKey]TrackID, len(tracks))
	for _, t := range tracks {
		byPath[PropItemKey(ObjectAddress{}, t.Path)] = t.ID
	}
	return deriveCompound(config, nil, byPath)
}

func deriveCompound(conf *proptypes.PropType, prefix Path, byPath map[ItemKey]TrackID) *TrackMapping {
	m := NewTrackMapping()
	for _, p := range conf.Props {
		path := prefix.Append(p.Key)
		if p.Type.IsCompound() {
			if sub := deriveCompound(p.Type, path, byPath); !sub.IsEmpty() {
				m.SetSub(p.Key, sub)
			}
			continue
		}
		if id, ok := byPath[PropItemKey(ObjectAddress{}, path)]; ok {
			m.SetTrack(p.Key, id)
		}
	}
	return m
}
