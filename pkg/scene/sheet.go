package scene

import (
	errs "github.com/matzehuels/seqtree/pkg/errors"
)

// Sheet is an ordered collection of objects. Insertion order is render
// order.
type Sheet struct {
	addr    Address
	objects []*Object
	byKey   map[string]int
}

// NewSheet returns an empty sheet.
func NewSheet(addr Address) *Sheet {
	return &Sheet{addr: addr, byKey: make(map[string]int)}
}

// Address returns the sheet's address.
func (s *Sheet) Address() Address { return s.addr }

// AddObject appends o. The object must belong to this sheet and its key
// must be unused.
func (s *Sheet) AddObject(o *Object) error {
	if o.addr.Address != s.addr {
		return errs.New(errs.ErrCodeInvalidScene, "object %q belongs to sheet %q, not %q",
			o.Key(), o.addr.SheetID, s.addr.SheetID)
	}
	if _, ok := s.byKey[o.Key()]; ok {
		return errs.New(errs.ErrCodeDuplicateObject, "duplicate object key %q", o.Key())
	}
	s.byKey[o.Key()] = len(s.objects)
	s.objects = append(s.objects, o)
	return nil
}

// ObjectAddress returns the address an object named key would have.
func (s *Sheet) ObjectAddress(key string) ObjectAddress {
	return ObjectAddress{Address: s.addr, ObjectKey: key}
}

// Objects returns the objects in insertion order.
func (s *Sheet) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Object returns the object named key.
func (s *Sheet) Object(key string) (*Object, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return s.objects[i], true
}

// Len returns the number of objects.
func (s *Sheet) Len() int { return len(s.objects) }
