package proptypes

import (
	"fmt"

	errs "github.com/matzehuels/seqtree/pkg/errors"
)

// Kind identifies the shape of a property type.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindStringLiteral
	KindRGBA
	KindImage
	KindFile
	KindCompound
	KindEnum
)

var kindNames = map[Kind]string{
	KindNumber:        "number",
	KindString:        "string",
	KindBoolean:       "boolean",
	KindStringLiteral: "stringLiteral",
	KindRGBA:          "rgba",
	KindImage:         "image",
	KindFile:          "file",
	KindCompound:      "compound",
	KindEnum:          "enum",
}

// String returns the name used in scene files.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidSchema, "unknown prop type %q", s)
}

// Prop is a named entry of a compound type.
type Prop struct {
	Key  string
	Type *PropType
}

// PropType is one node of an object's property schema.
type PropType struct {
	Kind    Kind
	Label   string   // Display label; empty means use the key
	Default any      // Default value for leaves (unused by layout)
	Options []string // Cases for enum and stringLiteral
	Props   []Prop   // Children of compound types, in declaration order
}

// Field is shorthand for Prop{Key: key, Type: t}.
func Field(key string, t *PropType) Prop { return Prop{Key: key, Type: t} }

// Compound returns a compound type with the given children.
func Compound(props ...Prop) *PropType {
	return &PropType{Kind: KindCompound, Props: props}
}

func Number() *PropType  { return &PropType{Kind: KindNumber, Default: 0.0} }
func String() *PropType  { return &PropType{Kind: KindString, Default: ""} }
func Boolean() *PropType { return &PropType{Kind: KindBoolean, Default: false} }
func RGBA() *PropType    { return &PropType{Kind: KindRGBA} }
func Image() *PropType   { return &PropType{Kind: KindImage} }
func File() *PropType    { return &PropType{Kind: KindFile} }

// StringLiteral returns a leaf restricted to the given options.
func StringLiteral(options ...string) *PropType {
	t := &PropType{Kind: KindStringLiteral, Options: options}
	if len(options) > 0 {
		t.Default = options[0]
	}
	return t
}

// Enum returns an enum type over the given cases.
func Enum(cases ...string) *PropType {
	return &PropType{Kind: KindEnum, Options: cases}
}

// IsCompound reports whether t has nested props.
func (t *PropType) IsCompound() bool { return t != nil && t.Kind == KindCompound }

// IsSimple reports whether t is a leaf that the sequence editor can animate.
func (t *PropType) IsSimple() bool {
	return t != nil && t.Kind != KindCompound && t.Kind != KindEnum
}

// Lookup returns the child prop named key. It returns false for leaves and
// for keys the compound does not declare.
func (t *PropType) Lookup(key string) (*PropType, bool) {
	if !t.IsCompound() {
		return nil, false
	}
	for _, p := range t.Props {
		if p.Key == key {
			return p.Type, true
		}
	}
	return nil, false
}

// At resolves a path of keys starting at t.
func (t *PropType) At(path []string) (*PropType, bool) {
	cur := t
	for _, key := range path {
		next, ok := cur.Lookup(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Keys returns the child keys of a compound type in declaration order.
func (t *PropType) Keys() []string {
	if !t.IsCompound() {
		return nil
	}
	keys := make([]string, len(t.Props))
	for i, p := range t.Props {
		keys[i] = p.Key
	}
	return keys
}

// Validate checks that t is usable as an object schema: the root must be
// compound, every key valid and unique among its siblings, every child type
// non-nil.
func (t *PropType) Validate() error {
	if !t.IsCompound() {
		return errs.New(errs.ErrCodeInvalidSchema, "object schema must be compound")
	}
	return t.validate(nil)
}

func (t *PropType) validate(path []string) error {
	seen := make(map[string]bool, len(t.Props))
	for _, p := range t.Props {
		if err := errs.ValidatePropKey(p.Key); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidSchema, err, "prop at %v", path)
		}
		if seen[p.Key] {
			return errs.New(errs.ErrCodeInvalidSchema, "duplicate prop %q at %v", p.Key, path)
		}
		seen[p.Key] = true
		if p.Type == nil {
			return errs.New(errs.ErrCodeInvalidSchema, "prop %q at %v has no type", p.Key, path)
		}
		if p.Type.IsCompound() {
			if err := p.Type.validate(append(path[:len(path):len(path)], p.Key)); err != nil {
				return err
			}
		}
	}
	return nil
}
