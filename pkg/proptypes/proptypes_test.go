package proptypes

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/seqtree/pkg/errors"
)

func sample() *PropType {
	return Compound(
		Field("position", Compound(
			Field("x", Number()),
			Field("y", Number()),
		)),
		Field("opacity", Number()),
		Field("blend", Enum("normal", "multiply")),
	)
}

func TestParseKind(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", name, err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", name, got, k)
		}
	}

	_, err := ParseKind("vector3")
	if !errs.Is(err, errs.ErrCodeInvalidSchema) {
		t.Errorf("ParseKind(unknown) error = %v, want INVALID_SCHEMA", err)
	}
}

func TestLookupAndAt(t *testing.T) {
	s := sample()

	pos, ok := s.Lookup("position")
	if !ok || !pos.IsCompound() {
		t.Fatalf("Lookup(position) = %v, %v", pos, ok)
	}
	if _, ok := s.Lookup("scale"); ok {
		t.Error("Lookup(scale) should miss")
	}
	if _, ok := Number().Lookup("x"); ok {
		t.Error("Lookup on a leaf should miss")
	}

	x, ok := s.At([]string{"position", "x"})
	if !ok || x.Kind != KindNumber {
		t.Errorf("At(position.x) = %v, %v", x, ok)
	}
	if _, ok := s.At([]string{"position", "z"}); ok {
		t.Error("At(position.z) should miss")
	}
	if root, ok := s.At(nil); !ok || root != s {
		t.Error("At(nil) should return the receiver")
	}
}

func TestKeysPreserveDeclarationOrder(t *testing.T) {
	want := []string{"position", "opacity", "blend"}
	if got := sample().Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestIsSimple(t *testing.T) {
	tests := []struct {
		name string
		t    *PropType
		want bool
	}{
		{"number", Number(), true},
		{"rgba", RGBA(), true},
		{"literal", StringLiteral("a", "b"), true},
		{"compound", Compound(), false},
		{"enum", Enum("a"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.IsSimple(); got != tt.want {
				t.Errorf("IsSimple() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  *PropType
		wantErr bool
	}{
		{"valid", sample(), false},
		{"empty compound", Compound(), false},
		{"leaf root", Number(), true},
		{"duplicate key", Compound(Field("x", Number()), Field("x", Boolean())), true},
		{"nested duplicate", Compound(Field("p", Compound(Field("a", Number()), Field("a", Number())))), true},
		{"bad key", Compound(Field("a.b", Number())), true},
		{"nil type", Compound(Field("a", nil)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidSchema) {
				t.Errorf("Validate() code = %v, want INVALID_SCHEMA", errs.GetCode(err))
			}
		})
	}
}
