package collapse

import (
	"testing"

	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/proptypes"
	"github.com/matzehuels/seqtree/pkg/scene"
)

func targetSheet(t *testing.T) *scene.Sheet {
	t.Helper()
	sheet := scene.NewSheet(box.Address)
	config := proptypes.Compound(
		proptypes.Field("position", proptypes.Compound(
			proptypes.Field("x", proptypes.Number()),
		)),
		proptypes.Field("opacity", proptypes.Number()),
	)
	o, err := scene.NewObject(box, config, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := sheet.AddObject(o); err != nil {
		t.Fatal(err)
	}
	return sheet
}

func TestKeyFor(t *testing.T) {
	sheet := targetSheet(t)

	tests := []struct {
		name   string
		object string
		path   scene.Path
		want   scene.ItemKey
		code   errs.Code
	}{
		{"object", "box", nil, scene.ObjectItemKey(box), ""},
		{"compound", "box", scene.Path{"position"}, scene.PropItemKey(box, scene.Path{"position"}), ""},
		{"primitive", "box", scene.Path{"opacity"}, "", errs.ErrCodeInvalidPath},
		{"nested primitive", "box", scene.Path{"position", "x"}, "", errs.ErrCodeInvalidPath},
		{"unknown prop", "box", scene.Path{"scale"}, "", errs.ErrCodeNotFound},
		{"unknown object", "camera", nil, "", errs.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyFor(sheet, tt.object, tt.path)
			if tt.code != "" {
				if !errs.Is(err, tt.code) {
					t.Errorf("KeyFor() error = %v, want code %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("KeyFor() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("KeyFor() = %s, want %s", got, tt.want)
			}
		})
	}
}
