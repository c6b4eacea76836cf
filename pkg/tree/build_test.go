package tree

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/proptypes"
	"github.com/matzehuels/seqtree/pkg/scene"
)

const (
	h = DefaultUnitHeight
	b = DefaultBaseOffset
)

var sheetAddr = scene.Address{ProjectID: "proj", SheetID: "main"}

// flags is a CollapseState backed by a map.
type flags map[scene.ItemKey]bool

func (f flags) IsCollapsed(key scene.ItemKey) (bool, bool) {
	c, ok := f[key]
	return c, ok
}

func objKey(key string) scene.ItemKey {
	return scene.ObjectItemKey(scene.ObjectAddress{Address: sheetAddr, ObjectKey: key})
}

func propKey(key string, path ...string) scene.ItemKey {
	return scene.PropItemKey(scene.ObjectAddress{Address: sheetAddr, ObjectKey: key}, path)
}

func mustObject(t *testing.T, key string, config *proptypes.PropType, paths ...string) *scene.Object {
	t.Helper()
	addr := scene.ObjectAddress{Address: sheetAddr, ObjectKey: key}
	var tracks []scene.Track
	for _, p := range paths {
		path := scene.Path(strings.Split(p, "."))
		tracks = append(tracks, scene.Track{Path: path, ID: scene.TrackID(key + ":" + p)})
	}
	o, err := scene.NewObject(addr, config, tracks)
	if err != nil {
		t.Fatalf("NewObject(%s): %v", key, err)
	}
	return o
}

func mustSheet(t *testing.T, objects ...*scene.Object) *scene.Sheet {
	t.Helper()
	s := scene.NewSheet(sheetAddr)
	for _, o := range objects {
		if err := s.AddObject(o); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func mustBuild(t *testing.T, s *scene.Sheet, state CollapseState, opts ...Option) *SheetRow {
	t.Helper()
	root, err := Build(s, state, opts...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return root
}

func positionConfig() *proptypes.PropType {
	return proptypes.Compound(
		proptypes.Field("position", proptypes.Compound(
			proptypes.Field("x", proptypes.Number()),
			proptypes.Field("y", proptypes.Number()),
		)),
	)
}

func boxConfig() *proptypes.PropType {
	return proptypes.Compound(
		proptypes.Field("position", proptypes.Compound(
			proptypes.Field("x", proptypes.Number()),
			proptypes.Field("y", proptypes.Number()),
			proptypes.Field("z", proptypes.Number()),
		)),
		proptypes.Field("transform", proptypes.Compound(
			proptypes.Field("rotation", proptypes.Compound(
				proptypes.Field("x", proptypes.Number()),
				proptypes.Field("y", proptypes.Number()),
			)),
			proptypes.Field("scale", proptypes.Number()),
		)),
		proptypes.Field("opacity", proptypes.Number()),
		proptypes.Field("visible", proptypes.Boolean()),
		proptypes.Field("blend", proptypes.Enum("normal", "add")),
	)
}

type rowSummary struct {
	Kind  Kind
	Label string
	Index int
	Depth int
	Top   float64
	H     float64
}

func summarize(root Row) []rowSummary {
	var out []rowSummary
	for _, r := range Flatten(root) {
		hd := r.RowHeader()
		out = append(out, rowSummary{hd.Kind, Label(r), hd.Index, hd.Depth, hd.Top, hd.SubtreeHeight})
	}
	return out
}

func TestBuildCompoundWithTwoLeaves(t *testing.T) {
	s := mustSheet(t, mustObject(t, "box", positionConfig(), "position.x", "position.y"))
	root := mustBuild(t, s, nil)

	want := []rowSummary{
		{KindSheet, "main", 0, -1, b, 4 * h},
		{KindObject, "box", 1, 0, b, 4 * h},
		{KindCompoundProp, "position", 2, 1, b + h, 3 * h},
		{KindPrimitiveProp, "x", 3, 2, b + 2*h, h},
		{KindPrimitiveProp, "y", 4, 2, b + 3*h, h},
	}
	if got := summarize(root); !reflect.DeepEqual(got, want) {
		t.Errorf("rows =\n%+v\nwant\n%+v", got, want)
	}
	if root.OwnHeight != 0 {
		t.Errorf("sheet OwnHeight = %v, want 0", root.OwnHeight)
	}

	x := root.Children[0].Children[0].(*CompoundPropRow).Children[0].(*PrimitivePropRow)
	if x.TrackID != "box:position.x" {
		t.Errorf("TrackID = %q", x.TrackID)
	}
	if !x.Path.Equal(scene.Path{"position", "x"}) {
		t.Errorf("Path = %v", x.Path)
	}
	if x.Type.Kind != proptypes.KindNumber {
		t.Errorf("Type = %v", x.Type.Kind)
	}
}

func TestBuildPrunesObjectsWithoutTracks(t *testing.T) {
	s := mustSheet(t,
		mustObject(t, "empty", boxConfig()),
		mustObject(t, "box", boxConfig(), "opacity"),
		mustObject(t, "untracked", boxConfig()),
	)
	root := mustBuild(t, s, nil)

	want := []rowSummary{
		{KindSheet, "main", 0, -1, b, 2 * h},
		{KindObject, "box", 1, 0, b, 2 * h},
		{KindPrimitiveProp, "opacity", 2, 1, b + h, h},
	}
	if got := summarize(root); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
}

func TestBuildEmptySheet(t *testing.T) {
	root := mustBuild(t, mustSheet(t), nil)
	if root.Index != 0 || root.Top != b || root.SubtreeHeight != 0 || len(root.Children) != 0 {
		t.Errorf("empty sheet row = %+v", root)
	}
}

func TestBuildDeepLeafEmitsAncestors(t *testing.T) {
	s := mustSheet(t, mustObject(t, "box", boxConfig(), "transform.rotation.y"))
	root := mustBuild(t, s, nil)

	want := []rowSummary{
		{KindSheet, "main", 0, -1, b, 4 * h},
		{KindObject, "box", 1, 0, b, 4 * h},
		{KindCompoundProp, "transform", 2, 1, b + h, 3 * h},
		{KindCompoundProp, "rotation", 3, 2, b + 2*h, 2 * h},
		{KindPrimitiveProp, "y", 4, 3, b + 3*h, h},
	}
	if got := summarize(root); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
}

func TestBuildInvariants(t *testing.T) {
	s := mustSheet(t,
		mustObject(t, "camera", boxConfig(), "position.x", "position.z", "opacity"),
		mustObject(t, "box", boxConfig(), "transform.rotation.x", "transform.scale", "visible", "position.y"),
		mustObject(t, "ghost", boxConfig()),
		mustObject(t, "light", boxConfig(), "transform.rotation.x", "transform.rotation.y"),
	)
	states := map[string]CollapseState{
		"expanded":           nil,
		"object collapsed":   flags{objKey("box"): true},
		"compound collapsed": flags{propKey("box", "transform"): true, propKey("light", "transform", "rotation"): true},
		"explicit false":     flags{objKey("camera"): false},
	}

	for name, state := range states {
		t.Run(name, func(t *testing.T) {
			root := mustBuild(t, s, state)
			rows := Flatten(root)

			for i, r := range rows {
				hd := r.RowHeader()
				if hd.Index != i {
					t.Errorf("row %d (%s) has index %d", i, Label(r), hd.Index)
				}
				if i > 0 && hd.Top < rows[i-1].RowHeader().Top {
					t.Errorf("row %d top %v < previous %v", i, hd.Top, rows[i-1].RowHeader().Top)
				}

				sum := hd.OwnHeight
				for _, c := range ChildRows(r) {
					sum += c.RowHeader().SubtreeHeight
					if c.RowHeader().Depth != hd.Depth+1 {
						t.Errorf("child %s depth %d under depth %d", Label(c), c.RowHeader().Depth, hd.Depth)
					}
				}
				if hd.SubtreeHeight != sum {
					t.Errorf("row %s SubtreeHeight = %v, want %v", Label(r), hd.SubtreeHeight, sum)
				}
			}

			last := rows[len(rows)-1].RowHeader()
			if root.Bottom() != last.Top+last.OwnHeight {
				t.Errorf("sheet bottom %v, last row ends at %v", root.Bottom(), last.Top+last.OwnHeight)
			}
		})
	}
}

func TestBuildCollapsedObject(t *testing.T) {
	s := mustSheet(t,
		mustObject(t, "box", positionConfig(), "position.x", "position.y"),
		mustObject(t, "light", positionConfig(), "position.x"),
	)
	root := mustBuild(t, s, flags{objKey("box"): true})

	box := root.Children[0]
	if !box.Collapsed || len(box.Children) != 0 {
		t.Fatalf("box = collapsed %v, %d children", box.Collapsed, len(box.Children))
	}
	if box.SubtreeHeight != h {
		t.Errorf("collapsed SubtreeHeight = %v, want %v", box.SubtreeHeight, h)
	}

	light := root.Children[1]
	if light.Index != 2 || light.Top != b+h {
		t.Errorf("light index %d top %v, want 2 and %v", light.Index, light.Top, b+h)
	}
	if root.SubtreeHeight != 4*h {
		t.Errorf("sheet SubtreeHeight = %v, want %v", root.SubtreeHeight, 4*h)
	}
}

func TestBuildCollapsedCompoundKeepsIndex(t *testing.T) {
	s := mustSheet(t, mustObject(t, "box", boxConfig(), "position.x", "position.y", "opacity"))
	root := mustBuild(t, s, flags{propKey("box", "position"): true})

	want := []rowSummary{
		{KindSheet, "main", 0, -1, b, 3 * h},
		{KindObject, "box", 1, 0, b, 3 * h},
		{KindCompoundProp, "position", 2, 1, b + h, h},
		{KindPrimitiveProp, "opacity", 3, 1, b + 2*h, h},
	}
	if got := summarize(root); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}

	pos := root.Children[0].Children[0].(*CompoundPropRow)
	if !pos.Collapsed || len(pos.Children) != 0 {
		t.Errorf("position collapsed=%v children=%d", pos.Collapsed, len(pos.Children))
	}
	if pos.Tracks.Len() != 2 {
		t.Errorf("collapsed row Tracks.Len() = %d, want 2", pos.Tracks.Len())
	}
}

func TestBuildCollapseIdempotent(t *testing.T) {
	s := mustSheet(t,
		mustObject(t, "box", boxConfig(), "position.x", "transform.rotation.y", "opacity"),
		mustObject(t, "light", boxConfig(), "transform.scale"),
	)
	state := flags{}

	before := summarize(mustBuild(t, s, state))

	state[propKey("box", "transform")] = true
	state[objKey("light")] = true
	collapsed := summarize(mustBuild(t, s, state))
	if reflect.DeepEqual(before, collapsed) {
		t.Fatal("collapsing had no effect")
	}

	state[propKey("box", "transform")] = false
	state[objKey("light")] = false
	if after := summarize(mustBuild(t, s, state)); !reflect.DeepEqual(before, after) {
		t.Errorf("re-expanded tree differs:\n%+v\n%+v", before, after)
	}
}

func TestBuildSchemaOrderIsAuthoritative(t *testing.T) {
	forward := proptypes.Compound(
		proptypes.Field("a", proptypes.Number()),
		proptypes.Field("b", proptypes.Number()),
		proptypes.Field("c", proptypes.Number()),
	)
	reversed := proptypes.Compound(
		proptypes.Field("c", proptypes.Number()),
		proptypes.Field("b", proptypes.Number()),
		proptypes.Field("a", proptypes.Number()),
	)

	labels := func(config *proptypes.PropType) []string {
		root := mustBuild(t, mustSheet(t, mustObject(t, "o", config, "b", "a", "c")), nil)
		var out []string
		for _, r := range root.Children[0].Children {
			out = append(out, Label(r))
		}
		return out
	}

	if got := labels(forward); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("forward order = %v", got)
	}
	if got := labels(reversed); !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Errorf("reversed order = %v", got)
	}
}

func TestBuildSkipsEnumWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	s := mustSheet(t,
		mustObject(t, "box", boxConfig(), "blend", "opacity"),
		mustObject(t, "enumOnly", boxConfig(), "blend"),
	)
	root := mustBuild(t, s, nil, WithLogger(logger))

	want := []rowSummary{
		{KindSheet, "main", 0, -1, b, 2 * h},
		{KindObject, "box", 1, 0, b, 2 * h},
		{KindPrimitiveProp, "opacity", 2, 1, b + h, h},
	}
	if got := summarize(root); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
	if n := strings.Count(buf.String(), "enum is not yet supported"); n != 2 {
		t.Errorf("got %d enum warnings, want 2; log:\n%s", n, buf.String())
	}
}

func TestBuildSchemaDesync(t *testing.T) {
	addr := scene.ObjectAddress{Address: sheetAddr, ObjectKey: "box"}
	tests := []struct {
		name    string
		mapping *scene.TrackMapping
	}{
		{"undeclared key", scene.NewTrackMapping().SetTrack("rotation", "t1")},
		{"undeclared nested key", scene.NewTrackMapping().SetSub("position",
			scene.NewTrackMapping().SetTrack("w", "t1"))},
		{"compound mapped to track", scene.NewTrackMapping().SetTrack("position", "t1")},
		{"leaf mapped to nested", scene.NewTrackMapping().SetSub("opacity",
			scene.NewTrackMapping().SetTrack("x", "t1"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := scene.NewObjectWithMapping(addr, boxConfig(), tt.mapping)
			s := mustSheet(t, o)

			// Collapse must not hide the violation.
			root, err := Build(s, flags{objKey("box"): true})
			if !errs.Is(err, errs.ErrCodeSchemaDesync) {
				t.Errorf("Build error = %v, want SCHEMA_DESYNC", err)
			}
			if root != nil {
				t.Error("Build returned a tree alongside an error")
			}
		})
	}
}

func TestBuildUpstreamMappingEmptyBranchPruned(t *testing.T) {
	addr := scene.ObjectAddress{Address: sheetAddr, ObjectKey: "box"}
	m := scene.NewTrackMapping().
		SetSub("position", scene.NewTrackMapping()).
		SetTrack("opacity", "t-op")
	s := mustSheet(t, scene.NewObjectWithMapping(addr, boxConfig(), m))

	root := mustBuild(t, s, nil)
	if got := Count(root); got != 3 {
		t.Errorf("Count() = %d, want 3 (sheet, box, opacity)", got)
	}
}

func TestBuildOptions(t *testing.T) {
	s := mustSheet(t, mustObject(t, "box", positionConfig(), "position.x"))

	root := mustBuild(t, s, nil, WithUnitHeight(10), WithBaseOffset(0))
	want := []rowSummary{
		{KindSheet, "main", 0, -1, 0, 30},
		{KindObject, "box", 1, 0, 0, 30},
		{KindCompoundProp, "position", 2, 1, 10, 20},
		{KindPrimitiveProp, "x", 3, 2, 20, 10},
	}
	if got := summarize(root); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}

	if _, err := Build(nil, nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("nil sheet error = %v", err)
	}
}

func TestBuildRejectsBadGeometry(t *testing.T) {
	s := mustSheet(t, mustObject(t, "box", positionConfig(), "position.x"))

	tests := []struct {
		name string
		opt  Option
	}{
		{"zero unit", WithUnitHeight(0)},
		{"negative unit", WithUnitHeight(-1)},
		{"NaN unit", WithUnitHeight(math.NaN())},
		{"infinite unit", WithUnitHeight(math.Inf(1))},
		{"NaN offset", WithBaseOffset(math.NaN())},
		{"infinite offset", WithBaseOffset(math.Inf(-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(s, nil, tt.opt); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want %s", err, errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestBuildDoesNotShareAccumulator(t *testing.T) {
	s := mustSheet(t, mustObject(t, "box", positionConfig(), "position.x", "position.y"))
	first := summarize(mustBuild(t, s, nil))
	second := summarize(mustBuild(t, s, nil))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("consecutive builds differ:\n%+v\n%+v", first, second)
	}
}
