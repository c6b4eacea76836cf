package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/proptypes"
	"github.com/matzehuels/seqtree/pkg/scene"
)

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DefaultProject is used when a scene file has no project id.
const DefaultProject = "default"

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported scene file extension %q (want .json or .toml)", filepath.Ext(path))
}

type sceneFile struct {
	Project string       `json:"project,omitempty" toml:"project,omitempty"`
	Sheet   string       `json:"sheet" toml:"sheet"`
	Objects []objectFile `json:"objects" toml:"objects"`
}

type objectFile struct {
	Key    string      `json:"key" toml:"key"`
	Props  []propFile  `json:"props" toml:"props"`
	Tracks []trackFile `json:"tracks,omitempty" toml:"tracks,omitempty"`
}

type propFile struct {
	Key     string     `json:"key" toml:"key"`
	Type    string     `json:"type" toml:"type"`
	Label   string     `json:"label,omitempty" toml:"label,omitempty"`
	Options []string   `json:"options,omitempty" toml:"options,omitempty"`
	Props   []propFile `json:"props,omitempty" toml:"props,omitempty"`
}

type trackFile struct {
	Prop string `json:"prop" toml:"prop"`
	ID   string `json:"id,omitempty" toml:"id,omitempty"`
}

// ReadScene decodes a scene from r.
//
// ReadScene returns an INVALID_SCENE error for undecodable input or a
// missing sheet id, INVALID_SCHEMA for bad prop declarations, INVALID_KEY
// for bad object keys and DUPLICATE_OBJECT for repeated keys.
func ReadScene(r io.Reader, format Format) (*scene.Sheet, error) {
	var data sceneFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&data); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "decode")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&data)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "decode")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidScene, "unknown field %q", undecoded[0].String())
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	return data.toSheet()
}

// ImportScene reads the scene file at path.
func ImportScene(path string) (*scene.Sheet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "scene %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet, err := ReadScene(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}

func (d sceneFile) toSheet() (*scene.Sheet, error) {
	if d.Sheet == "" {
		return nil, errs.New(errs.ErrCodeInvalidScene, "sheet id is required")
	}
	if d.Project == "" {
		d.Project = DefaultProject
	}
	sheet := scene.NewSheet(scene.Address{ProjectID: d.Project, SheetID: d.Sheet})

	for _, of := range d.Objects {
		config, err := toPropType(proptypes.KindCompound, of.Props)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", of.Key, err)
		}
		addr := sheet.ObjectAddress(of.Key)

		tracks := make([]scene.Track, 0, len(of.Tracks))
		seen := make(map[string]bool, len(of.Tracks))
		for _, tf := range of.Tracks {
			if tf.Prop == "" {
				return nil, errs.New(errs.ErrCodeInvalidScene, "object %q: track without prop", of.Key)
			}
			path := scene.Path(strings.Split(tf.Prop, "."))
			if t, ok := config.At(path); !ok || t.IsCompound() {
				return nil, errs.New(errs.ErrCodeInvalidScene, "object %q: track %q does not name a leaf prop", of.Key, tf.Prop)
			}
			if seen[tf.Prop] {
				return nil, errs.New(errs.ErrCodeInvalidScene, "object %q: duplicate track for %q", of.Key, tf.Prop)
			}
			seen[tf.Prop] = true
			id := scene.TrackID(tf.ID)
			if id == "" {
				id = scene.NewTrackID(addr, path)
			}
			tracks = append(tracks, scene.Track{Path: path, ID: id})
		}

		o, err := scene.NewObject(addr, config, tracks)
		if err != nil {
			return nil, err
		}
		if err := sheet.AddObject(o); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

func toPropType(kind proptypes.Kind, props []propFile) (*proptypes.PropType, error) {
	t := &proptypes.PropType{Kind: kind}
	for _, pf := range props {
		k, err := proptypes.ParseKind(pf.Type)
		if err != nil {
			return nil, fmt.Errorf("prop %q: %w", pf.Key, err)
		}
		if k != proptypes.KindCompound && len(pf.Props) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidSchema, "prop %q: only compound props have nested props", pf.Key)
		}
		child, err := toPropType(k, pf.Props)
		if err != nil {
			return nil, fmt.Errorf("prop %q: %w", pf.Key, err)
		}
		child.Label = pf.Label
		child.Options = pf.Options
		t.Props = append(t.Props, proptypes.Field(pf.Key, child))
	}
	return t, nil
}

// WriteScene encodes sheet as a scene file. Track ids are always written.
func WriteScene(w io.Writer, sheet *scene.Sheet, format Format) error {
	data := sceneFile{
		Project: sheet.Address().ProjectID,
		Sheet:   sheet.Address().SheetID,
	}
	for _, o := range sheet.Objects() {
		of := objectFile{Key: o.Key()}
		if o.Config() != nil {
			of.Props = fromProps(o.Config().Props)
		}
		for _, tr := range o.TrackedProps().Tracks() {
			of.Tracks = append(of.Tracks, trackFile{Prop: tr.Path.String(), ID: string(tr.ID)})
		}
		data.Objects = append(data.Objects, of)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(data)
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unsupported scene format %q", format)
}

func fromProps(props []proptypes.Prop) []propFile {
	if len(props) == 0 {
		return nil
	}
	out := make([]propFile, 0, len(props))
	for _, p := range props {
		out = append(out, propFile{
			Key:     p.Key,
			Type:    p.Type.Kind.String(),
			Label:   p.Type.Label,
			Options: p.Type.Options,
			Props:   fromProps(p.Type.Props),
		})
	}
	return out
}
