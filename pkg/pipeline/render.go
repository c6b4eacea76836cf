package pipeline

import (
	"fmt"

	seqio "github.com/matzehuels/seqtree/pkg/io"
	"github.com/matzehuels/seqtree/pkg/render/nodelink"
	"github.com/matzehuels/seqtree/pkg/render/outline"
	"github.com/matzehuels/seqtree/pkg/tree"
)

// Render generates output artifacts in the requested formats.
func Render(root *tree.SheetRow, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = seqio.MarshalTree(root)
		case FormatText:
			data = []byte(outline.Render(root, outlineOptions(opts)...))
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(root, nodelink.Options{Detailed: opts.Detailed})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(dot)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func outlineOptions(opts Options) []outline.Option {
	if opts.Plain {
		return []outline.Option{outline.WithPlain()}
	}
	return nil
}
