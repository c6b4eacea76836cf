// Package io reads scene files and writes computed row trees as JSON.
//
// # Scene files
//
// A scene file describes one sheet: its objects, their property schemas,
// and which leaf props have sequence tracks. JSON and TOML are both
// accepted; the format is picked from the file extension.
//
//	{
//	  "project": "demo",
//	  "sheet": "intro",
//	  "objects": [
//	    {
//	      "key": "box",
//	      "props": [
//	        {"key": "position", "type": "compound", "props": [
//	          {"key": "x", "type": "number"},
//	          {"key": "y", "type": "number"}
//	        ]},
//	        {"key": "opacity", "type": "number"}
//	      ],
//	      "tracks": [
//	        {"prop": "position.x", "id": "a1"},
//	        {"prop": "opacity"}
//	      ]
//	    }
//	  ]
//	}
//
// Props are arrays rather than objects so declaration order survives
// decoding; that order is the row order of the sequence editor. Track ids
// are optional and derived with [scene.NewTrackID] when omitted. Every
// track must name a leaf prop the schema declares, at most once per object;
// anything else is rejected with INVALID_SCENE.
//
// # Tree export
//
// [WriteTree] encodes a [tree.SheetRow] as nested JSON with the geometry of
// every row. [Flat] produces the same records without nesting, which is
// what virtualized consumers page through.
package io
