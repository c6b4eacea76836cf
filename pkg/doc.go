// Package pkg provides the libraries behind seqtree, the row tree of an
// animation sequence editor.
//
// # Overview
//
// A sheet holds objects; each object has a prop schema and a set of tracked
// props. The sequence editor shows one row per object and per tracked prop,
// nested by compound props, and needs to know where every row sits
// vertically. The packages are organized as:
//
//  1. [proptypes] - Prop schemas (compound, number, enum, ...)
//  2. [scene] - Sheets, objects, addresses and track mappings
//  3. [collapse] - Per-row collapse flags and their persistence
//  4. [tree] - The row tree builder: indices, depths and offsets
//  5. [io] - Scene files (JSON, TOML) and tree serialization
//  6. [render] - Outline text and Graphviz diagrams of a tree
//  7. [pipeline] - Orchestration (layout → render) with artifact caching
//
// # Data Flow
//
//	scene file (JSON/TOML)
//	         ↓
//	    [io] package (decode into a scene.Sheet)
//	         ↓
//	    [tree] package (build rows against a collapse.Snapshot)
//	         ↓
//	    [render] packages (outline, DOT, SVG) or [io] (JSON)
//
// # Quick Start
//
//	sheet, _ := io.ImportScene("scene.json")
//	store := collapse.NewStore()
//	root, _ := tree.Build(sheet, store.Snapshot())
//	fmt.Print(outline.Render(root, outline.WithPlain()))
//
// # Supporting Packages
//
// [cache] - Artifact cache backends: file (CLI), Redis (shared), null.
//
// [observability] - Hooks for layout, render, cache and HTTP events.
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [buildinfo] - Version information set at build time.
//
// [proptypes]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/proptypes
// [scene]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/scene
// [collapse]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/collapse
// [tree]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/tree
// [io]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/seqtree/pkg/buildinfo
package pkg
