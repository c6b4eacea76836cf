// Package pipeline runs the layout → render pipeline for a sequence editor
// sheet.
//
// The CLI, the TUI and the HTTP server all go through this package, so they
// agree on defaults, validation and caching.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: build the row tree of a sheet under a collapse state
//  2. Render: turn the tree into artifacts (JSON, text outline, DOT, SVG)
//
// Layout is always recomputed; it is a single linear pass. Rendered
// artifacts are cached, keyed by a hash of the tree they were rendered from
// plus the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, sheet, store.Snapshot(), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	root, err := runner.Layout(ctx, sheet, state, opts)
//	artifacts, err := runner.Render(ctx, root, opts)
package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqtree/pkg/cache"
	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI, and Server
// =============================================================================

const (
	// DefaultUnitHeight is the row header height.
	DefaultUnitHeight = tree.DefaultUnitHeight

	// DefaultBaseOffset is the space above the first row.
	DefaultBaseOffset = tree.DefaultBaseOffset
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	UnitHeight float64  `json:"unit_height,omitempty"`
	BaseOffset *float64 `json:"base_offset,omitempty"` // nil means DefaultBaseOffset

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Node labels with geometry (dot, svg)
	Plain    bool     `json:"plain,omitempty"`    // No terminal styling (text)
	Refresh  bool     `json:"refresh,omitempty"`  // Ignore cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Offset returns a pointer to y, for [Options.BaseOffset].
func Offset(y float64) *float64 { return &y }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the row tree.
	Tree *tree.SheetRow

	// TreeHash is the content hash of the tree's JSON form.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ObjectCount int     // Objects on the sheet, including pruned ones
	RowCount    int     // Rows emitted, including the sheet row
	Height      float64 // Subtree height of the sheet row
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, text, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.UnitHeight == 0 {
		o.UnitHeight = DefaultUnitHeight
	}
	if o.BaseOffset == nil {
		o.BaseOffset = Offset(DefaultBaseOffset)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if !(o.UnitHeight > 0) || math.IsInf(o.UnitHeight, 0) {
		return errs.New(errs.ErrCodeInvalidInput, "unit_height must be positive and finite, got %v", o.UnitHeight)
	}
	if !(*o.BaseOffset >= 0) || math.IsInf(*o.BaseOffset, 0) {
		return errs.New(errs.ErrCodeInvalidInput, "base_offset must be finite and not negative, got %v", *o.BaseOffset)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults validates and sets defaults for the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return fmt.Errorf("render options: %w", err)
	}
	return nil
}

// TreeOptions returns the options passed to [tree.Build].
func (o *Options) TreeOptions() []tree.Option {
	opts := []tree.Option{tree.WithLogger(o.Logger)}
	if o.UnitHeight != 0 {
		opts = append(opts, tree.WithUnitHeight(o.UnitHeight))
	}
	if o.BaseOffset != nil {
		opts = append(opts, tree.WithBaseOffset(*o.BaseOffset))
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect a format are left out, so e.g. toggling
// Plain does not invalidate cached SVGs.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
	case FormatText:
		k.Plain = o.Plain
	}
	return k
}
