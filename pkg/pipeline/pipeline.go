// Package pipeline provides the headless load → build → layout → settle →
// render pipeline used by the CLI.
//
// # Stages
//
//  1. Load: read folder and file records from a [source.Source]
//  2. Build: build the node tree and apply the expansion depth
//  3. Settle: lay out around the frame center and advance animation frames
//     until every node reaches its target
//  4. Render: export the settled frame in each requested format
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Run(ctx, src, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	    Expand:  -1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 800.0

	// DefaultMaxFrames caps the settle stage. At the default lerp factor a
	// freshly laid out tree settles in well under a hundred frames.
	DefaultMaxFrames = 600

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultMargin is the fit margin in screen pixels.
	DefaultMargin = 24.0

	// DefaultArtifactTTL is how long rendered artifacts stay cached.
	DefaultArtifactTTL = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatDOT   = "dot"
	FormatNeato = "neato"
	FormatJSON  = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatDOT:   true,
	FormatNeato: true,
	FormatJSON:  true,
}

// FormatExt maps formats to output file extensions.
var FormatExt = map[string]string{
	FormatSVG:   ".svg",
	FormatPNG:   ".png",
	FormatPDF:   ".pdf",
	FormatDOT:   ".dot",
	FormatNeato: ".neato.svg",
	FormatJSON:  ".json",
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	// Fit zooms out so the whole settled tree is inside the frame.
	Fit bool `json:"fit,omitempty"`

	// Expand expands folders above this depth before layout; -1 expands
	// everything and 0 shows the root's children only.
	Expand int `json:"expand"`

	// Theme defaults to render.DefaultTheme when its palette is empty.
	Theme render.Theme `json:"-"`
	// Layout defaults to layout.DefaultConfig when zero.
	Layout layout.Config `json:"-"`

	// Animation options; zero means default.
	Lerp      float64 `json:"lerp,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	MaxFrames int     `json:"max_frames,omitempty"`

	// Refresh skips artifact cache lookups.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// OnStage, when set, is called as the run enters each stage: "loading",
	// "settling" and "rendering".
	OnStage func(stage string) `json:"-"`
}

func (o *Options) stage(name string) {
	if o.OnStage != nil {
		o.OnStage(name)
	}
}

// SetDefaults fills zero fields with defaults. It is idempotent.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Theme.Palette) == 0 {
		o.Theme = render.DefaultTheme()
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.Lerp == 0 {
		o.Lerp = render.DefaultLerp
	}
	if o.Threshold == 0 {
		o.Threshold = render.DefaultSettleThreshold
	}
	if o.MaxFrames == 0 {
		o.MaxFrames = DefaultMaxFrames
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Validate checks option ranges. Call SetDefaults first.
func (o *Options) Validate() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "frame size must be positive (got %gx%g)", o.Width, o.Height)
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive")
	}
	if o.Lerp <= 0 || o.Lerp >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "lerp must be in (0, 1), got %g", o.Lerp)
	}
	if o.Threshold <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "settle threshold must be positive")
	}
	if o.MaxFrames < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max frames must not be negative")
	}
	if o.Expand < -1 {
		return errors.New(errors.ErrCodeInvalidConfig, "expand depth must be -1 (all) or at least 0")
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Scale:      o.Scale,
		Expand:     o.Expand,
		Fit:        o.Fit,
		ThemeHash:  cache.HashJSON(o.Theme),
		LayoutHash: cache.HashJSON(o.Layout),
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Root is the settled tree.
	Root *tree.Node

	// InputHash is the content hash of the loaded records.
	InputHash string

	// View is the pan and zoom the artifacts were rendered with.
	View render.View

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Folders int
	Files   int
	Dropped int
	Visible int

	Frames  int
	Settled bool

	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, dot, neato, json)", format)
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

// ParseExpand parses an expansion depth: "all" (or "-1") expands
// everything, otherwise a non-negative depth.
func ParseExpand(s string) (int, error) {
	if s == "all" {
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < -1 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid expand depth %q (want a number or \"all\")", s)
	}
	return n, nil
}
