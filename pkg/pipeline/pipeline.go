// Package pipeline provides the conversion pipeline for fbnet.
//
// This package implements the complete parse → resolve → layout → render
// pipeline used by the CLI, the batch converter, and the HTTP server. By
// centralizing this logic, every entry point produces identical drawings for
// identical input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read the network document and resolve every instance's
//     interface from the type library (or infer it from connections)
//  2. Layout: Size blocks, resolve the scale, place instances, ports and
//     sidebars, and derive the frame
//  3. Render: Route connections and serialize to SVG or JSON
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	opts := pipeline.Options{
//	    InputPath: "Conveyor.sub",
//	    TypeLibs:  []string{"typelib"},
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	n, err := pipeline.Parse(ctx, opts)
//	engine, err := pipeline.Layout(n, opts)
//	artifacts, err := pipeline.Render(n, engine, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/fbnet/pkg/cache"
	"github.com/matzehuels/fbnet/pkg/config"
	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
	"github.com/matzehuels/fbnet/pkg/typelib"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// StdinSource names in-memory input in logs and hooks.
const StdinSource = "-"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one conversion.
type Options struct {
	// Parse options
	InputPath string   `json:"input_path,omitempty"`
	Input     []byte   `json:"-"` // takes precedence over InputPath
	TypeLibs  []string `json:"type_libs,omitempty"`

	// Layout options
	Scale          float64          `json:"scale,omitempty"` // 0 resolves automatically
	FontPath       string           `json:"font_path,omitempty"`
	FontItalicPath string           `json:"font_italic_path,omitempty"`
	Settings       *layout.Settings `json:"settings,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	NoShadow bool     `json:"no_shadow,omitempty"`
	Grid     bool     `json:"grid,omitempty"`
	Routes   bool     `json:"routes,omitempty"` // include routed points in JSON

	// Type diagram options
	NoComments bool `json:"no_comments,omitempty"`
	NoTypes    bool `json:"no_types,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger      `json:"-"`
	Measurer fonts.Measurer   `json:"-"` // overrides the font paths
	Library  *typelib.Library `json:"-"` // shared, pre-indexed library

	// Progress is called by batch conversion after each document.
	Progress func(done, total int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// JobID identifies this conversion in logs.
	JobID uuid.UUID

	// Network is the laid-out network. It is nil when every artifact
	// came from the cache.
	Network *network.Network

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the cache served the artifacts.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Instances   int
	Connections int
	Scale       float64
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fberrors.New(fberrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if len(o.Input) == 0 && o.InputPath == "" {
		return fberrors.New(fberrors.ErrCodeInvalidInput, "input path or input data is required")
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.setLoggerDefault()
	if o.Settings == nil {
		s := layout.DefaultSettings()
		o.Settings = &s
	}
	if o.Settings.MarginTopBottom < 0 || o.Settings.MarginLeftRight < 0 {
		return fberrors.New(fberrors.ErrCodeInvalidConfig, "block margins must not be negative")
	}
	return fberrors.ValidateScale(o.Scale)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.setLoggerDefault()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Source names the input for logs and hooks.
func (o *Options) Source() string {
	if o.InputPath == "" {
		return StdinSource
	}
	return o.InputPath
}

// LibraryDirs returns the type library directories to index: the explicit
// ones followed by the input file's own directory, so sibling type
// definitions resolve without flags.
func (o *Options) LibraryDirs() []string {
	dirs := append([]string(nil), o.TypeLibs...)
	if len(o.Input) == 0 && o.InputPath != "" {
		dirs = append(dirs, filepath.Dir(o.InputPath))
	}
	return dirs
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	var settings string
	if o.Settings != nil {
		settings = config.String(*o.Settings)
	}
	var fontPaths []string
	if o.FontPath != "" || o.FontItalicPath != "" {
		fontPaths = []string{o.FontPath, o.FontItalicPath}
	}
	return cache.ArtifactKeyOpts{
		Format:   format,
		Scale:    o.Scale,
		Shadow:   !o.NoShadow,
		Grid:     o.Grid,
		Routes:   o.Routes && format == FormatJSON,
		TypeLibs: o.LibraryDirs(),
		Settings: settings,
		Fonts:    fontPaths,
	}
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
