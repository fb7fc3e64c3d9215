package layout

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/network"
)

// Block and frame constants, in pixels unless noted.
const (
	RowHeight      = 16.0 // one port row
	NameHeight     = 16.0 // name section band
	TriangleWidth  = 5.0
	TriangleHeight = 10.0
	MinBlockWidth  = 80.0
	Notch          = 8.0  // width of the name-section notch
	IconSize       = 14.0 // kind icon in the name section
	LabelStrip     = 20.0 // instance name drawn above the block

	Margin       = 60.0 // canvas offset of the top-left block
	DefaultScale = 0.16 // design units to pixels at 100% zoom
	Clearance    = 60.0 // minimum gap between neighbouring blocks

	HeaderHeight  = 25.0
	BorderPadding = 20.0

	SidebarRowHeight = 17.0
	SidebarClearance = 58.0 // gap between a sidebar and the nearest bend
)

const (
	sectionPad     = RowHeight/2 - 4
	iconGap        = 4.0
	centerGap      = 8.0
	triangleSpace  = TriangleWidth + 3 + 1.5
	adapterSpace   = TriangleWidth*2 + 3 + 1.5
	sidebarOuter   = 2.0
	sidebarGap     = 3.0
	sidebarInset   = 38.0 // sidebar top above the instance area
	sidebarBottom  = 10.0
	fallbackExtent = 200.0
)

// Engine lays out networks. Create one with [New]; the zero value is not usable.
type Engine struct {
	settings Settings
	measurer fonts.Measurer
	measure  *fonts.Safe
	scale    float64
	logger   *log.Logger
}

// Option configures an [Engine].
type Option func(*Engine)

// WithSettings replaces the default block size settings.
func WithSettings(s Settings) Option { return func(e *Engine) { e.settings = s } }

// WithMeasurer sets the text measurement capability. Without one, widths are
// estimated from character counts.
func WithMeasurer(m fonts.Measurer) Option { return func(e *Engine) { e.measurer = m } }

// WithScale forces a scale and skips automatic resolution. Values <= 0 mean auto.
func WithScale(s float64) Option { return func(e *Engine) { e.scale = s } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.measure = fonts.NewSafe(e.measurer, e.logger)
	return e
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings { return e.settings }

// Measure returns the width of text, falling back to an estimate on failure.
func (e *Engine) Measure(text string, italic bool) float64 {
	return e.measure.Width(text, italic)
}

// Run executes every layout stage on n in order.
//
// A network with neither instances nor boundary ports gets a minimum empty
// canvas. Connections with dangling references are left for the router to
// drop. The only error is [fberrors.ErrCodeMalformedNetwork], returned when
// an instance is nil, has non-finite coordinates or cannot be sized.
func (e *Engine) Run(n *network.Network) error {
	if n == nil {
		return fberrors.New(fberrors.ErrCodeMalformedNetwork, "nil network")
	}
	n.InputSidebar, n.OutputSidebar = nil, nil

	if n.Empty() {
		n.Scale = DefaultScale
		n.Origin = network.Point{X: Margin, Y: Margin}
		e.DeriveFrame(n)
		e.logger.Debug("empty network, using fallback canvas", "name", n.Name)
		return nil
	}

	for i, inst := range n.Instances {
		if inst == nil {
			return fberrors.New(fberrors.ErrCodeMalformedNetwork, "instance %d is nil", i)
		}
		if !finite(inst.X) || !finite(inst.Y) {
			return fberrors.New(fberrors.ErrCodeMalformedNetwork, "instance %s has non-finite position", inst.Name)
		}
		e.Size(inst)
		if !(inst.Layout.Width > 0 && inst.Layout.Height > 0) {
			return fberrors.New(fberrors.ErrCodeMalformedNetwork,
				"instance %s sized to %gx%g", inst.Name, inst.Layout.Width, inst.Layout.Height)
		}
	}

	scale := ResolveScale(n.Instances, e.scale)
	Place(n, scale)
	for _, inst := range n.Instances {
		PlacePorts(inst)
	}
	e.PlaceSidebars(n)
	e.DeriveFrame(n)

	e.logger.Debug("layout complete",
		"name", n.Name,
		"instances", len(n.Instances),
		"connections", len(n.Connections),
		"scale", scale,
		"width", n.Border.W,
		"height", n.Border.H)
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
