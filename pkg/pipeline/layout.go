package pipeline

import (
	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Layout runs every layout stage on n and returns the engine, which the SVG
// renderer reuses for label measurement.
func Layout(n *network.Network, opts Options) (*layout.Engine, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	m, err := Measurer(opts)
	if err != nil {
		return nil, err
	}

	engine := layout.New(
		layout.WithSettings(*opts.Settings),
		layout.WithMeasurer(m),
		layout.WithScale(opts.Scale),
		layout.WithLogger(opts.Logger),
	)
	if err := engine.Run(n); err != nil {
		return nil, err
	}
	return engine, nil
}

// Measurer returns the text measurer for opts: an explicit one, the fonts
// named by the font paths, or the embedded Go fonts. Loading parses the font
// data, so callers converting many documents resolve it once and pass the
// result in [Options.Measurer]. An unreadable font is INVALID_CONFIG.
func Measurer(opts Options) (fonts.Measurer, error) {
	if opts.Measurer != nil {
		return opts.Measurer, nil
	}
	m, err := fonts.Load(opts.FontPath, opts.FontItalicPath)
	if err != nil {
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidConfig, err, "load fonts")
	}
	return m, nil
}
