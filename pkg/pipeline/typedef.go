package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	fbio "github.com/matzehuels/fbnet/pkg/io"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
	"github.com/matzehuels/fbnet/pkg/render/network/sink"
)

// =============================================================================
// Type Diagrams
// =============================================================================

// TypeOutputName is the default output path of a type diagram: the input
// with its extension replaced by ".svg".
func TypeOutputName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + FormatSVG
}

// RenderType draws the interface of the type definition named by
// opts.InputPath (or held in opts.Input) as SVG. Formats and the network
// options are ignored; NoShadow, NoComments and NoTypes apply.
func RenderType(ctx context.Context, opts Options) ([]byte, *network.TypeDefinition, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}
	data, err := ReadInput(opts)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	def, err := fbio.ParseTypeDefinition(data)
	if err != nil {
		return nil, nil, err
	}
	m, err := Measurer(opts)
	if err != nil {
		return nil, nil, err
	}
	engine := layout.New(
		layout.WithSettings(*opts.Settings),
		layout.WithMeasurer(m),
		layout.WithLogger(opts.Logger),
	)
	opts.Logger.Debug("rendering type", "name", def.Name, "kind", def.FBKind, "source", opts.Source())

	svg := sink.RenderTypeSVG(def,
		sink.WithEngine(engine),
		sink.WithShadow(!opts.NoShadow),
		sink.WithPortComments(!opts.NoComments),
		sink.WithPortTypes(!opts.NoTypes),
	)
	return svg, def, nil
}
