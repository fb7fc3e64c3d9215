package pipeline

import (
	"fmt"

	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
	"github.com/matzehuels/fbnet/pkg/render/network/sink"
)

// Render generates output artifacts in the requested formats from a
// laid-out network. engine may be nil; labels are then measured with the
// default engine.
func Render(n *network.Network, engine *layout.Engine, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(n, buildSVGOptions(engine, opts)...)
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONLogger(opts.Logger)}
			if opts.Routes {
				jsonOpts = append(jsonOpts, sink.WithJSONRoutes())
			}
			data, err = sink.RenderJSON(n, jsonOpts...)
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

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(engine *layout.Engine, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithShadow(!opts.NoShadow), sink.WithLogger(opts.Logger)}
	if engine != nil {
		svgOpts = append(svgOpts, sink.WithEngine(engine))
	}
	if opts.Grid {
		svgOpts = append(svgOpts, sink.WithGrid())
	}
	return svgOpts
}
