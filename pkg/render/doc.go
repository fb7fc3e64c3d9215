// Package render groups the drawing back ends.
//
// The [network] subpackages turn a parsed function block network into a
// drawing: layout computes geometry in design units and the drawing scale,
// routing produces orthogonal connection paths, styles holds the colour
// and stroke tables, and sink serializes the result as SVG or JSON.
//
//	engine := layout.New(layout.WithScale(0.2))
//	if err := engine.Run(n); err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(n, sink.WithEngine(engine))
package render
