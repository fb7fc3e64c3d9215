// Package sink serializes a laid-out network.
//
// [RenderSVG] draws the diagram in the style of the 4diac network editor:
// framed canvas with a comment header, boundary port sidebars, optional
// background grid, bevelled wires coloured by data type, and function
// blocks with their event, data and adapter pins. [RenderJSON] exports the
// computed geometry for other tools.
//
// Both expect a network that has been through [layout.Engine.Run]. They do
// not modify it and are safe to call concurrently on different networks.
//
//	eng := layout.New(layout.WithMeasurer(m))
//	if err := eng.Run(net); err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(net, sink.WithEngine(eng), sink.WithGrid())
//
// [RenderTypeSVG] draws a single type definition instead: its block with
// WITH connectors between events and variables and each port's comment and
// type outside the block. It sizes the block itself.
//
// [layout.Engine.Run]: github.com/matzehuels/fbnet/pkg/render/network/layout
package sink
