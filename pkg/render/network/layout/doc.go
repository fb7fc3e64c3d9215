// Package layout computes the geometry of a function block network.
//
// The [Engine] runs a fixed sequence of stages over a [network.Network]:
//
//  1. Sizing ([Engine.Size]): block width, height and section bands per instance.
//  2. Scale ([ResolveScale]): design units to pixels, large enough that stacked
//     or side-by-side blocks keep a clearance gap.
//  3. Placement ([Place], [PlacePorts]): pixel origin of every block and the
//     absolute coordinate of every port.
//  4. Sidebars ([Engine.PlaceSidebars]): boundary port strips on the left and
//     right, offset so that routing hints still bend before the blocks.
//  5. Frame ([Engine.DeriveFrame]): header band and outer border around
//     everything, with sidebars stretched to fill the frame.
//
// Each stage reads the fields written by the previous ones, so they must run
// in this order. [Engine.Run] does that and is the usual entry point:
//
//	eng := layout.New(layout.WithMeasurer(m), layout.WithLogger(logger))
//	if err := eng.Run(net); err != nil {
//	    return err
//	}
//
// Layout is synchronous and writes only to the network it is given, so one
// Engine may serve many goroutines as long as each passes its own network.
package layout
