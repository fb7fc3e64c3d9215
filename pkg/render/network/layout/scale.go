package layout

import (
	"math"

	"github.com/matzehuels/fbnet/pkg/network"
)

// ResolveScale returns the design-to-pixel scale for the sized instances.
//
// A positive explicit scale is returned as is. Otherwise every pair of
// instances that is roughly stacked (horizontal gap under three times the
// vertical gap) must be far enough apart vertically for the taller block
// plus [Clearance]; roughly side-by-side pairs get the same treatment
// horizontally with the wider block. The result is the largest such bound,
// never below [DefaultScale].
//
// Diagonally offset pairs fall into neither class and are not constrained,
// so they can still overlap.
func ResolveScale(instances []*network.Instance, explicit float64) float64 {
	if explicit > 0 {
		return explicit
	}
	scale := DefaultScale
	if len(instances) < 2 {
		return scale
	}
	for i, a := range instances {
		for _, b := range instances[i+1:] {
			scale = max(scale, pairBound(a, b))
		}
	}
	return scale
}

// pairBound returns the minimum scale keeping a and b apart, or 0 when the
// pair is unconstrained.
func pairBound(a, b *network.Instance) float64 {
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)

	var bound float64
	if dy > 0 && dx < 3*dy {
		bound = max(bound, (max(a.Layout.Height, b.Layout.Height)+Clearance)/dy)
	}
	if dx > 0 && dy < 3*dx {
		bound = max(bound, (max(a.Layout.Width, b.Layout.Width)+Clearance)/dx)
	}
	return bound
}
