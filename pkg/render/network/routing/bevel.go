package routing

import (
	"math"

	"github.com/matzehuels/fbnet/pkg/network"
)

// DefaultBevel is the corner cut used when rendering wires.
const DefaultBevel = 5.0

const (
	bevelShare   = 0.4  // at most this share of an adjacent segment is cut
	minBevel     = 0.5  // smaller cuts are not worth drawing
	minTurnCross = 0.01 // cross product below which a corner is straight
)

// Bevel replaces every interior corner with two points set back from it by
// min(radius, 40% of the shorter adjacent segment), one along each segment.
// Endpoints and straight interior points are kept. The original corner is
// the intersection of the lines through the two new segments.
func Bevel(pts []network.Point, radius float64) []network.Point {
	if len(pts) <= 2 {
		return append([]network.Point(nil), pts...)
	}

	out := make([]network.Point, 0, 2*len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts)-1; i++ {
		prev, c, next := pts[i-1], pts[i], pts[i+1]
		inX, inY := c.X-prev.X, c.Y-prev.Y
		outX, outY := next.X-c.X, next.Y-c.Y
		inLen, outLen := math.Hypot(inX, inY), math.Hypot(outX, outY)

		var r float64
		if inLen > 0 && outLen > 0 {
			r = min(radius, inLen*bevelShare, outLen*bevelShare)
		}
		if r <= minBevel || math.Abs(inX*outY-inY*outX) <= minTurnCross {
			out = append(out, c)
			continue
		}
		out = append(out,
			network.Point{X: c.X - inX/inLen*r, Y: c.Y - inY/inLen*r},
			network.Point{X: c.X + outX/outLen*r, Y: c.Y + outY/outLen*r},
		)
	}
	return append(out, pts[len(pts)-1])
}
