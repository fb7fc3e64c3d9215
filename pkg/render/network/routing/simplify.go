package routing

import (
	"math"

	"github.com/matzehuels/fbnet/pkg/network"
)

// Tolerance is the distance below which waypoints are considered equal.
const Tolerance = 0.1

// Simplify drops waypoints that coincide with their predecessor and
// interior waypoints that lie on the straight segment between their
// neighbours. The first and last points are always kept exactly.
func Simplify(pts []network.Point) []network.Point {
	if len(pts) < 2 {
		return append([]network.Point(nil), pts...)
	}
	start, end := pts[0], pts[len(pts)-1]

	dedup := []network.Point{start}
	for _, p := range pts[1:] {
		if !near(p, dedup[len(dedup)-1]) {
			dedup = append(dedup, p)
		}
	}
	if len(dedup) == 1 {
		return []network.Point{start, end}
	}
	dedup[len(dedup)-1] = end

	out := []network.Point{dedup[0]}
	for i := 1; i < len(dedup)-1; i++ {
		if !IsAligned(out[len(out)-1], dedup[i], dedup[i+1]) {
			out = append(out, dedup[i])
		}
	}
	return append(out, end)
}

// IsAligned reports whether b lies on the segment from a to c, so that
// removing it leaves the drawn path unchanged.
func IsAligned(a, b, c network.Point) bool {
	abx, aby := b.X-a.X, b.Y-a.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y
	acLen := math.Hypot(c.X-a.X, c.Y-a.Y)
	if acLen == 0 {
		return false
	}
	cross := abx*bcy - aby*bcx
	if math.Abs(cross)/acLen > Tolerance {
		return false
	}
	return abx*bcx+aby*bcy >= 0
}

func near(a, b network.Point) bool {
	return math.Abs(a.X-b.X) <= Tolerance && math.Abs(a.Y-b.Y) <= Tolerance
}
