package routing

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fbnet/pkg/network"
)

// MinDetour is the smallest horizontal bend, in pixels, used for
// instance-to-instance connections with a non-zero dx1.
const MinDetour = 30.0

// sameRow is the vertical distance under which two endpoints count as level.
const sameRow = 1.0

// Path is a routed connection.
type Path struct {
	Connection network.Connection
	Points     []network.Point // empty when an endpoint does not resolve
}

// Router routes the connections of one laid-out network.
type Router struct {
	net       *network.Network
	instances map[string]*network.Instance
	boundary  map[string]*network.BoundaryPort
	logger    *log.Logger
}

// RouterOption configures a [Router].
type RouterOption func(*Router)

// WithLogger logs dropped connections at debug level.
func WithLogger(l *log.Logger) RouterOption { return func(r *Router) { r.logger = l } }

// NewRouter indexes the instances and boundary ports of n. The network must
// already be laid out.
func NewRouter(n *network.Network, opts ...RouterOption) *Router {
	r := &Router{
		net:       n,
		instances: make(map[string]*network.Instance, len(n.Instances)),
		boundary:  make(map[string]*network.BoundaryPort, len(n.BoundaryPorts)),
	}
	for _, inst := range n.Instances {
		r.instances[inst.Name] = inst
	}
	for _, bp := range n.BoundaryPorts {
		r.boundary[bp.Name] = bp
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Resolve returns the pixel coordinate of an endpoint reference.
func (r *Router) Resolve(ref string) (network.Point, bool) {
	ep, ok := network.ParseEndpoint(ref)
	if !ok {
		return network.Point{}, false
	}
	return r.resolve(ep)
}

func (r *Router) resolve(ep network.Endpoint) (network.Point, bool) {
	if ep.IsBoundary() {
		bp, ok := r.boundary[ep.Port]
		if !ok {
			return network.Point{}, false
		}
		return bp.Pos, true
	}
	inst, ok := r.instances[ep.Instance]
	if !ok {
		return network.Point{}, false
	}
	return inst.PortPosition(ep.Port)
}

// RouteAll routes every connection in declaration order. Unresolvable
// connections are kept with an empty point list.
func (r *Router) RouteAll() []Path {
	paths := make([]Path, len(r.net.Connections))
	for i, c := range r.net.Connections {
		paths[i] = Path{Connection: c, Points: r.Route(c)}
	}
	return paths
}

// Route returns the simplified waypoints of c, or nil if either endpoint
// does not resolve.
//
// A connection between a boundary port and an instance bends once at the
// scaled dx1 from its source, or halfway when dx1 is zero. Between two
// instances, a zero dy gives the same shape with the bend pushed out to at
// least [MinDetour]; a non-zero dy gives a U-turn that leaves the source by
// dx1, crosses at dy and approaches the destination from dx2 (or from
// straight above or below when dx2 is zero).
func (r *Router) Route(c network.Connection) []network.Point {
	src, ok1 := network.ParseEndpoint(c.Source)
	dst, ok2 := network.ParseEndpoint(c.Destination)
	if !ok1 || !ok2 {
		r.logger.Debug("dropping connection with malformed reference", "source", c.Source, "destination", c.Destination)
		return nil
	}
	p1, ok1 := r.resolve(src)
	p2, ok2 := r.resolve(dst)
	if !ok1 || !ok2 {
		r.logger.Debug("dropping dangling connection", "source", c.Source, "destination", c.Destination)
		return nil
	}

	s := r.net.Scale
	if src.IsBoundary() != dst.IsBoundary() {
		return Simplify(singleBend(p1, p2, c.DX1*s, false))
	}

	dx1, dx2, dy := c.DX1*s, c.DX2*s, c.DY*s
	if dy == 0 {
		return Simplify(singleBend(p1, p2, dx1, true))
	}

	x1, y1, x2, y2 := p1.X, p1.Y, p2.X, p2.Y
	cross := y1 + dy
	if dx2 != 0 {
		return Simplify([]network.Point{
			{X: x1, Y: y1},
			{X: x1 + dx1, Y: y1},
			{X: x1 + dx1, Y: cross},
			{X: x2 - dx2, Y: cross},
			{X: x2 - dx2, Y: y2},
			{X: x2, Y: y2},
		})
	}
	return Simplify([]network.Point{
		{X: x1, Y: y1},
		{X: x1 + dx1, Y: y1},
		{X: x1 + dx1, Y: cross},
		{X: x2, Y: cross},
		{X: x2, Y: y2},
	})
}

// singleBend builds a straight line or a horizontal-vertical-horizontal
// path bending at p1.X+dx, or halfway when dx is zero. With floor set, a
// non-zero dx is pushed out to at least MinDetour.
func singleBend(p1, p2 network.Point, dx float64, floor bool) []network.Point {
	if dx == 0 && math.Abs(p1.Y-p2.Y) < sameRow {
		return []network.Point{p1, p2}
	}
	turn := (p1.X + p2.X) / 2
	if dx != 0 {
		if floor && math.Abs(dx) < MinDetour {
			dx = math.Copysign(MinDetour, dx)
		}
		turn = p1.X + dx
	}
	return []network.Point{p1, {X: turn, Y: p1.Y}, {X: turn, Y: p2.Y}, p2}
}
