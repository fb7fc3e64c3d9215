package layout

import (
	"math"

	"github.com/matzehuels/fbnet/pkg/network"
)

// Place maps design coordinates to pixels. The top-left instance lands at
// ([Margin], [Margin]) whatever the source coordinate system; n.Origin
// records where design (0,0) ends up.
func Place(n *network.Network, scale float64) {
	n.Scale = scale

	minX, minY := 0.0, 0.0
	if len(n.Instances) > 0 {
		minX, minY = math.Inf(1), math.Inf(1)
		for _, inst := range n.Instances {
			minX = math.Min(minX, inst.X)
			minY = math.Min(minY, inst.Y)
		}
	}

	for _, inst := range n.Instances {
		inst.Layout.Origin = network.Point{
			X: (inst.X-minX)*scale + Margin,
			Y: (inst.Y-minY)*scale + Margin,
		}
	}
	n.Origin = network.Point{X: Margin - minX*scale, Y: Margin - minY*scale}
}

// PlacePorts assigns absolute coordinates to every port of a placed
// instance. Inputs and sockets sit on the left edge, outputs and plugs on
// the right, one row apart in declaration order starting at the middle of
// their section's first row.
func PlacePorts(inst *network.Instance) {
	g := &inst.Layout
	g.Ports = make(map[string]network.Point, inst.PortCount())

	left, right := g.Origin.X, g.Origin.X+g.Width
	column := func(x, top float64, ports []network.Port) {
		y := g.Origin.Y + top + RowHeight/2
		for _, p := range ports {
			g.Ports[p.Name] = network.Point{X: x, Y: y}
			y += RowHeight
		}
	}

	column(left, sectionPad, inst.EventInputs)
	column(right, sectionPad, inst.EventOutputs)
	column(left, g.NameBottom, inst.DataInputs)
	column(right, g.NameBottom, inst.DataOutputs)
	column(left, g.AdapterTop, inst.Sockets)
	column(right, g.AdapterTop, inst.Plugs)
}

// LabelledBlock returns the block rectangle extended upwards by the
// instance name strip.
func LabelledBlock(inst *network.Instance) network.Rect {
	r := inst.Block()
	r.Y -= LabelStrip
	r.H += LabelStrip
	return r
}
