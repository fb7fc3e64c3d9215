package layout

import (
	"strings"

	"github.com/matzehuels/fbnet/pkg/network"
)

// PlaceSidebars sizes and positions the boundary port strips and assigns a
// coordinate to every boundary port. A side without ports gets no sidebar.
//
// The input sidebar's right edge sits left of the instance area by the
// largest scaled dx1 of any boundary-to-instance connection plus
// [SidebarClearance]. The output sidebar starts [SidebarClearance] right of
// the furthest bend of any instance-to-boundary connection, measured from
// the source port, or of the instance area when there is none.
func (e *Engine) PlaceSidebars(n *network.Network) {
	inputs := n.BoundaryPortsFor(network.DirInput)
	outputs := n.BoundaryPortsFor(network.DirOutput)
	area := instanceArea(n)

	inputWidth := e.SidebarWidth(inputs)
	outputWidth := e.SidebarWidth(outputs)

	inputRight := area.X - (maxInputTurn(n, inputs) + SidebarClearance)
	outputLeft := maxOutputTurn(n, outputs, area.Right()) + SidebarClearance

	top := area.Y - sidebarInset
	content := area.Bottom() + sidebarBottom - top

	if len(inputs) > 0 {
		h := max(float64(len(inputs))*SidebarRowHeight+SidebarRowHeight, content)
		n.InputSidebar = &network.Rect{X: inputRight - inputWidth, Y: top, W: inputWidth, H: h}
		for i, bp := range inputs {
			bp.Pos = network.Point{X: inputRight, Y: top + SidebarRowHeight + float64(i)*SidebarRowHeight}
		}
	}
	if len(outputs) > 0 {
		h := max(float64(len(outputs))*SidebarRowHeight+SidebarRowHeight, content)
		n.OutputSidebar = &network.Rect{X: outputLeft, Y: top, W: outputWidth, H: h}
		for i, bp := range outputs {
			bp.Pos = network.Point{X: outputLeft, Y: top + SidebarRowHeight + float64(i)*SidebarRowHeight}
		}
	}
}

// SidebarLabel returns a boundary port name as drawn in its sidebar.
func (e *Engine) SidebarLabel(name string) string {
	return Truncate(name, e.settings.MaxInterfaceBar)
}

// SidebarWidth returns the width of a sidebar holding ports, or 0 for none.
// The widest label is clamped between the configured minimum and maximum
// interface bar sizes before the connector allowance is added.
//
// Both bounds are character counts, converted to widths by measuring a run
// of that many "W" glyphs, the widest Latin letter; the maximum also
// measures the ellipsis a truncated label ends with. A label of narrow
// glyphs at the character limit therefore stays below the maximum.
func (e *Engine) SidebarWidth(ports []*network.BoundaryPort) float64 {
	if len(ports) == 0 {
		return 0
	}
	var w float64
	for _, bp := range ports {
		w = max(w, e.Measure(e.SidebarLabel(bp.Name), false))
	}
	if n := e.settings.MaxInterfaceBar; n > 0 {
		w = min(w, e.Measure(strings.Repeat("W", n)+Ellipsis, false))
	}
	if n := e.settings.MinInterfaceBar; n > 0 {
		w = max(w, e.Measure(strings.Repeat("W", n), false))
	}
	return w + sidebarOuter + sidebarGap + TriangleWidth
}

// instanceArea is the union of all labelled blocks, or a fixed square at
// the margin when there are no instances.
func instanceArea(n *network.Network) network.Rect {
	if len(n.Instances) == 0 {
		return network.Rect{X: Margin, Y: Margin, W: fallbackExtent, H: fallbackExtent}
	}
	var b network.Bounds
	for _, inst := range n.Instances {
		b.Add(LabelledBlock(inst))
	}
	return b.Rect()
}

func maxInputTurn(n *network.Network, inputs []*network.BoundaryPort) float64 {
	names := portNames(inputs)
	var turn float64
	for _, c := range n.Connections {
		src, ok1 := network.ParseEndpoint(c.Source)
		dst, ok2 := network.ParseEndpoint(c.Destination)
		if !ok1 || !ok2 || !src.IsBoundary() || dst.IsBoundary() || c.DX1 == 0 {
			continue
		}
		if names[src.Port] {
			turn = max(turn, c.DX1*n.Scale)
		}
	}
	return turn
}

func maxOutputTurn(n *network.Network, outputs []*network.BoundaryPort, floor float64) float64 {
	names := portNames(outputs)
	turn := floor
	for _, c := range n.Connections {
		src, ok1 := network.ParseEndpoint(c.Source)
		dst, ok2 := network.ParseEndpoint(c.Destination)
		if !ok1 || !ok2 || !dst.IsBoundary() || src.IsBoundary() || c.DX1 == 0 || !names[dst.Port] {
			continue
		}
		inst, ok := n.Instance(src.Instance)
		if !ok {
			continue
		}
		if p, ok := inst.PortPosition(src.Port); ok {
			turn = max(turn, p.X+c.DX1*n.Scale)
		}
	}
	return turn
}

func portNames(ports []*network.BoundaryPort) map[string]bool {
	names := make(map[string]bool, len(ports))
	for _, bp := range ports {
		names[bp.Name] = true
	}
	return names
}
