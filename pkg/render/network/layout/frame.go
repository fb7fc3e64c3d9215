package layout

import "github.com/matzehuels/fbnet/pkg/network"

// Fallback frame for a network with nothing to draw.
var (
	emptyBorder = network.Rect{W: 100, H: 100}
	emptyHeader = network.Rect{W: 100, H: HeaderHeight}
)

// DeriveFrame computes the header band and outer border from the union of
// all labelled blocks and sidebars, then stretches the sidebars to run from
// the header's bottom edge to the border's bottom edge.
func (e *Engine) DeriveFrame(n *network.Network) {
	var b network.Bounds
	for _, inst := range n.Instances {
		b.Add(LabelledBlock(inst))
	}
	if n.InputSidebar != nil {
		b.Add(*n.InputSidebar)
	}
	if n.OutputSidebar != nil {
		b.Add(*n.OutputSidebar)
	}
	if b.Empty() {
		n.Header, n.Border = emptyHeader, emptyBorder
		return
	}

	pad := BorderPadding + e.settings.MarginTopBottom
	content := b.Rect()
	headerY := content.Y - pad - HeaderHeight

	n.Header = network.Rect{X: content.X, Y: headerY, W: content.W, H: HeaderHeight}
	n.Border = network.Rect{X: content.X, Y: headerY, W: content.W, H: content.Bottom() + pad - headerY}

	for _, sb := range []*network.Rect{n.InputSidebar, n.OutputSidebar} {
		if sb == nil {
			continue
		}
		sb.Y = n.Header.Bottom()
		sb.H = n.Border.Bottom() - sb.Y
	}
}
