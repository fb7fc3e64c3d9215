package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
	"github.com/matzehuels/fbnet/pkg/render/network/styles"
)

const (
	cornerRadius = 3.0
	iconFill     = "#87CEEB"
	iconStroke   = "#1565C0"
	iconNotch    = 1.5
	valueText    = "#333333"
)

// renderInstance draws one block in its own coordinate system, translated
// to the block origin. Unconnected data inputs with a parameter value show
// the value left of the block.
func (r *svgRenderer) renderInstance(buf *bytes.Buffer, inst *network.Instance, connected map[string]bool) {
	g := inst.Layout
	fmt.Fprintf(buf, `    <g id="fb_%s" transform="translate(%.1f, %.1f)">`+"\n",
		styles.EscapeXML(inst.Name), g.Origin.X, g.Origin.Y)

	r.renderBlock(buf, inst, func(p network.Port, y float64) {
		if !connected[inst.Name+"."+p.Name] {
			r.paramValue(buf, inst, p, y)
		}
	})

	fmt.Fprintf(buf, `      <text x="%.1f" y="-5" font-family="%s" font-size="%d" fill="%s" text-anchor="middle">%s</text>`+"\n",
		g.Width/2, fonts.Family, fonts.Size, styles.LabelText, styles.EscapeXML(inst.Name))
	buf.WriteString("    </g>\n")
}

// renderBlock draws the outline, name section and pins of inst relative to
// its origin. dataInput, when set, is called for every data input row.
func (r *svgRenderer) renderBlock(buf *bytes.Buffer, inst *network.Instance, dataInput func(network.Port, float64)) {
	g := inst.Layout
	filter := ""
	if r.shadow {
		filter = ` filter="url(#dropShadow)"`
	}
	fmt.Fprintf(buf, `      <path d="%s" fill="%s" stroke="%s" stroke-width="1.5" stroke-linejoin="round"%s/>`+"\n",
		outlinePath(g), styles.BlockFill, styles.BlockStroke, filter)

	r.renderNameSection(buf, inst)

	col := func(ports []network.Port, top float64, draw func(network.Port, float64)) {
		y := top + layout.RowHeight/2
		for _, p := range ports {
			draw(p, y)
			y += layout.RowHeight
		}
	}
	evTop := layout.RowHeight/2 - 4
	col(inst.EventInputs, evTop, func(p network.Port, y float64) { r.leftPin(buf, p, y, styles.EventColor) })
	col(inst.EventOutputs, evTop, func(p network.Port, y float64) { r.rightPin(buf, p, y, g.Width, styles.EventColor) })
	col(inst.DataInputs, g.NameBottom, func(p network.Port, y float64) {
		r.leftPin(buf, p, y, styles.PortColor(p.Type))
		if dataInput != nil {
			dataInput(p, y)
		}
	})
	col(inst.DataOutputs, g.NameBottom, func(p network.Port, y float64) { r.rightPin(buf, p, y, g.Width, styles.PortColor(p.Type)) })
	col(inst.Sockets, g.AdapterTop, func(p network.Port, y float64) { r.adapterPin(buf, p, y, 0, false) })
	col(inst.Plugs, g.AdapterTop, func(p network.Port, y float64) { r.adapterPin(buf, p, y, g.Width, true) })
}

// outlinePath traces the block with rounded outer corners and a notch on
// both sides of the name section.
func outlinePath(g network.Geometry) string {
	const r, n = cornerRadius, layout.Notch
	w, h, et, nb := g.Width, g.Height, g.EventHeight, g.NameBottom
	return fmt.Sprintf("M %g 0 L %g 0 A %g %g 0 0 1 %g %g L %g %g A %g %g 0 0 1 %g %g "+
		"L %g %g L %g %g L %g %g A %g %g 0 0 1 %g %g L %g %g A %g %g 0 0 1 %g %g "+
		"L %g %g A %g %g 0 0 1 0 %g L 0 %g A %g %g 0 0 1 %g %g L %g %g L %g %g "+
		"L %g %g A %g %g 0 0 1 0 %g L 0 %g A %g %g 0 0 1 %g 0 Z",
		r, w-r, r, r, w, r, w, et-r, r, r, w-r, et,
		w-n, et, w-n, nb, w-r, nb, r, r, w, nb+r, w, h-r, r, r, w-r, h,
		r, h, r, r, h-r, nb+r, r, r, r, nb, n, nb, n, et,
		r, et, r, r, et-r, r, r, r, r)
}

// notchedBox is the small function block glyph used by the kind icon.
func notchedBox(x, y, w, h, depth, r float64) string {
	nt := y + h/4
	nb := nt + h/6
	return fmt.Sprintf("M %g %g L %g %g A %g %g 0 0 1 %g %g L %g %g L %g %g L %g %g L %g %g "+
		"L %g %g A %g %g 0 0 1 %g %g L %g %g A %g %g 0 0 1 %g %g L %g %g L %g %g L %g %g "+
		"L %g %g L %g %g A %g %g 0 0 1 %g %g Z",
		x+r, y, x+w-r, y, r, r, x+w, y+r, x+w, nt, x+w-depth, nt, x+w-depth, nb, x+w, nb,
		x+w, y+h-r, r, r, x+w-r, y+h, x+r, y+h, r, r, x, y+h-r, x, nb, x+depth, nb, x+depth, nt,
		x, nt, x, y+r, r, r, x+r, y)
}

// IconLetter returns the letter drawn in the kind icon. Subapplications
// use a glyph instead and return "".
func IconLetter(fbKind string) string {
	switch fbKind {
	case network.FBKindAdapter:
		return "A"
	case network.FBKindComposite:
		return "C"
	case network.FBKindServiceInterface:
		return "Si"
	case network.FBKindSubApp:
		return ""
	default:
		return "B"
	}
}

func (r *svgRenderer) renderNameSection(buf *bytes.Buffer, inst *network.Instance) {
	const size = layout.IconSize
	g := inst.Layout
	cy := g.NameTop + layout.NameHeight/2

	label := r.engine.TypeLabel(inst)
	content := size + 4 + r.engine.Measure(label, true)
	ix := (g.Width - content) / 2
	iy := cy - size/2

	fmt.Fprintf(buf, `      <path d="%s" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		notchedBox(ix, iy, size, size, iconNotch, 1), iconFill, iconStroke)

	if letter := IconLetter(inst.FBKind); letter != "" {
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="%s" font-size="10" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`+"\n",
			ix+size/2, cy+4, fonts.Family, styles.LabelText, letter)
	} else {
		subAppGlyph(buf, ix, iy)
	}

	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
		ix+size+4, cy+4, fonts.FamilyItalic, fonts.Size, styles.LabelText, styles.EscapeXML(label))
}

// subAppGlyph draws two tiny blocks joined by an event and a data wire.
func subAppGlyph(buf *bytes.Buffer, ix, iy float64) {
	const miniW, miniH, gap = 5.5, 7.0, 3.0
	px := ix + (layout.IconSize-(2*miniW+gap))/2
	py := iy + layout.IconSize - miniH - 1.5
	for _, x := range []float64{px, px + miniW + gap} {
		fmt.Fprintf(buf, `      <path d="%s" fill="%s" stroke="none"/>`+"\n",
			notchedBox(x, py, miniW, miniH, miniW*0.15, 0.5), iconStroke)
	}
	x1, x2 := px+miniW, px+miniW+gap
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#3DA015" stroke-width="1.2"/>`+"\n",
		x1, py+miniH*0.12, x2, py+miniH*0.12)
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#FF0000" stroke-width="1.2"/>`+"\n",
		x1, py+miniH*0.7, x2, py+miniH*0.7)
}

// =============================================================================
// Pins
// =============================================================================

func (r *svgRenderer) leftPin(buf *bytes.Buffer, p network.Port, y float64, color string) {
	const tw, th = layout.TriangleWidth, layout.TriangleHeight
	fmt.Fprintf(buf, `      <polygon points="0,%.1f %.1f,%.1f 0,%.1f" fill="%s"/>`+"\n", y-th/2, tw, y, y+th/2, color)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
		tw+3, y+baseline, fonts.Family, fonts.Size, styles.LabelText, styles.EscapeXML(r.engine.PinLabel(p.Name)))
}

func (r *svgRenderer) rightPin(buf *bytes.Buffer, p network.Port, y, w float64, color string) {
	const tw, th = layout.TriangleWidth, layout.TriangleHeight
	fmt.Fprintf(buf, `      <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
		w-tw, y-th/2, w, y, w-tw, y+th/2, color)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="%s" font-size="%d" fill="%s" text-anchor="end">%s</text>`+"\n",
		w-tw-3, y+baseline, fonts.Family, fonts.Size, styles.LabelText, styles.EscapeXML(r.engine.PinLabel(p.Name)))
}

// adapterPin draws a socket (outlined, left edge) or a plug (filled, right
// edge) as a notched rectangle.
func (r *svgRenderer) adapterPin(buf *bytes.Buffer, p network.Port, y, w float64, plug bool) {
	const rw, rh = layout.TriangleWidth * 2, layout.TriangleHeight
	rx, ns, fill, textX, anchor := 0.0, rw/2, "none", rw+3, ""
	if plug {
		rx, ns, fill, textX, anchor = w-rw, w-rw+rw/4, styles.AdapterColor, w-rw-3, ` text-anchor="end"`
	}
	ry := y - rh/2
	nw, nd := rw/4, rh/6
	d := fmt.Sprintf("M %g %g L %g %g L %g %g L %g %g L %g %g L %g %g L %g %g L %g %g L %g %g L %g %g L %g %g L %g %g Z",
		rx, ry, ns, ry, ns, ry+nd, ns+nw, ry+nd, ns+nw, ry, rx+rw, ry,
		rx+rw, ry+rh, ns+nw, ry+rh, ns+nw, ry+rh-nd, ns, ry+rh-nd, ns, ry+rh, rx, ry+rh)
	fmt.Fprintf(buf, `      <path d="%s" fill="%s" stroke="%s" stroke-width="1"/>`+"\n", d, fill, styles.AdapterColor)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="%s" font-size="%d" fill="%s"%s>%s</text>`+"\n",
		textX, y+baseline, fonts.Family, fonts.Size, styles.LabelText, anchor, styles.EscapeXML(r.engine.PinLabel(p.Name)))
}

// paramValue writes the parameter assigned to an unconnected data input to
// the left of its pin.
func (r *svgRenderer) paramValue(buf *bytes.Buffer, inst *network.Instance, p network.Port, y float64) {
	v, ok := inst.Parameters[p.Name]
	if !ok || v == "" {
		return
	}
	v = layout.Truncate(v, r.engine.Settings().MaxValueLabel)
	fmt.Fprintf(buf, `      <text class="param" x="-3" y="%.1f" font-family="%s" font-size="%d" fill="%s" text-anchor="end">%s</text>`+"\n",
		y+baseline, fonts.Family, fonts.Size, valueText, styles.EscapeXML(v))
}
