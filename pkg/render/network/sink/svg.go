package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
	"github.com/matzehuels/fbnet/pkg/render/network/routing"
	"github.com/matzehuels/fbnet/pkg/render/network/styles"
)

const (
	viewPadding = 7.0
	baseline    = fonts.Size * 0.35 // vertical offset centring text on a pin
)

const fontFaceCSS = `
  <style>
    @font-face {
      font-family: "TGL 0-17";
      src: local("TGL 0-17"), local("TGL 0-17 alt");
      font-style: normal;
      font-weight: normal;
    }
    @font-face {
      font-family: "TGL 0-16";
      src: local("TGL 0-16");
      font-style: normal;
      font-weight: normal;
    }
  </style>`

const shadowDefs = `
  <defs>
    <filter id="dropShadow" x="-20%" y="-20%" width="140%" height="140%">
      <feGaussianBlur in="SourceAlpha" stdDeviation="3" result="blur"/>
      <feOffset in="blur" dx="1" dy="1" result="offsetBlur"/>
      <feFlood flood-color="#000000" flood-opacity="0.5" result="shadowColor"/>
      <feComposite in="shadowColor" in2="offsetBlur" operator="in" result="shadow"/>
      <feMerge>
        <feMergeNode in="shadow"/>
        <feMergeNode in="SourceGraphic"/>
      </feMerge>
    </filter>
  </defs>`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	engine *layout.Engine
	logger *log.Logger
	shadow bool
	grid   bool
	bevel  float64

	noComments bool
	noTypes    bool
}

// WithEngine supplies the engine that laid out the network, so labels are
// truncated and measured with the same settings. Defaults to [layout.New].
func WithEngine(e *layout.Engine) SVGOption { return func(r *svgRenderer) { r.engine = e } }

// WithLogger receives the router's debug output about dropped connections.
func WithLogger(l *log.Logger) SVGOption { return func(r *svgRenderer) { r.logger = l } }

// WithShadow toggles the drop shadow under blocks (on by default).
func WithShadow(on bool) SVGOption { return func(r *svgRenderer) { r.shadow = on } }

// WithPortComments toggles port comments beside a type diagram (on by default).
func WithPortComments(on bool) SVGOption { return func(r *svgRenderer) { r.noComments = !on } }

// WithPortTypes toggles port types beside a type diagram (on by default).
func WithPortTypes(on bool) SVGOption { return func(r *svgRenderer) { r.noTypes = !on } }

// WithGrid draws the editor's background grid behind the network.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// WithBevel sets the corner cut of wires; 0 draws sharp corners.
func WithBevel(radius float64) SVGOption { return func(r *svgRenderer) { r.bevel = radius } }

// RenderSVG draws n as a standalone SVG document.
func RenderSVG(n *network.Network, opts ...SVGOption) []byte {
	r := svgRenderer{shadow: true, bevel: routing.DefaultBevel}
	for _, opt := range opts {
		opt(&r)
	}
	if r.engine == nil {
		r.engine = layout.New()
	}

	vb := n.Border
	vb.X -= viewPadding
	vb.Y -= viewPadding
	vb.W += 2 * viewPadding
	vb.H += 2 * viewPadding

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`,
		vb.X, vb.Y, vb.W, vb.H, vb.W, vb.H)
	buf.WriteString(fontFaceCSS)
	if r.shadow {
		buf.WriteString(shadowDefs)
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="white"/>`+"\n", vb.X, vb.Y, vb.W, vb.H)

	r.renderFrame(&buf, n)
	r.renderSidebars(&buf, n)
	if r.grid {
		r.renderGrid(&buf, n)
	}
	r.renderConnections(&buf, n)
	r.renderBoundaryPorts(&buf, n)

	buf.WriteString(`  <g id="instances">` + "\n")
	connected := connectedInputs(n)
	for _, inst := range n.Instances {
		r.renderInstance(&buf, inst, connected)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Frame
// =============================================================================

func (r *svgRenderer) renderFrame(buf *bytes.Buffer, n *network.Network) {
	b, h := n.Border, n.Header
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		b.X, b.Y, b.W, b.H, styles.BlockStroke)
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="white" stroke="none"/>`+"\n",
		h.X, h.Y, h.W, h.H)
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
		h.X, h.Bottom(), h.Right(), h.Bottom(), styles.BlockStroke)
	if n.Comment != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
			h.X+5, h.CenterY()+baseline, fonts.Family, fonts.Size, styles.CommentText, styles.EscapeXML(n.Comment))
	}
}

func (r *svgRenderer) renderSidebars(buf *bytes.Buffer, n *network.Network) {
	buf.WriteString(`  <g id="sidebars">` + "\n")
	if sb := n.InputSidebar; sb != nil {
		writeSidebar(buf, *sb, sb.Right())
	}
	if sb := n.OutputSidebar; sb != nil {
		writeSidebar(buf, *sb, sb.X)
	}
	buf.WriteString("  </g>\n")
}

func writeSidebar(buf *bytes.Buffer, sb network.Rect, sepX float64) {
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="none"/>`+"\n",
		sb.X, sb.Y, sb.W, sb.H, styles.SidebarFill)
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.5"/>`+"\n",
		sepX, sb.Y, sepX, sb.Bottom(), styles.BlockStroke)
}

// =============================================================================
// Grid
// =============================================================================

const (
	gridMinorUnits = 100 // design units per minor cell
	gridRowOffset  = 1   // minor row carrying the heavy horizontal line
	gridColOffset  = 7   // minor column carrying the heavy vertical line
)

// renderGrid fills the area between header and sidebars with a dotted
// minor grid, dashed every fifth line and heavier every tenth.
func (r *svgRenderer) renderGrid(buf *bytes.Buffer, n *network.Network) {
	minor := gridMinorUnits * n.Scale
	if minor <= 0 {
		return
	}
	tile := minor * 10

	area := n.Border
	area.Y += n.Header.H
	area.H -= n.Header.H
	if sb := n.InputSidebar; sb != nil {
		area.X += sb.W
		area.W -= sb.W
	}
	if sb := n.OutputSidebar; sb != nil {
		area.W -= sb.W
	}

	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <pattern id="grid" x="%.1f" y="%.1f" width="%.2f" height="%.2f" patternUnits="userSpaceOnUse">`+"\n",
		area.X, area.Y, tile, tile)
	for i := 0; i < 10; i++ {
		pos := float64(i) * minor
		stroke, width, dash := gridLineStyle((i - gridRowOffset + 10) % 10)
		fmt.Fprintf(buf, `      <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%s" stroke-dasharray="%s"/>`+"\n",
			pos, tile, pos, stroke, width, dash)
		stroke, width, dash = gridLineStyle((i - gridColOffset + 10) % 10)
		fmt.Fprintf(buf, `      <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%s" stroke-dasharray="%s"/>`+"\n",
			pos, pos, tile, stroke, width, dash)
	}
	buf.WriteString("    </pattern>\n  </defs>\n")
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#grid)"/>`+"\n",
		area.X, area.Y, area.W, area.H)
}

func gridLineStyle(idx int) (stroke, width, dash string) {
	switch idx {
	case 0:
		return "#909090", "1.5", "6,3"
	case 5:
		return "#A0A0A0", "1", "4,3"
	default:
		return "#B8B8B8", "0.5", "1,3"
	}
}

// =============================================================================
// Connections and boundary ports
// =============================================================================

func (r *svgRenderer) renderConnections(buf *bytes.Buffer, n *network.Network) {
	router := routing.NewRouter(n, routing.WithLogger(r.logger))
	sides := routing.IndexBoundaryConnections(n)

	buf.WriteString(`  <g id="connections">` + "\n")
	for i, path := range router.RouteAll() {
		if len(path.Points) < 2 {
			continue
		}
		pts := path.Points
		if r.bevel > 0 {
			pts = routing.Bevel(pts, r.bevel)
		}
		attrs := fmt.Sprintf(` data-kind="%s"`, path.Connection.Kind)
		if idx, ok := sides.Lookup(i); ok {
			attrs += fmt.Sprintf(` data-iface-index="%d"`, idx)
		}
		fmt.Fprintf(buf, `    <polyline points="%s" fill="none" stroke="%s" stroke-width="1.5" stroke-linejoin="round"%s/>`+"\n",
			formatPoints(pts), styles.ConnectionColor(n, path.Connection), attrs)
	}
	buf.WriteString("  </g>\n")
}

func formatPoints(pts []network.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func boundaryColor(bp *network.BoundaryPort) string {
	if bp.Category == network.CategoryData {
		return styles.PortColor(bp.Type)
	}
	return styles.CategoryColor(bp.Category)
}

// renderBoundaryPorts draws each boundary port as a triangle on the inner
// edge of its sidebar with the label inside the sidebar.
func (r *svgRenderer) renderBoundaryPorts(buf *bytes.Buffer, n *network.Network) {
	const tw, th = layout.TriangleWidth, layout.TriangleHeight

	buf.WriteString(`  <g id="interface_ports">` + "\n")
	for _, bp := range n.BoundaryPorts {
		x, y := bp.Pos.X, bp.Pos.Y
		base, textX, anchor := x-tw, x-tw-3, "end"
		if bp.Direction == network.DirOutput {
			base, textX, anchor = x+tw, x+tw+3, "start"
		}
		fmt.Fprintf(buf, `    <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
			base, y-th/2, x, y, base, y+th/2, boundaryColor(bp))
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="%s" font-size="%d" fill="%s" text-anchor="%s">%s</text>`+"\n",
			textX, y+baseline, fonts.Family, fonts.Size, styles.LabelText, anchor,
			styles.EscapeXML(r.engine.SidebarLabel(bp.Name)))
	}
	buf.WriteString("  </g>\n")
}

// connectedInputs returns the set of "Instance.Port" references that are
// the destination of some connection.
func connectedInputs(n *network.Network) map[string]bool {
	m := make(map[string]bool, len(n.Connections))
	for _, c := range n.Connections {
		m[c.Destination] = true
	}
	return m
}
