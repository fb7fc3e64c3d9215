package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
	"github.com/matzehuels/fbnet/pkg/render/network/styles"
)

const (
	connectorSize  = 10.0 // WITH connector square
	connectorGap   = 5.0  // block edge to the first connector column
	connectorPitch = connectorSize + 4
	labelGap       = 10.0 // outermost connector to the external labels
	typeMargin     = 10.0
	labelSep       = " – "
)

// Association is the WITH group of one event: a column of connector
// squares at X joined by a vertical line. Rows holds the event row first,
// followed by the rows of its associated variables.
type Association struct {
	Event string
	Vars  []string
	X     float64
	Rows  []float64
}

// Associations lays out the WITH groups of a sized block with ports placed
// at its origin. Input events pair with data inputs left of the block,
// output events with data outputs right of it; each event with a WITH list
// gets its own column, the first one closest to the block. Variables that
// are not declared on the matching side are skipped.
func Associations(inst *network.Instance) (left, right []Association) {
	g := inst.Layout
	group := func(events, vars []network.Port, x func(i int) float64) []Association {
		declared := make(map[string]bool, len(vars))
		for _, v := range vars {
			declared[v.Name] = true
		}
		var out []Association
		for _, ev := range events {
			if len(ev.With) == 0 {
				continue
			}
			a := Association{Event: ev.Name, X: x(len(out)), Rows: []float64{g.Ports[ev.Name].Y}}
			for _, name := range ev.With {
				if !declared[name] {
					continue
				}
				a.Vars = append(a.Vars, name)
				a.Rows = append(a.Rows, g.Ports[name].Y)
			}
			out = append(out, a)
		}
		return out
	}
	left = group(inst.EventInputs, inst.DataInputs, func(i int) float64 {
		return g.Origin.X - connectorGap - connectorSize/2 - float64(i)*connectorPitch
	})
	right = group(inst.EventOutputs, inst.DataOutputs, func(i int) float64 {
		return g.Origin.X + g.Width + connectorGap + connectorSize/2 + float64(i)*connectorPitch
	})
	return left, right
}

// reach is how far the connector columns extend past the block edge.
func reach(as []Association) float64 {
	d := float64(len(as)) * connectorPitch
	if len(as) == 0 {
		d = connectorPitch
	}
	return connectorGap + d - (connectorPitch - connectorSize)
}

// RenderTypeSVG draws the interface of a type definition as a standalone
// SVG document: the block with its pins, the WITH connectors of its events
// and an external label per port carrying its comment and type.
func RenderTypeSVG(t *network.TypeDefinition, opts ...SVGOption) []byte {
	r := svgRenderer{shadow: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.engine == nil {
		r.engine = layout.New()
	}

	inst := t.Instance()
	r.engine.Size(inst)
	layout.PlacePorts(inst)
	g := inst.Layout
	left, right := Associations(inst)

	leftLabels := r.typeLabels(inst, true)
	rightLabels := r.typeLabels(inst, false)
	leftX := -reach(left) - labelGap
	rightX := g.Width + reach(right) + labelGap
	offset := typeMargin - leftX + widest(leftLabels)
	width := offset + rightX + widest(rightLabels) + typeMargin
	height := g.Height + 2*typeMargin

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`,
		width, height, width, height)
	buf.WriteString(fontFaceCSS)
	if r.shadow {
		buf.WriteString(shadowDefs)
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, `  <title>%s</title>`+"\n", styles.EscapeXML(t.Name))
	if t.Comment != "" {
		fmt.Fprintf(&buf, `  <desc>%s</desc>`+"\n", styles.EscapeXML(t.Comment))
	}
	fmt.Fprintf(&buf, `  <g id="type_%s" transform="translate(%.1f, %.1f)">`+"\n",
		styles.EscapeXML(t.Name), offset, typeMargin)
	r.renderBlock(&buf, inst, nil)
	renderAssociations(&buf, g, left, right)
	writeTypeLabels(&buf, leftLabels, leftX, "end")
	writeTypeLabels(&buf, rightLabels, rightX, "start")
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// WITH connectors
// =============================================================================

func renderAssociations(buf *bytes.Buffer, g network.Geometry, left, right []Association) {
	if len(left)+len(right) == 0 {
		return
	}
	buf.WriteString(`    <g id="associations">` + "\n")

	// Each associated pin gets one stub from the block edge to just past
	// its outermost connector.
	stubs := func(as []Association, edge, dir float64) {
		var order []string
		outer := make(map[string]float64)
		for _, a := range as {
			for _, name := range append([]string{a.Event}, a.Vars...) {
				if _, ok := outer[name]; !ok {
					order = append(order, name)
				}
				outer[name] = a.X + dir*(connectorSize/2+connectorGap)
			}
		}
		for _, name := range order {
			y := g.Ports[name].Y
			fmt.Fprintf(buf, `      <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
				edge, y, outer[name], y, styles.BlockStroke)
		}
	}
	stubs(left, g.Origin.X, -1)
	stubs(right, g.Origin.X+g.Width, 1)

	for _, a := range append(append([]Association(nil), left...), right...) {
		top, bottom := a.Rows[0], a.Rows[0]
		for _, y := range a.Rows {
			top, bottom = min(top, y), max(bottom, y)
		}
		if bottom > top {
			fmt.Fprintf(buf, `      <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
				a.X, top, a.X, bottom, styles.BlockStroke)
		}
		for _, y := range a.Rows {
			fmt.Fprintf(buf, `      <rect class="with" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="white" stroke="%s" stroke-width="1"/>`+"\n",
				a.X-connectorSize/2, y-connectorSize/2, connectorSize, connectorSize, styles.BlockStroke)
		}
	}
	buf.WriteString("    </g>\n")
}

// =============================================================================
// External labels
// =============================================================================

// typeLabel is the text beside one pin outside the block.
type typeLabel struct {
	y       float64
	comment string
	typ     string
	width   float64
}

// typeLabels builds the labels of one side. Inputs read "comment – type",
// outputs "type – comment"; the type is set in italics.
func (r *svgRenderer) typeLabels(inst *network.Instance, input bool) []typeLabel {
	g := inst.Layout
	lists := [][]network.Port{inst.EventOutputs, inst.DataOutputs, inst.Plugs}
	if input {
		lists = [][]network.Port{inst.EventInputs, inst.DataInputs, inst.Sockets}
	}
	var out []typeLabel
	for i, ports := range lists {
		for _, p := range ports {
			l := typeLabel{y: g.Ports[p.Name].Y}
			if !r.noComments {
				l.comment = p.Comment
			}
			if !r.noTypes {
				l.typ = portType(p, i)
			}
			if l.comment == "" && l.typ == "" {
				continue
			}
			l.width = r.engine.Measure(l.comment, false) + r.engine.Measure(l.typ, true)
			if l.comment != "" && l.typ != "" {
				l.width += r.engine.Measure(labelSep, false)
			}
			out = append(out, l)
		}
	}
	return out
}

// portType is the type shown for p; kind indexes events, data and adapters.
func portType(p network.Port, kind int) string {
	switch kind {
	case 0:
		if p.Type == "" {
			return "Event"
		}
		return p.Type
	case 2:
		if i := strings.LastIndex(p.Type, "::"); i >= 0 {
			return p.Type[i+2:]
		}
	}
	return p.Type
}

func widest(labels []typeLabel) float64 {
	var w float64
	for _, l := range labels {
		w = max(w, l.width)
	}
	return w
}

func writeTypeLabels(buf *bytes.Buffer, labels []typeLabel, x float64, anchor string) {
	for _, l := range labels {
		typ := ""
		if l.typ != "" {
			typ = fmt.Sprintf(`<tspan font-family="%s" font-style="italic">%s</tspan>`,
				fonts.FamilyItalic, styles.EscapeXML(l.typ))
		}
		parts := []string{styles.EscapeXML(l.comment), typ}
		if anchor == "start" {
			parts[0], parts[1] = parts[1], parts[0]
		}
		text := parts[0] + parts[1]
		if parts[0] != "" && parts[1] != "" {
			text = parts[0] + labelSep + parts[1]
		}
		fmt.Fprintf(buf, `    <text class="port-label" x="%.1f" y="%.1f" font-family="%s" font-size="%d" fill="%s" text-anchor="%s">%s</text>`+"\n",
			x, l.y+baseline, fonts.Family, fonts.Size, styles.LabelText, anchor, text)
	}
}
