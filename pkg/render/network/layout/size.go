package layout

import (
	"strings"

	"github.com/matzehuels/fbnet/pkg/network"
)

// Size computes the block dimensions and section bands of inst.
//
// Event and data sections always reserve at least one row; the adapter
// section is omitted when the instance has no sockets or plugs. The width
// is the largest of the minimum block width, the name section (icon plus
// italic type name) and the two port columns with a gap between them.
func (e *Engine) Size(inst *network.Instance) {
	eventRows := max(len(inst.EventInputs), len(inst.EventOutputs), 1)
	dataRows := max(len(inst.DataInputs), len(inst.DataOutputs), 1)
	adapterRows := max(len(inst.Sockets), len(inst.Plugs))

	g := &inst.Layout
	g.EventHeight = float64(eventRows)*RowHeight + sectionPad
	g.DataHeight = float64(dataRows)*RowHeight + sectionPad
	g.AdapterHeight = float64(adapterRows) * RowHeight
	g.Height = g.EventHeight + NameHeight + g.DataHeight + g.AdapterHeight

	g.NameTop = g.EventHeight
	g.NameBottom = g.NameTop + NameHeight
	g.AdapterTop = g.NameBottom + g.DataHeight

	g.Width = max(MinBlockWidth, e.NameSectionWidth(inst), e.PortsWidth(inst)) +
		2*e.settings.MarginLeftRight
}

// TypeLabel returns the type name as drawn in the name section.
func (e *Engine) TypeLabel(inst *network.Instance) string {
	return Truncate(inst.ShortType(), e.settings.MaxTypeLabel)
}

// PinLabel returns a port name as drawn next to its connector.
func (e *Engine) PinLabel(name string) string {
	return Truncate(name, e.settings.MaxPinLabel)
}

// NameSectionWidth returns the width the name section needs on its own.
func (e *Engine) NameSectionWidth(inst *network.Instance) float64 {
	typeW := e.Measure(e.TypeLabel(inst), true)
	return Notch + 3 + IconSize + iconGap + typeW + 5 + Notch
}

// PortsWidth returns the width both port columns and the gap between them need.
// MinPinLabel reserves the width of that many "W" glyphs per label.
func (e *Engine) PortsWidth(inst *network.Instance) float64 {
	var minLabel float64
	if n := e.settings.MinPinLabel; n > 0 {
		minLabel = e.Measure(strings.Repeat("W", n), false)
	}
	column := func(allowance float64, lists ...[]network.Port) float64 {
		var w float64
		for _, ports := range lists {
			for _, p := range ports {
				w = max(w, allowance+max(minLabel, e.Measure(e.PinLabel(p.Name), false)))
			}
		}
		return w
	}

	left := max(column(triangleSpace, inst.EventInputs, inst.DataInputs), column(adapterSpace, inst.Sockets))
	right := max(column(triangleSpace, inst.EventOutputs, inst.DataOutputs), column(adapterSpace, inst.Plugs))
	return left + centerGap + right
}
