// Package styles holds the visual notation of network diagrams: stroke and
// port colours by IEC 61499 data type, and small text helpers shared by the
// sinks.
package styles

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/matzehuels/fbnet/pkg/network"
)

// Colours.
const (
	BlockStroke  = "#A0A0A0"
	BlockFill    = "#FFFFFF"
	SidebarFill  = "#EEF5FF"
	CommentText  = "#333333"
	LabelText    = "#000000"
	EventColor   = "#63B31F"
	BoolColor    = "#9FA48A"
	AnyBitColor  = "#82A3A9"
	AnyIntColor  = "#18519E"
	AnyRealColor = "#DBB418"
	StringColor  = "#BD8663"
	DataColor    = "#0000FF"
	AdapterColor = "#845DAF"
)

var (
	stringTypes = set("STRING", "WSTRING", "ANY_STRING", "ANY_CHARS", "CHAR", "WCHAR")
	intTypes    = set("INT", "UINT", "SINT", "USINT", "DINT", "UDINT", "LINT", "ULINT", "ANY_INT", "ANY_NUM")
	realTypes   = set("REAL", "LREAL", "ANY_REAL")
	bitTypes    = set("BYTE", "WORD", "DWORD", "LWORD", "ANY_BIT")
)

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// ElementType strips an "ARRAY [..] OF" prefix from a declared type.
func ElementType(t string) string {
	if strings.HasPrefix(t, "ARRAY ") {
		if i := strings.LastIndex(t, " OF "); i >= 0 {
			return t[i+4:]
		}
	}
	return t
}

// PortColor returns the colour of a data port with the given declared type.
func PortColor(portType string) string {
	t := ElementType(portType)
	switch {
	case t == "BOOL":
		return BoolColor
	case stringTypes[t]:
		return StringColor
	case intTypes[t]:
		return AnyIntColor
	case realTypes[t]:
		return AnyRealColor
	case bitTypes[t]:
		return AnyBitColor
	default:
		return DataColor
	}
}

// CategoryColor returns the colour for event and adapter pins and wires.
// Data falls back to the generic data colour.
func CategoryColor(c network.Category) string {
	switch c {
	case network.CategoryEvent:
		return EventColor
	case network.CategoryAdapter:
		return AdapterColor
	default:
		return DataColor
	}
}

// ConnectionColor picks a wire colour: by kind for events and adapters, by
// the source port's data type for data connections.
func ConnectionColor(n *network.Network, c network.Connection) string {
	if c.Kind != network.CategoryData {
		return CategoryColor(c.Kind)
	}
	ep, ok := network.ParseEndpoint(c.Source)
	if !ok {
		return DataColor
	}
	if ep.IsBoundary() {
		if bp, ok := n.BoundaryPort(ep.Port); ok {
			return PortColor(bp.Type)
		}
		return DataColor
	}
	if inst, ok := n.Instance(ep.Instance); ok {
		if p, ok := inst.FindDataPort(ep.Port); ok {
			return PortColor(p.Type)
		}
	}
	return DataColor
}

// EscapeXML escapes text for use in SVG text nodes and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
