package styles

import (
	"testing"

	"github.com/matzehuels/fbnet/pkg/network"
)

func TestPortColor(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"BOOL", BoolColor},
		{"WSTRING", StringColor},
		{"DINT", AnyIntColor},
		{"ANY_NUM", AnyIntColor},
		{"LREAL", AnyRealColor},
		{"DWORD", AnyBitColor},
		{"TIME", DataColor},
		{"", DataColor},
		{"ARRAY [0..7] OF BOOL", BoolColor},
		{"ARRAY [0..3] OF REAL", AnyRealColor},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			if got := PortColor(tt.typ); got != tt.want {
				t.Errorf("PortColor(%q) = %s, want %s", tt.typ, got, tt.want)
			}
		})
	}
}

func TestConnectionColor(t *testing.T) {
	n := &network.Network{
		Instances: []*network.Instance{{
			Name:      "FB",
			Interface: network.Interface{DataOutputs: []network.Port{{Name: "Q", Type: "BOOL"}}},
		}},
		BoundaryPorts: []*network.BoundaryPort{{Name: "TXT", Type: "STRING"}},
	}
	tests := []struct {
		name string
		conn network.Connection
		want string
	}{
		{"event", network.Connection{Kind: network.CategoryEvent, Source: "FB.CNF"}, EventColor},
		{"adapter", network.Connection{Kind: network.CategoryAdapter, Source: "FB.P"}, AdapterColor},
		{"typed source", network.Connection{Kind: network.CategoryData, Source: "FB.Q"}, BoolColor},
		{"boundary source", network.Connection{Kind: network.CategoryData, Source: "TXT"}, StringColor},
		{"unknown port", network.Connection{Kind: network.CategoryData, Source: "FB.X"}, DataColor},
		{"unknown instance", network.Connection{Kind: network.CategoryData, Source: "NO.X"}, DataColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConnectionColor(n, tt.conn); got != tt.want {
				t.Errorf("ConnectionColor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEscapeXML(t *testing.T) {
	if got, want := EscapeXML(`a<b & "c"`), "a&lt;b &amp; &#34;c&#34;"; got != want {
		t.Errorf("EscapeXML() = %q, want %q", got, want)
	}
}
