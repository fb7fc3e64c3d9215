package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
)

func ports(names ...string) []network.Port {
	out := make([]network.Port, len(names))
	for i, n := range names {
		out[i] = network.Port{Name: n}
	}
	return out
}

// fixture lays out a small network: an event splitter feeding a
// subapplication, with boundary ports on both sides.
func fixture(t *testing.T, opts ...layout.Option) (*network.Network, *layout.Engine) {
	t.Helper()
	n := &network.Network{
		Name:     "Demo",
		Comment:  "a < b & c",
		RootType: "SubAppType",
		Instances: []*network.Instance{
			{
				Name:     "A",
				TypeName: "iec61499::events::E_SPLIT",
				Interface: network.Interface{
					EventInputs:  ports("EI"),
					EventOutputs: ports("EO1", "EO2"),
					FBKind:       network.FBKindBasic,
				},
			},
			{
				Name:     "B",
				TypeName: "MY_SUB",
				X:        1000,
				Role:     network.RoleSubApp,
				Interface: network.Interface{
					EventInputs: ports("REQ"),
					DataInputs:  []network.Port{{Name: "IN1", Type: "INT"}, {Name: "IN2", Type: "REAL"}},
					DataOutputs: []network.Port{{Name: "OUT", Type: "BOOL"}},
					FBKind:      network.FBKindSubApp,
				},
				Parameters: map[string]string{"IN1": "5", "IN2": "3.14"},
			},
		},
		BoundaryPorts: []*network.BoundaryPort{
			{Name: "START", Direction: network.DirInput, Category: network.CategoryEvent},
			{Name: "VAL", Type: "INT", Direction: network.DirInput, Category: network.CategoryData},
			{Name: "DONE", Direction: network.DirOutput, Category: network.CategoryEvent},
		},
		Connections: []network.Connection{
			{Source: "START", Destination: "A.EI", Kind: network.CategoryEvent},
			{Source: "A.EO1", Destination: "B.REQ", Kind: network.CategoryEvent},
			{Source: "VAL", Destination: "B.IN1", Kind: network.CategoryData},
			{Source: "A.EO2", Destination: "DONE", Kind: network.CategoryEvent},
		},
	}
	eng := layout.New(append([]layout.Option{layout.WithMeasurer(fonts.Estimator{})}, opts...)...)
	if err := eng.Run(n); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return n, eng
}

func TestRouterLogsDanglingConnections(t *testing.T) {
	n, eng := fixture(t)
	n.Connections = append(n.Connections, network.Connection{
		Source: "A.EO2", Destination: "GONE.REQ", Kind: network.CategoryEvent,
	})

	tests := []struct {
		name   string
		render func(l *log.Logger)
	}{
		{"svg", func(l *log.Logger) { RenderSVG(n, WithEngine(eng), WithLogger(l)) }},
		{"json routes", func(l *log.Logger) {
			if _, err := RenderJSON(n, WithJSONRoutes(), WithJSONLogger(l)); err != nil {
				t.Fatal(err)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.render(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
			out := buf.String()
			if !strings.Contains(out, "dropping dangling connection") || !strings.Contains(out, "GONE.REQ") {
				t.Errorf("debug output = %q", out)
			}
		})
	}
}
