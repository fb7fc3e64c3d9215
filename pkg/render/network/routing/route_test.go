package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/fbnet/pkg/network"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func pt(x, y float64) network.Point { return network.Point{X: x, Y: y} }

// fixture returns a network with two blocks and one boundary port per side,
// already laid out at scale 1.
func fixture() *network.Network {
	a := &network.Instance{Name: "A"}
	a.Layout.Ports = map[string]network.Point{"OUT": pt(100, 100), "CNF": pt(100, 80)}
	b := &network.Instance{Name: "B"}
	b.Layout.Ports = map[string]network.Point{"IN": pt(300, 200), "REQ": pt(300, 100)}
	return &network.Network{
		Scale:     1,
		Instances: []*network.Instance{a, b},
		BoundaryPorts: []*network.BoundaryPort{
			{Name: "START", Direction: network.DirInput, Pos: pt(20, 150)},
			{Name: "DONE", Direction: network.DirOutput, Pos: pt(400, 60)},
		},
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		conn network.Connection
		want []network.Point
	}{
		{
			name: "small step bends halfway",
			conn: network.Connection{Source: "A.CNF", Destination: "B.REQ"},
			want: []network.Point{pt(100, 80), pt(200, 80), pt(200, 100), pt(300, 100)},
		},
		{
			name: "level instances",
			conn: network.Connection{Source: "A.OUT", Destination: "B.REQ"},
			want: []network.Point{pt(100, 100), pt(300, 100)},
		},
		{
			name: "midpoint bend",
			conn: network.Connection{Source: "A.OUT", Destination: "B.IN"},
			want: []network.Point{pt(100, 100), pt(200, 100), pt(200, 200), pt(300, 200)},
		},
		{
			name: "dx1 bend",
			conn: network.Connection{Source: "A.OUT", Destination: "B.IN", DX1: 50},
			want: []network.Point{pt(100, 100), pt(150, 100), pt(150, 200), pt(300, 200)},
		},
		{
			name: "small dx1 uses minimum detour",
			conn: network.Connection{Source: "A.OUT", Destination: "B.IN", DX1: 10},
			want: []network.Point{pt(100, 100), pt(130, 100), pt(130, 200), pt(300, 200)},
		},
		{
			name: "negative small dx1 uses minimum detour",
			conn: network.Connection{Source: "A.OUT", Destination: "B.IN", DX1: -10},
			want: []network.Point{pt(100, 100), pt(70, 100), pt(70, 200), pt(300, 200)},
		},
		{
			name: "u-turn with dx2",
			conn: network.Connection{Source: "B.IN", Destination: "A.OUT", DX1: 20, DX2: 15, DY: 40},
			want: []network.Point{pt(300, 200), pt(320, 200), pt(320, 240), pt(85, 240), pt(85, 100), pt(100, 100)},
		},
		{
			name: "u-turn without dx2",
			conn: network.Connection{Source: "B.IN", Destination: "A.OUT", DX1: 20, DY: -150},
			want: []network.Point{pt(300, 200), pt(320, 200), pt(320, 50), pt(100, 50), pt(100, 100)},
		},
		{
			name: "boundary to instance with hint",
			conn: network.Connection{Source: "START", Destination: "B.IN", DX1: 30},
			want: []network.Point{pt(20, 150), pt(50, 150), pt(50, 200), pt(300, 200)},
		},
		{
			name: "boundary small hint has no floor",
			conn: network.Connection{Source: "START", Destination: "B.IN", DX1: 5},
			want: []network.Point{pt(20, 150), pt(25, 150), pt(25, 200), pt(300, 200)},
		},
		{
			name: "instance to boundary midpoint",
			conn: network.Connection{Source: "A.CNF", Destination: "DONE"},
			want: []network.Point{pt(100, 80), pt(250, 80), pt(250, 60), pt(400, 60)},
		},
	}

	r := NewRouter(fixture())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Route(tt.conn)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Route() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouteScalesHints(t *testing.T) {
	n := fixture()
	n.Scale = 0.5
	got := NewRouter(n).Route(network.Connection{Source: "A.OUT", Destination: "B.IN", DX1: 200})
	want := []network.Point{pt(100, 100), pt(200, 100), pt(200, 200), pt(300, 200)}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Route() mismatch (-want +got):\n%s", diff)
	}
}

func TestRouteDangling(t *testing.T) {
	tests := []network.Connection{
		{Source: "A.OUT", Destination: "MISSING.IN"},
		{Source: "A.NOPE", Destination: "B.IN"},
		{Source: "NOWHERE", Destination: "B.IN"},
		{Source: "a.b.c", Destination: "B.IN"},
		{Source: "", Destination: "B.IN"},
	}
	r := NewRouter(fixture())
	for _, c := range tests {
		t.Run(c.Source+"->"+c.Destination, func(t *testing.T) {
			if got := r.Route(c); len(got) != 0 {
				t.Errorf("Route() = %v, want no points", got)
			}
		})
	}
}

func TestRouteAll(t *testing.T) {
	n := fixture()
	n.Connections = []network.Connection{
		{Source: "A.OUT", Destination: "B.IN"},
		{Source: "A.OUT", Destination: "GHOST.IN"},
		{Source: "START", Destination: "B.REQ"},
	}
	paths := NewRouter(n).RouteAll()
	if len(paths) != 3 {
		t.Fatalf("RouteAll() returned %d paths, want 3", len(paths))
	}
	if len(paths[1].Points) != 0 {
		t.Errorf("dangling connection routed to %v", paths[1].Points)
	}
	for _, i := range []int{0, 2} {
		if len(paths[i].Points) < 2 {
			t.Errorf("path %d has %d points", i, len(paths[i].Points))
		}
	}
}

func TestResolve(t *testing.T) {
	r := NewRouter(fixture())
	if p, ok := r.Resolve("DONE"); !ok || p != pt(400, 60) {
		t.Errorf("Resolve(DONE) = %v, %v", p, ok)
	}
	if p, ok := r.Resolve("B.REQ"); !ok || p != pt(300, 100) {
		t.Errorf("Resolve(B.REQ) = %v, %v", p, ok)
	}
	if _, ok := r.Resolve("B"); ok {
		t.Error("bare instance name should not resolve")
	}
}
