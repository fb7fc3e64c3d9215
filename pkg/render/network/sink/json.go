package sink

import (
	"encoding/json"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/render/network/routing"
	"github.com/matzehuels/fbnet/pkg/render/network/styles"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	routes bool
	logger *log.Logger
}

// WithJSONRoutes includes the routed waypoints of every connection.
func WithJSONRoutes() JSONOption { return func(r *jsonRenderer) { r.routes = true } }

// WithJSONLogger receives the router's debug output when routes are exported.
func WithJSONLogger(l *log.Logger) JSONOption { return func(r *jsonRenderer) { r.logger = l } }

type jsonOutput struct {
	Name          string             `json:"name,omitempty"`
	Comment       string             `json:"comment,omitempty"`
	RootType      string             `json:"root_type,omitempty"`
	Scale         float64            `json:"scale"`
	Origin        jsonPoint          `json:"origin"`
	Border        jsonRect           `json:"border"`
	Header        jsonRect           `json:"header"`
	InputSidebar  *jsonRect          `json:"input_sidebar,omitempty"`
	OutputSidebar *jsonRect          `json:"output_sidebar,omitempty"`
	Instances     []jsonInstance     `json:"instances"`
	BoundaryPorts []jsonBoundaryPort `json:"boundary_ports,omitempty"`
	Connections   []jsonConnection   `json:"connections,omitempty"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

type jsonInstance struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Role     string          `json:"role"`
	Adapter  string          `json:"adapter,omitempty"`
	Block    jsonRect        `json:"block"`
	Sections jsonSections    `json:"sections"`
	Ports    []jsonPinAnchor `json:"ports,omitempty"`
}

type jsonSections struct {
	Event   float64 `json:"event"`
	Name    float64 `json:"name"`
	Data    float64 `json:"data"`
	Adapter float64 `json:"adapter,omitempty"`
}

type jsonPinAnchor struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type jsonBoundaryPort struct {
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	Direction string  `json:"direction"`
	Category  string  `json:"category"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type jsonConnection struct {
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	Kind        string      `json:"kind"`
	Color       string      `json:"color"`
	SideIndex   *int        `json:"side_index,omitempty"`
	Points      []jsonPoint `json:"points,omitempty"`
}

// RenderJSON exports the computed geometry of a laid-out network.
func RenderJSON(n *network.Network, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Name:          n.Name,
		Comment:       n.Comment,
		RootType:      n.RootType,
		Scale:         n.Scale,
		Origin:        point(n.Origin),
		Border:        rect(n.Border),
		Header:        rect(n.Header),
		InputSidebar:  rectPtr(n.InputSidebar),
		OutputSidebar: rectPtr(n.OutputSidebar),
		Instances:     make([]jsonInstance, 0, len(n.Instances)),
	}

	for _, inst := range n.Instances {
		out.Instances = append(out.Instances, instance(inst))
	}
	for _, bp := range n.BoundaryPorts {
		out.BoundaryPorts = append(out.BoundaryPorts, jsonBoundaryPort{
			Name:      bp.Name,
			Type:      bp.Type,
			Direction: string(bp.Direction),
			Category:  string(bp.Category),
			X:         bp.Pos.X,
			Y:         bp.Pos.Y,
		})
	}

	sides := routing.IndexBoundaryConnections(n)
	var paths []routing.Path
	if r.routes {
		paths = routing.NewRouter(n, routing.WithLogger(r.logger)).RouteAll()
	}
	for i, c := range n.Connections {
		jc := jsonConnection{
			Source:      c.Source,
			Destination: c.Destination,
			Kind:        string(c.Kind),
			Color:       styles.ConnectionColor(n, c),
		}
		if idx, ok := sides.Lookup(i); ok {
			jc.SideIndex = &idx
		}
		if paths != nil {
			for _, p := range paths[i].Points {
				jc.Points = append(jc.Points, point(p))
			}
		}
		out.Connections = append(out.Connections, jc)
	}

	return json.MarshalIndent(out, "", "  ")
}

func instance(inst *network.Instance) jsonInstance {
	g := inst.Layout
	ji := jsonInstance{
		Name:    inst.Name,
		Type:    inst.TypeName,
		Kind:    inst.FBKind,
		Role:    inst.Role.String(),
		Adapter: string(inst.Adapter),
		Block:   rect(inst.Block()),
		Sections: jsonSections{
			Event:   g.EventHeight,
			Name:    g.NameBottom - g.NameTop,
			Data:    g.DataHeight,
			Adapter: g.AdapterHeight,
		},
	}
	for name, p := range g.Ports {
		ji.Ports = append(ji.Ports, jsonPinAnchor{Name: name, X: p.X, Y: p.Y})
	}
	sort.Slice(ji.Ports, func(a, b int) bool { return ji.Ports[a].Name < ji.Ports[b].Name })
	return ji
}

func point(p network.Point) jsonPoint { return jsonPoint{X: p.X, Y: p.Y} }

func rect(r network.Rect) jsonRect { return jsonRect{X: r.X, Y: r.Y, W: r.W, H: r.H} }

func rectPtr(r *network.Rect) *jsonRect {
	if r == nil {
		return nil
	}
	jr := rect(*r)
	return &jr
}
