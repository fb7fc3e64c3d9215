package network

import "strings"

// Role distinguishes how an instance participates in the network.
type Role int

const (
	RoleFunctionBlock Role = iota // ordinary function block
	RoleSubApp                    // composite sub-network
	RoleAdapter                   // adapter declared on the enclosing interface
)

// String returns the role name used in exports and logs.
func (r Role) String() string {
	switch r {
	case RoleSubApp:
		return "subapp"
	case RoleAdapter:
		return "adapter"
	default:
		return "fb"
	}
}

// AdapterKind is the sub-kind of an adapter instance.
type AdapterKind string

const (
	AdapterNone   AdapterKind = ""
	AdapterPlug   AdapterKind = "plug"
	AdapterSocket AdapterKind = "socket"
)

// Category classifies connections and boundary ports.
type Category string

const (
	CategoryEvent   Category = "event"
	CategoryData    Category = "data"
	CategoryAdapter Category = "adapter"
)

// Direction is the side of the diagram a boundary port lives on.
type Direction string

const (
	DirInput  Direction = "input"  // left sidebar
	DirOutput Direction = "output" // right sidebar
)

// Function block kinds reported by type definitions.
const (
	FBKindBasic            = "BasicFB"
	FBKindComposite        = "CompositeFB"
	FBKindSimple           = "SimpleFB"
	FBKindServiceInterface = "ServiceInterfaceFB"
	FBKindSubApp           = "SubApp"
	FBKindAdapter          = "Adapter"
)

// Port is a named event, data or adapter pin.
type Port struct {
	Name    string
	Type    string   // declared type, may encode array dimensions
	Comment string   // optional
	With    []string // associated variables (event to data couplings)
}

// Interface is the resolved pin set of an instance.
type Interface struct {
	EventInputs  []Port
	EventOutputs []Port
	DataInputs   []Port
	DataOutputs  []Port
	Sockets      []Port
	Plugs        []Port

	// FBKind is one of the FBKind* constants, empty when unknown.
	FBKind string
}

// Swapped returns the interface seen from the opposite side: inputs become
// outputs and vice versa. Adapter plugs use this view of their definition.
func (i Interface) Swapped() Interface {
	return Interface{
		EventInputs:  i.EventOutputs,
		EventOutputs: i.EventInputs,
		DataInputs:   i.DataOutputs,
		DataOutputs:  i.DataInputs,
		Sockets:      i.Sockets,
		Plugs:        i.Plugs,
		FBKind:       i.FBKind,
	}
}

// PortCount returns the total number of pins.
func (i Interface) PortCount() int {
	return len(i.EventInputs) + len(i.EventOutputs) + len(i.DataInputs) +
		len(i.DataOutputs) + len(i.Sockets) + len(i.Plugs)
}

// FindDataPort returns the data input or output named name.
func (i Interface) FindDataPort(name string) (Port, bool) {
	for _, p := range i.DataOutputs {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range i.DataInputs {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Geometry holds the computed layout of one instance. Section offsets are
// relative to the block origin; port positions are absolute pixels.
type Geometry struct {
	Width  float64
	Height float64

	EventHeight   float64
	NameTop       float64
	NameBottom    float64
	DataHeight    float64
	AdapterTop    float64
	AdapterHeight float64

	Origin Point
	Ports  map[string]Point
}

// Instance is a placed node of the network.
type Instance struct {
	Name     string
	TypeName string
	X, Y     float64 // design coordinates, unscaled

	Role       Role
	Adapter    AdapterKind
	Parameters map[string]string

	Interface
	Layout Geometry
}

// ShortType returns the type name without its namespace prefix.
func (i *Instance) ShortType() string {
	if idx := strings.LastIndex(i.TypeName, "::"); idx >= 0 {
		return i.TypeName[idx+2:]
	}
	return i.TypeName
}

// Block returns the block rectangle in pixels.
func (i *Instance) Block() Rect {
	return Rect{X: i.Layout.Origin.X, Y: i.Layout.Origin.Y, W: i.Layout.Width, H: i.Layout.Height}
}

// PortPosition returns the absolute coordinate of the named port.
func (i *Instance) PortPosition(name string) (Point, bool) {
	p, ok := i.Layout.Ports[name]
	return p, ok
}

// Connection links two endpoint references. DX1, DX2 and DY are routing
// hints in design units.
type Connection struct {
	Source      string
	Destination string
	Kind        Category
	DX1, DX2    float64
	DY          float64
}

// BoundaryPort is a port on the network's own edge.
type BoundaryPort struct {
	Name      string
	Type      string
	Direction Direction
	Category  Category

	// Pos is set by sidebar placement.
	Pos Point
}

// Network is the aggregate laid out by the engine.
type Network struct {
	Name     string
	Comment  string
	RootType string

	Instances     []*Instance
	Connections   []Connection
	BoundaryPorts []*BoundaryPort

	// Computed by the layout engine.
	Scale         float64
	Origin        Point // pixel position of design-space (0,0)
	InputSidebar  *Rect
	OutputSidebar *Rect
	Header        Rect
	Border        Rect
}

// Instance returns the instance with the given name.
func (n *Network) Instance(name string) (*Instance, bool) {
	for _, inst := range n.Instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return nil, false
}

// BoundaryPort returns the boundary port with the given name.
func (n *Network) BoundaryPort(name string) (*BoundaryPort, bool) {
	for _, bp := range n.BoundaryPorts {
		if bp.Name == name {
			return bp, true
		}
	}
	return nil, false
}

// BoundaryPortsFor returns the boundary ports on one side, in declaration order.
func (n *Network) BoundaryPortsFor(dir Direction) []*BoundaryPort {
	var out []*BoundaryPort
	for _, bp := range n.BoundaryPorts {
		if bp.Direction == dir {
			out = append(out, bp)
		}
	}
	return out
}

// Empty reports whether the network has neither instances nor boundary ports.
func (n *Network) Empty() bool {
	return len(n.Instances) == 0 && len(n.BoundaryPorts) == 0
}

// TypeDefinition is a type document drawn on its own, without a
// surrounding network.
type TypeDefinition struct {
	Name    string
	Comment string
	Interface
}

// Instance returns a block standing in for the type during layout.
func (t *TypeDefinition) Instance() *Instance {
	return &Instance{Name: t.Name, TypeName: t.Name, Interface: t.Interface}
}
