package typelib

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fbnet/pkg/network"
)

// Strategy names how an instance's pins were obtained.
type Strategy string

const (
	StrategyDefinition Strategy = "definition"
	StrategyInference  Strategy = "inference"
)

// EventType is the port type given to inferred event pins.
const EventType = "Event"

// Resolver fills in instance interfaces. The strategy for each instance is
// chosen on first resolution and reused afterwards.
type Resolver struct {
	lib    *Library
	logger *log.Logger

	mu     sync.Mutex
	chosen map[string]Strategy
}

// ResolverOption configures a [Resolver].
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used to report strategy choices.
func WithResolverLogger(l *log.Logger) ResolverOption { return func(r *Resolver) { r.logger = l } }

// NewResolver creates a resolver backed by lib. A nil library infers every
// instance from its connections.
func NewResolver(lib *Library, opts ...ResolverOption) *Resolver {
	r := &Resolver{lib: lib, logger: log.New(io.Discard), chosen: map[string]Strategy{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve sets the interface of every instance in n.
func (r *Resolver) Resolve(n *network.Network) {
	var inferred int
	for _, inst := range n.Instances {
		if inst == nil {
			continue
		}
		if r.resolve(inst, n.Connections) == StrategyInference {
			inferred++
		}
	}
	r.logger.Debug("interfaces resolved", "instances", len(n.Instances), "inferred", inferred)
}

// Strategy returns the strategy chosen for the named instance.
func (r *Resolver) Strategy(instance string) (Strategy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.chosen[instance]
	return s, ok
}

func (r *Resolver) resolve(inst *network.Instance, conns []network.Connection) Strategy {
	r.mu.Lock()
	s, known := r.chosen[inst.Name]
	r.mu.Unlock()

	var iface network.Interface
	found := false
	if r.lib != nil && (!known || s == StrategyDefinition) {
		iface, found = r.lib.Lookup(inst.TypeName)
	}
	if !found {
		s = StrategyInference
		kind := inst.FBKind
		inst.Interface = Infer(inst.Name, conns)
		if kind != "" {
			inst.FBKind = kind
		} else if inst.Role == network.RoleSubApp {
			inst.FBKind = network.FBKindSubApp
		} else {
			inst.FBKind = network.FBKindBasic
		}
	} else {
		s = StrategyDefinition
		applyDefinition(inst, iface)
	}

	if !known {
		r.mu.Lock()
		r.chosen[inst.Name] = s
		r.mu.Unlock()
		r.logger.Debug("resolved instance", "instance", inst.Name, "type", inst.TypeName, "strategy", s)
	}
	return s
}

// applyDefinition copies a library interface onto inst. Adapter instances
// keep only event and data pins; plugs take the swapped view.
func applyDefinition(inst *network.Instance, iface network.Interface) {
	kind := inst.FBKind
	if inst.Role == network.RoleAdapter {
		if inst.Adapter == network.AdapterPlug {
			iface = iface.Swapped()
		}
		iface.Plugs, iface.Sockets = nil, nil
		kind = network.FBKindAdapter
	}
	inst.Interface = iface
	if kind != "" {
		inst.FBKind = kind
	}
	if inst.FBKind == "" {
		inst.FBKind = network.FBKindBasic
	}
}

// Infer builds an interface for the named instance from the connections
// touching it. Sources become outputs and destinations inputs; adapter
// connections contribute nothing. Names keep their first-seen order.
func Infer(instance string, conns []network.Connection) network.Interface {
	var out network.Interface
	if instance == "" {
		return out
	}
	seen := map[string]bool{}
	add := func(list *[]network.Port, key, name, typ string) {
		if seen[key+name] {
			return
		}
		seen[key+name] = true
		*list = append(*list, network.Port{Name: name, Type: typ})
	}

	for _, c := range conns {
		if c.Kind == network.CategoryAdapter {
			continue
		}
		src, srcOK := network.ParseEndpoint(c.Source)
		dst, dstOK := network.ParseEndpoint(c.Destination)
		if c.Kind == network.CategoryEvent {
			if srcOK && src.Instance == instance {
				add(&out.EventOutputs, "eo:", src.Port, EventType)
			}
			if dstOK && dst.Instance == instance {
				add(&out.EventInputs, "ei:", dst.Port, EventType)
			}
			continue
		}
		if srcOK && src.Instance == instance {
			add(&out.DataOutputs, "do:", src.Port, "")
		}
		if dstOK && dst.Instance == instance {
			add(&out.DataInputs, "di:", dst.Port, "")
		}
	}
	return out
}
