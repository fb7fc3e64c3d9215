package routing

import "github.com/matzehuels/fbnet/pkg/network"

// SideIndex numbers boundary connections per sidebar in declaration order.
// Keys are positions in Network.Connections.
type SideIndex struct {
	Left  map[int]int // connections leaving an input boundary port
	Right map[int]int // connections entering an output boundary port
}

// IndexBoundaryConnections builds the side table for n. A connection whose
// source is a known boundary port counts on the left; otherwise one whose
// destination is a known boundary port counts on the right.
func IndexBoundaryConnections(n *network.Network) SideIndex {
	known := make(map[string]bool, len(n.BoundaryPorts))
	for _, bp := range n.BoundaryPorts {
		known[bp.Name] = true
	}
	idx := SideIndex{Left: map[int]int{}, Right: map[int]int{}}
	for i, c := range n.Connections {
		src, ok := network.ParseEndpoint(c.Source)
		if ok && src.IsBoundary() && known[src.Port] {
			idx.Left[i] = len(idx.Left)
			continue
		}
		dst, ok := network.ParseEndpoint(c.Destination)
		if ok && dst.IsBoundary() && known[dst.Port] {
			idx.Right[i] = len(idx.Right)
		}
	}
	return idx
}

// Lookup returns the ordinal of connection i on whichever side it belongs to.
func (s SideIndex) Lookup(i int) (int, bool) {
	if v, ok := s.Left[i]; ok {
		return v, true
	}
	v, ok := s.Right[i]
	return v, ok
}
