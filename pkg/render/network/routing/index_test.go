package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/fbnet/pkg/network"
)

func TestIndexBoundaryConnections(t *testing.T) {
	n := fixture()
	n.Connections = []network.Connection{
		{Source: "START", Destination: "B.IN"},  // left 0
		{Source: "A.OUT", Destination: "B.IN"},  // none
		{Source: "A.CNF", Destination: "DONE"},  // right 0
		{Source: "START", Destination: "B.REQ"}, // left 1
		{Source: "GHOST", Destination: "B.REQ"}, // unknown boundary port
		{Source: "A.OUT", Destination: "DONE"},  // right 1
	}

	idx := IndexBoundaryConnections(n)
	if diff := cmp.Diff(map[int]int{0: 0, 3: 1}, idx.Left); diff != "" {
		t.Errorf("Left mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int]int{2: 0, 5: 1}, idx.Right); diff != "" {
		t.Errorf("Right mismatch (-want +got):\n%s", diff)
	}

	if v, ok := idx.Lookup(5); !ok || v != 1 {
		t.Errorf("Lookup(5) = %d, %v, want 1, true", v, ok)
	}
	if _, ok := idx.Lookup(1); ok {
		t.Error("Lookup(1) should not find an instance-to-instance connection")
	}
}
