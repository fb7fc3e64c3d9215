package network

import "strings"

// Endpoint is a parsed connection endpoint reference.
type Endpoint struct {
	Instance string // empty for boundary ports
	Port     string
}

// IsBoundary reports whether the reference names a boundary port.
func (e Endpoint) IsBoundary() bool { return e.Instance == "" }

// String returns the reference in its source form.
func (e Endpoint) String() string {
	if e.IsBoundary() {
		return e.Port
	}
	return e.Instance + "." + e.Port
}

// ParseEndpoint splits "Instance.Port" or a bare boundary-port name.
// It reports false for empty references and for references with more than
// one dot; those never resolve to a coordinate.
func ParseEndpoint(ref string) (Endpoint, bool) {
	parts := strings.Split(ref, ".")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Endpoint{}, false
		}
		return Endpoint{Port: parts[0]}, true
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Endpoint{}, false
		}
		return Endpoint{Instance: parts[0], Port: parts[1]}, true
	default:
		return Endpoint{}, false
	}
}
