// Package network defines the data model of a function-block network diagram.
//
// A [Network] is built once per conversion job from a parsed document: its
// instances, connections and boundary ports are structural content that no
// later stage modifies. The layout stages then annotate the same value with
// computed geometry, in a fixed order:
//
//  1. Each [Instance] receives its block size and section boundaries.
//  2. Every instance receives a render origin and absolute port coordinates.
//  3. Boundary ports and the two sidebar rectangles are placed.
//  4. The header band and outer border are derived.
//
// Connections own no geometry. Their polylines are produced on demand by the
// routing package from the already-resolved endpoint coordinates.
//
// # Endpoint references
//
// A connection endpoint is either "Instance.Port" or a bare boundary-port
// name. [ParseEndpoint] splits both shapes; anything with more than one dot
// is not a valid reference and simply never resolves.
package network
