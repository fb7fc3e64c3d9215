// Package io reads IEC 61499 XML documents into the network model.
//
// # Network documents
//
// Three root elements carry a drawable network:
//
//   - SubAppType: the SubAppInterfaceList becomes boundary ports and the
//     SubAppNetwork the instances and connections.
//   - FBType: only composite types qualify (an FBNetwork or CompositeFB
//     child). The InterfaceList becomes boundary ports; declared plugs and
//     sockets become adapter instances placed at their x/y attributes.
//   - System: the SubAppNetwork of every Application is merged into one
//     network.
//
// Use [ReadNetwork] for any io.Reader, [ParseNetwork] for bytes, or
// [ImportNetwork] for a file path:
//
//	net, err := io.ImportNetwork("Conveyor.sub")
//	if err != nil {
//	    return err
//	}
//
// Instances come back with positions, parameters and connections but no
// pins; pin lists are filled in by the type library.
//
// # Type definitions
//
// [ParseInterface] extracts the pin set of an FBType, SubAppType or
// AdapterType definition, including event WITH associations, comments and
// array dimensions ("ARRAY [0..N-1] OF T"), and classifies its kind.
//
// # Errors
//
// Unparsable XML yields INVALID_XML, an unsupported root UNKNOWN_ROOT, a
// non-composite FBType NOT_COMPOSITE, and a missing file FILE_NOT_FOUND.
// Numeric attributes that are present but not numbers yield INVALID_FORMAT;
// absent ones default to zero.
package io
