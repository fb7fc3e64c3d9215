// Package pkg holds the fbnet libraries.
//
// fbnet draws IEC 61499 function block networks (composite function block
// types, subapplications, and system applications) as SVG. The libraries
// are arranged along the conversion path:
//
//	document (.fbt, .sub, .sys)
//	         ↓
//	    [io]        parse the network and interfaces
//	         ↓
//	    [typelib]   resolve block interfaces from type definitions
//	         ↓
//	    [render/network/layout]   size blocks, pick the scale, place ports
//	         ↓
//	    [render/network/routing]  route connections
//	         ↓
//	    [render/network/sink]     SVG or JSON
//
// [pipeline] runs these stages behind one call and is shared by the CLI,
// the batch converter, and the HTTP server. Supporting packages:
//
//   - [network]: the data model (instances, pins, connections, frame)
//   - [fonts]: text measurement for label widths
//   - [config]: block size settings from TOML
//   - [cache]: rendered artifact cache keyed by input and options
//   - [errors]: coded errors shared by every entry point
//   - [observability]: hooks for pipeline, cache, and HTTP events
//   - [buildinfo]: version stamp
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    InputPath: "Conveyor.sub",
//	    TypeLibs:  []string{"typelib"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("Conveyor.network.svg", result.Artifacts["svg"], 0o644)
package pkg
