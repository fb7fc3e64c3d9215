// Package typelib resolves the pin sets of network instances.
//
// A [Library] indexes type definition files (*.fbt, *.sub, *.adp) under one
// or more directories. Each file is reachable by its stem ("E_SPLIT") and by
// its namespace-qualified path ("iec61499::events::E_SPLIT"). Definitions
// are parsed on first use and cached.
//
// A [Resolver] picks one of two strategies per instance and remembers the
// choice:
//
//   - [StrategyDefinition]: the library has the type. Plugs see the
//     adapter definition from the other side, so inputs and outputs swap.
//
//   - [StrategyInference]: the type is unknown. Pins are inferred from the
//     connections touching the instance, in first-seen order.
//
//     lib := typelib.New([]string{"./types"})
//     if err := lib.Index(); err != nil {
//     return err
//     }
//     typelib.NewResolver(lib).Resolve(net)
package typelib
