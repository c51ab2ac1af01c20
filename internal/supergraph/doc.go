// Package supergraph declares the interprocedural control flow graph capability
// consumed by path reconstruction.
//
// Points and edges are opaque to the consumers: they are only compared, used as
// map keys and printed. Any implementation must keep them comparable and must not
// change the graph while reconstructions are running.
//
// The package also provides [Static], an in-memory graph assembled by name, which
// is what fixtures, tests and the command line tool use.
package supergraph
