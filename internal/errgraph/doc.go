// Package errgraph provides means to build an error graph: the part of the exploded
// (point, expression, state) graph that can lead to one flagged violation.
//
// Nodes here are:
//
//   - The violation triple itself. It is always inserted first.
//   - Every triple a recorded transition leads from into a node already in the graph.
//
// Edges are:
//
//   - Recorded transitions, each one tagged with the supergraph edge it runs along.
//
// Nodes are kept in an arena and addressed by stable integer ids, a triple maps to at
// most one node and a (source, destination, supergraph edge) combination to at most
// one edge. The graph may be pruned in place: removed elements keep their ids and are
// never brought back.
//
// The graph is built per request and must never be shared between concurrent
// reconstructions.
package errgraph
