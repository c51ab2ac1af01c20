// Package facts implements a fact engine over error graphs.
//
// Supergraph edges carry constraints on tracked values: branch conditions like
// "x == 5" on the edge taken when the condition holds and "x != 5" on the other one,
// assignments of constants, equalities of expressions. The engine propagates them
// forward through an error graph, keeping per node the facts holding on every
// incoming route, and prunes edges and nodes whose facts contradict each other.
//
// Facts partition expressions and constants into equivalence classes. A class with
// two different constants, or an inequality inside a single class, is a
// contradiction.
package facts
