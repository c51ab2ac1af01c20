// Package ssagraph builds a supergraph over Go SSA functions.
//
// Points are basic blocks, the first block of every function is an entry point.
// Successors of a conditional block are tagged true and false in the order the SSA
// builder emits them. Conditions of the form
//
//	v == C
//	v != C
//
// where C is a constant become fact constraints on the respective branches. Phi
// nodes with constant edges turn into assignments on the incoming edges, other
// redefinitions make the engine forget what it knew about a value.
package ssagraph
