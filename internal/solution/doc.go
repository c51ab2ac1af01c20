// Package solution holds the per point results of the forward analysis that path
// reconstruction reads from.
//
// A [Solution] is populated once by the analysis engine and frozen. After that it is
// an immutable snapshot serving both the transition table (which (expr, state) pairs
// lead to which transitions) and the reachability table (which states are reachable
// for which expressions). Reachability is only used for dumps.
package solution
