// Package reconstruct finds counterexample paths for flagged violations.
//
// A request goes through three phases:
//
//  1. The error graph of the violation is built backwards from recorded transitions.
//  2. Facts are inferred and infeasible parts are pruned until nothing changes.
//  3. The shortest path from any entry point to the violation is searched.
//
// A violation pruned in the second phase and a violation no entry reaches are both
// valid negative results: the diagnosis is suppressed as a likely false positive.
// Requests are independent of each other and can run concurrently over the same
// supergraph and tables, see [Reconstructor.ReconstructAll].
package reconstruct
