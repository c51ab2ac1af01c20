package reconstruct

import (
	"testing"

	"github.com/sirkon/smpath/internal/facts"
	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

const (
	stateStart  solution.State = "START"
	stateOpen   solution.State = "OPEN"
	stateClosed solution.State = "CLOSED"
)

// world is a supergraph with a solution and edge constraints assembled by point
// names.
type world struct {
	t     *testing.T
	g     *supergraph.Static
	sol   *solution.Solution
	table *facts.Table
}

func newWorld(t *testing.T, points ...string) *world {
	t.Helper()

	w := &world{
		t:     t,
		g:     supergraph.NewStatic(),
		sol:   solution.New(),
		table: facts.NewTable(),
	}
	for _, name := range points {
		if _, err := w.g.AddPoint(name); err != nil {
			t.Fatal(err)
		}
	}

	return w
}

func (w *world) p(name string) *supergraph.Node {
	w.t.Helper()

	n, ok := w.g.Point(name)
	if !ok {
		w.t.Fatalf("unknown point %s", name)
	}
	return n
}

func (w *world) edge(src, dst string, b supergraph.Branch, cs ...facts.Constraint) {
	w.t.Helper()

	l, err := w.g.Connect(src, dst, b)
	if err != nil {
		w.t.Fatal(err)
	}
	w.table.Add(l, cs...)
}

func (w *world) entry(names ...string) {
	w.t.Helper()

	for _, name := range names {
		if err := w.g.MarkEntry(name); err != nil {
			w.t.Fatal(err)
		}
	}
}

func (w *world) trans(src string, fromExpr solution.Expr, fromState solution.State, dst string, toExpr solution.Expr, toState solution.State) {
	w.t.Helper()

	w.sol.AddTransition(
		w.p(src),
		solution.Key{Expr: fromExpr, State: fromState},
		solution.Transition{Point: w.p(dst), Expr: toExpr, State: toState},
	)
}

func (w *world) violation(point string, expr solution.Expr, state solution.State) Violation {
	return Violation{Point: w.p(point), Expr: expr, State: state}
}

func (w *world) reconstructor(opts Options) *Reconstructor {
	w.sol.Freeze()
	return New(w.g, w.sol, facts.NewEngine(w.table), stateStart, opts)
}

// straightLine is A(entry) -> B -> C with x opened at A and kept open at B.
func straightLine(t *testing.T) *world {
	w := newWorld(t, "A", "B", "C")
	w.edge("A", "B", supergraph.BranchNone)
	w.edge("B", "C", supergraph.BranchNone)
	w.entry("A")
	w.trans("A", solution.NoExpr, stateStart, "B", "x", stateOpen)
	w.trans("B", "x", stateOpen, "C", "x", stateOpen)
	return w
}

// unreachableState closes x at C, so (C, x, OPEN) has no predecessors.
func unreachableState(t *testing.T) *world {
	w := newWorld(t, "A", "B", "C")
	w.edge("A", "B", supergraph.BranchNone)
	w.edge("B", "C", supergraph.BranchNone)
	w.entry("A")
	w.trans("A", solution.NoExpr, stateStart, "B", "x", stateOpen)
	w.trans("B", "x", stateOpen, "C", "x", stateClosed)
	return w
}

// twoEntries has entries A1 and A2 reaching C in 3 and 2 edges respectively.
func twoEntries(t *testing.T, entries ...string) *world {
	w := newWorld(t, "A1", "X", "Y", "A2", "Z", "C")
	w.edge("A1", "X", supergraph.BranchNone)
	w.edge("X", "Y", supergraph.BranchNone)
	w.edge("Y", "C", supergraph.BranchNone)
	w.edge("A2", "Z", supergraph.BranchNone)
	w.edge("Z", "C", supergraph.BranchNone)
	w.entry(entries...)

	w.trans("A1", solution.NoExpr, stateStart, "X", "x", stateOpen)
	w.trans("X", "x", stateOpen, "Y", "x", stateOpen)
	w.trans("Y", "x", stateOpen, "C", "x", stateOpen)
	w.trans("A2", solution.NoExpr, stateStart, "Z", "x", stateOpen)
	w.trans("Z", "x", stateOpen, "C", "x", stateOpen)
	return w
}

// contradiction assigns x := 3 on A -> B and requires x == 5 on the true branch
// B -> C while the false branch B -> D is fine.
func contradiction(t *testing.T) *world {
	w := newWorld(t, "A", "B", "C", "D")
	w.edge("A", "B", supergraph.BranchNone, facts.Constraint{Expr: "x", Op: facts.OpAssign, Value: "3"})
	w.edge("B", "C", supergraph.BranchTrue, facts.Constraint{Expr: "x", Op: facts.OpEq, Value: "5"})
	w.edge("B", "D", supergraph.BranchFalse, facts.Constraint{Expr: "x", Op: facts.OpNe, Value: "5"})
	w.entry("A")
	w.trans("A", solution.NoExpr, stateStart, "B", "x", stateOpen)
	w.trans("B", "x", stateOpen, "C", "x", stateOpen)
	w.trans("B", "x", stateOpen, "D", "x", stateOpen)
	return w
}

func pointNames(res *Result) []string {
	var names []string
	for _, t := range res.Triples() {
		names = append(names, t.Point.String())
	}
	return names
}
