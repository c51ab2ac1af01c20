package errgraph

import (
	"testing"

	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

const (
	stateStart  solution.State = "START"
	stateOpen   solution.State = "OPEN"
	stateClosed solution.State = "CLOSED"
)

// world is a supergraph with a solution assembled by point names.
type world struct {
	t   *testing.T
	g   *supergraph.Static
	sol *solution.Solution
}

func newWorld(t *testing.T, points ...string) *world {
	t.Helper()

	w := &world{
		t:   t,
		g:   supergraph.NewStatic(),
		sol: solution.New(),
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

func (w *world) edge(src, dst string, b supergraph.Branch) *supergraph.Link {
	w.t.Helper()

	l, err := w.g.Connect(src, dst, b)
	if err != nil {
		w.t.Fatal(err)
	}
	return l
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

func (w *world) triple(point string, expr solution.Expr, state solution.State) Triple {
	return Triple{Point: w.p(point), Expr: expr, State: state}
}

// straightLine is A(entry) -> B -> C with x opened at A and kept open at B.
func straightLine(t *testing.T) *world {
	w := newWorld(t, "A", "B", "C")
	w.edge("A", "B", supergraph.BranchNone)
	w.edge("B", "C", supergraph.BranchNone)
	w.entry("A")
	w.trans("A", solution.NoExpr, stateStart, "B", "x", stateOpen)
	w.trans("B", "x", stateOpen, "C", "x", stateOpen)
	w.sol.Freeze()
	return w
}

// twoEntries has entries A1 and A2 reaching C in 3 and 2 edges respectively.
func twoEntries(t *testing.T) *world {
	w := newWorld(t, "A1", "X", "Y", "A2", "Z", "C")
	w.edge("A1", "X", supergraph.BranchNone)
	w.edge("X", "Y", supergraph.BranchNone)
	w.edge("Y", "C", supergraph.BranchNone)
	w.edge("A2", "Z", supergraph.BranchNone)
	w.edge("Z", "C", supergraph.BranchNone)
	w.entry("A1", "A2")

	w.trans("A1", solution.NoExpr, stateStart, "X", "x", stateOpen)
	w.trans("X", "x", stateOpen, "Y", "x", stateOpen)
	w.trans("Y", "x", stateOpen, "C", "x", stateOpen)
	w.trans("A2", solution.NoExpr, stateStart, "Z", "x", stateOpen)
	w.trans("Z", "x", stateOpen, "C", "x", stateOpen)
	w.sol.Freeze()
	return w
}

func (w *world) build(target Triple) *Graph {
	w.t.Helper()

	g, err := Build(w.t.Context(), BuildRequest{
		Graph:       w.g,
		Transitions: w.sol,
		Target:      target,
		Strict:      true,
	})
	if err != nil {
		w.t.Fatalf("build error graph: %s", err)
	}
	return g
}

func pathPoints(p Path, g *Graph) []string {
	if len(p) == 0 {
		return nil
	}

	res := []string{g.Node(p[0].Src).Point.String()}
	for _, e := range p {
		res = append(res, g.Node(e.Dst).Point.String())
	}
	return res
}
