package solution

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirkon/smpath/internal/supergraph"
)

// Dump writes a human-readable listing of the solution over the part of the graph
// reachable from its entry points.
//
// Points are numbered in breadth-first order. Every point lists its reachable states
// and every outgoing edge lists the transitions recorded along it, telling plain
// propagations apart from state changes.
func (s *Solution) Dump(w io.Writer, name string, g supergraph.Graph) error {
	points, edges := breadthFirst(g)
	index := make(map[supergraph.Point]int, len(points))
	for i, p := range points {
		index[p] = i
	}

	d := &dumper{w: w}
	d.writeln(0, "SOLUTION FOR %s", name)
	d.writeln(2, "; underlying graph has: %d points  %d edges", len(points), edges)

	for i, p := range points {
		d.writeln(2, "%d: %s", i, p)

		var reached bool
		for expr, states := range s.Reachable(p) {
			if !reached {
				d.writeln(6, "reachable states:")
				reached = true
			}
			d.writeln(8, "%s: %s", expr, joinStates(states))
		}
		if !reached {
			d.writeln(8, "NOT REACHED")
		}

		for _, e := range g.Successors(p) {
			var branch string
			if e.Branch() != supergraph.BranchNone {
				branch = e.Branch().String() + ": "
			}
			d.writeln(4, "%sgoto %d;", branch, index[e.Dst()])

			for key, t := range s.Transitions(p) {
				if t.Point != e.Dst() {
					continue
				}

				if key.Expr == t.Expr && key.State == t.State {
					d.writeln(6, "propagation of %s: %s", key.Expr, key.State)
					continue
				}

				var via string
				if desc := t.Match.Describe(); desc != "" {
					via = " (via " + desc + ")"
				}
				d.writeln(6, "change from %s: %s  to  %s: %s%s", key.Expr, key.State, t.Expr, t.State, via)
			}
		}
	}

	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) writeln(indent int, format string, a ...any) {
	if d.err != nil {
		return
	}

	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat(" ", indent), fmt.Sprintf(format, a...))
}

func joinStates(states []State) string {
	parts := make([]string, len(states))
	for i, st := range states {
		parts[i] = string(st)
	}

	return strings.Join(parts, ",")
}

// breadthFirst lists points reachable from the entries and counts edges between them.
func breadthFirst(g supergraph.Graph) ([]supergraph.Point, int) {
	seen := map[supergraph.Point]struct{}{}
	var queue []supergraph.Point
	for _, p := range g.EntryPoints() {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		queue = append(queue, p)
	}

	var edges int
	for i := 0; i < len(queue); i++ {
		for _, e := range g.Successors(queue[i]) {
			edges++
			dst := e.Dst()
			if _, ok := seen[dst]; ok {
				continue
			}
			seen[dst] = struct{}{}
			queue = append(queue, dst)
		}
	}

	return queue, edges
}
