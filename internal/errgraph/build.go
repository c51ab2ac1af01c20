package errgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

var (
	// ErrAborted is returned when a step budget or the context deadline stops the work.
	ErrAborted = errors.New("path reconstruction aborted")

	// ErrMalformedTransition reports a recorded transition that does not follow
	// any supergraph edge of its point.
	ErrMalformedTransition = errors.New("malformed transition")
)

// BuildRequest describes the error graph to build.
type BuildRequest struct {
	Graph       supergraph.Graph
	Transitions solution.TransitionTable
	Target      Triple

	// MaxSteps limits the number of nodes taken from the worklist. Zero means no limit.
	MaxSteps int

	// Strict enables validation of every transition of scanned points against
	// the supergraph.
	Strict bool

	Logger *slog.Logger
}

// Build collects every triple that can lead to the target through recorded
// transitions, walking the supergraph backwards from the target.
//
// The target node always gets id 0.
func Build(ctx context.Context, req BuildRequest) (*Graph, error) {
	log := req.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	g := New()
	dst, _ := g.AddNode(req.Target, solution.Match{})
	queue := []NodeID{dst}
	validated := map[supergraph.Point]struct{}{}

	for head := 0; head < len(queue); head++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: build error graph: %w", ErrAborted, err)
		}
		if req.MaxSteps > 0 && head >= req.MaxSteps {
			return nil, fmt.Errorf("%w: build error graph: step budget of %d exhausted", ErrAborted, req.MaxSteps)
		}

		id := queue[head]
		node := g.nodes[id]
		log.Debug("considering routes to node", "node", node.Triple)

		for _, edge := range req.Graph.Predecessors(node.Point) {
			src := edge.Src()
			if req.Strict {
				if _, ok := validated[src]; !ok {
					if err := validateTransitions(req.Graph, req.Transitions, src); err != nil {
						return nil, err
					}
					validated[src] = struct{}{}
				}
			}

			for key, t := range req.Transitions.Transitions(src) {
				if !leadsTo(t, node.Triple) {
					continue
				}

				srcID, created := g.AddNode(
					Triple{
						Point: src,
						Expr:  key.Expr,
						State: key.State,
					},
					t.Match,
				)
				g.AddEdge(srcID, id, edge)
				if created {
					queue = append(queue, srcID)
					log.Debug("node added", "node", g.nodes[srcID].Triple)
				}
			}
		}
	}

	return g, nil
}

// leadsTo checks if the transition ends in the triple. An absent destination
// expression matches any expression.
func leadsTo(t solution.Transition, dst Triple) bool {
	if t.Point != dst.Point {
		return false
	}
	if !t.Expr.Absent() && t.Expr != dst.Expr {
		return false
	}

	return t.State == dst.State
}

func validateTransitions(g supergraph.Graph, table solution.TransitionTable, p supergraph.Point) error {
	succs := map[supergraph.Point]struct{}{}
	for _, e := range g.Successors(p) {
		succs[e.Dst()] = struct{}{}
	}

	for key, t := range table.Transitions(p) {
		if _, ok := succs[t.Point]; !ok {
			return fmt.Errorf(
				"%w: %s under (%s, %s) leads to %s which is not its successor",
				ErrMalformedTransition,
				p,
				key.Expr,
				key.State,
				t.Point,
			)
		}
	}

	return nil
}
