package facts

import (
	"github.com/sirkon/smpath/internal/errgraph"
)

// NewEngine is [Engine] constructor.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Engine infers facts over an error graph and prunes what they prove impossible.
//
// The engine keeps no per graph state, all results are attached to graph nodes. It
// can serve concurrent reconstructions as long as its source is read-only.
type Engine struct {
	src Source
}

// InferFacts annotates every node with the facts known on entering it.
//
// Nodes without incoming edges start with no facts. Facts flowing into a node are
// intersected over its incoming edges, edges leading from a contradiction contribute
// nothing. A node all of whose incoming edges lead from contradictions is annotated
// with an infeasible set. Nodes the analysis cannot reach get no annotation.
func (e *Engine) InferFacts(g *errgraph.Graph) {
	in := map[errgraph.NodeID]*Set{}

	var queue []errgraph.NodeID
	for n := range g.Nodes() {
		if hasPreds(g, n.ID) {
			continue
		}

		in[n.ID] = NewSet()
		queue = append(queue, n.ID)
	}

	queued := map[errgraph.NodeID]bool{}
	for _, id := range queue {
		queued[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		for edge := range g.Succs(id) {
			out := e.transfer(in[id], edge)
			if out.Infeasible() {
				continue
			}

			prev, ok := in[edge.Dst]
			if ok {
				out = intersect(prev, out)
				if out.Equal(prev) {
					continue
				}
			}

			in[edge.Dst] = out
			if !queued[edge.Dst] {
				queued[edge.Dst] = true
				queue = append(queue, edge.Dst)
			}
		}
	}

	for n := range g.Nodes() {
		if s, ok := in[n.ID]; ok {
			g.Annotate(n.ID, s)
			continue
		}

		if e.allPredsInfeasible(g, n.ID, in) {
			g.Annotate(n.ID, &Set{facts: map[Fact]struct{}{}, infeasible: true})
			continue
		}

		g.Annotate(n.ID, nil)
	}
}

// PruneInfeasible removes edges whose constraints contradict the facts of their
// origin, nodes known to be infeasible and nodes that lost all their incoming
// edges. Returns true if anything was removed.
func (e *Engine) PruneInfeasible(g *errgraph.Graph) bool {
	var (
		edges []errgraph.EdgeID
		nodes []errgraph.NodeID
	)

	for edge := range g.Edges() {
		s := factsOf(g, edge.Src)
		if s == nil || s.Infeasible() {
			continue
		}

		if e.transfer(s, edge).Infeasible() {
			edges = append(edges, edge.ID)
		}
	}

	for n := range g.Nodes() {
		if s := factsOf(g, n.ID); s != nil && s.Infeasible() {
			nodes = append(nodes, n.ID)
		}
	}

	var changed bool
	for _, id := range edges {
		changed = g.RemoveEdge(id) || changed
	}
	for _, id := range nodes {
		changed = g.RemoveNode(id) || changed
	}

	for n := range g.Nodes() {
		if g.Orphaned(n.ID) {
			changed = g.RemoveNode(n.ID) || changed
		}
	}

	return changed
}

func (e *Engine) transfer(s *Set, edge *errgraph.Edge) *Set {
	out := s.Clone()
	for _, c := range e.src.Constraints(edge.Inner) {
		if out.Apply(c) == StatusContradict {
			break
		}
	}

	return out
}

func (e *Engine) allPredsInfeasible(g *errgraph.Graph, id errgraph.NodeID, in map[errgraph.NodeID]*Set) bool {
	var seen bool
	for edge := range g.Preds(id) {
		s, ok := in[edge.Src]
		if !ok {
			return false
		}
		if !e.transfer(s, edge).Infeasible() {
			return false
		}
		seen = true
	}

	return seen
}

func hasPreds(g *errgraph.Graph, id errgraph.NodeID) bool {
	for range g.Preds(id) {
		return true
	}

	return false
}

func factsOf(g *errgraph.Graph, id errgraph.NodeID) *Set {
	n := g.Node(id)
	if n == nil {
		return nil
	}

	s, _ := n.Annotation().(*Set)
	return s
}
