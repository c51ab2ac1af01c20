package errgraph

import (
	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

// Path is a chain of edges, each one starting where the previous one ends.
type Path []*Edge

// ShortestPath looks for a path with the fewest edges between two alive nodes.
// Equal nodes give an empty path.
func (g *Graph) ShortestPath(src, dst NodeID) (Path, bool) {
	if !g.Contains(src) || !g.Contains(dst) {
		return nil, false
	}
	if src == dst {
		return Path{}, true
	}

	via := map[NodeID]*Edge{src: nil}
	queue := []NodeID{src}
	for head := 0; head < len(queue); head++ {
		for e := range g.Succs(queue[head]) {
			if _, ok := via[e.Dst]; ok {
				continue
			}
			via[e.Dst] = e

			if e.Dst == dst {
				return unwind(via, src, dst), true
			}
			queue = append(queue, e.Dst)
		}
	}

	return nil, false
}

func unwind(via map[NodeID]*Edge, src, dst NodeID) Path {
	var res Path
	for cur := dst; cur != src; {
		e := via[cur]
		res = append(res, e)
		cur = e.Src
	}

	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// EntryNodes returns alive nodes standing for the supergraph entry points with no
// expression in the default state, in entry point order.
func (g *Graph) EntryNodes(sg supergraph.Graph, defaultState solution.State) []NodeID {
	var res []NodeID
	for _, p := range sg.EntryPoints() {
		id, ok := g.Lookup(Triple{
			Point: p,
			Expr:  solution.NoExpr,
			State: defaultState,
		})
		if !ok {
			continue
		}

		res = append(res, id)
	}

	return res
}

// ShortestFromEntries returns the shortest path to dst over all entry nodes. Among
// equally short paths the one from the earlier entry point wins.
func (g *Graph) ShortestFromEntries(sg supergraph.Graph, defaultState solution.State, dst NodeID) (Path, bool) {
	var (
		best  Path
		found bool
	)
	for _, src := range g.EntryNodes(sg, defaultState) {
		p, ok := g.ShortestPath(src, dst)
		if !ok {
			continue
		}

		if !found || len(p) < len(best) {
			best = p
			found = true
		}
	}

	return best, found
}
