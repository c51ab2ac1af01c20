package errgraph

import (
	"fmt"
	"iter"

	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

// NodeID addresses a node in the graph arena.
type NodeID int

// EdgeID addresses an edge in the graph arena.
type EdgeID int

// Triple identifies a node.
type Triple struct {
	Point supergraph.Point
	Expr  solution.Expr
	State solution.State
}

func (t Triple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.Point, t.Expr, t.State)
}

// Annotation is whatever a fact engine attaches to a node.
type Annotation interface {
	String() string
}

// Node of an error graph.
type Node struct {
	Triple

	ID    NodeID
	Match solution.Match

	annotation Annotation
	preds      []EdgeID
	succs      []EdgeID
	removed    bool
}

// Annotation returns the annotation attached to the node, if any.
func (n *Node) Annotation() Annotation {
	return n.annotation
}

// Edge of an error graph.
type Edge struct {
	ID    EdgeID
	Src   NodeID
	Dst   NodeID
	Inner supergraph.Edge

	removed bool
}

type edgeKey struct {
	src   NodeID
	dst   NodeID
	inner supergraph.Edge
}

// New is [Graph] constructor.
func New() *Graph {
	return &Graph{
		byTriple: map[Triple]NodeID{},
		byEdge:   map[edgeKey]EdgeID{},
	}
}

// Graph is an error graph.
type Graph struct {
	nodes    []*Node
	edges    []*Edge
	byTriple map[Triple]NodeID
	byEdge   map[edgeKey]EdgeID

	aliveNodes int
	aliveEdges int
}

// AddNode returns the node for the triple, creating it if needed. The flag is true
// when the node was created by this call.
//
// A triple whose node was removed still resolves to that removed node.
func (g *Graph) AddNode(t Triple, m solution.Match) (NodeID, bool) {
	if id, ok := g.byTriple[t]; ok {
		return id, false
	}

	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{
		Triple: t,
		ID:     id,
		Match:  m,
	})
	g.byTriple[t] = id
	g.aliveNodes++
	return id, true
}

// AddEdge returns the edge between the nodes along the given supergraph edge,
// creating it if needed. Both nodes must be alive.
func (g *Graph) AddEdge(src, dst NodeID, inner supergraph.Edge) (EdgeID, bool) {
	key := edgeKey{src: src, dst: dst, inner: inner}
	if id, ok := g.byEdge[key]; ok {
		return id, false
	}

	if !g.Contains(src) || !g.Contains(dst) {
		panic(fmt.Sprintf("errgraph: edge %d -> %d between missing nodes", src, dst))
	}

	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, &Edge{
		ID:    id,
		Src:   src,
		Dst:   dst,
		Inner: inner,
	})
	g.byEdge[key] = id
	g.nodes[src].succs = append(g.nodes[src].succs, id)
	g.nodes[dst].preds = append(g.nodes[dst].preds, id)
	g.aliveEdges++
	return id, true
}

// Lookup finds an alive node by its triple.
func (g *Graph) Lookup(t Triple) (NodeID, bool) {
	id, ok := g.byTriple[t]
	if !ok || g.nodes[id].removed {
		return 0, false
	}

	return id, true
}

// Known finds a node by its triple, including removed nodes.
func (g *Graph) Known(t Triple) (NodeID, bool) {
	id, ok := g.byTriple[t]
	return id, ok
}

// Contains checks if the node exists and was not removed.
func (g *Graph) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes) && !g.nodes[id].removed
}

// Node returns an alive node or nil.
func (g *Graph) Node(id NodeID) *Node {
	if !g.Contains(id) {
		return nil
	}

	return g.nodes[id]
}

// Edge returns an alive edge or nil.
func (g *Graph) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(g.edges) || g.edges[id].removed {
		return nil
	}

	return g.edges[id]
}

// NodeCount returns the number of alive nodes.
func (g *Graph) NodeCount() int {
	return g.aliveNodes
}

// EdgeCount returns the number of alive edges.
func (g *Graph) EdgeCount() int {
	return g.aliveEdges
}

// Nodes iterates over alive nodes in creation order.
func (g *Graph) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range g.nodes {
			if n.removed {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Edges iterates over alive edges in creation order.
func (g *Graph) Edges() iter.Seq[*Edge] {
	return func(yield func(*Edge) bool) {
		for _, e := range g.edges {
			if e.removed {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Preds iterates over alive edges entering the node.
func (g *Graph) Preds(id NodeID) iter.Seq[*Edge] {
	return g.incident(id, func(n *Node) []EdgeID { return n.preds })
}

// Succs iterates over alive edges leaving the node.
func (g *Graph) Succs(id NodeID) iter.Seq[*Edge] {
	return g.incident(id, func(n *Node) []EdgeID { return n.succs })
}

func (g *Graph) incident(id NodeID, list func(n *Node) []EdgeID) iter.Seq[*Edge] {
	return func(yield func(*Edge) bool) {
		n := g.Node(id)
		if n == nil {
			return
		}

		for _, eid := range list(n) {
			e := g.edges[eid]
			if e.removed {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Orphaned returns true for an alive node that used to have incoming edges and has
// lost all of them.
func (g *Graph) Orphaned(id NodeID) bool {
	n := g.Node(id)
	if n == nil || len(n.preds) == 0 {
		return false
	}

	for range g.Preds(id) {
		return false
	}

	return true
}

// RemoveEdge deletes an edge. Returns false if it was already gone.
func (g *Graph) RemoveEdge(id EdgeID) bool {
	e := g.Edge(id)
	if e == nil {
		return false
	}

	e.removed = true
	g.aliveEdges--
	return true
}

// RemoveNode deletes a node with all its edges. Returns false if it was already gone.
func (g *Graph) RemoveNode(id NodeID) bool {
	n := g.Node(id)
	if n == nil {
		return false
	}

	for _, eid := range n.preds {
		g.RemoveEdge(eid)
	}
	for _, eid := range n.succs {
		g.RemoveEdge(eid)
	}

	n.removed = true
	g.aliveNodes--
	return true
}

// Annotate attaches an annotation to an alive node.
func (g *Graph) Annotate(id NodeID, a Annotation) {
	if n := g.Node(id); n != nil {
		n.annotation = a
	}
}
