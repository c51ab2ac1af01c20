package supergraph

import (
	"fmt"
)

// NewStatic is [Static] constructor.
func NewStatic() *Static {
	return &Static{
		nodes: map[string]*Node{},
	}
}

// Static is an in-memory supergraph with named points.
//
// It is filled with AddPoint, Connect and MarkEntry and must not be changed once
// handed over to reconstruction.
type Static struct {
	nodes   map[string]*Node
	order   []*Node
	entries []Point
}

// Node is a named point of a [Static] graph.
type Node struct {
	name  string
	preds []Edge
	succs []Edge
}

func (n *Node) String() string {
	return n.name
}

// Link is an edge of a [Static] graph.
type Link struct {
	src    *Node
	dst    *Node
	branch Branch
}

// Src returns the edge origin.
func (l *Link) Src() Point { return l.src }

// Dst returns the edge target.
func (l *Link) Dst() Point { return l.dst }

// Branch returns the branch tag of the edge.
func (l *Link) Branch() Branch { return l.branch }

func (l *Link) String() string {
	if l.branch == BranchNone {
		return l.src.name + " -> " + l.dst.name
	}

	return fmt.Sprintf("%s -> %s [%s]", l.src.name, l.dst.name, l.branch)
}

// AddPoint registers a new point. Names are unique.
func (g *Static) AddPoint(name string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("empty point name")
	}
	if _, ok := g.nodes[name]; ok {
		return nil, fmt.Errorf("duplicate point %q", name)
	}

	n := &Node{name: name}
	g.nodes[name] = n
	g.order = append(g.order, n)
	return n, nil
}

// Point looks up a point by its name.
func (g *Static) Point(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Points returns all points in the order they were added.
func (g *Static) Points() []Point {
	res := make([]Point, len(g.order))
	for i, n := range g.order {
		res[i] = n
	}

	return res
}

// Connect adds an edge between two existing points.
func (g *Static) Connect(src, dst string, branch Branch) (*Link, error) {
	s, ok := g.nodes[src]
	if !ok {
		return nil, fmt.Errorf("connect unknown source point %q", src)
	}
	d, ok := g.nodes[dst]
	if !ok {
		return nil, fmt.Errorf("connect unknown destination point %q", dst)
	}

	l := &Link{src: s, dst: d, branch: branch}
	s.succs = append(s.succs, l)
	d.preds = append(d.preds, l)
	return l, nil
}

// MarkEntry makes an existing point an entry point.
func (g *Static) MarkEntry(name string) error {
	n, ok := g.nodes[name]
	if !ok {
		return fmt.Errorf("mark unknown point %q as entry", name)
	}

	for _, e := range g.entries {
		if e == Point(n) {
			return nil
		}
	}

	g.entries = append(g.entries, n)
	return nil
}

// Predecessors implements [Graph].
func (g *Static) Predecessors(p Point) []Edge {
	n, ok := p.(*Node)
	if !ok {
		return nil
	}

	return n.preds
}

// Successors implements [Graph].
func (g *Static) Successors(p Point) []Edge {
	n, ok := p.(*Node)
	if !ok {
		return nil
	}

	return n.succs
}

// EntryPoints implements [Graph].
func (g *Static) EntryPoints() []Point {
	return g.entries
}

var _ Graph = (*Static)(nil)
