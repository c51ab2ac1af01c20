package srcindex

import (
	"fmt"

	"github.com/sirkon/rbtree"

	"github.com/sirkon/smpath/internal/supergraph"
)

// pointSpan stores a [start,end] span of a point and a nested tree for spans
// fully contained in it.
type pointSpan struct {
	start int
	end   int

	point    supergraph.Point
	children *rbtree.Tree[*pointSpan]
}

// Cmp orders spans as "disjoint by position":
//   - -1 if this span ends before the other starts
//   - 1 if this span starts after the other ends
//   - 0 if they overlap, containment included
func (n *pointSpan) Cmp(other *pointSpan) int {
	if n.end < other.start {
		return -1
	}
	if n.start > other.end {
		return 1
	}
	return 0
}

func contains(a, b *pointSpan) bool {
	return a.start <= b.start && a.end >= b.end
}

// attachInto inserts span s into tree t:
//   - s does not overlap anything in t: s becomes a new top level entry.
//   - s overlaps r and contains it: r is overwritten with s in-place and the old r
//     is attached as a child of s.
//   - r contains s: s descends into r children.
func attachInto(t *rbtree.Tree[*pointSpan], s *pointSpan) error {
	r := t.InsertReturn(s)
	if r == s {
		return nil
	}

	if contains(s, r) {
		old := *r
		*r = *s
		if r.children == nil {
			r.children = rbtree.New[*pointSpan]()
		}
		return attachInto(r.children, &old)
	}

	if contains(r, s) {
		if r.children == nil {
			r.children = rbtree.New[*pointSpan]()
		}
		return attachInto(r.children, s)
	}

	return fmt.Errorf("span %d-%d of %s partially overlaps span %d-%d of %s", s.start, s.end, s.point, r.start, r.end, r.point)
}

func descendSearch(n *pointSpan, pos int) supergraph.Point {
	if n.children == nil {
		return n.point
	}

	probe := &pointSpan{start: pos, end: pos}
	child := n.children.Search(probe)
	if child == nil {
		return n.point
	}

	return descendSearch(child, pos)
}
