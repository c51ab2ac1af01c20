package srcindex

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sirkon/rbtree"

	"github.com/sirkon/smpath/internal/supergraph"
)

// New is [Index] constructor.
func New() *Index {
	return &Index{}
}

// Index resolves positions into points.
//
// Spans can be added in any order, but two spans must not partially overlap. Lookups
// are not safe to run concurrently with additions.
type Index struct {
	spans []*pointSpan
	tree  *rbtree.Tree[*pointSpan]
}

// Span is an inclusive [Start, End] range of positions.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	if s.Start == s.End {
		return fmt.Sprint(s.Start)
	}

	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Add registers a point with its span.
func (x *Index) Add(p supergraph.Point, s Span) error {
	if s.End < s.Start {
		return fmt.Errorf("invalid span %s of %s", s, p)
	}

	x.spans = append(x.spans, &pointSpan{start: s.Start, end: s.End, point: p})
	x.tree = nil
	return nil
}

// At returns the innermost point covering the position. Of points with equal spans
// the one added first is considered innermost.
func (x *Index) At(pos int) (supergraph.Point, bool) {
	if x.tree == nil {
		if err := x.build(); err != nil {
			panic("srcindex: " + err.Error())
		}
	}

	probe := &pointSpan{start: pos, end: pos}
	res := x.tree.Search(probe)
	if res == nil {
		return nil, false
	}

	return descendSearch(res, pos), true
}

// Check reports partially overlapping spans. Lookups panic on them.
func (x *Index) Check() error {
	if x.tree != nil {
		return nil
	}

	return x.build()
}

// Len returns the number of registered spans.
func (x *Index) Len() int {
	return len(x.spans)
}

// build inserts outer spans first, so every later span is either disjoint from
// what the tree holds or nested into it.
func (x *Index) build() error {
	order := slices.Clone(x.spans)
	slices.SortStableFunc(order, func(a, b *pointSpan) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(b.end, a.end)
	})

	tree := rbtree.New[*pointSpan]()
	for _, s := range order {
		cp := *s
		if err := attachInto(tree, &cp); err != nil {
			return err
		}
	}

	x.tree = tree
	return nil
}
