package ssagraph

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/sirkon/smpath/internal/facts"
	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/srcindex"
	"github.com/sirkon/smpath/internal/supergraph"
)

// Block is a point of the supergraph.
type Block struct {
	fn    *ssa.Function
	block *ssa.BasicBlock
	preds []supergraph.Edge
	succs []supergraph.Edge
}

// Function returns the function the block belongs to.
func (b *Block) Function() *ssa.Function {
	return b.fn
}

// BasicBlock returns the underlying basic block.
func (b *Block) BasicBlock() *ssa.BasicBlock {
	return b.block
}

func (b *Block) String() string {
	name := b.fn.String()
	if b.fn.Pkg != nil {
		name = b.fn.RelString(b.fn.Pkg.Pkg)
	}

	return fmt.Sprintf("%s.b%d", name, b.block.Index)
}

// Jump is an edge between basic blocks.
type Jump struct {
	src    *Block
	dst    *Block
	branch supergraph.Branch
}

// Src returns the edge origin.
func (j *Jump) Src() supergraph.Point { return j.src }

// Dst returns the edge target.
func (j *Jump) Dst() supergraph.Point { return j.dst }

// Branch returns the branch tag of the edge.
func (j *Jump) Branch() supergraph.Branch { return j.branch }

func (j *Jump) String() string {
	if j.branch == supergraph.BranchNone {
		return j.src.String() + " -> " + j.dst.String()
	}

	return fmt.Sprintf("%s -> %s [%s]", j.src, j.dst, j.branch)
}

// Graph is a supergraph over basic blocks of SSA functions. It also serves as a
// [facts.Source] for its edges.
type Graph struct {
	fset        *token.FileSet
	blocks      map[*ssa.BasicBlock]*Block
	order       []*Block
	entries     []supergraph.Point
	constraints map[supergraph.Edge][]facts.Constraint
	files       map[string]*srcindex.Index
}

// New builds a graph over the given functions. Functions without a body are skipped.
func New(fset *token.FileSet, fns ...*ssa.Function) (*Graph, error) {
	g := &Graph{
		fset:        fset,
		blocks:      map[*ssa.BasicBlock]*Block{},
		constraints: map[supergraph.Edge][]facts.Constraint{},
		files:       map[string]*srcindex.Index{},
	}

	for _, fn := range fns {
		if len(fn.Blocks) == 0 {
			continue
		}

		for _, b := range fn.Blocks {
			blk := &Block{fn: fn, block: b}
			g.blocks[b] = blk
			g.order = append(g.order, blk)
		}
		g.entries = append(g.entries, g.blocks[fn.Blocks[0]])
	}

	for _, blk := range g.order {
		if err := g.connect(blk); err != nil {
			return nil, fmt.Errorf("connect %s: %w", blk, err)
		}
	}

	tracked := g.trackedValues()
	for _, blk := range g.order {
		for _, e := range blk.succs {
			g.constrain(e.(*Jump), tracked)
		}
	}

	if err := g.indexSources(fns); err != nil {
		return nil, fmt.Errorf("index sources: %w", err)
	}

	return g, nil
}

// FromPackage builds a graph over every function of the package including
// anonymous ones.
func FromPackage(fset *token.FileSet, pkg *ssa.Package) (*Graph, error) {
	var fns []*ssa.Function
	var collect func(fn *ssa.Function)
	collect = func(fn *ssa.Function) {
		fns = append(fns, fn)
		for _, anon := range fn.AnonFuncs {
			collect(anon)
		}
	}

	for _, name := range memberNames(pkg) {
		if fn, ok := pkg.Members[name].(*ssa.Function); ok {
			collect(fn)
		}
	}

	return New(fset, fns...)
}

func (g *Graph) connect(blk *Block) error {
	succs := blk.block.Succs
	var branches []supergraph.Branch
	switch len(succs) {
	case 0:
		return nil
	case 1:
		branches = []supergraph.Branch{supergraph.BranchNone}
	case 2:
		branches = []supergraph.Branch{supergraph.BranchTrue, supergraph.BranchFalse}
	default:
		return fmt.Errorf("unexpected number of successors %d", len(succs))
	}

	for i, s := range succs {
		dst, ok := g.blocks[s]
		if !ok {
			return fmt.Errorf("successor %d belongs to an unknown function", s.Index)
		}

		j := &Jump{src: blk, dst: dst, branch: branches[i]}
		blk.succs = append(blk.succs, j)
		dst.preds = append(dst.preds, j)
	}

	return nil
}

// Block returns the point of the basic block.
func (g *Graph) Block(b *ssa.BasicBlock) (*Block, bool) {
	blk, ok := g.blocks[b]
	return blk, ok
}

// Points returns all blocks in the order of functions and their block indices.
func (g *Graph) Points() []supergraph.Point {
	res := make([]supergraph.Point, len(g.order))
	for i, b := range g.order {
		res[i] = b
	}

	return res
}

// At returns the innermost block covering the source line of the file.
func (g *Graph) At(filename string, line int) (*Block, bool) {
	x, ok := g.files[filename]
	if !ok {
		return nil, false
	}

	p, ok := x.At(line)
	if !ok {
		return nil, false
	}

	return p.(*Block), true
}

// Predecessors implements [supergraph.Graph].
func (g *Graph) Predecessors(p supergraph.Point) []supergraph.Edge {
	blk, ok := p.(*Block)
	if !ok {
		return nil
	}

	return blk.preds
}

// Successors implements [supergraph.Graph].
func (g *Graph) Successors(p supergraph.Point) []supergraph.Edge {
	blk, ok := p.(*Block)
	if !ok {
		return nil
	}

	return blk.succs
}

// EntryPoints implements [supergraph.Graph].
func (g *Graph) EntryPoints() []supergraph.Point {
	return g.entries
}

// Constraints implements [facts.Source].
func (g *Graph) Constraints(e supergraph.Edge) []facts.Constraint {
	return g.constraints[e]
}

// ValueExpr returns the expression handle used for the SSA value in constraints.
func ValueExpr(v ssa.Value) solution.Expr {
	return solution.Expr(v.Name())
}

var (
	_ supergraph.Graph = (*Graph)(nil)
	_ facts.Source     = (*Graph)(nil)
)

func constString(c *ssa.Const) string {
	if c.Value == nil {
		return "nil"
	}
	return c.Value.ExactString()
}
