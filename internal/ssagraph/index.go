package ssagraph

import (
	"fmt"
	"go/token"
	"slices"

	"golang.org/x/tools/go/ssa"

	"github.com/sirkon/smpath/internal/srcindex"
)

// indexSources registers line spans of functions and blocks.
//
// A function covers the lines of its syntax and resolves to its entry block. Every
// line holding an instruction of a block resolves to the block, the earliest block
// wins when several share a line.
func (g *Graph) indexSources(fns []*ssa.Function) error {
	for _, fn := range fns {
		if len(fn.Blocks) == 0 {
			continue
		}

		entry := g.blocks[fn.Blocks[0]]
		if syntax := fn.Syntax(); syntax != nil && syntax.Pos().IsValid() {
			start := g.fset.Position(syntax.Pos())
			end := g.fset.Position(syntax.End())
			if err := g.fileIndex(start.Filename).Add(entry, srcindex.Span{Start: start.Line, End: end.Line}); err != nil {
				return fmt.Errorf("add function %s: %w", fn.Name(), err)
			}
		}

		for _, b := range fn.Blocks {
			blk := g.blocks[b]
			seen := map[token.Position]struct{}{}
			for _, instr := range b.Instrs {
				if !instr.Pos().IsValid() {
					continue
				}

				pos := g.fset.Position(instr.Pos())
				key := token.Position{Filename: pos.Filename, Line: pos.Line}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}

				if err := g.fileIndex(pos.Filename).Add(blk, srcindex.Span{Start: pos.Line, End: pos.Line}); err != nil {
					return fmt.Errorf("add block %s: %w", blk, err)
				}
			}
		}
	}

	return nil
}

func (g *Graph) fileIndex(filename string) *srcindex.Index {
	x, ok := g.files[filename]
	if !ok {
		x = srcindex.New()
		g.files[filename] = x
	}

	return x
}

func memberNames(pkg *ssa.Package) []string {
	names := make([]string, 0, len(pkg.Members))
	for name := range pkg.Members {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
