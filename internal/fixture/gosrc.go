package fixture

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/sirkon/smpath/internal/ssagraph"
	"github.com/sirkon/smpath/internal/supergraph"
)

func (f *Fixture) loadGo(doc *document) (func(int) (supergraph.Point, bool), error) {
	if len(doc.Points) > 0 || len(doc.Edges) > 0 || len(doc.Entries) > 0 {
		return nil, fmt.Errorf("points, edges and entries come from the go source and cannot be set")
	}

	filename := doc.Go.File
	if filename == "" {
		filename = "source.go"
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, doc.Go.Source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}

	pkg, _, err := ssautil.BuildPackage(
		&types.Config{Importer: importer.Default()},
		fset,
		types.NewPackage(file.Name.Name, ""),
		[]*ast.File{file},
		ssa.SanityCheckFunctions,
	)
	if err != nil {
		return nil, fmt.Errorf("build ssa package: %w", err)
	}

	g, err := ssagraph.FromPackage(fset, pkg)
	if err != nil {
		return nil, fmt.Errorf("build supergraph: %w", err)
	}

	for _, p := range g.Points() {
		f.points[p.String()] = p
	}

	f.Graph = g
	f.Facts = g
	return func(line int) (supergraph.Point, bool) {
		blk, ok := g.At(filename, line)
		if !ok {
			return nil, false
		}
		return blk, true
	}, nil
}
