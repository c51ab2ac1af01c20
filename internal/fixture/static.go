package fixture

import (
	"fmt"

	"github.com/sirkon/smpath/internal/facts"
	"github.com/sirkon/smpath/internal/srcindex"
	"github.com/sirkon/smpath/internal/supergraph"
)

func (f *Fixture) loadStatic(doc *document) (func(int) (supergraph.Point, bool), error) {
	g := supergraph.NewStatic()
	table := facts.NewTable()
	index := srcindex.New()

	for i, p := range doc.Points {
		node, err := g.AddPoint(p.Name)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i+1, err)
		}
		f.points[p.Name] = node

		var span srcindex.Span
		switch len(p.Lines) {
		case 0:
			continue
		case 1:
			span = srcindex.Span{Start: p.Lines[0], End: p.Lines[0]}
		case 2:
			span = srcindex.Span{Start: p.Lines[0], End: p.Lines[1]}
		default:
			return nil, fmt.Errorf("point %s: lines must be [line] or [start, end]", p.Name)
		}
		if err := index.Add(node, span); err != nil {
			return nil, fmt.Errorf("point %s: %w", p.Name, err)
		}
	}

	for i, e := range doc.Edges {
		link, err := g.Connect(e.From, e.To, e.Branch)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i+1, err)
		}

		for _, text := range e.Facts {
			c, err := facts.ParseConstraint(text)
			if err != nil {
				return nil, fmt.Errorf("edge %s: %w", link, err)
			}
			table.Add(link, c)
		}
	}

	if err := index.Check(); err != nil {
		return nil, fmt.Errorf("point lines: %w", err)
	}

	for _, name := range doc.Entries {
		if err := g.MarkEntry(name); err != nil {
			return nil, fmt.Errorf("entries: %w", err)
		}
	}

	f.Graph = g
	f.Facts = table
	return index.At, nil
}
