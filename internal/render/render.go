// Package render prints reconstruction results as text traces.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sirkon/smpath/internal/errgraph"
	"github.com/sirkon/smpath/internal/reconstruct"
	"github.com/sirkon/smpath/internal/supergraph"
)

// Printer writes traces. Colors are used only when the writer is a terminal.
type Printer struct {
	w io.Writer

	header     lipgloss.Style
	suppressed lipgloss.Style
	failed     lipgloss.Style
	point      lipgloss.Style
	state      lipgloss.Style
	dim        lipgloss.Style
}

// New is [Printer] constructor.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:          w,
		header:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		suppressed: r.NewStyle().Foreground(lipgloss.Color("240")),
		failed:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		point:      r.NewStyle().Foreground(lipgloss.Color("81")),
		state:      r.NewStyle().Foreground(lipgloss.Color("208")),
		dim:        r.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// Trace prints the result: the path step by step or why the diagnosis is
// suppressed.
func (p *Printer) Trace(res *reconstruct.Result) error {
	var sb strings.Builder

	if res.Suppressed() {
		code := res.Outcome.Code()
		sb.WriteString(p.suppressed.Render(fmt.Sprintf("SUPPRESSED %s", res.Violation)))
		sb.WriteString("\n")
		sb.WriteString(p.dim.Render(fmt.Sprintf("    %s: %s", code, code.Description())))
		sb.WriteString("\n")
		return p.write(sb.String())
	}

	sb.WriteString(p.header.Render(fmt.Sprintf("PATH %s", res.Violation)))
	sb.WriteString(p.dim.Render(fmt.Sprintf("  %d edges, %s", len(res.Path), res.FingerprintString()[:12])))
	sb.WriteString("\n")

	triples := res.Triples()
	width := 0
	for _, t := range triples {
		width = max(width, len(t.Point.String()))
	}
	pointStyle := p.point.Width(width)

	for i, t := range triples {
		var node *errgraph.Node
		var edge *errgraph.Edge
		if i > 0 {
			edge = res.Path[i-1]
			node = res.Graph.Node(edge.Dst)
		} else if len(res.Path) > 0 {
			node = res.Graph.Node(res.Path[0].Src)
		} else if id, ok := res.Graph.Lookup(t); ok {
			node = res.Graph.Node(id)
		}

		sb.WriteString(fmt.Sprintf("%4d  ", i+1))
		sb.WriteString(pointStyle.Render(t.Point.String()))
		sb.WriteString("  ")
		expr := string(t.Expr)
		if t.Expr.Absent() {
			expr = "-"
		}
		sb.WriteString(p.state.Render(fmt.Sprintf("%s: %s", expr, t.State)))

		if edge != nil {
			if b := edge.Inner.Branch(); b != supergraph.BranchNone {
				sb.WriteString(fmt.Sprintf("  (%s)", b))
			}
		}
		if node != nil {
			if desc := node.Match.Describe(); desc != "" {
				sb.WriteString(fmt.Sprintf("  [%s]", desc))
			}
			if a := node.Annotation(); a != nil {
				sb.WriteString(p.dim.Render("  facts " + a.String()))
			}
		}
		sb.WriteString("\n")
	}

	return p.write(sb.String())
}

// Failure prints a failed request.
func (p *Printer) Failure(v reconstruct.Violation, err error) error {
	code := reconstruct.CodeOf(err)
	text := p.failed.Render(fmt.Sprintf("FAILED %s", v)) + "\n" +
		p.dim.Render(fmt.Sprintf("    %s: %s", code, err)) + "\n"
	return p.write(text)
}

func (p *Printer) write(text string) error {
	if _, err := io.WriteString(p.w, text); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}

	return nil
}
