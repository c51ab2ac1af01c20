package errgraph

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirkon/smpath/internal/supergraph"
)

// WriteDot writes alive nodes and edges as a Graphviz digraph.
func (g *Graph) WriteDot(w io.Writer, name string) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %s {\n", dotQuote(name)))
	sb.WriteString("  node [shape=box];\n")
	sb.WriteString("\n")

	for n := range g.Nodes() {
		lines := []string{
			n.Point.String(),
			"expr: " + n.Expr.String(),
			"state: " + n.State.String(),
		}
		if desc := n.Match.Describe(); desc != "" {
			lines = append(lines, "match: "+desc)
		}
		if a := n.Annotation(); a != nil {
			lines = append(lines, "FACTS: "+a.String())
		} else {
			lines = append(lines, "NO FACTS")
		}

		sb.WriteString(fmt.Sprintf("  n%d [label=%s];\n", n.ID, dotLabel(lines)))
	}
	sb.WriteString("\n")

	for e := range g.Edges() {
		if b := e.Inner.Branch(); b != supergraph.BranchNone {
			sb.WriteString(fmt.Sprintf("  n%d -> n%d [label=%s];\n", e.Src, e.Dst, dotQuote(b.String())))
			continue
		}

		sb.WriteString(fmt.Sprintf("  n%d -> n%d;\n", e.Src, e.Dst))
	}

	sb.WriteString("}\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}

	return nil
}

var dotEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\r\n", `\l`,
	"\n", `\l`,
	"\r", `\l`,
)

// dotQuote quotes a string for DOT. Line breaks in it become left-justified ones.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// dotLabel quotes lines as a left-justified multiline label.
func dotLabel(lines []string) string {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = dotEscaper.Replace(line) + `\l`
	}

	return `"` + strings.Join(escaped, "") + `"`
}
