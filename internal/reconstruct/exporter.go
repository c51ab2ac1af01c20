package reconstruct

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirkon/smpath/internal/errgraph"
)

// NewExporter is [Exporter] constructor. Graphs are written into the directory.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Exporter writes error graphs as DOT files named error_graph_1.dot,
// error_graph_2.dot and so on. The numbering is per exporter.
type Exporter struct {
	dir string

	mu   sync.Mutex
	last int
}

// Export writes the graph into the next file and returns its name.
func (e *Exporter) Export(g *errgraph.Graph, v Violation) (res string, err error) {
	e.mu.Lock()
	e.last++
	name := fmt.Sprintf("error_graph_%d", e.last)
	e.mu.Unlock()

	res = filepath.Join(e.dir, name+".dot")
	file, err := os.Create(res)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close file: %w", cerr)
		}
	}()

	if err := g.WriteDot(file, name+": "+v.String()); err != nil {
		return "", fmt.Errorf("write graph: %w", err)
	}

	return res, nil
}

// Exported returns the number of graphs exported so far.
func (e *Exporter) Exported() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}
