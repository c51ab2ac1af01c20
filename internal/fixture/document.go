package fixture

import (
	"github.com/sirkon/smpath/internal/supergraph"
)

type document struct {
	Name         string          `yaml:"name"`
	DefaultState string          `yaml:"default-state"`
	Go           *goDoc          `yaml:"go"`
	Points       []pointDoc      `yaml:"points"`
	Edges        []edgeDoc       `yaml:"edges"`
	Entries      []string        `yaml:"entries"`
	Transitions  []transitionDoc `yaml:"transitions"`
	Reachable    []reachableDoc  `yaml:"reachable"`
	Violations   []violationDoc  `yaml:"violations"`
}

// goDoc is a Go source file whose functions make up the supergraph. Points are
// named after blocks: <function>.b<index>.
type goDoc struct {
	File   string `yaml:"file"`
	Source string `yaml:"source"`
}

type pointDoc struct {
	Name string `yaml:"name"`

	// Lines is either [line] or [start, end].
	Lines []int `yaml:"lines"`
}

type edgeDoc struct {
	From   string            `yaml:"from"`
	To     string            `yaml:"to"`
	Branch supergraph.Branch `yaml:"branch"`
	Facts  []string          `yaml:"facts"`
}

type transitionDoc struct {
	At      string `yaml:"at"`
	Expr    string `yaml:"expr"`
	State   string `yaml:"state"`
	To      string `yaml:"to"`
	ToExpr  string `yaml:"to-expr"`
	ToState string `yaml:"to-state"`
	Match   string `yaml:"match"`
}

type reachableDoc struct {
	At     string   `yaml:"at"`
	Expr   string   `yaml:"expr"`
	States []string `yaml:"states"`
}

type violationDoc struct {
	At     string  `yaml:"at"`
	Line   int     `yaml:"line"`
	Expr   string  `yaml:"expr"`
	State  string  `yaml:"state"`
	Expect *Expect `yaml:"expect"`
}
