package facts

import (
	"fmt"
	"strings"

	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

// Op is a constraint operation.
type Op int

const (
	opInvalid Op = iota

	// OpEq requires the expression to be equal to a constant.
	OpEq

	// OpNe requires the expression to differ from a constant.
	OpNe

	// OpAssign sets the expression to a constant, forgetting whatever was known about it.
	OpAssign

	// OpSame requires the expression to be equal to another expression.
	OpSame

	// OpForget drops whatever was known about the expression.
	OpForget
)

var opValueMap = map[Op]string{
	OpEq:     "==",
	OpNe:     "!=",
	OpAssign: ":=",
	OpSame:   "same",
	OpForget: "forget",
}

func (o Op) String() string {
	v, ok := opValueMap[o]
	if !ok {
		return fmt.Sprintf("invalid(%d)", o)
	}

	return v
}

// UnmarshalText for setting values with fixtures.
func (o *Op) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range opValueMap {
		if v == text {
			*o = k
			return nil
		}
	}

	return fmt.Errorf("unknown constraint operation %q", text)
}

// Constraint is what traversing a supergraph edge tells about values.
//
//	x == 5 // Expr: "x", Op: OpEq, Value: "5"
//	x := 3 // Expr: "x", Op: OpAssign, Value: "3"
//	x == y // Expr: "x", Op: OpSame, Value: "y"
//	x := ? // Expr: "x", Op: OpForget
type Constraint struct {
	Expr  solution.Expr
	Op    Op
	Value string
}

func (c Constraint) String() string {
	switch c.Op {
	case OpSame:
		return fmt.Sprintf("%s same %s", c.Expr, c.Value)
	case OpForget:
		return fmt.Sprintf("%s := ?", c.Expr)
	}

	return fmt.Sprintf("%s %s %s", c.Expr, c.Op, c.Value)
}

// Source tells which constraints hold after traversing a supergraph edge.
type Source interface {
	Constraints(e supergraph.Edge) []Constraint
}

// NewTable is [Table] constructor.
func NewTable() *Table {
	return &Table{
		byEdge: map[supergraph.Edge][]Constraint{},
	}
}

// Table is a [Source] filled edge by edge.
type Table struct {
	byEdge map[supergraph.Edge][]Constraint
}

// Add appends constraints to the edge.
func (t *Table) Add(e supergraph.Edge, cs ...Constraint) {
	t.byEdge[e] = append(t.byEdge[e], cs...)
}

// Constraints implements [Source].
func (t *Table) Constraints(e supergraph.Edge) []Constraint {
	return t.byEdge[e]
}

var _ Source = (*Table)(nil)

// ParseConstraint parses the text form of a constraint:
//
//	x == 5
//	x != 5
//	x := 3
//	x same y
//	x := ?
func ParseConstraint(text string) (Constraint, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return Constraint{}, fmt.Errorf("constraint %q must be three words", text)
	}

	var op Op
	if err := op.UnmarshalText([]byte(parts[1])); err != nil {
		return Constraint{}, fmt.Errorf("parse constraint %q: %w", text, err)
	}

	if op == OpAssign && parts[2] == "?" {
		return Constraint{Expr: solution.Expr(parts[0]), Op: OpForget}, nil
	}
	if op == OpForget {
		return Constraint{}, fmt.Errorf("parse constraint %q: use %q to forget", text, parts[0]+" := ?")
	}

	return Constraint{Expr: solution.Expr(parts[0]), Op: op, Value: parts[2]}, nil
}
