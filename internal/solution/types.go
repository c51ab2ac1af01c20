package solution

import (
	"iter"

	"github.com/sirkon/smpath/internal/supergraph"
)

// Expr is a handle of a tracked expression. The zero value is the absent expression.
type Expr string

// NoExpr is the absent expression used at entry points and by expression
// agnostic transitions.
const NoExpr Expr = ""

// Absent returns true for [NoExpr].
func (e Expr) Absent() bool {
	return e == NoExpr
}

func (e Expr) String() string {
	if e.Absent() {
		return "<none>"
	}

	return string(e)
}

// State is a state of the checker's state machine.
type State string

func (s State) String() string {
	return string(s)
}

// Key is the (source expression, source state) pair transitions are recorded under.
type Key struct {
	Expr  Expr
	State State
}

// Transition is a forward step proven reachable by the analysis.
type Transition struct {
	Point supergraph.Point
	Expr  Expr
	State State
	Match Match
}

// TransitionTable is a read-only lookup of recorded transitions.
type TransitionTable interface {
	// Transitions iterates over transitions recorded at the given point.
	Transitions(p supergraph.Point) iter.Seq2[Key, Transition]
}

// ReachabilityTable is a read-only lookup of reachable states.
type ReachabilityTable interface {
	// Reachable iterates over expressions and their reachable states at the given point.
	Reachable(p supergraph.Point) iter.Seq2[Expr, []State]
}
