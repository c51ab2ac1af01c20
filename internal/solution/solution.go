package solution

import (
	"iter"
	"slices"

	"github.com/sirkon/smpath/internal/supergraph"
)

// New is [Solution] constructor.
func New() *Solution {
	return &Solution{
		changes: map[supergraph.Point]*pointChanges{},
		states:  map[supergraph.Point]*pointStates{},
	}
}

// Solution is the frozen result of the forward analysis. It implements both
// [TransitionTable] and [ReachabilityTable].
//
// Writers must not run concurrently with anything else. Once frozen the solution can
// be shared between any number of readers.
type Solution struct {
	changes map[supergraph.Point]*pointChanges
	states  map[supergraph.Point]*pointStates
	frozen  bool
}

type pointChanges struct {
	keys  []Key
	byKey map[Key][]Transition
	seen  map[transitionID]struct{}
}

type transitionID struct {
	key   Key
	point supergraph.Point
	expr  Expr
	state State
	match string
}

type pointStates struct {
	exprs  []Expr
	byExpr map[Expr][]State
}

// AddTransition records a transition reachable from p under the given key.
// Duplicates are dropped.
func (s *Solution) AddTransition(p supergraph.Point, key Key, t Transition) {
	s.mustBeOpen()

	pc, ok := s.changes[p]
	if !ok {
		pc = &pointChanges{
			byKey: map[Key][]Transition{},
			seen:  map[transitionID]struct{}{},
		}
		s.changes[p] = pc
	}

	id := transitionID{
		key:   key,
		point: t.Point,
		expr:  t.Expr,
		state: t.State,
		match: t.Match.Describe(),
	}
	if _, ok := pc.seen[id]; ok {
		return
	}
	pc.seen[id] = struct{}{}

	if _, ok := pc.byKey[key]; !ok {
		pc.keys = append(pc.keys, key)
	}
	pc.byKey[key] = append(pc.byKey[key], t)
}

// AddReachable records that the state is reachable for the expression at p.
func (s *Solution) AddReachable(p supergraph.Point, expr Expr, state State) {
	s.mustBeOpen()

	ps, ok := s.states[p]
	if !ok {
		ps = &pointStates{byExpr: map[Expr][]State{}}
		s.states[p] = ps
	}

	states, ok := ps.byExpr[expr]
	if !ok {
		ps.exprs = append(ps.exprs, expr)
	}
	if slices.Contains(states, state) {
		return
	}
	ps.byExpr[expr] = append(states, state)
}

// Freeze makes the solution read-only.
func (s *Solution) Freeze() {
	s.frozen = true
}

// Frozen returns true if the solution was frozen.
func (s *Solution) Frozen() bool {
	return s.frozen
}

func (s *Solution) mustBeOpen() {
	if s.frozen {
		panic("solution: modification of a frozen solution")
	}
}

// Transitions implements [TransitionTable].
func (s *Solution) Transitions(p supergraph.Point) iter.Seq2[Key, Transition] {
	return func(yield func(Key, Transition) bool) {
		pc, ok := s.changes[p]
		if !ok {
			return
		}

		for _, key := range pc.keys {
			for _, t := range pc.byKey[key] {
				if !yield(key, t) {
					return
				}
			}
		}
	}
}

// Reachable implements [ReachabilityTable].
func (s *Solution) Reachable(p supergraph.Point) iter.Seq2[Expr, []State] {
	return func(yield func(Expr, []State) bool) {
		ps, ok := s.states[p]
		if !ok {
			return
		}

		for _, expr := range ps.exprs {
			if !yield(expr, slices.Clone(ps.byExpr[expr])) {
				return
			}
		}
	}
}

var (
	_ TransitionTable   = (*Solution)(nil)
	_ ReachabilityTable = (*Solution)(nil)
)
