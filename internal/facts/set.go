package facts

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/sirkon/smpath/internal/solution"
)

// Term is either a tracked expression or a constant.
type Term struct {
	Name  string
	Const bool
}

func exprTerm(e solution.Expr) Term {
	return Term{Name: string(e)}
}

func constTerm(v string) Term {
	return Term{Name: v, Const: true}
}

func (t Term) String() string {
	return t.Name
}

func compareTerms(a, b Term) int {
	if a.Const != b.Const {
		if a.Const {
			return 1
		}
		return -1
	}

	return cmp.Compare(a.Name, b.Name)
}

// Fact is an equality or an inequality of two terms.
type Fact struct {
	Left  Term
	Right Term
	Equal bool
}

func newFact(a, b Term, equal bool) Fact {
	if compareTerms(a, b) > 0 {
		a, b = b, a
	}

	return Fact{Left: a, Right: b, Equal: equal}
}

func (f Fact) String() string {
	if f.Equal {
		return f.Left.String() + " == " + f.Right.String()
	}

	return f.Left.String() + " != " + f.Right.String()
}

func (f Fact) mentions(e solution.Expr) bool {
	t := exprTerm(e)
	return f.Left == t || f.Right == t
}

// NewSet is [Set] constructor.
func NewSet() *Set {
	return &Set{facts: map[Fact]struct{}{}}
}

// Set keeps facts known at a node.
type Set struct {
	facts      map[Fact]struct{}
	infeasible bool
}

// Clone returns a full copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		facts:      maps.Clone(s.facts),
		infeasible: s.infeasible,
	}
}

// --- Setters --------------------------------------------------------------------------------------------------------

// Apply adds what the constraint says to the set.
//
// Possible issues are:
//
//   - The constraint is already implied by known facts.
//   - The constraint contradicts known facts. The set becomes infeasible then and stays so.
func (s *Set) Apply(c Constraint) Status {
	switch c.Op {
	case OpEq:
		return s.add(newFact(exprTerm(c.Expr), constTerm(c.Value), true))
	case OpNe:
		return s.add(newFact(exprTerm(c.Expr), constTerm(c.Value), false))
	case OpSame:
		return s.add(newFact(exprTerm(c.Expr), exprTerm(solution.Expr(c.Value)), true))
	case OpAssign:
		s.forget(c.Expr)
		return s.add(newFact(exprTerm(c.Expr), constTerm(c.Value), true))
	case OpForget:
		if s.infeasible {
			return StatusContradict
		}
		s.forget(c.Expr)
		return StatusOK
	default:
		panic("facts: unknown constraint operation " + c.Op.String())
	}
}

func (s *Set) add(f Fact) Status {
	if s.infeasible {
		return StatusContradict
	}

	if s.implies(f) {
		return StatusDuplicate
	}

	s.facts[f] = struct{}{}
	if !s.consistent() {
		s.infeasible = true
		return StatusContradict
	}

	return StatusOK
}

// forget drops every fact about the expression.
func (s *Set) forget(e solution.Expr) {
	maps.DeleteFunc(s.facts, func(f Fact, _ struct{}) bool {
		return f.mentions(e)
	})
}

// --- Getters --------------------------------------------------------------------------------------------------------

// Infeasible returns true if facts contradict each other.
func (s *Set) Infeasible() bool {
	return s.infeasible
}

// Facts returns known facts in a stable order.
func (s *Set) Facts() []Fact {
	res := slices.Collect(maps.Keys(s.facts))
	slices.SortFunc(res, func(a, b Fact) int {
		return cmp.Compare(a.String(), b.String())
	})
	return res
}

// Classes partitions terms mentioned by equalities into equivalence classes.
func (s *Set) Classes() [][]Term {
	uf := s.unionFind()

	groups := map[Term][]Term{}
	for t := range uf.parent {
		root := uf.find(t)
		groups[root] = append(groups[root], t)
	}

	res := make([][]Term, 0, len(groups))
	for _, g := range groups {
		slices.SortFunc(g, compareTerms)
		res = append(res, g)
	}
	slices.SortFunc(res, func(a, b []Term) int {
		return compareTerms(a[0], b[0])
	})
	return res
}

// Equal checks if both sets know the same.
func (s *Set) Equal(o *Set) bool {
	if s.infeasible != o.infeasible || len(s.facts) != len(o.facts) {
		return false
	}

	for f := range s.facts {
		if _, ok := o.facts[f]; !ok {
			return false
		}
	}

	return true
}

func (s *Set) String() string {
	if s.infeasible {
		return "INFEASIBLE"
	}

	facts := s.Facts()
	parts := make([]string, len(facts))
	for i, f := range facts {
		parts[i] = f.String()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// intersect keeps facts implied by both sets. Candidates are the closures of
// both sides, so equalities one side states directly and the other derives
// through its classes survive.
func intersect(a, b *Set) *Set {
	switch {
	case a.infeasible && b.infeasible:
		return a.Clone()
	case a.infeasible:
		return b.Clone()
	case b.infeasible:
		return a.Clone()
	}

	res := NewSet()
	for _, f := range slices.Concat(a.closure(), b.closure()) {
		if a.implies(f) && b.implies(f) {
			res.facts[f] = struct{}{}
		}
	}

	return res
}

// closure lists every equality between terms of a class, constants aside, and
// the known inequalities.
func (s *Set) closure() []Fact {
	var res []Fact
	for _, class := range s.Classes() {
		for i, l := range class {
			for _, r := range class[i+1:] {
				if l.Const && r.Const {
					continue
				}
				res = append(res, newFact(l, r, true))
			}
		}
	}

	for f := range s.facts {
		if !f.Equal {
			res = append(res, f)
		}
	}

	return res
}

func (s *Set) implies(f Fact) bool {
	if _, ok := s.facts[f]; ok {
		return true
	}

	uf := s.unionFind()
	uf.add(f.Left)
	uf.add(f.Right)
	l, r := uf.find(f.Left), uf.find(f.Right)
	if f.Equal {
		return l == r
	}

	lc, lok := uf.constant[l]
	rc, rok := uf.constant[r]
	if lok && rok && lc != rc {
		return true
	}

	for g := range s.facts {
		if g.Equal {
			continue
		}
		gl, gr := uf.find(g.Left), uf.find(g.Right)
		if (gl == l && gr == r) || (gl == r && gr == l) {
			return true
		}
	}

	return false
}

func (s *Set) consistent() bool {
	uf := s.unionFind()
	if uf.clash {
		return false
	}

	for f := range s.facts {
		if f.Equal {
			continue
		}
		if uf.find(f.Left) == uf.find(f.Right) {
			return false
		}
	}

	return true
}

func (s *Set) unionFind() *unionFind {
	uf := &unionFind{
		parent:   map[Term]Term{},
		constant: map[Term]Term{},
	}

	// Stable order keeps class roots reproducible.
	for _, f := range s.Facts() {
		uf.add(f.Left)
		uf.add(f.Right)
		if f.Equal {
			uf.union(f.Left, f.Right)
		}
	}

	return uf
}

// --- Types for status setting part ----------------------------------------------------------------------------------

// Status represents possible issues that can be arisen when a constraint was applied.
type Status int

const (
	statusInvalid Status = iota

	// StatusOK the constraint brought a new fact.
	StatusOK

	// StatusDuplicate the constraint was known already. Something like
	//
	//    if x == 5 {
	//        if x == 5 {
	StatusDuplicate

	// StatusContradict the constraint contradicts what is known. Something like
	//
	//    x := 3
	//    if x == 5 {
	//
	// Whatever is behind this is unreachable.
	StatusContradict
)

var statusValueMap = map[Status]string{
	StatusOK:         "ok",
	StatusDuplicate:  "duplicate",
	StatusContradict: "contradict",
}

func (s Status) String() string {
	v, ok := statusValueMap[s]
	if !ok {
		return "invalid"
	}

	return v
}
