// Package fixture loads reconstruction scenarios from YAML.
//
// A scenario describes a supergraph, either point by point or as Go source turned
// into SSA blocks, the recorded transitions over it and the violations to
// reconstruct paths to:
//
//	name: fact-driven pruning
//	points:
//	  - name: A
//	  - name: B
//	    lines: [3, 5]
//	edges:
//	  - {from: A, to: B, facts: ["x := 3"]}
//	entries: [A]
//	transitions:
//	  - {at: A, state: START, to: B, to-expr: x, to-state: OPEN}
//	violations:
//	  - {line: 4, expr: x, state: OPEN, expect: {outcome: path, path: [A, B]}}
package fixture

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/sirkon/smpath/internal/facts"
	"github.com/sirkon/smpath/internal/reconstruct"
	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

const defaultState solution.State = "START"

// Fixture is a loaded scenario. DefaultState is empty when the scenario does not
// set it.
type Fixture struct {
	Name         string
	DefaultState solution.State
	Graph        supergraph.Graph
	Facts        facts.Source
	Solution     *solution.Solution
	Violations   []Violation

	points map[string]supergraph.Point
}

// Violation to reconstruct a path to with what is expected of it.
type Violation struct {
	reconstruct.Violation
	Expect *Expect
}

// Expect is an expected outcome of a reconstruction. Path lists point names.
type Expect struct {
	Outcome reconstruct.Outcome `yaml:"outcome"`
	Path    []string            `yaml:"path"`
}

// Check compares a reconstruction result with the expectation. Violations
// without one accept anything. The path is checked only when it is listed.
func (v Violation) Check(res *reconstruct.Result) error {
	if v.Expect == nil {
		return nil
	}

	if res.Outcome != v.Expect.Outcome {
		return fmt.Errorf("%s: got %s, expected %s", v.Violation, res.Outcome, v.Expect.Outcome)
	}

	if v.Expect.Path == nil {
		return nil
	}

	var got []string
	for _, t := range res.Triples() {
		got = append(got, t.Point.String())
	}
	if !slices.Equal(got, v.Expect.Path) {
		return fmt.Errorf("%s: got path %v, expected %v", v.Violation, got, v.Expect.Path)
	}

	return nil
}

// Point looks up a point by its name.
func (f *Fixture) Point(name string) (supergraph.Point, bool) {
	p, ok := f.points[name]
	return p, ok
}

// Queries returns violations of the scenario.
func (f *Fixture) Queries() []reconstruct.Violation {
	res := make([]reconstruct.Violation, len(f.Violations))
	for i, v := range f.Violations {
		res[i] = v.Violation
	}

	return res
}

// Reconstructor creates a reconstructor over the scenario with its fact engine.
// Entry triples use START when the default state is not set.
func (f *Fixture) Reconstructor(opts reconstruct.Options) *reconstruct.Reconstructor {
	return reconstruct.New(f.Graph, f.Solution, facts.NewEngine(f.Facts), cmp.Or(f.DefaultState, defaultState), opts)
}

// LoadFile loads a scenario from the file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	f, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load file %s: %w", path, err)
	}

	return f, nil
}

// Load decodes and builds a scenario. The solution of the result is frozen.
func Load(r io.Reader) (*Fixture, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	f := &Fixture{
		Name:         doc.Name,
		DefaultState: solution.State(doc.DefaultState),
		Solution:     solution.New(),
		points:       map[string]supergraph.Point{},
	}

	var (
		atLine func(int) (supergraph.Point, bool)
		err    error
	)
	if doc.Go != nil {
		atLine, err = f.loadGo(&doc)
	} else {
		atLine, err = f.loadStatic(&doc)
	}
	if err != nil {
		return nil, err
	}

	if err := f.loadSolution(&doc); err != nil {
		return nil, err
	}

	for i, v := range doc.Violations {
		viol, err := f.violation(v, atLine)
		if err != nil {
			return nil, fmt.Errorf("violation %d: %w", i+1, err)
		}
		f.Violations = append(f.Violations, viol)
	}

	return f, nil
}

func (f *Fixture) loadSolution(doc *document) error {
	for i, t := range doc.Transitions {
		src, err := f.point(t.At)
		if err != nil {
			return fmt.Errorf("transition %d: %w", i+1, err)
		}
		dst, err := f.point(t.To)
		if err != nil {
			return fmt.Errorf("transition %d: %w", i+1, err)
		}
		if t.State == "" || t.ToState == "" {
			return fmt.Errorf("transition %d: states must be set", i+1)
		}

		var match solution.Match
		if t.Match != "" {
			match = solution.SomeMatch(solution.Event(t.Match))
		}

		f.Solution.AddTransition(
			src,
			solution.Key{Expr: solution.Expr(t.Expr), State: solution.State(t.State)},
			solution.Transition{
				Point: dst,
				Expr:  solution.Expr(t.ToExpr),
				State: solution.State(t.ToState),
				Match: match,
			},
		)
	}

	for i, r := range doc.Reachable {
		p, err := f.point(r.At)
		if err != nil {
			return fmt.Errorf("reachable %d: %w", i+1, err)
		}
		for _, s := range r.States {
			f.Solution.AddReachable(p, solution.Expr(r.Expr), solution.State(s))
		}
	}

	f.Solution.Freeze()
	return nil
}

func (f *Fixture) violation(v violationDoc, atLine func(int) (supergraph.Point, bool)) (Violation, error) {
	var p supergraph.Point
	switch {
	case v.At != "" && v.Line != 0:
		return Violation{}, fmt.Errorf("either point or line must be set, not both")
	case v.At != "":
		var err error
		if p, err = f.point(v.At); err != nil {
			return Violation{}, err
		}
	case v.Line != 0:
		var ok bool
		if p, ok = atLine(v.Line); !ok {
			return Violation{}, fmt.Errorf("no point covers line %d", v.Line)
		}
	default:
		return Violation{}, fmt.Errorf("point or line must be set")
	}

	if v.State == "" {
		return Violation{}, fmt.Errorf("state must be set")
	}

	return Violation{
		Violation: reconstruct.Violation{
			Point: p,
			Expr:  solution.Expr(v.Expr),
			State: solution.State(v.State),
		},
		Expect: v.Expect,
	}, nil
}

func (f *Fixture) point(name string) (supergraph.Point, error) {
	p, ok := f.points[name]
	if !ok {
		return nil, fmt.Errorf("unknown point %q", name)
	}

	return p, nil
}
