package fixture

import (
	"bytes"
	"embed"
	"reflect"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/sirkon/smpath/internal/reconstruct"
	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

//go:embed testdata
var testdata embed.FS

func load(t *testing.T, name string) (*Fixture, error) {
	t.Helper()

	data, err := testdata.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}

	return Load(bytes.NewReader(data))
}

func TestLoadValid(t *testing.T) {
	f, err := load(t, "valid.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if f.Name != "valid" || f.DefaultState != "INIT" {
		t.Errorf("unexpected header %q %q", f.Name, f.DefaultState)
	}
	if !f.Solution.Frozen() {
		t.Error("solution must be frozen")
	}

	a, _ := f.Point("A")
	b, _ := f.Point("B")

	succs := f.Graph.Successors(a)
	if len(succs) != 1 || succs[0].Dst() != b || succs[0].Branch() != supergraph.BranchTrue {
		t.Fatalf("unexpected successors of A: %v", succs)
	}
	if got := f.Facts.Constraints(succs[0]); len(got) != 2 || got[1].String() != "y same x" {
		t.Errorf("unexpected constraints %v", got)
	}

	var transitions []string
	for key, tr := range f.Solution.Transitions(a) {
		transitions = append(transitions, key.State.String()+" -> "+tr.Point.String()+" "+tr.Expr.String()+" "+tr.State.String()+" via "+tr.Match.Describe())
	}
	if want := []string{"INIT -> B x OPEN via x = open()"}; !reflect.DeepEqual(want, transitions) {
		deepequal.SideBySide(t, "transitions", want, transitions)
	}

	var states []solution.State
	for _, ss := range f.Solution.Reachable(b) {
		states = append(states, ss...)
	}
	if want := []solution.State{"OPEN", "CLOSED"}; !reflect.DeepEqual(want, states) {
		deepequal.SideBySide(t, "reachable", want, states)
	}

	expected := []reconstruct.Violation{
		{Point: b, Expr: "x", State: "OPEN"},
		{Point: b, Expr: "x", State: "OPEN"},
		{Point: a, Expr: "x", State: "OPEN"},
	}
	if got := f.Queries(); !reflect.DeepEqual(expected, got) {
		deepequal.SideBySide(t, "violations", expected, got)
	}

	want := &Expect{Outcome: reconstruct.OutcomePath, Path: []string{"A", "B"}}
	if !reflect.DeepEqual(want, f.Violations[0].Expect) {
		deepequal.SideBySide(t, "expect", want, f.Violations[0].Expect)
	}
	if f.Violations[1].Expect != nil {
		t.Error("no expectation was set for the second violation")
	}
}

func TestLoadInvalid(t *testing.T) {
	entries, err := testdata.ReadDir("testdata")
	if err != nil {
		t.Fatal(err)
	}

	var count int
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "invalid_") {
			continue
		}
		count++

		t.Run(entry.Name(), func(t *testing.T) {
			if _, err := load(t, entry.Name()); err == nil {
				t.Fatal("error expected")
			} else {
				t.Logf("expected error: %s", err)
			}
		})
	}

	if count == 0 {
		t.Fatal("no invalid fixtures found")
	}
}

func TestLoadGo(t *testing.T) {
	src := `
name: go
go:
  file: p.go
  source: |
    package p

    func f(x int) int {
    	if x == 0 {
    		return 1
    	}
    	return 2
    }
violations:
  - {line: 5, expr: x, state: OPEN}
`
	f, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	entry, ok := f.Point("f.b0")
	if !ok {
		t.Fatal("no entry block of f")
	}
	if len(f.Graph.Successors(entry)) != 2 {
		t.Errorf("entry block of f must branch")
	}
	if got := f.Violations[0].Point.String(); got != "f.b1" {
		t.Errorf("violation must be at the then block, got %s", got)
	}
	if len(f.Facts.Constraints(f.Graph.Successors(entry)[0])) != 1 {
		t.Error("branch constraint expected")
	}
}

func TestViolationCheck(t *testing.T) {
	const scenario = `
points: [{name: A}, {name: B}]
edges: [{from: A, to: B}]
entries: [A]
transitions:
  - {at: A, state: START, to: B, to-expr: x, to-state: OPEN}
violations:
  - {at: B, expr: x, state: OPEN, expect: {outcome: path, path: [A, B]}}
  - {at: B, expr: x, state: OPEN, expect: {outcome: path}}
  - {at: B, expr: x, state: OPEN}
  - {at: B, expr: x, state: OPEN, expect: {outcome: path, path: [B]}}
  - {at: B, expr: x, state: OPEN, expect: {outcome: no-path}}
`
	f, err := Load(strings.NewReader(scenario))
	if err != nil {
		t.Fatal(err)
	}

	items := f.Reconstructor(reconstruct.Options{}).ReconstructAll(t.Context(), f.Queries())
	var got []bool
	for i, item := range items {
		if item.Err != nil {
			t.Fatal(item.Err)
		}
		got = append(got, f.Violations[i].Check(item.Result) == nil)
	}

	expected := []bool{true, true, true, false, false}
	if !reflect.DeepEqual(expected, got) {
		deepequal.SideBySide(t, "checks", expected, got)
	}
}
