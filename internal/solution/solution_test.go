package solution

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/sirkon/smpath/internal/supergraph"
)

type lineGraph struct {
	g       *supergraph.Static
	a, b, c *supergraph.Node
}

func newLineGraph(t *testing.T) lineGraph {
	t.Helper()

	g := supergraph.NewStatic()
	var res lineGraph
	res.g = g
	for _, name := range []string{"A", "B", "C"} {
		n, err := g.AddPoint(name)
		if err != nil {
			t.Fatal(err)
		}
		switch name {
		case "A":
			res.a = n
		case "B":
			res.b = n
		case "C":
			res.c = n
		}
	}
	if _, err := g.Connect("A", "B", supergraph.BranchNone); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect("B", "C", supergraph.BranchTrue); err != nil {
		t.Fatal(err)
	}
	if err := g.MarkEntry("A"); err != nil {
		t.Fatal(err)
	}

	return res
}

func TestSolution_Transitions(t *testing.T) {
	lg := newLineGraph(t)
	s := New()

	start := Key{Expr: NoExpr, State: "start"}
	open := Key{Expr: "x", State: "open"}

	s.AddTransition(lg.a, start, Transition{Point: lg.b, Expr: "x", State: "open", Match: SomeMatch(Event("open()"))})
	s.AddTransition(lg.a, start, Transition{Point: lg.b, Expr: "x", State: "open", Match: SomeMatch(Event("open()"))})
	s.AddTransition(lg.a, open, Transition{Point: lg.b, Expr: "x", State: "open"})
	s.AddTransition(lg.a, start, Transition{Point: lg.b, Expr: NoExpr, State: "start"})
	s.Freeze()

	type row struct {
		Key   Key
		Expr  Expr
		State State
		Match string
	}

	var got []row
	for key, tr := range s.Transitions(lg.a) {
		got = append(got, row{Key: key, Expr: tr.Expr, State: tr.State, Match: tr.Match.Describe()})
	}

	expected := []row{
		{Key: start, Expr: "x", State: "open", Match: "open()"},
		{Key: start, Expr: NoExpr, State: "start"},
		{Key: open, Expr: "x", State: "open"},
	}
	if !reflect.DeepEqual(expected, got) {
		deepequal.SideBySide(t, "transitions", expected, got)
	}

	for range s.Transitions(lg.c) {
		t.Error("no transitions expected at C")
	}
}

func TestSolution_Reachable(t *testing.T) {
	lg := newLineGraph(t)
	s := New()
	s.AddReachable(lg.b, "x", "open")
	s.AddReachable(lg.b, "x", "open")
	s.AddReachable(lg.b, "x", "closed")
	s.AddReachable(lg.b, NoExpr, "start")
	s.Freeze()

	got := map[Expr][]State{}
	for expr, states := range s.Reachable(lg.b) {
		got[expr] = states
	}

	expected := map[Expr][]State{
		"x":    {"open", "closed"},
		NoExpr: {"start"},
	}
	if !reflect.DeepEqual(expected, got) {
		deepequal.SideBySide(t, "reachable", expected, got)
	}
}

func TestSolution_FrozenPanics(t *testing.T) {
	lg := newLineGraph(t)
	s := New()
	s.Freeze()

	defer func() {
		if r := recover(); r == nil {
			t.Error("modification of a frozen solution must panic")
		}
	}()
	s.AddReachable(lg.a, NoExpr, "start")
}

func TestMatch(t *testing.T) {
	var none Match
	if _, ok := none.Get(); ok {
		t.Error("zero match must be empty")
	}
	if none.Describe() != "" {
		t.Error("zero match must describe as an empty string")
	}

	m := SomeMatch(Event("fclose(f)"))
	info, ok := m.Get()
	if !ok || info.Describe() != "fclose(f)" {
		t.Errorf("unexpected match %v", info)
	}
}

func TestSolution_Dump(t *testing.T) {
	lg := newLineGraph(t)
	s := New()
	s.AddTransition(lg.a, Key{Expr: NoExpr, State: "start"}, Transition{
		Point: lg.b,
		Expr:  "x",
		State: "open",
		Match: SomeMatch(Event("fopen()")),
	})
	s.AddTransition(lg.b, Key{Expr: "x", State: "open"}, Transition{Point: lg.c, Expr: "x", State: "open"})
	s.AddReachable(lg.a, NoExpr, "start")
	s.AddReachable(lg.b, "x", "open")
	s.Freeze()

	var buf bytes.Buffer
	if err := s.Dump(&buf, "file", lg.g); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"SOLUTION FOR file",
		"; underlying graph has: 3 points  2 edges",
		"0: A",
		"<none>: start",
		"goto 1;",
		"change from <none>: start  to  x: open (via fopen())",
		"true: goto 2;",
		"propagation of x: open",
		"2: C",
		"NOT REACHED",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump lacks %q:\n%s", want, out)
		}
	}
}
