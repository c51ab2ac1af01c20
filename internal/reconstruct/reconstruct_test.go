package reconstruct

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirkon/deepequal"

	"github.com/sirkon/smpath/internal/diag"
	"github.com/sirkon/smpath/internal/errgraph"
	"github.com/sirkon/smpath/internal/solution"
)

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name      string
		world     func(t *testing.T) *world
		point     string
		outcome   Outcome
		points    []string
		minRounds int
	}{
		{
			name:    "straight line",
			world:   straightLine,
			point:   "C",
			outcome: OutcomePath,
			points:  []string{"A", "B", "C"},
		},
		{
			name:    "unreachable state",
			world:   unreachableState,
			point:   "C",
			outcome: OutcomeNoPath,
		},
		{
			name: "shortest of entries",
			world: func(t *testing.T) *world {
				return twoEntries(t, "A1", "A2")
			},
			point:   "C",
			outcome: OutcomePath,
			points:  []string{"A2", "Z", "C"},
		},
		{
			name: "shortest of entries in reverse",
			world: func(t *testing.T) *world {
				return twoEntries(t, "A2", "A1")
			},
			point:   "C",
			outcome: OutcomePath,
			points:  []string{"A2", "Z", "C"},
		},
		{
			name:      "infeasible violation",
			world:     contradiction,
			point:     "C",
			outcome:   OutcomeInfeasible,
			minRounds: 2,
		},
		{
			name:    "feasible branch",
			world:   contradiction,
			point:   "D",
			outcome: OutcomePath,
			points:  []string{"A", "B", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.world(t)
			var reporter diag.Reporter
			r := w.reconstructor(Options{Strict: true, Reporter: &reporter})

			res, err := r.Reconstruct(t.Context(), w.violation(tt.point, "x", stateOpen))
			if err != nil {
				t.Fatalf("reconstruct: %s", err)
			}

			if res.Outcome != tt.outcome {
				t.Fatalf("outcome %s, want %s", res.Outcome, tt.outcome)
			}
			if res.Suppressed() != (tt.outcome != OutcomePath) {
				t.Errorf("suppressed = %v for %s", res.Suppressed(), res.Outcome)
			}
			if got := pointNames(res); !reflect.DeepEqual(tt.points, got) {
				deepequal.SideBySide(t, "path", tt.points, got)
			}
			if res.Rounds < max(tt.minRounds, 1) {
				t.Errorf("at least %d rounds expected, got %d", max(tt.minRounds, 1), res.Rounds)
			}

			if n := len(reporter.Reports()); n != 1 {
				t.Fatalf("one report expected, got %d", n)
			}
			reps := reporter.Request(res.ID.String())
			if len(reps) != 1 {
				t.Fatalf("the report must belong to request %s", res.ID)
			}
			if reps[0].Code != tt.outcome.Code() || reps[0].Request != res.ID.String() {
				t.Errorf("unexpected report %+v", reps[0])
			}
		})
	}
}

func TestReconstructPathChain(t *testing.T) {
	w := twoEntries(t, "A1", "A2")
	r := w.reconstructor(Options{})

	res, err := r.Reconstruct(t.Context(), w.violation("C", "x", stateOpen))
	if err != nil {
		t.Fatal(err)
	}

	entry := res.Graph.Node(res.Path[0].Src)
	if entry.Expr != solution.NoExpr || entry.State != stateStart {
		t.Errorf("path must start at an entry node, got %s", entry.Triple)
	}
	for i := 1; i < len(res.Path); i++ {
		if res.Path[i-1].Dst != res.Path[i].Src {
			t.Fatalf("edges %d and %d are not chained", i-1, i)
		}
	}
	if res.Path[len(res.Path)-1].Dst != 0 {
		t.Error("path must end at the violation node")
	}

	// Every other route from an entry is not shorter.
	for _, id := range res.Graph.EntryNodes(w.g, stateStart) {
		if p, ok := res.Graph.ShortestPath(id, 0); ok && len(p) < len(res.Path) {
			t.Errorf("shorter path of %d edges exists", len(p))
		}
	}
}

func TestReconstructViolationAtEntry(t *testing.T) {
	w := straightLine(t)
	r := w.reconstructor(Options{})

	res, err := r.Reconstruct(t.Context(), w.violation("A", solution.NoExpr, stateStart))
	if err != nil {
		t.Fatal(err)
	}

	if res.Outcome != OutcomePath || len(res.Path) != 0 {
		t.Fatalf("empty path expected, got %s with %d edges", res.Outcome, len(res.Path))
	}
	if got := pointNames(res); !reflect.DeepEqual([]string{"A"}, got) {
		t.Errorf("unexpected points %v", got)
	}
}

func TestReconstructFingerprint(t *testing.T) {
	w := twoEntries(t, "A1", "A2")
	r := w.reconstructor(Options{})

	a, err := r.Reconstruct(t.Context(), w.violation("C", "x", stateOpen))
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Reconstruct(t.Context(), w.violation("C", "x", stateOpen))
	if err != nil {
		t.Fatal(err)
	}
	c, err := r.Reconstruct(t.Context(), w.violation("Z", "x", stateOpen))
	if err != nil {
		t.Fatal(err)
	}

	if a.ID == b.ID {
		t.Error("requests must get distinct ids")
	}
	if a.Fingerprint != b.Fingerprint {
		t.Error("equal paths must have equal fingerprints")
	}
	if a.Fingerprint == c.Fingerprint {
		t.Error("different paths must have different fingerprints")
	}
	if len(a.FingerprintString()) != 64 {
		t.Errorf("unexpected fingerprint %s", a.FingerprintString())
	}
}

func TestReconstructErrors(t *testing.T) {
	tests := []struct {
		name  string
		world func(t *testing.T) *world
		opts  Options
		err   error
		code  diag.Code
	}{
		{
			name:  "step budget",
			world: straightLine,
			opts:  Options{MaxSteps: 1},
			err:   ErrAborted,
			code:  diag.SMP030Aborted,
		},
		{
			name:  "prune round budget",
			world: contradiction,
			opts:  Options{MaxPruneRounds: 1},
			err:   ErrAborted,
			code:  diag.SMP030Aborted,
		},
		{
			name: "malformed transition",
			world: func(t *testing.T) *world {
				w := straightLine(t)
				w.trans("B", "x", stateOpen, "A", "x", stateOpen)
				return w
			},
			opts: Options{Strict: true},
			err:  errgraph.ErrMalformedTransition,
			code: diag.SMP050MalformedTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.world(t)
			var reporter diag.Reporter
			tt.opts.Reporter = &reporter
			r := w.reconstructor(tt.opts)

			res, err := r.Reconstruct(t.Context(), w.violation("C", "x", stateOpen))
			if !errors.Is(err, tt.err) {
				t.Fatalf("error %v expected, got %v", tt.err, err)
			}
			if res != nil {
				t.Error("no result expected on failure")
			}

			reps := reporter.Reports()
			if len(reps) != 1 || reps[0].Code != tt.code {
				t.Errorf("a single %s report expected, got %+v", tt.code, reps)
			}
		})
	}

	t.Run("cancelled", func(t *testing.T) {
		w := straightLine(t)
		r := w.reconstructor(Options{})

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := r.Reconstruct(ctx, w.violation("C", "x", stateOpen)); !errors.Is(err, ErrAborted) {
			t.Errorf("aborted request expected, got %v", err)
		}
	})
}

func TestReconstructAll(t *testing.T) {
	w := contradiction(t)
	r := w.reconstructor(Options{Workers: 2, Strict: true})

	vs := []Violation{
		w.violation("C", "x", stateOpen),
		w.violation("D", "x", stateOpen),
		w.violation("D", "x", stateClosed),
		w.violation("B", "x", stateOpen),
	}
	items := r.ReconstructAll(t.Context(), vs)
	if len(items) != len(vs) {
		t.Fatalf("%d items expected, got %d", len(vs), len(items))
	}

	expected := []Outcome{OutcomeInfeasible, OutcomePath, OutcomeNoPath, OutcomePath}
	var got []Outcome
	for i, item := range items {
		if item.Err != nil {
			t.Fatalf("request %d failed: %s", i, item.Err)
		}
		if item.Violation != vs[i] {
			t.Errorf("item %d is out of order", i)
		}
		got = append(got, item.Result.Outcome)
	}
	if !reflect.DeepEqual(expected, got) {
		deepequal.SideBySide(t, "outcomes", expected, got)
	}

	// Every request has its own graph.
	if items[1].Result.Graph == items[3].Result.Graph {
		t.Error("requests must not share error graphs")
	}
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir)

	w := contradiction(t)
	r := w.reconstructor(Options{Exporter: exporter})

	for _, point := range []string{"D", "C", "D"} {
		if _, err := r.Reconstruct(t.Context(), w.violation(point, "x", stateOpen)); err != nil {
			t.Fatal(err)
		}
	}

	// The infeasible violation is not exported.
	if exporter.Exported() != 2 {
		t.Fatalf("two exported graphs expected, got %d", exporter.Exported())
	}

	for _, name := range []string{"error_graph_1.dot", "error_graph_2.dot"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "digraph ") {
			t.Errorf("%s is not a DOT file", name)
		}
		if !strings.Contains(string(data), "FACTS: ") {
			t.Errorf("%s must show facts of the pruned graph", name)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "error_graph_3.dot")); !os.IsNotExist(err) {
		t.Error("unexpected third graph")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}

	w := contradiction(t)
	r := w.reconstructor(Options{Metrics: metrics, MaxSteps: 100})

	for _, v := range []Violation{
		w.violation("C", "x", stateOpen),
		w.violation("D", "x", stateOpen),
		w.violation("D", "x", stateOpen),
	} {
		if _, err := r.Reconstruct(t.Context(), v); err != nil {
			t.Fatal(err)
		}
	}

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(OutcomePath.String())); got != 2 {
		t.Errorf("two found paths expected, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(OutcomeInfeasible.String())); got != 1 {
		t.Errorf("one infeasible violation expected, got %v", got)
	}
	if n := testutil.CollectAndCount(metrics.rounds); n != 1 {
		t.Errorf("one rounds histogram expected, got %d", n)
	}

	if _, err := NewMetrics(reg); err == nil {
		t.Error("second registration must fail")
	}
}
