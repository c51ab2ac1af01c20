package reconstruct

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sirkon/smpath/internal/diag"
	"github.com/sirkon/smpath/internal/errgraph"
	"github.com/sirkon/smpath/internal/solution"
	"github.com/sirkon/smpath/internal/supergraph"
)

var (
	// ErrAborted reconstruction exceeded its budget or was cancelled.
	ErrAborted = errgraph.ErrAborted

	// ErrInvariant the error graph lost the violation node before pruning.
	ErrInvariant = errors.New("error graph invariant violation")
)

// Violation is a flagged error to reconstruct a path to.
type Violation struct {
	Point supergraph.Point
	Expr  solution.Expr
	State solution.State
}

// Triple returns the error graph triple of the violation.
func (v Violation) Triple() errgraph.Triple {
	return errgraph.Triple{Point: v.Point, Expr: v.Expr, State: v.State}
}

func (v Violation) String() string {
	return v.Triple().String()
}

// FactEngine infers facts on error graph nodes and prunes what facts prove
// infeasible.
type FactEngine interface {
	InferFacts(g *errgraph.Graph)
	PruneInfeasible(g *errgraph.Graph) bool
}

// New is [Reconstructor] constructor.
func New(
	graph supergraph.Graph,
	table solution.TransitionTable,
	engine FactEngine,
	defaultState solution.State,
	opts Options,
) *Reconstructor {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Reconstructor{
		graph:        graph,
		table:        table,
		engine:       engine,
		defaultState: defaultState,
		opts:         opts,
	}
}

// Reconstructor reconstructs paths over a fixed supergraph and transition table.
// Both are only read.
type Reconstructor struct {
	graph        supergraph.Graph
	table        solution.TransitionTable
	engine       FactEngine
	defaultState solution.State
	opts         Options
}

// Reconstruct finds the shortest feasible path from an entry point to the
// violation.
//
// Negative outcomes are not errors, they are reported through the result. Errors
// are returned for aborted requests, malformed transitions and broken invariants.
func (r *Reconstructor) Reconstruct(ctx context.Context, v Violation) (*Result, error) {
	started := time.Now()
	res := &Result{
		ID:        uuid.New(),
		Violation: v,
	}
	log := r.opts.Logger.With("request", res.ID.String(), "violation", v.String())

	log.Debug("building error graph")
	g, err := errgraph.Build(ctx, errgraph.BuildRequest{
		Graph:       r.graph,
		Transitions: r.table,
		Target:      v.Triple(),
		MaxSteps:    r.opts.MaxSteps,
		Strict:      r.opts.Strict,
		Logger:      log,
	})
	if err != nil {
		return nil, r.fail(log, res, diag.PhaseBuild, err)
	}
	res.Graph = g
	log.Debug("error graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	dst, ok := g.Lookup(v.Triple())
	if !ok {
		return nil, r.fail(log, res, diag.PhaseBuild, fmt.Errorf("%w: no node for %s before pruning", ErrInvariant, v))
	}

	if err := r.prune(ctx, log, res); err != nil {
		return nil, r.fail(log, res, diag.PhasePrune, err)
	}

	if !g.Contains(dst) {
		log.Debug("violation removed from error graph")
		res.Outcome = OutcomeInfeasible
		r.done(log, res, diag.PhasePrune, started)
		return res, nil
	}

	if r.opts.Exporter != nil {
		name, err := r.opts.Exporter.Export(g, v)
		if err != nil {
			log.Warn("failed to export error graph", "err", err)
		} else {
			log.Debug("error graph exported", "file", name)
		}
	}

	log.Debug("calculating shortest path through error graph")
	path, ok := g.ShortestFromEntries(r.graph, r.defaultState, dst)
	if !ok {
		res.Outcome = OutcomeNoPath
		r.done(log, res, diag.PhaseSearch, started)
		return res, nil
	}

	res.Outcome = OutcomePath
	res.Path = path
	res.Fingerprint = fingerprint(g, path, v.Triple())
	r.done(log, res, diag.PhaseSearch, started)
	return res, nil
}

// prune alternates fact inference and pruning until the latter changes nothing.
func (r *Reconstructor) prune(ctx context.Context, log *slog.Logger, res *Result) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: prune error graph: %w", ErrAborted, err)
		}
		if r.opts.MaxPruneRounds > 0 && res.Rounds >= r.opts.MaxPruneRounds {
			return fmt.Errorf("%w: prune error graph: round budget of %d exhausted", ErrAborted, r.opts.MaxPruneRounds)
		}

		res.Rounds++
		r.engine.InferFacts(res.Graph)
		if !r.engine.PruneInfeasible(res.Graph) {
			return nil
		}

		log.Debug("error graph pruned",
			"round", res.Rounds,
			"nodes", res.Graph.NodeCount(),
			"edges", res.Graph.EdgeCount(),
		)
	}
}

func (r *Reconstructor) done(log *slog.Logger, res *Result, phase diag.Phase, started time.Time) {
	code := res.Outcome.Code()
	log.Debug("reconstruction finished", "outcome", res.Outcome, "rounds", res.Rounds, "length", len(res.Path))

	if r.opts.Reporter != nil {
		r.opts.Reporter.Phase(phase).Report(code, res.ID.String(), res.Violation.String(), "")
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.observe(res, res.Outcome.String(), time.Since(started))
	}
}

func (r *Reconstructor) fail(log *slog.Logger, res *Result, phase diag.Phase, err error) error {
	code := CodeOf(err)

	if r.opts.Reporter != nil {
		r.opts.Reporter.Phase(phase).Report(code, res.ID.String(), res.Violation.String(), err.Error())
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.observe(res, "error", 0)
	}

	log.Debug("reconstruction failed", "code", code, "err", err)
	return fmt.Errorf("reconstruct path to %s: %w", res.Violation, err)
}

// CodeOf returns the diagnostic code of a failed request.
func CodeOf(err error) diag.Code {
	switch {
	case errors.Is(err, errgraph.ErrMalformedTransition):
		return diag.SMP050MalformedTransition
	case errors.Is(err, ErrInvariant):
		return diag.SMP040InvariantBroken
	default:
		return diag.SMP030Aborted
	}
}
