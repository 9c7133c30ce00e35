// Package search runs the tabu search loop: it enumerates neighbours,
// scores them in parallel, filters them through the tabu list and
// aspiration criteria, and keeps the best solution until a stop criterion
// fires or the neighbourhood is exhausted.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/staffalloc/core/constraint"
	"github.com/kilianp07/staffalloc/core/events"
	"github.com/kilianp07/staffalloc/core/logger"
	"github.com/kilianp07/staffalloc/core/metrics"
	"github.com/kilianp07/staffalloc/core/model"
	"github.com/kilianp07/staffalloc/core/neighborhood"
	"github.com/kilianp07/staffalloc/core/objective"
	"github.com/kilianp07/staffalloc/core/tabu"
	"github.com/kilianp07/staffalloc/internal/eventbus"
)

var (
	// ErrNotFinished is returned by Apply before a run reached a terminal
	// state.
	ErrNotFinished = errors.New("search has not finished")
	// ErrBusy is returned when Run is called while another run is active.
	ErrBusy = errors.New("search already running")
)

// Reasons reported for runs that did not end on a stop criterion.
const (
	ReasonConverged = "converged"
	ReasonCancelled = "cancelled"
)

// State is the lifecycle position of an Engine.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateConverged
	StateStopped
	StateApplied
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateStopped:
		return "stopped"
	case StateApplied:
		return "applied"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool { return s == StateConverged || s == StateStopped }

// Step describes the move applied in one iteration. Hooks receive their own
// copy of the assignment.
type Step struct {
	Iteration  int
	Move       neighborhood.Move
	Assignment model.Assignment
	Evaluation float64
	Best       float64
	Aspirated  bool
}

// Result is the outcome of a run.
type Result struct {
	RunID      string         `json:"run_id"`
	State      State          `json:"state"`
	Reason     string         `json:"reason"`
	Iterations int            `json:"iterations"`
	Initial    model.Solution `json:"initial"`
	Best       model.Solution `json:"best"`
	Telemetry  []Record       `json:"telemetry"`
	Summary    Summary        `json:"summary"`
	Elapsed    time.Duration  `json:"elapsed"`
}

// Diagnosis explains the evaluation of an assignment.
type Diagnosis struct {
	Evaluation  float64             `json:"evaluation"`
	Objective   float64             `json:"objective"`
	Penalty     float64             `json:"penalty"`
	Terms       []objective.Term    `json:"terms"`
	Constraints []constraint.Report `json:"constraints"`
	// Feasible is false when an active hard constraint has occurrences.
	Feasible bool `json:"feasible"`
}

// Engine orchestrates tabu search runs. An Engine holds no dataset between
// runs and may be reused, but runs are serialised.
type Engine struct {
	c        Components
	log      logger.Logger
	sink     metrics.SearchSink
	progress *eventbus.TypedBus[events.Progress]
	finished *eventbus.TypedBus[events.Finished]
	hook     func(Step)
	now      func() time.Time

	mu     sync.Mutex
	state  State
	result *Result
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l logger.Logger) Option { return func(e *Engine) { e.log = l } }

// WithSink sets the metrics sink receiving run and iteration records.
func WithSink(s metrics.SearchSink) Option { return func(e *Engine) { e.sink = s } }

// WithProgressBus publishes one Progress event per iteration on bus.
func WithProgressBus(bus *eventbus.TypedBus[events.Progress]) Option {
	return func(e *Engine) { e.progress = bus }
}

// WithFinishedBus publishes a Finished event at the end of every run.
func WithFinishedBus(bus *eventbus.TypedBus[events.Finished]) Option {
	return func(e *Engine) { e.finished = bus }
}

// WithStepHook calls fn synchronously after every applied move.
func WithStepHook(fn func(Step)) Option { return func(e *Engine) { e.hook = fn } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// New builds the configured components and returns an idle Engine. Unset
// configuration fields take their defaults.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	c, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewEngine(c, opts...)
}

// NewEngine returns an idle Engine running the given components.
func NewEngine(c Components, opts ...Option) (*Engine, error) {
	if c.Constraints == nil {
		reg, err := constraint.NewRegistry()
		if err != nil {
			return nil, err
		}
		c.Constraints = reg
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{c: c, log: nopLogger{}, sink: metrics.NopSink{}, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result returns the last finished run, if any.
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// Apply accepts the best solution of a finished run. The engine moves to
// StateApplied and the best assignment is returned.
func (e *Engine) Apply() (model.Assignment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Terminal() || e.result == nil {
		return model.Assignment{}, fmt.Errorf("%w: state %s", ErrNotFinished, e.state)
	}
	e.state = StateApplied
	return e.result.Best.Assignment.Clone(), nil
}

// Evaluate scores an assignment: objective value plus constraint penalties.
func (e *Engine) Evaluate(a model.Assignment, ds *model.Dataset) float64 {
	return e.c.Objective.Calculate(a, ds) + e.c.Constraints.Penalty(a, ds)
}

// Diagnose breaks the evaluation of a down by component and constraint.
func (e *Engine) Diagnose(a model.Assignment, ds *model.Dataset) Diagnosis {
	d := Diagnosis{
		Objective:   e.c.Objective.Calculate(a, ds),
		Penalty:     e.c.Constraints.Penalty(a, ds),
		Terms:       e.c.Objective.Breakdown(a, ds),
		Constraints: e.c.Constraints.Report(a, ds),
		Feasible:    true,
	}
	d.Evaluation = d.Objective + d.Penalty
	for _, r := range d.Constraints {
		if r.Hard && r.Active && r.Total() > 0 {
			d.Feasible = false
		}
	}
	return d
}

type scored struct {
	next model.Assignment
	eval float64
	fp   uint64
}

// score evaluates every candidate on its own clone. Results are joined by
// candidate index so that selection does not depend on scheduling.
func (e *Engine) score(ctx context.Context, cands []neighborhood.Candidate, current model.Assignment, ds *model.Dataset) ([]scored, error) {
	out := make([]scored, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.c.workers())
	for i := range cands {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			next := cands[i].Move.Apply(current)
			out[i] = scored{next: next, eval: e.Evaluate(next, ds), fp: next.Fingerprint()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) aspirated(score float64, s Stats) bool {
	for _, a := range e.c.Aspiration {
		if a.Active() && a.Admit(score, s) {
			return true
		}
	}
	return false
}

func (e *Engine) stopReason(s Stats) (string, bool) {
	for _, c := range e.c.Stop {
		if c.Active() && c.Stop(s) {
			return c.Name(), true
		}
	}
	return "", false
}

func (e *Engine) planned() int {
	for _, c := range e.c.Stop {
		if m, ok := c.(*MaxIterations); ok && m.Active() {
			return m.Limit()
		}
	}
	return 0
}

// Run searches from initial until a stop criterion fires, the admissible
// neighbourhood is empty, or ctx is cancelled. Cancellation is not an
// error: the run stops with reason "cancelled" and the best solution found.
func (e *Engine) Run(ctx context.Context, ds *model.Dataset, initial model.Assignment) (Result, error) {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return Result{}, ErrBusy
	}
	e.state = StateRunning
	e.result = nil
	e.mu.Unlock()

	list, err := tabu.New(e.c.Tabu)
	if err != nil {
		e.setState(StateIdle, nil)
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	runID := uuid.NewString()
	start := e.now()
	current := ds.Normalize(initial)
	res := Result{RunID: runID}
	res.Initial = model.Solution{Assignment: current.Clone(), Evaluation: e.Evaluate(current, ds)}
	best := res.Initial
	best.Assignment = current.Clone()
	stats := Stats{BestEvaluation: best.Evaluation, CurrentEvaluation: best.Evaluation}
	planned := e.planned()
	bestEvaluation.Set(best.Evaluation)
	e.log.Infof("run %s started: %d teachers, %d sections, initial evaluation %.3f",
		runID, len(ds.Teachers()), len(ds.Sections()), best.Evaluation)

	state, reason := StateStopped, ""
	for {
		if ctx.Err() != nil {
			reason = ReasonCancelled
			break
		}
		iteration := stats.Iteration + 1
		iterStart := e.now()
		list.Tick(iteration)

		cands := neighborhood.Enumerate(e.c.Generators, current, ds)
		results, err := e.score(ctx, cands, current, ds)
		if err != nil {
			reason = ReasonCancelled
			break
		}
		candidatesScored.Add(float64(len(cands)))

		chosen, rejected, admitted := -1, 0, 0
		chosenAspirated := false
		for i, r := range results {
			asp := false
			if list.Tabu(cands[i].Move, r.fp, iteration) {
				if !e.aspirated(r.eval, stats) {
					rejected++
					continue
				}
				asp = true
				admitted++
			}
			if chosen < 0 || r.eval > results[chosen].eval {
				chosen = i
				chosenAspirated = asp
			}
		}
		tabuRejected.Add(float64(rejected))
		aspirated.Add(float64(admitted))
		if chosen < 0 {
			state, reason = StateConverged, ReasonConverged
			break
		}

		move := cands[chosen].Move
		next := results[chosen]
		list.Record(move, current.Fingerprint(), iteration)
		if next.eval == stats.CurrentEvaluation {
			stats.SinceNeighborChanged++
		} else {
			stats.SinceNeighborChanged = 0
		}
		current = next.next
		stats.CurrentEvaluation = next.eval

		switch {
		case next.eval > best.Evaluation:
			best = model.Solution{Assignment: current.Clone(), Evaluation: next.eval}
			stats.SinceImproved = 0
			stats.SinceBestChanged = 0
		case next.eval == best.Evaluation && !current.Equal(best.Assignment):
			best = model.Solution{Assignment: current.Clone(), Evaluation: next.eval}
			stats.SinceImproved++
			stats.SinceBestChanged = 0
		default:
			stats.SinceImproved++
			stats.SinceBestChanged++
		}
		stats.BestEvaluation = best.Evaluation
		stats.Iteration = iteration

		now := e.now()
		rec := Record{
			Iteration:    iteration,
			Evaluation:   next.eval,
			Best:         best.Evaluation,
			Elapsed:      now.Sub(start),
			Duration:     now.Sub(iterStart),
			Candidates:   len(cands),
			TabuRejected: rejected,
			Aspirated:    admitted,
			Move:         move.String(),
		}
		res.Telemetry = append(res.Telemetry, rec)
		e.observe(runID, planned, rec)
		if e.hook != nil {
			e.hook(Step{
				Iteration:  iteration,
				Move:       move,
				Assignment: current.Clone(),
				Evaluation: next.eval,
				Best:       best.Evaluation,
				Aspirated:  chosenAspirated,
			})
		}

		if name, ok := e.stopReason(stats); ok {
			reason = name
			break
		}
	}

	res.State = state
	res.Reason = reason
	res.Iterations = stats.Iteration
	res.Best = best
	res.Elapsed = e.now().Sub(start)
	res.Summary = Summarize(res.Initial.Evaluation, best.Evaluation, res.Telemetry)
	e.finish(res)
	return res, nil
}

func (e *Engine) setState(s State, r *Result) {
	e.mu.Lock()
	e.state = s
	e.result = r
	e.mu.Unlock()
}

// observe exports one iteration to collectors, the progress bus and the
// sink.
func (e *Engine) observe(runID string, planned int, rec Record) {
	iterationsTotal.Inc()
	iterationLatency.Observe(rec.Duration.Seconds())
	bestEvaluation.Set(rec.Best)
	if e.progress != nil {
		e.progress.Publish(events.Progress{
			RunID:      runID,
			Iteration:  rec.Iteration,
			Planned:    planned,
			Evaluation: rec.Evaluation,
			Best:       rec.Best,
			Elapsed:    rec.Elapsed,
		})
	}
	if ir, ok := e.sink.(metrics.IterationRecorder); ok {
		if err := ir.RecordIteration(metrics.IterationRecord{
			RunID:        runID,
			Iteration:    rec.Iteration,
			Evaluation:   rec.Evaluation,
			Best:         rec.Best,
			Candidates:   rec.Candidates,
			TabuRejected: rec.TabuRejected,
			Aspirated:    rec.Aspirated,
			Move:         rec.Move,
			Elapsed:      rec.Elapsed,
		}); err != nil {
			e.log.Warnf("record iteration: %v", err)
		}
	}
	e.log.Debugw("iteration", map[string]any{
		"run_id":     runID,
		"iteration":  rec.Iteration,
		"evaluation": rec.Evaluation,
		"best":       rec.Best,
		"candidates": rec.Candidates,
		"tabu":       rec.TabuRejected,
		"move":       rec.Move,
	})
}

func (e *Engine) finish(res Result) {
	e.setState(res.State, &res)
	runsTotal.WithLabelValues(res.State.String()).Inc()
	if e.finished != nil {
		e.finished.Publish(events.Finished{
			RunID:      res.RunID,
			State:      res.State.String(),
			Reason:     res.Reason,
			Iterations: res.Iterations,
			Best:       res.Best.Evaluation,
			Elapsed:    res.Elapsed,
		})
	}
	candidates := 0
	for _, r := range res.Telemetry {
		candidates += r.Candidates
	}
	if err := e.sink.RecordRun(metrics.RunRecord{
		RunID:      res.RunID,
		State:      res.State.String(),
		Reason:     res.Reason,
		Iterations: res.Iterations,
		Candidates: candidates,
		Initial:    res.Initial.Evaluation,
		Best:       res.Best.Evaluation,
		Duration:   res.Elapsed,
		Time:       e.now(),
	}); err != nil {
		e.log.Warnf("record run: %v", err)
	}
	e.log.Infof("run %s %s (%s) after %d iterations: best %.3f (initial %.3f)",
		res.RunID, res.State, res.Reason, res.Iterations, res.Best.Evaluation, res.Initial.Evaluation)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
