package internal

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/linarith/internal/linarith"
	"github.com/gnolang/linarith/internal/problem"
	tt "github.com/gnolang/linarith/internal/types"
)

// Engine solves problem files with a shared prover.
type Engine struct {
	prover  *linarith.Prover
	logger  *zap.Logger
	cache   *Cache
	workers int

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	watchDirs []string
	results   chan WatchResult
	stop      chan struct{}
	done      chan struct{}
}

// NewEngine creates an engine deciding problems with the given prover
// configuration.
func NewEngine(config linarith.Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		prover: linarith.NewWithConfig(config).WithLogger(logger),
		logger: logger,
	}
}

// SetCache enables result caching. A nil cache disables it.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// SetWorkers bounds the number of problems of one file decided in
// parallel. Zero means no bound.
func (e *Engine) SetWorkers(n int) {
	e.workers = n
}

// Config returns the prover configuration.
func (e *Engine) Config() linarith.Config {
	return e.prover.Config()
}

// Run decides every problem in the given file.
func (e *Engine) Run(filename string) ([]tt.Result, error) {
	return e.RunContext(context.Background(), filename)
}

// RunContext is Run with cancellation.
func (e *Engine) RunContext(ctx context.Context, filename string) ([]tt.Result, error) {
	fingerprint := configFingerprint(e.Config())
	var (
		metadata fileMetadata
		cacheErr error
	)
	if e.cache != nil {
		if results, ok := e.cache.Get(filename, fingerprint); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return results, nil
		}
		metadata, cacheErr = getFileMetadata(filename)
	}

	problems, err := problem.Load(filename)
	if err != nil {
		return nil, err
	}

	results, err := e.Solve(ctx, filename, problems)
	if err != nil {
		return nil, err
	}

	// canceled runs are not cached
	if e.cache != nil && cacheErr == nil && ctx.Err() == nil {
		if err := e.cache.Set(filename, fingerprint, metadata, results); err != nil {
			e.logger.Warn("failed to cache results", zap.String("file", filename), zap.Error(err))
		}
	}
	return results, nil
}

// RunSource decides every problem in the given YAML source.
func (e *Engine) RunSource(source []byte) ([]tt.Result, error) {
	problems, err := problem.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}
	return e.Solve(context.Background(), "", problems)
}

// Solve decides the given problems. Problems without a goal are decided
// in parallel; goals are proved one after the other.
func (e *Engine) Solve(ctx context.Context, filename string, problems []problem.Problem) ([]tt.Result, error) {
	results := make([]tt.Result, len(problems))

	var (
		batch   [][]linarith.Hypothesis
		batchAt []int
	)
	for i, p := range problems {
		hyps, err := p.Props()
		if err != nil {
			return nil, err
		}
		goal, ok, err := p.GoalProp()
		if err != nil {
			return nil, err
		}
		if !ok {
			batch = append(batch, hyps)
			batchAt = append(batchAt, i)
			continue
		}
		report := e.prover.ProveGoal(ctx, hyps, goal)
		results[i] = goalResult(filename, p, report)
	}

	for n, report := range e.prover.DecideBatch(ctx, batch, e.workers) {
		i := batchAt[n]
		results[i] = reportResult(filename, problems[i], report)
	}

	for _, r := range results {
		e.logger.Debug("problem decided",
			zap.String("file", filename),
			zap.String("problem", r.Problem),
			zap.String("verdict", r.Verdict),
			zap.Int("rounds", r.Rounds),
		)
	}
	return results, nil
}

func reportResult(filename string, p problem.Problem, report linarith.Report) tt.Result {
	r := tt.Result{
		Filename: filename,
		Problem:  p.Name,
		Verdict:  tt.VerdictNotRefuted,
		Reason:   report.Reason.String(),
		Detail:   report.Detail,
		Expect:   string(p.Expect),
		Dropped:  droppedLabels(report),
		Rounds:   report.Rounds,
	}
	if report.Refuted() {
		r.Verdict = tt.VerdictRefuted
		r.Certificate = report.Certificate.Format(report.Names)
		r.Weights = certificateWeights(report)
	}
	r.Mismatch = !p.Expect.Holds(r.Success())
	return r
}

func goalResult(filename string, p problem.Problem, report linarith.GoalReport) tt.Result {
	r := tt.Result{
		Filename: filename,
		Problem:  p.Name,
		Goal:     p.Goal,
		Verdict:  tt.VerdictNotProved,
		Reason:   report.Reason.String(),
		Expect:   string(p.Expect),
	}
	if report.Proved {
		r.Verdict = tt.VerdictProved
	}

	for n, run := range report.Reports {
		r.Rounds += run.Rounds
		if n == 0 {
			r.Dropped = droppedLabels(run)
		}
		if run.Detail != "" {
			r.Detail = run.Detail
		}
		if !run.Refuted() {
			continue
		}
		// an equality goal is proved by two refutations
		if r.Certificate != "" {
			r.Certificate += "; "
		}
		r.Certificate += run.Certificate.Format(run.Names)
		if len(report.Reports) == 1 {
			r.Weights = certificateWeights(run)
		}
	}

	r.Mismatch = !p.Expect.Holds(r.Success())
	return r
}

func certificateWeights(report linarith.Report) map[string]string {
	weights := make(map[string]string, len(report.Certificate.Weights))
	for _, i := range report.Certificate.Indices() {
		label := fmt.Sprintf("h%d", i)
		if i < len(report.Names) && report.Names[i] != "" {
			label = report.Names[i]
		}
		weights[label] = report.Certificate.Weights[i].RatString()
	}
	return weights
}

func droppedLabels(report linarith.Report) []string {
	if len(report.Dropped) == 0 {
		return nil
	}
	labels := make([]string, len(report.Dropped))
	for i, d := range report.Dropped {
		labels[i] = d.String()
	}
	return labels
}
