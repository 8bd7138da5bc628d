package linarith

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the prover.
type Config struct {
	// Type, when set, keeps only hypotheses of that ambient type.
	Type      string
	Order     Order
	Limits    Limits
	SelfCheck bool // replay every certificate before reporting it
}

// DefaultConfig returns the default prover configuration.
func DefaultConfig() Config {
	return Config{
		Order: OrderAscending,
		Limits: Limits{
			MaxRounds: 64,
			MaxComps:  10000,
		},
		SelfCheck: true,
	}
}

// Prover is the main entry point of the decision procedure.
// A Prover holds no per-run state and may be shared between goroutines.
type Prover struct {
	config Config
	logger *zap.Logger
}

// New creates a prover with the default configuration.
func New() *Prover {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a prover with the given configuration.
func NewWithConfig(config Config) *Prover {
	return &Prover{config: config, logger: zap.NewNop()}
}

// WithLogger returns a copy of p logging to logger.
func (p *Prover) WithLogger(logger *zap.Logger) *Prover {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := *p
	out.logger = logger
	return &out
}

// Config returns the prover configuration.
func (p *Prover) Config() Config {
	return p.config
}

// Decide looks for a certificate that hyps are jointly unsatisfiable,
// using the default prover.
func Decide(hyps []Hypothesis) Report {
	return New().Decide(hyps)
}

// Decide looks for a certificate that hyps are jointly unsatisfiable.
func (p *Prover) Decide(hyps []Hypothesis) Report {
	return p.DecideContext(context.Background(), hyps)
}

// DecideContext is Decide with cancellation between elimination rounds.
func (p *Prover) DecideContext(ctx context.Context, hyps []Hypothesis) Report {
	reg := NewRegistry()
	report := Report{
		Verdict:  NotRefuted,
		Names:    make([]string, len(hyps)),
		Comps:    make([]Comp, len(hyps)),
		Registry: reg,
	}

	inputs := make([]Input, len(hyps))
	for i, h := range hyps {
		report.Names[i] = h.ID
		inputs[i] = Input{Index: i, Hyp: h}
	}

	for _, stage := range p.pipeline(NewNormalizer(reg)) {
		var dropped []Dropped
		inputs, dropped = stage.Process(inputs)
		for _, d := range dropped {
			p.logger.Debug("hypothesis dropped",
				zap.String("stage", stage.Name()),
				zap.String("id", d.ID),
				zap.Error(d.Reason),
			)
		}
		report.Dropped = append(report.Dropped, dropped...)
	}

	if len(inputs) == 0 {
		report.Reason = ReasonNoHypotheses
		return report
	}

	seeds := make([]PComp, len(inputs))
	for i, x := range inputs {
		report.Comps[x.Index] = x.Comp
		seeds[i] = PComp{Comp: x.Comp, Src: Assume(x.Index)}
	}

	elim := NewEliminator(seeds, p.config.Order, p.config.Limits, p.logger)
	elim.Run(ctx)
	report.Rounds = elim.Rounds()
	report.Peak = elim.Peak()

	switch elim.State() {
	case StateContradiction:
		found, _ := elim.Contradiction()
		cert := BuildCertificate(found)
		if p.config.SelfCheck {
			if err := cert.Verify(report.Comps); err != nil {
				p.logger.Error("certificate failed replay", zap.Error(err))
				report.Reason = ReasonSelfCheck
				report.Detail = err.Error()
				return report
			}
		}
		report.Verdict = Refuted
		report.Reason = ReasonContradiction
		report.Certificate = cert

	case StateExhausted:
		report.Reason = ReasonExhausted

	case StateAborted:
		err := elim.Err()
		report.Detail = err.Error()
		switch {
		case errors.Is(err, ErrRoundLimit):
			report.Reason = ReasonRoundLimit
		case errors.Is(err, ErrCompLimit):
			report.Reason = ReasonCompLimit
		default:
			report.Reason = ReasonCanceled
		}
	}

	p.logger.Debug("decision finished",
		zap.Stringer("verdict", report.Verdict),
		zap.Stringer("reason", report.Reason),
		zap.Int("rounds", report.Rounds),
		zap.Int("peak", report.Peak),
		zap.Int("atoms", reg.Len()),
	)
	return report
}

func (p *Prover) pipeline(n *Normalizer) []Preprocessor {
	return []Preprocessor{
		TypeFilter{Type: p.config.Type},
		normalization{n: n},
		DropTrivial{},
	}
}

// GoalID labels the negated goal in the runs of ProveGoal.
const GoalID = "goal"

// ProveGoal proves goal from hyps by refuting hyps together with the
// negation of goal. An equality goal a == b is proved by refuting a < b
// and a > b separately. Disequality goals are not supported.
func (p *Prover) ProveGoal(ctx context.Context, hyps []Hypothesis, goal Prop) GoalReport {
	out := GoalReport{Goal: goal}

	var negations []Prop
	switch goal.Op {
	case CmpLt, CmpLe, CmpGe, CmpGt:
		negations = []Prop{{Op: goal.Op.Negate(), Left: goal.Left, Right: goal.Right}}
	case CmpEq:
		negations = []Prop{LtP(goal.Left, goal.Right), GtP(goal.Left, goal.Right)}
	default:
		out.Reason = ReasonUnsupportedGoal
		return out
	}

	out.Proved = true
	for _, neg := range negations {
		run := make([]Hypothesis, len(hyps), len(hyps)+1)
		copy(run, hyps)
		run = append(run, Hypothesis{ID: GoalID, Type: p.config.Type, Prop: neg})

		report := p.DecideContext(ctx, run)
		out.Reports = append(out.Reports, report)
		out.Reason = report.Reason
		if !report.Refuted() {
			out.Proved = false
			return out
		}
	}
	return out
}

// DecideBatch decides independent problems in parallel. workers bounds the
// number of concurrent runs; zero or less means one per problem.
func (p *Prover) DecideBatch(ctx context.Context, problems [][]Hypothesis, workers int) []Report {
	reports := make([]Report, len(problems))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, hyps := range problems {
		g.Go(func() error {
			reports[i] = p.DecideContext(gctx, hyps)
			return nil
		})
	}
	_ = g.Wait()

	return reports
}
