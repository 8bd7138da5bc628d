package linarith

import (
	"context"
	"errors"
	"math/big"
	"slices"

	"go.uber.org/zap"
)

var (
	// ErrRoundLimit is reported when elimination needs more rounds than allowed.
	ErrRoundLimit = errors.New("round limit exceeded")
	// ErrCompLimit is reported when a round produces more comparisons than allowed.
	ErrCompLimit = errors.New("comparison limit exceeded")
)

// State is the state of an elimination run.
type State int

const (
	// StateRunning means atoms remain to be eliminated.
	StateRunning State = iota
	// StateContradiction means a false comparison was derived.
	StateContradiction
	// StateExhausted means no atom is left and no contradiction was found.
	StateExhausted
	// StateAborted means a limit or cancellation stopped the run.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateContradiction:
		return "Contradiction"
	case StateExhausted:
		return "Exhausted"
	case StateAborted:
		return "Aborted"
	default:
		return "?"
	}
}

// Order selects the atom eliminated in each round.
type Order int

const (
	// OrderAscending eliminates the active atom with the smallest id.
	OrderAscending Order = iota
	// OrderFewestPairs eliminates the active atom producing the fewest new
	// comparisons, breaking ties by smallest id.
	OrderFewestPairs
)

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "ascending"
	case OrderFewestPairs:
		return "fewest-pairs"
	default:
		return "?"
	}
}

// ParseOrder parses the name of an elimination order.
func ParseOrder(name string) (Order, error) {
	switch name {
	case "", "ascending":
		return OrderAscending, nil
	case "fewest-pairs":
		return OrderFewestPairs, nil
	default:
		return 0, errors.New("unknown elimination order: " + name)
	}
}

// Limits bound an elimination run. Zero means unbounded.
type Limits struct {
	MaxRounds int
	MaxComps  int
}

// Eliminator runs Fourier-Motzkin elimination over a working set of
// comparisons. Each round cancels one atom: comparisons not mentioning it
// carry over, every pair with opposite signs at the atom is combined, and
// all other comparisons are dropped.
type Eliminator struct {
	comps  []PComp
	active []AtomID // ascending

	order  Order
	limits Limits
	logger *zap.Logger

	state State
	found *PComp
	err   error
	round int
	peak  int
}

// NewEliminator seeds a working set. Every comparison is reduced to
// coprime integer coefficients, comparisons that trivially hold are
// dropped, and the inputs are checked for an immediate contradiction.
func NewEliminator(comps []PComp, order Order, limits Limits, logger *zap.Logger) *Eliminator {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Eliminator{
		order:  order,
		limits: limits,
		logger: logger,
		state:  StateRunning,
	}

	seeded := make([]PComp, 0, len(comps))
	for _, p := range comps {
		p = p.primitive()
		if p.Comp.IsContradiction() {
			e.contradiction(p)
			return e
		}
		if p.Comp.IsTrivial() {
			continue
		}
		seeded = append(seeded, p)
	}
	e.setWorkingSet(seeded)
	return e
}

// State returns the current state.
func (e *Eliminator) State() State {
	return e.state
}

// Contradiction returns the false comparison derived, if any.
func (e *Eliminator) Contradiction() (PComp, bool) {
	if e.found == nil {
		return PComp{}, false
	}
	return *e.found, true
}

// Err returns the reason an aborted run stopped.
func (e *Eliminator) Err() error {
	return e.err
}

// Rounds returns the number of completed rounds.
func (e *Eliminator) Rounds() int {
	return e.round
}

// Peak returns the largest working set seen.
func (e *Eliminator) Peak() int {
	return e.peak
}

// Comps returns the current working set.
func (e *Eliminator) Comps() []PComp {
	return slices.Clone(e.comps)
}

// Active returns the atoms still present in the working set, ascending.
func (e *Eliminator) Active() []AtomID {
	return slices.Clone(e.active)
}

// Run performs rounds until the run reaches a terminal state. The context
// is checked between rounds; cancellation aborts the run.
func (e *Eliminator) Run(ctx context.Context) State {
	for e.state == StateRunning {
		if err := ctx.Err(); err != nil {
			e.abort(err)
			break
		}
		if e.limits.MaxRounds > 0 && e.round >= e.limits.MaxRounds && len(e.active) > 0 {
			e.abort(ErrRoundLimit)
			break
		}
		e.Step()
	}
	return e.state
}

// Step performs a single round on the next atom chosen by the order.
func (e *Eliminator) Step() State {
	if e.state != StateRunning {
		return e.state
	}
	if len(e.active) == 0 {
		e.state = StateExhausted
		return e.state
	}
	return e.Eliminate(e.nextAtom())
}

// Eliminate performs a single round cancelling atom a.
func (e *Eliminator) Eliminate(a AtomID) State {
	if e.state != StateRunning {
		return e.state
	}

	var next, pos, neg []PComp
	for _, p := range e.comps {
		c, ok := p.Comp.Coeffs[a]
		switch {
		case !ok:
			next = append(next, p)
		case c.Sign() > 0:
			pos = append(pos, p)
		default:
			neg = append(neg, p)
		}
	}

	for _, p := range pos {
		for _, q := range neg {
			r := combine(p, q, a)
			if r.Comp.IsContradiction() {
				e.round++
				e.contradiction(r)
				return e.state
			}
			if r.Comp.IsTrivial() {
				continue
			}
			next = append(next, r)
			if e.limits.MaxComps > 0 && len(next) > e.limits.MaxComps {
				e.abort(ErrCompLimit)
				return e.state
			}
		}
	}

	e.round++
	e.logger.Debug("eliminated atom",
		zap.Int("round", e.round),
		zap.Uint32("atom", uint32(a)),
		zap.Int("positive", len(pos)),
		zap.Int("negative", len(neg)),
		zap.Int("comps", len(next)),
	)

	e.setWorkingSet(next)
	return e.state
}

func (e *Eliminator) setWorkingSet(comps []PComp) {
	e.comps = comps
	e.peak = max(e.peak, len(comps))

	seen := make(map[AtomID]struct{})
	for _, p := range comps {
		for id := range p.Comp.Coeffs {
			if id != ConstAtom {
				seen[id] = struct{}{}
			}
		}
	}
	e.active = e.active[:0]
	for id := range seen {
		e.active = append(e.active, id)
	}
	slices.Sort(e.active)

	if len(e.active) == 0 {
		e.state = StateExhausted
	}
}

func (e *Eliminator) nextAtom() AtomID {
	if e.order != OrderFewestPairs {
		return e.active[0]
	}

	type counts struct{ pos, neg int }
	tally := make(map[AtomID]*counts, len(e.active))
	for _, id := range e.active {
		tally[id] = &counts{}
	}
	for _, p := range e.comps {
		for id, c := range p.Comp.Coeffs {
			if id == ConstAtom {
				continue
			}
			if c.Sign() > 0 {
				tally[id].pos++
			} else {
				tally[id].neg++
			}
		}
	}

	best := e.active[0]
	bestCost := -1
	for _, id := range e.active {
		cost := tally[id].pos * tally[id].neg
		if bestCost < 0 || cost < bestCost {
			best, bestCost = id, cost
		}
	}
	return best
}

func (e *Eliminator) contradiction(p PComp) {
	e.found = &p
	e.state = StateContradiction
	e.logger.Debug("contradiction found",
		zap.Int("round", e.round),
		zap.String("comp", p.Comp.String()),
	)
}

func (e *Eliminator) abort(err error) {
	e.err = err
	e.state = StateAborted
	e.logger.Debug("elimination aborted", zap.Int("round", e.round), zap.Error(err))
}

// combine cancels atom a between p (positive at a) and q (negative at a).
func combine(p, q PComp, a AtomID) PComp {
	s1, s2 := cancelFactors(p.Comp.Coeffs[a], q.Comp.Coeffs[a])
	out := PComp{
		Comp: p.Comp.Scale(s1).Add(q.Comp.Scale(s2)),
		Src:  AddSources(ScaleSource(s1, p.Src), ScaleSource(s2, q.Src)),
	}
	return out.primitive()
}

// cancelFactors returns positive s1, s2 with s1·v1 + s2·v2 = 0 for v1, v2 of
// opposite signs. For integers s1 = lcm/|v1| and s2 = lcm/|v2|.
func cancelFactors(v1, v2 *big.Rat) (*big.Rat, *big.Rat) {
	a1 := new(big.Rat).Abs(v1)
	a2 := new(big.Rat).Abs(v2)
	if !a1.IsInt() || !a2.IsInt() {
		return a2, a1
	}
	l := lcm(a1.Num(), a2.Num())
	s1 := new(big.Rat).SetFrac(l, a1.Num())
	s2 := new(big.Rat).SetFrac(l, a2.Num())
	return s1, s2
}
