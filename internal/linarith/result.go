package linarith

import "fmt"

// Verdict is the outcome of a decision run.
type Verdict int

const (
	_ Verdict = iota
	// Refuted means the hypotheses are jointly unsatisfiable and a
	// certificate was produced.
	Refuted
	// NotRefuted means no certificate was found. The hypotheses may be
	// satisfiable, or a limit stopped the search.
	NotRefuted
)

func (v Verdict) String() string {
	switch v {
	case Refuted:
		return "Refuted"
	case NotRefuted:
		return "NotRefuted"
	default:
		return "?"
	}
}

// ReasonCode explains a verdict.
type ReasonCode int

const (
	ReasonNone ReasonCode = iota
	ReasonContradiction
	ReasonExhausted
	ReasonNoHypotheses
	ReasonRoundLimit
	ReasonCompLimit
	ReasonCanceled
	ReasonSelfCheck
	ReasonUnsupportedGoal
)

func (r ReasonCode) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonContradiction:
		return "contradiction derived"
	case ReasonExhausted:
		return "all atoms eliminated without contradiction"
	case ReasonNoHypotheses:
		return "no usable hypotheses"
	case ReasonRoundLimit:
		return "round limit exceeded"
	case ReasonCompLimit:
		return "comparison limit exceeded"
	case ReasonCanceled:
		return "canceled"
	case ReasonSelfCheck:
		return "certificate failed replay"
	case ReasonUnsupportedGoal:
		return "goal is not a supported comparison"
	default:
		return "unknown"
	}
}

// Dropped records a hypothesis that did not take part in elimination.
type Dropped struct {
	Index  int
	ID     string
	Reason error
}

func (d Dropped) String() string {
	return fmt.Sprintf("%s: %v", d.ID, d.Reason)
}

// Report describes a decision run.
type Report struct {
	Verdict     Verdict
	Reason      ReasonCode
	Detail      string
	Certificate *Certificate

	// Names and Comps are indexed like the input hypotheses. Comps of
	// dropped hypotheses have nil coefficients.
	Names   []string
	Comps   []Comp
	Dropped []Dropped

	Registry *Registry
	Rounds   int
	Peak     int
}

// Refuted reports whether a certificate was produced.
func (r Report) Refuted() bool {
	return r.Verdict == Refuted && r.Certificate != nil
}

// Summary returns a one-line description of the report.
func (r Report) Summary() string {
	if r.Refuted() {
		return fmt.Sprintf("refuted after %d rounds: %s", r.Rounds, r.Certificate.Format(r.Names))
	}
	if r.Detail != "" {
		return fmt.Sprintf("not refuted (%s): %s", r.Reason, r.Detail)
	}
	return fmt.Sprintf("not refuted (%s)", r.Reason)
}

// GoalReport describes an attempt to prove a goal from hypotheses.
// Equality goals take two runs, one per strict direction.
type GoalReport struct {
	Proved  bool
	Goal    Prop
	Reason  ReasonCode
	Reports []Report
}
