package linarith

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch marks hypotheses over a different ordered structure
	// than the one selected.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrTrivial marks hypotheses that hold without mentioning any atom.
	ErrTrivial = errors.New("trivially true")
)

// Input is a hypothesis travelling through the preprocessing chain.
// Comp is filled in by normalization.
type Input struct {
	Index int
	Hyp   Hypothesis
	Comp  Comp
}

// Preprocessor filters or rewrites inputs before elimination.
type Preprocessor interface {
	Name() string
	Process(in []Input) (kept []Input, dropped []Dropped)
}

// TypeFilter keeps only hypotheses of one ambient type.
type TypeFilter struct {
	Type string
}

func (TypeFilter) Name() string { return "type-filter" }

func (f TypeFilter) Process(in []Input) ([]Input, []Dropped) {
	if f.Type == "" {
		return in, nil
	}
	var kept []Input
	var dropped []Dropped
	for _, x := range in {
		if x.Hyp.Type != f.Type {
			dropped = append(dropped, Dropped{
				Index:  x.Index,
				ID:     x.Hyp.ID,
				Reason: fmt.Errorf("%w: %q, want %q", ErrTypeMismatch, x.Hyp.Type, f.Type),
			})
			continue
		}
		kept = append(kept, x)
	}
	return kept, dropped
}

// normalization parses each proposition and linearizes its term.
type normalization struct {
	n *Normalizer
}

func (normalization) Name() string { return "normalize" }

func (s normalization) Process(in []Input) ([]Input, []Dropped) {
	var kept []Input
	var dropped []Dropped
	for _, x := range in {
		rel, term, err := ParseProp(x.Hyp.Prop)
		if err == nil {
			var coeffs Linexp
			coeffs, err = s.n.Normalize(term)
			x.Comp = Comp{Rel: rel, Coeffs: coeffs}
		}
		if err != nil {
			dropped = append(dropped, Dropped{Index: x.Index, ID: x.Hyp.ID, Reason: err})
			continue
		}
		kept = append(kept, x)
	}
	return kept, dropped
}

// DropTrivial removes comparisons that mention no atom and hold.
type DropTrivial struct{}

func (DropTrivial) Name() string { return "drop-trivial" }

func (DropTrivial) Process(in []Input) ([]Input, []Dropped) {
	var kept []Input
	var dropped []Dropped
	for _, x := range in {
		if x.Comp.IsTrivial() {
			dropped = append(dropped, Dropped{
				Index:  x.Index,
				ID:     x.Hyp.ID,
				Reason: fmt.Errorf("%w: %s", ErrTrivial, x.Comp),
			})
			continue
		}
		kept = append(kept, x)
	}
	return kept, dropped
}
