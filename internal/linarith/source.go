package linarith

import (
	"math/big"
	"strconv"
)

// Source records how a comparison was derived from the input hypotheses.
// Nodes are immutable and may be shared between several derivations.
type Source interface {
	isSource()
	String() string
}

// Assumption is the input hypothesis at Index.
type Assumption struct {
	Index int
}

func (*Assumption) isSource() {}
func (s *Assumption) String() string {
	return "h" + strconv.Itoa(s.Index)
}

// Sum is the sum of two derivations.
type Sum struct {
	Left  Source
	Right Source
}

func (*Sum) isSource() {}
func (s *Sum) String() string {
	return "(" + s.Left.String() + " + " + s.Right.String() + ")"
}

// Scaled is a derivation multiplied by a positive factor.
type Scaled struct {
	Factor *big.Rat
	Of     Source
}

func (*Scaled) isSource() {}
func (s *Scaled) String() string {
	return s.Factor.RatString() + "*" + s.Of.String()
}

// Assume creates an assumption node.
func Assume(index int) Source {
	return &Assumption{Index: index}
}

// AddSources creates a sum node.
func AddSources(left, right Source) Source {
	return &Sum{Left: left, Right: right}
}

// ScaleSource creates a scaling node. Scaling by one returns src itself.
// k must be positive.
func ScaleSource(k *big.Rat, src Source) Source {
	if k.Cmp(big.NewRat(1, 1)) == 0 {
		return src
	}
	return &Scaled{Factor: new(big.Rat).Set(k), Of: src}
}

// PComp is a comparison together with its derivation.
type PComp struct {
	Comp Comp
	Src  Source
}

// primitive scales p so its coefficients are coprime integers and records
// the scaling in the derivation.
func (p PComp) primitive() PComp {
	coeffs, k := p.Comp.Coeffs.Primitive()
	return PComp{
		Comp: Comp{Rel: p.Comp.Rel, Coeffs: coeffs},
		Src:  ScaleSource(k, p.Src),
	}
}
