package linarith

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// ErrMalformedCertificate is returned when replaying a certificate does not
// yield a false comparison. It indicates a defect in the elimination.
var ErrMalformedCertificate = errors.New("malformed certificate")

// Certificate is a Farkas-style infeasibility witness: strictly positive
// multipliers over input hypotheses whose weighted sum is Target, a
// comparison between constants that does not hold.
type Certificate struct {
	Weights map[int]*big.Rat
	Target  Comp
}

// BuildCertificate flattens the derivation of p into multipliers over the
// input hypotheses. Shared sub-derivations are visited once.
func BuildCertificate(p PComp) *Certificate {
	memo := make(map[Source]map[int]*big.Rat)
	return &Certificate{
		Weights: weightsOf(p.Src, memo),
		Target:  p.Comp,
	}
}

func weightsOf(src Source, memo map[Source]map[int]*big.Rat) map[int]*big.Rat {
	if w, ok := memo[src]; ok {
		return w
	}

	var out map[int]*big.Rat
	switch s := src.(type) {
	case *Assumption:
		out = map[int]*big.Rat{s.Index: big.NewRat(1, 1)}

	case *Sum:
		left := weightsOf(s.Left, memo)
		right := weightsOf(s.Right, memo)
		out = make(map[int]*big.Rat, len(left)+len(right))
		for i, w := range left {
			out[i] = w
		}
		for i, w := range right {
			if prev, ok := out[i]; ok {
				out[i] = new(big.Rat).Add(prev, w)
			} else {
				out[i] = w
			}
		}

	case *Scaled:
		inner := weightsOf(s.Of, memo)
		out = make(map[int]*big.Rat, len(inner))
		for i, w := range inner {
			out[i] = new(big.Rat).Mul(w, s.Factor)
		}

	default:
		out = map[int]*big.Rat{}
	}

	memo[src] = out
	return out
}

// Indices returns the hypothesis indices with a multiplier, ascending.
func (c *Certificate) Indices() []int {
	out := make([]int, 0, len(c.Weights))
	for i := range c.Weights {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Replay computes the weighted sum of comps described by c.
func (c *Certificate) Replay(comps []Comp) (Comp, error) {
	if len(c.Weights) == 0 {
		return Comp{}, fmt.Errorf("%w: no multipliers", ErrMalformedCertificate)
	}

	sum := Comp{Rel: Eq, Coeffs: Linexp{}}
	for _, i := range c.Indices() {
		w := c.Weights[i]
		if i < 0 || i >= len(comps) {
			return Comp{}, fmt.Errorf("%w: hypothesis %d out of range", ErrMalformedCertificate, i)
		}
		if w.Sign() <= 0 {
			return Comp{}, fmt.Errorf("%w: multiplier %s of hypothesis %d is not positive", ErrMalformedCertificate, w.RatString(), i)
		}
		sum = sum.Add(comps[i].Scale(w))
	}
	return sum, nil
}

// Verify replays c over comps, the normalized input comparisons, and checks
// that the weighted sum is Target and that Target is false.
func (c *Certificate) Verify(comps []Comp) error {
	sum, err := c.Replay(comps)
	if err != nil {
		return err
	}
	if !sum.Coeffs.IsConst() {
		return fmt.Errorf("%w: weighted sum %s still mentions atoms", ErrMalformedCertificate, sum)
	}
	if !sum.Equal(c.Target) {
		return fmt.Errorf("%w: weighted sum %s differs from target %s", ErrMalformedCertificate, sum, c.Target)
	}
	if !sum.IsContradiction() {
		return fmt.Errorf("%w: %s holds", ErrMalformedCertificate, sum)
	}
	return nil
}

// Format renders c as a weighted sum of hypothesis labels followed by the
// target. names maps an index to its label; indices without a name print
// as h<index>.
func (c *Certificate) Format(names []string) string {
	var b strings.Builder
	for n, i := range c.Indices() {
		if n > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(c.Weights[i].RatString())
		b.WriteString("*")
		if i >= 0 && i < len(names) && names[i] != "" {
			b.WriteString(names[i])
		} else {
			b.WriteString("h" + strconv.Itoa(i))
		}
	}
	b.WriteString(" : ")
	b.WriteString(c.Target.String())
	return b.String()
}

func (c *Certificate) String() string {
	return c.Format(nil)
}
