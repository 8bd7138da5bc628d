package linarith

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNonlinear is returned when a term is not a linear combination of atoms,
// for example the product of two unknowns.
var ErrNonlinear = errors.New("nonlinear term")

// Normalizer converts terms into linear combinations over the atoms of a
// registry.
type Normalizer struct {
	reg *Registry
}

// NewNormalizer creates a normalizer interning atoms into reg.
func NewNormalizer(reg *Registry) *Normalizer {
	return &Normalizer{reg: reg}
}

// Registry returns the registry atoms are interned into.
func (n *Normalizer) Registry() *Registry {
	return n.reg
}

// Normalize returns the linear combination denoted by t. Shapes the
// normalizer does not understand become atoms. A product is linear only
// when one side normalizes to a constant; division only by a non-zero
// constant.
func (n *Normalizer) Normalize(t Term) (Linexp, error) {
	switch e := t.(type) {
	case NumTerm:
		if e.Val == nil {
			return Linexp{}, nil
		}
		return ConstLinexp(e.Val), nil

	case VarTerm, AppTerm:
		return AtomLinexp(n.reg.Intern(e)), nil

	case NegTerm:
		inner, err := n.Normalize(e.Operand)
		if err != nil {
			return nil, err
		}
		return inner.Neg(), nil

	case BinaryTerm:
		return n.normalizeBinary(e)

	default:
		return AtomLinexp(n.reg.Intern(t)), nil
	}
}

func (n *Normalizer) normalizeBinary(e BinaryTerm) (Linexp, error) {
	left, err := n.Normalize(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := n.Normalize(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpAdd:
		return left.Add(right), nil
	case OpSub:
		return left.Sub(right), nil
	case OpMul:
		if left.IsConst() {
			return right.Scale(left.Constant()), nil
		}
		if right.IsConst() {
			return left.Scale(right.Constant()), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNonlinear, e)
	case OpDiv:
		if !right.IsConst() {
			return nil, fmt.Errorf("%w: %s", ErrNonlinear, e)
		}
		c := right.Constant()
		if c.Sign() == 0 {
			return nil, fmt.Errorf("%w: division by zero in %s", ErrNonlinear, e)
		}
		return left.Scale(new(big.Rat).Inv(c)), nil
	default:
		return AtomLinexp(n.reg.Intern(e)), nil
	}
}

// Reify converts l back into a term over the registered atoms.
// Normalizing the result yields l again.
func (n *Normalizer) Reify(l Linexp) Term {
	var out Term
	push := func(t Term) {
		if out == nil {
			out = t
			return
		}
		out = Add(out, t)
	}

	for _, id := range l.Atoms() {
		atom := n.reg.Atom(id)
		if atom == nil {
			continue
		}
		c := l[id]
		if c.Cmp(big.NewRat(1, 1)) == 0 {
			push(atom)
			continue
		}
		push(Mul(Num(c), atom))
	}
	if c, ok := l[ConstAtom]; ok {
		push(Num(c))
	}

	if out == nil {
		return Int(0)
	}
	return out
}
