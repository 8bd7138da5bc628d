package linarith

import (
	"math/big"
	"slices"
	"strings"
)

// Linexp is a sparse linear combination of atoms. The coefficient of
// ConstAtom is the constant part. Zero coefficients are never stored.
//
// A Linexp is a value: operations return fresh maps and never mutate
// their receivers or the rationals they hold.
type Linexp map[AtomID]*big.Rat

// ConstLinexp returns the constant c.
func ConstLinexp(c *big.Rat) Linexp {
	if c.Sign() == 0 {
		return Linexp{}
	}
	return Linexp{ConstAtom: new(big.Rat).Set(c)}
}

// AtomLinexp returns 1·id.
func AtomLinexp(id AtomID) Linexp {
	return Linexp{id: big.NewRat(1, 1)}
}

// Coeff returns the coefficient of id, zero if absent.
func (l Linexp) Coeff(id AtomID) *big.Rat {
	if c, ok := l[id]; ok {
		return new(big.Rat).Set(c)
	}
	return new(big.Rat)
}

// Constant returns the constant part.
func (l Linexp) Constant() *big.Rat {
	return l.Coeff(ConstAtom)
}

// IsConst reports whether l mentions no atom besides the constant.
func (l Linexp) IsConst() bool {
	for id := range l {
		if id != ConstAtom {
			return false
		}
	}
	return true
}

// Add returns l + o.
func (l Linexp) Add(o Linexp) Linexp {
	out := make(Linexp, len(l)+len(o))
	for id, c := range l {
		out[id] = c
	}
	for id, c := range o {
		prev, ok := out[id]
		if !ok {
			out[id] = c
			continue
		}
		sum := new(big.Rat).Add(prev, c)
		if sum.Sign() == 0 {
			delete(out, id)
		} else {
			out[id] = sum
		}
	}
	return out
}

// Scale returns k·l.
func (l Linexp) Scale(k *big.Rat) Linexp {
	if k.Sign() == 0 {
		return Linexp{}
	}
	out := make(Linexp, len(l))
	for id, c := range l {
		out[id] = new(big.Rat).Mul(c, k)
	}
	return out
}

// Neg returns -l.
func (l Linexp) Neg() Linexp {
	return l.Scale(big.NewRat(-1, 1))
}

// Sub returns l - o.
func (l Linexp) Sub(o Linexp) Linexp {
	return l.Add(o.Neg())
}

// Keys returns every key of l in ascending order, the constant included.
func (l Linexp) Keys() []AtomID {
	keys := make([]AtomID, 0, len(l))
	for id := range l {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

// Atoms returns the non-constant keys of l in ascending order.
func (l Linexp) Atoms() []AtomID {
	keys := l.Keys()
	if len(keys) > 0 && keys[0] == ConstAtom {
		return keys[1:]
	}
	return keys
}

// Equal reports whether l and o denote the same combination.
func (l Linexp) Equal(o Linexp) bool {
	if len(l) != len(o) {
		return false
	}
	for id, c := range l {
		d, ok := o[id]
		if !ok || c.Cmp(d) != 0 {
			return false
		}
	}
	return true
}

// Primitive returns k·l together with the positive factor k chosen so that
// the coefficients of k·l are coprime integers. The zero combination is
// returned unchanged with k = 1.
func (l Linexp) Primitive() (Linexp, *big.Rat) {
	one := big.NewRat(1, 1)
	if len(l) == 0 {
		return l, one
	}

	denLCM := big.NewInt(1)
	for _, c := range l {
		denLCM = lcm(denLCM, c.Denom())
	}

	numGCD := new(big.Int)
	for _, c := range l {
		// c·denLCM is an integer
		n := new(big.Int).Mul(c.Num(), new(big.Int).Quo(denLCM, c.Denom()))
		numGCD.GCD(nil, nil, numGCD, n.Abs(n))
	}

	k := new(big.Rat).SetFrac(denLCM, numGCD)
	if k.Cmp(one) == 0 {
		return l, one
	}
	return l.Scale(k), k
}

// Format renders l using the atom names of reg; reg may be nil.
func (l Linexp) Format(reg *Registry) string {
	if len(l) == 0 {
		return "0"
	}

	var b strings.Builder
	keys := l.Atoms()
	if _, ok := l[ConstAtom]; ok {
		keys = append(keys, ConstAtom)
	}
	for i, id := range keys {
		c := l[id]
		abs := new(big.Rat).Abs(c)
		switch {
		case i == 0 && c.Sign() < 0:
			b.WriteString("-")
		case i > 0 && c.Sign() < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}

		if id == ConstAtom {
			b.WriteString(abs.RatString())
			continue
		}
		if !abs.IsInt() || abs.Num().Cmp(big.NewInt(1)) != 0 {
			b.WriteString(abs.RatString())
			b.WriteString("*")
		}
		b.WriteString(atomName(reg, id))
	}
	return b.String()
}

// String renders l with numeric atom ids.
func (l Linexp) String() string {
	return l.Format(nil)
}

func atomName(reg *Registry, id AtomID) string {
	if reg == nil {
		return "#" + big.NewInt(int64(id)).String()
	}
	return reg.Name(id)
}

func lcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Quo(a, g)
	out.Mul(out, b)
	return out.Abs(out)
}
