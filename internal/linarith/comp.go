package linarith

import "math/big"

// Relation is the comparison of a linear combination against zero.
// Relations are ordered by strictness: Eq < Le < Lt.
type Relation int

const (
	Eq Relation = iota
	Le
	Lt
)

func (r Relation) String() string {
	switch r {
	case Eq:
		return "="
	case Le:
		return "<="
	case Lt:
		return "<"
	default:
		return "?"
	}
}

// Max returns the stricter of r and o. Adding a comparison of relation r
// to one of relation o yields a comparison of relation r.Max(o).
func (r Relation) Max(o Relation) Relation {
	if o > r {
		return o
	}
	return r
}

// Holds reports whether c ⋈ 0 is true for the constant c.
func (r Relation) Holds(c *big.Rat) bool {
	switch r {
	case Eq:
		return c.Sign() == 0
	case Le:
		return c.Sign() <= 0
	case Lt:
		return c.Sign() < 0
	default:
		return false
	}
}

// Comp represents the comparison Coeffs ⋈ 0.
type Comp struct {
	Rel    Relation
	Coeffs Linexp
}

// Add returns the sum of two comparisons.
func (c Comp) Add(o Comp) Comp {
	return Comp{Rel: c.Rel.Max(o.Rel), Coeffs: c.Coeffs.Add(o.Coeffs)}
}

// Scale returns k·c. k must be positive.
func (c Comp) Scale(k *big.Rat) Comp {
	return Comp{Rel: c.Rel, Coeffs: c.Coeffs.Scale(k)}
}

// Coeff returns the coefficient of id.
func (c Comp) Coeff(id AtomID) *big.Rat {
	return c.Coeffs.Coeff(id)
}

// IsContradiction reports whether c mentions no atom and its constant
// comparison is false, such as 0 < 0 or 1 <= 0. The empty comparison is
// contradictory only under Lt.
func (c Comp) IsContradiction() bool {
	if !c.Coeffs.IsConst() {
		return false
	}
	return !c.Rel.Holds(c.Coeffs.Constant())
}

// IsTrivial reports whether c mentions no atom and holds, such as 0 <= 0.
func (c Comp) IsTrivial() bool {
	return c.Coeffs.IsConst() && c.Rel.Holds(c.Coeffs.Constant())
}

// Equal reports whether two comparisons are identical.
func (c Comp) Equal(o Comp) bool {
	return c.Rel == o.Rel && c.Coeffs.Equal(o.Coeffs)
}

// Format renders c using the atom names of reg; reg may be nil.
func (c Comp) Format(reg *Registry) string {
	return c.Coeffs.Format(reg) + " " + c.Rel.String() + " 0"
}

func (c Comp) String() string {
	return c.Format(nil)
}
