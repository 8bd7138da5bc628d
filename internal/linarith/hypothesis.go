package linarith

import (
	"errors"
	"fmt"
)

// ErrUnsupportedHypothesis is returned for propositions that are not
// linear comparisons, such as disequalities.
var ErrUnsupportedHypothesis = errors.New("unsupported hypothesis")

// CmpOp is a comparison operator between two terms.
type CmpOp int

const (
	_ CmpOp = iota
	CmpLt
	CmpLe
	CmpEq
	CmpGe
	CmpGt
	CmpNe
)

func (op CmpOp) String() string {
	switch op {
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpEq:
		return "=="
	case CmpGe:
		return ">="
	case CmpGt:
		return ">"
	case CmpNe:
		return "!="
	default:
		return "?"
	}
}

// Negate returns the operator of the negated comparison.
func (op CmpOp) Negate() CmpOp {
	switch op {
	case CmpLt:
		return CmpGe
	case CmpLe:
		return CmpGt
	case CmpEq:
		return CmpNe
	case CmpGe:
		return CmpLt
	case CmpGt:
		return CmpLe
	case CmpNe:
		return CmpEq
	default:
		return op
	}
}

// Prop is the proposition Left op Right.
type Prop struct {
	Op    CmpOp
	Left  Term
	Right Term
}

func (p Prop) String() string {
	return p.Left.String() + " " + p.Op.String() + " " + p.Right.String()
}

// LtP creates left < right.
func LtP(left, right Term) Prop { return Prop{Op: CmpLt, Left: left, Right: right} }

// LeP creates left <= right.
func LeP(left, right Term) Prop { return Prop{Op: CmpLe, Left: left, Right: right} }

// EqP creates left == right.
func EqP(left, right Term) Prop { return Prop{Op: CmpEq, Left: left, Right: right} }

// GeP creates left >= right.
func GeP(left, right Term) Prop { return Prop{Op: CmpGe, Left: left, Right: right} }

// GtP creates left > right.
func GtP(left, right Term) Prop { return Prop{Op: CmpGt, Left: left, Right: right} }

// NeP creates left != right.
func NeP(left, right Term) Prop { return Prop{Op: CmpNe, Left: left, Right: right} }

// Hypothesis is an input proposition with a caller-chosen label and the
// name of the ordered structure its terms live in.
type Hypothesis struct {
	ID   string
	Type string
	Prop Prop
}

// ParseProp rewrites p into the form term ⋈ 0. Greater-than comparisons
// swap sides; a ⋈ b becomes a - b ⋈ 0. Comparisons against a literal zero
// on the right keep the left term unchanged.
func ParseProp(p Prop) (Relation, Term, error) {
	if p.Left == nil || p.Right == nil {
		return 0, nil, fmt.Errorf("%w: missing operand", ErrUnsupportedHypothesis)
	}

	switch p.Op {
	case CmpLt:
		return Lt, difference(p.Left, p.Right), nil
	case CmpLe:
		return Le, difference(p.Left, p.Right), nil
	case CmpEq:
		return Eq, difference(p.Left, p.Right), nil
	case CmpGe:
		return Le, difference(p.Right, p.Left), nil
	case CmpGt:
		return Lt, difference(p.Right, p.Left), nil
	case CmpNe:
		return 0, nil, fmt.Errorf("%w: disequality %s", ErrUnsupportedHypothesis, p)
	default:
		return 0, nil, fmt.Errorf("%w: operator %s", ErrUnsupportedHypothesis, p.Op)
	}
}

func difference(a, b Term) Term {
	if isZero(b) {
		return a
	}
	return Sub(a, b)
}

func isZero(t Term) bool {
	n, ok := t.(NumTerm)
	return ok && (n.Val == nil || n.Val.Sign() == 0)
}
