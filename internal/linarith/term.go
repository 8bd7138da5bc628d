package linarith

import (
	"math/big"
	"strings"
)

// Term represents an arithmetic term over an ordered field.
type Term interface {
	isTerm()
	String() string
}

// NumTerm represents an exact numeral.
type NumTerm struct {
	Val *big.Rat
}

func (NumTerm) isTerm() {}
func (t NumTerm) String() string {
	if t.Val == nil {
		return "0"
	}
	return t.Val.RatString()
}

// VarTerm represents a named unknown.
type VarTerm struct {
	Name string
}

func (VarTerm) isTerm() {}
func (t VarTerm) String() string {
	return t.Name
}

// AppTerm represents an uninterpreted function application.
// The normalizer treats it as a single atom.
type AppTerm struct {
	Func string
	Args []Term
}

func (AppTerm) isTerm() {}
func (t AppTerm) String() string {
	var b strings.Builder
	b.WriteString(t.Func)
	b.WriteByte('(')
	for i, arg := range t.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

// ArithOp represents a binary arithmetic operator.
type ArithOp int

const (
	_ ArithOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// BinaryTerm represents a binary arithmetic term.
type BinaryTerm struct {
	Op    ArithOp
	Left  Term
	Right Term
}

func (BinaryTerm) isTerm() {}
func (t BinaryTerm) String() string {
	return "(" + t.Left.String() + " " + t.Op.String() + " " + t.Right.String() + ")"
}

// NegTerm represents arithmetic negation.
type NegTerm struct {
	Operand Term
}

func (NegTerm) isTerm() {}
func (t NegTerm) String() string {
	return "(-" + t.Operand.String() + ")"
}

// Helper functions to construct terms

// Int creates an integer numeral.
func Int(v int64) Term {
	return NumTerm{Val: big.NewRat(v, 1)}
}

// Frac creates the numeral num/den. den must not be zero.
func Frac(num, den int64) Term {
	return NumTerm{Val: big.NewRat(num, den)}
}

// Num creates a numeral from an exact rational.
func Num(v *big.Rat) Term {
	return NumTerm{Val: new(big.Rat).Set(v)}
}

// Var creates a named unknown.
func Var(name string) Term {
	return VarTerm{Name: name}
}

// App creates an uninterpreted function application.
func App(fn string, args ...Term) Term {
	return AppTerm{Func: fn, Args: args}
}

// Add creates the sum of two or more terms, associated to the left.
func Add(first, second Term, rest ...Term) Term {
	result := Term(BinaryTerm{Op: OpAdd, Left: first, Right: second})
	for _, t := range rest {
		result = BinaryTerm{Op: OpAdd, Left: result, Right: t}
	}
	return result
}

// Sub creates left - right.
func Sub(left, right Term) Term {
	return BinaryTerm{Op: OpSub, Left: left, Right: right}
}

// Mul creates left * right.
func Mul(left, right Term) Term {
	return BinaryTerm{Op: OpMul, Left: left, Right: right}
}

// Div creates left / right.
func Div(left, right Term) Term {
	return BinaryTerm{Op: OpDiv, Left: left, Right: right}
}

// Neg creates -t.
func Neg(t Term) Term {
	return NegTerm{Operand: t}
}
