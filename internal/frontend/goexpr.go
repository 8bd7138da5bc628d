// Package frontend reads hypotheses written as Go expressions.
package frontend

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"math/big"

	"github.com/gnolang/linarith/internal/linarith"
)

var (
	// ErrSyntax is returned when the source is not a Go expression.
	ErrSyntax = errors.New("syntax error")
	// ErrNotComparison is returned when a hypothesis is not built from
	// comparisons joined by &&.
	ErrNotComparison = errors.New("not a comparison")
	// ErrUnsupportedLiteral is returned for string, char and imaginary literals.
	ErrUnsupportedLiteral = errors.New("unsupported literal")
)

// ParseHypothesis parses a hypothesis written as a Go expression, such as
// "2*x + f(y) <= 3 && x > 0". Conjunctions are split into one proposition
// per conjunct, and a negated comparison is replaced by its complement.
func ParseHypothesis(src string) ([]linarith.Prop, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return astPropsFromExpr(expr)
}

// ParseTerm parses an arithmetic term written as a Go expression.
func ParseTerm(src string) (linarith.Term, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return astExprToTerm(expr)
}

func astPropsFromExpr(expr ast.Expr) ([]linarith.Prop, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return astPropsFromExpr(e.X)

	case *ast.BinaryExpr:
		if e.Op == token.LAND {
			left, err := astPropsFromExpr(e.X)
			if err != nil {
				return nil, err
			}
			right, err := astPropsFromExpr(e.Y)
			if err != nil {
				return nil, err
			}
			return append(left, right...), nil
		}
		prop, err := astComparison(e)
		if err != nil {
			return nil, err
		}
		return []linarith.Prop{prop}, nil

	case *ast.UnaryExpr:
		if e.Op != token.NOT {
			break
		}
		inner, ok := unparen(e.X).(*ast.BinaryExpr)
		if !ok {
			break
		}
		prop, err := astComparison(inner)
		if err != nil {
			return nil, err
		}
		prop.Op = prop.Op.Negate()
		return []linarith.Prop{prop}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotComparison, types.ExprString(expr))
}

func astComparison(e *ast.BinaryExpr) (linarith.Prop, error) {
	op, ok := tokenToCmpOp(e.Op)
	if !ok {
		return linarith.Prop{}, fmt.Errorf("%w: %s", ErrNotComparison, types.ExprString(e))
	}
	left, err := astExprToTerm(e.X)
	if err != nil {
		return linarith.Prop{}, err
	}
	right, err := astExprToTerm(e.Y)
	if err != nil {
		return linarith.Prop{}, err
	}
	return linarith.Prop{Op: op, Left: left, Right: right}, nil
}

func astExprToTerm(expr ast.Expr) (linarith.Term, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		switch e.Kind {
		case token.INT, token.FLOAT:
			val, ok := new(big.Rat).SetString(e.Value)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedLiteral, e.Value)
			}
			return linarith.Num(val), nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLiteral, e.Value)
		}

	case *ast.Ident:
		return linarith.Var(e.Name), nil

	case *ast.ParenExpr:
		return astExprToTerm(e.X)

	case *ast.UnaryExpr:
		operand, err := astExprToTerm(e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case token.SUB:
			return linarith.Neg(operand), nil
		case token.ADD:
			return operand, nil
		}

	case *ast.BinaryExpr:
		op, ok := tokenToArithOp(e.Op)
		if !ok {
			if _, isCmp := tokenToCmpOp(e.Op); isCmp || e.Op == token.LAND || e.Op == token.LOR {
				return nil, fmt.Errorf("%w: comparison used as a term: %s", ErrNotComparison, types.ExprString(e))
			}
			break
		}
		left, err := astExprToTerm(e.X)
		if err != nil {
			return nil, err
		}
		right, err := astExprToTerm(e.Y)
		if err != nil {
			return nil, err
		}
		return linarith.BinaryTerm{Op: op, Left: left, Right: right}, nil

	case *ast.CallExpr:
		funcName, ok := callFuncName(e.Fun)
		if !ok {
			break
		}
		args := make([]linarith.Term, len(e.Args))
		for i, arg := range e.Args {
			converted, err := astExprToTerm(arg)
			if err != nil {
				return nil, err
			}
			args[i] = converted
		}
		return linarith.App(funcName, args...), nil
	}

	// Selectors, index expressions and operators outside linear
	// arithmetic are opaque atoms named by their source form.
	return linarith.Var(types.ExprString(expr)), nil
}

func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}

func callFuncName(expr ast.Expr) (string, bool) {
	switch fn := expr.(type) {
	case *ast.Ident:
		return fn.Name, true
	case *ast.SelectorExpr:
		if ident, ok := fn.X.(*ast.Ident); ok {
			return ident.Name + "." + fn.Sel.Name, true
		}
	}
	return "", false
}

func tokenToArithOp(tok token.Token) (linarith.ArithOp, bool) {
	switch tok {
	case token.ADD:
		return linarith.OpAdd, true
	case token.SUB:
		return linarith.OpSub, true
	case token.MUL:
		return linarith.OpMul, true
	case token.QUO:
		return linarith.OpDiv, true
	default:
		return 0, false
	}
}

func tokenToCmpOp(tok token.Token) (linarith.CmpOp, bool) {
	switch tok {
	case token.LSS:
		return linarith.CmpLt, true
	case token.LEQ:
		return linarith.CmpLe, true
	case token.EQL:
		return linarith.CmpEq, true
	case token.GEQ:
		return linarith.CmpGe, true
	case token.GTR:
		return linarith.CmpGt, true
	case token.NEQ:
		return linarith.CmpNe, true
	default:
		return 0, false
	}
}
