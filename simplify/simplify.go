// Package simplify provides a small constant-folding Simplifier, in the
// same spirit as the smart constructors a symbolic executor uses to keep
// its path conditions from growing unboundedly: fold what can be folded
// eagerly, leave everything else exactly as built.
package simplify

import (
	"github.com/tanagra/gocheck"
)

// Folder is a gocheck.Simplifier that performs local constant folding and a
// handful of boolean identities (double negation, x && true, x || false,
// if(true, a, b), and so on). It is idempotent: simplifying an
// already-simplified expression returns the same expression unchanged,
// which is the property gocheck.Check relies on when it calls Simplify
// exactly once per submitted obligation.
type Folder struct{}

// Simplify implements gocheck.Simplifier.
func (Folder) Simplify(e gocheck.Expr, ns gocheck.Namespace) gocheck.Expr {
	return fold(e)
}

func fold(e gocheck.Expr) gocheck.Expr {
	switch v := e.(type) {
	case *gocheck.Not:
		operand := fold(v.Operand)
		if gocheck.IsTrue(operand) {
			return gocheck.BoolConstant(false)
		}
		if gocheck.IsFalse(operand) {
			return gocheck.BoolConstant(true)
		}
		if inner, ok := operand.(*gocheck.Not); ok {
			return inner.Operand
		}
		if operand == v.Operand {
			return v
		}
		return gocheck.NewNot(operand)

	case *gocheck.And:
		return foldAnd(v)

	case *gocheck.Or:
		return foldOr(v)

	case *gocheck.If:
		cond := fold(v.Cond)
		if gocheck.IsTrue(cond) {
			return fold(v.Then)
		}
		if gocheck.IsFalse(cond) {
			return fold(v.Else)
		}
		return v

	case *gocheck.Equal:
		lhs, rhs := fold(v.LHS), fold(v.RHS)
		lc, lok := lhs.(*gocheck.Constant)
		rc, rok := rhs.(*gocheck.Constant)
		if lok && rok {
			eq := lc.Value == rc.Value
			if v.Negated {
				eq = !eq
			}
			return gocheck.BoolConstant(eq)
		}
		return v

	case *gocheck.Relational:
		lhs, rhs := fold(v.LHS), fold(v.RHS)
		lc, lok := lhs.(*gocheck.Constant)
		rc, rok := rhs.(*gocheck.Constant)
		if lok && rok && gocheck.IsUnsignedBV(v.LHS.Type()) {
			return gocheck.BoolConstant(compareUnsigned(v.Op, lc.Value, rc.Value))
		}
		return v

	default:
		return e
	}
}

func foldAnd(v *gocheck.And) gocheck.Expr {
	var kept []gocheck.Expr
	for _, o := range v.Operands() {
		folded := fold(o)
		if gocheck.IsFalse(folded) {
			return gocheck.BoolConstant(false)
		}
		if gocheck.IsTrue(folded) {
			continue
		}
		kept = append(kept, folded)
	}
	switch len(kept) {
	case 0:
		return gocheck.BoolConstant(true)
	case 1:
		return kept[0]
	default:
		return gocheck.NewAnd(kept...)
	}
}

func foldOr(v *gocheck.Or) gocheck.Expr {
	var kept []gocheck.Expr
	for _, o := range v.Operands() {
		folded := fold(o)
		if gocheck.IsTrue(folded) {
			return gocheck.BoolConstant(true)
		}
		if gocheck.IsFalse(folded) {
			continue
		}
		kept = append(kept, folded)
	}
	switch len(kept) {
	case 0:
		return gocheck.BoolConstant(false)
	case 1:
		return kept[0]
	default:
		return gocheck.NewOr(kept...)
	}
}

func compareUnsigned(op gocheck.RelOp, a, b uint64) bool {
	switch op {
	case gocheck.OpLt:
		return a < b
	case gocheck.OpLe:
		return a <= b
	case gocheck.OpGt:
		return a > b
	case gocheck.OpGe:
		return a >= b
	default:
		return false
	}
}
