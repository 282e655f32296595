package gocheck

// checkFloatOverflow emits the float-overflow obligation for a +, -, *, or /
// BinaryArith over float-typed operands: the result must not be +/-Inf
// unless an operand already was (for /, only the dividend is considered).
func checkFloatOverflow(ctx *buildCtx, guard Guard, e *BinaryArith) {
	if !ctx.opts.FloatOverflowCheck {
		return
	}
	if !IsFloat(e.Type()) {
		return
	}
	switch e.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
	default:
		return
	}
	cond := NewOr(isInf(e.LHS), isInf(e.RHS), NewNot(isInf(e)))
	if e.Op == OpDiv {
		cond = NewOr(isInf(e.LHS), NewNot(isInf(e)))
	}
	Submit(ctx, guard, Obligation{
		Condition:     cond,
		Comment:       "floating-point overflow in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

// checkFloatOverflowTypecast emits the float-overflow obligation for a
// Typecast landing in a float type: float-to-float narrowing must not turn
// a finite source into +/-Inf (an already-infinite source is exempt, same
// as checkFloatOverflow's already-infinite-operand exemption); a
// non-float-to-float conversion has no infinite source to exempt, so the
// result alone must not be infinite.
func checkFloatOverflowTypecast(ctx *buildCtx, guard Guard, e *Typecast) {
	if !ctx.opts.FloatOverflowCheck {
		return
	}
	if !IsFloat(e.Type()) {
		return
	}
	resultNotInf := NewNot(isInf(e))
	var cond Expr = resultNotInf
	if IsFloat(e.Operand.Type()) {
		cond = NewOr(isInf(e.Operand), resultNotInf)
	}
	Submit(ctx, guard, Obligation{
		Condition:     cond,
		Comment:       "floating-point overflow in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

func isInf(e Expr) Expr { return opaquePredicate("isinf", e) }
