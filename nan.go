package gocheck

// checkNaN emits the NaN-producing obligation for a +, -, *, or / BinaryArith
// over float-typed operands: the result must not be NaN. This is
// independent of checkFloatOverflow — 0.0/0.0 produces NaN without being an
// overflow, and Inf-Inf produces NaN the same way.
func checkNaN(ctx *buildCtx, guard Guard, e *BinaryArith) {
	if !ctx.opts.NaNCheck {
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
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(isNaNResult(e)),
		Comment:       "NaN on " + e.Op.String() + " in " + e.String(),
		PropertyClass: "NaN",
		Loc:           e.SourceLocation(),
	})
}

// isNaNResult builds the "this operation's result is NaN" predicate.
func isNaNResult(e *BinaryArith) Expr {
	return &OverflowPredicate{Base: Base{Ty: &BoolType{}}, Op: e.Op, LHS: e.LHS, RHS: e.RHS, NaN: true}
}
