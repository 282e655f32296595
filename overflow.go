package gocheck

// checkOverflow emits the signed/unsigned-overflow obligation for a +, -, or
// * BinaryArith. Source expressions for n-ary arithmetic (a+b+c) are already
// represented as a left-associative chain of binary nodes by the time this
// builder sees them, so checking one BinaryArith at a time, bottom-up, is
// exactly the decomposition spec.md §4.2 describes: each pairwise
// application gets its own independent obligation.
func checkOverflow(ctx *buildCtx, guard Guard, e *BinaryArith) {
	if e.Op != OpAdd && e.Op != OpSub && e.Op != OpMul {
		return
	}
	if !IsBitVector(e.Type()) {
		return
	}
	signed := IsSignedBV(e.Type())
	if signed && !ctx.opts.SignedOverflowCheck {
		return
	}
	if !signed && !ctx.opts.UnsignedOverflowCheck {
		return
	}
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(NewOverflowPredicate(e.Op, e.LHS, e.RHS)),
		Comment:       overflowComment(signed) + " in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

// checkUnaryOverflow handles the one unary case that can overflow: negating
// the minimum representable value of a signed type (-MIN overflows back to
// MIN in two's complement).
func checkUnaryOverflow(ctx *buildCtx, guard Guard, e *UnaryMinus) {
	if !ctx.opts.SignedOverflowCheck {
		return
	}
	if !IsSignedBV(e.Type()) {
		return
	}
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(NewOverflowPredicate(OpSub, e.Operand, nil)),
		Comment:       "arithmetic overflow on signed unary minus in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

func overflowComment(signed bool) string {
	if signed {
		return "arithmetic overflow on signed operation"
	}
	return "arithmetic overflow on unsigned operation"
}
