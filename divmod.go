package gocheck

// checkDivMod emits the division-by-zero obligation for a / or mod
// BinaryArith: the divisor must be nonzero. Applies to both bit-vector and
// float operands.
func checkDivMod(ctx *buildCtx, guard Guard, e *BinaryArith) {
	if e.Op != OpDiv && e.Op != OpMod {
		return
	}
	if !ctx.opts.DivByZeroCheck {
		return
	}
	if e.Op == OpMod && ctx.opts.Standard.IsManagedReference() {
		// Host semantics define mod-by-zero via an exception, not undefined
		// behavior, so this obligation doesn't apply. Division-by-zero is
		// unaffected and still checked below.
		return
	}
	zero := NewConstant(0, e.RHS.Type())
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(NewEqual(e.RHS, zero, false)),
		Comment:       "division by zero in " + e.String(),
		PropertyClass: "division-by-zero",
		Loc:           e.SourceLocation(),
	})
}

// checkDivModOverflow emits the signed-overflow obligation for INT_MIN / -1,
// the one signed division whose mathematical result overflows the type. The
// analogous mod case, INT_MIN % -1, is defined to be zero by every C/C++
// standard but many compilers get it wrong or trap on it, so it gets its own
// explicit obligation rather than reuse of the generic overflow predicate.
func checkDivModOverflow(ctx *buildCtx, guard Guard, e *BinaryArith) {
	if !ctx.opts.SignedOverflowCheck || !IsSignedBV(e.Type()) {
		return
	}
	switch e.Op {
	case OpDiv:
		Submit(ctx, guard, Obligation{
			Condition:     NewNot(NewOverflowPredicate(OpDiv, e.LHS, e.RHS)),
			Comment:       "arithmetic overflow on signed division in " + e.String(),
			PropertyClass: "overflow",
			Loc:           e.SourceLocation(),
		})
	case OpMod:
		minVal := smallestSignedValue(e.Type())
		minusOne := NewConstant(^uint64(0), e.RHS.Type())
		cond := NewOr(
			NewEqual(e.LHS, minVal, true),
			NewEqual(e.RHS, minusOne, true),
		)
		Submit(ctx, guard, Obligation{
			Condition:     cond,
			Comment:       "result of signed mod is not representable in " + e.String(),
			PropertyClass: "overflow",
			Loc:           e.SourceLocation(),
		})
	}
}

// smallestSignedValue returns the most negative value representable by ty,
// e.g. -2^31 for a 32-bit signed type.
func smallestSignedValue(ty Type) *Constant {
	return NewConstant(uint64(1)<<(BitWidth(ty)-1), ty)
}
