package gocheck

// checkShift emits the undefined-shift obligations for a shl/ashr/lshr
// BinaryArith: the shift distance must be non-negative (when signed) and
// strictly less than the operand width; a shift of a non-bit-vector operand
// is unconditionally undefined. A signed shl additionally requires the
// shifted operand itself be non-negative (also undefined-shift), and, under
// language standards where shifting a 1 into the sign bit is specifically
// undefined (LanguageStandard.ShlIntoSignBitUndefined), a separate overflow
// obligation that the result's top bits are all zero.
func checkShift(ctx *buildCtx, guard Guard, e *BinaryArith) {
	if e.Op != OpShl && e.Op != OpAShr && e.Op != OpLShr {
		return
	}
	if !ctx.opts.ShiftCheck {
		return
	}

	distTy := e.RHS.Type()

	if IsSignedBV(distTy) {
		zero := NewConstant(0, distTy)
		Submit(ctx, guard, Obligation{
			Condition:     NewRelational(OpGe, e.RHS, zero),
			Comment:       "shift distance is negative in " + e.String(),
			PropertyClass: "undefined-shift",
			Loc:           e.SourceLocation(),
		})
	}

	if !IsBitVector(e.LHS.Type()) {
		Submit(ctx, guard, Obligation{
			Condition:     BoolConstant(false),
			Comment:       "shift of non-integer type in " + e.String(),
			PropertyClass: "undefined-shift",
			Loc:           e.SourceLocation(),
		})
		return
	}

	width := BitWidth(e.LHS.Type())
	widthConst := NewConstant(uint64(width), distTy)
	Submit(ctx, guard, Obligation{
		Condition:     NewRelational(OpLt, e.RHS, widthConst),
		Comment:       "shift distance too large in " + e.String(),
		PropertyClass: "undefined-shift",
		Loc:           e.SourceLocation(),
	})

	if e.Op == OpShl && IsSignedBV(e.LHS.Type()) {
		opZero := NewConstant(0, e.LHS.Type())
		Submit(ctx, guard, Obligation{
			Condition:     NewRelational(OpGe, e.LHS, opZero),
			Comment:       "shift operand is negative in " + e.String(),
			PropertyClass: "undefined-shift",
			Loc:           e.SourceLocation(),
		})

		if ctx.opts.Standard.ShlIntoSignBitUndefined() {
			Submit(ctx, guard, Obligation{
				Condition:     NewNot(NewOverflowPredicate(OpShl, e.LHS, e.RHS)),
				Comment:       "arithmetic overflow on signed shl in " + e.String(),
				PropertyClass: "overflow",
				Loc:           e.SourceLocation(),
			})
		}
	}
}
