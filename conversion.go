package gocheck

import "math"

// checkConversion emits the conversion-overflow obligation for a Typecast,
// covering the cases spec.md §4.2 enumerates: narrowing between
// bit-vectors (signed or unsigned, in either direction), float-to-integer
// (the float's integer part must fit the target width), integer-to-float
// (only meaningful when the float type cannot represent every value of the
// source width, i.e. narrow-float targets), and float-to-float narrowing.
// Widening conversions between compatible signedness never overflow and are
// skipped without emitting anything.
func checkConversion(ctx *buildCtx, guard Guard, e *Typecast) {
	if !ctx.opts.ConversionCheck {
		return
	}
	dst := e.Type()
	src := e.Operand.Type()

	switch {
	case IsBitVector(dst) && IsBitVector(src):
		checkIntToIntConversion(ctx, guard, e, dst.(*BitVectorType), src.(*BitVectorType))
	case IsBitVector(dst) && IsFloat(src):
		checkFloatToIntConversion(ctx, guard, e, dst.(*BitVectorType))
	case IsFloat(dst) && IsBitVector(src):
		checkIntToFloatConversion(ctx, guard, e, dst.(*FloatType), src.(*BitVectorType))
	case IsFloat(dst) && IsFloat(src):
		checkFloatToFloatConversion(ctx, guard, e, dst.(*FloatType), src.(*FloatType))
	}
}

func checkIntToIntConversion(ctx *buildCtx, guard Guard, e *Typecast, dst, src *BitVectorType) {
	if dst.Width >= src.Width && dst.Signed == src.Signed {
		return // pure widening, same signedness: cannot overflow
	}
	if dst.Width > src.Width && dst.Signed && !src.Signed {
		return // widening unsigned->signed with room for the sign bit never overflows if dst.Width > src.Width
	}
	Submit(ctx, guard, Obligation{
		Condition:     inRangeExpr(e.Operand, dst),
		Comment:       "conversion does not preserve value in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

func checkFloatToIntConversion(ctx *buildCtx, guard Guard, e *Typecast, dst *BitVectorType) {
	lo := int64ToFloatConstant(dst.MinSigned(), e.Operand.Type())
	if !dst.Signed {
		lo = NewConstant(0, e.Operand.Type())
	}
	hiVal := dst.MaxUnsigned()
	if dst.Signed {
		hiVal = uint64(dst.MaxSigned())
	}
	hi := uint64ToFloatConstant(hiVal, e.Operand.Type())
	Submit(ctx, guard, Obligation{
		Condition: NewAnd(
			NewRelational(OpGe, e.Operand, lo),
			NewRelational(OpLe, e.Operand, hi),
		),
		Comment:       "conversion from floating point does not preserve value in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

func checkIntToFloatConversion(ctx *buildCtx, guard Guard, e *Typecast, dst *FloatType, src *BitVectorType) {
	if dst.Width > src.Width {
		return // target mantissa can represent every source value
	}
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(NewOverflowPredicate(OpAdd, e.Operand, nil)),
		Comment:       "conversion to floating point does not preserve value in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

func checkFloatToFloatConversion(ctx *buildCtx, guard Guard, e *Typecast, dst, src *FloatType) {
	if dst.Width >= src.Width {
		return
	}
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(NewOverflowPredicate(OpAdd, e.Operand, nil)),
		Comment:       "conversion does not preserve value in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

// inRangeExpr builds the "value fits destination type" predicate used by
// integer narrowing conversions.
func inRangeExpr(operand Expr, dst *BitVectorType) Expr {
	srcTy := operand.Type()
	var lo, hi Expr
	if dst.Signed {
		lo = NewConstant(uint64(dst.MinSigned()), srcTy)
		if !IsSignedBV(srcTy) {
			lo = NewConstant(0, srcTy)
		}
		hi = NewConstant(uint64(dst.MaxSigned()), srcTy)
	} else {
		lo = NewConstant(0, srcTy)
		hi = NewConstant(dst.MaxUnsigned(), srcTy)
	}
	return NewAnd(NewRelational(OpGe, operand, lo), NewRelational(OpLe, operand, hi))
}

func int64ToFloatConstant(v int64, ty Type) Expr {
	return floatConstant(float64(v), ty)
}

func uint64ToFloatConstant(v uint64, ty Type) Expr {
	return floatConstant(float64(v), ty)
}

// floatConstant encodes f as a Constant of float type ty, whose Value holds
// the IEEE bit pattern for ty's width.
func floatConstant(f float64, ty Type) Expr {
	if ft, ok := ty.(*FloatType); ok && ft.Width == 32 {
		return NewConstant(uint64(math.Float32bits(float32(f))), ty)
	}
	return NewConstant(math.Float64bits(f), ty)
}
