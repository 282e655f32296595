package gocheck

// buildCtx bundles everything an obligation builder needs that does not
// change as the walker descends: the per-instruction cache and patch
// buffer, the configured collaborators, and the allocation registry built
// once for the whole Check call.
type buildCtx struct {
	cache      *AssertionCache
	buf        *PatchBuffer
	simp       Simplifier
	ns         Namespace
	sizeOf     SizeOfFunc
	opts       *Options
	flavor     FlavorAnalysis
	registry   *Registry
	fn         *Function
	entryPoint string
}

// Walk descends into e under guard, emitting every obligation e's
// subexpressions require before returning a (possibly rewritten) e'.
// Only r_ok/w_ok are rewritten: Walk returns their expansion. A
// Member-of-Dereference p->f is returned as a Member again, but its
// pointer-validity obligations are checked against a synthesized
// Dereference *(p + offset_of(f)) (the byte offset is added to p directly)
// typed as the field itself, so pointer builders never have to
// special-case "field of a pointed-to struct" separately from "whole
// pointed-to struct," and never demand validity of the struct's unrelated
// trailing fields.
func (ctx *buildCtx) Walk(guard Guard, e Expr) Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *Constant, *Symbol, *StringConstant, *Nondet:
		return e

	case *Member:
		if deref, ok := v.Struct.(*Dereference); ok {
			ctx.Walk(guard, deref.Pointer)
			if fieldDeref, ok := ctx.fieldDereference(deref, v.Field); ok {
				ctx.walkLeafDereference(guard, fieldDeref)
			} else {
				// offset_of(f) couldn't be resolved (e.g. sizeOf fails on a
				// preceding field); fall back to validating the whole
				// struct dereference, the pre-offset behavior.
				ctx.walkLeafDereference(guard, deref)
			}
			return &Member{Base: v.Base, Struct: deref, Field: v.Field}
		}
		ctx.Walk(guard, v.Struct)
		return v

	case *Index:
		ctx.Walk(guard, v.Array)
		ctx.Walk(guard, v.Idx)
		checkBounds(ctx, guard, v)
		return v

	case *Dereference:
		ctx.Walk(guard, v.Pointer)
		ctx.walkLeafDereference(guard, v)
		return v

	case *AddressOf:
		// Taking an address never dereferences; descend without emitting
		// pointer-validity obligations for the addressed operand itself,
		// but still walk it for any nested index/dereference it contains
		// (e.g. &a[i] still needs a's bounds check on i).
		ctx.walkAddressOfOperand(guard, v.Operand)
		return v

	case *Typecast:
		ctx.Walk(guard, v.Operand)
		checkConversion(ctx, guard, v)
		checkFloatOverflowTypecast(ctx, guard, v)
		return v

	case *BinaryArith:
		ctx.Walk(guard, v.LHS)
		ctx.Walk(guard, v.RHS)
		checkDivMod(ctx, guard, v)
		checkDivModOverflow(ctx, guard, v)
		checkShift(ctx, guard, v)
		checkOverflow(ctx, guard, v)
		checkFloatOverflow(ctx, guard, v)
		checkNaN(ctx, guard, v)
		checkPointerArithOverflow(ctx, guard, v)
		return v

	case *UnaryMinus:
		ctx.Walk(guard, v.Operand)
		checkUnaryOverflow(ctx, guard, v)
		return v

	case *Relational:
		ctx.Walk(guard, v.LHS)
		ctx.Walk(guard, v.RHS)
		return v

	case *Equal:
		ctx.Walk(guard, v.LHS)
		ctx.Walk(guard, v.RHS)
		return v

	case *And:
		g := guard
		for _, operand := range v.Operands_ {
			ctx.Walk(g, operand)
			g = g.Conjoin(operand)
		}
		return v

	case *Or:
		g := guard
		for _, operand := range v.Operands_ {
			ctx.Walk(g, operand)
			g = g.ConjoinNot(operand)
		}
		return v

	case *Not:
		ctx.Walk(guard, v.Operand)
		return v

	case *If:
		ctx.Walk(guard, v.Cond)
		ctx.Walk(guard.Conjoin(v.Cond), v.Then)
		ctx.Walk(guard.ConjoinNot(v.Cond), v.Else)
		return v

	case *Quantifier:
		// Quantifiers are never descended: their bound variable has no
		// concrete value to check obligations against.
		return v

	case *ByteExtractLE:
		ctx.Walk(guard, v.Source)
		ctx.Walk(guard, v.Offset)
		return v

	case *StructLiteral:
		for _, f := range v.Fields {
			ctx.Walk(guard, f)
		}
		return v

	case *ArrayLiteral:
		for _, el := range v.Elements {
			ctx.Walk(guard, el)
		}
		return v

	case *ArrayList:
		for _, p := range v.Pairs {
			ctx.Walk(guard, p)
		}
		return v

	case *OverflowPredicate:
		ctx.Walk(guard, v.LHS)
		if v.RHS != nil {
			ctx.Walk(guard, v.RHS)
		}
		return v

	case *ROk:
		ctx.Walk(guard, v.Pointer)
		ctx.Walk(guard, v.Size)
		return expandROk(ctx, v)

	case *WOk:
		ctx.Walk(guard, v.Pointer)
		ctx.Walk(guard, v.Size)
		return expandWOk(ctx, v)

	case *Lambda:
		return v // bound variable, not walked, mirrors Quantifier

	case *ArrayComprehension:
		ctx.Walk(guard, v.Size)
		return v

	default:
		return e
	}
}

// fieldDereference rewrites deref.f into the field's own dereference: the
// pointer adjusted by offset_of(f), typed as the field rather than the
// enclosing struct. Returns ok=false when the offset can't be computed, so
// the caller can fall back to validating the whole struct.
func (ctx *buildCtx) fieldDereference(deref *Dereference, field string) (*Dereference, bool) {
	structTy, ok := deref.Type().(*StructType)
	if !ok {
		return nil, false
	}
	fieldTy := structTy.FieldType(field)
	if fieldTy == nil {
		return nil, false
	}
	offset, ok := fieldByteOffset(ctx, structTy, field)
	if !ok {
		return nil, false
	}
	fieldPtrTy := &PointerType{Elem: fieldTy}
	adjusted := &BinaryArith{Base: Base{Ty: fieldPtrTy}, Op: OpAdd, LHS: deref.Pointer, RHS: offset}
	return &Dereference{Base: Base{Ty: fieldTy}, Pointer: adjusted}, true
}

// fieldByteOffset sums ctx.sizeOf over structTy's fields preceding field —
// offset_of(f). Fails if field is unknown or any preceding field's size
// can't be resolved.
func fieldByteOffset(ctx *buildCtx, structTy *StructType, field string) (Expr, bool) {
	idx := structTy.FieldIndex(field)
	if idx < 0 || ctx.sizeOf == nil {
		return nil, false
	}
	if idx == 0 {
		return NewConstant(0, &BitVectorType{Width: PointerWidth, Signed: false}), true
	}
	var offset Expr
	for i := 0; i < idx; i++ {
		sz, ok := ctx.sizeOf(structTy.Fields[i].Type, ctx.ns)
		if !ok {
			return nil, false
		}
		if offset == nil {
			offset = sz
		} else {
			offset = NewBinaryArith(OpAdd, offset, sz)
		}
	}
	return offset, true
}

// walkLeafDereference emits the pointer-validity obligations for
// dereferencing deref directly (as opposed to only as the Struct of a
// Member, which the Member case above already walks separately to avoid
// double-submission — Submit's cache makes a duplicate harmless, but
// skipping it avoids doing the work twice).
func (ctx *buildCtx) walkLeafDereference(guard Guard, deref *Dereference) {
	checkPointerValidity(ctx, guard, deref)
}

// walkAddressOfOperand descends into an address-of operand far enough to
// still catch nested index/dereference subexpressions, without treating the
// outermost Member/Index/Dereference as itself read.
func (ctx *buildCtx) walkAddressOfOperand(guard Guard, e Expr) {
	switch v := e.(type) {
	case *Member:
		ctx.walkAddressOfOperand(guard, v.Struct)
	case *Index:
		ctx.walkAddressOfOperand(guard, v.Array)
		ctx.Walk(guard, v.Idx)
		checkBounds(ctx, guard, v)
	case *Dereference:
		ctx.Walk(guard, v.Pointer)
	default:
		ctx.Walk(guard, e)
	}
}
