package gocheck

// checkBounds emits the array/vector index-bounds obligations for idx:
// lower bound (index >= 0, skipped if the index type is unsigned, since then
// it is vacuously true) and upper bound (index < size, skipped when the
// array is of infinite size). When the array is reached through a
// dereferenced pointer rather than named directly, the lower bound is
// computed against the pointer's own offset into its object and the upper
// bound is widened to also accept "inside some registered allocation" or
// "dynamic object that was not allocated by the tracked allocator" — the
// static element count is only one of several ways the access can be safe
// once a pointer is involved. A flexible array member (an ArrayType with nil
// Size nested as the last field of a StructType) gets its upper bound from
// the enclosing struct's compile-time size instead of an element count,
// since its true extent is only known that way.
func checkBounds(ctx *buildCtx, guard Guard, idx *Index) {
	arrTy, ok := idx.Array.Type().(*ArrayType)
	if !ok {
		return
	}
	if !ctx.opts.BoundsCheck {
		return
	}

	root, viaDeref := derefRoot(idx.Array)

	idxTy := idx.Idx.Type()
	if IsSignedBV(idxTy) && !isDirectUnsignedTypecast(idx.Idx) {
		effectiveOffset := Expr(idx.Idx)
		if viaDeref {
			effectiveOffset = NewBinaryArith(OpAdd, pointerOffsetExpr(root.Pointer, idxTy), idx.Idx)
		}
		zero := NewConstant(0, effectiveOffset.Type())
		Submit(ctx, guard, Obligation{
			Condition:     NewRelational(OpGe, effectiveOffset, zero),
			Comment:       "lower bound in " + idx.String(),
			PropertyClass: "array bounds",
			Loc:           idx.SourceLocation(),
		})
	}

	if arrTy.Infinite {
		return
	}

	if viaDeref {
		emitDynamicUpperBound(ctx, guard, idx, arrTy, root.Pointer)
		return
	}

	if arrTy.Size == nil {
		emitFlexibleArrayUpperBound(ctx, guard, idx, arrTy, nil)
		return
	}

	Submit(ctx, guard, Obligation{
		Condition:     NewRelational(OpLt, idx.Idx, arrTy.Size),
		Comment:       "upper bound in " + idx.String(),
		PropertyClass: "array bounds",
		Loc:           idx.SourceLocation(),
	})
}

// emitDynamicUpperBound handles idx.Array reached through a dereferenced
// pointer: the plain element-count bound is only one way the access can be
// proven safe, so it is disjoined with "the accessed bytes fall inside some
// registered allocation" and "the pointer is into a dynamic object the
// allocator never told us about" before being submitted, and — for a
// concrete element count — a second obligation ties the compile-time size to
// the allocator's own record of the object's size whenever the pointer
// turns out to be into a dynamically allocated object.
func emitDynamicUpperBound(ctx *buildCtx, guard Guard, idx *Index, arrTy *ArrayType, p Expr) {
	if arrTy.Size == nil {
		emitFlexibleArrayUpperBound(ctx, guard, idx, arrTy, p)
		return
	}

	elemSize := elementSize(ctx, arrTy.Elem)
	disjuncts := []Expr{}
	if elemSize != nil {
		accessPtr := NewBinaryArith(OpAdd, p, NewBinaryArith(OpMul, idx.Idx, elemSize))
		if fit := fitsAnyAllocation(ctx, accessPtr, elemSize); fit != nil {
			disjuncts = append(disjuncts, fit)
		}
	}
	disjuncts = append(disjuncts, NewAnd(dynamicObject(p), NewNot(mallocObject(p))))
	disjuncts = append(disjuncts, NewRelational(OpLt, idx.Idx, arrTy.Size))

	Submit(ctx, guard, Obligation{
		Condition:     NewOr(disjuncts...),
		Comment:       "dynamic object upper bound in " + idx.String(),
		PropertyClass: "array bounds",
		Loc:           idx.SourceLocation(),
	})

	if ctx.sizeOf == nil {
		return
	}
	typeSize, ok := ctx.sizeOf(arrTy, ctx.ns)
	if !ok {
		return
	}
	typeMatchesSize := NewOr(NewNot(dynamicObject(p)), NewAnd(mallocObject(p), dynamicSizeMatches(p, typeSize)))
	Submit(ctx, guard, Obligation{
		Condition:     NewOr(NewNot(typeMatchesSize), NewRelational(OpLt, idx.Idx, arrTy.Size)),
		Comment:       "upper bound in " + idx.String(),
		PropertyClass: "array bounds",
		Loc:           idx.SourceLocation(),
	})
}

// emitFlexibleArrayUpperBound handles a flexible array member: its size is
// only known through the struct it terminates, so the obligation bounds the
// accessed byte offset against that struct's compile-time size rather than
// against any element count carried by the array's own type. p is the
// pointer the array was reached through, or nil when the flexible array
// member's enclosing struct is named directly rather than via a dereference.
func emitFlexibleArrayUpperBound(ctx *buildCtx, guard Guard, idx *Index, arrTy *ArrayType, p Expr) {
	member, ok := idx.Array.(*Member)
	if !ok || ctx.sizeOf == nil {
		return
	}
	enclosingSize, ok := ctx.sizeOf(member.Struct.Type(), ctx.ns)
	if !ok {
		return
	}
	byteOffset := Expr(idx.Idx)
	if elemSize := elementSize(ctx, arrTy.Elem); elemSize != nil {
		byteOffset = NewBinaryArith(OpMul, idx.Idx, elemSize)
	}
	var cond Expr = NewRelational(OpLt, byteOffset, enclosingSize)
	if p != nil {
		if elemSize := elementSize(ctx, arrTy.Elem); elemSize != nil {
			accessPtr := NewBinaryArith(OpAdd, p, byteOffset)
			if fit := fitsAnyAllocation(ctx, accessPtr, elemSize); fit != nil {
				cond = NewOr(fit, cond)
			}
		}
	}
	Submit(ctx, guard, Obligation{
		Condition:     cond,
		Comment:       "upper bound in " + idx.String(),
		PropertyClass: "array bounds",
		Loc:           idx.SourceLocation(),
	})
}

// derefRoot walks e through any chain of Member/Index wrappers and reports
// the Dereference at its root, if the ultimate storage is reached by
// dereferencing a pointer rather than naming a static or local object
// directly.
func derefRoot(e Expr) (*Dereference, bool) {
	for {
		switch v := e.(type) {
		case *Dereference:
			return v, true
		case *Member:
			e = v.Struct
		case *Index:
			e = v.Array
		default:
			return nil, false
		}
	}
}

// pointerOffsetExpr names the (opaque, backend-resolved) byte offset of p
// from the start of its object, typed like ty so it can be added directly to
// an index of that type. As with the opaque predicates in pointer.go, the
// pointer itself is folded into the identifier: two different pointers'
// offsets must never collapse onto the same assertion-cache entry.
func pointerOffsetExpr(p Expr, ty Type) Expr {
	return NewSymbol("pointer_offset("+p.String()+")", ty)
}

// elementSize resolves elem's byte size via ctx.sizeOf, or nil if no size
// oracle is configured or the type's size cannot be determined statically.
func elementSize(ctx *buildCtx, elem Type) Expr {
	if ctx.sizeOf == nil {
		return nil
	}
	size, ok := ctx.sizeOf(elem, ctx.ns)
	if !ok {
		return nil
	}
	return size
}

// dynamicObject and mallocObject name the same "is this a heap object" /
// "was this object produced by the tracked allocator" predicates pointer.go
// resolves opaquely for pointer-validity checks. They are built with
// pointer.go's opaquePredicate, so each one is keyed by p.
func dynamicObject(p Expr) Expr { return opaquePredicate("is_dynamic_object", p) }
func mallocObject(p Expr) Expr  { return opaquePredicate("is_malloc_object", p) }

// dynamicSizeMatches asks whether the allocator's own record of p's object
// size agrees with typeSize, the compile-time size computed from the static
// type of the access.
func dynamicSizeMatches(p, typeSize Expr) Expr {
	dynSize := NewSymbol("dynamic_size("+p.String()+")", typeSize.Type())
	return NewEqual(dynSize, typeSize, false)
}

// isDirectUnsignedTypecast reports whether e is itself a Typecast node
// whose operand has unsigned type. It deliberately does not see through
// nested typecasts or any other wrapper: an index arrived at via two casts,
// or via a cast hidden behind some other node, still gets the lower-bound
// obligation even though it can never actually be negative. This mirrors a
// known imprecision in the instrumentation this module's obligation shapes
// are modeled on; redundant-but-sound obligations are an accepted cost of
// keeping the check itself simple and its triggering condition easy to
// audit.
func isDirectUnsignedTypecast(e Expr) bool {
	tc, ok := e.(*Typecast)
	if !ok {
		return false
	}
	return IsUnsignedBV(tc.Operand.Type())
}
