package gocheck

// checkPointerArithOverflow emits the pointer-arithmetic-overflow
// obligation for a BinaryArith whose result type is a pointer (pointer +
// integer, or pointer - integer): the computed address must stay within
// the bounds of the same object the base pointer points into, since
// wrapping past an object's end is itself undefined even if the wrapped
// result is never dereferenced.
func checkPointerArithOverflow(ctx *buildCtx, guard Guard, e *BinaryArith) {
	if !ctx.opts.PointerOverflowCheck {
		return
	}
	if !IsPointer(e.Type()) {
		return
	}
	if e.Op != OpAdd && e.Op != OpSub {
		return
	}
	base := e.LHS
	if IsPointer(e.RHS.Type()) {
		base = e.RHS
	}
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(ptrArithOverflowed(base, e)),
		Comment:       "pointer arithmetic overflow in " + e.String(),
		PropertyClass: "overflow",
		Loc:           e.SourceLocation(),
	})
}

func ptrArithOverflowed(base Expr, e *BinaryArith) Expr {
	return opaquePredicate("is_pointer_arith_overflow", e).WithAttr("opaque_predicate_base", base.String())
}

// checkPointerValidity emits the pointer-validity obligations for
// dereferencing deref.Pointer, gated per-flavor by what the configured
// FlavorAnalysis reports the pointer could be. Flags.Unknown() (nothing
// ruled out) emits every applicable obligation; a flag set to false would
// mean "provably cannot be this flavor," but since LocalFlavorAnalysis only
// ever grows flags, a false flag here really means "not observed to be this
// flavor along any assignment this analysis tracked," which is exactly the
// conservative reading the obligation table wants.
func checkPointerValidity(ctx *buildCtx, guard Guard, deref *Dereference) {
	if !ctx.opts.PointerCheck {
		return
	}
	p := deref.Pointer
	flags := ctx.flavor.FlavorOf(p)

	nullPtr := NewConstant(0, p.Type())
	invalidPtr := p

	if flags.Unknown() || flags.Null {
		Submit(ctx, guard, Obligation{
			Condition:     NewNot(NewEqual(p, nullPtr, false)),
			Comment:       "dereference failure: pointer NULL in " + deref.String(),
			PropertyClass: "pointer dereference",
			Loc:           deref.SourceLocation(),
		})
	}
	if ctx.opts.Standard.IsManagedReference() {
		// Host references collapse the C-pointer obligation set to a bare
		// null check; there is no invalid/freed/dead-object/registry-bounds
		// concept for a managed reference.
		return
	}
	if flags.Unknown() || flags.Uninitialized {
		Submit(ctx, guard, Obligation{
			Condition:     NewNot(ptrUninitialized(p)),
			Comment:       "dereference failure: pointer uninitialized in " + deref.String(),
			PropertyClass: "pointer dereference",
			Loc:           deref.SourceLocation(),
		})
	}
	if flags.Unknown() || flags.Invalid {
		Submit(ctx, guard, Obligation{
			Condition:     NewNot(ptrInvalid(invalidPtr)),
			Comment:       "dereference failure: invalid pointer in " + deref.String(),
			PropertyClass: "pointer dereference",
			Loc:           deref.SourceLocation(),
		})
	}
	if flags.Unknown() || flags.DynamicHeap {
		Submit(ctx, guard, Obligation{
			Condition:     NewNot(ptrFreed(p)),
			Comment:       "dereference failure: deallocated dynamic object in " + deref.String(),
			PropertyClass: "pointer dereference",
			Loc:           deref.SourceLocation(),
		})
	}
	if flags.Unknown() || flags.DynamicLocal {
		Submit(ctx, guard, Obligation{
			Condition:     NewNot(ptrOutOfScope(p)),
			Comment:       "dereference failure: dead object in " + deref.String(),
			PropertyClass: "pointer dereference",
			Loc:           deref.SourceLocation(),
		})
	}

	sizeExpr := sizeOfPointee(ctx, deref)
	if sizeExpr != nil {
		emitBoundsAgainstRegistry(ctx, guard, p, sizeExpr, deref)
	}
}

// checkMemoryLeak emits the end-of-function memory-leak obligations: one per
// entry in the allocation registry, stating the opaque is_reachable
// predicate over that entry's base does not hold. Every registry entry gets
// one; no reachability or deallocation tracking is done here. The driver
// calls this once per InstrEndFunction/InstrReturn of the entry point.
func checkMemoryLeak(ctx *buildCtx, guard Guard, reg *Registry) {
	if !ctx.opts.MemoryLeakCheck {
		return
	}
	reg.Each(func(a AllocationEntry) {
		Submit(ctx, guard, Obligation{
			Condition:     NewNot(ptrStillLive(a.Base)),
			Comment:       "dynamically allocated memory never freed",
			PropertyClass: "memory-leak",
			Loc:           a.Base.SourceLocation(),
		})
	})
}

// expandROk rewrites an r_ok(pointer, size) predicate into the same
// not-null/not-invalid/in-bounds conjunction checkPointerValidity would
// submit as separate obligations, for use where r_ok appears inside a
// user-provided branch condition (spec.md §4.5's guard substitution) rather
// than as something this pass itself must prove.
func expandROk(ctx *buildCtx, ok *ROk) Expr {
	return expandPointerOk(ctx, ok.Pointer, ok.Size)
}

// expandWOk is the write-side analogue of expandROk; the expansion is
// identical because validity does not depend on read-vs-write, only the
// property class recorded when this pass itself proves one would differ.
func expandWOk(ctx *buildCtx, ok *WOk) Expr {
	return expandPointerOk(ctx, ok.Pointer, ok.Size)
}

func expandPointerOk(ctx *buildCtx, p, size Expr) Expr {
	nullPtr := NewConstant(0, p.Type())
	conds := []Expr{
		NewNot(NewEqual(p, nullPtr, false)),
		NewNot(ptrInvalid(p)),
	}
	if fit := fitsAnyAllocation(ctx, p, size); fit != nil {
		conds = append(conds, fit)
	}
	return NewAnd(conds...)
}

func sizeOfPointee(ctx *buildCtx, deref *Dereference) Expr {
	ptrTy, ok := deref.Pointer.Type().(*PointerType)
	if !ok || ctx.sizeOf == nil {
		return nil
	}
	sz, ok := ctx.sizeOf(ptrTy.Elem, ctx.ns)
	if !ok {
		return nil
	}
	return sz
}

// emitBoundsAgainstRegistry checks p's dereference of size bytes fits
// within at least one recorded allocation, when the registry is non-empty;
// an empty registry means no intrinsic calls were seen at all (e.g. a
// model with no dynamic allocation), in which case this obligation would be
// vacuously unsatisfiable and is skipped rather than emitted as an always-
// failing assertion.
func emitBoundsAgainstRegistry(ctx *buildCtx, guard Guard, p, size Expr, deref *Dereference) {
	if ctx.registry == nil || ctx.registry.Len() == 0 {
		return
	}
	fit := fitsAnyAllocation(ctx, p, size)
	if fit == nil {
		return
	}
	Submit(ctx, guard, Obligation{
		Condition:     fit,
		Comment:       "dereference failure: pointer outside object bounds in " + deref.String(),
		PropertyClass: "pointer dereference",
		Loc:           deref.SourceLocation(),
	})
}

// fitsAnyAllocation builds "exists a recorded allocation containing
// [p, p+size)", or nil if the registry has nothing recorded.
func fitsAnyAllocation(ctx *buildCtx, p, size Expr) Expr {
	if ctx.registry == nil || ctx.registry.Len() == 0 {
		return nil
	}
	var disjuncts []Expr
	end := NewBinaryArith(OpAdd, p, size)
	for i := 0; i < ctx.registry.Len(); i++ {
		entry := ctx.registry.At(i)
		allocEnd := NewBinaryArith(OpAdd, entry.Base, entry.Size)
		disjuncts = append(disjuncts,
			NewAnd(
				NewRelational(OpGe, p, entry.Base),
				NewRelational(OpLe, end, allocEnd),
			))
	}
	return NewOr(disjuncts...)
}

// The following helpers build the flavor-specific validity sub-predicates.
// They are opaque boolean functions from the backend's point of view,
// mirroring how the underlying bounded model checker represents
// "is_invalid_object", "was_dynamic_object(p) && is_dynamic_dead(p)", and
// "pointer_object(p) == null_object" internally: this pass only needs to
// name them consistently so the same obligation collapses through the
// assertion cache, not to define their bit-level encoding (that is the
// backend's job, reached through Nondet-style opaque predicates here).
// The operand is folded into the predicate's identifier, so the same
// predicate over two different pointers never shares a cache entry.
func ptrUninitialized(p Expr) Expr { return opaquePredicate("is_uninitialized", p) }
func ptrInvalid(p Expr) Expr       { return opaquePredicate("is_invalid_object", p) }
func ptrFreed(p Expr) Expr         { return opaquePredicate("is_dynamic_object_freed", p) }
func ptrOutOfScope(p Expr) Expr    { return opaquePredicate("is_dynamic_local_out_of_scope", p) }
func ptrStillLive(p Expr) Expr     { return opaquePredicate("is_reachable", p) }

func opaquePredicate(name string, p Expr) Expr {
	e := &Equal{Base: Base{Ty: &BoolType{}}, LHS: NewSymbol(name+"("+p.String()+")", &BoolType{}), RHS: BoolConstant(true)}
	return e.WithAttr("opaque_predicate_operand", p.String())
}
