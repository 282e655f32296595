package gocheck

import "testing"

// TestBounds_StaticArray: indexing a fixed-size array with a signed,
// not-known-nonnegative index must produce both a lower-bound and an
// upper-bound obligation.
func TestBounds_StaticArray(t *testing.T) {
	ctx := newTestCtx()
	arrTy := &ArrayType{Elem: s32(), Size: NewConstant(10, u32())}
	idx := &Index{Base: Base{Ty: s32()}, Array: NewSymbol("arr", arrTy), Idx: NewSymbol("i", s32())}

	checkBounds(ctx, TrueGuard(), idx)

	instrs := ctx.buf.Drain()
	if len(instrs) != 2 {
		t.Fatalf("expected 2 obligations (lower + upper bound), got %d: %v", len(instrs), instrs)
	}
	if instrs[0].PropertyClass != "array bounds" || instrs[1].PropertyClass != "array bounds" {
		t.Fatalf("expected both obligations tagged array bounds, got %q and %q", instrs[0].PropertyClass, instrs[1].PropertyClass)
	}
}

func TestBounds_UnsignedIndexSkipsLowerBound(t *testing.T) {
	ctx := newTestCtx()
	arrTy := &ArrayType{Elem: s32(), Size: NewConstant(10, u32())}
	idx := &Index{Base: Base{Ty: s32()}, Array: NewSymbol("arr", arrTy), Idx: NewSymbol("i", u32())}

	checkBounds(ctx, TrueGuard(), idx)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected only the upper-bound obligation for an unsigned index, got %d", len(instrs))
	}
}

func TestBounds_InfiniteArraySkipsUpperBound(t *testing.T) {
	ctx := newTestCtx()
	arrTy := &ArrayType{Elem: s32(), Infinite: true}
	idx := &Index{Base: Base{Ty: s32()}, Array: NewSymbol("arr", arrTy), Idx: NewSymbol("i", s32())}

	checkBounds(ctx, TrueGuard(), idx)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected only the lower-bound obligation for an infinite array, got %d", len(instrs))
	}
}

func TestBounds_NilSizeNonMemberArraySkipsUpperBound(t *testing.T) {
	ctx := newTestCtx()
	arrTy := &ArrayType{Elem: s32(), Size: nil}
	idx := &Index{Base: Base{Ty: s32()}, Array: NewSymbol("arr", arrTy), Idx: NewSymbol("i", s32())}

	checkBounds(ctx, TrueGuard(), idx)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected only the lower-bound obligation for a nil-sized array that is not a struct member, got %d", len(instrs))
	}
}

func TestBounds_DirectUnsignedTypecastSkipsLowerBound(t *testing.T) {
	ctx := newTestCtx()
	arrTy := &ArrayType{Elem: s32(), Size: NewConstant(10, u32())}
	castIdx := &Typecast{Base: Base{Ty: s32()}, Operand: NewSymbol("u", u32())}
	idx := &Index{Base: Base{Ty: s32()}, Array: NewSymbol("arr", arrTy), Idx: castIdx}

	checkBounds(ctx, TrueGuard(), idx)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected only the upper-bound obligation when the index is a direct unsigned typecast, got %d", len(instrs))
	}
}

// TestBounds_ArrayBehindDereferenceConsultsRegistry: indexing a fixed-size
// array reached through a dereferenced pointer widens the upper bound to
// also accept "inside some registered allocation" or "dynamic object not
// tracked by the allocator", and adds the compile-time/runtime size
// agreement obligation, rather than emitting only the plain element-count
// bound.
func TestBounds_ArrayBehindDereferenceConsultsRegistry(t *testing.T) {
	ctx := newTestCtx()
	arrTy := &ArrayType{Elem: s32(), Size: NewConstant(10, u32())}
	p := NewSymbol("p", ptrTo(arrTy))
	deref := &Dereference{Base: Base{Ty: arrTy}, Pointer: p}
	idx := &Index{Base: Base{Ty: s32()}, Array: deref, Idx: NewSymbol("i", s32())}

	b := newRegistryBuilder()
	b.add(AllocationEntry{Base: NewSymbol("obj", ptrTo(arrTy)), Size: NewConstant(64, u32())})
	ctx.registry = b.freeze()

	checkBounds(ctx, TrueGuard(), idx)

	instrs := ctx.buf.Drain()
	if len(instrs) != 3 {
		t.Fatalf("expected 3 obligations (lower bound, dynamic upper bound, size agreement), got %d: %v", len(instrs), instrs)
	}
	for _, in := range instrs {
		if in.PropertyClass != "array bounds" {
			t.Fatalf("expected array bounds property class throughout, got %q", in.PropertyClass)
		}
	}
	if instrs[1].Comment != "dynamic object upper bound in "+idx.String() {
		t.Fatalf("expected the second obligation to be the dynamic object upper bound, got %q", instrs[1].Comment)
	}
}

// TestBounds_FlexibleArrayMemberBehindDereferenceUsesEnclosingSize: a
// flexible array member reached through a dereferenced pointer bounds the
// accessed byte offset against the enclosing struct's compile-time size.
func TestBounds_FlexibleArrayMemberBehindDereferenceUsesEnclosingSize(t *testing.T) {
	ctx := newTestCtx()
	structTy := &StructType{Name: "S", Fields: []StructField{{Name: "hdr", Type: s32()}}}
	arrTy := &ArrayType{Elem: s32()}
	ctx.sizeOf = func(ty Type, ns Namespace) (Expr, bool) {
		if st, ok := ty.(*StructType); ok && st.Name == "S" {
			return NewConstant(24, &BitVectorType{Width: 64, Signed: false}), true
		}
		return DefaultSizeOf(ty, ns)
	}

	p := NewSymbol("p", ptrTo(structTy))
	deref := &Dereference{Base: Base{Ty: structTy}, Pointer: p}
	member := &Member{Base: Base{Ty: arrTy}, Struct: deref, Field: "tail"}
	idx := &Index{Base: Base{Ty: s32()}, Array: member, Idx: NewSymbol("i", u32())}

	checkBounds(ctx, TrueGuard(), idx)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected exactly one upper-bound obligation for an unsigned index into a flexible array member, got %d: %v", len(instrs), instrs)
	}
	if instrs[0].PropertyClass != "array bounds" {
		t.Fatalf("expected array bounds property class, got %q", instrs[0].PropertyClass)
	}
}

func TestBounds_DisabledCategoryEmitsNothing(t *testing.T) {
	ctx := newTestCtx()
	ctx.opts.BoundsCheck = false
	arrTy := &ArrayType{Elem: s32(), Size: NewConstant(10, u32())}
	idx := &Index{Base: Base{Ty: s32()}, Array: NewSymbol("arr", arrTy), Idx: NewSymbol("i", s32())}

	checkBounds(ctx, TrueGuard(), idx)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligations when bounds-check is disabled, got %d", ctx.buf.Len())
	}
}
