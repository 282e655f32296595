package gocheck

import "testing"

// TestGuardCorrectness: an obligation emitted while walking the Then branch
// of an If is guarded by that branch's condition; the Else branch's
// obligation is guarded by the condition's negation.
func TestGuardCorrectness(t *testing.T) {
	ctx := newTestCtx()
	cond := NewRelational(OpGt, NewSymbol("flag", s32()), NewConstant(0, s32()))
	thenDiv := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("b", s32()))
	elseDiv := NewBinaryArith(OpDiv, NewSymbol("c", s32()), NewSymbol("d", s32()))
	ifExpr := &If{Base: Base{Ty: s32()}, Cond: cond, Then: thenDiv, Else: elseDiv}

	ctx.Walk(TrueGuard(), ifExpr)

	instrs := ctx.buf.Drain()
	if len(instrs) != 4 {
		t.Fatalf("expected 4 obligations (divisor nonzero and signed division overflow, per branch), got %d", len(instrs))
	}

	thenOr, ok := instrs[0].Condition.(*Or)
	if !ok {
		t.Fatalf("expected the then-branch obligation guarded as an Or, got %T", instrs[0].Condition)
	}
	if notCond, ok := thenOr.Operands_[0].(*Not); !ok || notCond.Operand != cond {
		t.Fatalf("expected the then-branch guard to negate the if-condition directly, got %#v", thenOr.Operands_[0])
	}

	elseOr, ok := instrs[2].Condition.(*Or)
	if !ok {
		t.Fatalf("expected the else-branch obligation guarded as an Or, got %T", instrs[2].Condition)
	}
	notNotCond, ok := elseOr.Operands_[0].(*Not)
	if !ok {
		t.Fatalf("expected the else-branch guard's first operand to be a Not, got %#v", elseOr.Operands_[0])
	}
	if inner, ok := notNotCond.Operand.(*Not); !ok || inner.Operand != cond {
		t.Fatalf("expected the else-branch guard to be !(!cond), got %#v", notNotCond.Operand)
	}
}

// TestShortCircuitFaithfulness: walking the second operand of an And
// accumulates the first operand into the guard, matching short-circuit
// evaluation order — a division in the second operand is only obligated to
// be safe when the first operand already held.
func TestShortCircuitFaithfulness(t *testing.T) {
	ctx := newTestCtx()
	first := NewRelational(OpGt, NewSymbol("n", s32()), NewConstant(0, s32()))
	secondDiv := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("n", s32()))
	second := NewRelational(OpGt, secondDiv, NewConstant(0, s32()))
	and := NewAnd(first, second)

	ctx.Walk(TrueGuard(), and)

	instrs := ctx.buf.Drain()
	if len(instrs) != 2 {
		t.Fatalf("expected exactly 2 obligations (divisor nonzero and signed division overflow for the second operand), got %d", len(instrs))
	}
	or, ok := instrs[0].Condition.(*Or)
	if !ok {
		t.Fatalf("expected the obligation guarded as an Or, got %T", instrs[0].Condition)
	}
	notFirst, ok := or.Operands_[0].(*Not)
	if !ok || notFirst.Operand != first {
		t.Fatalf("expected the guard to be !first, got %#v", or.Operands_[0])
	}
}

// TestShortCircuitFaithfulness_Or mirrors the And case for Or: the second
// operand of an Or is only reached when the first was false, so its guard
// must conjoin the negation of the first operand.
func TestShortCircuitFaithfulness_Or(t *testing.T) {
	ctx := newTestCtx()
	first := NewRelational(OpGt, NewSymbol("n", s32()), NewConstant(0, s32()))
	secondDiv := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("n", s32()))
	second := NewRelational(OpGt, secondDiv, NewConstant(0, s32()))
	or := NewOr(first, second)

	ctx.Walk(TrueGuard(), or)

	instrs := ctx.buf.Drain()
	if len(instrs) != 2 {
		t.Fatalf("expected exactly 2 obligations, got %d", len(instrs))
	}
	wrapped, ok := instrs[0].Condition.(*Or)
	if !ok {
		t.Fatalf("expected the obligation guarded as an Or, got %T", instrs[0].Condition)
	}
	notNotFirst, ok := wrapped.Operands_[0].(*Not)
	if !ok {
		t.Fatalf("expected the guard's first operand to be a Not, got %#v", wrapped.Operands_[0])
	}
	if innerNot, ok := notNotFirst.Operand.(*Not); !ok || innerNot.Operand != first {
		t.Fatalf("expected the guard to be !(!first), got %#v", notNotFirst.Operand)
	}
}

// TestWalk_MemberOfDereferenceSynthesizesDereference exercises the
// synthesized field dereference Walk checks: member-of-dereference gets a pointer-validity
// obligation for the pointer, just as a standalone dereference would.
func TestWalk_MemberOfDereferenceSynthesizesDereference(t *testing.T) {
	ctx := newTestCtx()
	structTy := &StructType{Name: "point", Fields: []StructField{{Name: "x", Type: s32()}}}
	ptrTy := ptrTo(structTy)
	deref := &Dereference{Base: Base{Ty: structTy}, Pointer: NewSymbol("p", ptrTy)}
	member := &Member{Base: Base{Ty: s32()}, Struct: deref, Field: "x"}

	ctx.Walk(TrueGuard(), member)

	instrs := ctx.buf.Drain()
	if len(instrs) == 0 {
		t.Fatalf("expected pointer-validity obligations for the synthesized dereference, got none")
	}
	for _, in := range instrs {
		if in.PropertyClass != "pointer dereference" {
			t.Fatalf("expected only pointer dereference obligations, got %q", in.PropertyClass)
		}
	}
}

// TestWalk_MemberOfDereferenceAdjustsForFieldOffset exercises a multi-field
// struct where the naive "copy the whole dereference verbatim" rewrite
// would be indistinguishable from a correct one for the first field but
// wrong for the second: y's synthesized dereference must be sized and typed
// as the field itself, addressed at p + offset_of(y), not at p sized as the
// whole struct.
func TestWalk_MemberOfDereferenceAdjustsForFieldOffset(t *testing.T) {
	ctx := newTestCtx()
	structTy := &StructType{Name: "point", Fields: []StructField{
		{Name: "x", Type: s32()},
		{Name: "y", Type: s32()},
	}}
	ptrTy := ptrTo(structTy)
	p := NewSymbol("p", ptrTy)
	deref := &Dereference{Base: Base{Ty: structTy}, Pointer: p}
	member := &Member{Base: Base{Ty: s32()}, Struct: deref, Field: "y"}

	fieldDeref, ok := ctx.fieldDereference(deref, "y")
	if !ok {
		t.Fatalf("expected the offset of y to be computable")
	}
	if fieldDeref.Type().String() != s32().String() {
		t.Fatalf("expected the synthesized dereference typed as the field, got %s", fieldDeref.Type())
	}
	adjusted, ok := fieldDeref.Pointer.(*BinaryArith)
	if !ok || adjusted.Op != OpAdd || adjusted.LHS != p {
		t.Fatalf("expected the field pointer to be p adjusted by an offset, got %#v", fieldDeref.Pointer)
	}
	offsetConst, ok := adjusted.RHS.(*Constant)
	if !ok || offsetConst.Value != 4 {
		t.Fatalf("expected y's offset to be 4 (sizeof(x)), got %#v", adjusted.RHS)
	}

	ctx.Walk(TrueGuard(), member)

	instrs := ctx.buf.Drain()
	if len(instrs) == 0 {
		t.Fatalf("expected pointer-validity obligations for the synthesized dereference, got none")
	}
}

// TestWalk_MemberOfDereferenceFallsBackWhenOffsetUnresolvable: when the
// preceding field's size can't be computed, Walk falls back to validating
// the whole struct dereference rather than silently skipping the check.
func TestWalk_MemberOfDereferenceFallsBackWhenOffsetUnresolvable(t *testing.T) {
	ctx := newTestCtx()
	unresolvable := &ArrayType{Elem: s32(), Infinite: true}
	structTy := &StructType{Name: "weird", Fields: []StructField{
		{Name: "x", Type: unresolvable},
		{Name: "y", Type: s32()},
	}}
	ptrTy := ptrTo(structTy)
	deref := &Dereference{Base: Base{Ty: structTy}, Pointer: NewSymbol("p", ptrTy)}
	member := &Member{Base: Base{Ty: s32()}, Struct: deref, Field: "y"}

	ctx.Walk(TrueGuard(), member)

	instrs := ctx.buf.Drain()
	if len(instrs) == 0 {
		t.Fatalf("expected the fallback whole-struct validity obligations, got none")
	}
}

// TestWalk_QuantifierNotDescended ensures a division hidden inside a
// quantifier body never gets an obligation: the bound variable has no
// concrete value for the obligation to be meaningful against.
func TestWalk_QuantifierNotDescended(t *testing.T) {
	ctx := newTestCtx()
	bound := NewSymbol("i", s32())
	div := NewBinaryArith(OpDiv, NewSymbol("a", s32()), bound)
	body := NewRelational(OpGt, div, NewConstant(0, s32()))
	q := &Quantifier{Base: Base{Ty: &BoolType{}}, Exists: false, Bound: bound, Body: body}

	ctx.Walk(TrueGuard(), q)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligations from inside a quantifier body, got %d", ctx.buf.Len())
	}
}
