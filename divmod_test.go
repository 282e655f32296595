package gocheck

import "testing"

// TestDivByZero_SignedDivision: signed integer division emits a
// nonzero-divisor obligation tagged div-by-zero.
func TestDivByZero_SignedDivision(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkDivMod(ctx, TrueGuard(), e)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected exactly 1 obligation, got %d", len(instrs))
	}
	if instrs[0].PropertyClass != "division-by-zero" {
		t.Fatalf("expected division-by-zero property class, got %q", instrs[0].PropertyClass)
	}
	if _, ok := instrs[0].Condition.(*Not); !ok {
		t.Fatalf("expected the obligation to be a negated equality, got %T", instrs[0].Condition)
	}
}

func TestDivByZero_ModAlsoChecked(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpMod, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkDivMod(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 1 {
		t.Fatalf("expected mod to also trigger the divisor-nonzero obligation, got %d", ctx.buf.Len())
	}
}

// TestDivByZero_ManagedReferenceSuppressesModOnly: managed-reference mode
// defines mod-by-zero via a host exception, so it's not checked here, but
// division-by-zero still is.
func TestDivByZero_ManagedReferenceSuppressesModOnly(t *testing.T) {
	ctx := newTestCtx()
	ctx.opts.Standard = StandardManagedReference

	mod := NewBinaryArith(OpMod, NewSymbol("a", s32()), NewSymbol("b", s32()))
	checkDivMod(ctx, TrueGuard(), mod)
	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligation for mod in managed-reference mode, got %d", ctx.buf.Len())
	}

	div := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("b", s32()))
	checkDivMod(ctx, TrueGuard(), div)
	if ctx.buf.Len() != 1 {
		t.Fatalf("expected division-by-zero still checked in managed-reference mode, got %d", ctx.buf.Len())
	}
}

func TestDivByZero_AddIsUnaffected(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpAdd, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkDivMod(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligation for +, got %d", ctx.buf.Len())
	}
}

func TestDivByZero_DisabledCategorySilence(t *testing.T) {
	ctx := newTestCtx()
	ctx.opts.DivByZeroCheck = false
	e := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkDivMod(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligation when div-by-zero-check is disabled, got %d", ctx.buf.Len())
	}
}

// TestDivOverflow_SignedDivisionGetsOverflowObligation: signed division gets
// its own overflow obligation (INT_MIN / -1) distinct from division-by-zero.
func TestDivOverflow_SignedDivisionGetsOverflowObligation(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkDivModOverflow(ctx, TrueGuard(), e)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected exactly 1 obligation, got %d", len(instrs))
	}
	if instrs[0].PropertyClass != "overflow" {
		t.Fatalf("expected overflow property class, got %q", instrs[0].PropertyClass)
	}
}

// TestModOverflow_IntMinModMinusOne: signed mod gets the explicit
// "not both INT_MIN and -1" disjunction rather than the generic overflow
// predicate.
func TestModOverflow_IntMinModMinusOne(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpMod, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkDivModOverflow(ctx, TrueGuard(), e)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected exactly 1 obligation, got %d", len(instrs))
	}
	if instrs[0].PropertyClass != "overflow" {
		t.Fatalf("expected overflow property class, got %q", instrs[0].PropertyClass)
	}
	or, ok := instrs[0].Condition.(*Or)
	if !ok || len(or.Operands_) != 2 {
		t.Fatalf("expected a 2-ary Or, got %#v", instrs[0].Condition)
	}
}

func TestDivModOverflow_UnsignedUnaffected(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpDiv, NewSymbol("a", u32()), NewSymbol("b", u32()))

	checkDivModOverflow(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no overflow obligation for unsigned division, got %d", ctx.buf.Len())
	}
}

func TestDivModOverflow_DisabledCategorySilence(t *testing.T) {
	ctx := newTestCtx()
	ctx.opts.SignedOverflowCheck = false
	e := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkDivModOverflow(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligation when signed-overflow-check is disabled, got %d", ctx.buf.Len())
	}
}
