package gocheck

import "testing"

func TestOverflow_SignedAdd(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpAdd, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkOverflow(ctx, TrueGuard(), e)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected 1 obligation, got %d", len(instrs))
	}
	if instrs[0].PropertyClass != "overflow" {
		t.Fatalf("expected overflow property class, got %q", instrs[0].PropertyClass)
	}
}

func TestOverflow_UnsignedMulGatedSeparately(t *testing.T) {
	ctx := newTestCtx()
	ctx.opts.UnsignedOverflowCheck = false
	e := NewBinaryArith(OpMul, NewSymbol("a", u32()), NewSymbol("b", u32()))

	checkOverflow(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligation when unsigned-overflow-check is disabled, got %d", ctx.buf.Len())
	}

	// Signed check being disabled must not suppress the unsigned obligation.
	ctx2 := newTestCtx()
	ctx2.opts.SignedOverflowCheck = false
	checkOverflow(ctx2, TrueGuard(), e)
	if ctx2.buf.Len() != 1 {
		t.Fatalf("expected the unsigned obligation to still fire, got %d", ctx2.buf.Len())
	}
}

func TestOverflow_DivIsUnaffected(t *testing.T) {
	ctx := newTestCtx()
	e := NewBinaryArith(OpDiv, NewSymbol("a", s32()), NewSymbol("b", s32()))

	checkOverflow(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no overflow obligation for /, got %d", ctx.buf.Len())
	}
}

func TestOverflow_UnaryMinusOnSignedMin(t *testing.T) {
	ctx := newTestCtx()
	e := &UnaryMinus{Base: Base{Ty: s32()}, Operand: NewSymbol("x", s32())}

	checkUnaryOverflow(ctx, TrueGuard(), e)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected 1 obligation, got %d", len(instrs))
	}
	if instrs[0].PropertyClass != "overflow" {
		t.Fatalf("expected overflow property class, got %q", instrs[0].PropertyClass)
	}
}

func TestOverflow_UnaryMinusOnUnsignedSkipped(t *testing.T) {
	ctx := newTestCtx()
	e := &UnaryMinus{Base: Base{Ty: u32()}, Operand: NewSymbol("x", u32())}

	checkUnaryOverflow(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligation for unary minus on an unsigned operand, got %d", ctx.buf.Len())
	}
}
