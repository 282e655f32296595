package gocheck

import "testing"

func TestNaN_Div(t *testing.T) {
	ctx := newTestCtx()
	f64 := &FloatType{Width: 64}
	e := NewBinaryArith(OpDiv, NewSymbol("a", f64), NewSymbol("b", f64))

	checkNaN(ctx, TrueGuard(), e)

	instrs := ctx.buf.Drain()
	if len(instrs) != 1 {
		t.Fatalf("expected 1 obligation, got %d", len(instrs))
	}
	if instrs[0].PropertyClass != "NaN" {
		t.Fatalf("expected NaN property class, got %q", instrs[0].PropertyClass)
	}
}

// TestNaN_DistinctFromOverflowPredicate guards against the NaN and overflow
// obligations for the same operation colliding in the assertion cache: their
// printed forms must differ even though both wrap the same LHS/RHS/Op.
func TestNaN_DistinctFromOverflowPredicate(t *testing.T) {
	f64 := &FloatType{Width: 64}
	e := NewBinaryArith(OpMul, NewSymbol("a", f64), NewSymbol("b", f64))

	nanPred := isNaNResult(e)
	overflowPred := NewOverflowPredicate(e.Op, e.LHS, e.RHS)

	if nanPred.String() == overflowPred.String() {
		t.Fatalf("NaN and overflow predicates over the same operation must print differently, both got %q", nanPred.String())
	}
}

func TestNaN_DisabledCategorySilence(t *testing.T) {
	ctx := newTestCtx()
	ctx.opts.NaNCheck = false
	f64 := &FloatType{Width: 64}
	e := NewBinaryArith(OpDiv, NewSymbol("a", f64), NewSymbol("b", f64))

	checkNaN(ctx, TrueGuard(), e)

	if ctx.buf.Len() != 0 {
		t.Fatalf("expected no obligation when nan-check is disabled, got %d", ctx.buf.Len())
	}
}
