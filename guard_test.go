package gocheck

import "testing"

func TestGuardConjoinSkipsTrivialTrue(t *testing.T) {
	g := TrueGuard().Conjoin(BoolConstant(true))
	if !g.IsTrue() {
		t.Fatalf("conjoining literal true should leave the guard trivial")
	}
}

func TestGuardMaterializeSingleton(t *testing.T) {
	cond := NewRelational(OpLt, NewSymbol("i", intTy()), NewConstant(10, intTy()))
	g := TrueGuard().Conjoin(cond)
	if g.Materialize() != cond {
		t.Fatalf("materializing a single-conjunct guard should return that conjunct unchanged")
	}
}

func TestGuardImpliesTrivialWhenTrue(t *testing.T) {
	cond := BoolConstant(false)
	if got := TrueGuard().Implies(cond); got != cond {
		t.Fatalf("Implies on a trivial guard should return the condition unchanged, got %s", got)
	}
}

func TestGuardImpliesWraps(t *testing.T) {
	c1 := NewEqual(NewSymbol("a", intTy()), NewConstant(1, intTy()), false)
	cond := NewEqual(NewSymbol("b", intTy()), NewConstant(2, intTy()), false)
	g := TrueGuard().Conjoin(c1)
	got := g.Implies(cond)
	or, ok := got.(*Or)
	if !ok || len(or.Operands_) != 2 {
		t.Fatalf("expected a 2-ary Or, got %#v", got)
	}
}

func intTy() Type { return &BitVectorType{Width: 32, Signed: true} }
