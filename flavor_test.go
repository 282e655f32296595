package gocheck

import "testing"

func TestFlavor_ConservativeSetsEveryFlag(t *testing.T) {
	f := ConservativeFlavor{}.FlavorOf(NewSymbol("p", ptrTo(s32())))
	if f.Unknown() {
		t.Fatalf("ConservativeFlavor's every-flag-true result must not report Unknown()")
	}
	if !f.Null || !f.Invalid || !f.DynamicHeap || !f.DynamicLocal || !f.StaticLifetime || !f.IntegerAddress || !f.Uninitialized {
		t.Fatalf("expected every flag set, got %#v", f)
	}
}

func TestFlavor_LocalAnalysisTracksNullAssignment(t *testing.T) {
	ptrTy := ptrTo(s32())
	fn := &Function{Name: "f", Instrs: []*Instruction{
		{Kind: InstrAssign, LHS: NewSymbol("p", ptrTy), RHS: NewConstant(0, ptrTy)},
	}}
	a := NewLocalFlavorAnalysis()
	a.Run(fn)

	got := a.FlavorOf(NewSymbol("p", ptrTy))
	if !got.Null {
		t.Fatalf("expected Null flag set after assigning a literal 0 pointer, got %#v", got)
	}
	if got.Uninitialized || got.DynamicHeap {
		t.Fatalf("expected no other flags set, got %#v", got)
	}
}

func TestFlavor_LocalAnalysisTracksAddressOf(t *testing.T) {
	ptrTy := ptrTo(s32())
	fn := &Function{Name: "f", Instrs: []*Instruction{
		{Kind: InstrAssign, LHS: NewSymbol("p", ptrTy), RHS: &AddressOf{Base: Base{Ty: ptrTy}, Operand: NewSymbol("x", s32())}},
	}}
	a := NewLocalFlavorAnalysis()
	a.Run(fn)

	got := a.FlavorOf(NewSymbol("p", ptrTy))
	if !got.DynamicLocal {
		t.Fatalf("expected DynamicLocal flag set after taking the address of a local, got %#v", got)
	}
}

func TestFlavor_LocalAnalysisMergesAcrossBranches(t *testing.T) {
	ptrTy := ptrTo(s32())
	fn := &Function{Name: "f", Instrs: []*Instruction{
		{Kind: InstrAssign, LHS: NewSymbol("p", ptrTy), RHS: NewConstant(0, ptrTy)},
		{Kind: InstrAssign, LHS: NewSymbol("p", ptrTy), RHS: &AddressOf{Base: Base{Ty: ptrTy}, Operand: NewSymbol("x", s32())}},
	}}
	a := NewLocalFlavorAnalysis()
	a.Run(fn)

	got := a.FlavorOf(NewSymbol("p", ptrTy))
	if !got.Null || !got.DynamicLocal {
		t.Fatalf("expected both Null and DynamicLocal accumulated across the two assignments, got %#v", got)
	}
}

func TestFlavor_RootSymbolDescendsWrappers(t *testing.T) {
	ptrTy := ptrTo(s32())
	sym := NewSymbol("p", ptrTy)
	member := &Member{Base: Base{Ty: s32()}, Struct: sym, Field: "x"}
	idx := &Index{Base: Base{Ty: s32()}, Array: member, Idx: NewConstant(0, u32())}

	got := rootSymbol(idx)
	if got != sym {
		t.Fatalf("expected rootSymbol to descend through Index and Member to the base Symbol, got %v", got)
	}
}

func TestFlavor_RootSymbolNilForComputedDereference(t *testing.T) {
	ptrTy := ptrTo(s32())
	e := &Dereference{Base: Base{Ty: ptrTy}, Pointer: &Typecast{Base: Base{Ty: ptrTy}, Operand: NewConstant(42, u32())}}

	got := rootSymbol(e)
	if got != nil {
		t.Fatalf("expected no root symbol for a dereference of a cast integer constant, got %v", got)
	}
}

func TestFlavor_LocalAnalysisTracksEscapedAddress(t *testing.T) {
	ptrTy := ptrTo(s32())
	x := NewSymbol("x", s32())
	fn := &Function{Name: "f", Instrs: []*Instruction{
		{Kind: InstrAssign, LHS: NewSymbol("p", ptrTy), RHS: &AddressOf{Base: Base{Ty: ptrTy}, Operand: x}},
		{Kind: InstrDead, DeadSymbol: x},
	}}
	a := NewLocalFlavorAnalysis()
	a.Run(fn)

	if !a.AddressEscaped("x") {
		t.Fatalf("expected x's address to be reported escaped after &x was taken")
	}
	if a.AddressEscaped("never_addressed") {
		t.Fatalf("expected a symbol whose address was never taken to report unescaped")
	}
}

func TestFlavor_LocalAnalysisTracksEscapeThroughCallArgument(t *testing.T) {
	x := NewSymbol("x", s32())
	fn := &Function{Name: "f", Instrs: []*Instruction{
		{Kind: InstrCall, Call: &CallInfo{Args: []Expr{&AddressOf{Base: Base{Ty: ptrTo(s32())}, Operand: x}}}},
	}}
	a := NewLocalFlavorAnalysis()
	a.Run(fn)

	if !a.AddressEscaped("x") {
		t.Fatalf("expected x's address to be reported escaped when passed as a call argument")
	}
}

func TestFlavor_ConservativeAlwaysReportsEscaped(t *testing.T) {
	if !(ConservativeFlavor{}).AddressEscaped("anything") {
		t.Fatalf("expected ConservativeFlavor to report every symbol escaped")
	}
}

func TestFlavor_UnknownReportsNoFlagsSet(t *testing.T) {
	var f Flags
	if !f.Unknown() {
		t.Fatalf("zero-value Flags must report Unknown()")
	}
	f.Null = true
	if f.Unknown() {
		t.Fatalf("Flags with Null set must not report Unknown()")
	}
}
