package gocheck

// newTestCtx returns a buildCtx wired with every collaborator tests need:
// a fresh cache and patch buffer, every check enabled, the constant-folding
// behavior disabled (tests want to see the raw obligation shape), and an
// empty allocation registry.
func newTestCtx() *buildCtx {
	opts := DefaultOptions()
	opts.Simplify = false
	return &buildCtx{
		cache:    NewAssertionCache(),
		buf:      &PatchBuffer{},
		simp:     nil,
		ns:       NewMapNamespace(),
		sizeOf:   DefaultSizeOf,
		opts:     opts,
		flavor:   ConservativeFlavor{},
		registry: &Registry{},
	}
}

func s32() Type  { return &BitVectorType{Width: 32, Signed: true} }
func u32() Type  { return &BitVectorType{Width: 32, Signed: false} }
func s8() Type   { return &BitVectorType{Width: 8, Signed: true} }
func ptrTo(ty Type) Type { return &PointerType{Elem: ty} }
