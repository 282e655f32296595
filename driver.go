package gocheck

// runFunction drives the per-instruction obligation-generation pass over fn,
// splicing generated assertions immediately ahead of the instruction that
// required them and invalidating the assertion cache according to what
// each instruction kind could have changed. It returns a new, patched
// instruction slice; fn.Instrs itself is not resliced, but the instructions
// it holds are updated in place (walked operands are written back, and
// disabled user assertions and assumptions become skips).
func runFunction(ctx *buildCtx, fn *Function, opts *Options) []*Instruction {
	ctx.fn = fn
	out := make([]*Instruction, 0, len(fn.Instrs))
	buf := &PatchBuffer{}
	ctx.buf = buf

	for _, instr := range fn.Instrs {
		restore := applyPragmas(opts, instr.Pragmas)

		if instr.IsBranchTarget || opts.RetainTrivial {
			ctx.cache.Clear()
		}

		guard := TrueGuard()
		switch instr.Kind {
		case InstrAssign:
			instr.RHS = ctx.Walk(guard, instr.RHS)
			walkLvalueForWrite(ctx, guard, instr.LHS)
			ctx.cache.InvalidateForAssignment(instr.LHS)

		case InstrCall:
			if instr.Call != nil {
				if opts.Standard.IsManagedReference() && opts.PointerCheck &&
					instr.Call.IsReceiverMethod && len(instr.Call.Args) > 0 {
					emitReceiverNullCheck(ctx, guard, instr.Call.Args[0], instr.Loc)
				}
				for i, arg := range instr.Call.Args {
					instr.Call.Args[i] = ctx.Walk(guard, arg)
				}
				if instr.Call.Lvalue != nil {
					walkLvalueForWrite(ctx, guard, instr.Call.Lvalue)
				}
			}
			// A call can write through any pointer it was handed; the
			// pass has no interprocedural summary, so it conservatively
			// forgets everything proven so far rather than risk reusing a
			// fact a callee invalidated.
			ctx.cache.Clear()

		case InstrReturn:
			instr.ReturnValue = ctx.Walk(guard, instr.ReturnValue)
			if opts.MemoryLeakCheck && fn.Name == ctx.entryPoint {
				checkMemoryLeak(ctx, guard, ctx.registry)
			}

		case InstrGoto:
			instr.Condition = ctx.Walk(guard, instr.Condition)

		case InstrAssume:
			if opts.UserAssumptionsEnabled {
				instr.Condition = ctx.Walk(guard, instr.Condition)
			} else {
				instr.Kind = InstrSkip
			}

		case InstrAssert:
			if instr.IsErrorLabelAssertion || (instr.UserProvided && opts.UserAssertionsEnabled) || !instr.UserProvided {
				instr.Condition = ctx.Walk(guard, instr.Condition)
			} else {
				instr.Kind = InstrSkip
			}

		case InstrThrow:
			instr.ThrowOperand = ctx.Walk(guard, instr.ThrowOperand)
			if opts.PointerCheck && instr.ThrowOperand != nil && IsPointer(instr.ThrowOperand.Type()) {
				emitThrowNullCheck(ctx, guard, instr.ThrowOperand, instr.Loc)
			}
			ctx.cache.Clear()

		case InstrDead:
			if instr.DeadSymbol != nil {
				if opts.PointerCheck && addressEscaped(ctx, instr.DeadSymbol.Identifier) {
					emitDeadObjectSentinel(ctx, instr.DeadSymbol)
				}
				ctx.cache.InvalidateSymbol(instr.DeadSymbol.Identifier)
			}

		case InstrEndFunction:
			if opts.MemoryLeakCheck && fn.Name == ctx.entryPoint {
				checkMemoryLeak(ctx, guard, ctx.registry)
			}

		case InstrOther:
			for i, o := range instr.OtherOperands {
				instr.OtherOperands[i] = ctx.Walk(guard, o)
			}
		}

		if len(instr.Labels) > 0 {
			emitErrorLabelAssertions(ctx, guard, instr, opts)
		}

		pending := buf.Drain()
		for _, p := range pending {
			if p.Loc == nil {
				p.Loc = instr.Loc
			}
		}
		out = append(out, pending...)
		out = append(out, instr)
		restore()
	}

	return removeSkips(out)
}

// emitReceiverNullCheck emits the managed-reference receiver-method null
// check spec.md §4.5's call handling requires: argument 0 of a call to a
// receiver method must not be null.
func emitReceiverNullCheck(ctx *buildCtx, guard Guard, receiver Expr, loc *SourceLocation) {
	nullPtr := NewConstant(0, receiver.Type())
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(NewEqual(receiver, nullPtr, false)),
		Comment:       "receiver argument NULL in call",
		PropertyClass: "pointer",
		Loc:           loc,
	})
}

// emitThrowNullCheck emits the non-null obligation on a thrown pointer
// operand spec.md §4.5's throw handling requires.
func emitThrowNullCheck(ctx *buildCtx, guard Guard, operand Expr, loc *SourceLocation) {
	nullPtr := NewConstant(0, operand.Type())
	Submit(ctx, guard, Obligation{
		Condition:     NewNot(NewEqual(operand, nullPtr, false)),
		Comment:       "thrown pointer NULL in " + operand.String(),
		PropertyClass: "pointer",
		Loc:           loc,
	})
}

// addressEscaped reports whether ctx's flavor analysis considers sym's
// address to have been taken somewhere in the function. Analyses that don't
// track escapes default to true (AddressEscapeAnalysis's contract).
func addressEscaped(ctx *buildCtx, identifier string) bool {
	esc, ok := ctx.flavor.(AddressEscapeAnalysis)
	if !ok {
		return true
	}
	return esc.AddressEscaped(identifier)
}

// emitDeadObjectSentinel appends the dead-object sentinel assignment
// spec.md §4.5's "dead" instruction handling requires:
// dead_object := nondet ? &var : dead_object, making a pointer that aliased
// var visible to later dead_object checks once var itself has gone out of
// scope.
func emitDeadObjectSentinel(ctx *buildCtx, sym *Symbol) {
	ptrTy := &PointerType{Elem: sym.Type()}
	lhs := NewSymbol("dead_object", ptrTy)
	addr := &AddressOf{Base: Base{Ty: ptrTy}, Operand: sym}
	rhs := &If{Base: Base{Ty: ptrTy}, Cond: NewNondet(&BoolType{}), Then: addr, Else: lhs}
	ctx.buf.Append(&Instruction{
		Kind: InstrAssign,
		LHS:  lhs,
		RHS:  rhs,
		Loc:  sym.SourceLocation(),
	})
}

// walkLvalueForWrite descends into an assignment's left-hand side just far
// enough to emit the obligations a write itself requires — bounds for an
// Index LHS, pointer validity for a Dereference LHS — without treating the
// final component as a read.
func walkLvalueForWrite(ctx *buildCtx, guard Guard, lhs Expr) {
	switch v := lhs.(type) {
	case *Symbol:
	case *Member:
		walkLvalueForWrite(ctx, guard, v.Struct)
	case *Index:
		walkLvalueForWrite(ctx, guard, v.Array)
		ctx.Walk(guard, v.Idx)
		checkBounds(ctx, guard, v)
	case *Dereference:
		ctx.Walk(guard, v.Pointer)
		checkPointerValidity(ctx, guard, v)
	}
}

// emitErrorLabelAssertions turns any label on instr that is configured as
// an error label into an unconditional "this point is unreachable"
// assertion, exempt from the user-assertion enable/disable switch (spec.md
// §4.5 step 4).
func emitErrorLabelAssertions(ctx *buildCtx, guard Guard, instr *Instruction, opts *Options) {
	for _, label := range instr.Labels {
		if !opts.HasErrorLabel(label) {
			continue
		}
		Submit(ctx, guard, Obligation{
			Condition:     BoolConstant(false),
			Comment:       "error label " + label + " reachable",
			PropertyClass: "error label",
			Loc:           instr.Loc,
		})
	}
}

// removeSkips drops every InstrSkip the pass itself never needed, the final
// post-pass cleanup of spec.md §4.5 step 8. A skip that is itself a branch
// target is kept, since removing it would require redirecting every branch
// that targets it — and branch targets are pointers precisely so this pass
// never has to do that renumbering; instead, skips that are branch targets
// are just left in place.
func removeSkips(instrs []*Instruction) []*Instruction {
	out := make([]*Instruction, 0, len(instrs))
	for _, instr := range instrs {
		if instr.Kind == InstrSkip && !instr.IsBranchTarget {
			continue
		}
		out = append(out, instr)
	}
	return out
}
