package gocheck

// InstructionKind tags the shape of one Instruction, mirroring the
// instruction kinds spec.md §4.5 dispatches on.
type InstructionKind int

const (
	InstrAssign InstructionKind = iota
	InstrCall
	InstrReturn
	InstrGoto
	InstrAssume
	InstrAssert
	InstrDead
	InstrEndFunction
	InstrThrow
	InstrLabel
	InstrSkip
	InstrOther
)

func (k InstructionKind) String() string {
	switch k {
	case InstrAssign:
		return "assign"
	case InstrCall:
		return "call"
	case InstrReturn:
		return "return"
	case InstrGoto:
		return "goto"
	case InstrAssume:
		return "assume"
	case InstrAssert:
		return "assert"
	case InstrDead:
		return "dead"
	case InstrEndFunction:
		return "end_function"
	case InstrThrow:
		return "throw"
	case InstrLabel:
		return "label"
	case InstrSkip:
		return "skip"
	case InstrOther:
		return "other"
	default:
		return "instruction"
	}
}

// CallInfo carries the operands of an InstrCall instruction.
type CallInfo struct {
	// Callee is non-nil when the call target is statically known.
	Callee *FunctionType
	Lvalue Expr // where the return value is stored, may be nil
	Args   []Expr
	// IsReceiverMethod marks calls to a method with a receiver argument, in
	// the sense spec.md §4.5's function-call handling uses it (managed
	// -reference mode, pointer-checking: null-check argument 0).
	IsReceiverMethod bool
}

// FunctionType is the minimal callee-identifying information a call
// instruction needs.
type FunctionType struct {
	Name string
}

// Instruction is one step of a Function's body. Not every field is
// meaningful for every Kind; §4.5 documents which fields each kind uses.
type Instruction struct {
	Kind InstructionKind

	// Labels are the labels attached to this instruction; any label listed
	// in Options.ErrorLabels turns this instruction into an emitted
	// obligation (spec.md §4.5 step 4).
	Labels []string

	// IsBranchTarget is true iff some Goto/conditional branch elsewhere in
	// the function targets this instruction. Set by the caller (or by
	// Function.MarkBranchTargets) before the driver runs; the driver
	// never infers it independently so invariant P5 is checkable simply by
	// asserting this flag is unchanged after the pass.
	IsBranchTarget bool

	// LHS/RHS are used by InstrAssign.
	LHS Expr
	RHS Expr

	// Call is used by InstrCall.
	Call *CallInfo

	// ReturnValue is used by InstrReturn (nil for a bare return).
	ReturnValue Expr

	// Condition is used by InstrGoto (conditional) and InstrAssume/InstrAssert.
	Condition Expr

	// Target is the branch target of a conditional InstrGoto. Unconditional
	// gotos set Condition to a true constant and Target to the destination.
	Target *Instruction

	// ThrowOperand is used by InstrThrow.
	ThrowOperand Expr

	// DeadSymbol is used by InstrDead.
	DeadSymbol *Symbol

	// OtherOperands is used by InstrOther (e.g. printf-style operands) for
	// instructions whose only checkable content is "walk every operand."
	OtherOperands []Expr

	// UserProvided distinguishes a user-written assert/assume from one the
	// pass itself generates (spec.md §4.5's assert/assume enable/disable
	// logic treats them differently). Ignored for non-assert/assume kinds.
	UserProvided bool
	// IsErrorLabelAssertion marks an assertion generated for a user-declared
	// error label (step 4), exempt from the user-assertion disable switch.
	IsErrorLabelAssertion bool
	Comment               string
	PropertyClass         string

	// Pragmas are scoped check-category overrides attached to this
	// instruction (spec.md §4.4), e.g. "disable:bounds-check".
	Pragmas []string

	Loc *SourceLocation
}

// Copy returns a shallow copy of instr.
func (i *Instruction) Copy() *Instruction {
	c := *i
	return &c
}

// Function is an ordered instruction list. Branch targets are pointers into
// Instrs, not indices, so splicing never has to renumber anything.
type Function struct {
	Name   string
	Instrs []*Instruction
}

// MarkBranchTargets sets IsBranchTarget on every instruction that is the
// Target of some Goto in f (conditional or not). It never clears the flag.
func (f *Function) MarkBranchTargets() {
	for _, instr := range f.Instrs {
		if instr.Kind == InstrGoto && instr.Target != nil {
			instr.Target.IsBranchTarget = true
		}
	}
}

// Model is a whole program: every function, keyed by name, in the order
// they should be checked (deterministic, since the pass is single-threaded
// per spec.md §5).
type Model struct {
	Functions  []*Function
	EntryPoint string // name of the program entry point function, for C8 step 5's end-of-function leak check
}

// FunctionByName returns the named function, or nil.
func (m *Model) FunctionByName(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Symbol describes one entry a Namespace can look up.
type SymbolInfo struct {
	Identifier string
	Type       Type
	Mode       string // source language mode, e.g. "C", "managed-reference"
}

// Namespace is the narrow symbol-table lookup contract spec.md §6 says this
// pass consumes ("only the lookup contract is used").
type Namespace interface {
	Lookup(identifier string) (SymbolInfo, bool)
}

// Simplifier is the narrow, idempotent expression-simplification contract
// spec.md §6 says this pass consumes.
type Simplifier interface {
	Simplify(e Expr, ns Namespace) Expr
}

// SizeOfFunc is the narrow type-size-computation contract spec.md §6 says
// this pass consumes. It returns (nil, false) when the size cannot be
// computed (spec.md's "optional expr").
type SizeOfFunc func(ty Type, ns Namespace) (Expr, bool)
