package gocheck

// Flags summarizes what is known about the value a pointer-valued
// expression might hold at a given program point. Every field starts false
// ("unknown") and only ever turns true as the dataflow analysis discovers
// more about the pointer's provenance — this is a sound over-approximation,
// never a precise classification, so Flags.Unknown() means "nothing is
// known," not "this pointer behaves unpredictably."
type Flags struct {
	Null            bool
	Uninitialized   bool
	DynamicHeap     bool
	DynamicLocal    bool
	StaticLifetime  bool
	IntegerAddress  bool
	Invalid         bool
}

// Unknown reports whether no flag has been set.
func (f Flags) Unknown() bool {
	return !f.Null && !f.Uninitialized && !f.DynamicHeap && !f.DynamicLocal &&
		!f.StaticLifetime && !f.IntegerAddress && !f.Invalid
}

// Merge ORs every flag of other into f (used at control-flow join points:
// the merged flavor is the union of what each incoming edge could produce).
func (f Flags) Merge(other Flags) Flags {
	return Flags{
		Null:           f.Null || other.Null,
		Uninitialized:  f.Uninitialized || other.Uninitialized,
		DynamicHeap:    f.DynamicHeap || other.DynamicHeap,
		DynamicLocal:   f.DynamicLocal || other.DynamicLocal,
		StaticLifetime: f.StaticLifetime || other.StaticLifetime,
		IntegerAddress: f.IntegerAddress || other.IntegerAddress,
		Invalid:        f.Invalid || other.Invalid,
	}
}

// FlavorAnalysis answers "what could this pointer expression be" for the
// pointer-validity builder. Implementations need not be precise; they must
// only be sound (never omit a flag the pointer could actually carry).
type FlavorAnalysis interface {
	FlavorOf(e Expr) Flags
}

// AddressEscapeAnalysis optionally augments a FlavorAnalysis with whether a
// local's address was ever taken anywhere in the function — the "dirty"
// signal the dead-object sentinel assignment is gated on. A FlavorAnalysis
// that doesn't implement it is treated as reporting every symbol escaped,
// matching ConservativeFlavor's always-assume-worst posture.
type AddressEscapeAnalysis interface {
	AddressEscaped(identifier string) bool
}

// ConservativeFlavor is the always-safe fallback: every pointer is assumed
// to possibly be every flavor, so the pointer-validity builder emits the
// full obligation set unconditionally. Used when no sharper analysis is
// configured (spec.md's C4 default).
type ConservativeFlavor struct{}

func (ConservativeFlavor) FlavorOf(e Expr) Flags {
	return Flags{
		Null: true, Uninitialized: true, DynamicHeap: true, DynamicLocal: true,
		StaticLifetime: true, IntegerAddress: true, Invalid: true,
	}
}

func (ConservativeFlavor) AddressEscaped(identifier string) bool { return true }

// LocalFlavorAnalysis is a forward, monotone, per-function dataflow analysis
// keyed by symbol name. It starts every symbol at Flags{} (unknown) and only
// grows flags as assignments are observed, to a fixpoint; it never shrinks a
// flag once set, so running it twice over the same function yields the same
// or a more conservative answer, never a sharper one (spec.md's soundness
// requirement for C4).
type LocalFlavorAnalysis struct {
	flags   map[string]Flags
	escaped map[string]bool
}

// NewLocalFlavorAnalysis returns an analysis with no symbols seen yet. Run
// must be called before FlavorOf is meaningful.
func NewLocalFlavorAnalysis() *LocalFlavorAnalysis {
	return &LocalFlavorAnalysis{flags: make(map[string]Flags), escaped: make(map[string]bool)}
}

// Run computes the fixpoint for fn by iterating a single forward pass over
// its instructions, accumulating flags at assignments. This is a local
// (intraprocedural), not interprocedural, analysis: a call's return value
// and any pointer escaping through it are always Flags{} (unknown) unless
// subsequently assigned a recognized shape.
func (a *LocalFlavorAnalysis) Run(fn *Function) {
	changed := true
	for changed {
		changed = false
		for _, instr := range fn.Instrs {
			if instr.Kind != InstrAssign {
				continue
			}
			sym := rootSymbol(instr.LHS)
			if sym == nil {
				continue
			}
			rhsFlags := a.classify(instr.RHS)
			merged := a.flags[sym.Identifier].Merge(rhsFlags)
			if merged != a.flags[sym.Identifier] {
				a.flags[sym.Identifier] = merged
				changed = true
			}
		}
	}
	a.collectEscapes(fn)
}

// collectEscapes marks every symbol that is ever the root of an AddressOf
// operand anywhere in fn — assignment RHS, call arguments, branch
// conditions, everything — as dirty in the CBMC sense: its address is live
// somewhere and a later "dead" instruction for it needs the sentinel
// assignment.
func (a *LocalFlavorAnalysis) collectEscapes(fn *Function) {
	var walk func(e Expr)
	walk = func(e Expr) {
		if e == nil {
			return
		}
		if ao, ok := e.(*AddressOf); ok {
			if sym := rootSymbol(ao.Operand); sym != nil {
				a.escaped[sym.Identifier] = true
			}
		}
		for _, o := range e.Operands() {
			walk(o)
		}
	}
	for _, instr := range fn.Instrs {
		walk(instr.LHS)
		walk(instr.RHS)
		walk(instr.Condition)
		walk(instr.ReturnValue)
		walk(instr.ThrowOperand)
		for _, o := range instr.OtherOperands {
			walk(o)
		}
		if instr.Call != nil {
			for _, arg := range instr.Call.Args {
				walk(arg)
			}
			walk(instr.Call.Lvalue)
		}
	}
}

// AddressEscaped reports whether identifier's address was ever taken
// anywhere in the analyzed function.
func (a *LocalFlavorAnalysis) AddressEscaped(identifier string) bool {
	return a.escaped[identifier]
}

// classify derives the flags a freshly-assigned RHS expression directly
// contributes, without consulting prior state (the caller merges it in).
func (a *LocalFlavorAnalysis) classify(e Expr) Flags {
	switch v := e.(type) {
	case *Constant:
		if v.Value == 0 && IsPointer(v.Ty) {
			return Flags{Null: true}
		}
		if IsPointer(v.Ty) {
			return Flags{IntegerAddress: true}
		}
		return Flags{}
	case *Nondet:
		return Flags{Uninitialized: true}
	case *AddressOf:
		sym := rootSymbol(v.Operand)
		if sym != nil {
			if info, ok := a.lookupStatic(sym.Identifier); ok && info {
				return Flags{StaticLifetime: true}
			}
			return Flags{DynamicLocal: true}
		}
		return Flags{DynamicLocal: true}
	case *Typecast:
		return a.classify(v.Operand)
	case *Symbol:
		return a.flags[v.Identifier]
	case *If:
		return a.classify(v.Then).Merge(a.classify(v.Else))
	default:
		return Flags{}
	}
}

// lookupStatic is a hook LocalFlavorAnalysis never needs real symbol-table
// access for in practice (addresses of locals are DynamicLocal, addresses
// of globals are StaticLifetime, and this analysis has no namespace wired
// in); it always reports "not static" so AddressOf defaults to the more
// common DynamicLocal case.
func (a *LocalFlavorAnalysis) lookupStatic(name string) (bool, bool) {
	return false, false
}

// FlavorOf returns the flags accumulated for e's root symbol. Derived
// expressions (member/index/dereference chains) are rooted at the innermost
// Symbol reachable from e; anything not reducible to a Symbol root (e.g. a
// dereference of a computed address) reports Flags{} (unknown), which the
// pointer-validity builder treats as "could be anything."
func (a *LocalFlavorAnalysis) FlavorOf(e Expr) Flags {
	sym := rootSymbol(e)
	if sym == nil {
		return Flags{}
	}
	return a.flags[sym.Identifier]
}

// rootSymbol finds the innermost Symbol reachable by descending through
// Member/Index/Dereference/Typecast/AddressOf wrappers, or nil if none is
// reachable (e.g. the root is itself a Dereference of a non-symbol
// pointer-valued expression).
func rootSymbol(e Expr) *Symbol {
	for {
		switch v := e.(type) {
		case *Symbol:
			return v
		case *Member:
			e = v.Struct
		case *Index:
			e = v.Array
		case *Dereference:
			e = v.Pointer
		case *Typecast:
			e = v.Operand
		case *AddressOf:
			e = v.Operand
		default:
			return nil
		}
	}
}
