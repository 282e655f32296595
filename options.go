package gocheck

import "log"

// LanguageStandard identifies which source-language dialect produced the
// model being checked, since a couple of obligations (signed left-shift
// into the sign bit, reference-vs-pointer null checks) are only undefined,
// or only meaningful, under specific dialects.
type LanguageStandard int

const (
	StandardC99 LanguageStandard = iota
	StandardC11
	StandardCPP14
	StandardManagedReference // e.g. a JVM/CLR-style bytecode front end
)

// ShlIntoSignBitUndefined reports whether a signed left shift that flips
// the sign bit is undefined behavior under this standard. True for every
// standard this pass knows about except the managed-reference front end,
// which defines shift behavior exactly regardless of the sign bit.
func (s LanguageStandard) ShlIntoSignBitUndefined() bool {
	return s != StandardManagedReference
}

// IsManagedReference reports whether this standard models pointers as
// managed references (no raw address arithmetic, GC-tracked lifetime)
// rather than as C-style pointers.
func (s LanguageStandard) IsManagedReference() bool {
	return s == StandardManagedReference
}

// Options configures one Check call. Field names are exported; every field
// has a json tag for config-file loading, and most also have a CLI flag of
// the same meaning (see the cmd packages). UserAssumptionsEnabled has no
// CLI flag and is set only through an options file.
type Options struct {
	BoundsCheck           bool `json:"bounds_check"`
	PointerCheck          bool `json:"pointer_check"`
	DivByZeroCheck        bool `json:"div_by_zero_check"`
	ShiftCheck            bool `json:"shift_check"`
	SignedOverflowCheck   bool `json:"signed_overflow_check"`
	UnsignedOverflowCheck bool `json:"unsigned_overflow_check"`
	ConversionCheck       bool `json:"conversion_check"`
	FloatOverflowCheck    bool `json:"float_overflow_check"`
	NaNCheck              bool `json:"nan_check"`
	MemoryLeakCheck       bool `json:"memory_leak_check"`
	PointerOverflowCheck  bool `json:"pointer_overflow_check"`

	// UserAssertionsEnabled/UserAssumptionsEnabled gate whether
	// user-provided assert/assume instructions are kept at all, independent
	// of the generated obligations above; a disabled one becomes a skip.
	// UserAssertionsEnabled is the CLI's --built-in-assertions flag.
	UserAssertionsEnabled  bool `json:"user_assertions_enabled"`
	UserAssumptionsEnabled bool `json:"user_assumptions_enabled"`

	// GenerateAssertions is the master switch for this pass's own obligation
	// generation (CLI --assertions); when false, Submit drops every
	// obligation, so nothing is generated. GenerateAssumptions additionally emits a
	// paired InstrAssume alongside every generated InstrAssert (CLI
	// --assumptions), so the condition is both checked and then assumed to
	// hold on the path that continues past it.
	GenerateAssertions bool `json:"generate_assertions"`
	GenerateAssumptions bool `json:"generate_assumptions"`

	// AssertToAssume, when set, makes every generated obligation an
	// InstrAssume instead of an InstrAssert (CLI --assert-to-assume) — used
	// when replaying a trace that is already known to satisfy the
	// obligations and only the rest of the model's behavior is of interest.
	AssertToAssume bool `json:"assert_to_assume"`

	// Simplify gates whether Submit runs the configured Simplifier at all
	// (CLI --simplify); RetainTrivial keeps an obligation that simplifies
	// to the literal true instead of dropping it (CLI --retain-trivial),
	// useful for witnesses that expect one assertion per source construct
	// regardless of whether it was provably trivial.
	Simplify      bool `json:"simplify"`
	RetainTrivial bool `json:"retain_trivial"`

	// ErrorLabels lists the label names that, when attached to an
	// instruction, turn it into an emitted assertion (spec.md §4.5 step 4).
	ErrorLabels []string `json:"error_labels"`

	Standard LanguageStandard `json:"standard"`

	// Flavor overrides the FlavorAnalysis used to decide which
	// pointer-validity obligations a given dereference actually needs. When
	// nil (the default produced by DefaultOptions and the JSON zero value),
	// Check runs a fresh LocalFlavorAnalysis per function; set this to
	// ConservativeFlavor{} to fall back to emitting every obligation
	// unconditionally, e.g. when feeding in a model where LocalFlavorAnalysis's
	// intraprocedural assumptions do not hold.
	Flavor FlavorAnalysis `json:"-"`

	// Logger receives the [check]/[alloc] progress messages
	// this pass emits; defaults to log.Default() if nil when DefaultOptions
	// is used.
	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns every check enabled, C11 semantics, and the
// standard logger, mirroring the "everything on unless told otherwise"
// defaults of this kind of instrumentation pass.
func DefaultOptions() *Options {
	return &Options{
		BoundsCheck:            true,
		PointerCheck:           true,
		DivByZeroCheck:         true,
		ShiftCheck:             true,
		SignedOverflowCheck:    true,
		UnsignedOverflowCheck:  true,
		ConversionCheck:        true,
		FloatOverflowCheck:     true,
		NaNCheck:               true,
		MemoryLeakCheck:        true,
		PointerOverflowCheck:   true,
		UserAssertionsEnabled:  true,
		UserAssumptionsEnabled: true,
		GenerateAssertions:     true,
		GenerateAssumptions:    false,
		AssertToAssume:         false,
		Simplify:               true,
		RetainTrivial:          false,
		Standard:               StandardC11,
		Logger:                 log.Default(),
	}
}

// categoryEnabled/setCategoryEnabled implement the pragma scoping in
// pragma.go against the named check category strings used by #pragma
// annotations.
func (o *Options) categoryEnabled(category string) bool {
	switch category {
	case "bounds-check":
		return o.BoundsCheck
	case "pointer-check":
		return o.PointerCheck
	case "div-by-zero-check":
		return o.DivByZeroCheck
	case "shift-check":
		return o.ShiftCheck
	case "signed-overflow-check":
		return o.SignedOverflowCheck
	case "unsigned-overflow-check":
		return o.UnsignedOverflowCheck
	case "conversion-check":
		return o.ConversionCheck
	case "float-overflow-check":
		return o.FloatOverflowCheck
	case "nan-check":
		return o.NaNCheck
	case "memory-leak-check":
		return o.MemoryLeakCheck
	case "pointer-overflow-check":
		return o.PointerOverflowCheck
	default:
		return false
	}
}

func (o *Options) setCategoryEnabled(category string, enabled bool) {
	switch category {
	case "bounds-check":
		o.BoundsCheck = enabled
	case "pointer-check":
		o.PointerCheck = enabled
	case "div-by-zero-check":
		o.DivByZeroCheck = enabled
	case "shift-check":
		o.ShiftCheck = enabled
	case "signed-overflow-check":
		o.SignedOverflowCheck = enabled
	case "unsigned-overflow-check":
		o.UnsignedOverflowCheck = enabled
	case "conversion-check":
		o.ConversionCheck = enabled
	case "float-overflow-check":
		o.FloatOverflowCheck = enabled
	case "nan-check":
		o.NaNCheck = enabled
	case "memory-leak-check":
		o.MemoryLeakCheck = enabled
	case "pointer-overflow-check":
		o.PointerOverflowCheck = enabled
	}
}

func defaultLoggerFallback() *log.Logger {
	return log.Default()
}

// HasErrorLabel reports whether name is one of the configured error labels.
func (o *Options) HasErrorLabel(name string) bool {
	for _, l := range o.ErrorLabels {
		if l == name {
			return true
		}
	}
	return false
}
