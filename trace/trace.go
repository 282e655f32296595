// Package trace validates that a counterexample trace's assignment steps
// have the structural shape this module's rest of the pass assumes:
// left-hand sides name an addressable, non-synthetic location and
// right-hand sides are built only from node kinds a trace step can
// legitimately produce. It is independent of, and never imported by, the
// instrumentation pass itself (gocheck) — a trace is something produced
// downstream of this module's output, by a component this module never
// sees.
package trace

import (
	"fmt"
	"log"
	"strings"

	"github.com/tanagra/gocheck"
)

// Step is one assignment observed in a counterexample trace: symbol (or
// symbol-rooted lvalue) LHS assigned value RHS.
type Step struct {
	LHS   gocheck.Expr
	RHS   gocheck.Expr
	Index int
}

// isValidSymbol reports whether e is a Symbol with a non-empty, non-
// synthetic identifier. Identifiers produced by an intermediate lowering
// pass rather than named directly in source are prefixed "$" or "tmp$";
// a trace step assigning to one of those is not a step a consumer should
// be shown.
func isValidSymbol(e gocheck.Expr) bool {
	sym, ok := e.(*gocheck.Symbol)
	if !ok {
		return false
	}
	if sym.Identifier == "" {
		return false
	}
	if strings.HasPrefix(sym.Identifier, "$") || strings.HasPrefix(sym.Identifier, "tmp$") {
		return false
	}
	return true
}

// nestedSymbol descends through Member/Index wrappers to find the
// innermost Symbol, or nil if the chain bottoms out in something else
// (e.g. a Dereference of a non-symbol pointer).
func nestedSymbol(e gocheck.Expr) *gocheck.Symbol {
	for {
		switch v := e.(type) {
		case *gocheck.Symbol:
			return v
		case *gocheck.Member:
			e = v.Struct
		case *gocheck.Index:
			e = v.Array
		default:
			return nil
		}
	}
}

// validMember reports whether e is a Member whose Struct has valid LHS
// shape and whose Field is named.
func validMember(e gocheck.Expr) bool {
	m, ok := e.(*gocheck.Member)
	if !ok {
		return false
	}
	if m.Field == "" {
		return false
	}
	return validLHSShape(m.Struct)
}

// validIndexShape reports whether e is an Index whose Array has valid LHS
// shape and whose Idx has valid RHS shape.
func validIndexShape(e gocheck.Expr) bool {
	idx, ok := e.(*gocheck.Index)
	if !ok {
		return false
	}
	return validLHSShape(idx.Array) && validRHSShape(idx.Idx)
}

// validStructShape reports whether e is a StructLiteral all of whose
// fields have valid RHS shape.
func validStructShape(e gocheck.Expr) bool {
	s, ok := e.(*gocheck.StructLiteral)
	if !ok {
		return false
	}
	for _, f := range s.Fields {
		if !validRHSShape(f) {
			return false
		}
	}
	return true
}

// validAddressOfShape reports whether e is an AddressOf whose operand has
// valid LHS shape (you cannot validly take the address of something that
// itself is not an addressable location).
func validAddressOfShape(e gocheck.Expr) bool {
	a, ok := e.(*gocheck.AddressOf)
	if !ok {
		return false
	}
	return validLHSShape(a.Operand)
}

// validConstantShape reports whether e is a Constant, StringConstant, or
// Nondet — the three node kinds a trace step's RHS can bottom out at
// without further structure.
func validConstantShape(e gocheck.Expr) bool {
	switch e.(type) {
	case *gocheck.Constant, *gocheck.StringConstant, *gocheck.Nondet:
		return true
	default:
		return false
	}
}

// validLHSShape reports whether e is a legal trace-step assignment target:
// a named symbol, or a member/index chain rooted at one.
func validLHSShape(e gocheck.Expr) bool {
	switch e.(type) {
	case *gocheck.Symbol:
		return isValidSymbol(e)
	case *gocheck.Member:
		return validMember(e)
	case *gocheck.Index:
		return validIndexShape(e)
	default:
		return false
	}
}

// validRHSShape reports whether e is a legal trace-step assigned value.
func validRHSShape(e gocheck.Expr) bool {
	switch v := e.(type) {
	case *gocheck.Symbol:
		return isValidSymbol(e)
	case *gocheck.Member:
		return validMember(e)
	case *gocheck.Index:
		return validIndexShape(e)
	case *gocheck.AddressOf:
		return validAddressOfShape(e)
	case *gocheck.StructLiteral:
		return validStructShape(e)
	case *gocheck.ArrayLiteral:
		for _, el := range v.Elements {
			if !validRHSShape(el) {
				return false
			}
		}
		return true
	default:
		return validConstantShape(e)
	}
}

// checkLHS validates step's LHS, returning a ValidationError naming the
// step index and the offending predicate on failure.
func checkLHS(step Step) error {
	if !validLHSShape(step.LHS) {
		return &ValidationError{Predicate: "LHS", StepIndex: step.Index, Msg: fmt.Sprintf("not a valid assignment target: %s", step.LHS)}
	}
	if nestedSymbol(step.LHS) == nil {
		return &ValidationError{Predicate: "LHS", StepIndex: step.Index, Msg: "no symbol reachable from assignment target"}
	}
	return nil
}

// checkRHS validates step's RHS.
func checkRHS(step Step) error {
	if step.RHS == nil {
		return nil // a declaration-only step has no RHS to validate
	}
	if !validRHSShape(step.RHS) {
		return &ValidationError{Predicate: "RHS", StepIndex: step.Index, Msg: fmt.Sprintf("not a valid assigned value: %s", step.RHS)}
	}
	return nil
}

// checkStep validates both sides of one step.
func checkStep(step Step) error {
	if err := checkLHS(step); err != nil {
		return err
	}
	return checkRHS(step)
}

// ValidationError reports a structural inconsistency found in a trace.
type ValidationError struct {
	Predicate string
	StepIndex int
	Msg       string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trace validation failed at step %d (%s): %s", e.StepIndex, e.Predicate, e.Msg)
}

// CheckTraceAssumptions validates every step of trace in order, stopping at
// the first violation. enabled gates the whole check internally (mirroring
// the original validator's own run_check parameter) rather than leaving it
// to the caller to decide whether to invoke this at all, so a single
// call site works whether or not trace validation is turned on. logger
// receives one line on success; on failure the returned error carries the
// detail and nothing is logged (the caller decides how to report it).
func CheckTraceAssumptions(steps []Step, ns gocheck.Namespace, enabled bool, logger *log.Logger) error {
	if !enabled {
		return nil
	}
	for _, step := range steps {
		if err := checkStep(step); err != nil {
			return err
		}
	}
	if logger != nil {
		logger.Printf("[trace] %d steps validated", len(steps))
	}
	return nil
}
