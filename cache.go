package gocheck

import (
	"hash/fnv"

	"github.com/benbjohnson/immutable"
)

// Obligation is one safety condition the walker has decided to emit:
// Condition is the unguarded predicate that must hold, Comment is the
// human-readable description spec.md §4.2 requires ("<description> in
// <pretty-printed source expression>"), and PropertyClass names the check
// category (e.g. "pointer", "overflow") for property-based test
// classification (P1-P7).
type Obligation struct {
	Condition     Expr
	Comment       string
	PropertyClass string
	Loc           *SourceLocation
}

// cacheEntry is the value side of the AssertionCache map: which symbols the
// cached guarded-condition string depends on (for invalidation) and whether
// it depends on any dereference at all (a dereference invalidates
// conservatively on any write through an unresolved pointer, per spec.md
// §4.5's invalidation rule).
type cacheEntry struct {
	symbols map[string]bool
	derefs  bool
}

type stringHasher struct{}

func (stringHasher) Hash(key interface{}) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key.(string)))
	return h.Sum32()
}

func (stringHasher) Equal(a, b interface{}) bool {
	return a.(string) == b.(string)
}

// AssertionCache deduplicates obligations already known to hold at the
// current program point, keyed by the pretty-printed, fully-guarded
// condition string. The driver clears it at every branch target (and at
// every instruction when Options.RetainTrivial is set) and after every call
// and throw; writes that only affect some of the cached entries invalidate
// it selectively (InvalidateSymbol / InvalidateDerefs).
type AssertionCache struct {
	m *immutable.Map
}

// NewAssertionCache returns an empty cache.
func NewAssertionCache() *AssertionCache {
	return &AssertionCache{m: immutable.NewMap(stringHasher{})}
}

// symbolsOf collects every Symbol identifier reachable from e, and reports
// whether e contains a Dereference anywhere.
func symbolsOf(e Expr) (map[string]bool, bool) {
	syms := make(map[string]bool)
	derefs := false
	var walk func(Expr)
	walk = func(x Expr) {
		if x == nil {
			return
		}
		switch v := x.(type) {
		case *Symbol:
			syms[v.Identifier] = true
		case *Dereference:
			derefs = true
		}
		for _, o := range x.Operands() {
			walk(o)
		}
	}
	walk(e)
	return syms, derefs
}

// Known reports whether key (the fully-guarded, pretty-printed obligation
// string) is already known to hold.
func (c *AssertionCache) Known(key string) bool {
	_, ok := c.m.Get(key)
	return ok
}

// Record marks key as known to hold, keyed additionally by which symbols
// the underlying condition touches so a later write can invalidate it
// precisely.
func (c *AssertionCache) Record(key string, condition Expr) {
	syms, derefs := symbolsOf(condition)
	c.m = c.m.Set(key, cacheEntry{symbols: syms, derefs: derefs})
}

// Clear drops every cached entry.
func (c *AssertionCache) Clear() {
	c.m = immutable.NewMap(stringHasher{})
}

// InvalidateSymbol drops every cached entry whose condition mentions name,
// the write-invalidation rule of spec.md §4.5: assigning to a plain symbol
// only invalidates entries that mention that symbol.
func (c *AssertionCache) InvalidateSymbol(name string) {
	next := immutable.NewMap(stringHasher{})
	itr := c.m.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		entry := v.(cacheEntry)
		if entry.symbols[name] {
			continue
		}
		next = next.Set(k, v)
	}
	c.m = next
}

// InvalidateDerefs drops every cached entry whose condition contains a
// dereference, the conservative rule spec.md §4.5 applies when the
// assignment LHS is a Member, Index, or Dereference (i.e. the written
// location cannot be named precisely enough to invalidate only exact
// matches).
func (c *AssertionCache) InvalidateDerefs() {
	next := immutable.NewMap(stringHasher{})
	itr := c.m.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		entry := v.(cacheEntry)
		if entry.derefs {
			continue
		}
		next = next.Set(k, v)
	}
	c.m = next
}

// InvalidateForAssignment applies the correct invalidation rule for an
// assignment whose left-hand side is lhs, per spec.md §4.5: a bare Symbol
// LHS invalidates only entries mentioning that symbol; a Member, Index, or
// Dereference LHS invalidates every entry that contains any dereference at
// all, since the pass cannot in general tell which object was written.
func (c *AssertionCache) InvalidateForAssignment(lhs Expr) {
	if sym, ok := lhs.(*Symbol); ok {
		c.InvalidateSymbol(sym.Identifier)
		return
	}
	c.InvalidateDerefs()
}

// PatchBuffer accumulates newly-generated instructions (obligation checks)
// ahead of the instruction the walker is currently processing, to be
// spliced into the function's instruction list once the whole instruction
// has been walked.
type PatchBuffer struct {
	pending []*Instruction
}

// Append queues instr to be spliced in before the instruction currently
// being processed.
func (p *PatchBuffer) Append(instr *Instruction) {
	p.pending = append(p.pending, instr)
}

// Drain returns every queued instruction and empties the buffer.
func (p *PatchBuffer) Drain() []*Instruction {
	out := p.pending
	p.pending = nil
	return out
}

// Len reports how many instructions are currently queued.
func (p *PatchBuffer) Len() int { return len(p.pending) }

// Submit implements the obligation submission algorithm of spec.md §4.3:
//  1. guard the condition: guard => condition;
//  2. pass it through the simplifier, unless Options.Simplify is false;
//  3. if the simplifier reduces it to the literal true, drop it entirely
//     unless Options.RetainTrivial asks to keep it anyway;
//  4. otherwise, check the cache under the pretty-printed guarded-and-
//     simplified condition as key; if already known, drop it;
//  5. otherwise append a generated instruction to the patch buffer — an
//     InstrAssert normally, or an InstrAssume when Options.AssertToAssume
//     is set — and record the key in the cache.
func Submit(ctx *buildCtx, guard Guard, ob Obligation) {
	if ctx.opts != nil && !ctx.opts.GenerateAssertions {
		return
	}
	guarded := guard.Implies(ob.Condition)
	simplified := guarded
	if ctx.simp != nil && (ctx.opts == nil || ctx.opts.Simplify) {
		simplified = ctx.simp.Simplify(guarded, ctx.ns)
	}
	retainTrivial := ctx.opts != nil && ctx.opts.RetainTrivial
	if IsTrue(simplified) && !retainTrivial {
		return
	}
	key := simplified.String()
	if ctx.cache.Known(key) {
		return
	}
	ctx.cache.Record(key, simplified)
	kind := InstrAssert
	if ctx.opts != nil && ctx.opts.AssertToAssume {
		kind = InstrAssume
	}
	ctx.buf.Append(&Instruction{
		Kind:                  kind,
		Condition:             simplified,
		Comment:               ob.Comment,
		PropertyClass:         ob.PropertyClass,
		IsErrorLabelAssertion: false,
		Loc:                   ob.Loc,
	})
	if ctx.opts != nil && ctx.opts.GenerateAssumptions && kind == InstrAssert {
		ctx.buf.Append(&Instruction{
			Kind:      InstrAssume,
			Condition: simplified,
			Comment:   ob.Comment,
			Loc:       ob.Loc,
		})
	}
}
