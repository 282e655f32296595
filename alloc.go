package gocheck

import (
	"fmt"

	"github.com/benbjohnson/immutable"
)

// allocatedMemoryIntrinsic is the call name CollectAllocations scans for:
// calls of the shape allocatedMemoryIntrinsic(base, size) record one entry.
const allocatedMemoryIntrinsic = "__gocheck_allocated_memory"

// AllocationEntry records one object the pointer-validity builder may need
// to reason about: Base is its address, Size its extent in bytes.
type AllocationEntry struct {
	Base Expr
	Size Expr
}

// Registry is an immutable-after-construction collection of
// AllocationEntry, built once per Check call and shared read-only across
// every function's pass (spec.md §5: built once, read many times).
type Registry struct {
	entries *immutable.List
}

// Len returns the number of recorded allocations.
func (r *Registry) Len() int {
	if r.entries == nil {
		return 0
	}
	return r.entries.Len()
}

// At returns the i'th recorded allocation.
func (r *Registry) At(i int) AllocationEntry {
	return r.entries.Get(i).(AllocationEntry)
}

// Each calls fn for every recorded allocation, in insertion order.
func (r *Registry) Each(fn func(AllocationEntry)) {
	if r.entries == nil {
		return
	}
	itr := r.entries.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		fn(v.(AllocationEntry))
	}
}

// registryBuilder accumulates entries before Registry freezes them.
type registryBuilder struct {
	list *immutable.List
}

func newRegistryBuilder() *registryBuilder {
	return &registryBuilder{list: immutable.NewList()}
}

func (b *registryBuilder) add(e AllocationEntry) {
	b.list = b.list.Append(e)
}

func (b *registryBuilder) freeze() *Registry {
	return &Registry{entries: b.list}
}

// CollectAllocations scans every instruction of every function in model for
// calls to the allocated-memory intrinsic and records one AllocationEntry
// per call, in the order encountered. A call with other than two arguments
// is a malformed model and CollectAllocations fails fatally rather than
// silently dropping it (spec.md §4.6: malformed input is a fatal error, not
// a missed obligation).
func CollectAllocations(model *Model, ns Namespace) (*Registry, error) {
	b := newRegistryBuilder()
	for _, fn := range model.Functions {
		for _, instr := range fn.Instrs {
			if instr.Kind != InstrCall || instr.Call == nil || instr.Call.Callee == nil {
				continue
			}
			if instr.Call.Callee.Name != allocatedMemoryIntrinsic {
				continue
			}
			args := instr.Call.Args
			if len(args) != 2 {
				return nil, &FatalError{
					Stage: "collect_allocations",
					Loc:   instr.Loc,
					Msg:   fmt.Sprintf("%s: expected 2 arguments, got %d", allocatedMemoryIntrinsic, len(args)),
				}
			}
			b.add(AllocationEntry{Base: args[0], Size: args[1]})
		}
	}
	return b.freeze(), nil
}
