package gocheck

// DefaultSizeOf is the narrow SizeOfFunc this pass falls back to when no
// sharper, ABI-aware oracle is configured: it computes sizes directly from
// Type, assuming byte-addressable layout with no padding at all: a struct's
// size is the sum of its fields' sizes. Real front ends with struct padding,
// bit-fields, or non-default alignment should supply their own SizeOfFunc
// instead of this one.
func DefaultSizeOf(ty Type, ns Namespace) (Expr, bool) {
	size, ok := defaultByteSize(ty, ns)
	if !ok {
		return nil, false
	}
	return NewConstant(size, &BitVectorType{Width: PointerWidth, Signed: false}), true
}

func defaultByteSize(ty Type, ns Namespace) (uint64, bool) {
	switch t := ty.(type) {
	case *BitVectorType:
		return uint64(t.Width+7) / 8, true
	case *FloatType:
		return uint64(t.Width+7) / 8, true
	case *BoolType:
		return 1, true
	case *PointerType:
		return PointerWidth / 8, true
	case *VectorType:
		elemSize, ok := defaultByteSize(t.Elem, ns)
		if !ok {
			return 0, false
		}
		return elemSize * uint64(t.Size), true
	case *ArrayType:
		if t.Infinite || t.Size == nil {
			return 0, false
		}
		c, ok := t.Size.(*Constant)
		if !ok {
			return 0, false
		}
		elemSize, ok := defaultByteSize(t.Elem, ns)
		if !ok {
			return 0, false
		}
		return elemSize * c.Value, true
	case *StructType:
		var total uint64
		for _, f := range t.Fields {
			fieldSize, ok := defaultByteSize(f.Type, ns)
			if !ok {
				return 0, false
			}
			total += fieldSize
		}
		return total, true
	default:
		return 0, false
	}
}
