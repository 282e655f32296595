package gocheck

import "fmt"

// Type is the tagged-union representation of a GOTO-IR type. Every concrete
// type below implements it; callers pattern-match with a type switch rather
// than downcasting through an untyped tag string.
type Type interface {
	String() string
	typeTag()
}

// BitVectorType is a fixed-width signed or unsigned integer type.
type BitVectorType struct {
	Width  uint
	Signed bool
}

func (t *BitVectorType) typeTag() {}

func (t *BitVectorType) String() string {
	if t.Signed {
		return fmt.Sprintf("signedbv[%d]", t.Width)
	}
	return fmt.Sprintf("unsignedbv[%d]", t.Width)
}

// MinSigned returns the minimum representable value for a signed bit-vector
// type of this width, as a two's complement bit pattern held in an int64.
// Panics if the type is unsigned.
func (t *BitVectorType) MinSigned() int64 {
	if !t.Signed {
		panic("MinSigned: unsigned type")
	}
	return -(1 << (t.Width - 1))
}

// MaxSigned returns the maximum representable signed value.
func (t *BitVectorType) MaxSigned() int64 {
	if !t.Signed {
		panic("MaxSigned: unsigned type")
	}
	return (1 << (t.Width - 1)) - 1
}

// MaxUnsigned returns the maximum representable unsigned value.
func (t *BitVectorType) MaxUnsigned() uint64 {
	if t.Width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << t.Width) - 1
}

// FloatType is an IEEE-754 floating point type, identified by its total
// width (32 or 64 in practice, but not restricted to those).
type FloatType struct {
	Width uint
}

func (t *FloatType) typeTag()     {}
func (t *FloatType) String() string { return fmt.Sprintf("floatbv[%d]", t.Width) }

// PointerType points to Elem.
type PointerType struct {
	Elem Type
}

func (t *PointerType) typeTag()     {}
func (t *PointerType) String() string { return fmt.Sprintf("%s*", t.Elem) }

// ArrayType is an array of Elem with an optional Size expression. A nil Size
// means the array is of unknown ("incomplete"/flexible") size; Infinite
// marks an array declared with no upper bound at all (spec.md's "array of
// infinite size").
type ArrayType struct {
	Elem     Type
	Size     Expr
	Infinite bool
}

func (t *ArrayType) typeTag() {}
func (t *ArrayType) String() string {
	if t.Infinite {
		return fmt.Sprintf("%s[?]", t.Elem)
	}
	if t.Size == nil {
		return fmt.Sprintf("%s[]", t.Elem)
	}
	return fmt.Sprintf("%s[%s]", t.Elem, t.Size)
}

// VectorType is a fixed-size SIMD-like vector of Elem.
type VectorType struct {
	Elem Type
	Size uint
}

func (t *VectorType) typeTag()     {}
func (t *VectorType) String() string { return fmt.Sprintf("%s vec[%d]", t.Elem, t.Size) }

// StructField names and types one field of a StructType.
type StructField struct {
	Name string
	Type Type
}

// StructType is a named aggregate of fields in declaration order.
type StructType struct {
	Name   string
	Fields []StructField
}

func (t *StructType) typeTag()     {}
func (t *StructType) String() string { return fmt.Sprintf("struct %s", t.Name) }

// FieldType returns the type of the named field, or nil if no such field
// exists.
func (t *StructType) FieldType(name string) Type {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

// FieldIndex returns the position of the named field, or -1 if absent.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// BoolType is the boolean type.
type BoolType struct{}

func (t *BoolType) typeTag()     {}
func (t *BoolType) String() string { return "bool" }

// IsUnsignedBV reports whether ty is an unsigned bit-vector type.
func IsUnsignedBV(ty Type) bool {
	bv, ok := ty.(*BitVectorType)
	return ok && !bv.Signed
}

// IsSignedBV reports whether ty is a signed bit-vector type.
func IsSignedBV(ty Type) bool {
	bv, ok := ty.(*BitVectorType)
	return ok && bv.Signed
}

// IsBitVector reports whether ty is any bit-vector type.
func IsBitVector(ty Type) bool {
	_, ok := ty.(*BitVectorType)
	return ok
}

// IsFloat reports whether ty is a floating point type.
func IsFloat(ty Type) bool {
	_, ok := ty.(*FloatType)
	return ok
}

// IsPointer reports whether ty is a pointer type.
func IsPointer(ty Type) bool {
	_, ok := ty.(*PointerType)
	return ok
}

// BitWidth returns the bit width of a bit-vector, float, boolean, or pointer
// type (pointer width is a conventional constant, see PointerWidth). Panics
// for types with no intrinsic scalar width (struct, array, vector).
func BitWidth(ty Type) uint {
	switch t := ty.(type) {
	case *BitVectorType:
		return t.Width
	case *FloatType:
		return t.Width
	case *BoolType:
		return 1
	case *PointerType:
		return PointerWidth
	default:
		panic(fmt.Sprintf("BitWidth: type %T has no scalar width", ty))
	}
}

// PointerWidth is the conventional pointer width used when no ABI-specific
// size oracle overrides it.
const PointerWidth = 64
