package gocheck

import (
	"fmt"
	"strings"
)

// Kind tags the concrete shape of an Expr, standing in for the kind-tag
// field of the consumed expression algebra described in spec.md §3. Pattern
// matching on Kind (or on the concrete Go type, which amounts to the same
// thing) supersedes the source system's downcasts.
type Kind int

const (
	KindConstant Kind = iota
	KindSymbol
	KindMember
	KindIndex
	KindDereference
	KindAddressOf
	KindTypecast
	KindBinaryArith // + - * / mod shl ashr lshr
	KindUnaryMinus
	KindRelational // < <= > >=
	KindEqual      // == !=
	KindAnd
	KindOr
	KindNot
	KindIf
	KindForall
	KindExists
	KindByteExtractLE
	KindStructLiteral
	KindArrayLiteral
	KindArrayList
	KindOverflowPredicate
	KindROk
	KindWOk
	KindLambda
	KindArrayComprehension
	KindNondet
	KindStringConstant
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindSymbol:
		return "symbol"
	case KindMember:
		return "member"
	case KindIndex:
		return "index"
	case KindDereference:
		return "dereference"
	case KindAddressOf:
		return "address_of"
	case KindTypecast:
		return "typecast"
	case KindBinaryArith:
		return "binary_arith"
	case KindUnaryMinus:
		return "unary_minus"
	case KindRelational:
		return "relational"
	case KindEqual:
		return "equal"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindNot:
		return "not"
	case KindIf:
		return "if"
	case KindForall:
		return "forall"
	case KindExists:
		return "exists"
	case KindByteExtractLE:
		return "byte_extract_little_endian"
	case KindStructLiteral:
		return "struct"
	case KindArrayLiteral:
		return "array"
	case KindArrayList:
		return "array_list"
	case KindOverflowPredicate:
		return "overflow"
	case KindROk:
		return "r_ok"
	case KindWOk:
		return "w_ok"
	case KindLambda:
		return "lambda"
	case KindArrayComprehension:
		return "array_comprehension"
	case KindNondet:
		return "nondet"
	case KindStringConstant:
		return "string_constant"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ArithOp distinguishes the binary arithmetic operators that share
// KindBinaryArith.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpAShr
	OpLShr
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "mod"
	case OpShl:
		return "shl"
	case OpAShr:
		return "ashr"
	case OpLShr:
		return "lshr"
	default:
		return fmt.Sprintf("ArithOp(%d)", int(op))
	}
}

// RelOp distinguishes the relational operators that share KindRelational.
type RelOp int

const (
	OpLt RelOp = iota
	OpLe
	OpGt
	OpGe
)

func (op RelOp) String() string {
	switch op {
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return fmt.Sprintf("RelOp(%d)", int(op))
	}
}

// SourceLocation identifies where in the original program an expression or
// instruction came from. ByteCodeIndex is only meaningful in
// managed-reference mode.
type SourceLocation struct {
	File          string
	Line          int
	Column        int
	Function      string
	ByteCodeIndex int
}

// Expr is the tagged-union expression tree consumed and produced by this
// module. One concrete struct implements it per Kind; all of them embed
// Base for the shared accessors.
type Expr interface {
	Kind() Kind
	Type() Type
	Operands() []Expr
	SourceLocation() *SourceLocation
	Attr(key string) (string, bool)
	WithAttr(key, value string) Expr
	String() string
}

// Base carries the fields every Expr implementation shares: type, optional
// source location, and optional key/value attributes (e.g.
// bounds_check=false suppression pragmas attached directly to an
// expression rather than an instruction).
type Base struct {
	Ty    Type
	Loc   *SourceLocation
	Attrs map[string]string
}

func (b *Base) Type() Type                    { return b.Ty }
func (b *Base) SourceLocation() *SourceLocation { return b.Loc }

func (b *Base) Attr(key string) (string, bool) {
	if b.Attrs == nil {
		return "", false
	}
	v, ok := b.Attrs[key]
	return v, ok
}

func cloneAttrs(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Constant is a literal value of a bit-vector, float, or boolean type. The
// bit pattern is held as a raw uint64; interpretation (signed/unsigned/
// float) is determined by Ty.
type Constant struct {
	Base
	Value uint64
}

func (e *Constant) Kind() Kind      { return KindConstant }
func (e *Constant) Operands() []Expr { return nil }
func (e *Constant) String() string  { return fmt.Sprintf("(const %d %s)", e.Value, e.Ty) }

func (e *Constant) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewConstant returns a new Constant of the given type holding value's bit
// pattern (truncated to the type's width, if the type is a bit-vector).
func NewConstant(value uint64, ty Type) *Constant {
	if bv, ok := ty.(*BitVectorType); ok && bv.Width < 64 {
		value &= (uint64(1) << bv.Width) - 1
	}
	return &Constant{Base: Base{Ty: ty}, Value: value}
}

// BoolConstant returns a boolean-typed constant.
func BoolConstant(v bool) *Constant {
	if v {
		return NewConstant(1, &BoolType{})
	}
	return NewConstant(0, &BoolType{})
}

// IsTrue reports whether e is the literal constant true.
func IsTrue(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Value != 0 && isBoolOrBV1(c.Ty)
}

// IsFalse reports whether e is the literal constant false.
func IsFalse(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Value == 0 && isBoolOrBV1(c.Ty)
}

func isBoolOrBV1(ty Type) bool {
	if _, ok := ty.(*BoolType); ok {
		return true
	}
	bv, ok := ty.(*BitVectorType)
	return ok && bv.Width == 1
}

// IsConstant reports whether e is a Constant node.
func IsConstant(e Expr) bool {
	_, ok := e.(*Constant)
	return ok
}

// Symbol refers to a named program variable.
type Symbol struct {
	Base
	Identifier string
}

func (e *Symbol) Kind() Kind      { return KindSymbol }
func (e *Symbol) Operands() []Expr { return nil }
func (e *Symbol) String() string  { return e.Identifier }

func (e *Symbol) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewSymbol returns a new Symbol expression.
func NewSymbol(identifier string, ty Type) *Symbol {
	return &Symbol{Base: Base{Ty: ty}, Identifier: identifier}
}

// Member accesses field Field of struct-valued Struct.
type Member struct {
	Base
	Struct Expr
	Field  string
}

func (e *Member) Kind() Kind      { return KindMember }
func (e *Member) Operands() []Expr { return []Expr{e.Struct} }
func (e *Member) String() string  { return fmt.Sprintf("%s.%s", e.Struct, e.Field) }

func (e *Member) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// Index accesses element Index of array-or-vector-valued Array.
type Index struct {
	Base
	Array Expr
	Idx   Expr
}

func (e *Index) Kind() Kind      { return KindIndex }
func (e *Index) Operands() []Expr { return []Expr{e.Array, e.Idx} }
func (e *Index) String() string  { return fmt.Sprintf("%s[%s]", e.Array, e.Idx) }

func (e *Index) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// Dereference reads the value pointed to by Pointer.
type Dereference struct {
	Base
	Pointer Expr
}

func (e *Dereference) Kind() Kind      { return KindDereference }
func (e *Dereference) Operands() []Expr { return []Expr{e.Pointer} }
func (e *Dereference) String() string  { return fmt.Sprintf("*%s", e.Pointer) }

func (e *Dereference) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// AddressOf computes the address of Operand.
type AddressOf struct {
	Base
	Operand Expr
}

func (e *AddressOf) Kind() Kind      { return KindAddressOf }
func (e *AddressOf) Operands() []Expr { return []Expr{e.Operand} }
func (e *AddressOf) String() string  { return fmt.Sprintf("&%s", e.Operand) }

func (e *AddressOf) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// Typecast converts Operand to Ty.
type Typecast struct {
	Base
	Operand Expr
}

func (e *Typecast) Kind() Kind      { return KindTypecast }
func (e *Typecast) Operands() []Expr { return []Expr{e.Operand} }
func (e *Typecast) String() string  { return fmt.Sprintf("(%s)%s", e.Ty, e.Operand) }

func (e *Typecast) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// BinaryArith is a binary arithmetic operation (+, -, *, /, mod, or a
// shift). Shifts are modeled here too since spec.md treats their obligation
// generation as closely related to overflow/conversion.
type BinaryArith struct {
	Base
	Op   ArithOp
	LHS  Expr
	RHS  Expr
}

func (e *BinaryArith) Kind() Kind      { return KindBinaryArith }
func (e *BinaryArith) Operands() []Expr { return []Expr{e.LHS, e.RHS} }
func (e *BinaryArith) String() string {
	return fmt.Sprintf("(%s %s %s)", e.LHS, e.Op, e.RHS)
}

func (e *BinaryArith) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewBinaryArith constructs a BinaryArith expression. The result type is
// assumed equal to the LHS's type unless op is relational (handled by
// NewRelational) or the caller overrides Ty afterward.
func NewBinaryArith(op ArithOp, lhs, rhs Expr) *BinaryArith {
	return &BinaryArith{Base: Base{Ty: lhs.Type()}, Op: op, LHS: lhs, RHS: rhs}
}

// UnaryMinus negates Operand.
type UnaryMinus struct {
	Base
	Operand Expr
}

func (e *UnaryMinus) Kind() Kind      { return KindUnaryMinus }
func (e *UnaryMinus) Operands() []Expr { return []Expr{e.Operand} }
func (e *UnaryMinus) String() string  { return fmt.Sprintf("-%s", e.Operand) }

func (e *UnaryMinus) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// Relational is a boolean-typed ordering comparison (<, <=, >, >=), valid
// over bit-vectors, floats, and pointers (same-object comparisons).
type Relational struct {
	Base
	Op  RelOp
	LHS Expr
	RHS Expr
}

func (e *Relational) Kind() Kind      { return KindRelational }
func (e *Relational) Operands() []Expr { return []Expr{e.LHS, e.RHS} }
func (e *Relational) String() string {
	return fmt.Sprintf("(%s %s %s)", e.LHS, e.Op, e.RHS)
}

func (e *Relational) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewRelational constructs a boolean-typed Relational expression.
func NewRelational(op RelOp, lhs, rhs Expr) *Relational {
	return &Relational{Base: Base{Ty: &BoolType{}}, Op: op, LHS: lhs, RHS: rhs}
}

// Equal is boolean equality or inequality (Negated=true for !=).
type Equal struct {
	Base
	LHS     Expr
	RHS     Expr
	Negated bool
}

func (e *Equal) Kind() Kind      { return KindEqual }
func (e *Equal) Operands() []Expr { return []Expr{e.LHS, e.RHS} }
func (e *Equal) String() string {
	if e.Negated {
		return fmt.Sprintf("(%s != %s)", e.LHS, e.RHS)
	}
	return fmt.Sprintf("(%s == %s)", e.LHS, e.RHS)
}

func (e *Equal) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewEqual constructs a boolean-typed Equal expression.
func NewEqual(lhs, rhs Expr, negated bool) *Equal {
	return &Equal{Base: Base{Ty: &BoolType{}}, LHS: lhs, RHS: rhs, Negated: negated}
}

// And is an n-ary boolean conjunction, visited left to right.
type And struct {
	Base
	Operands_ []Expr
}

func (e *And) Kind() Kind      { return KindAnd }
func (e *And) Operands() []Expr { return e.Operands_ }
func (e *And) String() string  { return joinBoolOp("and", e.Operands_) }

func (e *And) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewAnd constructs a boolean-typed And expression over operands.
func NewAnd(operands ...Expr) *And {
	return &And{Base: Base{Ty: &BoolType{}}, Operands_: operands}
}

// Or is an n-ary boolean disjunction, visited left to right.
type Or struct {
	Base
	Operands_ []Expr
}

func (e *Or) Kind() Kind      { return KindOr }
func (e *Or) Operands() []Expr { return e.Operands_ }
func (e *Or) String() string  { return joinBoolOp("or", e.Operands_) }

func (e *Or) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewOr constructs a boolean-typed Or expression over operands.
func NewOr(operands ...Expr) *Or {
	return &Or{Base: Base{Ty: &BoolType{}}, Operands_: operands}
}

func joinBoolOp(op string, operands []Expr) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(op)
	for _, o := range operands {
		sb.WriteByte(' ')
		sb.WriteString(o.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Not is boolean negation.
type Not struct {
	Base
	Operand Expr
}

func (e *Not) Kind() Kind      { return KindNot }
func (e *Not) Operands() []Expr { return []Expr{e.Operand} }
func (e *Not) String() string  { return fmt.Sprintf("!%s", e.Operand) }

func (e *Not) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewNot constructs a boolean-typed Not expression.
func NewNot(operand Expr) *Not {
	return &Not{Base: Base{Ty: &BoolType{}}, Operand: operand}
}

// If is the ternary conditional expression if(Cond, Then, Else).
type If struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

func (e *If) Kind() Kind      { return KindIf }
func (e *If) Operands() []Expr { return []Expr{e.Cond, e.Then, e.Else} }
func (e *If) String() string {
	return fmt.Sprintf("(if %s %s %s)", e.Cond, e.Then, e.Else)
}

func (e *If) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// Quantifier is a forall or exists expression over Bound, with Body as the
// quantified boolean expression. Quantifiers are never descended by the
// walker (spec.md §4.1).
type Quantifier struct {
	Base
	Exists bool
	Bound  *Symbol
	Body   Expr
}

func (e *Quantifier) Kind() Kind {
	if e.Exists {
		return KindExists
	}
	return KindForall
}
func (e *Quantifier) Operands() []Expr { return []Expr{e.Body} }
func (e *Quantifier) String() string {
	q := "forall"
	if e.Exists {
		q = "exists"
	}
	return fmt.Sprintf("(%s %s . %s)", q, e.Bound, e.Body)
}

func (e *Quantifier) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// ByteExtractLE reads Width bits little-endian out of Source at byte Offset.
type ByteExtractLE struct {
	Base
	Source Expr
	Offset Expr
}

func (e *ByteExtractLE) Kind() Kind      { return KindByteExtractLE }
func (e *ByteExtractLE) Operands() []Expr { return []Expr{e.Source, e.Offset} }
func (e *ByteExtractLE) String() string {
	return fmt.Sprintf("byte_extract_le(%s, %s)", e.Source, e.Offset)
}

func (e *ByteExtractLE) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// StructLiteral builds a struct value from Fields, in declaration order.
type StructLiteral struct {
	Base
	Fields []Expr
}

func (e *StructLiteral) Kind() Kind      { return KindStructLiteral }
func (e *StructLiteral) Operands() []Expr { return e.Fields }
func (e *StructLiteral) String() string  { return joinBoolOp("struct", e.Fields) }

func (e *StructLiteral) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// ArrayLiteral builds an array value from Elements, in index order.
type ArrayLiteral struct {
	Base
	Elements []Expr
}

func (e *ArrayLiteral) Kind() Kind      { return KindArrayLiteral }
func (e *ArrayLiteral) Operands() []Expr { return e.Elements }
func (e *ArrayLiteral) String() string  { return joinBoolOp("array", e.Elements) }

func (e *ArrayLiteral) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// ArrayList builds an array value from alternating index/value pairs
// (sparse update-list form).
type ArrayList struct {
	Base
	Pairs []Expr
}

func (e *ArrayList) Kind() Kind      { return KindArrayList }
func (e *ArrayList) Operands() []Expr { return e.Pairs }
func (e *ArrayList) String() string  { return joinBoolOp("array_list", e.Pairs) }

func (e *ArrayList) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// OverflowPredicate is a boolean expression true iff the named Op applied to
// LHS, RHS (RHS nil for unary operators) overflows the operands' common
// type. When NaN is set, it instead asks whether the floating-point result
// is NaN rather than whether it overflowed; the two questions share a node
// kind because both are resolved the same way, by bit-level reasoning about
// the operands' encoding, but they are never the same predicate and so are
// never cache-confusable (the NaN flag is part of the pretty-printed form).
type OverflowPredicate struct {
	Base
	Op  ArithOp
	LHS Expr
	RHS Expr
	NaN bool
}

func (e *OverflowPredicate) Kind() Kind { return KindOverflowPredicate }
func (e *OverflowPredicate) Operands() []Expr {
	if e.RHS == nil {
		return []Expr{e.LHS}
	}
	return []Expr{e.LHS, e.RHS}
}
func (e *OverflowPredicate) String() string {
	tag := "overflow"
	if e.NaN {
		tag = "nan"
	}
	if e.RHS == nil {
		return fmt.Sprintf("%s(%s %s)", tag, e.Op, e.LHS)
	}
	return fmt.Sprintf("%s(%s %s %s)", tag, e.LHS, e.Op, e.RHS)
}

func (e *OverflowPredicate) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewOverflowPredicate constructs a boolean-typed OverflowPredicate.
func NewOverflowPredicate(op ArithOp, lhs, rhs Expr) *OverflowPredicate {
	return &OverflowPredicate{Base: Base{Ty: &BoolType{}}, Op: op, LHS: lhs, RHS: rhs}
}

// ROk is the "is it safe to read Size bytes from Pointer" predicate; it is
// expanded into pointer-validity obligations by the walker before a builder
// ever sees it directly (spec.md §4.2).
type ROk struct {
	Base
	Pointer Expr
	Size    Expr
}

func (e *ROk) Kind() Kind      { return KindROk }
func (e *ROk) Operands() []Expr { return []Expr{e.Pointer, e.Size} }
func (e *ROk) String() string  { return fmt.Sprintf("r_ok(%s, %s)", e.Pointer, e.Size) }

func (e *ROk) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// WOk is the "is it safe to write Size bytes to Pointer" predicate; see ROk.
type WOk struct {
	Base
	Pointer Expr
	Size    Expr
}

func (e *WOk) Kind() Kind      { return KindWOk }
func (e *WOk) Operands() []Expr { return []Expr{e.Pointer, e.Size} }
func (e *WOk) String() string  { return fmt.Sprintf("w_ok(%s, %s)", e.Pointer, e.Size) }

func (e *WOk) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// Lambda is an array-comprehension-producing function value: Body, in terms
// of Bound, gives the value at each index.
type Lambda struct {
	Base
	Bound *Symbol
	Body  Expr
}

func (e *Lambda) Kind() Kind      { return KindLambda }
func (e *Lambda) Operands() []Expr { return []Expr{e.Body} }
func (e *Lambda) String() string  { return fmt.Sprintf("(lambda %s . %s)", e.Bound, e.Body) }

func (e *Lambda) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// ArrayComprehension materializes a Lambda over a concrete Size.
type ArrayComprehension struct {
	Base
	Bound *Symbol
	Body  Expr
	Size  Expr
}

func (e *ArrayComprehension) Kind() Kind      { return KindArrayComprehension }
func (e *ArrayComprehension) Operands() []Expr { return []Expr{e.Body, e.Size} }
func (e *ArrayComprehension) String() string {
	return fmt.Sprintf("(array_comprehension %s . %s; %s)", e.Bound, e.Body, e.Size)
}

func (e *ArrayComprehension) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// Nondet denotes an unconstrained value of its type.
type Nondet struct {
	Base
}

func (e *Nondet) Kind() Kind      { return KindNondet }
func (e *Nondet) Operands() []Expr { return nil }
func (e *Nondet) String() string  { return fmt.Sprintf("nondet(%s)", e.Ty) }

func (e *Nondet) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// NewNondet returns a new Nondet expression of the given type.
func NewNondet(ty Type) *Nondet {
	return &Nondet{Base: Base{Ty: ty}}
}

// StringConstant is a literal string value.
type StringConstant struct {
	Base
	Value string
}

func (e *StringConstant) Kind() Kind      { return KindStringConstant }
func (e *StringConstant) Operands() []Expr { return nil }
func (e *StringConstant) String() string  { return fmt.Sprintf("%q", e.Value) }

func (e *StringConstant) WithAttr(key, value string) Expr {
	n := *e
	n.Attrs = cloneAttrs(e.Attrs)
	n.Attrs[key] = value
	return &n
}

// skipTypecast strips any number of outer Typecast wrappers from e.
func skipTypecast(e Expr) Expr {
	for {
		tc, ok := e.(*Typecast)
		if !ok {
			return e
		}
		e = tc.Operand
	}
}
