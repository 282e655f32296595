package gocheck

import "encoding/json"

// modelDoc is the on-disk JSON shape the cmd/gocheck-instrument front end
// reads and writes. It is deliberately much flatter than Model/Function/
// Instruction/Expr: every expression is a small tagged object, and branch
// targets are instruction indices within their function rather than
// pointers, since JSON has no pointer identity to preserve — DecodeModel
// resolves indices back into the pointer-based representation runFunction
// actually operates on, and EncodeModel does the reverse.
type modelDoc struct {
	EntryPoint string        `json:"entry_point"`
	Functions  []functionDoc `json:"functions"`
}

type functionDoc struct {
	Name   string           `json:"name"`
	Instrs []instructionDoc `json:"instructions"`
}

type instructionDoc struct {
	Kind          string       `json:"kind"`
	Labels        []string     `json:"labels,omitempty"`
	LHS           *exprDoc     `json:"lhs,omitempty"`
	RHS           *exprDoc     `json:"rhs,omitempty"`
	Condition     *exprDoc     `json:"condition,omitempty"`
	Target        int          `json:"target,omitempty"` // index into the same function's Instrs, -1 if none
	ReturnValue   *exprDoc     `json:"return_value,omitempty"`
	Comment       string       `json:"comment,omitempty"`
	PropertyClass string       `json:"property_class,omitempty"`
	Loc           *SourceLocation `json:"loc,omitempty"`
}

// exprDoc is a tagged, recursively-nested JSON expression; only the fields
// relevant to Kind are populated. This mirrors the minimal subset of the
// full Expr algebra a hand-written test fixture or a small example model is
// likely to exercise; it is not a complete encoding of every Expr kind,
// since the CLI's job is only to exercise the library end-to-end, not to be
// a general-purpose interchange format for it (spec.md's front end remains
// out of scope).
type exprDoc struct {
	Kind    string    `json:"kind"`
	Value   uint64    `json:"value,omitempty"`
	Type    typeDoc   `json:"type"`
	Ident   string    `json:"ident,omitempty"`
	Field   string    `json:"field,omitempty"`
	Op      string    `json:"op,omitempty"`
	Operand *exprDoc  `json:"operand,omitempty"`
	LHS     *exprDoc  `json:"lhs,omitempty"`
	RHS     *exprDoc  `json:"rhs,omitempty"`
}

type typeDoc struct {
	Kind   string  `json:"kind"`
	Width  uint    `json:"width,omitempty"`
	Signed bool    `json:"signed,omitempty"`
	Elem   *typeDoc `json:"elem,omitempty"`
}

func decodeType(d typeDoc) Type {
	switch d.Kind {
	case "bv":
		return &BitVectorType{Width: d.Width, Signed: d.Signed}
	case "float":
		return &FloatType{Width: d.Width}
	case "bool":
		return &BoolType{}
	case "pointer":
		elem := Type(&BoolType{})
		if d.Elem != nil {
			elem = decodeType(*d.Elem)
		}
		return &PointerType{Elem: elem}
	default:
		return &BoolType{}
	}
}

func decodeExpr(d *exprDoc) Expr {
	if d == nil {
		return nil
	}
	ty := decodeType(d.Type)
	switch d.Kind {
	case "constant":
		return NewConstant(d.Value, ty)
	case "symbol":
		return NewSymbol(d.Ident, ty)
	case "member":
		return &Member{Base: Base{Ty: ty}, Struct: decodeExpr(d.LHS), Field: d.Field}
	case "dereference":
		return &Dereference{Base: Base{Ty: ty}, Pointer: decodeExpr(d.Operand)}
	case "address_of":
		return &AddressOf{Base: Base{Ty: ty}, Operand: decodeExpr(d.Operand)}
	case "typecast":
		return &Typecast{Base: Base{Ty: ty}, Operand: decodeExpr(d.Operand)}
	case "not":
		return NewNot(decodeExpr(d.Operand))
	case "binary_arith":
		return &BinaryArith{Base: Base{Ty: ty}, Op: decodeArithOp(d.Op), LHS: decodeExpr(d.LHS), RHS: decodeExpr(d.RHS)}
	case "relational":
		return NewRelational(decodeRelOp(d.Op), decodeExpr(d.LHS), decodeExpr(d.RHS))
	case "equal":
		return NewEqual(decodeExpr(d.LHS), decodeExpr(d.RHS), d.Op == "!=")
	default:
		return NewNondet(ty)
	}
}

func decodeArithOp(s string) ArithOp {
	switch s {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "mod":
		return OpMod
	case "shl":
		return OpShl
	case "ashr":
		return OpAShr
	case "lshr":
		return OpLShr
	default:
		return OpAdd
	}
}

func decodeRelOp(s string) RelOp {
	switch s {
	case "<":
		return OpLt
	case "<=":
		return OpLe
	case ">":
		return OpGt
	case ">=":
		return OpGe
	default:
		return OpLt
	}
}

// DecodeModel parses a modelDoc-shaped JSON document into a Model.
func DecodeModel(data []byte) (*Model, error) {
	var doc modelDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	model := &Model{EntryPoint: doc.EntryPoint}
	for _, fd := range doc.Functions {
		fn := &Function{Name: fd.Name}
		for _, id := range fd.Instrs {
			fn.Instrs = append(fn.Instrs, &Instruction{
				Kind:          decodeInstrKind(id.Kind),
				Labels:        id.Labels,
				LHS:           decodeExpr(id.LHS),
				RHS:           decodeExpr(id.RHS),
				Condition:     decodeExpr(id.Condition),
				ReturnValue:   decodeExpr(id.ReturnValue),
				Comment:       id.Comment,
				PropertyClass: id.PropertyClass,
				Loc:           id.Loc,
			})
		}
		for i, id := range fd.Instrs {
			if id.Kind == "goto" && id.Target >= 0 && id.Target < len(fn.Instrs) {
				fn.Instrs[i].Target = fn.Instrs[id.Target]
			}
		}
		model.Functions = append(model.Functions, fn)
	}
	return model, nil
}

func decodeInstrKind(s string) InstructionKind {
	switch s {
	case "assign":
		return InstrAssign
	case "call":
		return InstrCall
	case "return":
		return InstrReturn
	case "goto":
		return InstrGoto
	case "assume":
		return InstrAssume
	case "assert":
		return InstrAssert
	case "dead":
		return InstrDead
	case "end_function":
		return InstrEndFunction
	case "throw":
		return InstrThrow
	case "label":
		return InstrLabel
	case "skip":
		return InstrSkip
	default:
		return InstrOther
	}
}

// EncodeModel serializes model back into the same JSON shape DecodeModel
// reads, now including the generated assertions Check inserted.
func EncodeModel(model *Model) ([]byte, error) {
	doc := modelDoc{EntryPoint: model.EntryPoint}
	for _, fn := range model.Functions {
		fd := functionDoc{Name: fn.Name}
		index := make(map[*Instruction]int, len(fn.Instrs))
		for i, instr := range fn.Instrs {
			index[instr] = i
		}
		for _, instr := range fn.Instrs {
			target := -1
			if instr.Target != nil {
				target = index[instr.Target]
			}
			fd.Instrs = append(fd.Instrs, instructionDoc{
				Kind:          instr.Kind.String(),
				Labels:        instr.Labels,
				Condition:     encodeExpr(instr.Condition),
				ReturnValue:   encodeExpr(instr.ReturnValue),
				Target:        target,
				Comment:       instr.Comment,
				PropertyClass: instr.PropertyClass,
				Loc:           instr.Loc,
			})
		}
		doc.Functions = append(doc.Functions, fd)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeExpr(e Expr) *exprDoc {
	if e == nil {
		return nil
	}
	return &exprDoc{Kind: e.Kind().String(), Type: encodeType(e.Type())}
}

func encodeType(ty Type) typeDoc {
	switch t := ty.(type) {
	case *BitVectorType:
		return typeDoc{Kind: "bv", Width: t.Width, Signed: t.Signed}
	case *FloatType:
		return typeDoc{Kind: "float", Width: t.Width}
	case *PointerType:
		elem := encodeType(t.Elem)
		return typeDoc{Kind: "pointer", Elem: &elem}
	default:
		return typeDoc{Kind: "bool"}
	}
}
