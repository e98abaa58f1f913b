package types

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint8

const (
	FamilyNone FamilyMask = 0
	FamilyInt  FamilyMask = 1 << iota
	FamilyChar
	FamilyArray
)

// FamilyBasic covers the types that fit in a single machine word.
const FamilyBasic = FamilyInt | FamilyChar

// Family maps a descriptor to its family bit.
func (t *Type) Family() FamilyMask {
	if t == nil {
		return FamilyNone
	}
	switch t.Kind {
	case KindInt:
		return FamilyInt
	case KindChar:
		return FamilyChar
	case KindArray:
		return FamilyArray
	default:
		return FamilyNone
	}
}

// Op enumerates KPL binary operators.
type Op uint8

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opTokens = [...]string{
	OpInvalid: "?",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpEq:      "=",
	OpNe:      "!=",
	OpLt:      "<",
	OpLe:      "<=",
	OpGt:      ">",
	OpGe:      ">=",
}

func (op Op) String() string {
	if int(op) < len(opTokens) {
		return opTokens[op]
	}
	return "?"
}

// ParseOp converts operator text to Op.
func ParseOp(s string) (Op, bool) {
	for i, tok := range opTokens {
		if i != int(OpInvalid) && tok == s {
			return Op(i), true
		}
	}
	return OpInvalid, false
}

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	BinaryResultInt
	BinaryResultCondition // comparisons only appear in conditions
)

// BinarySpec lists operand families and expected result for an operation.
type BinarySpec struct {
	Operands FamilyMask
	Result   BinaryResult
}

// IsComparison reports whether op produces a condition.
func (op Op) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// Spec returns operand constraints for op.
func (op Op) Spec() BinarySpec {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return BinarySpec{Operands: FamilyInt, Result: BinaryResultInt}
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return BinarySpec{Operands: FamilyBasic, Result: BinaryResultCondition}
	default:
		return BinarySpec{}
	}
}

// CheckBinary validates operands of op. Arithmetic yields a fresh integer
// descriptor; comparisons yield nil with ok set. Both operands must be of
// the same type.
func CheckBinary(op Op, left, right *Type) (*Type, bool) {
	spec := op.Spec()
	if spec.Result == BinaryResultUnknown {
		return nil, false
	}
	if left.Family()&spec.Operands == 0 || right.Family()&spec.Operands == 0 {
		return nil, false
	}
	if !Equal(left, right) {
		return nil, false
	}
	if spec.Result == BinaryResultInt {
		return MakeInt(), true
	}
	return nil, true
}
