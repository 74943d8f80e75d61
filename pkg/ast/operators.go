package ast

// Category tags an operation node with the context it was parsed in.
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryMath      Category = "math"
	CategoryCondition Category = "condition"
	CategoryAll       Category = "all"
)

type Operator string

const (
	// General
	OpNon                  Operator = "NON"
	OpConcat               Operator = "CONCAT"
	OpLen                  Operator = "LEN"
	OpDeepCopy             Operator = "DEEP_COPY"
	OpNullCoalescing       Operator = "NULL_COALESCING"
	OpElvis                Operator = "ELVIS"
	OpInlineIf             Operator = "INLINE_IF"
	OpGetItem              Operator = "GET_ITEM"
	OpOptionalGetItem      Operator = "OPTIONAL_GET_ITEM"
	OpSlice                Operator = "SLICE"
	OpMemberAccess         Operator = "MEMBER_ACCESS"
	OpOptionalMemberAccess Operator = "OPTIONAL_MEMBER_ACCESS"
	OpMemberAccessPointer  Operator = "MEMBER_ACCESS_POINTER"
	OpComparator           Operator = "COMPARATOR"
	OpReference            Operator = "REFERENCE"
	OpDereference          Operator = "DEREFERENCE"

	// Math
	OpPos        Operator = "POS"
	OpInv        Operator = "INV"
	OpBitwiseNot Operator = "BITWISE_NOT"
	OpInc        Operator = "INC"
	OpDec        Operator = "DEC"
	OpPow        Operator = "POW"
	OpMul        Operator = "MUL"
	OpDiv        Operator = "DIV"
	OpTruncDiv   Operator = "TRUNC_DIV"
	OpFloorDiv   Operator = "FLOOR_DIV"
	OpCeilDiv    Operator = "CEIL_DIV"
	OpMod        Operator = "MOD"
	OpAdd        Operator = "ADD"
	OpSub        Operator = "SUB"
	OpLShift     Operator = "LSHIFT"
	OpRShift     Operator = "RSHIFT"
	OpRZShift    Operator = "RZSHIFT"
	OpBitwiseAnd Operator = "BITWISE_AND"
	OpBitwiseXor Operator = "BITWISE_XOR"
	OpBitwiseOr  Operator = "BITWISE_OR"

	// Condition
	OpNot                 Operator = "NOT"
	OpAnd                 Operator = "AND"
	OpOr                  Operator = "OR"
	OpInstanceOf          Operator = "INSTANCE_OF"
	OpEquals              Operator = "EQUALS"
	OpNotEquals           Operator = "NOT_EQUALS"
	OpStrictEquals        Operator = "STRICT_EQUALS"
	OpStrictNotEquals     Operator = "STRICT_NOT_EQUALS"
	OpLessThan            Operator = "LESS_THAN"
	OpGreaterThan         Operator = "GREATER_THAN"
	OpLessThanOrEquals    Operator = "LESS_THAN_OR_EQUALS"
	OpGreaterThanOrEquals Operator = "GREATER_THAN_OR_EQUALS"
)

// OperatorInfo describes the static properties of an operator.
type OperatorInfo struct {
	Symbol   string
	Arity    int
	Category Category
}

var operatorInfo = map[Operator]OperatorInfo{
	OpNon:                  {"", 1, CategoryAll},
	OpConcat:               {"|||", 2, CategoryGeneral},
	OpLen:                  {"@", 1, CategoryGeneral},
	OpDeepCopy:             {"^", 1, CategoryGeneral},
	OpNullCoalescing:       {"??", 2, CategoryGeneral},
	OpElvis:                {"?:", 2, CategoryGeneral},
	OpInlineIf:             {"?...:", 3, CategoryGeneral},
	OpGetItem:              {"[...]", 2, CategoryGeneral},
	OpOptionalGetItem:      {"?.[...]", 2, CategoryGeneral},
	OpSlice:                {"[...:...]", 3, CategoryGeneral},
	OpMemberAccess:         {"::", 2, CategoryGeneral},
	OpOptionalMemberAccess: {"?::", 2, CategoryGeneral},
	OpMemberAccessPointer:  {"->", 2, CategoryGeneral},
	OpComparator:           {"<=>", 2, CategoryGeneral},
	OpReference:            {"$[...]", 1, CategoryGeneral},
	OpDereference:          {"*", 1, CategoryGeneral},

	OpPos:        {"+", 1, CategoryMath},
	OpInv:        {"-", 1, CategoryMath},
	OpBitwiseNot: {"~", 1, CategoryMath},
	OpInc:        {"+|", 1, CategoryMath},
	OpDec:        {"-|", 1, CategoryMath},
	OpPow:        {"**", 2, CategoryMath},
	OpMul:        {"*", 2, CategoryMath},
	OpDiv:        {"/", 2, CategoryMath},
	OpTruncDiv:   {"~/", 2, CategoryMath},
	OpFloorDiv:   {"//", 2, CategoryMath},
	OpCeilDiv:    {"^/", 2, CategoryMath},
	OpMod:        {"%", 2, CategoryMath},
	OpAdd:        {"+", 2, CategoryMath},
	OpSub:        {"-", 2, CategoryMath},
	OpLShift:     {"<<", 2, CategoryMath},
	OpRShift:     {">>", 2, CategoryMath},
	OpRZShift:    {">>>", 2, CategoryMath},
	OpBitwiseAnd: {"&", 2, CategoryMath},
	OpBitwiseXor: {"^", 2, CategoryMath},
	OpBitwiseOr:  {"|", 2, CategoryMath},

	OpNot:                 {"!", 1, CategoryCondition},
	OpAnd:                 {"&&", 2, CategoryCondition},
	OpOr:                  {"||", 2, CategoryCondition},
	OpInstanceOf:          {"~~", 2, CategoryCondition},
	OpEquals:              {"==", 2, CategoryCondition},
	OpNotEquals:           {"!=", 2, CategoryCondition},
	OpStrictEquals:        {"===", 2, CategoryCondition},
	OpStrictNotEquals:     {"!==", 2, CategoryCondition},
	OpLessThan:            {"<", 2, CategoryCondition},
	OpGreaterThan:         {">", 2, CategoryCondition},
	OpLessThanOrEquals:    {"<=", 2, CategoryCondition},
	OpGreaterThanOrEquals: {">=", 2, CategoryCondition},
}

// Info returns the operator's static description and whether it is known.
func (op Operator) Info() (OperatorInfo, bool) {
	info, ok := operatorInfo[op]
	return info, ok
}

func (op Operator) Arity() int {
	return operatorInfo[op].Arity
}

// AllowedIn reports whether op may appear in an operation node of category c.
func (op Operator) AllowedIn(c Category) bool {
	info, ok := operatorInfo[op]
	if !ok {
		return false
	}
	return c == CategoryAll || info.Category == CategoryAll || info.Category == c
}

// Operators returns every known operator.
func Operators() []Operator {
	out := make([]Operator, 0, len(operatorInfo))
	for op := range operatorInfo {
		out = append(out, op)
	}
	return out
}
