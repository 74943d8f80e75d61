package runtime

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
)

// DataType identifies the kind of value held by a DataObject.
type DataType int

const (
	TypeText DataType = iota
	TypeChar
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteBuffer
	TypeArray
	TypeList
	TypeVarPointer
	TypeFunctionPointer
	TypeStruct
	TypeObject
	TypeError
	TypeNull
	TypeVoid
	TypeType
	TypeArgumentSeparator

	dataTypeCount
)

var dataTypeNames = [...]string{
	TypeText:              "TEXT",
	TypeChar:              "CHAR",
	TypeInt:               "INT",
	TypeLong:              "LONG",
	TypeFloat:             "FLOAT",
	TypeDouble:            "DOUBLE",
	TypeByteBuffer:        "BYTE_BUFFER",
	TypeArray:             "ARRAY",
	TypeList:              "LIST",
	TypeVarPointer:        "VAR_POINTER",
	TypeFunctionPointer:   "FUNCTION_POINTER",
	TypeStruct:            "STRUCT",
	TypeObject:            "OBJECT",
	TypeError:             "ERROR",
	TypeNull:              "NULL",
	TypeVoid:              "VOID",
	TypeType:              "TYPE",
	TypeArgumentSeparator: "ARGUMENT_SEPARATOR",
}

func (t DataType) String() string {
	if t >= 0 && t < dataTypeCount {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("UNKNOWN_TYPE_%d", int(t))
}

// IsNumeric reports whether t is one of the four number kinds.
func (t DataType) IsNumeric() bool {
	switch t {
	case TypeInt, TypeLong, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// DataTypes returns every data type in declaration order.
func DataTypes() []DataType {
	out := make([]DataType, 0, dataTypeCount)
	for t := DataType(0); t < dataTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// ParseDataType looks a data type up by its upper-case name.
func ParseDataType(name string) (DataType, bool) {
	for t, n := range dataTypeNames {
		if n == name {
			return DataType(t), true
		}
	}
	return 0, false
}

//-----------------------------------------------------------------------------
// Type constraints
//-----------------------------------------------------------------------------

const allTypesMask = uint32(1)<<uint(dataTypeCount) - 1

// TypeConstraint restricts the kinds a slot may hold. A nil constraint allows
// every kind.
type TypeConstraint struct {
	mask uint32
	deny bool
}

var (
	// ConstraintComposite is applied to `&name` variables.
	ConstraintComposite = AllowOnly(TypeArray, TypeList, TypeStruct, TypeObject, TypeNull)
	// ConstraintFunctionPointer is applied to `fp.name` and `mp.name` variables.
	ConstraintFunctionPointer = AllowOnly(TypeFunctionPointer, TypeNull)
)

func AllowOnly(types ...DataType) *TypeConstraint {
	var mask uint32
	for _, t := range types {
		mask |= 1 << uint(t)
	}
	return &TypeConstraint{mask: mask}
}

func AllowAllBut(types ...DataType) *TypeConstraint {
	c := AllowOnly(types...)
	c.mask = allTypesMask &^ c.mask
	c.deny = true
	return c
}

func (c *TypeConstraint) Allows(t DataType) bool {
	if c == nil {
		return true
	}
	return c.mask&(1<<uint(t)) != 0
}

// Count returns the number of kinds the constraint admits.
func (c *TypeConstraint) Count() int {
	if c == nil {
		return int(dataTypeCount)
	}
	return bits.OnesCount32(c.mask)
}

// Equal compares the admitted kind sets; nil equals a constraint admitting everything.
func (c *TypeConstraint) Equal(other *TypeConstraint) bool {
	return c.effectiveMask() == other.effectiveMask()
}

// SubsetOf reports whether every kind c admits is admitted by other.
func (c *TypeConstraint) SubsetOf(other *TypeConstraint) bool {
	return c.effectiveMask()&^other.effectiveMask() == 0
}

func (c *TypeConstraint) effectiveMask() uint32 {
	if c == nil {
		return allTypesMask
	}
	return c.mask
}

// Types lists the admitted kinds in declaration order.
func (c *TypeConstraint) Types() []DataType {
	var out []DataType
	for t := DataType(0); t < dataTypeCount; t++ {
		if c.Allows(t) {
			out = append(out, t)
		}
	}
	return out
}

// String renders the constraint as `{INT|LONG}` or `{!NULL}`.
func (c *TypeConstraint) String() string {
	if c == nil || c.mask == allTypesMask {
		return "{all}"
	}
	var names []string
	prefix := ""
	if c.deny {
		prefix = "!"
		for t := DataType(0); t < dataTypeCount; t++ {
			if !c.Allows(t) {
				names = append(names, t.String())
			}
		}
	} else {
		for _, t := range c.Types() {
			names = append(names, t.String())
		}
	}
	return "{" + prefix + strings.Join(names, "|") + "}"
}

// ConstraintForName returns the automatic constraint implied by a variable
// name, or nil when the name carries no restriction.
func ConstraintForName(name string) *TypeConstraint {
	switch {
	case strings.HasPrefix(name, "&"):
		return ConstraintComposite
	case strings.HasPrefix(name, "fp."), strings.HasPrefix(name, "mp."):
		return ConstraintFunctionPointer
	default:
		return nil
	}
}

// ConstraintFromAST converts a source constraint, or returns nil when c is nil.
func ConstraintFromAST(c *ast.TypeConstraint) (*TypeConstraint, error) {
	if c == nil {
		return nil, nil
	}
	types := make([]DataType, 0, len(c.Types))
	for _, name := range c.Types {
		t, ok := ParseDataType(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, NewLangError(ErrorInvalidArguments, "unknown data type %q in type constraint", name)
		}
		types = append(types, t)
	}
	if c.Deny {
		return AllowAllBut(types...), nil
	}
	return AllowOnly(types...), nil
}
