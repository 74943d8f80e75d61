package runtime

import (
	"bytes"
	"strings"
)

// Equals compares two values loosely: numbers compare by value across kinds,
// text compares with chars and numbers through conversion, and arrays compare
// with lists element by element.
func Equals(a, b *DataObject) bool {
	return equals(a, b, false, 0)
}

// StrictEquals compares kind first and then payload. Composite payloads are
// compared structurally; objects compare by identity of their class and by
// member values.
func StrictEquals(a, b *DataObject) bool {
	return equals(a, b, true, 0)
}

const maxEqualsDepth = 64

func equals(a, b *DataObject, strict bool, depth int) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if depth > maxEqualsDepth {
		return false
	}
	if strict && a.typ != b.typ {
		return false
	}
	if !strict {
		if eq, ok := looseEquals(a, b, depth); ok {
			return eq
		}
		if a.typ != b.typ {
			return false
		}
	}

	switch a.typ {
	case TypeText, TypeArgumentSeparator:
		return a.Text() == b.Text()
	case TypeChar:
		return a.Char() == b.Char()
	case TypeInt:
		return a.Int() == b.Int()
	case TypeLong:
		return a.Long() == b.Long()
	case TypeFloat:
		return a.Float() == b.Float()
	case TypeDouble:
		return a.Double() == b.Double()
	case TypeByteBuffer:
		return bytes.Equal(a.ByteBuffer(), b.ByteBuffer())
	case TypeArray, TypeList:
		return elementsEqual(a.ToArray(), b.ToArray(), strict, depth)
	case TypeVarPointer:
		return equals(a.VarPointer(), b.VarPointer(), strict, depth+1)
	case TypeFunctionPointer:
		return a.FunctionPointer().Equal(b.FunctionPointer())
	case TypeStruct:
		sa, sb := a.Struct(), b.Struct()
		if sa.IsDefinition() != sb.IsDefinition() {
			return false
		}
		if !equalStrings(sa.MemberNames(), sb.MemberNames()) {
			return false
		}
		if sa.IsDefinition() {
			return true
		}
		return elementsEqual(sa.Values(), sb.Values(), strict, depth)
	case TypeObject:
		return objectsEqual(a.Object(), b.Object(), strict, depth)
	case TypeError:
		return a.ErrorObject().Kind == b.ErrorObject().Kind
	case TypeNull, TypeVoid:
		return true
	case TypeType:
		return a.TypeValue() == b.TypeValue()
	default:
		return false
	}
}

// looseEquals handles cross-kind comparisons. ok is false when the strict
// rules should decide.
func looseEquals(a, b *DataObject, depth int) (eq, ok bool) {
	if a.typ.IsNumeric() && b.typ.IsNumeric() {
		return numbersEqual(a, b), true
	}
	switch {
	case a.typ == TypeText && b.typ == TypeChar, a.typ == TypeChar && b.typ == TypeText:
		return a.ToText() == b.ToText(), true
	case a.typ == TypeText && b.typ.IsNumeric():
		n := a.ToNumber()
		return n != nil && numbersEqual(n, b), true
	case a.typ.IsNumeric() && b.typ == TypeText:
		n := b.ToNumber()
		return n != nil && numbersEqual(a, n), true
	case a.typ == TypeChar && b.typ.IsNumeric(), a.typ.IsNumeric() && b.typ == TypeChar:
		return numbersEqual(a.ToNumber(), b.ToNumber()), true
	case a.typ == TypeError && b.typ.IsNumeric(), a.typ.IsNumeric() && b.typ == TypeError:
		return numbersEqual(a.ToNumber(), b.ToNumber()), true
	case a.typ == TypeError && b.typ == TypeText:
		return a.ErrorObject().Kind.String() == b.Text(), true
	case a.typ == TypeText && b.typ == TypeError:
		return b.ErrorObject().Kind.String() == a.Text(), true
	case (a.typ == TypeArray && b.typ == TypeList) || (a.typ == TypeList && b.typ == TypeArray):
		return elementsEqual(a.ToArray(), b.ToArray(), false, depth), true
	}
	return false, false
}

func numbersEqual(a, b *DataObject) bool {
	if a == nil || b == nil {
		return false
	}
	if isIntegral(a.typ) && isIntegral(b.typ) {
		x, _ := a.Int64()
		y, _ := b.Int64()
		return x == y
	}
	x, _ := a.Float64()
	y, _ := b.Float64()
	return x == y
}

func isIntegral(t DataType) bool {
	return t == TypeInt || t == TypeLong
}

func elementsEqual(a, b []*DataObject, strict bool, depth int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equals(a[i], b[i], strict, depth+1) {
			return false
		}
	}
	return true
}

func objectsEqual(a, b *Object, strict bool, depth int) bool {
	if a == b {
		return true
	}
	if a.IsClass() || b.IsClass() {
		return false
	}
	if a.Class() != b.Class() {
		return false
	}
	return elementsEqual(a.memberValues, b.memberValues, strict, depth)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compare orders two values. ok is false when the values are not comparable.
func Compare(a, b *DataObject) (cmp int, ok bool) {
	switch {
	case a.typ.IsNumeric() || b.typ.IsNumeric() || a.typ == TypeError || b.typ == TypeError:
		x, y := a.ToNumber(), b.ToNumber()
		if x == nil || y == nil {
			return 0, false
		}
		if isIntegral(x.typ) && isIntegral(y.typ) {
			i, _ := x.Int64()
			j, _ := y.Int64()
			return compareOrdered(i, j), true
		}
		f, _ := x.Float64()
		g, _ := y.Float64()
		if f != f || g != g {
			return 0, false
		}
		return compareOrdered(f, g), true
	}
	switch {
	case (a.typ == TypeText || a.typ == TypeChar) && (b.typ == TypeText || b.typ == TypeChar):
		return strings.Compare(a.ToText(), b.ToText()), true
	case (a.typ == TypeArray || a.typ == TypeList) && (b.typ == TypeArray || b.typ == TypeList):
		return compareOrdered(a.Len(), b.Len()), true
	case a.typ == TypeByteBuffer && b.typ == TypeByteBuffer:
		return bytes.Compare(a.ByteBuffer(), b.ByteBuffer()), true
	}
	return 0, false
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
