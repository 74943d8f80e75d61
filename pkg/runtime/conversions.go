package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/lists/doublylinkedlist"
)

// ToText renders any value as text.
func (d *DataObject) ToText() string {
	var b strings.Builder
	d.writeText(&b, 0)
	return b.String()
}

// maxTextDepth bounds rendering of self-referencing composites.
const maxTextDepth = 16

func (d *DataObject) writeText(b *strings.Builder, depth int) {
	if depth > maxTextDepth {
		b.WriteString("...")
		return
	}
	switch d.typ {
	case TypeText, TypeArgumentSeparator:
		b.WriteString(d.Text())
	case TypeChar:
		b.WriteRune(d.Char())
	case TypeInt:
		b.WriteString(strconv.FormatInt(int64(d.Int()), 10))
	case TypeLong:
		b.WriteString(strconv.FormatInt(d.Long(), 10))
	case TypeFloat:
		b.WriteString(formatFloat(float64(d.Float()), 32))
	case TypeDouble:
		b.WriteString(formatFloat(d.Double(), 64))
	case TypeByteBuffer:
		buf := d.ByteBuffer()
		b.WriteString("0x")
		for _, c := range buf {
			fmt.Fprintf(b, "%02X", c)
		}
	case TypeArray:
		writeElements(b, d.Array(), depth)
	case TypeList:
		writeElements(b, listElements(d.List()), depth)
	case TypeVarPointer:
		b.WriteString("-->{")
		if target := d.VarPointer(); target != nil {
			target.writeText(b, depth+1)
		}
		b.WriteString("}")
	case TypeFunctionPointer:
		b.WriteString(d.FunctionPointer().String())
	case TypeStruct:
		d.Struct().writeText(b, depth)
	case TypeObject:
		b.WriteString(d.Object().String())
	case TypeError:
		b.WriteString(d.ErrorObject().String())
	case TypeNull:
		b.WriteString("null")
	case TypeVoid:
	case TypeType:
		b.WriteString(d.TypeValue().String())
	}
}

func writeElements(b *strings.Builder, elements []*DataObject, depth int) {
	b.WriteString("[")
	for i, e := range elements {
		if i > 0 {
			b.WriteString(", ")
		}
		e.writeText(b, depth+1)
	}
	b.WriteString("]")
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func listElements(l *doublylinkedlist.List) []*DataObject {
	if l == nil {
		return nil
	}
	out := make([]*DataObject, 0, l.Size())
	it := l.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*DataObject))
	}
	return out
}

// ToNumber converts d to an INT, LONG, FLOAT or DOUBLE value, or returns nil
// when d has no numeric interpretation.
func (d *DataObject) ToNumber() *DataObject {
	switch d.typ {
	case TypeInt, TypeLong, TypeFloat, TypeDouble:
		return d.CopyValue()
	case TypeChar:
		return Int(d.Char())
	case TypeText:
		return parseNumber(d.Text())
	case TypeError:
		return Int(int32(d.ErrorObject().Kind))
	case TypeByteBuffer:
		return Int(int32(len(d.ByteBuffer())))
	case TypeArray:
		return Int(int32(len(d.Array())))
	case TypeList:
		return Int(int32(d.List().Size()))
	case TypeStruct:
		return Int(int32(len(d.Struct().MemberNames())))
	default:
		return nil
	}
}

func parseNumber(s string) *DataObject {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasSuffix(s, "l") || strings.HasSuffix(s, "L") {
		if v, err := strconv.ParseInt(s[:len(s)-1], 10, 64); err == nil {
			return Long(v)
		}
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return Int(int32(v))
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Long(v)
	}
	if strings.HasSuffix(s, "f") || strings.HasSuffix(s, "F") {
		if v, err := strconv.ParseFloat(s[:len(s)-1], 32); err == nil {
			return Float(float32(v))
		}
		return nil
	}
	// Go accepts "inf"/"nan" spellings that are not numbers in the language.
	if strings.ContainsAny(s, "iInN") {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Double(v)
	}
	return nil
}

// ToBool converts d to a truth value.
func (d *DataObject) ToBool() bool {
	switch d.typ {
	case TypeText:
		return d.Text() != ""
	case TypeChar:
		return d.Char() != 0
	case TypeInt:
		return d.Int() != 0
	case TypeLong:
		return d.Long() != 0
	case TypeFloat:
		return d.Float() != 0
	case TypeDouble:
		return d.Double() != 0
	case TypeByteBuffer:
		return len(d.ByteBuffer()) > 0
	case TypeArray:
		return len(d.Array()) > 0
	case TypeList:
		return d.List().Size() > 0
	case TypeStruct:
		return len(d.Struct().MemberNames()) > 0
	case TypeError:
		return d.ErrorObject().Kind != ErrorNone
	case TypeVarPointer, TypeFunctionPointer, TypeObject, TypeType:
		return true
	default:
		return false
	}
}

// ToArray returns the elements of an ARRAY, LIST or STRUCT value, or nil.
func (d *DataObject) ToArray() []*DataObject {
	switch d.typ {
	case TypeArray:
		return d.Array()
	case TypeList:
		return listElements(d.List())
	case TypeStruct:
		return d.Struct().Values()
	default:
		return nil
	}
}

// ToList returns a new list holding the elements of an ARRAY, LIST or STRUCT
// value, or nil.
func (d *DataObject) ToList() *doublylinkedlist.List {
	elements := d.ToArray()
	if elements == nil {
		return nil
	}
	l := doublylinkedlist.New()
	for _, e := range elements {
		l.Add(e)
	}
	return l
}

// ToByteBuffer returns the bytes of a BYTE_BUFFER or TEXT value, or nil.
func (d *DataObject) ToByteBuffer() []byte {
	switch d.typ {
	case TypeByteBuffer:
		return d.ByteBuffer()
	case TypeText:
		return []byte(d.Text())
	default:
		return nil
	}
}

// Len returns the length of text, byte buffer and collection values, and -1
// for everything else.
func (d *DataObject) Len() int {
	switch d.typ {
	case TypeText:
		return utf8.RuneCountInString(d.Text())
	case TypeChar:
		return 1
	case TypeByteBuffer:
		return len(d.ByteBuffer())
	case TypeArray:
		return len(d.Array())
	case TypeList:
		return d.List().Size()
	case TypeStruct:
		return len(d.Struct().MemberNames())
	default:
		return -1
	}
}

// Float64 returns a numeric value as float64. ok is false for non-numbers.
func (d *DataObject) Float64() (float64, bool) {
	switch d.typ {
	case TypeInt:
		return float64(d.Int()), true
	case TypeLong:
		return float64(d.Long()), true
	case TypeFloat:
		return float64(d.Float()), true
	case TypeDouble:
		return d.Double(), true
	default:
		return 0, false
	}
}

// Int64 returns an integral value as int64; floating point values are
// truncated. ok is false for non-numbers.
func (d *DataObject) Int64() (int64, bool) {
	switch d.typ {
	case TypeInt:
		return int64(d.Int()), true
	case TypeLong:
		return d.Long(), true
	case TypeFloat:
		return int64(d.Float()), true
	case TypeDouble:
		return int64(d.Double()), true
	default:
		return 0, false
	}
}
