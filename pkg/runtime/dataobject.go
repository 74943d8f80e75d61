package runtime

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
)

// DataObject is a mutable, kind-tagged value slot. Kind changing mutations
// are checked against the slot's type constraint and final flag first; a
// rejected mutation leaves the slot untouched.
type DataObject struct {
	typ     DataType
	payload any

	variableName       string
	constraint         *TypeConstraint
	final              bool
	static             bool
	copyStaticAndFinal bool
	langVar            bool
}

// NewDataObject returns an anonymous NULL slot.
func NewDataObject() *DataObject {
	return &DataObject{typ: TypeNull}
}

// NewNamedDataObject returns a NULL slot bound to name. The naming
// convention constraint is applied.
func NewNamedDataObject(name string) *DataObject {
	d := NewDataObject()
	d.variableName = name
	d.constraint = ConstraintForName(name)
	return d
}

//-----------------------------------------------------------------------------
// Constructors for anonymous values
//-----------------------------------------------------------------------------

func Text(v string) *DataObject       { return &DataObject{typ: TypeText, payload: v} }
func Char(v rune) *DataObject         { return &DataObject{typ: TypeChar, payload: v} }
func Int(v int32) *DataObject         { return &DataObject{typ: TypeInt, payload: v} }
func Long(v int64) *DataObject        { return &DataObject{typ: TypeLong, payload: v} }
func Float(v float32) *DataObject     { return &DataObject{typ: TypeFloat, payload: v} }
func Double(v float64) *DataObject    { return &DataObject{typ: TypeDouble, payload: v} }
func ByteBuffer(v []byte) *DataObject { return &DataObject{typ: TypeByteBuffer, payload: v} }
func Null() *DataObject               { return &DataObject{typ: TypeNull} }
func Void() *DataObject               { return &DataObject{typ: TypeVoid} }
func TypeValue(t DataType) *DataObject {
	return &DataObject{typ: TypeType, payload: t}
}

func Bool(v bool) *DataObject {
	if v {
		return Int(1)
	}
	return Int(0)
}

func Array(elements ...*DataObject) *DataObject {
	if elements == nil {
		elements = []*DataObject{}
	}
	return &DataObject{typ: TypeArray, payload: elements}
}

func List(elements ...*DataObject) *DataObject {
	l := doublylinkedlist.New()
	for _, e := range elements {
		l.Add(e)
	}
	return &DataObject{typ: TypeList, payload: l}
}

func VarPointer(target *DataObject) *DataObject {
	return &DataObject{typ: TypeVarPointer, payload: target}
}

func FunctionPointerValue(fp *FunctionPointer) *DataObject {
	return &DataObject{typ: TypeFunctionPointer, payload: fp}
}

func StructValue(s *Struct) *DataObject {
	return &DataObject{typ: TypeStruct, payload: s}
}

func ObjectValue(o *Object) *DataObject {
	return &DataObject{typ: TypeObject, payload: o}
}

func ErrorValue(kind ErrorKind, message string) *DataObject {
	return &DataObject{typ: TypeError, payload: NewErrorObject(kind, message)}
}

func ArgumentSeparator(original string) *DataObject {
	return &DataObject{typ: TypeArgumentSeparator, payload: original}
}

//-----------------------------------------------------------------------------
// Metadata
//-----------------------------------------------------------------------------

func (d *DataObject) Type() DataType                  { return d.typ }
func (d *DataObject) VariableName() string            { return d.variableName }
func (d *DataObject) TypeConstraint() *TypeConstraint { return d.constraint }
func (d *DataObject) IsFinal() bool                   { return d.final }
func (d *DataObject) IsStatic() bool                  { return d.static }
func (d *DataObject) IsLangVar() bool                 { return d.langVar }
func (d *DataObject) CopiesStaticAndFinal() bool      { return d.copyStaticAndFinal }

// SetVariableName binds the slot to name and applies the naming convention
// constraint, failing if the current value violates it.
func (d *DataObject) SetVariableName(name string) error {
	if c := ConstraintForName(name); c != nil {
		if err := d.SetTypeConstraint(c); err != nil {
			return err
		}
	}
	d.variableName = name
	return nil
}

// SetTypeConstraint replaces the slot's constraint. The current value must be
// admitted by the new constraint.
func (d *DataObject) SetTypeConstraint(c *TypeConstraint) error {
	if d.final {
		return NewLangError(ErrorFinalVarChange, "type constraint of final variable %s can not be changed", d.describeName())
	}
	if !c.Allows(d.typ) {
		return d.constraintViolation(d.typ, c)
	}
	d.constraint = c
	return nil
}

func (d *DataObject) SetFinal()                     { d.final = true }
func (d *DataObject) SetStatic(static bool)         { d.static = static }
func (d *DataObject) SetLangVar()                   { d.langVar = true }
func (d *DataObject) SetCopyStaticAndFinal(cp bool) { d.copyStaticAndFinal = cp }

func (d *DataObject) describeName() string {
	if d.variableName == "" {
		return "<anonymous>"
	}
	return d.variableName
}

func (d *DataObject) constraintViolation(t DataType, c *TypeConstraint) *LangError {
	return NewLangError(ErrorConstraintViolated, "%s does not allow %s (constraint %s)", d.describeName(), t, c)
}

//-----------------------------------------------------------------------------
// Setters
//-----------------------------------------------------------------------------

func (d *DataObject) checkSet(t DataType) error {
	if d.final {
		return NewLangError(ErrorFinalVarChange, "final variable %s can not be changed", d.describeName())
	}
	if d.langVar {
		return NewLangError(ErrorFinalVarChange, "lang variable %s can not be changed", d.describeName())
	}
	if !d.constraint.Allows(t) {
		return d.constraintViolation(t, d.constraint)
	}
	return nil
}

func (d *DataObject) set(t DataType, payload any) error {
	if err := d.checkSet(t); err != nil {
		return err
	}
	d.typ = t
	d.payload = payload
	return nil
}

func (d *DataObject) SetText(v string) error       { return d.set(TypeText, v) }
func (d *DataObject) SetChar(v rune) error         { return d.set(TypeChar, v) }
func (d *DataObject) SetInt(v int32) error         { return d.set(TypeInt, v) }
func (d *DataObject) SetLong(v int64) error        { return d.set(TypeLong, v) }
func (d *DataObject) SetFloat(v float32) error     { return d.set(TypeFloat, v) }
func (d *DataObject) SetDouble(v float64) error    { return d.set(TypeDouble, v) }
func (d *DataObject) SetByteBuffer(v []byte) error { return d.set(TypeByteBuffer, v) }
func (d *DataObject) SetNull() error               { return d.set(TypeNull, nil) }
func (d *DataObject) SetVoid() error               { return d.set(TypeVoid, nil) }
func (d *DataObject) SetTypeValue(t DataType) error {
	return d.set(TypeType, t)
}
func (d *DataObject) SetArgumentSeparator(original string) error {
	return d.set(TypeArgumentSeparator, original)
}

func (d *DataObject) SetBool(v bool) error {
	if v {
		return d.SetInt(1)
	}
	return d.SetInt(0)
}

func (d *DataObject) SetArray(elements []*DataObject) error {
	if elements == nil {
		return NewLangError(ErrorInvalidArrPtr, "array must not be nil")
	}
	return d.set(TypeArray, elements)
}

func (d *DataObject) SetList(l *doublylinkedlist.List) error {
	if l == nil {
		return NewLangError(ErrorInvalidArguments, "list must not be nil")
	}
	return d.set(TypeList, l)
}

func (d *DataObject) SetVarPointer(target *DataObject) error {
	if target == nil {
		return NewLangError(ErrorInvalidPtr, "pointer target must not be nil")
	}
	return d.set(TypeVarPointer, target)
}

func (d *DataObject) SetFunctionPointer(fp *FunctionPointer) error {
	if fp == nil {
		return NewLangError(ErrorInvalidFuncPtr, "function pointer must not be nil")
	}
	return d.set(TypeFunctionPointer, fp)
}

func (d *DataObject) SetStruct(s *Struct) error {
	if s == nil {
		return NewLangError(ErrorInvalidArguments, "struct must not be nil")
	}
	return d.set(TypeStruct, s)
}

func (d *DataObject) SetObject(o *Object) error {
	if o == nil {
		return NewLangError(ErrorInvalidArguments, "object must not be nil")
	}
	return d.set(TypeObject, o)
}

func (d *DataObject) SetError(e *ErrorObject) error {
	if e == nil {
		return NewLangError(ErrorInvalidArguments, "error must not be nil")
	}
	return d.set(TypeError, e)
}

// SetData copies the kind and payload of other into d. Composite payloads are
// shared, not cloned. If other is flagged to copy static and final, those
// flags are copied too.
func (d *DataObject) SetData(other *DataObject) error {
	if other == nil {
		return d.SetNull()
	}
	if err := d.set(other.typ, other.payload); err != nil {
		return err
	}
	if other.copyStaticAndFinal {
		d.static = other.static
		d.final = other.final
	}
	return nil
}

//-----------------------------------------------------------------------------
// Copies
//-----------------------------------------------------------------------------

// Copy returns a new slot with the same value and metadata. Composite
// payloads are shared.
func (d *DataObject) Copy() *DataObject {
	cp := *d
	return &cp
}

// CopyValue returns an anonymous, unconstrained slot holding d's value.
func (d *DataObject) CopyValue() *DataObject {
	return &DataObject{typ: d.typ, payload: d.payload}
}

// DeepCopy clones d's value recursively for arrays, lists, structs and byte
// buffers. Objects, pointers and function pointers are shared.
func (d *DataObject) DeepCopy() *DataObject {
	out := &DataObject{typ: d.typ}
	switch d.typ {
	case TypeByteBuffer:
		out.payload = append([]byte(nil), d.ByteBuffer()...)
	case TypeArray:
		src := d.Array()
		elements := make([]*DataObject, len(src))
		for i, e := range src {
			elements[i] = e.DeepCopy()
		}
		out.payload = elements
	case TypeList:
		l := doublylinkedlist.New()
		it := d.List().Iterator()
		for it.Next() {
			l.Add(it.Value().(*DataObject).DeepCopy())
		}
		out.payload = l
	case TypeStruct:
		out.payload = d.Struct().DeepCopy()
	default:
		out.payload = d.payload
	}
	return out
}

//-----------------------------------------------------------------------------
// Getters
//-----------------------------------------------------------------------------

func (d *DataObject) Text() string {
	if s, ok := d.payload.(string); ok && (d.typ == TypeText || d.typ == TypeArgumentSeparator) {
		return s
	}
	return ""
}

func (d *DataObject) Char() rune {
	if d.typ != TypeChar {
		return 0
	}
	v, _ := d.payload.(rune)
	return v
}

func (d *DataObject) Int() int32 {
	if d.typ != TypeInt {
		return 0
	}
	v, _ := d.payload.(int32)
	return v
}

func (d *DataObject) Long() int64 {
	v, _ := d.payload.(int64)
	return v
}

func (d *DataObject) Float() float32 {
	v, _ := d.payload.(float32)
	return v
}

func (d *DataObject) Double() float64 {
	v, _ := d.payload.(float64)
	return v
}

func (d *DataObject) ByteBuffer() []byte {
	v, _ := d.payload.([]byte)
	return v
}

func (d *DataObject) Array() []*DataObject {
	v, _ := d.payload.([]*DataObject)
	return v
}

func (d *DataObject) List() *doublylinkedlist.List {
	v, _ := d.payload.(*doublylinkedlist.List)
	return v
}

func (d *DataObject) VarPointer() *DataObject {
	if d.typ != TypeVarPointer {
		return nil
	}
	v, _ := d.payload.(*DataObject)
	return v
}

func (d *DataObject) FunctionPointer() *FunctionPointer {
	v, _ := d.payload.(*FunctionPointer)
	return v
}

func (d *DataObject) Struct() *Struct {
	v, _ := d.payload.(*Struct)
	return v
}

func (d *DataObject) Object() *Object {
	v, _ := d.payload.(*Object)
	return v
}

func (d *DataObject) ErrorObject() *ErrorObject {
	v, _ := d.payload.(*ErrorObject)
	return v
}

func (d *DataObject) TypeValue() DataType {
	v, _ := d.payload.(DataType)
	return v
}

func (d *DataObject) String() string {
	return d.ToText()
}
