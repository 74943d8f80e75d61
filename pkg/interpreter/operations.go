package interpreter

import (
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

func (i *Interpreter) interpretOperation(n *ast.Operation) *runtime.DataObject {
	pos := n.Span()
	if !n.Operator.AllowedIn(n.Category) {
		return i.raise(runtime.ErrorInvalidASTNode, pos, "operator %s is not allowed in a %s operation", n.Operator, n.Category)
	}

	// Operators that control the evaluation of their own operands.
	switch n.Operator {
	case ast.OpNon:
		return i.interpretNon(n)
	case ast.OpAnd, ast.OpOr:
		return i.interpretLogical(n)
	case ast.OpNullCoalescing, ast.OpElvis:
		return i.interpretFallback(n)
	case ast.OpInlineIf:
		return i.interpretInlineIf(n)
	case ast.OpMemberAccess, ast.OpOptionalMemberAccess, ast.OpMemberAccessPointer:
		return i.interpretMemberAccess(n)
	case ast.OpReference:
		target, ok := i.interpretValue(n.Left)
		if !ok {
			return nil
		}
		return runtime.VarPointer(target)
	case ast.OpSlice:
		return i.interpretSlice(n)
	}

	left, ok := i.interpretValue(n.Left)
	if !ok {
		return nil
	}
	if n.Operator.Arity() == 1 {
		return i.unaryOperation(n.Operator, left, pos)
	}
	right, ok := i.interpretValue(n.Right)
	if !ok {
		return nil
	}
	return i.binaryOperation(n.Operator, left, right, pos)
}

// interpretNon converts its operand according to the node category.
func (i *Interpreter) interpretNon(n *ast.Operation) *runtime.DataObject {
	value, ok := i.interpretValue(n.Left)
	if !ok {
		return nil
	}
	switch n.Category {
	case ast.CategoryMath:
		num := value.ToNumber()
		if num == nil {
			return i.raise(runtime.ErrorNoNum, n.Span(), "%s is not a number", value.Type())
		}
		return num
	case ast.CategoryCondition:
		return runtime.Bool(value.ToBool())
	default:
		return value
	}
}

func (i *Interpreter) interpretLogical(n *ast.Operation) *runtime.DataObject {
	left, ok := i.interpretValue(n.Left)
	if !ok {
		return nil
	}
	l := left.ToBool()
	if n.Operator == ast.OpAnd && !l {
		return runtime.Bool(false)
	}
	if n.Operator == ast.OpOr && l {
		return runtime.Bool(true)
	}
	right, ok := i.interpretValue(n.Right)
	if !ok {
		return nil
	}
	return runtime.Bool(right.ToBool())
}

func (i *Interpreter) interpretFallback(n *ast.Operation) *runtime.DataObject {
	left, ok := i.interpretValue(n.Left)
	if !ok {
		return nil
	}
	keep := left.ToBool()
	if n.Operator == ast.OpNullCoalescing {
		keep = !isNullish(left)
	}
	if keep {
		return left
	}
	right, ok := i.interpretValue(n.Right)
	if !ok {
		return nil
	}
	return right
}

func (i *Interpreter) interpretInlineIf(n *ast.Operation) *runtime.DataObject {
	cond, ok := i.interpretValue(n.Left)
	if !ok {
		return nil
	}
	branch := n.Right
	if cond.ToBool() {
		branch = n.Middle
	}
	value, ok := i.interpretValue(branch)
	if !ok {
		return nil
	}
	return value
}

func isNullish(v *runtime.DataObject) bool {
	return v.Type() == runtime.TypeNull || v.Type() == runtime.TypeVoid
}

func (i *Interpreter) unaryOperation(op ast.Operator, operand *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	switch op {
	case ast.OpNot:
		return runtime.Bool(!operand.ToBool())
	case ast.OpLen:
		n := operand.Len()
		if n < 0 {
			return i.raise(runtime.ErrorIncompatibleDataType, pos, "%s has no length", operand.Type())
		}
		return runtime.Int(int32(n))
	case ast.OpDeepCopy:
		return operand.DeepCopy()
	case ast.OpDereference:
		if operand.Type() != runtime.TypeVarPointer {
			return i.raise(runtime.ErrorInvalidPtr, pos, "can not dereference %s", operand.Type())
		}
		return operand.VarPointer()
	case ast.OpPos, ast.OpInv, ast.OpBitwiseNot, ast.OpInc, ast.OpDec:
		num := mathOperand(operand)
		if num == nil {
			return i.raise(runtime.ErrorNoNum, pos, "%s is not a number", operand.Type())
		}
		result, err := unaryMath(op, num)
		if err != nil {
			return i.raiseErr(err, pos)
		}
		return result
	default:
		return i.raise(runtime.ErrorInvalidASTNode, pos, "%s is not a unary operator", op)
	}
}

func (i *Interpreter) binaryOperation(op ast.Operator, left, right *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	switch op {
	case ast.OpEquals:
		return runtime.Bool(runtime.Equals(left, right))
	case ast.OpNotEquals:
		return runtime.Bool(!runtime.Equals(left, right))
	case ast.OpStrictEquals:
		return runtime.Bool(runtime.StrictEquals(left, right))
	case ast.OpStrictNotEquals:
		return runtime.Bool(!runtime.StrictEquals(left, right))
	case ast.OpLessThan, ast.OpGreaterThan, ast.OpLessThanOrEquals, ast.OpGreaterThanOrEquals:
		cmp, ok := runtime.Compare(left, right)
		if !ok {
			return runtime.Bool(false)
		}
		switch op {
		case ast.OpLessThan:
			return runtime.Bool(cmp < 0)
		case ast.OpGreaterThan:
			return runtime.Bool(cmp > 0)
		case ast.OpLessThanOrEquals:
			return runtime.Bool(cmp <= 0)
		default:
			return runtime.Bool(cmp >= 0)
		}
	case ast.OpComparator:
		cmp, ok := runtime.Compare(left, right)
		if !ok {
			return runtime.Null()
		}
		return runtime.Int(int32(cmp))
	case ast.OpInstanceOf:
		return i.instanceOf(left, right, pos)
	case ast.OpConcat:
		return i.concat(left, right, pos)
	case ast.OpGetItem:
		return i.getItem(left, right, pos)
	case ast.OpOptionalGetItem:
		if isNullish(left) {
			return runtime.Null()
		}
		return i.getItem(left, right, pos)
	}

	switch {
	case op == ast.OpAdd && (left.Type() == runtime.TypeText || left.Type() == runtime.TypeChar):
		return runtime.Text(left.ToText() + right.ToText())
	case op == ast.OpAdd && left.Type() == runtime.TypeArray:
		elements := append(append([]*runtime.DataObject(nil), left.Array()...), right.CopyValue())
		return runtime.Array(elements...)
	case op == ast.OpAdd && left.Type() == runtime.TypeList:
		return runtime.List(append(left.ToArray(), right.CopyValue())...)
	case op == ast.OpMul && left.Type() == runtime.TypeText:
		count := mathOperand(right)
		n, ok := integralValue(count)
		if !ok || n < 0 {
			return i.raise(runtime.ErrorInvalidArguments, pos, "text can only be repeated a non-negative integral number of times")
		}
		return runtime.Text(strings.Repeat(left.Text(), int(n)))
	}

	x, y := mathOperand(left), mathOperand(right)
	if x == nil || y == nil {
		return i.raise(runtime.ErrorIncompatibleDataType, pos, "operator %s is not defined for %s and %s", op, left.Type(), right.Type())
	}
	result, err := binaryMath(op, x, y)
	if err != nil {
		return i.raiseErr(err, pos)
	}
	return result
}

func (i *Interpreter) instanceOf(value, typ *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	switch typ.Type() {
	case runtime.TypeType:
		return runtime.Bool(value.Type() == typ.TypeValue())
	case runtime.TypeStruct:
		if !typ.Struct().IsDefinition() {
			return i.raise(runtime.ErrorInvalidArguments, pos, "instance of requires a struct definition")
		}
		return runtime.Bool(value.Type() == runtime.TypeStruct && value.Struct().IsInstanceOf(typ.Struct()))
	case runtime.TypeObject:
		if !typ.Object().IsClass() {
			return i.raise(runtime.ErrorInvalidArguments, pos, "instance of requires a class")
		}
		return runtime.Bool(value.Type() == runtime.TypeObject && value.Object().IsInstanceOf(typ.Object()))
	default:
		return i.raise(runtime.ErrorInvalidArguments, pos, "instance of requires a type, struct definition or class, got %s", typ.Type())
	}
}

func (i *Interpreter) concat(left, right *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	switch {
	case left.Type() == runtime.TypeText || left.Type() == runtime.TypeChar:
		return runtime.Text(left.ToText() + right.ToText())
	case left.Type() == runtime.TypeArray && right.Type() == runtime.TypeArray:
		elements := append(append([]*runtime.DataObject(nil), left.Array()...), right.Array()...)
		return runtime.Array(elements...)
	case left.Type() == runtime.TypeList && (right.Type() == runtime.TypeList || right.Type() == runtime.TypeArray):
		return runtime.List(append(left.ToArray(), right.ToArray()...)...)
	case left.Type() == runtime.TypeByteBuffer && right.Type() == runtime.TypeByteBuffer:
		buf := append(append([]byte(nil), left.ByteBuffer()...), right.ByteBuffer()...)
		return runtime.ByteBuffer(buf)
	default:
		return i.raise(runtime.ErrorIncompatibleDataType, pos, "can not concat %s and %s", left.Type(), right.Type())
	}
}

//-----------------------------------------------------------------------------
// Element access
//-----------------------------------------------------------------------------

// normalizeIndex resolves a negative index from the end.
func normalizeIndex(index int64, length int) (int, bool) {
	if index < 0 {
		index += int64(length)
	}
	return int(index), index >= 0 && index < int64(length)
}

func (i *Interpreter) indexOf(index *runtime.DataObject, pos ast.Span) (int64, bool) {
	n, ok := integralValue(mathOperand(index))
	if !ok {
		i.raise(runtime.ErrorNoNum, pos, "index must be an integral number, got %s", index.Type())
		return 0, false
	}
	return n, true
}

// getItem returns the live element slot of arrays, lists and structs, and a
// new value for text and byte buffers.
func (i *Interpreter) getItem(collection, index *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	if collection.Type() == runtime.TypeStruct {
		slot, err := collection.Struct().Member(index.ToText())
		if err != nil {
			return i.raiseErr(err, pos)
		}
		return slot
	}
	length := collection.Len()
	switch collection.Type() {
	case runtime.TypeText, runtime.TypeArray, runtime.TypeList, runtime.TypeByteBuffer:
	default:
		return i.raise(runtime.ErrorIncompatibleDataType, pos, "%s can not be indexed", collection.Type())
	}
	raw, ok := i.indexOf(index, pos)
	if !ok {
		return runtime.ErrorValue(runtime.ErrorNoNum, "")
	}
	idx, ok := normalizeIndex(raw, length)
	if !ok {
		return i.raise(runtime.ErrorIndexOutOfBounds, pos, "index %d is out of bounds for length %d", raw, length)
	}
	switch collection.Type() {
	case runtime.TypeText:
		return runtime.Char([]rune(collection.Text())[idx])
	case runtime.TypeArray:
		return collection.Array()[idx]
	case runtime.TypeList:
		v, _ := collection.List().Get(idx)
		return v.(*runtime.DataObject)
	default:
		return runtime.Int(int32(collection.ByteBuffer()[idx]))
	}
}

func (i *Interpreter) setItem(collection, index, value *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	if collection.Type() == runtime.TypeStruct {
		if err := collection.Struct().SetMember(index.ToText(), value); err != nil {
			return i.raiseErr(err, pos)
		}
		return value
	}
	switch collection.Type() {
	case runtime.TypeArray, runtime.TypeList, runtime.TypeByteBuffer:
	default:
		return i.raise(runtime.ErrorIncompatibleDataType, pos, "elements of %s can not be assigned", collection.Type())
	}
	raw, ok := i.indexOf(index, pos)
	if !ok {
		return runtime.ErrorValue(runtime.ErrorNoNum, "")
	}
	idx, ok := normalizeIndex(raw, collection.Len())
	if !ok {
		return i.raise(runtime.ErrorIndexOutOfBounds, pos, "index %d is out of bounds for length %d", raw, collection.Len())
	}
	switch collection.Type() {
	case runtime.TypeArray:
		if err := collection.Array()[idx].SetData(value); err != nil {
			return i.raiseErr(err, pos)
		}
	case runtime.TypeList:
		collection.List().Set(idx, value.CopyValue())
	default:
		b, ok := integralValue(mathOperand(value))
		if !ok {
			return i.raise(runtime.ErrorNoNum, pos, "byte value must be an integral number, got %s", value.Type())
		}
		collection.ByteBuffer()[idx] = byte(b)
	}
	return value
}

// interpretSlice evaluates collection[from:to]. Missing bounds default to the
// start and the end; the end is exclusive.
func (i *Interpreter) interpretSlice(n *ast.Operation) *runtime.DataObject {
	pos := n.Span()
	collection, ok := i.interpretValue(n.Left)
	if !ok {
		return nil
	}
	length := collection.Len()
	switch collection.Type() {
	case runtime.TypeText, runtime.TypeArray, runtime.TypeList, runtime.TypeByteBuffer:
	default:
		return i.raise(runtime.ErrorIncompatibleDataType, pos, "%s can not be sliced", collection.Type())
	}
	var failed *runtime.DataObject
	bound := func(node ast.Node, def int) (int, bool) {
		if node == nil {
			return def, true
		}
		v, ok := i.interpretValue(node)
		if !ok {
			return 0, false
		}
		if isNullish(v) {
			return def, true
		}
		raw, ok := i.indexOf(v, pos)
		if !ok {
			failed = runtime.ErrorValue(runtime.ErrorNoNum, "")
			return 0, false
		}
		if raw < 0 {
			raw += int64(length)
		}
		if raw < 0 || raw > int64(length) {
			failed = i.raise(runtime.ErrorIndexOutOfBounds, pos, "slice bound %d is out of bounds for length %d", raw, length)
			return 0, false
		}
		return int(raw), true
	}
	from, ok := bound(n.Middle, 0)
	if !ok {
		return failed
	}
	to, ok := bound(n.Right, length)
	if !ok {
		return failed
	}
	if from > to {
		return i.raise(runtime.ErrorIndexOutOfBounds, pos, "slice start %d is after its end %d", from, to)
	}
	switch collection.Type() {
	case runtime.TypeText:
		return runtime.Text(string([]rune(collection.Text())[from:to]))
	case runtime.TypeByteBuffer:
		return runtime.ByteBuffer(append([]byte(nil), collection.ByteBuffer()[from:to]...))
	default:
		src := collection.ToArray()[from:to]
		elements := make([]*runtime.DataObject, len(src))
		for idx, e := range src {
			elements[idx] = e.CopyValue()
		}
		if collection.Type() == runtime.TypeList {
			return runtime.List(elements...)
		}
		return runtime.Array(elements...)
	}
}
