package ast

// Literal helpers.

func Int(value int32) *IntValue {
	return NewIntValue(value)
}

func Long(value int64) *LongValue {
	return NewLongValue(value)
}

func Flt(value float32) *FloatValue {
	return NewFloatValue(value)
}

func Dbl(value float64) *DoubleValue {
	return NewDoubleValue(value)
}

func Chr(value rune) *CharValue {
	return NewCharValue(value)
}

func Txt(value string) *TextValue {
	return NewTextValue(value)
}

func Null() *NullValue {
	return NewNullValue()
}

func Void() *VoidValue {
	return NewVoidValue()
}

func Arr(elements ...Node) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

// Program and block helpers.

func Prog(nodes ...Node) *List {
	return NewList(nodes...)
}

func Block(nodes ...Node) *List {
	return NewList(nodes...)
}

// Variable helpers.

func Var(name string) *VariableName {
	return NewVariableName(name, nil)
}

func Raw(name string) *UnprocessedVariableName {
	return NewUnprocessedVariableName(name)
}

// Typed declares a variable name with an allow-list constraint.
func Typed(name string, types ...string) *VariableName {
	return NewVariableName(name, Allow(types...))
}

func Final(name string) *VariableName {
	v := NewVariableName(name, nil)
	v.Final = true
	return v
}

func Static(name string) *VariableName {
	v := NewVariableName(name, nil)
	v.Static = true
	return v
}

func Allow(types ...string) *TypeConstraint {
	return &TypeConstraint{Types: types}
}

func Deny(types ...string) *TypeConstraint {
	return &TypeConstraint{Types: types, Deny: true}
}

func Spread(value Node) *Unpack {
	return NewUnpack(value)
}

func SuperRef() *Super {
	return NewSuper()
}

// Assignment helpers.

func Assign(target, value Node) *Assignment {
	return NewAssignment(target, value)
}

func Translate(key string, value Node) *Translation {
	return NewTranslation(key, value)
}

// Operation helpers.

func Math(op Operator, left, right Node) *Operation {
	return NewOperation(op, CategoryMath, left, nil, right)
}

func Cond(op Operator, left, right Node) *Operation {
	return NewOperation(op, CategoryCondition, left, nil, right)
}

func Gen(op Operator, left, right Node) *Operation {
	return NewOperation(op, CategoryGeneral, left, nil, right)
}

func Unary(op Operator, category Category, operand Node) *Operation {
	return NewOperation(op, category, operand, nil, nil)
}

func Ternary(op Operator, category Category, left, middle, right Node) *Operation {
	return NewOperation(op, category, left, middle, right)
}

func Member(object, member Node) *Operation {
	return NewOperation(OpMemberAccess, CategoryGeneral, object, nil, member)
}

func Index(collection, index Node) *Operation {
	return NewOperation(OpGetItem, CategoryGeneral, collection, nil, index)
}

// Call helpers. Arguments are separated automatically.

func Args(args ...Node) []Node {
	out := make([]Node, 0, len(args)*2)
	for idx, arg := range args {
		if idx > 0 {
			out = append(out, NewArgumentSeparator(", "))
		}
		out = append(out, arg)
	}
	return out
}

func Call(name string, args ...Node) *FunctionCall {
	return NewFunctionCall(name, Args(args...))
}

func CallOf(callee Node, args ...Node) *CallValue {
	return NewCallValue(callee, Args(args...))
}

func MethodCall(object Node, method string, args ...Node) *Operation {
	return Member(object, Call(method, args...))
}

func SuperCall(method string, args ...Node) *Operation {
	return Member(NewSuper(), Call(method, args...))
}

// Control flow helpers.

func Ret(value Node) *Return {
	return NewReturn(value)
}

func Raise(value Node) *Throw {
	return NewThrow(value, nil)
}

func RaiseMsg(value, message Node) *Throw {
	return NewThrow(value, message)
}

func If(parts ...*IfPart) *IfStatement {
	return NewIfStatement(parts...)
}

func When(condition Node, body ...Node) *IfPart {
	return &IfPart{Condition: condition, Body: NewList(body...)}
}

func Otherwise(body ...Node) *IfPart {
	return &IfPart{Body: NewList(body...)}
}

func Loop(parts ...*LoopPart) *LoopStatement {
	return NewLoopStatement(parts...)
}

func Forever(body ...Node) *LoopPart {
	return &LoopPart{Kind: LoopLoop, Body: NewList(body...)}
}

func While(condition Node, body ...Node) *LoopPart {
	return &LoopPart{Kind: LoopWhile, Condition: condition, Body: NewList(body...)}
}

func Until(condition Node, body ...Node) *LoopPart {
	return &LoopPart{Kind: LoopUntil, Condition: condition, Body: NewList(body...)}
}

func Repeat(variable, count Node, body ...Node) *LoopPart {
	return &LoopPart{Kind: LoopRepeat, Variable: variable, Count: count, Body: NewList(body...)}
}

func ForEach(variable, collection Node, body ...Node) *LoopPart {
	return &LoopPart{Kind: LoopForEach, Variable: variable, Collection: collection, Body: NewList(body...)}
}

func LoopElseBody(body ...Node) *LoopPart {
	return &LoopPart{Kind: LoopElse, Body: NewList(body...)}
}

func Break(levels Node) *ContinueBreak {
	return NewContinueBreak(false, levels)
}

func Continue(levels Node) *ContinueBreak {
	return NewContinueBreak(true, levels)
}

func Try(parts ...*TryPart) *TryStatement {
	return NewTryStatement(parts...)
}

func TryBody(body ...Node) *TryPart {
	return &TryPart{Kind: TryTry, Body: NewList(body...)}
}

func SoftTryBody(body ...Node) *TryPart {
	return &TryPart{Kind: TrySoftTry, Body: NewList(body...)}
}

func NonTryBody(body ...Node) *TryPart {
	return &TryPart{Kind: TryNonTry, Body: NewList(body...)}
}

func Catch(errors []Node, body ...Node) *TryPart {
	return &TryPart{Kind: TryCatch, Errors: errors, Body: NewList(body...)}
}

func TryElseBody(body ...Node) *TryPart {
	return &TryPart{Kind: TryElse, Body: NewList(body...)}
}

func Finally(body ...Node) *TryPart {
	return &TryPart{Kind: TryFinally, Body: NewList(body...)}
}

// Definition helpers.

func Param(name string) *Parameter {
	return NewParameter(name, nil, ParamNormal)
}

func TypedParam(name string, types ...string) *Parameter {
	return NewParameter(name, Allow(types...), ParamNormal)
}

func PointerParam(name string) *Parameter {
	return NewParameter(name, nil, ParamCallByPointer)
}

func VarArgsParam(name string) *Parameter {
	return NewParameter(name, nil, ParamVarArgs)
}

func Overload(params []*Parameter, body ...Node) *FunctionOverload {
	return &FunctionOverload{Params: params, Body: NewList(body...)}
}

// Fn builds a single-overload function definition.
func Fn(name string, params []*Parameter, body ...Node) *FunctionDefinition {
	return NewFunctionDefinition(name, []*FunctionOverload{Overload(params, body...)}, false, nil)
}

func Overloaded(name string, overloads ...*FunctionOverload) *FunctionDefinition {
	return NewFunctionDefinition(name, overloads, false, nil)
}

func Combinator(name string, params []*Parameter, body ...Node) *FunctionDefinition {
	return NewFunctionDefinition(name, []*FunctionOverload{Overload(params, body...)}, true, nil)
}

func Params(params ...*Parameter) []*Parameter {
	return params
}

func StructDef(name string, members ...*StructMember) *StructDefinition {
	return NewStructDefinition(name, members)
}

func Field(name string, types ...string) *StructMember {
	var constraint *TypeConstraint
	if len(types) > 0 {
		constraint = Allow(types...)
	}
	return &StructMember{Name: name, Constraint: constraint}
}

func ClassDef(name string, parents ...Node) *ClassDefinition {
	return NewClassDefinition(name, parents)
}

// WithStatic appends a public static member declaration.
func (n *ClassDefinition) WithStatic(name string, value Node) *ClassDefinition {
	n.StaticMembers = append(n.StaticMembers, &ClassStaticMember{Name: name, Value: value, Visibility: VisibilityPublic})
	return n
}

// WithMember appends a public instance member declaration.
func (n *ClassDefinition) WithMember(name string, constraint *TypeConstraint, final bool) *ClassDefinition {
	n.Members = append(n.Members, &ClassMember{Name: name, Constraint: constraint, Final: final, Visibility: VisibilityPublic})
	return n
}

func (n *ClassDefinition) WithMethod(name string, override bool, fn *FunctionDefinition) *ClassDefinition {
	n.Methods = append(n.Methods, &ClassMethod{Name: name, Override: override, Visibility: VisibilityPublic, Function: fn})
	return n
}

func (n *ClassDefinition) WithConstructor(fn *FunctionDefinition) *ClassDefinition {
	n.Constructors = append(n.Constructors, &ClassConstructor{Visibility: VisibilityPublic, Function: fn})
	return n
}
