package interpreter

import (
	"errors"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

//-----------------------------------------------------------------------------
// Structs
//-----------------------------------------------------------------------------

// interpretStructDefinition builds a struct definition. A malformed
// definition is fatal.
func (i *Interpreter) interpretStructDefinition(n *ast.StructDefinition) *runtime.DataObject {
	names := make([]string, len(n.Members))
	constraints := make([]*runtime.TypeConstraint, len(n.Members))
	for idx, m := range n.Members {
		c, err := runtime.ConstraintFromAST(m.Constraint)
		if err != nil {
			i.stopFatal(&runtime.DefinitionError{What: "struct", Name: n.Name, Message: err.Error()})
			return nil
		}
		names[idx] = m.Name
		constraints[idx] = c
	}
	def, err := runtime.NewStructDefinition(n.Name, names, constraints)
	if err != nil {
		i.stopFatal(err)
		return nil
	}
	value := runtime.StructValue(def)
	if n.Name != "" {
		i.assignVariable(ast.NewVariableName("&"+strings.TrimPrefix(n.Name, "&"), nil), value, n.Span())
	}
	return value
}

// instantiateStruct creates an instance of def. Without arguments every
// member is null.
func (i *Interpreter) instantiateStruct(def *runtime.Struct, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	var values []*runtime.DataObject
	if len(args) > 0 {
		values = args
	}
	inst, err := runtime.NewStructInstance(def, values)
	if err != nil {
		return i.raiseErr(err, pos)
	}
	return runtime.StructValue(inst)
}

//-----------------------------------------------------------------------------
// Classes
//-----------------------------------------------------------------------------

// interpretClassDefinition evaluates parents, static initializers and method
// bodies into a ClassSpec. A malformed definition is fatal.
func (i *Interpreter) interpretClassDefinition(n *ast.ClassDefinition) *runtime.DataObject {
	fatal := func(err error) *runtime.DataObject {
		var defErr *runtime.DefinitionError
		if !errors.As(err, &defErr) {
			defErr = &runtime.DefinitionError{What: "class", Name: n.Name, Message: err.Error()}
		}
		i.stopFatal(defErr)
		return nil
	}

	spec := runtime.ClassSpec{Name: n.Name}
	for _, p := range n.Parents {
		v, ok := i.interpretValue(p)
		if !ok {
			return nil
		}
		if v.Type() != runtime.TypeObject || !v.Object().IsClass() {
			return fatal(runtime.NewLangError(runtime.ErrorIncompatibleDataType, "parent must be a class, got %s", v.Type()))
		}
		spec.Parents = append(spec.Parents, v.Object())
	}
	for _, s := range n.StaticMembers {
		c, err := runtime.ConstraintFromAST(s.Constraint)
		if err != nil {
			return fatal(err)
		}
		var value *runtime.DataObject
		if s.Value != nil {
			v, ok := i.interpretValue(s.Value)
			if !ok {
				return nil
			}
			value = v.CopyValue()
		}
		spec.Statics = append(spec.Statics, runtime.StaticMemberSpec{
			Name: s.Name, Value: value, Constraint: c, Final: s.Final, Visibility: s.Visibility,
		})
	}
	for _, m := range n.Members {
		c, err := runtime.ConstraintFromAST(m.Constraint)
		if err != nil {
			return fatal(err)
		}
		spec.Members = append(spec.Members, runtime.MemberSpec{
			Name: m.Name, Constraint: c, Final: m.Final, Visibility: m.Visibility,
		})
	}
	for _, m := range n.Methods {
		fp, err := i.functionPointerOf(m.Function)
		if err != nil {
			return fatal(err)
		}
		spec.Methods = append(spec.Methods, runtime.MethodSpec{
			Name: m.Name, Override: m.Override, Visibility: m.Visibility, Functions: fp.Functions,
		})
	}
	for _, c := range n.Constructors {
		fp, err := i.functionPointerOf(c.Function)
		if err != nil {
			return fatal(err)
		}
		spec.Constructors = append(spec.Constructors, runtime.ConstructorSpec{
			Visibility: c.Visibility, Functions: fp.Functions,
		})
	}

	class, err := runtime.NewClass(spec)
	if err != nil {
		return fatal(err)
	}
	value := runtime.ObjectValue(class)
	if n.Name != "" {
		i.assignVariable(ast.NewVariableName("&"+strings.TrimPrefix(n.Name, "&"), nil), value, n.Span())
	}
	return value
}

// accessible keeps the functions visible from the running code.
func (i *Interpreter) accessible(fns []*runtime.InternalFunction) []*runtime.InternalFunction {
	accessor := i.accessorClass()
	out := make([]*runtime.InternalFunction, 0, len(fns))
	for _, f := range fns {
		if runtime.Accessible(f.Visibility, f.DeclaringClass, accessor) {
			out = append(out, f)
		}
	}
	return out
}

// construct creates an instance of class, runs the matching constructor and
// finalizes the members.
func (i *Interpreter) construct(class *runtime.Object, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	inst, err := class.NewInstance()
	if err != nil {
		return i.raiseErr(err, pos)
	}
	all, _ := inst.Constructors(0)
	ctors := i.accessible(all)
	if len(ctors) == 0 {
		return i.raise(runtime.ErrorMemberNotAccessible, pos, "no constructor of class %s is accessible", class.Name())
	}
	fp := runtime.NewFunctionPointer(runtime.ConstructorName, ctors...).BindThis(inst)
	result := i.invoke(fp, args, pos)
	if i.state.stop {
		return nil
	}
	if result != nil && result.Type() == runtime.TypeError {
		return result
	}
	if err := inst.PostConstruct(); err != nil {
		return i.raiseErr(err, pos)
	}
	return runtime.ObjectValue(inst)
}

// callMethod dispatches name on obj considering overloads declared at
// minLevel or above.
func (i *Interpreter) callMethod(obj *runtime.Object, name string, args []*runtime.DataObject, pos ast.Span, minLevel int) *runtime.DataObject {
	fp, failed := i.methodBundle(obj, name, pos, minLevel)
	if failed != nil {
		return failed
	}
	return i.invoke(fp, args, pos)
}

// methodBundle returns the overloads of name on obj that the running code may
// call, bound to obj. Most derived dispatch uses the bundle bound when the
// instance was created.
func (i *Interpreter) methodBundle(obj *runtime.Object, name string, pos ast.Span, minLevel int) (*runtime.FunctionPointer, *runtime.DataObject) {
	var all []*runtime.InternalFunction
	bound, ok := obj.BoundMethod(name)
	if ok && minLevel == 0 {
		all = bound.Functions
	} else {
		ok = false
		all = obj.MethodOverloads(name, minLevel)
	}
	if len(all) == 0 {
		return nil, i.raise(runtime.ErrorFunctionNotFound, pos, "method %s is not defined for %s", name, obj)
	}
	fns := i.accessible(all)
	if len(fns) == 0 {
		return nil, i.raise(runtime.ErrorMemberNotAccessible, pos, "method %s of %s is not accessible", name, obj)
	}
	if ok && len(fns) == len(all) {
		return bound, nil
	}
	return runtime.NewFunctionPointer(name, fns...).BindThis(obj), nil
}

//-----------------------------------------------------------------------------
// Member access
//-----------------------------------------------------------------------------

// interpretMemberAccess evaluates `left::right`, `left?::right` and
// `left->right`. Members are returned as live slots.
func (i *Interpreter) interpretMemberAccess(n *ast.Operation) *runtime.DataObject {
	pos := n.Span()
	if _, ok := n.Left.(*ast.Super); ok {
		return i.superAccess(n.Right, pos)
	}
	left, ok := i.interpretValue(n.Left)
	if !ok {
		return nil
	}
	switch n.Operator {
	case ast.OpMemberAccessPointer:
		if left.Type() != runtime.TypeVarPointer {
			return i.raise(runtime.ErrorInvalidPtr, pos, "-> requires a pointer, got %s", left.Type())
		}
		left = left.VarPointer()
	case ast.OpOptionalMemberAccess:
		if isNullish(left) {
			return runtime.Null()
		}
	}
	switch left.Type() {
	case runtime.TypeObject:
		return i.objectMember(left.Object(), n.Right, pos)
	case runtime.TypeStruct:
		return i.structMember(left.Struct(), n.Right, pos)
	default:
		return i.raise(runtime.ErrorInvalidArguments, pos, "member access requires an object, class or struct, got %s", left.Type())
	}
}

func memberName(node ast.Node) (string, bool) {
	switch r := node.(type) {
	case *ast.VariableName:
		return r.Name, true
	case *ast.UnprocessedVariableName:
		return r.Name, true
	default:
		return "", false
	}
}

func (i *Interpreter) objectMember(obj *runtime.Object, right ast.Node, pos ast.Span) *runtime.DataObject {
	if call, ok := right.(*ast.FunctionCall); ok {
		args, ok := i.interpretArguments(call.Args)
		if !ok {
			return nil
		}
		switch {
		case call.Name == runtime.ConstructorName:
			return i.raise(runtime.ErrorInvalidArguments, pos, "constructors can only be called through super")
		case !obj.IsClass() && strings.HasPrefix(call.Name, methodPrefix):
			return i.callMethod(obj, call.Name, args, pos, 0)
		case !obj.IsClass() && strings.HasPrefix(call.Name, functionPrefix) && obj.HasMethod(methodPrefix+strings.TrimPrefix(call.Name, functionPrefix)):
			return i.callMethod(obj, methodPrefix+strings.TrimPrefix(call.Name, functionPrefix), args, pos, 0)
		}
		slot := i.memberSlot(obj, call.Name, pos)
		if i.state.stop || slot.Type() == runtime.TypeError {
			return slot
		}
		return i.callValue(slot, args, pos)
	}

	name, ok := memberName(right)
	if !ok {
		return i.raise(runtime.ErrorInvalidASTNode, pos, "invalid member access")
	}
	if !obj.IsClass() && strings.HasPrefix(name, functionPrefix) {
		method := methodPrefix + strings.TrimPrefix(name, functionPrefix)
		if obj.HasMethod(method) {
			fp, failed := i.methodBundle(obj, method, pos, 0)
			if failed != nil {
				return failed
			}
			return runtime.FunctionPointerValue(fp)
		}
	}
	return i.memberSlot(obj, name, pos)
}

// memberSlot finds an instance member or a static member of obj.
func (i *Interpreter) memberSlot(obj *runtime.Object, name string, pos ast.Span) *runtime.DataObject {
	accessor := i.accessorClass()
	if slot, def, ok := obj.Member(name); ok {
		if !runtime.Accessible(def.Visibility, def.DeclaringClass, accessor) {
			return i.raise(runtime.ErrorMemberNotAccessible, pos, "member %s of %s is not accessible", name, obj)
		}
		return slot
	}
	if s, ok := obj.Static(name); ok {
		if !runtime.Accessible(s.Visibility, s.DeclaringClass, accessor) {
			return i.raise(runtime.ErrorMemberNotAccessible, pos, "static member %s of %s is not accessible", name, obj)
		}
		return s.Slot
	}
	return i.raise(runtime.ErrorNotFound, pos, "%s has no member %s", obj, name)
}

func (i *Interpreter) structMember(s *runtime.Struct, right ast.Node, pos ast.Span) *runtime.DataObject {
	if call, ok := right.(*ast.FunctionCall); ok {
		args, ok := i.interpretArguments(call.Args)
		if !ok {
			return nil
		}
		slot, err := s.Member(call.Name)
		if err != nil {
			return i.raiseErr(err, pos)
		}
		return i.callValue(slot, args, pos)
	}
	name, ok := memberName(right)
	if !ok {
		return i.raise(runtime.ErrorInvalidASTNode, pos, "invalid member access")
	}
	slot, err := s.Member(name)
	if err != nil {
		return i.raiseErr(err, pos)
	}
	return slot
}

// superAccess calls a method or constructor one inheritance level above the
// implementation that is currently running.
func (i *Interpreter) superAccess(right ast.Node, pos ast.Span) *runtime.DataObject {
	this := i.thisObject()
	if this == nil {
		return i.raise(runtime.ErrorInvalidArguments, pos, "super can only be used inside of methods and constructors")
	}
	call, ok := right.(*ast.FunctionCall)
	if !ok {
		return i.raise(runtime.ErrorInvalidASTNode, pos, "super must be followed by a method or constructor call")
	}
	args, ok := i.interpretArguments(call.Args)
	if !ok {
		return nil
	}
	level := this.SuperLevel() + 1
	if call.Name != runtime.ConstructorName {
		return i.callMethod(this, call.Name, args, pos, level)
	}
	if this.IsInitialized() {
		return i.raise(runtime.ErrorInvalidArguments, pos, "super constructors can only be called while the object is constructed")
	}
	all, ok := this.Constructors(level)
	if !ok {
		return i.raise(runtime.ErrorNotFound, pos, "class %s has no super class at level %d", this.Name(), level)
	}
	ctors := i.accessible(all)
	if len(ctors) == 0 {
		return i.raise(runtime.ErrorMemberNotAccessible, pos, "no super constructor of class %s is accessible", this.Name())
	}
	return i.invoke(runtime.NewFunctionPointer(runtime.ConstructorName, ctors...).BindThis(this), args, pos)
}
