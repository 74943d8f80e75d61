package interpreter

import (
	"fmt"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// interpretArguments evaluates an argument list. Arguments are delimited by
// separator nodes; an argument made of several nodes is the concatenation of
// their text, an empty argument is VOID and an unpack node spreads an array
// or list. Single variable arguments are passed as their live slots.
func (i *Interpreter) interpretArguments(nodes []ast.Node) ([]*runtime.DataObject, bool) {
	var args []*runtime.DataObject
	var group []ast.Node
	flush := func() bool {
		defer func() { group = group[:0] }()
		switch len(group) {
		case 0:
			args = append(args, runtime.Void())
		case 1:
			if unpack, ok := group[0].(*ast.Unpack); ok {
				spread, ok := i.interpretUnpack(unpack)
				if !ok {
					return false
				}
				args = append(args, spread...)
				return true
			}
			value, ok := i.interpretValue(group[0])
			if !ok {
				return false
			}
			args = append(args, value)
		default:
			var b strings.Builder
			for _, node := range group {
				value, ok := i.interpretValue(node)
				if !ok {
					return false
				}
				b.WriteString(value.ToText())
			}
			args = append(args, runtime.Text(b.String()))
		}
		return true
	}
	if len(nodes) == 0 {
		return nil, true
	}
	for _, node := range nodes {
		if _, sep := node.(*ast.ArgumentSeparator); sep {
			if !flush() {
				return nil, false
			}
			continue
		}
		group = append(group, node)
	}
	if !flush() {
		return nil, false
	}
	return args, true
}

func (i *Interpreter) interpretFunctionCall(n *ast.FunctionCall) *runtime.DataObject {
	args, ok := i.interpretArguments(n.Args)
	if !ok {
		return nil
	}
	return i.callByName(n.Name, args, n.Span())
}

func (i *Interpreter) interpretCallValue(n *ast.CallValue) *runtime.DataObject {
	callee, ok := i.interpretValue(n.Callee)
	if !ok {
		return nil
	}
	args, ok := i.interpretArguments(n.Args)
	if !ok {
		return nil
	}
	return i.callValue(callee, args, n.Span())
}

// callByName resolves name to a native function, a method of &this, a
// variable holding something callable, or a module function, in that order.
func (i *Interpreter) callByName(name string, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	if isNativeName(name) {
		if fp, ok := i.natives.Lookup(name); ok {
			return i.callFunctionPointer(fp, args, pos)
		}
	}
	if strings.HasPrefix(name, methodPrefix) {
		if this := i.thisObject(); this != nil {
			return i.callMethod(this, name, args, pos, 0)
		}
	}
	candidates := []string{name}
	if !hasVariablePrefix(name) {
		candidates = append(candidates, functionPrefix+name)
	}
	for _, candidate := range candidates {
		if slot, ok := i.lookupVariable(candidate); ok {
			return i.callValue(slot, args, pos)
		}
	}
	for _, candidate := range candidates {
		if fp, ok := i.moduleFunction(candidate); ok {
			return i.callFunctionPointer(fp, args, pos)
		}
	}
	return i.raise(runtime.ErrorFunctionNotFound, pos, "function %s is not defined", name)
}

// callValue calls a function pointer, instantiates a struct definition or
// constructs an instance of a class.
func (i *Interpreter) callValue(callee *runtime.DataObject, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	switch callee.Type() {
	case runtime.TypeFunctionPointer:
		return i.callFunctionPointer(callee.FunctionPointer(), args, pos)
	case runtime.TypeStruct:
		return i.instantiateStruct(callee.Struct(), args, pos)
	case runtime.TypeObject:
		if !callee.Object().IsClass() {
			return i.raise(runtime.ErrorNotCallable, pos, "objects are not callable, only classes are")
		}
		return i.construct(callee.Object(), args, pos)
	default:
		return i.raise(runtime.ErrorNotCallable, pos, "%s is not callable", callee.Type())
	}
}

const (
	functionPrefix = "fp."
	methodPrefix   = "mp."
)

func isNativeName(name string) bool {
	return strings.HasPrefix(name, nativePrefix) || strings.HasPrefix(name, nativeShortPrefix)
}

func hasVariablePrefix(name string) bool {
	for _, prefix := range []string{"$", "&", functionPrefix, methodPrefix, nativePrefix, nativeShortPrefix} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// lookupFunction resolves a function name that is not bound to a variable.
func (i *Interpreter) lookupFunction(name string) (*runtime.FunctionPointer, bool) {
	if isNativeName(name) {
		if fp, ok := i.natives.Lookup(name); ok {
			return fp, true
		}
	}
	return i.moduleFunction(name)
}

// thisObject returns the instance a method is running for.
func (i *Interpreter) thisObject() *runtime.Object {
	slot, ok := i.currentScope().vars[thisVariable]
	if !ok || slot.Type() != runtime.TypeObject || slot.Object().IsClass() {
		return nil
	}
	return slot.Object()
}

//-----------------------------------------------------------------------------
// Definitions
//-----------------------------------------------------------------------------

func (i *Interpreter) interpretFunctionDefinition(n *ast.FunctionDefinition) *runtime.DataObject {
	fp, err := i.functionPointerOf(n)
	if err != nil {
		return i.raiseErr(err, n.Span())
	}
	value := runtime.FunctionPointerValue(fp)
	if n.Name == "" {
		return value
	}
	name := n.Name
	if !hasVariablePrefix(name) {
		name = functionPrefix + name
	}
	i.assignVariable(ast.NewVariableName(name, nil), value, n.Span())
	return value
}

// functionPointerOf builds the function bundle of a definition.
func (i *Interpreter) functionPointerOf(n *ast.FunctionDefinition) (*runtime.FunctionPointer, error) {
	if len(n.Overloads) == 0 {
		return nil, runtime.NewLangError(runtime.ErrorInvalidArguments, "function %s has no signature", n.Name)
	}
	if n.Combinator && len(n.Overloads) > 1 {
		return nil, runtime.NewLangError(runtime.ErrorInvalidArguments, "combinator %s can not be overloaded", n.Name)
	}
	functions := make([]*runtime.InternalFunction, 0, len(n.Overloads))
	for _, o := range n.Overloads {
		params := make([]*runtime.Parameter, len(o.Params))
		for idx, p := range o.Params {
			c, err := runtime.ConstraintFromAST(p.Constraint)
			if err != nil {
				return nil, err
			}
			params[idx] = runtime.NewParameter(p.Name, c, p.Mode)
		}
		ret, err := runtime.ConstraintFromAST(o.ReturnConstraint)
		if err != nil {
			return nil, err
		}
		fn, err := runtime.NewASTFunction(params, ret, o.Body)
		if err != nil {
			return nil, err
		}
		fn.Doc = o.Doc
		i.checkDocComment(n.Name, fn, n.Span())
		functions = append(functions, fn)
	}
	if err := runtime.CheckOverloadSet(functions); err != nil {
		return nil, runtime.NewLangError(runtime.ErrorInvalidArguments, "function %s: %v", n.Name, err)
	}

	fp := runtime.NewFunctionPointer(n.Name, functions...)
	fp.Combinator = n.Combinator
	if d := n.Deprecated; d != nil {
		fp.Deprecation = &runtime.Deprecation{RemoveVersion: d.RemoveVersion, Replacement: d.Replacement}
	}
	frame := i.currentFrame()
	fp.Path, fp.File = frame.Path, frame.File
	return fp, nil
}

// checkDocComment warns about @param lines naming no parameter.
func (i *Interpreter) checkDocComment(name string, fn *runtime.InternalFunction, pos ast.Span) {
	if fn.Doc == "" {
		return
	}
	params := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		params[p.Name] = true
	}
	for _, line := range strings.Split(fn.Doc, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "@param" {
			continue
		}
		if len(fields) < 2 {
			i.warn(runtime.WarningInvalidDocComment, fmt.Sprintf("%s: @param without a parameter name", name), pos)
			continue
		}
		param := strings.TrimSuffix(fields[1], ":")
		if strings.HasPrefix(param, "$[") && strings.HasSuffix(param, "]") {
			param = "$" + param[2:len(param)-1]
		}
		param = strings.TrimSuffix(param, "...")
		if !params[param] {
			i.warn(runtime.WarningInvalidDocComment, fmt.Sprintf("%s: @param %s does not name a parameter", name, param), pos)
		}
	}
}
