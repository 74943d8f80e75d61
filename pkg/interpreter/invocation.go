package interpreter

import (
	"fmt"
	"strings"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

const (
	thisVariable      = "&this"
	thisClassVariable = "&This"
)

// callFunctionPointer invokes fp with evaluated, separator free arguments.
// Arguments that are variable slots stay live for call-by-pointer
// parameters.
func (i *Interpreter) callFunctionPointer(fp *runtime.FunctionPointer, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	if fp == nil || len(fp.Functions) == 0 {
		return i.raise(runtime.ErrorInvalidFuncPtr, pos, "function pointer is invalid")
	}
	if fp.Combinator {
		return i.callCombinator(fp, args, pos)
	}
	return i.invoke(fp, args, pos)
}

// callCombinator implements partial application. A fixed arity combinator
// collects arguments until every parameter is supplied. A var-args
// combinator takes its fixed prefix in the first call and the variadic tail
// in the second.
func (i *Interpreter) callCombinator(fp *runtime.FunctionPointer, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	fn := fp.Functions[0]
	fixed := fn.FixedCount()
	supplied := len(fp.Bound) + len(args)
	copied := make([]*runtime.DataObject, len(args))
	for idx, a := range args {
		copied[idx] = a.CopyValue()
	}

	if !fn.HasVarArgs() {
		switch {
		case supplied < fixed:
			return runtime.FunctionPointerValue(fp.WithBound(copied, false))
		case supplied > fixed:
			return i.raise(runtime.ErrorInvalidArgCount, pos, "combinator %s expects %d arguments, got %d", fp.Name, fixed, supplied)
		}
	} else if !fp.VarArgsStage {
		if supplied > fixed {
			return i.raise(runtime.ErrorInvalidCombinatorCall, pos, "variadic arguments of combinator %s must be supplied in the second call", fp.Name)
		}
		return runtime.FunctionPointerValue(fp.WithBound(copied, true))
	} else if supplied < fixed {
		return i.raise(runtime.ErrorInvalidCombinatorCall, pos, "combinator %s is missing %d fixed arguments and can not be called a third time", fp.Name, fixed-supplied)
	}

	all := append(append([]*runtime.DataObject(nil), fp.Bound...), args...)
	return i.invoke(fp, all, pos)
}

// invoke selects the overload for args and runs it.
func (i *Interpreter) invoke(fp *runtime.FunctionPointer, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	fn, ok := runtime.SelectOverload(fp.Functions, args)
	if !ok {
		return i.raise(runtime.ErrorInvalidArguments, pos, "no signature of %s matches (%s), candidates:\n%s", displayName(fp), describeArgs(args), fp.Signatures())
	}
	if !fn.AcceptsCount(len(args)) {
		expected := fmt.Sprintf("%d", len(fn.Params))
		if fn.HasVarArgs() {
			expected = fmt.Sprintf("at least %d", fn.FixedCount())
		}
		return i.raise(runtime.ErrorInvalidArgCount, pos, "%s expects %s arguments, got %d", displayName(fp), expected, len(args))
	}
	return i.invokeFunction(fp, fn, args, pos)
}

func displayName(fp *runtime.FunctionPointer) string {
	if fp.Name == "" {
		return "<anonymous>"
	}
	return fp.Name
}

func describeArgs(args []*runtime.DataObject) string {
	kinds := make([]string, len(args))
	for idx, a := range args {
		kinds[idx] = a.Type().String()
	}
	return strings.Join(kinds, ", ")
}

// invokeFunction runs one selected overload. Parameters are bound in the
// calling scope, so binding errors belong to the caller.
func (i *Interpreter) invokeFunction(fp *runtime.FunctionPointer, fn *runtime.InternalFunction, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	if len(i.callStack) > i.maxCallDepth {
		return i.raise(runtime.ErrorStackOverflow, pos, "maximum call depth of %d exceeded", i.maxCallDepth)
	}
	if d := fp.Deprecation; d != nil {
		msg := fmt.Sprintf("%s is deprecated", displayName(fp))
		if d.RemoveVersion != "" {
			msg += " and will be removed in version " + d.RemoveVersion
		}
		if d.Replacement != "" {
			msg += ", use " + d.Replacement + " instead"
		}
		i.warn(runtime.WarningDeprecatedFuncCall, msg, pos)
	}

	slots, failed := i.bindParameters(fp, fn, args, pos)
	if failed != nil {
		return failed
	}

	if this := fp.This; this != nil {
		prev := this.SetSuperLevel(fn.SuperLevel)
		defer this.SetSuperLevel(prev)
	}

	caller := i.currentFrame()
	frame := StackFrame{Path: caller.Path, File: caller.File, Class: fn.DeclaringClass, Function: fp.Name}
	if fp.Path != "" {
		frame.Path, frame.File = fp.Path, fp.File
	}

	if fn.IsNative() {
		frame.Pos = pos
		i.pushFrame(frame)
		defer i.popFrame()
		return i.invokeNative(fp, fn, slots, pos)
	}

	i.pushFrame(frame)
	defer i.popFrame()
	i.enterScope(true)
	s := i.currentScope()
	if this := fp.This; this != nil {
		if prev, ok := s.vars[thisVariable]; ok && prev.IsStatic() {
			i.warn(runtime.WarningVarShadowing, "&this shadows a static variable", pos)
		}
		s.vars[thisVariable] = boundSlot(thisVariable, runtime.ObjectValue(this))
		if class := this.Class(); class != nil {
			s.vars[thisClassVariable] = boundSlot(thisClassVariable, runtime.ObjectValue(class))
		}
	}
	for idx, p := range fn.Params {
		s.vars[p.Name] = slots[idx]
	}

	i.interpretList(fn.Body)
	value, keep := i.finishCall()
	if err := i.exitScope(); err != nil {
		i.stopFatal(err)
		return nil
	}
	if keep {
		return nil
	}
	return i.checkReturn(fp, fn, value, pos)
}

func boundSlot(name string, value *runtime.DataObject) *runtime.DataObject {
	_ = value.SetVariableName(name)
	value.SetFinal()
	return value
}

// finishCall consumes the signal left by a function body. keep reports that
// the signal must travel further: a fatal stop, an error already intercepted
// by a try statement outside of the function, or a thrown error nothing has
// intercepted yet.
func (i *Interpreter) finishCall() (value *runtime.DataObject, keep bool) {
	st := &i.state
	if st.fatal != nil || (st.stop && st.caught != nil) {
		return nil, true
	}
	if st.stop && st.thrown {
		// Non-try barriers inside the function are gone now. The error keeps
		// its raise depth, so soft-try frames of the caller never see it.
		st.caught = st.intercept(st.raiseDepth)
		return nil, true
	}
	value = st.pending
	st.clearSignal()
	if value == nil {
		value = runtime.Void()
	}
	return value, false
}

func (i *Interpreter) checkReturn(fp *runtime.FunctionPointer, fn *runtime.InternalFunction, value *runtime.DataObject, pos ast.Span) *runtime.DataObject {
	if fn.ReturnConstraint != nil && !fn.ReturnConstraint.Allows(value.Type()) {
		return i.raise(runtime.ErrorIncompatibleDataType, pos, "%s returned %s, which is not allowed by %s", displayName(fp), value.Type(), fn.ReturnConstraint)
	}
	return value
}

func (i *Interpreter) invokeNative(fp *runtime.FunctionPointer, fn *runtime.InternalFunction, args []*runtime.DataObject, pos ast.Span) *runtime.DataObject {
	ctx := &runtime.NativeCallContext{Caller: i, This: fp.This, Name: fp.Name, Pos: pos}
	value, err := fn.Native(ctx, args)
	if i.state.stop {
		return nil
	}
	if err != nil {
		return i.raiseErr(err, pos)
	}
	if value == nil {
		value = runtime.Void()
	}
	return i.checkReturn(fp, fn, value, pos)
}

// bindParameters converts args into one slot per parameter following each
// parameter's binding mode. On failure the raised ERROR value is returned
// instead.
func (i *Interpreter) bindParameters(fp *runtime.FunctionPointer, fn *runtime.InternalFunction, args []*runtime.DataObject, pos ast.Span) ([]*runtime.DataObject, *runtime.DataObject) {
	slots := make([]*runtime.DataObject, len(fn.Params))
	fail := func(kind runtime.ErrorKind, p *runtime.Parameter, format string, a ...any) ([]*runtime.DataObject, *runtime.DataObject) {
		return nil, i.raise(kind, pos, "argument for parameter %s of %s: %s", p.Name, displayName(fp), fmt.Sprintf(format, a...))
	}
	for idx, p := range fn.Params {
		var value *runtime.DataObject
		switch p.Mode {
		case ast.ParamVarArgs:
			rest := args[idx:]
			if p.TextVarArgs() {
				var b strings.Builder
				for _, a := range rest {
					b.WriteString(a.ToText())
				}
				value = runtime.Text(b.String())
				break
			}
			elements := make([]*runtime.DataObject, len(rest))
			for j, a := range rest {
				if p.Constraint != nil && !p.Constraint.Allows(a.Type()) {
					return fail(runtime.ErrorInvalidArguments, p, "%s is not allowed by %s", a.Type(), p.Constraint)
				}
				elements[j] = a.CopyValue()
			}
			value = runtime.Array(elements...)
		case ast.ParamCallByPointer:
			if p.Constraint != nil && !p.Constraint.Allows(args[idx].Type()) {
				return fail(runtime.ErrorInvalidArguments, p, "%s is not allowed by %s", args[idx].Type(), p.Constraint)
			}
			value = runtime.VarPointer(args[idx])
		case ast.ParamBoolean:
			value = runtime.Bool(args[idx].ToBool())
		case ast.ParamNumber:
			value = args[idx].ToNumber()
			if value == nil {
				return fail(runtime.ErrorNoNum, p, "%s is not a number", args[idx].Type())
			}
		case ast.ParamCallable:
			if args[idx].Type() != runtime.TypeFunctionPointer {
				return fail(runtime.ErrorNotCallable, p, "%s is not callable", args[idx].Type())
			}
			value = args[idx].CopyValue()
		default:
			value = args[idx].CopyValue()
		}

		slot := runtime.NewDataObject()
		if err := slot.SetData(value); err != nil {
			return fail(runtime.ErrorInvalidArguments, p, "%v", err)
		}
		if err := slot.SetVariableName(p.Name); err != nil {
			return fail(runtime.ErrorInvalidArguments, p, "%v", err)
		}
		switch p.Mode {
		case ast.ParamVarArgs, ast.ParamCallByPointer:
		default:
			if p.Constraint != nil {
				if err := slot.SetTypeConstraint(p.Constraint); err != nil {
					return fail(runtime.ErrorInvalidArguments, p, "%v", err)
				}
			}
		}
		slots[idx] = slot
	}
	return slots, nil
}
