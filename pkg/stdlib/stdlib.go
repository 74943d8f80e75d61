// Package stdlib provides the native function table and the host modules
// shipped with the lang command.
package stdlib

import (
	"fmt"
	"io"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/interpreter"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

type native struct {
	name      string
	overloads []*runtime.InternalFunction
}

func param(name string, constraint *runtime.TypeConstraint) *runtime.Parameter {
	return runtime.NewParameter(name, constraint, ast.ParamNormal)
}

func natives() []native {
	value := []*runtime.Parameter{param("$value", nil)}
	return []native{
		{"len", []*runtime.InternalFunction{runtime.MustNativeFunction(value, runtime.AllowOnly(runtime.TypeInt), length)}},
		{"toText", []*runtime.InternalFunction{runtime.MustNativeFunction(value, runtime.AllowOnly(runtime.TypeText), toText)}},
		{"toNumber", []*runtime.InternalFunction{runtime.MustNativeFunction(value, nil, toNumber)}},
		{"toBool", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{runtime.NewParameter("$value", nil, ast.ParamBoolean)},
			runtime.AllowOnly(runtime.TypeInt),
			func(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
				return args[0].CopyValue(), nil
			},
		)}},
		{"typeOf", []*runtime.InternalFunction{runtime.MustNativeFunction(value, runtime.AllowOnly(runtime.TypeType), typeOf)}},
		{"print", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{runtime.NewParameter("$text", nil, ast.ParamVarArgs)}, nil, printer(""),
		)}},
		{"println", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{runtime.NewParameter("$text", nil, ast.ParamVarArgs)}, nil, printer("\n"),
		)}},
		{"getTranslationValue", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{param("$key", runtime.AllowOnly(runtime.TypeText))},
			runtime.AllowOnly(runtime.TypeText),
			translationValue,
		)}},
		{"errorText", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{param("$error", runtime.AllowOnly(runtime.TypeError))},
			runtime.AllowOnly(runtime.TypeText),
			func(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
				return runtime.Text(args[0].ErrorObject().Kind.Description()), nil
			},
		)}},
		{"errorCode", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{param("$error", runtime.AllowOnly(runtime.TypeError))},
			runtime.AllowOnly(runtime.TypeInt),
			func(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
				return runtime.Int(int32(args[0].ErrorObject().Kind)), nil
			},
		)}},
		{"errorMessage", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{param("$error", runtime.AllowOnly(runtime.TypeError))},
			runtime.AllowOnly(runtime.TypeText),
			func(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
				return runtime.Text(args[0].ErrorObject().Message), nil
			},
		)}},
		{"listOf", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{runtime.NewParameter("&values", nil, ast.ParamVarArgs)},
			runtime.AllowOnly(runtime.TypeList),
			func(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
				return runtime.List(args[0].Array()...), nil
			},
		)}},
		{"call", []*runtime.InternalFunction{runtime.MustNativeFunction(
			[]*runtime.Parameter{param("fp.func", nil), runtime.NewParameter("&args", nil, ast.ParamVarArgs)},
			nil,
			call,
		)}},
	}
}

// Register adds the native table to r. Every function is reachable as
// func.<name> and fn.<name>.
func Register(r *interpreter.NativeRegistry) error {
	for _, n := range natives() {
		if err := r.Register(n.name, n.overloads...); err != nil {
			return fmt.Errorf("stdlib: %w", err)
		}
	}
	return nil
}

// Registry returns a fresh registry holding the native table.
func Registry() *interpreter.NativeRegistry {
	r := interpreter.NewNativeRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

func length(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	n := args[0].Len()
	if n < 0 {
		return nil, runtime.NewLangError(runtime.ErrorInvalidArguments, "%s has no length", args[0].Type())
	}
	return runtime.Int(int32(n)), nil
}

func toText(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	return runtime.Text(args[0].ToText()), nil
}

func toNumber(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	n := args[0].ToNumber()
	if n == nil {
		return nil, runtime.NewLangError(runtime.ErrorNoNum, "%s can not be converted to a number", args[0].Type())
	}
	return n, nil
}

func typeOf(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	return runtime.TypeValue(args[0].Type()), nil
}

func printer(suffix string) runtime.NativeHandler {
	return func(ctx *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
		if _, err := io.WriteString(ctx.Caller.Stdout(), args[0].Text()+suffix); err != nil {
			return nil, runtime.NewLangError(runtime.ErrorSystemError, "write output: %v", err)
		}
		return nil, nil
	}
}

func translationValue(ctx *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	key := args[0].Text()
	v, ok := ctx.Caller.Translation(key)
	if !ok {
		return nil, runtime.NewLangError(runtime.ErrorNotFound, "translation %q is not defined", key)
	}
	return runtime.Text(v), nil
}

func call(ctx *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	fp := args[0].FunctionPointer()
	if fp == nil {
		return nil, runtime.NewLangError(runtime.ErrorNotCallable, "%s is not callable", args[0].Type())
	}
	return ctx.Caller.CallFunction(fp, args[1].Array())
}
