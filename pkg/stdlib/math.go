package stdlib

import (
	"math"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/interpreter"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// MathModuleName is the name the math module is loaded under.
const MathModuleName = "math"

func number(name string) *runtime.Parameter {
	return runtime.NewParameter(name, nil, ast.ParamNumber)
}

// MathModule exports $PI, $E and the fp.abs, fp.min, fp.max and fp.sqrt
// functions.
func MathModule() *interpreter.StaticModule {
	pi := runtime.Double(math.Pi)
	pi.SetFinal()
	e := runtime.Double(math.E)
	e.SetFinal()

	return &interpreter.StaticModule{
		ModuleName: MathModuleName,
		Vars: map[string]*runtime.DataObject{
			"$PI": pi,
			"$E":  e,
		},
		Funcs: map[string]*runtime.FunctionPointer{
			"fp.abs": runtime.NewFunctionPointer("fp.abs", runtime.MustNativeFunction(
				[]*runtime.Parameter{number("$x")}, nil, abs,
			)),
			"fp.min": runtime.NewFunctionPointer("fp.min", runtime.MustNativeFunction(
				[]*runtime.Parameter{number("$a"), number("$b")}, nil, pick(-1),
			)),
			"fp.max": runtime.NewFunctionPointer("fp.max", runtime.MustNativeFunction(
				[]*runtime.Parameter{number("$a"), number("$b")}, nil, pick(1),
			)),
			"fp.sqrt": runtime.NewFunctionPointer("fp.sqrt", runtime.MustNativeFunction(
				[]*runtime.Parameter{number("$x")}, runtime.AllowOnly(runtime.TypeDouble), sqrt,
			)),
		},
	}
}

func abs(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	x := args[0]
	switch x.Type() {
	case runtime.TypeInt:
		if v := x.Int(); v < 0 {
			return runtime.Int(-v), nil
		}
	case runtime.TypeLong:
		if v := x.Long(); v < 0 {
			return runtime.Long(-v), nil
		}
	case runtime.TypeFloat:
		return runtime.Float(float32(math.Abs(float64(x.Float())))), nil
	case runtime.TypeDouble:
		return runtime.Double(math.Abs(x.Double())), nil
	}
	return x.CopyValue(), nil
}

// pick returns the argument whose comparison with the other one equals want.
func pick(want int) runtime.NativeHandler {
	return func(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
		a, b := args[0], args[1]
		c, ok := runtime.Compare(a, b)
		if !ok {
			return nil, runtime.NewLangError(runtime.ErrorNoNum, "%s and %s can not be compared", a.Type(), b.Type())
		}
		if c == want || c == 0 {
			return a.CopyValue(), nil
		}
		return b.CopyValue(), nil
	}
}

func sqrt(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
	x, _ := args[0].Float64()
	if x < 0 {
		return nil, runtime.NewLangError(runtime.ErrorInvalidArguments, "square root of negative number %s", args[0].ToText())
	}
	return runtime.Double(math.Sqrt(x)), nil
}
