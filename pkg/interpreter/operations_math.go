package interpreter

import (
	"math"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

// mathOperand returns v as a number. Text and chars are converted, every
// other non-numeric kind yields nil.
func mathOperand(v *runtime.DataObject) *runtime.DataObject {
	if v == nil {
		return nil
	}
	switch v.Type() {
	case runtime.TypeInt, runtime.TypeLong, runtime.TypeFloat, runtime.TypeDouble:
		return v
	case runtime.TypeChar, runtime.TypeText:
		return v.ToNumber()
	default:
		return nil
	}
}

func isIntegralType(t runtime.DataType) bool {
	return t == runtime.TypeInt || t == runtime.TypeLong
}

// integralValue returns an INT or LONG value as int64.
func integralValue(v *runtime.DataObject) (int64, bool) {
	if v == nil || !isIntegralType(v.Type()) {
		return 0, false
	}
	return v.Int64()
}

// promote returns the wider of two numeric kinds: INT < LONG < FLOAT < DOUBLE.
func promote(a, b runtime.DataType) runtime.DataType {
	if a > b {
		return a
	}
	return b
}

func unaryMath(op ast.Operator, x *runtime.DataObject) (*runtime.DataObject, error) {
	switch x.Type() {
	case runtime.TypeInt:
		v, err := unaryIntegral(op, x.Int())
		return runtime.Int(v), err
	case runtime.TypeLong:
		v, err := unaryIntegral(op, x.Long())
		return runtime.Long(v), err
	case runtime.TypeFloat:
		v, err := unaryFloating(op, x.Float())
		return runtime.Float(v), err
	default:
		v, err := unaryFloating(op, x.Double())
		return runtime.Double(v), err
	}
}

func unaryIntegral[T int32 | int64](op ast.Operator, x T) (T, error) {
	switch op {
	case ast.OpInv:
		return -x, nil
	case ast.OpBitwiseNot:
		return ^x, nil
	case ast.OpInc:
		return x + 1, nil
	case ast.OpDec:
		return x - 1, nil
	default:
		return x, nil
	}
}

func unaryFloating[T float32 | float64](op ast.Operator, x T) (T, error) {
	switch op {
	case ast.OpInv:
		return -x, nil
	case ast.OpBitwiseNot:
		return 0, runtime.NewLangError(runtime.ErrorIncompatibleDataType, "bitwise not requires an integral number")
	case ast.OpInc:
		return x + 1, nil
	case ast.OpDec:
		return x - 1, nil
	default:
		return x, nil
	}
}

// binaryMath applies op to two numbers after promoting them to the wider kind.
func binaryMath(op ast.Operator, x, y *runtime.DataObject) (*runtime.DataObject, error) {
	switch promote(x.Type(), y.Type()) {
	case runtime.TypeInt:
		a, _ := x.Int64()
		b, _ := y.Int64()
		return integralMath(op, int32(a), int32(b), 32, runtime.Int, func(f float64) *runtime.DataObject {
			return runtime.Float(float32(f))
		})
	case runtime.TypeLong:
		a, _ := x.Int64()
		b, _ := y.Int64()
		return integralMath(op, a, b, 64, runtime.Long, runtime.Double)
	case runtime.TypeFloat:
		a, _ := x.Float64()
		b, _ := y.Float64()
		return floatingMath(op, float32(a), float32(b), runtime.Float)
	default:
		a, _ := x.Float64()
		b, _ := y.Float64()
		return floatingMath(op, a, b, runtime.Double)
	}
}

// integralMath computes op for INT or LONG operands. Results wrap on
// overflow; an inexact division and a negative exponent produce the
// floating kind built by inexact.
func integralMath[T int32 | int64](op ast.Operator, x, y T, bits uint, wrap func(T) *runtime.DataObject, inexact func(float64) *runtime.DataObject) (*runtime.DataObject, error) {
	divByZero := func() (*runtime.DataObject, error) {
		return nil, runtime.NewLangError(runtime.ErrorDivByZero, "integer division by 0")
	}
	shift := uint(y) & uint(bits-1)
	switch op {
	case ast.OpAdd:
		return wrap(x + y), nil
	case ast.OpSub:
		return wrap(x - y), nil
	case ast.OpMul:
		return wrap(x * y), nil
	case ast.OpDiv:
		if y == 0 {
			return divByZero()
		}
		if x%y == 0 {
			return wrap(x / y), nil
		}
		return inexact(float64(x) / float64(y)), nil
	case ast.OpTruncDiv:
		if y == 0 {
			return divByZero()
		}
		return wrap(x / y), nil
	case ast.OpFloorDiv:
		if y == 0 {
			return divByZero()
		}
		q := x / y
		if x%y != 0 && (x < 0) != (y < 0) {
			q--
		}
		return wrap(q), nil
	case ast.OpCeilDiv:
		if y == 0 {
			return divByZero()
		}
		q := x / y
		if x%y != 0 && (x < 0) == (y < 0) {
			q++
		}
		return wrap(q), nil
	case ast.OpMod:
		if y == 0 {
			return divByZero()
		}
		return wrap(x % y), nil
	case ast.OpPow:
		if y < 0 {
			return inexact(math.Pow(float64(x), float64(y))), nil
		}
		result := T(1)
		for base, exp := x, y; exp > 0; exp >>= 1 {
			if exp&1 == 1 {
				result *= base
			}
			base *= base
		}
		return wrap(result), nil
	case ast.OpBitwiseAnd:
		return wrap(x & y), nil
	case ast.OpBitwiseOr:
		return wrap(x | y), nil
	case ast.OpBitwiseXor:
		return wrap(x ^ y), nil
	case ast.OpLShift:
		return wrap(x << shift), nil
	case ast.OpRShift:
		return wrap(x >> shift), nil
	case ast.OpRZShift:
		if bits == 32 {
			return wrap(T(uint32(x) >> shift)), nil
		}
		return wrap(T(uint64(x) >> shift)), nil
	default:
		return nil, runtime.NewLangError(runtime.ErrorInvalidASTNode, "%s is not a binary math operator", op)
	}
}

func floatingMath[T float32 | float64](op ast.Operator, x, y T, wrap func(T) *runtime.DataObject) (*runtime.DataObject, error) {
	switch op {
	case ast.OpAdd:
		return wrap(x + y), nil
	case ast.OpSub:
		return wrap(x - y), nil
	case ast.OpMul:
		return wrap(x * y), nil
	case ast.OpDiv:
		return wrap(x / y), nil
	case ast.OpTruncDiv:
		return wrap(T(math.Trunc(float64(x / y)))), nil
	case ast.OpFloorDiv:
		return wrap(T(math.Floor(float64(x / y)))), nil
	case ast.OpCeilDiv:
		return wrap(T(math.Ceil(float64(x / y)))), nil
	case ast.OpMod:
		return wrap(T(math.Mod(float64(x), float64(y)))), nil
	case ast.OpPow:
		return wrap(T(math.Pow(float64(x), float64(y)))), nil
	case ast.OpBitwiseAnd, ast.OpBitwiseOr, ast.OpBitwiseXor, ast.OpLShift, ast.OpRShift, ast.OpRZShift:
		return nil, runtime.NewLangError(runtime.ErrorIncompatibleDataType, "%s requires integral numbers", op)
	default:
		return nil, runtime.NewLangError(runtime.ErrorInvalidASTNode, "%s is not a binary math operator", op)
	}
}
