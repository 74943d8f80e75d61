package interpreter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

func add(left, right ast.Node) ast.Node {
	return ast.Math(ast.OpAdd, left, right)
}

func TestFunctionCallReturnsValue(t *testing.T) {
	val := mustRun(t, New(),
		ast.Fn("sum", ast.Params(ast.Param("$a"), ast.Param("$b")), ast.Ret(add(ast.Var("$a"), ast.Var("$b")))),
		ast.Call("sum", ast.Int(2), ast.Int(3)),
	)
	expectInt(t, val, 5)
}

func TestFunctionWithoutReturnYieldsVoid(t *testing.T) {
	val := mustRun(t, New(), ast.Fn("nothing", nil), ast.Call("nothing"))
	if val.Type() != runtime.TypeVoid {
		t.Fatalf("expected VOID, got %s", val.Type())
	}
}

func TestArgumentsAreCopied(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Assign(ast.Var("$n"), ast.Int(1)),
		ast.Fn("change", ast.Params(ast.Param("$x")), ast.Assign(ast.Var("$x"), ast.Int(9)), ast.Assign(ast.Var("$n"), ast.Int(9))),
		ast.Call("change", ast.Var("$n")),
	)
	expectInt(t, mustVar(t, interp, "$n"), 1)
}

func TestCallByPointerUpdatesCaller(t *testing.T) {
	interp := New()
	deref := ast.Unary(ast.OpDereference, ast.CategoryGeneral, ast.Var("$x"))
	mustRun(t, interp,
		ast.Assign(ast.Var("$n"), ast.Int(1)),
		ast.Fn("inc", ast.Params(ast.PointerParam("$x")), ast.Assign(deref, add(deref, ast.Int(1)))),
		ast.Call("inc", ast.Var("$n")),
	)
	expectInt(t, mustVar(t, interp, "$n"), 2)
}

func TestVarArgsParameters(t *testing.T) {
	val := mustRun(t, New(),
		ast.Fn("count", ast.Params(ast.Param("$first"), ast.VarArgsParam("&rest")),
			ast.Ret(ast.Unary(ast.OpLen, ast.CategoryGeneral, ast.Var("&rest"))),
		),
		ast.Call("count", ast.Int(1), ast.Int(2), ast.Int(3)),
	)
	expectInt(t, val, 2)

	text := mustRun(t, New(),
		ast.Fn("join", ast.Params(ast.VarArgsParam("$all")), ast.Ret(ast.Var("$all"))),
		ast.Call("join", ast.Txt("a"), ast.Int(1), ast.Chr('b')),
	)
	expectText(t, text, "a1b")
}

func TestSpreadArguments(t *testing.T) {
	val := mustRun(t, New(),
		ast.Fn("sum", ast.Params(ast.Param("$a"), ast.Param("$b")), ast.Ret(add(ast.Var("$a"), ast.Var("$b")))),
		ast.Assign(ast.Var("&pair"), ast.Arr(ast.Int(4), ast.Int(5))),
		ast.Call("sum", ast.Spread(ast.Var("&pair"))),
	)
	expectInt(t, val, 9)
}

func TestArgumentCountMismatch(t *testing.T) {
	rec := &recorder{}
	val := mustRun(t, New(WithReporter(rec)),
		ast.Fn("one", ast.Params(ast.Param("$a"))),
		ast.Call("one", ast.Int(1), ast.Int(2)),
	)
	expectError(t, val, runtime.ErrorInvalidArgCount)
}

func TestTypedParameterRejectsArgument(t *testing.T) {
	val := mustRun(t, New(),
		ast.Fn("onlyInt", ast.Params(ast.TypedParam("$a", "INT"))),
		ast.Call("onlyInt", ast.Txt("x")),
	)
	expectError(t, val, runtime.ErrorInvalidArguments)
}

func TestReturnConstraint(t *testing.T) {
	def := ast.Fn("bad", nil, ast.Ret(ast.Txt("x")))
	def.Overloads[0].ReturnConstraint = ast.Allow("INT")
	val := mustRun(t, New(), def, ast.Call("bad"))
	expectError(t, val, runtime.ErrorIncompatibleDataType)
}

func TestUnknownFunction(t *testing.T) {
	val := mustRun(t, New(), ast.Call("missing"))
	expectError(t, val, runtime.ErrorFunctionNotFound)
}

func TestCallingNonCallable(t *testing.T) {
	val := mustRun(t, New(), ast.Assign(ast.Var("$x"), ast.Int(1)), ast.CallOf(ast.Var("$x")))
	expectError(t, val, runtime.ErrorNotCallable)
}

func TestOverloadSelectionIgnoresDeclarationOrder(t *testing.T) {
	intOverload := func() *ast.FunctionOverload {
		return ast.Overload(ast.Params(ast.TypedParam("$x", "INT")), ast.Ret(ast.Txt("int")))
	}
	anyOverload := func() *ast.FunctionOverload {
		return ast.Overload(ast.Params(ast.Param("$x")), ast.Ret(ast.Txt("any")))
	}
	orders := map[string][]*ast.FunctionOverload{
		"int first": {intOverload(), anyOverload()},
		"any first": {anyOverload(), intOverload()},
	}
	for name, overloads := range orders {
		t.Run(name, func(t *testing.T) {
			interp := New()
			mustRun(t, interp,
				ast.Overloaded("kind", overloads...),
				ast.Assign(ast.Var("$i"), ast.Call("kind", ast.Int(1))),
				ast.Assign(ast.Var("$t"), ast.Call("kind", ast.Txt("a"))),
			)
			expectText(t, mustVar(t, interp, "$i"), "int")
			expectText(t, mustVar(t, interp, "$t"), "any")
		})
	}
}

func TestAmbiguousOverloadsAreRejected(t *testing.T) {
	val := mustRun(t, New(),
		ast.Overloaded("twice",
			ast.Overload(ast.Params(ast.Param("$a"))),
			ast.Overload(ast.Params(ast.Param("$b"))),
		),
	)
	expectError(t, val, runtime.ErrorInvalidArguments)
}

func TestCombinatorCollectsArguments(t *testing.T) {
	interp := New()
	val := mustRun(t, interp,
		ast.Combinator("add3", ast.Params(ast.Param("$a"), ast.Param("$b"), ast.Param("$c")),
			ast.Ret(add(add(ast.Var("$a"), ast.Var("$b")), ast.Var("$c"))),
		),
		ast.Assign(ast.Var("fp.partial"), ast.Call("add3", ast.Int(1))),
		ast.Assign(ast.Var("fp.almost"), ast.CallOf(ast.Var("fp.partial"), ast.Int(2))),
		ast.CallOf(ast.Var("fp.almost"), ast.Int(3)),
	)
	expectInt(t, val, 6)

	again := mustRun(t, interp, ast.CallOf(ast.Var("fp.partial"), ast.Int(10), ast.Int(20)))
	expectInt(t, again, 31)

	tooMany := mustRun(t, interp, ast.CallOf(ast.Var("fp.almost"), ast.Int(3), ast.Int(4)))
	expectError(t, tooMany, runtime.ErrorInvalidArgCount)
}

func TestVarArgsCombinatorStages(t *testing.T) {
	count := ast.Combinator("count", ast.Params(ast.Param("$base"), ast.VarArgsParam("&rest")),
		ast.Ret(add(ast.Var("$base"), ast.Unary(ast.OpLen, ast.CategoryGeneral, ast.Var("&rest")))),
	)

	interp := New()
	val := mustRun(t, interp,
		count,
		ast.Assign(ast.Var("fp.staged"), ast.Call("count", ast.Int(10))),
		ast.CallOf(ast.Var("fp.staged"), ast.Int(1), ast.Int(2), ast.Int(3)),
	)
	expectInt(t, val, 13)

	premature := mustRun(t, interp, ast.Call("count", ast.Int(10), ast.Int(1)))
	expectError(t, premature, runtime.ErrorInvalidCombinatorCall)

	third := mustRun(t, interp,
		ast.Assign(ast.Var("fp.empty"), ast.Call("count")),
		ast.CallOf(ast.Var("fp.empty")),
	)
	expectError(t, third, runtime.ErrorInvalidCombinatorCall)
}

func TestDeprecatedFunctionWarns(t *testing.T) {
	var got []Diagnostic
	interp := New(WithReporter(ReporterFunc(func(d Diagnostic) { got = append(got, d) })))
	def := ast.NewFunctionDefinition("old", []*ast.FunctionOverload{ast.Overload(nil, ast.Ret(ast.Int(1)))}, false,
		&ast.Deprecation{RemoveVersion: "2.0", Replacement: "fp.new"})
	val := mustRun(t, interp, def, ast.Call("old"))
	expectInt(t, val, 1)
	if len(got) != 1 || got[0].Kind != runtime.WarningDeprecatedFuncCall {
		t.Fatalf("expected one deprecation warning, got %v", got)
	}
	want := "old is deprecated and will be removed in version 2.0, use fp.new instead"
	if diff := cmp.Diff(want, got[0].Message); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestRecursionIsBounded(t *testing.T) {
	rec := &recorder{}
	val := mustRun(t, New(WithReporter(rec), WithMaxCallDepth(10)),
		ast.Fn("rec", nil, ast.Ret(ast.Call("rec"))),
		ast.Call("rec"),
	)
	expectError(t, val, runtime.ErrorStackOverflow)
	if diff := cmp.Diff([]string{"STACK_OVERFLOW"}, rec.kinds()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorTraceNamesFunctions(t *testing.T) {
	rec := &recorder{}
	mustRun(t, New(WithReporter(rec), WithSourcePath("/tmp/main.lang")),
		ast.Fn("inner", nil, ast.Math(ast.OpDiv, ast.Int(1), ast.Int(0))),
		ast.Fn("outer", nil, ast.Call("inner")),
		ast.Call("outer"),
	)
	if len(rec.diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", rec.kinds())
	}
	var names []string
	for _, frame := range rec.diags[0].Trace {
		names = append(names, frame.Function)
	}
	if diff := cmp.Diff([]string{"", "outer", "inner"}, names); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestThrowLeavesFunction(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Fn("fail", nil, ast.Raise(ast.Var("$LANG_ERROR_NO_NUM")), ast.Assign(ast.Var("$unreached"), ast.Int(1))),
		ast.Try(ast.TryBody(ast.Call("fail")), ast.Catch(ast.Args(ast.Var("$LANG_ERROR_NO_NUM")), ast.Assign(ast.Var("$caught"), ast.Int(1)))),
	)
	expectInt(t, mustVar(t, interp, "$caught"), 1)
}

func TestDocCommentParamsAreChecked(t *testing.T) {
	rec := &recorder{}
	def := ast.Fn("documented", ast.Params(ast.Param("$a")))
	def.Overloads[0].Doc = "Adds things.\n@param $a first\n@param $b missing"
	mustRun(t, New(WithReporter(rec)), def)
	if diff := cmp.Diff([]string{"INVALID_DOC_COMMENT"}, rec.kinds()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}
