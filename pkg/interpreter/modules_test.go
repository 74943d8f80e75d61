package interpreter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

func doubleFunction() *runtime.FunctionPointer {
	fn := runtime.MustNativeFunction(
		[]*runtime.Parameter{runtime.NewParameter("$x", runtime.AllowOnly(runtime.TypeInt), ast.ParamNormal)},
		nil,
		func(_ *runtime.NativeCallContext, args []*runtime.DataObject) (*runtime.DataObject, error) {
			return runtime.Int(args[0].Int() * 2), nil
		},
	)
	return runtime.NewFunctionPointer("fp.double", fn)
}

func testModule() *StaticModule {
	return &StaticModule{
		ModuleName: "numbers",
		Vars:       map[string]*runtime.DataObject{"$answer": runtime.Int(42)},
		Funcs:      map[string]*runtime.FunctionPointer{"fp.double": doubleFunction()},
	}
}

func TestModuleExportsAreVisible(t *testing.T) {
	interp := New()
	if err := interp.LoadModule(testModule()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectInt(t, mustRun(t, interp, ast.Var("$answer")), 42)
	expectInt(t, mustRun(t, interp, ast.Call("double", ast.Int(4))), 8)
	expectInt(t, mustRun(t, interp, ast.CallOf(ast.Var("fp.double"), ast.Int(5))), 10)
	if diff := cmp.Diff([]string{"numbers"}, interp.Modules()); diff != "" {
		t.Fatalf("modules mismatch (-want +got):\n%s", diff)
	}
}

func TestScopeVariablesShadowModules(t *testing.T) {
	interp := New()
	if err := interp.LoadModule(testModule()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectInt(t, mustRun(t, interp, ast.Assign(ast.Var("$answer"), ast.Int(1)), ast.Var("$answer")), 1)
}

func TestLoadModuleRejectsCollisions(t *testing.T) {
	interp := New()
	if err := interp.LoadModule(testModule()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		name string
		mod  Module
	}{
		{"same name", testModule()},
		{"exported variable", &StaticModule{ModuleName: "other", Vars: map[string]*runtime.DataObject{"$answer": runtime.Int(1)}}},
		{"exported function", &StaticModule{ModuleName: "other", Funcs: map[string]*runtime.FunctionPointer{"fp.double": doubleFunction()}}},
		{"reserved variable", &StaticModule{ModuleName: "other", Vars: map[string]*runtime.DataObject{"$LANG_X": runtime.Int(1)}}},
		{"invalid variable", &StaticModule{ModuleName: "other", Vars: map[string]*runtime.DataObject{"answer": runtime.Int(1)}}},
		{"missing name", &StaticModule{}},
	}
	for _, tc := range tests {
		if err := interp.LoadModule(tc.mod); err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
	}
}

func TestUnloadModule(t *testing.T) {
	interp := New()
	if err := interp.LoadModule(testModule()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !interp.UnloadModule("numbers") {
		t.Fatalf("expected module to be unloaded")
	}
	if interp.UnloadModule("numbers") {
		t.Fatalf("expected second unload to report false")
	}
	expectError(t, mustRun(t, interp, ast.Var("$answer")), runtime.ErrorNotFound)
	expectError(t, mustRun(t, interp, ast.Call("double", ast.Int(1))), runtime.ErrorFunctionNotFound)
}

func TestNativeRegistry(t *testing.T) {
	registry := NewNativeRegistry()
	hello := runtime.MustNativeFunction(nil, nil, func(ctx *runtime.NativeCallContext, _ []*runtime.DataObject) (*runtime.DataObject, error) {
		return runtime.Text("hello from " + ctx.Name), nil
	})
	if err := registry.Register("func.hello", hello); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := registry.Register("fn.hello", hello); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register("empty"); err == nil {
		t.Fatalf("expected a registration without signature to fail")
	}
	if diff := cmp.Diff([]string{"func.hello"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	interp := New(WithNatives(registry))
	expectText(t, mustRun(t, interp, ast.Call("func.hello")), "hello from func.hello")
	expectText(t, mustRun(t, interp, ast.Call("fn.hello")), "hello from func.hello")
	if val := mustRun(t, interp, ast.Var("fn.hello")); val.Type() != runtime.TypeFunctionPointer {
		t.Fatalf("expected a function pointer, got %s", val.Type())
	}
	expectError(t, mustRun(t, interp, ast.Call("func.missing")), runtime.ErrorFunctionNotFound)
}

func TestNativeErrorsAreRaised(t *testing.T) {
	registry := NewNativeRegistry()
	registry.MustRegister("fail", runtime.MustNativeFunction(nil, nil, func(*runtime.NativeCallContext, []*runtime.DataObject) (*runtime.DataObject, error) {
		return nil, runtime.NewLangError(runtime.ErrorNoNum, "not a number")
	}))
	interp := New(WithNatives(registry))
	mustRun(t, interp,
		ast.Try(ast.TryBody(ast.Call("func.fail")), ast.Catch(ast.Args(ast.Var("$LANG_ERROR_NO_NUM")), ast.Assign(ast.Var("$caught"), ast.Int(1)))),
	)
	expectInt(t, mustVar(t, interp, "$caught"), 1)
}

func TestHostCallFunction(t *testing.T) {
	interp := New()
	mustRun(t, interp, ast.Fn("square", ast.Params(ast.Param("$x")), ast.Ret(ast.Math(ast.OpMul, ast.Var("$x"), ast.Var("$x")))))
	slot := mustVar(t, interp, "fp.square")
	val, err := interp.CallFunction(slot.FunctionPointer(), []*runtime.DataObject{runtime.Int(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectInt(t, val, 49)
}
