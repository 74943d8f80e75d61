package interpreter

import (
	"errors"
	"testing"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

func TestStructInstances(t *testing.T) {
	interp := New()
	val := mustRun(t, interp,
		ast.StructDef("Pair", ast.Field("$a"), ast.Field("$b")),
		ast.Assign(ast.Var("&p"), ast.Call("&Pair", ast.Int(1), ast.Txt("x"))),
		ast.Assign(ast.Member(ast.Var("&p"), ast.Var("$b")), ast.Txt("y")),
		ast.Member(ast.Var("&p"), ast.Var("$a")),
	)
	expectInt(t, val, 1)

	b := mustRun(t, interp, ast.Member(ast.Var("&p"), ast.Var("$b")))
	expectText(t, b, "y")

	empty := mustRun(t, interp, ast.Member(ast.Call("&Pair"), ast.Var("$a")))
	if empty.Type() != runtime.TypeNull {
		t.Fatalf("expected NULL member, got %s", empty.Type())
	}
}

func TestStructInstanceOfMatchesEqualDefinitions(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.StructDef("A", ast.Field("$a"), ast.Field("$b")),
		ast.StructDef("B", ast.Field("$a"), ast.Field("$b")),
		ast.StructDef("C", ast.Field("$a")),
		ast.Assign(ast.Var("&x"), ast.Call("&A", ast.Int(1), ast.Txt("x"))),
	)
	expectInt(t, mustRun(t, interp, ast.Cond(ast.OpInstanceOf, ast.Var("&x"), ast.Var("&B"))), 1)
	expectInt(t, mustRun(t, interp, ast.Cond(ast.OpInstanceOf, ast.Var("&x"), ast.Var("&C"))), 0)
}

func TestStructInstanceCanNotBeInstantiated(t *testing.T) {
	val := mustRun(t, New(),
		ast.StructDef("Pair", ast.Field("$a"), ast.Field("$b")),
		ast.Assign(ast.Var("&p"), ast.Call("&Pair", ast.Int(1), ast.Int(2))),
		ast.Call("&p", ast.Int(3), ast.Int(4)),
	)
	expectError(t, val, runtime.ErrorIncompatibleDataType)
}

func TestStructMemberConstraints(t *testing.T) {
	interp := New()
	val := mustRun(t, interp,
		ast.StructDef("Point", ast.Field("$x", "INT")),
		ast.Call("&Point", ast.Txt("a")),
	)
	expectError(t, val, runtime.ErrorConstraintViolated)

	missing := mustRun(t, interp, ast.Member(ast.Call("&Point", ast.Int(1)), ast.Var("$y")))
	expectError(t, missing, runtime.ErrorIncompatibleDataType)
}

func TestDuplicateStructMemberIsFatal(t *testing.T) {
	_, err := New().Interpret(ast.Prog(ast.StructDef("Bad", ast.Field("$a"), ast.Field("$a"))))
	var defErr *runtime.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected *runtime.DefinitionError, got %v", err)
	}
}

func TestSuperDispatchesToParentMethod(t *testing.T) {
	interp := New()
	val := mustRun(t, interp,
		ast.ClassDef("A").WithMethod("mp.m", false, ast.Fn("", nil, ast.Ret(ast.Int(1)))),
		ast.ClassDef("B", ast.Var("&A")).WithMethod("mp.m", true, ast.Fn("", nil,
			ast.Ret(add(ast.SuperCall("mp.m"), ast.Int(1))),
		)),
		ast.Assign(ast.Var("&b"), ast.Call("&B")),
		ast.MethodCall(ast.Var("&b"), "mp.m"),
	)
	expectInt(t, val, 2)

	viaAlias := mustRun(t, interp, ast.CallOf(ast.Member(ast.Var("&b"), ast.Var("fp.m"))))
	expectInt(t, viaAlias, 2)

	isA := mustRun(t, interp, ast.Cond(ast.OpInstanceOf, ast.Var("&b"), ast.Var("&A")))
	expectInt(t, isA, 1)
}

func TestOverrideMustBeDeclared(t *testing.T) {
	_, err := New().Interpret(ast.Prog(
		ast.ClassDef("A").WithMethod("mp.m", false, ast.Fn("", nil)),
		ast.ClassDef("B", ast.Var("&A")).WithMethod("mp.m", false, ast.Fn("", nil)),
	))
	var defErr *runtime.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected *runtime.DefinitionError, got %v", err)
	}
}

func TestStaticMemberCollisionIsFatal(t *testing.T) {
	interp := New()
	_, err := interp.Interpret(ast.Prog(
		ast.ClassDef("C").WithStatic("$x", ast.Int(1)).WithMember("$x", nil, false),
		ast.Assign(ast.Var("$after"), ast.Int(1)),
	))
	var defErr *runtime.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected *runtime.DefinitionError, got %v", err)
	}
	if _, ok := interp.Variable("$after"); ok {
		t.Fatalf("expected evaluation to stop at the definition")
	}
}

func TestConstructorsAndStatics(t *testing.T) {
	interp := New()
	counter := ast.ClassDef("Counter").
		WithStatic("$created", ast.Int(0)).
		WithMember("$value", nil, false).
		WithConstructor(ast.Fn("", ast.Params(ast.Param("$start")),
			ast.Assign(ast.Member(ast.Var("&this"), ast.Var("$value")), ast.Var("$start")),
			ast.Assign(ast.Member(ast.Var("&Counter"), ast.Var("$created")), add(ast.Member(ast.Var("&Counter"), ast.Var("$created")), ast.Int(1))),
		)).
		WithMethod("mp.get", false, ast.Fn("", nil, ast.Ret(ast.Member(ast.Var("&this"), ast.Var("$value")))))
	mustRun(t, interp,
		counter,
		ast.Assign(ast.Var("&c1"), ast.Call("&Counter", ast.Int(5))),
		ast.Assign(ast.Var("&c2"), ast.Call("&Counter", ast.Int(6))),
	)
	expectInt(t, mustRun(t, interp, ast.MethodCall(ast.Var("&c1"), "mp.get")), 5)
	expectInt(t, mustRun(t, interp, ast.MethodCall(ast.Var("&c2"), "mp.get")), 6)
	expectInt(t, mustRun(t, interp, ast.Member(ast.Var("&Counter"), ast.Var("$created"))), 2)

	wrongArgs := mustRun(t, interp, ast.Call("&Counter"))
	expectError(t, wrongArgs, runtime.ErrorInvalidArgCount)
}

func TestObjectsAreNotCallable(t *testing.T) {
	interp := New()
	val := mustRun(t, interp,
		ast.ClassDef("A"),
		ast.Assign(ast.Var("&a"), ast.Call("&A")),
		ast.CallOf(ast.Var("&a")),
	)
	expectError(t, val, runtime.ErrorNotCallable)

	ctor := mustRun(t, interp, ast.MethodCall(ast.Var("&a"), "construct"))
	expectError(t, ctor, runtime.ErrorInvalidArguments)
}

func TestMemberVisibility(t *testing.T) {
	secret := ast.ClassDef("Secret").
		WithMethod("mp.reveal", false, ast.Fn("", nil, ast.Ret(ast.Member(ast.Var("&this"), ast.Var("$hidden"))))).
		WithConstructor(ast.Fn("", nil, ast.Assign(ast.Member(ast.Var("&this"), ast.Var("$hidden")), ast.Int(42))))
	secret.Members = append(secret.Members, &ast.ClassMember{Name: "$hidden", Visibility: ast.VisibilityPrivate})

	interp := New()
	val := mustRun(t, interp,
		secret,
		ast.Assign(ast.Var("&s"), ast.Call("&Secret")),
		ast.Assign(ast.Var("$revealed"), ast.MethodCall(ast.Var("&s"), "mp.reveal")),
		ast.Member(ast.Var("&s"), ast.Var("$hidden")),
	)
	expectError(t, val, runtime.ErrorMemberNotAccessible)
	expectInt(t, mustVar(t, interp, "$revealed"), 42)
}

func TestProtectedMembersReachSubclasses(t *testing.T) {
	base := ast.ClassDef("Base").
		WithConstructor(ast.Fn("", nil, ast.Assign(ast.Member(ast.Var("&this"), ast.Var("$shared")), ast.Int(7))))
	base.Members = append(base.Members, &ast.ClassMember{Name: "$shared", Visibility: ast.VisibilityProtected})
	derived := ast.ClassDef("Derived", ast.Var("&Base")).
		WithConstructor(ast.Fn("", nil, ast.SuperCall("construct"))).
		WithMethod("mp.peek", false, ast.Fn("", nil, ast.Ret(ast.Member(ast.Var("&this"), ast.Var("$shared")))))

	interp := New()
	val := mustRun(t, interp,
		base,
		derived,
		ast.Assign(ast.Var("&d"), ast.Call("&Derived")),
		ast.MethodCall(ast.Var("&d"), "mp.peek"),
	)
	expectInt(t, val, 7)

	outside := mustRun(t, interp, ast.Member(ast.Var("&d"), ast.Var("$shared")))
	expectError(t, outside, runtime.ErrorMemberNotAccessible)
}

func TestSuperOutsideOfMethod(t *testing.T) {
	val := mustRun(t, New(), ast.SuperCall("mp.m"))
	expectError(t, val, runtime.ErrorInvalidArguments)
}

func TestOptionalMemberAccess(t *testing.T) {
	val := mustRun(t, New(), ast.NewOperation(ast.OpOptionalMemberAccess, ast.CategoryGeneral, ast.Null(), nil, ast.Var("$x")))
	if val.Type() != runtime.TypeNull {
		t.Fatalf("expected NULL, got %s", val.Type())
	}
}
