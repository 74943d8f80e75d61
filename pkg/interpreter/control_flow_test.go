package interpreter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/ast"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/runtime"
)

func increment(name string) ast.Node {
	return ast.Assign(ast.Var(name), ast.Math(ast.OpAdd, ast.Var(name), ast.Int(1)))
}

func TestIfStatementPicksFirstTruthyBranch(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.If(
			ast.When(ast.Cond(ast.OpLessThan, ast.Int(2), ast.Int(1)), ast.Assign(ast.Var("$branch"), ast.Txt("first"))),
			ast.When(ast.Cond(ast.OpEquals, ast.Int(2), ast.Int(2)), ast.Assign(ast.Var("$branch"), ast.Txt("second"))),
			ast.Otherwise(ast.Assign(ast.Var("$branch"), ast.Txt("else"))),
		),
	)
	expectText(t, mustVar(t, interp, "$branch"), "second")
}

func TestBreakLeavesNestedLoops(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Assign(ast.Var("$count"), ast.Int(0)),
		ast.Loop(ast.Repeat(ast.Var("$i"), ast.Int(3),
			ast.Loop(ast.Repeat(ast.Var("$j"), ast.Int(3),
				ast.If(ast.When(ast.Cond(ast.OpEquals, ast.Var("$j"), ast.Int(1)), ast.Break(ast.Int(2)))),
				increment("$count"),
			)),
		)),
	)
	expectInt(t, mustVar(t, interp, "$count"), 1)
	expectInt(t, mustVar(t, interp, "$i"), 0)
}

func TestContinueSkipsRestOfIteration(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Assign(ast.Var("$odd"), ast.Int(0)),
		ast.Loop(ast.Repeat(ast.Var("$i"), ast.Int(4),
			ast.If(ast.When(ast.Cond(ast.OpEquals, ast.Math(ast.OpMod, ast.Var("$i"), ast.Int(2)), ast.Int(0)), ast.Continue(nil))),
			increment("$odd"),
		)),
	)
	expectInt(t, mustVar(t, interp, "$odd"), 2)
}

func TestContinueOuterLoop(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Assign(ast.Var("$inner"), ast.Int(0)),
		ast.Assign(ast.Var("$outer"), ast.Int(0)),
		ast.Loop(ast.Repeat(ast.Var("$i"), ast.Int(3),
			ast.Loop(ast.Repeat(ast.Var("$j"), ast.Int(3),
				increment("$inner"),
				ast.Continue(ast.Int(2)),
			)),
			increment("$outer"),
		)),
	)
	expectInt(t, mustVar(t, interp, "$inner"), 3)
	expectInt(t, mustVar(t, interp, "$outer"), 0)
}

func TestInvalidBreakLevel(t *testing.T) {
	rec := &recorder{}
	interp := New(WithReporter(rec))
	mustRun(t, interp, ast.Loop(ast.Repeat(nil, ast.Int(1), ast.Break(ast.Int(0)))))
	if diff := cmp.Diff([]string{"INVALID_ARGUMENTS"}, rec.kinds()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestWhileAndUntilLoops(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Assign(ast.Var("$w"), ast.Int(0)),
		ast.Loop(ast.While(ast.Cond(ast.OpLessThan, ast.Var("$w"), ast.Int(5)), increment("$w"))),
		ast.Assign(ast.Var("$u"), ast.Int(0)),
		ast.Loop(ast.Until(ast.Cond(ast.OpGreaterThanOrEquals, ast.Var("$u"), ast.Int(3)), increment("$u"))),
	)
	expectInt(t, mustVar(t, interp, "$w"), 5)
	expectInt(t, mustVar(t, interp, "$u"), 3)
}

func TestForEachOverArrayAndText(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Assign(ast.Var("$sum"), ast.Int(0)),
		ast.Loop(ast.ForEach(ast.Var("$e"), ast.Arr(ast.Int(1), ast.Int(2), ast.Int(3)),
			ast.Assign(ast.Var("$sum"), ast.Math(ast.OpAdd, ast.Var("$sum"), ast.Var("$e"))),
		)),
		ast.Assign(ast.Var("$chars"), ast.Int(0)),
		ast.Loop(ast.ForEach(ast.Var("$c"), ast.Txt("abcd"), increment("$chars"))),
	)
	expectInt(t, mustVar(t, interp, "$sum"), 6)
	expectInt(t, mustVar(t, interp, "$chars"), 4)
}

func TestNegativeRepeatCount(t *testing.T) {
	rec := &recorder{}
	mustRun(t, New(WithReporter(rec)), ast.Loop(ast.Repeat(nil, ast.Int(-1))))
	if diff := cmp.Diff([]string{"NEGATIVE_REPEAT_COUNT"}, rec.kinds()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestLoopElseRunsWithoutIterations(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Loop(ast.While(ast.Int(0), ast.Assign(ast.Var("$body"), ast.Int(1))), ast.LoopElseBody(ast.Assign(ast.Var("$empty"), ast.Int(1)))),
		ast.Loop(ast.Repeat(nil, ast.Int(1), ast.Assign(ast.Var("$ran"), ast.Int(1))), ast.LoopElseBody(ast.Assign(ast.Var("$skipped"), ast.Int(1)))),
	)
	expectInt(t, mustVar(t, interp, "$empty"), 1)
	expectInt(t, mustVar(t, interp, "$ran"), 1)
	for _, name := range []string{"$body", "$skipped"} {
		if _, ok := interp.Variable(name); ok {
			t.Fatalf("expected %s to stay undefined", name)
		}
	}
}

func TestTryCatchesMatchingError(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Try(
			ast.TryBody(ast.Math(ast.OpDiv, ast.Int(1), ast.Int(0)), ast.Assign(ast.Var("$after"), ast.Int(1))),
			ast.Catch(ast.Args(ast.Var("$LANG_ERROR_NO_NUM")), ast.Assign(ast.Var("$wrong"), ast.Int(1))),
			ast.Catch(ast.Args(ast.Var("$LANG_ERROR_INDEX_OUT_OF_BOUNDS"), ast.Var("$LANG_ERROR_DIV_BY_ZERO")), ast.Assign(ast.Var("$caught"), ast.Int(1))),
		),
	)
	expectInt(t, mustVar(t, interp, "$caught"), 1)
	for _, name := range []string{"$after", "$wrong"} {
		if _, ok := interp.Variable(name); ok {
			t.Fatalf("expected %s to stay undefined", name)
		}
	}
}

func TestTryWithoutMatchingCatchRethrows(t *testing.T) {
	interp := New()
	_, err := interp.Interpret(ast.Prog(
		ast.Try(
			ast.TryBody(ast.Math(ast.OpDiv, ast.Int(1), ast.Int(0))),
			ast.Catch(ast.Args(ast.Var("$LANG_ERROR_NO_NUM"))),
		),
	))
	uncaught, ok := err.(*UncaughtError)
	if !ok {
		t.Fatalf("expected *UncaughtError, got %v", err)
	}
	if uncaught.Kind() != runtime.ErrorDivByZero {
		t.Fatalf("expected DIV_BY_ZERO, got %s", uncaught.Kind())
	}
}

func TestTryElseRunsWithoutError(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Try(
			ast.TryBody(ast.Assign(ast.Var("$a"), ast.Int(1))),
			ast.Catch(nil, ast.Assign(ast.Var("$b"), ast.Int(1))),
			ast.TryElseBody(ast.Assign(ast.Var("$c"), ast.Int(1))),
		),
	)
	expectInt(t, mustVar(t, interp, "$c"), 1)
	if _, ok := interp.Variable("$b"); ok {
		t.Fatalf("expected catch part to be skipped")
	}
}

func TestSoftTryOnlyCatchesItsOwnBody(t *testing.T) {
	divide := ast.Fn("divide", nil, ast.Math(ast.OpDiv, ast.Int(1), ast.Int(0)))

	t.Run("direct", func(t *testing.T) {
		interp := New()
		mustRun(t, interp,
			ast.Try(ast.SoftTryBody(ast.Math(ast.OpDiv, ast.Int(1), ast.Int(0))), ast.Catch(nil, ast.Assign(ast.Var("$caught"), ast.Int(1)))),
		)
		expectInt(t, mustVar(t, interp, "$caught"), 1)
	})

	t.Run("nested call", func(t *testing.T) {
		rec := &recorder{}
		interp := New(WithReporter(rec))
		mustRun(t, interp,
			divide,
			ast.Try(ast.SoftTryBody(ast.Call("divide"), ast.Assign(ast.Var("$after"), ast.Int(1))), ast.Catch(nil, ast.Assign(ast.Var("$caught"), ast.Int(1)))),
		)
		if _, ok := interp.Variable("$caught"); ok {
			t.Fatalf("expected the soft try to ignore errors of nested calls")
		}
		expectInt(t, mustVar(t, interp, "$after"), 1)
		if diff := cmp.Diff([]string{"DIV_BY_ZERO"}, rec.kinds()); diff != "" {
			t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("outer try", func(t *testing.T) {
		interp := New()
		mustRun(t, interp,
			divide,
			ast.Try(
				ast.TryBody(
					ast.Try(ast.SoftTryBody(ast.Call("divide")), ast.Catch(nil, ast.Assign(ast.Var("$inner"), ast.Int(1)))),
				),
				ast.Catch(nil, ast.Assign(ast.Var("$outer"), ast.Int(1))),
			),
		)
		if _, ok := interp.Variable("$inner"); ok {
			t.Fatalf("expected the soft try not to catch")
		}
		expectInt(t, mustVar(t, interp, "$outer"), 1)
	})

	thrower := ast.Fn("thrower", nil, ast.Raise(ast.Var("$LANG_ERROR_DIV_BY_ZERO")))

	t.Run("nested throw", func(t *testing.T) {
		rec := &recorder{}
		interp := New(WithReporter(rec))
		_, err := interp.Interpret(ast.Prog(
			thrower,
			ast.Try(ast.SoftTryBody(ast.Call("thrower")), ast.Catch(nil, ast.Assign(ast.Var("$caught"), ast.Int(1)))),
		))
		var uncaught *UncaughtError
		if !errors.As(err, &uncaught) || uncaught.Kind() != runtime.ErrorDivByZero {
			t.Fatalf("expected an uncaught DIV_BY_ZERO, got %v", err)
		}
		if _, ok := interp.Variable("$caught"); ok {
			t.Fatalf("expected the soft try to ignore errors thrown by nested calls")
		}
		if diff := cmp.Diff([]string{"DIV_BY_ZERO"}, rec.kinds()); diff != "" {
			t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nested throw with outer try", func(t *testing.T) {
		interp := New()
		mustRun(t, interp,
			thrower,
			ast.Try(
				ast.TryBody(
					ast.Try(ast.SoftTryBody(ast.Call("thrower")), ast.Catch(nil, ast.Assign(ast.Var("$inner"), ast.Int(1)))),
				),
				ast.Catch(nil, ast.Assign(ast.Var("$outer"), ast.Int(1))),
			),
		)
		if _, ok := interp.Variable("$inner"); ok {
			t.Fatalf("expected the soft try not to catch")
		}
		expectInt(t, mustVar(t, interp, "$outer"), 1)
	})
}

func TestNonTryShieldsOuterTry(t *testing.T) {
	rec := &recorder{}
	interp := New(WithReporter(rec))
	mustRun(t, interp,
		ast.Try(
			ast.TryBody(
				ast.Try(ast.NonTryBody(ast.Math(ast.OpDiv, ast.Int(1), ast.Int(0)), ast.Assign(ast.Var("$after"), ast.Int(1)))),
			),
			ast.Catch(nil, ast.Assign(ast.Var("$caught"), ast.Int(1))),
		),
	)
	expectInt(t, mustVar(t, interp, "$after"), 1)
	if _, ok := interp.Variable("$caught"); ok {
		t.Fatalf("expected the error to pass the outer try")
	}
	if diff := cmp.Diff([]string{"DIV_BY_ZERO"}, rec.kinds()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestNonTryThrowReachesCallerTry(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Fn("shielded", nil,
			ast.Try(ast.NonTryBody(ast.Raise(ast.Var("$LANG_ERROR_NO_NUM")))),
		),
		ast.Try(ast.TryBody(ast.Call("shielded")), ast.Catch(nil, ast.Assign(ast.Var("$caught"), ast.Int(1)))),
	)
	expectInt(t, mustVar(t, interp, "$caught"), 1)
}

func TestFinallyKeepsPendingReturn(t *testing.T) {
	interp := New()
	val := mustRun(t, interp,
		ast.Fn("f", nil, ast.Try(ast.TryBody(ast.Ret(ast.Int(1))), ast.Finally(ast.Assign(ast.Var("$local"), ast.Int(2))))),
		ast.Call("f"),
	)
	expectInt(t, val, 1)

	val = mustRun(t, New(),
		ast.Fn("g", nil, ast.Try(ast.TryBody(ast.Ret(ast.Int(1))), ast.Finally(ast.Ret(ast.Int(3))))),
		ast.Call("g"),
	)
	expectInt(t, val, 3)
}

func TestFinallyRunsAfterCatch(t *testing.T) {
	interp := New()
	mustRun(t, interp,
		ast.Assign(ast.Var("$log"), ast.Txt("")),
		ast.Try(
			ast.TryBody(ast.Raise(ast.Var("$LANG_ERROR_NO_NUM"))),
			ast.Catch(nil, ast.Assign(ast.Var("$log"), ast.Math(ast.OpAdd, ast.Var("$log"), ast.Txt("catch;")))),
			ast.Finally(ast.Assign(ast.Var("$log"), ast.Math(ast.OpAdd, ast.Var("$log"), ast.Txt("finally;")))),
		),
	)
	expectText(t, mustVar(t, interp, "$log"), "catch;finally;")
}
