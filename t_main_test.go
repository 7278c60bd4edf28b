package ckq

import (
	"errors"
	"fmt"
	r "reflect"
	"runtime"
	"strings"
	"testing"
)

type list = []any

func testNode(t testing.TB, expExpr, expStmt string, val Node) {
	t.Helper()

	eq(t, expExpr, string(val.AppendExpression(nil)))
	eq(t, expStmt, string(val.AppendStatement(nil)))
	eq(t, expExpr, TryExpression(val))
	eq(t, expStmt, TryStatement(val))

	impl, _ := val.(fmt.Stringer)
	if impl != nil {
		eq(t, expExpr, impl.String())
	}
}

// Appending must never modify the existing prefix.
func testNodeAppend(t testing.TB, val Node) {
	t.Helper()

	const prefix = `prefix `
	buf := make([]byte, 0, 1024)
	buf = append(buf, prefix...)

	eq(t, prefix+TryExpression(val), string(val.AppendExpression(buf)))
	eq(t, prefix+TryStatement(val), string(val.AppendStatement(buf)))
}

func testValue(t testing.TB, exp string, val any) {
	t.Helper()
	eq(t, exp, TryEscapeValue(val))
	eq(t, exp, string(TryAppendValue(nil, val)))
	eq(t, exp, TryExpression(Value{val}))
	eq(t, `select `+exp, TryStatement(Value{val}))
}

func testErr(t testing.TB, exp error, msg string, err error) {
	t.Helper()

	if err == nil {
		t.Fatalf(`expected an error matching %v, found nil`, exp)
	}
	if !errors.Is(err, exp) {
		t.Fatalf(`expected an error matching %v, found %v`, exp, err)
	}
	if !strings.Contains(err.Error(), msg) {
		t.Fatalf(`expected an error containing %q, found %q`, msg, err.Error())
	}
}

func eq(t testing.TB, exp, act any) {
	t.Helper()
	if !r.DeepEqual(exp, act) {
		t.Fatalf(`
expected (detailed):
	%#[1]v
actual (detailed):
	%#[2]v
expected (simple):
	%[1]v
actual (simple):
	%[2]v
`, exp, act)
	}
}

func notEq(t testing.TB, exp, act any) {
	t.Helper()
	if r.DeepEqual(exp, act) {
		t.Fatalf(`
unexpected equality (detailed):
	%#[1]v
unexpected equality (simple):
	%[1]v
`, exp, act)
	}
}

func panics(t testing.TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected %v to panic, found no panic`, funcName(fun))
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(
			`expected %v to panic with a message containing %q, found %q`,
			funcName(fun), msg, str,
		)
	}
}

func funcName(val any) string {
	return runtime.FuncForPC(r.ValueOf(val).Pointer()).Name()
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }
