package ckq

import "testing"

func Test_Box(t *testing.T) {
	ident := Identifier(`1`)

	eq(t, Value{1}, Box(1))
	eq(t, TryExpression(Value{1}), TryExpression(Box(1)))
	eq(t, Node(ident), Box(ident))
	eq(t, Value{nil}, Box(nil))
	eq(t, Box(Box(1)), Box(1))

	t.Run(`nil node pointer`, func(t *testing.T) {
		eq(t, Value{(*Value)(nil)}, Box((*Value)(nil)))
		testNode(t, `null`, `select null`, Box((*Call)(nil)))
	})

	t.Run(`empty non-pointer node`, func(t *testing.T) {
		eq(t, Node(Initial(nil)), Box(Initial(nil)))
		eq(t, Node(ListClause{}), Box(ListClause{}))

		_, err := Statement(List(Init(`select`), Initial(nil)))
		testErr(t, ErrMalformedKeyword, `keyword has no words`, err)
	})
}

func Test_Unbox(t *testing.T) {
	ident := Identifier(`1`)

	eq(t, 1, Unbox(Value{1}))
	eq(t, 2, Unbox(&Value{2}))
	eq(t, any(ident), Unbox(ident))
	eq(t, nil, Unbox(Value{}))
	eq(t, nil, Unbox(nil))
	eq(t, `one`, Unbox(Box(`one`)))
}

func Test_Value(t *testing.T) {
	testNode(t, `1`, `select 1`, Value{1})
	testNode(t, `array('1', 2, 3)`, `select array('1', 2, 3)`, Value{list{`1`, 2, 3}})
	testNode(t, `null`, `select null`, Value{})
	testNode(t, `*`, `select *`, Value{Star{}})
	testNodeAppend(t, Value{`one`})

	t.Run(`unsupported`, func(t *testing.T) {
		_, err := Expression(Value{struct{}{}})
		testErr(t, ErrUnsupportedValue, `struct {}`, err)

		_, err = Statement(Value{struct{}{}})
		testErr(t, ErrUnsupportedValue, `struct {}`, err)
	})
}

func Test_Identifier(t *testing.T) {
	testNode(t, "`test`", "select `test`", Identifier(`test`))
	testNode(t, "`test\\``", "select `test\\``", Identifier("test`"))
	testNode(t, "``", "select ``", Identifier(``))
	testNode(t, "`one\\ntwo\\0`", "select `one\\ntwo\\0`", Identifier("one\ntwo\x00"))
	testNode(t, "`it's`", "select `it's`", Identifier(`it's`))
	testNodeAppend(t, Identifier(`one`))
}

func Test_Call(t *testing.T) {
	call := Call{Raw(`test`), nil}

	testNode(t, `test()`, `select test()`, call)
	testNode(t, `test()`, `select test()`, Func(`test`))
	testNode(
		t,
		"`test`(1, test())",
		"select `test`(1, test())",
		Call{Identifier(`test`), list{Value{1}, call}},
	)

	t.Run(`raw arguments are boxed`, func(t *testing.T) {
		testNode(t, "plus(1, `x`)", "select plus(1, `x`)", Func(`plus`, 1, Identifier(`x`)))
		testNode(t, `count(*)`, `select count(*)`, Func(`count`, Star{}))
		testNode(t, `f(null, 'a', array())`, `select f(null, 'a', array())`, Func(`f`, nil, `a`, list{}))
	})

	t.Run(`clause arguments are parenthesized`, func(t *testing.T) {
		testNode(
			t,
			"in(`x`, (select 1))",
			"select in(`x`, (select 1))",
			Func(`in`, Identifier(`x`), List(Init(`select`), 1)),
		)
	})

	t.Run(`identifier callee is escaped`, func(t *testing.T) {
		testNode(t, "`a\\`b`()", "select `a\\`b`()", Call{Identifier("a`b"), nil})
	})

	t.Run(`missing callee`, func(t *testing.T) {
		_, err := Expression(Call{})
		testErr(t, ErrInvalidInput, `call without a function`, err)

		_, err = Statement(Call{Args: list{1}})
		testErr(t, ErrInvalidInput, `call without a function`, err)
	})

	t.Run(`unsupported argument`, func(t *testing.T) {
		_, err := Statement(Func(`f`, 1, make(chan int)))
		testErr(t, ErrUnsupportedValue, `chan int`, err)
	})

	testNodeAppend(t, Func(`f`, 1, 2))
}

func Test_Initial(t *testing.T) {
	testNode(t, `(test)`, `test`, Initial{`test`})
	testNode(t, `(test)`, `test`, Init(`test`))
	testNode(t, `(test test)`, `test test`, Init(`__test__test__`))
	testNode(t, `(insert into)`, `insert into`, Init(`insert_into`))
	testNodeAppend(t, Init(`select`))

	t.Run(`malformed`, func(t *testing.T) {
		_, err := Statement(Init(``))
		testErr(t, ErrMalformedKeyword, `keyword has no words`, err)

		_, err = Expression(Initial{`select;`})
		testErr(t, ErrMalformedKeyword, `unexpected ';'`, err)

		_, err = Statement(Initial{`one two`})
		testErr(t, ErrMalformedKeyword, `unexpected ' '`, err)
	})
}

func Test_SimpleClause(t *testing.T) {
	initial := Init(`select`)

	testNode(t, `(select test)`, `select test`, SimpleClause{initial, Kw(`test`)})
	testNode(t, `(select test test)`, `select test test`, Clause(initial, `__test__test__`))
	testNode(
		t,
		`(select distinct 1)`,
		`select distinct 1`,
		List(Clause(initial, `distinct`), 1),
	)
	testNodeAppend(t, Clause(initial, `distinct`))

	t.Run(`nested clauses are flattened in statements`, func(t *testing.T) {
		testNode(t, `(select a b)`, `select a b`, Clause(Clause(initial, `a`), `b`))
	})

	t.Run(`missing base`, func(t *testing.T) {
		_, err := Statement(Clause(nil, `test`))
		testErr(t, ErrInvalidInput, `unexpected nil node`, err)
	})

	t.Run(`malformed keyword`, func(t *testing.T) {
		_, err := Statement(SimpleClause{initial, Keyword{`--`}})
		testErr(t, ErrMalformedKeyword, `not a single plain SQL token`, err)

		_, err = Statement(Clause(initial, ``))
		testErr(t, ErrMalformedKeyword, `keyword has no words`, err)
	})
}

func Test_ListClause(t *testing.T) {
	initial := Init(`select`)
	empty := ListClause{initial, nil}

	testNode(t, `(select)`, `select`, empty)
	testNode(t, `(select)`, `select`, ListClause{initial, list{}})
	testNode(t, `(select 1, (select))`, `select 1, (select)`, ListClause{initial, list{Value{1}, empty}})
	testNode(t, `(select 1, (select))`, `select 1, (select)`, List(initial, 1, empty))
	testNodeAppend(t, List(initial, 1, 2))

	t.Run(`mixed operands`, func(t *testing.T) {
		testNode(
			t,
			"(select `id`, count(*), 'one')",
			"select `id`, count(*), 'one'",
			List(initial, Identifier(`id`), Func(`count`, Star{}), `one`),
		)
	})

	t.Run(`missing base`, func(t *testing.T) {
		_, err := Expression(List(nil, 1))
		testErr(t, ErrInvalidInput, `unexpected nil node`, err)
	})
}

func Test_Expression_nil(t *testing.T) {
	eq(t, `null`, TryExpression(nil))
	eq(t, `select null`, TryStatement(nil))
}

func Test_Chain(t *testing.T) {
	testNode(
		t,
		"(select `id` from `users` where equals(`id`, 10) limit 1)",
		"select `id` from `users` where equals(`id`, 10) limit 1",
		Start(`select`, Identifier(`id`)).
			Then(`from`, Identifier(`users`)).
			Then(`where`, Func(`equals`, Identifier(`id`), 10)).
			Then(`limit`, 1),
	)

	testNode(t, `(select)`, `select`, Start(`select`))
	testNode(t, `(select distinct 1)`, `select distinct 1`, Start(`select`).Kw(`distinct`).Args(1))
	testNode(t, `(select 1 format TSV)`, `select 1 format TSV`, Start(`select`, 1).Kw(`format TSV`))
	testNode(t, `(select 1, 2)`, `select 1, 2`, ChainFrom(List(Init(`select`), 1)).Args(2))

	t.Run(`node`, func(t *testing.T) {
		eq(t, Node(Init(`select`)), Start(`select`).Node())
		eq(t, Node(ListClause{Init(`select`), list{1}}), Start(`select`, 1).Node())
		eq(t, nil, Chain{}.Node())
	})

	t.Run(`immutable`, func(t *testing.T) {
		base := Start(`select`, 1)
		one := base.Then(`from`, Identifier(`one`))
		two := base.Then(`from`, Identifier(`two`))

		eq(t, `select 1`, TryStatement(base))
		eq(t, "select 1 from `one`", TryStatement(one))
		eq(t, "select 1 from `two`", TryStatement(two))
	})

	t.Run(`nested`, func(t *testing.T) {
		inner := Start(`select`, Identifier(`id`)).Then(`from`, Identifier(`users`))
		testNode(
			t,
			"(select count(*) from (select `id` from `users`))",
			"select count(*) from (select `id` from `users`)",
			Start(`select`, Func(`count`, Star{})).Then(`from`, inner),
		)
	})

	t.Run(`zero`, func(t *testing.T) {
		eq(t, `null`, TryExpression(Chain{}))

		_, err := Statement(Chain{})
		testErr(t, ErrInvalidInput, `unexpected nil node`, err)
	})
}
