package ckq

import "testing"

func Test_Bui(t *testing.T) {
	bui := MakeBui(64)
	eq(t, 0, len(bui.Text))
	eq(t, 64, cap(bui.Text))

	bui.Str(`select `)
	bui.Comma(list{1, Identifier(`id`), `one`, nil})
	bui.Str(` from `)
	bui.Expression(Identifier(`users`))
	eq(t, "select 1, `id`, 'one', null from `users`", bui.String())

	t.Run(`grow`, func(t *testing.T) {
		bui := Bui{[]byte(`one`)}
		bui.Grow(1024)
		eq(t, `one`, bui.String())
		eq(t, true, cap(bui.Text) >= 1024+3)
	})

	t.Run(`sub-statement`, func(t *testing.T) {
		var bui Bui
		bui.SubStatement(List(Init(`select`), 1))
		eq(t, `(select 1)`, bui.String())
	})

	t.Run(`appender`, func(t *testing.T) {
		var bui Bui
		bui.Appender(Kw(`group_by`))
		bui.Appender(nil)
		bui.Str(` `)
		bui.Appender(RangeTo(2))
		eq(t, `group by range(0, 2, 1)`, bui.String())
	})

	t.Run(`nil`, func(t *testing.T) {
		var bui Bui
		bui.Expression(nil)
		eq(t, `null`, bui.String())

		panics(t, `unexpected nil node`, func() { bui.Statement(nil) })
	})
}

func TestBui_Catch(t *testing.T) {
	var bui Bui

	eq(t, nil, bui.Catch(func(bui *Bui) { bui.Any(1) }))
	eq(t, `1`, bui.String())

	err := bui.Catch(func(bui *Bui) { bui.Any(make(chan int)) })
	testErr(t, ErrUnsupportedValue, `chan int`, err)

	err = bui.Catch(func(bui *Bui) { bui.Statement(Init(`drop;`)) })
	testErr(t, ErrMalformedKeyword, `unexpected ';'`, err)
}
