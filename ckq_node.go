package ckq

const selectPrefix = `select `

/*
Returns the input as-is if it already implements `Node`, otherwise wraps it in
`Value`. This is what allows raw values and nodes to be freely mixed as
arguments of `Call` and `ListClause`. Idempotent. Nil pointers to nodes are
wrapped like any other nil, and render as "null". Other nodes are returned
as-is even when empty, such as `Initial(nil)`.
*/
func Box(val any) Node {
	impl, _ := val.(Node)
	if impl != nil && !isNilPointer(impl) {
		return impl
	}
	return Value{val}
}

/*
Inverse of `Box`. If the node is a `Value`, returns its payload. Otherwise
returns the node as-is. Doesn't recurse into composite nodes.
*/
func Unbox(val Node) any {
	switch val := val.(type) {
	case Value:
		return val[0]
	case *Value:
		if val != nil {
			return val[0]
		}
	}
	return val
}

/*
Leaf node wrapping a single value, rendered as a literal via `EscapeValue`.
Panics when rendering a value of an unsupported type.

	Value{[]any{`1`, 2, 3}}.String() == `array('1', 2, 3)`
*/
type Value [1]any

// Implement the `Node` interface, making this a sub-expression.
func (self Value) AppendExpression(text []byte) []byte {
	return appendValue(text, self[0])
}

// Implement the `Node` interface. Prepends "select".
func (self Value) AppendStatement(text []byte) []byte {
	return self.AppendExpression(append(text, selectPrefix...))
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Value) String() string { return nodeString(self) }

/*
Leaf node representing a column, table or function name. Always quoted with
backticks, escaped via `EscapeText`.

	Identifier("some`name").String() == "`some\\`name`"
*/
type Identifier string

// Implement the `Node` interface, making this a sub-expression.
func (self Identifier) AppendExpression(text []byte) []byte {
	return AppendText(text, string(self), quoteGrave)
}

// Implement the `Node` interface. Prepends "select".
func (self Identifier) AppendStatement(text []byte) []byte {
	return self.AppendExpression(append(text, selectPrefix...))
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Identifier) String() string { return nodeString(self) }

func (self Identifier) appendCallee(text []byte) []byte {
	return self.AppendExpression(text)
}

/*
Function name used verbatim as a `Callee`, without quoting or escaping.
Intended for built-in functions such as "count" or "toDate". Never pass
user input here; use `Identifier` instead.
*/
type Raw string

func (self Raw) appendCallee(text []byte) []byte { return append(text, self...) }

/*
Composite node representing a function call. Arguments may be arbitrary nodes
or raw values; raw values are boxed. Panics when rendering without a callee.

	Call{Raw(`test`), nil}.String()                        == `test()`
	Call{Identifier(`test`), []any{1, Func(`test`)}}.String() == "`test`(1, test())"
*/
type Call struct {
	Func Callee
	Args []any
}

// Shortcut for calling a built-in function by its raw name.
func Func(name string, args ...any) Call { return Call{Raw(name), args} }

// Implement the `Node` interface, making this a sub-expression.
func (self Call) AppendExpression(text []byte) []byte {
	if self.Func == nil {
		panic(errInvalidInput(`rendering call`, errNilCallee))
	}

	bui := Bui{self.Func.appendCallee(text)}
	bui.Str(`(`)
	bui.Comma(self.Args)
	bui.Str(`)`)
	return bui.Text
}

// Implement the `Node` interface. Prepends "select".
func (self Call) AppendStatement(text []byte) []byte {
	return self.AppendExpression(append(text, selectPrefix...))
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Call) String() string { return nodeString(self) }

/*
Leaf node that begins a clause chain, such as "select" or "insert into".
As a statement, renders the keyword as-is. As an expression, parenthesizes it.
See `Keyword` for the rules.
*/
type Initial Keyword

// Shortcut for `Initial(KeywordFrom(token))`.
func Init(token string) Initial { return Initial(KeywordFrom(token)) }

// Implement the `Node` interface, making this a sub-expression.
func (self Initial) AppendExpression(text []byte) []byte {
	bui := Bui{text}
	bui.SubStatement(self)
	return bui.Text
}

// Implement the `Node` interface.
func (self Initial) AppendStatement(text []byte) []byte {
	return Keyword(self).Append(text)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Initial) String() string { return nodeString(self) }

/*
Composite node representing a clause followed by a trailing keyword, such as
an ordering direction or a join kind:

	SimpleClause{Init(`select`), Kw(`distinct`)}.String() == `(select distinct)`
*/
type SimpleClause struct {
	Base    Node
	Keyword Keyword
}

// Shortcut for `SimpleClause{base, KeywordFrom(token)}`.
func Clause(base Node, token string) SimpleClause {
	return SimpleClause{base, KeywordFrom(token)}
}

// Implement the `Node` interface, making this a sub-expression.
func (self SimpleClause) AppendExpression(text []byte) []byte {
	bui := Bui{text}
	bui.SubStatement(self)
	return bui.Text
}

// Implement the `Node` interface.
func (self SimpleClause) AppendStatement(text []byte) []byte {
	bui := Bui{text}
	bui.Statement(self.Base)
	bui.Str(` `)
	bui.Appender(self.Keyword)
	return bui.Text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self SimpleClause) String() string { return nodeString(self) }

/*
Composite node representing a clause followed by a comma-separated list of
operands, such as selected columns or grouping keys. Operands may be arbitrary
nodes or raw values; raw values are boxed. Nested clauses are parenthesized:

	ListClause{Init(`select`), []any{1, List(Init(`select`))}}.String() == `(select 1, (select))`
*/
type ListClause struct {
	Base Node
	Args []any
}

// Shortcut for `ListClause{base, args}`.
func List(base Node, args ...any) ListClause { return ListClause{base, args} }

// Implement the `Node` interface, making this a sub-expression.
func (self ListClause) AppendExpression(text []byte) []byte {
	bui := Bui{text}
	bui.SubStatement(self)
	return bui.Text
}

// Implement the `Node` interface. Without operands, this is just the base.
func (self ListClause) AppendStatement(text []byte) []byte {
	bui := Bui{text}
	bui.Statement(self.Base)
	if len(self.Args) > 0 {
		bui.Str(` `)
		bui.Comma(self.Args)
	}
	return bui.Text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self ListClause) String() string { return nodeString(self) }

func nodeString(val Node) string {
	return bytesToMutableString(val.AppendExpression(nil))
}
