package ckq

/*
Fluent shortcut for building clause chains, where every step wraps the previous
node as the `.Base` of a `SimpleClause` or `ListClause`. Implements `Node` by
delegating to the current node. Chains are immutable: every method returns a
new chain, so a prefix may be shared.

	Start(`select`, Identifier(`id`)).
		Then(`from`, Identifier(`users`)).
		Then(`where`, Func(`equals`, Identifier(`id`), 10)).
		Then(`limit`, 1)

Rendered as a statement:

	select `id` from `users` where equals(`id`, 10) limit 1
*/
type Chain struct{ node Node }

/*
Starts a chain with an `Initial` made from the given keyword token, followed by
the given operands, if any. See `KeywordFrom` for the token format.
*/
func Start(token string, args ...any) Chain {
	return Chain{Init(token)}.Args(args...)
}

// Continues from an arbitrary existing node.
func ChainFrom(val Node) Chain { return Chain{val} }

// Returns the current node, or nil for a zero chain.
func (self Chain) Node() Node { return self.node }

// Appends a trailing keyword, wrapping the current node in `SimpleClause`.
func (self Chain) Kw(token string) Chain {
	return Chain{Clause(self.node, token)}
}

// Appends operands, wrapping the current node in `ListClause`. Without operands,
// returns the chain unchanged.
func (self Chain) Args(args ...any) Chain {
	if len(args) == 0 {
		return self
	}
	return Chain{ListClause{self.node, args}}
}

// Shortcut for `.Kw(token).Args(args...)`.
func (self Chain) Then(token string, args ...any) Chain {
	return self.Kw(token).Args(args...)
}

// Implement the `Node` interface, making this a sub-expression.
func (self Chain) AppendExpression(text []byte) []byte {
	bui := Bui{text}
	bui.Expression(self.node)
	return bui.Text
}

// Implement the `Node` interface.
func (self Chain) AppendStatement(text []byte) []byte {
	bui := Bui{text}
	bui.Statement(self.node)
	return bui.Text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Chain) String() string { return nodeString(self) }
