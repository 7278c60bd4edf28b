package ckq

/*
Syntax tree node. Every node has two textual projections:

	* Expression: safe to embed inside a larger expression. Clauses are
	  parenthesized. Leaves such as values and identifiers are rendered as-is.

	* Statement: valid only as a complete top-level statement. Never wrapped in
	  parens. Bare values, identifiers and calls are preceded by "select",
	  because the query language doesn't accept a bare expression as a
	  statement.

Both methods append to the provided buffer and return the result. They are
allowed to panic with an `Err`, for example when a `Value` holds a value of an
unsupported type. Use `Expression` and `Statement` to catch those panics and
convert them to errors.

All `Node` types in this package also implement `fmt.Stringer`.
*/
type Node interface {
	AppendExpression([]byte) []byte
	AppendStatement([]byte) []byte
}

/*
Function reference used by `Call`. Implemented only by `Raw`, which is used
verbatim, and by `Identifier`, which is quoted and escaped.
*/
type Callee interface {
	appendCallee([]byte) []byte
}

/*
Appends a text representation. Implemented by `Keyword` and by the literal
wrappers in this package.
*/
type Appender interface {
	Append([]byte) []byte
}

/*
Renders the node as a sub-expression. Returns an error instead of panicking
when the tree contains an unsupported value or a malformed keyword. Nil input
renders as "null".
*/
func Expression(val Node) (out string, err error) {
	defer rec(&err)
	if val == nil {
		return Value{}.String(), nil
	}
	return bytesToMutableString(val.AppendExpression(nil)), nil
}

/*
Renders the node as a complete statement, suitable for sending to the
database. No terminator is appended. Returns an error instead of panicking
when the tree contains an unsupported value or a malformed keyword.
*/
func Statement(val Node) (out string, err error) {
	defer rec(&err)
	if val == nil {
		val = Value{}
	}
	return bytesToMutableString(val.AppendStatement(nil)), nil
}

// Variant of `Expression` that panics on error.
func TryExpression(val Node) string { return try1(Expression(val)) }

// Variant of `Statement` that panics on error.
func TryStatement(val Node) string { return try1(Statement(val)) }
