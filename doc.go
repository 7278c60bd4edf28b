/*
CKQ: literal encoder and tiny syntax tree for ClickHouse-style queries. Oriented
towards text: every node renders itself to query text, with every value encoded
as a literal. There's no parameter binding and no driver; the text is meant to
be sent as-is, for example over the HTTP interface or to the command-line
client. See the sibling package `cksess` for sending queries.

Key Features

• Deterministic literal encoding for strings, binary data, numbers, sequences,
sets and maps. Unsupported values are rejected, never guessed.

• Identifiers are always quoted with backticks and escaped.

• Every node has an expression form, safe to embed in a larger expression, and
a statement form, suitable for sending to the database.

• Raw values and nodes can be freely mixed in function arguments and clause
operands. See `Box`.

• Keywords are validated: no injection through clause tokens.

Examples

	ckq.TryStatement(ckq.Start(`select`, ckq.Func(`count`, ckq.Star{})).
		Then(`from`, ckq.Identifier(`events`)).
		Then(`where`, ckq.Func(`in`, ckq.Identifier(`kind`), []string{`a`, `b`})))

	// select count(*) from `events` where in(`kind`, array('a', 'b'))

See `EscapeValue`, `Call`, `ListClause` and `Chain` for more examples.
*/
package ckq
