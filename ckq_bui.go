package ckq

// Prealloc tool. Makes a `Bui` with the specified text capacity.
func MakeBui(textCap int) Bui {
	return Bui{make([]byte, 0, textCap)}
}

/*
Short for "builder". Tiny shortcut for rendering syntax trees. Used internally
by every `Node` implementation in this package. Methods of `Bui` panic on
unsupported values and malformed keywords, like the `Node` methods they call.
Use `(*Bui).Catch` to convert such panics to errors.
*/
type Bui struct {
	Text []byte
}

// Returns inner text as a string, performing a free cast.
func (self Bui) String() string {
	return bytesToMutableString(self.Text)
}

// Increases the capacity (not length) of the text buffer by the specified
// amount. If there's already enough capacity, avoids allocation.
func (self *Bui) Grow(size int) {
	self.Text = growBytes(self.Text, size)
}

// Appends the provided string as-is.
func (self *Bui) Str(val string) {
	self.Text = append(self.Text, val...)
}

// Appends the text representation of an `Appender` such as `Keyword`.
func (self *Bui) Appender(val Appender) {
	if val != nil {
		self.Text = val.Append(self.Text)
	}
}

// Appends the expression form of the node. Nil input is rendered as "null".
func (self *Bui) Expression(val Node) {
	if val == nil {
		self.Text = appendNull(self.Text)
		return
	}
	self.Text = val.AppendExpression(self.Text)
}

// Appends the statement form of the node. Panics on nil input.
func (self *Bui) Statement(val Node) {
	if val == nil {
		panic(errInvalidInput(`rendering statement`, errNilNode))
	}
	self.Text = val.AppendStatement(self.Text)
}

/*
Appends an arbitrary value or node in expression form. Raw values are boxed
via `Box`, which means they're encoded as literals.
*/
func (self *Bui) Any(val any) {
	self.Expression(Box(val))
}

// Appends comma-separated values or nodes, each via `(*Bui).Any`.
func (self *Bui) Comma(vals []any) {
	for ind, val := range vals {
		if ind > 0 {
			self.Str(`, `)
		}
		self.Any(val)
	}
}

/*
Appends the parenthesized statement form of the node. This is how clauses
render themselves as sub-expressions.
*/
func (self *Bui) SubStatement(val Node) {
	self.Str(`(`)
	self.Statement(val)
	self.Str(`)`)
}

// Calls the function, converting panics with errors into returned errors.
func (self *Bui) Catch(fun func(*Bui)) (err error) {
	defer rec(&err)
	fun(self)
	return
}

// Copied from `github.com/mitranim/gax` and tested there.
func growBytes(prev []byte, size int) []byte {
	len, cap := len(prev), cap(prev)
	if cap-len >= size {
		return prev
	}

	next := make([]byte, len, 2*cap+size)
	copy(next, prev)
	return next
}
