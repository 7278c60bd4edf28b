package ckq

import "strconv"

/*
Wildcard sentinel. Encoded as `*`, for example in `count(*)`:

	Call{Raw(`count`), []any{Star{}}}
*/
type Star struct{}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Star) Append(text []byte) []byte { return append(text, `*`...) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Star) String() string { return `*` }

/*
Fixed-size sequence, encoded as `tuple(...)`. Elements may be any values
supported by `EscapeValue`. Go arrays are encoded the same way.
*/
type Tuple []any

// Implement the `Appender` interface. Panics on unsupported elements.
func (self Tuple) Append(text []byte) []byte {
	text = append(text, `tuple(`...)
	for ind, val := range self {
		if ind > 0 {
			text = append(text, `, `...)
		}
		text = appendValue(text, val)
	}
	return append(text, `)`...)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Tuple) String() string { return AppenderString(self) }

/*
Arithmetic range, encoded as `range(start, stop, step)`. Unlike other values,
the bounds are always integers.
*/
type Range struct {
	Start int64
	Stop  int64
	Step  int64
}

// Shortcut for a range from zero with step 1.
func RangeTo(stop int64) Range { return Range{0, stop, 1} }

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Range) Append(text []byte) []byte {
	text = append(text, `range(`...)
	text = strconv.AppendInt(text, self.Start, 10)
	text = append(text, `, `...)
	text = strconv.AppendInt(text, self.Stop, 10)
	text = append(text, `, `...)
	text = strconv.AppendInt(text, self.Step, 10)
	return append(text, `)`...)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Range) String() string { return AppenderString(self) }

/*
Ordered mapping. Encoded like a map, as `array(tuple(key, val), ...)`, but
keeps the given order instead of sorting the keys.
*/
type Entries [][2]any

// Implement the `Appender` interface. Panics on unsupported keys or values.
func (self Entries) Append(text []byte) []byte {
	text = append(text, `array(`...)
	for ind, val := range self {
		if ind > 0 {
			text = append(text, `, `...)
		}
		text = Tuple(val[:]).Append(text)
	}
	return append(text, `)`...)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Entries) String() string { return AppenderString(self) }

/*
Tiny shortcut for encoding an `Appender` implementation to a string by using its
`.Append` method, without paying for a string-to-byte conversion.
*/
func AppenderString(val Appender) string {
	if val != nil {
		return bytesToMutableString(val.Append(nil))
	}
	return ``
}
