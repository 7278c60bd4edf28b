package ckq

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	r "reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/*
Returns a quoted string literal. Within the body, NUL becomes `\0`, backslash
becomes `\\`, newline becomes `\n`, and the quote character is preceded by a
backslash. Everything else, including non-ASCII text, is passed through
unchanged. The quote must be an ASCII character, otherwise this panics.

	EscapeText("it's", '\'') == `'it\'s'`
*/
func EscapeText(src string, quote byte) string {
	return bytesToMutableString(AppendText(make([]byte, 0, len(src)+2), src, quote))
}

// Append-style variant of `EscapeText`.
func AppendText(buf []byte, src string, quote byte) []byte {
	reqQuote(`escaping text`, quote)
	buf = append(buf, quote)
	for ind := 0; ind < len(src); ind++ {
		buf = appendEscapedByte(buf, src[ind], quote, false)
	}
	return append(buf, quote)
}

/*
Same as `EscapeText`, but for binary data. Additionally, any byte outside of
printable ASCII that isn't covered by the text rules is encoded as `\x`
followed by two lowercase hexadecimal digits.

	EscapeBuffer([]byte("\xff"), '\'') == `'\xff'`
*/
func EscapeBuffer(src []byte, quote byte) string {
	return bytesToMutableString(AppendBuffer(make([]byte, 0, len(src)+2), src, quote))
}

// Append-style variant of `EscapeBuffer`.
func AppendBuffer(buf []byte, src []byte, quote byte) []byte {
	reqQuote(`escaping buffer`, quote)
	buf = append(buf, quote)
	for _, char := range src {
		buf = appendEscapedByte(buf, char, quote, true)
	}
	return append(buf, quote)
}

func appendEscapedByte(buf []byte, char, quote byte, hex bool) []byte {
	switch {
	case char == 0:
		return append(buf, escapeChar, '0')
	case char == escapeChar:
		return append(buf, escapeChar, escapeChar)
	case char == '\n':
		return append(buf, escapeChar, 'n')
	case char == quote:
		return append(buf, escapeChar, quote)
	case hex && (char < printableMin || char > printableMax):
		return append(buf, escapeChar, 'x', hexDigits[char>>4], hexDigits[char&0xf])
	default:
		return append(buf, char)
	}
}

func reqQuote(while string, quote byte) {
	if quote > printableMax {
		panic(errInvalidInput(while, fmt.Errorf(`expected ASCII quote character, got byte 0x%02x`, quote)))
	}
}

// Variant of `EscapeValue` that panics on error.
func TryEscapeValue(src any) string { return try1(EscapeValue(src)) }

/*
Returns the literal representation of an arbitrary value. Never guesses:
values of unsupported types produce an error matching `ErrUnsupportedValue`.
Supports ONLY the following, in this order of priority:

	* nil, nil pointer          -> null
	* `Star`                    -> *
	* bool                      -> false | true
	* integers                  -> decimal text
	* floats                    -> shortest round-trip text: 123.0, 1e+16, inf, -inf, nan
	* complex numbers           -> tuple(<real>, <imag>)
	* slices                    -> array(...)
	* `Tuple`, arrays           -> tuple(...)
	* `Range`                   -> range(start, stop, step)
	* strings                   -> `EscapeText` with single quotes
	* byte slices, byte arrays  -> `EscapeBuffer` with single quotes
	* sets (`map[K]struct{}`)   -> array(...) in canonical key order
	* maps                      -> array(tuple(key, val), ...) in canonical key order
	* `Entries`                 -> array(tuple(key, val), ...) in the given order

Additionally supports `decimal.Decimal`, `uuid.UUID` and `time.Time`, which
are encoded as conversion calls such as `toUUID('...')`. Non-nil pointers are
dereferenced.

Values that implement `Node` are rejected: they're not literals. Use `Box` to
mix values and nodes.
*/
func EscapeValue(src any) (string, error) {
	out, err := AppendValue(nil, src)
	return bytesToMutableString(out), err
}

// Variant of `AppendValue` that panics on error.
func TryAppendValue(buf []byte, src any) []byte { return try1(AppendValue(buf, src)) }

// Append-style variant of `EscapeValue`. On error, returns the buffer as-is.
func AppendValue(buf []byte, src any) (out []byte, err error) {
	out = buf
	defer rec(&err)
	return appendValue(buf, src), nil
}

func appendValue(buf []byte, src any) []byte {
	switch val := src.(type) {
	case nil:
		return appendNull(buf)
	case Star:
		return val.Append(buf)
	case bool:
		return strconv.AppendBool(buf, val)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case float64:
		return appendFloat(buf, val, 64)
	case string:
		return AppendText(buf, val, quoteSingle)
	case []byte:
		return AppendBuffer(buf, val, quoteSingle)
	case Tuple:
		return val.Append(buf)
	case Range:
		return val.Append(buf)
	case Entries:
		return val.Append(buf)
	case decimal.Decimal:
		return appendDecimal(buf, val)
	case uuid.UUID:
		return appendUuid(buf, val)
	case time.Time:
		return appendTime(buf, val)
	default:
		return appendRval(buf, r.ValueOf(src))
	}
}

func appendRval(buf []byte, val r.Value) []byte {
	val = valueDeref(val)
	if !val.IsValid() {
		return appendNull(buf)
	}

	typ := val.Type()
	if isNodeType(typ) {
		panic(errUnsupportedValue(`encoding literal`, typ).because(
			fmt.Errorf(`%v is a syntax node, not a literal value; use Box to mix nodes and values`, typ),
		))
	}
	if isLiteralType(typ) {
		return appendValue(buf, val.Interface())
	}

	switch val.Kind() {
	case r.Bool:
		return strconv.AppendBool(buf, val.Bool())

	case r.Int8, r.Int16, r.Int32, r.Int64, r.Int:
		return strconv.AppendInt(buf, val.Int(), 10)

	case r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uint, r.Uintptr:
		return strconv.AppendUint(buf, val.Uint(), 10)

	case r.Float32:
		return appendFloat(buf, val.Float(), 32)

	case r.Float64:
		return appendFloat(buf, val.Float(), 64)

	case r.Complex64:
		return appendComplex(buf, val.Complex(), 32)

	case r.Complex128:
		return appendComplex(buf, val.Complex(), 64)

	case r.String:
		return AppendText(buf, val.String(), quoteSingle)

	case r.Slice:
		if isByteType(typ.Elem()) {
			return AppendBuffer(buf, val.Bytes(), quoteSingle)
		}
		return appendSeq(buf, `array(`, val)

	case r.Array:
		if isByteType(typ.Elem()) {
			return AppendBuffer(buf, arrayBytes(val), quoteSingle)
		}
		return appendSeq(buf, `tuple(`, val)

	case r.Map:
		if isSetType(typ) {
			return appendSet(buf, val)
		}
		return appendMap(buf, val)

	default:
		panic(errUnsupportedValue(`encoding literal`, typ))
	}
}

func appendNull(buf []byte) []byte { return append(buf, `null`...) }

/*
Python-compatible "repr" of floats, which is also what the database accepts:
fixed notation for decimal exponents in [-4, 16), scientific otherwise. Fixed
notation always has a fractional part.
*/
func appendFloat(buf []byte, val float64, bits int) []byte {
	switch {
	case math.IsNaN(val):
		return append(buf, `nan`...)
	case math.IsInf(val, 1):
		return append(buf, `inf`...)
	case math.IsInf(val, -1):
		return append(buf, `-inf`...)
	}

	start := len(buf)
	buf = strconv.AppendFloat(buf, val, 'e', -1, bits)

	sci := buf[start:]
	exp := try1(strconv.Atoi(bytesToMutableString(sci[bytes.IndexByte(sci, 'e')+1:])))
	if !isFixedExponent(exp) {
		return buf
	}

	buf = strconv.AppendFloat(buf[:start], val, 'f', -1, bits)
	if bytes.IndexByte(buf[start:], '.') < 0 {
		buf = append(buf, `.0`...)
	}
	return buf
}

func appendComplex(buf []byte, val complex128, bits int) []byte {
	buf = append(buf, `tuple(`...)
	buf = appendFloat(buf, real(val), bits)
	buf = append(buf, `, `...)
	buf = appendFloat(buf, imag(val), bits)
	return append(buf, `)`...)
}

func appendSeq(buf []byte, prefix string, val r.Value) []byte {
	buf = append(buf, prefix...)
	for ind := range counter(val.Len()) {
		if ind > 0 {
			buf = append(buf, `, `...)
		}
		buf = appendValue(buf, val.Index(ind).Interface())
	}
	return append(buf, `)`...)
}

func arrayBytes(val r.Value) []byte {
	out := make([]byte, val.Len())
	for ind := range out {
		out[ind] = byte(val.Index(ind).Uint())
	}
	return out
}

func appendSet(buf []byte, val r.Value) []byte {
	buf = append(buf, `array(`...)
	for ind, entry := range sortedEntries(val) {
		if ind > 0 {
			buf = append(buf, `, `...)
		}
		buf = append(buf, entry.text...)
	}
	return append(buf, `)`...)
}

func appendMap(buf []byte, val r.Value) []byte {
	buf = append(buf, `array(`...)
	for ind, entry := range sortedEntries(val) {
		if ind > 0 {
			buf = append(buf, `, `...)
		}
		buf = append(buf, `tuple(`...)
		buf = append(buf, entry.text...)
		buf = append(buf, `, `...)
		buf = appendValue(buf, entry.val.Interface())
		buf = append(buf, `)`...)
	}
	return append(buf, `)`...)
}

type mapEntry struct {
	key  r.Value
	val  r.Value
	text []byte
}

// Go map iteration order is random, while rendering must be deterministic.
func sortedEntries(val r.Value) []mapEntry {
	out := make([]mapEntry, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key := iter.Key()
		out = append(out, mapEntry{
			key:  key,
			val:  iter.Value(),
			text: appendValue(nil, key.Interface()),
		})
	}
	slices.SortStableFunc(out, compareEntries)
	return out
}

/*
Keys are ranked by class first: booleans, numbers, strings, everything else.
Numbers of any kind compare by value, with -inf first, then +inf and nan last.
Ties within a class, such as 10 and 10.0, fall back on the literal text,
then on the type name and the value text.
*/
func compareEntries(one, two mapEntry) int {
	key0, key1 := valueDeref(one.key), valueDeref(two.key)

	class0, class1 := keyClassOf(key0), keyClassOf(key1)
	if class0 != class1 {
		return cmp.Compare(class0, class1)
	}

	var out int
	switch class0 {
	case keyClassBool:
		out = cmp.Compare(boolRank(key0.Bool()), boolRank(key1.Bool()))
	case keyClassNumber:
		out = compareNumbers(key0, key1)
	case keyClassString:
		out = strings.Compare(key0.String(), key1.String())
	}
	if out != 0 {
		return out
	}
	if out = bytes.Compare(one.text, two.text); out != 0 {
		return out
	}

	// Equal text, such as `int8(1)` and `1`, or several NaN keys.
	if out = strings.Compare(dynamicTypeName(one.key), dynamicTypeName(two.key)); out != 0 {
		return out
	}
	return bytes.Compare(appendValue(nil, one.val.Interface()), appendValue(nil, two.val.Interface()))
}

type keyClass byte

const (
	keyClassBool keyClass = iota
	keyClassNumber
	keyClassString
	keyClassOther
)

func keyClassOf(val r.Value) keyClass {
	if !val.IsValid() || isLiteralType(val.Type()) {
		return keyClassOther
	}

	switch val.Kind() {
	case r.Bool:
		return keyClassBool
	case r.Int8, r.Int16, r.Int32, r.Int64, r.Int,
		r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uint, r.Uintptr,
		r.Float32, r.Float64:
		return keyClassNumber
	case r.String:
		return keyClassString
	default:
		return keyClassOther
	}
}

func compareNumbers(one, two r.Value) int {
	rank0, num0 := numberKey(one)
	rank1, num1 := numberKey(two)
	if rank0 != rank1 {
		return cmp.Compare(rank0, rank1)
	}
	return num0.Cmp(num1)
}

// Finite numbers have rank 0 and are compared by their decimal value.
func numberKey(val r.Value) (int, decimal.Decimal) {
	switch val.Kind() {
	case r.Int8, r.Int16, r.Int32, r.Int64, r.Int:
		return 0, decimal.NewFromInt(val.Int())

	case r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uint, r.Uintptr:
		return 0, decimal.RequireFromString(strconv.FormatUint(val.Uint(), 10))

	default:
		num := val.Float()
		switch {
		case math.IsInf(num, -1):
			return -1, decimal.Zero
		case math.IsInf(num, 1):
			return 1, decimal.Zero
		case math.IsNaN(num):
			return 2, decimal.Zero
		}
		return 0, decimal.NewFromFloat(num)
	}
}

func dynamicTypeName(val r.Value) string {
	if val.Kind() == r.Interface {
		if val.IsNil() {
			return `nil`
		}
		val = val.Elem()
	}
	return val.Type().String()
}

func boolRank(val bool) int {
	if val {
		return 1
	}
	return 0
}

func appendDecimal(buf []byte, val decimal.Decimal) []byte {
	scale := max(-val.Exponent(), 0)
	if scale > decimal128MaxScale {
		buf = append(buf, `toDecimal256(`...)
	} else {
		buf = append(buf, `toDecimal128(`...)
	}
	buf = AppendText(buf, val.StringFixed(scale), quoteSingle)
	buf = append(buf, `, `...)
	buf = strconv.AppendInt(buf, int64(scale), 10)
	return append(buf, `)`...)
}

const decimal128MaxScale = 38

func appendUuid(buf []byte, val uuid.UUID) []byte {
	buf = append(buf, `toUUID(`...)
	buf = AppendText(buf, val.String(), quoteSingle)
	return append(buf, `)`...)
}

const dateTime64Layout = `2006-01-02 15:04:05.000000000`

func appendTime(buf []byte, val time.Time) []byte {
	buf = append(buf, `toDateTime64(`...)
	buf = AppendText(buf, val.UTC().Format(dateTime64Layout), quoteSingle)
	return append(buf, `, 9, 'UTC')`...)
}
