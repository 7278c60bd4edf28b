package ckq

import (
	r "reflect"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/mitranim/refut"
	"github.com/shopspring/decimal"
)

const (
	quoteSingle   = '\''
	quoteGrave    = '`'
	escapeChar    = '\\'
	keywordMarker = '_'
	hexDigits     = `0123456789abcdef`

	printableMin = 0x20
	printableMax = 0x7e
)

var (
	typeTime    = r.TypeOf((*time.Time)(nil)).Elem()
	typeUuid    = r.TypeOf((*uuid.UUID)(nil)).Elem()
	typeDecimal = r.TypeOf((*decimal.Decimal)(nil)).Elem()
	typeNode    = r.TypeOf((*Node)(nil)).Elem()
	typeRaw     = r.TypeOf(Raw(``))
	typeKeyword = r.TypeOf(Keyword(nil))
	typeStar    = r.TypeOf(Star{})
	typeTuple   = r.TypeOf(Tuple(nil))
	typeRange   = r.TypeOf(Range{})
	typeEntries = r.TypeOf(Entries(nil))

	charsetSpace      = new(charset).addStr(" \t\v")
	charsetNewline    = new(charset).addStr("\r\n")
	charsetWhitespace = new(charset).addSet(charsetSpace).addSet(charsetNewline)
	charsetPunct      = new(charset).addStr(`()[]{},;'"` + "`")
	charsetNonWord    = new(charset).addSet(charsetWhitespace).addSet(charsetPunct).addStr("\x00_")
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

// Index of the first byte found in the charset, or -1.
func (self *charset) index(val string) int {
	for ind := 0; ind < len(val); ind++ {
		if self.has(val[ind]) {
			return ind
		}
	}
	return -1
}

func cacheOf[Key, Val any](fun func(Key) Val) *cache[Key, Val] {
	return &cache[Key, Val]{Func: fun}
}

type cache[Key, Val any] struct {
	sync.Map
	Func func(Key) Val
}

// Susceptible to "thundering herd". An improvement from no caching, but still
// not ideal.
func (self *cache[Key, Val]) Get(key Key) Val {
	iface, ok := self.Load(key)
	if ok {
		return iface.(Val)
	}

	val := self.Func(key)
	self.Store(key, val)
	return val
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return unsafe.String(unsafe.SliceData(bytes), len(bytes))
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func try1[A any](val A, err error) A {
	try(err)
	return val
}

// Must be deferred.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}

func counter(val int) []struct{} { return make([]struct{}, val) }

// Nil slices and maps are valid values; only nil pointers are "nil" here.
func isNilPointer(val any) bool {
	rval := r.ValueOf(val)
	return rval.Kind() == r.Ptr && refut.IsRvalNil(rval)
}

// Dereferences pointers, returning an invalid value for nil.
func valueDeref(val r.Value) r.Value {
	for val.Kind() == r.Ptr || val.Kind() == r.Interface {
		if refut.IsRvalNil(val) {
			return r.Value{}
		}
		val = val.Elem()
	}
	return val
}

func typeName(typ r.Type) string {
	if typ == nil {
		return `nil`
	}
	return refut.RtypeDeref(typ).String()
}

func isByteType(typ r.Type) bool { return typ.Kind() == r.Uint8 }

func isSetType(typ r.Type) bool {
	return typ.Kind() == r.Map && typ.Elem().Kind() == r.Struct && typ.Elem().NumField() == 0
}

// Decimal exponents in [-4, 16) are rendered in fixed notation.
func isFixedExponent(exp int) bool { return exp >= -4 && exp < 16 }

func isNodeType(typ r.Type) bool {
	return typ.Implements(typeNode) || typ == typeRaw || typ == typeKeyword
}

// Types with their own literal encoding, handled before the kind switch.
func isLiteralType(typ r.Type) bool {
	switch typ {
	case typeStar, typeTuple, typeRange, typeEntries, typeDecimal, typeUuid, typeTime:
		return true
	default:
		return false
	}
}
