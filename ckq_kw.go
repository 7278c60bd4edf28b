package ckq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitranim/sqlp"
)

/*
Multi-word keyword such as "select", "group by" or "left array join", stored as
a list of words and rendered space-separated. Used by `Initial` and
`SimpleClause`.

Every word must be a single plain SQL token: non-empty, without whitespace,
quotes, brackets, commas, comments or parameters, and without the "_" marker
used by the token form (see `KeywordFrom`). Invalid keywords cause a panic when
rendering, or an error from `ParseKeyword`, matching `ErrMalformedKeyword`.
*/
type Keyword []string

/*
Splits a keyword token into words. Words are delimited by runs of "_" and/or
whitespace. Leading and trailing delimiters are ignored, which allows tokens
derived from names that would otherwise collide with reserved words:

	KeywordFrom(`select`)          -> Keyword{`select`}
	KeywordFrom(`group_by`)        -> Keyword{`group`, `by`}
	KeywordFrom(`__group__by__`)   -> Keyword{`group`, `by`}
	KeywordFrom(`from_`)           -> Keyword{`from`}
	KeywordFrom(`left array join`) -> Keyword{`left`, `array`, `join`}

Doesn't validate the words. See `ParseKeyword`.
*/
func KeywordFrom(token string) Keyword {
	return Keyword(strings.FieldsFunc(token, isKeywordDelim))
}

// Same as `KeywordFrom`, but also validates the result.
func ParseKeyword(token string) (Keyword, error) {
	out := KeywordFrom(token)
	err := out.Validate()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Variant of `ParseKeyword` that panics on error.
func Kw(token string) Keyword { return try1(ParseKeyword(token)) }

// Returns an error matching `ErrMalformedKeyword` if the keyword is invalid.
func (self Keyword) Validate() error {
	if len(self) == 0 {
		return errMalformedKeyword(`validating keyword`, errors.New(`keyword has no words`))
	}
	for _, word := range self {
		err := wordCache.Get(word).err
		if err != nil {
			return errMalformedKeyword(`validating keyword`, err)
		}
	}
	return nil
}

// Implement the `Appender` interface. Panics if the keyword is invalid.
func (self Keyword) Append(text []byte) []byte {
	try(self.Validate())
	for ind, word := range self {
		if ind > 0 {
			text = append(text, ' ')
		}
		text = append(text, word...)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Keyword) String() string { return AppenderString(self) }

func isKeywordDelim(char rune) bool {
	return char == keywordMarker || (char < 0x80 && charsetWhitespace.has(byte(char)))
}

type wordCheck struct{ err error }

var wordCache = cacheOf(func(word string) wordCheck {
	return wordCheck{validateWord(word)}
})

func validateWord(word string) error {
	if word == `` {
		return errors.New(`empty word`)
	}

	ind := charsetNonWord.index(word)
	if ind >= 0 {
		return fmt.Errorf(`unexpected %q in word %q`, rune(word[ind]), word)
	}

	tok := sqlp.Tokenizer{Source: word}
	text, ok := tok.Next().(sqlp.NodeText)
	if !ok || string(text) != word || tok.Next() != nil {
		return fmt.Errorf(`word %q is not a single plain SQL token`, word)
	}
	return nil
}
