package ckq

import (
	"errors"
	"fmt"
	r "reflect"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown          ErrCode = ""
	ErrCodeInvalidInput     ErrCode = "InvalidInput"
	ErrCodeUnsupportedValue ErrCode = "UnsupportedValue"
	ErrCodeMalformedKeyword ErrCode = "MalformedKeyword"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, ckq.ErrUnsupportedValue) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrInvalidInput     Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrUnsupportedValue Err = Err{Code: ErrCodeUnsupportedValue, Cause: errors.New(`unsupported value`)}
	ErrMalformedKeyword Err = Err{Code: ErrCodeMalformedKeyword, Cause: errors.New(`malformed keyword`)}
)

// Type of errors returned by this package.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `[ckq]`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

var (
	errNilNode   = errors.New(`unexpected nil node`)
	errNilCallee = errors.New(`call without a function`)
)

func errUnsupportedValue(while string, typ r.Type) Err {
	return ErrUnsupportedValue.while(while).because(
		fmt.Errorf(`no literal encoding for values of type %v`, typeName(typ)),
	)
}

func errMalformedKeyword(while string, cause error) Err {
	return ErrMalformedKeyword.while(while).because(cause)
}

func errInvalidInput(while string, cause error) Err {
	return ErrInvalidInput.while(while).because(cause)
}
