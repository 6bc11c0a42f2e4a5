package dynser

import (
	"fmt"
	"reflect"
	"unicode/utf8"
)

// TypeError is the error returned when a value, map key or struct
// field cannot be represented in structured output.
type TypeError struct {
	// Type is the name of the offending value's type.
	Type string
	// Repr is a best-effort, possibly truncated, textual
	// representation of the offending value.
	Repr string
	// Reason is an explanation of why the value isn't representable.
	Reason error
}

func (e TypeError) Error() string {
	return fmt.Sprintf("dynser cannot serialize %s %s: %s", e.Type, e.Repr, e.Reason)
}

func (e TypeError) Unwrap() error {
	return e.Reason
}

// RecursionError is the error returned when a walk nests deeper than
// [MaxDepth] compound values.
type RecursionError struct {
	// Limit is the depth limit that was exceeded.
	Limit int
}

func (e RecursionError) Error() string {
	return fmt.Sprintf("dynser: maximum recursion depth %d exceeded", e.Limit)
}

// OverflowError is the error returned when a numeric value, or a
// field of an extension value, does not fit the range of its output
// form.
type OverflowError struct {
	// Type is the name of the offending value's type.
	Type string
	// Field names the out of range part of the value.
	Field string
	// Reason is an explanation of the overflow.
	Reason error
}

func (e OverflowError) Error() string {
	return fmt.Sprintf("dynser: %s %s out of range: %s", e.Type, e.Field, e.Reason)
}

func (e OverflowError) Unwrap() error {
	return e.Reason
}

// ValueError is the error returned when a value's internal state is
// malformed in a way other than a simple range overflow.
type ValueError struct {
	// Type is the name of the offending value's type.
	Type string
	// Field names the malformed part of the value.
	Field string
	// Reason is an explanation of what is wrong.
	Reason error
}

func (e ValueError) Error() string {
	return fmt.Sprintf("dynser: invalid %s %s: %s", e.Type, e.Field, e.Reason)
}

func (e ValueError) Unwrap() error {
	return e.Reason
}

func typeErr(v reflect.Value, reason string, args ...any) error {
	ts := "nil"
	if v.IsValid() {
		ts = v.Type().String()
	}
	return TypeError{ts, repr(v), fmt.Errorf(reason, args...)}
}

func overflowErr(t reflect.Type, field, reason string, args ...any) error {
	return OverflowError{t.String(), field, fmt.Errorf(reason, args...)}
}

func valueErr(t reflect.Type, field, reason string, args ...any) error {
	return ValueError{t.String(), field, fmt.Errorf(reason, args...)}
}

const maxReprLen = 64

// repr returns a short human-readable representation of v, for use
// in error messages.
func repr(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	var s string
	if v.CanInterface() {
		s = fmt.Sprintf("%#v", v.Interface())
	} else {
		s = "<" + v.Type().String() + " value>"
	}
	if utf8.RuneCountInString(s) <= maxReprLen {
		return s
	}
	rs := []rune(s)
	return string(rs[:maxReprLen-3]) + "..."
}
