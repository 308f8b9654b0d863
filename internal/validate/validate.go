// Package validate holds the precondition helpers shared by every layer.
//
// Helpers return an error wrapping ErrInvalidArgument so callers can fail
// fast before touching any state, and tests can match with errors.Is.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidArgument marks a programmer error: a missing required value or an
// unknown enum member.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, name, fmt.Sprintf(format, args...))
}

// NotNil fails when v is nil, including typed nil pointers, maps and slices.
func NotNil(name string, v any) error {
	if v == nil {
		return invalid(name, "is required")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return invalid(name, "is required")
		}
	}
	return nil
}

// NotEmpty fails on blank strings.
func NotEmpty(name, s string) error {
	if strings.TrimSpace(s) == "" {
		return invalid(name, "must not be empty")
	}
	return nil
}

func NonNegative(name string, n int) error {
	if n < 0 {
		return invalid(name, "must be >= 0, got %d", n)
	}
	return nil
}

func Positive(name string, n int) error {
	if n <= 0 {
		return invalid(name, "must be > 0, got %d", n)
	}
	return nil
}

// InRange checks lo <= v <= hi.
func InRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return invalid(name, "must be within [%g, %g], got %g", lo, hi, v)
	}
	return nil
}

// OneOf fails when v is not a member of allowed.
func OneOf[T comparable](name string, v T, allowed ...T) error {
	for _, a := range allowed {
		if a == v {
			return nil
		}
	}
	return invalid(name, "has unknown value %v", v)
}

// First returns the first non-nil error, so call sites can chain checks
// without nesting.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
