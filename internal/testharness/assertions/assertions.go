// Package assertions provides the pass/fail results recorded by L1 tests.
//
// A Result is data, not a test-time check: the engine stores it with the test
// result and the reporters print it.
package assertions

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// Result is the outcome of one check against a HAL output.
type Result struct {
	Passed  bool
	Message string

	// Expected and Actual are kept for failure reports.
	Expected any
	Actual   any
}

// Pass creates a passing result.
func Pass(message string) *Result {
	return &Result{Passed: true, Message: message}
}

// Fail creates a failing result.
func Fail(message string, expected, actual any) *Result {
	return &Result{Message: message, Expected: expected, Actual: actual}
}

// Number is any integer or float kind, including HAL enums.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Equal checks deep equality, so records and slices compare by value.
func Equal(expected, actual any) *Result {
	if reflect.DeepEqual(expected, actual) {
		return Pass(fmt.Sprintf("got %v", actual))
	}
	return Fail("values differ", expected, actual)
}

// True checks that a condition holds.
func True(value bool) *Result {
	if value {
		return Pass("condition holds")
	}
	return Fail("condition does not hold", true, false)
}

// False checks that a condition does not hold.
func False(value bool) *Result {
	if !value {
		return Pass("condition is false")
	}
	return Fail("condition should be false", false, true)
}

// InRange checks lo <= v <= hi.
func InRange[T Number](v, lo, hi T) *Result {
	bounds := fmt.Sprintf("[%v, %v]", lo, hi)
	if v < lo || v > hi {
		return Fail(fmt.Sprintf("%v is outside %s", v, bounds), bounds, v)
	}
	return Pass(fmt.Sprintf("%v is within %s", v, bounds))
}

// GreaterThan checks v > threshold.
func GreaterThan[T Number](v, threshold T) *Result {
	if v > threshold {
		return Pass(fmt.Sprintf("%v > %v", v, threshold))
	}
	return Fail(fmt.Sprintf("%v is not greater than %v", v, threshold), fmt.Sprintf("> %v", threshold), v)
}

// LessThan checks v < threshold.
func LessThan[T Number](v, threshold T) *Result {
	if v < threshold {
		return Pass(fmt.Sprintf("%v < %v", v, threshold))
	}
	return Fail(fmt.Sprintf("%v is not less than %v", v, threshold), fmt.Sprintf("< %v", threshold), v)
}

// OneOf checks that v is a member of set.
func OneOf[T comparable](v T, set []T) *Result {
	if slices.Contains(set, v) {
		return Pass(fmt.Sprintf("%v is an allowed value", v))
	}
	return Fail(fmt.Sprintf("%v is not an allowed value", v), set, v)
}

// NotEmpty checks that a returned list has at least one element.
func NotEmpty[T any](name string, list []T) *Result {
	if len(list) == 0 {
		return Fail(name+" is empty", "> 0 elements", 0)
	}
	return Pass(fmt.Sprintf("%s has %d elements", name, len(list)))
}

// StatusResult is a Result that also records the status the HAL returned.
type StatusResult struct {
	*Result
	Status hal.Status
}

// HasStatus checks that the status derived from err equals want. A failing
// result carries the error text so the report shows the kind and detail.
func HasStatus(err error, want hal.Status) *StatusResult {
	got := hal.StatusOf(err)
	if got == want {
		return &StatusResult{Result: Pass("status is " + want.String()), Status: got}
	}
	msg := "status mismatch"
	if err != nil {
		msg += ": " + err.Error()
	}
	return &StatusResult{Result: Fail(msg, want.String(), got.String()), Status: got}
}
