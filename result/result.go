// Package result provides a two-outcome computation type and the combinators
// morph uses to sequence fallible conversions.
//
// Result is samber/mo's Result; this package adds the generic combinators that
// change the carried type (Bind, Map) and the batch forms over slices
// (Traverse, Sequence), which mo cannot express as methods.
package result

import (
	"fmt"

	"github.com/samber/mo"
)

// Result holds either a value or an error.
type Result[T any] = mo.Result[T]

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return mo.Ok(v)
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return mo.Err[T](err)
}

// Errorf wraps a formatted failure.
func Errorf[T any](format string, args ...any) Result[T] {
	return mo.Err[T](fmt.Errorf(format, args...))
}

// FromPair converts a (value, error) pair into a Result.
func FromPair[T any](v T, err error) Result[T] {
	if err != nil {
		return mo.Err[T](err)
	}
	return mo.Ok(v)
}

// Bind runs f on the value of r. An error in r is returned without calling f.
func Bind[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	v, err := r.Get()
	if err != nil {
		return mo.Err[B](err)
	}
	return f(v)
}

// Map applies a pure function to the value of r.
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	v, err := r.Get()
	if err != nil {
		return mo.Err[B](err)
	}
	return mo.Ok(f(v))
}

// Traverse applies f to each element of xs from left to right and collects
// the results in input order. It stops at the first failure: f is not called
// for any element after it.
func Traverse[A, B any](xs []A, f func(item A, index int) Result[B]) Result[[]B] {
	out := make([]B, 0, len(xs))
	for i, x := range xs {
		v, err := f(x, i).Get()
		if err != nil {
			return mo.Err[[]B](err)
		}
		out = append(out, v)
	}
	return mo.Ok(out)
}

// Sequence turns a slice of results into a result of a slice. The first error,
// scanning left to right, wins.
func Sequence[T any](rs []Result[T]) Result[[]T] {
	return Traverse(rs, func(r Result[T], _ int) Result[T] { return r })
}
