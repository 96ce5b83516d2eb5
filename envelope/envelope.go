// Package envelope holds the call and response shapes exchanged by RPC
// transports. It does not dispatch calls; it only carries a method name with
// its arguments and a success flag with its payload.
package envelope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zoobzio/morph"
	"github.com/zoobzio/morph/value"
)

// ErrEmptyName indicates a call without a method name.
var ErrEmptyName = errors.New("empty call name")

// ErrMissingArgument indicates a call with fewer parameters than requested.
var ErrMissingArgument = errors.New("missing argument")

// Call names an operation and carries its ordered arguments.
type Call struct {
	Name   string
	Params []value.Value
}

// NewCall creates a call.
func NewCall(name string, params ...value.Value) Call {
	return Call{Name: name, Params: params}
}

// Validate reports whether the call is well formed.
func (c Call) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// String renders the call as "-> name(p1,p2)".
func (c Call) String() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		parts[i] = value.Render(p)
	}
	return "-> " + c.Name + "(" + strings.Join(parts, ",") + ")"
}

// Response carries the outcome of a call.
type Response struct {
	Success  bool
	Contents value.Value
}

// Success creates a successful response.
func Success(v value.Value) Response {
	return Response{Success: true, Contents: v}
}

// Failure creates a failed response. v usually describes the error.
func Failure(v value.Value) Response {
	return Response{Success: false, Contents: v}
}

// String renders the response as "<- success(v)" or "<- failure(v)".
func (r Response) String() string {
	outcome := "failure"
	if r.Success {
		outcome = "success"
	}
	return "<- " + outcome + "(" + value.Render(r.Contents) + ")"
}

// RemoteError is returned by Decode for failed responses.
type RemoteError struct {
	Contents value.Value
}

func (e *RemoteError) Error() string {
	if s, ok := e.Contents.(value.String); ok {
		return "remote failure: " + string(s)
	}
	return "remote failure: " + value.Render(e.Contents)
}

// Arg decodes parameter i of c with t. Errors name the argument position.
func Arg[T any](c Call, i int, t *morph.Type[T]) (T, error) {
	var zero T
	if i < 0 || i >= len(c.Params) {
		return zero, fmt.Errorf("%w %d of %s", ErrMissingArgument, i, c.Name)
	}
	x, err := t.Decode(c.Params[i])
	if err != nil {
		return zero, fmt.Errorf("%s argument %d: %w", c.Name, i, err)
	}
	return x, nil
}

// Decode returns the payload of a successful response decoded with t, or a
// *RemoteError holding the contents of a failed one.
func Decode[T any](r Response, t *morph.Type[T]) (T, error) {
	var zero T
	if !r.Success {
		return zero, &RemoteError{Contents: r.Contents}
	}
	return t.Decode(r.Contents)
}
