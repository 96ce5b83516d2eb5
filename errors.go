package morph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrTypeMismatch indicates a value's variant does not match the descriptor
	// and no coercion applies.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrCoercion indicates a text value could not be parsed as the expected kind.
	ErrCoercion = errors.New("coercion failed")

	// ErrRange indicates a decoded number does not fit the target kind.
	ErrRange = errors.New("out of range")

	// ErrMissingField indicates a structure decode found no entry for a field.
	ErrMissingField = errors.New("missing field")

	// ErrUnknownTag indicates a variant decode met an unregistered tag name.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrSchemaMismatch indicates a variant encode found no tag for a native value.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrDuplicateField indicates a field name was registered twice on a structure.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrDuplicateTag indicates a tag name was registered twice on a variant.
	ErrDuplicateTag = errors.New("duplicate tag name")

	// ErrFrozen indicates a registration after the descriptor was first used.
	ErrFrozen = errors.New("descriptor frozen")

	// ErrUnsupported indicates a Go type that cannot be described.
	ErrUnsupported = errors.New("unsupported type")

	// ErrInvalidOption indicates a processor option with an unusable value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// DecodeError describes why a dynamic value could not be decoded.
type DecodeError struct {
	Err      error    // Underlying sentinel error (ErrTypeMismatch, ErrMissingField, etc.)
	Path     []string // Field names, tags, keys and [i] indices leading to the failure
	Expected string   // Expected kind or type expression
	Got      string   // Rendered form of the offending value
	Name     string   // Field or tag name for ErrMissingField and ErrUnknownTag
	Reason   string   // Extra detail for coercion and range failures
}

func (e *DecodeError) Error() string {
	var msg string
	switch e.Err {
	case ErrMissingField:
		msg = "missing field " + e.Name
	case ErrUnknownTag:
		msg = "unknown tag " + e.Name
	default:
		msg = fmt.Sprintf("expected %s, got '%s'", e.Expected, e.Got)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
	}
	if len(e.Path) == 0 {
		return msg
	}
	return e.PathString() + ": " + msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PathString joins Path, writing list indices without a separator.
func (e *DecodeError) PathString() string {
	var sb strings.Builder
	for i, seg := range e.Path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(seg)
	}
	return sb.String()
}

// ConfigError represents a schema registration error.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrDuplicateField, ErrFrozen, etc.)
	Owner string // Structure, variant or Go type being configured
	Name  string // Field or tag name that triggered the error
}

func (e *ConfigError) Error() string {
	if e.Owner != "" && e.Name != "" {
		return fmt.Sprintf("%s %q (%s)", e.Err.Error(), e.Name, e.Owner)
	}
	if e.Owner != "" {
		return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Owner)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Name)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SchemaError is the panic value raised when a variant encode finds no tag
// matching the native value. It signals a descriptor that does not cover its
// native type, not bad data.
type SchemaError struct {
	Variant string // Variant name
	Value   string // Go-syntax rendering of the unmatched native value
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: no tag of %s matches %s", ErrSchemaMismatch.Error(), e.Variant, e.Value)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// NewCodecError creates a CodecError for marshal/unmarshal failures.
// Codec implementations use it to report wire-level problems.
func NewCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// newConfigError creates a ConfigError for registration failures.
func newConfigError(sentinel error, owner, name string) error {
	return &ConfigError{
		Err:   sentinel,
		Owner: owner,
		Name:  name,
	}
}

// atPath prefixes the path of a DecodeError with seg. Other errors are wrapped.
func atPath(err error, seg string) error {
	de, ok := err.(*DecodeError)
	if !ok {
		return fmt.Errorf("%s: %w", seg, err)
	}
	cp := *de
	cp.Path = append([]string{seg}, de.Path...)
	return &cp
}

func indexSeg(i int) string {
	return fmt.Sprintf("[%d]", i)
}
