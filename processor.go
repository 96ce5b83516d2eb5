package morph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/morph/value"
)

// Processor carries values of T across a Codec: Encode turns T into wire
// bytes and Decode reverses it. Each call emits start and complete signals.
//
// Processors are safe for concurrent use once created.
type Processor[T any] struct {
	typ         *Type[T]
	codec       Codec
	defaults    value.Dict
	typeName    string
	fingerprint string
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*processorConfig) error

type processorConfig struct {
	defaults value.Dict
	name     string
}

// WithDefaults merges defaults into every decoded Dict before the descriptor
// sees it, so fields added to a structure after data was written still decode.
func WithDefaults(defaults value.Dict) ProcessorOption {
	return func(c *processorConfig) error {
		if defaults == nil {
			return fmt.Errorf("%w: nil defaults", ErrInvalidOption)
		}
		c.defaults = defaults
		return nil
	}
}

// WithName overrides the type name reported in signals.
func WithName(name string) ProcessorOption {
	return func(c *processorConfig) error {
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidOption)
		}
		c.name = name
		return nil
	}
}

// NewProcessor creates a Processor for t over codec.
func NewProcessor[T any](t *Type[T], codec Codec, opts ...ProcessorOption) (*Processor[T], error) {
	if t == nil || codec == nil {
		return nil, fmt.Errorf("%w: nil descriptor or codec", ErrInvalidOption)
	}
	cfg := processorConfig{name: t.Name()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.name == "" {
		cfg.name = t.String()
	}

	p := &Processor[T]{
		typ:         t,
		codec:       codec,
		defaults:    cfg.defaults,
		typeName:    cfg.name,
		fingerprint: Fingerprint(t),
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), p.typeName, p.fingerprint)
	return p, nil
}

// Type returns the descriptor the processor encodes with.
func (p *Processor[T]) Type() *Type[T] { return p.typ }

// ContentType returns the codec content type.
func (p *Processor[T]) ContentType() string { return p.codec.ContentType() }

// Fingerprint returns the schema fingerprint of the descriptor.
func (p *Processor[T]) Fingerprint() string { return p.fingerprint }

// Encode converts v to its dynamic form and marshals it.
//
// A variant without a tag for v is reported as an error wrapping
// ErrSchemaMismatch instead of a panic.
func (p *Processor[T]) Encode(ctx context.Context, v T) ([]byte, error) {
	start := time.Now()
	emitEncodeStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var retData []byte
	defer func() {
		emitEncodeComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start), retErr)
	}()

	dyn, err := p.toValue(v)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	retData, retErr = p.codec.Marshal(dyn)
	if retErr != nil {
		retErr = wrapCodec(ErrMarshal, retErr)
		return nil, retErr
	}
	return retData, nil
}

// Decode unmarshals data, merges configured defaults and decodes the result.
func (p *Processor[T]) Decode(ctx context.Context, data []byte) (T, error) {
	var zero T
	start := time.Now()
	emitDecodeStart(ctx, p.codec.ContentType(), p.typeName, len(data))

	var retErr error
	defer func() {
		emitDecodeComplete(ctx, p.codec.ContentType(), p.typeName,
			time.Since(start), retErr)
	}()

	dyn, err := p.codec.Unmarshal(data)
	if err != nil {
		retErr = wrapCodec(ErrUnmarshal, err)
		return zero, retErr
	}
	if p.defaults != nil {
		dyn = value.MergeDefaults(dyn, p.defaults)
	}

	v, err := p.typ.Decode(dyn)
	if err != nil {
		retErr = fmt.Errorf("decode %s: %w", p.typeName, err)
		return zero, retErr
	}
	return v, nil
}

// toValue runs the descriptor encode, recovering schema mismatches.
func (p *Processor[T]) toValue(v T) (dyn value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SchemaError)
			if !ok {
				panic(r)
			}
			err = se
		}
	}()
	return p.typ.Encode(v), nil
}

// wrapCodec keeps codec errors that already carry a sentinel and wraps the rest.
func wrapCodec(sentinel, err error) error {
	var ce *CodecError
	if errors.As(err, &ce) {
		return err
	}
	return NewCodecError(sentinel, err)
}
