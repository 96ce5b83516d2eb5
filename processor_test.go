package morph

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/morph/value"
)

func TestNewProcessor(t *testing.T) {
	proc, err := NewProcessor(personStruct.Type(), newMemCodec())
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}
	if proc == nil {
		t.Fatal("NewProcessor() returned nil")
	}
	if proc.Fingerprint() != Fingerprint(personStruct.Type()) {
		t.Error("Fingerprint() should match the descriptor fingerprint")
	}
	if proc.ContentType() != "application/x-morph-test" {
		t.Errorf("ContentType() = %q", proc.ContentType())
	}
	if proc.Type() != personStruct.Type() {
		t.Error("Type() should return the descriptor")
	}
}

func TestNewProcessor_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  ProcessorOption
	}{
		{"nil defaults", WithDefaults(nil)},
		{"empty name", WithName("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProcessor(Int(), newMemCodec(), tt.opt)
			if !errors.Is(err, ErrInvalidOption) {
				t.Errorf("expected ErrInvalidOption, got %v", err)
			}
		})
	}
	if _, err := NewProcessor[int](nil, newMemCodec()); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("nil descriptor: expected ErrInvalidOption, got %v", err)
	}
}

func TestProcessor_RoundTrip(t *testing.T) {
	proc, err := NewProcessor(personStruct.Type(), newMemCodec())
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}
	ctx := context.Background()

	data, err := proc.Encode(ctx, ada())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := proc.Decode(ctx, data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !reflect.DeepEqual(got, ada()) {
		t.Errorf("Decode() = %+v, want %+v", got, ada())
	}
}

func TestProcessor_Defaults(t *testing.T) {
	codec := newMemCodec()
	proc, err := NewProcessor(addressStruct.Type(), codec,
		WithDefaults(value.Dict{value.E("zip", value.Int(0)), value.E("street", value.String("unused"))}),
		WithName("address"),
	)
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}

	// data written before the zip field existed
	old := value.Dict{value.E("street", value.String("Elm"))}
	data, _ := codec.Marshal(old)

	got, err := proc.Decode(context.Background(), data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got != (address{Street: "Elm", Zip: 0}) {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestProcessor_DecodeError(t *testing.T) {
	codec := newMemCodec()
	proc, _ := NewProcessor(addressStruct.Type(), codec)
	data, _ := codec.Marshal(value.Dict{value.E("street", value.String("Elm"))})

	_, err := proc.Decode(context.Background(), data)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if want := "decode Address: missing field zip"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestProcessor_CodecErrors(t *testing.T) {
	codec := newMemCodec()
	proc, _ := NewProcessor(Int(), codec)
	ctx := context.Background()

	if _, err := proc.Decode(ctx, []byte("missing")); !errors.Is(err, ErrUnmarshal) {
		t.Errorf("expected ErrUnmarshal, got %v", err)
	}

	codec.fail = errors.New("disk full")
	_, err := proc.Encode(ctx, 1)
	if !errors.Is(err, ErrMarshal) {
		t.Errorf("expected ErrMarshal, got %v", err)
	}
	var ce *CodecError
	if !errors.As(err, &ce) || ce.Cause == nil || ce.Cause.Error() != "disk full" {
		t.Errorf("unexpected CodecError %+v", ce)
	}
}

func TestProcessor_SchemaMismatchIsError(t *testing.T) {
	proc, _ := NewProcessor(shapeVariant.Type(), newMemCodec())

	_, err := proc.Encode(context.Background(), triangle{Base: 1, Height: 1})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) || se.Variant != "Shape" {
		t.Errorf("unexpected SchemaError %+v", se)
	}
}

func TestProcessor_OtherPanicsPropagate(t *testing.T) {
	boom := Convert("Boom", "", Int(),
		func(n int) (int, error) { return n, nil },
		func(int) int { panic("boom") })
	proc, _ := NewProcessor(boom, newMemCodec())

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("expected original panic, got %v", r)
		}
	}()
	_, _ = proc.Encode(context.Background(), 1)
}
