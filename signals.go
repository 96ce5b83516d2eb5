package morph

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for morph events.
var (
	SignalProcessorCreated = capitan.NewSignal("morph.processor.created", "Processor instantiated")
	SignalEncodeStart      = capitan.NewSignal("morph.encode.start", "Encode operation beginning")
	SignalEncodeComplete   = capitan.NewSignal("morph.encode.complete", "Encode operation finished")
	SignalDecodeStart      = capitan.NewSignal("morph.decode.start", "Decode operation beginning")
	SignalDecodeComplete   = capitan.NewSignal("morph.decode.complete", "Decode operation finished")
	SignalSchemaFrozen     = capitan.NewSignal("morph.schema.frozen", "Structure or variant registration closed")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyFingerprint = capitan.NewStringKey("fingerprint")
	KeyKind        = capitan.NewStringKey("kind")
	KeyCount       = capitan.NewIntKey("count")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType, typeName, fingerprint string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyFingerprint.Field(fingerprint),
	)
}

// emitEncodeStart emits an event when encode begins.
func emitEncodeStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeStart emits an event when decode begins.
func emitDecodeStart(ctx context.Context, contentType, typeName string, size int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
	)
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, contentType, typeName string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitSchemaFrozen emits an event when a structure or variant is first used.
func emitSchemaFrozen(ctx context.Context, kind Kind, typeName string, count int) {
	capitan.Emit(ctx, SignalSchemaFrozen,
		KeyKind.Field(kind.String()),
		KeyTypeName.Field(typeName),
		KeyCount.Field(count),
	)
}
