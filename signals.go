package scroll

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for scroll events.
var (
	SignalDecodeStart     = capitan.NewSignal("scroll.decode.start", "Decode operation beginning")
	SignalDecodeComplete  = capitan.NewSignal("scroll.decode.complete", "Decode operation finished")
	SignalEncodeStart     = capitan.NewSignal("scroll.encode.start", "Encode operation beginning")
	SignalEncodeComplete  = capitan.NewSignal("scroll.encode.complete", "Encode operation finished")
	SignalUnionRegistered = capitan.NewSignal("scroll.union.registered", "Union type registered")
)

// Keys for typed event data.
var (
	KeyTypeName     = capitan.NewStringKey("type_name")
	KeyDriver       = capitan.NewStringKey("driver")
	KeyTagging      = capitan.NewStringKey("tagging")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
	KeyVariantCount = capitan.NewIntKey("variant_count")
)

// emitDecodeStart emits an event when decoding begins.
func emitDecodeStart(ctx context.Context, typeName, driver string, size int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyTypeName.Field(typeName),
		KeyDriver.Field(driver),
		KeySize.Field(size),
	)
}

// emitDecodeComplete emits an event when decoding finishes.
func emitDecodeComplete(ctx context.Context, typeName, driver string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDriver.Field(driver),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitEncodeStart emits an event when encoding begins.
func emitEncodeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyTypeName.Field(typeName),
	)
}

// emitEncodeComplete emits an event when encoding finishes.
func emitEncodeComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
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

// emitUnionRegistered emits an event when a union is registered.
func emitUnionRegistered(ctx context.Context, typeName, tagging string, variants int) {
	capitan.Emit(ctx, SignalUnionRegistered,
		KeyTypeName.Field(typeName),
		KeyTagging.Field(tagging),
		KeyVariantCount.Field(variants),
	)
}
