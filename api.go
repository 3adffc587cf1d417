// Package scroll decodes and encodes Go values in a block-structured YAML
// style, driven by the shape of the Go type rather than by the text.
//
// # Layers
//
// Input flows through three layers:
//
//   - A driver turns bytes into a stream of parse events (see package event).
//     The default driver wraps gopkg.in/yaml.v3; source/goyaml and
//     source/gojson provide alternatives.
//   - A Cursor gives the Decoder single-event lookahead over that stream.
//   - The Decoder reads the events for the shape a type asks for and reports
//     the value to a Visitor.
//
// The Encoder runs the other way, rendering values as indented block text.
//
// # Basic Usage
//
//	type Address struct {
//	    Street string `yaml:"street"`
//	    State  string `yaml:"state"`
//	}
//
//	addr, err := scroll.Decode[Address]([]byte("street: Kerkstraat\nstate: Noord Holland\n"))
//
//	out, err := scroll.Marshal(addr)
//	// street: Kerkstraat
//	// state: Noord Holland
//
// # Scalars
//
// Decoding is type-directed: the same scalar reads differently depending on
// the target. Booleans accept the YAML 1.1 family (y, Yes, TRUE, off, ...),
// with an empty scalar reading as true. null, Null, NULL, ~ and the empty
// scalar are null for options and unit. Integers are decimal and
// range-checked against the exact Go type. Floats also accept .inf, -.inf
// and .nan.
//
// # Struct Tags
//
// Fields are named by the yaml tag, or by the lower-cased field name:
//
//	yaml:"name"             - rename the key
//	yaml:"-"                - skip the field
//	yaml:",omitempty"       - omit zero values, optional when decoding
//	yaml:",default"         - optional when decoding
//	yaml:",inline"          - flatten a struct field into its parent
//
// Non-pointer fields without omitempty or default are required. Unknown
// keys are rejected unless AllowUnknownFields is set.
//
// # Unions
//
// Interface types can be registered as tagged unions:
//
//	scroll.MustRegisterUnion[Shape](
//	    scroll.Variant[Circle]("Circle"),
//	    scroll.Variant[Square]("Square"),
//	)
//
// The default external tagging writes a single-entry mapping keyed by the
// variant name. Internally, Adjacently and Untagged select the other forms.
//
// # Override Interfaces
//
// Types can bypass reflection by implementing Unmarshaler or Marshaler, or
// encoding.TextUnmarshaler and encoding.TextMarshaler for scalar forms.
//
// # Signals
//
// Decode and encode operations emit capitan signals (SignalDecodeStart,
// SignalDecodeComplete, SignalEncodeStart, SignalEncodeComplete) carrying
// the type name, driver, size and duration.
package scroll

import (
	"context"
	"reflect"
	"time"
)

// Unmarshal decodes the single document in data into the value pointed to
// by v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return UnmarshalContext(context.Background(), data, v, opts...)
}

// UnmarshalContext is Unmarshal with a context for emitted signals.
func UnmarshalContext(ctx context.Context, data []byte, v any, opts ...Option) error {
	return unmarshal(ctx, data, v, typeNameOf(v), opts)
}

func unmarshal(ctx context.Context, data []byte, v any, name string, opts []Option) error {
	cfg := newConfig(opts)
	start := time.Now()
	emitDecodeStart(ctx, name, cfg.driver.Name(), len(data))

	err := newDecoder(cfg.driver.NewBytes(data), cfg).Decode(v)

	emitDecodeComplete(ctx, name, cfg.driver.Name(), time.Since(start), err)
	return err
}

// Decode decodes the single document in data as a T.
func Decode[T any](data []byte, opts ...Option) (T, error) {
	return DecodeContext[T](context.Background(), data, opts...)
}

// DecodeContext is Decode with a context for emitted signals.
func DecodeContext[T any](ctx context.Context, data []byte, opts ...Option) (T, error) {
	var out T
	if err := unmarshal(ctx, data, &out, typeName[T](), opts); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Prepare builds and caches the plan for T ahead of the first Unmarshal or
// Marshal. Struct types are scanned with sentinel first, so their fields,
// and those of the module's struct types they refer to, are read from
// sentinel metadata.
func Prepare[T any]() error {
	scan[T]()
	_, err := planFor(reflect.TypeFor[T]())
	return err
}

// Marshal encodes v as a block-style document ending in a newline.
func Marshal(v any, opts ...Option) ([]byte, error) {
	return MarshalContext(context.Background(), v, opts...)
}

// MarshalContext is Marshal with a context for emitted signals.
func MarshalContext(ctx context.Context, v any, opts ...Option) ([]byte, error) {
	name := typeNameOf(v)
	start := time.Now()
	emitEncodeStart(ctx, name)

	e := newEncoder(newConfig(opts))
	err := encodeValue(e, reflect.ValueOf(v))
	if err == nil && e.indent != 0 {
		err = Custom("unbalanced indentation at end of output")
	}
	var out []byte
	if err == nil {
		out = e.Bytes()
	}

	emitEncodeComplete(ctx, name, len(out), time.Since(start), err)
	return out, err
}

// Encode encodes v and returns the document as a string.
func Encode(v any, opts ...Option) (string, error) {
	out, err := Marshal(v, opts...)
	return string(out), err
}
