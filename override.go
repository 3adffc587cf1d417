package scroll

// Override interfaces allow types to bypass reflection-based decoding and
// encoding. When a type implements one of these interfaces, scroll calls
// the interface method instead of deriving the shape from the Go type.
//
// Types implementing encoding.TextMarshaler or encoding.TextUnmarshaler
// are written and read as a single string scalar.

// Unmarshaler decodes a value from the decoder directly.
type Unmarshaler interface {
	// UnmarshalScroll must consume exactly one node from d.
	UnmarshalScroll(d *Decoder) error
}

// Marshaler encodes a value to the encoder directly.
type Marshaler interface {
	// MarshalScroll must write exactly one value to e.
	MarshalScroll(e *Encoder) error
}
