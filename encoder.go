package scroll

import (
	"strconv"
	"strings"
)

// EncodeFunc encodes one value to e.
type EncodeFunc func(e *Encoder) error

// position tracks what the output ends with.
type position int

const (
	lineStart   position = iota // ready for content, nothing pending
	afterScalar                 // a scalar ended the current line
	afterColon                  // "key:" was just written
	afterDash                   // "-" was just written
)

// Encoder renders values as block-style text with two-space indentation.
// Sequence elements start with "- ", mapping entries with "key:", and the
// first entry of a collection nested in a sequence element shares the
// "- " line.
type Encoder struct {
	buf    strings.Builder
	indent int
	pos    position
	key    bool
	cfg    *config
}

func newEncoder(cfg *config) *Encoder {
	return &Encoder{cfg: cfg}
}

// NewEncoder returns an empty Encoder.
func NewEncoder(opts ...Option) *Encoder {
	return newEncoder(newConfig(opts))
}

// String returns the rendered output followed by a newline.
func (e *Encoder) String() string {
	return e.buf.String() + "\n"
}

// Bytes returns the rendered output followed by a newline.
func (e *Encoder) Bytes() []byte {
	return []byte(e.String())
}

func (e *Encoder) newline() {
	e.buf.WriteByte('\n')
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
	e.pos = lineStart
}

// beginLine prepares for a block item: a sequence element or a mapping key.
func (e *Encoder) beginLine() error {
	if e.key {
		return Custom("mapping keys must be scalars")
	}
	switch e.pos {
	case afterDash:
		e.buf.WriteByte(' ')
		e.pos = lineStart
	case afterColon, afterScalar:
		e.newline()
	}
	return nil
}

func (e *Encoder) scalar(s string) error {
	switch e.pos {
	case afterColon, afterDash:
		if s != "" {
			e.buf.WriteByte(' ')
			e.buf.WriteString(s)
		}
	case lineStart:
		e.buf.WriteString(s)
	case afterScalar:
		return Custom("scalar written without a key or sequence indicator")
	}
	e.pos = afterScalar
	return nil
}

// flow writes an empty collection.
func (e *Encoder) flow(s string) error {
	if e.key {
		return Custom("mapping keys must be scalars")
	}
	return e.scalar(s)
}

func (e *Encoder) text(s string) error {
	if e.cfg.quote && ambiguous(s) {
		return e.scalar(strconv.Quote(s))
	}
	return e.scalar(s)
}

func (e *Encoder) dedent() error {
	if e.indent == 0 {
		return Custom("indentation underflow")
	}
	e.indent--
	return nil
}

func (e *Encoder) label(name string) error {
	if err := e.beginLine(); err != nil {
		return err
	}
	e.buf.WriteString(name)
	e.buf.WriteByte(':')
	e.pos = afterColon
	return nil
}

func (e *Encoder) nested(fn EncodeFunc) error {
	e.indent++
	if err := fn(e); err != nil {
		return err
	}
	return e.dedent()
}

// EncodeBool writes true or false.
func (e *Encoder) EncodeBool(v bool) error {
	return e.scalar(strconv.FormatBool(v))
}

// EncodeInt writes a signed integer in decimal.
func (e *Encoder) EncodeInt(v int64) error {
	return e.scalar(strconv.FormatInt(v, 10))
}

// EncodeUint writes an unsigned integer in decimal.
func (e *Encoder) EncodeUint(v uint64) error {
	return e.scalar(strconv.FormatUint(v, 10))
}

// EncodeFloat writes the shortest representation of v that parses back to
// the same value at the given bit size. Infinities and NaN use the .inf and
// .nan literals.
func (e *Encoder) EncodeFloat(v float64, bits int) error {
	return e.scalar(formatFloat(v, bits))
}

// EncodeChar writes a single character.
func (e *Encoder) EncodeChar(v rune) error {
	return e.text(string(v))
}

// EncodeString writes v as a plain scalar, quoting it when the encoder is
// configured with QuoteAmbiguous and v would not read back as a string.
func (e *Encoder) EncodeString(v string) error {
	return e.text(v)
}

// EncodeNone writes null.
func (e *Encoder) EncodeNone() error {
	return e.scalar("null")
}

// EncodeSome writes the present value of an option.
func (e *Encoder) EncodeSome(fn EncodeFunc) error {
	return fn(e)
}

// EncodeUnit writes null.
func (e *Encoder) EncodeUnit() error {
	return e.scalar("null")
}

// EncodeUnitStruct writes null for the named empty struct.
func (e *Encoder) EncodeUnitStruct(name string) error {
	return e.scalar("null")
}

// EncodeUnitVariant writes the bare variant name.
func (e *Encoder) EncodeUnitVariant(name, variant string) error {
	return e.scalar(variant)
}

// EncodeNewtypeStruct writes the wrapped value.
func (e *Encoder) EncodeNewtypeStruct(name string, fn EncodeFunc) error {
	return fn(e)
}

// EncodeNewtypeVariant writes "variant:" followed by the payload one level
// deeper.
func (e *Encoder) EncodeNewtypeVariant(name, variant string, fn EncodeFunc) error {
	if err := e.label(variant); err != nil {
		return err
	}
	return e.nested(fn)
}

// EncodeSeq begins a sequence.
func (e *Encoder) EncodeSeq(n int) (*SeqEncoder, error) {
	if e.key {
		return nil, Custom("mapping keys must be scalars")
	}
	return &SeqEncoder{e: e}, nil
}

// EncodeTuple begins a fixed-length sequence.
func (e *Encoder) EncodeTuple(n int) (*SeqEncoder, error) {
	return e.EncodeSeq(n)
}

// EncodeTupleStruct begins the named tuple struct as a sequence.
func (e *Encoder) EncodeTupleStruct(name string, n int) (*SeqEncoder, error) {
	return e.EncodeSeq(n)
}

// EncodeTupleVariant writes "variant:" and begins a sequence one level
// deeper.
func (e *Encoder) EncodeTupleVariant(name, variant string, n int) (*SeqEncoder, error) {
	if err := e.label(variant); err != nil {
		return nil, err
	}
	e.indent++
	return &SeqEncoder{e: e, variant: true}, nil
}

// EncodeMap begins a mapping.
func (e *Encoder) EncodeMap(n int) (*MapEncoder, error) {
	if e.key {
		return nil, Custom("mapping keys must be scalars")
	}
	return &MapEncoder{e: e}, nil
}

// EncodeStruct begins the named struct as a mapping.
func (e *Encoder) EncodeStruct(name string, n int) (*StructEncoder, error) {
	if e.key {
		return nil, Custom("mapping keys must be scalars")
	}
	return &StructEncoder{e: e}, nil
}

// EncodeStructVariant writes "variant:" and begins a struct one level
// deeper.
func (e *Encoder) EncodeStructVariant(name, variant string, n int) (*StructEncoder, error) {
	if err := e.label(variant); err != nil {
		return nil, err
	}
	e.indent++
	return &StructEncoder{e: e, variant: true}, nil
}

// SeqEncoder writes the elements of a sequence.
type SeqEncoder struct {
	e       *Encoder
	count   int
	variant bool
}

// Element writes one element.
func (s *SeqEncoder) Element(fn EncodeFunc) error {
	e := s.e
	if err := e.beginLine(); err != nil {
		return err
	}
	e.buf.WriteByte('-')
	e.pos = afterDash
	s.count++
	return e.nested(fn)
}

// End closes the sequence. An empty sequence is written as [].
func (s *SeqEncoder) End() error {
	if s.count == 0 {
		if err := s.e.flow("[]"); err != nil {
			return err
		}
	}
	if s.variant {
		return s.e.dedent()
	}
	return nil
}

// MapEncoder writes the entries of a mapping.
type MapEncoder struct {
	e     *Encoder
	count int
}

// Key writes a key. Keys must encode as scalars.
func (m *MapEncoder) Key(fn EncodeFunc) error {
	e := m.e
	if err := e.beginLine(); err != nil {
		return err
	}
	e.key = true
	err := fn(e)
	e.key = false
	if err != nil {
		return err
	}
	e.buf.WriteByte(':')
	e.pos = afterColon
	m.count++
	return nil
}

// Value writes the value for the key just written.
func (m *MapEncoder) Value(fn EncodeFunc) error {
	return m.e.nested(fn)
}

// Entry writes a key and its value.
func (m *MapEncoder) Entry(key, value EncodeFunc) error {
	if err := m.Key(key); err != nil {
		return err
	}
	return m.Value(value)
}

// End closes the mapping. An empty mapping is written as {}.
func (m *MapEncoder) End() error {
	if m.count == 0 {
		return m.e.flow("{}")
	}
	return nil
}

// StructEncoder writes the fields of a struct.
type StructEncoder struct {
	e       *Encoder
	count   int
	variant bool
}

// Field writes one field.
func (s *StructEncoder) Field(name string, fn EncodeFunc) error {
	if err := s.e.label(name); err != nil {
		return err
	}
	s.count++
	return s.e.nested(fn)
}

// End closes the struct. A struct with no fields written is {}.
func (s *StructEncoder) End() error {
	if s.count == 0 {
		if err := s.e.flow("{}"); err != nil {
			return err
		}
	}
	if s.variant {
		return s.e.dedent()
	}
	return nil
}
