package scroll

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/zoobzio/scroll/event"
)

// Decoder drives a Visitor from an event stream. A type asks the decoder for
// the shape it expects; the decoder reads the events for that shape and
// reports the value to the visitor.
//
// Every dispatch call consumes exactly one complete node, including when
// the visitor stops reading a collection early. A Decoder is single-use and
// not safe for concurrent use.
type Decoder struct {
	cur *Cursor
	cfg *config
}

// NewDecoder returns a Decoder for the document in data, using the
// configured driver.
func NewDecoder(data []byte, opts ...Option) *Decoder {
	cfg := newConfig(opts)
	return newDecoder(cfg.driver.NewBytes(data), cfg)
}

// NewSourceDecoder returns a Decoder reading events from src.
func NewSourceDecoder(src event.Source, opts ...Option) *Decoder {
	return newDecoder(src, newConfig(opts))
}

func newDecoder(src event.Source, cfg *config) *Decoder {
	return &Decoder{cur: NewCursor(src), cfg: cfg}
}

// Decode reads a whole stream holding one document into the value pointed
// to by v.
func (d *Decoder) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &TypeError{Msg: fmt.Sprintf("decode target must be a non-nil pointer, got %T", v)}
	}
	return d.DecodeDocument(func(d *Decoder) error {
		return decodeValue(d, rv.Elem())
	})
}

// DecodeDocument reads a whole stream holding one document, calling fn for
// the document's root node. A stream with no documents reads as a single
// document holding an empty scalar.
func (d *Decoder) DecodeDocument(fn DecodeFunc) error {
	if err := d.cur.ExpectStreamStart("stream"); err != nil {
		return err
	}
	ev, err := d.peek()
	if err != nil {
		return err
	}
	if ev.Kind == event.StreamEnd {
		if _, err := d.cur.Next(); err != nil {
			return err
		}
		empty := d.replay([]event.Event{{Kind: event.Scalar, Span: ev.Span}})
		if err := fn(empty); err != nil {
			return err
		}
		if err := empty.Finish(); err != nil {
			return err
		}
		return d.exhausted()
	}
	if err := d.cur.ExpectDocumentStart("document"); err != nil {
		return err
	}
	if err := fn(d); err != nil {
		return err
	}
	if err := d.cur.ExpectDocumentEnd("document"); err != nil {
		return err
	}
	if err := d.cur.ExpectStreamEnd("stream"); err != nil {
		return err
	}
	return d.exhausted()
}

func (d *Decoder) exhausted() error {
	if ev, ok := d.cur.Peek(); ok {
		return newUnexpected(ev, "stream")
	}
	return nil
}

// Finish requires that every event has been consumed. It is used after
// decoding from a Recording.
func (d *Decoder) Finish() error {
	return d.exhausted()
}

// Peek returns the next event without consuming it.
func (d *Decoder) Peek() (event.Event, error) {
	return d.peek()
}

func (d *Decoder) peek() (event.Event, error) {
	if ev, ok := d.cur.Peek(); ok {
		return ev, nil
	}
	_, err := d.cur.Next()
	if err == nil {
		err = ErrEarlyTermination
	}
	return event.Event{}, err
}

// Span returns the position of the most recently consumed event.
func (d *Decoder) Span() event.Span {
	return d.cur.Span()
}

// Errorf returns a CustomError positioned at the most recently consumed
// event.
func (d *Decoder) Errorf(format string, args ...any) error {
	return &CustomError{Msg: fmt.Sprintf(format, args...), Span: d.cur.Span()}
}

// Skip consumes the next complete node.
func (d *Decoder) Skip() error {
	return d.cur.Skip()
}

// AllowsUnknownFields reports whether struct decoding ignores unknown keys.
func (d *Decoder) AllowsUnknownFields() bool {
	return d.cfg.allowUnknown
}

// locate positions a TypeError raised by a visitor without a span.
func (d *Decoder) locate(err error) error {
	if te, ok := err.(*TypeError); ok && te.Span.IsZero() {
		return &TypeError{Msg: te.Msg, Span: d.cur.Span()}
	}
	return err
}

func (d *Decoder) replay(events []event.Event) *Decoder {
	return newDecoder(event.Replay(events), d.cfg)
}

func (d *Decoder) scalar(context string) (event.Event, error) {
	return d.cur.Expect(event.Scalar, context)
}

// DecodeAny decodes whatever node comes next: scalars are reported as
// strings, collections as sequences or maps.
func (d *Decoder) DecodeAny(v Visitor) error {
	ev, err := d.peek()
	if err != nil {
		return err
	}
	switch ev.Kind {
	case event.Scalar:
		if _, err := d.cur.Next(); err != nil {
			return err
		}
		return d.locate(v.VisitString(ev.Value))
	case event.SequenceStart:
		return d.DecodeSeq(v)
	case event.MappingStart:
		return d.DecodeMap(v)
	}
	if _, err := d.cur.Next(); err != nil {
		return err
	}
	return newUnexpected(ev, "any")
}

// DecodeIgnoredAny decodes the next node for a visitor that discards it.
func (d *Decoder) DecodeIgnoredAny(v Visitor) error {
	return d.DecodeAny(v)
}

// DecodeBool decodes a boolean literal.
func (d *Decoder) DecodeBool(v Visitor) error {
	ev, err := d.scalar("bool")
	if err != nil {
		return err
	}
	b, ok := parseBool(ev.Value)
	if !ok {
		return &BoolParseError{Text: ev.Value, Span: ev.Span}
	}
	return d.locate(v.VisitBool(b))
}

func (d *Decoder) signed(bits int, typ string, v Visitor) error {
	ev, err := d.scalar(typ)
	if err != nil {
		return err
	}
	n, err := strconv.ParseInt(ev.Value, 10, bits)
	if err != nil {
		return numberError(ev, typ, err)
	}
	return d.locate(v.VisitInt(n))
}

func (d *Decoder) unsigned(bits int, typ string, v Visitor) error {
	ev, err := d.scalar(typ)
	if err != nil {
		return err
	}
	n, err := parseUint(ev.Value, bits)
	if err != nil {
		return numberError(ev, typ, err)
	}
	return d.locate(v.VisitUint(n))
}

func (d *Decoder) float(bits int, typ string, v Visitor) error {
	ev, err := d.scalar(typ)
	if err != nil {
		return err
	}
	f, err := parseFloat(ev.Value, bits)
	if err != nil {
		return numberError(ev, typ, err)
	}
	return d.locate(v.VisitFloat(f))
}

// DecodeInt8 decodes a decimal integer in the int8 range.
func (d *Decoder) DecodeInt8(v Visitor) error { return d.signed(8, "int8", v) }

// DecodeInt16 decodes a decimal integer in the int16 range.
func (d *Decoder) DecodeInt16(v Visitor) error { return d.signed(16, "int16", v) }

// DecodeInt32 decodes a decimal integer in the int32 range.
func (d *Decoder) DecodeInt32(v Visitor) error { return d.signed(32, "int32", v) }

// DecodeInt64 decodes a decimal integer in the int64 range.
func (d *Decoder) DecodeInt64(v Visitor) error { return d.signed(64, "int64", v) }

// DecodeInt decodes a decimal integer in the int range.
func (d *Decoder) DecodeInt(v Visitor) error { return d.signed(strconv.IntSize, "int", v) }

// DecodeUint8 decodes a decimal integer in the uint8 range.
func (d *Decoder) DecodeUint8(v Visitor) error { return d.unsigned(8, "uint8", v) }

// DecodeUint16 decodes a decimal integer in the uint16 range.
func (d *Decoder) DecodeUint16(v Visitor) error { return d.unsigned(16, "uint16", v) }

// DecodeUint32 decodes a decimal integer in the uint32 range.
func (d *Decoder) DecodeUint32(v Visitor) error { return d.unsigned(32, "uint32", v) }

// DecodeUint64 decodes a decimal integer in the uint64 range.
func (d *Decoder) DecodeUint64(v Visitor) error { return d.unsigned(64, "uint64", v) }

// DecodeUint decodes a decimal integer in the uint range.
func (d *Decoder) DecodeUint(v Visitor) error { return d.unsigned(strconv.IntSize, "uint", v) }

// DecodeFloat32 decodes a float32, including the .inf and .nan literals.
func (d *Decoder) DecodeFloat32(v Visitor) error { return d.float(32, "float32", v) }

// DecodeFloat64 decodes a float64, including the .inf and .nan literals.
func (d *Decoder) DecodeFloat64(v Visitor) error { return d.float(64, "float64", v) }

// DecodeChar decodes a scalar holding exactly one character.
func (d *Decoder) DecodeChar(v Visitor) error {
	ev, err := d.scalar("char")
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(ev.Value) != 1 {
		return &TypeError{Msg: fmt.Sprintf("expected a character, found string %q", ev.Value), Span: ev.Span}
	}
	r, _ := utf8.DecodeRuneInString(ev.Value)
	return d.locate(v.VisitChar(r))
}

// DecodeString decodes any scalar as its text.
func (d *Decoder) DecodeString(v Visitor) error {
	ev, err := d.scalar("string")
	if err != nil {
		return err
	}
	return d.locate(v.VisitString(ev.Value))
}

// DecodeIdentifier decodes a field name or variant tag.
func (d *Decoder) DecodeIdentifier(v Visitor) error {
	ev, err := d.scalar("identifier")
	if err != nil {
		return err
	}
	return d.locate(v.VisitString(ev.Value))
}

// DecodeOption reports None for a null literal and Some otherwise. For
// Some the scalar is left for the visitor to decode.
func (d *Decoder) DecodeOption(v Visitor) error {
	ev, err := d.peek()
	if err != nil {
		return err
	}
	if ev.Kind == event.Scalar && isNull(ev.Value) {
		if _, err := d.cur.Next(); err != nil {
			return err
		}
		return d.locate(v.VisitNone())
	}
	return d.locate(v.VisitSome(d))
}

func (d *Decoder) null(what string) error {
	ev, err := d.cur.Next()
	if err != nil {
		return err
	}
	if ev.Kind != event.Scalar || !isNull(ev.Value) {
		return &TypeError{Msg: fmt.Sprintf("expected %s, found %s", what, ev), Span: ev.Span}
	}
	return nil
}

// DecodeUnit decodes a null literal.
func (d *Decoder) DecodeUnit(v Visitor) error {
	if err := d.null("unit"); err != nil {
		return err
	}
	return d.locate(v.VisitUnit())
}

// DecodeUnitStruct decodes a null literal for the named empty struct.
func (d *Decoder) DecodeUnitStruct(name string, v Visitor) error {
	if err := d.null("unit struct " + name); err != nil {
		return err
	}
	return d.locate(v.VisitUnit())
}

// DecodeNewtypeStruct hands the decoder to the visitor to decode the
// wrapped value.
func (d *Decoder) DecodeNewtypeStruct(name string, v Visitor) error {
	return d.locate(v.VisitNewtype(d))
}

// DecodeSeq decodes a sequence. Elements the visitor does not read are
// skipped.
func (d *Decoder) DecodeSeq(v Visitor) error {
	if err := d.cur.ExpectSequenceStart("sequence"); err != nil {
		return err
	}
	acc := &SeqAccess{d: d}
	if err := d.locate(v.VisitSeq(acc)); err != nil {
		return err
	}
	return acc.finish()
}

// DecodeTuple decodes a sequence of n elements. Arity is checked by the
// visitor.
func (d *Decoder) DecodeTuple(n int, v Visitor) error {
	return d.DecodeSeq(v)
}

// DecodeTupleStruct decodes the named tuple struct as a sequence.
func (d *Decoder) DecodeTupleStruct(name string, n int, v Visitor) error {
	return d.DecodeSeq(v)
}

// DecodeMap decodes a mapping. Entries the visitor does not read are
// skipped.
func (d *Decoder) DecodeMap(v Visitor) error {
	if err := d.cur.ExpectMappingStart("map"); err != nil {
		return err
	}
	acc := &MapAccess{d: d}
	if err := d.locate(v.VisitMap(acc)); err != nil {
		return err
	}
	return acc.finish()
}

// DecodeStruct decodes the named struct as a mapping of its field names.
func (d *Decoder) DecodeStruct(name string, fields []string, v Visitor) error {
	if err := d.cur.ExpectMappingStart("struct " + name); err != nil {
		return err
	}
	acc := &MapAccess{d: d}
	if err := d.locate(v.VisitMap(acc)); err != nil {
		return err
	}
	return acc.finish()
}

// DecodeEnum decodes an externally tagged enum: a bare scalar names a unit
// variant, a single-entry mapping carries the variant name as its key and
// the payload as its value.
func (d *Decoder) DecodeEnum(name string, variants []string, v Visitor) error {
	ev, err := d.peek()
	if err != nil {
		return err
	}
	switch ev.Kind {
	case event.Scalar:
		acc := &unitVariantAccess{d: d, tag: ev}
		if err := d.locate(v.VisitEnum(acc)); err != nil {
			return err
		}
		if !acc.read {
			return d.cur.Skip()
		}
		return nil
	case event.MappingStart:
		if _, err := d.cur.Next(); err != nil {
			return err
		}
		acc := &externalAccess{d: d}
		if err := d.locate(v.VisitEnum(acc)); err != nil {
			return err
		}
		return d.cur.ExpectMappingEnd("enum " + name)
	}
	if _, err := d.cur.Next(); err != nil {
		return err
	}
	return newUnexpected(ev, "enum "+name)
}

// Record consumes the next complete node and keeps its events so it can
// be decoded again, any number of times.
func (d *Decoder) Record() (*Recording, error) {
	events, err := d.cur.Record()
	if err != nil {
		return nil, err
	}
	return &Recording{events: events, cfg: d.cfg}, nil
}

// Recording is a captured node.
type Recording struct {
	events []event.Event
	cfg    *config
}

// Events returns the recorded events. The slice must not be modified.
func (r *Recording) Events() []event.Event {
	return r.events
}

// Decoder returns a fresh Decoder over the recorded node.
func (r *Recording) Decoder() *Decoder {
	return newDecoder(event.Replay(r.events), r.cfg)
}

// Kind returns the kind of the recorded node's first event.
func (r *Recording) Kind() event.Kind {
	if len(r.events) == 0 {
		return event.Scalar
	}
	return r.events[0].Kind
}
