package scroll

import (
	"fmt"

	"github.com/zoobzio/scroll/event"
)

// SeqAccess yields the elements of a sequence to a visitor.
type SeqAccess struct {
	d    *Decoder
	done bool
}

// NextElement decodes the next element with fn. It returns false, having
// consumed the sequence end, when no elements remain.
func (s *SeqAccess) NextElement(fn DecodeFunc) (bool, error) {
	if s.done {
		return false, nil
	}
	ev, err := s.d.peek()
	if err != nil {
		return false, err
	}
	if ev.Kind == event.SequenceEnd {
		if _, err := s.d.cur.Next(); err != nil {
			return false, err
		}
		s.done = true
		return false, nil
	}
	if err := fn(s.d); err != nil {
		return false, err
	}
	return true, nil
}

// finish drains whatever the visitor left unread.
func (s *SeqAccess) finish() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.d.cur.ConsumeToSequenceEnd()
}

// MapAccess yields the entries of a mapping to a visitor. Calls must
// alternate NextKey and NextValue.
type MapAccess struct {
	d    *Decoder
	done bool
}

// NextKey decodes the next key with fn. It returns false, having consumed
// the mapping end, when no entries remain.
func (m *MapAccess) NextKey(fn DecodeFunc) (bool, error) {
	if m.done {
		return false, nil
	}
	ev, err := m.d.peek()
	if err != nil {
		return false, err
	}
	if ev.Kind == event.MappingEnd {
		if _, err := m.d.cur.Next(); err != nil {
			return false, err
		}
		m.done = true
		return false, nil
	}
	if err := fn(m.d); err != nil {
		return false, err
	}
	return true, nil
}

// NextValue decodes the value of the entry whose key was just read.
func (m *MapAccess) NextValue(fn DecodeFunc) error {
	return fn(m.d)
}

// NextEntry decodes the next key and value.
func (m *MapAccess) NextEntry(key, value DecodeFunc) (bool, error) {
	ok, err := m.NextKey(key)
	if !ok || err != nil {
		return ok, err
	}
	return true, m.NextValue(value)
}

// SkipValue discards the value of the entry whose key was just read.
func (m *MapAccess) SkipValue() error {
	return m.d.DecodeIgnoredAny(ignore{})
}

// Decoder returns the decoder the entries are read from.
func (m *MapAccess) Decoder() *Decoder {
	return m.d
}

func (m *MapAccess) finish() error {
	if m.done {
		return nil
	}
	m.done = true
	return m.d.cur.ConsumeToMappingEnd()
}

// EnumAccess yields the variant tag of an enum.
type EnumAccess interface {
	// Variant decodes the tag with fn and returns access to the payload.
	Variant(fn DecodeFunc) (VariantAccess, error)
}

// VariantAccess decodes the payload of the variant selected by
// EnumAccess.Variant. Exactly one method must be called.
type VariantAccess interface {
	Unit() error
	Newtype(fn DecodeFunc) error
	Tuple(n int, v Visitor) error
	Struct(fields []string, v Visitor) error
}

// unitVariantAccess serves an enum written as a bare scalar. Only unit
// variants can be read this way.
type unitVariantAccess struct {
	d    *Decoder
	tag  event.Event
	read bool
}

func (u *unitVariantAccess) Variant(fn DecodeFunc) (VariantAccess, error) {
	u.read = true
	if err := fn(u.d); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *unitVariantAccess) Unit() error { return nil }

func (u *unitVariantAccess) found(kind string) error {
	return &TypeError{
		Msg:  fmt.Sprintf("expected %s variant, found unit variant `%s`", kind, u.tag.Value),
		Span: u.tag.Span,
	}
}

func (u *unitVariantAccess) Newtype(DecodeFunc) error { return u.found("newtype") }

func (u *unitVariantAccess) Tuple(int, Visitor) error { return u.found("tuple") }

func (u *unitVariantAccess) Struct([]string, Visitor) error { return u.found("struct") }

// externalAccess serves an enum written as a single-entry mapping.
type externalAccess struct {
	d *Decoder
}

func (x *externalAccess) Variant(fn DecodeFunc) (VariantAccess, error) {
	if err := fn(x.d); err != nil {
		return nil, err
	}
	return x, nil
}

func (x *externalAccess) Unit() error {
	return x.d.DecodeUnit(unit{BaseVisitor{Expecting: "unit variant"}})
}

func (x *externalAccess) Newtype(fn DecodeFunc) error {
	return fn(x.d)
}

func (x *externalAccess) Tuple(n int, v Visitor) error {
	return x.d.DecodeTuple(n, v)
}

func (x *externalAccess) Struct(fields []string, v Visitor) error {
	return x.d.DecodeStruct("", fields, v)
}
