package scroll

import "fmt"

// DecodeFunc decodes one value from d.
type DecodeFunc func(d *Decoder) error

// Visitor receives the value a Decoder dispatch call produces. The decoder
// chooses which method to call from the shape it was asked for and the
// events it reads.
type Visitor interface {
	VisitBool(v bool) error
	VisitInt(v int64) error
	VisitUint(v uint64) error
	VisitFloat(v float64) error
	VisitChar(v rune) error
	VisitString(v string) error
	VisitNone() error
	VisitSome(d *Decoder) error
	VisitUnit() error
	VisitNewtype(d *Decoder) error
	VisitSeq(s *SeqAccess) error
	VisitMap(m *MapAccess) error
	VisitEnum(e EnumAccess) error
}

// BaseVisitor rejects every shape with a TypeError. Embed it and override
// the methods for the shapes a visitor accepts.
type BaseVisitor struct {
	// Expecting describes what the visitor wants, for error messages.
	Expecting string
}

func (b BaseVisitor) invalid(found string) error {
	expecting := b.Expecting
	if expecting == "" {
		expecting = "a different value"
	}
	return &TypeError{Msg: fmt.Sprintf("expected %s, found %s", expecting, found)}
}

func (b BaseVisitor) VisitBool(v bool) error      { return b.invalid(fmt.Sprintf("boolean `%t`", v)) }
func (b BaseVisitor) VisitInt(v int64) error      { return b.invalid(fmt.Sprintf("integer `%d`", v)) }
func (b BaseVisitor) VisitUint(v uint64) error    { return b.invalid(fmt.Sprintf("integer `%d`", v)) }
func (b BaseVisitor) VisitFloat(v float64) error  { return b.invalid(fmt.Sprintf("floating point `%g`", v)) }
func (b BaseVisitor) VisitChar(v rune) error      { return b.invalid(fmt.Sprintf("character %q", v)) }
func (b BaseVisitor) VisitString(v string) error  { return b.invalid(fmt.Sprintf("string %q", v)) }
func (b BaseVisitor) VisitNone() error            { return b.invalid("none") }
func (b BaseVisitor) VisitSome(*Decoder) error    { return b.invalid("some") }
func (b BaseVisitor) VisitUnit() error            { return b.invalid("unit") }
func (b BaseVisitor) VisitNewtype(*Decoder) error { return b.invalid("newtype") }
func (b BaseVisitor) VisitSeq(*SeqAccess) error   { return b.invalid("sequence") }
func (b BaseVisitor) VisitMap(*MapAccess) error   { return b.invalid("map") }
func (b BaseVisitor) VisitEnum(EnumAccess) error  { return b.invalid("enum") }

// ignore accepts anything. Collections it is handed are left unread and
// drained by the decoder.
type ignore struct{}

func (ignore) VisitBool(bool) error          { return nil }
func (ignore) VisitInt(int64) error          { return nil }
func (ignore) VisitUint(uint64) error        { return nil }
func (ignore) VisitFloat(float64) error      { return nil }
func (ignore) VisitChar(rune) error          { return nil }
func (ignore) VisitString(string) error      { return nil }
func (ignore) VisitNone() error              { return nil }
func (ignore) VisitSome(d *Decoder) error    { return d.DecodeIgnoredAny(ignore{}) }
func (ignore) VisitUnit() error              { return nil }
func (ignore) VisitNewtype(d *Decoder) error { return d.DecodeIgnoredAny(ignore{}) }
func (ignore) VisitSeq(*SeqAccess) error     { return nil }
func (ignore) VisitMap(*MapAccess) error     { return nil }
func (ignore) VisitEnum(EnumAccess) error    { return nil }

// text captures a string or identifier.
type text struct {
	BaseVisitor
	out *string
}

func (t text) VisitString(v string) error {
	*t.out = v
	return nil
}

func identifier(out *string) DecodeFunc {
	return func(d *Decoder) error {
		return d.DecodeIdentifier(text{BaseVisitor: BaseVisitor{Expecting: "an identifier"}, out: out})
	}
}

// unit accepts only unit.
type unit struct{ BaseVisitor }

func (unit) VisitUnit() error { return nil }
