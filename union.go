package scroll

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/scroll/event"
)

type variantKind int

const (
	variantUnit variantKind = iota
	variantNewtype
	variantTuple
	variantStruct
)

var variantKindNames = map[variantKind]string{
	variantUnit:    "unit",
	variantNewtype: "newtype",
	variantTuple:   "tuple",
	variantStruct:  "struct",
}

func (k variantKind) String() string {
	return variantKindNames[k]
}

type variantPlan struct {
	name string
	typ  reflect.Type // payload type, never a pointer
	ptr  bool         // the interface holds *typ
	kind variantKind
}

func (v variantPlan) dynamic() reflect.Type {
	if v.ptr {
		return reflect.PointerTo(v.typ)
	}
	return v.typ
}

type unionPlan struct {
	typ      reflect.Type
	name     string
	tagging  Tagging
	tag      string
	content  string
	variants []variantPlan
	names    []string
	byName   map[string]int
	byType   map[reflect.Type]int
	err      error
}

// UnionOption configures a union registration.
type UnionOption func(*unionPlan)

// Variant adds T as the variant called name. The variant's shape follows
// T: an empty struct is a unit variant, a struct with fields is a struct
// variant, a slice or array is a tuple variant, and anything else is a
// newtype variant. T or *T must implement the union interface.
func Variant[T any](name string) UnionOption {
	scan[T]()
	return func(u *unionPlan) {
		u.add(name, reflect.TypeFor[T](), false)
	}
}

// Newtype adds T as the variant called name, always wrapping T as a single
// value regardless of its shape.
func Newtype[T any](name string) UnionOption {
	scan[T]()
	return func(u *unionPlan) {
		u.add(name, reflect.TypeFor[T](), true)
	}
}

// Internally stores the variant name in the field tag of the payload
// mapping. Only unit, struct, and newtype-of-struct variants can be
// internally tagged.
func Internally(tag string) UnionOption {
	return func(u *unionPlan) {
		u.tagging, u.tag = TagInternal, tag
	}
}

// Adjacently writes the variant name in field tag and the payload in field
// content.
func Adjacently(tag, content string) UnionOption {
	return func(u *unionPlan) {
		u.tagging, u.tag, u.content = TagAdjacent, tag, content
	}
}

// Untagged writes payloads with no variant name. Decoding tries each
// variant in registration order and keeps the first that matches.
func Untagged() UnionOption {
	return func(u *unionPlan) {
		u.tagging = TagUntagged
	}
}

func (u *unionPlan) add(name string, t reflect.Type, newtype bool) {
	if u.err != nil {
		return
	}
	v := variantPlan{name: name, typ: t}
	switch {
	case t.Kind() == reflect.Pointer && t.Implements(u.typ):
		v.typ, v.ptr = t.Elem(), true
	case t.Implements(u.typ):
	case reflect.PointerTo(t).Implements(u.typ):
		v.ptr = true
	default:
		u.err = newUnionError(u.name, name, fmt.Sprintf("%s does not implement %s", t, u.name))
		return
	}

	p, err := planFor(v.typ)
	if err != nil {
		u.err = newUnionError(u.name, name, err.Error())
		return
	}
	switch {
	case newtype || p.marshaler || p.unmarshaler || p.textMarshaler || p.textUnmarshaler:
		v.kind = variantNewtype
	case p.shape == shapeUnit || p.shape == shapeUnitStruct:
		v.kind = variantUnit
	case p.shape == shapeStruct:
		v.kind = variantStruct
	case p.shape == shapeSeq || p.shape == shapeTuple:
		v.kind = variantTuple
	default:
		v.kind = variantNewtype
	}

	if _, dup := u.byName[name]; dup {
		u.err = newUnionError(u.name, name, "duplicate variant name")
		return
	}
	if _, dup := u.byType[v.dynamic()]; dup {
		u.err = newUnionError(u.name, name, fmt.Sprintf("type %s registered twice", v.dynamic()))
		return
	}
	u.byName[name] = len(u.variants)
	u.byType[v.dynamic()] = len(u.variants)
	u.variants = append(u.variants, v)
	u.names = append(u.names, name)
}

func (u *unionPlan) validate() error {
	if u.err != nil {
		return u.err
	}
	if !IsValidTagging(u.tagging) {
		return newUnionError(u.name, "", fmt.Sprintf("unknown tagging %q", u.tagging))
	}
	if len(u.variants) == 0 {
		return newUnionError(u.name, "", "no variants")
	}
	switch u.tagging {
	case TagInternal:
		if u.tag == "" {
			return newUnionError(u.name, "", "internal tagging needs a tag field")
		}
		for _, v := range u.variants {
			if err := u.internalVariant(v); err != nil {
				return err
			}
		}
	case TagAdjacent:
		if u.tag == "" || u.content == "" || u.tag == u.content {
			return newUnionError(u.name, "", "adjacent tagging needs distinct tag and content fields")
		}
	}
	return nil
}

func (u *unionPlan) internalVariant(v variantPlan) error {
	if v.kind == variantUnit {
		return nil
	}
	p, err := planFor(v.typ)
	if err != nil {
		return newUnionError(u.name, v.name, err.Error())
	}
	if v.kind == variantTuple || p.shape != shapeStruct || p.marshaler || p.unmarshaler {
		return newUnionError(u.name, v.name, "internally tagged variants must be structs")
	}
	if _, clash := p.byName[u.tag]; clash {
		return newUnionError(u.name, v.name, fmt.Sprintf("field %q collides with the tag", u.tag))
	}
	return nil
}

// variant resolves tag, reporting an unknown tag at span.
func (u *unionPlan) variant(tag string, span event.Span) (variantPlan, error) {
	i, ok := u.byName[tag]
	if !ok {
		return variantPlan{}, &CustomError{
			Msg:  fmt.Sprintf("unknown variant `%s`, %s", tag, oneOf(u.names, "variant")),
			Span: span,
		}
	}
	return u.variants[i], nil
}

func (u *unionPlan) set(rv, payload reflect.Value, v variantPlan) {
	if v.ptr {
		rv.Set(payload.Addr())
		return
	}
	rv.Set(payload)
}

func decodeUnion(d *Decoder, rv reflect.Value, u *unionPlan) error {
	switch u.tagging {
	case TagInternal:
		return decodeInternal(d, rv, u)
	case TagAdjacent:
		return decodeAdjacent(d, rv, u)
	case TagUntagged:
		return decodeUntagged(d, rv, u)
	}
	return d.DecodeEnum(u.name, u.names, &unionVisitor{
		BaseVisitor: BaseVisitor{Expecting: "union " + u.name},
		d:           d,
		rv:          rv,
		union:       u,
	})
}

// unionVisitor reads an externally tagged union.
type unionVisitor struct {
	BaseVisitor
	d     *Decoder
	rv    reflect.Value
	union *unionPlan
}

func (v *unionVisitor) VisitEnum(e EnumAccess) error {
	var tag string
	va, err := e.Variant(identifier(&tag))
	if err != nil {
		return err
	}
	vp, err := v.union.variant(tag, v.d.Span())
	if err != nil {
		return err
	}
	payload := reflect.New(vp.typ).Elem()
	switch vp.kind {
	case variantUnit:
		err = va.Unit()
	case variantNewtype:
		err = va.Newtype(func(d *Decoder) error { return decodeValue(d, payload) })
	default:
		var pv *valueVisitor
		pv, err = visitorFor(v.d, payload)
		if err != nil {
			return err
		}
		if vp.kind == variantTuple {
			n := 0
			if payload.Kind() == reflect.Array {
				n = payload.Len()
			}
			err = va.Tuple(n, pv)
		} else {
			err = va.Struct(pv.plan.names, pv)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	v.union.set(v.rv, payload, vp)
	return nil
}

// entry locates one key/value pair inside recorded mapping events: the key
// is events[start:value] and the value events[value:end].
type entry struct {
	start, value, end int
}

func nodeEnd(events []event.Event, i int) int {
	depth := 0
	for j := i; j < len(events); j++ {
		switch {
		case events[j].Kind.IsStart():
			depth++
		case events[j].Kind.IsEnd():
			depth--
		}
		if depth == 0 {
			return j + 1
		}
	}
	return len(events)
}

func entries(events []event.Event) []entry {
	var out []entry
	for i := 1; i < len(events)-1; {
		value := nodeEnd(events, i)
		end := nodeEnd(events, value)
		out = append(out, entry{start: i, value: value, end: end})
		i = end
	}
	return out
}

// field returns the entry whose key is the scalar name.
func field(events []event.Event, all []entry, name string) (entry, bool) {
	for _, en := range all {
		key := events[en.start]
		if en.value-en.start == 1 && key.Kind == event.Scalar && key.Value == name {
			return en, true
		}
	}
	return entry{}, false
}

func without(events []event.Event, en entry) []event.Event {
	out := make([]event.Event, 0, len(events)-(en.end-en.start))
	out = append(out, events[:en.start]...)
	return append(out, events[en.end:]...)
}

// recordMapping captures the next node and requires it to be a mapping.
func recordMapping(d *Decoder, u *unionPlan) ([]event.Event, error) {
	rec, err := d.Record()
	if err != nil {
		return nil, err
	}
	events := rec.Events()
	if rec.Kind() != event.MappingStart {
		return nil, &TypeError{
			Msg:  fmt.Sprintf("expected a mapping for union %s, found %s", u.name, events[0]),
			Span: events[0].Span,
		}
	}
	return events, nil
}

func tagValue(events []event.Event, en entry) (string, error) {
	value := events[en.value]
	if en.end-en.value != 1 || value.Kind != event.Scalar {
		return "", &TypeError{Msg: fmt.Sprintf("expected a variant name, found %s", value), Span: value.Span}
	}
	return value.Value, nil
}

func decodeInternal(d *Decoder, rv reflect.Value, u *unionPlan) error {
	events, err := recordMapping(d, u)
	if err != nil {
		return err
	}
	en, ok := field(events, entries(events), u.tag)
	if !ok {
		return &CustomError{Msg: fmt.Sprintf("missing field `%s`", u.tag), Span: events[0].Span}
	}
	tag, err := tagValue(events, en)
	if err != nil {
		return err
	}
	vp, err := u.variant(tag, events[en.value].Span)
	if err != nil {
		return err
	}

	rest := without(events, en)
	if vp.kind == variantUnit && !d.cfg.allowUnknown {
		if extra := entries(rest); len(extra) > 0 {
			key := rest[extra[0].start]
			return &CustomError{
				Msg:  fmt.Sprintf("%s: unknown field `%s`, %s", tag, key.Value, oneOf([]string{u.tag}, "field")),
				Span: key.Span,
			}
		}
	}
	rd := d.replay(rest)
	payload := reflect.New(vp.typ).Elem()
	if vp.kind == variantUnit {
		err = rd.DecodeMap(ignore{})
	} else {
		err = decodeValue(rd, payload)
	}
	if err == nil {
		err = rd.Finish()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	u.set(rv, payload, vp)
	return nil
}

func decodeAdjacent(d *Decoder, rv reflect.Value, u *unionPlan) error {
	events, err := recordMapping(d, u)
	if err != nil {
		return err
	}
	all := entries(events)
	if !d.cfg.allowUnknown {
		for _, en := range all {
			key := events[en.start]
			if key.Kind != event.Scalar || (key.Value != u.tag && key.Value != u.content) {
				return &CustomError{
					Msg:  fmt.Sprintf("unknown field `%s`, %s", key.Value, oneOf([]string{u.tag, u.content}, "field")),
					Span: key.Span,
				}
			}
		}
	}
	tagEntry, ok := field(events, all, u.tag)
	if !ok {
		return &CustomError{Msg: fmt.Sprintf("missing field `%s`", u.tag), Span: events[0].Span}
	}
	tag, err := tagValue(events, tagEntry)
	if err != nil {
		return err
	}
	vp, err := u.variant(tag, events[tagEntry.value].Span)
	if err != nil {
		return err
	}

	payload := reflect.New(vp.typ).Elem()
	contentEntry, hasContent := field(events, all, u.content)
	switch {
	case !hasContent && vp.kind == variantUnit:
	case !hasContent:
		return &CustomError{Msg: fmt.Sprintf("missing field `%s`", u.content), Span: events[0].Span}
	default:
		rd := d.replay(events[contentEntry.value:contentEntry.end])
		if vp.kind == variantUnit {
			err = rd.DecodeUnit(unit{BaseVisitor{Expecting: "unit variant"}})
		} else {
			err = decodeValue(rd, payload)
		}
		if err == nil {
			err = rd.Finish()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
	}
	u.set(rv, payload, vp)
	return nil
}

func decodeUntagged(d *Decoder, rv reflect.Value, u *unionPlan) error {
	rec, err := d.Record()
	if err != nil {
		return err
	}
	for _, vp := range u.variants {
		rd := rec.Decoder()
		payload := reflect.New(vp.typ).Elem()
		if vp.kind == variantUnit {
			err = rd.DecodeUnit(unit{BaseVisitor{Expecting: "unit variant"}})
		} else {
			err = decodeValue(rd, payload)
		}
		if err == nil {
			err = rd.Finish()
		}
		if err == nil {
			u.set(rv, payload, vp)
			return nil
		}
	}
	var span event.Span
	if events := rec.Events(); len(events) > 0 {
		span = events[0].Span
	}
	return &CustomError{Msg: fmt.Sprintf("data did not match any variant of untagged union %s", u.name), Span: span}
}
