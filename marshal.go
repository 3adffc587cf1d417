package scroll

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
)

// encodeValue writes rv to e. An invalid value is written as null.
func encodeValue(e *Encoder, rv reflect.Value) error {
	if !rv.IsValid() {
		return e.EncodeNone()
	}
	p, err := planFor(rv.Type())
	if err != nil {
		return err
	}
	if (p.marshaler || p.textMarshaler) && rv.Kind() == reflect.Pointer && rv.IsNil() {
		return e.EncodeNone()
	}
	if p.marshaler {
		if m, ok := receiver(rv).Interface().(Marshaler); ok {
			return m.MarshalScroll(e)
		}
	}
	if p.textMarshaler {
		if m, ok := receiver(rv).Interface().(encoding.TextMarshaler); ok {
			b, err := m.MarshalText()
			if err != nil {
				return Customf("%s: %v", p.name, err)
			}
			return e.EncodeString(string(b))
		}
	}

	switch p.shape {
	case shapeBool:
		return e.EncodeBool(rv.Bool())
	case shapeInt:
		return e.EncodeInt(rv.Int())
	case shapeUint:
		return e.EncodeUint(rv.Uint())
	case shapeFloat:
		return e.EncodeFloat(rv.Float(), p.bits)
	case shapeChar:
		return e.EncodeChar(rune(rv.Int()))
	case shapeString:
		return e.EncodeString(rv.String())
	case shapeEnum:
		return e.EncodeUnitVariant(p.name, rv.String())
	case shapeOption:
		if rv.IsNil() {
			return e.EncodeNone()
		}
		return e.EncodeSome(func(e *Encoder) error { return encodeValue(e, rv.Elem()) })
	case shapeUnit:
		return e.EncodeUnit()
	case shapeUnitStruct:
		return e.EncodeUnitStruct(p.name)
	case shapeSeq, shapeTuple:
		s, err := e.EncodeSeq(rv.Len())
		if err != nil {
			return err
		}
		return encodeElements(s, rv)
	case shapeMap:
		return encodeMap(e, rv)
	case shapeStruct:
		s, err := e.EncodeStruct(p.name, len(p.fields))
		if err != nil {
			return err
		}
		if err := encodeFields(s, rv, p); err != nil {
			return err
		}
		return s.End()
	case shapeAny:
		if rv.IsNil() {
			return e.EncodeNone()
		}
		return encodeValue(e, rv.Elem())
	case shapeUnion:
		return encodeUnion(e, rv, p.union)
	}
	return newUnsupported(rv.Type())
}

// receiver returns a value whose method set includes pointer methods.
func receiver(rv reflect.Value) reflect.Value {
	if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		return rv
	}
	if rv.CanAddr() {
		return rv.Addr()
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	return ptr
}

func encodeElements(s *SeqEncoder, rv reflect.Value) error {
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if err := s.Element(func(e *Encoder) error { return encodeValue(e, elem) }); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return s.End()
}

func encodeFields(s *StructEncoder, rv reflect.Value, p *typePlan) error {
	for _, f := range p.fields {
		fv := rv.FieldByIndex(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := s.Field(f.name, func(e *Encoder) error { return encodeValue(e, fv) }); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

func encodeMap(e *Encoder, rv reflect.Value) error {
	m, err := e.EncodeMap(rv.Len())
	if err != nil {
		return err
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })
	for _, key := range keys {
		val := rv.MapIndex(key)
		err := m.Entry(
			func(e *Encoder) error { return encodeValue(e, key) },
			func(e *Encoder) error { return encodeValue(e, val) },
		)
		if err != nil {
			return fmt.Errorf("%v: %w", key.Interface(), err)
		}
	}
	return m.End()
}

// lessKey orders map keys so output is deterministic.
func lessKey(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	case reflect.Bool:
		return !a.Bool() && b.Bool()
	}
	return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func encodeUnion(e *Encoder, rv reflect.Value, u *unionPlan) error {
	if rv.IsNil() {
		return e.EncodeNone()
	}
	dyn := rv.Elem()
	i, ok := u.byType[dyn.Type()]
	if !ok {
		return Customf("%s is not a registered variant of %s", dyn.Type(), u.name)
	}
	vp := u.variants[i]
	payload := dyn
	if vp.ptr {
		if dyn.IsNil() {
			return e.EncodeNone()
		}
		payload = dyn.Elem()
	}
	p, err := planFor(vp.typ)
	if err != nil {
		return err
	}

	switch u.tagging {
	case TagInternal:
		s, err := e.EncodeStruct(u.name, len(p.fields)+1)
		if err != nil {
			return err
		}
		if err := s.Field(u.tag, func(e *Encoder) error { return e.EncodeString(vp.name) }); err != nil {
			return err
		}
		if vp.kind != variantUnit {
			if err := encodeFields(s, payload, p); err != nil {
				return err
			}
		}
		return s.End()
	case TagAdjacent:
		s, err := e.EncodeStruct(u.name, 2)
		if err != nil {
			return err
		}
		if err := s.Field(u.tag, func(e *Encoder) error { return e.EncodeString(vp.name) }); err != nil {
			return err
		}
		if vp.kind != variantUnit {
			if err := s.Field(u.content, func(e *Encoder) error { return encodeValue(e, payload) }); err != nil {
				return err
			}
		}
		return s.End()
	case TagUntagged:
		if vp.kind == variantUnit {
			return e.EncodeUnit()
		}
		return encodeValue(e, payload)
	}

	switch vp.kind {
	case variantUnit:
		return e.EncodeUnitVariant(u.name, vp.name)
	case variantTuple:
		s, err := e.EncodeTupleVariant(u.name, vp.name, payload.Len())
		if err != nil {
			return err
		}
		return encodeElements(s, payload)
	case variantStruct:
		s, err := e.EncodeStructVariant(u.name, vp.name, len(p.fields))
		if err != nil {
			return err
		}
		if err := encodeFields(s, payload, p); err != nil {
			return err
		}
		return s.End()
	}
	return e.EncodeNewtypeVariant(u.name, vp.name, func(e *Encoder) error { return encodeValue(e, payload) })
}
