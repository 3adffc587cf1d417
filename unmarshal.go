package scroll

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
)

// decodeValue decodes the next node into rv, which must be settable.
func decodeValue(d *Decoder, rv reflect.Value) error {
	p, err := planFor(rv.Type())
	if err != nil {
		return err
	}
	if p.unmarshaler {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalScroll(d)
	}
	if p.textUnmarshaler {
		var s string
		if err := d.DecodeString(text{BaseVisitor: BaseVisitor{Expecting: p.name}, out: &s}); err != nil {
			return err
		}
		if err := rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return d.Errorf("%s: %v", p.name, err)
		}
		return nil
	}

	v := &valueVisitor{BaseVisitor: BaseVisitor{Expecting: expecting(p)}, d: d, rv: rv, plan: p}
	switch p.shape {
	case shapeBool:
		return d.DecodeBool(v)
	case shapeInt:
		switch rv.Kind() {
		case reflect.Int8:
			return d.DecodeInt8(v)
		case reflect.Int16:
			return d.DecodeInt16(v)
		case reflect.Int32:
			return d.DecodeInt32(v)
		case reflect.Int64:
			return d.DecodeInt64(v)
		}
		return d.DecodeInt(v)
	case shapeUint:
		switch rv.Kind() {
		case reflect.Uint8:
			return d.DecodeUint8(v)
		case reflect.Uint16:
			return d.DecodeUint16(v)
		case reflect.Uint32:
			return d.DecodeUint32(v)
		case reflect.Uint64, reflect.Uintptr:
			return d.DecodeUint64(v)
		}
		return d.DecodeUint(v)
	case shapeFloat:
		if p.bits == 32 {
			return d.DecodeFloat32(v)
		}
		return d.DecodeFloat64(v)
	case shapeChar:
		return d.DecodeChar(v)
	case shapeString:
		return d.DecodeString(v)
	case shapeEnum:
		return d.DecodeEnum(p.name, p.variants, v)
	case shapeOption:
		return d.DecodeOption(v)
	case shapeUnit:
		return d.DecodeUnit(v)
	case shapeUnitStruct:
		return d.DecodeUnitStruct(p.name, v)
	case shapeSeq:
		return d.DecodeSeq(v)
	case shapeTuple:
		return d.DecodeTuple(rv.Len(), v)
	case shapeMap:
		return d.DecodeMap(v)
	case shapeStruct:
		return d.DecodeStruct(p.name, p.names, v)
	case shapeAny:
		return d.DecodeAny(v)
	case shapeUnion:
		return decodeUnion(d, rv, p.union)
	}
	return newUnsupported(rv.Type())
}

func visitorFor(d *Decoder, rv reflect.Value) (*valueVisitor, error) {
	p, err := planFor(rv.Type())
	if err != nil {
		return nil, err
	}
	return &valueVisitor{BaseVisitor: BaseVisitor{Expecting: expecting(p)}, d: d, rv: rv, plan: p}, nil
}

func expecting(p *typePlan) string {
	switch p.shape {
	case shapeBool:
		return "a boolean"
	case shapeInt, shapeUint:
		return "an integer"
	case shapeFloat:
		return "a floating point number"
	case shapeChar:
		return "a character"
	case shapeString:
		return "a string"
	case shapeEnum:
		return "enum " + p.name
	case shapeOption:
		return "an option"
	case shapeUnit, shapeUnitStruct:
		return "unit"
	case shapeSeq:
		return "a sequence"
	case shapeTuple:
		return fmt.Sprintf("an array of length %d", p.typ.Len())
	case shapeMap:
		return "a map"
	case shapeStruct:
		return "struct " + p.name
	}
	return "any value"
}

// valueVisitor stores what the decoder reports into rv.
type valueVisitor struct {
	BaseVisitor
	d    *Decoder
	rv   reflect.Value
	plan *typePlan
}

func (v *valueVisitor) VisitBool(b bool) error {
	if v.rv.Kind() != reflect.Bool {
		return v.BaseVisitor.VisitBool(b)
	}
	v.rv.SetBool(b)
	return nil
}

func (v *valueVisitor) VisitInt(n int64) error {
	switch v.rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.rv.SetInt(n)
		return nil
	}
	return v.BaseVisitor.VisitInt(n)
}

func (v *valueVisitor) VisitUint(n uint64) error {
	switch v.rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.rv.SetUint(n)
		return nil
	}
	return v.BaseVisitor.VisitUint(n)
}

func (v *valueVisitor) VisitFloat(f float64) error {
	switch v.rv.Kind() {
	case reflect.Float32, reflect.Float64:
		v.rv.SetFloat(f)
		return nil
	}
	return v.BaseVisitor.VisitFloat(f)
}

func (v *valueVisitor) VisitChar(r rune) error {
	if v.plan.shape != shapeChar {
		return v.BaseVisitor.VisitChar(r)
	}
	v.rv.SetInt(int64(r))
	return nil
}

func (v *valueVisitor) VisitString(s string) error {
	switch v.plan.shape {
	case shapeString:
		v.rv.SetString(s)
		return nil
	case shapeAny:
		v.rv.Set(reflect.ValueOf(s))
		return nil
	}
	return v.BaseVisitor.VisitString(s)
}

func (v *valueVisitor) VisitNone() error {
	if v.plan.shape != shapeOption {
		return v.BaseVisitor.VisitNone()
	}
	v.rv.Set(reflect.Zero(v.rv.Type()))
	return nil
}

func (v *valueVisitor) VisitSome(d *Decoder) error {
	if v.plan.shape != shapeOption {
		return v.BaseVisitor.VisitSome(d)
	}
	ptr := reflect.New(v.rv.Type().Elem())
	if err := decodeValue(d, ptr.Elem()); err != nil {
		return err
	}
	v.rv.Set(ptr)
	return nil
}

func (v *valueVisitor) VisitUnit() error {
	if v.plan.shape != shapeUnit && v.plan.shape != shapeUnitStruct {
		return v.BaseVisitor.VisitUnit()
	}
	return nil
}

func (v *valueVisitor) VisitSeq(s *SeqAccess) error {
	switch v.plan.shape {
	case shapeSeq:
		return v.slice(s, v.rv.Type())
	case shapeTuple:
		return v.array(s)
	case shapeAny:
		out := reflect.New(reflect.TypeFor[[]any]()).Elem()
		if err := (&valueVisitor{d: v.d, rv: out}).slice(s, out.Type()); err != nil {
			return err
		}
		v.rv.Set(out)
		return nil
	}
	return v.BaseVisitor.VisitSeq(s)
}

func (v *valueVisitor) slice(s *SeqAccess, t reflect.Type) error {
	out := reflect.MakeSlice(t, 0, 0)
	for i := 0; ; i++ {
		elem := reflect.New(t.Elem()).Elem()
		ok, err := s.NextElement(func(d *Decoder) error {
			if err := decodeValue(d, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		out = reflect.Append(out, elem)
	}
	v.rv.Set(out)
	return nil
}

func (v *valueVisitor) array(s *SeqAccess) error {
	n := v.rv.Len()
	for i := 0; i < n; i++ {
		elem := v.rv.Index(i)
		ok, err := s.NextElement(func(d *Decoder) error {
			if err := decodeValue(d, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !ok {
			return v.d.Errorf("invalid length %d, expected an array of length %d", i, n)
		}
	}
	extra := 0
	for {
		ok, err := s.NextElement(func(d *Decoder) error { return d.Skip() })
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		extra++
	}
	if extra > 0 {
		return v.d.Errorf("invalid length %d, expected an array of length %d", n+extra, n)
	}
	return nil
}

func (v *valueVisitor) VisitMap(m *MapAccess) error {
	switch v.plan.shape {
	case shapeMap:
		return v.mapping(m, v.rv)
	case shapeStruct:
		return v.structure(m)
	case shapeAny:
		out := reflect.MakeMap(reflect.TypeFor[map[string]any]())
		if err := v.mapping(m, out); err != nil {
			return err
		}
		v.rv.Set(out)
		return nil
	}
	return v.BaseVisitor.VisitMap(m)
}

func (v *valueVisitor) mapping(m *MapAccess, out reflect.Value) error {
	t := out.Type()
	if out.IsNil() {
		out.Set(reflect.MakeMap(t))
	}
	for {
		key := reflect.New(t.Key()).Elem()
		ok, err := m.NextKey(func(d *Decoder) error { return decodeValue(d, key) })
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		val := reflect.New(t.Elem()).Elem()
		if err := m.NextValue(func(d *Decoder) error { return decodeValue(d, val) }); err != nil {
			return fmt.Errorf("%v: %w", key.Interface(), err)
		}
		out.SetMapIndex(key, val)
	}
}

func (v *valueVisitor) structure(m *MapAccess) error {
	p := v.plan
	seen := make([]bool, len(p.fields))
	for {
		var name string
		ok, err := m.NextKey(identifier(&name))
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		i, known := p.byName[name]
		if !known {
			if v.d.cfg.allowUnknown {
				if err := m.SkipValue(); err != nil {
					return err
				}
				continue
			}
			return v.d.Errorf("unknown field `%s`, %s", name, oneOf(p.names, "field"))
		}
		if seen[i] {
			return v.d.Errorf("duplicate field `%s`", name)
		}
		seen[i] = true
		f := p.fields[i]
		fv := v.rv.FieldByIndex(f.index)
		if err := m.NextValue(func(d *Decoder) error { return decodeValue(d, fv) }); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for i, f := range p.fields {
		if !seen[i] && f.required {
			return v.d.Errorf("missing field `%s`", f.name)
		}
	}
	return nil
}

func (v *valueVisitor) VisitEnum(e EnumAccess) error {
	if v.plan.shape != shapeEnum {
		return v.BaseVisitor.VisitEnum(e)
	}
	var tag string
	va, err := e.Variant(identifier(&tag))
	if err != nil {
		return err
	}
	if !contains(v.plan.variants, tag) {
		return v.d.Errorf("unknown variant `%s`, %s", tag, oneOf(v.plan.variants, "variant"))
	}
	if err := va.Unit(); err != nil {
		return err
	}
	v.rv.SetString(tag)
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// oneOf renders the alternatives for an unknown field or variant message.
func oneOf(names []string, what string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	switch len(quoted) {
	case 0:
		return "there are no " + what + "s"
	case 1:
		return "expected " + quoted[0]
	case 2:
		return "expected " + quoted[0] + " or " + quoted[1]
	}
	return "expected one of " + strings.Join(quoted, ", ")
}
