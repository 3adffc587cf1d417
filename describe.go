package scroll

import (
	"encoding"
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("yaml")
}

// Char is a single Unicode character. It decodes from a scalar of exactly
// one character.
type Char rune

// Enum is implemented by string types whose values form a closed set of
// unit variants.
type Enum interface {
	Variants() []string
}

type shape int

const (
	shapeBool shape = iota
	shapeInt
	shapeUint
	shapeFloat
	shapeChar
	shapeString
	shapeEnum
	shapeOption
	shapeUnit
	shapeUnitStruct
	shapeSeq
	shapeTuple
	shapeMap
	shapeStruct
	shapeAny
	shapeUnion
)

type fieldPlan struct {
	name      string
	goName    string
	index     []int
	typ       reflect.Type
	omitEmpty bool
	required  bool
}

// typePlan is the cached description of how a Go type maps onto the data
// model.
type typePlan struct {
	typ      reflect.Type
	shape    shape
	name     string
	bits     int
	fields   []fieldPlan
	names    []string
	byName   map[string]int
	variants []string
	union    *unionPlan

	unmarshaler     bool
	marshaler       bool
	textUnmarshaler bool
	textMarshaler   bool
}

var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex

	charType            = reflect.TypeFor[Char]()
	enumType            = reflect.TypeFor[Enum]()
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	marshalerType       = reflect.TypeFor[Marshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
)

// planFor returns the cached plan for t, building it on first use.
// Struct plans refer to field types, not field plans, so recursive types
// resolve lazily.
func planFor(t reflect.Type) (*typePlan, error) {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if p, ok := plans[t]; ok {
		plansMu.RUnlock()
		return p, nil
	}
	plansMu.RUnlock()

	p, err := buildPlan(t)
	if err != nil {
		return nil, err
	}

	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[t]; ok {
		return cached, nil
	}
	plans[t] = p
	return p, nil
}

func resetPlans() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type]*typePlan)
}

func buildPlan(t reflect.Type) (*typePlan, error) {
	p := &typePlan{typ: t, name: displayName(t)}
	ptr := reflect.PointerTo(t)
	p.unmarshaler = ptr.Implements(unmarshalerType)
	p.marshaler = t.Implements(marshalerType) || ptr.Implements(marshalerType)
	if t.Kind() != reflect.Interface {
		p.textUnmarshaler = ptr.Implements(textUnmarshalerType)
		p.textMarshaler = t.Implements(textMarshalerType) || ptr.Implements(textMarshalerType)
	}

	if t == charType {
		p.shape = shapeChar
		return p, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		p.shape = shapeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.shape, p.bits = shapeInt, t.Bits()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		p.shape, p.bits = shapeUint, t.Bits()
	case reflect.Float32, reflect.Float64:
		p.shape, p.bits = shapeFloat, t.Bits()
	case reflect.String:
		p.shape = shapeString
		if t.Implements(enumType) {
			p.shape = shapeEnum
			p.variants = reflect.Zero(t).Interface().(Enum).Variants()
		}
	case reflect.Pointer:
		p.shape = shapeOption
	case reflect.Slice:
		p.shape = shapeSeq
	case reflect.Array:
		p.shape = shapeTuple
	case reflect.Map:
		p.shape = shapeMap
	case reflect.Struct:
		if t.NumField() == 0 {
			p.shape = shapeUnitStruct
			if t.Name() == "" {
				p.shape = shapeUnit
			}
			return p, nil
		}
		p.shape = shapeStruct
		if err := p.describeStruct(); err != nil {
			return nil, err
		}
	case reflect.Interface:
		if u, ok := lookupUnion(t); ok {
			p.shape, p.union = shapeUnion, u
			return p, nil
		}
		if t.NumMethod() == 0 {
			p.shape = shapeAny
			return p, nil
		}
		return nil, newUnsupported(t)
	default:
		if !p.unmarshaler && !p.marshaler && !p.textMarshaler {
			return nil, newUnsupported(t)
		}
	}
	return p, nil
}

func displayName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// describeStruct collects field plans, flattening inline fields.
func (p *typePlan) describeStruct() error {
	p.byName = make(map[string]int)
	if err := p.collect(p.typ, nil, map[reflect.Type]bool{}); err != nil {
		return err
	}
	for _, f := range p.fields {
		p.names = append(p.names, f.name)
	}
	return nil
}

func (p *typePlan) collect(rt reflect.Type, parent []int, visiting map[reflect.Type]bool) error {
	if visiting[rt] {
		return &TagError{Type: p.name, Field: rt.Name(), Tag: "inline"}
	}
	visiting[rt] = true
	defer delete(visiting, rt)

	meta, _ := structMetadata(rt)
	for _, fm := range meta.Fields {
		raw := fm.Tags["yaml"]
		tag, err := parseFieldTag(raw)
		if err != nil {
			return &TagError{Type: p.name, Field: fm.Name, Tag: raw}
		}
		if tag.skip {
			continue
		}
		index := append(append([]int(nil), parent...), fm.Index...)
		ft := fm.ReflectType
		embedded := rt.FieldByIndex(fm.Index).Anonymous

		if tag.inline || (embedded && tag.name == "" && ft.Kind() == reflect.Struct) {
			if ft.Kind() != reflect.Struct {
				return &TagError{Type: p.name, Field: fm.Name, Tag: raw}
			}
			if err := p.collect(ft, index, visiting); err != nil {
				return err
			}
			continue
		}
		name := tag.name
		if name == "" {
			name = strings.ToLower(fm.Name)
		}
		if _, dup := p.byName[name]; dup {
			return &TagError{Type: p.name, Field: fm.Name, Tag: "duplicate key " + name}
		}
		required := ft.Kind() != reflect.Pointer && !tag.omitEmpty && !tag.hasDefault
		if ft.Kind() == reflect.Interface && ft.NumMethod() == 0 {
			required = false
		}
		p.byName[name] = len(p.fields)
		p.fields = append(p.fields, fieldPlan{
			name:      name,
			goName:    fm.Name,
			index:     index,
			typ:       ft,
			omitEmpty: tag.omitEmpty,
			required:  required,
		})
	}
	return nil
}

// structMetadata returns the field metadata of rt. Types scanned by
// sentinel are served from its cache, keyed by package path and name;
// anything else is read by reflection. The second result reports a cache
// hit.
func structMetadata(rt reflect.Type) (sentinel.Metadata, bool) {
	if rt.Name() != "" {
		meta, ok := sentinel.Lookup(rt.PkgPath() + "." + rt.Name())
		// Types declared inside functions share a qualified name.
		if ok && meta.ReflectType == rt {
			return meta, true
		}
	}
	return reflectMetadata(rt), false
}

// reflectMetadata reads the exported fields of rt the way sentinel
// would, keeping only the yaml tag.
func reflectMetadata(rt reflect.Type) sentinel.Metadata {
	meta := sentinel.Metadata{ReflectType: rt, TypeName: rt.Name(), PackageName: rt.PkgPath()}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
		}
		if raw := sf.Tag.Get("yaml"); raw != "" {
			fm.Tags = map[string]string{"yaml": raw}
		}
		meta.Fields = append(meta.Fields, fm)
	}
	return meta
}

// scan records T with sentinel so its plan, and the plans of the struct
// types it refers to, are built from sentinel metadata.
func scan[T any]() {
	_, _ = sentinel.TryScan[T]()
}

// typeName returns the name reported in signals for values of T.
func typeName[T any]() string {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		if meta, err := sentinel.TryScan[T](); err == nil && meta.TypeName != "" {
			return meta.TypeName
		}
	}
	return displayName(rt)
}

func typeNameOf(v any) string {
	if v == nil {
		return "nil"
	}
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return displayName(rt)
}
