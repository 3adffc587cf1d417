package scroll_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/scroll"
)

type Shape interface{ isShape() }

type Circle struct {
	Radius float64 `yaml:"radius"`
}

type Square struct {
	Side int `yaml:"side"`
}

type Triangle struct {
	Base   int `yaml:"base"`
	Height int `yaml:"height"`
}

type Dot struct{}

type Label string

type Path []Point

func (Circle) isShape()    {}
func (Square) isShape()    {}
func (*Triangle) isShape() {}
func (Dot) isShape()       {}
func (Label) isShape()     {}
func (Path) isShape()      {}

func registerShapes(t *testing.T) {
	t.Helper()
	scroll.Reset()
	t.Cleanup(scroll.Reset)
	err := scroll.RegisterUnion[Shape](
		scroll.Variant[Circle]("Circle"),
		scroll.Variant[Square]("Square"),
		scroll.Variant[Triangle]("Triangle"),
		scroll.Variant[Dot]("Dot"),
		scroll.Variant[Label]("Label"),
		scroll.Variant[Path]("Path"),
	)
	if err != nil {
		t.Fatalf("RegisterUnion() error = %v", err)
	}
}

const shapesDoc = `- Circle:
    radius: 1.5
- Square:
    side: 2
- Triangle:
    base: 3
    height: 4
- Dot
- Label: hi
- Path:
    - x: 1
      y: 2
`

func shapes() []Shape {
	return []Shape{
		Circle{Radius: 1.5},
		Square{Side: 2},
		&Triangle{Base: 3, Height: 4},
		Dot{},
		Label("hi"),
		Path{{X: 1, Y: 2}},
	}
}

func TestUnion_External(t *testing.T) {
	registerShapes(t)

	got, err := scroll.Encode(shapes())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got != shapesDoc {
		t.Errorf("Encode() = %q, want %q", got, shapesDoc)
	}

	decoded, err := scroll.Decode[[]Shape]([]byte(shapesDoc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(shapes(), decoded); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnion_ExternalErrors(t *testing.T) {
	registerShapes(t)

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"unknown variant", "Hexagon: {}", "unknown variant `Hexagon`"},
		{"struct as scalar", "Circle", "expected struct variant, found unit variant `Circle`"},
		{"bad payload", "Square:\n  side: wide\n", "Square: side: cannot parse \"wide\" as int"},
		{"two keys", "Dot: null\nCircle: {}\n", "unexpected element"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scroll.Decode[Shape]([]byte(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestUnion_Unregistered(t *testing.T) {
	registerShapes(t)

	if _, err := scroll.Encode([]Shape{unknownShape{}}); !errors.Is(err, scroll.ErrCustom) {
		t.Errorf("unregistered variant error = %v, want ErrCustom", err)
	}

	type Opaque interface{ opaque() }
	if _, err := scroll.Decode[Opaque]([]byte("x")); !errors.Is(err, scroll.ErrUnsupportedType) {
		t.Errorf("unregistered interface error = %v, want ErrUnsupportedType", err)
	}
}

type unknownShape struct{}

func (unknownShape) isShape() {}

type Message interface{ isMessage() }

type Ping struct{}

type Text struct {
	Body string `yaml:"body"`
}

func (Ping) isMessage() {}
func (Text) isMessage() {}

func TestUnion_Internal(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)
	scroll.MustRegisterUnion[Message](
		scroll.Internally("type"),
		scroll.Variant[Ping]("Ping"),
		scroll.Variant[Text]("Text"),
	)

	in := []Message{Ping{}, Text{Body: "hi"}}
	got, err := scroll.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := "- type: Ping\n- type: Text\n  body: hi\n"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	decoded, err := scroll.Decode[[]Message]([]byte("- type: Ping\n- body: hi\n  type: Text\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(in, decoded); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	errs := []struct {
		input   string
		wantMsg string
	}{
		{"body: hi\n", "missing field `type`"},
		{"type: Shout\n", "unknown variant `Shout`, expected `Ping` or `Text`"},
		{"type: [Text]\n", "expected a variant name"},
		{"- Text\n", "expected a mapping for union Message"},
		{"type: Text\n", "Text: missing field `body`"},
		{"type: Ping\nextra: 1\n", "Ping: unknown field `extra`, expected `type`"},
	}
	for _, tt := range errs {
		_, err := scroll.Decode[Message]([]byte(tt.input))
		if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
			t.Errorf("Decode(%q) error = %v, want it to contain %q", tt.input, err, tt.wantMsg)
		}
	}

	m, err := scroll.Decode[Message]([]byte("type: Ping\nextra: 1\n"), scroll.AllowUnknownFields())
	if err != nil || m != (Ping{}) {
		t.Errorf("Decode() with unknown fields allowed = %v, %v", m, err)
	}
}

func TestUnion_UnknownVariantPosition(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)
	scroll.MustRegisterUnion[Message](
		scroll.Internally("type"),
		scroll.Variant[Ping]("Ping"),
		scroll.Variant[Text]("Text"),
	)
	scroll.MustRegisterUnion[Value](
		scroll.Adjacently("t", "c"),
		scroll.Variant[Num]("Num"),
	)

	tests := []struct {
		name   string
		decode func() error
		line   int
		column int
	}{
		{"internal", func() error {
			_, err := scroll.Decode[Message]([]byte("body: hi\ntype: Shout\n"))
			return err
		}, 2, 7},
		{"adjacent", func() error {
			_, err := scroll.Decode[Value]([]byte("c: 1\nt: Shout\n"))
			return err
		}, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ce *scroll.CustomError
			if err := tt.decode(); !errors.As(err, &ce) {
				t.Fatalf("Decode() error = %v, want *CustomError", err)
			}
			if ce.Span.Start.Line != tt.line || ce.Span.Start.Column != tt.column {
				t.Errorf("span = %v, want line %d, column %d", ce.Span, tt.line, tt.column)
			}
		})
	}
}

type Value interface{ isValue() }

type Num int

type Words []string

type Nothing struct{}

func (Num) isValue()     {}
func (Words) isValue()   {}
func (Nothing) isValue() {}

func TestUnion_Adjacent(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)
	scroll.MustRegisterUnion[Value](
		scroll.Adjacently("t", "c"),
		scroll.Variant[Num]("Num"),
		scroll.Variant[Words]("Words"),
		scroll.Variant[Nothing]("Nothing"),
	)

	in := []Value{Num(3), Words{"a", "b"}, Nothing{}}
	want := "- t: Num\n  c: 3\n- t: Words\n  c:\n    - a\n    - b\n- t: Nothing\n"
	got, err := scroll.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	decoded, err := scroll.Decode[[]Value]([]byte("- c: 3\n  t: Num\n- t: Words\n  c: [a, b]\n- t: Nothing\n  c: ~\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(in, decoded); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	errs := []struct {
		input   string
		wantMsg string
	}{
		{"t: Num\n", "missing field `c`"},
		{"c: 1\n", "missing field `t`"},
		{"t: Num\nc: 1\nx: 2\n", "unknown field `x`, expected `t` or `c`"},
		{"t: Num\nc: many\n", "Num: cannot parse \"many\" as int"},
	}
	for _, tt := range errs {
		_, err := scroll.Decode[Value]([]byte(tt.input))
		if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
			t.Errorf("Decode(%q) error = %v, want it to contain %q", tt.input, err, tt.wantMsg)
		}
	}

	v, err := scroll.Decode[Value]([]byte("t: Num\nc: 1\nx: 2\n"), scroll.AllowUnknownFields())
	if err != nil || v != Num(1) {
		t.Errorf("Decode() with unknown fields allowed = %v, %v", v, err)
	}
}

type Loose interface{ isLoose() }

type Coord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Name string

func (Coord) isLoose() {}
func (Name) isLoose()  {}

func TestUnion_Untagged(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)
	scroll.MustRegisterUnion[Loose](
		scroll.Untagged(),
		scroll.Variant[Coord]("Coord"),
		scroll.Variant[Name]("Name"),
	)

	decoded, err := scroll.Decode[[]Loose]([]byte("- x: 1\n  y: 2\n- bob\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []Loose{Coord{X: 1, Y: 2}, Name("bob")}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	got, err := scroll.Encode(want)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got != "- x: 1\n  y: 2\n- bob\n" {
		t.Errorf("Encode() = %q", got)
	}

	_, err = scroll.Decode[Loose]([]byte("- 1\n"))
	if err == nil || !strings.Contains(err.Error(), "data did not match any variant of untagged union Loose") {
		t.Errorf("error = %v", err)
	}
}

type Tags []string

type Tagged interface{ isTagged() }

func (Tags) isTagged() {}

func TestUnion_NewtypeOption(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)
	scroll.MustRegisterUnion[Tagged](scroll.Newtype[Tags]("Tags"))

	v, err := scroll.Decode[Tagged]([]byte("Tags: [a, b]\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(Tagged(Tags{"a", "b"}), v); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

type Clash struct {
	Type string `yaml:"type"`
}

func (Clash) isMessage() {}

type Pair [2]int

func (Pair) isMessage() {}

func TestRegisterUnion_Errors(t *testing.T) {
	tests := []struct {
		name     string
		register func() error
	}{
		{"not an interface", func() error { return scroll.RegisterUnion[Circle](scroll.Variant[Circle]("Circle")) }},
		{"no variants", func() error { return scroll.RegisterUnion[Shape]() }},
		{"not implemented", func() error { return scroll.RegisterUnion[Shape](scroll.Variant[Ping]("Ping")) }},
		{"duplicate name", func() error {
			return scroll.RegisterUnion[Shape](scroll.Variant[Circle]("A"), scroll.Variant[Square]("A"))
		}},
		{"duplicate type", func() error {
			return scroll.RegisterUnion[Shape](scroll.Variant[Circle]("A"), scroll.Variant[Circle]("B"))
		}},
		{"internal without tag", func() error {
			return scroll.RegisterUnion[Message](scroll.Internally(""), scroll.Variant[Ping]("Ping"))
		}},
		{"internal tuple", func() error {
			return scroll.RegisterUnion[Message](scroll.Internally("type"), scroll.Variant[Pair]("Pair"))
		}},
		{"internal collision", func() error {
			return scroll.RegisterUnion[Message](scroll.Internally("type"), scroll.Variant[Clash]("Clash"))
		}},
		{"adjacent same fields", func() error {
			return scroll.RegisterUnion[Value](scroll.Adjacently("v", "v"), scroll.Variant[Num]("Num"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scroll.Reset()
			err := tt.register()
			if !errors.Is(err, scroll.ErrInvalidUnion) {
				t.Errorf("error = %v, want ErrInvalidUnion", err)
			}
			var ue *scroll.UnionError
			if !errors.As(err, &ue) {
				t.Errorf("error = %T, want *UnionError", err)
			}
		})
	}
	scroll.Reset()
}

func TestRegisterUnion_Twice(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)

	if err := scroll.RegisterUnion[Shape](scroll.Variant[Dot]("Dot")); err != nil {
		t.Fatalf("first RegisterUnion() error = %v", err)
	}
	err := scroll.RegisterUnion[Shape](scroll.Variant[Dot]("Dot"))
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("second RegisterUnion() error = %v", err)
	}
}

func TestMustRegisterUnion_Panics(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)

	defer func() {
		if recover() == nil {
			t.Error("MustRegisterUnion() should panic on an invalid registration")
		}
	}()
	scroll.MustRegisterUnion[Shape]()
}

type Request interface{ isRequest() }

type ValueA struct {
	ID     string `yaml:"id"`
	Method string `yaml:"method"`
}

func (ValueA) isRequest() {}

type RequestKind string

func (RequestKind) Variants() []string { return []string{"ValueA", "ValueB"} }

func TestUnion_ExternalStructVariant(t *testing.T) {
	scroll.Reset()
	t.Cleanup(scroll.Reset)
	scroll.MustRegisterUnion[Request](scroll.Variant[ValueA]("ValueA"))

	got, err := scroll.Decode[Request]([]byte("ValueA:\n  id: foo\n  method: bar\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if want := (ValueA{ID: "foo", Method: "bar"}); got != want {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}

	kind, err := scroll.Decode[RequestKind]([]byte("ValueA"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if kind != "ValueA" {
		t.Errorf("Decode() = %q, want %q", kind, "ValueA")
	}
}
