package scroll_test

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/scroll"
)

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Address struct {
	Street string `yaml:"street"`
	State  string `yaml:"state"`
}

type Person struct {
	Name      string            `yaml:"name"`
	Age       uint8             `yaml:"age"`
	Nickname  *string           `yaml:"nickname"`
	Addresses []Address         `yaml:"addresses,omitempty"`
	Tags      map[string]string `yaml:"tags,omitempty"`
	Score     float64           `yaml:"score,default"`
}

type Color string

func (Color) Variants() []string { return []string{"Red", "Green", "Blue"} }

type Marker struct{}

type Wide struct {
	I8   int8         `yaml:"i8"`
	I16  int16        `yaml:"i16"`
	I32  int32        `yaml:"i32"`
	I64  int64        `yaml:"i64"`
	U8   uint8        `yaml:"u8"`
	U16  uint16       `yaml:"u16"`
	U32  uint32       `yaml:"u32"`
	U64  uint64       `yaml:"u64"`
	F32  float32      `yaml:"f32"`
	Ch   scroll.Char  `yaml:"ch"`
	Pair [2]int       `yaml:"pair"`
	Col  Color        `yaml:"col"`
	Mark Marker       `yaml:"mark"`
	Any  any          `yaml:"any"`
	Nums map[int]bool `yaml:"nums"`
}

type Base struct {
	ID string `yaml:"id"`
}

type Derived struct {
	Base
	Name   string `yaml:"name"`
	hidden string
	Skip   string `yaml:"-"`
}

func TestUnmarshal_Struct(t *testing.T) {
	var p Point
	if err := scroll.Unmarshal([]byte("x: 1\ny: -2\n"), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p != (Point{X: 1, Y: -2}) {
		t.Errorf("Unmarshal() = %+v", p)
	}
}

func TestUnmarshal_Nested(t *testing.T) {
	input := `name: Ada
age: 36
nickname: null
addresses:
  - street: Kerkstraat
    state: Noord Holland
  - street: Damrak
    state: Noord Holland
tags:
  role: admin
`
	got, err := scroll.Decode[Person]([]byte(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := Person{
		Name: "Ada",
		Age:  36,
		Addresses: []Address{
			{Street: "Kerkstraat", State: "Noord Holland"},
			{Street: "Damrak", State: "Noord Holland"},
		},
		Tags: map[string]string{"role": "admin"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshal_Option(t *testing.T) {
	got, err := scroll.Decode[Person]([]byte("name: a\nage: 1\nnickname: foo\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Nickname == nil || *got.Nickname != "foo" {
		t.Errorf("Nickname = %v, want foo", got.Nickname)
	}

	got, err = scroll.Decode[Person]([]byte("name: a\nage: 1\nnickname: ~\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Nickname != nil {
		t.Errorf("Nickname = %q, want nil", *got.Nickname)
	}
}

func TestUnmarshal_AllShapes(t *testing.T) {
	input := `i8: -128
i16: 32767
i32: -5
i64: 9000000000
u8: 255
u16: 0
u32: 7
u64: 18446744073709551615
f32: 2.5
ch: z
pair: [3, 4]
col: Green
mark: ~
any:
  k: [a, b]
nums:
  1: yes
  2: off
`
	got, err := scroll.Decode[Wide]([]byte(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := Wide{
		I8: -128, I16: 32767, I32: -5, I64: 9000000000,
		U8: 255, U16: 0, U32: 7, U64: math.MaxUint64,
		F32:  2.5,
		Ch:   'z',
		Pair: [2]int{3, 4},
		Col:  "Green",
		Any:  map[string]any{"k": []any{"a", "b"}},
		Nums: map[int]bool{1: true, 2: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshal_Inline(t *testing.T) {
	got, err := scroll.Decode[Derived]([]byte("id: 7\nname: x\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.ID != "7" || got.Name != "x" {
		t.Errorf("Decode() = %+v", got)
	}

	_, err = scroll.Decode[Derived]([]byte("id: 7\nname: x\nskip: y\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown field `skip`") {
		t.Errorf("skipped field should be unknown, got %v", err)
	}
}

func TestUnmarshal_Bools(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"True", true},
		{"Y", true},
		{"on", true},
		{"", true},
		{"false", false},
		{"No", false},
		{"OFF", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := scroll.Decode[bool]([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"tRUE", "not_a_boolean", "1"} {
		if _, err := scroll.Decode[bool]([]byte(bad)); !errors.Is(err, scroll.ErrBoolParse) {
			t.Errorf("Decode(%q) error = %v, want ErrBoolParse", bad, err)
		}
	}
}

func TestUnmarshal_IntegerRange(t *testing.T) {
	if _, err := scroll.Decode[int8]([]byte("127")); err != nil {
		t.Errorf("int8 127 error = %v", err)
	}
	_, err := scroll.Decode[int8]([]byte("128"))
	var ne *scroll.NumberParseError
	if !errors.As(err, &ne) || !errors.Is(err, strconv.ErrRange) {
		t.Fatalf("int8 128 error = %v, want range NumberParseError", err)
	}
	if ne.Type != "int8" {
		t.Errorf("Type = %q, want int8", ne.Type)
	}
	if _, err := scroll.Decode[uint]([]byte("-1")); !errors.Is(err, scroll.ErrNumberParse) {
		t.Errorf("uint -1 error = %v, want ErrNumberParse", err)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{"unknown field", "x: 1\ny: 2\nz: 3\n", scroll.ErrCustom, "unknown field `z`, expected `x` or `y`"},
		{"missing field", "x: 1\n", scroll.ErrCustom, "missing field `y`"},
		{"duplicate field", "x: 1\nx: 2\ny: 3\n", scroll.ErrCustom, "duplicate field `x`"},
		{"field error path", "x: a\ny: 2\n", scroll.ErrNumberParse, "x: cannot parse \"a\" as int"},
		{"not a mapping", "- 1\n", scroll.ErrUnexpectedElement, "while reading struct Point"},
		{"trailing document", "x: 1\ny: 2\n---\nx: 3\ny: 4\n", scroll.ErrUnexpectedElement, "DocumentStart"},
		{"syntax", "x: [1\n", scroll.ErrScan, "scan failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Point
			err := scroll.Unmarshal([]byte(tt.input), &p)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestUnmarshal_AllowUnknownFields(t *testing.T) {
	var p Point
	input := "x: 1\nextra:\n  deep: [1, 2]\ny: 2\n"
	if err := scroll.Unmarshal([]byte(input), &p, scroll.AllowUnknownFields()); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p != (Point{X: 1, Y: 2}) {
		t.Errorf("Unmarshal() = %+v", p)
	}
}

func TestUnmarshal_EnumErrors(t *testing.T) {
	_, err := scroll.Decode[Color]([]byte("Purple"))
	if err == nil || !strings.Contains(err.Error(), "unknown variant `Purple`, expected one of `Red`, `Green`, `Blue`") {
		t.Errorf("error = %v", err)
	}
	if got, err := scroll.Decode[Color]([]byte("Blue: null")); err != nil || got != "Blue" {
		t.Errorf("mapping form = %q, %v", got, err)
	}
}

func TestUnmarshal_TupleLength(t *testing.T) {
	_, err := scroll.Decode[[2]int]([]byte("[1]"))
	if err == nil || !strings.Contains(err.Error(), "invalid length 1, expected an array of length 2") {
		t.Errorf("short tuple error = %v", err)
	}
	_, err = scroll.Decode[[2]int]([]byte("[1, 2, 3]"))
	if err == nil || !strings.Contains(err.Error(), "invalid length 3, expected an array of length 2") {
		t.Errorf("long tuple error = %v", err)
	}
}

func TestUnmarshal_Empty(t *testing.T) {
	got, err := scroll.Decode[*Point](nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != nil {
		t.Errorf("Decode(empty) = %+v, want nil", got)
	}

	s, err := scroll.Decode[string]([]byte(""))
	if err != nil || s != "" {
		t.Errorf("Decode[string](empty) = %q, %v", s, err)
	}

	if _, err := scroll.Decode[Point](nil); !errors.Is(err, scroll.ErrUnexpectedElement) {
		t.Errorf("Decode[Point](empty) error = %v, want ErrUnexpectedElement", err)
	}
}

func TestUnmarshal_UnsupportedType(t *testing.T) {
	var ch chan int
	if err := scroll.Unmarshal([]byte("1"), &ch); !errors.Is(err, scroll.ErrUnsupportedType) {
		t.Errorf("error = %v, want ErrUnsupportedType", err)
	}

	var f func()
	if err := scroll.Unmarshal([]byte("1"), &f); !errors.Is(err, scroll.ErrUnsupportedType) {
		t.Errorf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestUnmarshal_InvalidTag(t *testing.T) {
	type bad struct {
		A string `yaml:"a,sideways"`
	}
	var v bad
	if err := scroll.Unmarshal([]byte("a: x"), &v); !errors.Is(err, scroll.ErrInvalidTag) {
		t.Errorf("error = %v, want ErrInvalidTag", err)
	}
}
