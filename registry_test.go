package scroll

import (
	"errors"
	"reflect"
	"testing"
)

type registryShape interface{ area() int }

type registrySquare struct {
	Side int `yaml:"side"`
}

func (s registrySquare) area() int { return s.Side * s.Side }

func TestRegisterUnion_ReplacesUnsupportedPlan(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rt := reflect.TypeFor[registryShape]()
	if _, err := planFor(rt); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("planFor() before registration error = %v, want ErrUnsupportedType", err)
	}

	if err := RegisterUnion[registryShape](Variant[registrySquare]("Square")); err != nil {
		t.Fatalf("RegisterUnion() error = %v", err)
	}
	p, err := planFor(rt)
	if err != nil {
		t.Fatalf("planFor() after registration error = %v", err)
	}
	if p.shape != shapeUnion || p.union.tagging != TagExternal {
		t.Errorf("plan = %+v, want an externally tagged union", p)
	}
	if got := p.union.variants[0].kind; got != variantStruct {
		t.Errorf("variant kind = %v, want struct", got)
	}
}

func TestReset(t *testing.T) {
	Reset()
	if err := RegisterUnion[registryShape](Variant[registrySquare]("Square")); err != nil {
		t.Fatalf("RegisterUnion() error = %v", err)
	}
	Reset()

	if _, ok := lookupUnion(reflect.TypeFor[registryShape]()); ok {
		t.Error("Reset() should clear registered unions")
	}
	plansMu.RLock()
	n := len(plans)
	plansMu.RUnlock()
	if n != 0 {
		t.Errorf("Reset() left %d cached plans", n)
	}
}

func TestVariantKind_String(t *testing.T) {
	tests := map[variantKind]string{
		variantUnit:    "unit",
		variantNewtype: "newtype",
		variantTuple:   "tuple",
		variantStruct:  "struct",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
