package scroll

import (
	"testing"

	"github.com/zoobzio/scroll/source/gojson"
	"github.com/zoobzio/scroll/source/goyaml"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := newConfig(nil)
	if cfg.driver.Name() != "yaml.v3" {
		t.Errorf("default driver = %q, want yaml.v3", cfg.driver.Name())
	}
	if cfg.allowUnknown || cfg.quote {
		t.Error("options should default to off")
	}
}

func TestOptions(t *testing.T) {
	cfg := newConfig([]Option{WithDriver(goyaml.Driver()), AllowUnknownFields(), QuoteAmbiguous()})
	if cfg.driver.Name() != "go-yaml" {
		t.Errorf("driver = %q, want go-yaml", cfg.driver.Name())
	}
	if !cfg.allowUnknown || !cfg.quote {
		t.Error("options should be applied")
	}

	cfg = newConfig([]Option{WithDriver(nil)})
	if cfg.driver.Name() != "yaml.v3" {
		t.Errorf("WithDriver(nil) changed the driver to %q", cfg.driver.Name())
	}
}

func TestSetDriver(t *testing.T) {
	t.Cleanup(UseDefaultDriver)

	SetDriver(gojson.Driver())
	if got := CurrentDriver().Name(); got != "go-json" {
		t.Errorf("CurrentDriver() = %q, want go-json", got)
	}
	if got := newConfig(nil).driver.Name(); got != "go-json" {
		t.Errorf("new config driver = %q, want go-json", got)
	}

	SetDriver(nil)
	if got := CurrentDriver().Name(); got != "go-json" {
		t.Errorf("SetDriver(nil) changed the driver to %q", got)
	}

	UseDefaultDriver()
	if got := CurrentDriver().Name(); got != "yaml.v3" {
		t.Errorf("after UseDefaultDriver(), CurrentDriver() = %q", got)
	}
}

func TestDrivers_Agree(t *testing.T) {
	var want Point3
	if err := NewDecoder([]byte("x: 1\ny: 2\nz: 3\n")).Decode(&want); err != nil {
		t.Fatalf("yaml.v3 decode error = %v", err)
	}

	var viaGoYAML Point3
	if err := NewDecoder([]byte("x: 1\ny: 2\nz: 3\n"), WithDriver(goyaml.Driver())).Decode(&viaGoYAML); err != nil {
		t.Fatalf("go-yaml decode error = %v", err)
	}
	var viaJSON Point3
	if err := NewDecoder([]byte(`{"x": 1, "y": 2, "z": 3}`), WithDriver(gojson.Driver())).Decode(&viaJSON); err != nil {
		t.Fatalf("go-json decode error = %v", err)
	}
	if viaGoYAML != want || viaJSON != want {
		t.Errorf("drivers disagree: yaml.v3 %+v, go-yaml %+v, go-json %+v", want, viaGoYAML, viaJSON)
	}
}

type Point3 struct {
	X, Y, Z int
}
