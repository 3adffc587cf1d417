package integration

import (
	"context"
	"testing"

	goccyjson "github.com/goccy/go-json"
	goccyyaml "github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/scroll"
	"github.com/zoobzio/scroll/event"
	"github.com/zoobzio/scroll/source/gojson"
	"github.com/zoobzio/scroll/source/goyaml"
	"github.com/zoobzio/scroll/source/yamlv3"
	scrolltest "github.com/zoobzio/scroll/testing"
	"gopkg.in/yaml.v3"
)

func yamlDrivers() []event.Driver {
	return []event.Driver{yamlv3.Driver(), goyaml.Driver()}
}

func TestDecode_MatchesYAMLv3(t *testing.T) {
	doc := scrolltest.Fixture(t, "customer.yaml")

	var want scrolltest.Customer
	require.NoError(t, yaml.Unmarshal(doc, &want))

	for _, d := range yamlDrivers() {
		t.Run(d.Name(), func(t *testing.T) {
			got, err := scroll.Decode[scrolltest.Customer](doc, scroll.WithDriver(d))
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, scrolltest.SampleCustomer(), got)
		})
	}
}

func TestDecode_MatchesGoYAML(t *testing.T) {
	doc := scrolltest.Fixture(t, "customer.yaml")

	var want scrolltest.Customer
	require.NoError(t, goccyyaml.Unmarshal(doc, &want))

	got, err := scroll.Decode[scrolltest.Customer](doc, scroll.WithDriver(goyaml.Driver()))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecode_MatchesGoJSON(t *testing.T) {
	doc := scrolltest.Fixture(t, "customer.json")

	var want scrolltest.Customer
	require.NoError(t, goccyjson.Unmarshal(doc, &want))

	got, err := scroll.Decode[scrolltest.Customer](doc, scroll.WithDriver(gojson.Driver()))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncode_ReadableByOtherDecoders(t *testing.T) {
	in := scrolltest.SampleCustomer()
	data, err := scroll.MarshalContext(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, scrolltest.CustomerYAML, string(data))

	var viaYAMLv3 scrolltest.Customer
	require.NoError(t, yaml.Unmarshal(data, &viaYAMLv3))
	assert.Equal(t, in, viaYAMLv3)

	var viaGoYAML scrolltest.Customer
	require.NoError(t, goccyyaml.Unmarshal(data, &viaGoYAML))
	assert.Equal(t, in, viaGoYAML)
}

func TestRoundTrip_AllDrivers(t *testing.T) {
	customers := scrolltest.Customers(5)
	data, err := scroll.Marshal(customers)
	require.NoError(t, err)

	for _, d := range yamlDrivers() {
		t.Run(d.Name(), func(t *testing.T) {
			got, err := scroll.Decode[[]scrolltest.Customer](data, scroll.WithDriver(d))
			require.NoError(t, err)
			assert.Equal(t, customers, got)
		})
	}
}

func TestEvents_DriversAgree(t *testing.T) {
	doc := scrolltest.Fixture(t, "customer.yaml")

	viaYAMLv3, err := event.Collect(yamlv3.Driver().NewBytes(doc))
	require.NoError(t, err)
	viaGoYAML, err := event.Collect(goyaml.Driver().NewBytes(doc))
	require.NoError(t, err)

	assert.Equal(t, event.Kinds(viaYAMLv3), event.Kinds(viaGoYAML))
	require.Equal(t, len(viaYAMLv3), len(viaGoYAML))
	for i := range viaYAMLv3 {
		assert.Equal(t, viaYAMLv3[i].Value, viaGoYAML[i].Value, "event %d", i)
	}
}

func TestErrors_NameTheSameFailure(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing field", "id: c-1\n", scroll.ErrCustom},
		{"bad number", "id: c-1\nname: x\nemail: ~\nage: old\n", scroll.ErrNumberParse},
		{"bad bool", "id: c-1\nname: x\nemail: ~\nage: 1\nactive: maybe\n", scroll.ErrBoolParse},
		{"wrong shape", "- c-1\n", scroll.ErrUnexpectedElement},
	}

	for _, tt := range tests {
		for _, d := range yamlDrivers() {
			t.Run(tt.name+"/"+d.Name(), func(t *testing.T) {
				_, err := scroll.Decode[scrolltest.Customer]([]byte(tt.doc), scroll.WithDriver(d))
				assert.ErrorIs(t, err, tt.want)
			})
		}
	}
}
