// Package testing provides fixtures shared by scroll's integration tests
// and benchmarks.
package testing

import (
	"fmt"
	"testing"
)

// Address is a flat record used inside Customer.
type Address struct {
	Street string `yaml:"street" json:"street"`
	City   string `yaml:"city" json:"city"`
	State  string `yaml:"state" json:"state"`
}

// Customer exercises nested structs, options, sequences, and maps.
type Customer struct {
	ID        string            `yaml:"id" json:"id"`
	Name      string            `yaml:"name" json:"name"`
	Email     *string           `yaml:"email" json:"email"`
	Age       int               `yaml:"age" json:"age"`
	Active    bool              `yaml:"active" json:"active"`
	Balance   float64           `yaml:"balance" json:"balance"`
	Addresses []Address         `yaml:"addresses" json:"addresses"`
	Labels    map[string]string `yaml:"labels" json:"labels"`
}

// CustomerYAML is the block form of SampleCustomer.
const CustomerYAML = `id: c-1
name: Ada Lovelace
email: ada@example.com
age: 36
active: true
balance: 1250.5
addresses:
  - street: Kerkstraat 12
    city: Amsterdam
    state: Noord Holland
  - street: Damrak 1
    city: Amsterdam
    state: Noord Holland
labels:
  source: referral
  tier: gold
`

// CustomerJSON is the JSON form of SampleCustomer.
const CustomerJSON = `{
  "id": "c-1",
  "name": "Ada Lovelace",
  "email": "ada@example.com",
  "age": 36,
  "active": true,
  "balance": 1250.5,
  "addresses": [
    {"street": "Kerkstraat 12", "city": "Amsterdam", "state": "Noord Holland"},
    {"street": "Damrak 1", "city": "Amsterdam", "state": "Noord Holland"}
  ],
  "labels": {"source": "referral", "tier": "gold"}
}`

var fixtures = map[string]string{
	"customer.yaml": CustomerYAML,
	"customer.json": CustomerJSON,
}

// Fixture returns the named document, failing the test if it is unknown.
func Fixture(tb testing.TB, name string) []byte {
	tb.Helper()
	doc, ok := fixtures[name]
	if !ok {
		tb.Fatalf("unknown fixture %q", name)
	}
	return []byte(doc)
}

// SampleCustomer returns the value described by CustomerYAML.
func SampleCustomer() Customer {
	email := "ada@example.com"
	return Customer{
		ID:      "c-1",
		Name:    "Ada Lovelace",
		Email:   &email,
		Age:     36,
		Active:  true,
		Balance: 1250.5,
		Addresses: []Address{
			{Street: "Kerkstraat 12", City: "Amsterdam", State: "Noord Holland"},
			{Street: "Damrak 1", City: "Amsterdam", State: "Noord Holland"},
		},
		Labels: map[string]string{"source": "referral", "tier": "gold"},
	}
}

// Customers returns n distinct customers for benchmarks.
func Customers(n int) []Customer {
	out := make([]Customer, n)
	for i := range out {
		c := SampleCustomer()
		c.ID = fmt.Sprintf("c-%d", i+1)
		c.Age = 20 + i%50
		if i%3 == 0 {
			c.Email = nil
		}
		out[i] = c
	}
	return out
}
