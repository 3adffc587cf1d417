package scroll

import (
	"sync"

	"github.com/zoobzio/scroll/event"
	"github.com/zoobzio/scroll/source/yamlv3"
)

// Option configures decoding and encoding.
type Option func(*config)

type config struct {
	driver       event.Driver
	allowUnknown bool
	quote        bool
}

var (
	defaultDriver event.Driver = yamlv3.Driver()
	driverMu      sync.RWMutex
)

// SetDriver replaces the driver used when no WithDriver option is given.
// A nil driver is ignored.
func SetDriver(d event.Driver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	defer driverMu.Unlock()
	defaultDriver = d
}

// UseDefaultDriver restores the yaml.v3 driver.
func UseDefaultDriver() {
	SetDriver(yamlv3.Driver())
}

// CurrentDriver returns the driver used when no WithDriver option is given.
func CurrentDriver() event.Driver {
	driverMu.RLock()
	defer driverMu.RUnlock()
	return defaultDriver
}

func newConfig(opts []Option) *config {
	cfg := &config{driver: CurrentDriver()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithDriver selects the lexical front end used to read input.
func WithDriver(d event.Driver) Option {
	return func(c *config) {
		if d != nil {
			c.driver = d
		}
	}
}

// AllowUnknownFields makes struct decoding skip keys that match no field
// instead of failing.
func AllowUnknownFields() Option {
	return func(c *config) {
		c.allowUnknown = true
	}
}

// QuoteAmbiguous makes the encoder double-quote strings that would
// otherwise read back as null, a boolean, or a differently shaped value.
func QuoteAmbiguous() Option {
	return func(c *config) {
		c.quote = true
	}
}
