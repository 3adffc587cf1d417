package scroll

import (
	"context"
	"reflect"
	"sync"
)

var (
	unions   = make(map[reflect.Type]*unionPlan)
	unionsMu sync.RWMutex
)

// RegisterUnion records the variants of the interface type I. Values of I
// are then decoded and encoded as a tagged union instead of being rejected.
// Each interface may be registered once.
func RegisterUnion[I any](opts ...UnionOption) error {
	it := reflect.TypeFor[I]()
	if it.Kind() != reflect.Interface {
		return newUnionError(it.String(), "", "union type must be an interface")
	}
	u := &unionPlan{
		typ:     it,
		name:    displayName(it),
		tagging: TagExternal,
		byName:  make(map[string]int),
		byType:  make(map[reflect.Type]int),
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := u.validate(); err != nil {
		return err
	}

	unionsMu.Lock()
	if _, exists := unions[it]; exists {
		unionsMu.Unlock()
		return newUnionError(u.name, "", "already registered")
	}
	unions[it] = u
	unionsMu.Unlock()

	plansMu.Lock()
	delete(plans, it)
	plansMu.Unlock()

	emitUnionRegistered(context.Background(), u.name, string(u.tagging), len(u.variants))
	return nil
}

// MustRegisterUnion is like RegisterUnion but panics on error. It is meant
// for package-level var blocks and init functions.
func MustRegisterUnion[I any](opts ...UnionOption) {
	if err := RegisterUnion[I](opts...); err != nil {
		panic(err)
	}
}

func lookupUnion(t reflect.Type) (*unionPlan, bool) {
	unionsMu.RLock()
	defer unionsMu.RUnlock()
	u, ok := unions[t]
	return u, ok
}

// Reset clears registered unions and cached type plans.
// This is primarily useful for test isolation.
func Reset() {
	unionsMu.Lock()
	unions = make(map[reflect.Type]*unionPlan)
	unionsMu.Unlock()
	resetPlans()
}
