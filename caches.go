package dynser

import (
	"reflect"
	"sync"
)

// cache is a concurrency-safe map from types to derived information
// about them.
type cache[V any] struct {
	m sync.Map
}

func (c *cache[V]) Get(t reflect.Type) (val V, found bool) {
	ent, ok := c.m.Load(t)
	if !ok {
		return val, false
	}
	return ent.(V), true
}

// Set stores val for t, unless a concurrent caller got there
// first. It returns the value that ended up in the cache.
func (c *cache[V]) Set(t reflect.Type, val V) V {
	ent, _ := c.m.LoadOrStore(t, val)
	return ent.(V)
}
