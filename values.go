package dynser

import (
	"iter"

	"github.com/creachadair/mds/mapset"
)

// Map is a map with string keys that remembers insertion order.
//
// Go's built-in maps have no stable iteration order. Use Map when
// output must list entries in the order they were added.
//
// The zero Map is empty and ready to use.
type Map struct {
	idx  map[string]int
	ents []mapEntry
}

type mapEntry struct {
	key string
	val any
}

// NewMap returns a Map holding the given key/value pairs, in order.
// kvs must alternate string keys and values.
func NewMap(kvs ...any) *Map {
	if len(kvs)%2 != 0 {
		panic("NewMap called with an odd number of arguments")
	}
	ret := &Map{}
	for i := 0; i < len(kvs); i += 2 {
		ret.Set(kvs[i].(string), kvs[i+1])
	}
	return ret
}

// Len returns the number of entries in m.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ents)
}

// Get returns the value for k, and whether k is present.
func (m *Map) Get(k string) (any, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.idx[k]
	if !ok {
		return nil, false
	}
	return m.ents[i].val, true
}

// Set sets the value of k to v. A new key is added at the end of the
// map, an existing key keeps its position.
func (m *Map) Set(k string, v any) {
	if i, ok := m.idx[k]; ok {
		m.ents[i].val = v
		return
	}
	if m.idx == nil {
		m.idx = map[string]int{}
	}
	m.idx[k] = len(m.ents)
	m.ents = append(m.ents, mapEntry{k, v})
}

// Delete removes k from m, and reports whether it was present.
func (m *Map) Delete(k string) bool {
	if m == nil {
		return false
	}
	i, ok := m.idx[k]
	if !ok {
		return false
	}
	delete(m.idx, k)
	m.ents = append(m.ents[:i], m.ents[i+1:]...)
	for j := i; j < len(m.ents); j++ {
		m.idx[m.ents[j].key] = j
	}
	return true
}

// Keys returns an iterator over the keys of m, in insertion order.
func (m *Map) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, ent := range m.entries() {
			if !yield(ent.key) {
				return
			}
		}
	}
}

// All returns an iterator over the entries of m, in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, ent := range m.entries() {
			if !yield(ent.key, ent.val) {
				return
			}
		}
	}
}

// Items implements [MapLike].
func (m *Map) Items() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, ent := range m.entries() {
			if !yield(ent.key, ent.val) {
				return
			}
		}
	}
}

func (m *Map) entries() []mapEntry {
	if m == nil {
		return nil
	}
	return m.ents
}

// Tuple is a fixed sequence of values. It serializes like []any.
type Tuple []any

// FrozenSet is an immutable set of values. It serializes as a
// sequence, in unspecified order.
type FrozenSet struct {
	s mapset.Set[any]
}

// NewFrozenSet returns a FrozenSet of the given items. Items must be
// comparable, or NewFrozenSet panics.
func NewFrozenSet(items ...any) FrozenSet {
	return FrozenSet{mapset.New(items...)}
}

// Len returns the number of items in f.
func (f FrozenSet) Len() int {
	return len(f.s)
}

// Has reports whether v is in f.
func (f FrozenSet) Has(v any) bool {
	return f.s.Has(v)
}

// Items implements [SeqLike].
func (f FrozenSet) Items() iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := range f.s {
			if !yield(v) {
				return
			}
		}
	}
}
