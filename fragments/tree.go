package fragments

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Kind is the kind of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindMap
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a materialised node of structured output.
//
// Only the fields relevant to Kind are set.
type Value struct {
	Kind Kind

	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Bytes []byte

	// Entries are the entries of a KindMap value, in output order.
	Entries []Entry
	// Elems are the elements of a KindSeq value.
	Elems []*Value
}

// Entry is a key/value pair of a KindMap [Value].
type Entry struct {
	Key   string
	Value *Value
}

// Replay writes v to vis, as if v were being walked for the first
// time.
func (v *Value) Replay(vis Visitor) error {
	switch v.Kind {
	case KindNull:
		return vis.Null()
	case KindBool:
		return vis.Bool(v.Bool)
	case KindInt:
		return vis.Int(v.Int)
	case KindUint:
		return vis.Uint(v.Uint)
	case KindFloat:
		return vis.Float(v.Float)
	case KindString:
		return vis.String(v.Str)
	case KindBytes:
		return vis.Bytes(v.Bytes)
	case KindMap:
		if err := vis.BeginMap(len(v.Entries)); err != nil {
			return err
		}
		for _, ent := range v.Entries {
			if err := vis.Key(ent.Key); err != nil {
				return err
			}
			if err := ent.Value.Replay(vis); err != nil {
				return err
			}
		}
		return vis.EndMap()
	case KindSeq:
		if err := vis.BeginSeq(len(v.Elems)); err != nil {
			return err
		}
		for _, elem := range v.Elems {
			if err := elem.Replay(vis); err != nil {
				return err
			}
		}
		return vis.EndSeq()
	default:
		return fmt.Errorf("cannot replay value of unknown kind %s", v.Kind)
	}
}

// SortKeys sorts the entries of every map in v by key, recursively.
// Entries with equal keys keep their relative order.
func (v *Value) SortKeys() {
	switch v.Kind {
	case KindMap:
		slices.SortStableFunc(v.Entries, func(a, b Entry) int {
			return cmp.Compare(a.Key, b.Key)
		})
		for _, ent := range v.Entries {
			ent.Value.SortKeys()
		}
	case KindSeq:
		for _, elem := range v.Elems {
			elem.SortKeys()
		}
	}
}

// Interface returns v as plain Go values: nil, bool, int64, uint64,
// float64, string, []byte, map[string]any and []any.
//
// Map ordering is lost in the conversion.
func (v *Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindUint:
		return v.Uint
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindBytes:
		return v.Bytes
	case KindMap:
		ret := make(map[string]any, len(v.Entries))
		for _, ent := range v.Entries {
			ret[ent.Key] = ent.Value.Interface()
		}
		return ret
	case KindSeq:
		ret := make([]any, 0, len(v.Elems))
		for _, elem := range v.Elems {
			ret = append(ret, elem.Interface())
		}
		return ret
	default:
		return nil
	}
}

// Builder is a [Visitor] that materialises its input into a [Value]
// tree.
//
// The zero Builder is ready to use.
type Builder struct {
	root  *Value
	stack []*Value
	// keyed reports whether the innermost map has a key waiting for
	// its value.
	keyed bool
}

// Result returns the tree built so far. It returns an error if the
// input was incomplete.
func (b *Builder) Result() (*Value, error) {
	if len(b.stack) > 0 {
		return nil, fmt.Errorf("unterminated %s", b.stack[len(b.stack)-1].Kind)
	}
	if b.root == nil {
		return nil, errors.New("no value written")
	}
	return b.root, nil
}

// Reset discards any partially built tree.
func (b *Builder) Reset() {
	b.root = nil
	b.stack = b.stack[:0]
	b.keyed = false
}

func (b *Builder) add(v *Value) error {
	if len(b.stack) == 0 {
		if b.root != nil {
			return errors.New("multiple top-level values written")
		}
		b.root = v
		return nil
	}
	top := b.stack[len(b.stack)-1]
	switch top.Kind {
	case KindMap:
		if !b.keyed {
			return errors.New("map value written without a key")
		}
		top.Entries[len(top.Entries)-1].Value = v
		b.keyed = false
	case KindSeq:
		top.Elems = append(top.Elems, v)
	}
	return nil
}

func (b *Builder) push(v *Value) error {
	if err := b.add(v); err != nil {
		return err
	}
	b.stack = append(b.stack, v)
	return nil
}

func (b *Builder) pop(k Kind) error {
	if len(b.stack) == 0 {
		return fmt.Errorf("end of %s without matching begin", k)
	}
	top := b.stack[len(b.stack)-1]
	if top.Kind != k {
		return fmt.Errorf("end of %s inside %s", k, top.Kind)
	}
	if b.keyed {
		return errors.New("map key without a value")
	}
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

func (b *Builder) BeginMap(n int) error {
	return b.push(&Value{Kind: KindMap, Entries: make([]Entry, 0, max(n, 0))})
}

func (b *Builder) Key(k string) error {
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].Kind != KindMap {
		return errors.New("map key written outside of a map")
	}
	if b.keyed {
		return errors.New("map key written without a value for the previous key")
	}
	top := b.stack[len(b.stack)-1]
	top.Entries = append(top.Entries, Entry{Key: k})
	b.keyed = true
	return nil
}

func (b *Builder) EndMap() error { return b.pop(KindMap) }

func (b *Builder) BeginSeq(n int) error {
	return b.push(&Value{Kind: KindSeq, Elems: make([]*Value, 0, max(n, 0))})
}

func (b *Builder) EndSeq() error { return b.pop(KindSeq) }

func (b *Builder) Null() error { return b.add(&Value{Kind: KindNull}) }

func (b *Builder) Bool(v bool) error { return b.add(&Value{Kind: KindBool, Bool: v}) }

func (b *Builder) Int(v int64) error { return b.add(&Value{Kind: KindInt, Int: v}) }

func (b *Builder) Uint(v uint64) error { return b.add(&Value{Kind: KindUint, Uint: v}) }

func (b *Builder) Float(v float64) error { return b.add(&Value{Kind: KindFloat, Float: v}) }

func (b *Builder) String(v string) error { return b.add(&Value{Kind: KindString, Str: v}) }

func (b *Builder) Bytes(v []byte) error {
	return b.add(&Value{Kind: KindBytes, Bytes: append([]byte(nil), v...)})
}
