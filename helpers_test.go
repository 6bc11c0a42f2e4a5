package dynser

import (
	"errors"
	"fmt"
	"iter"

	"github.com/danderson/dynser/fragments"
)

// Simple is a struct with simple fields.
type Simple struct {
	A int16
	B bool
}

// Nested is a struct with a struct field.
type Nested struct {
	A byte
	B Simple
}

// Embedded is a struct that embeds another struct by value.
type Embedded struct {
	Simple
	C byte
}

// EmbeddedShadow is a struct that embeds another struct by value,
// with one of the embedded fields shadowed by an outer field.
type EmbeddedShadow struct {
	Simple
	B byte
}

// EmbeddedPtr is a struct that embeds another struct by pointer.
type EmbeddedPtr struct {
	*Simple
	C byte
}

// Tagged is a struct whose fields are renamed or excluded by tags.
type Tagged struct {
	A    int `dynser:"alpha"`
	B    int `dynser:"-"`
	c    int
	Kind Marker
	D    string
}

type ambigX struct{ A int }
type ambigY struct{ A int }
type ambigZ struct {
	A int `dynser:"A"`
}

// Ambiguous embeds two structs with a field of the same name at the
// same depth, so neither is serialized.
type Ambiguous struct {
	ambigX
	ambigY
	B int
}

// TagBreaksTie is like Ambiguous, but one of the conflicting fields
// is named by a tag and wins.
type TagBreaksTie struct {
	ambigX
	ambigZ
}

// Tree is a self-referential struct.
type Tree struct {
	Left  *Tree
	Right *Tree
}

type Celsius float64
type Name string
type Flag bool
type Blob []byte
type Count uint16

// Stamp serializes itself with a value receiver.
type Stamp struct {
	Secs int64
}

func (s Stamp) MarshalDynamic(e *fragments.Encoder) error {
	return e.String(fmt.Sprintf("@%d", s.Secs))
}

// PtrMarshaler serializes itself with a pointer receiver.
type PtrMarshaler struct {
	N int
}

func (p *PtrMarshaler) MarshalDynamic(e *fragments.Encoder) error {
	return e.Map(1, func() error {
		if err := e.Key("n"); err != nil {
			return err
		}
		return e.Value(p.N)
	})
}

// HasPtrMarshaler holds a PtrMarshaler by value.
type HasPtrMarshaler struct {
	P PtrMarshaler
}

// Pairs is a MapLike of string pairs.
type Pairs [][2]string

func (p Pairs) Len() int { return len(p) }

func (p Pairs) Items() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, kv := range p {
			if !yield(kv[0], kv[1]) {
				return
			}
		}
	}
}

// Countdown is a SeqLike that counts down from From to 1.
type Countdown struct {
	From int
}

func (c Countdown) Len() int { return c.From }

func (c Countdown) Items() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := c.From; i > 0; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

// Record keeps its fields in an attribute table.
type Record struct {
	attrs *Map
}

func (r Record) Attributes() *Map { return r.attrs }

var errBrokenField = errors.New("broken field")

// Declared lists its fields explicitly.
type Declared struct {
	x, y     int
	broken   bool
	noGetter bool
}

func (d Declared) Fields() []Field {
	ret := []Field{
		{Name: "kind", Class: true},
		{Name: "x", Get: func() (any, error) { return d.x, nil }},
		{Name: "y", Get: func() (any, error) { return d.y, nil }},
	}
	if d.broken {
		ret = append(ret, Field{Name: "z", Get: func() (any, error) { return nil, errBrokenField }})
	}
	if d.noGetter {
		ret = append(ret, Field{Name: "w"})
	}
	return ret
}

// nest returns "leaf" wrapped in n levels of []any.
func nest(n int) any {
	var v any = "leaf"
	for range n {
		v = []any{v}
	}
	return v
}

func vnull() *fragments.Value { return &fragments.Value{Kind: fragments.KindNull} }

func vbool(b bool) *fragments.Value { return &fragments.Value{Kind: fragments.KindBool, Bool: b} }

func vint(i int64) *fragments.Value { return &fragments.Value{Kind: fragments.KindInt, Int: i} }

func vuint(u uint64) *fragments.Value { return &fragments.Value{Kind: fragments.KindUint, Uint: u} }

func vfloat(f float64) *fragments.Value { return &fragments.Value{Kind: fragments.KindFloat, Float: f} }

func vstr(s string) *fragments.Value { return &fragments.Value{Kind: fragments.KindString, Str: s} }

func vbytes(bs ...byte) *fragments.Value {
	return &fragments.Value{Kind: fragments.KindBytes, Bytes: bs}
}

// vmap returns a map value. kvs alternate string keys and
// *fragments.Value values.
func vmap(kvs ...any) *fragments.Value {
	ret := &fragments.Value{Kind: fragments.KindMap}
	for i := 0; i < len(kvs); i += 2 {
		ret.Entries = append(ret.Entries, fragments.Entry{
			Key:   kvs[i].(string),
			Value: kvs[i+1].(*fragments.Value),
		})
	}
	return ret
}

func vseq(elems ...*fragments.Value) *fragments.Value {
	return &fragments.Value{Kind: fragments.KindSeq, Elems: elems}
}

// vnest is the tree of nest(n).
func vnest(n int) *fragments.Value {
	ret := vstr("leaf")
	for range n {
		ret = vseq(ret)
	}
	return ret
}
