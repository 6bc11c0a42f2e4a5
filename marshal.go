package dynser

import (
	"errors"
	"reflect"

	"github.com/danderson/dynser/fragments"
)

// MaxDepth is the maximum number of nested compound values a walk
// descends through. Deeper values, including self-referential ones,
// fail with a [RecursionError].
const MaxDepth = 255

// Options configures a walk. The zero Options produce canonical
// output.
type Options struct {
	// Default, if non-nil, is called with values that cannot
	// otherwise be serialized. Its return value is serialized in
	// their place, one level deeper. An error returned by Default
	// aborts the walk and is returned unchanged.
	Default func(v any) (any, error)
	// NoneValue, if non-nil, is emitted as text in place of null.
	NoneValue *string
	// SortKeys sorts map entries by key after the walk completes. It
	// is only supported by [Serialize].
	SortKeys bool
	// StrictInteger rejects integers outside ±(2^53-1), the range
	// that survives a round trip through binary64 floats.
	StrictInteger bool
	// UTCZ writes a zero UTC offset as "Z" instead of "+00:00".
	UTCZ bool
	// OmitMicroseconds drops fractional seconds from times.
	OmitMicroseconds bool
}

// Marshaler is the interface implemented by types that serialize
// themselves.
//
// MarshalDynamic must write exactly one value to e, or the walk fails
// with a [ValueError]. It may use [fragments.Encoder.Value] to
// serialize nested values with the regular rules.
type Marshaler interface {
	MarshalDynamic(e *fragments.Encoder) error
}

// Walk serializes v into vis.
//
// Walk traverses v recursively. Values whose exact type is in the
// type table (see [Lookup]) are emitted directly:
//
// Booleans, integers, floats and strings emit the corresponding
// scalar. []byte emits opaque bytes. *big.Int emits an integer if it
// fits in 64 bits, or fails with an [OverflowError].
//
// map[string]any, map[any]any and *[Map] emit maps. Keys must be
// strings or booleans, booleans are written as "true" and
// "false". Any other key fails with a [TypeError]. Go maps are
// walked in Go's unspecified map order, use [Map] to preserve
// insertion order.
//
// []any and [Tuple] emit sequences. mapset.Set[any] and [FrozenSet]
// emit sequences in unspecified order.
//
// civil.Date, civil.Time, civil.DateTime, time.Time, time.Duration,
// uuid.UUID and url.URL emit their canonical text, see [FormatDate]
// and friends.
//
// Nil pointers, nil interfaces and untyped nil emit null, or
// [Options.NoneValue] if set. Nil slices and maps emit empty
// sequences and maps.
//
// Values of any other type are probed, in order:
//
//   - a [Marshaler] serializes itself.
//   - a non-nil pointer emits the value it points to.
//   - a named type with a boolean, integer, float, string or []byte
//     underlying type emits the corresponding scalar.
//   - a [MapLike], or any Go map, emits a map.
//   - a [SeqLike], or any Go slice or array, emits a sequence.
//   - an [AttrBag], a [FieldLister], or a struct emits a map of its
//     fields.
//   - [Options.Default] transforms the value, and the result is
//     serialized instead.
//
// If every probe fails, Walk returns a [TypeError].
//
// Walk stops at the first error. Output already delivered to vis is
// not retracted, callers that need all-or-nothing output should
// buffer, or use [Serialize].
func Walk(v any, vis fragments.Visitor, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	if opts.SortKeys {
		return ValueError{"Options", "SortKeys", errors.New("key sorting requires a materialised tree, use Serialize")}
	}
	return newState(opts).value(vis, reflect.ValueOf(v))
}

// Serialize serializes v into a structured value tree, following the
// same rules as [Walk]. If Options.SortKeys is set, the entries of
// every map in the returned tree are sorted by key.
//
// On error, no partial tree is returned.
func Serialize(v any, opts *Options) (*fragments.Value, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	sortKeys := o.SortKeys
	o.SortKeys = false

	var b fragments.Builder
	if err := newState(&o).value(&b, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	ret, err := b.Result()
	if err != nil {
		return nil, err
	}
	if sortKeys {
		ret.SortKeys()
	}
	return ret, nil
}

// state is the per-walk serialization context. It is passed by value
// down the walk, so a depth increment is scoped to the subtree it was
// made for.
type state struct {
	opts  *Options
	text  textOpts
	depth int
}

func newState(opts *Options) state {
	return state{
		opts: opts,
		text: textOpts{
			utcZ:       opts.UTCZ,
			omitMicros: opts.OmitMicroseconds,
		},
	}
}

// descend returns the state for walking the children of a compound
// value.
func (s state) descend() (state, error) {
	s.depth++
	if s.depth > MaxDepth {
		return s, RecursionError{MaxDepth}
	}
	return s, nil
}

// value serializes v into vis.
func (s state) value(vis fragments.Visitor, v reflect.Value) error {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return s.none(vis)
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return s.none(vis)
	}

	tag := lookupType(v.Type())
	switch {
	case tag == TagUnknown:
		return s.unknown(vis, v)
	case tag.Compound():
		st, err := s.descend()
		if err != nil {
			return err
		}
		return st.compound(vis, tag, v)
	default:
		return s.scalar(vis, tag, v)
	}
}
