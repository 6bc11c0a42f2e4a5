package dynser

import (
	"iter"
	"reflect"

	"github.com/danderson/dynser/fragments"
)

// MapLike is the interface implemented by map-like values whose type
// is not otherwise recognized.
type MapLike interface {
	// Len returns the number of entries, or -1 if unknown.
	Len() int
	// Items returns an iterator over the entries, in output order.
	Items() iter.Seq2[any, any]
}

// SeqLike is the interface implemented by sequence-like values whose
// type is not otherwise recognized.
type SeqLike interface {
	// Len returns the number of elements, or -1 if unknown.
	Len() int
	// Items returns an iterator over the elements, in output order.
	Items() iter.Seq[any]
}

// AttrBag is the interface implemented by record-like values that keep
// their fields in a generic attribute table.
//
// If Attributes returns nil, the value is treated as if it did not
// implement AttrBag.
type AttrBag interface {
	Attributes() *Map
}

// FieldLister is the interface implemented by record-like values that
// declare their fields.
type FieldLister interface {
	// Fields returns the value's fields in declaration order.
	Fields() []Field
}

// Field is a named field of a [FieldLister].
type Field struct {
	Name string
	// Class marks entries that describe the type rather than the
	// value, such as markers or computed descriptors. They are
	// skipped.
	Class bool
	// Get returns the field's value. An error aborts the walk and is
	// returned unchanged.
	Get func() (any, error)
}

// as returns v as a T, if v or a pointer to v implements T.
func as[T any](v reflect.Value) (T, bool) {
	if v.CanInterface() {
		if ret, ok := v.Interface().(T); ok {
			return ret, true
		}
	}
	if v.CanAddr() {
		if p := v.Addr(); p.CanInterface() {
			if ret, ok := p.Interface().(T); ok {
				return ret, true
			}
		}
	}
	var zero T
	return zero, false
}

// unknown serializes a value whose type is not in the type table, by
// probing it for known behaviors. The first probe that applies wins.
func (s state) unknown(vis fragments.Visitor, v reflect.Value) error {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return s.none(vis)
	}
	if m, ok := as[Marshaler](v); ok {
		return s.marshal(vis, m)
	}

	if v.Kind() == reflect.Pointer {
		st, err := s.descend()
		if err != nil {
			return err
		}
		return st.value(vis, v.Elem())
	}

	if ok, err := s.underlyingScalar(vis, v); ok {
		return err
	}
	// Map-like, then sequence-like, then struct-like.
	if ok, err := s.probeMapping(vis, v); ok {
		return err
	}
	if ok, err := s.probeSequence(vis, v); ok {
		return err
	}
	if ok, err := s.probeStruct(vis, v); ok {
		return err
	}

	return s.fallback(vis, v)
}

func (s state) marshal(vis fragments.Visitor, m Marshaler) error {
	st, err := s.descend()
	if err != nil {
		return err
	}
	out := &oneValue{Visitor: vis}
	e := fragments.Encoder{
		Out: out,
		Mapper: func(v any) error {
			return st.value(out, reflect.ValueOf(v))
		},
	}
	if err := m.MarshalDynamic(&e); err != nil {
		return err
	}
	switch {
	case out.open != 0:
		return valueErr(reflect.TypeOf(m), "MarshalDynamic output", "left %d containers open", out.open)
	case out.n != 1:
		return valueErr(reflect.TypeOf(m), "MarshalDynamic output", "wrote %d values, want 1", out.n)
	}
	return nil
}

// oneValue is a Visitor that counts the values written to it outside
// of any container.
type oneValue struct {
	fragments.Visitor
	open int
	n    int
}

func (o *oneValue) scalar() {
	if o.open == 0 {
		o.n++
	}
}

func (o *oneValue) BeginMap(n int) error {
	o.scalar()
	o.open++
	return o.Visitor.BeginMap(n)
}

func (o *oneValue) EndMap() error {
	o.open--
	return o.Visitor.EndMap()
}

func (o *oneValue) BeginSeq(n int) error {
	o.scalar()
	o.open++
	return o.Visitor.BeginSeq(n)
}

func (o *oneValue) EndSeq() error {
	o.open--
	return o.Visitor.EndSeq()
}

func (o *oneValue) Null() error {
	o.scalar()
	return o.Visitor.Null()
}

func (o *oneValue) Bool(b bool) error {
	o.scalar()
	return o.Visitor.Bool(b)
}

func (o *oneValue) Int(i int64) error {
	o.scalar()
	return o.Visitor.Int(i)
}

func (o *oneValue) Uint(u uint64) error {
	o.scalar()
	return o.Visitor.Uint(u)
}

func (o *oneValue) Float(f float64) error {
	o.scalar()
	return o.Visitor.Float(f)
}

func (o *oneValue) String(s string) error {
	o.scalar()
	return o.Visitor.String(s)
}

func (o *oneValue) Bytes(bs []byte) error {
	o.scalar()
	return o.Visitor.Bytes(bs)
}

// underlyingScalar emits values of named types whose underlying type
// is a scalar.
func (s state) underlyingScalar(vis fragments.Visitor, v reflect.Value) (bool, error) {
	switch v.Kind() {
	case reflect.Bool:
		return true, vis.Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true, s.integer(vis, v)
	case reflect.Float32, reflect.Float64:
		return true, vis.Float(v.Float())
	case reflect.String:
		return true, vis.String(v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return true, vis.Bytes(v.Bytes())
		}
	}
	return false, nil
}

func (s state) probeMapping(vis fragments.Visitor, v reflect.Value) (bool, error) {
	m, isMapLike := as[MapLike](v)
	if !isMapLike && v.Kind() != reflect.Map {
		return false, nil
	}
	st, err := s.descend()
	if err != nil {
		return true, err
	}
	if isMapLike {
		return true, st.mapLike(vis, m)
	}
	return true, st.reflectMap(vis, v)
}

func (s state) probeSequence(vis fragments.Visitor, v reflect.Value) (bool, error) {
	q, isSeqLike := as[SeqLike](v)
	if !isSeqLike && v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false, nil
	}
	st, err := s.descend()
	if err != nil {
		return true, err
	}
	if isSeqLike {
		return true, st.seqLike(vis, q)
	}
	return true, st.reflectSeq(vis, v)
}

func (s state) probeStruct(vis fragments.Visitor, v reflect.Value) (bool, error) {
	var (
		attrs  *Map
		fields FieldLister
	)
	if b, ok := as[AttrBag](v); ok {
		attrs = b.Attributes()
	}
	if attrs == nil {
		fields, _ = as[FieldLister](v)
	}
	if attrs == nil && fields == nil && v.Kind() != reflect.Struct {
		return false, nil
	}

	st, err := s.descend()
	if err != nil {
		return true, err
	}
	switch {
	case attrs != nil:
		return true, st.mapLike(vis, attrs)
	case fields != nil:
		return true, st.fieldList(vis, fields.Fields())
	default:
		return true, st.reflectStruct(vis, v)
	}
}

// fallback hands v to Options.Default, and serializes the result one
// level deeper. A Default that keeps returning unserializable values
// therefore ends in a RecursionError rather than looping forever.
func (s state) fallback(vis fragments.Visitor, v reflect.Value) error {
	if s.opts.Default == nil {
		return typeErr(v, "type is not serializable")
	}
	if !v.CanInterface() {
		return typeErr(v, "value cannot be passed to Default")
	}
	st, err := s.descend()
	if err != nil {
		return err
	}
	ret, err := s.opts.Default(v.Interface())
	if err != nil {
		return err
	}
	return st.value(vis, reflect.ValueOf(ret))
}
