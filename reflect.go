package dynser

import (
	"iter"
	"reflect"
	"slices"
)

// splitAtPointers splits the field index path idx of struct type t
// into segments. Every segment but the last ends at an embedded struct
// pointer, which must be dereferenced before the next segment applies
// and so might be nil.
func splitAtPointers(t reflect.Type, idx []int) [][]int {
	var ret [][]int
	start := 0
	for i, fi := range idx[:len(idx)-1] {
		t = t.Field(fi).Type
		if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
			ret = append(ret, idx[start:i+1])
			start = i + 1
			t = t.Elem()
		}
	}
	return append(ret, idx[start:])
}

// structFields iterates over the fields of t in declaration order,
// descending into embedded structs in place of the embedding field.
// Fields tagged `dynser:"-"` are skipped, embedded or not.
func structFields(t reflect.Type, idx []int) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		walkStructFields(t, idx, []reflect.Type{t}, yield)
	}
}

// walkStructFields is the body of structFields. parents are the
// struct types being walked, to cut embedding cycles such as
// struct{ *T } inside T.
func walkStructFields(t reflect.Type, idx []int, parents []reflect.Type, yield func(reflect.StructField) bool) bool {
	for i := range t.NumField() {
		f := t.Field(i)
		if tagName(f) == "-" {
			continue
		}
		idx = append(idx, i)
		if f.Anonymous && !hasFieldName(f) {
			at := f.Type
			if at.Kind() == reflect.Pointer {
				at = at.Elem()
			}
			if at.Kind() == reflect.Struct {
				if !slices.Contains(parents, at) {
					if !walkStructFields(at, idx, append(parents, at), yield) {
						return false
					}
				}
				idx = idx[:len(idx)-1]
				continue
			}
		}
		f.Index = append([]int(nil), idx...)
		if !yield(f) {
			return false
		}
		idx = idx[:len(idx)-1]
	}
	return true
}
