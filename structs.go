package dynser

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/danderson/dynser/fragments"
)

// Marker is a zero-size type for struct fields that annotate the
// struct type rather than hold data. Fields of type Marker are never
// serialized.
type Marker struct{}

var markerType = reflect.TypeFor[Marker]()

// structField is the information about a struct field that needs to
// be serialized.
type structField struct {
	// Name is the field's output name.
	Name string
	// Index is the field's index path, split at every hop through an
	// embedded struct pointer. See splitAtPointers.
	Index [][]int
	Type  reflect.Type

	// depth is the embedding depth of the field, for resolving
	// shadowed names.
	depth int
	// tagged is whether the name came from a struct tag.
	tagged bool
}

// Get loads the struct field from structVal. If loading requires
// traversing a nil pointer into an embedded struct, Get returns a
// ValueError.
func (f *structField) Get(structVal reflect.Value) (reflect.Value, error) {
	v := structVal
	for i, hop := range f.Index {
		if i > 0 {
			if v.IsNil() {
				return reflect.Value{}, valueErr(structVal.Type(), f.Name, "field is promoted through a nil embedded pointer")
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	return v, nil
}

func (f *structField) String() string {
	kindStr := ""
	if ks := f.Type.Kind().String(); ks != f.Type.String() {
		kindStr = fmt.Sprintf(" (%s)", ks)
	}
	return fmt.Sprintf("%s: %s%s at %v", f.Name, f.Type, kindStr, f.Index)
}

// structInfo is the information about a struct relevant to
// serialization.
type structInfo struct {
	// Name is the struct's name, for use in diagnostics.
	Name string
	// Type is the struct's type, for use in diagnostics.
	Type reflect.Type
	// Fields are the fields to serialize, in declaration order.
	Fields []*structField
}

func (s *structInfo) String() string {
	var ret strings.Builder
	fmt.Fprintf(&ret, "%s: struct, fields:\n", s.Name)
	for _, f := range s.Fields {
		ret.WriteString(f.String())
		ret.WriteByte('\n')
	}
	return ret.String()
}

var structInfos cache[*structInfo]

// getStructInfo returns the structInfo for the struct type t.
//
// Exported fields are included in declaration order. Fields of
// embedded structs are included as if they were fields of the outer
// struct, subject to the usual Go visibility rules: a shallower field
// shadows deeper fields of the same name, and ambiguous names at the
// same depth are dropped unless exactly one of them is named by a
// struct tag.
func getStructInfo(t reflect.Type) *structInfo {
	if ret, ok := structInfos.Get(t); ok {
		return ret
	}

	ret := &structInfo{
		Name: t.String(),
		Type: t,
	}
	var all []*structField
	for field := range structFields(t, nil) {
		if !field.IsExported() || field.Type == markerType {
			continue
		}
		name, tagged := field.Name, false
		switch n := tagName(field); n {
		case "-":
			continue
		case "":
		default:
			name, tagged = n, true
		}
		all = append(all, &structField{
			Name:   name,
			Type:   field.Type,
			Index:  splitAtPointers(t, field.Index),
			depth:  len(field.Index),
			tagged: tagged,
		})
	}
	ret.Fields = dominantFields(all)

	return structInfos.Set(t, ret)
}

// tagName returns the name given to field by its "dynser" struct
// tag, if any. The name "-" excludes the field from serialization.
func tagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("dynser"), ",")
	return name
}

// hasFieldName reports whether the embedded field f is renamed by a
// struct tag, and so serializes as a single field instead of having
// its fields promoted.
func hasFieldName(f reflect.StructField) bool {
	n := tagName(f)
	return n != "" && n != "-"
}

// dominantFields returns the fields of fs that are not shadowed by
// another field of the same name.
func dominantFields(fs []*structField) []*structField {
	byName := map[string][]*structField{}
	for _, f := range fs {
		byName[f.Name] = append(byName[f.Name], f)
	}
	var ret []*structField
	for _, f := range fs {
		if dominantField(byName[f.Name]) == f {
			ret = append(ret, f)
		}
	}
	return ret
}

func dominantField(fs []*structField) *structField {
	depth := fs[0].depth
	for _, f := range fs[1:] {
		depth = min(depth, f.depth)
	}
	var (
		shallow []*structField
		tagged  []*structField
	)
	for _, f := range fs {
		if f.depth != depth {
			continue
		}
		shallow = append(shallow, f)
		if f.tagged {
			tagged = append(tagged, f)
		}
	}
	if len(shallow) == 1 {
		return shallow[0]
	}
	if len(tagged) == 1 {
		return tagged[0]
	}
	return nil
}

// reflectStruct walks the exported fields of a struct value.
func (s state) reflectStruct(vis fragments.Visitor, v reflect.Value) error {
	info := getStructInfo(v.Type())
	if err := vis.BeginMap(len(info.Fields)); err != nil {
		return err
	}
	for _, f := range info.Fields {
		fv, err := f.Get(v)
		if err != nil {
			return err
		}
		if err := vis.Key(f.Name); err != nil {
			return err
		}
		if err := s.value(vis, fv); err != nil {
			return err
		}
	}
	return vis.EndMap()
}

var errNoAccessor = errors.New("field has no accessor")

// fieldList walks the fields declared by a FieldLister.
func (s state) fieldList(vis fragments.Visitor, fs []Field) error {
	n := 0
	for _, f := range fs {
		if !f.Class {
			n++
		}
	}
	if err := vis.BeginMap(n); err != nil {
		return err
	}
	for _, f := range fs {
		if f.Class {
			continue
		}
		if f.Get == nil {
			return ValueError{"Field", f.Name, errNoAccessor}
		}
		fv, err := f.Get()
		if err != nil {
			return err
		}
		if err := vis.Key(f.Name); err != nil {
			return err
		}
		if err := s.value(vis, reflect.ValueOf(fv)); err != nil {
			return err
		}
	}
	return vis.EndMap()
}
