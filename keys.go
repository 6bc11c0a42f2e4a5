package dynser

import (
	"reflect"

	"github.com/creachadair/mds/mapset"
	"github.com/danderson/dynser/fragments"
)

// mapKeyKinds is the set of reflect.Kinds that can be map keys in
// structured output.
var mapKeyKinds = mapset.New(
	reflect.String,
	reflect.Bool,
)

// key writes the map key k. Strings are written verbatim, booleans
// as "true" or "false". Any other key is a TypeError.
func key(vis fragments.Visitor, k reflect.Value) error {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if !mapKeyKinds.Has(k.Kind()) {
		return typeErr(k, "map keys must be strings or booleans")
	}
	if k.Kind() == reflect.Bool {
		if k.Bool() {
			return vis.Key("true")
		}
		return vis.Key("false")
	}
	return vis.Key(k.String())
}
