//go:build dynser_noext

package dynser

import "reflect"

// extensionTypes returns no types: extension values were disabled at
// build time, and fall through to duck typing like any other unknown
// type.
func extensionTypes() map[reflect.Type]Tag {
	return nil
}
