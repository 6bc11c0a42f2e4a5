//go:build !dynser_noext

package dynser

import (
	"net/url"
	"reflect"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// extensionTypes returns the extension value types recognized by
// identity. Build with the dynser_noext tag to disable them.
func extensionTypes() map[reflect.Type]Tag {
	return map[reflect.Type]Tag{
		reflect.TypeFor[civil.Date]():     TagDate,
		reflect.TypeFor[civil.Time]():     TagTime,
		reflect.TypeFor[civil.DateTime](): TagDateTime,
		reflect.TypeFor[time.Time]():      TagZonedDateTime,
		reflect.TypeFor[time.Duration]():  TagDuration,
		reflect.TypeFor[uuid.UUID]():      TagOpaqueID,
		reflect.TypeFor[url.URL]():        TagLocator,
		reflect.TypeFor[*url.URL]():       TagLocator,
	}
}
