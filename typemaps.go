package dynser

import (
	"fmt"
	"iter"
	"maps"
	"math/big"
	"reflect"
	"sync"

	"github.com/creachadair/mds/mapset"
	"go.uber.org/zap"
)

// A Tag identifies the shape of a value whose type is recognized by
// identity.
type Tag uint8

const (
	TagNone Tag = iota
	TagBool
	TagInt
	TagFloat
	TagText
	TagBinary
	TagMapping
	TagSequence
	TagTuple
	TagSet
	TagFrozenSet
	TagDate
	TagDateTime
	TagTime
	TagDuration
	TagZonedDateTime
	TagOpaqueID
	TagUnknown

	// Extension tags beyond the core set.

	TagLocator
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagText:
		return "text"
	case TagBinary:
		return "binary"
	case TagMapping:
		return "mapping"
	case TagSequence:
		return "sequence"
	case TagTuple:
		return "tuple"
	case TagSet:
		return "set"
	case TagFrozenSet:
		return "frozenset"
	case TagDate:
		return "date"
	case TagDateTime:
		return "datetime"
	case TagTime:
		return "time"
	case TagDuration:
		return "duration"
	case TagZonedDateTime:
		return "zoned-datetime"
	case TagOpaqueID:
		return "opaque-id"
	case TagUnknown:
		return "unknown"
	case TagLocator:
		return "locator"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// compoundTags are the tags of values that contain other values, and
// so cost one level of depth to walk.
var compoundTags = mapset.New(
	TagMapping,
	TagSequence,
	TagTuple,
	TagSet,
	TagFrozenSet,
)

// Compound reports whether values with this tag contain other values.
func (t Tag) Compound() bool {
	return compoundTags.Has(t)
}

var bigIntType = reflect.TypeFor[*big.Int]()

var (
	typeTableOnce sync.Once
	// typeTable maps the exact type of a value to its Tag. It is
	// built once and never modified afterwards.
	typeTable map[reflect.Type]Tag
)

func getTypeTable() map[reflect.Type]Tag {
	typeTableOnce.Do(func() {
		t := map[reflect.Type]Tag{
			reflect.TypeFor[bool](): TagBool,

			reflect.TypeFor[int]():     TagInt,
			reflect.TypeFor[int8]():    TagInt,
			reflect.TypeFor[int16]():   TagInt,
			reflect.TypeFor[int32]():   TagInt,
			reflect.TypeFor[int64]():   TagInt,
			reflect.TypeFor[uint]():    TagInt,
			reflect.TypeFor[uint8]():   TagInt,
			reflect.TypeFor[uint16]():  TagInt,
			reflect.TypeFor[uint32]():  TagInt,
			reflect.TypeFor[uint64]():  TagInt,
			reflect.TypeFor[uintptr](): TagInt,
			bigIntType:                 TagInt,

			reflect.TypeFor[float32](): TagFloat,
			reflect.TypeFor[float64](): TagFloat,

			reflect.TypeFor[string](): TagText,
			reflect.TypeFor[[]byte](): TagBinary,

			reflect.TypeFor[map[string]any](): TagMapping,
			reflect.TypeFor[map[any]any]():    TagMapping,
			reflect.TypeFor[*Map]():           TagMapping,

			reflect.TypeFor[[]any]():            TagSequence,
			reflect.TypeFor[Tuple]():            TagTuple,
			reflect.TypeFor[mapset.Set[any]](): TagSet,
			reflect.TypeFor[FrozenSet]():        TagFrozenSet,
		}
		ext := extensionTypes()
		maps.Copy(t, ext)
		typeTable = t
		Logger().Debug("built type table",
			zap.Int("types", len(t)),
			zap.Int("extension_types", len(ext)))
	})
	return typeTable
}

// Lookup returns the Tag of v's exact type, or TagUnknown if the
// type is not recognized by identity. A nil v is TagNone.
//
// Lookup does not consider named types, interface implementations or
// underlying kinds. Values with unknown tags may still be
// serializable through duck typing, see [Walk].
func Lookup(v any) Tag {
	if v == nil {
		return TagNone
	}
	return lookupType(reflect.TypeOf(v))
}

func lookupType(t reflect.Type) Tag {
	if tag, ok := getTypeTable()[t]; ok {
		return tag
	}
	return TagUnknown
}

// Types returns an iterator over the type table, i.e. every type
// recognized by identity and its Tag. Iteration order is unspecified.
func Types() iter.Seq2[reflect.Type, Tag] {
	return maps.All(getTypeTable())
}
