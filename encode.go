package dynser

import (
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"time"

	"cloud.google.com/go/civil"
	"github.com/creachadair/mds/mapset"
	"github.com/danderson/dynser/fragments"
	"github.com/google/uuid"
)

// maxSafeInt is the largest integer magnitude that binary64 floats
// represent exactly, for Options.StrictInteger.
const maxSafeInt = 1<<53 - 1

func (s state) none(vis fragments.Visitor) error {
	if s.opts.NoneValue != nil {
		return vis.String(*s.opts.NoneValue)
	}
	return vis.Null()
}

// scalar emits a value whose tag is neither unknown nor compound.
func (s state) scalar(vis fragments.Visitor, tag Tag, v reflect.Value) error {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return s.none(vis)
	}

	switch tag {
	case TagBool:
		return vis.Bool(v.Bool())
	case TagInt:
		if v.Type() == bigIntType {
			return s.bigInt(vis, v.Interface().(*big.Int))
		}
		return s.integer(vis, v)
	case TagFloat:
		return vis.Float(v.Float())
	case TagText:
		return vis.String(v.String())
	case TagBinary:
		return vis.Bytes(v.Bytes())
	}
	return s.extension(vis, tag, v)
}

func (s state) integer(vis fragments.Visitor, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if s.opts.StrictInteger && (i > maxSafeInt || i < -maxSafeInt) {
			return overflowErr(v.Type(), "value", "%d exceeds the 53-bit integer range", i)
		}
		return vis.Int(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if s.opts.StrictInteger && u > maxSafeInt {
			return overflowErr(v.Type(), "value", "%d exceeds the 53-bit integer range", u)
		}
		return vis.Uint(u)
	default:
		panic(fmt.Sprintf("integer called on non-integer %s", v.Type()))
	}
}

func (s state) bigInt(vis fragments.Visitor, b *big.Int) error {
	switch {
	case s.opts.StrictInteger && b.CmpAbs(big.NewInt(maxSafeInt)) > 0:
		return overflowErr(bigIntType, "value", "%s exceeds the 53-bit integer range", b)
	case b.IsInt64():
		return vis.Int(b.Int64())
	case b.IsUint64():
		return vis.Uint(b.Uint64())
	default:
		return overflowErr(bigIntType, "value", "%s does not fit in 64 bits", b)
	}
}

// extension emits the canonical text of an extension value.
func (s state) extension(vis fragments.Visitor, tag Tag, v reflect.Value) error {
	var (
		bs  []byte
		err error
	)
	switch tag {
	case TagDate:
		bs, err = appendDate(nil, v.Interface().(civil.Date), v.Type())
	case TagTime:
		bs, err = appendTime(nil, v.Interface().(civil.Time), v.Type(), s.text)
	case TagDateTime:
		bs, err = appendDateTime(nil, v.Interface().(civil.DateTime), v.Type(), s.text)
	case TagZonedDateTime:
		bs, err = appendZoned(nil, v.Interface().(time.Time), s.text)
	case TagDuration:
		bs = appendDuration(nil, time.Duration(v.Int()))
	case TagOpaqueID:
		return vis.String(FormatUUID(v.Interface().(uuid.UUID)))
	case TagLocator:
		if v.Kind() == reflect.Pointer {
			v = v.Elem()
		}
		u := v.Interface().(url.URL)
		return vis.String(FormatURL(&u))
	default:
		panic(fmt.Sprintf("no emitter for %s tag of %s", tag, v.Type()))
	}
	if err != nil {
		return err
	}
	return vis.String(string(bs))
}

// compound walks a value whose tag is compound. s is already one
// level deeper than the value itself.
func (s state) compound(vis fragments.Visitor, tag Tag, v reflect.Value) error {
	switch tag {
	case TagMapping:
		if v.Type() == reflect.TypeFor[*Map]() {
			if v.IsNil() {
				return s.none(vis)
			}
			return s.mapLike(vis, v.Interface().(*Map))
		}
		return s.reflectMap(vis, v)
	case TagSequence, TagTuple:
		return s.reflectSeq(vis, v)
	case TagSet:
		return s.reflectSet(vis, v.Interface().(mapset.Set[any]))
	case TagFrozenSet:
		return s.seqLike(vis, v.Interface().(FrozenSet))
	default:
		panic(fmt.Sprintf("no walker for %s tag of %s", tag, v.Type()))
	}
}
