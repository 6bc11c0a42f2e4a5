package fragments

import (
	"errors"
)

// An Encoder provides utilities to write well-formed structured
// output to a [Visitor].
type Encoder struct {
	// Out receives the encoded output.
	Out Visitor
	// Mapper serializes arbitrary values given to [Encoder.Value]. If
	// Mapper is nil, the Encoder functions normally except that
	// [Encoder.Value] always returns an error.
	Mapper func(v any) error
}

// Map writes a map to the output.
//
// Map entries must be added within the provided entries function, as
// a call to [Encoder.Key] followed by exactly one value. n is the
// number of entries, or -1 if unknown.
func (e *Encoder) Map(n int, entries func() error) error {
	if err := e.Out.BeginMap(n); err != nil {
		return err
	}
	if err := entries(); err != nil {
		return err
	}
	return e.Out.EndMap()
}

// Seq writes a sequence to the output.
//
// Sequence elements must be added within the provided elements
// function. n is the number of elements, or -1 if unknown.
func (e *Encoder) Seq(n int, elements func() error) error {
	if err := e.Out.BeginSeq(n); err != nil {
		return err
	}
	if err := elements(); err != nil {
		return err
	}
	return e.Out.EndSeq()
}

// Key writes a map key.
func (e *Encoder) Key(k string) error { return e.Out.Key(k) }

// Null writes a null.
func (e *Encoder) Null() error { return e.Out.Null() }

// Bool writes a bool.
func (e *Encoder) Bool(b bool) error { return e.Out.Bool(b) }

// Int writes an int64.
func (e *Encoder) Int(i int64) error { return e.Out.Int(i) }

// Uint writes a uint64.
func (e *Encoder) Uint(u uint64) error { return e.Out.Uint(u) }

// Float writes a float64.
func (e *Encoder) Float(f float64) error { return e.Out.Float(f) }

// String writes s.
func (e *Encoder) String(s string) error { return e.Out.String(s) }

// Bytes writes bs as an opaque binary value.
func (e *Encoder) Bytes(bs []byte) error { return e.Out.Bytes(bs) }

// Value writes v to the output, using [Encoder.Mapper].
func (e *Encoder) Value(v any) error {
	if e.Mapper == nil {
		return errors.New("Mapper not provided to Encoder")
	}
	return e.Mapper(v)
}
