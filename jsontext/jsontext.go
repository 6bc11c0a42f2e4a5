// Package jsontext writes structured output as JSON text.
package jsontext

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"math"

	"github.com/danderson/dynser"
	jsoniter "github.com/json-iterator/go"
)

// Options configures JSON output.
type Options struct {
	dynser.Options

	// Pretty indents output by two spaces per level.
	Pretty bool
	// Newline appends a newline after each top-level value.
	Newline bool
}

var (
	compactConfig = jsoniter.Config{}.Froze()
	prettyConfig  = jsoniter.Config{IndentionStep: 2}.Froze()
)

// Marshal returns the JSON encoding of v. On error, no output is
// returned.
func Marshal(v any, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = &Options{}
	}
	var buf bytes.Buffer
	w := NewWriter(&buf, opts)
	if opts.SortKeys {
		tree, err := dynser.Serialize(v, &opts.Options)
		if err != nil {
			return nil, err
		}
		if err := tree.Replay(w); err != nil {
			return nil, err
		}
	} else if err := dynser.Walk(v, w, &opts.Options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Writer is a fragments.Visitor that writes JSON text to an
// io.Writer. Output is flushed after each complete top-level value.
//
// NaN and infinite floats are written as null, and whole floats keep
// a ".0" fraction. Bytes are written as standard base64 text.
type Writer struct {
	stream  *jsoniter.Stream
	newline bool
	// frames are the open maps and sequences, innermost last.
	frames []frame
}

type frame struct {
	seq bool
	// n is the number of entries written so far.
	n int
}

// NewWriter returns a Writer that writes to out. Only the Pretty and
// Newline options are used.
func NewWriter(out io.Writer, opts *Options) *Writer {
	if opts == nil {
		opts = &Options{}
	}
	cfg := compactConfig
	if opts.Pretty {
		cfg = prettyConfig
	}
	return &Writer{
		stream:  jsoniter.NewStream(cfg, out, 512),
		newline: opts.Newline,
	}
}

var (
	errKeyOutsideMap = errors.New("json: map key written outside of a map")
	errUnbalanced    = errors.New("json: unbalanced end of map or sequence")
)

// value prepares the stream for a value, writing the separator
// required by the enclosing sequence, if any.
func (w *Writer) value() {
	if len(w.frames) == 0 {
		return
	}
	f := &w.frames[len(w.frames)-1]
	if !f.seq {
		// The key already wrote the separator.
		return
	}
	if f.n == 0 {
		w.stream.WriteArrayStart()
	} else {
		w.stream.WriteMore()
	}
	f.n++
}

// done finishes a value, and flushes the stream if it was a
// top-level value.
func (w *Writer) done() error {
	if w.stream.Error != nil {
		return w.stream.Error
	}
	if len(w.frames) > 0 {
		return nil
	}
	if w.newline {
		w.stream.WriteRaw("\n")
	}
	return w.stream.Flush()
}

func (w *Writer) pop(seq bool) (frame, error) {
	if len(w.frames) == 0 || w.frames[len(w.frames)-1].seq != seq {
		return frame{}, errUnbalanced
	}
	f := w.frames[len(w.frames)-1]
	w.frames = w.frames[:len(w.frames)-1]
	return f, nil
}

func (w *Writer) BeginMap(n int) error {
	w.value()
	w.frames = append(w.frames, frame{})
	return w.stream.Error
}

func (w *Writer) Key(k string) error {
	if len(w.frames) == 0 || w.frames[len(w.frames)-1].seq {
		return errKeyOutsideMap
	}
	f := &w.frames[len(w.frames)-1]
	if f.n == 0 {
		w.stream.WriteObjectStart()
	} else {
		w.stream.WriteMore()
	}
	f.n++
	w.stream.WriteObjectField(k)
	return w.stream.Error
}

func (w *Writer) EndMap() error {
	f, err := w.pop(false)
	if err != nil {
		return err
	}
	if f.n == 0 {
		w.stream.WriteEmptyObject()
	} else {
		w.stream.WriteObjectEnd()
	}
	return w.done()
}

func (w *Writer) BeginSeq(n int) error {
	w.value()
	w.frames = append(w.frames, frame{seq: true})
	return w.stream.Error
}

func (w *Writer) EndSeq() error {
	f, err := w.pop(true)
	if err != nil {
		return err
	}
	if f.n == 0 {
		w.stream.WriteEmptyArray()
	} else {
		w.stream.WriteArrayEnd()
	}
	return w.done()
}

func (w *Writer) Null() error {
	w.value()
	w.stream.WriteNil()
	return w.done()
}

func (w *Writer) Bool(b bool) error {
	w.value()
	w.stream.WriteBool(b)
	return w.done()
}

func (w *Writer) Int(i int64) error {
	w.value()
	w.stream.WriteInt64(i)
	return w.done()
}

func (w *Writer) Uint(u uint64) error {
	w.value()
	w.stream.WriteUint64(u)
	return w.done()
}

func (w *Writer) Float(f float64) error {
	w.value()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.stream.WriteNil()
	} else {
		start := len(w.stream.Buffer())
		w.stream.WriteFloat64(f)
		// Keep whole floats distinguishable from integers.
		if !bytes.ContainsAny(w.stream.Buffer()[start:], ".eE") {
			w.stream.WriteRaw(".0")
		}
	}
	return w.done()
}

func (w *Writer) String(s string) error {
	w.value()
	w.stream.WriteString(s)
	return w.done()
}

func (w *Writer) Bytes(bs []byte) error {
	w.value()
	w.stream.WriteString(base64.StdEncoding.EncodeToString(bs))
	return w.done()
}
