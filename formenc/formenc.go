// Package formenc writes structured output as URL form encoding,
// key=value pairs joined by '&'.
package formenc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/danderson/dynser"
)

// ErrNotFlat is returned when a value cannot be represented as form
// pairs: the top-level value must be a map, whose values are scalars
// or sequences of scalars.
var ErrNotFlat = errors.New("form encoding requires a flat map")

// Marshal returns the form encoding of v. Map entries are written in
// output order, sequence values repeat their key once per element.
func Marshal(v any, opts *dynser.Options) (string, error) {
	var out strings.Builder
	w := NewWriter(&out)
	if opts != nil && opts.SortKeys {
		tree, err := dynser.Serialize(v, opts)
		if err != nil {
			return "", err
		}
		if err := tree.Replay(w); err != nil {
			return "", err
		}
	} else if err := dynser.Walk(v, w, opts); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Writer is a fragments.Visitor that writes form encoding to an
// io.Writer.
type Writer struct {
	out io.Writer
	// depth is 0 outside the top-level map, 1 inside it, 2 inside a
	// sequence value.
	depth int
	key   string
	pairs int
}

// NewWriter returns a Writer that writes to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func notFlat(what string) error {
	return fmt.Errorf("formenc: %w: unexpected %s", ErrNotFlat, what)
}

func (w *Writer) pair(val string) error {
	if w.depth == 0 {
		return notFlat("top-level scalar")
	}
	sep := "&"
	if w.pairs == 0 {
		sep = ""
	}
	w.pairs++
	_, err := io.WriteString(w.out, sep+url.QueryEscape(w.key)+"="+url.QueryEscape(val))
	return err
}

func (w *Writer) BeginMap(n int) error {
	if w.depth != 0 {
		return notFlat("nested map")
	}
	w.depth = 1
	return nil
}

func (w *Writer) Key(k string) error {
	if w.depth != 1 {
		return notFlat("map key")
	}
	w.key = k
	return nil
}

func (w *Writer) EndMap() error {
	if w.depth != 1 {
		return notFlat("end of map")
	}
	w.depth = 0
	return nil
}

func (w *Writer) BeginSeq(n int) error {
	if w.depth != 1 {
		return notFlat("nested sequence")
	}
	w.depth = 2
	return nil
}

func (w *Writer) EndSeq() error {
	if w.depth != 2 {
		return notFlat("end of sequence")
	}
	w.depth = 1
	return nil
}

func (w *Writer) Null() error { return w.pair("") }

func (w *Writer) Bool(b bool) error { return w.pair(strconv.FormatBool(b)) }

func (w *Writer) Int(i int64) error { return w.pair(strconv.FormatInt(i, 10)) }

func (w *Writer) Uint(u uint64) error { return w.pair(strconv.FormatUint(u, 10)) }

func (w *Writer) Float(f float64) error { return w.pair(strconv.FormatFloat(f, 'g', -1, 64)) }

func (w *Writer) String(s string) error { return w.pair(s) }

func (w *Writer) Bytes(bs []byte) error {
	return w.pair(base64.StdEncoding.EncodeToString(bs))
}
