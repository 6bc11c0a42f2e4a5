package fragments_test

import (
	"errors"
	"testing"

	"github.com/danderson/dynser/fragments"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEncoder(t *testing.T) {
	tests := []struct {
		name string
		in   func(*fragments.Encoder) error
		want any
	}{
		{
			"scalars",
			func(e *fragments.Encoder) error {
				return e.Seq(-1, func() error {
					e.Null()
					e.Bool(true)
					e.Int(-1)
					e.Uint(2)
					e.Float(0.5)
					e.String("s")
					return e.Bytes([]byte{1, 2})
				})
			},
			[]any{nil, true, int64(-1), uint64(2), 0.5, "s", []byte{1, 2}},
		},

		{
			"map",
			func(e *fragments.Encoder) error {
				return e.Map(2, func() error {
					e.Key("a")
					e.Int(1)
					e.Key("b")
					return e.Seq(0, func() error { return nil })
				})
			},
			map[string]any{"a": int64(1), "b": []any{}},
		},

		{
			"mapper",
			func(e *fragments.Encoder) error {
				return e.Map(1, func() error {
					e.Key("v")
					return e.Value(42)
				})
			},
			map[string]any{"v": "mapped 42"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b fragments.Builder
			e := fragments.Encoder{
				Out: &b,
				Mapper: func(v any) error {
					return b.String("mapped 42")
				},
			}
			if err := tc.in(&e); err != nil {
				t.Fatalf("encoding failed: %v", err)
			}
			got, err := b.Result()
			if err != nil {
				t.Fatalf("Result() got err: %v", err)
			}
			if diff := cmp.Diff(got.Interface(), tc.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("wrong output (-got+want):\n%s", diff)
			}
		})
	}
}

func TestEncoderErrors(t *testing.T) {
	var b fragments.Builder
	e := fragments.Encoder{Out: &b}
	if err := e.Value(1); err == nil {
		t.Errorf("Value() without Mapper succeeded")
	}

	errBody := errors.New("body failed")
	err := e.Map(1, func() error { return errBody })
	if !errors.Is(err, errBody) {
		t.Errorf("Map() got err %v, want %v", err, errBody)
	}
	if _, err := b.Result(); err == nil {
		t.Errorf("Result() after failed Map succeeded")
	}
}
