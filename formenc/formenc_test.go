package formenc_test

import (
	"errors"
	"testing"

	"github.com/danderson/dynser"
	"github.com/danderson/dynser/formenc"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		opts *dynser.Options
		want string
	}{
		{"empty", dynser.NewMap(), nil, ""},
		{"pairs", dynser.NewMap("b", 1, "a", "x y"), nil, "b=1&a=x+y"},
		{"sorted", dynser.NewMap("b", 1, "a", 2), &dynser.Options{SortKeys: true}, "a=2&b=1"},
		{"escaping", dynser.NewMap("k&=", "v&="), nil, "k%26%3D=v%26%3D"},
		{"repeated key", dynser.NewMap("t", []any{"x", "y"}, "n", 1.5), nil, "t=x&t=y&n=1.5"},
		{"scalars", dynser.NewMap("b", true, "u", uint8(7), "z", nil, "bs", []byte("hi")), nil, "b=true&u=7&z=&bs=aGk%3D"},
		{"struct", struct {
			Name string
			Age  int
		}{"ann", 30}, nil, "Name=ann&Age=30"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formenc.Marshal(tc.in, tc.opts)
			if err != nil {
				t.Fatalf("Marshal() got err: %v", err)
			}
			if got != tc.want {
				t.Errorf("Marshal() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMarshalNotFlat(t *testing.T) {
	for _, in := range []any{
		1,
		[]any{1},
		dynser.NewMap("m", dynser.NewMap("x", 1)),
		dynser.NewMap("l", []any{[]any{1}}),
	} {
		if _, err := formenc.Marshal(in, nil); !errors.Is(err, formenc.ErrNotFlat) {
			t.Errorf("Marshal(%#v) got err %v, want ErrNotFlat", in, err)
		}
	}
}
