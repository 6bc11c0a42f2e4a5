package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danderson/dynser"
	"github.com/danderson/dynser/jsontext"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `null`},
		{"document order", "b: 1\na: [x, 2.5, true, null]\n", `{"b":1,"a":["x",2.5,true,null]}`},
		{"json", `{"z": {"y": []}, "x": "w"}`, `{"z":{"y":[]},"x":"w"}`},
		{"quoted number", "'123'", `"123"`},
		{"alias", "a: &x [1]\nb: *x\n", `{"a":[1],"b":[1]}`},
		{"nested alias", "a: &x {k: [1]}\nb: [*x, *x]\n", `{"a":{"k":[1]},"b":[{"k":[1]},{"k":[1]}]}`},
		{"bool key", "true: a\nfalse: b\n", `{"true":"a","false":"b"}`},
		{"quoted int key", "'1': a\n", `{"1":"a"}`},
		{"uint64", "18446744073709551615", `18446744073709551615`},
		{"binary", "!!binary aGk=", `"aGk="`},
		{"timestamp", "!!timestamp 2001-12-14T21:59:43.10-05:00", `"2001-12-14T21:59:43.100000-05:00"`},
		{"date", "!date 2024-01-01", `"2024-01-01"`},
		{"time", "!time 01:02:03.5", `"01:02:03.500000"`},
		{"datetime", "!datetime 2024-01-01T01:02:03", `"2024-01-01T01:02:03"`},
		{"duration", "!duration 1h30m", `"PT1H30M"`},
		{"uuid", "!uuid 6BA7B810-9DAD-11D1-80B4-00C04FD430C8", `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`},
		{"url", "!url https://example.com/a?b=c", `"https://example.com/a?b=c"`},
		{"tuple", "!tuple [1, '2']", `[1,"2"]`},
		{"set", "!set [x]", `["x"]`},
		{"frozenset", "!frozenset [1]", `[1]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := decodeInput(strings.NewReader(tc.in))
			if err != nil {
				t.Fatalf("decodeInput(%q) got err: %v", tc.in, err)
			}
			got, err := jsontext.Marshal(v, nil)
			if err != nil {
				t.Fatalf("Marshal(%v) got err: %v", v, err)
			}
			if diff := cmp.Diff(string(got), tc.want); diff != "" {
				t.Errorf("decodeInput(%q) wrong JSON (-got+want):\n%s", tc.in, diff)
			}
		})
	}
}

func TestDecodeInputErrors(t *testing.T) {
	for _, in := range []string{
		"a: [",
		"!date nope",
		"!duration forever",
		"!uuid nope",
		"!set [[1]]",
		"? [1]\n: x\n",
		"&x [1, *x]",
		"a: &x [1, *x]\n",
		"a: &x {b: [*x]}\n",
		strings.Repeat("[", dynser.MaxDepth+1) + strings.Repeat("]", dynser.MaxDepth+1),
		aliasBomb(9),
	} {
		if v, err := decodeInput(strings.NewReader(in)); err == nil {
			t.Errorf("decodeInput(%q) = %v, want error", in, v)
		}
	}
}

// aliasBomb returns a document whose aliases expand to 10^levels
// values.
func aliasBomb(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= levels; i++ {
		p := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.Repeat(p+", ", 9)+p)
	}
	return b.String()
}

func TestDecodeInputSelfAlias(t *testing.T) {
	_, err := decodeInput(strings.NewReader("a: &x [1, *x]\n"))
	if err == nil || !strings.Contains(err.Error(), "alias *x refers to itself") {
		t.Errorf("decodeInput() got err %v, want self-reference error", err)
	}
}

func TestDecodeInputDepth(t *testing.T) {
	in := strings.Repeat("[", dynser.MaxDepth) + strings.Repeat("]", dynser.MaxDepth)
	v, err := decodeInput(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decodeInput() of %d nested lists got err: %v", dynser.MaxDepth, err)
	}
	if _, err := jsontext.Marshal(v, nil); err != nil {
		t.Errorf("Marshal() of %d nested lists got err: %v", dynser.MaxDepth, err)
	}
}

func TestDecodeInputKeys(t *testing.T) {
	for _, in := range []string{"1: a\n", "k: 1\n2.5: b\n", "null: c\n"} {
		v, err := decodeInput(strings.NewReader(in))
		if err != nil {
			t.Fatalf("decodeInput(%q) got err: %v", in, err)
		}
		got, err := jsontext.Marshal(v, nil)
		var terr dynser.TypeError
		if !errors.As(err, &terr) {
			t.Errorf("Marshal(%q) = %s, %v, want TypeError", in, got, err)
		}
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	if err := os.WriteFile(path, []byte("k: v\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	v, err := readInput([]string{path})
	if err != nil {
		t.Fatalf("readInput() got err: %v", err)
	}
	got, err := jsontext.Marshal(v, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"k":"v"}` {
		t.Errorf("readInput() decoded to %s, want {\"k\":\"v\"}", got)
	}

	if _, err := readInput([]string{path, path}); err == nil {
		t.Errorf("readInput() with two files succeeded")
	}
	if _, err := readInput([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Errorf("readInput() of missing file succeeded")
	}
}
