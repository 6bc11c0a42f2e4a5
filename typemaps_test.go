package dynser

import (
	"math/big"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/creachadair/mds/mapset"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTypeTable(t *testing.T) {
	n := 0
	for typ, tag := range Types() {
		n++
		if tag == TagNone || tag == TagUnknown {
			t.Errorf("type table maps %v to %v", typ, tag)
		}
		if got := Lookup(reflect.Zero(typ).Interface()); got != tag {
			t.Errorf("Lookup(zero %v) = %v, want %v", typ, got, tag)
		}
	}
	if n == 0 {
		t.Fatal("type table is empty")
	}

	for tag := TagNone; tag <= TagLocator; tag++ {
		if s := tag.String(); strings.HasPrefix(s, "Tag(") {
			t.Errorf("%d has no name", uint8(tag))
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in   any
		want Tag
	}{
		{nil, TagNone},
		{true, TagBool},
		{int8(1), TagInt},
		{uintptr(1), TagInt},
		{big.NewInt(1), TagInt},
		{1.5, TagFloat},
		{"s", TagText},
		{[]byte("b"), TagBinary},
		{map[string]any{}, TagMapping},
		{map[any]any{}, TagMapping},
		{NewMap(), TagMapping},
		{[]any{}, TagSequence},
		{Tuple{}, TagTuple},
		{mapset.New[any](), TagSet},
		{NewFrozenSet(), TagFrozenSet},

		// Identity only: named types, other map and slice types, and
		// pointers to known types are all unknown.
		{Name("x"), TagUnknown},
		{map[string]string{}, TagUnknown},
		{[]string{}, TagUnknown},
		{new(bool), TagUnknown},
		{Simple{}, TagUnknown},
		{make(chan int), TagUnknown},
	}
	for _, tc := range tests {
		if got := Lookup(tc.in); got != tc.want {
			t.Errorf("Lookup(%T) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCompoundTags(t *testing.T) {
	var got []Tag
	for tag := TagNone; tag <= TagLocator; tag++ {
		if tag.Compound() {
			got = append(got, tag)
		}
	}
	want := []Tag{TagMapping, TagSequence, TagTuple, TagSet, TagFrozenSet}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("compound tags wrong (-got+want):\n%s", diff)
	}
}

// Lookups and walks must be safe from many goroutines at once,
// including the first use of the type table and struct caches.
func TestConcurrentUse(t *testing.T) {
	type fresh struct {
		Simple
		Name  Name
		Items []any
	}
	in := &fresh{Simple{1, true}, "n", []any{NewMap("k", 1)}}
	want := vmap(
		"A", vint(1),
		"B", vbool(true),
		"Name", vstr("n"),
		"Items", vseq(vmap("k", vint(1))),
	)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Lookup(in); got != TagUnknown {
				errs <- "Lookup returned " + got.String()
				return
			}
			got, err := Serialize(in, nil)
			if err != nil {
				errs <- err.Error()
				return
			}
			if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
